package configuration

import (
	"encoding/json"
	"io"
	"sort"
	"sync"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"

	"github.com/TopiaNetwork/contractconf/codec"
)

var defConfig *Configuration
var once sync.Once

// Configuration is the loaded toolchain record. It is immutable once
// returned by a loader and safe for concurrent readers.
type Configuration struct {
	networks  map[string]NetworkProfile
	compilers map[string]CompilerProfile
}

// configurationView is the encoded shape of a Configuration.
type configurationView struct {
	Networks  map[string]NetworkProfile  `json:"networks" yaml:"networks"`
	Compilers map[string]CompilerProfile `json:"compilers" yaml:"compilers"`
}

// Default returns the bundled record, loading it on first use.
func Default() *Configuration {
	once.Do(func() {
		cfg, err := LoadDefault()
		if err != nil {
			panic("Load default configuration err: " + err.Error())
		}
		defConfig = cfg
	})

	return defConfig
}

func (c *Configuration) Get(environmentName string) (NetworkProfile, error) {
	p, ok := c.networks[environmentName]
	if !ok {
		return NetworkProfile{}, &NotFoundError{Kind: "network", Name: environmentName}
	}
	return p, nil
}

func (c *Configuration) Compiler(name string) (CompilerProfile, error) {
	p, ok := c.compilers[name]
	if !ok {
		return CompilerProfile{}, &NotFoundError{Kind: "compiler", Name: name}
	}
	return p, nil
}

// DefaultCompiler returns the solc profile, or the only profile when a
// single other compiler is configured.
func (c *Configuration) DefaultCompiler() (CompilerProfile, error) {
	if p, ok := c.compilers[DefaultCompilerName]; ok {
		return p, nil
	}
	if len(c.compilers) == 1 {
		for _, p := range c.compilers {
			return p, nil
		}
	}

	return CompilerProfile{}, &NotFoundError{Kind: "compiler", Name: DefaultCompilerName}
}

func (c *Configuration) NetworkNames() []string {
	return sortedKeys(c.networks)
}

func (c *Configuration) CompilerNames() []string {
	return sortedKeys(c.compilers)
}

func sortedKeys[V any](m map[string]V) []string {
	names := make([]string, 0, len(m))
	for name := range m {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func (c *Configuration) view() configurationView {
	v := configurationView{
		Networks:  make(map[string]NetworkProfile, len(c.networks)),
		Compilers: make(map[string]CompilerProfile, len(c.compilers)),
	}
	for k, p := range c.networks {
		v.Networks[k] = p
	}
	for k, p := range c.compilers {
		v.Compilers[k] = p
	}
	return v
}

func (c *Configuration) MarshalJSON() ([]byte, error) {
	return json.Marshal(c.view())
}

func (c *Configuration) MarshalYAML() (interface{}, error) {
	return c.view(), nil
}

// Encode writes the record in the given format. The output loads back into
// an equal record.
func (c *Configuration) Encode(codecType codec.CodecType, w io.Writer) error {
	return codec.CreateEncoder(codecType, w).Encode(c)
}

// Fingerprint is the Keccak-256 hash of the canonical JSON encoding. Equal
// records always share a fingerprint.
func (c *Configuration) Fingerprint() common.Hash {
	data, err := json.Marshal(c.view())
	if err != nil {
		// a view holds only strings and ints
		panic("marshal configuration view: " + err.Error())
	}
	return crypto.Keccak256Hash(data)
}
