package configuration

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/hashicorp/go-multierror"
	"github.com/joho/godotenv"

	"github.com/TopiaNetwork/contractconf/codec"
	tplog "github.com/TopiaNetwork/contractconf/log"
)

var errTrailingContent = errors.New("trailing content after declaration")

type loadOptions struct {
	log       tplog.Logger
	envLookup envLookupFunc
	envFile   string
}

type Option func(*loadOptions)

func WithLogger(log tplog.Logger) Option {
	return func(o *loadOptions) {
		o.log = log
	}
}

// WithEnvLookup enables variable overlays, typically with os.LookupEnv.
func WithEnvLookup(lookup func(key string) (string, bool)) Option {
	return func(o *loadOptions) {
		o.envLookup = lookup
	}
}

// WithEnvFile reads overlay variables from a dotenv file. Values from the
// WithEnvLookup source win over the file.
func WithEnvFile(path string) Option {
	return func(o *loadOptions) {
		o.envFile = path
	}
}

func newLoadOptions(opts []Option) *loadOptions {
	o := &loadOptions{
		log: tplog.NewNopLogger(),
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

func (o *loadOptions) lookup() (envLookupFunc, error) {
	if o.envFile == "" {
		return o.envLookup, nil
	}

	fileEnv, err := godotenv.Read(o.envFile)
	if err != nil {
		return nil, fmt.Errorf("read env file %s: %w", o.envFile, err)
	}

	primary := o.envLookup
	return func(key string) (string, bool) {
		if primary != nil {
			if v, ok := primary(key); ok {
				return v, true
			}
		}
		v, ok := fileEnv[key]
		return v, ok
	}, nil
}

// Load reads a JSON or YAML declaration; the format follows the extension.
func Load(path string, opts ...Option) (*Configuration, error) {
	codecType, err := codec.CodecTypeFromPath(path)
	if err != nil {
		return nil, newConfigurationError(path, multierror.Append(nil, err))
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, newConfigurationError(path, multierror.Append(nil, err))
	}

	return load(path, data, codecType, newLoadOptions(opts))
}

func LoadBytes(data []byte, codecType codec.CodecType, opts ...Option) (*Configuration, error) {
	return load("inline "+codecType.String(), data, codecType, newLoadOptions(opts))
}

// LoadDefault loads the bundled declaration.
func LoadDefault(opts ...Option) (*Configuration, error) {
	return load(DefaultSource, defaultDeclaration, codec.CodecType_JSON, newLoadOptions(opts))
}

func load(source string, data []byte, codecType codec.CodecType, o *loadOptions) (*Configuration, error) {
	cfg, problems := decodeAndBuild(data, codecType, o)
	if err := problems.ErrorOrNil(); err != nil {
		cErr := newConfigurationError(source, problems)
		o.log.Errorf("load configuration %s failed with %d problem(s)", source, len(problems.Errors))
		return nil, cErr
	}

	o.log.Debugf("loaded configuration %s: networks=%v compilers=%v fingerprint=%s",
		source, cfg.NetworkNames(), cfg.CompilerNames(), cfg.Fingerprint().Hex())

	return cfg, nil
}

func decodeAndBuild(data []byte, codecType codec.CodecType, o *loadOptions) (*Configuration, *multierror.Error) {
	var problems *multierror.Error

	if codecType != codec.CodecType_JSON && codecType != codec.CodecType_YAML {
		return nil, multierror.Append(problems, fmt.Errorf("unsupported codec %s", codecType))
	}

	if len(bytes.TrimSpace(data)) == 0 {
		return nil, multierror.Append(problems, errors.New("empty declaration"))
	}

	if codecType == codec.CodecType_JSON {
		if dups := scanJSONDuplicates(data); len(dups) > 0 {
			return nil, multierror.Append(problems, dups...)
		}
	}

	var f fileConfig
	dec := codec.CreateDecoder(codecType, bytes.NewReader(data))
	if err := dec.Decode(&f); err != nil {
		if errors.Is(err, io.EOF) {
			err = errors.New("empty declaration")
		}
		return nil, multierror.Append(problems, fmt.Errorf("decode %s: %w", codecType, err))
	}

	// one declaration per file: a second value or document is never merged
	var rest interface{}
	if err := dec.Decode(&rest); !errors.Is(err, io.EOF) {
		return nil, multierror.Append(problems, errTrailingContent)
	}

	lookup, err := o.lookup()
	if err != nil {
		return nil, multierror.Append(problems, err)
	}
	problems = mergeEnv(&f, lookup, problems)

	return build(&f, problems)
}
