package configuration

import (
	"bytes"
	"errors"
	"math/big"
	"os"
	"path/filepath"
	"reflect"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/TopiaNetwork/contractconf/codec"
)

func TestDefaultDevelopmentNetwork(t *testing.T) {
	cfg, err := LoadDefault()
	require.NoError(t, err)

	p, err := cfg.Get("development")
	assert.Equal(t, nil, err)
	assert.Equal(t, NetworkProfile{Host: "127.0.0.1", Port: 7545, NetworkID: WildcardNetworkID}, p)
	assert.Equal(t, "http://127.0.0.1:7545", p.URL())
	assert.Equal(t, []string{"development"}, cfg.NetworkNames())
}

func TestDefaultCompiler(t *testing.T) {
	cfg, err := LoadDefault()
	require.NoError(t, err)

	c, err := cfg.DefaultCompiler()
	assert.Equal(t, nil, err)
	assert.Equal(t, CompilerProfile{Version: "0.8.0"}, c)
}

func TestGetNonexistent(t *testing.T) {
	cfg := Default()

	_, err := cfg.Get("nonexistent")
	require.Error(t, err)

	var nf *NotFoundError
	require.True(t, errors.As(err, &nf))
	assert.Equal(t, "network", nf.Kind)
	assert.Equal(t, "nonexistent", nf.Name)
	assert.True(t, errors.Is(err, ErrNotFound))
}

func TestDefaultCompilerSelection(t *testing.T) {
	none, err := LoadBytes([]byte(`{"networks":{}}`), codec.CodecType_JSON)
	require.NoError(t, err)
	_, err = none.DefaultCompiler()
	assert.True(t, errors.Is(err, ErrNotFound))

	single, err := LoadBytes([]byte(`{"compilers":{"vyper":{"version":"0.3.7"}}}`), codec.CodecType_JSON)
	require.NoError(t, err)
	c, err := single.DefaultCompiler()
	assert.Equal(t, nil, err)
	assert.Equal(t, "0.3.7", c.Version)

	several, err := LoadBytes([]byte(`{"compilers":{"vyper":{"version":"0.3.7"},"solc":{"version":"0.8.0"}}}`), codec.CodecType_JSON)
	require.NoError(t, err)
	c, err = several.DefaultCompiler()
	assert.Equal(t, nil, err)
	assert.Equal(t, "0.8.0", c.Version)

	ambiguous, err := LoadBytes([]byte(`{"compilers":{"vyper":{"version":"0.3.7"},"solang":{"version":"0.3.0"}}}`), codec.CodecType_JSON)
	require.NoError(t, err)
	_, err = ambiguous.DefaultCompiler()
	assert.True(t, errors.Is(err, ErrNotFound))
}

func TestLoadIsDeterministic(t *testing.T) {
	a, err := LoadDefault()
	require.NoError(t, err)
	b, err := LoadDefault()
	require.NoError(t, err)

	assert.True(t, reflect.DeepEqual(a, b))
	assert.Equal(t, a.Fingerprint(), b.Fingerprint())
	assert.NotSame(t, a, b)
}

func TestFingerprintTracksContent(t *testing.T) {
	a, err := LoadBytes([]byte(`{"networks":{"development":{"host":"127.0.0.1","port":7545,"network_id":"*"}}}`), codec.CodecType_JSON)
	require.NoError(t, err)
	b, err := LoadBytes([]byte(`{"networks":{"development":{"host":"127.0.0.1","port":8545,"network_id":"*"}}}`), codec.CodecType_JSON)
	require.NoError(t, err)

	assert.NotEqual(t, a.Fingerprint(), b.Fingerprint())
}

func TestPortOutOfRange(t *testing.T) {
	_, err := Load(filepath.Join("testdata", "bad_port.json"))
	require.Error(t, err)

	var cErr *ConfigurationError
	require.True(t, errors.As(err, &cErr))
	assert.Equal(t, filepath.Join("testdata", "bad_port.json"), cErr.Source)
	require.Len(t, cErr.Problems(), 1)
	assert.Contains(t, cErr.Problems()[0].Error(), "networks.development.port")
	assert.Contains(t, err.Error(), "70000 out of range")
}

func TestAllProblemsReportedTogether(t *testing.T) {
	src := `{
		"networks": {
			"development": {"port": 0, "network_id": "abc"},
			"staging": {"host": "10.0.0.2", "port": 8545}
		},
		"compilers": {"solc": {}}
	}`
	_, err := LoadBytes([]byte(src), codec.CodecType_JSON)

	var cErr *ConfigurationError
	require.True(t, errors.As(err, &cErr))

	var msgs []string
	for _, p := range cErr.Problems() {
		msgs = append(msgs, p.Error())
	}
	assert.Equal(t, []string{
		"networks.development.host: missing required field",
		"networks.development.port: 0 out of range [1, 65535]",
		`networks.development.network_id: "abc" is neither a decimal id nor "*"`,
		"networks.staging.network_id: missing required field",
		"compilers.solc.version: missing required field",
	}, msgs)
}

func TestValidRecordPortsInRange(t *testing.T) {
	cfg, err := Load(filepath.Join("testdata", "networks.yaml"))
	require.NoError(t, err)

	for _, name := range cfg.NetworkNames() {
		p, err := cfg.Get(name)
		require.NoError(t, err)
		assert.GreaterOrEqual(t, p.Port, MinPort)
		assert.LessOrEqual(t, p.Port, MaxPort)
	}

	ropsten, err := cfg.Get("ropsten")
	require.NoError(t, err)
	assert.Equal(t, NetworkID("3"), ropsten.NetworkID)

	c, err := cfg.DefaultCompiler()
	require.NoError(t, err)
	assert.Equal(t, "^0.8.0", c.Version)
}

func TestNumericNetworkIDInJSON(t *testing.T) {
	cfg, err := LoadBytes([]byte(`{"networks":{"ganache":{"host":"localhost","port":8545,"network_id":5777}}}`), codec.CodecType_JSON)
	require.NoError(t, err)

	p, err := cfg.Get("ganache")
	require.NoError(t, err)
	assert.Equal(t, NetworkID("5777"), p.NetworkID)

	_, err = LoadBytes([]byte(`{"networks":{"ganache":{"host":"localhost","port":8545,"network_id":true}}}`), codec.CodecType_JSON)
	assert.Error(t, err)
}

func TestDuplicateEnvironment(t *testing.T) {
	jsonSrc := `{"networks":{
		"development":{"host":"127.0.0.1","port":7545,"network_id":"*"},
		"development":{"host":"127.0.0.1","port":8545,"network_id":"*"}}}`
	_, err := LoadBytes([]byte(jsonSrc), codec.CodecType_JSON)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "networks.development: duplicate key")

	yamlSrc := "networks:\n  development:\n    host: a\n  development:\n    host: b\n"
	_, err = LoadBytes([]byte(yamlSrc), codec.CodecType_YAML)
	var cErr *ConfigurationError
	assert.True(t, errors.As(err, &cErr))
}

func TestMalformedOrMissingFile(t *testing.T) {
	cases := map[string]func() error{
		"missing file": func() error {
			_, err := Load(filepath.Join(t.TempDir(), "absent.json"))
			return err
		},
		"unsupported extension": func() error {
			_, err := Load("truffle-config.js")
			return err
		},
		"empty": func() error {
			_, err := LoadBytes([]byte("  \n"), codec.CodecType_YAML)
			return err
		},
		"syntax": func() error {
			_, err := LoadBytes([]byte(`{"networks":`), codec.CodecType_JSON)
			return err
		},
		"unknown field": func() error {
			_, err := LoadBytes([]byte(`{"networks":{},"mocha":{}}`), codec.CodecType_JSON)
			return err
		},
		"null profile": func() error {
			_, err := LoadBytes([]byte(`{"networks":{"development":null}}`), codec.CodecType_JSON)
			return err
		},
	}

	for name, load := range cases {
		err := load()
		var cErr *ConfigurationError
		assert.True(t, errors.As(err, &cErr), name)
	}
}

func TestTrailingContentRejected(t *testing.T) {
	cases := map[string]struct {
		data      string
		codecType codec.CodecType
	}{
		"json garbage":         {`{"networks":{}} }}} not json`, codec.CodecType_JSON},
		"json second object":   {`{"networks":{}} {"networks":{"x":{"host":"h","port":99999,"network_id":"*"}}}`, codec.CodecType_JSON},
		"json trailing scalar": {`{"networks":{}} 1`, codec.CodecType_JSON},
		"yaml second document": {"networks: {}\n---\nnetworks:\n  x: {host: h, port: 99999, network_id: '*'}\n", codec.CodecType_YAML},
	}

	for name, c := range cases {
		cfg, err := LoadBytes([]byte(c.data), c.codecType)
		assert.Nil(t, cfg, name)

		var cErr *ConfigurationError
		require.True(t, errors.As(err, &cErr), name)
		assert.Contains(t, err.Error(), "trailing content", name)
	}

	// trailing whitespace and comments are not content
	_, err := LoadBytes([]byte("{\"networks\":{}}\n\n"), codec.CodecType_JSON)
	assert.Equal(t, nil, err)
	_, err = LoadBytes([]byte("networks: {}\n# local only\n\n"), codec.CodecType_YAML)
	assert.Equal(t, nil, err)
}

func TestEnvKeyCollision(t *testing.T) {
	data := []byte(`{"networks":{
		"dev-net":{"host":"a","port":8545,"network_id":"1"},
		"dev_net":{"host":"b","port":8546,"network_id":"2"}}}`)

	// without overlays the names are distinct
	cfg, err := LoadBytes(data, codec.CodecType_JSON)
	require.NoError(t, err)
	assert.Equal(t, []string{"dev-net", "dev_net"}, cfg.NetworkNames())

	lookup := func(string) (string, bool) { return "", false }
	_, err = LoadBytes(data, codec.CodecType_JSON, WithEnvLookup(lookup))
	var cErr *ConfigurationError
	require.True(t, errors.As(err, &cErr))
	require.Len(t, cErr.Problems(), 1)
	assert.Contains(t, cErr.Problems()[0].Error(), "networks.dev_net")
	assert.Contains(t, cErr.Problems()[0].Error(), "CONTRACTCONF_NETWORKS_DEV_NET_*")
	assert.Contains(t, cErr.Problems()[0].Error(), `"dev-net"`)
}

func TestEncodeLoadsBack(t *testing.T) {
	cfg, err := Load(filepath.Join("testdata", "networks.yaml"))
	require.NoError(t, err)

	for _, ct := range []codec.CodecType{codec.CodecType_JSON, codec.CodecType_YAML} {
		var buf bytes.Buffer
		require.NoError(t, cfg.Encode(ct, &buf))

		again, err := LoadBytes(buf.Bytes(), ct)
		require.NoError(t, err, ct.String())
		assert.Equal(t, cfg.Fingerprint(), again.Fingerprint(), ct.String())
	}
}

func TestEnvOverlay(t *testing.T) {
	env := map[string]string{
		"CONTRACTCONF_NETWORKS_DEVELOPMENT_PORT":       "8545",
		"CONTRACTCONF_NETWORKS_DEVELOPMENT_NETWORK_ID": "1337",
		"CONTRACTCONF_COMPILERS_SOLC_VERSION":          "0.8.19",
		"CONTRACTCONF_NETWORKS_PRODUCTION_HOST":        "10.0.0.1",
	}
	lookup := func(k string) (string, bool) {
		v, ok := env[k]
		return v, ok
	}

	cfg, err := LoadDefault(WithEnvLookup(lookup))
	require.NoError(t, err)

	p, err := cfg.Get("development")
	require.NoError(t, err)
	assert.Equal(t, NetworkProfile{Host: "127.0.0.1", Port: 8545, NetworkID: "1337"}, p)

	c, err := cfg.DefaultCompiler()
	require.NoError(t, err)
	assert.Equal(t, "0.8.19", c.Version)

	_, err = cfg.Get("production")
	assert.True(t, errors.Is(err, ErrNotFound))

	env["CONTRACTCONF_NETWORKS_DEVELOPMENT_PORT"] = "99999"
	_, err = LoadDefault(WithEnvLookup(lookup))
	var cErr *ConfigurationError
	require.True(t, errors.As(err, &cErr))

	env["CONTRACTCONF_NETWORKS_DEVELOPMENT_PORT"] = "ganache"
	_, err = LoadDefault(WithEnvLookup(lookup))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "is not an integer")
}

func TestEnvFileOverlay(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(path, []byte("CONTRACTCONF_NETWORKS_DEVELOPMENT_HOST=ganache\nCONTRACTCONF_NETWORKS_DEVELOPMENT_PORT=8545\n"), 0600))

	primary := func(k string) (string, bool) {
		if k == "CONTRACTCONF_NETWORKS_DEVELOPMENT_PORT" {
			return "9545", true
		}
		return "", false
	}

	cfg, err := LoadDefault(WithEnvFile(path), WithEnvLookup(primary))
	require.NoError(t, err)

	p, err := cfg.Get("development")
	require.NoError(t, err)
	assert.Equal(t, "ganache", p.Host)
	assert.Equal(t, 9545, p.Port)

	_, err = LoadDefault(WithEnvFile(filepath.Join(t.TempDir(), "missing.env")))
	var cErr *ConfigurationError
	assert.True(t, errors.As(err, &cErr))
}

func TestConcurrentReaders(t *testing.T) {
	cfg := Default()

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			p, err := cfg.Get("development")
			assert.Equal(t, nil, err)
			assert.Equal(t, 7545, p.Port)
			_, _ = cfg.DefaultCompiler()
			_ = cfg.Fingerprint()
		}()
	}
	wg.Wait()
}

func TestNetworkIDMatches(t *testing.T) {
	assert.True(t, WildcardNetworkID.Matches(big.NewInt(5777)))
	assert.True(t, WildcardNetworkID.Matches(nil))
	assert.True(t, NetworkID("5777").Matches(big.NewInt(5777)))
	assert.False(t, NetworkID("5777").Matches(big.NewInt(1)))
	assert.False(t, NetworkID("5777").Matches(nil))
	assert.Nil(t, WildcardNetworkID.BigInt())
}

func TestProfileMultiaddr(t *testing.T) {
	cases := map[NetworkProfile]string{
		{Host: "127.0.0.1", Port: 7545}:           "/ip4/127.0.0.1/tcp/7545",
		{Host: "::1", Port: 8545}:                 "/ip6/::1/tcp/8545",
		{Host: "ropsten.example.org", Port: 8545}: "/dns/ropsten.example.org/tcp/8545",
	}
	for p, want := range cases {
		addr, err := p.Multiaddr()
		require.NoError(t, err)
		assert.Equal(t, want, addr.String())
	}

	assert.Equal(t, "[::1]:8545", NetworkProfile{Host: "::1", Port: 8545}.Endpoint())
}

func TestEnvKey(t *testing.T) {
	assert.Equal(t, "CONTRACTCONF_NETWORKS_BSC_TESTNET_NETWORK_ID", EnvKey("networks", "bsc-testnet", "network_id"))
}
