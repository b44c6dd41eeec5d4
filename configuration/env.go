package configuration

import (
	"strconv"
	"strings"

	"github.com/hashicorp/go-multierror"
)

// EnvPrefix starts every overlay variable, e.g.
// CONTRACTCONF_NETWORKS_DEVELOPMENT_PORT or CONTRACTCONF_COMPILERS_SOLC_VERSION.
const EnvPrefix = "CONTRACTCONF"

type envLookupFunc func(key string) (string, bool)

// EnvKey builds the overlay variable for a section entry field. Names are
// upper-cased and every other character becomes '_', so "dev-net" and
// "dev_net" share a key. Loading with overlays enabled rejects such pairs.
func EnvKey(section string, name string, field string) string {
	return strings.Join([]string{EnvPrefix, envToken(section), envToken(name), envToken(field)}, "_")
}

func envToken(s string) string {
	var b strings.Builder
	for _, r := range strings.ToUpper(s) {
		if (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
		} else {
			b.WriteByte('_')
		}
	}
	return b.String()
}

// mergeEnv overlays variables onto entries that already exist in the file.
// Overlays never add environments or compilers.
func mergeEnv(f *fileConfig, lookup envLookupFunc, problems *multierror.Error) *multierror.Error {
	if lookup == nil {
		return problems
	}

	problems = envCollisions("networks", sortedKeys(f.Networks), problems)
	problems = envCollisions("compilers", sortedKeys(f.Compilers), problems)

	for _, name := range sortedKeys(f.Networks) {
		n := f.Networks[name]
		if n == nil {
			continue
		}
		if v, ok := lookup(EnvKey("networks", name, "host")); ok {
			host := v
			n.Host = &host
		}
		key := EnvKey("networks", name, "port")
		if v, ok := lookup(key); ok {
			port, err := strconv.Atoi(strings.TrimSpace(v))
			if err != nil {
				problems = multierror.Append(problems, problemf(joinPath("networks", name, "port"), "%s=%q is not an integer", key, v))
			} else {
				n.Port = &port
			}
		}
		if v, ok := lookup(EnvKey("networks", name, "network_id")); ok {
			id := fileNetworkID(strings.TrimSpace(v))
			n.NetworkID = &id
		}
	}

	for _, name := range sortedKeys(f.Compilers) {
		c := f.Compilers[name]
		if c == nil {
			continue
		}
		if v, ok := lookup(EnvKey("compilers", name, "version")); ok {
			version := v
			c.Version = &version
		}
	}

	return problems
}

// envCollisions reports entries whose names map to the same overlay token.
// names must be sorted so the report is stable.
func envCollisions(section string, names []string, problems *multierror.Error) *multierror.Error {
	seen := make(map[string]string, len(names))
	for _, name := range names {
		token := envToken(name)
		if first, ok := seen[token]; ok {
			problems = multierror.Append(problems, problemf(joinPath(section, name),
				"overlay key %s is shared with %q", EnvKey(section, name, "")+"*", first))
			continue
		}
		seen[token] = name
	}
	return problems
}
