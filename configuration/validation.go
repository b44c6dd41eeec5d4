package configuration

import (
	"strings"

	"github.com/hashicorp/go-multierror"
)

// build turns the declaration into a record, appending every defect to
// problems. The record is only meaningful when no problem was appended.
func build(f *fileConfig, problems *multierror.Error) (*Configuration, *multierror.Error) {
	cfg := &Configuration{
		networks:  make(map[string]NetworkProfile, len(f.Networks)),
		compilers: make(map[string]CompilerProfile, len(f.Compilers)),
	}

	for _, name := range sortedKeys(f.Networks) {
		path := joinPath("networks", name)
		if strings.TrimSpace(name) == "" {
			problems = multierror.Append(problems, problemf("networks", "empty environment name"))
			continue
		}

		n := f.Networks[name]
		if n == nil {
			problems = multierror.Append(problems, problemf(path, "missing network profile"))
			continue
		}

		var p NetworkProfile
		if n.Host == nil || strings.TrimSpace(*n.Host) == "" {
			problems = multierror.Append(problems, problemf(joinPath(path, "host"), "missing required field"))
		} else {
			p.Host = strings.TrimSpace(*n.Host)
		}

		if n.Port == nil {
			problems = multierror.Append(problems, problemf(joinPath(path, "port"), "missing required field"))
		} else if *n.Port < MinPort || *n.Port > MaxPort {
			problems = multierror.Append(problems, problemf(joinPath(path, "port"), "%d out of range [%d, %d]", *n.Port, MinPort, MaxPort))
		} else {
			p.Port = *n.Port
		}

		if n.NetworkID == nil {
			problems = multierror.Append(problems, problemf(joinPath(path, "network_id"), "missing required field"))
		} else if id := NetworkID(*n.NetworkID); !id.valid() {
			problems = multierror.Append(problems, problemf(joinPath(path, "network_id"), "%q is neither a decimal id nor %q", string(id), string(WildcardNetworkID)))
		} else {
			p.NetworkID = id
		}

		cfg.networks[name] = p
	}

	for _, name := range sortedKeys(f.Compilers) {
		path := joinPath("compilers", name)
		if strings.TrimSpace(name) == "" {
			problems = multierror.Append(problems, problemf("compilers", "empty compiler name"))
			continue
		}

		c := f.Compilers[name]
		if c == nil || c.Version == nil || strings.TrimSpace(*c.Version) == "" {
			problems = multierror.Append(problems, problemf(joinPath(path, "version"), "missing required field"))
			continue
		}

		cfg.compilers[name] = CompilerProfile{Version: *c.Version}
	}

	return cfg, problems
}
