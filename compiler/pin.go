package compiler

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/Masterminds/semver/v3"
)

type PinKind uint8

const (
	PinKind_Unknown PinKind = iota
	PinKind_Exact
	PinKind_Range
	PinKind_Native
	PinKind_Pragma
)

func (k PinKind) String() string {
	switch k {
	case PinKind_Exact:
		return "exact"
	case PinKind_Range:
		return "range"
	case PinKind_Native:
		return "native"
	case PinKind_Pragma:
		return "pragma"
	}
	return "unknown"
}

var (
	ErrNoMatchingRelease = errors.New("no release satisfies the pin")
	ErrNotResolvable     = errors.New("pin is resolved by the toolchain, not from a release list")
)

// Pin is an interpreted compiler version string. Raw always holds the
// string exactly as configured.
type Pin struct {
	Raw        string
	Kind       PinKind
	version    *semver.Version
	constraint *semver.Constraints
}

// ParsePin interprets a configured version. "native" selects the compiler
// installed on the host and "pragma" defers to each source file's pragma.
func ParsePin(raw string) (*Pin, error) {
	s := strings.TrimSpace(raw)
	switch strings.ToLower(s) {
	case "":
		return nil, errors.New("empty compiler version")
	case "native":
		return &Pin{Raw: raw, Kind: PinKind_Native}, nil
	case "pragma":
		return &Pin{Raw: raw, Kind: PinKind_Pragma}, nil
	}

	if v, err := semver.StrictNewVersion(strings.TrimPrefix(s, "v")); err == nil {
		return &Pin{Raw: raw, Kind: PinKind_Exact, version: v}, nil
	}

	c, err := semver.NewConstraint(s)
	if err != nil {
		return nil, fmt.Errorf("compiler version %q: %w", raw, err)
	}
	return &Pin{Raw: raw, Kind: PinKind_Range, constraint: c}, nil
}

// Version returns the pinned release of an exact pin, nil otherwise.
func (p *Pin) Version() *semver.Version {
	return p.version
}

func (p *Pin) Satisfied(release string) bool {
	v, err := semver.NewVersion(release)
	if err != nil {
		return false
	}

	switch p.Kind {
	case PinKind_Exact:
		return v.Equal(p.version)
	case PinKind_Range:
		return p.constraint.Check(v)
	}
	return false
}

// Resolve picks the highest release in available that satisfies the pin.
// Releases that are not valid semantic versions are skipped.
func (p *Pin) Resolve(available []string) (string, error) {
	if p.Kind == PinKind_Native || p.Kind == PinKind_Pragma {
		return "", fmt.Errorf("%s: %w", p.Kind, ErrNotResolvable)
	}

	type release struct {
		raw string
		v   *semver.Version
	}
	var matches []release
	for _, r := range available {
		v, err := semver.NewVersion(r)
		if err != nil || !p.Satisfied(r) {
			continue
		}
		matches = append(matches, release{raw: r, v: v})
	}

	if len(matches) == 0 {
		return "", fmt.Errorf("%q: %w", p.Raw, ErrNoMatchingRelease)
	}

	sort.Slice(matches, func(i, j int) bool {
		return matches[i].v.GreaterThan(matches[j].v)
	})
	return matches[0].raw, nil
}

func (p *Pin) String() string {
	return p.Raw
}
