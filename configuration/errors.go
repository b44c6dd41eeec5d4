package configuration

import (
	"errors"
	"fmt"
	"strings"

	"github.com/hashicorp/go-multierror"
)

// ErrNotFound matches every *NotFoundError through errors.Is.
var ErrNotFound = errors.New("not found")

type NotFoundError struct {
	Kind string // "network" or "compiler"
	Name string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %q not found", e.Kind, e.Name)
}

func (e *NotFoundError) Is(target error) bool {
	return target == ErrNotFound
}

// ConfigurationError carries every defect found while loading one source.
// A configuration that fails to load is never partially usable.
type ConfigurationError struct {
	Source string
	errs   *multierror.Error
}

func newConfigurationError(source string, errs *multierror.Error) *ConfigurationError {
	errs.ErrorFormat = listFormat
	return &ConfigurationError{
		Source: source,
		errs:   errs,
	}
}

func listFormat(es []error) string {
	msgs := make([]string, 0, len(es))
	for _, e := range es {
		msgs = append(msgs, e.Error())
	}
	return strings.Join(msgs, "; ")
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("invalid configuration %s: %s", e.Source, e.errs.Error())
}

// Problems returns the individual defects in the order they were found.
func (e *ConfigurationError) Problems() []error {
	out := make([]error, len(e.errs.Errors))
	copy(out, e.errs.Errors)
	return out
}

func (e *ConfigurationError) Unwrap() error {
	return e.errs
}

func problemf(path string, format string, args ...interface{}) error {
	return fmt.Errorf("%s: %s", path, fmt.Sprintf(format, args...))
}
