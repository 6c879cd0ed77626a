package app

import (
	"github.com/ktr0731/go-multierror"
	"github.com/pkg/errors"
)

// flags defines available command line flags.
type flags struct {
	path   []string
	layout string
	output string
	verify bool
	config string

	noColor    bool
	dumpConfig bool

	meta struct {
		verbose bool
		version bool
		help    bool
	}
}

// validate defines invalid conditions and validates whether f has invalid conditions.
func (f *flags) validate() error {
	var result error
	invalidCases := []struct {
		name string
		cond bool
	}{
		{"cannot specify both of --version and --dump-config", f.meta.version && f.dumpConfig},
		{"cannot specify both of --verify and --dump-config", f.verify && f.dumpConfig},
	}
	for _, c := range invalidCases {
		if c.cond {
			result = multierror.Append(result, errors.New(c.name))
		}
	}
	return result
}
