// Package app provides the entrypoint for protoorder.
package app

import (
	"context"
	"fmt"
	"io"

	"github.com/ktr0731/protoorder/config"
	"github.com/ktr0731/protoorder/cui"
	"github.com/ktr0731/protoorder/meta"
	"github.com/pkg/errors"
	"github.com/spf13/pflag"
)

// App is the root component for running the application.
type App struct {
	cmd *command
}

// New instantiates a new App instance. ui must not be a nil.
func New(ui cui.UI) *App {
	var flags flags
	return &App{
		cmd: newCommand(&flags, ui),
	}
}

// Run starts the application. The return value means the exit code.
func (a *App) Run(args []string) int {
	return a.RunContext(context.Background(), args)
}

// RunContext is the same as Run, but stops before ordering the next file
// once ctx is done.
func (a *App) RunContext(ctx context.Context, args []string) int {
	a.cmd.SetArgs(args)
	err := a.cmd.ExecuteContext(ctx)
	if err == nil {
		return 0
	}

	a.cmd.ui.ErrPrintln(fmt.Sprintf("%s: %s", meta.AppName, err))
	return 1
}

// printUsage shows the command usage text to cui.Writer.
func printUsage(cmd interface{ Help() error }) {
	_ = cmd.Help() // Help never return errors.
}

func printVersion(w io.Writer) {
	fmt.Fprintf(w, "%s %s\n", meta.AppName, meta.Version.String())
}

var errNoFiles = errors.New("at least one proto file is required")

// mergedConfig represents the conclusive config. Common config items are stored to *config.Config.
// Flags that can be specified by command line only are represented as fields.
type mergedConfig struct {
	*config.Config

	// The proto files to order.
	files []string
	// Print the config instead of ordering files.
	dumpConfig bool
}

func mergeConfig(fs *pflag.FlagSet, flags *flags, protos []string) (*mergedConfig, error) {
	cfg, err := config.Get(fs)
	if err != nil {
		return nil, errors.Wrap(err, "failed to get config")
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if len(protos) == 0 && !flags.dumpConfig {
		return nil, errNoFiles
	}

	return &mergedConfig{
		Config:     cfg,
		files:      protos,
		dumpConfig: flags.dumpConfig,
	}, nil
}
