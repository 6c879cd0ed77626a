package app

import (
	"bytes"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/ktr0731/protoorder/config"
	"github.com/ktr0731/protoorder/cui"
	"github.com/ktr0731/protoorder/logger"
	"github.com/ktr0731/protoorder/meta"
	"github.com/ktr0731/protoorder/proto"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

type command struct {
	*cobra.Command

	flags *flags
	ui    cui.UI
}

// runFunc is a common entrypoint for Run func.
func runFunc(
	flags *flags,
	f func(*cobra.Command, *mergedConfig) error,
) func(cmd *cobra.Command, args []string) error {
	return func(cmd *cobra.Command, args []string) error {
		if err := flags.validate(); err != nil {
			return errors.Wrap(err, "invalid flag condition")
		}

		switch {
		case flags.meta.version:
			printVersion(cmd.OutOrStdout())
			return nil
		case flags.meta.help:
			printUsage(cmd)
			return nil
		}

		// Pass Flags instead of LocalFlags because the config is merged with flags.
		cfg, err := mergeConfig(cmd.Flags(), flags, args)
		if err != nil {
			if _, ok := err.(*config.ValidationError); ok || err == errNoFiles {
				printUsage(cmd)
				return err
			}
			return errors.Wrap(err, "failed to merge command line flags and config files")
		}

		// The entrypoint for the command.
		return f(cmd, cfg)
	}
}

func newCommand(flags *flags, ui cui.UI) *command {
	c := &command{flags: flags, ui: ui}
	cmd := &cobra.Command{
		Use: meta.AppName,
		RunE: runFunc(flags, func(cmd *cobra.Command, cfg *mergedConfig) error {
			if cfg.Log.Verbose {
				logger.SetOutput(c.ui.ErrWriter())
				if err := logger.SetLevel("debug"); err != nil {
					return err
				}
			}
			if cfg.Output.Colored && cui.IsTerminal(c.ui.Writer()) {
				c.ui = cui.NewColored(c.ui)
			}
			logger.Scriptln(func() []interface{} {
				var buf bytes.Buffer
				if err := config.Write(&buf, cfg.Config); err != nil {
					return []interface{}{"failed to dump the config:", err}
				}
				return []interface{}{"config:\n" + buf.String()}
			})

			if cfg.dumpConfig {
				return config.Write(c.ui.Writer(), cfg.Config)
			}

			layout, err := proto.ParseLayout(cfg.Order.Layout)
			if err != nil {
				return err
			}
			results, err := orderFiles(cmd.Context(), cfg.Proto.Path, cfg.files, layout, cfg.Order.Verify)
			if err != nil {
				return err
			}
			return render(c.ui, cfg.Output.Format, results)
		}),
		SilenceErrors: true,
		SilenceUsage:  true,
	}
	bindFlags(cmd.PersistentFlags(), flags, ui.Writer())
	cmd.SetHelpFunc(func(cmd *cobra.Command, args []string) {
		cmd.PersistentFlags().Usage()
	})
	cmd.SetOut(ui.Writer())
	c.Command = cmd
	return c
}

func bindFlags(f *pflag.FlagSet, flags *flags, w io.Writer) {
	initFlagSet(f, w)

	f.StringSliceVarP(&flags.path, "path", "I", nil, "proto import paths")
	f.StringVar(&flags.layout, "layout", string(proto.LayoutValue),
		fmt.Sprintf("storage layout of message fields (%s)", strings.Join(proto.Layouts(), ", ")))
	f.StringVarP(&flags.output, "output", "o", "name",
		fmt.Sprintf("output format (%s)", strings.Join(config.Formats, ", ")))
	f.BoolVar(&flags.verify, "verify", false, "re-check every computed order against the dependency graph")
	f.StringVar(&flags.config, "config", "", "config file path (default \".protoorder.toml\" if it exists)")
	f.BoolVar(&flags.noColor, "no-color", false, "disable colored output")
	f.BoolVar(&flags.dumpConfig, "dump-config", false, "print the merged config as TOML and exit")
	f.BoolVar(&flags.meta.verbose, "verbose", false, "verbose output")
	f.BoolVarP(&flags.meta.version, "version", "v", false, "display version and exit")
	f.BoolVarP(&flags.meta.help, "help", "h", false, "display help text and exit")
}

func initFlagSet(f *pflag.FlagSet, w io.Writer) {
	f.SortFlags = false
	f.SetOutput(w)
	f.Usage = usageFunc(w, f)
}

var usageFormat = `
Usage: %s [--help] [--version] [options ...] PROTO [PROTO ...]

Positional arguments:
        PROTO                   .proto files

Options:
%s
`

// usage is the generator for usage output.
func usageFunc(out io.Writer, f *pflag.FlagSet) func() {
	return func() {
		printVersion(out)
		var buf bytes.Buffer
		w := tabwriter.NewWriter(&buf, 0, 8, 8, ' ', tabwriter.TabIndent)
		f.VisitAll(func(f *pflag.Flag) {
			if f.Hidden {
				return
			}
			cmd := "--" + f.Name
			if f.Shorthand != "" {
				cmd += ", -" + f.Shorthand
			}
			name, _ := pflag.UnquoteUsage(f)
			if name != "" {
				cmd += " " + name
			}
			usage := f.Usage
			if f.DefValue != "" && f.DefValue != "false" && f.DefValue != "[]" {
				usage += fmt.Sprintf(` (default "%s")`, f.DefValue)
			}
			fmt.Fprintf(w, "        %s\t%s\n", cmd, usage)
		})
		w.Flush()
		fmt.Fprintf(out, usageFormat, meta.AppName, buf.String())
	}
}
