// Package config loads the configuration from defaults, a project config
// file, environment variables and command line flags.
package config

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/hashicorp/go-multierror"
	"github.com/ktr0731/protoorder/logger"
	"github.com/ktr0731/protoorder/proto"
	"github.com/mitchellh/mapstructure"
	toml "github.com/pelletier/go-toml"
	"github.com/pkg/errors"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const (
	localConfigName = ".protoorder.toml"
	envPrefix       = "protoorder"
)

// Formats lists the output formats.
var Formats = []string{"name", "table", "json"}

type Proto struct {
	Path []string `toml:"path"`
}

type Order struct {
	Layout string `toml:"layout"`
	Verify bool   `toml:"verify"`
}

type Output struct {
	Format  string `toml:"format"`
	Colored bool   `toml:"colored"`
}

type Log struct {
	Verbose bool `toml:"verbose"`
}

type Config struct {
	Proto  *Proto  `toml:"proto"`
	Order  *Order  `toml:"order"`
	Output *Output `toml:"output"`
	Log    *Log    `toml:"log"`
}

// flagKeys maps command line flags to config keys.
var flagKeys = map[string]string{
	"path":    "proto.path",
	"layout":  "order.layout",
	"verify":  "order.verify",
	"output":  "output.format",
	"verbose": "log.verbose",
}

func setDefault(v *viper.Viper) {
	v.SetDefault("proto.path", []string{})
	v.SetDefault("order.layout", string(proto.LayoutValue))
	v.SetDefault("order.verify", false)
	v.SetDefault("output.format", "name")
	v.SetDefault("output.colored", true)
	v.SetDefault("log.verbose", false)
}

// Get returns the merged config. Values are taken, from the highest priority,
// from the flags in fs, PROTOORDER_ prefixed environment variables, the file
// named by the "config" flag or .protoorder.toml in the working directory,
// and the defaults. fs may be nil.
func Get(fs *pflag.FlagSet) (*Config, error) {
	v := viper.New()
	v.SetConfigType("toml")
	setDefault(v)

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := readConfigFile(v, fs); err != nil {
		return nil, err
	}
	if err := bindFlags(v, fs); err != nil {
		return nil, err
	}

	var cfg Config
	err := v.Unmarshal(&cfg, func(c *mapstructure.DecoderConfig) {
		c.TagName = "toml"
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to decode the config")
	}
	return &cfg, nil
}

func readConfigFile(v *viper.Viper, fs *pflag.FlagSet) error {
	var fname string
	if fs != nil {
		if f := fs.Lookup("config"); f != nil {
			fname = f.Value.String()
		}
	}
	if fname == "" {
		if _, err := os.Stat(localConfigName); err != nil {
			if os.IsNotExist(err) {
				return nil
			}
			return errors.Wrapf(err, "failed to stat %s", localConfigName)
		}
		fname = localConfigName
	}

	f, err := os.Open(fname)
	if err != nil {
		return errors.Wrap(err, "failed to open the config file")
	}
	defer f.Close()
	if err := v.ReadConfig(f); err != nil {
		return errors.Wrapf(err, "failed to read %s", fname)
	}
	logger.Printf("config file loaded: %s", fname)
	return nil
}

func bindFlags(v *viper.Viper, fs *pflag.FlagSet) error {
	if fs == nil {
		return nil
	}
	for name, key := range flagKeys {
		f := fs.Lookup(name)
		if f == nil {
			continue
		}
		if err := v.BindPFlag(key, f); err != nil {
			return errors.Wrapf(err, "failed to bind --%s", name)
		}
	}
	if f := fs.Lookup("no-color"); f != nil && f.Changed {
		v.Set("output.colored", f.Value.String() != "true")
	}
	return nil
}

// ValidationError is returned by Validate. It holds every problem found in
// the config.
type ValidationError struct {
	err *multierror.Error
}

func (e *ValidationError) Error() string {
	return e.err.Error()
}

// Errors returns each problem.
func (e *ValidationError) Errors() []error {
	return e.err.Errors
}

// Validate checks c.
func (c *Config) Validate() error {
	var result *multierror.Error
	if _, err := proto.ParseLayout(c.Order.Layout); err != nil {
		result = multierror.Append(result, errors.Wrapf(err, "order.layout must be one of %s", strings.Join(proto.Layouts(), ", ")))
	}
	if !contains(Formats, c.Output.Format) {
		result = multierror.Append(result, errors.Errorf("output.format must be one of %s, but got '%s'", strings.Join(Formats, ", "), c.Output.Format))
	}
	for i, p := range c.Proto.Path {
		if p == "" {
			result = multierror.Append(result, errors.Errorf("proto.path[%d] must not be empty", i))
		}
	}
	if result == nil {
		return nil
	}
	result.ErrorFormat = formatErrors
	return &ValidationError{err: result}
}

func formatErrors(errs []error) string {
	msgs := make([]string, len(errs))
	for i, err := range errs {
		msgs[i] = err.Error()
	}
	return fmt.Sprintf("invalid config: %s", strings.Join(msgs, "; "))
}

func contains(ss []string, s string) bool {
	for _, e := range ss {
		if e == s {
			return true
		}
	}
	return false
}

// Write renders cfg into w as TOML.
func Write(w io.Writer, cfg *Config) error {
	b, err := toml.Marshal(*cfg)
	if err != nil {
		return errors.Wrap(err, "failed to encode the config as TOML")
	}
	if _, err := w.Write(b); err != nil {
		return errors.Wrap(err, "failed to write the config")
	}
	return nil
}
