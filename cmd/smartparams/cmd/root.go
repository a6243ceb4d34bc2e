package cmd

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/mitchellh/go-homedir"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	sp "github.com/reoring/smartparams"
	"github.com/reoring/smartparams/dsl"
)

const (
	envPrefix         = "SMARTPARAMS"
	defaultConfigName = ".smartparams.yaml"
)

type rootOpts struct {
	cfgFile string
}

var longRootCmdDescription = `smartparams validates JSON or YAML documents against a field-tree schema
declared in a YAML or TOML file, prints the cleaned payload or every failure,
and exports namespaces as JSON Schema.

Every flag can also be set in the config file or as SMARTPARAMS_<FLAG>
(for example SMARTPARAMS_MAX_BYTES).
`

// NewRootCmd builds the smartparams command tree. Each call gets its own
// viper instance so commands can be constructed repeatedly in tests.
func NewRootCmd() *cobra.Command {
	v := viper.New()
	opts := &rootOpts{}

	rootCmd := &cobra.Command{
		Use:           "smartparams",
		Short:         "Validate structured input against a smartparams schema",
		Long:          longRootCmdDescription,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return initConfig(cmd, v, opts)
		},
	}

	rootCmd.PersistentFlags().StringVar(&opts.cfgFile, "config", "", "config file (yaml, toml or json; default is $HOME/.smartparams.yaml)")
	rootCmd.PersistentFlags().BoolP("debug", "d", false, "turn on debug logging")
	rootCmd.PersistentFlags().StringP("schema", "s", "", "schema file (.yaml, .yml or .toml)")
	rootCmd.PersistentFlags().StringP("namespace", "n", sp.DefaultNamespace, "schema namespace")
	rootCmd.PersistentFlags().StringP("output", "o", outputJSON, "output format: json or table")
	rootCmd.DisableAutoGenTag = true

	rootCmd.AddCommand(newValidateCmd(v), newSchemaCmd(v), newNamespacesCmd(v))
	return rootCmd
}

// initConfig layers flags over environment over the config file.
func initConfig(cmd *cobra.Command, v *viper.Viper, opts *rootOpts) error {
	cfgFile, err := homedir.Expand(opts.cfgFile)
	if err != nil {
		return errors.Wrap(err, "expand config path")
	}
	if cfgFile == "" {
		cfgFile = defaultConfigFile()
	}
	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
		if err := v.ReadInConfig(); err != nil {
			return errors.Wrapf(err, "read config %s", cfgFile)
		}
	}
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()
	if err := v.BindPFlags(cmd.Flags()); err != nil {
		return errors.Wrap(err, "bind flags")
	}

	if v.GetBool("debug") {
		logrus.SetLevel(logrus.DebugLevel)
		sp.SetLogger(logrus.StandardLogger())
		logrus.Debugf("using config file %q", v.ConfigFileUsed())
	}
	return nil
}

// defaultConfigFile is $HOME/.smartparams.yaml when it exists.
func defaultConfigFile() string {
	home, err := homedir.Dir()
	if err != nil {
		return ""
	}
	p := filepath.Join(home, defaultConfigName)
	if _, err := os.Stat(p); err != nil {
		return ""
	}
	return p
}

func loadSchema(v *viper.Viper) (*sp.Schema, error) {
	path, err := homedir.Expand(v.GetString("schema"))
	if err != nil {
		return nil, errors.Wrap(err, "expand schema path")
	}
	if path == "" {
		return nil, errors.New("a schema file is required (--schema or SMARTPARAMS_SCHEMA)")
	}
	return dsl.LoadFile(path)
}
