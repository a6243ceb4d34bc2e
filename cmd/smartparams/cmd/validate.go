package cmd

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	sp "github.com/reoring/smartparams"
)

// ErrValidationFailed is returned after failures have been printed.
var ErrValidationFailed = errors.New("payload failed validation")

var exampleForValidateCmd = `smartparams validate --schema account.yaml --namespace create request.json
cat request.yaml | smartparams validate -s account.toml -n create --format yaml -o table
`

func newValidateCmd(v *viper.Viper) *cobra.Command {
	validateCmd := &cobra.Command{
		Use:     "validate [input|-]",
		Short:   "validate a JSON or YAML document and print the cleaned payload",
		Example: exampleForValidateCmd,
		Args:    cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runValidate(cmd, v, args)
		},
	}
	validateCmd.Flags().String("format", "auto", "input format: auto, json or yaml")
	validateCmd.Flags().String("duplicate-keys", "error", "duplicate object keys: ignore, warn or error")
	validateCmd.Flags().Int("max-depth", 0, "maximum nesting depth, 0 for unlimited")
	validateCmd.Flags().Int64("max-bytes", 0, "maximum input size in bytes, 0 for unlimited")
	validateCmd.Flags().String("numbers", "json", "number representation: json (exact) or float")
	return validateCmd
}

func runValidate(cmd *cobra.Command, v *viper.Viper, args []string) error {
	output := v.GetString("output")
	if err := checkOutput(output); err != nil {
		return err
	}
	opt, err := validateOpt(v)
	if err != nil {
		return err
	}
	s, err := loadSchema(v)
	if err != nil {
		return err
	}

	name := "-"
	if len(args) == 1 {
		name = args[0]
	}
	r, closeFn, err := openInput(cmd, name)
	if err != nil {
		return err
	}
	defer closeFn()

	src, err := inputSource(v.GetString("format"), name, r)
	if err != nil {
		return err
	}

	res, err := sp.FromSource(cmd.Context(), s, src, opt)
	if err != nil {
		return err
	}
	logrus.WithFields(logrus.Fields{
		"input":     name,
		"namespace": opt.Namespace,
		"failures":  len(res.Failures),
	}).Debug("validated input")

	out := cmd.OutOrStdout()
	if !res.Valid() {
		if err := renderFailures(out, output, res.Failures); err != nil {
			return err
		}
		return ErrValidationFailed
	}
	return renderPayload(out, output, res.Value)
}

func validateOpt(v *viper.Viper) (sp.ValidateOpt, error) {
	opt := sp.ValidateOpt{
		Namespace: v.GetString("namespace"),
		MaxDepth:  v.GetInt("max-depth"),
		MaxBytes:  v.GetInt64("max-bytes"),
	}
	switch strings.ToLower(v.GetString("duplicate-keys")) {
	case "ignore":
		opt.Strictness.OnDuplicateKey = sp.Ignore
	case "warn":
		opt.Strictness.OnDuplicateKey = sp.Warn
		opt.Logger = logrus.StandardLogger()
	case "error", "":
		opt.Strictness.OnDuplicateKey = sp.Error
	default:
		return opt, fmt.Errorf("unsupported duplicate key policy %q", v.GetString("duplicate-keys"))
	}
	switch strings.ToLower(v.GetString("numbers")) {
	case "json", "":
		opt.NumberMode = sp.NumberJSONNumber
	case "float":
		opt.NumberMode = sp.NumberFloat64
	default:
		return opt, fmt.Errorf("unsupported number mode %q", v.GetString("numbers"))
	}
	return opt, nil
}

func openInput(cmd *cobra.Command, name string) (io.Reader, func(), error) {
	if name == "-" {
		return cmd.InOrStdin(), func() {}, nil
	}
	f, err := os.Open(filepath.Clean(name))
	if err != nil {
		return nil, nil, errors.Wrap(err, "open input")
	}
	return f, func() {
		if err := f.Close(); err != nil {
			logrus.Warnf("failed to close %s: %v", name, err)
		}
	}, nil
}

func inputSource(format, name string, r io.Reader) (sp.Source, error) {
	if format == "auto" {
		switch strings.ToLower(filepath.Ext(name)) {
		case ".yaml", ".yml":
			format = "yaml"
		default:
			format = "json"
		}
	}
	switch format {
	case "json":
		return sp.JSONReader(r), nil
	case "yaml":
		return sp.YAMLReader(r), nil
	}
	return nil, fmt.Errorf("unsupported input format %q", format)
}
