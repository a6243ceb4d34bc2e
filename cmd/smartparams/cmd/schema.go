package cmd

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func newSchemaCmd(v *viper.Viper) *cobra.Command {
	return &cobra.Command{
		Use:     "schema",
		Short:   "export a namespace as JSON Schema",
		Example: "smartparams schema --schema account.yaml --namespace create",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			s, err := loadSchema(v)
			if err != nil {
				return err
			}
			doc, err := s.JSONSchema(v.GetString("namespace"))
			if err != nil {
				return err
			}
			return writeJSON(cmd.OutOrStdout(), doc)
		},
	}
}
