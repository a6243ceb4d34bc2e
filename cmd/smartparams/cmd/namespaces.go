package cmd

import (
	"strconv"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

type namespaceInfo struct {
	Name   string   `json:"name"`
	Fields []string `json:"fields"`
}

func newNamespacesCmd(v *viper.Viper) *cobra.Command {
	return &cobra.Command{
		Use:   "namespaces",
		Short: "list the namespaces of a schema and their field paths",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			output := v.GetString("output")
			if err := checkOutput(output); err != nil {
				return err
			}
			s, err := loadSchema(v)
			if err != nil {
				return err
			}

			var infos []namespaceInfo
			for _, name := range s.Namespaces() {
				ns, err := s.Namespace(name)
				if err != nil {
					return err
				}
				info := namespaceInfo{Name: name, Fields: []string{}}
				for _, f := range ns.Fields() {
					info.Fields = append(info.Fields, f.Pointer())
				}
				infos = append(infos, info)
			}

			if output == outputJSON {
				return writeJSON(cmd.OutOrStdout(), infos)
			}
			table := newTable(cmd.OutOrStdout(), "NAMESPACE", "POINTER", "TYPE", "NULLABLE")
			for _, info := range infos {
				ns, _ := s.Namespace(info.Name)
				for _, f := range ns.Fields() {
					table.Append([]string{info.Name, f.Pointer(), f.Type().Name(), strconv.FormatBool(f.Nullable())})
				}
			}
			table.Render()
			return nil
		},
	}
}
