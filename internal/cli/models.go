package cli

import (
	"fmt"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/leapstack-labs/modelsync/internal/loader"
	"github.com/leapstack-labs/modelsync/pkg/model"
	"github.com/spf13/cobra"
)

func newModelsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "models",
		Short: "List the models declared in the schema file",
		RunE: func(cmd *cobra.Command, _ []string) error {
			registry, err := loader.LoadFile(cfg.Schema)
			if err != nil {
				return err
			}

			t := table.NewWriter()
			t.SetOutputMirror(cmd.OutOrStdout())
			t.SetStyle(table.StyleLight)
			t.AppendHeader(table.Row{"Model", "Table", "Field", "Type", "Nullable"})

			for _, desc := range registry.All() {
				t.AppendRow(table.Row{desc.Name(), desc.Table(), model.IdentityColumn, "integer (identity)", false})
				for _, f := range desc.Fields() {
					typeName := f.Type.Kind.String()
					if f.Type.Ref != nil {
						typeName = fmt.Sprintf("%s -> %s.%s", typeName, f.Type.Ref.Model, f.Type.Ref.Column)
					}
					t.AppendRow(table.Row{desc.Name(), desc.Table(), f.Name, typeName, f.Type.Nullable})
				}
				t.AppendSeparator()
			}
			t.Render()
			return nil
		},
	}
}
