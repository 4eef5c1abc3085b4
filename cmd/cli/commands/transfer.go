package commands

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// ExportCmd creates the export command
func ExportCmd(app *AppContext) *cobra.Command {
	return &cobra.Command{
		Use:   "export [file]",
		Short: "Write a JSON backup of all data (stdout when no file is given)",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := app.Workspace.ExportJSON()
			if err != nil {
				return err
			}
			if len(args) == 0 {
				app.Out.Println(string(data))
				return nil
			}
			if err := os.WriteFile(args[0], data, 0644); err != nil {
				return fmt.Errorf("failed to write backup: %w", err)
			}
			app.Logger.Info("Exported data", zap.String("path", args[0]), zap.Int("bytes", len(data)))
			app.Out.Success("Exported to %s", args[0])
			return nil
		},
	}
}

// ImportCmd creates the import command
func ImportCmd(app *AppContext) *cobra.Command {
	return &cobra.Command{
		Use:   "import <file>",
		Short: "Load a JSON backup, replacing the collections it contains",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("failed to read backup: %w", err)
			}
			if err := app.Workspace.Import(data); err != nil {
				return err
			}
			st := app.Workspace.State()
			app.Out.Success("Imported %d employees, %d schedule entries, %d rules", len(st.Employees), len(st.Schedule), len(st.Rules))
			return nil
		},
	}
}
