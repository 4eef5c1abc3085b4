package commands

import (
	"github.com/spf13/cobra"
)

// UndoCmd creates the undo command
func UndoCmd(app *AppContext) *cobra.Command {
	return &cobra.Command{
		Use:   "undo",
		Short: "Revert the last change of this session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			label, ok := app.Workspace.Undo()
			if !ok {
				app.Out.Muted("Nothing to undo")
				return nil
			}
			app.Out.Success("Undid: %s", label)
			return nil
		},
	}
}

// RedoCmd creates the redo command
func RedoCmd(app *AppContext) *cobra.Command {
	return &cobra.Command{
		Use:   "redo",
		Short: "Reapply the last undone change",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			label, ok := app.Workspace.Redo()
			if !ok {
				app.Out.Muted("Nothing to redo")
				return nil
			}
			app.Out.Success("Redid: %s", label)
			return nil
		},
	}
}

// HistoryCmd creates the history command
func HistoryCmd(app *AppContext) *cobra.Command {
	return &cobra.Command{
		Use:   "history",
		Short: "List the changes that can be undone, most recent first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			labels := app.Workspace.UndoLabels()
			if len(labels) == 0 {
				app.Out.Muted("No changes in this session")
				return nil
			}
			for i, label := range labels {
				app.Out.Printf("  %2d. %s\n", i+1, label)
			}
			if app.Workspace.CanRedo() {
				app.Out.Muted("  (redo available)")
			}
			return nil
		},
	}
}
