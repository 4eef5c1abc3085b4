package commands

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/clinicshift/shift-scheduler/pkg/core/calendar"
)

// MonthCmd creates the month command
func MonthCmd(app *AppContext) *cobra.Command {
	return &cobra.Command{
		Use:   "month [YYYY-MM]",
		Short: "Show or switch the scheduling month",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 1 {
				if strings.EqualFold(args[0], "reset") {
					app.Workspace.ResetMonth()
				} else {
					month, err := ParseMonth(args[0], app.now())
					if err != nil {
						return err
					}
					app.Workspace.SetMonth(month)
				}
			}
			app.Out.Printf("Scheduling month %s, week %d (from %s)\n",
				calendar.MonthPrefix(app.Workspace.Month()),
				app.Workspace.WeekOfMonth(),
				calendar.FormatDate(app.Workspace.WeekStart()))
			return nil
		},
	}
}

// WeekCmd creates the week command
func WeekCmd(app *AppContext) *cobra.Command {
	return &cobra.Command{
		Use:   "week <next|prev>",
		Short: "Move the displayed week within the scheduling month",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var moved bool
			switch strings.ToLower(args[0]) {
			case "next":
				moved = app.Workspace.NextWeek()
			case "prev", "previous":
				moved = app.Workspace.PrevWeek()
			default:
				return fmt.Errorf("expected next or prev, got %q", args[0])
			}
			if !moved {
				app.Out.Muted("Already at the edge of %s", calendar.MonthPrefix(app.Workspace.Month()))
			}
			app.Out.Printf("Week %d (from %s)\n", app.Workspace.WeekOfMonth(), calendar.FormatDate(app.Workspace.WeekStart()))
			return nil
		},
	}
}
