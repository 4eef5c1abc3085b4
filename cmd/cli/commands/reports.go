package commands

import (
	"encoding/json"
	"fmt"
	"maps"
	"slices"
	"strings"

	"github.com/spf13/cobra"

	"github.com/clinicshift/shift-scheduler/pkg/core/calendar"
	"github.com/clinicshift/shift-scheduler/pkg/core/model"
	"github.com/clinicshift/shift-scheduler/pkg/core/reports"
	"github.com/clinicshift/shift-scheduler/pkg/core/schedule"
)

// MissingCmd creates the missing command
func MissingCmd(app *AppContext) *cobra.Command {
	var wholeMonth, asJSON bool

	cmd := &cobra.Command{
		Use:   "missing",
		Short: "Report under-filled sessions for the displayed week",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			report, err := app.Workspace.MissingShifts()
			if wholeMonth {
				report, err = app.Workspace.MissingShiftsForMonth()
			}
			if err != nil {
				return err
			}

			if asJSON {
				return printJSON(app, report)
			}
			printMissing(app, report)
			return nil
		},
	}

	cmd.Flags().BoolVar(&wholeMonth, "month", false, "Check the whole scheduling month")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the report as JSON")

	return cmd
}

func printMissing(app *AppContext, report reports.MissingReport) {
	if len(report) == 0 {
		app.Out.Success("Every session is fully staffed")
		return
	}

	app.Out.Title(fmt.Sprintf("Missing staff: %d", report.TotalMissing()))
	for _, date := range report.Dates() {
		app.Out.Printf("\n%s\n", date)
		day := report[date]
		for _, fullKey := range slices.Sorted(maps.Keys(day)) {
			s := day[fullKey]
			line := fmt.Sprintf("  %s  %d/%d, missing %d", pad(fullKey, 28), s.Usage, s.Capacity, s.Missing)
			if len(s.RequiredSkills) > 0 {
				line += fmt.Sprintf("  [%s]", strings.Join(s.RequiredSkills, ", "))
			}
			app.Out.Warning("%s", line)
		}
	}
	app.Out.Println()
}

// TrackingCmd creates the tracking command
func TrackingCmd(app *AppContext) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "tracking",
		Short: "Count tracked sessions per employee in the scheduling month",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			report := app.Workspace.TrackingReport()
			if asJSON {
				return printJSON(app, report)
			}
			if len(report) == 0 {
				app.Out.Muted("No tracked sessions scheduled in %s", calendar.MonthPrefix(app.Workspace.Month()))
				return nil
			}

			app.Out.Title(fmt.Sprintf("Tracked sessions, %s", calendar.MonthPrefix(app.Workspace.Month())))
			for _, id := range slices.Sorted(maps.Keys(report)) {
				emp := report[id]
				app.Out.Printf("\n%s (#%d)\n", emp.Name, id)
				for _, fullKey := range slices.Sorted(maps.Keys(emp.Sessions)) {
					u := emp.Sessions[fullKey]
					app.Out.Printf("  %s  %d  %s\n", pad(fullKey, 28), u.Count, strings.Join(u.Dates, " "))
				}
			}
			app.Out.Println()
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the report as JSON")

	return cmd
}

// ShowCmd creates the show command
func ShowCmd(app *AppContext) *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Print the displayed week",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			days, err := app.Workspace.WeekDays()
			if err != nil {
				return err
			}
			st := app.Workspace.State()

			app.Out.Title(fmt.Sprintf("Week %d of %s (from %s)",
				app.Workspace.WeekOfMonth(),
				calendar.MonthPrefix(app.Workspace.Month()),
				calendar.FormatDate(app.Workspace.WeekStart())))

			const nameWidth, cellWidth = 12, 22
			header := pad("", nameWidth)
			for _, d := range days {
				header += pad(d.Format("Mon 01-02"), cellWidth)
			}
			app.Out.Println(app.Out.render(styleBold, header))

			for _, emp := range st.ActiveEmployees() {
				for i, shift := range st.VisibleShifts {
					label := ""
					if i == 0 {
						label = emp.Name
					}
					row := pad(label, nameWidth)
					for _, d := range days {
						entry, ok := st.Schedule.Get(schedule.NewKey(d, emp.ID, shift))
						row += pad(cellText(shift, entry, ok), cellWidth)
					}
					app.Out.Println(row)
				}
			}
			app.Out.Println()
			return nil
		},
	}
}

// cellText abbreviates a cell for the week grid
func cellText(shift model.ShiftType, entry schedule.Entry, ok bool) string {
	prefix := string(shift)[:1] + " "
	if !ok {
		return prefix + "·"
	}
	if entry.IsOff() {
		return prefix + entry.Label
	}
	if _, slot, session, ok := model.SplitShiftKey(entry.Label); ok {
		text := prefix + slot + " " + session.String()
		if entry.Memo != "" {
			text += "*"
		}
		return text
	}
	return prefix + entry.Label
}

func printJSON(app *AppContext, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode report: %w", err)
	}
	app.Out.Println(string(data))
	return nil
}
