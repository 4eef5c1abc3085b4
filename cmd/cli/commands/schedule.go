package commands

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/clinicshift/shift-scheduler/pkg/core/assignment"
	"github.com/clinicshift/shift-scheduler/pkg/core/calendar"
	"github.com/clinicshift/shift-scheduler/pkg/core/model"
	"github.com/clinicshift/shift-scheduler/pkg/core/schedule"
)

// resolveLabel turns the value argument of set into a schedule label. It accepts
// OFF, OFF_CONFIRMED, a compound label, or a session id whose slot comes from
// --slot or from the session's rule.
func resolveLabel(app *AppContext, k schedule.Key, value, slot string) (string, error) {
	value = strings.TrimSpace(value)
	upper := strings.ToUpper(value)
	if model.IsOffLabel(upper) {
		return upper, nil
	}
	if model.IsCompoundLabel(value) {
		shift, _, _, ok := model.SplitShiftKey(value)
		if !ok || shift != k.Shift {
			return "", fmt.Errorf("label %q does not belong to %s", value, k.Shift)
		}
		return value, nil
	}

	session := model.SessionID(value)
	if slot != "" {
		return model.FullShiftKey(k.Shift, slot, session), nil
	}
	rule, ok := app.Workspace.Index().ByShiftAndSession(k.Shift, session)
	if !ok {
		return "", fmt.Errorf("no %s rule for session %s, pass --slot", k.Shift, session)
	}
	return model.FullShiftKey(k.Shift, rule.TimeSlot, rule.SessionID), nil
}

// checkSelectable rejects a session that the cell's candidate list marks as full or
// as needing skills the employee lacks
func checkSelectable(app *AppContext, k schedule.Key, label string) error {
	_, slot, session, ok := model.SplitShiftKey(label)
	if !ok {
		return nil
	}
	options, err := app.Workspace.Candidates(k, slot)
	if err != nil {
		return err
	}
	for _, o := range options {
		if o.SessionID.Normalize() != session.Normalize() {
			continue
		}
		if !o.MeetsSkills {
			return fmt.Errorf("%s requires skills %s", o.SessionID, strings.Join(o.RequiredSkills, ", "))
		}
		if o.IsFull && !o.Current {
			return fmt.Errorf("%s is full (%d/%d) on %s", o.SessionID, o.Usage, o.Capacity, k.Date)
		}
	}
	return nil
}

// SetCmd creates the set command
func SetCmd(app *AppContext) *cobra.Command {
	var memo, slot string
	var force bool

	cmd := &cobra.Command{
		Use:   "set <date> <employee> <shift> <session|label|OFF|OFF_CONFIRMED>",
		Short: "Write a session or an OFF state into a cell",
		Args:  cobra.ExactArgs(4),
		RunE: func(cmd *cobra.Command, args []string) error {
			k, err := ParseCell(app.Workspace.State(), args[0], args[1], args[2], app.now())
			if err != nil {
				return err
			}
			label, err := resolveLabel(app, k, args[3], slot)
			if err != nil {
				return err
			}
			if !force {
				if err := checkSelectable(app, k, label); err != nil {
					return fmt.Errorf("%w (use --force to override)", err)
				}
			}

			app.Logger.Debug("set command", zap.String("cell", k.String()), zap.String("label", label))

			if !app.Workspace.SetEntry(k, label, memo) {
				app.Out.Muted("No change")
				return nil
			}
			app.Out.Success("%s %s #%d: %s", k.Date, k.Shift, k.EmployeeID, label)
			return nil
		},
	}

	cmd.Flags().StringVar(&memo, "memo", "", "Note attached to the cell")
	cmd.Flags().StringVar(&slot, "slot", "", "Time slot for a bare session id")
	cmd.Flags().BoolVar(&force, "force", false, "Write even when the session is full or skills are missing")

	return cmd
}

// ClearCmd creates the clear command
func ClearCmd(app *AppContext) *cobra.Command {
	return &cobra.Command{
		Use:   "clear <date> <employee> <shift>",
		Short: "Empty a cell (an OFF cell clears the whole day)",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			k, err := ParseCell(app.Workspace.State(), args[0], args[1], args[2], app.now())
			if err != nil {
				return err
			}
			if !app.Workspace.ClearEntry(k) {
				app.Out.Muted("Cell already empty")
				return nil
			}
			app.Out.Success("Cleared %s", k)
			return nil
		},
	}
}

// PaintCmd creates the paint command
func PaintCmd(app *AppContext) *cobra.Command {
	return &cobra.Command{
		Use:   "paint <date> <employee> <shift>",
		Short: "Fill a cell with the employee's main session",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			k, err := ParseCell(app.Workspace.State(), args[0], args[1], args[2], app.now())
			if err != nil {
				return err
			}
			if app.Workspace.Paint(k) == assignment.NeedsSelection {
				app.Out.Warning("No main session rule for %s, choose one with: options %s %d %s <slot>", k.Shift, k.Date, k.EmployeeID, k.Shift)
				return nil
			}
			app.Out.Success("%s: %s", k, app.Workspace.State().Schedule[k].Label)
			return nil
		},
	}
}

// EraseCmd creates the erase command
func EraseCmd(app *AppContext) *cobra.Command {
	return &cobra.Command{
		Use:   "erase <date> <employee> <shift>",
		Short: "Apply the eraser to a cell",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			k, err := ParseCell(app.Workspace.State(), args[0], args[1], args[2], app.now())
			if err != nil {
				return err
			}
			if app.Workspace.Erase(k) {
				app.Out.Success("Erased %s", k)
			} else {
				app.Out.Muted("Cell already empty")
			}
			return nil
		},
	}
}

// MoveCmd creates the move command
func MoveCmd(app *AppContext) *cobra.Command {
	return &cobra.Command{
		Use:   "move <fromDate> <fromEmployee> <toDate> <toEmployee> <shift>",
		Short: "Move a cell's value within one shift type, swapping with an occupied target",
		Args:  cobra.ExactArgs(5),
		RunE: func(cmd *cobra.Command, args []string) error {
			st := app.Workspace.State()
			from, err := ParseCell(st, args[0], args[1], args[4], app.now())
			if err != nil {
				return err
			}
			to, err := ParseCell(st, args[2], args[3], args[4], app.now())
			if err != nil {
				return err
			}

			result, err := app.Workspace.Move(from, to)
			if err != nil {
				if assignment.IsRejection(err) {
					app.Out.Error("Move rejected: %v", err)
					return nil
				}
				return err
			}
			app.Out.Success("%s", result.Label)
			return nil
		},
	}
}

// OptionsCmd creates the options command
func OptionsCmd(app *AppContext) *cobra.Command {
	return &cobra.Command{
		Use:   "options <date> <employee> <shift> [slot]",
		Short: "List the sessions that can be chosen for a cell",
		Args:  cobra.RangeArgs(3, 4),
		RunE: func(cmd *cobra.Command, args []string) error {
			k, err := ParseCell(app.Workspace.State(), args[0], args[1], args[2], app.now())
			if err != nil {
				return err
			}

			slots := app.Workspace.Index().TimeSlots(k.Shift)
			if len(args) == 4 {
				slots = []string{args[3]}
			}

			app.Out.Title(fmt.Sprintf("Sessions for %s on %s (employee #%d)", k.Shift, k.Date, k.EmployeeID))
			for _, slot := range slots {
				options, err := app.Workspace.Candidates(k, slot)
				if err != nil {
					return err
				}
				if len(options) == 0 {
					continue
				}
				app.Out.Printf("\n%s\n", slot)
				for _, o := range options {
					printOption(app, k, slot, o)
				}
			}
			app.Out.Println()
			return nil
		},
	}
}

func printOption(app *AppContext, k schedule.Key, slot string, o assignment.SessionOption) {
	line := fmt.Sprintf("  %s %d/%d", pad(o.SessionID.String(), 8), o.Usage, o.Capacity)
	if o.Difficult {
		line += fmt.Sprintf("  [%s]", strings.Join(o.RequiredSkills, ", "))
	}
	tracked := app.Workspace.TrackedCount(k.EmployeeID, k.Shift, slot, o.SessionID)
	if tracked.Tracked {
		line += fmt.Sprintf("  tracked: %d this period", tracked.Count)
	}
	switch {
	case o.Current:
		app.Out.Println(app.Out.render(styleBold, line+"  (current)"))
	case !o.MeetsSkills:
		app.Out.Muted("%s  missing skills", line)
	case o.IsFull:
		app.Out.Muted("%s  full", line)
	default:
		app.Out.Println(line)
	}
}

// CountCmd creates the count command
func CountCmd(app *AppContext) *cobra.Command {
	return &cobra.Command{
		Use:   "count <date> <fullKey>",
		Short: `Count cells on a date holding a session, e.g. count 2025-03-03 "MORNING / 8-12 / 83診"`,
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			date, err := ParseDate(args[0], app.now())
			if err != nil {
				return err
			}
			// The interactive session splits on spaces, so rejoin the label
			fullKey := strings.Join(args[1:], " ")
			dateKey := calendar.FormatDate(date)
			app.Out.Printf("%s on %s: %d\n", fullKey, dateKey, app.Workspace.SessionCount(dateKey, fullKey))
			return nil
		},
	}
}
