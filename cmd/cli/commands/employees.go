package commands

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/clinicshift/shift-scheduler/pkg/core/model"
)

// EmployeesCmd creates the employees command
func EmployeesCmd(app *AppContext) *cobra.Command {
	var all bool

	cmd := &cobra.Command{
		Use:   "employees",
		Short: "List employees in display order",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			st := app.Workspace.State()
			employees := st.ActiveEmployees()
			if all {
				employees = st.Employees
			}

			app.Out.Title(fmt.Sprintf("%d employees", len(employees)))
			for _, e := range employees {
				line := fmt.Sprintf("  %3d  %s %s  major: %s", e.ID, pad(e.Name, 10), pad(string(e.Role), 6), e.MajorShift)
				if e.MainSessionID != "" {
					line += fmt.Sprintf("  main: %s", e.MainSessionID)
				}
				if len(e.Skills) > 0 {
					line += fmt.Sprintf("  [%s]", strings.Join(e.Skills, ", "))
				}
				if !e.Active() {
					app.Out.Muted("%s  (inactive)", line)
					continue
				}
				app.Out.Println(line)
			}
			app.Out.Println()
			return nil
		},
	}

	cmd.Flags().BoolVar(&all, "all", false, "Include inactive employees")

	return cmd
}

// AddEmployeeCmd creates the addEmployee command
func AddEmployeeCmd(app *AppContext) *cobra.Command {
	var role string

	cmd := &cobra.Command{
		Use:   "addEmployee <name>",
		Short: "Add an employee",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			emp, err := app.Workspace.AddEmployee(args[0], model.Role(role))
			if err != nil {
				return err
			}
			app.Out.Success("Added %s (#%d, %s)", emp.Name, emp.ID, emp.Role)
			return nil
		},
	}

	cmd.Flags().StringVar(&role, "role", string(model.RoleFullTime), "Role: 正職, 半職 or 支援")

	return cmd
}

// DeleteEmployeeCmd creates the deleteEmployee command
func DeleteEmployeeCmd(app *AppContext) *cobra.Command {
	return &cobra.Command{
		Use:   "deleteEmployee <employee>",
		Short: "Delete an employee together with their schedule",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			emp, err := ResolveEmployee(app.Workspace.State(), args[0])
			if err != nil {
				return err
			}
			if err := app.Workspace.DeleteEmployee(emp.ID); err != nil {
				return err
			}
			app.Out.Success("Deleted %s and their schedule", emp.Name)
			return nil
		},
	}
}

// SetActiveCmd creates the setActive command
func SetActiveCmd(app *AppContext) *cobra.Command {
	return &cobra.Command{
		Use:   "setActive <employee> <true|false>",
		Short: "Deactivate or reactivate an employee, keeping their schedule",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			emp, err := ResolveEmployee(app.Workspace.State(), args[0])
			if err != nil {
				return err
			}
			active, err := strconv.ParseBool(args[1])
			if err != nil {
				return fmt.Errorf("expected true or false, got %q", args[1])
			}
			if err := app.Workspace.SetEmployeeActive(emp.ID, active); err != nil {
				return err
			}
			app.Out.Success("%s is now %s", emp.Name, map[bool]string{true: "active", false: "inactive"}[active])
			return nil
		},
	}
}

// MainSessionCmd creates the mainSession command
func MainSessionCmd(app *AppContext) *cobra.Command {
	return &cobra.Command{
		Use:   "mainSession <employee> <majorShift> [session]",
		Short: "Set an employee's major shift and the main session used by paint",
		Args:  cobra.RangeArgs(2, 3),
		RunE: func(cmd *cobra.Command, args []string) error {
			emp, err := ResolveEmployee(app.Workspace.State(), args[0])
			if err != nil {
				return err
			}
			var session model.SessionID
			if len(args) == 3 {
				session = model.SessionID(args[2])
			}

			app.Logger.Debug("mainSession command",
				zap.Int("employee_id", emp.ID),
				zap.String("major_shift", args[1]),
				zap.String("session", session.String()))

			if err := app.Workspace.SetMajorShift(emp.ID, args[1], session); err != nil {
				return err
			}
			app.Out.Success("%s: major %s, main session %q", emp.Name, args[1], session)
			return nil
		},
	}
}

// ReorderCmd creates the reorder command
func ReorderCmd(app *AppContext) *cobra.Command {
	return &cobra.Command{
		Use:   "reorder <employee>...",
		Short: "Put the given employees first in display order",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			st := app.Workspace.State()
			ids := make([]int, 0, len(args))
			for _, arg := range args {
				emp, err := ResolveEmployee(st, arg)
				if err != nil {
					return err
				}
				ids = append(ids, emp.ID)
			}
			if err := app.Workspace.ReorderEmployees(ids); err != nil {
				return err
			}
			app.Out.Success("Reordered employees")
			return nil
		},
	}
}
