package commands

import (
	"fmt"
	"slices"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/clinicshift/shift-scheduler/pkg/core/model"
)

// SkillsCmd creates the skills command
func SkillsCmd(app *AppContext) *cobra.Command {
	return &cobra.Command{
		Use:   "skills [skill...]",
		Short: "List skills, or replace the list with the given skills",
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) > 0 {
				app.Workspace.SaveSkills(args)
			}
			for _, skill := range app.Workspace.State().Skills {
				usage := app.Workspace.SkillUsage(skill)
				app.Out.Printf("  %s  %d employees, %d rules\n", pad(skill, 10), len(usage.Employees), len(usage.Rules))
			}
			return nil
		},
	}
}

// DeleteSkillCmd creates the deleteSkill command
func DeleteSkillCmd(app *AppContext) *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "deleteSkill <skill>",
		Short: "Delete a skill; --force also strips it from employees and rules",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			skill := args[0]
			if !force {
				usage := app.Workspace.SkillUsage(skill)
				if usage.InUse() {
					app.Out.Warning("%s is held by: %s", skill, strings.Join(usage.Employees, ", "))
					app.Out.Warning("%s is required by: %s", skill, strings.Join(sessionNames(usage.Rules), ", "))
					return fmt.Errorf("skill in use, rerun with --force to remove it everywhere")
				}
				if err := app.Workspace.DeleteSkill(skill); err != nil {
					return err
				}
			} else if !app.Workspace.ForceDeleteSkill(skill) {
				app.Out.Muted("No skill named %s", skill)
				return nil
			}
			app.Out.Success("Deleted skill %s", skill)
			return nil
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "Remove the skill from employees and rules too")

	return cmd
}

func sessionNames(sessions []model.SessionID) []string {
	names := make([]string, len(sessions))
	for i, s := range sessions {
		names[i] = s.String()
	}
	return names
}

// RulesCmd creates the rules command
func RulesCmd(app *AppContext) *cobra.Command {
	return &cobra.Command{
		Use:   "rules",
		Short: "List shift rules grouped by shift type and time slot",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			index := app.Workspace.Index()
			hierarchy := index.Hierarchy()
			for _, shift := range model.AllShiftTypes {
				slots := hierarchy[shift]
				if len(slots) == 0 {
					continue
				}
				app.Out.Title(string(shift))
				for _, slot := range slots {
					app.Out.Printf("  %s\n", slot.TimeSlot)
					for _, session := range slot.Sessions {
						rule, _ := index.Lookup(shift, slot.TimeSlot, session)
						line := fmt.Sprintf("    #%-4d %s cap %d  days %s  weeks %s",
							rule.ID, pad(session.String(), 8), rule.Capacity, joinInts(rule.Days), joinInts(rule.WeekFrequency))
						if len(rule.RequiredSkills) > 0 {
							line += fmt.Sprintf("  [%s]", strings.Join(rule.RequiredSkills, ", "))
						}
						if rule.IsTracked {
							line += "  tracked"
						}
						app.Out.Println(line)
					}
				}
			}
			if dups := index.Duplicates(); len(dups) > 0 {
				app.Out.Warning("Defined more than once (last wins): %s", strings.Join(sessionNames(dups), ", "))
			}
			app.Out.Println()
			return nil
		},
	}
}

func joinInts(values []int) string {
	parts := make([]string, len(values))
	for i, v := range values {
		parts[i] = strconv.Itoa(v)
	}
	return strings.Join(parts, ",")
}

// AddRuleCmd creates the addRule command
func AddRuleCmd(app *AppContext) *cobra.Command {
	var capacity int
	var days, weeks, skills string
	var tracked bool

	cmd := &cobra.Command{
		Use:   "addRule <session> <shift> <slot>",
		Short: "Add a shift rule",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			shift, err := model.ParseShiftType(args[1])
			if err != nil {
				return err
			}
			dayList, err := ParseDays(days)
			if err != nil {
				return err
			}
			weekList, err := ParseDays(weeks)
			if err != nil {
				return err
			}
			var required []string
			for _, s := range strings.Split(skills, ",") {
				if s = strings.TrimSpace(s); s != "" {
					required = append(required, s)
				}
			}

			rule, err := app.Workspace.AddRule(model.ShiftRule{
				SessionID:      model.SessionID(args[0]),
				ShiftType:      shift,
				TimeSlot:       args[2],
				Capacity:       capacity,
				Days:           dayList,
				WeekFrequency:  weekList,
				RequiredSkills: required,
				IsTracked:      tracked,
			})
			if err != nil {
				return err
			}
			app.Out.Success("Added rule #%d: %s", rule.ID, rule.FullKey())
			return nil
		},
	}

	cmd.Flags().IntVar(&capacity, "capacity", 1, "Staff needed (1-5)")
	cmd.Flags().StringVar(&days, "days", "1,2,3,4,5,6", "Weekdays, Monday=1 to Saturday=6")
	cmd.Flags().StringVar(&weeks, "weeks", "1,2,3,4,5", "Weeks of the month")
	cmd.Flags().StringVar(&skills, "skills", "", "Comma separated required skills")
	cmd.Flags().BoolVar(&tracked, "tracked", false, "Count this session per employee")

	return cmd
}

// DeleteRuleCmd creates the deleteRule command
func DeleteRuleCmd(app *AppContext) *cobra.Command {
	return &cobra.Command{
		Use:   "deleteRule <id>",
		Short: "Delete a shift rule",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.Atoi(args[0])
			if err != nil {
				return fmt.Errorf("rule id must be a number, got %q", args[0])
			}
			if !app.Workspace.DeleteRule(id) {
				return fmt.Errorf("no rule with id %d", id)
			}
			app.Out.Success("Deleted rule #%d", id)
			return nil
		},
	}
}

// SlotUsageCmd creates the slotUsage command
func SlotUsageCmd(app *AppContext) *cobra.Command {
	return &cobra.Command{
		Use:   "slotUsage <shift> <slot>",
		Short: "Show the rules and scheduled dates using a time slot",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			shift, err := model.ParseShiftType(args[0])
			if err != nil {
				return err
			}
			usage := app.Workspace.TimeSlotUsage(shift, args[1])
			if !usage.InUse() {
				app.Out.Muted("%s %s is unused", shift, args[1])
				return nil
			}
			app.Out.Printf("Rules: %s\n", strings.Join(sessionNames(usage.Rules), ", "))
			app.Out.Printf("Dates: %s\n", strings.Join(usage.ScheduleDates, ", "))
			return nil
		},
	}
}

// VisibleShiftsCmd creates the visibleShifts command
func VisibleShiftsCmd(app *AppContext) *cobra.Command {
	return &cobra.Command{
		Use:   "visibleShifts [shift...]",
		Short: "Show or set the shift types printed by show",
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) > 0 {
				shifts := make([]model.ShiftType, 0, len(args))
				for _, arg := range args {
					shift, err := model.ParseShiftType(arg)
					if err != nil {
						return err
					}
					shifts = append(shifts, shift)
				}
				if err := app.Workspace.SaveVisibleShifts(shifts); err != nil {
					return err
				}
			}
			visible := app.Workspace.State().VisibleShifts
			names := make([]string, len(visible))
			for i, s := range visible {
				names[i] = string(s)
			}
			app.Out.Printf("Visible: %s\n", strings.Join(names, ", "))
			return nil
		},
	}
}

// AssignDoctorCmd creates the assignDoctor command
func AssignDoctorCmd(app *AppContext) *cobra.Command {
	return &cobra.Command{
		Use:   "assignDoctor <session> <shift> <days> <doctor>",
		Short: "Record the doctor running a session on the given weekdays (e.g. 1,3,5)",
		Args:  cobra.MinimumNArgs(4),
		RunE: func(cmd *cobra.Command, args []string) error {
			shift, err := model.ParseShiftType(args[1])
			if err != nil {
				return err
			}
			days, err := ParseDays(args[2])
			if err != nil {
				return err
			}
			doctor := strings.Join(args[3:], " ")
			added, err := app.Workspace.AssignDoctor(model.SessionID(args[0]), shift, days, doctor)
			if err != nil {
				return err
			}
			app.Out.Success("%s runs %s on %d days", doctor, added[0].SessionID, len(added))
			return nil
		},
	}
}

// DoctorsCmd creates the doctors command
func DoctorsCmd(app *AppContext) *cobra.Command {
	return &cobra.Command{
		Use:   "doctors",
		Short: "List doctor assignments",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			doctors := slices.Clone(app.Workspace.State().ShiftDoctors)
			if len(doctors) == 0 {
				app.Out.Muted("No doctor assignments")
				return nil
			}
			slices.SortFunc(doctors, func(a, b model.DoctorAssignment) int {
				if c := strings.Compare(string(a.SessionID), string(b.SessionID)); c != 0 {
					return c
				}
				return a.DayOfWeek - b.DayOfWeek
			})
			for _, d := range doctors {
				app.Out.Printf("  %s %s day %d  %s  (%s)\n", pad(d.SessionID.String(), 8), pad(string(d.ShiftType), 9), d.DayOfWeek, d.DoctorName, d.ID)
			}
			return nil
		},
	}
}

// RemoveDoctorCmd creates the removeDoctor command
func RemoveDoctorCmd(app *AppContext) *cobra.Command {
	return &cobra.Command{
		Use:   "removeDoctor <id>",
		Short: "Remove a doctor assignment",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !app.Workspace.RemoveDoctor(args[0]) {
				return fmt.Errorf("no doctor assignment with id %s", args[0])
			}
			app.Out.Success("Removed doctor assignment")
			return nil
		},
	}
}
