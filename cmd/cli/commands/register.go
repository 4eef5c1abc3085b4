package commands

import (
	"io"

	"github.com/spf13/cobra"
)

// AddAll attaches every command to root
func AddAll(root *cobra.Command, app *AppContext, in io.Reader) {
	root.AddCommand(
		ShowCmd(app),
		SetCmd(app),
		ClearCmd(app),
		PaintCmd(app),
		EraseCmd(app),
		MoveCmd(app),
		OptionsCmd(app),
		CountCmd(app),
		MissingCmd(app),
		TrackingCmd(app),
		UndoCmd(app),
		RedoCmd(app),
		HistoryCmd(app),
		MonthCmd(app),
		WeekCmd(app),
		EmployeesCmd(app),
		AddEmployeeCmd(app),
		DeleteEmployeeCmd(app),
		SetActiveCmd(app),
		MainSessionCmd(app),
		ReorderCmd(app),
		SkillsCmd(app),
		DeleteSkillCmd(app),
		RulesCmd(app),
		AddRuleCmd(app),
		DeleteRuleCmd(app),
		SlotUsageCmd(app),
		VisibleShiftsCmd(app),
		AssignDoctorCmd(app),
		DoctorsCmd(app),
		RemoveDoctorCmd(app),
		ExportCmd(app),
		ImportCmd(app),
		InteractiveCmd(app, in),
	)
}
