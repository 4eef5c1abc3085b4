package commands

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/clinicshift/shift-scheduler/pkg/core/model"
	"github.com/clinicshift/shift-scheduler/pkg/core/schedule"
	"github.com/clinicshift/shift-scheduler/pkg/core/services"
	"github.com/clinicshift/shift-scheduler/pkg/db"
)

type memoryStore struct {
	data map[string][]byte
}

func (m *memoryStore) Get(ctx context.Context, key string) ([]byte, error) {
	v, ok := m.data[key]
	if !ok {
		return nil, db.ErrNotFound
	}
	return v, nil
}

func (m *memoryStore) Set(ctx context.Context, key string, value []byte) error {
	m.data[key] = value
	return nil
}

func newTestApp(t *testing.T) (*AppContext, *bytes.Buffer) {
	t.Helper()
	clock := func() time.Time { return now }
	ws, err := services.Open(context.Background(), services.Options{
		Store:  &memoryStore{data: map[string][]byte{}},
		Logger: zap.NewNop(),
		Now:    clock,
	})
	require.NoError(t, err)

	var out bytes.Buffer
	return &AppContext{
		Workspace: ws,
		Logger:    zap.NewNop(),
		Ctx:       context.Background(),
		Out:       NewPrinter(&out),
		Now:       clock,
	}, &out
}

// run executes args against a fresh command tree so flag values never leak between calls
func run(t *testing.T, app *AppContext, args ...string) error {
	t.Helper()
	root := &cobra.Command{Use: "cli", SilenceUsage: true, SilenceErrors: true}
	AddAll(root, app, strings.NewReader(""))
	root.SetArgs(args)
	return root.Execute()
}

func key(date string, emp int, shift model.ShiftType) schedule.Key {
	return schedule.Key{Date: date, EmployeeID: emp, Shift: shift}
}

func TestSetCmd_SessionFromRule(t *testing.T) {
	app, out := newTestApp(t)

	require.NoError(t, run(t, app, "set", "2025-03-03", "1", "morning", "83診"))

	want := model.FullShiftKey(model.Morning, "8-12", "83診")
	assert.Equal(t, want, app.Workspace.State().Schedule[key("2025-03-03", 1, model.Morning)].Label)
	assert.Contains(t, out.String(), want)
}

func TestSetCmd_MissingSkillNeedsForce(t *testing.T) {
	app, _ := newTestApp(t)
	k := key("2025-03-03", 2, model.Morning)

	err := run(t, app, "set", "2025-03-03", "2", "MORNING", "83診")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "--force")
	assert.NotContains(t, app.Workspace.State().Schedule, k)

	require.NoError(t, run(t, app, "set", "--force", "2025-03-03", "2", "MORNING", "83診"))
	assert.Contains(t, app.Workspace.State().Schedule, k)
}

func TestSetCmd_OffAppliesToWholeDay(t *testing.T) {
	app, _ := newTestApp(t)

	require.NoError(t, run(t, app, "set", "2025-03-04", "3", "NIGHT", "off", "--memo", "leave"))

	sc := app.Workspace.State().Schedule
	for _, shift := range model.AllShiftTypes {
		assert.Equal(t, model.LabelOff, sc[key("2025-03-04", 3, shift)].Label, shift)
	}
}

func TestSetCmd_UnknownSessionNeedsSlot(t *testing.T) {
	app, _ := newTestApp(t)

	err := run(t, app, "set", "2025-03-03", "1", "NIGHT", "999")
	assert.ErrorContains(t, err, "--slot")
}

func TestPaintCmd(t *testing.T) {
	app, out := newTestApp(t)

	require.NoError(t, run(t, app, "paint", "2025-03-03", "1", "MORNING"))
	assert.Equal(t, model.FullShiftKey(model.Morning, "8-12", "83"),
		app.Workspace.State().Schedule[key("2025-03-03", 1, model.Morning)].Label)

	out.Reset()
	require.NoError(t, run(t, app, "paint", "2025-03-03", "4", "MORNING"))
	assert.Contains(t, out.String(), "No main session rule")
	assert.NotContains(t, app.Workspace.State().Schedule, key("2025-03-03", 4, model.Morning))
}

func TestClearCmd(t *testing.T) {
	app, out := newTestApp(t)

	require.NoError(t, run(t, app, "clear", "2025-03-03", "1", "MORNING"))
	assert.Contains(t, out.String(), "already empty")

	require.NoError(t, run(t, app, "set", "2025-03-03", "1", "MORNING", "83診"))
	require.NoError(t, run(t, app, "clear", "2025-03-03", "1", "MORNING"))
	assert.Empty(t, app.Workspace.State().Schedule)
}

func TestMoveCmd_RejectionIsReported(t *testing.T) {
	app, out := newTestApp(t)

	require.NoError(t, run(t, app, "move", "2025-03-03", "1", "2025-03-04", "2", "MORNING"))
	assert.Contains(t, out.String(), "Move rejected")
	assert.Empty(t, app.Workspace.State().Schedule)
}

func TestUndoRedoCmd(t *testing.T) {
	app, out := newTestApp(t)
	k := key("2025-03-03", 1, model.Morning)

	require.NoError(t, run(t, app, "undo"))
	assert.Contains(t, out.String(), "Nothing to undo")

	require.NoError(t, run(t, app, "set", "2025-03-03", "1", "MORNING", "83診"))
	require.NoError(t, run(t, app, "undo"))
	assert.NotContains(t, app.Workspace.State().Schedule, k)

	require.NoError(t, run(t, app, "redo"))
	assert.Contains(t, app.Workspace.State().Schedule, k)

	out.Reset()
	require.NoError(t, run(t, app, "history"))
	assert.Contains(t, out.String(), "1.")
}

func TestEmployeeCommands(t *testing.T) {
	app, out := newTestApp(t)

	require.NoError(t, run(t, app, "addEmployee", "林美玲", "--role", string(model.RolePartTime)))
	emp, err := ResolveEmployee(app.Workspace.State(), "林美玲")
	require.NoError(t, err)
	assert.Equal(t, model.RolePartTime, emp.Role)

	require.NoError(t, run(t, app, "setActive", "林美玲", "false"))
	out.Reset()
	require.NoError(t, run(t, app, "employees"))
	assert.NotContains(t, out.String(), "林美玲")

	out.Reset()
	require.NoError(t, run(t, app, "employees", "--all"))
	assert.Contains(t, out.String(), "林美玲")

	require.NoError(t, run(t, app, "deleteEmployee", "林美玲"))
	_, err = ResolveEmployee(app.Workspace.State(), "林美玲")
	assert.Error(t, err)
}

func TestRuleCommands(t *testing.T) {
	app, out := newTestApp(t)

	require.NoError(t, run(t, app, "addRule", "501診", "NIGHT", "5-9", "--capacity", "2", "--days", "2,4"))
	rule, ok := app.Workspace.Index().ByShiftAndSession(model.Night, "501診")
	require.True(t, ok)
	assert.Equal(t, 2, rule.Capacity)
	assert.Equal(t, []int{2, 4}, rule.Days)

	out.Reset()
	require.NoError(t, run(t, app, "rules"))
	assert.Contains(t, out.String(), "501診")

	assert.Error(t, run(t, app, "deleteRule", "abc"))
	assert.Error(t, run(t, app, "deleteRule", "123456"))
}

func TestDeleteSkillCmd_InUseNeedsForce(t *testing.T) {
	app, _ := newTestApp(t)

	assert.ErrorContains(t, run(t, app, "deleteSkill", "石膏"), "--force")
	assert.Contains(t, app.Workspace.State().Skills, "石膏")

	require.NoError(t, run(t, app, "deleteSkill", "--force", "石膏"))
	assert.NotContains(t, app.Workspace.State().Skills, "石膏")
	for _, e := range app.Workspace.State().Employees {
		assert.NotContains(t, e.Skills, "石膏")
	}
}

func TestCountCmd(t *testing.T) {
	app, out := newTestApp(t)
	require.NoError(t, run(t, app, "set", "2025-03-03", "1", "MORNING", "83診"))

	out.Reset()
	require.NoError(t, run(t, app, "count", "2025-03-03", "MORNING", "/", "8-12", "/", "83診"))
	assert.Contains(t, out.String(), ": 1")
}

func TestExportImportCmd(t *testing.T) {
	app, _ := newTestApp(t)
	require.NoError(t, run(t, app, "set", "2025-03-03", "1", "MORNING", "83診"))

	path := filepath.Join(t.TempDir(), "backup.json")
	require.NoError(t, run(t, app, "export", path))
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"version"`)

	other, _ := newTestApp(t)
	require.NoError(t, run(t, other, "import", path))
	assert.Equal(t, app.Workspace.State().Schedule, other.Workspace.State().Schedule)

	bad := filepath.Join(t.TempDir(), "bad.json")
	require.NoError(t, os.WriteFile(bad, []byte(`{"foo": 1}`), 0644))
	assert.Error(t, run(t, other, "import", bad))
}

func TestRunInteractive(t *testing.T) {
	app, out := newTestApp(t)
	root := &cobra.Command{Use: "cli"}
	AddAll(root, app, strings.NewReader(""))

	input := strings.Join([]string{
		"set 2025-03-03 1 MORNING 83診",
		"set 2025-03-04 1 MORNING OFF --memo \"long weekend\"",
		"undo",
		"bogus",
		"",
		"exit",
		"set 2025-03-05 1 MORNING 83診",
	}, "\n")

	require.NoError(t, RunInteractive(app, root, strings.NewReader(input)))

	sc := app.Workspace.State().Schedule
	assert.Contains(t, sc, key("2025-03-03", 1, model.Morning))
	assert.NotContains(t, sc, key("2025-03-04", 1, model.Morning), "undone")
	assert.NotContains(t, sc, key("2025-03-05", 1, model.Morning), "after exit")
	assert.Contains(t, out.String(), "Unknown command: bogus")
	assert.Contains(t, out.String(), "Goodbye!")
	assert.Contains(t, out.String(), "2025-03 w1> ")
}

func TestRunInteractive_FlagsResetBetweenRuns(t *testing.T) {
	app, _ := newTestApp(t)
	root := &cobra.Command{Use: "cli"}
	AddAll(root, app, strings.NewReader(""))

	input := "set --force 2025-03-03 2 MORNING 83診\nset 2025-03-10 2 MORNING 83診\n"
	require.NoError(t, RunInteractive(app, root, strings.NewReader(input)))

	sc := app.Workspace.State().Schedule
	assert.Contains(t, sc, key("2025-03-03", 2, model.Morning))
	assert.NotContains(t, sc, key("2025-03-10", 2, model.Morning))
}

func TestNavigationCommands(t *testing.T) {
	app, out := newTestApp(t)

	require.NoError(t, run(t, app, "month"))
	assert.Contains(t, out.String(), "Scheduling month 2025-03, week 1")

	require.NoError(t, run(t, app, "week", "prev"))
	assert.Contains(t, out.String(), "Already at the edge")

	require.NoError(t, run(t, app, "week", "next"))
	assert.Equal(t, 2, app.Workspace.WeekOfMonth())
	assert.Error(t, run(t, app, "week", "sideways"))

	require.NoError(t, run(t, app, "month", "2025-05"))
	assert.Equal(t, "2025-05", app.Workspace.Month().Format("2006-01"))

	require.NoError(t, run(t, app, "month", "reset"))
	assert.Equal(t, "2025-03", app.Workspace.Month().Format("2006-01"))
}

func TestReportCommands(t *testing.T) {
	app, out := newTestApp(t)
	require.NoError(t, run(t, app, "week", "next"))

	require.NoError(t, run(t, app, "missing"))
	assert.Contains(t, out.String(), "Missing staff")

	out.Reset()
	require.NoError(t, run(t, app, "missing", "--json"))
	assert.Contains(t, out.String(), "2025-03-03")

	out.Reset()
	require.NoError(t, run(t, app, "show"))
	assert.Contains(t, out.String(), "Week 2 of 2025-03")
	assert.Contains(t, out.String(), "王小明")

	out.Reset()
	require.NoError(t, run(t, app, "tracking"))
	assert.Contains(t, out.String(), "No tracked sessions")
}
