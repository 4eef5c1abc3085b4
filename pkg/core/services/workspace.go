package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
	"golang.org/x/text/language"

	"github.com/clinicshift/shift-scheduler/pkg/core/assignment"
	"github.com/clinicshift/shift-scheduler/pkg/core/calendar"
	"github.com/clinicshift/shift-scheduler/pkg/core/history"
	"github.com/clinicshift/shift-scheduler/pkg/core/rules"
	"github.com/clinicshift/shift-scheduler/pkg/core/state"
	"github.com/clinicshift/shift-scheduler/pkg/db"
)

const DefaultRetentionDays = 90

var (
	ErrEmployeeNotFound  = errors.New("employee not found")
	ErrMainSessionTaken  = errors.New("main session already assigned to another employee")
	ErrInvalidRule       = errors.New("invalid shift rule")
	ErrInvalidImport     = errors.New("invalid import data")
	ErrInvalidShiftTypes = errors.New("invalid visible shift types")
)

// Options configures a Workspace
type Options struct {
	Store  db.StateStore
	Logger *zap.Logger
	// RetentionDays bounds how far back schedule entries are kept at load time
	RetentionDays   int
	HistoryCapacity int
	// Month is the scheduling month; zero means the month after Now
	Month    time.Time
	Closures *calendar.Closures
	Locale   language.Tag
	Now      func() time.Time
}

// Workspace owns the history of the application state and persists every change.
// It is driven by a single caller and is not safe for concurrent use.
type Workspace struct {
	ctx       context.Context
	store     db.StateStore
	logger    *zap.Logger
	history   *history.Store[*state.AppState]
	rules     *rules.Cache
	closures  *calendar.Closures
	month     time.Time
	weekStart time.Time
	now       func() time.Time
}

// Open loads the persisted state, prunes old schedule entries and starts a fresh history
func Open(ctx context.Context, opts Options) (*Workspace, error) {
	if opts.Store == nil {
		return nil, fmt.Errorf("workspace requires a state store")
	}
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	locale := opts.Locale
	if locale == language.Und {
		locale = rules.DefaultLocale
	}
	retention := opts.RetentionDays
	if retention == 0 {
		retention = DefaultRetentionDays
	}

	w := &Workspace{
		ctx:      ctx,
		store:    opts.Store,
		logger:   logger,
		rules:    rules.NewCache(locale),
		closures: opts.Closures,
		now:      now,
	}

	initial := db.LoadState(ctx, opts.Store, logger)

	pruned, removed, err := PruneSchedule(initial.Schedule, retention, now())
	if err != nil {
		logger.Error("Failed to prune schedule, keeping all entries", zap.Error(err))
	} else if removed > 0 {
		logger.Info("Pruned old schedule entries",
			zap.Int("removed", removed),
			zap.Int("retention_days", retention))
		initial = initial.WithSchedule(pruned)
	}

	w.history = history.New(initial,
		history.WithCapacity[*state.AppState](opts.HistoryCapacity),
		history.WithObserver(w.persist),
	)

	month := opts.Month
	if month.IsZero() {
		month = calendar.NextMonth(now())
	}
	w.SetMonth(month)

	return w, nil
}

// persist writes the present state after every change. Failures are logged only.
func (w *Workspace) persist(snapshot history.Snapshot[*state.AppState]) {
	if err := db.SaveState(w.ctx, w.store, snapshot.State); err != nil {
		w.logger.Error("Failed to persist state", zap.String("action", snapshot.Label), zap.Error(err))
		return
	}
	w.logger.Debug("Persisted state", zap.String("action", snapshot.Label))
}

// Save writes the present state immediately
func (w *Workspace) Save(ctx context.Context) error {
	if err := db.SaveState(ctx, w.store, w.State()); err != nil {
		return fmt.Errorf("failed to save state: %w", err)
	}
	return nil
}

func (w *Workspace) State() *state.AppState {
	return w.history.Present()
}

// Index returns the rule index for the present rule list
func (w *Workspace) Index() *rules.Index {
	return w.rules.Get(w.State().Rules)
}

// Engine returns an assignment engine bound to the present rules and scheduling month
func (w *Workspace) Engine() *assignment.Engine {
	return assignment.NewEngine(w.Index(), w.month)
}

// commit applies mutate as one undoable step
func (w *Workspace) commit(label string, mutate func(*state.AppState) *state.AppState) bool {
	changed := w.history.Commit(label, mutate)
	if changed {
		w.logger.Debug("Committed change", zap.String("action", label), zap.Int("undo_depth", w.history.PastLen()))
	}
	return changed
}

// Undo reverts the last change and returns its label
func (w *Workspace) Undo() (string, bool) {
	return w.history.Undo()
}

// Redo reapplies the last undone change and returns its label
func (w *Workspace) Redo() (string, bool) {
	return w.history.Redo()
}

func (w *Workspace) CanUndo() bool {
	return w.history.CanUndo()
}

func (w *Workspace) CanRedo() bool {
	return w.history.CanRedo()
}

// LastAction returns the label of the change that produced the present state
func (w *Workspace) LastAction() string {
	return w.history.Label()
}

// UndoLabels lists the actions successive undos would revert
func (w *Workspace) UndoLabels() []string {
	return w.history.UndoLabels()
}
