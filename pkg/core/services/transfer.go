package services

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/clinicshift/shift-scheduler/pkg/core/model"
	"github.com/clinicshift/shift-scheduler/pkg/core/schedule"
	"github.com/clinicshift/shift-scheduler/pkg/core/state"
)

// SnapshotVersion is written into every export
const SnapshotVersion = "1.0.4"

// Snapshot is the portable JSON form of the whole application state
type Snapshot struct {
	ID            string                   `json:"id"`
	Version       string                   `json:"version"`
	Employees     []model.Employee         `json:"employees"`
	Schedule      schedule.RawSchedule     `json:"schedule"`
	Skills        []string                 `json:"skills"`
	Rules         []model.ShiftRule        `json:"customShiftRules"`
	VisibleShifts []model.ShiftType        `json:"visibleShifts"`
	TimeSlots     model.TimeSlotCatalogue  `json:"timeSlots"`
	ShiftDoctors  []model.DoctorAssignment `json:"shiftDoctors"`
	ExportDate    time.Time                `json:"exportDate"`
}

// Export builds a snapshot of st
func Export(st *state.AppState, now time.Time) Snapshot {
	return Snapshot{
		ID:            uuid.NewString(),
		Version:       SnapshotVersion,
		Employees:     nonNil(st.Employees),
		Schedule:      st.Schedule.Encode(),
		Skills:        nonNil(st.Skills),
		Rules:         nonNil(st.Rules),
		VisibleShifts: nonNil(st.VisibleShifts),
		TimeSlots:     st.TimeSlots,
		ShiftDoctors:  nonNil(st.ShiftDoctors),
		ExportDate:    now.UTC(),
	}
}

// Export snapshots the present state
func (w *Workspace) Export() Snapshot {
	return Export(w.State(), w.now())
}

// ExportJSON encodes the present state as indented JSON
func (w *Workspace) ExportJSON() ([]byte, error) {
	data, err := json.MarshalIndent(w.Export(), "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to encode snapshot: %w", err)
	}
	return data, nil
}

// Import merges a snapshot into the present state as one undoable step. Collections
// present with the right JSON shape replace the current ones; the rest are kept.
// At least one of employees, schedule or customShiftRules must be present.
func (w *Workspace) Import(raw []byte) error {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(raw, &fields); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidImport, err)
	}

	if !isArray(fields["employees"]) && !isObject(fields["schedule"]) && !isArray(fields["customShiftRules"]) {
		return fmt.Errorf("%w: none of employees, schedule or customShiftRules present", ErrInvalidImport)
	}

	next := *w.State()
	if err := importArray(fields, "employees", &next.Employees); err != nil {
		return err
	}
	if isObject(fields["schedule"]) {
		var rawSchedule schedule.RawSchedule
		if err := json.Unmarshal(fields["schedule"], &rawSchedule); err != nil {
			return fmt.Errorf("%w: schedule: %w", ErrInvalidImport, err)
		}
		sc, invalid := schedule.Decode(rawSchedule)
		if len(invalid) > 0 {
			w.logger.Warn("Dropped malformed schedule keys from import", zap.Strings("keys", invalid))
		}
		next.Schedule = sc
	}
	if err := importArray(fields, "skills", &next.Skills); err != nil {
		return err
	}
	if isArray(fields["customShiftRules"]) {
		var imported []model.ShiftRule
		if err := json.Unmarshal(fields["customShiftRules"], &imported); err != nil {
			return fmt.Errorf("%w: customShiftRules: %w", ErrInvalidImport, err)
		}
		next.Rules = state.NormalizeRules(imported)
	}
	if err := importArray(fields, "visibleShifts", &next.VisibleShifts); err != nil {
		return err
	}
	if isObject(fields["timeSlots"]) {
		var slots model.TimeSlotCatalogue
		if err := json.Unmarshal(fields["timeSlots"], &slots); err != nil {
			return fmt.Errorf("%w: timeSlots: %w", ErrInvalidImport, err)
		}
		next.TimeSlots = slots
	}
	if err := importArray(fields, "shiftDoctors", &next.ShiftDoctors); err != nil {
		return err
	}

	w.commit("Import data", func(*state.AppState) *state.AppState {
		return &next
	})
	w.logger.Info("Imported data",
		zap.Int("employees", len(next.Employees)),
		zap.Int("schedule_entries", len(next.Schedule)),
		zap.Int("rules", len(next.Rules)))
	return nil
}

// importArray decodes fields[name] into dst when it holds a JSON array
func importArray[T any](fields map[string]json.RawMessage, name string, dst *[]T) error {
	if !isArray(fields[name]) {
		return nil
	}
	var v []T
	if err := json.Unmarshal(fields[name], &v); err != nil {
		return fmt.Errorf("%w: %s: %w", ErrInvalidImport, name, err)
	}
	*dst = v
	return nil
}

func isArray(raw json.RawMessage) bool {
	raw = bytes.TrimSpace(raw)
	return len(raw) > 0 && raw[0] == '['
}

func isObject(raw json.RawMessage) bool {
	raw = bytes.TrimSpace(raw)
	return len(raw) > 0 && raw[0] == '{'
}

func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
