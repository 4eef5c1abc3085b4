package db

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/clinicshift/shift-scheduler/pkg/core/model"
	"github.com/clinicshift/shift-scheduler/pkg/core/schedule"
	"github.com/clinicshift/shift-scheduler/pkg/core/state"
)

// Persisted collection keys
const (
	KeyEmployees     = "schedulingEmployees"
	KeySchedule      = "schedulingData"
	KeySkills        = "schedulingSkills"
	KeyRules         = "schedulingRules"
	KeyVisibleShifts = "schedulingVisibleShifts"
	KeyTimeSlots     = "schedulingTimeSlots"
	KeyShiftDoctors  = "schedulingShiftDoctors"
)

// Keys lists every persisted collection key
var Keys = []string{KeyEmployees, KeySchedule, KeySkills, KeyRules, KeyVisibleShifts, KeyTimeSlots, KeyShiftDoctors}

// LoadState reads the seven collections independently. A collection that is
// missing, unreadable or malformed falls back to its default without affecting
// the others.
func LoadState(ctx context.Context, store StateStore, logger *zap.Logger) *state.AppState {
	st := state.Default()

	if v, ok := load[[]model.Employee](ctx, store, logger, KeyEmployees); ok {
		st.Employees = v
	}
	if raw, ok := load[schedule.RawSchedule](ctx, store, logger, KeySchedule); ok {
		sc, invalid := schedule.Decode(raw)
		if len(invalid) > 0 {
			logger.Warn("Dropped malformed schedule keys", zap.Strings("keys", invalid))
		}
		st.Schedule = sc
	}
	if v, ok := load[[]string](ctx, store, logger, KeySkills); ok {
		st.Skills = v
	}
	if v, ok := load[[]model.ShiftRule](ctx, store, logger, KeyRules); ok {
		st.Rules = state.NormalizeRules(v)
	}
	if v, ok := load[[]model.ShiftType](ctx, store, logger, KeyVisibleShifts); ok {
		st.VisibleShifts = v
	}
	if v, ok := load[model.TimeSlotCatalogue](ctx, store, logger, KeyTimeSlots); ok {
		st.TimeSlots = v
	}
	if v, ok := load[[]model.DoctorAssignment](ctx, store, logger, KeyShiftDoctors); ok {
		st.ShiftDoctors = v
	}

	logger.Debug("Loaded state",
		zap.Int("employees", len(st.Employees)),
		zap.Int("schedule_entries", len(st.Schedule)),
		zap.Int("rules", len(st.Rules)))

	return st
}

func load[T any](ctx context.Context, store StateStore, logger *zap.Logger, key string) (T, bool) {
	var zero T
	data, err := store.Get(ctx, key)
	if errors.Is(err, ErrNotFound) {
		return zero, false
	}
	if err != nil {
		logger.Warn("Failed to read collection, using default", zap.String("key", key), zap.Error(err))
		return zero, false
	}

	data = bytes.TrimSpace(data)
	if len(data) == 0 || string(data) == "null" || string(data) == "undefined" {
		return zero, false
	}

	var v T
	if err := json.Unmarshal(data, &v); err != nil {
		logger.Warn("Malformed collection, using default", zap.String("key", key), zap.Error(err))
		return zero, false
	}
	return v, true
}

// SaveState writes all seven collections, attempting every key even after a failure
func SaveState(ctx context.Context, store StateStore, st *state.AppState) error {
	values := map[string]any{
		KeyEmployees:     orEmpty(st.Employees),
		KeySchedule:      st.Schedule.Clone(),
		KeySkills:        orEmpty(st.Skills),
		KeyRules:         orEmpty(st.Rules),
		KeyVisibleShifts: orEmpty(st.VisibleShifts),
		KeyTimeSlots:     st.TimeSlots,
		KeyShiftDoctors:  orEmpty(st.ShiftDoctors),
	}

	var errs []error
	for _, key := range Keys {
		data, err := json.Marshal(values[key])
		if err != nil {
			errs = append(errs, fmt.Errorf("failed to encode %s: %w", key, err))
			continue
		}
		if err := store.Set(ctx, key, data); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// orEmpty keeps an emptied collection from being stored as null, which would
// load back as the default
func orEmpty[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
