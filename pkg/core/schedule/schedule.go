package schedule

import (
	"bytes"
	"encoding/json"
	"fmt"
	"maps"
	"strconv"
	"strings"
	"time"

	"github.com/clinicshift/shift-scheduler/pkg/core/calendar"
	"github.com/clinicshift/shift-scheduler/pkg/core/model"
)

// Key addresses one cell of the grid: a date, an employee and a shift type
type Key struct {
	Date       string
	EmployeeID int
	Shift      model.ShiftType
}

func NewKey(date time.Time, employeeID int, shift model.ShiftType) Key {
	return Key{Date: calendar.FormatDate(date), EmployeeID: employeeID, Shift: shift}
}

// String renders the persisted form "YYYY-MM-DD_<empId>_<SHIFT>"
func (k Key) String() string {
	return k.Date + "_" + strconv.Itoa(k.EmployeeID) + "_" + string(k.Shift)
}

func ParseKey(s string) (Key, error) {
	parts := strings.SplitN(s, "_", 3)
	if len(parts) != 3 {
		return Key{}, fmt.Errorf("malformed schedule key %q", s)
	}
	empID, err := strconv.Atoi(parts[1])
	if err != nil {
		return Key{}, fmt.Errorf("malformed employee id in schedule key %q: %w", s, err)
	}
	return Key{Date: parts[0], EmployeeID: empID, Shift: model.ShiftType(parts[2])}, nil
}

func (k Key) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

func (k *Key) UnmarshalText(text []byte) error {
	parsed, err := ParseKey(string(text))
	if err != nil {
		return err
	}
	*k = parsed
	return nil
}

// WithShift returns the key of the sibling cell for shift on the same day
func (k Key) WithShift(shift model.ShiftType) Key {
	k.Shift = shift
	return k
}

// Entry is a cell value: OFF, OFF_CONFIRMED or a compound session label with an optional memo
type Entry struct {
	Label string `json:"label"`
	Memo  string `json:"memo,omitempty"`
}

// NewEntry builds an entry, keeping the memo only on OFF states and compound labels
func NewEntry(label, memo string) Entry {
	memo = strings.TrimSpace(memo)
	if !model.IsOffLabel(label) && !model.IsCompoundLabel(label) {
		memo = ""
	}
	return Entry{Label: label, Memo: memo}
}

// IsOff reports whether the entry is one of the whole-day OFF states
func (e Entry) IsOff() bool {
	return model.IsOffLabel(e.Label)
}

// SessionID returns the session embedded in a compound label
func (e Entry) SessionID() (model.SessionID, bool) {
	_, _, session, ok := model.SplitShiftKey(e.Label)
	return session, ok
}

// MarshalJSON writes a bare string when there is no memo
func (e Entry) MarshalJSON() ([]byte, error) {
	if e.Memo == "" {
		return json.Marshal(e.Label)
	}
	type entryObject Entry
	return json.Marshal(entryObject(e))
}

func (e *Entry) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '"' {
		var label string
		if err := json.Unmarshal(data, &label); err != nil {
			return err
		}
		*e = Entry{Label: label}
		return nil
	}
	type entryObject Entry
	var obj entryObject
	if err := json.Unmarshal(data, &obj); err != nil {
		return fmt.Errorf("schedule entry must be a string or {label, memo} object: %w", err)
	}
	*e = Entry{Label: obj.Label, Memo: strings.TrimSpace(obj.Memo)}
	return nil
}

// Schedule is the sparse grid of cell values. Values are never mutated in place;
// writers clone first.
type Schedule map[Key]Entry

func (s Schedule) Clone() Schedule {
	if s == nil {
		return Schedule{}
	}
	return maps.Clone(s)
}

func (s Schedule) Get(k Key) (Entry, bool) {
	e, ok := s[k]
	return e, ok
}

// ApplyWholeDayRule enforces that OFF is a whole-day state. Writing an OFF state
// copies it onto every shift type of the day; writing a session removes OFF states
// from the sibling shift types. s must be a private copy.
func ApplyWholeDayRule(s Schedule, k Key, entry Entry) {
	if entry.IsOff() {
		for _, shift := range model.AllShiftTypes {
			s[k.WithShift(shift)] = entry
		}
		return
	}
	s[k] = entry
	for _, shift := range model.AllShiftTypes {
		if shift == k.Shift {
			continue
		}
		sibling := k.WithShift(shift)
		if existing, ok := s[sibling]; ok && existing.IsOff() {
			delete(s, sibling)
		}
	}
}

// ClearCell removes one cell, or the whole day when the cell held an OFF state.
// s must be a private copy.
func ClearCell(s Schedule, k Key) {
	existing, ok := s[k]
	if !ok {
		return
	}
	if existing.IsOff() {
		ClearDay(s, k.Date, k.EmployeeID)
		return
	}
	delete(s, k)
}

// ClearDay removes every shift type of one employee's day
func ClearDay(s Schedule, date string, employeeID int) {
	for _, shift := range model.AllShiftTypes {
		delete(s, Key{Date: date, EmployeeID: employeeID, Shift: shift})
	}
}

// PurgeEmployee returns a copy of s without any entry for employeeID
func (s Schedule) PurgeEmployee(employeeID int) (Schedule, int) {
	purged := make(Schedule, len(s))
	removed := 0
	for k, v := range s {
		if k.EmployeeID == employeeID {
			removed++
			continue
		}
		purged[k] = v
	}
	return purged, removed
}

// RawSchedule is the persisted form of a schedule keyed by the wire key string
type RawSchedule map[string]Entry

// Decode converts a persisted schedule, returning the keys that could not be parsed
func Decode(raw RawSchedule) (Schedule, []string) {
	s := make(Schedule, len(raw))
	var invalid []string
	for rawKey, entry := range raw {
		k, err := ParseKey(rawKey)
		if err != nil {
			invalid = append(invalid, rawKey)
			continue
		}
		s[k] = entry
	}
	return s, invalid
}

// Encode converts a schedule to its persisted form
func (s Schedule) Encode() RawSchedule {
	raw := make(RawSchedule, len(s))
	for k, v := range s {
		raw[k.String()] = v
	}
	return raw
}
