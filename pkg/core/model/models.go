package model

import (
	"encoding/json"
	"fmt"
	"slices"
	"strconv"
	"strings"
)

type Role string

const (
	RoleFullTime Role = "正職"
	RolePartTime Role = "半職"
	RoleSupport  Role = "支援"
)

func (r Role) IsValid() bool {
	return r == RoleFullTime || r == RolePartTime || r == RoleSupport
}

// ShiftType partitions a day into the three schedulable columns
type ShiftType string

const (
	Morning   ShiftType = "MORNING"
	Afternoon ShiftType = "AFTERNOON"
	Night     ShiftType = "NIGHT"
)

// AllShiftTypes is the fixed column order used by every whole-day operation
var AllShiftTypes = []ShiftType{Morning, Afternoon, Night}

func (s ShiftType) IsValid() bool {
	return slices.Contains(AllShiftTypes, s)
}

// ParseShiftType accepts the canonical upper-case name in any case
func ParseShiftType(s string) (ShiftType, error) {
	shift := ShiftType(strings.ToUpper(strings.TrimSpace(s)))
	if !shift.IsValid() {
		return "", fmt.Errorf("unknown shift type %q (expected MORNING, AFTERNOON or NIGHT)", s)
	}
	return shift, nil
}

// Whole-day schedule states
const (
	LabelOff          = "OFF"
	LabelOffConfirmed = "OFF_CONFIRMED"
)

// IsOffLabel reports whether label is one of the whole-day OFF states
func IsOffLabel(label string) bool {
	return label == LabelOff || label == LabelOffConfirmed
}

// SessionSuffix is the conventional token appended to clinic session codes ("71診")
const SessionSuffix = "診"

// SessionID is a clinic session code as entered by users, e.g. "71診" or "71"
type SessionID string

// Normalize strips the session suffix and surrounding whitespace so that
// "71" and "71診" resolve to the same rule.
func (s SessionID) Normalize() SessionID {
	return SessionID(strings.TrimSpace(strings.ReplaceAll(string(s), SessionSuffix, "")))
}

// WithSuffix completes a bare numeric code ("71" -> "71診")
func (s SessionID) WithSuffix() SessionID {
	trimmed := strings.TrimSpace(string(s))
	if _, err := strconv.Atoi(trimmed); err == nil {
		return SessionID(trimmed + SessionSuffix)
	}
	return SessionID(trimmed)
}

func (s SessionID) String() string {
	return string(s)
}

// labelSeparator joins the parts of a compound schedule label
const labelSeparator = " / "

// FullShiftKey builds the compound label "SHIFT / slot / session"
func FullShiftKey(shift ShiftType, timeSlot string, session SessionID) string {
	return string(shift) + labelSeparator + timeSlot + labelSeparator + string(session)
}

// SplitShiftKey splits a compound label; ok is false unless it has exactly three parts
func SplitShiftKey(label string) (shift ShiftType, timeSlot string, session SessionID, ok bool) {
	parts := strings.Split(label, labelSeparator)
	if len(parts) != 3 {
		return "", "", "", false
	}
	return ShiftType(parts[0]), parts[1], SessionID(parts[2]), true
}

// IsCompoundLabel reports whether label names a concrete session
func IsCompoundLabel(label string) bool {
	return strings.Contains(label, labelSeparator)
}

// Employee represents a member of clinic staff
type Employee struct {
	ID            int       `json:"id"`
	Name          string    `json:"name"`
	Role          Role      `json:"role"`
	IsActive      *bool     `json:"isActive,omitempty"` // nil means active
	DisplayOrder  int       `json:"displayOrder,omitempty"`
	Skills        []string  `json:"skills"`
	MajorShift    string    `json:"majorShift"`
	MainSessionID SessionID `json:"mainSessionId"`
}

// Active returns false only for soft-deleted employees
func (e Employee) Active() bool {
	return e.IsActive == nil || *e.IsActive
}

// HasSkills returns true if the employee holds every required skill
func (e Employee) HasSkills(required []string) bool {
	for _, skill := range required {
		if !slices.Contains(e.Skills, skill) {
			return false
		}
	}
	return true
}

// ShiftRule defines a recurring session: when it runs and how many staff it needs
type ShiftRule struct {
	ID             int       `json:"id"`
	SessionID      SessionID `json:"sessionId" validate:"required"`
	Capacity       int       `json:"capacity" validate:"min=1,max=5"`
	ShiftType      ShiftType `json:"shiftType" validate:"oneof=MORNING AFTERNOON NIGHT"`
	TimeSlot       string    `json:"timeSlot" validate:"required"`
	Days           []int     `json:"days" validate:"min=1,dive,min=1,max=6"`
	WeekFrequency  []int     `json:"weekFrequency" validate:"min=1,dive,min=1,max=5"`
	RequiredSkills []string  `json:"requiredSkills"`
	IsTracked      bool      `json:"isTracked"`
	Department     string    `json:"department,omitempty"`
}

// FullKey returns the compound label entries for this rule start with
func (r ShiftRule) FullKey() string {
	return FullShiftKey(r.ShiftType, r.TimeSlot, r.SessionID)
}

// TimeSlotCatalogue lists the selectable time slot labels per shift type
type TimeSlotCatalogue map[ShiftType][]string

// Major shift descriptors (full-day and half-day defaults)
const MajorShiftNone = "NONE"

// MajorShiftGroups groups the known major shift descriptors
var MajorShiftGroups = map[string][]string{
	"FULL_DAY":       {"8-4'", "8'-5", "9-5'"},
	"MORNING_HALF":   {"8-12", "8'-12", "8'-12'", "9-1"},
	"AFTERNOON_HALF": {"1-5", "1'-5'", "2-6"},
}

// IsKnownMajorShift accepts NONE, any grouped descriptor and the legacy FULL/MORNING tags
func IsKnownMajorShift(major string) bool {
	if major == MajorShiftNone || major == "FULL" || major == "MORNING" {
		return true
	}
	for _, shifts := range MajorShiftGroups {
		if slices.Contains(shifts, major) {
			return true
		}
	}
	return false
}

// DoctorAssignment records which doctor runs a session on a given weekday
type DoctorAssignment struct {
	ID         FlexibleID `json:"id"`
	SessionID  SessionID  `json:"sessionId"`
	ShiftType  ShiftType  `json:"shiftType"`
	DayOfWeek  int        `json:"dayOfWeek"`
	DoctorName string     `json:"doctorName"`
}

// FlexibleID decodes identifiers persisted either as JSON strings or numbers
type FlexibleID string

func (id *FlexibleID) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*id = FlexibleID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("id must be a string or number: %w", err)
	}
	*id = FlexibleID(n.String())
	return nil
}
