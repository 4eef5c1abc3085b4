package rules

import (
	"slices"

	"golang.org/x/text/language"

	"github.com/clinicshift/shift-scheduler/pkg/core/model"
)

// SlotSessions lists the sessions offered under one time slot
type SlotSessions struct {
	TimeSlot string
	Sessions []model.SessionID
}

// Hierarchy maps a shift type to its time slots, each with its ordered sessions
type Hierarchy map[model.ShiftType][]SlotSessions

type shiftSession struct {
	shift   model.ShiftType
	session model.SessionID
}

// Index holds lookup structures derived from a rule list. It is rebuilt, never updated.
type Index struct {
	rules          []model.ShiftRule
	bySession      map[model.SessionID]model.ShiftRule
	byShiftSession map[shiftSession]model.ShiftRule
	hierarchy      Hierarchy
	counts         map[model.SessionID]int
}

// NewIndex builds an index ordering sessions with the zh-TW collation
func NewIndex(rules []model.ShiftRule) *Index {
	return NewIndexWithLocale(rules, DefaultLocale)
}

func NewIndexWithLocale(rules []model.ShiftRule, locale language.Tag) *Index {
	idx := &Index{
		rules:          rules,
		bySession:      make(map[model.SessionID]model.ShiftRule, len(rules)),
		byShiftSession: make(map[shiftSession]model.ShiftRule, len(rules)),
		hierarchy:      Hierarchy{},
		counts:         make(map[model.SessionID]int, len(rules)),
	}

	// Later definitions of the same session replace earlier ones
	for _, rule := range rules {
		normalized := rule.SessionID.Normalize()
		idx.bySession[normalized] = rule
		idx.byShiftSession[shiftSession{rule.ShiftType, normalized}] = rule
		idx.counts[normalized]++
	}

	for _, rule := range sortRules(rules, newSessionOrder(locale)) {
		slots := idx.hierarchy[rule.ShiftType]
		pos := slices.IndexFunc(slots, func(s SlotSessions) bool { return s.TimeSlot == rule.TimeSlot })
		if pos < 0 {
			slots = append(slots, SlotSessions{TimeSlot: rule.TimeSlot})
			pos = len(slots) - 1
		}
		if !slices.Contains(slots[pos].Sessions, rule.SessionID) {
			slots[pos].Sessions = append(slots[pos].Sessions, rule.SessionID)
		}
		idx.hierarchy[rule.ShiftType] = slots
	}

	return idx
}

// Rules returns the rule list the index was built from
func (idx *Index) Rules() []model.ShiftRule {
	return idx.rules
}

// BySession finds the rule for a session id, "71" and "71診" alike
func (idx *Index) BySession(session model.SessionID) (model.ShiftRule, bool) {
	rule, ok := idx.bySession[session.Normalize()]
	return rule, ok
}

// ByShiftAndSession finds the rule for a session within one shift type
func (idx *Index) ByShiftAndSession(shift model.ShiftType, session model.SessionID) (model.ShiftRule, bool) {
	rule, ok := idx.byShiftSession[shiftSession{shift, session.Normalize()}]
	return rule, ok
}

// Lookup finds the first rule matching the exact (shift, slot, session) triple
func (idx *Index) Lookup(shift model.ShiftType, timeSlot string, session model.SessionID) (model.ShiftRule, bool) {
	for _, rule := range idx.rules {
		if rule.ShiftType == shift && rule.TimeSlot == timeSlot && rule.SessionID == session {
			return rule, true
		}
	}
	return model.ShiftRule{}, false
}

// RequiredSkills returns the skills needed for a session, empty when no rule matches
func (idx *Index) RequiredSkills(shift model.ShiftType, timeSlot string, session model.SessionID) []string {
	rule, ok := idx.Lookup(shift, timeSlot, session)
	if !ok || rule.RequiredSkills == nil {
		return []string{}
	}
	return rule.RequiredSkills
}

func (idx *Index) Hierarchy() Hierarchy {
	return idx.hierarchy
}

// TimeSlots lists the slots that have at least one session under shift
func (idx *Index) TimeSlots(shift model.ShiftType) []string {
	slots := idx.hierarchy[shift]
	names := make([]string, 0, len(slots))
	for _, s := range slots {
		names = append(names, s.TimeSlot)
	}
	return names
}

// Sessions lists the ordered sessions offered under (shift, slot)
func (idx *Index) Sessions(shift model.ShiftType, timeSlot string) []model.SessionID {
	for _, s := range idx.hierarchy[shift] {
		if s.TimeSlot == timeSlot {
			return s.Sessions
		}
	}
	return nil
}

// Duplicates lists normalized session ids defined by more than one rule
func (idx *Index) Duplicates() []model.SessionID {
	var dups []model.SessionID
	for session, n := range idx.counts {
		if n > 1 {
			dups = append(dups, session)
		}
	}
	slices.Sort(dups)
	return dups
}

// Cache hands out an index, rebuilding only when given a different rule slice
type Cache struct {
	locale language.Tag
	rules  []model.ShiftRule
	index  *Index
}

func NewCache(locale language.Tag) *Cache {
	return &Cache{locale: locale}
}

func (c *Cache) Get(rules []model.ShiftRule) *Index {
	if c.index != nil && sameSlice(c.rules, rules) {
		return c.index
	}
	c.rules = rules
	c.index = NewIndexWithLocale(rules, c.locale)
	return c.index
}

// sameSlice reports whether a and b share length and backing array
func sameSlice(a, b []model.ShiftRule) bool {
	if len(a) != len(b) {
		return false
	}
	return len(a) == 0 || &a[0] == &b[0]
}
