package calendar

import (
	"fmt"
	"time"

	"github.com/teambition/rrule-go"
)

// Closures holds recurrence rules for days the clinic does not open
type Closures struct {
	rules   []*rrule.RRule
	sources []string
}

// ParseClosures parses RFC 5545 RRULE strings such as "FREQ=YEARLY;BYMONTH=1;BYMONTHDAY=1"
func ParseClosures(rules []string) (*Closures, error) {
	c := &Closures{}
	for i, s := range rules {
		rule, err := rrule.StrToRRule(s)
		if err != nil {
			return nil, fmt.Errorf("failed to parse closure rule %d: %w", i, err)
		}
		c.rules = append(c.rules, rule)
		c.sources = append(c.sources, s)
	}
	return c, nil
}

// IsClosed reports whether any closure rule has an occurrence on date.
// A nil Closures never closes.
func (c *Closures) IsClosed(date time.Time) bool {
	if c == nil {
		return false
	}
	day := DateOnly(date)
	dateStr := FormatDate(day)
	searchStart := day.AddDate(0, 0, -7)
	searchEnd := day.AddDate(0, 0, 1)
	for _, rule := range c.rules {
		rule.DTStart(searchStart)
		for _, occurrence := range rule.Between(searchStart, searchEnd, true) {
			if occurrence.Format(DateLayout) == dateStr {
				return true
			}
		}
	}
	return false
}

// Len returns the number of closure rules
func (c *Closures) Len() int {
	if c == nil {
		return 0
	}
	return len(c.rules)
}

// Sources returns the rule strings the closures were parsed from
func (c *Closures) Sources() []string {
	if c == nil {
		return nil
	}
	return c.sources
}
