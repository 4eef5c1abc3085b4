package commands

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/markusmobius/go-dateparser"

	"github.com/clinicshift/shift-scheduler/pkg/core/calendar"
	"github.com/clinicshift/shift-scheduler/pkg/core/model"
	"github.com/clinicshift/shift-scheduler/pkg/core/schedule"
	"github.com/clinicshift/shift-scheduler/pkg/core/state"
)

// ParseDate accepts YYYY-MM-DD or a natural language expression such as
// "next monday" or "3 March", resolved relative to now
func ParseDate(input string, now time.Time) (time.Time, error) {
	input = strings.TrimSpace(input)
	if input == "" {
		return time.Time{}, fmt.Errorf("date must not be empty")
	}
	if t, err := time.Parse(calendar.DateLayout, input); err == nil {
		return t, nil
	}

	cfg := &dateparser.Configuration{
		CurrentTime: now,
	}
	result, err := dateparser.Parse(cfg, input)
	if err != nil {
		return time.Time{}, fmt.Errorf("failed to parse date %q: %w", input, err)
	}
	return calendar.DateOnly(result.Time), nil
}

// ParseMonth accepts YYYY-MM or a natural language expression naming a day in the month
func ParseMonth(input string, now time.Time) (time.Time, error) {
	input = strings.TrimSpace(input)
	if t, err := time.Parse(calendar.MonthLayout, input); err == nil {
		return t, nil
	}
	t, err := ParseDate(input, now)
	if err != nil {
		return time.Time{}, err
	}
	return calendar.MonthStart(t), nil
}

// ResolveEmployee finds an employee by id or by exact name
func ResolveEmployee(st *state.AppState, input string) (model.Employee, error) {
	input = strings.TrimSpace(input)
	if id, err := strconv.Atoi(input); err == nil {
		if emp, ok := st.Employee(id); ok {
			return emp, nil
		}
		return model.Employee{}, fmt.Errorf("no employee with id %d", id)
	}

	var matches []model.Employee
	for _, e := range st.Employees {
		if e.Name == input {
			matches = append(matches, e)
		}
	}
	switch len(matches) {
	case 0:
		return model.Employee{}, fmt.Errorf("no employee named %q", input)
	case 1:
		return matches[0], nil
	default:
		return model.Employee{}, fmt.Errorf("%d employees are named %q, use an id", len(matches), input)
	}
}

// ParseCell resolves the <date> <employee> <shift> argument triple to a schedule key
func ParseCell(st *state.AppState, dateArg, employeeArg, shiftArg string, now time.Time) (schedule.Key, error) {
	date, err := ParseDate(dateArg, now)
	if err != nil {
		return schedule.Key{}, err
	}
	emp, err := ResolveEmployee(st, employeeArg)
	if err != nil {
		return schedule.Key{}, err
	}
	shift, err := model.ParseShiftType(shiftArg)
	if err != nil {
		return schedule.Key{}, err
	}
	return schedule.NewKey(date, emp.ID, shift), nil
}

// ParseDays parses a comma separated weekday list such as "1,3,5"
func ParseDays(input string) ([]int, error) {
	var days []int
	for _, part := range strings.Split(input, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		d, err := strconv.Atoi(part)
		if err != nil {
			return nil, fmt.Errorf("invalid day %q: %w", part, err)
		}
		days = append(days, d)
	}
	return days, nil
}
