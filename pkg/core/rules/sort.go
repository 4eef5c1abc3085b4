package rules

import (
	"math"
	"regexp"
	"slices"
	"sort"
	"strconv"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/clinicshift/shift-scheduler/pkg/core/model"
)

var leadingDigits = regexp.MustCompile(`^\d+`)

// NumericSortValue returns the leading number of a session id, or MaxInt when there is none
func NumericSortValue(session model.SessionID) int {
	match := leadingDigits.FindString(string(session))
	if match == "" {
		return math.MaxInt
	}
	n, err := strconv.Atoi(match)
	if err != nil {
		return math.MaxInt
	}
	return n
}

// DefaultLocale orders session ids that share a numeric prefix
var DefaultLocale = language.TraditionalChinese

// sessionOrder compares session ids by leading number, then by locale collation
type sessionOrder struct {
	collator *collate.Collator
}

func newSessionOrder(tag language.Tag) sessionOrder {
	return sessionOrder{collator: collate.New(tag)}
}

func (o sessionOrder) less(a, b model.SessionID) bool {
	na, nb := NumericSortValue(a), NumericSortValue(b)
	if na != nb {
		return na < nb
	}
	return o.collator.CompareString(string(a), string(b)) < 0
}

// SortRules returns a copy of rules ordered by session id
func SortRules(rules []model.ShiftRule) []model.ShiftRule {
	return sortRules(rules, newSessionOrder(DefaultLocale))
}

func sortRules(rules []model.ShiftRule, order sessionOrder) []model.ShiftRule {
	sorted := slices.Clone(rules)
	sort.SliceStable(sorted, func(i, j int) bool {
		return order.less(sorted[i].SessionID, sorted[j].SessionID)
	})
	return sorted
}
