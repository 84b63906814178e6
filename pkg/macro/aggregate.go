package macro

import (
	"SimpleMacro-Backend/entities"
	"sort"
)

// Pure derivation over entry sets. The observe paths re-run these on every
// write instead of caching anything; one-shot reads use the equivalent SQL
// GROUP BY in the repository.

// DailyTotals sums one date's entries. Returns nil for an empty set so the
// aggregate stays optional, like the grouped query.
func DailyTotals(entries []*entities.MacroEntry) *entities.DailyMacros {
	if len(entries) == 0 {
		return nil
	}

	totals := entities.DailyMacros{Date: entries[0].Date}
	for _, e := range entries {
		totals.TotalCalories += e.Calories
		totals.TotalCarbs += e.Carbs
		totals.TotalProtein += e.Protein
		totals.TotalFat += e.Fat
	}
	return &totals
}

// RangeTotals groups entries by date and orders the result date descending.
// Ordering is lexicographic, which is correct because dates are fixed-width
// zero-padded YYYY-MM-DD strings.
func RangeTotals(entries []*entities.MacroEntry) []entities.DailyMacros {
	byDate := make(map[string]*entities.DailyMacros)
	for _, e := range entries {
		totals, ok := byDate[e.Date]
		if !ok {
			totals = &entities.DailyMacros{Date: e.Date}
			byDate[e.Date] = totals
		}
		totals.TotalCalories += e.Calories
		totals.TotalCarbs += e.Carbs
		totals.TotalProtein += e.Protein
		totals.TotalFat += e.Fat
	}

	result := make([]entities.DailyMacros, 0, len(byDate))
	for _, totals := range byDate {
		result = append(result, *totals)
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].Date > result[j].Date
	})
	return result
}

// GoalProgress is the ratio of current over goal, clamped to [0, 1].
// A zero goal yields zero instead of dividing.
func GoalProgress(current, goal int) float64 {
	if goal <= 0 {
		return 0
	}
	progress := float64(current) / float64(goal)
	if progress > 1 {
		return 1
	}
	if progress < 0 {
		return 0
	}
	return progress
}
