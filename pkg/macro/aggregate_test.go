package macro

import (
	"SimpleMacro-Backend/entities"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func entry(date string, carbs, protein, fat int) *entities.MacroEntry {
	return &entities.MacroEntry{
		Date:     date,
		Carbs:    carbs,
		Protein:  protein,
		Fat:      fat,
		Calories: entities.CalculateCalories(carbs, protein, fat),
	}
}

func TestDailyTotalsEmpty(t *testing.T) {
	assert.Nil(t, DailyTotals(nil))
	assert.Nil(t, DailyTotals([]*entities.MacroEntry{}))
}

func TestDailyTotalsSums(t *testing.T) {
	totals := DailyTotals([]*entities.MacroEntry{
		entry("2025-01-15", 10, 20, 5),
		entry("2025-01-15", 5, 5, 5),
	})

	require.NotNil(t, totals)
	assert.Equal(t, "2025-01-15", totals.Date)
	assert.Equal(t, 15, totals.TotalCarbs)
	assert.Equal(t, 25, totals.TotalProtein)
	assert.Equal(t, 10, totals.TotalFat)
	assert.Equal(t, 250, totals.TotalCalories)
}

func TestRangeTotalsOrdersDateDescending(t *testing.T) {
	days := RangeTotals([]*entities.MacroEntry{
		entry("2025-01-01", 10, 0, 0),
		entry("2025-01-03", 20, 0, 0),
		entry("2025-01-02", 30, 0, 0),
	})

	require.Len(t, days, 3)
	assert.Equal(t, "2025-01-03", days[0].Date)
	assert.Equal(t, "2025-01-02", days[1].Date)
	assert.Equal(t, "2025-01-01", days[2].Date)
}

func TestRangeTotalsGroupsByDate(t *testing.T) {
	days := RangeTotals([]*entities.MacroEntry{
		entry("2025-01-01", 10, 5, 1),
		entry("2025-01-01", 20, 5, 2),
		entry("2025-01-02", 1, 1, 1),
	})

	require.Len(t, days, 2)
	assert.Equal(t, "2025-01-02", days[0].Date)
	assert.Equal(t, 3, days[0].TotalCarbs+days[0].TotalProtein+days[0].TotalFat)
	assert.Equal(t, "2025-01-01", days[1].Date)
	assert.Equal(t, 30, days[1].TotalCarbs)
	assert.Equal(t, 10, days[1].TotalProtein)
	assert.Equal(t, 3, days[1].TotalFat)
}

func TestGoalProgress(t *testing.T) {
	assert.Equal(t, 0.0, GoalProgress(500, 0), "zero goal never divides")
	assert.Equal(t, 0.0, GoalProgress(500, -10))
	assert.Equal(t, 0.5, GoalProgress(1000, 2000))
	assert.Equal(t, 1.0, GoalProgress(2500, 2000), "clamped at 1")
	assert.Equal(t, 0.0, GoalProgress(0, 2000))
}
