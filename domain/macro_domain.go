package domain

import "errors"

var (
	MessageSuccessAddEntry        = "entry added successfully"
	MessageSuccessUpdateEntry     = "entry updated successfully"
	MessageSuccessDeleteEntry     = "entry deleted successfully"
	MessageSuccessGetEntries      = "entries retrieved successfully"
	MessageSuccessGetDailySummary = "daily summary retrieved successfully"
	MessageSuccessGetRangeSummary = "range summary retrieved successfully"
	MessageSuccessGetRecent       = "recent entries retrieved successfully"

	MessageFailedAddEntry        = "failed to add entry"
	MessageFailedUpdateEntry     = "failed to update entry"
	MessageFailedDeleteEntry     = "failed to delete entry"
	MessageFailedGetEntries      = "failed to retrieve entries"
	MessageFailedGetDailySummary = "failed to retrieve daily summary"
	MessageFailedGetRangeSummary = "failed to retrieve range summary"
	MessageFailedGetRecent       = "failed to retrieve recent entries"

	ErrEntryNotFound    = errors.New("entry not found")
	ErrEntryNotOwned    = errors.New("entry does not belong to this account")
	ErrInvalidDate      = errors.New("date must be in YYYY-MM-DD format")
	ErrInvalidDateRange = errors.New("start date must not be after end date")
	ErrNegativeMacros   = errors.New("macro grams must not be negative")
)

type (
	AddEntryRequest struct {
		Date    string `json:"date" validate:"required"`
		Name    string `json:"name" validate:"omitempty"`
		Carbs   int    `json:"carbs" validate:"min=0"`
		Protein int    `json:"protein" validate:"min=0"`
		Fat     int    `json:"fat" validate:"min=0"`
	}

	// UpdateEntryRequest replaces the stored entry wholesale: every field
	// overwrites the row, omitted macro grams become zero, and calories are
	// re-derived from the macros.
	UpdateEntryRequest struct {
		Date    string `json:"date" validate:"required"`
		Name    string `json:"name" validate:"omitempty"`
		Carbs   int    `json:"carbs" validate:"min=0"`
		Protein int    `json:"protein" validate:"min=0"`
		Fat     int    `json:"fat" validate:"min=0"`
	}

	EntryResponse struct {
		ID       uint   `json:"id"`
		Date     string `json:"date"`
		Name     string `json:"name"`
		Calories int    `json:"calories"`
		Carbs    int    `json:"carbs"`
		Protein  int    `json:"protein"`
		Fat      int    `json:"fat"`
		LoggedAt int64  `json:"logged_at"`
	}

	DailySummaryResponse struct {
		Date          string `json:"date"`
		TotalCalories int    `json:"total_calories"`
		TotalCarbs    int    `json:"total_carbs"`
		TotalProtein  int    `json:"total_protein"`
		TotalFat      int    `json:"total_fat"`

		CalorieProgress float64 `json:"calorie_progress"`
		CarbProgress    float64 `json:"carb_progress"`
		ProteinProgress float64 `json:"protein_progress"`
		FatProgress     float64 `json:"fat_progress"`
	}

	RangeSummaryResponse struct {
		StartDate string                 `json:"start_date"`
		EndDate   string                 `json:"end_date"`
		Days      []DailySummaryResponse `json:"days"`
	}
)
