package entities

type MacroEntry struct {
	ID     uint   `gorm:"primary_key;autoIncrement" json:"id"`
	UserID uint   `gorm:"index" json:"user_id"`
	Date   string `gorm:"type:varchar(10);index" json:"date"` // ISO date string (YYYY-MM-DD)
	Name   string `json:"name"`

	Calories int `json:"calories"`
	Carbs    int `json:"carbs"`
	Protein  int `json:"protein"`
	Fat      int `json:"fat"`

	// Epoch milliseconds, recency ordering key.
	LoggedAt int64 `gorm:"autoCreateTime:milli" json:"logged_at"`

	User *User `gorm:"foreignKey:UserID"`
	Timestamp
}

// CalculateCalories derives calories from macro grams:
// 4 cal/g carb, 4 cal/g protein, 9 cal/g fat.
func CalculateCalories(carbs, protein, fat int) int {
	return (carbs * 4) + (protein * 4) + (fat * 9)
}

// DailyMacros is derived by grouping entries on date, never persisted.
type DailyMacros struct {
	Date          string `json:"date"`
	TotalCalories int    `json:"total_calories"`
	TotalCarbs    int    `json:"total_carbs"`
	TotalProtein  int    `json:"total_protein"`
	TotalFat      int    `json:"total_fat"`
}
