package entities

type User struct {
	ID           uint     `gorm:"primary_key;autoIncrement" json:"id"`
	Email        string   `gorm:"index" json:"email"`
	Username     string   `json:"username"`
	Name         string   `json:"name"`
	PasswordHash string   `json:"-"`
	Age          *int     `json:"age,omitempty"`
	Weight       *float64 `json:"weight,omitempty"` // kg
	Height       *float64 `json:"height,omitempty"` // cm
	Gender       *string  `json:"gender,omitempty"` // "Male" or "Female"
	IsGuest      bool     `json:"is_guest"`
	IsDarkMode   bool     `gorm:"default:true" json:"is_dark_mode"`
	CalorieGoal  int      `gorm:"default:2000" json:"calorie_goal"`
	CarbGoal     int      `gorm:"default:250" json:"carb_goal"`
	ProteinGoal  int      `gorm:"default:150" json:"protein_goal"`
	FatGoal      int      `gorm:"default:65" json:"fat_goal"`

	Timestamp
}
