package models

import "time"

// PersonalSettings holds per-user profile values and daily targets.
// Height/Age/Gender feed the derived measurement metrics (BMI, BMR);
// targets are display-only.
type PersonalSettings struct {
	UserID uint `gorm:"primaryKey" json:"user_id"`

	Height *float64 `json:"height,omitempty"` // cm
	Age    *int     `json:"age,omitempty"`
	Gender string   `gorm:"size:8" json:"gender"`

	TargetWeight   *float64 `json:"target_weight,omitempty"`   // kg
	TargetCalories *int     `json:"target_calories,omitempty"` // kcal/日
	TargetExpense  *int64   `json:"target_expense,omitempty"`  // 円/日
	TargetSleep    *float64 `json:"target_sleep,omitempty"`    // 時間/日

	NotifyEnabled bool   `json:"notify_enabled"`
	NotifyTime    string `gorm:"size:5" json:"notify_time"` // "HH:MM"

	UpdatedAt time.Time `json:"updated_at"`
}
