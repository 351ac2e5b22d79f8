// Package summary reduces the records of one calendar day into the daily
// totals shown on the dashboard. The reducer is a total, side-effect-free
// function: missing numeric fields count as zero, never as an error.
package summary

import (
	"math"

	"lifelog/internal/clock"
	"lifelog/internal/models"
)

// DailySummary holds the aggregate totals of one user/day.
type DailySummary struct {
	TotalExpense        int64   `json:"total_expense"`         // 円
	TotalCaloriesIntake int     `json:"total_calories_intake"` // kcal
	TotalCaloriesBurn   int     `json:"total_calories_burn"`   // kcal
	SleepHours          float64 `json:"sleep_hours"`           // 小数第 1 位
	ExerciseMinutes     int     `json:"exercise_minutes"`
	RecordCount         int     `json:"record_count"`
}

// Daily reduces records (all of one date, order irrelevant) into a
// DailySummary. An empty input yields the all-zero summary.
//
// 支出の集計：expense は常に加算、meal / movement は amount > 0 の場合のみ。
// 同じ amount 列を「支払った金額」と「支払いなし」の両方に使っている点は
// 意図的に元の仕様のまま。
func Daily(records []models.Record) DailySummary {
	var s DailySummary
	s.RecordCount = len(records)

	sleepMinutes := 0
	for i := range records {
		r := &records[i]
		switch r.Category {
		case models.CategoryExpense:
			s.TotalExpense += r.AmountValue()
		case models.CategoryMeal:
			if r.AmountValue() > 0 {
				s.TotalExpense += r.AmountValue()
			}
			s.TotalCaloriesIntake += r.CaloriesValue()
		case models.CategoryMovement:
			if r.AmountValue() > 0 {
				s.TotalExpense += r.AmountValue()
			}
			s.TotalCaloriesBurn += r.CaloriesBurnedValue()
		case models.CategoryExercise:
			s.TotalCaloriesBurn += r.CaloriesBurnedValue()
			s.ExerciseMinutes += r.DurationValue()
		case models.CategorySleep:
			if m, err := clock.WrapMinutes(r.SleepTime, r.WakeTime); err == nil {
				sleepMinutes += m
			}
		}
	}

	// 昼寝を含む合計を時間に直して小数第 1 位で四捨五入
	s.SleepHours = round1(float64(sleepMinutes) / 60)
	return s
}

func round1(v float64) float64 {
	return math.Floor(v*10+0.5) / 10
}
