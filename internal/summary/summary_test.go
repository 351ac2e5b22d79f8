package summary_test

import (
	"testing"

	"lifelog/internal/models"
	"lifelog/internal/summary"
)

func intPtr(v int) *int { return &v }

func int64Ptr(v int64) *int64 { return &v }

func TestDailyEmpty(t *testing.T) {
	s := summary.Daily(nil)
	if s != (summary.DailySummary{}) {
		t.Errorf("Daily(nil) = %+v, want all-zero summary", s)
	}
}

func TestDailyRecordCount(t *testing.T) {
	records := []models.Record{
		{Category: models.CategoryMeal},
		{Category: models.CategoryInfo},
		{Category: "unknown"},
	}
	s := summary.Daily(records)
	if s.RecordCount != len(records) {
		t.Errorf("RecordCount = %d, want %d", s.RecordCount, len(records))
	}
}

func TestDailyExpense(t *testing.T) {
	records := []models.Record{
		{Category: models.CategoryExpense, Amount: int64Ptr(1200)},
		{Category: models.CategoryExpense}, // amount なし → 0 扱い
		{Category: models.CategoryMeal, Amount: int64Ptr(800)},
		{Category: models.CategoryMeal, Amount: int64Ptr(0)}, // 自炊など、支出に含めない
		{Category: models.CategoryMovement, Amount: int64Ptr(220)},
		{Category: models.CategoryExercise, Amount: int64Ptr(9999)}, // exercise の amount は対象外
	}
	s := summary.Daily(records)
	if s.TotalExpense != 2220 {
		t.Errorf("TotalExpense = %d, want 2220", s.TotalExpense)
	}
}

func TestDailyMealAmountZeroDoesNotChangeExpense(t *testing.T) {
	base := summary.Daily([]models.Record{
		{Category: models.CategoryExpense, Amount: int64Ptr(500)},
	})
	withMeal := summary.Daily([]models.Record{
		{Category: models.CategoryExpense, Amount: int64Ptr(500)},
		{Category: models.CategoryMeal, Amount: int64Ptr(0), Calories: intPtr(600)},
	})
	if withMeal.TotalExpense != base.TotalExpense {
		t.Errorf("TotalExpense = %d, want unchanged %d", withMeal.TotalExpense, base.TotalExpense)
	}
	withPaidMeal := summary.Daily([]models.Record{
		{Category: models.CategoryExpense, Amount: int64Ptr(500)},
		{Category: models.CategoryMeal, Amount: int64Ptr(850)},
	})
	if withPaidMeal.TotalExpense != base.TotalExpense+850 {
		t.Errorf("TotalExpense = %d, want %d", withPaidMeal.TotalExpense, base.TotalExpense+850)
	}
}

func TestDailyCalories(t *testing.T) {
	records := []models.Record{
		{Category: models.CategoryMeal, Calories: intPtr(450)},
		{Category: models.CategoryMeal, Calories: intPtr(600)},
		{Category: models.CategoryMeal}, // calories なし
		{Category: models.CategoryExercise, CaloriesBurned: intPtr(300), Duration: intPtr(30)},
		{Category: models.CategoryMovement, CaloriesBurned: intPtr(80)},
	}
	s := summary.Daily(records)
	if s.TotalCaloriesIntake != 1050 {
		t.Errorf("TotalCaloriesIntake = %d, want 1050", s.TotalCaloriesIntake)
	}
	if s.TotalCaloriesBurn != 380 {
		t.Errorf("TotalCaloriesBurn = %d, want 380", s.TotalCaloriesBurn)
	}
	// movement の duration は運動時間に含めない
	if s.ExerciseMinutes != 30 {
		t.Errorf("ExerciseMinutes = %d, want 30", s.ExerciseMinutes)
	}
}

func TestDailySleep(t *testing.T) {
	tests := []struct {
		name    string
		records []models.Record
		want    float64
	}{
		{
			name: "wrap across midnight",
			records: []models.Record{
				{Category: models.CategorySleep, SleepTime: "23:00", WakeTime: "07:00"},
			},
			want: 8.0,
		},
		{
			name: "same day, no wrap",
			records: []models.Record{
				{Category: models.CategorySleep, SleepTime: "01:00", WakeTime: "07:00"},
			},
			want: 6.0,
		},
		{
			name: "short wrap",
			records: []models.Record{
				{Category: models.CategorySleep, SleepTime: "23:00", WakeTime: "01:00"},
			},
			want: 2.0,
		},
		{
			name: "multiple naps are summed then rounded",
			records: []models.Record{
				{Category: models.CategorySleep, SleepTime: "23:00", WakeTime: "06:20"},
				{Category: models.CategorySleep, SleepTime: "13:00", WakeTime: "13:50"},
			},
			// 440 + 50 = 490 分 = 8.1666…h → 8.2
			want: 8.2,
		},
		{
			name: "invalid times count as zero",
			records: []models.Record{
				{Category: models.CategorySleep, SleepTime: "", WakeTime: "07:00"},
			},
			want: 0,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := summary.Daily(tt.records)
			if s.SleepHours != tt.want {
				t.Errorf("SleepHours = %v, want %v", s.SleepHours, tt.want)
			}
		})
	}
}
