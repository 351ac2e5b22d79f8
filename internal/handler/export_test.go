package handler

import (
	"testing"
	"time"

	"lifelog/internal/models"
)

func intp(v int) *int { return &v }

func int64p(v int64) *int64 { return &v }

func floatp(v float64) *float64 { return &v }

func baseRecord(category string) models.Record {
	return models.Record{
		ID:         "rec-1",
		Category:   category,
		Date:       "2026-03-01",
		RecordTime: "12:00",
		CreatedAt:  time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC),
		UpdatedAt:  time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC),
	}
}

func TestExportRowMeal(t *testing.T) {
	r := baseRecord(models.CategoryMeal)
	r.MealType = "昼食"
	r.MealContent = "カレーライス"
	r.Calories = intp(800)
	r.Amount = int64p(900)
	r.PaymentLocation = "社食"

	row := exportRow(&r)
	if len(row) != len(exportHeader) {
		t.Fatalf("row has %d columns, want %d", len(row), len(exportHeader))
	}
	if row[3] != "食事" || row[4] != "昼食" || row[5] != "カレーライス" {
		t.Errorf("unexpected label columns: %v", row[3:6])
	}
	if row[6] != "800" || row[7] != "900" {
		t.Errorf("numeric columns = %q, %q; want 800, 900", row[6], row[7])
	}
	if row[9] != "社食" {
		t.Errorf("location = %q, want 社食", row[9])
	}
}

func TestExportRowSleepWrapsMidnight(t *testing.T) {
	r := baseRecord(models.CategorySleep)
	r.SleepTime = "23:00"
	r.WakeTime = "07:00"

	row := exportRow(&r)
	if row[5] != "23:00〜07:00" {
		t.Errorf("content = %q", row[5])
	}
	if row[6] != "480" {
		t.Errorf("sleep minutes = %q, want 480", row[6])
	}
}

func TestExportRowExercise(t *testing.T) {
	r := baseRecord(models.CategoryExercise)
	r.ExerciseType = "ランニング"
	r.CaloriesBurned = intp(300)
	r.Duration = intp(30)
	r.Distance = floatp(5.2)

	row := exportRow(&r)
	if row[6] != "300" || row[7] != "30" || row[8] != "5.2" {
		t.Errorf("numeric columns = %q, %q, %q", row[6], row[7], row[8])
	}
}

func TestExportRowTodoCompletion(t *testing.T) {
	r := baseRecord(models.CategoryInfo)
	r.InfoType = models.InfoTypeTodo
	r.InfoContent = "牛乳を買う"
	r.Priority = models.PriorityHigh
	r.IsCompleted = true

	row := exportRow(&r)
	if row[11] != "high" {
		t.Errorf("priority = %q, want high", row[11])
	}
	if row[12] != "true" {
		t.Errorf("completed = %q, want true", row[12])
	}

	// メモには完了列を出さない
	r.InfoType = models.InfoTypeMemo
	r.IsCompleted = false
	row = exportRow(&r)
	if row[12] != "" {
		t.Errorf("memo completed = %q, want empty", row[12])
	}
}

func TestExportRowCoordinates(t *testing.T) {
	r := baseRecord(models.CategoryExpense)
	r.ExpenseContent = "コーヒー"
	r.Amount = int64p(450)
	r.Latitude = floatp(35.6812)
	r.Longitude = floatp(139.7671)
	r.Address = "東京都千代田区"

	row := exportRow(&r)
	if row[13] != "35.6812" || row[14] != "139.7671" {
		t.Errorf("coordinates = %q, %q", row[13], row[14])
	}
	if row[15] != "東京都千代田区" {
		t.Errorf("address = %q", row[15])
	}
}
