package timeline_test

import (
	"strings"
	"testing"
	"time"

	"lifelog/internal/models"
	"lifelog/internal/timeline"
)

func intPtr(v int) *int { return &v }

func int64Ptr(v int64) *int64 { return &v }

func floatPtr(v float64) *float64 { return &v }

func TestRenderMeal(t *testing.T) {
	r := &models.Record{
		Category:    models.CategoryMeal,
		RecordTime:  "07:30",
		MealType:    "朝食",
		Amount:      int64Ptr(500),
		Calories:    intPtr(650),
		MealContent: "トーストと卵",
		Photos: []models.RecordPhoto{
			{FileName: "meal-photos/a.jpg", UploadedAt: time.Now()},
			{FileName: "meal-photos/b.jpg", UploadedAt: time.Now()},
		},
	}
	item := timeline.Render(r)
	if item.Time != "07:30" {
		t.Errorf("Time = %q, want 07:30", item.Time)
	}
	want := "朝食 ¥500 650cal トーストと卵 📷2"
	if item.Text != want {
		t.Errorf("Text = %q, want %q", item.Text, want)
	}
}

func TestRenderMealZeroAmountOmitted(t *testing.T) {
	r := &models.Record{
		Category:    models.CategoryMeal,
		MealType:    "夕食",
		Amount:      int64Ptr(0),
		Calories:    intPtr(800),
		MealContent: "カレー",
	}
	item := timeline.Render(r)
	if strings.Contains(item.Text, "¥") {
		t.Errorf("Text = %q, zero amount must be omitted", item.Text)
	}
}

func TestRenderSleep(t *testing.T) {
	tests := []struct {
		sleep, wake string
		want        string
	}{
		{"23:00", "07:00", "睡眠時間: 8時間0分 (23:00〜07:00)"},
		{"01:00", "07:00", "睡眠時間: 6時間0分 (01:00〜07:00)"},
		{"23:00", "01:00", "睡眠時間: 2時間0分 (23:00〜01:00)"},
	}
	for _, tt := range tests {
		r := &models.Record{Category: models.CategorySleep, SleepTime: tt.sleep, WakeTime: tt.wake}
		item := timeline.Render(r)
		if item.Text != tt.want {
			t.Errorf("sleep %s→%s Text = %q, want %q", tt.sleep, tt.wake, item.Text, tt.want)
		}
		if item.Time != tt.wake {
			t.Errorf("sleep Time = %q, want wake time %q", item.Time, tt.wake)
		}
	}
}

func TestRenderMeasurement(t *testing.T) {
	r := &models.Record{
		Category:          models.CategoryMeasurement,
		Weight:            floatPtr(65.0),
		Height:            floatPtr(170.0),
		BodyFatRate:       floatPtr(18.5),
		BloodPressureHigh: intPtr(120),
		BloodPressureLow:  intPtr(80),
	}
	item := timeline.Render(r)
	want := "体重65.0kg BMI22.5 体脂肪18.5% 血圧120/80"
	if item.Text != want {
		t.Errorf("Text = %q, want %q", item.Text, want)
	}
}

func TestRenderMeasurementEmpty(t *testing.T) {
	item := timeline.Render(&models.Record{Category: models.CategoryMeasurement})
	if item.Text != "測定データなし" {
		t.Errorf("Text = %q, want placeholder", item.Text)
	}
}

func TestRenderExercise(t *testing.T) {
	r := &models.Record{
		Category:       models.CategoryExercise,
		ExerciseType:   "ランニング",
		CaloriesBurned: intPtr(300),
		Duration:       intPtr(30),
		Distance:       floatPtr(5.2),
	}
	item := timeline.Render(r)
	want := "ランニング 300cal 30分 5.2km"
	if item.Text != want {
		t.Errorf("Text = %q, want %q", item.Text, want)
	}
}

func TestRenderMovement(t *testing.T) {
	tests := []struct {
		name string
		r    models.Record
		want string
	}{
		{
			name: "under an hour",
			r: models.Record{
				Category:        models.CategoryMovement,
				TransportMethod: "電車",
				StartTime:       "09:00",
				EndTime:         "09:45",
				Amount:          int64Ptr(220),
				FromLocation:    "自宅",
				ToLocation:      "駅",
			},
			want: "電車 45分(09:00〜09:45) ¥220 自宅→駅",
		},
		{
			name: "over an hour",
			r: models.Record{
				Category:  models.CategoryMovement,
				StartTime: "09:00",
				EndTime:   "11:15",
			},
			want: "2時間15分(09:00〜11:15)",
		},
		{
			name: "wraps past midnight",
			r: models.Record{
				Category:  models.CategoryMovement,
				StartTime: "23:30",
				EndTime:   "00:15",
			},
			want: "45分(23:30〜00:15)",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			item := timeline.Render(&tt.r)
			if item.Text != tt.want {
				t.Errorf("Text = %q, want %q", item.Text, tt.want)
			}
		})
	}
}

func TestRenderInfoTruncation(t *testing.T) {
	long := strings.Repeat("あ", 60)
	r := &models.Record{
		Category:    models.CategoryInfo,
		InfoType:    models.InfoTypeMemo,
		Priority:    models.PriorityNormal,
		InfoContent: long,
	}
	item := timeline.Render(r)
	want := "🟡 [メモ] " + strings.Repeat("あ", 50) + "…"
	if item.Text != want {
		t.Errorf("Text = %q, want %q", item.Text, want)
	}

	exact := strings.Repeat("い", 50)
	r.InfoContent = exact
	if got := timeline.Render(r); !strings.HasSuffix(got.Text, exact) {
		t.Errorf("50-rune content must not be truncated, got %q", got.Text)
	}
}

func TestRenderInfoTodo(t *testing.T) {
	r := &models.Record{
		Category:    models.CategoryInfo,
		InfoType:    models.InfoTypeTodo,
		Priority:    models.PriorityHigh,
		InfoContent: "牛乳を買う",
		DueDate:     "2026-03-01",
		DueTime:     "18:00",
	}
	item := timeline.Render(r)
	want := "🔴 [TODO] 牛乳を買う (期限: 2026-03-01 18:00)"
	if item.Text != want {
		t.Errorf("Text = %q, want %q", item.Text, want)
	}
	if item.Icon == "✅" {
		t.Error("incomplete TODO must not use the done icon")
	}

	r.IsCompleted = true
	item = timeline.Render(r)
	if item.Icon != "✅" {
		t.Errorf("completed TODO icon = %q, want ✅", item.Icon)
	}
	if !strings.HasSuffix(item.Text, "✓完了") {
		t.Errorf("completed TODO Text = %q, want completion marker suffix", item.Text)
	}
}

func TestRenderUnknownCategory(t *testing.T) {
	item := timeline.Render(&models.Record{Category: "mystery", Memo: "raw memo"})
	if item.Text != "raw memo" {
		t.Errorf("Text = %q, want raw memo", item.Text)
	}
	item = timeline.Render(&models.Record{Category: "mystery"})
	if item.Text != "内容なし" {
		t.Errorf("Text = %q, want placeholder", item.Text)
	}
}

func TestRenderIdempotent(t *testing.T) {
	r := &models.Record{
		Category:    models.CategoryMeal,
		RecordTime:  "12:00",
		MealType:    "昼食",
		Amount:      int64Ptr(900),
		MealContent: "ラーメン",
	}
	a := timeline.Render(r)
	b := timeline.Render(r)
	if a != b {
		t.Errorf("Render not idempotent: %+v vs %+v", a, b)
	}
}
