// Package timeline renders one record into the (time, icon, text) triple
// shown on the daily timeline. Render is a pure function: calling it twice
// on the same record yields identical output, and it never fails — missing
// fields are omitted or replaced by a placeholder.
package timeline

import (
	"fmt"
	"strings"

	"lifelog/internal/clock"
	"lifelog/internal/health"
	"lifelog/internal/models"
)

// Item is the display form of one record.
type Item struct {
	Time string `json:"time"`
	Icon string `json:"icon"`
	Text string `json:"text"`
}

const (
	iconMeal        = "🍽️"
	iconSleep       = "😴"
	iconExpense     = "💰"
	iconMeasurement = "📏"
	iconExercise    = "🏃"
	iconMovement    = "🚶"
	iconInfo        = "📝"
	iconDone        = "✅"
	iconGeneric     = "📋"
)

// infoContentLimit is the display limit (in runes) for memo/TODO content.
const infoContentLimit = 50

// Render maps a record to its timeline item. Unknown categories fall back
// to a generic icon with the memo or a placeholder.
func Render(r *models.Record) Item {
	switch r.Category {
	case models.CategoryMeal:
		return Item{Time: r.RecordTime, Icon: iconMeal, Text: mealText(r)}
	case models.CategorySleep:
		return Item{Time: r.WakeTime, Icon: iconSleep, Text: sleepText(r)}
	case models.CategoryExpense:
		return Item{Time: r.RecordTime, Icon: iconExpense, Text: expenseText(r)}
	case models.CategoryMeasurement:
		return Item{Time: r.RecordTime, Icon: iconMeasurement, Text: measurementText(r)}
	case models.CategoryExercise:
		return Item{Time: r.RecordTime, Icon: iconExercise, Text: exerciseText(r)}
	case models.CategoryMovement:
		return Item{Time: r.StartTime, Icon: iconMovement, Text: movementText(r)}
	case models.CategoryInfo:
		icon := iconInfo
		if r.InfoType == models.InfoTypeTodo && r.IsCompleted {
			icon = iconDone
		}
		return Item{Time: r.RecordTime, Icon: icon, Text: infoText(r)}
	default:
		text := r.Memo
		if text == "" {
			text = "内容なし"
		}
		return Item{Time: r.RecordTime, Icon: iconGeneric, Text: text}
	}
}

// mealText: "{mealType} ¥{amount} {calories}cal {content} 📷{n}".
// 金額は 0 より大きい場合のみ表示する。
func mealText(r *models.Record) string {
	parts := make([]string, 0, 5)
	if r.MealType != "" {
		parts = append(parts, r.MealType)
	}
	if r.AmountValue() > 0 {
		parts = append(parts, fmt.Sprintf("¥%d", r.AmountValue()))
	}
	if r.Calories != nil {
		parts = append(parts, fmt.Sprintf("%dcal", *r.Calories))
	}
	if r.MealContent != "" {
		parts = append(parts, r.MealContent)
	}
	if n := len(r.Photos); n > 0 {
		parts = append(parts, fmt.Sprintf("📷%d", n))
	}
	return strings.Join(parts, " ")
}

func sleepText(r *models.Record) string {
	minutes, err := clock.WrapMinutes(r.SleepTime, r.WakeTime)
	if err != nil {
		return "睡眠時間: -"
	}
	h, m := clock.SplitHours(minutes)
	return fmt.Sprintf("睡眠時間: %d時間%d分 (%s〜%s)", h, m, r.SleepTime, r.WakeTime)
}

func expenseText(r *models.Record) string {
	parts := make([]string, 0, 4)
	if r.ExpenseContent != "" {
		parts = append(parts, r.ExpenseContent)
	}
	if r.AmountValue() > 0 {
		parts = append(parts, fmt.Sprintf("¥%d", r.AmountValue()))
	}
	if r.PaymentLocation != "" {
		parts = append(parts, r.PaymentLocation)
	}
	if n := len(r.Photos); n > 0 {
		parts = append(parts, fmt.Sprintf("📷%d", n))
	}
	return strings.Join(parts, " ")
}

// measurementText joins the non-empty measurements; all absent shows a
// placeholder instead of an empty line.
func measurementText(r *models.Record) string {
	parts := make([]string, 0, 4)
	if r.Weight != nil {
		parts = append(parts, fmt.Sprintf("体重%.1fkg", *r.Weight))
	}
	if r.Weight != nil && r.Height != nil {
		if bmi := health.BMI(*r.Weight, *r.Height); bmi > 0 {
			parts = append(parts, fmt.Sprintf("BMI%.1f", bmi))
		}
	}
	if r.BodyFatRate != nil {
		parts = append(parts, fmt.Sprintf("体脂肪%.1f%%", *r.BodyFatRate))
	}
	if r.BloodPressureHigh != nil && r.BloodPressureLow != nil {
		parts = append(parts, fmt.Sprintf("血圧%d/%d", *r.BloodPressureHigh, *r.BloodPressureLow))
	}
	if len(parts) == 0 {
		return "測定データなし"
	}
	return strings.Join(parts, " ")
}

func exerciseText(r *models.Record) string {
	parts := make([]string, 0, 5)
	if r.ExerciseType != "" {
		parts = append(parts, r.ExerciseType)
	}
	if r.CaloriesBurned != nil {
		parts = append(parts, fmt.Sprintf("%dcal", *r.CaloriesBurned))
	}
	if r.Duration != nil {
		parts = append(parts, fmt.Sprintf("%d分", *r.Duration))
	}
	if r.Distance != nil {
		parts = append(parts, fmt.Sprintf("%.1fkm", *r.Distance))
	}
	if r.ExerciseContent != "" {
		parts = append(parts, r.ExerciseContent)
	}
	return strings.Join(parts, " ")
}

// movementText: "{transport} {duration}({start}〜{end}) ¥{amount} {from}→{to}".
// Missing optional pieces are omitted, not replaced with placeholders.
func movementText(r *models.Record) string {
	parts := make([]string, 0, 4)
	if r.TransportMethod != "" {
		parts = append(parts, r.TransportMethod)
	}
	if minutes, err := clock.WrapMinutes(r.StartTime, r.EndTime); err == nil {
		parts = append(parts, fmt.Sprintf("%s(%s〜%s)", clock.FormatMinutes(minutes), r.StartTime, r.EndTime))
	}
	if r.AmountValue() > 0 {
		parts = append(parts, fmt.Sprintf("¥%d", r.AmountValue()))
	}
	if r.FromLocation != "" && r.ToLocation != "" {
		parts = append(parts, r.FromLocation+"→"+r.ToLocation)
	}
	return strings.Join(parts, " ")
}

func infoText(r *models.Record) string {
	var b strings.Builder

	switch r.Priority {
	case models.PriorityHigh:
		b.WriteString("🔴 ")
	case models.PriorityLow:
		b.WriteString("🟢 ")
	default:
		b.WriteString("🟡 ")
	}

	if r.InfoType == models.InfoTypeTodo {
		b.WriteString("[TODO] ")
	} else {
		b.WriteString("[メモ] ")
	}

	content := r.InfoContent
	if content == "" {
		content = "内容なし"
	}
	b.WriteString(truncate(content, infoContentLimit))

	if r.InfoType == models.InfoTypeTodo {
		if r.DueDate != "" {
			b.WriteString(" (期限: " + r.DueDate)
			if r.DueTime != "" {
				b.WriteString(" " + r.DueTime)
			}
			b.WriteString(")")
		}
		if r.IsCompleted {
			b.WriteString(" ✓完了")
		}
	}
	return b.String()
}

// truncate limits s to max runes, appending an ellipsis when cut.
func truncate(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max]) + "…"
}
