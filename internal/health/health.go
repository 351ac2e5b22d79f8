// Package health implements the derived body metrics: BMI and its category,
// Harris-Benedict BMR, standard weight and METs-based calorie estimates.
// All functions are total; out-of-range inputs return 0.
package health

import "math"

// BMI = weight(kg) / height(m)^2, rounded to one decimal.
func BMI(weightKg, heightCm float64) float64 {
	if weightKg <= 0 || heightCm <= 0 {
		return 0
	}
	m := heightCm / 100
	return round1(weightKg / (m * m))
}

// BMICategory classifies a BMI value (日本肥満学会の区分).
func BMICategory(bmi float64) string {
	switch {
	case bmi <= 0:
		return ""
	case bmi < 18.5:
		return "低体重"
	case bmi < 25:
		return "普通体重"
	case bmi < 30:
		return "肥満(1度)"
	case bmi < 35:
		return "肥満(2度)"
	case bmi < 40:
		return "肥満(3度)"
	default:
		return "肥満(4度)"
	}
}

// StandardWeight returns the weight at BMI 22 for the given height.
func StandardWeight(heightCm float64) float64 {
	if heightCm <= 0 {
		return 0
	}
	m := heightCm / 100
	return round1(22 * m * m)
}

// BMR estimates the basal metabolic rate (kcal/day) using the
// Harris-Benedict equation. Gender is "male" or "female".
func BMR(weightKg, heightCm float64, age int, gender string) float64 {
	if weightKg <= 0 || heightCm <= 0 || age <= 0 {
		return 0
	}
	var bmr float64
	if gender == "female" {
		bmr = 447.593 + 9.247*weightKg + 3.098*heightCm - 4.330*float64(age)
	} else {
		bmr = 88.362 + 13.397*weightKg + 4.799*heightCm - 5.677*float64(age)
	}
	return math.Floor(bmr + 0.5)
}

// EstimatedCalories estimates calories burned from a METs value, body
// weight and duration in minutes: METs × kg × h × 1.05.
func EstimatedCalories(mets, weightKg float64, minutes int) int {
	if mets <= 0 || weightKg <= 0 || minutes <= 0 {
		return 0
	}
	hours := float64(minutes) / 60
	return int(math.Floor(mets*weightKg*hours*1.05 + 0.5))
}

func round1(v float64) float64 {
	return math.Floor(v*10+0.5) / 10
}
