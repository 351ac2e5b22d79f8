package util

import (
	"testing"
)

// TestValidateAmount_Valid 测试有效金额
func TestValidateAmount_Valid(t *testing.T) {
	testCases := []int64{0, 1, 500, 9999999}

	for _, amount := range testCases {
		err := ValidateAmount(amount)
		if err != nil {
			t.Errorf("ValidateAmount(%d) error = %v, want nil", amount, err)
		}
	}
}

// TestValidateAmount_Negative 测试负数金额（异常）
func TestValidateAmount_Negative(t *testing.T) {
	testCases := []int64{-1, -100, -9999}

	for _, amount := range testCases {
		err := ValidateAmount(amount)
		if err == nil {
			t.Errorf("ValidateAmount(%d) error = nil, want error", amount)
		}
	}
}

// TestValidateAmount_TooLarge 测试金额过大（异常）
func TestValidateAmount_TooLarge(t *testing.T) {
	err := ValidateAmount(100000000) // 1亿
	if err == nil {
		t.Error("ValidateAmount(100000000) error = nil, want error")
	}
}

// TestValidateCategory_Valid 测试 7 种有效类别
func TestValidateCategory_Valid(t *testing.T) {
	testCases := []string{"meal", "sleep", "expense", "measurement", "exercise", "movement", "info"}

	for _, category := range testCases {
		err := ValidateCategory(category)
		if err != nil {
			t.Errorf("ValidateCategory(%q) error = %v, want nil", category, err)
		}
	}
}

// TestValidateCategory_Invalid 测试无效类别（异常）
func TestValidateCategory_Invalid(t *testing.T) {
	testCases := []string{"", "food", "Meal", "unknown"}

	for _, category := range testCases {
		err := ValidateCategory(category)
		if err == nil {
			t.Errorf("ValidateCategory(%q) error = nil, want error", category)
		}
	}
}
