package util

import (
	"fmt"
)

// ValidateAmount 验证金额（非负且不超过上限）
func ValidateAmount(amount int64) error {
	if amount < 0 {
		return fmt.Errorf("amount must not be negative, got %d", amount)
	}
	if amount >= 10000000 { // 限制最大金额为1千万
		return fmt.Errorf("amount too large, got %d", amount)
	}
	return nil
}

// ValidateCategory 验证记录类别（必须是 7 种之一）
func ValidateCategory(category string) error {
	switch category {
	case "meal", "sleep", "expense", "measurement", "exercise", "movement", "info":
		return nil
	case "":
		return fmt.Errorf("category is empty")
	default:
		return fmt.Errorf("unknown category %q", category)
	}
}
