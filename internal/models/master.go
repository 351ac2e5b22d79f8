package models

import "time"

// Master item kinds: user-curated pick-lists shown in entry forms.
const (
	MasterPaymentLocation = "payment_location"
	MasterPaymentMethod   = "payment_method"
	MasterLocation        = "location"
)

// MasterItem 表示一个选项（支付地点 / 支付方式 / 场所）。
type MasterItem struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uint      `gorm:"index:idx_master_user_kind,priority:1;not null" json:"-"`
	Kind      string    `gorm:"size:32;index:idx_master_user_kind,priority:2;not null" json:"kind"`
	Name      string    `gorm:"size:64;not null" json:"name"`
	CreatedAt time.Time `json:"created_at"`
}
