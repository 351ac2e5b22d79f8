package models

import "time"

// Backup tracks an encrypted backup file written to the backup directory.
type Backup struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uint      `gorm:"index;not null" json:"-"`
	FileName  string    `gorm:"size:128;not null" json:"file_name"`
	FilePath  string    `gorm:"size:255;not null" json:"-"`
	Size      int64     `json:"size"`
	CreatedAt time.Time `json:"created_at"`
}
