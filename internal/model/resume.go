package model

import "time"

// Resume is a document uploaded by a student. The file itself lives in the blob store.
type Resume struct {
	ID           uint      `json:"id" gorm:"primaryKey"`
	UserID       uint      `json:"user_id" gorm:"not null;index"`
	Filename     string    `json:"filename" gorm:"size:255;not null"` // blob key
	OriginalName string    `json:"original_name" gorm:"size:255"`
	ContentType  string    `json:"content_type" gorm:"size:100"`
	Size         int64     `json:"size"`
	UploadedAt   time.Time `json:"uploaded_at" gorm:"autoCreateTime"`
	UpdatedAt    time.Time `json:"updated_at"`

	User User `json:"-" gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
}
