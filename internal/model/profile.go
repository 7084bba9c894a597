package model

import "time"

// Profile is the public card of a user. A user has at most one.
type Profile struct {
	ID         uint      `json:"id" gorm:"primaryKey"`
	UserID     uint      `json:"user_id" gorm:"uniqueIndex;not null"`
	FullName   string    `json:"full_name" gorm:"size:100;not null"`
	Bio        string    `json:"bio" gorm:"type:text"`
	ProfilePic *string   `json:"profile_pic,omitempty" gorm:"size:255"` // blob key
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`

	User User `json:"-" gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
}

// StudentDetails holds a student's academic and contact information.
type StudentDetails struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	UserID    uint      `json:"user_id" gorm:"uniqueIndex;not null"`
	Education string    `json:"education" gorm:"size:500"`
	Skills    string    `json:"skills" gorm:"size:500"`
	Contact   string    `json:"contact" gorm:"size:15"`
	Address   string    `json:"address" gorm:"size:300"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	User User `json:"-" gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
}
