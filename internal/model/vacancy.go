package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Vacancy is a job posting owned by the company that created it.
type Vacancy struct {
	ID          uint                `json:"id" gorm:"primaryKey"`
	CompanyID   uint                `json:"company_id" gorm:"not null;index"`
	Title       string              `json:"title" gorm:"size:100;not null"`
	Description string              `json:"description" gorm:"type:text;not null"`
	Location    string              `json:"location" gorm:"size:100;not null"`
	Salary      decimal.NullDecimal `json:"salary" gorm:"type:decimal(12,2)"`
	PostedDate  time.Time           `json:"posted_date" gorm:"not null"`
	LastDate    time.Time           `json:"last_date" gorm:"not null"`
	UpdatedAt   time.Time           `json:"updated_at"`

	Company User `json:"-" gorm:"foreignKey:CompanyID;constraint:OnDelete:CASCADE"`
}
