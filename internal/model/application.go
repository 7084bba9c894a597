package model

import (
	"strings"
	"time"
)

// ApplicationStatus is the lifecycle state of an application.
type ApplicationStatus string

const (
	ApplicationStatusPending  ApplicationStatus = "Pending"
	ApplicationStatusSelected ApplicationStatus = "Selected"
	ApplicationStatusRejected ApplicationStatus = "Rejected"
)

// ParseApplicationStatus matches s case-insensitively against the known statuses.
func ParseApplicationStatus(s string) (ApplicationStatus, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "pending":
		return ApplicationStatusPending, true
	case "selected":
		return ApplicationStatusSelected, true
	case "rejected":
		return ApplicationStatusRejected, true
	default:
		return "", false
	}
}

// IsTerminal reports whether no further transition is possible from s.
func (s ApplicationStatus) IsTerminal() bool {
	return s == ApplicationStatusSelected || s == ApplicationStatusRejected
}

// CanTransitionTo reports whether the lifecycle allows moving from s to next.
// Only Pending -> Selected and Pending -> Rejected are allowed.
func (s ApplicationStatus) CanTransitionTo(next ApplicationStatus) bool {
	if s != ApplicationStatusPending {
		return false
	}
	return next == ApplicationStatusSelected || next == ApplicationStatusRejected
}

// Application links a student to a vacancy. Only Status mutates after creation.
type Application struct {
	ID          uint              `json:"id" gorm:"primaryKey"`
	StudentID   uint              `json:"student_id" gorm:"not null;uniqueIndex:idx_application_student_vacancy,priority:1"`
	VacancyID   uint              `json:"vacancy_id" gorm:"not null;index;uniqueIndex:idx_application_student_vacancy,priority:2"`
	Status      ApplicationStatus `json:"status" gorm:"type:varchar(20);not null;default:'Pending';index"`
	AppliedDate time.Time         `json:"applied_date" gorm:"not null"`
	UpdatedAt   time.Time         `json:"updated_at"`

	// Relations
	Student *User    `json:"student,omitempty" gorm:"foreignKey:StudentID;constraint:OnDelete:CASCADE"`
	Vacancy *Vacancy `json:"vacancy,omitempty" gorm:"foreignKey:VacancyID;constraint:OnDelete:CASCADE"`

	// StudentDetails is filled for company listings; nil when the applicant has none.
	StudentDetails *StudentDetails `json:"student_details,omitempty" gorm:"-"`
}
