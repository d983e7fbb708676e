package models

import "time"

// Competition represents the competitions table managed by union admins.
type Competition struct {
	CompetitionID        int        `gorm:"primaryKey;column:competition_id" json:"competition_id"`
	CompetitionName      string     `gorm:"column:competition_name" json:"competition_name"`
	Venue                string     `gorm:"column:venue" json:"venue"`
	City                 string     `gorm:"column:city" json:"city"`
	StartDate            time.Time  `gorm:"column:start_date" json:"start_date"`
	EndDate              time.Time  `gorm:"column:end_date" json:"end_date"`
	RegistrationDeadline time.Time  `gorm:"column:registration_deadline" json:"registration_deadline"`
	Description          *string    `gorm:"column:description" json:"description,omitempty"`
	IsActive             bool       `gorm:"column:is_active" json:"is_active"`
	CreatedBy            *int       `gorm:"column:created_by" json:"created_by,omitempty"`
	CreateAt             time.Time  `gorm:"column:create_at" json:"create_at"`
	UpdateAt             *time.Time `gorm:"column:update_at" json:"update_at,omitempty"`
	DeleteAt             *time.Time `gorm:"column:delete_at" json:"delete_at,omitempty"`
}

// TableName overrides the table name for Competition
func (Competition) TableName() string {
	return "competitions"
}

// RegistrationOpen reports whether new registrations are accepted at the
// given instant.
func (c *Competition) RegistrationOpen(now time.Time) bool {
	return c.IsActive && now.Before(c.RegistrationDeadline)
}
