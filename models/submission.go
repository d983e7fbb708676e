package models

import (
	"strings"
	"time"
)

// Submission types stored in submissions.submission_type.
const (
	SubmissionTypeMembershipForm          = "membership_form"
	SubmissionTypeBeltTest                = "belt_test"
	SubmissionTypeCompetitionRegistration = "competition_registration"
)

// ReviewStatus represents the review_statuses lookup table.
type ReviewStatus struct {
	ReviewStatusID int        `gorm:"primaryKey;column:review_status_id" json:"review_status_id"`
	StatusCode     string     `gorm:"column:status_code" json:"status_code"`
	StatusName     string     `gorm:"column:status_name" json:"status_name"`
	CreateAt       *time.Time `gorm:"column:create_at" json:"create_at"`
	UpdateAt       *time.Time `gorm:"column:update_at" json:"update_at"`
	DeleteAt       *time.Time `gorm:"column:delete_at" json:"delete_at,omitempty"`
}

// Submission is a member-submitted record under moderation: a membership
// form, a belt-promotion test entry, or a competition registration. The
// type-specific payload lives in the matching detail table.
type Submission struct {
	SubmissionID     int     `gorm:"primaryKey;column:submission_id" json:"submission_id"`
	SubmissionNumber string  `gorm:"column:submission_number" json:"submission_number"`
	SubmissionType   string  `gorm:"column:submission_type" json:"submission_type"`
	UserID           int     `gorm:"column:user_id" json:"user_id"`
	StatusID         int     `gorm:"column:status_id" json:"status_id"`
	ContactEmail     string  `gorm:"column:contact_email" json:"contact_email"`
	RejectionReason  *string `gorm:"column:rejection_reason" json:"rejection_reason,omitempty"`

	SubmittedAt time.Time  `gorm:"column:submitted_at" json:"submitted_at"`
	ReviewedAt  *time.Time `gorm:"column:reviewed_at" json:"reviewed_at,omitempty"`
	ReviewedBy  *int       `gorm:"column:reviewed_by" json:"reviewed_by,omitempty"`

	// Outcome of the most recent notification attempt. Never affects status.
	NotificationSent   bool       `gorm:"column:notification_sent" json:"notification_sent"`
	NotificationSentAt *time.Time `gorm:"column:notification_sent_at" json:"notification_sent_at,omitempty"`
	NotificationError  *string    `gorm:"column:notification_error" json:"notification_error,omitempty"`

	CreateAt time.Time  `gorm:"column:create_at" json:"create_at"`
	UpdateAt time.Time  `gorm:"column:update_at" json:"update_at"`
	DeleteAt *time.Time `gorm:"column:delete_at" json:"delete_at,omitempty"`

	// Relations
	User                          *User                          `gorm:"foreignKey:UserID" json:"user,omitempty"`
	Status                        *ReviewStatus                  `gorm:"foreignKey:StatusID" json:"status,omitempty"`
	MembershipFormDetail          *MembershipFormDetail          `gorm:"foreignKey:SubmissionID" json:"membership_form_detail,omitempty"`
	BeltTestDetail                *BeltTestDetail                `gorm:"foreignKey:SubmissionID" json:"belt_test_detail,omitempty"`
	CompetitionRegistrationDetail *CompetitionRegistrationDetail `gorm:"foreignKey:SubmissionID" json:"competition_registration_detail,omitempty"`
}

// RecipientEmail resolves the notification recipient: the contact email
// captured at intake, falling back to the owning user's account email.
func (s *Submission) RecipientEmail() string {
	if email := strings.TrimSpace(s.ContactEmail); email != "" {
		return email
	}
	if s.User != nil {
		return strings.TrimSpace(s.User.Email)
	}
	return ""
}

// ApplicantName returns the best display name available for the submitter.
func (s *Submission) ApplicantName() string {
	if s.MembershipFormDetail != nil {
		if name := strings.TrimSpace(s.MembershipFormDetail.ApplicantName); name != "" {
			return name
		}
	}
	if s.User != nil {
		if name := s.User.FullName(); name != "" {
			return name
		}
	}
	return ""
}

// MembershipFormDetail holds the payload of a membership application.
type MembershipFormDetail struct {
	DetailID      int        `gorm:"primaryKey;column:detail_id" json:"detail_id"`
	SubmissionID  int        `gorm:"column:submission_id" json:"submission_id"`
	ApplicantName string     `gorm:"column:applicant_name" json:"applicant_name"`
	DateOfBirth   *time.Time `gorm:"column:date_of_birth" json:"date_of_birth,omitempty"`
	Gender        string     `gorm:"column:gender" json:"gender"`
	StateUnit     string     `gorm:"column:state_unit" json:"state_unit"`
	ClubName      string     `gorm:"column:club_name" json:"club_name"`
	CoachName     string     `gorm:"column:coach_name" json:"coach_name"`
	Phone         string     `gorm:"column:phone" json:"phone"`
	Address       string     `gorm:"column:address" json:"address"`
}

// BeltTestDetail holds the payload of a belt-promotion test submission.
type BeltTestDetail struct {
	DetailID     int     `gorm:"primaryKey;column:detail_id" json:"detail_id"`
	SubmissionID int     `gorm:"column:submission_id" json:"submission_id"`
	CurrentBelt  string  `gorm:"column:current_belt" json:"current_belt"`
	TargetBelt   string  `gorm:"column:target_belt" json:"target_belt"`
	Players      string  `gorm:"column:players" json:"players"` // JSON array of player names
	TestCenter   string  `gorm:"column:test_center" json:"test_center"`
	ExaminerName *string `gorm:"column:examiner_name" json:"examiner_name,omitempty"`
}

// CompetitionRegistrationDetail holds the payload of a competition entry.
type CompetitionRegistrationDetail struct {
	DetailID       int    `gorm:"primaryKey;column:detail_id" json:"detail_id"`
	SubmissionID   int    `gorm:"column:submission_id" json:"submission_id"`
	CompetitionID  int    `gorm:"column:competition_id" json:"competition_id"`
	Players        string `gorm:"column:players" json:"players"` // JSON array of player entries
	WeightCategory string `gorm:"column:weight_category" json:"weight_category"`
	CoachName      string `gorm:"column:coach_name" json:"coach_name"`

	Competition *Competition `gorm:"foreignKey:CompetitionID" json:"competition,omitempty"`
}

// TableName overrides
func (ReviewStatus) TableName() string {
	return "review_statuses"
}

func (Submission) TableName() string {
	return "submissions"
}

func (MembershipFormDetail) TableName() string {
	return "membership_form_details"
}

func (BeltTestDetail) TableName() string {
	return "belt_test_details"
}

func (CompetitionRegistrationDetail) TableName() string {
	return "competition_registration_details"
}
