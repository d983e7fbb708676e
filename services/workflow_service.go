package services

import (
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"taekwondo-union-api/config"
	"taekwondo-union-api/models"
	"taekwondo-union-api/utils"

	"gorm.io/gorm"
)

// sendMail is swappable in tests, matching the mailer's production signature.
var sendMail = config.SendMail

// ErrSubmissionNotFound means the submission id resolves to no live record.
var ErrSubmissionNotFound = errors.New("submission not found")

// InvalidTransitionError means the submission is no longer pending. The
// terminal status it already reached is preserved so callers can distinguish
// "already approved" from "already rejected".
type InvalidTransitionError struct {
	CurrentStatus string
}

func (e *InvalidTransitionError) Error() string {
	switch e.CurrentStatus {
	case utils.StatusCodeApproved:
		return "submission has already been approved"
	case utils.StatusCodeRejected:
		return "submission has already been rejected"
	default:
		return fmt.Sprintf("submission cannot transition from status %q", e.CurrentStatus)
	}
}

// ValidationError means a required transition input was missing or malformed.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// NotificationOutcome records the best-effort email attempt made after a
// committed transition. It is data, never an error: a failed send does not
// fail or roll back the transition.
type NotificationOutcome struct {
	Sent   bool       `json:"sent"`
	SentAt *time.Time `json:"sent_at,omitempty"`
	Error  *string    `json:"error,omitempty"`
}

// TransitionResult is returned on a successful approve/reject.
type TransitionResult struct {
	Submission   *models.Submission  `json:"submission"`
	Notification NotificationOutcome `json:"notification"`

	// IssuedPassword carries the cleartext member password generated during
	// a membership approval. Never serialized; only the email sees it.
	IssuedPassword string `json:"-"`
}

// ApproveOptions carries transition-specific inputs for an approval.
type ApproveOptions struct {
	ReviewerID int
}

// ApproveSubmission moves a pending submission to approved. For membership
// forms it also issues member credentials. The status write is an atomic
// conditional update keyed on the pending status, so two concurrent
// transitions on the same submission cannot both succeed even across server
// instances.
func ApproveSubmission(db *gorm.DB, submissionID int, opts ApproveOptions) (*TransitionResult, error) {
	sub, pending, err := loadPendingTransitionTarget(db, submissionID)
	if err != nil {
		return nil, err
	}

	approved, err := utils.GetReviewStatusByCode(utils.StatusCodeApproved)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	updates := map[string]interface{}{
		"status_id":   approved.ReviewStatusID,
		"reviewed_at": now,
		"update_at":   now,
	}
	if opts.ReviewerID > 0 {
		updates["reviewed_by"] = opts.ReviewerID
	}

	if err := applyConditionalTransition(db, sub, pending.ReviewStatusID, updates); err != nil {
		return nil, err
	}

	sub.StatusID = approved.ReviewStatusID
	sub.ReviewedAt = &now
	if opts.ReviewerID > 0 {
		reviewer := opts.ReviewerID
		sub.ReviewedBy = &reviewer
	}

	issuedPassword := ""
	if sub.SubmissionType == models.SubmissionTypeMembershipForm {
		issuedPassword = issueMemberCredentials(db, sub, now)
	}

	msg := ComposeSubmissionApproved(sub, issuedPassword)
	outcome := deliverAndRecord(db, sub, msg)

	return &TransitionResult{Submission: sub, Notification: outcome, IssuedPassword: issuedPassword}, nil
}

// RejectSubmission moves a pending submission to rejected. The reason is
// mandatory and persisted verbatim.
func RejectSubmission(db *gorm.DB, submissionID int, reason string, reviewerID int) (*TransitionResult, error) {
	reason = strings.TrimSpace(reason)
	if reason == "" {
		return nil, &ValidationError{Field: "reason", Message: "rejection reason is required"}
	}

	sub, pending, err := loadPendingTransitionTarget(db, submissionID)
	if err != nil {
		return nil, err
	}

	rejected, err := utils.GetReviewStatusByCode(utils.StatusCodeRejected)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	updates := map[string]interface{}{
		"status_id":        rejected.ReviewStatusID,
		"reviewed_at":      now,
		"rejection_reason": reason,
		"update_at":        now,
	}
	if reviewerID > 0 {
		updates["reviewed_by"] = reviewerID
	}

	if err := applyConditionalTransition(db, sub, pending.ReviewStatusID, updates); err != nil {
		return nil, err
	}

	sub.StatusID = rejected.ReviewStatusID
	sub.ReviewedAt = &now
	sub.RejectionReason = &reason
	if reviewerID > 0 {
		reviewer := reviewerID
		sub.ReviewedBy = &reviewer
	}

	msg := ComposeSubmissionRejected(sub, reason)
	outcome := deliverAndRecord(db, sub, msg)

	return &TransitionResult{Submission: sub, Notification: outcome}, nil
}

// loadPendingTransitionTarget fetches the submission plus whatever related
// rows the notification needs, and verifies it is still pending.
func loadPendingTransitionTarget(db *gorm.DB, submissionID int) (*models.Submission, models.ReviewStatus, error) {
	var sub models.Submission
	if err := db.First(&sub, "submission_id = ? AND delete_at IS NULL", submissionID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.ReviewStatus{}, ErrSubmissionNotFound
		}
		return nil, models.ReviewStatus{}, err
	}

	pending, err := utils.GetReviewStatusByCode(utils.StatusCodePending)
	if err != nil {
		return nil, models.ReviewStatus{}, err
	}

	if sub.StatusID != pending.ReviewStatusID {
		return nil, models.ReviewStatus{}, invalidTransitionFor(sub.StatusID)
	}

	if sub.UserID > 0 {
		var owner models.User
		if err := db.First(&owner, "user_id = ?", sub.UserID).Error; err == nil {
			sub.User = &owner
		}
	}
	if sub.SubmissionType == models.SubmissionTypeMembershipForm {
		var detail models.MembershipFormDetail
		if err := db.First(&detail, "submission_id = ?", sub.SubmissionID).Error; err == nil {
			sub.MembershipFormDetail = &detail
		}
	}

	return &sub, pending, nil
}

// applyConditionalTransition performs the atomic status write. Zero affected
// rows means another request already transitioned the submission; the fresh
// terminal status is reported so the caller sees the same error it would have
// seen had it arrived second in a serialized order.
func applyConditionalTransition(db *gorm.DB, sub *models.Submission, pendingStatusID int, updates map[string]interface{}) error {
	res := db.Model(&models.Submission{}).
		Where("submission_id = ? AND status_id = ?", sub.SubmissionID, pendingStatusID).
		Updates(updates)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		var current models.Submission
		if err := db.Select("status_id").First(&current, "submission_id = ?", sub.SubmissionID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrSubmissionNotFound
			}
			return err
		}
		return invalidTransitionFor(current.StatusID)
	}
	return nil
}

func invalidTransitionFor(statusID int) error {
	code := ""
	if status, err := utils.GetReviewStatusByID(statusID); err == nil {
		code = utils.CanonicalStatusCode(status.StatusCode)
	}
	return &InvalidTransitionError{CurrentStatus: code}
}

// issueMemberCredentials generates and stores the member access password for
// an approved membership form. Failures are logged and skipped; the approval
// itself already stands.
func issueMemberCredentials(db *gorm.DB, sub *models.Submission, now time.Time) string {
	if sub.UserID <= 0 {
		return ""
	}

	stateUnit := ""
	if sub.MembershipFormDetail != nil {
		stateUnit = sub.MembershipFormDetail.StateUnit
	}
	password := utils.GenerateMemberPassword(stateUnit)

	hash, err := utils.HashPassword(password)
	if err != nil {
		log.Printf("[Workflow] submission %d: hash member password failed: %v", sub.SubmissionID, err)
		return ""
	}

	memberNumber := utils.GenerateMemberNumber(now)
	err = db.Model(&models.User{}).
		Where("user_id = ?", sub.UserID).
		Updates(map[string]interface{}{
			"password":      hash,
			"member_number": memberNumber,
			"is_active":     true,
			"update_at":     now,
		}).Error
	if err != nil {
		log.Printf("[Workflow] submission %d: store member credentials failed: %v", sub.SubmissionID, err)
		return ""
	}

	if sub.User != nil {
		sub.User.MemberNumber = &memberNumber
		sub.User.IsActive = true
	}
	return password
}

// deliverAndRecord sends the composed message and persists the outcome onto
// the submission as a secondary write. Both steps are best-effort; neither
// can undo the committed transition.
func deliverAndRecord(db *gorm.DB, sub *models.Submission, msg ComposedMessage) NotificationOutcome {
	var outcome NotificationOutcome

	recipient := sub.RecipientEmail()
	if recipient == "" {
		errText := "no recipient email on submission"
		outcome.Error = &errText
		log.Printf("[Workflow] submission %d: notification skipped: %s", sub.SubmissionID, errText)
	} else {
		result := sendMail([]string{recipient}, msg.Subject, msg.HTML, "")
		sentAt := time.Now()
		if result.Success {
			outcome.Sent = true
			outcome.SentAt = &sentAt
		} else {
			errText := "send failed"
			if result.Err != nil {
				errText = result.Err.Error()
			}
			outcome.Error = &errText
		}
	}

	updates := map[string]interface{}{
		"notification_sent":    outcome.Sent,
		"notification_sent_at": outcome.SentAt,
		"notification_error":   outcome.Error,
	}
	if err := db.Model(&models.Submission{}).
		Where("submission_id = ?", sub.SubmissionID).
		Updates(updates).Error; err != nil {
		log.Printf("[Workflow] submission %d: record notification outcome failed: %v", sub.SubmissionID, err)
	}

	sub.NotificationSent = outcome.Sent
	sub.NotificationSentAt = outcome.SentAt
	sub.NotificationError = outcome.Error
	return outcome
}
