package services

import (
	"errors"

	"taekwondo-union-api/models"
	"taekwondo-union-api/utils"

	"gorm.io/gorm"
)

// SubmissionFilter narrows a moderation listing. Zero values mean "all".
type SubmissionFilter struct {
	Status  string
	Type    string
	Page    int
	PerPage int
}

// ListSubmissions returns submissions for the admin review queue, most
// recent first. The submission_id tiebreak keeps the order deterministic for
// paging when two records share a submitted_at timestamp. Read-only.
func ListSubmissions(db *gorm.DB, filter SubmissionFilter) ([]models.Submission, int64, error) {
	page := filter.Page
	if page < 1 {
		page = 1
	}
	perPage := filter.PerPage
	if perPage < 1 || perPage > 100 {
		perPage = 50
	}

	q := db.Model(&models.Submission{}).Where("delete_at IS NULL")

	if filter.Status != "" {
		status, err := utils.GetReviewStatusByCode(filter.Status)
		if err != nil {
			return nil, 0, err
		}
		q = q.Where("status_id = ?", status.ReviewStatusID)
	}
	if filter.Type != "" {
		q = q.Where("submission_type = ?", filter.Type)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var submissions []models.Submission
	err := q.Order("submitted_at DESC, submission_id DESC").
		Limit(perPage).
		Offset((page - 1) * perPage).
		Find(&submissions).Error
	if err != nil {
		return nil, 0, err
	}

	return submissions, total, nil
}

// GetSubmission fetches one submission with its owner, status and
// type-specific detail for the admin detail view and export. Read-only.
func GetSubmission(db *gorm.DB, submissionID int) (*models.Submission, error) {
	var sub models.Submission
	err := db.
		Preload("User").
		Preload("Status").
		Preload("MembershipFormDetail").
		Preload("BeltTestDetail").
		Preload("CompetitionRegistrationDetail").
		Preload("CompetitionRegistrationDetail.Competition").
		First(&sub, "submission_id = ? AND delete_at IS NULL", submissionID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSubmissionNotFound
		}
		return nil, err
	}
	return &sub, nil
}
