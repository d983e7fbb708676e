// controllers/admin_submission.go
package controllers

import (
	"errors"
	"log"
	"math"
	"net/http"
	"strconv"

	"taekwondo-union-api/config"
	"taekwondo-union-api/models"
	"taekwondo-union-api/services"

	"github.com/gin-gonic/gin"
)

// AdminListSubmissions serves the moderation queue, filterable by review
// status and submission type.
//
// GET /admin/submissions?status=pending&type=belt_test&page=1
func AdminListSubmissions(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	perPage, _ := strconv.Atoi(c.DefaultQuery("per_page", "50"))

	filter := services.SubmissionFilter{
		Status:  c.Query("status"),
		Type:    c.Query("type"),
		Page:    page,
		PerPage: perPage,
	}

	submissions, total, err := services.ListSubmissions(config.DB, filter)
	if err != nil {
		log.Printf("[AdminListSubmissions] list failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch submissions"})
		return
	}

	// Backfill owners in one query; Preload is skipped by the list service.
	userIDs := make([]int, 0, len(submissions))
	seen := map[int]struct{}{}
	for _, s := range submissions {
		if s.UserID > 0 {
			if _, dup := seen[s.UserID]; !dup {
				seen[s.UserID] = struct{}{}
				userIDs = append(userIDs, s.UserID)
			}
		}
	}
	usersByID := map[int]models.User{}
	if len(userIDs) > 0 {
		var users []models.User
		if err := config.DB.Where("user_id IN ?", userIDs).Find(&users).Error; err == nil {
			for _, u := range users {
				usersByID[u.UserID] = u
			}
		}
	}

	out := make([]gin.H, 0, len(submissions))
	for _, s := range submissions {
		var userObj gin.H
		if u, ok := usersByID[s.UserID]; ok {
			userObj = gin.H{
				"user_id":    u.UserID,
				"user_fname": u.UserFname,
				"user_lname": u.UserLname,
				"email":      u.Email,
			}
		}

		out = append(out, gin.H{
			"submission_id":     s.SubmissionID,
			"submission_number": s.SubmissionNumber,
			"submission_type":   s.SubmissionType,
			"user_id":           s.UserID,
			"status_id":         s.StatusID,
			"contact_email":     s.ContactEmail,
			"submitted_at":      s.SubmittedAt,
			"reviewed_at":       s.ReviewedAt,
			"notification_sent": s.NotificationSent,
			"user":              userObj,
		})
	}

	if perPage < 1 || perPage > 100 {
		perPage = 50
	}
	if page < 1 {
		page = 1
	}
	totalPages := int(math.Ceil(float64(total) / float64(perPage)))
	c.JSON(http.StatusOK, gin.H{
		"submissions": out,
		"pagination": gin.H{
			"page":        page,
			"per_page":    perPage,
			"total":       total,
			"total_pages": totalPages,
		},
	})
}

// GetSubmissionDetails returns one submission with its type-specific payload
// for the admin detail view and export.
//
// GET /admin/submissions/:id/details
func GetSubmissionDetails(c *gin.Context) {
	sid, err := strconv.Atoi(c.Param("id"))
	if err != nil || sid <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid submission id"})
		return
	}

	sub, err := services.GetSubmission(config.DB, sid)
	if err != nil {
		if errors.Is(err, services.ErrSubmissionNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "submission not found"})
			return
		}
		log.Printf("[GetSubmissionDetails] find submission %d error: %v", sid, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load submission"})
		return
	}

	var details gin.H
	switch sub.SubmissionType {
	case models.SubmissionTypeMembershipForm:
		if sub.MembershipFormDetail != nil {
			details = gin.H{"type": sub.SubmissionType, "data": sub.MembershipFormDetail}
		}
	case models.SubmissionTypeBeltTest:
		if sub.BeltTestDetail != nil {
			details = gin.H{"type": sub.SubmissionType, "data": sub.BeltTestDetail}
		}
	case models.SubmissionTypeCompetitionRegistration:
		if sub.CompetitionRegistrationDetail != nil {
			details = gin.H{"type": sub.SubmissionType, "data": sub.CompetitionRegistrationDetail}
		}
	}

	var applicant gin.H
	if sub.User != nil && sub.User.UserID > 0 {
		applicant = gin.H{
			"user_id":    sub.User.UserID,
			"user_fname": sub.User.UserFname,
			"user_lname": sub.User.UserLname,
			"email":      sub.User.Email,
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"submission": gin.H{
			"submission_id":     sub.SubmissionID,
			"submission_number": sub.SubmissionNumber,
			"submission_type":   sub.SubmissionType,
			"user_id":           sub.UserID,
			"status_id":         sub.StatusID,
			"status":            sub.Status,
			"contact_email":     sub.ContactEmail,
			"rejection_reason":  sub.RejectionReason,
			"submitted_at":      sub.SubmittedAt,
			"reviewed_at":       sub.ReviewedAt,
			"reviewed_by":       sub.ReviewedBy,
			"notification": gin.H{
				"sent":    sub.NotificationSent,
				"sent_at": sub.NotificationSentAt,
				"error":   sub.NotificationError,
			},
		},
		"details":   details,
		"applicant": applicant,
	})
}

// ApproveSubmission transitions a pending submission to approved and reports
// the notification outcome alongside. A failed email never fails the
// approval; the admin UI flags it from the notification block.
//
// POST /admin/submissions/:id/approve
func ApproveSubmission(c *gin.Context) {
	sid, err := strconv.Atoi(c.Param("id"))
	if err != nil || sid <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid submission ID"})
		return
	}
	adminID := c.GetInt("userID")

	result, err := services.ApproveSubmission(config.DB, sid, services.ApproveOptions{ReviewerID: adminID})
	if err != nil {
		respondTransitionError(c, sid, err)
		return
	}

	createWorkflowNotification(result.Submission, "success", "Submission approved",
		"Your "+result.Submission.SubmissionType+" "+result.Submission.SubmissionNumber+" has been approved.")

	c.JSON(http.StatusOK, gin.H{
		"success":      true,
		"message":      "Submission approved successfully",
		"submission":   result.Submission,
		"notification": result.Notification,
	})
}

// RejectSubmission transitions a pending submission to rejected. The reason
// is mandatory and is persisted verbatim on the submission.
//
// POST /admin/submissions/:id/reject
func RejectSubmission(c *gin.Context) {
	sid, err := strconv.Atoi(c.Param("id"))
	if err != nil || sid <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid submission ID"})
		return
	}
	adminID := c.GetInt("userID")

	var req struct {
		Reason string `json:"reason"`
	}
	_ = c.ShouldBindJSON(&req)

	result, err := services.RejectSubmission(config.DB, sid, req.Reason, adminID)
	if err != nil {
		respondTransitionError(c, sid, err)
		return
	}

	createWorkflowNotification(result.Submission, "error", "Submission rejected",
		"Your "+result.Submission.SubmissionType+" "+result.Submission.SubmissionNumber+" was rejected.")

	c.JSON(http.StatusOK, gin.H{
		"success":      true,
		"message":      "Submission rejected successfully",
		"submission":   result.Submission,
		"notification": result.Notification,
	})
}

// respondTransitionError maps workflow errors onto HTTP statuses.
func respondTransitionError(c *gin.Context, sid int, err error) {
	var invalid *services.InvalidTransitionError
	var validation *services.ValidationError

	switch {
	case errors.Is(err, services.ErrSubmissionNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Submission not found"})
	case errors.As(err, &invalid):
		c.JSON(http.StatusConflict, gin.H{"error": invalid.Error(), "current_status": invalid.CurrentStatus})
	case errors.As(err, &validation):
		c.JSON(http.StatusBadRequest, gin.H{"error": validation.Error(), "field": validation.Field})
	default:
		log.Printf("[AdminSubmission] transition for submission %d failed: %v", sid, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update submission status"})
	}
}

// createWorkflowNotification records the in-app counterpart of the decision
// email. Best-effort, like the email itself.
func createWorkflowNotification(sub *models.Submission, notifType, title, message string) {
	if sub == nil || sub.UserID <= 0 {
		return
	}
	related := uint(sub.SubmissionID)
	if err := createNotification(uint(sub.UserID), title, message, notifType, &related); err != nil {
		log.Printf("[AdminSubmission] in-app notification for submission %d failed: %v", sub.SubmissionID, err)
	}
}
