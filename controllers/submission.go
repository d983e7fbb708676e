// controllers/submission.go
package controllers

import (
	"encoding/json"
	"log"
	"net/http"
	"strings"
	"time"

	"taekwondo-union-api/config"
	"taekwondo-union-api/models"
	"taekwondo-union-api/utils"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type membershipFormRequest struct {
	ApplicantName string `json:"applicant_name" binding:"required"`
	Email         string `json:"email" binding:"required"`
	DateOfBirth   string `json:"date_of_birth"` // YYYY-MM-DD
	Gender        string `json:"gender"`
	StateUnit     string `json:"state_unit" binding:"required"`
	ClubName      string `json:"club_name"`
	CoachName     string `json:"coach_name"`
	Phone         string `json:"phone"`
	Address       string `json:"address"`
}

// CreateMembershipForm accepts a public membership application. An inactive
// member account is created alongside the pending submission; credentials are
// only issued if an admin approves.
func CreateMembershipForm(c *gin.Context) {
	var req membershipFormRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request data"})
		return
	}

	req.Email = utils.SanitizeInput(strings.ToLower(req.Email))
	if !utils.ValidateEmail(req.Email) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid email format"})
		return
	}

	var dob *time.Time
	if strings.TrimSpace(req.DateOfBirth) != "" {
		parsed, err := time.Parse("2006-01-02", req.DateOfBirth)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "date_of_birth must be YYYY-MM-DD"})
			return
		}
		dob = &parsed
	}

	var existing models.User
	if err := config.DB.Where("email = ? AND delete_at IS NULL", req.Email).First(&existing).Error; err == nil {
		c.JSON(http.StatusConflict, gin.H{"error": "An account with this email already exists"})
		return
	}

	pendingID, err := utils.GetStatusIDByCode(utils.StatusCodePending)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to resolve review status"})
		return
	}

	nameParts := strings.Fields(utils.SanitizeInput(req.ApplicantName))
	fname := req.ApplicantName
	lname := ""
	if len(nameParts) > 1 {
		fname = nameParts[0]
		lname = strings.Join(nameParts[1:], " ")
	}

	now := time.Now()
	var submission models.Submission

	err = config.DB.Transaction(func(tx *gorm.DB) error {
		stateUnit := utils.SanitizeInput(req.StateUnit)
		clubName := utils.SanitizeInput(req.ClubName)
		user := models.User{
			UserFname: fname,
			UserLname: lname,
			Email:     req.Email,
			RoleID:    models.RoleIDMember,
			StateUnit: &stateUnit,
			ClubName:  &clubName,
			IsActive:  false,
			CreateAt:  &now,
			UpdateAt:  &now,
		}
		if err := tx.Create(&user).Error; err != nil {
			return err
		}

		submission = models.Submission{
			SubmissionNumber: utils.GenerateSubmissionNumber(models.SubmissionTypeMembershipForm, now),
			SubmissionType:   models.SubmissionTypeMembershipForm,
			UserID:           user.UserID,
			StatusID:         pendingID,
			ContactEmail:     req.Email,
			SubmittedAt:      now,
			CreateAt:         now,
			UpdateAt:         now,
		}
		if err := tx.Create(&submission).Error; err != nil {
			return err
		}

		detail := models.MembershipFormDetail{
			SubmissionID:  submission.SubmissionID,
			ApplicantName: utils.SanitizeInput(req.ApplicantName),
			DateOfBirth:   dob,
			Gender:        utils.SanitizeInput(req.Gender),
			StateUnit:     stateUnit,
			ClubName:      clubName,
			CoachName:     utils.SanitizeInput(req.CoachName),
			Phone:         utils.SanitizeInput(req.Phone),
			Address:       utils.SanitizeInput(req.Address),
		}
		return tx.Create(&detail).Error
	})

	if err != nil {
		log.Printf("[CreateMembershipForm] create failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to submit membership form"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success":           true,
		"message":           "Membership form submitted and awaiting review",
		"submission_id":     submission.SubmissionID,
		"submission_number": submission.SubmissionNumber,
	})
}

type beltTestRequest struct {
	CurrentBelt  string   `json:"current_belt" binding:"required"`
	TargetBelt   string   `json:"target_belt" binding:"required"`
	Players      []string `json:"players"`
	TestCenter   string   `json:"test_center" binding:"required"`
	ContactEmail string   `json:"contact_email"`
}

// CreateBeltTest accepts a belt-promotion test submission from a member.
func CreateBeltTest(c *gin.Context) {
	var req beltTestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request data"})
		return
	}

	if !utils.ValidateBeltRank(req.CurrentBelt) || !utils.ValidateBeltRank(req.TargetBelt) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Unknown belt rank"})
		return
	}
	if utils.BeltRankIndex(req.TargetBelt) <= utils.BeltRankIndex(req.CurrentBelt) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Target belt must be above the current belt"})
		return
	}

	userID := c.GetInt("userID")
	contactEmail, ok := resolveContactEmail(c, req.ContactEmail, userID)
	if !ok {
		return
	}

	playersJSON, err := json.Marshal(req.Players)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid player list"})
		return
	}

	pendingID, err := utils.GetStatusIDByCode(utils.StatusCodePending)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to resolve review status"})
		return
	}

	now := time.Now()
	var submission models.Submission

	err = config.DB.Transaction(func(tx *gorm.DB) error {
		submission = models.Submission{
			SubmissionNumber: utils.GenerateSubmissionNumber(models.SubmissionTypeBeltTest, now),
			SubmissionType:   models.SubmissionTypeBeltTest,
			UserID:           userID,
			StatusID:         pendingID,
			ContactEmail:     contactEmail,
			SubmittedAt:      now,
			CreateAt:         now,
			UpdateAt:         now,
		}
		if err := tx.Create(&submission).Error; err != nil {
			return err
		}

		detail := models.BeltTestDetail{
			SubmissionID: submission.SubmissionID,
			CurrentBelt:  strings.ToLower(strings.TrimSpace(req.CurrentBelt)),
			TargetBelt:   strings.ToLower(strings.TrimSpace(req.TargetBelt)),
			Players:      string(playersJSON),
			TestCenter:   utils.SanitizeInput(req.TestCenter),
		}
		return tx.Create(&detail).Error
	})

	if err != nil {
		log.Printf("[CreateBeltTest] create failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to submit belt test"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success":           true,
		"message":           "Belt test submission awaiting review",
		"submission_id":     submission.SubmissionID,
		"submission_number": submission.SubmissionNumber,
	})
}

type competitionRegistrationRequest struct {
	CompetitionID  int      `json:"competition_id" binding:"required"`
	Players        []string `json:"players" binding:"required"`
	WeightCategory string   `json:"weight_category"`
	CoachName      string   `json:"coach_name"`
	ContactEmail   string   `json:"contact_email"`
}

// CreateCompetitionRegistration accepts a member's entry for an open
// competition.
func CreateCompetitionRegistration(c *gin.Context) {
	var req competitionRegistrationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request data"})
		return
	}
	if len(req.Players) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "At least one player is required"})
		return
	}

	var competition models.Competition
	if err := config.DB.First(&competition, "competition_id = ? AND delete_at IS NULL", req.CompetitionID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Competition not found"})
		return
	}
	if !competition.RegistrationOpen(time.Now()) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Registration for this competition is closed"})
		return
	}

	userID := c.GetInt("userID")
	contactEmail, ok := resolveContactEmail(c, req.ContactEmail, userID)
	if !ok {
		return
	}

	playersJSON, err := json.Marshal(req.Players)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid player list"})
		return
	}

	pendingID, err := utils.GetStatusIDByCode(utils.StatusCodePending)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to resolve review status"})
		return
	}

	now := time.Now()
	var submission models.Submission

	err = config.DB.Transaction(func(tx *gorm.DB) error {
		submission = models.Submission{
			SubmissionNumber: utils.GenerateSubmissionNumber(models.SubmissionTypeCompetitionRegistration, now),
			SubmissionType:   models.SubmissionTypeCompetitionRegistration,
			UserID:           userID,
			StatusID:         pendingID,
			ContactEmail:     contactEmail,
			SubmittedAt:      now,
			CreateAt:         now,
			UpdateAt:         now,
		}
		if err := tx.Create(&submission).Error; err != nil {
			return err
		}

		detail := models.CompetitionRegistrationDetail{
			SubmissionID:   submission.SubmissionID,
			CompetitionID:  competition.CompetitionID,
			Players:        string(playersJSON),
			WeightCategory: utils.SanitizeInput(req.WeightCategory),
			CoachName:      utils.SanitizeInput(req.CoachName),
		}
		return tx.Create(&detail).Error
	})

	if err != nil {
		log.Printf("[CreateCompetitionRegistration] create failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to submit registration"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success":           true,
		"message":           "Competition registration awaiting review",
		"submission_id":     submission.SubmissionID,
		"submission_number": submission.SubmissionNumber,
	})
}

// GetMySubmissions lists the authenticated member's own submissions.
func GetMySubmissions(c *gin.Context) {
	userID := c.GetInt("userID")

	var submissions []models.Submission
	err := config.DB.
		Preload("Status").
		Where("user_id = ? AND delete_at IS NULL", userID).
		Order("submitted_at DESC, submission_id DESC").
		Find(&submissions).Error
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch submissions"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"submissions": submissions})
}

// resolveContactEmail validates an explicit contact address or falls back to
// the account email. Writes the error response itself on failure.
func resolveContactEmail(c *gin.Context, explicit string, userID int) (string, bool) {
	explicit = utils.SanitizeInput(strings.ToLower(explicit))
	if explicit != "" {
		if !utils.ValidateEmail(explicit) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid contact email"})
			return "", false
		}
		return explicit, true
	}

	var user models.User
	if err := config.DB.Select("email").First(&user, "user_id = ?", userID).Error; err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not found"})
		return "", false
	}
	return user.Email, true
}
