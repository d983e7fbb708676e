package controllers

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"taekwondo-union-api/config"
	"taekwondo-union-api/models"
)

// ===== COMPETITION CONTROLLERS =====

// GetCompetitions - list competitions, soonest first
func GetCompetitions(c *gin.Context) {
	openOnly := c.Query("open_only") == "true"

	query := config.DB.Model(&models.Competition{}).
		Where("delete_at IS NULL AND is_active = 1")

	if openOnly {
		query = query.Where("registration_deadline > ?", time.Now())
	}

	var competitions []models.Competition
	if err := query.Order("start_date ASC").Find(&competitions).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to fetch competitions"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":      true,
		"competitions": competitions,
		"count":        len(competitions),
	})
}

// GetCompetition - fetch one competition by ID
func GetCompetition(c *gin.Context) {
	id := c.Param("id")

	var competition models.Competition
	if err := config.DB.
		Where("competition_id = ? AND delete_at IS NULL", id).
		First(&competition).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "Competition not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":           true,
		"competition":       competition,
		"registration_open": competition.RegistrationOpen(time.Now()),
	})
}

type competitionRequest struct {
	CompetitionName      string  `json:"competition_name" binding:"required"`
	Venue                string  `json:"venue" binding:"required"`
	City                 string  `json:"city" binding:"required"`
	StartDate            string  `json:"start_date" binding:"required"`
	EndDate              string  `json:"end_date" binding:"required"`
	RegistrationDeadline string  `json:"registration_deadline" binding:"required"`
	Description          *string `json:"description"`
}

func parseCompetitionDates(req competitionRequest) (start, end, deadline time.Time, msg string) {
	var err error
	if start, err = time.Parse("2006-01-02", req.StartDate); err != nil {
		return start, end, deadline, "Invalid start_date format, expected YYYY-MM-DD"
	}
	if end, err = time.Parse("2006-01-02", req.EndDate); err != nil {
		return start, end, deadline, "Invalid end_date format, expected YYYY-MM-DD"
	}
	if deadline, err = time.Parse(time.RFC3339, req.RegistrationDeadline); err != nil {
		// allow a bare date: registration closes at start of that day
		if deadline, err = time.Parse("2006-01-02", req.RegistrationDeadline); err != nil {
			return start, end, deadline, "Invalid registration_deadline format"
		}
	}
	if end.Before(start) {
		return start, end, deadline, "end_date must not be before start_date"
	}
	if deadline.After(end) {
		return start, end, deadline, "registration_deadline must not be after end_date"
	}
	return start, end, deadline, ""
}

// CreateCompetition - create a new competition (admin only)
func CreateCompetition(c *gin.Context) {
	var req competitionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": err.Error()})
		return
	}

	start, end, deadline, msg := parseCompetitionDates(req)
	if msg != "" {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": msg})
		return
	}

	var createdBy *int
	if uid, ok := getCurrentUserID(c); ok {
		v := int(uid)
		createdBy = &v
	}

	competition := models.Competition{
		CompetitionName:      strings.TrimSpace(req.CompetitionName),
		Venue:                strings.TrimSpace(req.Venue),
		City:                 strings.TrimSpace(req.City),
		StartDate:            start,
		EndDate:              end,
		RegistrationDeadline: deadline,
		Description:          req.Description,
		IsActive:             true,
		CreatedBy:            createdBy,
		CreateAt:             time.Now(),
	}

	if err := config.DB.Create(&competition).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to create competition"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success":     true,
		"message":     "Competition created successfully",
		"competition": competition,
	})
}

// UpdateCompetition - update competition details (admin only)
func UpdateCompetition(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid competition ID"})
		return
	}

	var competition models.Competition
	if err := config.DB.
		Where("competition_id = ? AND delete_at IS NULL", id).
		First(&competition).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "Competition not found"})
		return
	}

	var req competitionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": err.Error()})
		return
	}

	start, end, deadline, msg := parseCompetitionDates(req)
	if msg != "" {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": msg})
		return
	}

	now := time.Now()
	updates := map[string]interface{}{
		"competition_name":      strings.TrimSpace(req.CompetitionName),
		"venue":                 strings.TrimSpace(req.Venue),
		"city":                  strings.TrimSpace(req.City),
		"start_date":            start,
		"end_date":              end,
		"registration_deadline": deadline,
		"description":           req.Description,
		"update_at":             now,
	}

	if err := config.DB.Model(&competition).Updates(updates).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to update competition"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":     true,
		"message":     "Competition updated successfully",
		"competition": competition,
	})
}

// DeactivateCompetition - soft close a competition (admin only).
// Existing registrations are untouched; new registrations are refused.
func DeactivateCompetition(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid competition ID"})
		return
	}

	now := time.Now()
	res := config.DB.Model(&models.Competition{}).
		Where("competition_id = ? AND delete_at IS NULL", id).
		Updates(map[string]interface{}{
			"is_active": false,
			"update_at": now,
		})
	if res.Error != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to deactivate competition"})
		return
	}
	if res.RowsAffected == 0 {
		c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "Competition not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Competition deactivated"})
}
