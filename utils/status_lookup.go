package utils

import (
	"fmt"
	"strings"
	"sync"

	"taekwondo-union-api/config"
	"taekwondo-union-api/models"

	"gorm.io/gorm"
)

const (
	// Canonical status codes mirror review_statuses.status_code.
	StatusCodePending  = "pending"
	StatusCodeApproved = "approved"
	StatusCodeRejected = "rejected"
)

var statusCodeSynonyms = map[string][]string{
	StatusCodePending: {
		"pending",
		"awaiting_review",
		"0",
	},
	StatusCodeApproved: {
		"approved",
		"1",
	},
	StatusCodeRejected: {
		"rejected",
		"declined",
		"2",
	},
}

var statusAliasToCanonical = buildStatusAliasMap()

func buildStatusAliasMap() map[string]string {
	aliasMap := make(map[string]string)
	for canonical, synonyms := range statusCodeSynonyms {
		aliasMap[normalizeStatusCode(canonical)] = canonical
		for _, alias := range synonyms {
			if normalized := normalizeStatusCode(alias); normalized != "" {
				aliasMap[normalized] = canonical
			}
		}
	}
	return aliasMap
}

func normalizeStatusCode(code string) string {
	return strings.ToLower(strings.TrimSpace(code))
}

// CanonicalStatusCode maps any recognized alias onto its canonical code.
func CanonicalStatusCode(code string) string {
	normalized := normalizeStatusCode(code)
	if canonical, ok := statusAliasToCanonical[normalized]; ok {
		return canonical
	}
	return normalized
}

// IsTerminalStatusCode reports whether a code names a terminal review state.
func IsTerminalStatusCode(code string) bool {
	switch CanonicalStatusCode(code) {
	case StatusCodeApproved, StatusCodeRejected:
		return true
	default:
		return false
	}
}

type statusCache struct {
	sync.RWMutex
	byCode map[string]models.ReviewStatus
	byID   map[int]models.ReviewStatus
}

var reviewStatusCache = statusCache{
	byCode: make(map[string]models.ReviewStatus),
	byID:   make(map[int]models.ReviewStatus),
}

func cacheStatus(status models.ReviewStatus) {
	reviewStatusCache.Lock()
	defer reviewStatusCache.Unlock()

	if status.ReviewStatusID != 0 {
		reviewStatusCache.byID[status.ReviewStatusID] = status
	}
	canonical := CanonicalStatusCode(status.StatusCode)
	if canonical != "" {
		reviewStatusCache.byCode[canonical] = status
	}
	for _, alias := range statusCodeSynonyms[canonical] {
		reviewStatusCache.byCode[normalizeStatusCode(alias)] = status
	}
}

// PrimeReviewStatusCache seeds the lookup cache without touching the
// database. Called at boot with the seeded rows and by tests.
func PrimeReviewStatusCache(statuses ...models.ReviewStatus) {
	for _, status := range statuses {
		cacheStatus(status)
	}
}

// WarmReviewStatusCache loads every active review status into the cache.
// Called once at boot after the database is up.
func WarmReviewStatusCache() error {
	var statuses []models.ReviewStatus
	if err := config.DB.Where("delete_at IS NULL").Find(&statuses).Error; err != nil {
		return err
	}
	PrimeReviewStatusCache(statuses...)
	return nil
}

// ResetReviewStatusCache clears the cache. Test hook.
func ResetReviewStatusCache() {
	reviewStatusCache.Lock()
	defer reviewStatusCache.Unlock()
	reviewStatusCache.byCode = make(map[string]models.ReviewStatus)
	reviewStatusCache.byID = make(map[int]models.ReviewStatus)
}

func getCachedStatusByCode(code string) (models.ReviewStatus, bool) {
	key := normalizeStatusCode(code)
	if key == "" {
		return models.ReviewStatus{}, false
	}

	reviewStatusCache.RLock()
	defer reviewStatusCache.RUnlock()

	status, ok := reviewStatusCache.byCode[key]
	return status, ok && status.ReviewStatusID != 0
}

func getCachedStatusByID(id int) (models.ReviewStatus, bool) {
	reviewStatusCache.RLock()
	defer reviewStatusCache.RUnlock()

	status, ok := reviewStatusCache.byID[id]
	return status, ok && status.ReviewStatusID != 0
}

func GetReviewStatusByCode(code string) (models.ReviewStatus, error) {
	canonical := CanonicalStatusCode(code)
	if status, ok := getCachedStatusByCode(canonical); ok {
		return status, nil
	}

	var status models.ReviewStatus
	err := config.DB.Where("status_code = ? AND delete_at IS NULL", canonical).First(&status).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return models.ReviewStatus{}, fmt.Errorf("review status with code %s not found", code)
		}
		return models.ReviewStatus{}, err
	}

	cacheStatus(status)
	return status, nil
}

func GetReviewStatusByID(id int) (models.ReviewStatus, error) {
	if status, ok := getCachedStatusByID(id); ok {
		return status, nil
	}

	var status models.ReviewStatus
	err := config.DB.Where("review_status_id = ? AND delete_at IS NULL", id).First(&status).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return models.ReviewStatus{}, fmt.Errorf("review status with id %d not found", id)
		}
		return models.ReviewStatus{}, err
	}

	cacheStatus(status)
	return status, nil
}

func GetStatusIDByCode(code string) (int, error) {
	status, err := GetReviewStatusByCode(code)
	if err != nil {
		return 0, err
	}
	return status.ReviewStatusID, nil
}

// StatusMatchesCodes reports whether a status id resolves to any of the
// provided codes.
func StatusMatchesCodes(statusID int, codes ...string) (bool, error) {
	status, err := GetReviewStatusByID(statusID)
	if err != nil {
		return false, err
	}
	statusKey := CanonicalStatusCode(status.StatusCode)

	for _, code := range codes {
		if statusKey == CanonicalStatusCode(code) {
			return true, nil
		}
	}
	return false, nil
}
