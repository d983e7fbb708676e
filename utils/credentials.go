package utils

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// HashPassword hashes password using bcrypt
func HashPassword(password string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	return string(bytes), err
}

// CheckPasswordHash compares password with hash
func CheckPasswordHash(password, hash string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
	return err == nil
}

// GenerateMemberPassword builds the access password issued when a membership
// form is approved, e.g. "punjabITU@540720". The cleartext is emailed once;
// only the bcrypt hash is stored.
func GenerateMemberPassword(stateUnit string) string {
	slug := strings.ToLower(strings.TrimSpace(stateUnit))
	slug = strings.ReplaceAll(slug, " ", "")
	if slug == "" {
		slug = "member"
	}
	if len(slug) > 12 {
		slug = slug[:12]
	}

	n, err := rand.Int(rand.Reader, big.NewInt(1_000_000))
	if err != nil {
		// crypto/rand failing is effectively fatal elsewhere; fall back to a
		// time-derived value so issuance still completes.
		n = big.NewInt(time.Now().UnixNano() % 1_000_000)
	}
	return fmt.Sprintf("%sITU@%06d", slug, n.Int64())
}

// GenerateResetToken returns an opaque one-time token for password reset
// links. The raw value goes into the email; the store keeps a bcrypt hash.
func GenerateResetToken() (string, error) {
	return strings.ReplaceAll(uuid.NewString()+uuid.NewString(), "-", ""), nil
}

// GenerateSubmissionNumber builds a human-readable reference for a new
// submission, e.g. "ITU-MF-2026-3F2A9C1B".
func GenerateSubmissionNumber(submissionType string, now time.Time) string {
	prefix := "SB"
	switch submissionType {
	case "membership_form":
		prefix = "MF"
	case "belt_test":
		prefix = "BT"
	case "competition_registration":
		prefix = "CR"
	}
	suffix := strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:8])
	return fmt.Sprintf("ITU-%s-%d-%s", prefix, now.Year(), suffix)
}

// GenerateMemberNumber builds the union member number assigned on approval.
func GenerateMemberNumber(now time.Time) string {
	suffix := strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:6])
	return fmt.Sprintf("ITU%d%s", now.Year(), suffix)
}
