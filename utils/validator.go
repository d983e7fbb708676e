// utils/validator.go - Input validation
package utils

import (
	"regexp"
	"strings"
)

// ValidateEmail checks if email is valid
func ValidateEmail(email string) bool {
	emailRegex := regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)
	return emailRegex.MatchString(email)
}

// ValidatePassword checks password strength
func ValidatePassword(password string) (bool, string) {
	if len(password) < 8 {
		return false, "Password must be at least 8 characters"
	}

	return true, ""
}

// SanitizeInput removes potentially harmful characters
func SanitizeInput(input string) string {
	// Remove leading/trailing spaces
	input = strings.TrimSpace(input)

	// Remove null bytes
	input = strings.ReplaceAll(input, "\x00", "")

	return input
}

var beltRanks = []string{
	"white", "yellow", "green", "blue", "red",
	"black-1", "black-2", "black-3", "black-4", "black-5",
}

// ValidateBeltRank checks that a belt name is one the union recognizes.
func ValidateBeltRank(belt string) bool {
	belt = strings.ToLower(strings.TrimSpace(belt))
	for _, rank := range beltRanks {
		if belt == rank {
			return true
		}
	}
	return false
}

// BeltRankIndex returns the ordering index of a belt, or -1 if unknown.
func BeltRankIndex(belt string) int {
	belt = strings.ToLower(strings.TrimSpace(belt))
	for i, rank := range beltRanks {
		if belt == rank {
			return i
		}
	}
	return -1
}
