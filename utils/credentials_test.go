package utils

import (
	"strings"
	"testing"
	"time"
)

func TestGenerateMemberPasswordShape(t *testing.T) {
	password := GenerateMemberPassword("Punjab")
	if !strings.HasPrefix(password, "punjabITU@") {
		t.Fatalf("unexpected prefix: %q", password)
	}
	suffix := strings.TrimPrefix(password, "punjabITU@")
	if len(suffix) != 6 {
		t.Fatalf("expected 6 digit suffix, got %q", suffix)
	}
	for _, r := range suffix {
		if r < '0' || r > '9' {
			t.Fatalf("non-digit in suffix: %q", suffix)
		}
	}
}

func TestGenerateMemberPasswordFallsBackForEmptyUnit(t *testing.T) {
	password := GenerateMemberPassword("   ")
	if !strings.HasPrefix(password, "memberITU@") {
		t.Fatalf("unexpected fallback prefix: %q", password)
	}
}

func TestGenerateMemberPasswordTruncatesLongUnits(t *testing.T) {
	password := GenerateMemberPassword("Andaman and Nicobar Islands")
	slug := strings.SplitN(password, "ITU@", 2)[0]
	if len(slug) > 12 {
		t.Fatalf("slug too long: %q", slug)
	}
	if strings.Contains(slug, " ") {
		t.Fatalf("slug should have no spaces: %q", slug)
	}
}

func TestGenerateResetTokenIsOpaqueAndUnique(t *testing.T) {
	a, err := GenerateResetToken()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	b, err := GenerateResetToken()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if a == b {
		t.Fatalf("tokens must be unique")
	}
	if strings.Contains(a, "-") {
		t.Fatalf("token should be bare hex: %q", a)
	}
	if len(a) != 64 {
		t.Fatalf("expected 64 chars, got %d", len(a))
	}
}

func TestGenerateSubmissionNumber(t *testing.T) {
	now := time.Date(2026, 8, 31, 12, 0, 0, 0, time.UTC)

	cases := map[string]string{
		"membership_form":          "ITU-MF-2026-",
		"belt_test":                "ITU-BT-2026-",
		"competition_registration": "ITU-CR-2026-",
		"unknown":                  "ITU-SB-2026-",
	}
	for subType, prefix := range cases {
		number := GenerateSubmissionNumber(subType, now)
		if !strings.HasPrefix(number, prefix) {
			t.Errorf("type %s: unexpected number %q", subType, number)
		}
		if len(number) != len(prefix)+8 {
			t.Errorf("type %s: unexpected suffix length in %q", subType, number)
		}
	}
}

func TestHashAndCheckPassword(t *testing.T) {
	hash, err := HashPassword("punjabITU@540720")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if hash == "punjabITU@540720" {
		t.Fatalf("hash must not equal cleartext")
	}
	if !CheckPasswordHash("punjabITU@540720", hash) {
		t.Fatalf("matching password should verify")
	}
	if CheckPasswordHash("wrong", hash) {
		t.Fatalf("wrong password should not verify")
	}
}
