package utils

import "testing"

func TestValidateEmail(t *testing.T) {
	valid := []string{"asha@example.com", "coach.singh+itu@club.org.in"}
	for _, email := range valid {
		if !ValidateEmail(email) {
			t.Errorf("expected %q to be valid", email)
		}
	}

	invalid := []string{"", "no-at-sign", "a@b", "a b@example.com", "@example.com"}
	for _, email := range invalid {
		if ValidateEmail(email) {
			t.Errorf("expected %q to be invalid", email)
		}
	}
}

func TestValidatePassword(t *testing.T) {
	if ok, _ := ValidatePassword("short"); ok {
		t.Errorf("short password should fail")
	}
	if ok, msg := ValidatePassword("longenough"); !ok {
		t.Errorf("unexpected rejection: %s", msg)
	}
}

func TestSanitizeInput(t *testing.T) {
	if got := SanitizeInput("  hello\x00world  "); got != "helloworld" {
		t.Errorf("unexpected sanitization: %q", got)
	}
}

func TestValidateBeltRank(t *testing.T) {
	for _, belt := range []string{"white", "  Yellow ", "BLACK-1"} {
		if !ValidateBeltRank(belt) {
			t.Errorf("expected %q to be a known belt", belt)
		}
	}
	for _, belt := range []string{"", "purple", "black-6"} {
		if ValidateBeltRank(belt) {
			t.Errorf("expected %q to be unknown", belt)
		}
	}
}

func TestBeltRankIndexOrdersProgression(t *testing.T) {
	if BeltRankIndex("white") != 0 {
		t.Errorf("white should be first")
	}
	if BeltRankIndex("green") >= BeltRankIndex("blue") {
		t.Errorf("green must precede blue")
	}
	if BeltRankIndex("black-5") != 9 {
		t.Errorf("black-5 should be last")
	}
	if BeltRankIndex("purple") != -1 {
		t.Errorf("unknown belt should be -1")
	}
}
