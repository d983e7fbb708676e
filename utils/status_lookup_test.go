package utils

import (
	"testing"

	"taekwondo-union-api/models"
)

func primeTestStatuses(t *testing.T) {
	t.Helper()
	ResetReviewStatusCache()
	PrimeReviewStatusCache(
		models.ReviewStatus{ReviewStatusID: 1, StatusCode: "pending", StatusName: "Pending Review"},
		models.ReviewStatus{ReviewStatusID: 2, StatusCode: "approved", StatusName: "Approved"},
		models.ReviewStatus{ReviewStatusID: 3, StatusCode: "rejected", StatusName: "Rejected"},
	)
	t.Cleanup(ResetReviewStatusCache)
}

func TestCanonicalStatusCode(t *testing.T) {
	cases := map[string]string{
		"pending":         "pending",
		"Pending":         "pending",
		" awaiting_review": "pending",
		"0":               "pending",
		"approved":        "approved",
		"1":               "approved",
		"REJECTED":        "rejected",
		"declined":        "rejected",
		"2":               "rejected",
		"something-else":  "something-else",
	}
	for input, want := range cases {
		if got := CanonicalStatusCode(input); got != want {
			t.Errorf("CanonicalStatusCode(%q) = %q, want %q", input, got, want)
		}
	}
}

func TestIsTerminalStatusCode(t *testing.T) {
	if IsTerminalStatusCode("pending") {
		t.Errorf("pending is not terminal")
	}
	if !IsTerminalStatusCode("approved") || !IsTerminalStatusCode("declined") {
		t.Errorf("approved and declined are terminal")
	}
}

func TestGetReviewStatusByCodeUsesCache(t *testing.T) {
	primeTestStatuses(t)

	status, err := GetReviewStatusByCode("awaiting_review")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if status.ReviewStatusID != 1 {
		t.Fatalf("expected pending id 1, got %d", status.ReviewStatusID)
	}

	status, err = GetReviewStatusByCode("DECLINED")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if status.ReviewStatusID != 3 {
		t.Fatalf("expected rejected id 3, got %d", status.ReviewStatusID)
	}
}

func TestGetReviewStatusByID(t *testing.T) {
	primeTestStatuses(t)

	status, err := GetReviewStatusByID(2)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if status.StatusCode != "approved" {
		t.Fatalf("expected approved, got %q", status.StatusCode)
	}
}

func TestStatusMatchesCodes(t *testing.T) {
	primeTestStatuses(t)

	match, err := StatusMatchesCodes(3, "approved", "rejected")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !match {
		t.Fatalf("rejected should match terminal set")
	}

	match, err = StatusMatchesCodes(1, "approved", "rejected")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if match {
		t.Fatalf("pending should not match terminal set")
	}
}
