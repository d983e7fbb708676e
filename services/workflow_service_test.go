package services

import (
	"database/sql/driver"
	"errors"
	"regexp"
	"strings"
	"testing"

	"taekwondo-union-api/config"
	"taekwondo-union-api/models"
	"taekwondo-union-api/utils"
)

var (
	submissionByIDPattern  = regexp.MustCompile("SELECT \\* FROM `submissions` WHERE submission_id = \\? AND delete_at IS NULL")
	userByIDPattern        = regexp.MustCompile("SELECT \\* FROM `users` WHERE user_id = \\?")
	membershipDetailByID   = regexp.MustCompile("SELECT \\* FROM `membership_form_details` WHERE submission_id = \\?")
	conditionalUpdateQuery = regexp.MustCompile("UPDATE `submissions` SET .* WHERE submission_id = \\? AND status_id = \\?")
	statusReloadPattern    = regexp.MustCompile("SELECT `status_id` FROM `submissions` WHERE submission_id = \\?")
	userCredentialUpdate   = regexp.MustCompile("UPDATE `users` SET .* WHERE user_id = \\?")
	notificationUpdate     = regexp.MustCompile("UPDATE `submissions` SET .*notification_sent.* WHERE submission_id = \\?")
)

func primeWorkflowStatuses(t *testing.T) {
	t.Helper()
	utils.ResetReviewStatusCache()
	utils.PrimeReviewStatusCache(
		models.ReviewStatus{ReviewStatusID: 1, StatusCode: "pending", StatusName: "Pending Review"},
		models.ReviewStatus{ReviewStatusID: 2, StatusCode: "approved", StatusName: "Approved"},
		models.ReviewStatus{ReviewStatusID: 3, StatusCode: "rejected", StatusName: "Rejected"},
	)
	t.Cleanup(utils.ResetReviewStatusCache)
}

type mailCall struct {
	to      []string
	subject string
	html    string
}

func stubSendMail(t *testing.T, result config.MailResult) *[]mailCall {
	t.Helper()
	calls := &[]mailCall{}
	prev := sendMail
	sendMail = func(to []string, subject, html, text string) config.MailResult {
		*calls = append(*calls, mailCall{to: to, subject: subject, html: html})
		return result
	}
	t.Cleanup(func() { sendMail = prev })
	return calls
}

func pendingSubmissionRow(id int64, subType string, userID int64, contactEmail string) *queryStep {
	return &queryStep{
		kind:    kindQuery,
		pattern: submissionByIDPattern,
		columns: []string{"submission_id", "submission_number", "submission_type", "user_id", "status_id", "contact_email"},
		rows: [][]driver.Value{
			{id, "ITU-BT-2026-3F2A9C1B", subType, userID, int64(1), contactEmail},
		},
	}
}

func TestApproveSubmissionTransitionsPendingBeltTest(t *testing.T) {
	primeWorkflowStatuses(t)
	calls := stubSendMail(t, config.MailResult{Success: true, MessageID: "mid-1"})

	steps := []*queryStep{
		pendingSubmissionRow(10, models.SubmissionTypeBeltTest, 7, "coach@example.com"),
		{
			kind:    kindQuery,
			pattern: userByIDPattern,
			columns: []string{"user_id", "email", "user_fname", "user_lname"},
			rows:    [][]driver.Value{{int64(7), "owner@example.com", "Ravi", "Kumar"}},
		},
		{
			kind:    kindExec,
			pattern: conditionalUpdateQuery,
			result:  scriptedResult{rowsAffected: 1},
		},
		{
			kind:    kindExec,
			pattern: notificationUpdate,
			result:  scriptedResult{rowsAffected: 1},
		},
	}

	db, state, cleanup := newScriptedGormDB(t, steps)
	defer cleanup()

	res, err := ApproveSubmission(db, 10, ApproveOptions{ReviewerID: 3})
	if err != nil {
		t.Fatalf("ApproveSubmission returned error: %v", err)
	}

	if res.Submission.StatusID != 2 {
		t.Fatalf("expected status 2, got %d", res.Submission.StatusID)
	}
	if res.Submission.ReviewedBy == nil || *res.Submission.ReviewedBy != 3 {
		t.Fatalf("expected reviewer 3, got %v", res.Submission.ReviewedBy)
	}
	if !res.Notification.Sent || res.Notification.SentAt == nil {
		t.Fatalf("expected sent notification, got %+v", res.Notification)
	}
	if res.IssuedPassword != "" {
		t.Fatalf("belt test approval must not issue credentials, got %q", res.IssuedPassword)
	}

	if len(*calls) != 1 {
		t.Fatalf("expected 1 mail call, got %d", len(*calls))
	}
	call := (*calls)[0]
	if len(call.to) != 1 || call.to[0] != "coach@example.com" {
		t.Fatalf("expected contact email recipient, got %v", call.to)
	}
	if !strings.Contains(call.subject, "approved") {
		t.Fatalf("unexpected subject: %q", call.subject)
	}

	if err := state.verifyComplete(); err != nil {
		t.Fatalf("%v", err)
	}
}

func TestApproveSubmissionConflictReportsWinnerStatus(t *testing.T) {
	primeWorkflowStatuses(t)
	calls := stubSendMail(t, config.MailResult{Success: true})

	steps := []*queryStep{
		pendingSubmissionRow(10, models.SubmissionTypeBeltTest, 7, "coach@example.com"),
		{
			kind:    kindQuery,
			pattern: userByIDPattern,
			columns: []string{"user_id", "email"},
			rows:    [][]driver.Value{{int64(7), "owner@example.com"}},
		},
		{
			kind:    kindExec,
			pattern: conditionalUpdateQuery,
			result:  scriptedResult{rowsAffected: 0},
		},
		{
			kind:    kindQuery,
			pattern: statusReloadPattern,
			columns: []string{"status_id"},
			rows:    [][]driver.Value{{int64(3)}},
		},
	}

	db, state, cleanup := newScriptedGormDB(t, steps)
	defer cleanup()

	_, err := ApproveSubmission(db, 10, ApproveOptions{})
	var transitionErr *InvalidTransitionError
	if !errors.As(err, &transitionErr) {
		t.Fatalf("expected InvalidTransitionError, got %v", err)
	}
	if transitionErr.CurrentStatus != utils.StatusCodeRejected {
		t.Fatalf("expected rejected, got %q", transitionErr.CurrentStatus)
	}

	if len(*calls) != 0 {
		t.Fatalf("no mail should be sent on conflict, got %d calls", len(*calls))
	}
	if err := state.verifyComplete(); err != nil {
		t.Fatalf("%v", err)
	}
}

func TestApproveSubmissionAlreadyApproved(t *testing.T) {
	primeWorkflowStatuses(t)
	stubSendMail(t, config.MailResult{Success: true})

	steps := []*queryStep{
		{
			kind:    kindQuery,
			pattern: submissionByIDPattern,
			columns: []string{"submission_id", "submission_type", "user_id", "status_id"},
			rows:    [][]driver.Value{{int64(10), models.SubmissionTypeBeltTest, int64(7), int64(2)}},
		},
	}

	db, state, cleanup := newScriptedGormDB(t, steps)
	defer cleanup()

	_, err := ApproveSubmission(db, 10, ApproveOptions{})
	var transitionErr *InvalidTransitionError
	if !errors.As(err, &transitionErr) {
		t.Fatalf("expected InvalidTransitionError, got %v", err)
	}
	if transitionErr.CurrentStatus != utils.StatusCodeApproved {
		t.Fatalf("expected approved, got %q", transitionErr.CurrentStatus)
	}

	if err := state.verifyComplete(); err != nil {
		t.Fatalf("%v", err)
	}
}

func TestApproveSubmissionNotFound(t *testing.T) {
	primeWorkflowStatuses(t)

	steps := []*queryStep{
		{
			kind:    kindQuery,
			pattern: submissionByIDPattern,
			columns: []string{"submission_id"},
			rows:    [][]driver.Value{},
		},
	}

	db, state, cleanup := newScriptedGormDB(t, steps)
	defer cleanup()

	_, err := ApproveSubmission(db, 99, ApproveOptions{})
	if !errors.Is(err, ErrSubmissionNotFound) {
		t.Fatalf("expected ErrSubmissionNotFound, got %v", err)
	}

	if err := state.verifyComplete(); err != nil {
		t.Fatalf("%v", err)
	}
}

func TestRejectSubmissionRequiresReason(t *testing.T) {
	primeWorkflowStatuses(t)

	for _, reason := range []string{"", "   ", "\t\n"} {
		_, err := RejectSubmission(nil, 10, reason, 3)
		var validationErr *ValidationError
		if !errors.As(err, &validationErr) {
			t.Fatalf("reason %q: expected ValidationError, got %v", reason, err)
		}
		if validationErr.Field != "reason" {
			t.Fatalf("reason %q: unexpected field %q", reason, validationErr.Field)
		}
	}
}

func TestRejectSubmissionPersistsReason(t *testing.T) {
	primeWorkflowStatuses(t)
	calls := stubSendMail(t, config.MailResult{Success: true})

	steps := []*queryStep{
		pendingSubmissionRow(22, models.SubmissionTypeCompetitionRegistration, 0, "team@example.com"),
		{
			kind:    kindExec,
			pattern: conditionalUpdateQuery,
			result:  scriptedResult{rowsAffected: 1},
		},
		{
			kind:    kindExec,
			pattern: notificationUpdate,
			result:  scriptedResult{rowsAffected: 1},
		},
	}

	db, state, cleanup := newScriptedGormDB(t, steps)
	defer cleanup()

	reason := "Weight category missing for two players"
	res, err := RejectSubmission(db, 22, "  "+reason+"  ", 3)
	if err != nil {
		t.Fatalf("RejectSubmission returned error: %v", err)
	}

	if res.Submission.StatusID != 3 {
		t.Fatalf("expected status 3, got %d", res.Submission.StatusID)
	}
	if res.Submission.RejectionReason == nil || *res.Submission.RejectionReason != reason {
		t.Fatalf("expected trimmed reason %q, got %v", reason, res.Submission.RejectionReason)
	}

	if len(*calls) != 1 {
		t.Fatalf("expected 1 mail call, got %d", len(*calls))
	}
	call := (*calls)[0]
	if !strings.Contains(call.subject, "not approved") {
		t.Fatalf("unexpected subject: %q", call.subject)
	}
	if !strings.Contains(call.html, reason) {
		t.Fatalf("rejection email should carry the reason")
	}

	if err := state.verifyComplete(); err != nil {
		t.Fatalf("%v", err)
	}
}

func TestApproveSubmissionNotificationFailureDoesNotFailTransition(t *testing.T) {
	primeWorkflowStatuses(t)
	stubSendMail(t, config.MailResult{Err: errors.New("smtp connect timeout")})

	steps := []*queryStep{
		pendingSubmissionRow(10, models.SubmissionTypeBeltTest, 0, "coach@example.com"),
		{
			kind:    kindExec,
			pattern: conditionalUpdateQuery,
			result:  scriptedResult{rowsAffected: 1},
		},
		{
			kind:    kindExec,
			pattern: notificationUpdate,
			result:  scriptedResult{rowsAffected: 1},
		},
	}

	db, state, cleanup := newScriptedGormDB(t, steps)
	defer cleanup()

	res, err := ApproveSubmission(db, 10, ApproveOptions{ReviewerID: 3})
	if err != nil {
		t.Fatalf("notification failure must not fail the transition: %v", err)
	}

	if res.Submission.StatusID != 2 {
		t.Fatalf("expected status 2, got %d", res.Submission.StatusID)
	}
	if res.Notification.Sent {
		t.Fatalf("expected unsent notification outcome")
	}
	if res.Notification.Error == nil || !strings.Contains(*res.Notification.Error, "smtp connect timeout") {
		t.Fatalf("expected recorded send error, got %v", res.Notification.Error)
	}

	if err := state.verifyComplete(); err != nil {
		t.Fatalf("%v", err)
	}
}

func TestApproveMembershipFormIssuesCredentials(t *testing.T) {
	primeWorkflowStatuses(t)
	calls := stubSendMail(t, config.MailResult{Success: true})

	steps := []*queryStep{
		{
			kind:    kindQuery,
			pattern: submissionByIDPattern,
			columns: []string{"submission_id", "submission_number", "submission_type", "user_id", "status_id", "contact_email"},
			rows: [][]driver.Value{
				{int64(5), "ITU-MF-2026-AA11BB22", models.SubmissionTypeMembershipForm, int64(7), int64(1), "asha@example.com"},
			},
		},
		{
			kind:    kindQuery,
			pattern: userByIDPattern,
			columns: []string{"user_id", "email", "user_fname", "user_lname"},
			rows:    [][]driver.Value{{int64(7), "asha@example.com", "Asha", "Mehta"}},
		},
		{
			kind:    kindQuery,
			pattern: membershipDetailByID,
			columns: []string{"detail_id", "submission_id", "applicant_name", "state_unit"},
			rows:    [][]driver.Value{{int64(1), int64(5), "Asha Mehta", "Punjab"}},
		},
		{
			kind:    kindExec,
			pattern: conditionalUpdateQuery,
			result:  scriptedResult{rowsAffected: 1},
		},
		{
			kind:    kindExec,
			pattern: userCredentialUpdate,
			result:  scriptedResult{rowsAffected: 1},
		},
		{
			kind:    kindExec,
			pattern: notificationUpdate,
			result:  scriptedResult{rowsAffected: 1},
		},
	}

	db, state, cleanup := newScriptedGormDB(t, steps)
	defer cleanup()

	res, err := ApproveSubmission(db, 5, ApproveOptions{ReviewerID: 3})
	if err != nil {
		t.Fatalf("ApproveSubmission returned error: %v", err)
	}

	if res.IssuedPassword == "" {
		t.Fatalf("membership approval should issue a password")
	}
	if !strings.Contains(res.IssuedPassword, "ITU@") {
		t.Fatalf("unexpected password shape: %q", res.IssuedPassword)
	}
	if res.Submission.User == nil || res.Submission.User.MemberNumber == nil {
		t.Fatalf("expected member number assigned on owner")
	}
	if !res.Submission.User.IsActive {
		t.Fatalf("owner should be activated on approval")
	}

	if len(*calls) != 1 {
		t.Fatalf("expected 1 mail call, got %d", len(*calls))
	}
	call := (*calls)[0]
	if !strings.Contains(call.subject, "access credentials") {
		t.Fatalf("unexpected subject: %q", call.subject)
	}
	if !strings.Contains(call.html, res.IssuedPassword) {
		t.Fatalf("credentials email should carry the issued password")
	}

	if err := state.verifyComplete(); err != nil {
		t.Fatalf("%v", err)
	}
}
