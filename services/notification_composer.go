package services

import (
	"fmt"
	"strings"

	"taekwondo-union-api/models"
	"taekwondo-union-api/utils"
)

// ComposedMessage is the subject/body pair handed to the mailer.
type ComposedMessage struct {
	Subject string
	HTML    string
}

const fallbackApplicantName = "Member"

func submissionKindLabel(submissionType string) string {
	switch submissionType {
	case models.SubmissionTypeMembershipForm:
		return "membership application"
	case models.SubmissionTypeBeltTest:
		return "belt promotion test submission"
	case models.SubmissionTypeCompetitionRegistration:
		return "competition registration"
	default:
		return "submission"
	}
}

func applicantOrFallback(sub *models.Submission) string {
	if sub == nil {
		return fallbackApplicantName
	}
	if name := sub.ApplicantName(); name != "" {
		return name
	}
	return fallbackApplicantName
}

func referenceOrFallback(sub *models.Submission) string {
	if sub == nil {
		return "-"
	}
	if number := strings.TrimSpace(sub.SubmissionNumber); number != "" {
		return number
	}
	if sub.SubmissionID != 0 {
		return fmt.Sprintf("%d", sub.SubmissionID)
	}
	return "-"
}

// ComposeSubmissionApproved builds the approval email. When a membership
// credential was issued alongside the approval, the cleartext password is
// included once; this is the only place it ever appears.
func ComposeSubmissionApproved(sub *models.Submission, issuedPassword string) ComposedMessage {
	kind := "submission"
	if sub != nil {
		kind = submissionKindLabel(sub.SubmissionType)
	}
	name := applicantOrFallback(sub)

	subject := fmt.Sprintf("Your %s has been approved", kind)
	paragraphs := []string{
		fmt.Sprintf("Dear %s,", name),
		fmt.Sprintf("The Indian Taekwondo Union has reviewed and approved your %s.", kind),
	}

	meta := []utils.EmailMetaItem{
		{Label: "Reference number", Value: referenceOrFallback(sub)},
		{Label: "Status", Value: "Approved"},
	}

	if sub != nil && sub.ReviewedAt != nil {
		meta = append(meta, utils.EmailMetaItem{Label: "Reviewed on", Value: sub.ReviewedAt.Format("02 Jan 2006")})
	}

	if password := strings.TrimSpace(issuedPassword); password != "" {
		subject = fmt.Sprintf("Your %s has been approved - access credentials enclosed", kind)
		paragraphs = append(paragraphs,
			"A member account has been created for you. Use the credentials below to sign in, and change the password after your first login.")
		meta = append(meta, utils.EmailMetaItem{Label: "Access password", Value: password})
		if sub != nil {
			if email := sub.RecipientEmail(); email != "" {
				meta = append(meta, utils.EmailMetaItem{Label: "Login email", Value: email})
			}
		}
	}

	footer := "This is an automated message from the Indian Taekwondo Union. Please do not reply to this email."
	html := utils.BuildEmailTemplate(subject, paragraphs, meta, "", "", footer)
	return ComposedMessage{Subject: subject, HTML: html}
}

// ComposeSubmissionRejected builds the rejection email, always naming the
// reason recorded by the reviewing admin.
func ComposeSubmissionRejected(sub *models.Submission, reason string) ComposedMessage {
	kind := "submission"
	if sub != nil {
		kind = submissionKindLabel(sub.SubmissionType)
	}
	name := applicantOrFallback(sub)

	reason = strings.TrimSpace(reason)
	if reason == "" {
		reason = "Not specified"
	}

	subject := fmt.Sprintf("Your %s was not approved", kind)
	paragraphs := []string{
		fmt.Sprintf("Dear %s,", name),
		fmt.Sprintf("After review, the Indian Taekwondo Union was unable to approve your %s.", kind),
		"You may submit a new application once the issue below has been addressed.",
	}

	meta := []utils.EmailMetaItem{
		{Label: "Reference number", Value: referenceOrFallback(sub)},
		{Label: "Status", Value: "Rejected"},
		{Label: "Reason", Value: reason},
	}

	footer := "If you believe this decision was made in error, contact your state unit secretary."
	html := utils.BuildEmailTemplate(subject, paragraphs, meta, "", "", footer)
	return ComposedMessage{Subject: subject, HTML: html}
}

// ComposeCredentialsIssued builds the standalone credentials email used when
// an admin re-issues an access password outside the approval flow.
func ComposeCredentialsIssued(name, email, password string) ComposedMessage {
	name = strings.TrimSpace(name)
	if name == "" {
		name = fallbackApplicantName
	}

	subject := "Your Indian Taekwondo Union access credentials"
	paragraphs := []string{
		fmt.Sprintf("Dear %s,", name),
		"New access credentials have been issued for your member account. Change the password after your first login.",
	}

	meta := []utils.EmailMetaItem{
		{Label: "Login email", Value: email},
		{Label: "Access password", Value: password},
	}

	footer := "This is an automated message from the Indian Taekwondo Union. Please do not reply to this email."
	html := utils.BuildEmailTemplate(subject, paragraphs, meta, "", "", footer)
	return ComposedMessage{Subject: subject, HTML: html}
}
