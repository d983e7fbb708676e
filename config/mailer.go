package config

import (
	"crypto/tls"
	"fmt"
	"log"
	"os"
	"regexp"
	"strconv"
	"strings"
	"sync"
	"time"

	mail "github.com/go-mail/mail/v2"
	"github.com/google/uuid"
)

// ErrMailerNotConfigured is returned when SMTP credentials are absent. The
// process keeps running; callers receive a deterministic failed MailResult.
var ErrMailerNotConfigured = fmt.Errorf("smtp not configured (SMTP_HOST/SMTP_FROM)")

// MailResult reports the outcome of a single send attempt. Send never panics
// and never returns a bare error; provider failures are data on the result.
type MailResult struct {
	Success   bool   `json:"success"`
	MessageID string `json:"message_id,omitempty"`
	Err       error  `json:"-"`
}

type mailerSettings struct {
	host          string
	port          int
	user          string
	pass          string
	from          string // e.g. "no-reply@itu.org" or "Taekwondo Union <no-reply@itu.org>"
	fromName      string
	timeout       time.Duration
	skipTLSVerify bool
}

var (
	mailerOnce sync.Once
	mailer     mailerSettings
)

// loadMailerSettings reads SMTP configuration once, on first use.
func loadMailerSettings() mailerSettings {
	mailerOnce.Do(func() {
		port, _ := strconv.Atoi(os.Getenv("SMTP_PORT"))
		if port == 0 {
			port = 587
		}
		timeoutSec, _ := strconv.Atoi(os.Getenv("SMTP_TIMEOUT_SECONDS"))
		if timeoutSec <= 0 {
			timeoutSec = 15
		}
		mailer = mailerSettings{
			host:          os.Getenv("SMTP_HOST"),
			port:          port,
			user:          os.Getenv("SMTP_USER"),
			pass:          os.Getenv("SMTP_PASS"),
			from:          os.Getenv("SMTP_FROM"),
			fromName:      os.Getenv("SMTP_FROM_NAME"),
			timeout:       time.Duration(timeoutSec) * time.Second,
			skipTLSVerify: os.Getenv("SMTP_SKIP_TLS_VERIFY") == "1",
		}
		if mailer.host == "" || mailer.from == "" {
			log.Printf("[Mailer] smtp not configured; outbound email disabled")
		} else {
			log.Printf("[Mailer] configured host=%s port=%d from=%q timeout=%s", mailer.host, mailer.port, mailer.from, mailer.timeout)
		}
	})
	return mailer
}

// ResolveFromAddress returns the header-ready From value. A caller-supplied
// value already in "Display Name <address>" form is passed through untouched;
// otherwise the configured display name and address are composed.
func ResolveFromAddress(override string) string {
	settings := loadMailerSettings()

	candidate := strings.TrimSpace(override)
	if candidate != "" && strings.Contains(candidate, "<") {
		return candidate
	}
	if candidate == "" {
		candidate = strings.TrimSpace(settings.from)
	}
	if candidate == "" {
		return ""
	}
	if strings.Contains(candidate, "<") || settings.fromName == "" {
		return candidate
	}
	return fmt.Sprintf("%s <%s>", settings.fromName, candidate)
}

// NormalizeRecipients drops empty entries and trims whitespace so a single
// address and an address list are handled the same way.
func NormalizeRecipients(to []string) []string {
	out := make([]string, 0, len(to))
	for _, addr := range to {
		addr = strings.TrimSpace(addr)
		if addr == "" {
			continue
		}
		out = append(out, addr)
	}
	return out
}

var (
	htmlTagPattern   = regexp.MustCompile(`(?s)<(script|style)[^>]*>.*?</(script|style)>|<[^>]+>`)
	htmlBreakPattern = regexp.MustCompile(`(?i)<br\s*/?>|</p>|</tr>|</div>`)
	blankLinePattern = regexp.MustCompile(`\n{3,}`)
)

// PlainTextFromHTML strips markup to produce the text/plain alternative when
// the caller does not supply one.
func PlainTextFromHTML(html string) string {
	text := htmlBreakPattern.ReplaceAllString(html, "\n")
	text = htmlTagPattern.ReplaceAllString(text, "")
	text = strings.NewReplacer("&amp;", "&", "&lt;", "<", "&gt;", ">", "&quot;", `"`, "&#39;", "'", "&nbsp;", " ").Replace(text)
	lines := strings.Split(text, "\n")
	for i := range lines {
		lines[i] = strings.TrimSpace(lines[i])
	}
	text = blankLinePattern.ReplaceAllString(strings.Join(lines, "\n"), "\n\n")
	return strings.TrimSpace(text)
}

// SendMail delivers one message using the configured default sender.
func SendMail(to []string, subject, html, text string) MailResult {
	return SendMailFrom("", to, subject, html, text)
}

// SendMailFrom delivers one message, optionally overriding the From header.
// All provider errors (missing configuration, rejection, network failure,
// timeout) come back as a failed MailResult, never as a panic or raw error.
func SendMailFrom(from string, to []string, subject, html, text string) MailResult {
	settings := loadMailerSettings()

	recipients := NormalizeRecipients(to)
	if len(recipients) == 0 {
		log.Printf("[Mailer] skipped send subject=%q: no recipients", subject)
		return MailResult{Success: true}
	}
	if settings.host == "" || settings.from == "" {
		log.Printf("[Mailer] send failed subject=%q to=%v: not configured", subject, recipients)
		return MailResult{Err: ErrMailerNotConfigured}
	}

	if strings.TrimSpace(text) == "" {
		text = PlainTextFromHTML(html)
	}

	messageID := fmt.Sprintf("<%s@%s>", uuid.NewString(), settings.host)

	m := mail.NewMessage()
	m.SetHeader("From", ResolveFromAddress(from))
	m.SetHeader("To", recipients...)
	m.SetHeader("Subject", subject)
	m.SetHeader("Message-ID", messageID)
	m.SetBody("text/plain", text)
	m.AddAlternative("text/html", html)

	d := mail.NewDialer(settings.host, settings.port, settings.user, settings.pass)
	d.Timeout = settings.timeout

	// Force STARTTLS on port 587 (Gmail/Office365 style relays).
	d.StartTLSPolicy = mail.MandatoryStartTLS
	d.TLSConfig = &tls.Config{
		ServerName:         settings.host,
		InsecureSkipVerify: settings.skipTLSVerify, // dev only: set SMTP_SKIP_TLS_VERIFY=1
	}

	log.Printf("[Mailer] sending subject=%q to=%v", subject, recipients)
	if err := d.DialAndSend(m); err != nil {
		log.Printf("[Mailer] send failed subject=%q to=%v: %v", subject, recipients, err)
		return MailResult{Err: err}
	}

	log.Printf("[Mailer] sent subject=%q to=%v message_id=%s", subject, recipients, messageID)
	return MailResult{Success: true, MessageID: messageID}
}
