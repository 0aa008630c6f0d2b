// Package mail sends transactional email over SMTP. Every send is
// fire-and-forget from the caller's perspective: a failure is logged and
// reported, but never rolls back the mutation that triggered it.
package mail

import (
	"fmt"

	"github.com/rs/zerolog/log"
	gomail "gopkg.in/gomail.v2"

	"hackhub/internal/config"
)

// Mailer defines the transactional email operations the services depend on.
type Mailer interface {
	SendVerificationEmail(to, name, token string) error
	SendPasswordResetEmail(to, name, token string) error
	SendTeamInviteEmail(to, teamName, inviterName, eventTitle string) error
	SendContactEmail(fromName, fromEmail, message string) error
}

type smtpMailer struct {
	dialer      *gomail.Dialer
	from        string
	contactTo   string
	frontendURL string
}

// NewSMTPMailer builds a gomail-backed mailer from config.
func NewSMTPMailer(cfg *config.Config) Mailer {
	return &smtpMailer{
		dialer:      gomail.NewDialer(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUser, cfg.SMTPPassword),
		from:        cfg.MailFrom,
		contactTo:   cfg.ContactEmail,
		frontendURL: cfg.FrontendURL,
	}
}

func (m *smtpMailer) send(to, subject, htmlBody string) error {
	msg := gomail.NewMessage()
	msg.SetHeader("From", m.from)
	msg.SetHeader("To", to)
	msg.SetHeader("Subject", subject)
	msg.SetBody("text/html", htmlBody)

	if err := m.dialer.DialAndSend(msg); err != nil {
		log.Error().Err(err).Str("to", to).Str("subject", subject).Msg("mail: send failed")
		return fmt.Errorf("send mail: %w", err)
	}
	return nil
}

func (m *smtpMailer) SendVerificationEmail(to, name, token string) error {
	url := fmt.Sprintf("%s/verify-email/%s", m.frontendURL, token)
	body := fmt.Sprintf(`<h2>Hi %s,</h2>
<p>Thank you for signing up! Please verify your email address to get started.</p>
<p><a href="%s">Verify Email</a></p>
<p>This link will expire in 24 hours. If you didn't create an account, please ignore this email.</p>`,
		name, url)
	return m.send(to, "Verify Your Email - HackHub", body)
}

func (m *smtpMailer) SendPasswordResetEmail(to, name, token string) error {
	url := fmt.Sprintf("%s/reset-password/%s", m.frontendURL, token)
	body := fmt.Sprintf(`<h2>Hi %s,</h2>
<p>You requested a password reset. Click the link below to choose a new password:</p>
<p><a href="%s">Reset Password</a></p>
<p>This link will expire in one hour. If you didn't request a reset, please ignore this email.</p>`,
		name, url)
	return m.send(to, "Reset Your Password - HackHub", body)
}

func (m *smtpMailer) SendTeamInviteEmail(to, teamName, inviterName, eventTitle string) error {
	body := fmt.Sprintf(`<h2>Team Invitation</h2>
<p>%s invited you to join team <strong>%s</strong> for <strong>%s</strong>.</p>
<p>Log in to accept the invitation.</p>`,
		inviterName, teamName, eventTitle)
	return m.send(to, fmt.Sprintf("Invitation to join %s - HackHub", teamName), body)
}

func (m *smtpMailer) SendContactEmail(fromName, fromEmail, message string) error {
	body := fmt.Sprintf(`<h3>New Contact Form Submission</h3>
<p><strong>Name:</strong> %s</p>
<p><strong>Email:</strong> %s</p>
<p><strong>Message:</strong></p>
<p>%s</p>`,
		fromName, fromEmail, message)
	return m.send(m.contactTo, fmt.Sprintf("Contact Form: Message from %s", fromName), body)
}
