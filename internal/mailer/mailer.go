package mailer

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/rs/zerolog"
	"gopkg.in/gomail.v2"
)

// defaultSendTimeout bounds a single SMTP delivery so a stalled server does
// not block a request indefinitely.
const defaultSendTimeout = 10 * time.Second

// Sender delivers the emails produced by the credential flows. Implemented by
// Mailer; faked in tests.
type Sender interface {
	SendVerificationCode(to, code string, expiresIn time.Duration) error
	SendPasswordResetCode(to, code string, expiresIn time.Duration) error
	SendInvitationEmail(to, setupLink string, expiresIn time.Duration) error
	SendPasswordResetLink(to, resetLink string, expiresIn time.Duration) error
}

// Mailer represents an email sender backed by SMTP.
type Mailer struct {
	config      *mailerConfig
	dialer      *gomail.Dialer
	sendTimeout time.Duration
}

// Email represents an email message.
type Email struct {
	To       []string
	Subject  string
	Body     string
	HTMLBody string
}

// NewMailer creates a new Mailer instance configured from the environment.
func NewMailer(logger *zerolog.Logger) *Mailer {
	cfg := newMailerConfig(logger)

	if err := cfg.validate(); err != nil {
		logger.Fatal().Err(err).Msg("failed to validate Mailer configuration")
	}

	dialer := gomail.NewDialer(
		cfg.Host,
		cfg.Port,
		cfg.Username,
		cfg.Password,
	)

	return &Mailer{
		config:      cfg,
		dialer:      dialer,
		sendTimeout: defaultSendTimeout,
	}
}

// Send sends a single email, failing if delivery does not complete within the
// send timeout.
func (m *Mailer) Send(email Email) error {
	if len(email.To) == 0 {
		return fmt.Errorf("no recipients specified")
	}

	msg := gomail.NewMessage()
	m.setEmailMessage(msg, email)

	done := make(chan error, 1)
	go func() {
		done <- m.dialer.DialAndSend(msg)
	}()

	select {
	case err := <-done:
		return err
	case <-time.After(m.sendTimeout):
		return fmt.Errorf("timed out sending email after %s", m.sendTimeout)
	}
}

// SendHTML sends an HTML email.
func (m *Mailer) SendHTML(to []string, subject, htmlBody string) error {
	return m.Send(Email{
		To:       to,
		Subject:  subject,
		HTMLBody: htmlBody,
	})
}

// SendVerificationCode emails the 6-digit email verification code.
func (m *Mailer) SendVerificationCode(to, code string, expiresIn time.Duration) error {
	htmlBody := fmt.Sprintf(`
		<p>Hi,</p>
		<p>Use the code below to verify your email address:</p>

		<p><strong>%s</strong></p>

		<p>The code expires in %s.</p>
		<p>If you did not create an account, you can safely ignore this email.</p>
	`, code, expiresIn)

	return m.SendHTML([]string{to}, "Verify your email address", htmlBody)
}

// SendPasswordResetCode emails the 6-digit password reset code.
func (m *Mailer) SendPasswordResetCode(to, code string, expiresIn time.Duration) error {
	htmlBody := fmt.Sprintf(`
		<p>Hi,</p>
		<p>We received a request to reset the password for your account.</p>
		<p>Use the code below to choose a new password:</p>

		<p><strong>%s</strong></p>

		<p>The code expires in %s.</p>
		<p>If you did not request a password reset, you can safely ignore this email.</p>
	`, code, expiresIn)

	return m.SendHTML([]string{to}, "Password reset request", htmlBody)
}

// SendInvitationEmail emails the password setup link to an invited employee.
func (m *Mailer) SendInvitationEmail(to, setupLink string, expiresIn time.Duration) error {
	htmlBody := fmt.Sprintf(`
		<p>Hi,</p>
		<p>You have been invited to join your team.</p>
		<p>Click the link below to set your password and activate your account:</p>

		<p><a href="%s">%s</a></p>

		<p>The link expires in %s.</p>
	`, setupLink, setupLink, expiresIn)

	return m.SendHTML([]string{to}, "You have been invited to join your team", htmlBody)
}

// SendPasswordResetLink emails the link-based password reset URL.
func (m *Mailer) SendPasswordResetLink(to, resetLink string, expiresIn time.Duration) error {
	htmlBody := fmt.Sprintf(`
		<p>Hi,</p>
		<p>We received a request to reset the password for your account.</p>
		<p>If you made this request, please click the link below to create a new password:</p>

		<p><a href="%s">%s</a></p>

		<p>This link will expire in %s for your security.</p>
		<p>If you did not request a password reset, you can safely ignore this email.</p>
	`, resetLink, resetLink, expiresIn)

	return m.SendHTML([]string{to}, "Password reset request", htmlBody)
}

func (m *Mailer) setEmailMessage(msg *gomail.Message, email Email) {
	msg.SetHeader("From", m.config.From)
	msg.SetHeader("To", email.To...)
	msg.SetHeader("Subject", email.Subject)

	if email.HTMLBody != "" {
		msg.SetBody("text/html", email.HTMLBody)
		if email.Body != "" {
			msg.AddAlternative("text/plain", email.Body)
		}
	} else {
		msg.SetBody("text/plain", email.Body)
	}
}

// mailerConfig holds SMTP configuration for sending emails.
type mailerConfig struct {
	Host     string `env:"SMTP_HOST"`
	Port     int    `env:"SMTP_PORT"`
	Username string `env:"SMTP_USERNAME"`
	Password string `env:"SMTP_PASSWORD"`
	From     string `env:"SMTP_FROM"`
}

// newMailerConfig creates a mailerConfig instance from environment variables.
func newMailerConfig(logger *zerolog.Logger) *mailerConfig {
	cfg, err := env.ParseAs[mailerConfig]()
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to parse environment variables")
	}

	return &cfg
}

// validate checks if the Mailer configuration is valid.
func (c *mailerConfig) validate() error {
	if c.Host == "" {
		return fmt.Errorf("missing SMTP_HOST environment variable")
	}
	if c.Port == 0 {
		return fmt.Errorf("missing SMTP_PORT environment variable")
	}
	if c.Username == "" {
		return fmt.Errorf("missing SMTP_USERNAME environment variable")
	}
	if c.Password == "" {
		return fmt.Errorf("missing SMTP_PASSWORD environment variable")
	}
	if c.From == "" {
		return fmt.Errorf("missing SMTP_FROM environment variable")
	}

	return nil
}
