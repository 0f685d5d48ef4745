package mailing

import (
	"fmt"
	"html"
	"strconv"

	"recipe-share/internal/utils"

	"gopkg.in/gomail.v2"
)

const WelcomeSubject = "Welcome to Recipe Share"

type (
	Mailer interface {
		SendMail(toEmail string, subject string, body string) error
	}

	MailConfig struct {
		AppURL       string
		SMTPHost     string
		SMTPPort     string
		SMTPSender   string
		SMTPEmail    string
		SMTPPassword string
	}

	mailer struct {
		config MailConfig
	}
)

func LoadMailConfig() MailConfig {
	return MailConfig{
		AppURL:       utils.GetConfig("APP_URL"),
		SMTPHost:     utils.GetConfig("SMTP_HOST"),
		SMTPPort:     utils.GetConfig("SMTP_PORT"),
		SMTPSender:   utils.GetConfig("SMTP_SENDER_NAME"),
		SMTPEmail:    utils.GetConfig("SMTP_AUTH_EMAIL"),
		SMTPPassword: utils.GetConfig("SMTP_AUTH_PASSWORD"),
	}
}

// NewMailer returns a Mailer for config. Without an SMTP host every send
// is a no-op.
func NewMailer(config MailConfig) Mailer {
	return &mailer{config: config}
}

func (m *mailer) SendMail(toEmail string, subject string, body string) error {
	if m.config.SMTPHost == "" {
		return nil
	}

	message := gomail.NewMessage()
	message.SetAddressHeader("From", m.config.SMTPEmail, m.config.SMTPSender)
	message.SetHeader("To", toEmail)
	message.SetHeader("Subject", subject)
	message.SetBody("text/html", body)

	port, err := strconv.Atoi(m.config.SMTPPort)
	if err != nil {
		return fmt.Errorf("invalid SMTP port %q: %w", m.config.SMTPPort, err)
	}
	dialer := gomail.NewDialer(
		m.config.SMTPHost,
		port,
		m.config.SMTPEmail,
		m.config.SMTPPassword,
	)

	return dialer.DialAndSend(message)
}

func WelcomeBody(username string) string {
	return fmt.Sprintf(
		"<p>Hi %s,</p><p>Your account was created. Share your first recipe at <a href=\"%s\">%s</a>.</p>",
		html.EscapeString(username),
		utils.GetConfig("APP_URL"),
		utils.GetConfig("APP_URL"),
	)
}
