package mailer

import (
	"fmt"

	"ecommerce-backend/pkg/utils"

	"go.uber.org/zap"
	"gopkg.in/gomail.v2"
)

type Mailer struct {
	config utils.EmailConfig
	log    *zap.Logger
}

func New(config utils.EmailConfig, log *zap.Logger) *Mailer {
	return &Mailer{
		config: config,
		log:    log.With(zap.String("component", "mailer")),
	}
}

// Configured reports whether SMTP delivery is set up. When it is not,
// callers fall back to logging the message instead of failing the flow.
func (m *Mailer) Configured() bool {
	return m.config.Host != "" && m.config.User != ""
}

func (m *Mailer) Send(to, subject, body string) error {
	if !m.Configured() {
		m.log.Warn("SMTP not configured, skipping email delivery",
			zap.String("to", to),
			zap.String("subject", subject),
		)
		return nil
	}

	msg := gomail.NewMessage()
	msg.SetHeader("From", m.config.From)
	msg.SetHeader("To", to)
	msg.SetHeader("Subject", subject)
	msg.SetBody("text/plain", body)

	dialer := gomail.NewDialer(m.config.Host, m.config.Port, m.config.User, m.config.Password)

	if err := dialer.DialAndSend(msg); err != nil {
		m.log.Error("Failed to send email",
			zap.Error(err),
			zap.String("to", to),
			zap.String("subject", subject),
		)
		return fmt.Errorf("send email to %s: %w", to, err)
	}

	m.log.Info("Email sent", zap.String("to", to), zap.String("subject", subject))
	return nil
}

func (m *Mailer) SendPasswordReset(to, token string) error {
	subject := "Password reset request"
	body := fmt.Sprintf(
		"A password reset was requested for your account.\n\n"+
			"Reset token: %s\n\n"+
			"The token expires shortly and can be used once. "+
			"If you did not request this, ignore this message.",
		token,
	)
	return m.Send(to, subject, body)
}
