package email

import (
	"fmt"
	"net/smtp"

	"github.com/jordan-wright/email"
	"github.com/sirupsen/logrus"

	"github.com/Legacy-Banking/Bank-Simulator-sub000/internal/config"
	"github.com/Legacy-Banking/Bank-Simulator-sub000/internal/models"
)

// Sender handles sending emails via SMTP
type Sender struct {
	cfg    *config.Config
	logger *logrus.Logger
}

// NewSender creates a new email sender
func NewSender(cfg *config.Config, logger *logrus.Logger) *Sender {
	return &Sender{
		cfg:    cfg,
		logger: logger,
	}
}

// SendScheduleOutcome sends a schedule-outcome notification email
func (s *Sender) SendScheduleOutcome(to, username string, kind models.MessageKind, description string) error {
	e := email.NewEmail()
	e.From = s.cfg.SenderEmail
	e.To = []string{to}
	switch kind {
	case models.MessageKindInsufficient:
		e.Subject = "Scheduled Payment Could Not Be Made"
	case models.MessageKindRecurring:
		e.Subject = "Recurring Payment Update"
	case models.MessageKindBill:
		e.Subject = "New Bill Received"
	default:
		e.Subject = "Scheduled Payment Notification"
	}

	body := fmt.Sprintf(
		"Dear %s,\n\n%s\n\nBest regards,\nBank Simulator", username, description,
	)
	e.Text = []byte(body)

	addr := fmt.Sprintf("%s:%s", s.cfg.SMTPHost, s.cfg.SMTPPort)
	auth := smtp.PlainAuth("", s.cfg.SMTPUsername, s.cfg.SMTPPassword, s.cfg.SMTPHost)
	err := e.Send(addr, auth)
	if err != nil {
		s.logger.Errorf("Failed to send email to %s: %v", to, err)
		return fmt.Errorf("failed to send email: %w", err)
	}

	s.logger.Infof("Email sent to %s: %s", to, e.Subject)
	return nil
}
