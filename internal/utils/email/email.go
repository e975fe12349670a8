package email

import (
	"bytes"
	"fmt"
	"net/smtp"

	"github.com/BinaryNexusLab/real-estate/internal/config"
	"github.com/jordan-wright/email"
	"github.com/sirupsen/logrus"
)

// Report is a rendered analysis ready to mail.
type Report struct {
	To             string
	ClientName     string
	PropertyLabel  string
	HTML           []byte
	CSV            []byte
	AttachmentName string
}

// Sender handles sending emails via SMTP
type Sender struct {
	cfg    *config.Config
	logger *logrus.Logger
	send   func(*email.Email) error
}

// NewSender creates a new email sender
func NewSender(cfg *config.Config, logger *logrus.Logger) *Sender {
	s := &Sender{cfg: cfg, logger: logger}
	s.send = s.smtpSend
	return s
}

func (s *Sender) smtpSend(e *email.Email) error {
	addr := fmt.Sprintf("%s:%s", s.cfg.SMTPHost, s.cfg.SMTPPort)
	var auth smtp.Auth
	if s.cfg.SMTPUsername != "" {
		auth = smtp.PlainAuth("", s.cfg.SMTPUsername, s.cfg.SMTPPassword, s.cfg.SMTPHost)
	}
	return e.Send(addr, auth)
}

func (s *Sender) build(r Report) (*email.Email, error) {
	e := email.NewEmail()
	e.From = s.cfg.SenderEmail
	e.To = []string{r.To}
	e.Subject = fmt.Sprintf("Investment analysis: %s", r.PropertyLabel)
	e.Text = []byte(fmt.Sprintf(
		"Dear %s,\n\nPlease find the investment analysis for %s below and attached as a spreadsheet.\n\nKind regards,\nYour property agent",
		r.ClientName, r.PropertyLabel,
	))
	e.HTML = r.HTML
	if len(r.CSV) > 0 {
		if _, err := e.Attach(bytes.NewReader(r.CSV), r.AttachmentName, "text/csv"); err != nil {
			return nil, fmt.Errorf("failed to attach report: %w", err)
		}
	}
	return e, nil
}

// SendReport mails an analysis report to a client
func (s *Sender) SendReport(r Report) error {
	e, err := s.build(r)
	if err != nil {
		return err
	}
	if err := s.send(e); err != nil {
		s.logger.Errorf("Failed to send report to %s: %v", r.To, err)
		return fmt.Errorf("failed to send email: %w", err)
	}

	s.logger.Infof("Email sent to %s: %s", r.To, e.Subject)
	return nil
}
