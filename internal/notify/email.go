package notify

import (
	"fmt"
	"net/smtp"

	"github.com/jordan-wright/email"
	"github.com/sirupsen/logrus"

	"github.com/finlend/credit-service/internal/config"
)

// Sender delivers loan approval notices via SMTP
type Sender struct {
	cfg    *config.Config
	logger *logrus.Logger
}

// NewSender creates a new email sender
func NewSender(cfg *config.Config, logger *logrus.Logger) *Sender {
	return &Sender{cfg: cfg, logger: logger}
}

// Enabled reports whether SMTP delivery is configured
func (s *Sender) Enabled() bool {
	return s.cfg.SMTPHost != "" && s.cfg.NotifyEmail != ""
}

// SendApprovalNotice sends a notification for a newly approved loan
func (s *Sender) SendApprovalNotice(customerName string, loanID int64, amount, installment float64, tenure int) error {
	e := email.NewEmail()
	e.From = s.cfg.SenderEmail
	e.To = []string{s.cfg.NotifyEmail}
	e.Subject = fmt.Sprintf("Loan %d approved", loanID)

	body := fmt.Sprintf(
		"Loan %d has been approved for %s.\n\n"+
			"Principal: %.2f\n"+
			"Tenure: %d months\n"+
			"Monthly installment: %.2f\n",
		loanID, customerName, amount, tenure, installment,
	)
	e.Text = []byte(body)

	addr := fmt.Sprintf("%s:%s", s.cfg.SMTPHost, s.cfg.SMTPPort)
	auth := smtp.PlainAuth("", s.cfg.SMTPUsername, s.cfg.SMTPPassword, s.cfg.SMTPHost)
	if err := e.Send(addr, auth); err != nil {
		s.logger.Errorf("Failed to send approval notice for loan %d: %v", loanID, err)
		return fmt.Errorf("failed to send approval notice: %w", err)
	}

	s.logger.Infof("Approval notice sent for loan %d", loanID)
	return nil
}
