package notify

import (
	"fmt"
	"net/smtp"
	"strings"
	"time"

	"github.com/Dan9191/cashflow-service/internal/config"
	"github.com/Dan9191/cashflow-service/internal/forecast"
	"github.com/Dan9191/cashflow-service/internal/models"
	"github.com/jordan-wright/email"
	"github.com/sirupsen/logrus"
)

const dateLayout = "2006-01-02"

// Sender handles sending emails via SMTP
type Sender struct {
	cfg    *config.Config
	logger *logrus.Logger
	send   func(e *email.Email, addr string, auth smtp.Auth) error
}

// NewSender creates a new email sender
func NewSender(cfg *config.Config, logger *logrus.Logger) *Sender {
	return &Sender{
		cfg:    cfg,
		logger: logger,
		send: func(e *email.Email, addr string, auth smtp.Auth) error {
			return e.Send(addr, auth)
		},
	}
}

// SendPaymentReminder lists the expenses due inside the reminder window
func (s *Sender) SendPaymentReminder(user models.User, due []forecast.ProjectedEvent, windowDays int) error {
	return s.deliver(user, s.buildPaymentReminder(user, due, windowDays))
}

// SendLowBalanceAlert warns that the projected balance dips below threshold
func (s *Sender) SendLowBalanceAlert(user models.User, summary forecast.Summary, threshold float64) error {
	return s.deliver(user, s.buildLowBalanceAlert(user, summary, threshold))
}

func (s *Sender) buildPaymentReminder(user models.User, due []forecast.ProjectedEvent, windowDays int) *email.Email {
	e := email.NewEmail()
	e.From = s.cfg.SenderEmail
	e.To = []string{user.Email}
	e.Subject = fmt.Sprintf("%d upcoming payment(s) in the next %d days", len(due), windowDays)

	var body strings.Builder
	fmt.Fprintf(&body, "Dear %s,\n\n", user.Username)
	body.WriteString("The following payments are coming up:\n\n")
	var total float64
	for _, ev := range due {
		fmt.Fprintf(&body, "  %s  %-30s %10.2f\n", ev.Date.Format(dateLayout), ev.Description, ev.Amount)
		total += ev.Amount
	}
	fmt.Fprintf(&body, "\nTotal due: %.2f\n", total)
	if n := len(due); n > 0 {
		fmt.Fprintf(&body, "Projected balance after the last one: %.2f\n", due[n-1].RunningBalance)
	}
	body.WriteString("\nBest regards,\nCashflow Forecast")
	e.Text = []byte(body.String())
	return e
}

func (s *Sender) buildLowBalanceAlert(user models.User, summary forecast.Summary, threshold float64) *email.Email {
	e := email.NewEmail()
	e.From = s.cfg.SenderEmail
	e.To = []string{user.Email}
	e.Subject = "Projected balance running low"

	body := fmt.Sprintf("Dear %s,\n\n", user.Username)
	body += fmt.Sprintf(
		"Your balance is projected to reach %.2f on %s, below your alert level of %.2f.\n"+
			"Projected balance at the end of the forecast: %.2f (%+.2f).\n",
		summary.LowestBalance, summary.LowestBalanceDate.Format(dateLayout), threshold,
		summary.EndingBalance, summary.ProjectedChange,
	)
	if summary.DaysBelowZero > 0 {
		body += fmt.Sprintf("The balance stays below zero for %d day(s).\n", summary.DaysBelowZero)
	}
	body += "\nBest regards,\nCashflow Forecast"
	e.Text = []byte(body)
	return e
}

func (s *Sender) deliver(user models.User, e *email.Email) error {
	addr := fmt.Sprintf("%s:%s", s.cfg.SMTPHost, s.cfg.SMTPPort)
	var auth smtp.Auth
	if s.cfg.SMTPUsername != "" {
		auth = smtp.PlainAuth("", s.cfg.SMTPUsername, s.cfg.SMTPPassword, s.cfg.SMTPHost)
	}
	if err := s.send(e, addr, auth); err != nil {
		s.logger.Errorf("Failed to send email to %s: %v", user.Email, err)
		return fmt.Errorf("failed to send email: %w", err)
	}

	s.logger.WithField("sent_at", time.Now().Format(time.RFC3339)).Infof("Email sent to %s: %s", user.Email, e.Subject)
	return nil
}
