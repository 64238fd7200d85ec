package mailer

import (
	"fmt"
	"time"

	"github.com/zenithwebstudios/billing-service/internal/config"
	"go.uber.org/zap"
	"gopkg.in/gomail.v2"
)

// Subjects escalate with the reminder number.
var reminderSubjects = []string{
	"Please verify your email address",
	"Reminder: your email is still unverified",
	"Final reminder: verify your email to keep your account active",
}

// Mailer sends transactional email over SMTP.
type Mailer struct {
	dialer  *gomail.Dialer
	from    string
	siteURL string
	logger  *zap.Logger
}

func NewMailer(cfg config.EmailConfig, logger *zap.Logger) *Mailer {
	return &Mailer{
		dialer:  gomail.NewDialer(cfg.Host, cfg.Port, cfg.Username, cfg.Password),
		from:    cfg.From,
		siteURL: cfg.SiteURL,
		logger:  logger,
	}
}

// SendVerificationReminder sends the nth reminder (1-based).
func (m *Mailer) SendVerificationReminder(to, name string, reminderNumber int) error {
	subject := reminderSubjects[len(reminderSubjects)-1]
	if reminderNumber >= 1 && reminderNumber <= len(reminderSubjects) {
		subject = reminderSubjects[reminderNumber-1]
	}

	greeting := "Hi"
	if name != "" {
		greeting = fmt.Sprintf("Hi %s", name)
	}

	body := fmt.Sprintf(`%s,

Your email address has not been verified yet. Please confirm it to get
full access to your account:

%s/verify-email

If you did not create this account, you can ignore this message.
`, greeting, m.siteURL)

	return m.send(to, subject, body)
}

// SendSubscriptionCanceled confirms a cancellation and names the access
// end date.
func (m *Mailer) SendSubscriptionCanceled(to, name, planName string, periodEnd time.Time) error {
	greeting := "Hi"
	if name != "" {
		greeting = fmt.Sprintf("Hi %s", name)
	}
	plan := "your subscription"
	if planName != "" {
		plan = fmt.Sprintf("your %s subscription", planName)
	}

	body := fmt.Sprintf(`%s,

We have canceled %s. You keep access until %s.

You can resubscribe at any time:

%s/pricing
`, greeting, plan, periodEnd.Format("January 2, 2006"), m.siteURL)

	return m.send(to, "Your subscription has been canceled", body)
}

func (m *Mailer) send(to, subject, body string) error {
	msg := gomail.NewMessage()
	msg.SetHeader("From", m.from)
	msg.SetHeader("To", to)
	msg.SetHeader("Subject", subject)
	msg.SetBody("text/plain", body)

	if err := m.dialer.DialAndSend(msg); err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}

	m.logger.Debug("Email sent",
		zap.String("to", to),
		zap.String("subject", subject))
	return nil
}
