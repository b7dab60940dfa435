// Package mail delivers confirmation codes. Delivery is best effort: the
// sign-up flow persists the code before calling Send and never rolls back
// on a send failure.
package mail

import (
	"log/slog"

	gomail "github.com/go-mail/mail"
)

// Sender is the fire-and-forget mail contract the auth service consumes.
type Sender interface {
	Send(to, subject, body string) error
}

// SMTPSender sends plain-text mail through an SMTP relay.
type SMTPSender struct {
	host   string
	port   int
	from   string
	user   string
	pass   string
	logger *slog.Logger
}

func NewSMTPSender(host string, port int, from, user, pass string, logger *slog.Logger) *SMTPSender {
	return &SMTPSender{
		host:   host,
		port:   port,
		from:   from,
		user:   user,
		pass:   pass,
		logger: logger,
	}
}

func (s *SMTPSender) Send(to, subject, body string) error {
	m := gomail.NewMessage()
	m.SetHeader("From", s.from)
	m.SetHeader("To", to)
	m.SetHeader("Subject", subject)
	m.SetBody("text/plain", body)

	d := gomail.NewDialer(s.host, s.port, s.user, s.pass)
	if err := d.DialAndSend(m); err != nil {
		s.logger.Error("smtp send failed", "to", to, "error", err)
		return err
	}
	s.logger.Info("smtp send ok", "to", to)
	return nil
}

// LogSender logs mail instead of sending it. Used in development and tests.
type LogSender struct {
	Logger *slog.Logger
}

func (s *LogSender) Send(to, subject, body string) error {
	s.Logger.Info("mail (not sent)", "to", to, "subject", subject, "body", body)
	return nil
}
