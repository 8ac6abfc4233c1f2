package notification

import (
	"fmt"
	"net/smtp"
	"time"

	"github.com/murmurchat/murmur/internal/infrastructure/metrics"
	"go.uber.org/zap"
)

// simulatedSendDelay approximates one SMTP round trip so the simulated
// path has the same pacing characteristics as the real one.
const simulatedSendDelay = 1500 * time.Millisecond

// Mailer delivers one rendered notification. The variant is chosen once at
// construction: real SMTP when fully configured, simulated otherwise.
type Mailer interface {
	IsConfigured() bool
	Send(to, subject, body string) error
}

// SMTPSettings carries the submission credentials. All four fields must be
// present to select the real transport.
type SMTPSettings struct {
	Host     string
	Port     uint16
	User     string
	Password string
}

func (s SMTPSettings) complete() bool {
	return s.Host != "" && s.Port > 0 && s.User != "" && s.Password != ""
}

// NewMailer selects the transport. Missing or partial credentials are not
// an error; they select the simulated mode for the process lifetime.
func NewMailer(settings SMTPSettings, logger *zap.SugaredLogger) Mailer {
	if settings.complete() {
		logger.Infow("SMTP configured", "host", settings.Host, "port", settings.Port, "user", settings.User)
		return &smtpMailer{settings: settings, logger: logger, send: smtp.SendMail}
	}
	logger.Infow("SMTP credentials not found, email sending will be simulated")
	return &simulatedMailer{logger: logger, delay: simulatedSendDelay}
}

// sendFunc matches smtp.SendMail so tests can intercept the submission.
type sendFunc func(addr string, a smtp.Auth, from string, to []string, msg []byte) error

type smtpMailer struct {
	settings SMTPSettings
	logger   *zap.SugaredLogger
	send     sendFunc
}

func (m *smtpMailer) IsConfigured() bool { return true }

// Send submits one RFC 5322 message over an authenticated STARTTLS
// session. A failed submission is terminal for this message; redelivery is
// a broker-level concern, not a transport one.
func (m *smtpMailer) Send(to, subject, body string) error {
	addr := fmt.Sprintf("%s:%d", m.settings.Host, m.settings.Port)
	auth := smtp.PlainAuth("", m.settings.User, m.settings.Password, m.settings.Host)
	msg := buildMessage(m.settings.User, to, subject, body, time.Now())

	if err := m.send(addr, auth, m.settings.User, []string{to}, msg); err != nil {
		metrics.EmailsSent.WithLabelValues("smtp", "error").Inc()
		return fmt.Errorf("smtp submission to %s failed: %w", to, err)
	}

	metrics.EmailsSent.WithLabelValues("smtp", "ok").Inc()
	m.logger.Infow("email sent", "to", to, "subject", subject)
	return nil
}

// buildMessage assembles the wire form: headers, blank line, body.
func buildMessage(from, to, subject, body string, now time.Time) []byte {
	msg := "Date: " + now.Format(time.RFC1123Z) + "\r\n" +
		"To: <" + to + ">\r\n" +
		"From: <" + from + ">\r\n" +
		"Subject: " + subject + "\r\n" +
		"Content-Type: text/plain; charset=\"utf-8\"\r\n" +
		"\r\n" +
		body + "\r\n"
	return []byte(msg)
}

type simulatedMailer struct {
	logger *zap.SugaredLogger
	delay  time.Duration
}

func (m *simulatedMailer) IsConfigured() bool { return false }

// Send logs what would have been delivered, waits the fixed delay, and
// reports success. No network I/O happens on this path.
func (m *simulatedMailer) Send(to, subject, _ string) error {
	m.logger.Infow("simulating email send", "to", to, "subject", subject)
	time.Sleep(m.delay)
	metrics.EmailsSent.WithLabelValues("simulated", "ok").Inc()
	return nil
}
