package mail

import (
	"context"
	"fmt"
	"log/slog"

	"golang.org/x/time/rate"
	"gopkg.in/gomail.v2"

	"workconnect/internal/metrics"
)

type Message struct {
	To      string
	Subject string
	HTML    string
	Text    string
	// Kind labels the message in metrics and logs, e.g. "verify_email".
	Kind string
}

type Sender interface {
	Send(ctx context.Context, msg Message) error
}

type SMTPSender struct {
	dialer *gomail.Dialer
	from   string
}

func NewSMTPSender(host string, port int, user string, password string, from string) *SMTPSender {
	return &SMTPSender{dialer: gomail.NewDialer(host, port, user, password), from: from}
}

func (s *SMTPSender) Send(ctx context.Context, msg Message) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	m := gomail.NewMessage()
	m.SetHeader("From", s.from)
	m.SetHeader("To", msg.To)
	m.SetHeader("Subject", msg.Subject)
	if msg.Text != "" {
		m.SetBody("text/plain", msg.Text)
		m.AddAlternative("text/html", msg.HTML)
	} else {
		m.SetBody("text/html", msg.HTML)
	}

	if err := s.dialer.DialAndSend(m); err != nil {
		return fmt.Errorf("send %s mail: %w", msg.Kind, err)
	}
	return nil
}

// LogSender writes messages to the log instead of delivering them.
type LogSender struct {
	logger *slog.Logger
}

func NewLogSender(logger *slog.Logger) *LogSender {
	if logger == nil {
		logger = slog.Default()
	}
	return &LogSender{logger: logger}
}

func (s *LogSender) Send(_ context.Context, msg Message) error {
	s.logger.Info("mail not sent, SMTP disabled", "kind", msg.Kind, "to", msg.To, "subject", msg.Subject, "body", msg.Text)
	return nil
}

// Throttled paces deliveries through a token bucket and counts outcomes.
type Throttled struct {
	next    Sender
	limiter *rate.Limiter
	metrics *metrics.Metrics
}

func NewThrottled(next Sender, perSecond float64, m *metrics.Metrics) *Throttled {
	limit := rate.Inf
	burst := 1
	if perSecond > 0 {
		limit = rate.Limit(perSecond)
		burst = max(1, int(perSecond))
	}
	return &Throttled{next: next, limiter: rate.NewLimiter(limit, burst), metrics: m}
}

func (t *Throttled) Send(ctx context.Context, msg Message) error {
	if err := t.limiter.Wait(ctx); err != nil {
		t.metrics.MailSent(msg.Kind, err)
		return fmt.Errorf("wait for mail slot: %w", err)
	}

	err := t.next.Send(ctx, msg)
	t.metrics.MailSent(msg.Kind, err)
	return err
}
