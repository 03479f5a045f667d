package notify

import (
	"context"
	"crypto/tls"
	"fmt"
	"strings"

	"cryptostatus/internal/domain"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"go.opentelemetry.io/otel/trace"
	"gopkg.in/gomail.v2"
)

type SMTPConfig struct {
	Server     string
	Port       int
	Encryption string // tls (STARTTLS), ssl, none
	Username   string
	Password   string
}

type Message struct {
	From    string
	To      string // comma separated
	Subject string
	Body    string
}

type Alerter interface {
	Alert(ctx context.Context, text string) error
}

// MailNotifier sends the operator failure email. An optional Alerter mirrors
// the message to another channel; it never changes the mail outcome.
type MailNotifier struct {
	send   func(m ...*gomail.Message) error
	msg    Message
	alert  Alerter
	tracer trace.Tracer
	log    zerolog.Logger
}

func NewMailNotifier(tracer trace.Tracer, smtp SMTPConfig, msg Message, alert Alerter) *MailNotifier {
	d := gomail.NewDialer(smtp.Server, smtp.Port, smtp.Username, smtp.Password)
	switch smtp.Encryption {
	case "ssl":
		d.SSL = true
	case "tls":
		d.TLSConfig = &tls.Config{ServerName: smtp.Server}
	}
	return &MailNotifier{
		send:   d.DialAndSend,
		msg:    msg,
		alert:  alert,
		tracer: tracer,
		log:    log.With().Str("component", "notifier").Logger(),
	}
}

// Notify sends exactly one email and reports whether it was accepted.
func (n *MailNotifier) Notify(ctx context.Context, subject, body string) bool {
	ctx, span := n.tracer.Start(ctx, "notifier.notify")
	defer span.End()

	if n.alert != nil {
		if err := n.alert.Alert(ctx, subject+"\n\n"+body); err != nil {
			n.log.Warn().Err(err).Msg("operator alert failed")
		}
	}

	accepted, err := n.deliver(subject, body)
	if err != nil {
		n.log.Error().Err(err).Msg("notification mail failed")
	}
	if accepted != 1 {
		return false
	}
	n.log.Info().Str("to", n.msg.To).Msg("notification mail sent")
	return true
}

// NotifyFailure sends the configured subject and body.
func (n *MailNotifier) NotifyFailure(ctx context.Context) bool {
	return n.Notify(ctx, n.msg.Subject, n.msg.Body)
}

func (n *MailNotifier) deliver(subject, body string) (int, error) {
	var to []string
	for _, addr := range strings.Split(n.msg.To, ",") {
		if addr = strings.TrimSpace(addr); addr != "" {
			to = append(to, addr)
		}
	}
	if n.msg.From == "" || len(to) == 0 || subject == "" || body == "" {
		return 0, fmt.Errorf("%w: invalid or missing message settings", domain.ErrMail)
	}

	m := gomail.NewMessage()
	m.SetHeader("From", n.msg.From)
	m.SetHeader("To", to...)
	m.SetHeader("Subject", subject)
	m.SetBody("text/plain", body)

	if err := n.send(m); err != nil {
		return 0, fmt.Errorf("%w: %w", domain.ErrMail, err)
	}
	return 1, nil
}
