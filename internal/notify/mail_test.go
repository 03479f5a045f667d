package notify

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/trace/noop"
	"gopkg.in/gomail.v2"
)

type fakeAlerter struct {
	texts []string
	err   error
}

func (f *fakeAlerter) Alert(_ context.Context, text string) error {
	f.texts = append(f.texts, text)
	return f.err
}

func newTestNotifier(msg Message, alert Alerter, send func(m ...*gomail.Message) error) *MailNotifier {
	n := NewMailNotifier(noop.NewTracerProvider().Tracer("test"), SMTPConfig{Server: "smtp.example.com", Port: 587, Encryption: "tls"}, msg, alert)
	n.send = send
	return n
}

func validMessage() Message {
	return Message{From: "bot@example.com", To: "ops@example.com, oncall@example.com", Subject: "Tweet failed", Body: "check the bot"}
}

func TestNotifyFailureSendsConfiguredMessage(t *testing.T) {
	var sent []*gomail.Message
	n := newTestNotifier(validMessage(), nil, func(m ...*gomail.Message) error {
		sent = append(sent, m...)
		return nil
	})

	require.True(t, n.NotifyFailure(context.Background()))
	require.Len(t, sent, 1)
	assert.Equal(t, []string{"Tweet failed"}, sent[0].GetHeader("Subject"))
	assert.Equal(t, []string{"bot@example.com"}, sent[0].GetHeader("From"))
	assert.Equal(t, []string{"ops@example.com", "oncall@example.com"}, sent[0].GetHeader("To"))
}

func TestNotifyReturnsFalseOnTransportError(t *testing.T) {
	n := newTestNotifier(validMessage(), nil, func(m ...*gomail.Message) error {
		return errors.New("connection refused")
	})
	assert.False(t, n.Notify(context.Background(), "s", "b"))
}

func TestNotifyReturnsFalseOnMissingSettings(t *testing.T) {
	calls := 0
	send := func(m ...*gomail.Message) error {
		calls++
		return nil
	}

	msg := validMessage()
	msg.To = " , "
	assert.False(t, newTestNotifier(msg, nil, send).NotifyFailure(context.Background()))

	msg = validMessage()
	msg.From = ""
	assert.False(t, newTestNotifier(msg, nil, send).NotifyFailure(context.Background()))

	assert.False(t, newTestNotifier(validMessage(), nil, send).Notify(context.Background(), "", "body"))
	assert.Zero(t, calls)
}

func TestAlertDoesNotChangeOutcome(t *testing.T) {
	alert := &fakeAlerter{err: errors.New("telegram down")}
	ok := newTestNotifier(validMessage(), alert, func(m ...*gomail.Message) error { return nil })
	assert.True(t, ok.NotifyFailure(context.Background()))
	require.Len(t, alert.texts, 1)
	assert.Equal(t, "Tweet failed\n\ncheck the bot", alert.texts[0])

	alert = &fakeAlerter{}
	failing := newTestNotifier(validMessage(), alert, func(m ...*gomail.Message) error { return errors.New("boom") })
	assert.False(t, failing.NotifyFailure(context.Background()))
	assert.Len(t, alert.texts, 1)
}
