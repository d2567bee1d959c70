package mail

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	gomail "gopkg.in/gomail.v2"

	"github.com/jhoicas/forecast-cloud/internal/application/ports"
)

type fakeDialer struct {
	sent []*gomail.Message
	err  error
}

func (d *fakeDialer) DialAndSend(m ...*gomail.Message) error {
	if d.err != nil {
		return d.err
	}
	d.sent = append(d.sent, m...)
	return nil
}

func TestSend_ArmaMensaje(t *testing.T) {
	d := &fakeDialer{}
	m := &SMTPMailer{from: "forecast@example.com", dialer: d, log: zerolog.Nop()}

	err := m.Send(context.Background(), ports.MailMessage{
		To:      []string{"planta@example.com", "logistica@example.com"},
		Subject: "Nuevo pedido creado - Avícola Sur",
		Body:    "Pedido: #1",
	})
	require.NoError(t, err)
	require.Len(t, d.sent, 1)

	gm := d.sent[0]
	assert.Equal(t, []string{"forecast@example.com"}, gm.GetHeader("From"))
	assert.Equal(t, []string{"planta@example.com", "logistica@example.com"}, gm.GetHeader("To"))

	var buf bytes.Buffer
	_, err = gm.WriteTo(&buf)
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "Pedido: #1")
}

func TestSend_SinDestinatarios(t *testing.T) {
	d := &fakeDialer{}
	m := &SMTPMailer{dialer: d, log: zerolog.Nop()}
	require.NoError(t, m.Send(context.Background(), ports.MailMessage{Subject: "x"}))
	assert.Empty(t, d.sent)
}

func TestSend_ErrorSMTP(t *testing.T) {
	m := &SMTPMailer{dialer: &fakeDialer{err: errors.New("conexión rechazada")}, log: zerolog.Nop()}
	err := m.Send(context.Background(), ports.MailMessage{To: []string{"a@example.com"}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "conexión rechazada")
}

func TestSend_ContextoCancelado(t *testing.T) {
	d := &fakeDialer{}
	m := &SMTPMailer{dialer: d, log: zerolog.Nop()}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err := m.Send(ctx, ports.MailMessage{To: []string{"a@example.com"}})
	assert.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, d.sent)
}
