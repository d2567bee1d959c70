// Package mail envío de correo por SMTP.
package mail

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"
	gomail "gopkg.in/gomail.v2"

	"github.com/jhoicas/forecast-cloud/internal/application/ports"
	"github.com/jhoicas/forecast-cloud/pkg/config"
)

var _ ports.Mailer = (*SMTPMailer)(nil)

// dialer abstrae gomail.Dialer en tests.
type dialer interface {
	DialAndSend(m ...*gomail.Message) error
}

// SMTPMailer implementa ports.Mailer con gomail.
type SMTPMailer struct {
	from   string
	dialer dialer
	log    zerolog.Logger
}

// NewSMTPMailer construye el mailer desde la configuración SMTP.
func NewSMTPMailer(cfg config.MailConfig, log zerolog.Logger) *SMTPMailer {
	return &SMTPMailer{
		from:   cfg.From,
		dialer: gomail.NewDialer(cfg.Host, cfg.Port, cfg.User, cfg.Password),
		log:    log,
	}
}

// Send envía un correo de texto plano. El contexto solo se consulta antes de
// conectar: gomail no admite cancelación a mitad del envío.
func (m *SMTPMailer) Send(ctx context.Context, msg ports.MailMessage) error {
	if len(msg.To) == 0 {
		return nil
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	gm := buildMessage(m.from, msg)
	if err := m.dialer.DialAndSend(gm); err != nil {
		return fmt.Errorf("smtp: %w", err)
	}
	m.log.Debug().Strs("to", msg.To).Str("subject", msg.Subject).Msg("correo enviado")
	return nil
}

func buildMessage(from string, msg ports.MailMessage) *gomail.Message {
	gm := gomail.NewMessage()
	gm.SetHeader("From", from)
	gm.SetHeader("To", msg.To...)
	gm.SetHeader("Subject", msg.Subject)
	gm.SetBody("text/plain", msg.Body)
	return gm
}
