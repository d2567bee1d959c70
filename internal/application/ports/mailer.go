package ports

import "context"

// MailMessage correo de texto plano.
type MailMessage struct {
	To      []string
	Subject string
	Body    string
}

// Mailer envío de correo saliente.
type Mailer interface {
	Send(ctx context.Context, msg MailMessage) error
}
