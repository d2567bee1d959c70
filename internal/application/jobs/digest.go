package jobs

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/jhoicas/forecast-cloud/internal/application/ports"
	"github.com/jhoicas/forecast-cloud/internal/domain/entity"
	"github.com/jhoicas/forecast-cloud/internal/domain/ordering"
	"github.com/jhoicas/forecast-cloud/internal/domain/repository"
)

// DeliveryDigest envía por correo las entregas pendientes del día.
type DeliveryDigest struct {
	orders     repository.OrderRepository
	mailer     ports.Mailer
	recipients []string
	now        func() time.Time
	log        zerolog.Logger
}

// NewDeliveryDigest construye la tarea. now nil usa time.Now.
func NewDeliveryDigest(orders repository.OrderRepository, mailer ports.Mailer, recipients []string, now func() time.Time, log zerolog.Logger) *DeliveryDigest {
	if now == nil {
		now = time.Now
	}
	return &DeliveryDigest{orders: orders, mailer: mailer, recipients: recipients, now: now, log: log}
}

func (d *DeliveryDigest) Name() string { return "resumen_entregas" }

// Run no envía nada si no hay destinatarios o entregas.
func (d *DeliveryDigest) Run(ctx context.Context) error {
	if d.mailer == nil || len(d.recipients) == 0 {
		return nil
	}
	today := ordering.Truncate(d.now())
	rows, err := d.orders.PendingDeliveries(ctx, &today, &today)
	if err != nil {
		return fmt.Errorf("resumen entregas: %w", err)
	}
	if len(rows) == 0 {
		d.log.Debug().Str("fecha", today.Format(ordering.DateLayout)).Msg("sin entregas pendientes")
		return nil
	}
	msg := digestMail(today, rows, d.recipients)
	if err := d.mailer.Send(ctx, msg); err != nil {
		return fmt.Errorf("resumen entregas: envío: %w", err)
	}
	d.log.Info().Int("entregas", len(rows)).Msg("resumen de entregas enviado")
	return nil
}

func digestMail(day time.Time, rows []repository.PendingDelivery, to []string) ports.MailMessage {
	var b strings.Builder
	fmt.Fprintf(&b, "Entregas programadas para el %s:\n\n", day.Format(ordering.DisplayLayout))
	var total int64
	for _, r := range rows {
		fmt.Fprintf(&b, "- Pedido #%d | %s | %s | %s | %s | %d kg\n",
			r.OrderNumber,
			r.SupplierName,
			entity.Label(entity.Cities, r.City),
			entity.Label(entity.EggTypes, r.EggType),
			entity.Label(entity.Presentations, r.Presentation),
			r.Quantity,
		)
		total += r.Quantity
	}
	fmt.Fprintf(&b, "\nTotal: %d kg en %d entregas.\n", total, len(rows))
	return ports.MailMessage{
		To:      to,
		Subject: "Entregas pendientes del " + day.Format(ordering.DisplayLayout),
		Body:    b.String(),
	}
}
