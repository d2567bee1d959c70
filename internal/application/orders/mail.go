package orders

import (
	"context"
	"fmt"
	"strings"

	"github.com/jhoicas/forecast-cloud/internal/application/ports"
	"github.com/jhoicas/forecast-cloud/internal/domain/access"
	"github.com/jhoicas/forecast-cloud/internal/domain/entity"
	"github.com/jhoicas/forecast-cloud/internal/domain/ordering"
)

// createdMail arma el aviso de pedido creado.
func createdMail(actor access.Actor, o *entity.Order, to []string) ports.MailMessage {
	delivery := "Sin programar"
	if o.DeliveryDate != nil {
		delivery = o.DeliveryDate.Format(ordering.DisplayLayout)
	}
	week := "-"
	if o.Week != nil {
		week = o.Week.Format(ordering.DisplayLayout)
	}
	var b strings.Builder
	b.WriteString("Se ha creado un nuevo pedido:\n\n")
	fmt.Fprintf(&b, "Pedido: #%d\n", o.Number)
	fmt.Fprintf(&b, "Proveedor: %s\n", o.SupplierName)
	fmt.Fprintf(&b, "Comercial: %s\n", actor.Username)
	fmt.Fprintf(&b, "Ciudad: %s\n", entity.Label(entity.Cities, o.City))
	fmt.Fprintf(&b, "Tipo de huevo: %s\n", entity.Label(entity.EggTypes, o.EggType))
	fmt.Fprintf(&b, "Presentación: %s\n", entity.Label(entity.Presentations, o.Presentation))
	fmt.Fprintf(&b, "Cantidad: %d kg\n", o.EffectiveQuantity())
	fmt.Fprintf(&b, "Semana: %s\n", week)
	fmt.Fprintf(&b, "Fecha de entrega: %s\n", delivery)
	return ports.MailMessage{
		To:      to,
		Subject: "Nuevo pedido creado - " + o.SupplierName,
		Body:    b.String(),
	}
}

// sendCreatedMail envía el aviso; un fallo se registra y no afecta al pedido.
func (s *Service) sendCreatedMail(ctx context.Context, actor access.Actor, o *entity.Order) {
	if s.mailer == nil || len(s.recipients) == 0 {
		return
	}
	if err := s.mailer.Send(ctx, createdMail(actor, o, s.recipients)); err != nil {
		s.log.Warn().Err(err).Int64("order", o.Number).Msg("no se pudo enviar el correo de pedido creado")
	}
}
