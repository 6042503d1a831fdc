package mail

import (
	"context"
	"fmt"
	"html"

	"gopkg.in/gomail.v2"

	"github.com/jhoicas/abs-rental-api/internal/application/ports"
	"github.com/jhoicas/abs-rental-api/internal/domain/entity"
	"github.com/jhoicas/abs-rental-api/pkg/logger"
)

var _ ports.Notifier = (*SMTPNotifier)(nil)

// Sender entrega un mensaje ya armado. *gomail.Dialer lo implementa.
type Sender interface {
	DialAndSend(m ...*gomail.Message) error
}

// SMTPNotifier avisa por correo al dueño del pedido cuando cambia su estado.
type SMTPNotifier struct {
	sender Sender
	from   string
	log    *logger.Logger
}

func NewSMTPNotifier(host string, port int, user, password, from string, log *logger.Logger) *SMTPNotifier {
	return NewNotifier(gomail.NewDialer(host, port, user, password), from, log)
}

// NewNotifier permite inyectar el transporte (tests).
func NewNotifier(sender Sender, from string, log *logger.Logger) *SMTPNotifier {
	if log == nil {
		log = logger.Nop()
	}
	return &SMTPNotifier{sender: sender, from: from, log: log.Component("mail")}
}

func (n *SMTPNotifier) OrderStatusChanged(ctx context.Context, o *entity.Order, previous entity.OrderStatus) error {
	if o == nil || o.UserEmail == "" {
		return nil
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	m := gomail.NewMessage()
	m.SetHeader("From", n.from)
	m.SetHeader("To", o.UserEmail)
	m.SetHeader("Subject", fmt.Sprintf("Pedido %s: %s", o.ID, o.Status))
	m.SetBody("text/plain", plainBody(o, previous))
	m.AddAlternative("text/html", htmlBody(o, previous))

	if err := n.sender.DialAndSend(m); err != nil {
		return fmt.Errorf("enviar correo a %s: %w", o.UserEmail, err)
	}
	n.log.Info().Str("order_id", o.ID).Str("to", o.UserEmail).Str("status", string(o.Status)).Msg("notificación enviada")
	return nil
}

func plainBody(o *entity.Order, previous entity.OrderStatus) string {
	return fmt.Sprintf(
		"Hola,\n\nTu pedido %s pasó de %q a %q.\nFechas: %s a %s\nDestino: %s\n\nABS Eventos",
		o.ID, previous, o.Status,
		o.StartDate.Format("2006-01-02"), o.EndDate.Format("2006-01-02"),
		o.DestinationLocation,
	)
}

func htmlBody(o *entity.Order, previous entity.OrderStatus) string {
	return fmt.Sprintf(
		"<p>Hola,</p><p>Tu pedido <b>%s</b> pasó de <i>%s</i> a <b>%s</b>.</p>"+
			"<p>Fechas: %s a %s<br>Destino: %s</p><p>ABS Eventos</p>",
		html.EscapeString(o.ID), html.EscapeString(string(previous)), html.EscapeString(string(o.Status)),
		o.StartDate.Format("2006-01-02"), o.EndDate.Format("2006-01-02"),
		html.EscapeString(o.DestinationLocation),
	)
}
