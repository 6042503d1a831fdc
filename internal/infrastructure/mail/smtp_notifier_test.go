package mail

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/gomail.v2"

	"github.com/jhoicas/abs-rental-api/internal/domain/entity"
)

type fakeSender struct {
	sent []*gomail.Message
	err  error
}

func (f *fakeSender) DialAndSend(m ...*gomail.Message) error {
	if f.err != nil {
		return f.err
	}
	f.sent = append(f.sent, m...)
	return nil
}

func sampleOrder() *entity.Order {
	return &entity.Order{
		ID:                  "ABS-X1Y2Z3",
		UserEmail:           "cliente@example.com",
		Status:              entity.StatusEnProceso,
		StartDate:           time.Date(2026, 6, 10, 0, 0, 0, 0, time.UTC),
		EndDate:             time.Date(2026, 6, 12, 0, 0, 0, 0, time.UTC),
		DestinationLocation: "Salón <Principal>",
	}
}

func TestSMTPNotifier_EnviaCorreo(t *testing.T) {
	s := &fakeSender{}
	n := NewNotifier(s, "abs@example.com", nil)

	require.NoError(t, n.OrderStatusChanged(context.Background(), sampleOrder(), entity.StatusPendiente))
	require.Len(t, s.sent, 1)

	m := s.sent[0]
	assert.Equal(t, []string{"cliente@example.com"}, m.GetHeader("To"))
	assert.Equal(t, []string{"Pedido ABS-X1Y2Z3: En Proceso"}, m.GetHeader("Subject"))
}

func TestHTMLBody_EscapaCampos(t *testing.T) {
	body := htmlBody(sampleOrder(), entity.StatusPendiente)
	assert.Contains(t, body, "Salón &lt;Principal&gt;", "el HTML debe escapar el destino")
	assert.Contains(t, plainBody(sampleOrder(), entity.StatusPendiente), "2026-06-10 a 2026-06-12")
}

func TestSMTPNotifier_SinEmailNoEnvia(t *testing.T) {
	s := &fakeSender{}
	o := sampleOrder()
	o.UserEmail = ""

	require.NoError(t, NewNotifier(s, "abs@example.com", nil).OrderStatusChanged(context.Background(), o, entity.StatusPendiente))
	assert.Empty(t, s.sent)
}

func TestSMTPNotifier_ErrorDeTransporte(t *testing.T) {
	s := &fakeSender{err: errors.New("conexión rechazada")}
	err := NewNotifier(s, "abs@example.com", nil).OrderStatusChanged(context.Background(), sampleOrder(), entity.StatusPendiente)
	assert.ErrorContains(t, err, "conexión rechazada")
}
