package outbox

import (
	"context"

	"github.com/jhoicas/abs-rental-api/internal/application/ports"
	"github.com/jhoicas/abs-rental-api/pkg/logger"
)

var _ ports.EventPublisher = (*LogPublisher)(nil)

// LogPublisher solo registra los eventos. Se usa cuando no hay brokers configurados.
type LogPublisher struct {
	log *logger.Logger
}

func NewLogPublisher(log *logger.Logger) *LogPublisher {
	if log == nil {
		log = logger.Nop()
	}
	return &LogPublisher{log: log}
}

func (p *LogPublisher) Publish(_ context.Context, key string, payload []byte) error {
	p.log.Debug().Str("order_id", key).RawJSON("event", payload).Msg("evento de sincronización (sin broker)")
	return nil
}
