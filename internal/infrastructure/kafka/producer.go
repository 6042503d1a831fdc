package kafka

import (
	"context"
	"fmt"

	"github.com/IBM/sarama"

	"github.com/jhoicas/abs-rental-api/internal/application/ports"
	"github.com/jhoicas/abs-rental-api/pkg/logger"
)

var _ ports.EventPublisher = (*Producer)(nil)

// Producer publica los eventos de la bandeja de salida en un tópico Kafka.
// La clave es el ID del pedido, así todos sus eventos caen en la misma partición.
type Producer struct {
	syncProducer sarama.SyncProducer
	topic        string
	log          *logger.Logger
}

func NewProducer(syncProducer sarama.SyncProducer, topic string, log *logger.Logger) *Producer {
	if log == nil {
		log = logger.Nop()
	}
	return &Producer{syncProducer: syncProducer, topic: topic, log: log.Component("kafka")}
}

// NewSyncProducer arma un productor síncrono con acuse de todas las réplicas.
func NewSyncProducer(brokers []string) (sarama.SyncProducer, error) {
	cfg := sarama.NewConfig()
	cfg.Producer.RequiredAcks = sarama.WaitForAll
	cfg.Producer.Return.Successes = true
	cfg.Producer.Retry.Max = 3

	p, err := sarama.NewSyncProducer(brokers, cfg)
	if err != nil {
		return nil, fmt.Errorf("crear productor kafka: %w", err)
	}
	return p, nil
}

func (p *Producer) Publish(ctx context.Context, key string, payload []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	partition, offset, err := p.syncProducer.SendMessage(&sarama.ProducerMessage{
		Topic: p.topic,
		Key:   sarama.StringEncoder(key),
		Value: sarama.ByteEncoder(payload),
	})
	if err != nil {
		return fmt.Errorf("publicar en %s: %w", p.topic, err)
	}

	p.log.Debug().
		Str("topic", p.topic).
		Str("key", key).
		Int32("partition", partition).
		Int64("offset", offset).
		Msg("evento publicado")
	return nil
}

func (p *Producer) Close() error {
	return p.syncProducer.Close()
}
