package events

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/segmentio/kafka-go"

	"github.com/jsuarez/inventario-api/internal/application/inventory"
	"github.com/jsuarez/inventario-api/internal/domain/entity"
	"github.com/jsuarez/inventario-api/pkg/logger"
)

var _ inventory.EventPublisher = (*KafkaPublisher)(nil)

// MessageWriter parte de *kafka.Writer que usa el publicador.
type MessageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// KafkaPublisher publica eventos de stock en Kafka (EVENTS_DRIVER=kafka).
// La clave del mensaje es el producto_id, así los eventos de un producto quedan en orden.
type KafkaPublisher struct {
	log    *logger.Logger
	writer MessageWriter
	topic  string
}

// NewKafkaPublisher crea el writer contra los brokers indicados.
func NewKafkaPublisher(log *logger.Logger, brokers []string, topic string) *KafkaPublisher {
	writer := &kafka.Writer{
		Addr:                   kafka.TCP(brokers...),
		Topic:                  topic,
		Balancer:               &kafka.Hash{},
		AllowAutoTopicCreation: true,
	}
	return NewKafkaPublisherWithWriter(log, writer, topic)
}

// NewKafkaPublisherWithWriter permite inyectar el writer (tests).
func NewKafkaPublisherWithWriter(log *logger.Logger, writer MessageWriter, topic string) *KafkaPublisher {
	return &KafkaPublisher{log: log.Named("kafka_publisher"), writer: writer, topic: topic}
}

// Close cierra el writer.
func (p *KafkaPublisher) Close() error {
	return p.writer.Close()
}

// Publish serializa el evento a JSON y lo envía.
func (p *KafkaPublisher) Publish(ctx context.Context, e entity.StockEvent) error {
	value, err := json.Marshal(newPayload(e))
	if err != nil {
		return fmt.Errorf("kafka: serializar evento: %w", err)
	}

	msg := kafka.Message{
		Key:   []byte(strconv.FormatInt(e.ProductID, 10)),
		Value: value,
		Headers: []kafka.Header{
			{Key: "event_type", Value: []byte(e.Type)},
		},
	}
	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		p.log.Error().Err(err).Str("topic", p.topic).Int64("producto_id", e.ProductID).Msg("no se pudo publicar el evento")
		return fmt.Errorf("kafka: publicar evento: %w", err)
	}

	p.log.Debug().Str("topic", p.topic).Str("event_type", string(e.Type)).Int64("producto_id", e.ProductID).Msg("evento publicado")
	return nil
}
