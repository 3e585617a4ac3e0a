package events_test

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jsuarez/inventario-api/internal/domain/entity"
	"github.com/jsuarez/inventario-api/internal/infrastructure/events"
	"github.com/jsuarez/inventario-api/pkg/logger"
)

type fakeWriter struct {
	msgs   []kafka.Message
	err    error
	closed bool
}

func (w *fakeWriter) WriteMessages(_ context.Context, msgs ...kafka.Message) error {
	if w.err != nil {
		return w.err
	}
	w.msgs = append(w.msgs, msgs...)
	return nil
}

func (w *fakeWriter) Close() error {
	w.closed = true
	return nil
}

func TestKafkaPublisher_Publish(t *testing.T) {
	w := &fakeWriter{}
	p := events.NewKafkaPublisherWithWriter(logger.Nop(), w, "inventory.stock")
	at := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)

	err := p.Publish(context.Background(), entity.StockEvent{
		ID:         "ev-1",
		Type:       entity.StockEventPurchased,
		ProductID:  10,
		Quantity:   75,
		Delta:      25,
		OccurredAt: at,
	})

	require.NoError(t, err)
	require.Len(t, w.msgs, 1)
	assert.Equal(t, "10", string(w.msgs[0].Key))

	var body map[string]any
	require.NoError(t, json.Unmarshal(w.msgs[0].Value, &body))
	assert.Equal(t, "ev-1", body["event_id"])
	assert.Equal(t, "inventory.stock.purchased", body["event_type"])
	assert.Equal(t, "2026-03-01T10:00:00Z", body["occurred_at"])
	assert.EqualValues(t, 10, body["producto_id"])
	assert.EqualValues(t, 75, body["cantidad"])
	assert.EqualValues(t, 25, body["cantidad_comprada"])

	require.NoError(t, p.Close())
	assert.True(t, w.closed)
}

func TestKafkaPublisher_WriteError(t *testing.T) {
	w := &fakeWriter{err: errors.New("leader not available")}
	p := events.NewKafkaPublisherWithWriter(logger.Nop(), w, "inventory.stock")

	err := p.Publish(context.Background(), entity.StockEvent{ID: "x", Type: entity.StockEventDeleted, ProductID: 1})

	assert.ErrorContains(t, err, "leader not available")
}

func TestLogPublisher_NeverFails(t *testing.T) {
	p := events.NewLogPublisher(logger.Nop())
	assert.NoError(t, p.Publish(context.Background(), entity.StockEvent{ID: "x", Type: entity.StockEventSaved}))
}
