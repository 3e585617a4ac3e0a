package events

import (
	"context"

	"github.com/jsuarez/inventario-api/internal/application/inventory"
	"github.com/jsuarez/inventario-api/internal/domain/entity"
	"github.com/jsuarez/inventario-api/pkg/logger"
)

var _ inventory.EventPublisher = (*LogPublisher)(nil)

// LogPublisher escribe los eventos de stock en el log (EVENTS_DRIVER=log).
type LogPublisher struct {
	log *logger.Logger
}

// NewLogPublisher construye el publicador.
func NewLogPublisher(log *logger.Logger) *LogPublisher {
	return &LogPublisher{log: log.Named("stock_events")}
}

// Publish nunca falla.
func (p *LogPublisher) Publish(_ context.Context, e entity.StockEvent) error {
	p.log.Info().
		Str("event_id", e.ID).
		Str("event_type", string(e.Type)).
		Int64("producto_id", e.ProductID).
		Int("cantidad", e.Quantity).
		Int("delta", e.Delta).
		Time("occurred_at", e.OccurredAt).
		Msg("evento de stock")
	return nil
}
