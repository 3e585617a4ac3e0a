package events

import (
	"time"

	"github.com/jsuarez/inventario-api/internal/domain/entity"
)

const eventVersion = 1

// stockEventPayload forma JSON de un StockEvent en el topic.
type stockEventPayload struct {
	EventID      string `json:"event_id"`
	EventType    string `json:"event_type"`
	EventVersion int    `json:"event_version"`
	OccurredAt   string `json:"occurred_at"`
	ProductID    int64  `json:"producto_id"`
	Quantity     int    `json:"cantidad"`
	Delta        int    `json:"cantidad_comprada,omitempty"`
}

func newPayload(e entity.StockEvent) stockEventPayload {
	return stockEventPayload{
		EventID:      e.ID,
		EventType:    string(e.Type),
		EventVersion: eventVersion,
		OccurredAt:   e.OccurredAt.UTC().Format(time.RFC3339),
		ProductID:    e.ProductID,
		Quantity:     e.Quantity,
		Delta:        e.Delta,
	}
}
