package inventory

import (
	"context"

	"github.com/jsuarez/inventario-api/internal/domain/entity"
)

// CatalogClient consulta síncrona al microservicio de productos.
// Nunca devuelve error: el resultado distingue encontrado, ausente y fallo de transporte.
type CatalogClient interface {
	Lookup(ctx context.Context, productID int64) entity.CatalogResult
	Exists(ctx context.Context, productID int64) entity.CatalogResult
}

// EventPublisher publica cambios de stock ya confirmados.
type EventPublisher interface {
	Publish(ctx context.Context, event entity.StockEvent) error
}

// NopPublisher descarta los eventos.
type NopPublisher struct{}

// Publish no hace nada.
func (NopPublisher) Publish(context.Context, entity.StockEvent) error { return nil }
