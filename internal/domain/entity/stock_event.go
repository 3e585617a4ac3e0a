package entity

import "time"

// StockEventType tipo de cambio de inventario.
type StockEventType string

const (
	StockEventSaved       StockEventType = "inventory.stock.saved"
	StockEventQuantitySet StockEventType = "inventory.stock.quantity_set"
	StockEventPurchased   StockEventType = "inventory.stock.purchased"
	StockEventDeleted     StockEventType = "inventory.stock.deleted"
)

// StockEvent notificación emitida después de confirmar una mutación.
type StockEvent struct {
	ID         string
	Type       StockEventType
	ProductID  int64
	Quantity   int
	Delta      int // cantidad comprada en StockEventPurchased
	OccurredAt time.Time
}
