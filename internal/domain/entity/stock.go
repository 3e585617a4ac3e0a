package entity

import "time"

// StockRecord cantidad disponible de un producto (tabla inventario).
// ProductID es único; Quantity nunca es negativa.
type StockRecord struct {
	ID        int64 // asignado por el store
	ProductID int64
	Quantity  int
	CreatedAt time.Time
	UpdatedAt time.Time
}

// NewStockRecord construye un registro sin persistir (ID = 0).
func NewStockRecord(productID int64, quantity int) *StockRecord {
	return &StockRecord{ProductID: productID, Quantity: quantity}
}

// Clone devuelve una copia independiente del registro.
func (s *StockRecord) Clone() *StockRecord {
	if s == nil {
		return nil
	}
	c := *s
	return &c
}
