package entity

import "fmt"

// Estado y mensaje de una compra procesada.
const (
	PurchaseStatusSuccess  = "SUCCESS"
	PurchaseMessageSuccess = "compra procesada correctamente"
)

// PurchaseResult resumen de una deducción por compra ya confirmada en el store.
type PurchaseResult struct {
	RecordID          int64
	ProductID         int64
	ProductName       string
	QuantityRequested int
	QuantityRemaining int
	Status            string
	Message           string
}

// FallbackProductName nombre usado en la respuesta de compra cuando el catálogo no responde.
func FallbackProductName(productID int64) string {
	return fmt.Sprintf("Product ID %d", productID)
}
