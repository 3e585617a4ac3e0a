package entity

import "github.com/shopspring/decimal"

// ProductSnapshot datos de un producto tal como los devuelve el catálogo remoto.
// Solo lectura: nunca se persiste en este servicio. UnitPrice puede ser nil.
type ProductSnapshot struct {
	ProductID int64
	Name      string
	UnitPrice *decimal.Decimal
}
