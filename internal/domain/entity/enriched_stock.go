package entity

import "github.com/shopspring/decimal"

// Nombres sustitutos cuando el catálogo no aporta datos.
const (
	PlaceholderProductNotFound    = "PRODUCT NOT FOUND"
	PlaceholderServiceUnavailable = "SERVICE UNAVAILABLE"
)

// StockTier clasificación del nivel de stock.
type StockTier string

const (
	StockTierOutOfStock StockTier = "OUT_OF_STOCK"
	StockTierLow        StockTier = "LOW"
	StockTierMedium     StockTier = "MEDIUM"
	StockTierHigh       StockTier = "HIGH"
)

// StockTierFor clasifica una cantidad: <=0 sin stock, 1..50 bajo, 51..100 medio, >100 alto.
func StockTierFor(quantity int) StockTier {
	switch {
	case quantity <= 0:
		return StockTierOutOfStock
	case quantity <= 50:
		return StockTierLow
	case quantity <= 100:
		return StockTierMedium
	default:
		return StockTierHigh
	}
}

// EnrichedStockView combinación (no persistida) de un StockRecord con los datos del catálogo
// o con un sustituto. TotalValue = UnitPrice × Quantity; nil si no hay precio.
type EnrichedStockView struct {
	RecordID      int64
	ProductID     int64
	Quantity      int
	ProductName   string
	UnitPrice     *decimal.Decimal
	TotalValue    *decimal.Decimal
	StockTier     StockTier
	CatalogStatus CatalogStatus
}

// NewEnrichedStockView arma la vista a partir del registro local y el resultado del catálogo.
// Nunca falla: ausencia o error remoto se traducen en el nombre sustituto correspondiente.
func NewEnrichedStockView(record *StockRecord, result CatalogResult) *EnrichedStockView {
	view := &EnrichedStockView{
		RecordID:      record.ID,
		ProductID:     record.ProductID,
		Quantity:      record.Quantity,
		StockTier:     StockTierFor(record.Quantity),
		CatalogStatus: result.Status,
	}
	switch {
	case result.Status == CatalogFound && result.Product != nil:
		view.ProductName = result.Product.Name
		if result.Product.UnitPrice != nil {
			price := *result.Product.UnitPrice
			total := price.Mul(decimal.NewFromInt(int64(record.Quantity)))
			view.UnitPrice = &price
			view.TotalValue = &total
		}
	case result.Status == CatalogAbsent:
		view.ProductName = PlaceholderProductNotFound
	default:
		view.ProductName = PlaceholderServiceUnavailable
	}
	return view
}
