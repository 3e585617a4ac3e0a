package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/jsuarez/inventario-api/internal/domain/entity"
)

// StockRequest body para POST /api/v1/inventario y /con-validacion.
type StockRequest struct {
	ProductID int64 `json:"producto_id" validate:"required,gt=0"`
	Quantity  *int  `json:"cantidad" validate:"required,gte=0"`
}

// StockResponse registro de stock sin enriquecer.
type StockResponse struct {
	ID        int64     `json:"id"`
	ProductID int64     `json:"producto_id"`
	Quantity  int       `json:"cantidad"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// EnrichedStockResponse stock combinado con los datos del catálogo.
type EnrichedStockResponse struct {
	ID             int64            `json:"id"`
	ProductID      int64            `json:"producto_id"`
	Quantity       int              `json:"cantidad"`
	ProductName    string           `json:"nombre_producto"`
	UnitPrice      *decimal.Decimal `json:"precio_unitario"`
	TotalValue     *decimal.Decimal `json:"valor_total"`
	StockTier      string           `json:"estado_stock"`
	CatalogOutcome string           `json:"catalogo"`
}

// PurchaseResponse resultado de PUT /producto/{id}/compra.
type PurchaseResponse struct {
	ID                int64  `json:"id"`
	ProductID         int64  `json:"producto_id"`
	ProductName       string `json:"nombre_producto"`
	QuantityRequested int    `json:"cantidad_comprada"`
	QuantityRemaining int    `json:"cantidad_restante"`
	Status            string `json:"estado"`
	Message           string `json:"mensaje"`
}

// ToStockResponse convierte la entidad.
func ToStockResponse(r *entity.StockRecord) StockResponse {
	return StockResponse{
		ID:        r.ID,
		ProductID: r.ProductID,
		Quantity:  r.Quantity,
		CreatedAt: r.CreatedAt,
		UpdatedAt: r.UpdatedAt,
	}
}

// ToEnrichedStockResponse convierte la vista enriquecida.
func ToEnrichedStockResponse(v *entity.EnrichedStockView) EnrichedStockResponse {
	return EnrichedStockResponse{
		ID:             v.RecordID,
		ProductID:      v.ProductID,
		Quantity:       v.Quantity,
		ProductName:    v.ProductName,
		UnitPrice:      v.UnitPrice,
		TotalValue:     v.TotalValue,
		StockTier:      string(v.StockTier),
		CatalogOutcome: v.CatalogStatus.String(),
	}
}

// ToPurchaseResponse convierte el resultado de la compra.
func ToPurchaseResponse(p *entity.PurchaseResult) PurchaseResponse {
	return PurchaseResponse{
		ID:                p.RecordID,
		ProductID:         p.ProductID,
		ProductName:       p.ProductName,
		QuantityRequested: p.QuantityRequested,
		QuantityRemaining: p.QuantityRemaining,
		Status:            p.Status,
		Message:           p.Message,
	}
}

// ToPageMeta traduce la página del store (0-based) a metadatos 1-based.
func ToPageMeta[T any](p *entity.Page[T]) *PageMeta {
	return &PageMeta{
		Page:          p.Number + 1,
		Size:          p.Size,
		TotalElements: p.TotalElements,
		TotalPages:    p.TotalPages,
		First:         p.First,
		Last:          p.Last,
	}
}
