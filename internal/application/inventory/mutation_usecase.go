package inventory

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/jsuarez/inventario-api/internal/domain"
	"github.com/jsuarez/inventario-api/internal/domain/entity"
	"github.com/jsuarez/inventario-api/internal/domain/repository"
	"github.com/jsuarez/inventario-api/pkg/logger"
)

// StockMutationUseCase altas, ajustes, compras y bajas de stock.
// Cada operación es una sola lectura-modificación-escritura contra el store; la atomicidad
// por producto la aporta repository.StockRepository.Update.
type StockMutationUseCase struct {
	repo      repository.StockRepository
	catalog   CatalogClient
	query     *StockQueryUseCase
	publisher EventPublisher
	log       *logger.Logger
	now       func() time.Time
}

// NewStockMutationUseCase construye el caso de uso. publisher puede ser nil.
func NewStockMutationUseCase(
	repo repository.StockRepository,
	catalog CatalogClient,
	query *StockQueryUseCase,
	publisher EventPublisher,
	log *logger.Logger,
) *StockMutationUseCase {
	if log == nil {
		log = logger.Nop()
	}
	if publisher == nil {
		publisher = NopPublisher{}
	}
	return &StockMutationUseCase{
		repo:      repo,
		catalog:   catalog,
		query:     query,
		publisher: publisher,
		log:       log.Named("stock_mutation"),
		now:       time.Now,
	}
}

// Upsert sobrescribe la cantidad del producto o crea el registro si no existe.
func (uc *StockMutationUseCase) Upsert(ctx context.Context, productID int64, quantity int) (*entity.StockRecord, error) {
	if err := validateProductID(productID); err != nil {
		return nil, err
	}
	if err := validateQuantity("cantidad", quantity); err != nil {
		return nil, err
	}

	record, err := uc.repo.FindByProductID(ctx, productID)
	if err != nil {
		return nil, err
	}
	if record == nil {
		record = entity.NewStockRecord(productID, quantity)
	} else {
		record.Quantity = quantity
	}

	saved, err := uc.repo.Save(ctx, record)
	if err != nil {
		return nil, err
	}
	uc.log.Info().Int64("producto_id", productID).Int("cantidad", saved.Quantity).Msg("stock guardado")
	uc.publish(ctx, entity.StockEventSaved, saved, 0)
	return saved, nil
}

// CreateWithValidation verifica primero que el producto exista en el catálogo.
// Ausente: ErrProductNotInCatalog (es un ErrNotFound) y el store no se toca.
// Fallo de transporte: ErrCatalogUnavailable. En este camino el fallo remoto no se absorbe.
func (uc *StockMutationUseCase) CreateWithValidation(ctx context.Context, productID int64, quantity int) (*entity.EnrichedStockView, error) {
	if err := validateProductID(productID); err != nil {
		return nil, err
	}
	if err := validateQuantity("cantidad", quantity); err != nil {
		return nil, err
	}

	result := uc.catalog.Exists(ctx, productID)
	switch result.Status {
	case entity.CatalogFound:
	case entity.CatalogAbsent:
		return nil, fmt.Errorf("producto %d: %w", productID, domain.ErrProductNotInCatalog)
	default:
		uc.log.Error().Err(result.Err).Int64("producto_id", productID).Msg("no se pudo verificar el producto en el catálogo")
		return nil, fmt.Errorf("%w: %v", domain.ErrCatalogUnavailable, result.Err)
	}

	if _, err := uc.Upsert(ctx, productID, quantity); err != nil {
		return nil, err
	}
	return uc.query.Enrich(ctx, productID)
}

// SetQuantity sobrescribe la cantidad de un registro existente. No consulta el catálogo.
func (uc *StockMutationUseCase) SetQuantity(ctx context.Context, productID int64, quantity int) (*entity.StockRecord, error) {
	if err := validateQuantity("cantidad", quantity); err != nil {
		return nil, err
	}

	updated, err := uc.repo.Update(ctx, productID, func(record *entity.StockRecord) error {
		record.Quantity = quantity
		return validateQuantity("cantidad", record.Quantity)
	})
	if err != nil {
		return nil, err
	}
	uc.log.Info().Int64("producto_id", productID).Int("cantidad", updated.Quantity).Msg("cantidad actualizada")
	uc.publish(ctx, entity.StockEventQuantitySet, updated, 0)
	return updated, nil
}

// DeductForPurchase descuenta la cantidad comprada. Devuelve *domain.InsufficientStockError si no alcanza.
// Confirmada la deducción, el nombre del producto se busca en el catálogo solo para la respuesta:
// si no está disponible se usa "Product ID {id}" y la compra no se revierte.
func (uc *StockMutationUseCase) DeductForPurchase(ctx context.Context, productID int64, requested int) (*entity.PurchaseResult, error) {
	if requested <= 0 {
		return nil, domain.NewValidationError("cantidadComprada", "debe ser mayor a 0")
	}

	updated, err := uc.repo.Update(ctx, productID, func(record *entity.StockRecord) error {
		if record.Quantity < requested {
			return &domain.InsufficientStockError{
				ProductID: productID,
				Available: record.Quantity,
				Requested: requested,
			}
		}
		record.Quantity -= requested
		return validateQuantity("cantidad", record.Quantity)
	})
	if err != nil {
		return nil, err
	}
	uc.log.Info().Int64("producto_id", productID).Int("comprado", requested).Int("restante", updated.Quantity).Msg("compra procesada")
	uc.publish(ctx, entity.StockEventPurchased, updated, requested)

	name := entity.FallbackProductName(productID)
	if result := uc.catalog.Lookup(ctx, productID); result.Status == entity.CatalogFound && result.Product != nil {
		name = result.Product.Name
	} else {
		uc.log.Warn().Err(result.Err).Int64("producto_id", productID).Str("catalogo", result.Status.String()).
			Msg("nombre de producto no disponible para la compra")
	}

	return &entity.PurchaseResult{
		RecordID:          updated.ID,
		ProductID:         productID,
		ProductName:       name,
		QuantityRequested: requested,
		QuantityRemaining: updated.Quantity,
		Status:            entity.PurchaseStatusSuccess,
		Message:           entity.PurchaseMessageSuccess,
	}, nil
}

// Remove elimina el registro si existe. Devuelve false, sin error, si no había nada que borrar.
func (uc *StockMutationUseCase) Remove(ctx context.Context, productID int64) (bool, error) {
	record, err := uc.repo.FindByProductID(ctx, productID)
	if err != nil {
		return false, err
	}
	if record == nil {
		return false, nil
	}
	if err := uc.repo.Delete(ctx, record); err != nil {
		return false, err
	}
	uc.log.Info().Int64("producto_id", productID).Msg("stock eliminado")
	uc.publish(ctx, entity.StockEventDeleted, record, 0)
	return true, nil
}

func (uc *StockMutationUseCase) publish(ctx context.Context, typ entity.StockEventType, record *entity.StockRecord, delta int) {
	event := entity.StockEvent{
		ID:         uuid.New().String(),
		Type:       typ,
		ProductID:  record.ProductID,
		Quantity:   record.Quantity,
		Delta:      delta,
		OccurredAt: uc.now().UTC(),
	}
	if err := uc.publisher.Publish(ctx, event); err != nil {
		uc.log.Warn().Err(err).Str("evento", string(typ)).Int64("producto_id", record.ProductID).Msg("no se pudo publicar el evento de stock")
	}
}

func validateProductID(productID int64) error {
	if productID <= 0 {
		return domain.NewValidationError("productoId", "debe ser un entero positivo")
	}
	return nil
}

func validateQuantity(field string, quantity int) error {
	if quantity < 0 {
		return domain.NewValidationError(field, "no puede ser negativa")
	}
	return nil
}
