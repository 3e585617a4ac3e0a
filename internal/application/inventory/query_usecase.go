package inventory

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/jsuarez/inventario-api/internal/domain"
	"github.com/jsuarez/inventario-api/internal/domain/entity"
	"github.com/jsuarez/inventario-api/internal/domain/repository"
	"github.com/jsuarez/inventario-api/pkg/logger"
)

const defaultConcurrency = 4

// StockQueryUseCase lecturas de stock, crudas o enriquecidas con el catálogo.
type StockQueryUseCase struct {
	repo        repository.StockRepository
	catalog     CatalogClient
	log         *logger.Logger
	concurrency int
}

// NewStockQueryUseCase construye el caso de uso. concurrency limita las consultas simultáneas
// al catálogo al enriquecer una página (<= 0 usa el valor por defecto).
func NewStockQueryUseCase(
	repo repository.StockRepository,
	catalog CatalogClient,
	log *logger.Logger,
	concurrency int,
) *StockQueryUseCase {
	if log == nil {
		log = logger.Nop()
	}
	if concurrency <= 0 {
		concurrency = defaultConcurrency
	}
	return &StockQueryUseCase{
		repo:        repo,
		catalog:     catalog,
		log:         log.Named("stock_query"),
		concurrency: concurrency,
	}
}

// GetByProductID devuelve el registro local sin consultar el catálogo.
func (uc *StockQueryUseCase) GetByProductID(ctx context.Context, productID int64) (*entity.StockRecord, error) {
	record, err := uc.repo.FindByProductID(ctx, productID)
	if err != nil {
		return nil, err
	}
	if record == nil {
		return nil, domain.ErrNotFound
	}
	return record, nil
}

// ListAll devuelve todos los registros locales.
func (uc *StockQueryUseCase) ListAll(ctx context.Context) ([]*entity.StockRecord, error) {
	return uc.repo.FindAll(ctx)
}

// Enrich combina el registro local con el catálogo. Si no hay registro devuelve ErrNotFound
// sin llamar al catálogo; en cualquier otro caso la vista siempre se completa.
func (uc *StockQueryUseCase) Enrich(ctx context.Context, productID int64) (*entity.EnrichedStockView, error) {
	record, err := uc.repo.FindByProductID(ctx, productID)
	if err != nil {
		return nil, err
	}
	if record == nil {
		return nil, domain.ErrNotFound
	}
	return uc.enrichRecord(ctx, record), nil
}

// EnrichPage lee una página del store y enriquece cada registro de forma independiente.
// El orden y los metadatos de la página se conservan.
func (uc *StockQueryUseCase) EnrichPage(ctx context.Context, req entity.PageRequest) (*entity.Page[*entity.EnrichedStockView], error) {
	page, err := uc.repo.FindAllPaged(ctx, req)
	if err != nil {
		return nil, err
	}

	views := make([]*entity.EnrichedStockView, len(page.Items))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(uc.concurrency)
	for i, record := range page.Items {
		g.Go(func() error {
			views[i] = uc.enrichRecord(gctx, record)
			return nil
		})
	}
	_ = g.Wait() // enrichRecord no devuelve error

	return &entity.Page[*entity.EnrichedStockView]{
		Items:         views,
		Number:        page.Number,
		Size:          page.Size,
		TotalElements: page.TotalElements,
		TotalPages:    page.TotalPages,
		First:         page.First,
		Last:          page.Last,
	}, nil
}

func (uc *StockQueryUseCase) enrichRecord(ctx context.Context, record *entity.StockRecord) *entity.EnrichedStockView {
	result := uc.catalog.Lookup(ctx, record.ProductID)
	switch result.Status {
	case entity.CatalogAbsent:
		uc.log.Warn().Int64("producto_id", record.ProductID).Msg("producto ausente en el catálogo")
	case entity.CatalogTransportError:
		uc.log.Warn().Err(result.Err).Int64("producto_id", record.ProductID).Msg("catálogo no disponible, se usa sustituto")
	}
	return entity.NewEnrichedStockView(record, result)
}
