package repository

import (
	"context"

	"github.com/jsuarez/inventario-api/internal/domain/entity"
)

// StockRepository define el puerto de persistencia de registros de stock, indexados por ProductID.
// Las implementaciones garantizan unicidad de ProductID y cantidad >= 0 en su propio esquema.
type StockRepository interface {
	// FindByProductID devuelve (nil, nil) si no existe registro para el producto.
	FindByProductID(ctx context.Context, productID int64) (*entity.StockRecord, error)
	ExistsByProductID(ctx context.Context, productID int64) (bool, error)
	// Save inserta (ID == 0) o sobrescribe el registro del producto y devuelve el estado persistido.
	Save(ctx context.Context, record *entity.StockRecord) (*entity.StockRecord, error)
	Delete(ctx context.Context, record *entity.StockRecord) error
	FindAll(ctx context.Context) ([]*entity.StockRecord, error)
	// FindAllPaged ordena por ID ascendente.
	FindAllPaged(ctx context.Context, req entity.PageRequest) (*entity.Page[*entity.StockRecord], error)
	// Update lee el registro con bloqueo (lectura-modificación-escritura atómica por producto),
	// aplica fn y persiste el resultado si fn no devuelve error.
	// Devuelve domain.ErrNotFound si no hay registro.
	Update(ctx context.Context, productID int64, fn func(record *entity.StockRecord) error) (*entity.StockRecord, error)
}
