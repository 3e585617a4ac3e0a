package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/jsuarez/inventario-api/internal/domain"
	"github.com/jsuarez/inventario-api/internal/domain/entity"
	"github.com/jsuarez/inventario-api/internal/domain/repository"
)

// StockRepository store en memoria (DB_DRIVER=memory y tests). Un mutex serializa
// todas las escrituras, así Update es atómico por producto.
type StockRepository struct {
	mu      sync.RWMutex
	byID    map[int64]*entity.StockRecord // clave: ProductID
	nextID  int64
	nowFunc func() time.Time
}

// NewStockRepository crea un store vacío.
func NewStockRepository() *StockRepository {
	return &StockRepository{
		byID:    make(map[int64]*entity.StockRecord),
		nowFunc: time.Now,
	}
}

var _ repository.StockRepository = (*StockRepository)(nil)

func (r *StockRepository) FindByProductID(_ context.Context, productID int64) (*entity.StockRecord, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	rec, ok := r.byID[productID]
	if !ok {
		return nil, nil
	}
	return rec.Clone(), nil
}

func (r *StockRepository) ExistsByProductID(_ context.Context, productID int64) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.byID[productID]
	return ok, nil
}

func (r *StockRepository) Save(_ context.Context, record *entity.StockRecord) (*entity.StockRecord, error) {
	if record.Quantity < 0 {
		return nil, domain.NewValidationError("cantidad", "no puede ser negativa")
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.saveLocked(record), nil
}

func (r *StockRepository) Delete(_ context.Context, record *entity.StockRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.byID, record.ProductID)
	return nil
}

func (r *StockRepository) FindAll(_ context.Context) ([]*entity.StockRecord, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.sortedLocked(), nil
}

func (r *StockRepository) FindAllPaged(_ context.Context, req entity.PageRequest) (*entity.Page[*entity.StockRecord], error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	all := r.sortedLocked()
	start := req.Offset()
	if start < 0 || start > len(all) {
		start = len(all)
	}
	end := len(all)
	if req.Size >= 0 && req.Size < end-start {
		end = start + req.Size
	}
	return entity.NewPage(all[start:end], req, int64(len(all))), nil
}

func (r *StockRepository) Update(_ context.Context, productID int64, fn func(record *entity.StockRecord) error) (*entity.StockRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	current, ok := r.byID[productID]
	if !ok {
		return nil, domain.ErrNotFound
	}
	working := current.Clone()
	if err := fn(working); err != nil {
		return nil, err
	}
	if working.Quantity < 0 {
		return nil, domain.NewValidationError("cantidad", "no puede ser negativa")
	}
	return r.saveLocked(working), nil
}

func (r *StockRepository) saveLocked(record *entity.StockRecord) *entity.StockRecord {
	now := r.nowFunc()
	stored := record.Clone()
	if existing, ok := r.byID[record.ProductID]; ok {
		stored.ID = existing.ID
		stored.CreatedAt = existing.CreatedAt
	} else {
		r.nextID++
		stored.ID = r.nextID
		stored.CreatedAt = now
	}
	stored.UpdatedAt = now
	r.byID[stored.ProductID] = stored
	return stored.Clone()
}

func (r *StockRepository) sortedLocked() []*entity.StockRecord {
	out := make([]*entity.StockRecord, 0, len(r.byID))
	for _, rec := range r.byID {
		out = append(out, rec.Clone())
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}
