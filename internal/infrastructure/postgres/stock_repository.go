package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jsuarez/inventario-api/internal/domain"
	"github.com/jsuarez/inventario-api/internal/domain/entity"
	"github.com/jsuarez/inventario-api/internal/domain/repository"
)

var _ repository.StockRepository = (*StockRepo)(nil)

const stockColumns = `id, producto_id, cantidad, created_at, updated_at`

// StockRepo implementación de StockRepository sobre PostgreSQL (tabla inventario; usable con pool o tx).
type StockRepo struct {
	q Querier
}

// NewStockRepository construye el adaptador de stock. Pasar pool o tx (Querier).
func NewStockRepository(q Querier) *StockRepo {
	return &StockRepo{q: q}
}

func scanStock(row pgx.Row) (*entity.StockRecord, error) {
	var s entity.StockRecord
	if err := row.Scan(&s.ID, &s.ProductID, &s.Quantity, &s.CreatedAt, &s.UpdatedAt); err != nil {
		return nil, err
	}
	return &s, nil
}

// FindByProductID devuelve (nil, nil) si no hay fila.
func (r *StockRepo) FindByProductID(ctx context.Context, productID int64) (*entity.StockRecord, error) {
	query := `SELECT ` + stockColumns + ` FROM inventario WHERE producto_id = $1`
	s, err := scanStock(r.q.QueryRow(ctx, query, productID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get stock: %w", err)
	}
	return s, nil
}

func (r *StockRepo) ExistsByProductID(ctx context.Context, productID int64) (bool, error) {
	var exists bool
	err := r.q.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM inventario WHERE producto_id = $1)`, productID).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("exists stock: %w", err)
	}
	return exists, nil
}

// Save inserta o actualiza la cantidad (ON CONFLICT por producto_id) y devuelve la fila persistida.
func (r *StockRepo) Save(ctx context.Context, record *entity.StockRecord) (*entity.StockRecord, error) {
	query := `
		INSERT INTO inventario (producto_id, cantidad, created_at, updated_at)
		VALUES ($1, $2, now(), now())
		ON CONFLICT (producto_id)
		DO UPDATE SET cantidad = EXCLUDED.cantidad, updated_at = now()
		RETURNING ` + stockColumns
	s, err := scanStock(r.q.QueryRow(ctx, query, record.ProductID, record.Quantity))
	if err != nil {
		return nil, fmt.Errorf("upsert stock: %w", mapConstraintError(err))
	}
	return s, nil
}

func (r *StockRepo) Delete(ctx context.Context, record *entity.StockRecord) error {
	if _, err := r.q.Exec(ctx, `DELETE FROM inventario WHERE producto_id = $1`, record.ProductID); err != nil {
		return fmt.Errorf("delete stock: %w", err)
	}
	return nil
}

func (r *StockRepo) FindAll(ctx context.Context) ([]*entity.StockRecord, error) {
	rows, err := r.q.Query(ctx, `SELECT `+stockColumns+` FROM inventario ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("list stock: %w", err)
	}
	return collectStock(rows)
}

// FindAllPaged ordena por id y calcula el total con COUNT(*).
func (r *StockRepo) FindAllPaged(ctx context.Context, req entity.PageRequest) (*entity.Page[*entity.StockRecord], error) {
	var total int64
	if err := r.q.QueryRow(ctx, `SELECT COUNT(*) FROM inventario`).Scan(&total); err != nil {
		return nil, fmt.Errorf("count stock: %w", err)
	}
	rows, err := r.q.Query(ctx,
		`SELECT `+stockColumns+` FROM inventario ORDER BY id LIMIT $1 OFFSET $2`,
		req.Size, req.Offset())
	if err != nil {
		return nil, fmt.Errorf("page stock: %w", err)
	}
	items, err := collectStock(rows)
	if err != nil {
		return nil, err
	}
	return entity.NewPage(items, req, total), nil
}

// Update bloquea la fila (SELECT FOR UPDATE) dentro de una transacción, aplica fn y hace Commit.
// Si fn falla se hace Rollback y la fila queda intacta.
func (r *StockRepo) Update(ctx context.Context, productID int64, fn func(record *entity.StockRecord) error) (*entity.StockRecord, error) {
	var updated *entity.StockRecord
	err := runInTx(ctx, r.q, func(tx pgx.Tx) error {
		current, err := scanStock(tx.QueryRow(ctx,
			`SELECT `+stockColumns+` FROM inventario WHERE producto_id = $1 FOR UPDATE`, productID))
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return domain.ErrNotFound
			}
			return fmt.Errorf("get stock for update: %w", err)
		}
		if err := fn(current); err != nil {
			return err
		}
		updated, err = scanStock(tx.QueryRow(ctx,
			`UPDATE inventario SET cantidad = $2, updated_at = now() WHERE id = $1 RETURNING `+stockColumns,
			current.ID, current.Quantity))
		if err != nil {
			return fmt.Errorf("update stock: %w", mapConstraintError(err))
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

func collectStock(rows pgx.Rows) ([]*entity.StockRecord, error) {
	defer rows.Close()
	out := make([]*entity.StockRecord, 0)
	for rows.Next() {
		s, err := scanStock(rows)
		if err != nil {
			return nil, fmt.Errorf("scan stock: %w", err)
		}
		out = append(out, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate stock: %w", err)
	}
	return out, nil
}
