//go:build integration

package mongo_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	tc "github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/mongodb"

	"github.com/jsuarez/inventario-api/internal/domain"
	"github.com/jsuarez/inventario-api/internal/domain/entity"
	mongostore "github.com/jsuarez/inventario-api/internal/infrastructure/mongo"
)

func TestStockRepository_Mongo(t *testing.T) {
	if testing.Short() {
		t.Skip("integración omitida con -short")
	}
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Minute)
	defer cancel()

	container, err := mongodb.Run(ctx, "mongo:6")
	require.NoError(t, err)
	defer func() { _ = tc.TerminateContainer(container) }()

	uri, err := container.ConnectionString(ctx)
	require.NoError(t, err)

	client, err := mongostore.Connect(ctx, uri)
	require.NoError(t, err)
	defer func() { _ = client.Disconnect(context.Background()) }()

	repo, err := mongostore.NewStockRepository(ctx, client, "inventario_test")
	require.NoError(t, err)

	t.Run("save assigns sequential ids and upserts", func(t *testing.T) {
		a, err := repo.Save(ctx, entity.NewStockRecord(10, 100))
		require.NoError(t, err)
		b, err := repo.Save(ctx, entity.NewStockRecord(20, 5))
		require.NoError(t, err)
		assert.Equal(t, a.ID+1, b.ID)

		again, err := repo.Save(ctx, entity.NewStockRecord(10, 60))
		require.NoError(t, err)
		assert.Equal(t, a.ID, again.ID)
		assert.Equal(t, 60, again.Quantity)
	})

	t.Run("paged in id order", func(t *testing.T) {
		page, err := repo.FindAllPaged(ctx, entity.PageRequest{Number: 0, Size: 1})
		require.NoError(t, err)
		require.Len(t, page.Items, 1)
		assert.Equal(t, int64(10), page.Items[0].ProductID)
		assert.Equal(t, int64(2), page.TotalElements)
		assert.False(t, page.Last)
	})

	t.Run("concurrent updates are serialized", func(t *testing.T) {
		var wg sync.WaitGroup
		for i := 0; i < 10; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				_, err := repo.Update(ctx, 10, func(r *entity.StockRecord) error {
					r.Quantity -= 6
					return nil
				})
				assert.NoError(t, err)
			}()
		}
		wg.Wait()
		rec, err := repo.FindByProductID(ctx, 10)
		require.NoError(t, err)
		assert.Equal(t, 0, rec.Quantity)
	})

	t.Run("update absent and delete", func(t *testing.T) {
		_, err := repo.Update(ctx, 999, func(*entity.StockRecord) error { return nil })
		assert.ErrorIs(t, err, domain.ErrNotFound)

		rec, err := repo.FindByProductID(ctx, 20)
		require.NoError(t, err)
		require.NoError(t, repo.Delete(ctx, rec))
		exists, err := repo.ExistsByProductID(ctx, 20)
		require.NoError(t, err)
		assert.False(t, exists)
	})
}
