package inventory_test

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/jsuarez/inventario-api/internal/application/inventory"
	"github.com/jsuarez/inventario-api/internal/domain/entity"
	"github.com/jsuarez/inventario-api/internal/infrastructure/memory"
	"github.com/jsuarez/inventario-api/pkg/logger"
)

var errTimeout = errors.New("dial tcp: i/o timeout")

type catalogMock struct {
	mock.Mock
}

func (m *catalogMock) Lookup(ctx context.Context, productID int64) entity.CatalogResult {
	args := m.Called(ctx, productID)
	return args.Get(0).(entity.CatalogResult)
}

func (m *catalogMock) Exists(ctx context.Context, productID int64) entity.CatalogResult {
	args := m.Called(ctx, productID)
	return args.Get(0).(entity.CatalogResult)
}

// spyStore cuenta las escrituras sobre el store en memoria.
type spyStore struct {
	*memory.StockRepository
	mu    sync.Mutex
	saves int
}

func (s *spyStore) Save(ctx context.Context, record *entity.StockRecord) (*entity.StockRecord, error) {
	s.mu.Lock()
	s.saves++
	s.mu.Unlock()
	return s.StockRepository.Save(ctx, record)
}

func (s *spyStore) saveCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.saves
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []entity.StockEvent
	err    error
}

func (p *recordingPublisher) Publish(_ context.Context, e entity.StockEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, e)
	return p.err
}

func (p *recordingPublisher) types() []entity.StockEventType {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]entity.StockEventType, len(p.events))
	for i, e := range p.events {
		out[i] = e.Type
	}
	return out
}

type fixture struct {
	store     *spyStore
	catalog   *catalogMock
	publisher *recordingPublisher
	query     *inventory.StockQueryUseCase
	mutation  *inventory.StockMutationUseCase
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	store := &spyStore{StockRepository: memory.NewStockRepository()}
	catalog := &catalogMock{}
	publisher := &recordingPublisher{}
	query := inventory.NewStockQueryUseCase(store, catalog, logger.Nop(), 3)
	mutation := inventory.NewStockMutationUseCase(store, catalog, query, publisher, logger.Nop())
	t.Cleanup(func() { catalog.AssertExpectations(t) })
	return &fixture{store: store, catalog: catalog, publisher: publisher, query: query, mutation: mutation}
}

func (f *fixture) seed(t *testing.T, productID int64, quantity int) *entity.StockRecord {
	t.Helper()
	rec, err := f.store.StockRepository.Save(context.Background(), entity.NewStockRecord(productID, quantity))
	require.NoError(t, err)
	return rec
}

func widget(productID int64, price string) entity.CatalogResult {
	p := decimal.RequireFromString(price)
	return entity.Found(&entity.ProductSnapshot{ProductID: productID, Name: "Widget", UnitPrice: &p})
}
