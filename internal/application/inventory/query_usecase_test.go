package inventory_test

import (
	"context"
	"fmt"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/jsuarez/inventario-api/internal/domain"
	"github.com/jsuarez/inventario-api/internal/domain/entity"
)

func TestEnrich_CatalogFound(t *testing.T) {
	f := newFixture(t)
	f.seed(t, 10, 100)
	f.catalog.On("Lookup", mock.Anything, int64(10)).Return(widget(10, "50.00")).Once()

	view, err := f.query.Enrich(context.Background(), 10)

	require.NoError(t, err)
	assert.Equal(t, 100, view.Quantity)
	assert.Equal(t, "Widget", view.ProductName)
	require.NotNil(t, view.UnitPrice)
	require.NotNil(t, view.TotalValue)
	assert.True(t, decimal.RequireFromString("5000.00").Equal(*view.TotalValue), "total = %s", view.TotalValue)
	assert.Equal(t, entity.StockTierMedium, view.StockTier)
	assert.Equal(t, entity.CatalogFound, view.CatalogStatus)
}

func TestEnrich_CatalogTransportError(t *testing.T) {
	f := newFixture(t)
	f.seed(t, 10, 100)
	f.catalog.On("Lookup", mock.Anything, int64(10)).Return(entity.TransportFailure(errTimeout)).Once()

	view, err := f.query.Enrich(context.Background(), 10)

	require.NoError(t, err)
	assert.Equal(t, entity.PlaceholderServiceUnavailable, view.ProductName)
	assert.Nil(t, view.UnitPrice)
	assert.Nil(t, view.TotalValue)
	assert.Equal(t, entity.StockTierMedium, view.StockTier)
}

func TestEnrich_CatalogAbsent(t *testing.T) {
	f := newFixture(t)
	f.seed(t, 10, 3)
	f.catalog.On("Lookup", mock.Anything, int64(10)).Return(entity.AbsentUpstream()).Once()

	view, err := f.query.Enrich(context.Background(), 10)

	require.NoError(t, err)
	assert.Equal(t, entity.PlaceholderProductNotFound, view.ProductName)
	assert.Nil(t, view.UnitPrice)
	assert.Nil(t, view.TotalValue)
	assert.Equal(t, entity.StockTierLow, view.StockTier)
}

func TestEnrich_FoundWithoutPrice(t *testing.T) {
	f := newFixture(t)
	f.seed(t, 10, 0)
	f.catalog.On("Lookup", mock.Anything, int64(10)).
		Return(entity.Found(&entity.ProductSnapshot{ProductID: 10, Name: "Sin precio"})).Once()

	view, err := f.query.Enrich(context.Background(), 10)

	require.NoError(t, err)
	assert.Equal(t, "Sin precio", view.ProductName)
	assert.Nil(t, view.TotalValue)
	assert.Equal(t, entity.StockTierOutOfStock, view.StockTier)
}

func TestEnrich_RecordAbsentSkipsCatalog(t *testing.T) {
	f := newFixture(t)

	view, err := f.query.Enrich(context.Background(), 10)

	assert.Nil(t, view)
	assert.ErrorIs(t, err, domain.ErrNotFound)
	f.catalog.AssertNotCalled(t, "Lookup", mock.Anything, mock.Anything)
}

func TestEnrichPage_IndependentOutcomesInStoreOrder(t *testing.T) {
	f := newFixture(t)
	for id := int64(1); id <= 6; id++ {
		f.seed(t, id, int(id)*30)
	}
	f.catalog.On("Lookup", mock.Anything, int64(1)).Return(widget(1, "1"))
	f.catalog.On("Lookup", mock.Anything, int64(2)).Return(entity.TransportFailure(errTimeout))
	f.catalog.On("Lookup", mock.Anything, int64(3)).Return(entity.AbsentUpstream())
	f.catalog.On("Lookup", mock.Anything, int64(4)).Return(widget(4, "2"))

	page, err := f.query.EnrichPage(context.Background(), entity.PageRequest{Number: 0, Size: 4})

	require.NoError(t, err)
	require.Len(t, page.Items, 4)
	for i, v := range page.Items {
		assert.Equal(t, int64(i+1), v.ProductID, "orden del store")
	}
	assert.Equal(t, "Widget", page.Items[0].ProductName)
	assert.Equal(t, entity.PlaceholderServiceUnavailable, page.Items[1].ProductName)
	assert.Equal(t, entity.PlaceholderProductNotFound, page.Items[2].ProductName)
	assert.Equal(t, "Widget", page.Items[3].ProductName)
	assert.True(t, decimal.NewFromInt(240).Equal(*page.Items[3].TotalValue))

	assert.Equal(t, int64(6), page.TotalElements)
	assert.Equal(t, 4, page.Size)
	assert.Equal(t, 2, page.TotalPages)
	assert.True(t, page.First)
	assert.False(t, page.Last)
}

func TestEnrichPage_Empty(t *testing.T) {
	f := newFixture(t)

	page, err := f.query.EnrichPage(context.Background(), entity.PageRequest{Number: 0, Size: 10})

	require.NoError(t, err)
	assert.Empty(t, page.Items)
	assert.Equal(t, int64(0), page.TotalElements)
	assert.True(t, page.Last)
}

func TestEnrichPage_PageBeyondRange(t *testing.T) {
	f := newFixture(t)
	f.seed(t, 1, 5)
	f.seed(t, 2, 7)

	var page *entity.Page[*entity.EnrichedStockView]
	var err error
	require.NotPanics(t, func() {
		page, err = f.query.EnrichPage(context.Background(), entity.PageRequest{Number: 922337203685477581, Size: 10})
	})

	require.NoError(t, err)
	assert.Empty(t, page.Items)
	assert.Equal(t, int64(2), page.TotalElements)
	assert.True(t, page.Last)
	f.catalog.AssertNotCalled(t, "Lookup", mock.Anything, mock.Anything)
}

func TestStockTierFor_Boundaries(t *testing.T) {
	cases := []struct {
		quantity int
		want     entity.StockTier
	}{
		{0, entity.StockTierOutOfStock},
		{1, entity.StockTierLow},
		{50, entity.StockTierLow},
		{51, entity.StockTierMedium},
		{100, entity.StockTierMedium},
		{101, entity.StockTierHigh},
	}
	for _, tc := range cases {
		t.Run(fmt.Sprintf("q=%d", tc.quantity), func(t *testing.T) {
			assert.Equal(t, tc.want, entity.StockTierFor(tc.quantity))
		})
	}
}

func TestGetByProductID(t *testing.T) {
	f := newFixture(t)
	f.seed(t, 8, 4)

	rec, err := f.query.GetByProductID(context.Background(), 8)
	require.NoError(t, err)
	assert.Equal(t, 4, rec.Quantity)

	_, err = f.query.GetByProductID(context.Background(), 9)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
