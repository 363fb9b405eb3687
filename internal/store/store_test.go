package store_test

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/heleneolivares/portfolio-evolution/internal/models"
	"github.com/heleneolivares/portfolio-evolution/internal/pagination"
	"github.com/heleneolivares/portfolio-evolution/internal/store"
	"github.com/heleneolivares/portfolio-evolution/internal/testutil"
)

func setupStore(t *testing.T) (*store.Store, *gorm.DB) {
	t.Helper()
	db := testutil.SetupTestDB(t)
	t.Cleanup(func() { testutil.TeardownTestDB(t, db) })
	return store.New(db), db
}

func TestDay(t *testing.T) {
	loc := time.FixedZone("UTC-3", -3*60*60)
	in := time.Date(2024, 1, 2, 23, 30, 0, 0, loc)
	assert.Equal(t, testutil.Date(2024, 1, 2), store.Day(in))
}

func TestGetOrCreateAsset(t *testing.T) {
	s, _ := setupStore(t)

	t.Run("creates_once", func(t *testing.T) {
		a1, err := s.GetOrCreateAsset("AAA")
		require.NoError(t, err)
		a2, err := s.GetOrCreateAsset("AAA")
		require.NoError(t, err)
		assert.Equal(t, a1.ID, a2.ID)

		n, err := s.Count(&models.Asset{})
		require.NoError(t, err)
		assert.Equal(t, int64(1), n)
	})

	t.Run("empty_ticker", func(t *testing.T) {
		_, err := s.GetOrCreateAsset("")
		testutil.AssertAppError(t, err, "INVALID_INPUT")
	})
}

func TestGetOrCreatePortfolio(t *testing.T) {
	s, _ := setupStore(t)

	t.Run("keeps_initial_value", func(t *testing.T) {
		p1, created, err := s.GetOrCreatePortfolio("Portfolio 1", testutil.D(t, "1000000000"))
		require.NoError(t, err)
		assert.True(t, created)

		p2, created, err := s.GetOrCreatePortfolio("Portfolio 1", testutil.D(t, "5"))
		require.NoError(t, err)
		assert.False(t, created)
		assert.Equal(t, p1.ID, p2.ID)
		testutil.AssertDecimalEqual(t, "1000000000", p2.InitialValue)
	})

	t.Run("rounds_to_cents", func(t *testing.T) {
		p, _, err := s.GetOrCreatePortfolio("Rounded", testutil.D(t, "10.005"))
		require.NoError(t, err)
		testutil.AssertDecimalEqual(t, "10.01", p.InitialValue)
	})

	t.Run("negative_initial_value", func(t *testing.T) {
		_, _, err := s.GetOrCreatePortfolio("Negative", testutil.D(t, "-1"))
		testutil.AssertAppError(t, err, "NEGATIVE_VALUE")
	})
}

func TestGetPortfolio(t *testing.T) {
	s, db := setupStore(t)
	created := testutil.CreateTestPortfolio(t, db, "Portfolio 1", "1000")

	got, err := s.GetPortfolio(created.ID)
	require.NoError(t, err)
	assert.Equal(t, "Portfolio 1", got.Name)

	_, err = s.GetPortfolio("00000000-0000-0000-0000-000000000000")
	testutil.AssertAppError(t, err, "PORTFOLIO_NOT_FOUND")

	for _, id := range []string{"abc", "", "Portfolio 1"} {
		_, err = s.GetPortfolio(id)
		testutil.AssertAppError(t, err, "PORTFOLIO_NOT_FOUND")
	}
}

func TestListPortfolios(t *testing.T) {
	s, db := setupStore(t)
	testutil.CreateTestPortfolio(t, db, "Portfolio 2", "1")
	testutil.CreateTestPortfolio(t, db, "Portfolio 1", "1")
	testutil.CreateTestPortfolio(t, db, "Portfolio 3", "1")

	page, err := s.ListPortfolios(pagination.PageRequest{Page: 1, PageSize: 2})
	require.NoError(t, err)
	assert.Equal(t, int64(3), page.TotalItems)
	assert.Equal(t, 2, page.TotalPages)
	require.Len(t, page.Data, 2)
	assert.Equal(t, "Portfolio 1", page.Data[0].Name)
	assert.Equal(t, "Portfolio 2", page.Data[1].Name)

	page, err = s.ListPortfolios(pagination.PageRequest{Page: 2, PageSize: 2})
	require.NoError(t, err)
	require.Len(t, page.Data, 1)
	assert.Equal(t, "Portfolio 3", page.Data[0].Name)
}

func TestUpsertPrice(t *testing.T) {
	s, db := setupStore(t)
	asset := testutil.CreateTestAsset(t, db, "AAA")
	day := testutil.Date(2024, 1, 2)

	t.Run("insert_then_overwrite", func(t *testing.T) {
		require.NoError(t, s.UpsertPrice(asset.ID, day, testutil.D(t, "100")))
		require.NoError(t, s.UpsertPrice(asset.ID, day, testutil.D(t, "101.1234567")))

		n, err := s.Count(&models.AssetPrice{})
		require.NoError(t, err)
		assert.Equal(t, int64(1), n)

		price, err := s.FindPrice(asset.ID, day)
		require.NoError(t, err)
		require.NotNil(t, price)
		testutil.AssertDecimalEqual(t, "101.123457", price.Price)
	})

	t.Run("negative_price", func(t *testing.T) {
		err := s.UpsertPrice(asset.ID, day, testutil.D(t, "-0.01"))
		testutil.AssertAppError(t, err, "NEGATIVE_VALUE")
	})

	t.Run("find_missing_price", func(t *testing.T) {
		price, err := s.FindPrice(asset.ID, testutil.Date(2030, 1, 1))
		require.NoError(t, err)
		assert.Nil(t, price)
	})
}

func TestUpsertPosition(t *testing.T) {
	s, db := setupStore(t)
	asset := testutil.CreateTestAsset(t, db, "AAA")
	portfolio := testutil.CreateTestPortfolio(t, db, "Portfolio 1", "1000")

	require.NoError(t, s.UpsertPosition(portfolio.ID, asset.ID, testutil.D(t, "3")))
	require.NoError(t, s.UpsertPosition(portfolio.ID, asset.ID, testutil.D(t, "2.5")))

	positions, err := s.ListPositions(portfolio.ID)
	require.NoError(t, err)
	require.Len(t, positions, 1)
	testutil.AssertDecimalEqual(t, "2.5", positions[0].Quantity)
	assert.Equal(t, "AAA", positions[0].Asset.Ticker)

	err = s.UpsertPosition(portfolio.ID, asset.ID, testutil.D(t, "-1"))
	testutil.AssertAppError(t, err, "NEGATIVE_VALUE")
}

func TestListPositionsOrderedByTicker(t *testing.T) {
	s, db := setupStore(t)
	portfolio := testutil.CreateTestPortfolio(t, db, "Portfolio 1", "1000")
	for _, ticker := range []string{"CCC", "AAA", "BBB"} {
		asset := testutil.CreateTestAsset(t, db, ticker)
		testutil.CreateTestPosition(t, db, portfolio.ID, asset.ID, "1")
	}

	positions, err := s.ListPositions(portfolio.ID)
	require.NoError(t, err)
	var tickers []string
	for _, p := range positions {
		tickers = append(tickers, p.Asset.Ticker)
	}
	assert.Equal(t, []string{"AAA", "BBB", "CCC"}, tickers)
}

func TestPriceQueries(t *testing.T) {
	s, db := setupStore(t)
	aaa := testutil.CreateTestAsset(t, db, "AAA")
	bbb := testutil.CreateTestAsset(t, db, "BBB")
	other := testutil.CreateTestAsset(t, db, "ZZZ")

	testutil.CreateTestPrice(t, db, bbb.ID, testutil.Date(2024, 1, 2), "50")
	testutil.CreateTestPrice(t, db, aaa.ID, testutil.Date(2024, 1, 2), "100")
	testutil.CreateTestPrice(t, db, aaa.ID, testutil.Date(2024, 1, 3), "110")
	testutil.CreateTestPrice(t, db, other.ID, testutil.Date(2024, 1, 5), "1")
	testutil.CreateTestPrice(t, db, aaa.ID, testutil.Date(2024, 1, 10), "120")

	ids := []string{aaa.ID, bbb.ID}

	t.Run("available_dates_are_distinct_and_bounded", func(t *testing.T) {
		dates, err := s.AvailablePriceDates(ids, testutil.Date(2024, 1, 1), testutil.Date(2024, 1, 5))
		require.NoError(t, err)
		assert.Equal(t, []time.Time{testutil.Date(2024, 1, 2), testutil.Date(2024, 1, 3)}, dates)
	})

	t.Run("bounds_are_inclusive", func(t *testing.T) {
		dates, err := s.AvailablePriceDates(ids, testutil.Date(2024, 1, 3), testutil.Date(2024, 1, 10))
		require.NoError(t, err)
		assert.Equal(t, []time.Time{testutil.Date(2024, 1, 3), testutil.Date(2024, 1, 10)}, dates)
	})

	t.Run("prices_ordered_by_date_then_ticker", func(t *testing.T) {
		prices, err := s.ListPrices(ids, testutil.Date(2024, 1, 1), testutil.Date(2024, 1, 3))
		require.NoError(t, err)
		require.Len(t, prices, 3)
		assert.Equal(t, "AAA", prices[0].Asset.Ticker)
		assert.Equal(t, "BBB", prices[1].Asset.Ticker)
		assert.Equal(t, "AAA", prices[2].Asset.Ticker)
		assert.True(t, store.Day(prices[2].Date).Equal(testutil.Date(2024, 1, 3)))
	})

	t.Run("no_assets", func(t *testing.T) {
		dates, err := s.AvailablePriceDates(nil, testutil.Date(2024, 1, 1), testutil.Date(2024, 1, 5))
		require.NoError(t, err)
		assert.Empty(t, dates)
	})
}

func TestTransactionRollsBack(t *testing.T) {
	s, db := setupStore(t)
	sentinel := errors.New("abort")

	err := s.Transaction(func(tx *store.Store) error {
		asset, err := tx.GetOrCreateAsset("AAA")
		if err != nil {
			return err
		}
		if err := tx.UpsertPrice(asset.ID, testutil.Date(2024, 1, 2), testutil.D(t, "1")); err != nil {
			return err
		}
		return sentinel
	})
	assert.ErrorIs(t, err, sentinel)

	counts := testutil.RowCounts(t, db)
	assert.Zero(t, counts["asset"])
	assert.Zero(t, counts["asset_price"])
}

func TestTransactionCommits(t *testing.T) {
	s, db := setupStore(t)

	err := s.Transaction(func(tx *store.Store) error {
		_, err := tx.GetOrCreateAsset("AAA")
		return err
	})
	require.NoError(t, err)

	counts := testutil.RowCounts(t, db)
	assert.Equal(t, int64(1), counts["asset"])
}
