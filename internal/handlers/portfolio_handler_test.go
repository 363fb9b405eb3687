package handlers

import (
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	apperrors "github.com/heleneolivares/portfolio-evolution/internal/errors"
	"github.com/heleneolivares/portfolio-evolution/internal/models"
	"github.com/heleneolivares/portfolio-evolution/internal/pagination"
	"github.com/heleneolivares/portfolio-evolution/internal/services"
)

const testPortfolioID = "01890000-0000-7000-8000-000000000001"

// --- mock services ---

type mockPortfolioService struct {
	listPortfoliosFn func(page pagination.PageRequest) (*pagination.PageResponse[models.Portfolio], error)
	getPortfolioFn   func(id string) (*services.PortfolioDetail, error)
}

var _ services.PortfolioServicer = (*mockPortfolioService)(nil)

func (m *mockPortfolioService) ListPortfolios(page pagination.PageRequest) (*pagination.PageResponse[models.Portfolio], error) {
	if m.listPortfoliosFn != nil {
		return m.listPortfoliosFn(page)
	}
	resp := pagination.NewPageResponse([]models.Portfolio{}, 1, 20, 0)
	return &resp, nil
}

func (m *mockPortfolioService) GetPortfolio(id string) (*services.PortfolioDetail, error) {
	if m.getPortfolioFn != nil {
		return m.getPortfolioFn(id)
	}
	return nil, apperrors.ErrPortfolioNotFound
}

type mockEvolutionService struct {
	evolutionFn func(portfolioID string, start, end time.Time) ([]services.EvolutionPoint, error)
	snapshotFn  func(portfolioID string, date time.Time) (*services.EvolutionPoint, error)
}

var _ services.EvolutionServicer = (*mockEvolutionService)(nil)

func (m *mockEvolutionService) Evolution(portfolioID string, start, end time.Time) ([]services.EvolutionPoint, error) {
	if m.evolutionFn != nil {
		return m.evolutionFn(portfolioID, start, end)
	}
	return []services.EvolutionPoint{}, nil
}

func (m *mockEvolutionService) Snapshot(portfolioID string, date time.Time) (*services.EvolutionPoint, error) {
	if m.snapshotFn != nil {
		return m.snapshotFn(portfolioID, date)
	}
	return nil, apperrors.ErrNoDataForDate
}

// --- router setup ---

func setupPortfolioRouter(handler *PortfolioHandler) *gin.Engine {
	r := gin.New()
	r.GET("/portfolios", handler.ListPortfolios)
	r.GET("/portfolios/:id", handler.GetPortfolio)
	r.GET("/portfolios/:id/snapshot", handler.GetSnapshot)
	r.GET("/portfolios/:id/evolution", handler.GetEvolution)
	return r
}

func samplePoint(day time.Time) services.EvolutionPoint {
	return services.EvolutionPoint{
		Date:       day,
		TotalValue: decimal.NewFromInt(500),
		Weights:    []services.AssetWeight{{Ticker: "AAA", Value: decimal.NewFromInt(500), Weight: decimal.NewFromInt(1)}},
	}
}

// --- tests ---

func TestPortfolioHandler_GetSnapshot(t *testing.T) {
	t.Run("returns_200_with_serialized_point", func(t *testing.T) {
		var gotID string
		var gotDate time.Time
		svc := &mockEvolutionService{
			snapshotFn: func(id string, date time.Time) (*services.EvolutionPoint, error) {
				gotID, gotDate = id, date
				p := samplePoint(date)
				return &p, nil
			},
		}
		r := setupPortfolioRouter(NewPortfolioHandler(&mockPortfolioService{}, svc))

		rec := doRequest(r, "GET", "/portfolios/"+testPortfolioID+"/snapshot?date=2024-01-02", "")

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
		}
		if gotID != testPortfolioID {
			t.Errorf("expected portfolio id %s, got %s", testPortfolioID, gotID)
		}
		if !gotDate.Equal(time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)) {
			t.Errorf("expected date 2024-01-02, got %v", gotDate)
		}
		result := parseJSON(t, rec)
		if result["date"] != "2024-01-02" {
			t.Errorf("expected date '2024-01-02', got %v", result["date"])
		}
		if result["total_value"] != "500.00" {
			t.Errorf("expected total_value '500.00', got %v", result["total_value"])
		}
		weights := result["weights"].(map[string]interface{})
		if weights["AAA"] != "1.000000" {
			t.Errorf("expected AAA weight '1.000000', got %v", weights["AAA"])
		}
	})

	t.Run("returns_400_malformed_date", func(t *testing.T) {
		r := setupPortfolioRouter(NewPortfolioHandler(&mockPortfolioService{}, &mockEvolutionService{}))

		for _, q := range []string{"", "?date=", "?date=02-01-2024", "?date=2024-02-30"} {
			rec := doRequest(r, "GET", "/portfolios/"+testPortfolioID+"/snapshot"+q, "")
			if rec.Code != http.StatusBadRequest {
				t.Errorf("query %q: expected 400, got %d: %s", q, rec.Code, rec.Body.String())
				continue
			}
			assertErrorCode(t, parseJSON(t, rec), "INVALID_INPUT")
		}
	})

	t.Run("returns_404_unknown_portfolio", func(t *testing.T) {
		svc := &mockEvolutionService{
			snapshotFn: func(_ string, _ time.Time) (*services.EvolutionPoint, error) {
				return nil, apperrors.ErrPortfolioNotFound
			},
		}
		r := setupPortfolioRouter(NewPortfolioHandler(&mockPortfolioService{}, svc))

		rec := doRequest(r, "GET", "/portfolios/"+testPortfolioID+"/snapshot?date=2024-01-02", "")

		if rec.Code != http.StatusNotFound {
			t.Fatalf("expected 404, got %d: %s", rec.Code, rec.Body.String())
		}
		assertErrorCode(t, parseJSON(t, rec), "PORTFOLIO_NOT_FOUND")
	})

	t.Run("returns_404_non_uuid_id", func(t *testing.T) {
		r := setupPortfolioRouter(NewPortfolioHandler(&mockPortfolioService{}, &mockEvolutionService{}))

		rec := doRequest(r, "GET", "/portfolios/42/snapshot?date=2024-01-02", "")

		if rec.Code != http.StatusNotFound {
			t.Fatalf("expected 404, got %d: %s", rec.Code, rec.Body.String())
		}
		assertErrorCode(t, parseJSON(t, rec), "PORTFOLIO_NOT_FOUND")
	})

	t.Run("returns_404_no_data_for_date", func(t *testing.T) {
		r := setupPortfolioRouter(NewPortfolioHandler(&mockPortfolioService{}, &mockEvolutionService{}))

		rec := doRequest(r, "GET", "/portfolios/"+testPortfolioID+"/snapshot?date=2024-01-06", "")

		if rec.Code != http.StatusNotFound {
			t.Fatalf("expected 404, got %d: %s", rec.Code, rec.Body.String())
		}
		assertErrorCode(t, parseJSON(t, rec), "NO_DATA_FOR_DATE")
	})

	t.Run("returns_400_no_positions", func(t *testing.T) {
		svc := &mockEvolutionService{
			snapshotFn: func(_ string, _ time.Time) (*services.EvolutionPoint, error) {
				return nil, apperrors.ErrNoPositions
			},
		}
		r := setupPortfolioRouter(NewPortfolioHandler(&mockPortfolioService{}, svc))

		rec := doRequest(r, "GET", "/portfolios/"+testPortfolioID+"/snapshot?date=2024-01-02", "")

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d: %s", rec.Code, rec.Body.String())
		}
		assertErrorCode(t, parseJSON(t, rec), "NO_POSITIONS")
	})

	t.Run("returns_500_on_unexpected_error", func(t *testing.T) {
		svc := &mockEvolutionService{
			snapshotFn: func(_ string, _ time.Time) (*services.EvolutionPoint, error) {
				return nil, fmt.Errorf("database error")
			},
		}
		r := setupPortfolioRouter(NewPortfolioHandler(&mockPortfolioService{}, svc))

		rec := doRequest(r, "GET", "/portfolios/"+testPortfolioID+"/snapshot?date=2024-01-02", "")

		if rec.Code != http.StatusInternalServerError {
			t.Fatalf("expected 500, got %d: %s", rec.Code, rec.Body.String())
		}
		assertErrorCode(t, parseJSON(t, rec), "INTERNAL_ERROR")
	})
}

func TestPortfolioHandler_GetEvolution(t *testing.T) {
	t.Run("returns_200_with_series", func(t *testing.T) {
		var gotStart, gotEnd time.Time
		svc := &mockEvolutionService{
			evolutionFn: func(_ string, start, end time.Time) ([]services.EvolutionPoint, error) {
				gotStart, gotEnd = start, end
				return []services.EvolutionPoint{samplePoint(start), samplePoint(end)}, nil
			},
		}
		r := setupPortfolioRouter(NewPortfolioHandler(&mockPortfolioService{}, svc))

		rec := doRequest(r, "GET", "/portfolios/"+testPortfolioID+"/evolution?start_date=2024-01-02&end_date=2024-01-31", "")

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
		}
		if gotStart.Format(time.DateOnly) != "2024-01-02" || gotEnd.Format(time.DateOnly) != "2024-01-31" {
			t.Errorf("unexpected range %v - %v", gotStart, gotEnd)
		}
		if body := rec.Body.String(); body[0] != '[' {
			t.Errorf("expected a JSON array, got %s", body)
		}
	})

	t.Run("returns_empty_array_without_prices", func(t *testing.T) {
		r := setupPortfolioRouter(NewPortfolioHandler(&mockPortfolioService{}, &mockEvolutionService{}))

		rec := doRequest(r, "GET", "/portfolios/"+testPortfolioID+"/evolution?start_date=2024-01-02&end_date=2024-01-31", "")

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
		}
		if rec.Body.String() != "[]" {
			t.Errorf("expected [], got %s", rec.Body.String())
		}
	})

	t.Run("returns_400_missing_end_date", func(t *testing.T) {
		r := setupPortfolioRouter(NewPortfolioHandler(&mockPortfolioService{}, &mockEvolutionService{}))

		rec := doRequest(r, "GET", "/portfolios/"+testPortfolioID+"/evolution?start_date=2024-01-02", "")

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d: %s", rec.Code, rec.Body.String())
		}
		assertErrorCode(t, parseJSON(t, rec), "INVALID_INPUT")
	})

	t.Run("returns_400_inverted_range", func(t *testing.T) {
		svc := &mockEvolutionService{
			evolutionFn: func(_ string, _, _ time.Time) ([]services.EvolutionPoint, error) {
				return nil, apperrors.ErrInvalidRange
			},
		}
		r := setupPortfolioRouter(NewPortfolioHandler(&mockPortfolioService{}, svc))

		rec := doRequest(r, "GET", "/portfolios/"+testPortfolioID+"/evolution?start_date=2024-02-01&end_date=2024-01-01", "")

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d: %s", rec.Code, rec.Body.String())
		}
		assertErrorCode(t, parseJSON(t, rec), "INVALID_RANGE")
	})
}

func TestPortfolioHandler_ListPortfolios(t *testing.T) {
	t.Run("returns_200_with_page", func(t *testing.T) {
		var gotPage pagination.PageRequest
		svc := &mockPortfolioService{
			listPortfoliosFn: func(page pagination.PageRequest) (*pagination.PageResponse[models.Portfolio], error) {
				gotPage = page
				resp := pagination.NewPageResponse([]models.Portfolio{
					{Base: models.Base{ID: testPortfolioID}, Name: "Portfolio 1", InitialValue: decimal.NewFromInt(1000000000)},
				}, 2, 5, 6)
				return &resp, nil
			},
		}
		r := setupPortfolioRouter(NewPortfolioHandler(svc, &mockEvolutionService{}))

		rec := doRequest(r, "GET", "/portfolios?page=2&page_size=5", "")

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
		}
		if gotPage.Page != 2 || gotPage.PageSize != 5 {
			t.Errorf("expected page 2 size 5, got %+v", gotPage)
		}
		result := parseJSON(t, rec)
		data := result["data"].([]interface{})
		if len(data) != 1 {
			t.Fatalf("expected 1 portfolio, got %d", len(data))
		}
		portfolio := data[0].(map[string]interface{})
		if portfolio["initial_value"] != "1000000000" {
			t.Errorf("expected initial_value as decimal string, got %v", portfolio["initial_value"])
		}
	})

	t.Run("returns_400_invalid_page_size", func(t *testing.T) {
		r := setupPortfolioRouter(NewPortfolioHandler(&mockPortfolioService{}, &mockEvolutionService{}))

		rec := doRequest(r, "GET", "/portfolios?page_size=1000", "")

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d: %s", rec.Code, rec.Body.String())
		}
		assertErrorCode(t, parseJSON(t, rec), "INVALID_INPUT")
	})
}

func TestPortfolioHandler_GetPortfolio(t *testing.T) {
	t.Run("returns_200_with_positions", func(t *testing.T) {
		svc := &mockPortfolioService{
			getPortfolioFn: func(id string) (*services.PortfolioDetail, error) {
				return &services.PortfolioDetail{
					Portfolio: models.Portfolio{Base: models.Base{ID: id}, Name: "Portfolio 1"},
					Positions: []services.PositionView{{Ticker: "AAA", Quantity: decimal.NewFromInt(2500000)}},
				}, nil
			},
		}
		r := setupPortfolioRouter(NewPortfolioHandler(svc, &mockEvolutionService{}))

		rec := doRequest(r, "GET", "/portfolios/"+testPortfolioID, "")

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
		}
		result := parseJSON(t, rec)
		if result["name"] != "Portfolio 1" {
			t.Errorf("expected name 'Portfolio 1', got %v", result["name"])
		}
		positions := result["positions"].([]interface{})
		if len(positions) != 1 || positions[0].(map[string]interface{})["ticker"] != "AAA" {
			t.Errorf("unexpected positions: %v", positions)
		}
	})

	t.Run("returns_404_not_found", func(t *testing.T) {
		r := setupPortfolioRouter(NewPortfolioHandler(&mockPortfolioService{}, &mockEvolutionService{}))

		rec := doRequest(r, "GET", "/portfolios/"+testPortfolioID, "")

		if rec.Code != http.StatusNotFound {
			t.Fatalf("expected 404, got %d: %s", rec.Code, rec.Body.String())
		}
		assertErrorCode(t, parseJSON(t, rec), "PORTFOLIO_NOT_FOUND")
	})
}
