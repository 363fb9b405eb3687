package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/heleneolivares/portfolio-evolution/internal/pagination"
	"github.com/heleneolivares/portfolio-evolution/internal/services"
)

// PortfolioHandler handles portfolio read requests.
type PortfolioHandler struct {
	portfolioService services.PortfolioServicer
	evolutionService services.EvolutionServicer
}

// NewPortfolioHandler creates a new PortfolioHandler.
func NewPortfolioHandler(portfolioService services.PortfolioServicer, evolutionService services.EvolutionServicer) *PortfolioHandler {
	return &PortfolioHandler{portfolioService: portfolioService, evolutionService: evolutionService}
}

// SnapshotQuery holds the query parameters of the snapshot endpoint.
type SnapshotQuery struct {
	Date string `form:"date" binding:"required,iso_date"`
}

// EvolutionQuery holds the query parameters of the evolution endpoint.
type EvolutionQuery struct {
	StartDate string `form:"start_date" binding:"required,iso_date"`
	EndDate   string `form:"end_date" binding:"required,iso_date"`
}

// ListPortfolios handles listing portfolios.
// @Summary     List portfolios
// @Description Get a paginated list of portfolios ordered by name
// @Tags        portfolios
// @Produce     json
// @Param       page      query int false "Page number (default 1)"
// @Param       page_size query int false "Items per page (default 20, max 100)"
// @Success     200 {object} pagination.PageResponse[models.Portfolio] "Paginated portfolios"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Router      /portfolios [get]
func (h *PortfolioHandler) ListPortfolios(c *gin.Context) {
	var page pagination.PageRequest
	if err := c.ShouldBindQuery(&page); err != nil {
		respondWithError(c, bindingError(err))
		return
	}

	result, err := h.portfolioService.ListPortfolios(page)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// GetPortfolio handles retrieving a portfolio with its positions.
// @Summary     Get portfolio
// @Description Get a portfolio and its positions ordered by ticker
// @Tags        portfolios
// @Produce     json
// @Param       id  path     string true "Portfolio ID"
// @Success     200 {object} services.PortfolioDetail
// @Failure     404 {object} ErrorResponse "Portfolio not found"
// @Router      /portfolios/{id} [get]
func (h *PortfolioHandler) GetPortfolio(c *gin.Context) {
	id, err := parsePortfolioID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	detail, err := h.portfolioService.GetPortfolio(id)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, detail)
}

// GetSnapshot handles the value and composition of a portfolio on one day.
// @Summary     Get portfolio snapshot
// @Description Total value (2 decimals) and per-asset weights (6 decimals) of a portfolio on a date
// @Tags        portfolios
// @Produce     json
// @Param       id   path     string true "Portfolio ID"
// @Param       date query    string true "Date (YYYY-MM-DD)"
// @Success     200  {object} services.SnapshotResponse
// @Failure     400  {object} ErrorResponse "Malformed date or portfolio without positions"
// @Failure     404  {object} ErrorResponse "Unknown portfolio or no data for that date"
// @Router      /portfolios/{id}/snapshot [get]
func (h *PortfolioHandler) GetSnapshot(c *gin.Context) {
	id, err := parsePortfolioID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var query SnapshotQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		respondWithError(c, bindingError(err))
		return
	}
	date, err := parseDate(query.Date, "date")
	if err != nil {
		respondWithError(c, err)
		return
	}

	point, err := h.evolutionService.Snapshot(id, date)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, services.NewSnapshotResponse(*point))
}

// GetEvolution handles the value and composition of a portfolio over a range.
// @Summary     Get portfolio evolution
// @Description Daily total value and per-asset weights of a portfolio between two dates, inclusive
// @Tags        portfolios
// @Produce     json
// @Param       id         path     string true "Portfolio ID"
// @Param       start_date query    string true "Start date (YYYY-MM-DD)"
// @Param       end_date   query    string true "End date (YYYY-MM-DD)"
// @Success     200        {array}  services.SnapshotResponse
// @Failure     400        {object} ErrorResponse "Malformed dates, inverted range or portfolio without positions"
// @Failure     404        {object} ErrorResponse "Portfolio not found"
// @Router      /portfolios/{id}/evolution [get]
func (h *PortfolioHandler) GetEvolution(c *gin.Context) {
	id, err := parsePortfolioID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var query EvolutionQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		respondWithError(c, bindingError(err))
		return
	}
	start, err := parseDate(query.StartDate, "start_date")
	if err != nil {
		respondWithError(c, err)
		return
	}
	end, err := parseDate(query.EndDate, "end_date")
	if err != nil {
		respondWithError(c, err)
		return
	}

	points, err := h.evolutionService.Evolution(id, start, end)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, services.NewEvolutionResponse(points))
}
