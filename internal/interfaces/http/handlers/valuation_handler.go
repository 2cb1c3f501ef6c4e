package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/mrcar-cl/tasador/internal/domain/pricing"
	"github.com/mrcar-cl/tasador/pkg/errors"
)

// ValuationHandler serves market estimates and purchase offers.
type ValuationHandler struct {
	service ValuationService
}

// NewValuationHandler creates a ValuationHandler.
func NewValuationHandler(service ValuationService) *ValuationHandler {
	return &ValuationHandler{service: service}
}

// Valuate handles GET /api/v1/valuations.  The vehicle is described by
// query parameters; make, model and year are required.
func (h *ValuationHandler) Valuate(c *gin.Context) {
	q, err := parseValuationQuery(c)
	if err != nil {
		respondError(c, err)
		return
	}

	res, err := h.service.Valuate(c.Request.Context(), q)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

// ValuatePlate handles GET /api/v1/vehicles/:plate/valuation.
func (h *ValuationHandler) ValuatePlate(c *gin.Context) {
	plate := c.Param("plate")
	mileage, err := intQuery(c, "mileage", 0)
	if err != nil {
		respondError(c, err)
		return
	}

	res, err := h.service.ValuatePlate(c.Request.Context(), plate, mileage, c.Query("region"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

// QuotaResponse reports today's valuation budget.
type QuotaResponse struct {
	Used      int64 `json:"used"`
	Remaining int64 `json:"remaining"`
}

// Quota handles GET /api/v1/quota.
func (h *ValuationHandler) Quota(c *gin.Context) {
	used, remaining, err := h.service.QuotaUsage(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, QuotaResponse{Used: used, Remaining: remaining})
}

func parseValuationQuery(c *gin.Context) (pricing.Query, error) {
	q := pricing.Query{
		Make:   c.Query("make"),
		Model:  c.Query("model"),
		Region: c.Query("region"),
	}
	if q.Make == "" || q.Model == "" {
		return pricing.Query{}, errors.InvalidParam("make and model are required")
	}

	year := c.Query("year")
	if year == "" {
		return pricing.Query{}, errors.InvalidParam("year is required")
	}
	if _, err := strconv.Atoi(year); err != nil {
		return pricing.Query{}, errors.InvalidParam("year must be an integer")
	}
	q.Year = year

	var err error
	q.Mileage, err = intQuery(c, "mileage", 0)
	if err != nil {
		return pricing.Query{}, err
	}
	return q, nil
}

func intQuery(c *gin.Context, name string, def int) (int, error) {
	raw := c.Query(name)
	if raw == "" {
		return def, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, errors.InvalidParam(name + " must be an integer")
	}
	return v, nil
}
