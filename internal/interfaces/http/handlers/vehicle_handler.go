package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mrcar-cl/tasador/internal/application/valuation"
	"github.com/mrcar-cl/tasador/internal/domain/pricing"
	"github.com/mrcar-cl/tasador/internal/domain/vehicle"
	"github.com/mrcar-cl/tasador/pkg/errors"
)

// ValuationService is the application surface the HTTP layer depends on.
type ValuationService interface {
	ResolvePlate(ctx context.Context, plate string) (vehicle.Lookup, error)
	Valuate(ctx context.Context, q pricing.Query) (valuation.Result, error)
	ValuatePlate(ctx context.Context, plate string, mileage int, region string) (valuation.Result, error)
	QuotaUsage(ctx context.Context) (used, remaining int64, err error)
}

// VehicleHandler serves plate identity lookups.
type VehicleHandler struct {
	service ValuationService
}

// NewVehicleHandler creates a VehicleHandler.
func NewVehicleHandler(service ValuationService) *VehicleHandler {
	return &VehicleHandler{service: service}
}

// VehicleResponse is the body for a resolved plate.
type VehicleResponse struct {
	Vehicle *vehicle.Record `json:"vehicle"`
	Source  string          `json:"source"`
}

// Get handles GET /api/v1/vehicles/:plate.
func (h *VehicleHandler) Get(c *gin.Context) {
	plate := c.Param("plate")

	lookup, err := h.service.ResolvePlate(c.Request.Context(), plate)
	if err != nil {
		respondError(c, err)
		return
	}
	if !lookup.Found {
		c.JSON(http.StatusNotFound, ErrorResponse{
			Code:    string(errors.ErrCodePlateNotFound),
			Message: lookup.Reason,
		})
		return
	}

	c.JSON(http.StatusOK, VehicleResponse{
		Vehicle: lookup.Vehicle,
		Source:  lookup.Source,
	})
}
