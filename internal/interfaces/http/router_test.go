package http

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mrcar-cl/tasador/internal/application/valuation"
	"github.com/mrcar-cl/tasador/internal/domain/pricing"
	"github.com/mrcar-cl/tasador/internal/domain/vehicle"
	"github.com/mrcar-cl/tasador/internal/infrastructure/monitoring/prometheus"
	"github.com/mrcar-cl/tasador/internal/interfaces/http/handlers"
	"github.com/mrcar-cl/tasador/internal/interfaces/http/middleware"
)

type fixedService struct{}

func (fixedService) ResolvePlate(ctx context.Context, plate string) (vehicle.Lookup, error) {
	return vehicle.Lookup{
		Found:   true,
		Vehicle: &vehicle.Record{Plate: plate, Make: "Toyota", Model: "Yaris", Year: "2019"},
		Source:  "registry",
	}, nil
}

func (fixedService) Valuate(ctx context.Context, q pricing.Query) (valuation.Result, error) {
	return valuation.Result{Estimate: pricing.Estimate{Average: 9_000_000}}, nil
}

func (fixedService) ValuatePlate(ctx context.Context, plate string, mileage int, region string) (valuation.Result, error) {
	return valuation.Result{Estimate: pricing.Estimate{Average: 9_000_000}}, nil
}

func (fixedService) QuotaUsage(ctx context.Context) (int64, int64, error) {
	return 1, 999, nil
}

func newTestRouter(t *testing.T) http.Handler {
	t.Helper()
	collector := prometheus.NewCollector("tasador")
	svc := fixedService{}
	return NewRouter(RouterConfig{
		VehicleHandler:   handlers.NewVehicleHandler(svc),
		ValuationHandler: handlers.NewValuationHandler(svc),
		HealthHandler:    handlers.NewHealthHandler("test"),
		Metrics:          prometheus.NewAppMetrics(collector),
		Collector:        collector,
		Mode:             gin.TestMode,
	})
}

func get(t *testing.T, router http.Handler, target string) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest("GET", target, nil))
	return rec
}

func TestRouter_Routes(t *testing.T) {
	router := newTestRouter(t)

	assert.Equal(t, http.StatusOK, get(t, router, "/healthz").Code)
	assert.Equal(t, http.StatusOK, get(t, router, "/readyz").Code)
	assert.Equal(t, http.StatusOK, get(t, router, "/metrics").Code)
	assert.Equal(t, http.StatusOK, get(t, router, "/api/v1/vehicles/ABCD12").Code)
	assert.Equal(t, http.StatusOK, get(t, router, "/api/v1/vehicles/ABCD12/valuation").Code)
	assert.Equal(t, http.StatusOK, get(t, router, "/api/v1/valuations?make=Toyota&model=yaris&year=2019").Code)
	assert.Equal(t, http.StatusOK, get(t, router, "/api/v1/quota").Code)
	assert.Equal(t, http.StatusNotFound, get(t, router, "/api/v1/nope").Code)
}

func TestRouter_RequestIDPropagated(t *testing.T) {
	router := newTestRouter(t)

	rec := get(t, router, "/healthz")
	assert.NotEmpty(t, rec.Header().Get(middleware.RequestIDHeader))

	req := httptest.NewRequest("GET", "/healthz", nil)
	req.Header.Set(middleware.RequestIDHeader, "fixed-id")
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	assert.Equal(t, "fixed-id", rec.Header().Get(middleware.RequestIDHeader))
}

func TestRouter_MetricsCountRequests(t *testing.T) {
	router := newTestRouter(t)

	get(t, router, "/api/v1/quota")
	rec := get(t, router, "/metrics")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "tasador_http_requests_total")
}
