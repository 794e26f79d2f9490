package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestObserveBooking(t *testing.T) {
	before := testutil.ToFloat64(BookingOperations.WithLabelValues("create", "UNAVAILABLE"))
	ObserveBooking("create", "UNAVAILABLE")
	assert.Equal(t, before+1, testutil.ToFloat64(BookingOperations.WithLabelValues("create", "UNAVAILABLE")))
}

func TestMiddleware_UsesRouteTemplate(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(Middleware())
	r.GET("/api/v1/bookings/:id", func(c *gin.Context) { c.Status(http.StatusOK) })

	counter := RequestTotal.WithLabelValues(http.MethodGet, "/api/v1/bookings/:id", "200")
	before := testutil.ToFloat64(counter)

	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/api/v1/bookings/1001", nil))
	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/api/v1/bookings/1002", nil))

	assert.Equal(t, before+2, testutil.ToFloat64(counter))
}
