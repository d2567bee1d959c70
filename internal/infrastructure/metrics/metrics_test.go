package metrics

import (
	"errors"
	"io"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistry_MetricasDePedidos(t *testing.T) {
	r := NewRegistry()

	r.OrderCreated("BOGOTA", "AA")
	r.OrderCreated("BOGOTA", "AA")
	r.OrderStatusChanged("PENDIENTE", "CONFIRMADO")
	r.OrderDeleted()

	assert.Equal(t, 2.0, testutil.ToFloat64(r.OrdersCreatedTotal.WithLabelValues("BOGOTA", "AA")))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.OrderStatusChanges.WithLabelValues("PENDIENTE", "CONFIRMADO")))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.OrdersDeletedTotal))
}

func TestRegistry_HTTPYTareas(t *testing.T) {
	r := NewRegistry()

	r.ObserveHTTP("GET", "/api/v1/orders", 200, 15*time.Millisecond)
	r.ObserveJob("resumen_entregas", nil, time.Second)
	r.ObserveJob("resumen_entregas", errors.New("smtp"), time.Second)

	assert.Equal(t, 1.0, testutil.ToFloat64(r.HTTPRequestsTotal.WithLabelValues("GET", "/api/v1/orders", "200")))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.JobRunsTotal.WithLabelValues("resumen_entregas", "ok")))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.JobRunsTotal.WithLabelValues("resumen_entregas", "error")))
}

func TestRegistry_Handler(t *testing.T) {
	r := NewRegistry()
	r.OrderDeleted()

	rec := httptest.NewRecorder()
	r.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))

	body, err := io.ReadAll(rec.Body)
	require.NoError(t, err)
	assert.Equal(t, 200, rec.Code)
	assert.True(t, strings.Contains(string(body), "forecast_orders_deleted_total 1"))
}
