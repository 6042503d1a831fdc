package metrics

import (
	"io"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistry_Contadores(t *testing.T) {
	r := New()

	r.OrderCreated("rental")
	r.OrderCreated("rental")
	r.OrderCreated("quote")
	r.StageUpdated("bodega_to_coord", true)
	r.StatusChanged("Pendiente", "En Proceso")
	r.SyncPublished("order.created")
	r.SyncFailed("order.updated")
	r.SetOutboxPending(3)

	assert.Equal(t, 2.0, testutil.ToFloat64(r.ordersCreated.WithLabelValues("rental")))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.ordersCreated.WithLabelValues("quote")))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.stageUpdates.WithLabelValues("bodega_to_coord", "true")))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.statusChanges.WithLabelValues("Pendiente", "En Proceso")))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.syncFailures.WithLabelValues("order.updated")))
	assert.Equal(t, 3.0, testutil.ToFloat64(r.outboxPending))
}

func TestRegistry_Handler(t *testing.T) {
	r := New()
	r.SyncPublished("order.created")

	rec := httptest.NewRecorder()
	r.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))

	body, err := io.ReadAll(rec.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), `abs_sync_published_total{kind="order.created"} 1`)
}
