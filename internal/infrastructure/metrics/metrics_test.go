package metrics

import (
	"io"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistry_Observations(t *testing.T) {
	r := NewRegistry()

	r.ObserveOperation("create", ResultOK)
	r.ObserveOperation("create", ResultOK)
	r.ObserveOperation("get", ResultNotFound)
	r.ObserveDocumentIO("load", time.Now(), 7)
	r.ObserveMerge(5, 2)
	r.ObserveMerge(5, 0)

	assert.Equal(t, 2.0, testutil.ToFloat64(r.Operations.WithLabelValues("create", ResultOK)))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.Operations.WithLabelValues("get", ResultNotFound)))
	assert.Equal(t, 7.0, testutil.ToFloat64(r.DocumentRecords))
	assert.Equal(t, 5.0, testutil.ToFloat64(r.CanonicalOrders))
	assert.Equal(t, 2.0, testutil.ToFloat64(r.DuplicatesMerged))
}

func TestRegistry_Handler(t *testing.T) {
	r := NewRegistry()
	r.ObserveOperation("list", ResultOK)

	rec := httptest.NewRecorder()
	r.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))

	body, err := io.ReadAll(rec.Body)
	require.NoError(t, err)
	assert.Equal(t, 200, rec.Code)
	assert.Contains(t, string(body), `orderdesk_store_operations_total{operation="list",result="ok"} 1`)
}
