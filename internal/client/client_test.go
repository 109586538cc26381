package client

import (
	"context"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"orderdesk/internal/domain"
	"orderdesk/internal/dto"
	apperrors "orderdesk/internal/errors"
	"orderdesk/internal/infrastructure/metrics"
	"orderdesk/internal/order"
	"orderdesk/internal/order/cache"
	"orderdesk/internal/order/repository"
	"orderdesk/internal/server"
)

func newTestAPI(t *testing.T) *httptest.Server {
	t.Helper()
	reg := metrics.NewRegistry()
	repo := repository.NewFileRepository(filepath.Join(t.TempDir(), "orders.json"))
	ctrl, err := order.NewModule(repo, reg, zap.NewNop())
	require.NoError(t, err)

	srv := httptest.NewServer(server.NewRouter(ctrl, reg.Handler(), zap.NewNop()))
	t.Cleanup(srv.Close)
	return srv
}

func TestClient_MutationsRefreshCache(t *testing.T) {
	api := newTestAPI(t)
	orders := cache.New(nil, zap.NewNop())
	c := New(api.URL, orders, zap.NewNop())
	ctx := context.Background()

	created, err := c.CreateOrder(ctx, domain.Order{OrderNumber: "x1", Customer: "Acme", TransactionDate: "2024-01-01T00:00:00Z"})
	require.NoError(t, err)
	assert.Equal(t, domain.OrderNumber("X1"), created.OrderNumber)
	assert.Equal(t, 1, orders.Count())

	_, err = c.CreateOrder(ctx, domain.Order{OrderNumber: "X1", Customer: "Acme", TransactionDate: "2024-02-01T00:00:00Z", Status: domain.OrderStatusApproved})
	require.NoError(t, err)
	cached, ok := orders.Get("x1")
	require.True(t, ok)
	assert.Equal(t, domain.OrderStatusApproved, cached.Status)

	updated, err := c.UpdateStatus(ctx, "x1", domain.OrderStatusShipped)
	require.NoError(t, err)
	assert.Equal(t, domain.OrderStatusShipped, updated.Status)
	cached, _ = orders.Get("X1")
	assert.Equal(t, domain.OrderStatusShipped, cached.Status)

	deleted, err := c.DeleteOrder(ctx, "X1")
	require.NoError(t, err)
	assert.Equal(t, 1, deleted)
	assert.Zero(t, orders.Count())
}

func TestClient_GetUpdateAndDeleteLine(t *testing.T) {
	api := newTestAPI(t)
	c := New(api.URL, nil, zap.NewNop())
	ctx := context.Background()

	_, err := c.CreateOrder(ctx, domain.Order{OrderNumber: "A1", TransactionDate: "2024-01-01T00:00:00Z"})
	require.NoError(t, err)

	replaced, err := c.UpdateOrder(ctx, "a1", domain.Order{
		Customer: "Globex",
		Lines: []domain.OrderLine{
			{ID: "l1", Quantity: 2, Price: 2.5},
			{ID: "l2", Quantity: 1, Price: 1},
		},
	})
	require.NoError(t, err)
	assert.Equal(t, 6.0, replaced.Amount)

	trimmed, err := c.DeleteLine(ctx, "A1", "l2")
	require.NoError(t, err)
	assert.Equal(t, 5.0, trimmed.Amount)

	got, err := c.GetOrder(ctx, "a1")
	require.NoError(t, err)
	assert.Equal(t, "Globex", got.Customer)
	require.Len(t, got.Lines, 1)

	summary, err := c.Report(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, summary.TotalOrders)
	assert.Equal(t, 5.0, summary.TotalAmount)
}

func TestClient_ListFilterLeavesCacheAlone(t *testing.T) {
	api := newTestAPI(t)
	orders := cache.New(nil, zap.NewNop())
	seed := New(api.URL, nil, zap.NewNop())
	ctx := context.Background()

	_, err := seed.CreateOrder(ctx, domain.Order{OrderNumber: "A1", Customer: "Acme"})
	require.NoError(t, err)
	_, err = seed.CreateOrder(ctx, domain.Order{OrderNumber: "B1", Customer: "Globex"})
	require.NoError(t, err)

	c := New(api.URL, orders, zap.NewNop())
	filtered, err := c.ListOrders(ctx, dto.ListFilter{Search: "glo"})
	require.NoError(t, err)
	require.Len(t, filtered, 1)
	assert.Zero(t, orders.Count())

	all, err := c.ListOrders(ctx, dto.ListFilter{})
	require.NoError(t, err)
	assert.Len(t, all, 2)
	assert.Equal(t, 2, orders.Count())
}

func TestClient_MapsErrorResponses(t *testing.T) {
	api := newTestAPI(t)
	c := New(api.URL, nil, zap.NewNop())
	ctx := context.Background()

	_, err := c.GetOrder(ctx, "NOPE")
	nf, ok := apperrors.IsNotFoundError(err)
	require.True(t, ok)
	assert.Contains(t, nf.Message, "NOPE")

	_, err = c.UpdateStatus(ctx, "NOPE", "Lost")
	ve, ok := apperrors.IsValidationError(err)
	require.True(t, ok)
	require.NotEmpty(t, ve.Details)
	assert.Equal(t, "status", ve.Details[0].Field)
}

func TestClient_ServerFailure(t *testing.T) {
	failing := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"traceId":"t","error":"STORAGE_ERROR","message":"order storage is unavailable"}`))
	}))
	defer failing.Close()
	c := New(failing.URL, nil, zap.NewNop())

	_, err := c.ListOrders(context.Background(), dto.ListFilter{})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "500")
	assert.Contains(t, err.Error(), "order storage is unavailable")
}
