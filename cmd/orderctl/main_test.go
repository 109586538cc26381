package main

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"orderdesk/internal/domain"
	"orderdesk/internal/infrastructure/metrics"
	"orderdesk/internal/order"
	"orderdesk/internal/order/repository"
	"orderdesk/internal/server"
)

func newTestAPI(t *testing.T) string {
	t.Helper()
	reg := metrics.NewRegistry()
	repo := repository.NewFileRepository(filepath.Join(t.TempDir(), "orders.json"))
	ctrl, err := order.NewModule(repo, reg, zap.NewNop())
	require.NoError(t, err)
	srv := httptest.NewServer(server.NewRouter(ctrl, reg.Handler(), zap.NewNop()))
	t.Cleanup(srv.Close)
	return srv.URL
}

func TestRun_CreateStatusAndCached(t *testing.T) {
	addr := newTestAPI(t)
	cachePath := filepath.Join(t.TempDir(), "cache.json")
	base := []string{"-addr", addr, "-cache", cachePath}
	ctx := context.Background()

	var out bytes.Buffer
	err := run(ctx, append(base, "create", "-"), strings.NewReader(`{"orderNumber":"a1","customer":"Acme"}`), &out)
	require.NoError(t, err)

	var created domain.Order
	require.NoError(t, json.Unmarshal(out.Bytes(), &created))
	assert.Equal(t, domain.OrderNumber("A1"), created.OrderNumber)

	out.Reset()
	require.NoError(t, run(ctx, append(base, "status", "A1", "Shipped"), nil, &out))

	out.Reset()
	require.NoError(t, run(ctx, []string{"-addr", "http://127.0.0.1:1", "-cache", cachePath, "cached"}, nil, &out))
	var cached []domain.Order
	require.NoError(t, json.Unmarshal(out.Bytes(), &cached))
	require.Len(t, cached, 1)
	assert.Equal(t, domain.OrderStatusShipped, cached[0].Status)
}

func TestRun_Usage(t *testing.T) {
	var out bytes.Buffer

	assert.ErrorIs(t, run(context.Background(), nil, nil, &out), errUsage)
	assert.ErrorIs(t, run(context.Background(), []string{"get"}, nil, &out), errUsage)
	assert.ErrorIs(t, run(context.Background(), []string{"frobnicate"}, nil, &out), errUsage)
}
