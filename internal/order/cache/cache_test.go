package cache

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"orderdesk/internal/domain"
	"orderdesk/internal/order/repository"
)

type mockSnapshot struct {
	LoadFunc func(ctx context.Context) ([]domain.Order, error)
	SaveFunc func(ctx context.Context, orders []domain.Order) error
}

func (m *mockSnapshot) Load(ctx context.Context) ([]domain.Order, error) {
	return m.LoadFunc(ctx)
}

func (m *mockSnapshot) Save(ctx context.Context, orders []domain.Order) error {
	return m.SaveFunc(ctx, orders)
}

func order(number, date string, status domain.OrderStatus) domain.Order {
	return domain.Order{OrderNumber: domain.OrderNumber(number), TransactionDate: date, Status: status}
}

func TestSetOrders_MergesLikeTheStore(t *testing.T) {
	c := New(nil, zap.NewNop())

	err := c.SetOrders(context.Background(), []domain.Order{
		order("x1 ", "2024-01-01T00:00:00Z", domain.OrderStatusPending),
		order("B2", "2024-01-01T00:00:00Z", ""),
		order("X1", "2024-02-01T00:00:00Z", domain.OrderStatusApproved),
	})

	require.NoError(t, err)
	orders := c.Orders()
	require.Len(t, orders, 2)
	assert.Equal(t, domain.OrderNumber("X1"), orders[0].OrderNumber)
	assert.Equal(t, domain.OrderStatusApproved, orders[0].Status)
	assert.Equal(t, domain.OrderStatusPending, orders[1].Status)
}

func TestAdd_StaleCopyIsIgnored(t *testing.T) {
	c := New(nil, zap.NewNop())
	require.NoError(t, c.Add(context.Background(), order("A1", "2024-02-01", domain.OrderStatusShipped)))

	require.NoError(t, c.Add(context.Background(), order("a1", "2024-01-01", domain.OrderStatusPending)))

	assert.Equal(t, 1, c.Count())
	got, ok := c.Get("A1")
	require.True(t, ok)
	assert.Equal(t, domain.OrderStatusShipped, got.Status)
}

func TestUpdate_ReplacesOrAppends(t *testing.T) {
	c := New(nil, zap.NewNop())
	require.NoError(t, c.Add(context.Background(), order("A1", "2024-01-01", domain.OrderStatusPending)))

	replacement := order("a1", "2023-01-01", domain.OrderStatusCancelled)
	replacement.Customer = "Globex"
	require.NoError(t, c.Update(context.Background(), replacement))
	require.NoError(t, c.Update(context.Background(), order("B1", "2024-01-01", "")))

	orders := c.Orders()
	require.Len(t, orders, 2)
	assert.Equal(t, "Globex", orders[0].Customer)
	assert.Equal(t, domain.OrderNumber("A1"), orders[0].OrderNumber)
	assert.Equal(t, domain.OrderNumber("B1"), orders[1].OrderNumber)
}

func TestUpdateStatus(t *testing.T) {
	c := New(nil, zap.NewNop())
	require.NoError(t, c.Add(context.Background(), order("A1", "2024-01-01", domain.OrderStatusApproved)))

	found, err := c.UpdateStatus(context.Background(), " a1", "")
	require.NoError(t, err)
	assert.True(t, found)
	got, _ := c.Get("A1")
	assert.Equal(t, domain.OrderStatusPending, got.Status)

	found, err = c.UpdateStatus(context.Background(), "ZZ", domain.OrderStatusShipped)
	require.NoError(t, err)
	assert.False(t, found)
}

func TestDeleteAndDeleteLine(t *testing.T) {
	c := New(nil, zap.NewNop())
	withLines := order("A1", "2024-01-01", domain.OrderStatusPending)
	withLines.Lines = []domain.OrderLine{
		{ID: "l1", Quantity: 1, Price: 2, Amount: 2},
		{ID: "l2", Quantity: 1, Price: 3, Amount: 3},
	}
	require.NoError(t, c.SetOrders(context.Background(), []domain.Order{withLines, order("B1", "2024-01-01", "")}))

	found, err := c.DeleteLine(context.Background(), "a1", "l2")
	require.NoError(t, err)
	assert.True(t, found)
	got, _ := c.Get("A1")
	assert.Equal(t, 2.0, got.Amount)

	found, err = c.DeleteLine(context.Background(), "a1", "nope")
	require.NoError(t, err)
	assert.False(t, found)

	removed, err := c.Delete(context.Background(), "b1")
	require.NoError(t, err)
	assert.Equal(t, 1, removed)

	removed, err = c.Delete(context.Background(), "b1")
	require.NoError(t, err)
	assert.Zero(t, removed)
	assert.Equal(t, 1, c.Count())
}

func TestOrders_ReturnsCopies(t *testing.T) {
	c := New(nil, zap.NewNop())
	o := order("A1", "2024-01-01", domain.OrderStatusPending)
	o.Lines = []domain.OrderLine{{ID: "l1", Amount: 1}}
	require.NoError(t, c.Add(context.Background(), o))

	orders := c.Orders()
	orders[0].Lines[0].ID = "changed"

	got, _ := c.Get("A1")
	assert.Equal(t, "l1", got.Lines[0].ID)
}

func TestSnapshot_RoundTripsThroughFile(t *testing.T) {
	repo := repository.NewFileRepository(filepath.Join(t.TempDir(), "cache.json"))
	first := New(repo, zap.NewNop())
	require.NoError(t, first.SetOrders(context.Background(), []domain.Order{
		order("A1", "2024-01-01", domain.OrderStatusShipped),
	}))

	second := New(repo, zap.NewNop())
	require.NoError(t, second.Restore(context.Background()))

	got, ok := second.Get("A1")
	require.True(t, ok)
	assert.Equal(t, domain.OrderStatusShipped, got.Status)
}

func TestSnapshot_SaveFailureIsReturned(t *testing.T) {
	snap := &mockSnapshot{
		SaveFunc: func(ctx context.Context, orders []domain.Order) error {
			return errors.New("disk full")
		},
	}
	c := New(snap, zap.NewNop())

	err := c.Add(context.Background(), order("A1", "2024-01-01", ""))

	assert.EqualError(t, err, "disk full")
	assert.Equal(t, 1, c.Count())
}
