package service

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"orderdesk/internal/domain"
	"orderdesk/internal/dto"
	apperrors "orderdesk/internal/errors"
	"orderdesk/internal/infrastructure/metrics"
	"orderdesk/internal/order/merge"
	"orderdesk/internal/report"
)

// DocumentRepository loads and rewrites the whole order document.
type DocumentRepository interface {
	Load(ctx context.Context) ([]domain.Order, error)
	Save(ctx context.Context, orders []domain.Order) error
}

type MetricsRecorder interface {
	ObserveOperation(operation, result string)
	ObserveDocumentIO(op string, started time.Time, records int)
	ObserveMerge(canonical, discarded int)
}

func matchesFilter(f dto.ListFilter, o domain.Order) bool {
	if f.Status != "" && o.Status != f.Status {
		return false
	}
	if f.Search == "" {
		return true
	}
	term := strings.ToLower(f.Search)
	return strings.Contains(strings.ToLower(o.OrderNumber.String()), term) ||
		strings.Contains(strings.ToLower(o.Customer), term)
}

// OrderService is the order store. Every call reads the full document, works on
// it in memory and, for mutations, writes the full document back. Writes append
// without a uniqueness check; duplicates are resolved by the merge rule on read.
// Calls within one process are serialized; other processes sharing the document
// can still overwrite each other.
type OrderService struct {
	repo    DocumentRepository
	metrics MetricsRecorder
	logger  *zap.Logger

	mu    sync.RWMutex
	now   func() time.Time
	newID func() string
}

func NewOrderService(repo DocumentRepository, metrics MetricsRecorder, logger *zap.Logger) *OrderService {
	return &OrderService{
		repo:    repo,
		metrics: metrics,
		logger:  logger,
		now:     time.Now,
		newID:   func() string { return uuid.New().String() },
	}
}

// List returns the canonical list in merge order, optionally filtered.
func (s *OrderService) List(ctx context.Context, filter dto.ListFilter) ([]domain.Order, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	raw, err := s.load(ctx)
	if err != nil {
		return nil, s.fail("list", err)
	}

	canonical := merge.Merge(raw)
	s.metrics.ObserveMerge(len(canonical), len(raw)-len(canonical))

	orders := make([]domain.Order, 0, len(canonical))
	for _, o := range canonical {
		if matchesFilter(filter, o) {
			orders = append(orders, o)
		}
	}

	s.metrics.ObserveOperation("list", metrics.ResultOK)
	return orders, nil
}

// Get returns the merge winner for orderNumber.
func (s *OrderService) Get(ctx context.Context, orderNumber string) (*domain.Order, error) {
	key, err := requireKey(orderNumber)
	if err != nil {
		return nil, s.fail("get", err)
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	raw, err := s.load(ctx)
	if err != nil {
		return nil, s.fail("get", err)
	}

	idx, ok := merge.WinnerIndex(raw, key)
	if !ok {
		return nil, s.fail("get", notFound(key))
	}

	order := merge.Normalize(raw[idx])
	s.metrics.ObserveOperation("get", metrics.ResultOK)
	return &order, nil
}

// Create appends a new record. An existing order with the same number is not
// checked; the later transaction date wins on the next read.
func (s *OrderService) Create(ctx context.Context, order domain.Order) (*domain.Order, error) {
	key, err := requireKey(order.OrderNumber.String())
	if err != nil {
		return nil, s.fail("create", err)
	}
	if err := validateStatus(order.Status); err != nil {
		return nil, s.fail("create", err)
	}

	stored := s.prepare(order, key)
	if stored.ID == "" {
		stored.ID = s.newID()
	}
	if strings.TrimSpace(stored.TransactionDate) == "" {
		stored.TransactionDate = s.now().UTC().Format(domain.TimestampLayout)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	raw, err := s.load(ctx)
	if err != nil {
		return nil, s.fail("create", err)
	}
	if err := s.save(ctx, append(raw, stored)); err != nil {
		return nil, s.fail("create", err)
	}

	s.logger.Info("order created", zap.String("orderNumber", key), zap.String("id", stored.ID))
	s.metrics.ObserveOperation("create", metrics.ResultOK)
	return &stored, nil
}

// UpdateStatus changes only the status of the winning record for orderNumber.
func (s *OrderService) UpdateStatus(ctx context.Context, orderNumber string, status domain.OrderStatus) (*domain.Order, error) {
	key, err := requireKey(orderNumber)
	if err != nil {
		return nil, s.fail("update_status", err)
	}
	if status == domain.OrderStatusNone {
		return nil, s.fail("update_status", apperrors.NewValidationError("status is required", apperrors.ValidationDetail{
			Field:   "status",
			Message: "status is required",
		}))
	}
	if err := validateStatus(status); err != nil {
		return nil, s.fail("update_status", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	raw, err := s.load(ctx)
	if err != nil {
		return nil, s.fail("update_status", err)
	}

	idx, ok := merge.WinnerIndex(raw, key)
	if !ok {
		return nil, s.fail("update_status", notFound(key))
	}
	raw, idx = collapse(raw, key, idx)
	raw[idx].Status = status

	if err := s.save(ctx, raw); err != nil {
		return nil, s.fail("update_status", err)
	}

	s.logger.Info("order status updated", zap.String("orderNumber", key), zap.String("status", string(status)))
	s.metrics.ObserveOperation("update_status", metrics.ResultOK)
	updated := merge.Normalize(raw[idx])
	return &updated, nil
}

// UpdateFull replaces the winning record for orderNumber with order. The path
// number is authoritative; the stored id and transaction date are kept when the
// replacement leaves them empty.
func (s *OrderService) UpdateFull(ctx context.Context, orderNumber string, order domain.Order) (*domain.Order, error) {
	key, err := requireKey(orderNumber)
	if err != nil {
		return nil, s.fail("update", err)
	}
	if err := validateStatus(order.Status); err != nil {
		return nil, s.fail("update", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	raw, err := s.load(ctx)
	if err != nil {
		return nil, s.fail("update", err)
	}

	idx, ok := merge.WinnerIndex(raw, key)
	if !ok {
		return nil, s.fail("update", notFound(key))
	}
	raw, idx = collapse(raw, key, idx)

	replacement := s.prepare(order, key)
	if replacement.ID == "" {
		replacement.ID = raw[idx].ID
	}
	if replacement.ID == "" {
		replacement.ID = s.newID()
	}
	if strings.TrimSpace(replacement.TransactionDate) == "" {
		replacement.TransactionDate = raw[idx].TransactionDate
	}
	raw[idx] = replacement

	if err := s.save(ctx, raw); err != nil {
		return nil, s.fail("update", err)
	}

	s.logger.Info("order replaced", zap.String("orderNumber", key))
	s.metrics.ObserveOperation("update", metrics.ResultOK)
	return &replacement, nil
}

// Delete removes every record whose number normalizes to orderNumber and
// returns how many were removed. Removing nothing is not an error.
func (s *OrderService) Delete(ctx context.Context, orderNumber string) (int, error) {
	key, err := requireKey(orderNumber)
	if err != nil {
		return 0, s.fail("delete", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	raw, err := s.load(ctx)
	if err != nil {
		return 0, s.fail("delete", err)
	}

	kept := make([]domain.Order, 0, len(raw))
	for _, o := range raw {
		if merge.Key(o) != key {
			kept = append(kept, o)
		}
	}
	removed := len(raw) - len(kept)

	if removed > 0 {
		if err := s.save(ctx, kept); err != nil {
			return 0, s.fail("delete", err)
		}
	}

	s.logger.Info("order deleted", zap.String("orderNumber", key), zap.Int("removed", removed))
	s.metrics.ObserveOperation("delete", metrics.ResultOK)
	return removed, nil
}

// DeleteLine removes one line from the winning record and recomputes its total.
func (s *OrderService) DeleteLine(ctx context.Context, orderNumber, lineID string) (*domain.Order, error) {
	key, err := requireKey(orderNumber)
	if err != nil {
		return nil, s.fail("delete_line", err)
	}
	if strings.TrimSpace(lineID) == "" {
		return nil, s.fail("delete_line", apperrors.NewValidationError("lineId is required", apperrors.ValidationDetail{
			Field:   "lineId",
			Message: "lineId is required",
		}))
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	raw, err := s.load(ctx)
	if err != nil {
		return nil, s.fail("delete_line", err)
	}

	idx, ok := merge.WinnerIndex(raw, key)
	if !ok {
		return nil, s.fail("delete_line", notFound(key))
	}

	target := raw[idx].Clone()
	if !target.RemoveLine(lineID) {
		return nil, s.fail("delete_line", apperrors.NewNotFoundError(fmt.Sprintf("line %s not found on order %s", lineID, key)))
	}
	raw[idx] = target

	if err := s.save(ctx, raw); err != nil {
		return nil, s.fail("delete_line", err)
	}

	s.metrics.ObserveOperation("delete_line", metrics.ResultOK)
	updated := merge.Normalize(target)
	return &updated, nil
}

// Report summarizes the canonical list.
func (s *OrderService) Report(ctx context.Context) (*report.Summary, error) {
	orders, err := s.List(ctx, dto.ListFilter{})
	if err != nil {
		return nil, err
	}
	summary := report.Summarize(orders)
	return &summary, nil
}

// prepare brings a caller-supplied record into stored form under key: missing
// line ids are assigned, missing line amounts are derived from quantity × price.
func (s *OrderService) prepare(order domain.Order, key string) domain.Order {
	stored := order.Clone()
	stored.OrderNumber = domain.OrderNumber(key)
	for i := range stored.Lines {
		line := &stored.Lines[i]
		if line.ID == "" {
			line.ID = s.newID()
		}
		if line.Amount == 0 && line.Quantity != 0 && line.Price != 0 {
			line.Amount = domain.LineAmount(line.Quantity, line.Price)
		}
	}
	return merge.Normalize(stored)
}

func (s *OrderService) load(ctx context.Context) ([]domain.Order, error) {
	started := time.Now()
	raw, err := s.repo.Load(ctx)
	if err != nil {
		return nil, asStorageError("loading order document", err)
	}
	s.metrics.ObserveDocumentIO("load", started, len(raw))
	return raw, nil
}

func (s *OrderService) save(ctx context.Context, orders []domain.Order) error {
	started := time.Now()
	if err := s.repo.Save(ctx, orders); err != nil {
		return asStorageError("saving order document", err)
	}
	s.metrics.ObserveDocumentIO("save", started, len(orders))
	return nil
}

func (s *OrderService) fail(operation string, err error) error {
	result := metrics.ResultStorageFail
	switch {
	case isNotFound(err):
		result = metrics.ResultNotFound
	case isValidation(err):
		result = metrics.ResultInvalid
	default:
		s.logger.Error("order store failure", zap.String("operation", operation), zap.Error(err))
	}
	s.metrics.ObserveOperation(operation, result)
	return err
}

// collapse keeps a single record for key: the one at winner, moved into the
// slot of the key's first record so merge order is unchanged. It returns the
// winner's new position.
func collapse(raw []domain.Order, key string, winner int) ([]domain.Order, int) {
	kept := make([]domain.Order, 0, len(raw))
	newIdx := -1
	for _, o := range raw {
		if merge.Key(o) != key {
			kept = append(kept, o)
			continue
		}
		if newIdx < 0 {
			newIdx = len(kept)
			kept = append(kept, raw[winner])
		}
	}
	return kept, newIdx
}

func requireKey(orderNumber string) (string, error) {
	key := merge.NormalizeOrderNumber(orderNumber)
	if key == "" {
		return "", apperrors.NewValidationError("orderNumber is required", apperrors.ValidationDetail{
			Field:   "orderNumber",
			Message: "orderNumber is required",
		})
	}
	return key, nil
}

func validateStatus(status domain.OrderStatus) error {
	if status.Valid() {
		return nil
	}
	return apperrors.NewValidationError("invalid status", apperrors.ValidationDetail{
		Field:   "status",
		Message: fmt.Sprintf("status %q is not one of Pending, Approved, Shipped, Cancelled", status),
	})
}

func notFound(key string) error {
	return apperrors.NewNotFoundError(fmt.Sprintf("order %s not found", key))
}

func asStorageError(op string, err error) error {
	if _, ok := apperrors.IsStorageError(err); ok {
		return err
	}
	return apperrors.NewStorageError(op, err)
}

func isNotFound(err error) bool {
	_, ok := apperrors.IsNotFoundError(err)
	return ok
}

func isValidation(err error) bool {
	_, ok := apperrors.IsValidationError(err)
	return ok
}
