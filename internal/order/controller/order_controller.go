package controller

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"orderdesk/internal/domain"
	"orderdesk/internal/dto"
	apperrors "orderdesk/internal/errors"
	"orderdesk/internal/report"
)

const (
	TraceIDHeader = "X-Trace-Id"

	maxBodyBytes = 1 << 20
)

type OrderStore interface {
	List(ctx context.Context, filter dto.ListFilter) ([]domain.Order, error)
	Get(ctx context.Context, orderNumber string) (*domain.Order, error)
	Create(ctx context.Context, order domain.Order) (*domain.Order, error)
	UpdateStatus(ctx context.Context, orderNumber string, status domain.OrderStatus) (*domain.Order, error)
	UpdateFull(ctx context.Context, orderNumber string, order domain.Order) (*domain.Order, error)
	Delete(ctx context.Context, orderNumber string) (int, error)
	DeleteLine(ctx context.Context, orderNumber, lineID string) (*domain.Order, error)
	Report(ctx context.Context) (*report.Summary, error)
}

type OrderController struct {
	store     OrderStore
	validator *BodyValidator
	logger    *zap.Logger
}

func NewOrderController(store OrderStore, validator *BodyValidator, logger *zap.Logger) *OrderController {
	return &OrderController{
		store:     store,
		validator: validator,
		logger:    logger,
	}
}

// Routes mounts the order endpoints on r. Callers mount the result under /api/orders.
func (c *OrderController) Routes(r chi.Router) {
	r.Get("/", c.HandleCollectionGet)
	r.Post("/", c.HandleCreate)
	r.Put("/", c.HandleUpdateStatus)
	r.Delete("/", c.HandleDelete)
	// "report" is reserved here; an order with that number is still reachable
	// through GET /?orderNumber=report.
	r.Get("/report", c.HandleReport)
	r.Get("/{orderNumber}", c.HandleGet)
	r.Put("/{orderNumber}", c.HandleReplace)
	r.Delete("/{orderNumber}/lines/{lineId}", c.HandleDeleteLine)
}

// HandleCollectionGet serves the canonical list, or a single order when the
// orderNumber query parameter is non-empty.
func (c *OrderController) HandleCollectionGet(w http.ResponseWriter, r *http.Request) {
	traceID, logger := c.trace(w)

	query := r.URL.Query()
	if orderNumber := query.Get("orderNumber"); orderNumber != "" {
		c.getOne(w, r, traceID, logger, orderNumber)
		return
	}

	filter := dto.ListFilter{
		Status: domain.OrderStatus(query.Get("status")),
		Search: strings.TrimSpace(query.Get("search")),
	}
	orders, err := c.store.List(r.Context(), filter)
	if err != nil {
		c.handleStoreError(w, traceID, err, logger)
		return
	}

	c.writeJSON(w, http.StatusOK, orders)
}

func (c *OrderController) HandleGet(w http.ResponseWriter, r *http.Request) {
	traceID, logger := c.trace(w)
	c.getOne(w, r, traceID, logger, chi.URLParam(r, "orderNumber"))
}

func (c *OrderController) getOne(w http.ResponseWriter, r *http.Request, traceID string, logger *zap.Logger, orderNumber string) {
	order, err := c.store.Get(r.Context(), orderNumber)
	if err != nil {
		c.handleStoreError(w, traceID, err, logger)
		return
	}
	c.writeJSON(w, http.StatusOK, order)
}

func (c *OrderController) HandleCreate(w http.ResponseWriter, r *http.Request) {
	traceID, logger := c.trace(w)

	order, ok := c.decodeOrder(w, r, traceID, logger)
	if !ok {
		return
	}

	created, err := c.store.Create(r.Context(), order)
	if err != nil {
		c.handleStoreError(w, traceID, err, logger)
		return
	}

	logger.Info("order created", zap.String("orderNumber", created.OrderNumber.String()))
	c.writeJSON(w, http.StatusCreated, created)
}

// HandleUpdateStatus changes only the status of ?orderNumber=.
func (c *OrderController) HandleUpdateStatus(w http.ResponseWriter, r *http.Request) {
	traceID, logger := c.trace(w)

	orderNumber := r.URL.Query().Get("orderNumber")
	if strings.TrimSpace(orderNumber) == "" {
		c.writeValidationError(w, traceID, "orderNumber is required", apperrors.ValidationDetail{
			Field:   "orderNumber",
			Message: "orderNumber query parameter is required",
		})
		return
	}

	var req dto.StatusUpdateRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&req); err != nil {
		logger.Warn("invalid JSON body", zap.Error(err))
		c.writeValidationError(w, traceID, "invalid JSON body", apperrors.ValidationDetail{
			Field:   "body",
			Message: "request body must be valid JSON",
		})
		return
	}

	updated, err := c.store.UpdateStatus(r.Context(), orderNumber, req.Status)
	if err != nil {
		c.handleStoreError(w, traceID, err, logger)
		return
	}

	c.writeJSON(w, http.StatusOK, updated)
}

// HandleReplace replaces the order named in the path with the request body.
func (c *OrderController) HandleReplace(w http.ResponseWriter, r *http.Request) {
	traceID, logger := c.trace(w)

	order, ok := c.decodeOrder(w, r, traceID, logger)
	if !ok {
		return
	}

	updated, err := c.store.UpdateFull(r.Context(), chi.URLParam(r, "orderNumber"), order)
	if err != nil {
		c.handleStoreError(w, traceID, err, logger)
		return
	}

	c.writeJSON(w, http.StatusOK, updated)
}

func (c *OrderController) HandleDelete(w http.ResponseWriter, r *http.Request) {
	traceID, logger := c.trace(w)

	orderNumber := r.URL.Query().Get("orderNumber")
	if strings.TrimSpace(orderNumber) == "" {
		c.writeValidationError(w, traceID, "orderNumber is required", apperrors.ValidationDetail{
			Field:   "orderNumber",
			Message: "orderNumber query parameter is required",
		})
		return
	}

	deleted, err := c.store.Delete(r.Context(), orderNumber)
	if err != nil {
		c.handleStoreError(w, traceID, err, logger)
		return
	}

	c.writeJSON(w, http.StatusOK, dto.DeleteResponse{
		Message: "Order deleted successfully",
		Deleted: deleted,
	})
}

func (c *OrderController) HandleDeleteLine(w http.ResponseWriter, r *http.Request) {
	traceID, logger := c.trace(w)

	updated, err := c.store.DeleteLine(r.Context(), chi.URLParam(r, "orderNumber"), chi.URLParam(r, "lineId"))
	if err != nil {
		c.handleStoreError(w, traceID, err, logger)
		return
	}

	c.writeJSON(w, http.StatusOK, updated)
}

func (c *OrderController) HandleReport(w http.ResponseWriter, r *http.Request) {
	traceID, logger := c.trace(w)

	summary, err := c.store.Report(r.Context())
	if err != nil {
		c.handleStoreError(w, traceID, err, logger)
		return
	}

	c.writeJSON(w, http.StatusOK, summary)
}

func (c *OrderController) trace(w http.ResponseWriter) (string, *zap.Logger) {
	traceID := uuid.New().String()
	w.Header().Set(TraceIDHeader, traceID)
	return traceID, c.logger.With(zap.String("traceId", traceID))
}

// decodeOrder validates the body against the order schema and decodes it.
// It writes the 400 response itself and reports false when the body is rejected.
func (c *OrderController) decodeOrder(w http.ResponseWriter, r *http.Request, traceID string, logger *zap.Logger) (domain.Order, bool) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		logger.Warn("reading request body failed", zap.Error(err))
		c.writeValidationError(w, traceID, "invalid request body", apperrors.ValidationDetail{
			Field:   "body",
			Message: "request body could not be read",
		})
		return domain.Order{}, false
	}

	if err := c.validator.ValidateOrder(body); err != nil {
		ve, _ := apperrors.IsValidationError(err)
		logger.Warn("order body rejected", zap.Int("violations", len(ve.Details)))
		c.writeValidationError(w, traceID, ve.Message, ve.Details...)
		return domain.Order{}, false
	}

	var order domain.Order
	if err := json.Unmarshal(body, &order); err != nil {
		logger.Warn("invalid JSON body", zap.Error(err))
		c.writeValidationError(w, traceID, "invalid JSON body", apperrors.ValidationDetail{
			Field:   "body",
			Message: err.Error(),
		})
		return domain.Order{}, false
	}
	return order, true
}

func (c *OrderController) handleStoreError(w http.ResponseWriter, traceID string, err error, logger *zap.Logger) {
	if ve, ok := apperrors.IsValidationError(err); ok {
		c.writeValidationError(w, traceID, ve.Message, ve.Details...)
		return
	}

	if _, ok := apperrors.IsNotFoundError(err); ok {
		c.writeError(w, http.StatusNotFound, dto.ErrorResponse{
			TraceID: traceID,
			Error:   dto.CodeNotFound,
			Message: err.Error(),
		})
		return
	}

	if _, ok := apperrors.IsStorageError(err); ok {
		logger.Error("order storage failed", zap.Error(err))
		c.writeError(w, http.StatusInternalServerError, dto.ErrorResponse{
			TraceID: traceID,
			Error:   dto.CodeStorage,
			Message: "order storage is unavailable",
		})
		return
	}

	logger.Error("unexpected error", zap.Error(err))
	c.writeError(w, http.StatusInternalServerError, dto.ErrorResponse{
		TraceID: traceID,
		Error:   dto.CodeInternal,
		Message: "an unexpected error occurred",
	})
}

func (c *OrderController) writeValidationError(w http.ResponseWriter, traceID string, message string, details ...apperrors.ValidationDetail) {
	c.writeError(w, http.StatusBadRequest, dto.ErrorResponse{
		TraceID: traceID,
		Error:   dto.CodeValidation,
		Message: message,
		Details: details,
	})
}

func (c *OrderController) writeError(w http.ResponseWriter, status int, response dto.ErrorResponse) {
	c.writeJSON(w, status, response)
}

func (c *OrderController) writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		c.logger.Error("failed to encode response", zap.Error(err))
	}
}
