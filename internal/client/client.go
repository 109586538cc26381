// Package client talks to the order API over HTTP. After every successful
// mutation it refetches the canonical list into the attached cache.
package client

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"

	"orderdesk/internal/domain"
	"orderdesk/internal/dto"
	apperrors "orderdesk/internal/errors"
	"orderdesk/internal/order/cache"
	"orderdesk/internal/report"
)

const ordersPath = "/api/orders"

type Client struct {
	http   *resty.Client
	cache  *cache.Cache
	logger *zap.Logger
}

// New returns a client for the API at baseURL. orders may be nil.
func New(baseURL string, orders *cache.Cache, logger *zap.Logger) *Client {
	rc := resty.New().
		SetBaseURL(baseURL).
		SetHeader("Accept", "application/json").
		SetTimeout(10 * time.Second)

	return &Client{
		http:   rc,
		cache:  orders,
		logger: logger,
	}
}

// ListOrders fetches the canonical list. An unfiltered fetch also refreshes the cache.
func (c *Client) ListOrders(ctx context.Context, filter dto.ListFilter) ([]domain.Order, error) {
	var orders []domain.Order
	req := c.request(ctx).SetResult(&orders)
	if filter.Status != "" {
		req.SetQueryParam("status", string(filter.Status))
	}
	if filter.Search != "" {
		req.SetQueryParam("search", filter.Search)
	}

	resp, err := req.Get(ordersPath)
	if err := checkResponse(resp, err); err != nil {
		return nil, err
	}

	if c.cache != nil && filter == (dto.ListFilter{}) {
		if err := c.cache.SetOrders(ctx, orders); err != nil {
			c.logger.Warn("caching order list failed", zap.Error(err))
		}
	}
	return orders, nil
}

func (c *Client) GetOrder(ctx context.Context, orderNumber string) (*domain.Order, error) {
	var order domain.Order
	resp, err := c.request(ctx).
		SetPathParam("orderNumber", orderNumber).
		SetResult(&order).
		Get(ordersPath + "/{orderNumber}")
	if err := checkResponse(resp, err); err != nil {
		return nil, err
	}
	return &order, nil
}

func (c *Client) CreateOrder(ctx context.Context, order domain.Order) (*domain.Order, error) {
	var created domain.Order
	resp, err := c.request(ctx).
		SetBody(order).
		SetResult(&created).
		Post(ordersPath)
	if err := checkResponse(resp, err); err != nil {
		return nil, err
	}

	c.refresh(ctx)
	return &created, nil
}

func (c *Client) UpdateStatus(ctx context.Context, orderNumber string, status domain.OrderStatus) (*domain.Order, error) {
	var updated domain.Order
	resp, err := c.request(ctx).
		SetQueryParam("orderNumber", orderNumber).
		SetBody(dto.StatusUpdateRequest{Status: status}).
		SetResult(&updated).
		Put(ordersPath)
	if err := checkResponse(resp, err); err != nil {
		return nil, err
	}

	c.refresh(ctx)
	return &updated, nil
}

func (c *Client) UpdateOrder(ctx context.Context, orderNumber string, order domain.Order) (*domain.Order, error) {
	var updated domain.Order
	resp, err := c.request(ctx).
		SetPathParam("orderNumber", orderNumber).
		SetBody(order).
		SetResult(&updated).
		Put(ordersPath + "/{orderNumber}")
	if err := checkResponse(resp, err); err != nil {
		return nil, err
	}

	c.refresh(ctx)
	return &updated, nil
}

func (c *Client) DeleteOrder(ctx context.Context, orderNumber string) (int, error) {
	var result dto.DeleteResponse
	resp, err := c.request(ctx).
		SetQueryParam("orderNumber", orderNumber).
		SetResult(&result).
		Delete(ordersPath)
	if err := checkResponse(resp, err); err != nil {
		return 0, err
	}

	c.refresh(ctx)
	return result.Deleted, nil
}

func (c *Client) DeleteLine(ctx context.Context, orderNumber, lineID string) (*domain.Order, error) {
	var updated domain.Order
	resp, err := c.request(ctx).
		SetPathParams(map[string]string{
			"orderNumber": orderNumber,
			"lineId":      lineID,
		}).
		SetResult(&updated).
		Delete(ordersPath + "/{orderNumber}/lines/{lineId}")
	if err := checkResponse(resp, err); err != nil {
		return nil, err
	}

	c.refresh(ctx)
	return &updated, nil
}

func (c *Client) Report(ctx context.Context) (*report.Summary, error) {
	var summary report.Summary
	resp, err := c.request(ctx).
		SetResult(&summary).
		Get(ordersPath + "/report")
	if err := checkResponse(resp, err); err != nil {
		return nil, err
	}
	return &summary, nil
}

func (c *Client) request(ctx context.Context) *resty.Request {
	return c.http.R().
		SetContext(ctx).
		SetError(&dto.ErrorResponse{})
}

// refresh refetches the full list into the cache. A failed refresh leaves the
// previous cache in place; the mutation itself already succeeded.
func (c *Client) refresh(ctx context.Context) {
	if c.cache == nil {
		return
	}
	if _, err := c.ListOrders(ctx, dto.ListFilter{}); err != nil {
		c.logger.Warn("refreshing order cache failed", zap.Error(err))
	}
}

// checkResponse turns transport failures and error payloads into typed errors.
func checkResponse(resp *resty.Response, err error) error {
	if err != nil {
		return fmt.Errorf("calling order api: %w", err)
	}
	if !resp.IsError() {
		return nil
	}

	payload, _ := resp.Error().(*dto.ErrorResponse)
	message := resp.Status()
	var details []apperrors.ValidationDetail
	if payload != nil && payload.Message != "" {
		message = payload.Message
		details = payload.Details
	}

	switch resp.StatusCode() {
	case http.StatusBadRequest:
		return apperrors.NewValidationError(message, details...)
	case http.StatusNotFound:
		return apperrors.NewNotFoundError(message)
	default:
		return fmt.Errorf("order api %s %s: %d %s", resp.Request.Method, resp.Request.URL, resp.StatusCode(), message)
	}
}
