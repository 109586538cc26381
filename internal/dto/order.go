package dto

import "orderdesk/internal/domain"

// ListFilter narrows the canonical list without changing its order.
type ListFilter struct {
	Status domain.OrderStatus
	Search string
}

type StatusUpdateRequest struct {
	Status domain.OrderStatus `json:"status"`
}

type DeleteResponse struct {
	Message string `json:"message"`
	Deleted int    `json:"deleted"`
}
