package service

import (
	"context"

	"github.com/capitalize-ai/sales-assistant/internal/model"
	"github.com/capitalize-ai/sales-assistant/internal/order"
	"github.com/capitalize-ai/sales-assistant/internal/store"
)

// RecentOrdersLimit caps the admin order listing.
const RecentOrdersLimit = 50

// OrderService exposes orders and sales figures to administrators.
type OrderService struct {
	store   store.Gateway
	manager *order.Manager
}

// NewOrderService creates an order service.
func NewOrderService(gw store.Gateway, manager *order.Manager) *OrderService {
	return &OrderService{store: gw, manager: manager}
}

// Recent returns the most recent orders, newest first.
func (s *OrderService) Recent(ctx context.Context) (*model.ListOrdersResponse, error) {
	orders, err := s.store.ListOrders(ctx, RecentOrdersLimit)
	if err != nil {
		return nil, err
	}
	if orders == nil {
		orders = []model.Order{}
	}
	return &model.ListOrdersResponse{Orders: orders, Total: len(orders)}, nil
}

// Get returns one order.
func (s *OrderService) Get(ctx context.Context, id string) (*model.Order, error) {
	return s.store.GetOrder(ctx, id)
}

// UpdateStatus moves an order along its lifecycle.
func (s *OrderService) UpdateStatus(ctx context.Context, id string, req *model.UpdateOrderStatusRequest) (*model.Order, error) {
	return s.manager.TransitionStatus(ctx, id, req.Status)
}

// Analytics returns conversation, order and sales totals.
func (s *OrderService) Analytics(ctx context.Context) (*model.Analytics, error) {
	return s.store.Analytics(ctx)
}
