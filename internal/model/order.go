package model

import "time"

// OrderStatus is the lifecycle state of an order.
type OrderStatus string

const (
	OrderPending   OrderStatus = "pendente"
	OrderConfirmed OrderStatus = "confirmado"
	OrderShipped   OrderStatus = "enviado"
	OrderDelivered OrderStatus = "entregue"
	OrderCancelled OrderStatus = "cancelado"
)

var orderTransitions = map[OrderStatus]OrderStatus{
	OrderPending:   OrderConfirmed,
	OrderConfirmed: OrderShipped,
	OrderShipped:   OrderDelivered,
}

// Valid reports whether s is a known status.
func (s OrderStatus) Valid() bool {
	switch s {
	case OrderPending, OrderConfirmed, OrderShipped, OrderDelivered, OrderCancelled:
		return true
	}
	return false
}

// Terminal reports whether no further transition is possible.
func (s OrderStatus) Terminal() bool {
	return s == OrderDelivered || s == OrderCancelled
}

// CanTransition reports whether an order may move from s to next.
func (s OrderStatus) CanTransition(next OrderStatus) bool {
	if s.Terminal() {
		return false
	}
	if next == OrderCancelled {
		return true
	}
	return orderTransitions[s] == next
}

// Customer holds buyer contact details.
type Customer struct {
	Name    string `json:"nome,omitempty"`
	Address string `json:"endereco,omitempty"`
	Phone   string `json:"telefone,omitempty"`
}

// Order is a purchase of a single catalog unit.
type Order struct {
	ID          string      `json:"id"`
	UserID      string      `json:"usuario_id"`
	ProductID   string      `json:"produto_id"`
	ProductName string      `json:"produto_nome"`
	Quantity    int         `json:"quantidade"`
	Total       float64     `json:"valor_total"`
	Status      OrderStatus `json:"status"`
	Customer    Customer    `json:"dados_cliente"`
	CreatedAt   time.Time   `json:"created_at"`
	UpdatedAt   time.Time   `json:"updated_at"`
}

// Reference returns the short human-readable order reference.
func (o *Order) Reference() string {
	if len(o.ID) <= 6 {
		return o.ID
	}
	return o.ID[len(o.ID)-6:]
}

// UpdateOrderStatusRequest is the request to move an order to a new status.
type UpdateOrderStatusRequest struct {
	Status OrderStatus `json:"status"`
}

// ListOrdersResponse is the response for listing orders.
type ListOrdersResponse struct {
	Orders []Order `json:"orders"`
	Total  int     `json:"total"`
}
