// Package order implements purchase commands and the order lifecycle.
package order

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/capitalize-ai/sales-assistant/internal/model"
	"github.com/capitalize-ai/sales-assistant/internal/store"
	"github.com/capitalize-ai/sales-assistant/pkg/logger"
	"github.com/capitalize-ai/sales-assistant/pkg/metrics"
)

// HistoryLimit is the number of orders shown by the history command.
const HistoryLimit = 5

// Notifier receives order events. Delivery is best-effort.
type Notifier interface {
	PublishOrderEvent(ctx context.Context, event *model.OrderEvent) error
}

// Config controls command recognition.
type Config struct {
	PurchaseKeyword string
	HistoryCommand  string
}

// Manager validates purchase commands and creates orders.
type Manager struct {
	orders    store.Orders
	inventory Inventory
	notifier  Notifier
	log       *logger.Logger
	cfg       Config

	purchasePattern *regexp.Regexp
	keywordPattern  *regexp.Regexp
}

// NewManager creates an order manager.
func NewManager(orders store.Orders, inventory Inventory, cfg Config, log *logger.Logger) *Manager {
	if cfg.PurchaseKeyword == "" {
		cfg.PurchaseKeyword = "comprar"
	}
	if cfg.HistoryCommand == "" {
		cfg.HistoryCommand = "/pedidos"
	}
	keyword := regexp.QuoteMeta(strings.ToLower(cfg.PurchaseKeyword))

	return &Manager{
		orders:          orders,
		inventory:       inventory,
		log:             log,
		cfg:             cfg,
		purchasePattern: regexp.MustCompile(`(?i)^\s*` + keyword + `\s+(\d+)\b`),
		keywordPattern:  regexp.MustCompile(`(?i)^\s*` + keyword + `\b`),
	}
}

// SetNotifier installs the order event sink.
func (m *Manager) SetNotifier(n Notifier) {
	m.notifier = n
}

// IsPurchaseCommand reports whether text starts with the purchase keyword.
func (m *Manager) IsPurchaseCommand(text string) bool {
	return m.keywordPattern.MatchString(text)
}

// IsHistoryCommand reports whether text is the order-history command.
func (m *Manager) IsHistoryCommand(text string) bool {
	return strings.EqualFold(strings.TrimSpace(text), m.cfg.HistoryCommand)
}

// Purchase buys one unit of the product at the given position of shown.
// The order total is the price captured when the product was shown.
func (m *Manager) Purchase(ctx context.Context, userID, command string, shown []model.Product) (*model.Order, error) {
	match := m.purchasePattern.FindStringSubmatch(command)
	if match == nil {
		metrics.RecordPurchase("usage")
		return nil, ErrUsage
	}
	position, err := strconv.Atoi(match[1])
	if err == nil && position == 0 {
		metrics.RecordPurchase("usage")
		return nil, ErrUsage
	}

	if len(shown) == 0 {
		metrics.RecordPurchase("search_first")
		return nil, ErrSearchFirst
	}
	if err != nil || position > len(shown) {
		metrics.RecordPurchase("not_found")
		return nil, ErrProductNotFound
	}
	selected := shown[position-1]

	taken, err := m.inventory.TakeOne(ctx, selected.ID)
	if err != nil {
		if errors.Is(err, ErrConflict) {
			metrics.RecordPurchase("conflict")
			return nil, err
		}
		metrics.RecordPurchase("error")
		return nil, fmt.Errorf("failed to reserve stock: %w", err)
	}
	if !taken {
		metrics.RecordPurchase("unavailable")
		return nil, ErrUnavailable
	}

	created, err := m.orders.CreateOrder(ctx, &model.Order{
		UserID:      userID,
		ProductID:   selected.ID,
		ProductName: selected.Name,
		Quantity:    1,
		Total:       selected.Price,
		Status:      model.OrderPending,
		Customer:    model.Customer{Phone: userID},
	})
	if err != nil {
		if rerr := m.inventory.ReturnOne(ctx, selected.ID); rerr != nil {
			m.log.Error("failed to restore stock after order failure",
				zap.String("product_id", selected.ID),
				zap.Error(rerr),
			)
		}
		metrics.RecordPurchase("error")
		return nil, fmt.Errorf("failed to create order: %w", err)
	}

	metrics.RecordPurchase("created")
	m.log.Info("order created",
		zap.String("order_id", created.ID),
		zap.String("user_id", userID),
		zap.String("product_id", selected.ID),
		zap.Float64("total", created.Total),
	)
	m.notify(ctx, model.EventOrderCreated, created, "")

	return created, nil
}

// History returns the user's most recent orders, newest first.
func (m *Manager) History(ctx context.Context, userID string) ([]model.Order, error) {
	orders, err := m.orders.FindOrdersByUser(ctx, userID, HistoryLimit)
	if err != nil {
		return nil, fmt.Errorf("failed to load order history: %w", err)
	}
	return orders, nil
}

// TransitionStatus moves an order along its lifecycle.
func (m *Manager) TransitionStatus(ctx context.Context, orderID string, to model.OrderStatus) (*model.Order, error) {
	if !to.Valid() {
		return nil, ErrInvalidStatus
	}

	current, err := m.orders.GetOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if current.Status == to {
		return current, nil
	}
	if !current.Status.CanTransition(to) {
		return nil, fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, current.Status, to)
	}

	updated, err := m.orders.UpdateOrderStatus(ctx, orderID, current.Status, to)
	if err != nil {
		if errors.Is(err, store.ErrStatusConflict) {
			return nil, fmt.Errorf("%w: %v", ErrConflict, err)
		}
		return nil, err
	}

	m.log.ForOrder(orderID).Info("order status changed",
		zap.String("from", string(current.Status)),
		zap.String("to", string(to)),
	)
	m.notify(ctx, model.EventOrderStatusChanged, updated, current.Status)

	return updated, nil
}

func (m *Manager) notify(ctx context.Context, eventType model.EventType, o *model.Order, previous model.OrderStatus) {
	if m.notifier == nil {
		return
	}

	event := &model.OrderEvent{
		ID:        uuid.NewString(),
		Type:      eventType,
		Order:     *o,
		Previous:  previous,
		CreatedAt: time.Now().UTC(),
	}
	if err := m.notifier.PublishOrderEvent(ctx, event); err != nil {
		metrics.OrderEventsTotal.WithLabelValues(string(eventType), "publish_failed").Inc()
		m.log.ForOrder(o.ID).Warn("failed to publish order event",
			zap.String("type", string(eventType)),
			zap.Error(err),
		)
	}
}
