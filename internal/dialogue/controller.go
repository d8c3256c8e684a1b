// Package dialogue runs the per-message conversation pipeline.
package dialogue

import (
	"context"
	"sync"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/capitalize-ai/sales-assistant/internal/model"
	"github.com/capitalize-ai/sales-assistant/internal/order"
	"github.com/capitalize-ai/sales-assistant/internal/session"
	"github.com/capitalize-ai/sales-assistant/internal/store"
	"github.com/capitalize-ai/sales-assistant/pkg/logger"
	"github.com/capitalize-ai/sales-assistant/pkg/metrics"
	"github.com/capitalize-ai/sales-assistant/pkg/tracing"
)

// Fixed replies.
const (
	MsgNoProducts = "Não encontrei produtos com essas especificações. Pode me dar mais detalhes?"
	MsgApology    = "Desculpe, tive um problema. Pode tentar novamente?"
)

const logAppendTimeout = 10 * time.Second

// ProductMatcher finds purchasable products for a complete intent.
type ProductMatcher interface {
	Match(ctx context.Context, intent model.Intent) ([]model.Product, error)
}

// Deps are the collaborators of a Controller.
type Deps struct {
	Sessions  *session.Store
	Extractor *Extractor
	Generator *Generator
	Matcher   ProductMatcher
	Orders    *order.Manager
	Logs      store.ConversationLogs
	Logger    *logger.Logger
}

// Controller sequences one message through commands, extraction, matching
// and reply generation. Callers must not run two messages of the same user
// at once; Dispatcher guarantees that.
type Controller struct {
	deps    Deps
	log     *logger.Logger
	now     func() time.Time
	pending sync.WaitGroup
}

// NewController creates a controller.
func NewController(deps Deps) *Controller {
	log := deps.Logger
	if log == nil {
		log = logger.Global()
	}
	return &Controller{deps: deps, log: log, now: time.Now}
}

// Handle processes one addressed message and returns the reply. It never
// fails; service errors turn into an apology.
func (c *Controller) Handle(ctx context.Context, userID, text string) string {
	ctx, span := tracing.Tracer().Start(ctx, "dialogue.handle")
	defer span.End()
	span.SetAttributes(attribute.String("user.id", userID))

	sess, release := c.deps.Sessions.Acquire(userID)
	defer release()

	sess.Append(model.RoleUser, text, c.now())

	var reply string
	switch {
	case c.deps.Orders.IsPurchaseCommand(text):
		reply = c.purchase(ctx, sess, text)
	case c.deps.Orders.IsHistoryCommand(text):
		reply = c.history(ctx, sess)
	default:
		var shown []model.Product
		reply, shown = c.converse(ctx, sess)
		c.appendLog(userID, text, reply, sess.Intent, shown)
	}

	sess.Append(model.RoleAssistant, reply, c.now())
	span.SetAttributes(attribute.Int("dialogue.history", len(sess.History)))
	return reply
}

func (c *Controller) purchase(ctx context.Context, sess *session.Session, text string) string {
	metrics.RecordMessage("purchase")

	created, err := c.deps.Orders.Purchase(ctx, sess.UserID, text, sess.LastShownProducts)
	if err != nil {
		if msg, ok := order.UserMessage(err); ok {
			return msg
		}
		c.log.ForUser(sess.UserID).Error("purchase failed", zap.Error(err))
		return MsgApology
	}
	return c.deps.Orders.Confirmation(created)
}

func (c *Controller) history(ctx context.Context, sess *session.Session) string {
	metrics.RecordMessage("history")

	orders, err := c.deps.Orders.History(ctx, sess.UserID)
	if err != nil {
		c.log.ForUser(sess.UserID).Error("order history failed", zap.Error(err))
		return MsgApology
	}
	return order.FormatHistory(orders)
}

// converse runs the clarifying reply and slot extraction concurrently, merges
// the extracted slots and, once the intent is complete, searches the catalog.
// It returns the reply and the products presented with it.
func (c *Controller) converse(ctx context.Context, sess *session.Session) (string, []model.Product) {
	log := c.log.ForUser(sess.UserID)
	turns := append([]model.Turn(nil), sess.History...)
	known := sess.Intent

	var (
		clarifying string
		clarifyErr error
		extracted  model.Intent
	)
	var g errgroup.Group
	g.Go(func() error {
		clarifying, clarifyErr = c.deps.Generator.Clarify(ctx, known, turns)
		return nil
	})
	g.Go(func() error {
		extracted = c.deps.Extractor.Extract(ctx, turns)
		return nil
	})
	_ = g.Wait()

	sess.Intent = sess.Intent.Merge(extracted)

	if !sess.Intent.Complete() {
		if clarifyErr != nil {
			log.Error("clarifying reply failed", zap.Error(clarifyErr))
			metrics.RecordMessage("error")
			return MsgApology, nil
		}
		metrics.RecordMessage("clarifying")
		return clarifying, nil
	}

	products, err := c.deps.Matcher.Match(ctx, sess.Intent)
	if err != nil {
		log.Error("product search failed", zap.Error(err))
		metrics.RecordMessage("error")
		return MsgApology, nil
	}
	if len(products) == 0 {
		metrics.RecordMessage("fallback")
		return MsgNoProducts, nil
	}

	pitch, err := c.deps.Generator.Present(ctx, sess.Intent, products)
	if err != nil {
		log.Error("product presentation failed", zap.Error(err))
		metrics.RecordMessage("error")
		return MsgApology, nil
	}

	// The purchase instruction goes out even when the model left it out.
	sess.ShowProducts(products)
	metrics.RecordMessage("presentation")
	return pitch + "\n\n" + c.deps.Generator.PurchaseLine(), products
}

// appendLog records the turn in the background. Failures are logged only.
func (c *Controller) appendLog(userID, text, reply string, intent model.Intent, shown []model.Product) {
	if c.deps.Logs == nil {
		return
	}

	entry := &model.ConversationLog{
		UserID:    userID,
		Message:   text,
		Response:  reply,
		Intent:    intent,
		CreatedAt: c.now().UTC(),
	}
	for _, p := range shown {
		entry.ShownProducts = append(entry.ShownProducts, p.ID)
	}

	c.pending.Add(1)
	go func() {
		defer c.pending.Done()

		ctx, cancel := context.WithTimeout(context.Background(), logAppendTimeout)
		defer cancel()

		if err := c.deps.Logs.AppendConversationLog(ctx, entry); err != nil {
			metrics.ConversationLogFailures.WithLabelValues("store").Inc()
			c.log.ForUser(userID).Warn("failed to append conversation log", zap.Error(err))
		}
	}()
}

// Wait blocks until pending conversation log writes finish.
func (c *Controller) Wait() {
	c.pending.Wait()
}
