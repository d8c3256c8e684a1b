package transport

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/capitalize-ai/sales-assistant/pkg/logger"
	"github.com/capitalize-ai/sales-assistant/pkg/metrics"
)

// Dispatcher queues a message for its user and reports the reply.
type Dispatcher interface {
	Dispatch(ctx context.Context, userID, text string, done func(reply string)) error
}

// Runner pumps a transport's inbound messages through a dispatcher and sends
// the replies back.
type Runner struct {
	transport  Transport
	dispatcher Dispatcher
	log        *logger.Logger
}

// NewRunner creates a runner.
func NewRunner(t Transport, d Dispatcher, log *logger.Logger) *Runner {
	return &Runner{transport: t, dispatcher: d, log: log}
}

// Run blocks until ctx is done or the transport stops delivering.
func (r *Runner) Run(ctx context.Context) error {
	inbound, err := r.transport.Receive(ctx)
	if err != nil {
		return err
	}

	for {
		select {
		case <-ctx.Done():
			return nil
		case msg, ok := <-inbound:
			if !ok {
				return nil
			}
			r.handle(ctx, msg)
		}
	}
}

func (r *Runner) handle(ctx context.Context, msg Inbound) {
	if !Addressed(msg) {
		metrics.RecordMessage("ignored")
		return
	}

	userID, _ := NormalizeSender(msg.SenderID)
	text := strings.TrimSpace(msg.Text)

	err := r.dispatcher.Dispatch(ctx, userID, text, func(reply string) {
		out := Outbound{RecipientID: userID, Text: reply}
		if err := r.transport.Send(context.WithoutCancel(ctx), out); err != nil {
			r.log.ForUser(userID).Error("failed to send reply", zap.Error(err))
		}
	})
	if err != nil {
		r.log.ForUser(userID).Warn("message dropped", zap.Error(err))
	}
}
