package dialogue

import (
	"context"
	"errors"
	"sync"
)

// ErrDispatcherClosed is returned for messages submitted after Close.
var ErrDispatcherClosed = errors.New("dispatcher closed")

// Handler processes one message for a user.
type Handler interface {
	Handle(ctx context.Context, userID, text string) string
}

type job struct {
	ctx  context.Context
	text string
	done func(reply string)
}

// mailbox holds the pending messages of one user.
type mailbox struct {
	jobs []job
}

// Dispatcher serializes messages per user. Each user with pending messages
// gets one goroutine draining them in arrival order; users are independent.
type Dispatcher struct {
	handler Handler

	mu        sync.Mutex
	mailboxes map[string]*mailbox
	closed    bool
	wg        sync.WaitGroup
}

// NewDispatcher creates a dispatcher delivering to handler.
func NewDispatcher(handler Handler) *Dispatcher {
	return &Dispatcher{
		handler:   handler,
		mailboxes: make(map[string]*mailbox),
	}
}

// Dispatch queues text for userID. done, if non-nil, receives the reply on
// the user's goroutine.
func (d *Dispatcher) Dispatch(ctx context.Context, userID, text string, done func(reply string)) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.closed {
		return ErrDispatcherClosed
	}

	mb, ok := d.mailboxes[userID]
	if !ok {
		mb = &mailbox{}
		d.mailboxes[userID] = mb
		d.wg.Add(1)
		go d.drain(userID, mb)
	}
	mb.jobs = append(mb.jobs, job{ctx: ctx, text: text, done: done})
	return nil
}

// Submit queues text and waits for its reply.
func (d *Dispatcher) Submit(ctx context.Context, userID, text string) (string, error) {
	replies := make(chan string, 1)
	if err := d.Dispatch(ctx, userID, text, func(reply string) { replies <- reply }); err != nil {
		return "", err
	}

	select {
	case reply := <-replies:
		return reply, nil
	case <-ctx.Done():
		return "", ctx.Err()
	}
}

func (d *Dispatcher) drain(userID string, mb *mailbox) {
	defer d.wg.Done()

	for {
		d.mu.Lock()
		if len(mb.jobs) == 0 {
			delete(d.mailboxes, userID)
			d.mu.Unlock()
			return
		}
		next := mb.jobs[0]
		mb.jobs = mb.jobs[1:]
		d.mu.Unlock()

		reply := d.handler.Handle(context.WithoutCancel(next.ctx), userID, next.text)
		if next.done != nil {
			next.done(reply)
		}
	}
}

// Active returns the number of users with queued or running messages.
func (d *Dispatcher) Active() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.mailboxes)
}

// Close rejects new messages and waits for queued ones to finish.
func (d *Dispatcher) Close() {
	d.mu.Lock()
	d.closed = true
	d.mu.Unlock()

	d.wg.Wait()
}
