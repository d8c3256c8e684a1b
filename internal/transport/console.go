package transport

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/peterh/liner"
)

// LineReader reads edited lines from a terminal. *liner.State implements it.
type LineReader interface {
	Prompt(prompt string) (string, error)
	AppendHistory(item string)
	Close() error
}

// Console is a single-user transport over an interactive terminal.
type Console struct {
	userID       string
	reader       LineReader
	out          io.Writer
	replyTimeout time.Duration

	mu      sync.Mutex
	replied chan struct{}
}

// NewConsole opens a liner-backed terminal session.
func NewConsole(userID string, out io.Writer) *Console {
	state := liner.NewLiner()
	state.SetCtrlCAborts(true)
	return NewConsoleWithReader(userID, state, out)
}

// NewConsoleWithReader creates a console over any line reader.
func NewConsoleWithReader(userID string, reader LineReader, out io.Writer) *Console {
	return &Console{
		userID:       userID,
		reader:       reader,
		out:          out,
		replyTimeout: time.Minute,
		replied:      make(chan struct{}, 1),
	}
}

// Receive implements Transport. Each line becomes one message; the next
// prompt waits for the reply to the previous line.
func (c *Console) Receive(ctx context.Context) (<-chan Inbound, error) {
	ch := make(chan Inbound)

	go func() {
		defer close(ch)
		for {
			line, err := c.reader.Prompt("você> ")
			if err != nil {
				if !errors.Is(err, io.EOF) && !errors.Is(err, liner.ErrPromptAborted) {
					fmt.Fprintf(c.out, "erro de leitura: %v\n", err)
				}
				return
			}

			line = strings.TrimSpace(line)
			if line == "" {
				continue
			}
			c.reader.AppendHistory(line)

			select {
			case ch <- Inbound{SenderID: c.userID, Text: line}:
			case <-ctx.Done():
				return
			}

			select {
			case <-c.replied:
			case <-time.After(c.replyTimeout):
			case <-ctx.Done():
				return
			}
		}
	}()

	return ch, nil
}

// Send implements Transport.
func (c *Console) Send(ctx context.Context, msg Outbound) error {
	c.mu.Lock()
	_, err := fmt.Fprintf(c.out, "bot> %s\n", msg.Text)
	c.mu.Unlock()

	select {
	case c.replied <- struct{}{}:
	default:
	}
	return err
}

// Close restores the terminal.
func (c *Console) Close() error {
	return c.reader.Close()
}
