package notify

import (
	"context"
	"log/slog"
	"sync"
)

// Console logs every message and keeps a copy in memory.
type Console struct {
	Logger *slog.Logger

	mu   sync.Mutex
	sent []Message
}

func NewConsole(logger *slog.Logger) *Console {
	if logger == nil {
		logger = slog.Default()
	}
	return &Console{Logger: logger}
}

func (c *Console) Send(ctx context.Context, msg Message) error {
	if msg.To == "" {
		return ErrNoRecipient
	}

	c.mu.Lock()
	c.sent = append(c.sent, msg)
	c.mu.Unlock()

	c.Logger.InfoContext(ctx, "email",
		slog.String("to", msg.To),
		slog.String("subject", msg.Subject),
		slog.String("body", msg.Body),
	)
	return nil
}

// Sent returns a copy of every message sent so far.
func (c *Console) Sent() []Message {
	c.mu.Lock()
	defer c.mu.Unlock()

	out := make([]Message, len(c.sent))
	copy(out, c.sent)
	return out
}

// SentTo returns the messages addressed to one recipient, oldest first.
func (c *Console) SentTo(to string) []Message {
	var out []Message
	for _, m := range c.Sent() {
		if m.To == to {
			out = append(out, m)
		}
	}
	return out
}
