package natsinfra

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/ferrypratamaa-00/monii-sub001/internal/domain"
	"github.com/nats-io/nats.go"
)

// handleTimeout bounds the work done for one alert message.
const handleTimeout = 10 * time.Second

// Notifier is the alert entry point the subscriber feeds.
type Notifier interface {
	Notify(ctx context.Context, a domain.Alert) (*domain.Notification, error)
}

// Subscriber consumes finance alerts from a NATS queue group so that only one
// replica handles each alert.
type Subscriber struct {
	conn     *nats.Conn
	sub      *nats.Subscription
	notifier Notifier
	closed   chan struct{}
}

// Connect dials url with reconnects enabled.
func Connect(url string) (*nats.Conn, error) {
	nc, err := nats.Connect(url,
		nats.Name("notification-service"),
		nats.MaxReconnects(-1),
		nats.DisconnectErrHandler(func(_ *nats.Conn, err error) {
			if err != nil {
				slog.Warn("nats disconnected", "err", err)
			}
		}),
		nats.ReconnectHandler(func(c *nats.Conn) {
			slog.Info("nats reconnected", "url", c.ConnectedUrl())
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("nats connect %s: %w", url, err)
	}
	return nc, nil
}

// Subscribe starts consuming subject in queue.
func Subscribe(nc *nats.Conn, subject, queue string, n Notifier) (*Subscriber, error) {
	s := &Subscriber{conn: nc, notifier: n, closed: make(chan struct{})}
	nc.SetClosedHandler(func(*nats.Conn) { close(s.closed) })
	sub, err := nc.QueueSubscribe(subject, queue, s.handle)
	if err != nil {
		return nil, fmt.Errorf("nats subscribe %s: %w", subject, err)
	}
	s.sub = sub
	slog.Info("subscribed to alerts", "subject", subject, "queue", queue)
	return s, nil
}

// Close drains the subscription and the connection, then waits until every
// buffered alert has been handled or ctx expires.
func (s *Subscriber) Close(ctx context.Context) error {
	if err := s.conn.Drain(); err != nil {
		return fmt.Errorf("nats drain: %w", err)
	}
	return s.awaitClosed(ctx)
}

func (s *Subscriber) awaitClosed(ctx context.Context) error {
	select {
	case <-s.closed:
		return nil
	case <-ctx.Done():
		return fmt.Errorf("nats drain: %w", ctx.Err())
	}
}

func (s *Subscriber) handle(msg *nats.Msg) {
	var a domain.Alert
	if err := json.Unmarshal(msg.Data, &a); err != nil {
		slog.Warn("drop malformed alert", "subject", msg.Subject, "err", err)
		return
	}
	// Drained messages arrive after shutdown has begun.
	ctx, cancel := context.WithTimeout(context.Background(), handleTimeout)
	defer cancel()

	n, err := s.notifier.Notify(ctx, a)
	switch {
	case errors.Is(err, domain.ErrValidation):
		slog.Warn("drop invalid alert", "user_id", a.UserID, "type", a.Type, "err", err)
	case err != nil:
		slog.Error("handle alert", "user_id", a.UserID, "type", a.Type, "err", err)
	case n != nil:
		slog.Debug("alert delivered", "user_id", a.UserID, "notification_id", n.ID)
	}
}
