package realtime

import (
	"encoding/json"
	"log/slog"

	"github.com/ferrypratamaa-00/monii-sub001/internal/domain"
	"github.com/ferrypratamaa-00/monii-sub001/internal/infrastructure/metrics"
)

// EnvelopeTypeNotification tags frames that carry a Notification.
const EnvelopeTypeNotification = "notification"

// Envelope is the JSON body of every notification frame.
type Envelope struct {
	Type string      `json:"type"`
	Data interface{} `json:"data"`
}

// Dispatcher pushes notifications to registered connections. Delivery is best
// effort: failures are handled here and never reported to the caller.
type Dispatcher struct {
	registry *Registry
	metrics  *metrics.Metrics
}

func NewDispatcher(registry *Registry, m *metrics.Metrics) *Dispatcher {
	return &Dispatcher{registry: registry, metrics: m}
}

// SendToUser pushes n to userID's stream. It returns false when the user has
// no stream or the push failed.
func (d *Dispatcher) SendToUser(userID int64, n domain.Notification) bool {
	conn, ok := d.registry.Lookup(userID)
	if !ok {
		return false
	}
	payload, err := encode(n)
	if err != nil {
		slog.Error("encode notification frame", "notification_id", n.ID, "err", err)
		return false
	}
	return d.push(userID, conn, payload)
}

// Broadcast pushes n to every registered stream and returns how many
// deliveries succeeded. One dead stream does not stop the others.
func (d *Dispatcher) Broadcast(n domain.Notification) int {
	payload, err := encode(n)
	if err != nil {
		slog.Error("encode broadcast frame", "err", err)
		return 0
	}
	delivered := 0
	for _, e := range d.registry.Snapshot() {
		if d.push(e.UserID, e.Conn, payload) {
			delivered++
		}
	}
	return delivered
}

func (d *Dispatcher) push(userID int64, conn Connection, payload []byte) bool {
	if err := conn.Push(payload); err != nil {
		conn.Close()
		d.registry.Remove(userID, conn)
		d.count("failed")
		slog.Warn("live push failed, stream unregistered", "user_id", userID, "conn_id", conn.ID(), "err", err)
		return false
	}
	d.count("ok")
	return true
}

func (d *Dispatcher) count(result string) {
	if d.metrics != nil {
		d.metrics.Pushes.WithLabelValues(result).Inc()
	}
}

func encode(n domain.Notification) ([]byte, error) {
	return json.Marshal(Envelope{Type: EnvelopeTypeNotification, Data: n})
}
