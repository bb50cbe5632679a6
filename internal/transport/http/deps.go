package http

import (
	"time"

	"github.com/ferrypratamaa-00/monii-sub001/internal/application/alert"
	"github.com/ferrypratamaa-00/monii-sub001/internal/application/notification"
	"github.com/ferrypratamaa-00/monii-sub001/internal/application/preference"
	"github.com/ferrypratamaa-00/monii-sub001/internal/application/realtime"
	"github.com/ferrypratamaa-00/monii-sub001/internal/infrastructure/metrics"
	"github.com/ferrypratamaa-00/monii-sub001/internal/transport/http/middleware"
)

// Stores pairs the repositories of one storage driver.
type Stores struct {
	Notifications notification.Repository
	Preferences   preference.Repository
}

// Channels holds the optional out-of-band delivery adapters. Leave a field
// nil to disable that channel.
type Channels struct {
	Mailer    alert.Mailer
	Publisher alert.Publisher
}

// Deps holds every collaborator the router and the process need.
type Deps struct {
	Notifications notification.Service
	Preferences   preference.Service
	Notifier      alert.Service
	Registry      *realtime.Registry
	Dispatcher    *realtime.Dispatcher
	Metrics       *metrics.Metrics
	Verifier      middleware.TokenVerifier

	StreamWriteTimeout time.Duration
}

// NewDeps builds the application services on top of stores and wires the
// live delivery path into the notifier.
func NewDeps(stores Stores, ch Channels, verifier middleware.TokenVerifier, m *metrics.Metrics, streamWriteTimeout time.Duration) *Deps {
	registry := realtime.NewRegistry(m)
	dispatcher := realtime.NewDispatcher(registry, m)
	notifSvc := notification.NewService(stores.Notifications)
	prefSvc := preference.NewService(stores.Preferences)

	return &Deps{
		Notifications: notifSvc,
		Preferences:   prefSvc,
		Notifier: alert.NewService(alert.ServiceDeps{
			Store:     notifSvc,
			Gate:      prefSvc,
			Pusher:    dispatcher,
			Mailer:    ch.Mailer,
			Publisher: ch.Publisher,
			Metrics:   m,
		}),
		Registry:           registry,
		Dispatcher:         dispatcher,
		Metrics:            m,
		Verifier:           verifier,
		StreamWriteTimeout: streamWriteTimeout,
	}
}
