package main

import (
	"context"
	"fmt"

	"github.com/ferrypratamaa-00/monii-sub001/internal/config"
	"github.com/ferrypratamaa-00/monii-sub001/internal/infrastructure/dynamo"
	"github.com/ferrypratamaa-00/monii-sub001/internal/infrastructure/sqlite"
	transporthttp "github.com/ferrypratamaa-00/monii-sub001/internal/transport/http"
)

// openStores returns the repositories for cfg.StoreDriver and a func that
// releases them.
func openStores(ctx context.Context, cfg *config.Config) (transporthttp.Stores, func() error, error) {
	switch cfg.StoreDriver {
	case "sqlite":
		db, err := sqlite.Open(cfg.SQLitePath)
		if err != nil {
			return transporthttp.Stores{}, nil, err
		}
		return transporthttp.Stores{
			Notifications: sqlite.NewNotificationRepo(db),
			Preferences:   sqlite.NewPreferenceRepo(db),
		}, db.Close, nil

	case "dynamo":
		client, err := dynamo.NewClient(ctx, cfg)
		if err != nil {
			return transporthttp.Stores{}, nil, err
		}
		// Creates the tables if they don't exist.
		dynamo.Bootstrap(ctx, client, cfg.DynamoTables)
		counters := dynamo.NewCounters(client, cfg.DynamoTables.Counters)
		return transporthttp.Stores{
			Notifications: dynamo.NewNotificationRepo(client, cfg.DynamoTables.Notifications, counters),
			Preferences:   dynamo.NewPreferenceRepo(client, cfg.DynamoTables.Preferences),
		}, func() error { return nil }, nil

	default:
		return transporthttp.Stores{}, nil, fmt.Errorf("unknown store driver %q", cfg.StoreDriver)
	}
}
