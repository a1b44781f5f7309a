// Package db opens connections to the supported analytical stores.
package db

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/pgEdge/pgedge-shopinsights/internal/errdefs"
	"github.com/pgEdge/pgedge-shopinsights/internal/logging"
)

// ApplicationName is reported to PostgreSQL in pg_stat_activity.
const ApplicationName = "pgedge-shopinsights"

// Pool settings for a single-process batch run.
const (
	poolMaxConns        = 4
	poolMaxConnLifetime = 30 * time.Minute
	poolMaxConnIdleTime = time.Minute
	poolHealthCheck     = 30 * time.Second
)

// Connect opens a pgx pool for a PostgreSQL target and pings it.
func Connect(ctx context.Context, t Target) (*pgxpool.Pool, error) {
	if t.Driver != DriverPostgres {
		return nil, fmt.Errorf("target %s is not a PostgreSQL store", t.Display)
	}

	config, err := pgxpool.ParseConfig(t.DSN)
	if err != nil {
		return nil, &errdefs.ConfigurationError{
			Field:  "store",
			Reason: fmt.Sprintf("invalid PostgreSQL URL %s: %v", t.Display, err),
		}
	}
	config.MaxConns = poolMaxConns
	config.MinConns = 0
	config.MaxConnLifetime = poolMaxConnLifetime
	config.MaxConnIdleTime = poolMaxConnIdleTime
	config.HealthCheckPeriod = poolHealthCheck
	if _, ok := config.ConnConfig.RuntimeParams["application_name"]; !ok {
		config.ConnConfig.RuntimeParams["application_name"] = ApplicationName
	}

	logging.Debug().
		Str("host", config.ConnConfig.Host).
		Uint16("port", config.ConnConfig.Port).
		Str("database", config.ConnConfig.Database).
		Msg("Connecting to store")

	pool, err := pgxpool.NewWithConfig(ctx, config)
	if err != nil {
		return nil, fmt.Errorf("failed to create connection pool for %s: %w", t.Display, err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to reach store %s: %w", t.Display, err)
	}

	logging.Info().
		Str("store", t.Display).
		Msg("Connected to store")

	return pool, nil
}
