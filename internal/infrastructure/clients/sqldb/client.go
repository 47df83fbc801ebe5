package sqldb

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/lib/pq"
	"github.com/rs/zerolog/log"
	_ "modernc.org/sqlite"

	"github.com/ombati/slot-scheduler/pkg/config"
	"github.com/ombati/slot-scheduler/pkg/retry"
)

// Client wraps the database handle for the authoritative booking store.
// The default driver is the embedded sqlite store; postgres is available
// behind the same interface for deployments that already run one.
type Client struct {
	db     *sql.DB
	driver string
}

// NewClient opens the configured database with exponential backoff on the
// initial connectivity check
func NewClient(cfg *config.DatabaseConfig) (*Client, error) {
	driverName := cfg.Driver
	if driverName == "" {
		driverName = "sqlite"
	}
	if driverName != "sqlite" && driverName != "postgres" {
		return nil, fmt.Errorf("unknown db driver %q: only 'sqlite' and 'postgres' are supported", driverName)
	}

	db, err := sql.Open(driverName, cfg.DatabaseDSN())
	if err != nil {
		return nil, fmt.Errorf("failed to open database connection: %w", err)
	}

	if driverName == "sqlite" {
		// The embedded store is single-writer; a larger pool only produces
		// SQLITE_BUSY under contention.
		db.SetMaxOpenConns(1)
	} else {
		db.SetMaxOpenConns(25)
		db.SetMaxIdleConns(5)
		db.SetConnMaxLifetime(5 * time.Minute)
	}

	retryConfig := retry.DefaultConfig()
	err = retry.DoWithLog(
		context.Background(),
		retryConfig,
		func() error {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			return db.PingContext(ctx)
		},
		func(attempt int, err error, nextDelay time.Duration) {
			log.Warn().
				Err(err).
				Int("attempt", attempt).
				Dur("next_delay", nextDelay).
				Str("driver", driverName).
				Msg("database connection attempt failed, retrying")
		},
	)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to connect to database after retries: %w", err)
	}

	return &Client{db: db, driver: driverName}, nil
}

// DB returns the underlying database connection
func (c *Client) DB() *sql.DB {
	return c.db
}

// Driver returns the active driver name ("sqlite" or "postgres")
func (c *Client) Driver() string {
	return c.driver
}

// Close closes the database connection
func (c *Client) Close() error {
	return c.db.Close()
}

// BeginTx starts a new transaction
func (c *Client) BeginTx(ctx context.Context) (*sql.Tx, error) {
	return c.db.BeginTx(ctx, nil)
}

// Ping verifies the connection to the database
func (c *Client) Ping(ctx context.Context) error {
	return c.db.PingContext(ctx)
}
