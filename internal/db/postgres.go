package db

import (
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
)

const backendPostgres = "Postgres"

// ConnectPostgres opens a pooled Postgres handle and verifies it with a ping.
func ConnectPostgres(dsn string) (*sqlx.DB, error) {
	pg, err := sqlx.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to %s: %w", backendPostgres, err)
	}
	pg.SetMaxOpenConns(10)
	pg.SetConnMaxIdleTime(5 * time.Minute)

	if err := verifyConnection(backendPostgres, pg.PingContext, pg.Close); err != nil {
		return nil, err
	}
	return pg, nil
}

// DisconnectPostgres closes the Postgres pool.
func DisconnectPostgres(pg *sqlx.DB) error {
	if pg == nil {
		return nil
	}
	return closeConnection(backendPostgres, pg.Close)
}
