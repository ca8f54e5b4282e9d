package db

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/vikrambadhan/HGNRest/internal/config"
	"github.com/vikrambadhan/HGNRest/pkg/errutils"
)

func OpenDB(ctx context.Context, cfg config.DBConfig) (*pgxpool.Pool, error) {
	connStr := fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		cfg.PgUser, cfg.PgPassword, cfg.PgHost, cfg.PgPort, cfg.PgDatabase, cfg.PgSSLMode,
	)

	poolCfg, err := pgxpool.ParseConfig(connStr)
	if err != nil {
		return nil, errutils.Wrap("failed to parse pg config", err)
	}

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, errutils.Wrap("failed to create pg pool", err)
	}

	if err := pool.Ping(ctx); err != nil {
		return nil, errutils.Wrap("failed to ping pg", err)
	}

	return pool, nil
}
