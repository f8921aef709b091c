package db

import (
	"context"
	"errors"
	"strings"

	"github.com/jackc/pgx/v5"

	"talent/internal/platform/config"
)

// Seed makes sure the configured default tenant exists and returns its id.
func Seed(ctx context.Context, pool *Pool, cfg config.Config) (string, error) {
	name := strings.TrimSpace(cfg.SeedTenantName)
	if name == "" {
		return "", nil
	}
	return ensureTenant(ctx, pool, name)
}

func ensureTenant(ctx context.Context, pool *Pool, name string) (string, error) {
	var id string
	err := pool.QueryRow(ctx, "SELECT id FROM tenants WHERE name = $1", name).Scan(&id)
	if err == nil {
		return id, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return "", err
	}

	err = pool.QueryRow(ctx, "INSERT INTO tenants (name) VALUES ($1) RETURNING id", name).Scan(&id)
	if err != nil {
		return "", err
	}
	return id, nil
}
