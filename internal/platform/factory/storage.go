// Package factory wires configuration to concrete backends.
package factory

import (
	"fmt"

	"github.com/ecotrace/ecotrace-server/internal/config"
	"github.com/ecotrace/ecotrace-server/internal/store"
	"github.com/ecotrace/ecotrace-server/internal/store/postgres"
	"github.com/ecotrace/ecotrace-server/internal/store/sqlite"
)

// NewStore selects the store adapter based on cfg.DBDriver.
func NewStore(cfg *config.Config) (store.Store, error) {
	switch cfg.DBDriver {
	case "sqlite":
		return sqlite.Open(cfg.SQLitePath)
	case "postgres":
		return postgres.Open(cfg.PostgresDSN)
	default:
		return nil, fmt.Errorf("unknown DB_DRIVER: %s", cfg.DBDriver)
	}
}
