package postgres

import (
	"os"
	"testing"

	"github.com/ecotrace/ecotrace-server/internal/store"
	"github.com/ecotrace/ecotrace-server/internal/store/storetest"
)

// TestPostgresStoreCompliance runs the shared suite against a real Postgres
// instance. Set ECOTRACE_TEST_POSTGRES_DSN to enable it.
func TestPostgresStoreCompliance(t *testing.T) {
	dsn := os.Getenv("ECOTRACE_TEST_POSTGRES_DSN")
	if dsn == "" {
		t.Skip("ECOTRACE_TEST_POSTGRES_DSN not set; skipping postgres compliance test")
	}

	storetest.Run(t, func(t *testing.T) store.Store {
		s, err := Open(dsn)
		if err != nil {
			t.Fatalf("open postgres store: %v", err)
		}
		t.Cleanup(func() { _ = s.Close() })
		return s
	})
}
