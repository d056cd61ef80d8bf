// Package store defines the persistence interface consumed by services.
// Implementations live under internal/store/<driver>/ (sqlite, postgres).
package store

import (
	"context"

	"github.com/ecotrace/ecotrace-server/internal/model"
)

// Store exposes per-user persistence. Every list operation returns records
// most-recent-first.
type Store interface {
	Users() Users
	Activities() Activities
	Insights() Insights
	Recommendations() Recommendations

	// HealthPing verifies connectivity to the backing database.
	HealthPing(ctx context.Context) error
	Close() error
}

type Users interface {
	Create(ctx context.Context, u *model.User) (*model.User, error)
	Get(ctx context.Context, userID string) (*model.User, error)
}

type Activities interface {
	Append(ctx context.Context, a *model.Activity) (*model.Activity, error)
	List(ctx context.Context, req model.ListActivitiesRequest) ([]*model.Activity, error)
}

type Insights interface {
	Append(ctx context.Context, ins *model.Insight) (*model.Insight, error)
	// Replace swaps the user's stored insights for the given set, the way
	// a fresh analysis pass supersedes the previous one.
	Replace(ctx context.Context, userID string, items []model.Insight) error
	List(ctx context.Context, userID string, limit int) ([]*model.Insight, error)
}

type Recommendations interface {
	Append(ctx context.Context, rec *model.Recommendation) (*model.Recommendation, error)
	Replace(ctx context.Context, userID string, items []model.Recommendation) error
	List(ctx context.Context, userID string, limit int) ([]*model.Recommendation, error)
}
