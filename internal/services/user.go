// Package services contains the application layer between the HTTP API
// and the store.
package services

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/ecotrace/ecotrace-server/internal/calc"
	"github.com/ecotrace/ecotrace-server/internal/ids"
	"github.com/ecotrace/ecotrace-server/internal/model"
	"github.com/ecotrace/ecotrace-server/internal/store"
)

// UserService handles user-related operations.
type UserService struct {
	store    store.Store
	engine   *calc.Engine
	seedDemo bool
	log      zerolog.Logger
}

func NewUserService(s store.Store, engine *calc.Engine, seedDemo bool, log zerolog.Logger) *UserService {
	return &UserService{store: s, engine: engine, seedDemo: seedDemo, log: log}
}

// CreateUser registers a new user. When demo seeding is enabled, the user
// starts with a week of transportation and energy activities priced through
// the calculation engine so the dashboard and analysis have data to work on.
func (s *UserService) CreateUser(ctx context.Context, u *model.User) (*model.User, error) {
	if u.UserID == "" {
		u.UserID = "user-" + uuid.New().String()
	}
	if u.Settings.Units == "" {
		u.Settings.Units = "metric"
	}
	if u.Settings.Currency == "" {
		u.Settings.Currency = "USD"
	}

	created, err := s.store.Users().Create(ctx, u)
	if err != nil {
		return nil, err
	}

	if s.seedDemo {
		if err := s.seedDemoData(ctx, created); err != nil {
			// Seeding is best effort; the account itself is fine.
			s.log.Warn().Err(err).Str("user_id", created.UserID).Msg("demo data seeding failed")
		}
	}
	return created, nil
}

func (s *UserService) GetUser(ctx context.Context, userID string) (*model.User, error) {
	return s.store.Users().Get(ctx, userID)
}

func (s *UserService) seedDemoData(ctx context.Context, u *model.User) error {
	now := time.Now().UTC()

	type seed struct {
		days     int
		category model.ActivityCategory
		typ      string
		amount   float64
		unit     string
	}
	seeds := []seed{
		{7, model.CategoryTransportation, "car_gasoline", 25, "miles"},
		{4, model.CategoryEnergy, "electricity", 30, "kwh"},
	}

	for _, sd := range seeds {
		for i := 1; i <= sd.days; i++ {
			date := now.AddDate(0, 0, -i)
			in := model.ActivityInput{
				Category: sd.category,
				Type:     sd.typ,
				Amount:   sd.amount,
				Unit:     sd.unit,
				Date:     &date,
			}
			res := s.engine.Calculate(in)
			_, err := s.store.Activities().Append(ctx, &model.Activity{
				ActivityID: ids.New(),
				UserID:     u.UserID,
				Category:   sd.category,
				Type:       sd.typ,
				Amount:     sd.amount,
				Unit:       sd.unit,
				Emission:   res.Emission,
				Date:       date,
				Source:     "manual",
			})
			if err != nil {
				return err
			}
		}
	}
	return nil
}
