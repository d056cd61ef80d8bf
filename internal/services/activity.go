package services

import (
	"context"
	"time"

	"github.com/ecotrace/ecotrace-server/internal/calc"
	"github.com/ecotrace/ecotrace-server/internal/ids"
	"github.com/ecotrace/ecotrace-server/internal/model"
	"github.com/ecotrace/ecotrace-server/internal/store"
)

// ActivityService prices activities and records them.
type ActivityService struct {
	store  store.Store
	engine *calc.Engine
}

func NewActivityService(s store.Store, engine *calc.Engine) *ActivityService {
	return &ActivityService{store: s, engine: engine}
}

// AddActivity calculates the emission for in, persists the priced activity
// for userID, and returns the calculation result alongside the stored record.
func (s *ActivityService) AddActivity(ctx context.Context, userID string, in model.ActivityInput) (*model.CalculationResult, *model.Activity, error) {
	if _, err := s.store.Users().Get(ctx, userID); err != nil {
		return nil, nil, err
	}

	date := time.Now().UTC()
	if in.Date != nil {
		date = in.Date.UTC()
	} else {
		in.Date = &date
	}

	result := s.engine.Calculate(in)

	activity := &model.Activity{
		ActivityID: ids.New(),
		UserID:     userID,
		Category:   in.Category,
		Type:       in.Type,
		Amount:     in.Amount,
		Unit:       in.Unit,
		Emission:   result.Emission,
		Date:       date,
		Location:   in.Location,
		Metadata:   in.Metadata,
		Source:     "manual",
	}
	stored, err := s.store.Activities().Append(ctx, activity)
	if err != nil {
		return nil, nil, err
	}
	return &result, stored, nil
}

// ListActivities returns the user's activities, most recent first.
func (s *ActivityService) ListActivities(ctx context.Context, req model.ListActivitiesRequest) ([]*model.Activity, error) {
	if _, err := s.store.Users().Get(ctx, req.UserID); err != nil {
		return nil, err
	}
	return s.store.Activities().List(ctx, req)
}
