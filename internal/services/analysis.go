package services

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/ecotrace/ecotrace-server/internal/agents"
	"github.com/ecotrace/ecotrace-server/internal/model"
	"github.com/ecotrace/ecotrace-server/internal/store"
)

// AnalysisService runs the agent pipeline over a user's history and
// persists the results.
type AnalysisService struct {
	store store.Store
	orch  *agents.Orchestrator
	log   zerolog.Logger
}

func NewAnalysisService(s store.Store, orch *agents.Orchestrator, log zerolog.Logger) *AnalysisService {
	return &AnalysisService{store: s, orch: orch, log: log}
}

// Analyze loads the user and their activities, runs every agent, and
// replaces the stored insights and recommendations with the fresh results.
// Per-agent failures surface in the result's SectionErrors; only store
// failures return an error.
func (s *AnalysisService) Analyze(ctx context.Context, userID, question string) (*agents.AggregateResult, error) {
	user, err := s.store.Users().Get(ctx, userID)
	if err != nil {
		return nil, err
	}
	list, err := s.store.Activities().List(ctx, model.ListActivitiesRequest{UserID: userID})
	if err != nil {
		return nil, err
	}
	activities := make([]model.Activity, 0, len(list))
	for _, a := range list {
		activities = append(activities, *a)
	}

	result := s.orch.Analyze(ctx, agents.AnalysisContext{
		User:       user,
		Activities: activities,
		Question:   question,
		Now:        time.Now().UTC(),
	})

	// A failed analyzer or recommender leaves its section empty; replacing
	// with the empty set would erase the last good results for nothing.
	if _, failed := result.SectionErrors["carbon-analysis"]; !failed {
		if err := s.store.Insights().Replace(ctx, userID, result.Insights); err != nil {
			return nil, err
		}
	}
	if _, failed := result.SectionErrors["recommendation"]; !failed {
		if err := s.store.Recommendations().Replace(ctx, userID, result.Recommendations); err != nil {
			return nil, err
		}
	}

	s.log.Info().
		Str("user_id", userID).
		Int("insights", len(result.Insights)).
		Int("recommendations", len(result.Recommendations)).
		Int("section_errors", len(result.SectionErrors)).
		Msg("analysis completed")

	return &result, nil
}

// Insights returns the stored insights for a user, most recent first.
func (s *AnalysisService) Insights(ctx context.Context, userID string, limit int) ([]*model.Insight, error) {
	if _, err := s.store.Users().Get(ctx, userID); err != nil {
		return nil, err
	}
	return s.store.Insights().List(ctx, userID, limit)
}

// Recommendations returns the stored recommendations for a user, most
// recent first.
func (s *AnalysisService) Recommendations(ctx context.Context, userID string, limit int) ([]*model.Recommendation, error) {
	if _, err := s.store.Users().Get(ctx, userID); err != nil {
		return nil, err
	}
	return s.store.Recommendations().List(ctx, userID, limit)
}
