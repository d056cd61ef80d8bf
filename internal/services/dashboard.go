package services

import (
	"context"
	"math"

	"github.com/ecotrace/ecotrace-server/internal/calc"
	"github.com/ecotrace/ecotrace-server/internal/equiv"
	"github.com/ecotrace/ecotrace-server/internal/model"
	"github.com/ecotrace/ecotrace-server/internal/store"
)

// Dashboard summarizes a user's footprint for the overview screen.
type Dashboard struct {
	TotalEmissions       float64              `json:"totalEmissions"`
	DailyAverage         float64              `json:"dailyAverage"`
	WeeklyTrend          string               `json:"weeklyTrend"`
	TopCategory          string               `json:"topCategory"`
	InsightsCount        int                  `json:"insightsCount"`
	RecommendationsCount int                  `json:"recommendationsCount"`
	Equivalencies        *equiv.Equivalencies `json:"equivalencies,omitempty"`
}

// TrendStats bundles the statistics endpoints' payload.
type TrendStats struct {
	Trends            calc.TrendResult                              `json:"trends"`
	DailyFootprint    map[string]float64                            `json:"daily_footprint"`
	CategoryBreakdown map[model.ActivityCategory]calc.CategoryTotal `json:"category_breakdown"`
}

// DashboardService derives summary metrics from stored activities.
type DashboardService struct {
	store store.Store
}

func NewDashboardService(s store.Store) *DashboardService {
	return &DashboardService{store: s}
}

// Dashboard computes the overview for userID. The daily average divides
// total emissions by the number of distinct days with activity.
func (s *DashboardService) Dashboard(ctx context.Context, userID string) (*Dashboard, error) {
	if _, err := s.store.Users().Get(ctx, userID); err != nil {
		return nil, err
	}
	activities, err := s.loadActivities(ctx, userID)
	if err != nil {
		return nil, err
	}

	var total float64
	for _, a := range activities {
		total += a.Emission
	}
	daily := calc.DailyFootprint(activities)
	avg := 0.0
	if len(daily) > 0 {
		avg = total / float64(len(daily))
	}

	trend := calc.Trend(activities)

	top := "none"
	breakdown := calc.CategoryBreakdown(activities)
	var topTotal float64
	for cat, ct := range breakdown {
		name := string(cat)
		if top == "none" || ct.Total > topTotal || (ct.Total == topTotal && name < top) {
			top = name
			topTotal = ct.Total
		}
	}

	insights, err := s.store.Insights().List(ctx, userID, 0)
	if err != nil {
		return nil, err
	}
	recs, err := s.store.Recommendations().List(ctx, userID, 0)
	if err != nil {
		return nil, err
	}

	d := &Dashboard{
		TotalEmissions:       round2(total),
		DailyAverage:         round2(avg),
		WeeklyTrend:          trend.Trend,
		TopCategory:          top,
		InsightsCount:        len(insights),
		RecommendationsCount: len(recs),
	}
	if eq := equiv.ForKg(total); !eq.IsEmpty {
		d.Equivalencies = &eq
	}
	return d, nil
}

// Trends returns the raw statistics behind the dashboard.
func (s *DashboardService) Trends(ctx context.Context, userID string) (*TrendStats, error) {
	if _, err := s.store.Users().Get(ctx, userID); err != nil {
		return nil, err
	}
	activities, err := s.loadActivities(ctx, userID)
	if err != nil {
		return nil, err
	}
	return &TrendStats{
		Trends:            calc.Trend(activities),
		DailyFootprint:    calc.DailyFootprint(activities),
		CategoryBreakdown: calc.CategoryBreakdown(activities),
	}, nil
}

func (s *DashboardService) loadActivities(ctx context.Context, userID string) ([]model.Activity, error) {
	list, err := s.store.Activities().List(ctx, model.ListActivitiesRequest{UserID: userID})
	if err != nil {
		return nil, err
	}
	out := make([]model.Activity, 0, len(list))
	for _, a := range list {
		out = append(out, *a)
	}
	return out, nil
}

func round2(v float64) float64 { return math.Round(v*100) / 100 }
