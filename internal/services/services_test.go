package services

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/ecotrace/ecotrace-server/internal/agents"
	"github.com/ecotrace/ecotrace-server/internal/calc"
	"github.com/ecotrace/ecotrace-server/internal/insight"
	"github.com/ecotrace/ecotrace-server/internal/insight/gemini"
	"github.com/ecotrace/ecotrace-server/internal/model"
	"github.com/ecotrace/ecotrace-server/internal/store"
	"github.com/ecotrace/ecotrace-server/internal/store/sqlite"
)

func newTestStore(t *testing.T) store.Store {
	t.Helper()
	s, err := sqlite.Open(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func newTestOrchestrator() *agents.Orchestrator {
	log := zerolog.Nop()
	params := agents.DefaultParams()
	// Unconfigured provider: external agent stays on its deterministic path.
	provider := gemini.New(gemini.DefaultBaseURL, "", "gemini-2.0-flash", time.Second)
	external := insight.NewExternalAgent(provider, insight.NewDispatcher(1, time.Second), log)
	return agents.NewOrchestrator(
		agents.NewAnalyzer(params, log),
		agents.NewRecommender(params, log),
		external,
		log,
	)
}

func newUser(email string) *model.User {
	return &model.User{
		Email: email,
		Name:  "Test User",
		Profile: model.UserProfile{
			Location:      "california",
			HouseholdSize: 2,
			Lifestyle:     model.LifestyleModerate,
		},
	}
}

func TestUserService_CreateSeedsDemoData(t *testing.T) {
	s := newTestStore(t)
	svc := NewUserService(s, calc.New(), true, zerolog.Nop())
	ctx := context.Background()

	created, err := svc.CreateUser(ctx, newUser("seed@example.test"))
	require.NoError(t, err)
	require.NotEmpty(t, created.UserID)
	require.Equal(t, "metric", created.Settings.Units)

	acts, err := s.Activities().List(ctx, model.ListActivitiesRequest{UserID: created.UserID})
	require.NoError(t, err)
	// 7 days of driving plus 4 days of electricity.
	require.Len(t, acts, 11)
	for _, a := range acts {
		require.NotZero(t, a.Emission)
	}
}

func TestUserService_CreateWithoutSeeding(t *testing.T) {
	s := newTestStore(t)
	svc := NewUserService(s, calc.New(), false, zerolog.Nop())
	ctx := context.Background()

	created, err := svc.CreateUser(ctx, newUser("noseed@example.test"))
	require.NoError(t, err)

	acts, err := s.Activities().List(ctx, model.ListActivitiesRequest{UserID: created.UserID})
	require.NoError(t, err)
	require.Empty(t, acts)
}

func TestActivityService_AddActivity(t *testing.T) {
	s := newTestStore(t)
	users := NewUserService(s, calc.New(), false, zerolog.Nop())
	svc := NewActivityService(s, calc.New())
	ctx := context.Background()

	u, err := users.CreateUser(ctx, newUser("add@example.test"))
	require.NoError(t, err)

	date := time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)
	result, stored, err := svc.AddActivity(ctx, u.UserID, model.ActivityInput{
		Category: model.CategoryTransportation,
		Type:     "car_gasoline",
		Amount:   100,
		Unit:     "miles",
		Date:     &date,
	})
	require.NoError(t, err)
	require.InDelta(t, 40.4, result.Emission, 1e-9)
	require.Equal(t, result.Emission, stored.Emission)
	require.NotEmpty(t, stored.ActivityID)

	acts, err := svc.ListActivities(ctx, model.ListActivitiesRequest{UserID: u.UserID})
	require.NoError(t, err)
	require.Len(t, acts, 1)
}

func TestActivityService_AddActivityUnknownUser(t *testing.T) {
	s := newTestStore(t)
	svc := NewActivityService(s, calc.New())

	_, _, err := svc.AddActivity(context.Background(), "u-missing", model.ActivityInput{
		Category: model.CategoryTransportation,
		Type:     "car_gasoline",
		Amount:   1,
		Unit:     "miles",
	})
	require.ErrorIs(t, err, model.ErrNotFound)
}

func TestAnalysisService_AnalyzePersistsResults(t *testing.T) {
	s := newTestStore(t)
	users := NewUserService(s, calc.New(), true, zerolog.Nop())
	activities := NewActivityService(s, calc.New())
	svc := NewAnalysisService(s, newTestOrchestrator(), zerolog.Nop())
	ctx := context.Background()

	u, err := users.CreateUser(ctx, newUser("analyze@example.test"))
	require.NoError(t, err)

	// Push transportation over the rule threshold.
	_, _, err = activities.AddActivity(ctx, u.UserID, model.ActivityInput{
		Category: model.CategoryTransportation,
		Type:     "car_gasoline",
		Amount:   300,
		Unit:     "miles",
	})
	require.NoError(t, err)

	result, err := svc.Analyze(ctx, u.UserID, "how can I reduce my footprint?")
	require.NoError(t, err)
	require.Empty(t, result.SectionErrors)
	require.NotEmpty(t, result.Recommendations)
	require.Contains(t, result.ExternalInsight.Summary, "not configured")

	storedIns, err := svc.Insights(ctx, u.UserID, 0)
	require.NoError(t, err)
	require.Len(t, storedIns, len(result.Insights))

	storedRecs, err := svc.Recommendations(ctx, u.UserID, 0)
	require.NoError(t, err)
	require.Len(t, storedRecs, len(result.Recommendations))

	// A second pass replaces rather than appends.
	again, err := svc.Analyze(ctx, u.UserID, "")
	require.NoError(t, err)
	storedRecs, err = svc.Recommendations(ctx, u.UserID, 0)
	require.NoError(t, err)
	require.Len(t, storedRecs, len(again.Recommendations))
}

func TestDashboardService(t *testing.T) {
	s := newTestStore(t)
	users := NewUserService(s, calc.New(), false, zerolog.Nop())
	activities := NewActivityService(s, calc.New())
	svc := NewDashboardService(s)
	ctx := context.Background()

	u, err := users.CreateUser(ctx, newUser("dash@example.test"))
	require.NoError(t, err)

	empty, err := svc.Dashboard(ctx, u.UserID)
	require.NoError(t, err)
	require.Zero(t, empty.TotalEmissions)
	require.Equal(t, "none", empty.TopCategory)
	require.Equal(t, calc.TrendNoData, empty.WeeklyTrend)

	day1 := time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)
	day2 := day1.AddDate(0, 0, 1)
	for _, in := range []model.ActivityInput{
		{Category: model.CategoryTransportation, Type: "car_gasoline", Amount: 100, Unit: "miles", Date: &day1},
		{Category: model.CategoryFood, Type: "beef", Amount: 1, Unit: "lbs", Date: &day2},
	} {
		_, _, err := activities.AddActivity(ctx, u.UserID, in)
		require.NoError(t, err)
	}

	d, err := svc.Dashboard(ctx, u.UserID)
	require.NoError(t, err)
	require.InDelta(t, 67.01, d.TotalEmissions, 0.01) // 40.4 + 26.61
	require.InDelta(t, 33.51, d.DailyAverage, 0.01)
	require.Equal(t, "transportation", d.TopCategory)
	require.NotNil(t, d.Equivalencies)

	stats, err := svc.Trends(ctx, u.UserID)
	require.NoError(t, err)
	require.Len(t, stats.DailyFootprint, 2)
	require.Len(t, stats.CategoryBreakdown, 2)
}
