// Package storetest holds a backend-agnostic compliance suite for
// store.Store implementations.
package storetest

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/ecotrace/ecotrace-server/internal/ids"
	"github.com/ecotrace/ecotrace-server/internal/model"
	"github.com/ecotrace/ecotrace-server/internal/store"
)

// Run exercises a compliance suite against a store.Store implementation.
// Implementations should provide a clean, isolated store from makeStore.
func Run(t *testing.T, makeStore func(t *testing.T) store.Store) {
	t.Helper()

	s := makeStore(t)
	ctx := context.Background()

	userID := "u-" + uuid.New().String()
	email := userID + "@example.test"

	// Users
	u := &model.User{
		UserID: userID,
		Email:  email,
		Name:   "Test User",
		Profile: model.UserProfile{
			Location:      "california",
			HouseholdSize: 2,
			Lifestyle:     model.LifestyleModerate,
		},
		Settings: model.UserSettings{Units: "metric", Currency: "USD"},
	}
	created, err := s.Users().Create(ctx, u)
	if err != nil {
		t.Fatalf("CreateUser: %v", err)
	}
	if created.CreationTime.IsZero() {
		t.Fatalf("CreateUser: zero creation time")
	}
	got, err := s.Users().Get(ctx, userID)
	if err != nil || got == nil || got.UserID != userID {
		t.Fatalf("GetUser: got=%v err=%v", got, err)
	}
	if got.Profile.Location != "california" || got.Settings.Units != "metric" {
		t.Fatalf("GetUser: profile/settings not round-tripped: %+v", got)
	}
	if _, err := s.Users().Get(ctx, "u-missing"); !errors.Is(err, model.ErrNotFound) {
		t.Fatalf("GetUser missing: want ErrNotFound, got %v", err)
	}
	if _, err := s.Users().Create(ctx, u); !errors.Is(err, model.ErrConflict) {
		t.Fatalf("CreateUser duplicate: want ErrConflict, got %v", err)
	}

	// Activities
	loc := "california"
	day := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	a1 := &model.Activity{
		ActivityID: ids.New(),
		UserID:     userID,
		Category:   model.CategoryTransportation,
		Type:       "car_gasoline",
		Amount:     100,
		Unit:       "miles",
		Emission:   40.4,
		Date:       day,
		Location:   &loc,
		Metadata:   map[string]interface{}{"verified": true},
		Source:     "manual",
	}
	if _, err := s.Activities().Append(ctx, a1); err != nil {
		t.Fatalf("AppendActivity a1: %v", err)
	}
	a2 := &model.Activity{
		ActivityID: ids.New(),
		UserID:     userID,
		Category:   model.CategoryEnergy,
		Type:       "electricity",
		Amount:     50,
		Unit:       "kWh",
		Emission:   46,
		Date:       day.AddDate(0, 0, 1),
		Source:     "manual",
	}
	if _, err := s.Activities().Append(ctx, a2); err != nil {
		t.Fatalf("AppendActivity a2: %v", err)
	}

	lst, err := s.Activities().List(ctx, model.ListActivitiesRequest{UserID: userID})
	if err != nil || len(lst) != 2 {
		t.Fatalf("ListActivities: n=%d err=%v", len(lst), err)
	}
	if lst[0].ActivityID != a2.ActivityID {
		t.Fatalf("ListActivities: want most recent first, got %s", lst[0].ActivityID)
	}
	if lst[1].Location == nil || *lst[1].Location != loc {
		t.Fatalf("ListActivities: location not round-tripped: %+v", lst[1])
	}
	if v, ok := lst[1].Metadata["verified"].(bool); !ok || !v {
		t.Fatalf("ListActivities: metadata not round-tripped: %+v", lst[1].Metadata)
	}

	cat := model.CategoryEnergy
	lst, err = s.Activities().List(ctx, model.ListActivitiesRequest{UserID: userID, Category: &cat})
	if err != nil || len(lst) != 1 || lst[0].Category != model.CategoryEnergy {
		t.Fatalf("ListActivities by category: n=%d err=%v", len(lst), err)
	}
	lst, err = s.Activities().List(ctx, model.ListActivitiesRequest{UserID: userID, Limit: 1})
	if err != nil || len(lst) != 1 {
		t.Fatalf("ListActivities limit: n=%d err=%v", len(lst), err)
	}

	// Insights: Replace is atomic swap, List is most recent first.
	now := time.Now().UTC().Truncate(time.Second)
	ins := []model.Insight{
		{InsightID: ids.New(), UserID: userID, Type: model.InsightTrend, Title: "old", Message: "old", Severity: model.SeverityInfo, CreationTime: now.Add(-time.Hour)},
	}
	if err := s.Insights().Replace(ctx, userID, ins); err != nil {
		t.Fatalf("ReplaceInsights first: %v", err)
	}
	ins = []model.Insight{
		{InsightID: ids.New(), UserID: userID, Type: model.InsightAlert, Title: "alert", Message: "m1", Data: map[string]interface{}{"percentage": 62.5}, Severity: model.SeverityWarning, CreationTime: now},
		{InsightID: ids.New(), UserID: userID, Type: model.InsightTrend, Title: "trend", Message: "m2", Severity: model.SeveritySuccess, CreationTime: now.Add(time.Minute)},
	}
	if err := s.Insights().Replace(ctx, userID, ins); err != nil {
		t.Fatalf("ReplaceInsights second: %v", err)
	}
	gotIns, err := s.Insights().List(ctx, userID, 0)
	if err != nil || len(gotIns) != 2 {
		t.Fatalf("ListInsights: n=%d err=%v", len(gotIns), err)
	}
	if gotIns[0].Title != "trend" {
		t.Fatalf("ListInsights: want most recent first, got %q", gotIns[0].Title)
	}
	if pct, ok := gotIns[1].Data["percentage"].(float64); !ok || pct != 62.5 {
		t.Fatalf("ListInsights: data not round-tripped: %+v", gotIns[1].Data)
	}

	appended := &model.Insight{InsightID: ids.New(), UserID: userID, Type: model.InsightMilestone, Title: "milestone", Message: "m3", Severity: model.SeverityInfo, CreationTime: now.Add(2 * time.Minute)}
	if _, err := s.Insights().Append(ctx, appended); err != nil {
		t.Fatalf("AppendInsight: %v", err)
	}
	gotIns, err = s.Insights().List(ctx, userID, 2)
	if err != nil || len(gotIns) != 2 || gotIns[0].Title != "milestone" {
		t.Fatalf("ListInsights after append: n=%d err=%v", len(gotIns), err)
	}

	// Recommendations
	recs := []model.Recommendation{
		{
			RecommendationID: ids.New(),
			UserID:           userID,
			Type:             model.RecommendationAction,
			Title:            "Switch to electric or hybrid vehicle",
			Description:      "d1",
			Category:         model.CategoryTransportation,
			Impact:           model.Impact{CarbonReduction: 105, Cost: 300, Difficulty: model.DifficultyMedium, Timeframe: "3-6 months"},
			Confidence:       0.85,
			Reasoning:        "r1",
			CreationTime:     now,
			Status:           model.StatusPending,
		},
		{
			RecommendationID: ids.New(),
			UserID:           userID,
			Type:             model.RecommendationHabit,
			Title:            "Reduce meat consumption",
			Description:      "d2",
			Category:         model.CategoryFood,
			Impact:           model.Impact{CarbonReduction: 12, Cost: -50, Difficulty: model.DifficultyEasy, Timeframe: "immediate"},
			Confidence:       0.8,
			Reasoning:        "r2",
			CreationTime:     now.Add(time.Minute),
			Status:           model.StatusPending,
		},
	}
	if err := s.Recommendations().Replace(ctx, userID, recs); err != nil {
		t.Fatalf("ReplaceRecommendations: %v", err)
	}
	gotRecs, err := s.Recommendations().List(ctx, userID, 0)
	if err != nil || len(gotRecs) != 2 {
		t.Fatalf("ListRecommendations: n=%d err=%v", len(gotRecs), err)
	}
	if gotRecs[0].Title != "Reduce meat consumption" {
		t.Fatalf("ListRecommendations: want most recent first, got %q", gotRecs[0].Title)
	}
	if gotRecs[0].Impact.Cost != -50 || gotRecs[0].Impact.Difficulty != model.DifficultyEasy {
		t.Fatalf("ListRecommendations: impact not round-tripped: %+v", gotRecs[0].Impact)
	}

	// Replace with empty set clears.
	if err := s.Recommendations().Replace(ctx, userID, nil); err != nil {
		t.Fatalf("ReplaceRecommendations empty: %v", err)
	}
	gotRecs, err = s.Recommendations().List(ctx, userID, 0)
	if err != nil || len(gotRecs) != 0 {
		t.Fatalf("ListRecommendations after clear: n=%d err=%v", len(gotRecs), err)
	}

	// Health
	if err := s.HealthPing(ctx); err != nil {
		t.Fatalf("HealthPing: %v", err)
	}
}
