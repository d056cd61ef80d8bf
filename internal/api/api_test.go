package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ecotrace/ecotrace-server/internal/agents"
	"github.com/ecotrace/ecotrace-server/internal/calc"
	"github.com/ecotrace/ecotrace-server/internal/insight"
	"github.com/ecotrace/ecotrace-server/internal/insight/gemini"
	"github.com/ecotrace/ecotrace-server/internal/model"
	"github.com/ecotrace/ecotrace-server/internal/store/sqlite"
)

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()

	s, err := sqlite.Open(filepath.Join(t.TempDir(), "api.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })

	log := zerolog.Nop()
	params := agents.DefaultParams()
	provider := gemini.New(gemini.DefaultBaseURL, "", "gemini-2.0-flash", time.Second)
	orch := agents.NewOrchestrator(
		agents.NewAnalyzer(params, log),
		agents.NewRecommender(params, log),
		insight.NewExternalAgent(provider, insight.NewDispatcher(1, time.Second), log),
		log,
	)

	srv := httptest.NewServer(NewRouter(Deps{
		Store:        s,
		Engine:       calc.New(),
		Orchestrator: orch,
		SeedDemoData: false,
		Logger:       log,
	}))
	t.Cleanup(srv.Close)
	return srv
}

func postJSON(t *testing.T, url string, body interface{}) *http.Response {
	t.Helper()
	b, err := json.Marshal(body)
	require.NoError(t, err)
	resp, err := http.Post(url, "application/json", bytes.NewReader(b))
	require.NoError(t, err)
	return resp
}

func decodeBody(t *testing.T, resp *http.Response, out interface{}) {
	t.Helper()
	defer func() { _ = resp.Body.Close() }()
	require.NoError(t, json.NewDecoder(resp.Body).Decode(out))
}

func createUser(t *testing.T, srv *httptest.Server, email string) model.User {
	t.Helper()
	resp := postJSON(t, srv.URL+"/api/users", map[string]interface{}{
		"email":         email,
		"name":          "Test User",
		"location":      "california",
		"householdSize": 2,
		"lifestyle":     "moderate",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var u model.User
	decodeBody(t, resp, &u)
	require.NotEmpty(t, u.UserID)
	return u
}

func TestAPI_UserLifecycle(t *testing.T) {
	srv := newTestServer(t)

	u := createUser(t, srv, "lifecycle@example.test")

	resp, err := http.Get(srv.URL + "/api/users/" + u.UserID)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var got model.User
	decodeBody(t, resp, &got)
	assert.Equal(t, u.UserID, got.UserID)
	assert.Equal(t, "california", got.Profile.Location)

	resp, err = http.Get(srv.URL + "/api/users/u-missing")
	require.NoError(t, err)
	_ = resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	// Duplicate email conflicts.
	resp = postJSON(t, srv.URL+"/api/users", map[string]interface{}{
		"email": "lifecycle@example.test",
		"name":  "Dup",
	})
	_ = resp.Body.Close()
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
}

func TestAPI_CreateUserValidation(t *testing.T) {
	srv := newTestServer(t)

	for name, body := range map[string]map[string]interface{}{
		"missing email": {"name": "x"},
		"bad email":     {"email": "not-an-email", "name": "x"},
		"missing name":  {"email": "ok@example.test"},
	} {
		resp := postJSON(t, srv.URL+"/api/users", body)
		_ = resp.Body.Close()
		assert.Equalf(t, http.StatusBadRequest, resp.StatusCode, "case %q", name)
	}
}

func TestAPI_ActivitiesAndCalculate(t *testing.T) {
	srv := newTestServer(t)
	u := createUser(t, srv, "activities@example.test")

	resp := postJSON(t, srv.URL+"/api/users/"+u.UserID+"/activities", map[string]interface{}{
		"category": "transportation",
		"type":     "car_gasoline",
		"amount":   100,
		"unit":     "miles",
		"date":     "2026-03-10T00:00:00Z",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var added struct {
		Activity model.Activity          `json:"activity"`
		Result   model.CalculationResult `json:"result"`
	}
	decodeBody(t, resp, &added)
	assert.InDelta(t, 40.4, added.Result.Emission, 1e-9)
	assert.Len(t, added.Result.Breakdown, 3)
	assert.NotEmpty(t, added.Activity.ActivityID)

	resp, err := http.Get(srv.URL + "/api/users/" + u.UserID + "/activities?category=transportation")
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var list []model.Activity
	decodeBody(t, resp, &list)
	require.Len(t, list, 1)

	resp, err = http.Get(srv.URL + "/api/users/" + u.UserID + "/activities?category=bogus")
	require.NoError(t, err)
	_ = resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	// Pure calculation does not persist.
	resp = postJSON(t, srv.URL+"/api/calculate", map[string]interface{}{
		"category": "food",
		"type":     "beef",
		"amount":   2,
		"unit":     "lbs",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var calcResult model.CalculationResult
	decodeBody(t, resp, &calcResult)
	assert.InDelta(t, 53.22, calcResult.Emission, 1e-9)

	resp, err = http.Get(srv.URL + "/api/users/" + u.UserID + "/activities")
	require.NoError(t, err)
	decodeBody(t, resp, &list)
	assert.Len(t, list, 1)
}

func TestAPI_AnalyzeAndRetrieve(t *testing.T) {
	srv := newTestServer(t)
	u := createUser(t, srv, "analyze@example.test")

	// Enough transportation emissions to trigger the vehicle rule.
	for i := 0; i < 3; i++ {
		resp := postJSON(t, srv.URL+"/api/users/"+u.UserID+"/activities", map[string]interface{}{
			"category": "transportation",
			"type":     "car_gasoline",
			"amount":   100,
			"unit":     "miles",
			"date":     fmt.Sprintf("2026-03-%02dT00:00:00Z", 10+i),
		})
		require.Equal(t, http.StatusCreated, resp.StatusCode)
		_ = resp.Body.Close()
	}

	resp := postJSON(t, srv.URL+"/api/users/"+u.UserID+"/analyze", map[string]interface{}{
		"question": "how do I cut my commute footprint?",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var analysis struct {
		Insights        []model.Insight        `json:"insights"`
		Recommendations []model.Recommendation `json:"recommendations"`
		ExternalInsight model.ExternalInsight  `json:"externalInsight"`
		SectionErrors   map[string]string      `json:"sectionErrors,omitempty"`
	}
	decodeBody(t, resp, &analysis)
	assert.Empty(t, analysis.SectionErrors)
	assert.NotEmpty(t, analysis.Recommendations)
	assert.Contains(t, analysis.ExternalInsight.Summary, "not configured")

	resp, err := http.Get(srv.URL + "/api/users/" + u.UserID + "/recommendations")
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var recs []model.Recommendation
	decodeBody(t, resp, &recs)
	assert.Len(t, recs, len(analysis.Recommendations))

	resp, err = http.Get(srv.URL + "/api/users/" + u.UserID + "/insights")
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var ins []model.Insight
	decodeBody(t, resp, &ins)
	assert.Len(t, ins, len(analysis.Insights))
}

func TestAPI_DashboardAndTrends(t *testing.T) {
	srv := newTestServer(t)
	u := createUser(t, srv, "dash@example.test")

	resp := postJSON(t, srv.URL+"/api/users/"+u.UserID+"/activities", map[string]interface{}{
		"category": "energy",
		"type":     "electricity",
		"amount":   100,
		"unit":     "kwh",
		"date":     "2026-03-10T00:00:00Z",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	_ = resp.Body.Close()

	resp, err := http.Get(srv.URL + "/api/users/" + u.UserID + "/dashboard")
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var dash struct {
		TotalEmissions float64 `json:"totalEmissions"`
		TopCategory    string  `json:"topCategory"`
	}
	decodeBody(t, resp, &dash)
	// 100 kWh * 0.92, March off-season 0.95.
	assert.InDelta(t, 87.4, dash.TotalEmissions, 0.01)
	assert.Equal(t, "energy", dash.TopCategory)

	resp, err = http.Get(srv.URL + "/api/users/" + u.UserID + "/stats/trends")
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var stats struct {
		DailyFootprint map[string]float64 `json:"daily_footprint"`
	}
	decodeBody(t, resp, &stats)
	assert.Len(t, stats.DailyFootprint, 1)
}

func TestAPI_CategoriesAndAgents(t *testing.T) {
	srv := newTestServer(t)

	resp, err := http.Get(srv.URL + "/api/categories")
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var cats struct {
		Categories []calc.CategoryEntry `json:"categories"`
	}
	decodeBody(t, resp, &cats)
	require.NotEmpty(t, cats.Categories)
	assert.Equal(t, "transportation", cats.Categories[0].Value)
	assert.Contains(t, cats.Categories[0].Types, "car_gasoline")

	resp, err = http.Get(srv.URL + "/api/agents")
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var ag struct {
		Agents []model.AgentDescriptor `json:"agents"`
	}
	decodeBody(t, resp, &ag)
	require.Len(t, ag.Agents, 3)
	assert.Equal(t, "carbon-analysis", ag.Agents[0].ID)
}

func TestAPI_Health(t *testing.T) {
	srv := newTestServer(t)

	resp, err := http.Get(srv.URL + "/api/health")
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var health map[string]interface{}
	decodeBody(t, resp, &health)
	assert.Equal(t, "healthy", health["status"])

	resp, err = http.Get(srv.URL + "/api/health/db")
	require.NoError(t, err)
	_ = resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}
