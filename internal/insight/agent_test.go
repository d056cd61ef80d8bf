package insight

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ecotrace/ecotrace-server/internal/agents"
	"github.com/ecotrace/ecotrace-server/internal/model"
)

// fakeProvider scripts the provider side of the agent.
type fakeProvider struct {
	name       string
	configured bool
	response   string
	err        error
	calls      int
	gotPrompt  string
}

func (f *fakeProvider) Name() string     { return f.name }
func (f *fakeProvider) Configured() bool { return f.configured }
func (f *fakeProvider) Generate(_ context.Context, prompt string) (string, error) {
	f.calls++
	f.gotPrompt = prompt
	return f.response, f.err
}

func newAgent(p Provider) *ExternalAgent {
	return NewExternalAgent(p, NewDispatcher(2, time.Second), zerolog.Nop())
}

func analysisInput() agents.AnalysisContext {
	return agents.AnalysisContext{
		User: &model.User{
			UserID: "u-test",
			Profile: model.UserProfile{
				Location:      "california",
				HouseholdSize: 2,
				Lifestyle:     model.LifestyleModerate,
				Goals: []model.CarbonGoal{
					{Period: "monthly", TargetReduction: 10, Status: model.GoalActive},
				},
			},
		},
		Activities: []model.Activity{
			{Category: model.CategoryTransportation, Type: "car_gasoline", Emission: 120, Date: time.Now()},
			{Category: model.CategoryEnergy, Type: "electricity", Emission: 80, Date: time.Now()},
		},
		Question: "where should I start?",
		Now:      time.Now(),
	}
}

func TestExternalAgent_UnconfiguredSkipsProvider(t *testing.T) {
	p := &fakeProvider{name: "gemini", configured: false}
	out, err := newAgent(p).Execute(context.Background(), analysisInput())
	require.NoError(t, err)

	require.NotNil(t, out.External)
	assert.Equal(t, NotConfiguredInsight(), *out.External)
	assert.Zero(t, p.calls)

	// The payload is identical across calls.
	again, err := newAgent(p).Execute(context.Background(), analysisInput())
	require.NoError(t, err)
	assert.Equal(t, out.External, again.External)
}

func TestExternalAgent_SuccessfulResponse(t *testing.T) {
	p := &fakeProvider{
		name:       "gemini",
		configured: true,
		response: `{"insight":"Transportation dominates your footprint",
			"actionable_steps":["carpool twice a week","combine errands"],
			"confidence":0.9,
			"predictions":"10-20% reduction in two months"}`,
	}
	out, err := newAgent(p).Execute(context.Background(), analysisInput())
	require.NoError(t, err)

	ext := out.External
	require.NotNil(t, ext)
	assert.Equal(t, "Transportation dominates your footprint", ext.Summary)
	assert.Equal(t, ext.Summary, ext.Insights)
	assert.Equal(t, []string{"carpool twice a week", "combine errands"}, ext.Recommendations)
	assert.InDelta(t, 0.9, ext.Confidence, 1e-9)
	assert.Equal(t, "10-20% reduction in two months", ext.Prediction)
	assert.Equal(t, "gemini", ext.Source)
	assert.Equal(t, 1, p.calls)

	// Prompt carries the profile, totals, breakdown, goals, and question.
	assert.Contains(t, p.gotPrompt, "Location: california")
	assert.Contains(t, p.gotPrompt, "Total Emissions: 200.00 kg CO2e")
	assert.Contains(t, p.gotPrompt, "transportation: 120.00 kg CO2e")
	assert.Contains(t, p.gotPrompt, "monthly goal: 10% reduction (active)")
	assert.Contains(t, p.gotPrompt, "Specific Question: where should I start?")
}

func TestExternalAgent_FencedResponseParses(t *testing.T) {
	p := &fakeProvider{
		name:       "gemini",
		configured: true,
		response:   "```json\n{\"insight\":\"ok\",\"actionable_steps\":[],\"confidence\":0.5,\"predictions\":\"p\"}\n```",
	}
	out, err := newAgent(p).Execute(context.Background(), analysisInput())
	require.NoError(t, err)
	assert.Equal(t, "ok", out.External.Summary)
	assert.Equal(t, "gemini", out.External.Source)
}

func TestExternalAgent_ProviderErrorFallsBack(t *testing.T) {
	p := &fakeProvider{
		name:       "gemini",
		configured: true,
		err:        &ProviderError{Provider: "gemini", Err: errors.New("503")},
	}
	out, err := newAgent(p).Execute(context.Background(), analysisInput())
	require.NoError(t, err)

	assert.Equal(t, FallbackInsight(), *out.External)
	assert.Equal(t, "fallback", out.External.Source)
	// Exactly one attempt, no retries.
	assert.Equal(t, 1, p.calls)
}

func TestExternalAgent_UnparseableResponseFallsBack(t *testing.T) {
	p := &fakeProvider{name: "gemini", configured: true, response: "I think you should drive less."}
	out, err := newAgent(p).Execute(context.Background(), analysisInput())
	require.NoError(t, err)

	assert.Equal(t, FallbackInsight(), *out.External)
	assert.Equal(t, 1, p.calls)
}

func TestExternalAgent_Descriptor(t *testing.T) {
	a := newAgent(&fakeProvider{})
	assert.Equal(t, "external-insight", a.Descriptor().ID)
	assert.Contains(t, a.Descriptor().Capabilities, "natural-language-insights")
}

func TestParseStructured(t *testing.T) {
	cases := map[string]string{
		"bare":         `{"insight":"i","actionable_steps":["a"],"confidence":0.8,"predictions":"p"}`,
		"json fence":   "```json\n{\"insight\":\"i\",\"actionable_steps\":[\"a\"],\"confidence\":0.8,\"predictions\":\"p\"}\n```",
		"plain fence":  "```\n{\"insight\":\"i\",\"actionable_steps\":[\"a\"],\"confidence\":0.8,\"predictions\":\"p\"}\n```",
		"leading junk": "  \n{\"insight\":\"i\",\"actionable_steps\":[\"a\"],\"confidence\":0.8,\"predictions\":\"p\"}",
	}
	for name, raw := range cases {
		parsed, err := parseStructured(raw)
		require.NoErrorf(t, err, "case %q", name)
		assert.Equal(t, "i", parsed.Insight)
		assert.Equal(t, []string{"a"}, parsed.ActionableSteps)
		assert.InDelta(t, 0.8, parsed.Confidence, 1e-9)
	}

	_, err := parseStructured("not json at all")
	var pe *ParseError
	require.ErrorAs(t, err, &pe)
	assert.Equal(t, "not json at all", pe.Raw)
}

func TestDispatcher_Timeout(t *testing.T) {
	d := NewDispatcher(1, 20*time.Millisecond)

	_, err := d.Do(context.Background(), func(ctx context.Context) (string, error) {
		select {
		case <-ctx.Done():
			return "", ctx.Err()
		case <-time.After(time.Second):
			return "too late", nil
		}
	})
	require.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestDispatcher_RespectsCallerCancellation(t *testing.T) {
	d := NewDispatcher(1, time.Second)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := d.Do(ctx, func(ctx context.Context) (string, error) {
		return "never", nil
	})
	require.ErrorIs(t, err, context.Canceled)
}
