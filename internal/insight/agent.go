package insight

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/rs/zerolog"

	"github.com/ecotrace/ecotrace-server/internal/agents"
	"github.com/ecotrace/ecotrace-server/internal/calc"
	"github.com/ecotrace/ecotrace-server/internal/model"
)

// ExternalAgent asks a generative provider for a headline insight,
// actionable steps, a confidence score, and a qualitative prediction.
// Exactly one provider attempt is made per analysis request; an
// unconfigured provider short-circuits and any failure degrades to the
// fixed fallback payload, so the agent itself never returns an error for
// provider problems.
type ExternalAgent struct {
	provider Provider
	dispatch *Dispatcher
	desc     model.AgentDescriptor
	logger   zerolog.Logger
}

// NewExternalAgent wires a provider behind the bounded dispatcher.
func NewExternalAgent(provider Provider, dispatch *Dispatcher, logger zerolog.Logger) *ExternalAgent {
	return &ExternalAgent{
		provider: provider,
		dispatch: dispatch,
		desc: model.AgentDescriptor{
			ID:          "external-insight",
			Name:        "External Insight Agent",
			Description: "Leverages a generative text provider for advanced insights",
			Capabilities: []string{
				"natural-language-insights",
				"comparative-analysis",
				"predictive-modeling",
				"personalized-coaching",
			},
		},
		logger: logger.With().Str("agent", "external-insight").Logger(),
	}
}

func (a *ExternalAgent) Descriptor() model.AgentDescriptor { return a.desc }

// Execute builds the context prompt and makes the single provider attempt.
func (a *ExternalAgent) Execute(ctx context.Context, in agents.AnalysisContext) (agents.Output, error) {
	if a.provider == nil || !a.provider.Configured() {
		out := NotConfiguredInsight()
		return agents.Output{External: &out}, nil
	}

	prompt := buildPrompt(in)

	raw, err := a.dispatch.Do(ctx, func(callCtx context.Context) (string, error) {
		return a.provider.Generate(callCtx, prompt)
	})
	if err != nil {
		a.logger.Warn().Err(err).Msg("provider call failed; using fallback insight")
		out := FallbackInsight()
		return agents.Output{External: &out}, nil
	}

	parsed, err := parseStructured(raw)
	if err != nil {
		a.logger.Warn().Err(err).Msg("provider response unparseable; using fallback insight")
		out := FallbackInsight()
		return agents.Output{External: &out}, nil
	}

	out := model.ExternalInsight{
		Summary:         parsed.Insight,
		Recommendations: parsed.ActionableSteps,
		Insights:        parsed.Insight,
		Confidence:      parsed.Confidence,
		Prediction:      parsed.Predictions,
		Source:          a.provider.Name(),
	}
	return agents.Output{External: &out}, nil
}

// NotConfiguredInsight is the fixed payload returned when no provider
// credentials are present. Identical on every call.
func NotConfiguredInsight() model.ExternalInsight {
	return model.ExternalInsight{
		Summary:         "AI insights not available - provider API key not configured",
		Recommendations: []string{},
		Insights:        "Configure a provider API key to enable AI insights",
	}
}

// FallbackInsight is the fixed payload substituted when the provider call
// fails or its response cannot be parsed. Identical on every call.
func FallbackInsight() model.ExternalInsight {
	return model.ExternalInsight{
		Summary: "Your carbon footprint shows opportunities for improvement through targeted actions in your highest-impact categories.",
		Recommendations: []string{
			"Focus on your top emission category first",
			"Set a weekly carbon reduction goal",
			"Track progress with daily activities",
		},
		Insights:   "Your carbon footprint shows opportunities for improvement through targeted actions in your highest-impact categories.",
		Confidence: 0.7,
		Prediction: "With consistent action, you could reduce emissions by 15-25% within 3 months.",
		Source:     "fallback",
	}
}

// buildPrompt summarizes the profile, totals, category breakdown, goals,
// and optional question into the provider prompt, and pins the expected
// JSON response shape.
func buildPrompt(in agents.AnalysisContext) string {
	var total float64
	for _, act := range in.Activities {
		total += act.Emission
	}

	breakdown := calc.CategoryBreakdown(in.Activities)
	cats := make([]string, 0, len(breakdown))
	for cat := range breakdown {
		cats = append(cats, string(cat))
	}
	sort.Strings(cats)

	var sb strings.Builder
	sb.WriteString("User Profile:\n")
	if in.User != nil {
		fmt.Fprintf(&sb, "- Location: %s\n", in.User.Profile.Location)
		fmt.Fprintf(&sb, "- Household Size: %d\n", in.User.Profile.HouseholdSize)
		fmt.Fprintf(&sb, "- Lifestyle: %s\n", in.User.Profile.Lifestyle)
	}

	sb.WriteString("\nCarbon Footprint Data:\n")
	fmt.Fprintf(&sb, "- Total Emissions: %.2f kg CO2e\n", total)
	fmt.Fprintf(&sb, "- Number of Activities: %d\n", len(in.Activities))
	sb.WriteString("- Category Breakdown:\n")
	for _, cat := range cats {
		fmt.Fprintf(&sb, "  - %s: %.2f kg CO2e\n", cat, breakdown[model.ActivityCategory(cat)].Total)
	}

	if in.User != nil && len(in.User.Profile.Goals) > 0 {
		sb.WriteString("\nGoals:\n")
		for _, g := range in.User.Profile.Goals {
			fmt.Fprintf(&sb, "- %s goal: %.0f%% reduction (%s)\n", g.Period, g.TargetReduction, g.Status)
		}
	}

	if in.Question != "" {
		fmt.Fprintf(&sb, "\nSpecific Question: %s\n", in.Question)
	}

	sb.WriteString(`
Please analyze this carbon footprint data and respond with ONLY a JSON object:
{
  "insight": "A clear, actionable insight about the user's carbon footprint",
  "actionable_steps": ["step1", "step2", "step3"],
  "confidence": 0.85,
  "predictions": "What improvements could be expected if recommendations are followed"
}`)

	return sb.String()
}
