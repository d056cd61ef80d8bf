package agents

import (
	"context"
	"fmt"
	"math"
	"sort"

	"github.com/rs/zerolog"

	"github.com/ecotrace/ecotrace-server/internal/calc"
	"github.com/ecotrace/ecotrace-server/internal/ids"
	"github.com/ecotrace/ecotrace-server/internal/model"
)

// Analyzer detects trends, dominant categories, and daily anomalies in a
// user's activity history. It is a pure function of its input.
type Analyzer struct {
	params Params
	desc   model.AgentDescriptor
	logger zerolog.Logger
}

// NewAnalyzer builds the trend & anomaly analyzer agent.
func NewAnalyzer(params Params, logger zerolog.Logger) *Analyzer {
	return &Analyzer{
		params: params,
		desc: model.AgentDescriptor{
			ID:          "carbon-analysis",
			Name:        "Carbon Analysis Agent",
			Description: "Analyzes carbon footprint patterns and identifies trends",
			Capabilities: []string{
				"pattern-analysis",
				"trend-detection",
				"anomaly-detection",
				"comparative-analysis",
			},
		},
		logger: logger.With().Str("agent", "carbon-analysis").Logger(),
	}
}

func (a *Analyzer) Descriptor() model.AgentDescriptor { return a.desc }

// Execute runs the weekly trend, category share, and anomaly checks and
// returns the resulting insights.
func (a *Analyzer) Execute(_ context.Context, in AnalysisContext) (Output, error) {
	userID := ""
	if in.User != nil {
		userID = in.User.UserID
	}

	var insights []model.Insight

	if ins := a.weeklyTrendInsight(userID, in); ins != nil {
		insights = append(insights, *ins)
	}
	if ins := a.categoryAlert(userID, in); ins != nil {
		insights = append(insights, *ins)
	}
	insights = append(insights, a.anomalies(userID, in)...)

	a.logger.Debug().Int("insights", len(insights)).Msg("analysis complete")
	return Output{Insights: insights}, nil
}

// weeklyTrend compares the last 7 days against the 7 days before them.
// A zero prior week reports stable with zero change regardless of the
// current week, guarding the percentage against division by zero.
func (a *Analyzer) weeklyTrend(in AnalysisContext) (trend string, pct float64) {
	weekAgo := in.Now.AddDate(0, 0, -7)
	twoWeeksAgo := in.Now.AddDate(0, 0, -14)

	var thisWeek, lastWeek float64
	for _, act := range in.Activities {
		switch {
		case !act.Date.Before(weekAgo):
			thisWeek += act.Emission
		case !act.Date.Before(twoWeeksAgo) && act.Date.Before(weekAgo):
			lastWeek += act.Emission
		}
	}

	if lastWeek == 0 {
		return calc.TrendStable, 0
	}

	change := (thisWeek - lastWeek) / lastWeek * 100
	if math.Abs(change) < a.params.StableChangePct {
		return calc.TrendStable, change
	}
	if change > 0 {
		return calc.TrendIncreasing, math.Abs(change)
	}
	return calc.TrendDecreasing, math.Abs(change)
}

// weeklyTrendInsight emits a trend insight only when the week-over-week
// movement is not stable.
func (a *Analyzer) weeklyTrendInsight(userID string, in AnalysisContext) *model.Insight {
	trend, pct := a.weeklyTrend(in)
	if trend == calc.TrendStable {
		return nil
	}

	title := "Carbon Footprint Rising"
	verb := "increased"
	severity := model.SeverityWarning
	if trend == calc.TrendDecreasing {
		title = "Carbon Footprint Improving"
		verb = "decreased"
		severity = model.SeveritySuccess
	}

	return &model.Insight{
		InsightID:    ids.New(),
		UserID:       userID,
		Type:         model.InsightTrend,
		Title:        title,
		Message:      fmt.Sprintf("Your emissions have %s by %.1f%% this week", verb, pct),
		Data:         map[string]interface{}{"trend": trend, "percentage": pct},
		Severity:     severity,
		CreationTime: in.Now,
	}
}

// categoryAlert flags any single category whose share of the total exceeds
// the alert threshold.
func (a *Analyzer) categoryAlert(userID string, in AnalysisContext) *model.Insight {
	var total float64
	byCategory := make(map[model.ActivityCategory]float64)
	for _, act := range in.Activities {
		total += act.Emission
		byCategory[act.Category] += act.Emission
	}
	if total == 0 {
		return nil
	}

	var topCategory model.ActivityCategory
	var topShare float64
	for cat, sum := range byCategory {
		share := sum / total * 100
		if share > topShare || (share == topShare && cat < topCategory) {
			topCategory, topShare = cat, share
		}
	}

	if topShare <= a.params.CategoryAlertPct {
		return nil
	}

	return &model.Insight{
		InsightID:    ids.New(),
		UserID:       userID,
		Type:         model.InsightAlert,
		Title:        "High Impact Category Detected",
		Message:      fmt.Sprintf("%s accounts for %.1f%% of your carbon footprint", topCategory, topShare),
		Data:         map[string]interface{}{"category": string(topCategory), "percentage": topShare},
		Severity:     model.SeverityInfo,
		CreationTime: in.Now,
	}
}

// anomalies flags days whose total emission exceeds the daily mean plus
// AnomalyStdDevs population standard deviations.
func (a *Analyzer) anomalies(userID string, in AnalysisContext) []model.Insight {
	daily := calc.DailyFootprint(in.Activities)
	if len(daily) == 0 {
		return nil
	}

	var sum float64
	for _, v := range daily {
		sum += v
	}
	mean := sum / float64(len(daily))

	var variance float64
	for _, v := range daily {
		variance += (v - mean) * (v - mean)
	}
	stddev := math.Sqrt(variance / float64(len(daily)))
	threshold := mean + a.params.AnomalyStdDevs*stddev

	days := make([]string, 0, len(daily))
	for d := range daily {
		days = append(days, d)
	}
	sort.Strings(days)

	var out []model.Insight
	for _, day := range days {
		emission := daily[day]
		if emission <= threshold {
			continue
		}
		out = append(out, model.Insight{
			InsightID: ids.New(),
			UserID:    userID,
			Type:      model.InsightAlert,
			Title:     fmt.Sprintf("Unusually High Emissions on %s", day),
			Message: fmt.Sprintf(
				"Your emissions on %s were %.1f kg CO2e, significantly above your average of %.1f kg CO2e",
				day, emission, mean),
			Data: map[string]interface{}{
				"date":     day,
				"emission": emission,
				"average":  mean,
			},
			Severity:     model.SeverityWarning,
			CreationTime: in.Now,
		})
	}
	return out
}
