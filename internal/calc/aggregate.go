package calc

import (
	"math"
	"sort"
	"time"

	"github.com/ecotrace/ecotrace-server/internal/model"
)

// dayLayout keys per-day aggregates.
const dayLayout = "2006-01-02"

// Trend direction labels.
const (
	TrendNoData           = "no_data"
	TrendInsufficientData = "insufficient_data"
	TrendStable           = "stable"
	TrendIncreasing       = "increasing"
	TrendDecreasing       = "decreasing"
)

// CategoryTotal aggregates one category's emissions with a per-type split.
type CategoryTotal struct {
	Total float64            `json:"total"`
	Types map[string]float64 `json:"types"`
}

// TrendResult summarizes the linear trend of per-day emission totals.
type TrendResult struct {
	Trend        string  `json:"trend"`
	Slope        float64 `json:"slope"`
	Correlation  float64 `json:"correlation"`
	DailyAverage float64 `json:"dailyAverage"`
	TotalDays    int     `json:"totalDays"`
}

// DailyFootprint sums emissions per calendar day, keyed YYYY-MM-DD.
func DailyFootprint(activities []model.Activity) map[string]float64 {
	totals := make(map[string]float64)
	for _, a := range activities {
		totals[a.Date.Format(dayLayout)] += a.Emission
	}
	return totals
}

// CategoryBreakdown totals emissions per category with a nested per-type
// breakdown.
func CategoryBreakdown(activities []model.Activity) map[model.ActivityCategory]CategoryTotal {
	out := make(map[model.ActivityCategory]CategoryTotal)
	for _, a := range activities {
		ct, ok := out[a.Category]
		if !ok {
			ct = CategoryTotal{Types: make(map[string]float64)}
		}
		ct.Total += a.Emission
		ct.Types[a.Type] += a.Emission
		out[a.Category] = ct
	}
	return out
}

// Trend fits an ordinary least-squares line through per-day emission totals
// indexed by days since the first recorded day, and reports the direction
// together with the Pearson correlation. Zero activities yield no_data;
// fewer than two distinct days yield insufficient_data.
func Trend(activities []model.Activity) TrendResult {
	if len(activities) == 0 {
		return TrendResult{Trend: TrendNoData}
	}

	daily := DailyFootprint(activities)
	days := make([]string, 0, len(daily))
	for d := range daily {
		days = append(days, d)
	}
	sort.Strings(days)

	if len(days) < 2 {
		return TrendResult{Trend: TrendInsufficientData, TotalDays: len(days)}
	}

	first, _ := parseDay(days[0])
	xs := make([]float64, len(days))
	ys := make([]float64, len(days))
	var sum float64
	for i, d := range days {
		t, _ := parseDay(d)
		xs[i] = t.Sub(first).Hours() / 24
		ys[i] = daily[d]
		sum += daily[d]
	}

	slope, corr := leastSquares(xs, ys)

	trend := TrendStable
	switch {
	case math.Abs(slope) < StableSlopeThreshold:
		trend = TrendStable
	case slope > 0:
		trend = TrendIncreasing
	default:
		trend = TrendDecreasing
	}

	return TrendResult{
		Trend:        trend,
		Slope:        slope,
		Correlation:  corr,
		DailyAverage: sum / float64(len(days)),
		TotalDays:    len(days),
	}
}

func parseDay(s string) (time.Time, error) { return time.Parse(dayLayout, s) }

// leastSquares returns the OLS slope and the Pearson correlation of y on x.
// Degenerate denominators report zero rather than NaN.
func leastSquares(xs, ys []float64) (slope, correlation float64) {
	n := float64(len(xs))
	var sumX, sumY, sumXY, sumX2, sumY2 float64
	for i := range xs {
		sumX += xs[i]
		sumY += ys[i]
		sumXY += xs[i] * ys[i]
		sumX2 += xs[i] * xs[i]
		sumY2 += ys[i] * ys[i]
	}

	if denom := n*sumX2 - sumX*sumX; denom != 0 {
		slope = (n*sumXY - sumX*sumY) / denom
	}

	if denom := math.Sqrt((n*sumX2 - sumX*sumX) * (n*sumY2 - sumY*sumY)); denom != 0 {
		correlation = (n*sumXY - sumX*sumY) / denom
	}
	return slope, correlation
}
