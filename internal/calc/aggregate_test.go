package calc

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ecotrace/ecotrace-server/internal/model"
)

func activityOn(day time.Time, category model.ActivityCategory, typ string, emission float64) model.Activity {
	return model.Activity{
		Category: category,
		Type:     typ,
		Emission: emission,
		Date:     day,
	}
}

func TestTrend_NoData(t *testing.T) {
	res := Trend(nil)
	assert.Equal(t, TrendNoData, res.Trend)
	assert.Zero(t, res.TotalDays)
}

func TestTrend_InsufficientData(t *testing.T) {
	day := time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)
	res := Trend([]model.Activity{
		activityOn(day, model.CategoryEnergy, "electricity", 10),
		activityOn(day.Add(2*time.Hour), model.CategoryEnergy, "electricity", 5),
	})
	assert.Equal(t, TrendInsufficientData, res.Trend)
	assert.Equal(t, 1, res.TotalDays)
}

func TestTrend_Directions(t *testing.T) {
	start := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)

	series := func(values ...float64) []model.Activity {
		var out []model.Activity
		for i, v := range values {
			out = append(out, activityOn(start.AddDate(0, 0, i), model.CategoryEnergy, "electricity", v))
		}
		return out
	}

	up := Trend(series(10, 20, 30, 40, 50))
	assert.Equal(t, TrendIncreasing, up.Trend)
	assert.InDelta(t, 10, up.Slope, 1e-9)
	assert.InDelta(t, 1.0, up.Correlation, 1e-9)
	assert.InDelta(t, 30, up.DailyAverage, 1e-9)
	assert.Equal(t, 5, up.TotalDays)

	down := Trend(series(50, 40, 30, 20, 10))
	assert.Equal(t, TrendDecreasing, down.Trend)

	// Slope magnitude below the threshold reads stable.
	flat := Trend(series(10, 10.05, 10.1, 10.02, 10.08))
	assert.Equal(t, TrendStable, flat.Trend)
}

func TestDailyFootprint(t *testing.T) {
	day := time.Date(2026, 3, 10, 8, 0, 0, 0, time.UTC)
	daily := DailyFootprint([]model.Activity{
		activityOn(day, model.CategoryEnergy, "electricity", 10),
		activityOn(day.Add(6*time.Hour), model.CategoryTransportation, "car_gasoline", 5),
		activityOn(day.AddDate(0, 0, 1), model.CategoryEnergy, "electricity", 7),
	})

	require.Len(t, daily, 2)
	assert.InDelta(t, 15, daily["2026-03-10"], 1e-9)
	assert.InDelta(t, 7, daily["2026-03-11"], 1e-9)
}

func TestCategoryBreakdown(t *testing.T) {
	day := time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)
	breakdown := CategoryBreakdown([]model.Activity{
		activityOn(day, model.CategoryEnergy, "electricity", 10),
		activityOn(day, model.CategoryEnergy, "natural_gas", 4),
		activityOn(day, model.CategoryFood, "beef", 26.61),
	})

	require.Len(t, breakdown, 2)
	energy := breakdown[model.CategoryEnergy]
	assert.InDelta(t, 14, energy.Total, 1e-9)
	assert.InDelta(t, 10, energy.Types["electricity"], 1e-9)
	assert.InDelta(t, 4, energy.Types["natural_gas"], 1e-9)
	assert.InDelta(t, 26.61, breakdown[model.CategoryFood].Total, 1e-9)
}
