// Package calc implements the deterministic emission calculation engine.
// Calculations are pure: unknown categories, types, units, and locations
// degrade to zero factors or neutral multipliers rather than errors, so the
// engine never fails on unfamiliar input.
package calc

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/ecotrace/ecotrace-server/internal/model"
)

// Engine prices activities against a Factors table.
type Engine struct {
	factors Factors
}

// New returns an Engine backed by the canonical factor tables.
func New() *Engine { return &Engine{factors: DefaultFactors()} }

// NewWithFactors returns an Engine with caller-supplied tables, used to
// override individual constants without forking the engine.
func NewWithFactors(f Factors) *Engine { return &Engine{factors: f} }

// Calculate prices a single activity. The result's breakdown always holds
// exactly three entries in fixed order: base factor, location adjustment,
// temporal adjustment. Their emissions sum to the final value.
func (e *Engine) Calculate(in model.ActivityInput) model.CalculationResult {
	baseFactor := e.factors.emissionFactor(in.Category, in.Type)
	convertedAmount := e.convertUnits(in.Amount, in.Unit)
	baseEmission := baseFactor * convertedAmount

	locationMult := e.locationMultiplier(in.Location, in.Category)
	temporalMult := e.temporalMultiplier(in.Date, in.Category)
	emission := baseEmission * locationMult * temporalMult

	breakdown := []model.BreakdownEntry{
		{
			Factor:   fmt.Sprintf("%s_%s", in.Category, in.Type),
			Amount:   convertedAmount,
			Emission: baseEmission,
			Unit:     e.factors.standardUnit(in.Category),
		},
		{
			Factor:   "location_adjustment",
			Amount:   locationMult,
			Emission: baseEmission * (locationMult - 1),
			Unit:     "multiplier",
		},
		{
			Factor:   "temporal_adjustment",
			Amount:   temporalMult,
			Emission: baseEmission * locationMult * (temporalMult - 1),
			Unit:     "multiplier",
		},
	}

	return model.CalculationResult{
		Emission:        emission,
		Confidence:      e.confidence(in.Category, in.Type, in.Metadata),
		Breakdown:       breakdown,
		Recommendations: e.suggestions(in.Category, emission),
	}
}

// convertUnits normalizes amount into the category's standard unit.
// Unrecognized units pass through unchanged.
func (e *Engine) convertUnits(amount float64, unit string) float64 {
	if mult, ok := e.factors.UnitConversions[strings.ToLower(unit)]; ok {
		return amount * mult
	}
	return amount
}

// locationMultiplier returns the per-category grid adjustment for a
// location, or 1.0 when the location is absent or unmapped.
func (e *Engine) locationMultiplier(location *string, category model.ActivityCategory) float64 {
	if location == nil || *location == "" {
		return 1.0
	}
	key := strings.ReplaceAll(strings.ToLower(*location), " ", "_")
	if mult, ok := e.factors.LocationMultipliers[key][category]; ok {
		return mult
	}
	return 1.0
}

// temporalMultiplier applies seasonal adjustments. Energy use rises in
// summer (cooling) and winter (heating); transportation rises in peak
// travel months. A missing date is neutral.
func (e *Engine) temporalMultiplier(date *time.Time, category model.ActivityCategory) float64 {
	if date == nil {
		return 1.0
	}
	month := date.Month()

	switch category {
	case model.CategoryEnergy:
		switch month {
		case time.June, time.July, time.August:
			return e.factors.EnergySummer
		case time.December, time.January, time.February:
			return e.factors.EnergyWinter
		default:
			return e.factors.EnergyOffSeason
		}
	case model.CategoryTransportation:
		switch month {
		case time.July, time.August, time.December:
			return e.factors.TransportPeak
		}
	}
	return 1.0
}

// confidence scores the estimate from the per-type base, adjusted by
// metadata quality flags and clamped to [MinConfidence, MaxConfidence].
func (e *Engine) confidence(category model.ActivityCategory, activityType string, metadata map[string]interface{}) float64 {
	score := e.factors.BaseConfidence
	if c, ok := e.factors.Confidence[category][activityType]; ok {
		score = c
	}

	if metadata != nil {
		if v, ok := metadata["verified"].(bool); ok && v {
			score += e.factors.VerifiedBonus
		}
		if v, ok := metadata["estimated"].(bool); ok && v {
			score -= e.factors.EstimatedPenalty
		}
	}

	return clampConfidence(score)
}

// suggestions returns the fixed per-category suggestion text for
// high-emission activities; low emissions contribute none.
func (e *Engine) suggestions(category model.ActivityCategory, emission float64) []string {
	if emission <= e.factors.SuggestionThresholdKg {
		return []string{}
	}
	texts, ok := e.factors.Suggestions[category]
	if !ok {
		return []string{}
	}
	out := make([]string, len(texts))
	copy(out, texts)
	return out
}

// CategoryEntry is one category in the public catalog.
type CategoryEntry struct {
	Name  string   `json:"name"`
	Value string   `json:"value"`
	Types []string `json:"types"`
}

// Catalog lists the categories and activity types the engine has emission
// factors for, with types sorted for stable output.
func (e *Engine) Catalog() []CategoryEntry {
	var out []CategoryEntry
	for _, cat := range model.Categories() {
		factors, ok := e.factors.Emission[cat]
		if !ok || len(factors) == 0 {
			continue
		}
		types := make([]string, 0, len(factors))
		for t := range factors {
			types = append(types, t)
		}
		sort.Strings(types)
		name := strings.ToUpper(string(cat)[:1]) + string(cat)[1:]
		out = append(out, CategoryEntry{Name: name, Value: string(cat), Types: types})
	}
	return out
}

func clampConfidence(v float64) float64 {
	if v < MinConfidence {
		return MinConfidence
	}
	if v > MaxConfidence {
		return MaxConfidence
	}
	return v
}
