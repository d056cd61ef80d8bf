package calc

import "github.com/ecotrace/ecotrace-server/internal/model"

// Emission factors are kg CO2e per standard unit of the category
// (miles for transportation, kWh/therms/gallons for energy, lbs for food
// and waste). Negative waste factors represent avoided emissions from
// diversion. Values follow the EPA GHG equivalencies methodology.
//
// All tables live on a Factors value so callers can override any constant
// without changing behavior for everyone else; DefaultFactors returns the
// canonical set.

// Factors bundles the static lookup tables the calculation engine consults.
type Factors struct {
	// Emission maps (category, activity type) to kg CO2e per standard unit.
	// Unknown pairs yield 0.0, never an error.
	Emission map[model.ActivityCategory]map[string]float64

	// UnitConversions maps a lowercase unit name to the multiplier that
	// converts it into the category's standard unit. Unrecognized units
	// pass through with a 1.0 multiplier.
	UnitConversions map[string]float64

	// LocationMultipliers maps a normalized location key to per-category
	// grid/transit adjustments. Missing location or category means 1.0.
	LocationMultipliers map[string]map[model.ActivityCategory]float64

	// Confidence maps (category, activity type) to a base confidence score.
	// Pairs not present fall back to BaseConfidence.
	Confidence     map[model.ActivityCategory]map[string]float64
	BaseConfidence float64

	// Metadata adjustments applied to the base confidence before clamping.
	VerifiedBonus    float64
	EstimatedPenalty float64

	// StandardUnits names the unit each category's factors are expressed in.
	StandardUnits map[model.ActivityCategory]string

	// SuggestionThresholdKg is the emission above which a calculation emits
	// textual reduction suggestions.
	SuggestionThresholdKg float64

	// Suggestions holds the fixed per-category suggestion text.
	Suggestions map[model.ActivityCategory][]string

	// Seasonal multipliers for energy activities.
	EnergySummer    float64
	EnergyWinter    float64
	EnergyOffSeason float64

	// Peak-month multiplier for transportation activities.
	TransportPeak float64
}

// Confidence clamp bounds; a calculation never reports outside [0.1, 1.0].
const (
	MinConfidence = 0.1
	MaxConfidence = 1.0
)

// StableSlopeThreshold is the absolute per-day OLS slope below which a
// trend is reported as stable.
const StableSlopeThreshold = 0.1

// DefaultFactors returns the canonical factor set.
func DefaultFactors() Factors {
	return Factors{
		Emission: map[model.ActivityCategory]map[string]float64{
			model.CategoryTransportation: {
				"car_gasoline":         0.404, // per mile
				"car_electric":         0.127,
				"bus":                  0.089,
				"train":                0.048,
				"flight_domestic":      0.385,
				"flight_international": 0.582,
				"bicycle":              0,
				"walking":              0,
			},
			model.CategoryEnergy: {
				"electricity": 0.92, // per kWh, US grid average
				"natural_gas": 5.3,  // per therm
				"heating_oil": 10.15, // per gallon
				"propane":     5.75,
			},
			model.CategoryFood: {
				"beef":       26.61, // per lb
				"pork":       5.77,
				"chicken":    4.57,
				"fish":       5.4,
				"dairy":      9.9,
				"vegetables": 0.88,
				"fruits":     1.1,
				"grains":     1.4,
			},
			model.CategoryWaste: {
				"landfill":   0.57,
				"recycling":  -1.1, // avoided emissions
				"composting": -0.34,
			},
		},
		UnitConversions: map[string]float64{
			// distance, to miles
			"km":     0.621371,
			"miles":  1.0,
			"meters": 0.000621371,
			// weight, to pounds
			"kg":     2.20462,
			"lbs":    1.0,
			"pounds": 1.0,
			"grams":  0.00220462,
			// energy, to kWh
			"kwh": 1.0,
			"wh":  0.001,
			"mwh": 1000.0,
			// volume, to gallons; therms pass through for natural gas
			"gallons": 1.0,
			"liters":  0.264172,
			"therms":  1.0,
		},
		LocationMultipliers: map[string]map[model.ActivityCategory]float64{
			"california": {model.CategoryEnergy: 0.7, model.CategoryTransportation: 1.0},
			"texas":      {model.CategoryEnergy: 1.3, model.CategoryTransportation: 1.0},
			"new_york":   {model.CategoryEnergy: 0.8, model.CategoryTransportation: 0.9},
			"florida":    {model.CategoryEnergy: 1.1, model.CategoryTransportation: 1.0},
		},
		Confidence: map[model.ActivityCategory]map[string]float64{
			model.CategoryTransportation: {"car_gasoline": 0.9, "flight_domestic": 0.85},
			model.CategoryEnergy:         {"electricity": 0.95, "natural_gas": 0.9},
			model.CategoryFood:           {"beef": 0.8, "vegetables": 0.7},
		},
		BaseConfidence:   0.8,
		VerifiedBonus:    0.1,
		EstimatedPenalty: 0.1,
		StandardUnits: map[model.ActivityCategory]string{
			model.CategoryTransportation: "miles",
			model.CategoryEnergy:         "kWh",
			model.CategoryFood:           "lbs",
			model.CategoryWaste:          "lbs",
		},
		SuggestionThresholdKg: 10,
		Suggestions: map[model.ActivityCategory][]string{
			model.CategoryTransportation: {
				"Consider carpooling or public transit to reduce emissions",
				"Explore electric or hybrid vehicle options",
			},
			model.CategoryEnergy: {
				"Look into renewable energy options for your home",
				"Consider energy-efficient appliances",
			},
			model.CategoryFood: {
				"Try plant-based alternatives to reduce food emissions",
				"Choose locally-sourced foods when possible",
			},
		},
		EnergySummer:    1.2,
		EnergyWinter:    1.15,
		EnergyOffSeason: 0.95,
		TransportPeak:   1.1,
	}
}

// emissionFactor returns the kg CO2e factor for (category, type), or 0.
func (f Factors) emissionFactor(category model.ActivityCategory, activityType string) float64 {
	return f.Emission[category][activityType]
}

// standardUnit names the unit a category's factors are expressed in.
func (f Factors) standardUnit(category model.ActivityCategory) string {
	if u, ok := f.StandardUnits[category]; ok {
		return u
	}
	return "units"
}
