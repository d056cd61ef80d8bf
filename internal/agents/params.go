package agents

// Params collects the behavioral constants of the analysis agents. The
// values are part of the behavioral contract; DefaultParams returns the
// canonical set and callers may override individual fields.
type Params struct {
	// StableChangePct is the absolute week-over-week percentage change
	// below which the weekly trend is reported as stable.
	StableChangePct float64

	// CategoryAlertPct is the share of total emissions above which a
	// single category triggers an alert insight.
	CategoryAlertPct float64

	// AnomalyStdDevs is how many population standard deviations above the
	// daily mean a day's total must be to be flagged as an anomaly.
	AnomalyStdDevs float64

	// TopCategories bounds how many highest-emission categories the
	// recommender considers.
	TopCategories int

	// MaxRecommendations bounds the final ranked recommendation list.
	MaxRecommendations int

	// Transportation rule: applies only above the threshold.
	TransportThresholdKg float64
	TransportReduction   float64
	TransportCost        float64
	TransportConfidence  float64

	// Energy rule: applies at any emission level.
	EnergyReduction  float64
	EnergyCost       float64
	EnergyConfidence float64

	// Food rule: applies at any emission level. Negative cost is savings.
	FoodReduction  float64
	FoodCost       float64
	FoodConfidence float64
}

// DefaultParams returns the canonical agent parameters.
func DefaultParams() Params {
	return Params{
		StableChangePct:      5,
		CategoryAlertPct:     40,
		AnomalyStdDevs:       2,
		TopCategories:        3,
		MaxRecommendations:   5,
		TransportThresholdKg: 100,
		TransportReduction:   0.7,
		TransportCost:        300,
		TransportConfidence:  0.85,
		EnergyReduction:      0.15,
		EnergyCost:           250,
		EnergyConfidence:     0.9,
		FoodReduction:        0.3,
		FoodCost:             -50,
		FoodConfidence:       0.8,
	}
}
