// Package equiv translates kg CO2e totals into EPA greenhouse-gas
// equivalencies for display alongside raw numbers.
package equiv

import (
	"fmt"
	"math"
)

// EPA Formula Constants (2024 Edition)
// Source: EPA Greenhouse Gas Equivalencies Calculator.
//
// Each constant is the kg CO2e per unit of the named activity; the
// equivalency is kg_CO2e / factor.
const (
	// EPAMilesDrivenFactor is kg CO2e per mile for an average passenger
	// vehicle.
	EPAMilesDrivenFactor = 0.192

	// EPASmartphoneChargeFactor is kg CO2e per smartphone charge.
	EPASmartphoneChargeFactor = 0.00822

	// EPATreeSeedlingFactor is kg CO2e absorbed per tree seedling grown
	// for 10 years.
	EPATreeSeedlingFactor = 60.0

	// EPAHomeDayFactor is kg CO2e per day of average US home electricity.
	EPAHomeDayFactor = 18.3
)

// MinEquivalencyThresholdKg is the minimum kg CO2e for showing
// equivalencies; below it the numbers become meaninglessly small.
const MinEquivalencyThresholdKg = 1.0

// Equivalencies expresses a carbon total in everyday units.
type Equivalencies struct {
	InputKg            float64 `json:"inputKg"`
	MilesDriven        float64 `json:"milesDriven"`
	SmartphonesCharged float64 `json:"smartphonesCharged"`
	TreeSeedlings      float64 `json:"treeSeedlings"`
	HomeDays           float64 `json:"homeDays"`
	DisplayText        string  `json:"displayText,omitempty"`
	IsEmpty            bool    `json:"isEmpty"`
}

// ForKg computes equivalencies for a kg CO2e total. Totals below the
// threshold (including negative net totals) return an empty result.
func ForKg(kg float64) Equivalencies {
	if kg < MinEquivalencyThresholdKg {
		return Equivalencies{InputKg: kg, IsEmpty: true}
	}

	miles := kg / EPAMilesDrivenFactor
	phones := kg / EPASmartphoneChargeFactor
	trees := kg / EPATreeSeedlingFactor
	homeDays := kg / EPAHomeDayFactor

	return Equivalencies{
		InputKg:            kg,
		MilesDriven:        round1(miles),
		SmartphonesCharged: round1(phones),
		TreeSeedlings:      round1(trees),
		HomeDays:           round1(homeDays),
		DisplayText: fmt.Sprintf("Equivalent to driving ~%.0f miles or charging ~%.0f smartphones",
			miles, phones),
	}
}

func round1(v float64) float64 { return math.Round(v*10) / 10 }
