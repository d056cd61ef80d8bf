package equiv

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestForKg(t *testing.T) {
	eq := ForKg(100)
	assert.False(t, eq.IsEmpty)
	assert.InDelta(t, 100/0.192, eq.MilesDriven, 0.1)
	assert.InDelta(t, 100/0.00822, eq.SmartphonesCharged, 0.1)
	assert.InDelta(t, 100/60.0, eq.TreeSeedlings, 0.1)
	assert.InDelta(t, 100/18.3, eq.HomeDays, 0.1)
	assert.Contains(t, eq.DisplayText, "miles")
}

func TestForKg_BelowThreshold(t *testing.T) {
	for _, kg := range []float64{0, 0.5, -12} {
		eq := ForKg(kg)
		assert.Truef(t, eq.IsEmpty, "kg=%v", kg)
		assert.Zero(t, eq.MilesDriven)
		assert.Empty(t, eq.DisplayText)
	}
}
