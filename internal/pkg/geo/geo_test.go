package geo

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDistanceZero(t *testing.T) {
	assert.Equal(t, 0.0, Distance(13.7563, 100.5018, 13.7563, 100.5018))
}

func TestDistanceKnownPoints(t *testing.T) {
	// Bangkok -> Chiang Mai, roughly 586 km great-circle
	d := Distance(13.7563, 100.5018, 18.7883, 98.9853)
	assert.InDelta(t, 586, d, 5)

	// One degree of latitude at the equator is ~111.19 km
	d = Distance(0, 0, 1, 0)
	assert.InDelta(t, 111.19, d, 0.1)
}

func TestDistanceSymmetry(t *testing.T) {
	a := Distance(13.75, 100.50, 18.79, 98.99)
	b := Distance(18.79, 98.99, 13.75, 100.50)
	assert.InDelta(t, a, b, 1e-9)
}

func TestDistanceNaNPropagates(t *testing.T) {
	// NaN must propagate, not panic; selection code treats it as +Inf.
	d := Distance(math.NaN(), 0, 1, 1)
	assert.True(t, math.IsNaN(d))
}
