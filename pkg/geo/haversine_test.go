package geo

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDistanceZeroForSamePoint(t *testing.T) {
	assert.Zero(t, Distance(0, 0, 0, 0))
	assert.InDelta(t, 0, Distance(55.7558, 37.6176, 55.7558, 37.6176), 1e-9)
}

func TestDistanceIsSymmetric(t *testing.T) {
	d1 := Distance(40.7128, -74.0060, 34.0522, -118.2437)
	d2 := Distance(34.0522, -118.2437, 40.7128, -74.0060)
	assert.InDelta(t, d1, d2, 1e-6)
}

func TestDistanceKnownValues(t *testing.T) {
	// One degree of longitude at the equator is R * pi/180 meters.
	assert.InDelta(t, 111194.93, Distance(0, 0, 0, 1), 1.0)

	// New York to Los Angeles, great-circle.
	assert.InDelta(t, 3935746, Distance(40.7128, -74.0060, 34.0522, -118.2437), 5000)
}

func TestDistanceShortRange(t *testing.T) {
	// About 111 meters, typical geofence scale.
	d := Distance(40.0, -74.0, 40.001, -74.0)
	assert.InDelta(t, 111.19, d, 0.5)
}
