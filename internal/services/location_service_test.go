package services

import (
	"testing"

	"shifttrack_backend/pkg/geo"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateLocationDerivesQRCode(t *testing.T) {
	_, lr, _ := newFakes()
	svc := NewLocationService(lr, nil)

	location, err := svc.CreateLocation(CreateLocationRequest{
		Name:      "  Main Office ",
		Address:   "1 Main St",
		Latitude:  40.0,
		Longitude: -74.0,
		Radius:    100,
	})
	require.NoError(t, err)
	assert.Equal(t, "Main Office", location.Name)
	assert.Equal(t, "location:1", location.QRCode)

	resolved, err := svc.ResolveQRCode(location.QRCode)
	require.NoError(t, err)
	assert.Equal(t, location.ID, resolved.ID)

	// Surrounding whitespace from a sloppy scanner is tolerated.
	resolved, err = svc.ResolveQRCode("  " + location.QRCode + "\n")
	require.NoError(t, err)
	assert.Equal(t, location.ID, resolved.ID)
}

func TestCreateLocationValidation(t *testing.T) {
	_, lr, _ := newFakes()
	svc := NewLocationService(lr, nil)

	cases := []struct {
		name string
		req  CreateLocationRequest
	}{
		{"empty name", CreateLocationRequest{Name: "  ", Address: "1 Main St", Radius: 100}},
		{"empty address", CreateLocationRequest{Name: "Office", Address: "", Radius: 100}},
		{"latitude out of range", CreateLocationRequest{Name: "Office", Address: "1 Main St", Latitude: 91, Radius: 100}},
		{"longitude out of range", CreateLocationRequest{Name: "Office", Address: "1 Main St", Longitude: -181, Radius: 100}},
		{"zero radius", CreateLocationRequest{Name: "Office", Address: "1 Main St", Radius: 0}},
		{"negative radius", CreateLocationRequest{Name: "Office", Address: "1 Main St", Radius: -5}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.CreateLocation(tc.req)
			require.ErrorIs(t, err, ErrLocationDataValidation)
		})
	}
}

func TestResolveQRCodeRejectsBadTokens(t *testing.T) {
	_, lr, _ := newFakes()
	svc := NewLocationService(lr, nil)

	for _, token := range []string{"", "loc:1", "location:", "location:xyz", "location:0", "location:-1"} {
		_, err := svc.ResolveQRCode(token)
		require.ErrorIs(t, err, ErrInvalidQRCode, "token %q", token)
	}

	// Well-formed token, but no such location.
	_, err := svc.ResolveQRCode("location:404")
	require.ErrorIs(t, err, ErrInvalidQRCode)
}

func TestCheckProximityBoundaryIsInclusive(t *testing.T) {
	_, lr, _ := newFakes()
	svc := NewLocationService(lr, nil)

	// Radius set to the exact distance of the probe point, so the reading
	// sits right on the boundary.
	boundary := geo.Distance(0, 0, 0, 0.001)
	location, err := svc.CreateLocation(CreateLocationRequest{
		Name:    "Equator Post",
		Address: "0 Meridian Rd",
		Radius:  boundary,
	})
	require.NoError(t, err)

	result, err := svc.CheckProximity(location.ID, 0, 0.001)
	require.NoError(t, err)
	assert.True(t, result.WithinRange)
	assert.InDelta(t, boundary, result.Distance, 1e-6)
	assert.InDelta(t, boundary, result.Radius, 1e-6)

	// Shrink the radius one meter below the distance.
	smaller := boundary - 1
	_, err = svc.UpdateLocation(location.ID, UpdateLocationRequest{Radius: &smaller})
	require.NoError(t, err)

	result, err = svc.CheckProximity(location.ID, 0, 0.001)
	require.NoError(t, err)
	assert.False(t, result.WithinRange)
}

func TestCheckProximityMissingLocationFailsClosed(t *testing.T) {
	_, lr, _ := newFakes()
	svc := NewLocationService(lr, nil)

	_, err := svc.CheckProximity(123, 40.0, -74.0)
	require.ErrorIs(t, err, ErrLocationNotFound)
}

func TestUpdateLocationPartialAndValidation(t *testing.T) {
	_, lr, _ := newFakes()
	svc := NewLocationService(lr, nil)

	location, err := svc.CreateLocation(CreateLocationRequest{
		Name:      "Office",
		Address:   "1 Main St",
		Latitude:  40.0,
		Longitude: -74.0,
		Radius:    100,
	})
	require.NoError(t, err)

	newName := "Warehouse"
	updated, err := svc.UpdateLocation(location.ID, UpdateLocationRequest{Name: &newName})
	require.NoError(t, err)
	assert.Equal(t, "Warehouse", updated.Name)
	assert.Equal(t, "1 Main St", updated.Address)
	assert.Equal(t, 100.0, updated.Radius)

	badLat := 95.0
	_, err = svc.UpdateLocation(location.ID, UpdateLocationRequest{Latitude: &badLat})
	require.ErrorIs(t, err, ErrLocationDataValidation)

	_, err = svc.UpdateLocation(999, UpdateLocationRequest{Name: &newName})
	require.ErrorIs(t, err, ErrLocationNotFound)
}

func TestDeleteLocation(t *testing.T) {
	_, lr, _ := newFakes()
	svc := NewLocationService(lr, nil)

	location, err := svc.CreateLocation(CreateLocationRequest{
		Name:    "Office",
		Address: "1 Main St",
		Radius:  100,
	})
	require.NoError(t, err)

	require.NoError(t, svc.DeleteLocation(location.ID))
	_, err = svc.GetLocationByID(location.ID)
	require.ErrorIs(t, err, ErrLocationNotFound)

	require.ErrorIs(t, svc.DeleteLocation(location.ID), ErrLocationNotFound)
}
