package validate_test

import (
	"testing"

	"github.com/munidigital/portal-denuncias/validate"
	"github.com/stretchr/testify/require"
)

func TestTransposedCoordinatesAreCorrected(t *testing.T) {
	p := validate.NormalizeCoordinates(-70.7, -33.6, validate.CountryBounds, validate.LocalBounds)
	require.True(t, p.Valid)
	require.InDelta(t, -33.6, p.Lat, 0.0001)
	require.InDelta(t, -70.7, p.Lng, 0.0001)
	require.NotEmpty(t, p.Warning)
}

func TestCorrectCoordinatesPassUntouched(t *testing.T) {
	p := validate.NormalizeCoordinates(-33.6, -70.7, validate.CountryBounds, validate.LocalBounds)
	require.True(t, p.Valid)
	require.InDelta(t, -33.6, p.Lat, 0.0001)
	require.InDelta(t, -70.7, p.Lng, 0.0001)
	require.Empty(t, p.Warning)
}

func TestOutOfCountryIsInvalid(t *testing.T) {
	p := validate.NormalizeCoordinates(40.4, -3.7, validate.CountryBounds, validate.LocalBounds)
	require.False(t, p.Valid)
}

func TestOutOfLocalAreaIsValidWithWarning(t *testing.T) {
	// Antofagasta: inside the country, far from the municipality.
	p := validate.NormalizeCoordinates(-23.65, -70.4, validate.CountryBounds, validate.LocalBounds)
	require.True(t, p.Valid)
	require.NotEmpty(t, p.Warning)
}

func TestImpossibleLatitudeWithoutValidSwapStaysInvalid(t *testing.T) {
	// Latitude beyond the pole can never be right, but the swapped pair
	// falls outside the country too, so no correction is applied.
	p := validate.NormalizeCoordinates(-98.0, -33.6, validate.CountryBounds, validate.LocalBounds)
	require.False(t, p.Valid)
}
