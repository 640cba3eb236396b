package kernel

import (
	"math"

	"khabarlagbe/internal/pkg/errs"
)

const (
	minLatitude  = -90.0
	maxLatitude  = 90.0
	minLongitude = -180.0
	maxLongitude = 180.0

	earthRadiusMeters = 6371000.0
)

// ErrGeoPointIsNotConstructed indicates that a GeoPoint was not created
// through NewGeoPoint and therefore never passed range validation.
var ErrGeoPointIsNotConstructed = errs.NewValueIsRequiredError(
	"GeoPoint must be created via NewGeoPoint",
)

// GeoPoint is a value object for a WGS84 coordinate pair. It locates
// restaurants, drop-off addresses, and rider positions.
//
// GeoPoint is immutable; the zero value is invalid and rejected by Validate.
type GeoPoint struct {
	lat float64
	lon float64

	isConstructed bool
}

// NewGeoPoint creates a GeoPoint, validating that latitude is within
// [-90, 90] and longitude within [-180, 180].
func NewGeoPoint(lat, lon float64) (GeoPoint, error) {
	if lat < minLatitude || lat > maxLatitude {
		return GeoPoint{}, errs.NewValueIsOutOfRangeError("latitude", lat, minLatitude, maxLatitude)
	}
	if lon < minLongitude || lon > maxLongitude {
		return GeoPoint{}, errs.NewValueIsOutOfRangeError("longitude", lon, minLongitude, maxLongitude)
	}

	return GeoPoint{lat: lat, lon: lon, isConstructed: true}, nil
}

// Lat returns the latitude in decimal degrees.
func (p GeoPoint) Lat() float64 {
	return p.lat
}

// Lon returns the longitude in decimal degrees.
func (p GeoPoint) Lon() float64 {
	return p.lon
}

// IsEqual compares two points for exact coordinate equality.
func (p GeoPoint) IsEqual(other GeoPoint) bool {
	return p.lat == other.lat && p.lon == other.lon
}

// Validate returns ErrGeoPointIsNotConstructed for zero-value points.
func (p GeoPoint) Validate() error {
	if !p.isConstructed {
		return ErrGeoPointIsNotConstructed
	}
	return nil
}

// DistanceTo returns the great-circle distance to other in meters using the
// haversine formula. Used for nearest-first candidate ranking and for radius
// filtering of rider pools.
func (p GeoPoint) DistanceTo(other GeoPoint) (float64, error) {
	if err := p.Validate(); err != nil {
		return 0, err
	}
	if err := other.Validate(); err != nil {
		return 0, err
	}

	lat1 := p.lat * math.Pi / 180
	lat2 := other.lat * math.Pi / 180
	dLat := (other.lat - p.lat) * math.Pi / 180
	dLon := (other.lon - p.lon) * math.Pi / 180

	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1)*math.Cos(lat2)*math.Sin(dLon/2)*math.Sin(dLon/2)
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))

	return earthRadiusMeters * c, nil
}
