// Package geofence evaluates whether a geographic point lies within a
// project's circular site boundary.
package geofence

import (
	"math"

	"fieldcrew/internal/db/models"
)

// Defaults applied when a project's geofence is partially configured.
const (
	DefaultRadiusM   = 100.0
	DefaultVarianceM = 10.0

	earthRadiusM = 6371000.0
)

type Point struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

type Geofence struct {
	Center           Point
	RadiusM          float64
	AllowedVarianceM float64
	StrictMode       bool
}

// Resolve builds a fully populated geofence from a project row.
// Precedence: explicit column value, then default. Defaults are
// center (0,0), radius 100 m, variance 10 m, strict mode on.
func Resolve(p *models.Project) Geofence {
	g := Geofence{
		RadiusM:          DefaultRadiusM,
		AllowedVarianceM: DefaultVarianceM,
		StrictMode:       true,
	}
	if p == nil {
		return g
	}
	if p.GeofenceLat != nil {
		g.Center.Lat = *p.GeofenceLat
	}
	if p.GeofenceLng != nil {
		g.Center.Lng = *p.GeofenceLng
	}
	if p.GeofenceRadiusM != nil && *p.GeofenceRadiusM > 0 {
		g.RadiusM = *p.GeofenceRadiusM
	}
	if p.GeofenceVarM != nil && *p.GeofenceVarM >= 0 {
		g.AllowedVarianceM = *p.GeofenceVarM
	}
	if p.GeofenceStrict != nil {
		g.StrictMode = *p.GeofenceStrict
	}
	return g
}

// Distance returns the great-circle distance between two points in
// meters, using the haversine formula on a spherical Earth.
func Distance(a, b Point) float64 {
	lat1 := a.Lat * math.Pi / 180
	lat2 := b.Lat * math.Pi / 180
	dLat := (b.Lat - a.Lat) * math.Pi / 180
	dLng := (b.Lng - a.Lng) * math.Pi / 180

	sinLat := math.Sin(dLat / 2)
	sinLng := math.Sin(dLng / 2)
	h := sinLat*sinLat + math.Cos(lat1)*math.Cos(lat2)*sinLng*sinLng

	// Floating-point overshoot can push h a hair outside [0,1], which
	// would make Sqrt/Asin produce NaN for antipodal-ish inputs.
	if h < 0 {
		h = 0
	}
	if h > 1 {
		h = 1
	}
	return 2 * earthRadiusM * math.Atan2(math.Sqrt(h), math.Sqrt(1-h))
}

// Contains reports whether p is inside the fence, allowing the
// configured variance on top of the radius.
func (g Geofence) Contains(p Point) bool {
	return Distance(p, g.Center) <= g.RadiusM+g.AllowedVarianceM
}
