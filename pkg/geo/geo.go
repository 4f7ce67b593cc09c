// Package geo provides the spherical and planar geometry primitives used
// by the wayfinding engine.
//
// Distances between graph nodes use the haversine great-circle formula,
// which is accurate at facility scale and cheap enough to evaluate inside
// the search loop. Bearings are forward azimuths, returned as compass
// headings in [0, 360). Snapping uses a planar (equirectangular) metric:
// at sub-kilometer scale the error is negligible, but the projection
// functions must not be assumed globally accurate.
package geo

import "math"

// EarthRadius is the mean Earth radius in meters used for all
// great-circle calculations.
const EarthRadius = 6371000.0

// Coordinate is a geographic position in degrees.
// Longitude comes first to match the [lon, lat] wire ordering of the
// map feature format.
type Coordinate struct {
	Lon float64 `json:"lon" bson:"lon"`
	Lat float64 `json:"lat" bson:"lat"`
}

// Haversine returns the great-circle distance between a and b in meters.
func Haversine(a, b Coordinate) float64 {
	lat1 := radians(a.Lat)
	lat2 := radians(b.Lat)
	dLat := radians(b.Lat - a.Lat)
	dLon := radians(b.Lon - a.Lon)

	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1)*math.Cos(lat2)*math.Sin(dLon/2)*math.Sin(dLon/2)
	return 2 * EarthRadius * math.Atan2(math.Sqrt(h), math.Sqrt(1-h))
}

// Bearing returns the initial forward azimuth from a to b as a compass
// heading in degrees in the range [0, 360).
func Bearing(a, b Coordinate) float64 {
	lat1 := radians(a.Lat)
	lat2 := radians(b.Lat)
	dLon := radians(b.Lon - a.Lon)

	y := math.Sin(dLon) * math.Cos(lat2)
	x := math.Cos(lat1)*math.Sin(lat2) - math.Sin(lat1)*math.Cos(lat2)*math.Cos(dLon)
	return math.Mod(degrees(math.Atan2(y, x))+360, 360)
}

// TurnAngle returns the signed change of direction when travelling with
// incoming bearing `in` and leaving with outgoing bearing `out`, both in
// compass degrees. The result is normalized to (-180, 180]: positive
// values turn right, negative values turn left.
func TurnAngle(in, out float64) float64 {
	d := math.Mod(out-in, 360)
	if d > 180 {
		d -= 360
	}
	if d <= -180 {
		d += 360
	}
	return d
}

// ProjectOntoSegment returns the point on segment s→e closest to q using
// a planar metric, along with the planar distance from q to that point.
// The projection parameter is clamped to [0, 1], so the result always
// lies on the segment. Degenerate segments (s == e) project onto s.
func ProjectOntoSegment(q, s, e Coordinate) (Coordinate, float64) {
	dx := e.Lon - s.Lon
	dy := e.Lat - s.Lat

	lenSq := dx*dx + dy*dy
	t := 0.0
	if lenSq > 0 {
		t = ((q.Lon-s.Lon)*dx + (q.Lat-s.Lat)*dy) / lenSq
		t = math.Max(0, math.Min(1, t))
	}

	p := Coordinate{Lon: s.Lon + t*dx, Lat: s.Lat + t*dy}
	return p, PlanarDistance(q, p)
}

// PlanarDistance returns the Euclidean distance between a and b in
// coordinate degrees, treating longitude and latitude as a flat plane.
// Only meaningful for comparing nearby candidates, never as a real
// distance.
func PlanarDistance(a, b Coordinate) float64 {
	dx := a.Lon - b.Lon
	dy := a.Lat - b.Lat
	return math.Sqrt(dx*dx + dy*dy)
}

func radians(deg float64) float64 { return deg * math.Pi / 180 }

func degrees(rad float64) float64 { return rad * 180 / math.Pi }
