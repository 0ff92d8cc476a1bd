package geocoder

import "math"

// EarthRadiusMiles is the radius used to turn a linear distance into a central angle.
const EarthRadiusMiles = 3963.0

// MilesToRadians converts a surface distance to the central angle it spans.
func MilesToRadians(miles float64) float64 {
	return miles / EarthRadiusMiles
}

func toRad(deg float64) float64 { return deg * math.Pi / 180 }
func toDeg(rad float64) float64 { return rad * 180 / math.Pi }

// CentralAngle returns the angle in radians between two (lat, lng) points given in degrees,
// using the haversine formula.
func CentralAngle(lat1, lng1, lat2, lng2 float64) float64 {
	phi1, phi2 := toRad(lat1), toRad(lat2)
	dPhi := phi2 - phi1
	dLambda := toRad(lng2 - lng1)

	a := math.Sin(dPhi/2)*math.Sin(dPhi/2) +
		math.Cos(phi1)*math.Cos(phi2)*math.Sin(dLambda/2)*math.Sin(dLambda/2)
	if a > 1 {
		a = 1
	}
	return 2 * math.Asin(math.Sqrt(a))
}

// Point is a coordinate pair in degrees.
type Point struct {
	Lat float64
	Lng float64
}

// Circle is a spherical cap: every point within Radians of Center.
type Circle struct {
	Center  Point
	Radians float64
}

// Contains reports whether p lies inside the cap, boundary included.
func (c Circle) Contains(p Point) bool {
	// absorb float noise on points that sit exactly on the boundary
	const epsilon = 1e-12
	return CentralAngle(c.Center.Lat, c.Center.Lng, p.Lat, p.Lng) <= c.Radians+epsilon
}

// BoundingBox is a lat/lng rectangle that encloses a Circle. When CheckLng is
// false the longitude range is unbounded (the cap touches a pole or crosses
// the antimeridian) and only the latitude range narrows the search.
type BoundingBox struct {
	MinLat, MaxLat float64
	MinLng, MaxLng float64
	CheckLng       bool
}

// Bounds returns the smallest lat/lng rectangle that contains the cap.
func (c Circle) Bounds() BoundingBox {
	dLat := toDeg(c.Radians)
	box := BoundingBox{
		MinLat: c.Center.Lat - dLat,
		MaxLat: c.Center.Lat + dLat,
		MinLng: -180,
		MaxLng: 180,
	}
	if box.MinLat <= -90 || box.MaxLat >= 90 {
		box.MinLat = math.Max(box.MinLat, -90)
		box.MaxLat = math.Min(box.MaxLat, 90)
		return box
	}

	ratio := math.Sin(c.Radians) / math.Cos(toRad(c.Center.Lat))
	if ratio >= 1 {
		return box
	}
	dLng := toDeg(math.Asin(ratio))
	minLng, maxLng := c.Center.Lng-dLng, c.Center.Lng+dLng
	if minLng < -180 || maxLng > 180 {
		return box
	}

	box.MinLng, box.MaxLng = minLng, maxLng
	box.CheckLng = true
	return box
}
