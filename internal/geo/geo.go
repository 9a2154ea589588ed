// Package geo contains pure geographic computation helpers shared by the
// resolver, the candidate generator and the path synthesizer.
package geo

import (
	"math"

	"routebee/internal/types"
)

const (
	earthRadiusKm    = 6371.0
	earthRadiusMiles = 3958.8
	KmPerMile        = 1.609344
)

// HaversineKm returns the great-circle distance in kilometres between two
// points specified in decimal degrees.
func HaversineKm(a, b types.Point) float64 {
	return earthRadiusKm * centralAngle(a, b)
}

// HaversineMiles is HaversineKm in statute miles. Trip distances are reported
// in miles.
func HaversineMiles(a, b types.Point) float64 {
	return earthRadiusMiles * centralAngle(a, b)
}

func centralAngle(p1, p2 types.Point) float64 {
	dLat := degreesToRadians(p2.Lat - p1.Lat)
	dLng := degreesToRadians(p2.Lng - p1.Lng)

	rLat1 := degreesToRadians(p1.Lat)
	rLat2 := degreesToRadians(p2.Lat)

	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(rLat1)*math.Cos(rLat2)*math.Sin(dLng/2)*math.Sin(dLng/2)
	return 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))
}

func degreesToRadians(deg float64) float64 {
	return deg * math.Pi / 180.0
}

// PathLengthKm sums the haversine length of consecutive points.
func PathLengthKm(points []types.Point) float64 {
	var total float64
	for i := 1; i < len(points); i++ {
		total += HaversineKm(points[i-1], points[i])
	}
	return total
}

// Lerp linearly interpolates between a and b; t=0 is a, t=1 is b.
func Lerp(a, b types.Point, t float64) types.Point {
	return types.Point{
		Lat: a.Lat + (b.Lat-a.Lat)*t,
		Lng: a.Lng + (b.Lng-a.Lng)*t,
	}
}

// NearestIndex finds the index of the shape vertex closest to p. It returns
// -1 for an empty shape.
func NearestIndex(shape []types.Point, p types.Point) int {
	minDist := math.MaxFloat64
	minIdx := -1
	for i, v := range shape {
		if d := HaversineKm(v, p); d < minDist {
			minDist = d
			minIdx = i
		}
	}
	return minIdx
}

// ProjectOnSegment returns the point on segment ab closest to p, and the
// distance from p to it in kilometres. Longitudes are scaled by cos(lat) so
// the projection is computed in a locally isotropic frame.
func ProjectOnSegment(p, a, b types.Point) (types.Point, float64) {
	scale := math.Cos(degreesToRadians((a.Lat + b.Lat) / 2))
	abx, aby := (b.Lng-a.Lng)*scale, b.Lat-a.Lat
	apx, apy := (p.Lng-a.Lng)*scale, p.Lat-a.Lat

	len2 := abx*abx + aby*aby
	if len2 < 1e-18 {
		return a, HaversineKm(p, a)
	}
	t := (apx*abx + apy*aby) / len2
	t = math.Max(0, math.Min(1, t))
	proj := Lerp(a, b, t)
	return proj, HaversineKm(p, proj)
}

// OffsetControl returns the midpoint of ab pushed perpendicular to ab by
// factor times the length of ab (in degree space). A negative factor bends
// the other way.
func OffsetControl(a, b types.Point, factor float64) types.Point {
	mid := Lerp(a, b, 0.5)
	dx, dy := b.Lng-a.Lng, b.Lat-a.Lat
	return types.Point{
		Lat: mid.Lat + dx*factor,
		Lng: mid.Lng - dy*factor,
	}
}

// QuadraticBezier samples n points (n >= 2) on the curve a -> ctrl -> b.
// The first and last samples are exactly a and b.
func QuadraticBezier(a, ctrl, b types.Point, n int) []types.Point {
	if n < 2 {
		n = 2
	}
	out := make([]types.Point, n)
	for i := 0; i < n; i++ {
		t := float64(i) / float64(n-1)
		u := 1 - t
		out[i] = types.Point{
			Lat: u*u*a.Lat + 2*u*t*ctrl.Lat + t*t*b.Lat,
			Lng: u*u*a.Lng + 2*u*t*ctrl.Lng + t*t*b.Lng,
		}
	}
	out[0], out[n-1] = a, b
	return out
}

// CatmullRom smooths a polyline with a uniform Catmull-Rom spline, emitting
// samples points per span. Input vertices are kept, so the endpoints are
// unchanged.
func CatmullRom(points []types.Point, samples int) []types.Point {
	if len(points) < 3 || samples < 1 {
		return append([]types.Point(nil), points...)
	}
	out := make([]types.Point, 0, (len(points)-1)*samples+1)
	for i := 0; i < len(points)-1; i++ {
		p0 := points[max(i-1, 0)]
		p1 := points[i]
		p2 := points[i+1]
		p3 := points[min(i+2, len(points)-1)]
		for s := 0; s < samples; s++ {
			t := float64(s) / float64(samples)
			out = append(out, catmullRomPoint(p0, p1, p2, p3, t))
		}
	}
	out = append(out, points[len(points)-1])
	out[0] = points[0]
	return out
}

func catmullRomPoint(p0, p1, p2, p3 types.Point, t float64) types.Point {
	t2 := t * t
	t3 := t2 * t
	f := func(v0, v1, v2, v3 float64) float64 {
		return 0.5 * ((2 * v1) +
			(-v0+v2)*t +
			(2*v0-5*v1+4*v2-v3)*t2 +
			(-v0+3*v1-3*v2+v3)*t3)
	}
	return types.Point{
		Lat: f(p0.Lat, p1.Lat, p2.Lat, p3.Lat),
		Lng: f(p0.Lng, p1.Lng, p2.Lng, p3.Lng),
	}
}

// SortByDistance performs an insertion sort (fine for small N) on any slice
// where each element exposes a distance via the accessor function. Equal
// distances keep their input order.
func SortByDistance[T any](items []T, dist func(T) float64) {
	for i := 1; i < len(items); i++ {
		key := items[i]
		j := i - 1
		for j >= 0 && dist(items[j]) > dist(key) {
			items[j+1] = items[j]
			j--
		}
		items[j+1] = key
	}
}
