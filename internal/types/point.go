// README: Geographic point and identifier types shared across modules.
package types

type ID string

// Point is a WGS84 coordinate in decimal degrees.
type Point struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// LatLng returns the point as a [lat, lng] pair, the order map clients expect.
func (p Point) LatLng() [2]float64 {
	return [2]float64{p.Lat, p.Lng}
}
