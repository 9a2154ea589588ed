package pathsynth

import (
	"routebee/internal/modules/location"
	"routebee/internal/types"
)

// Street is a reference polyline used to make walk and drive paths look
// like they follow the grid.
type Street struct {
	Name   string
	Points []types.Point
}

// Streets indexes reference streets by borough.
type Streets map[location.Area][]Street

// For returns the streets of the given areas' boroughs, each borough once.
func (s Streets) For(areas []location.Area) []Street {
	seen := map[location.Area]bool{}
	var out []Street
	for _, a := range areas {
		b := a.Borough()
		if seen[b] {
			continue
		}
		seen[b] = true
		out = append(out, s[b]...)
	}
	return out
}

func pt(lat, lng float64) types.Point { return types.Point{Lat: lat, Lng: lng} }

func DefaultStreets() Streets {
	return Streets{
		location.Manhattan: {
			{Name: "Broadway", Points: []types.Point{
				pt(40.7047, -74.0134), pt(40.7205, -74.0050), pt(40.7359, -73.9911), pt(40.7505, -73.9878),
				pt(40.7580, -73.9855), pt(40.7687, -73.9818), pt(40.7870, -73.9775), pt(40.8050, -73.9660),
			}},
			{Name: "5th Ave", Points: []types.Point{
				pt(40.7315, -73.9967), pt(40.7484, -73.9857), pt(40.7644, -73.9740), pt(40.7829, -73.9595), pt(40.8000, -73.9470),
			}},
			{Name: "42nd St", Points: []types.Point{
				pt(40.7600, -74.0000), pt(40.7570, -73.9900), pt(40.7527, -73.9772), pt(40.7484, -73.9680),
			}},
		},
		location.Queens: {
			{Name: "Northern Blvd", Points: []types.Point{
				pt(40.7520, -73.9400), pt(40.7560, -73.9100), pt(40.7570, -73.8800), pt(40.7610, -73.8500),
				pt(40.7640, -73.8300), pt(40.7630, -73.8000), pt(40.7612, -73.7716),
			}},
			{Name: "Queens Blvd", Points: []types.Point{
				pt(40.7440, -73.9490), pt(40.7420, -73.9180), pt(40.7370, -73.8780), pt(40.7200, -73.8450), pt(40.7100, -73.8200),
			}},
			{Name: "Main St", Points: []types.Point{
				pt(40.7700, -73.8290), pt(40.7590, -73.8300), pt(40.7466, -73.8250), pt(40.7300, -73.8200),
			}},
		},
		location.Brooklyn: {
			{Name: "Flatbush Ave", Points: []types.Point{
				pt(40.6930, -73.9840), pt(40.6800, -73.9760), pt(40.6720, -73.9700), pt(40.6550, -73.9590), pt(40.6350, -73.9510),
			}},
			{Name: "Atlantic Ave", Points: []types.Point{
				pt(40.6900, -73.9980), pt(40.6850, -73.9780), pt(40.6790, -73.9500), pt(40.6760, -73.9100),
			}},
		},
		location.Bronx: {
			{Name: "Grand Concourse", Points: []types.Point{
				pt(40.8180, -73.9280), pt(40.8296, -73.9230), pt(40.8450, -73.9100), pt(40.8620, -73.8990),
			}},
			{Name: "Fordham Rd", Points: []types.Point{
				pt(40.8610, -73.9150), pt(40.8620, -73.8990), pt(40.8600, -73.8880), pt(40.8570, -73.8600),
			}},
		},
		location.StatenIsland: {
			{Name: "Hylan Blvd", Points: []types.Point{
				pt(40.6150, -74.0700), pt(40.5900, -74.0900), pt(40.5600, -74.1200), pt(40.5300, -74.1700),
			}},
			{Name: "Richmond Ave", Points: []types.Point{
				pt(40.6300, -74.1500), pt(40.6000, -74.1600), pt(40.5795, -74.1650), pt(40.5500, -74.1700),
			}},
		},
	}
}
