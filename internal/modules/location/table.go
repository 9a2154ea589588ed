package location

import "routebee/internal/types"

func pt(lat, lng float64) types.Point { return types.Point{Lat: lat, Lng: lng} }

// curated is the lookup table for exact and substring matching.
var curated = []entry{
	{"Manhattan", pt(40.7831, -73.9712), Manhattan, kindBorough},
	{"Brooklyn", pt(40.6782, -73.9442), Brooklyn, kindBorough},
	{"Queens", pt(40.7282, -73.7949), Queens, kindBorough},
	{"Bronx", pt(40.8448, -73.8648), Bronx, kindBorough},
	{"Staten Island", pt(40.5795, -74.1502), StatenIsland, kindBorough},

	{"Times Square", pt(40.7580, -73.9855), TimesSquare, kindLandmark},
	{"Central Park", pt(40.7829, -73.9654), CentralPark, kindLandmark},
	{"Prospect Park", pt(40.6602, -73.9690), ProspectPark, kindLandmark},
	{"Flushing Meadows", pt(40.7466, -73.8422), Flushing, kindLandmark},
	{"Flushing", pt(40.7654, -73.8318), Flushing, kindLandmark},
	{"Bayside", pt(40.7612, -73.7716), Bayside, kindLandmark},
	{"Main St", pt(40.7590, -73.8300), MainSt, kindLandmark},
	{"Yankee Stadium", pt(40.8296, -73.9262), YankeeStadium, kindLandmark},
	{"Coney Island", pt(40.5755, -73.9707), Brooklyn, kindLandmark},
	{"JFK Airport", pt(40.6413, -73.7781), JFKAirport, kindLandmark},
	{"JFK", pt(40.6413, -73.7781), JFKAirport, kindLandmark},
	{"LaGuardia Airport", pt(40.7769, -73.8740), LaGuardia, kindLandmark},
	{"LaGuardia", pt(40.7769, -73.8740), LaGuardia, kindLandmark},
	{"LGA", pt(40.7769, -73.8740), LaGuardia, kindLandmark},
	{"World Trade Center", pt(40.7127, -74.0134), Manhattan, kindLandmark},
	{"Empire State Building", pt(40.7484, -73.9857), Manhattan, kindLandmark},
	{"Barclays Center", pt(40.6826, -73.9754), Brooklyn, kindLandmark},
	{"Columbia University", pt(40.8075, -73.9626), Manhattan, kindLandmark},
	{"NYU", pt(40.7295, -73.9965), Manhattan, kindLandmark},

	{"NYU Langone Medical Center", pt(40.7421, -73.9739), Manhattan, kindHospital},
	{"Mount Sinai Hospital", pt(40.7900, -73.9526), Manhattan, kindHospital},
	{"NewYork-Presbyterian Hospital", pt(40.7644, -73.9554), Manhattan, kindHospital},
	{"Bellevue Hospital Center", pt(40.7392, -73.9766), Manhattan, kindHospital},
	{"Kings County Hospital", pt(40.6553, -73.9449), Brooklyn, kindHospital},
	{"Maimonides Medical Center", pt(40.6364, -73.9986), Brooklyn, kindHospital},
	{"Elmhurst Hospital", pt(40.7444, -73.8803), Queens, kindHospital},
	{"Queens Hospital Center", pt(40.7106, -73.8250), Queens, kindHospital},
	{"Lincoln Hospital", pt(40.8161, -73.9262), Bronx, kindHospital},
	{"Montefiore Medical Center", pt(40.8810, -73.8781), Bronx, kindHospital},
	{"Staten Island University Hospital", pt(40.5847, -74.0875), StatenIsland, kindHospital},
}

// neighborhoods maps lower-case neighborhood tokens to a borough.
var neighborhoods = []struct {
	token   string
	borough Area
}{
	{"jamaica", Queens},
	{"astoria", Queens},
	{"long island city", Queens},
	{"jackson heights", Queens},
	{"forest hills", Queens},
	{"elmhurst", Queens},
	{"williamsburg", Brooklyn},
	{"park slope", Brooklyn},
	{"bushwick", Brooklyn},
	{"dumbo", Brooklyn},
	{"bay ridge", Brooklyn},
	{"bed-stuy", Brooklyn},
	{"fordham", Bronx},
	{"riverdale", Bronx},
	{"mott haven", Bronx},
	{"st. george", StatenIsland},
	{"tottenville", StatenIsland},
	{"harlem", Manhattan},
	{"chelsea", Manhattan},
	{"soho", Manhattan},
	{"tribeca", Manhattan},
	{"midtown", Manhattan},
	{"upper east side", Manhattan},
	{"upper west side", Manhattan},
}

// boroughKeywords are the address suffixes recognised by the numeric-address
// step when no table entry or neighborhood matched.
var boroughKeywords = []struct {
	token   string
	borough Area
}{
	{"staten", StatenIsland},
	{"bklyn", Brooklyn},
	{"bx", Bronx},
	{"new york, ny", Manhattan},
	{"nyc", Manhattan},
}

type box struct{ minLat, maxLat, minLng, maxLng float64 }

var (
	coreBox  = box{40.70, 40.80, -74.02, -73.93}
	metroBox = box{40.50, 40.91, -74.25, -73.70}
)

const (
	addressJitterDeg = 0.01
	coreWeight       = 0.8
)
