package pathsynth

import "routebee/internal/modules/itinerary"

// Style is how a client draws one segment.
type Style struct {
	Color string `json:"color"`
	Dash  string `json:"dash,omitempty"`
	Width int    `json:"width"`
}

var defaultStyle = Style{Color: "#ef4444", Width: 3}

var modeStyles = map[itinerary.Mode]Style{
	itinerary.ModeWalk:      {Color: "#6b7280", Dash: "4,4", Width: 3},
	itinerary.ModeSubway:    {Color: "#3b82f6", Width: 5},
	itinerary.ModeBus:       {Color: "#22c55e", Width: 4},
	itinerary.ModeBike:      {Color: "#8b5cf6", Width: 3},
	itinerary.ModeEBike:     {Color: "#8b5cf6", Width: 3},
	itinerary.ModeTaxi:      {Color: "#f59e0b", Width: 4},
	itinerary.ModeRideshare: {Color: "#f59e0b", Width: 4},
	itinerary.ModeShared:    {Color: "#f59e0b", Width: 4},
	itinerary.ModeFerry:     {Color: "#0ea5e9", Dash: "8,6", Width: 4},
}

// subwayLineColors are the MTA trunk-line colors.
func subwayLineColors() map[string]string {
	colors := map[string]string{}
	set := func(c string, lines ...string) {
		for _, l := range lines {
			colors[l] = c
		}
	}
	set("#ee352e", "1", "2", "3")
	set("#00933c", "4", "5", "6")
	set("#b933ad", "7")
	set("#0039a6", "A", "C", "E")
	set("#ff6319", "B", "D", "F", "M")
	set("#6cbe45", "G")
	set("#996633", "J", "Z")
	set("#a7a9ac", "L")
	set("#fccc0a", "N", "Q", "R", "W")
	set("#808183", "S")
	set("#1d2f6f", "SIR")
	return colors
}
