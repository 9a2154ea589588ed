// README: Route candidate generator; enumerates one itinerary skeleton per transportation strategy.
package itinerary

import (
	"fmt"
	"math"
	"slices"
	"strings"

	"github.com/google/uuid"

	"routebee/internal/geo"
	"routebee/internal/modules/location"
	"routebee/internal/modules/pricing"
	"routebee/internal/modules/transit"
	"routebee/internal/types"
)

const (
	BikeMaxMiles        = 10.0
	ClassicBikeMaxMiles = 3.0
	LongTripMiles       = 8.0
	MinCandidates       = 3

	stationSnapKm       = 1.5
	minConnectorMinutes = 3.0
	terminalWalkMiles   = 0.75
	lastMileShare       = 0.85
	maxAccessShare      = 0.3
)

var candidateNamespace = uuid.MustParse("6f1c2f4e-9a57-4d0e-8f8e-3c1b5a2d7e90")

// Trip is everything the generator needs for one request.
type Trip struct {
	Origin      location.Location
	Destination location.Location
	Miles       float64
	Context     transit.Context
	Preference  Preference
}

type Result struct {
	Candidates       []Candidate
	SubwayAvailable  bool
	TransferRequired bool
}

type Generator struct {
	pricing *pricing.Service
}

func NewGenerator(p *pricing.Service) *Generator {
	return &Generator{pricing: p}
}

// Generate returns unscored candidates, topped up by the backstop and the
// accessible candidate when the preference needs one.
func (g *Generator) Generate(trip Trip) (Result, error) {
	b := newBuilder(g, trip)
	for _, step := range []func(){b.walk, b.subway, b.bus, b.cars, b.cycles, b.mixed} {
		step()
		if b.err != nil {
			return Result{}, b.err
		}
	}

	cands, err := g.Backstop(trip, b.out)
	if err != nil {
		return Result{}, err
	}
	cands, err = g.EnsureAccessible(trip, cands)
	if err != nil {
		return Result{}, err
	}
	for i := range cands {
		cands[i].ID = candidateID(trip, cands[i])
	}
	return Result{
		Candidates:       cands,
		SubwayAvailable:  b.subwayAvailable,
		TransferRequired: b.transferRequired,
	}, nil
}

// Backstop adds economy and premium options until at least MinCandidates
// exist.
func (g *Generator) Backstop(trip Trip, cands []Candidate) ([]Candidate, error) {
	have := map[Kind]bool{}
	for _, c := range cands {
		have[c.Kind] = true
	}
	b := newBuilder(g, trip)
	for _, k := range []Kind{KindEconomy, KindPremium, KindWalk} {
		if len(cands)+len(b.out) >= MinCandidates {
			break
		}
		if have[k] {
			continue
		}
		switch k {
		case KindEconomy:
			b.economy()
		case KindPremium:
			b.premium()
		case KindWalk:
			b.walk()
		}
		if b.err != nil {
			return nil, b.err
		}
	}
	for i := range b.out {
		b.out[i].ID = candidateID(trip, b.out[i])
	}
	return append(cands, b.out...), nil
}

// EnsureAccessible appends one accessible candidate when the rider needs
// wheelchair access and nothing generated is fully accessible.
func (g *Generator) EnsureAccessible(trip Trip, cands []Candidate) ([]Candidate, error) {
	if !trip.Preference.Wheelchair {
		return cands, nil
	}
	for _, c := range cands {
		if c.Accessible() {
			return cands, nil
		}
	}
	c, err := g.AccessibleCandidate(trip)
	if err != nil {
		return nil, err
	}
	return append(cands, c), nil
}

// AccessibleCandidate is a short accessible walk to a wheelchair-accessible
// rideshare pickup.
func (g *Generator) AccessibleCandidate(trip Trip) (Candidate, error) {
	b := newBuilder(g, trip)
	b.accessible()
	if b.err != nil {
		return Candidate{}, b.err
	}
	c := b.out[0]
	c.ID = candidateID(trip, c)
	return c, nil
}

func candidateID(trip Trip, c Candidate) string {
	key := strings.Join([]string{trip.Origin.Name, trip.Destination.Name, string(c.Kind), c.Signature()}, "|")
	return uuid.NewSHA1(candidateNamespace, []byte(key)).String()
}

// builder accumulates candidates for one trip; the first error sticks.
type builder struct {
	g       *Generator
	trip    Trip
	tc      transit.Context
	catalog *transit.Catalog
	origin  Stop
	dest    Stop

	out              []Candidate
	err              error
	subwayAvailable  bool
	transferRequired bool
}

func newBuilder(g *Generator, trip Trip) *builder {
	cat := trip.Context.Catalog()
	if cat == nil {
		cat = transit.DefaultCatalog()
	}
	return &builder{
		g:       g,
		trip:    trip,
		tc:      trip.Context,
		catalog: cat,
		origin:  Stop{Name: trip.Origin.Name, Point: trip.Origin.Point},
		dest:    Stop{Name: trip.Destination.Name, Point: trip.Destination.Point},
	}
}

func (b *builder) add(c Candidate, err error) {
	if b.err != nil {
		return
	}
	if err != nil {
		b.err = err
		return
	}
	b.out = append(b.out, c)
}

func (b *builder) quote(p pricing.Product, miles float64) pricing.Quote {
	q, err := b.g.pricing.Estimate(p, miles)
	if err != nil && b.err == nil {
		b.err = fmt.Errorf("price %s: %w", p, err)
	}
	return q
}

func miles(a, c Stop) float64 {
	return geo.HaversineMiles(a.Point, c.Point)
}

// walkMinutes prices a connector walk, never below minConnectorMinutes.
func (b *builder) walkMinutes(a, c Stop) float64 {
	return math.Max(minConnectorMinutes, b.quote(pricing.ProductWalk, miles(a, c)).Minutes)
}

// along returns the point at fraction t of the straight origin-destination line.
func (b *builder) along(t float64) types.Point {
	return geo.Lerp(b.origin.Point, b.dest.Point, t)
}

// access is a point d miles from the origin towards the destination, capped
// at maxAccessShare of the trip. egress mirrors it from the destination.
func (b *builder) access(d float64) types.Point {
	return b.along(b.share(d))
}

func (b *builder) egress(d float64) types.Point {
	return b.along(1 - b.share(d))
}

func (b *builder) share(d float64) float64 {
	if b.trip.Miles <= 0 {
		return 0
	}
	return math.Min(d/b.trip.Miles, maxAccessShare)
}

// station snaps near onto the line's reference shape when a vertex lies
// within stationSnapKm, otherwise returns fallback.
func (b *builder) station(line string, near, fallback types.Point) types.Point {
	shape, ok := b.catalog.Shape(line)
	if !ok {
		return fallback
	}
	i := geo.NearestIndex(shape, near)
	if i < 0 || geo.HaversineKm(shape[i], near) > stationSnapKm {
		return fallback
	}
	return shape[i]
}

func (b *builder) walk() {
	q := b.quote(pricing.ProductWalk, b.trip.Miles)
	comfort := ComfortLow
	switch {
	case b.trip.Miles < 1:
		comfort = ComfortHigh
	case b.trip.Miles < 2.5:
		comfort = ComfortMedium
	}
	b.add(startAt(b.origin).walk(b.dest, q.Minutes).done(KindWalk, "Walking", comfort))
}

func subwayLabel(line string) string {
	if line == "SIR" {
		return "Staten Island Railway"
	}
	return line + " Train"
}

// operating keeps lines whose status lets trains run.
func (b *builder) operating(lines []string) []string {
	var out []string
	for _, l := range lines {
		if b.tc.Status(l).Operating() {
			out = append(out, l)
		}
	}
	return out
}

// best orders lines normal-first, then by delay, keeping catalog order on ties.
func (b *builder) best(lines []string) (string, bool) {
	if len(lines) == 0 {
		return "", false
	}
	ranked := slices.Clone(lines)
	slices.SortStableFunc(ranked, func(x, y string) int {
		sx, sy := b.tc.Status(x), b.tc.Status(y)
		if (sx.Status == transit.StatusNormal) != (sy.Status == transit.StatusNormal) {
			if sx.Status == transit.StatusNormal {
				return -1
			}
			return 1
		}
		return sx.DelayMin - sy.DelayMin
	})
	return ranked[0], true
}

func (b *builder) commonLine(oLines, dLines []string) (string, bool) {
	var common []string
	for _, l := range oLines {
		if slices.Contains(dLines, l) {
			common = append(common, l)
		}
	}
	return b.best(common)
}

func crowdComfort(c transit.Crowd) Comfort {
	if c == transit.CrowdHigh {
		return ComfortLow
	}
	return ComfortMedium
}

func (b *builder) subwayStop(line string, near Stop, fallback types.Point) Stop {
	return Stop{
		Name:  fmt.Sprintf("%s station near %s", subwayLabel(line), near.Name),
		Point: b.station(line, near.Point, fallback),
	}
}

// subwayLeg appends a ride on line, adding any reported delay.
func (c *chain) subwayLeg(b *builder, line string, to Stop, product pricing.Product, label string) *chain {
	st := b.tc.Status(line)
	q := b.quote(product, miles(c.at, to))
	info := TransitInfo{Line: line, Label: label, Status: st.Status, DelayMin: st.DelayMin}
	return c.transit(ModeSubway, to, q.Minutes+float64(st.DelayMin), q.Fare, info, b.catalog.Accessible(line), st.Crowd)
}

func (b *builder) subway() {
	oLines := b.operating(b.tc.Origin.SubwayLines)
	dLines := b.operating(b.tc.Destination.SubwayLines)
	if len(oLines) == 0 || len(dLines) == 0 {
		return
	}

	if line, ok := b.commonLine(oLines, dLines); ok {
		b.subwayAvailable = true
		from := b.subwayStop(line, b.origin, b.access(0.25))
		to := b.subwayStop(line, b.dest, b.egress(0.25))
		comfort := crowdComfort(b.tc.Status(line).Crowd)
		if b.trip.Miles > 12 {
			comfort = ComfortLow
		}
		c := startAt(b.origin)
		c.walk(from, b.walkMinutes(b.origin, from)).
			subwayLeg(b, line, to, pricing.ProductSubway, subwayLabel(line)).
			walk(b.dest, b.walkMinutes(to, b.dest))
		b.add(c.done(KindSubway, subwayLabel(line), comfort))
		return
	}

	lineA, _ := b.best(oLines)
	lineB, _ := b.best(dLines)
	b.transferRequired = true
	from := b.subwayStop(lineA, b.origin, b.access(0.25))
	to := b.subwayStop(lineB, b.dest, b.egress(0.25))
	xfer := Stop{
		Name:  fmt.Sprintf("Transfer %s to %s", subwayLabel(lineA), subwayLabel(lineB)),
		Point: geo.Lerp(from.Point, to.Point, 0.5),
	}
	c := startAt(b.origin)
	c.walk(from, b.walkMinutes(b.origin, from)).
		subwayLeg(b, lineA, xfer, pricing.ProductSubwayTransferLeg, subwayLabel(lineA)).
		subwayLeg(b, lineB, to, pricing.ProductSubwayFreeTransfer, subwayLabel(lineB)+" (free transfer)").
		walk(b.dest, b.walkMinutes(to, b.dest))
	b.add(c.done(KindSubwayTransfer, subwayLabel(lineA)+" + "+subwayLabel(lineB), ComfortLow))
}

var busPrefix = map[location.Area]string{
	location.Manhattan:    "M",
	location.Brooklyn:     "B",
	location.Queens:       "Q",
	location.Bronx:        "BX",
	location.StatenIsland: "S",
}

// originRoute prefers a route serving both ends, then the origin's first
// route, then the borough's first catalog route or a synthetic id.
func (b *builder) originRoute() string {
	for _, r := range b.tc.Origin.BusRoutes {
		if slices.Contains(b.tc.Destination.BusRoutes, r) {
			return r
		}
	}
	if len(b.tc.Origin.BusRoutes) > 0 {
		return b.tc.Origin.BusRoutes[0]
	}
	return b.fallbackRoute(b.trip.Origin.Area)
}

func (b *builder) fallbackRoute(a location.Area) string {
	if routes := b.catalog.BusRoutes(a.Borough()); len(routes) > 0 {
		return routes[0]
	}
	if p, ok := busPrefix[a.Borough()]; ok {
		return p + "1"
	}
	return "Local"
}

func (b *builder) busStop(route string, near Stop, fallback types.Point) Stop {
	return Stop{
		Name:  fmt.Sprintf("%s stop near %s", route, near.Name),
		Point: b.station(route, near.Point, fallback),
	}
}

func (c *chain) busLeg(b *builder, route string, to Stop, product pricing.Product, express bool) *chain {
	q := b.quote(product, miles(c.at, to))
	label := route + " Bus"
	crowd := transit.CrowdMedium
	if express {
		label = route + " Express Bus"
		crowd = transit.CrowdLow
	}
	info := TransitInfo{Line: route, Label: label, Express: express, Status: transit.StatusNormal}
	return c.transit(ModeBus, to, q.Minutes, q.Fare, info, true, crowd)
}

func (b *builder) bus() {
	if !b.tc.CrossBorough() {
		b.localBus()
		return
	}
	preferred := false
	oArea, dArea := b.trip.Origin.Area, b.trip.Destination.Area
	if routes := b.catalog.ExpressBuses(oArea, dArea); len(routes) > 0 {
		b.expressBus(routes[0])
		preferred = true
	}
	if f, ok := b.catalog.Ferry(oArea, dArea); ok {
		b.ferry(f)
		preferred = true
	}
	switch {
	case preferred:
	case b.subwayAvailable:
		b.localBus()
	default:
		b.busToSubway()
	}
}

func (b *builder) localBus() {
	route := b.originRoute()
	from := b.busStop(route, b.origin, b.access(0.15))
	to := b.busStop(route, b.dest, b.egress(0.15))
	comfort := ComfortMedium
	if b.trip.Miles >= 5 {
		comfort = ComfortLow
	}
	c := startAt(b.origin)
	c.walk(from, b.walkMinutes(b.origin, from)).
		busLeg(b, route, to, pricing.ProductBus, false).
		walk(b.dest, b.walkMinutes(to, b.dest))
	b.add(c.done(KindBus, route+" Bus", comfort))
}

func (b *builder) expressBus(route string) {
	from := b.busStop(route, b.origin, b.access(0.3))
	to := b.busStop(route, b.dest, b.egress(0.3))
	c := startAt(b.origin)
	c.walk(from, b.walkMinutes(b.origin, from)).
		busLeg(b, route, to, pricing.ProductExpressBus, true).
		walk(b.dest, b.walkMinutes(to, b.dest))
	b.add(c.done(KindExpressBus, route+" Express Bus", ComfortMedium))
}

func (b *builder) ferry(f transit.FerryRoute) {
	tO, okO := f.Terminals[b.trip.Origin.Area.Borough()]
	tD, okD := f.Terminals[b.trip.Destination.Area.Borough()]
	if !okO || !okD {
		return
	}
	board := Stop{Name: tO.Name, Point: tO.Point}
	land := Stop{Name: tD.Name, Point: tD.Point}
	comfort := ComfortHigh

	c := startAt(b.origin)
	if miles(b.origin, board) <= terminalWalkMiles {
		c.walk(board, b.walkMinutes(b.origin, board))
	} else {
		c.busLeg(b, b.originRoute(), board, pricing.ProductBus, false)
		comfort = ComfortMedium
	}

	q := b.quote(pricing.ProductFerry, miles(board, land))
	info := TransitInfo{Line: f.ID, Label: f.Name, Status: transit.StatusNormal}
	c.transit(ModeFerry, land, q.Minutes, types.USD(f.Fare), info, true, transit.CrowdLow)

	if miles(land, b.dest) <= terminalWalkMiles {
		c.walk(b.dest, b.walkMinutes(land, b.dest))
	} else {
		route := b.fallbackRoute(b.trip.Destination.Area)
		if len(b.tc.Destination.BusRoutes) > 0 {
			route = b.tc.Destination.BusRoutes[0]
		}
		c.busLeg(b, route, b.dest, pricing.ProductBus, false)
		comfort = ComfortMedium
	}
	b.add(c.done(KindFerry, f.Name, comfort))
}

// busToSubway covers cross-borough trips with no express, ferry or shared
// subway line: a local bus to a subway line that reaches the destination.
func (b *builder) busToSubway() {
	lines := b.operating(b.tc.Destination.SubwayLines)
	if len(lines) == 0 {
		lines = b.operating(b.tc.Origin.SubwayLines)
	}
	line, ok := b.best(lines)
	if !ok {
		b.localBus()
		return
	}
	route := b.originRoute()
	stop := b.busStop(route, b.origin, b.access(0.15))
	xfer := Stop{
		Name:  fmt.Sprintf("%s station (transfer from %s)", subwayLabel(line), route),
		Point: b.station(line, b.along(0.4), b.along(0.4)),
	}
	to := b.subwayStop(line, b.dest, b.egress(0.25))
	c := startAt(b.origin)
	c.walk(stop, b.walkMinutes(b.origin, stop)).
		busLeg(b, route, xfer, pricing.ProductBus, false).
		subwayLeg(b, line, to, pricing.ProductSubwayFreeTransfer, subwayLabel(line)).
		walk(b.dest, b.walkMinutes(to, b.dest))
	b.add(c.done(KindBusSubway, route+" Bus + "+subwayLabel(line), ComfortLow))
}

func (b *builder) pickup(walkMin float64) Stop {
	return Stop{
		Name:  "Pickup near " + b.origin.Name,
		Point: b.access(walkMin / 20),
	}
}

func (b *builder) cars() {
	pick := b.pickup(3)
	q := b.quote(pricing.ProductRideshare, miles(pick, b.dest))
	b.add(startAt(b.origin).
		walk(pick, minConnectorMinutes).
		ride(ModeRideshare, b.dest, q.Minutes, q.Fare, "Uber", false).
		done(KindRideshare, "Uber", ComfortHigh))

	q = b.quote(pricing.ProductTaxi, b.trip.Miles)
	b.add(startAt(b.origin).
		ride(ModeTaxi, b.dest, q.Minutes, q.Fare, "Yellow Taxi", false).
		done(KindTaxi, "Taxi", ComfortHigh))

	shared := Stop{Name: "Shared ride pickup near " + b.origin.Name, Point: b.access(0.2)}
	q = b.quote(pricing.ProductShared, miles(shared, b.dest))
	b.add(startAt(b.origin).
		walk(shared, 4).
		ride(ModeShared, b.dest, q.Minutes, q.Fare, "Uber Pool", false).
		done(KindShared, "Uber Pool", ComfortMedium))
}

func (b *builder) cycles() {
	if b.trip.Miles >= BikeMaxMiles {
		return
	}
	dock := Stop{Name: "Citi Bike dock near " + b.origin.Name, Point: b.access(0.1)}
	drop := Stop{Name: "Citi Bike dock near " + b.dest.Name, Point: b.egress(0.1)}
	comfort := ComfortMedium
	if b.trip.Miles >= 5 {
		comfort = ComfortLow
	}

	q := b.quote(pricing.ProductEBike, miles(dock, drop))
	b.add(startAt(b.origin).
		walk(dock, b.walkMinutes(b.origin, dock)).
		cycle(ModeEBike, drop, q.Minutes, q.Fare, "Citi Bike E-Bike").
		walk(b.dest, b.walkMinutes(drop, b.dest)).
		done(KindEBike, "Citi Bike E-Bike", comfort))

	if b.trip.Miles >= ClassicBikeMaxMiles {
		return
	}
	q = b.quote(pricing.ProductBike, miles(dock, drop))
	b.add(startAt(b.origin).
		walk(dock, b.walkMinutes(b.origin, dock)).
		cycle(ModeBike, drop, q.Minutes, q.Fare, "Citi Bike").
		walk(b.dest, b.walkMinutes(drop, b.dest)).
		done(KindBike, "Citi Bike", ComfortMedium))
}

func (b *builder) mixed() {
	if b.trip.Miles <= LongTripMiles {
		return
	}
	emitted := false
	oLines := b.operating(b.tc.Origin.SubwayLines)
	dLines := b.operating(b.tc.Destination.SubwayLines)

	line, ok := b.commonLine(oLines, dLines)
	if !ok {
		line, ok = b.best(oLines)
	}
	if ok {
		from := b.subwayStop(line, b.origin, b.access(0.25))
		xferPoint := b.along(lastMileShare)
		xfer := Stop{
			Name:  fmt.Sprintf("%s station (rideshare pickup)", subwayLabel(line)),
			Point: b.station(line, xferPoint, xferPoint),
		}
		q := b.quote(pricing.ProductLastMileRideshare, miles(xfer, b.dest))
		c := startAt(b.origin)
		c.walk(from, b.walkMinutes(b.origin, from)).
			subwayLeg(b, line, xfer, pricing.ProductSubway, subwayLabel(line)).
			ride(ModeRideshare, b.dest, q.Minutes, q.Fare, "Uber (last mile)", false)
		b.add(c.done(KindSubwayLastMile, subwayLabel(line)+" + Uber", ComfortMedium))
		emitted = true
	}

	if line, ok := b.best(dLines); ok {
		dock := Stop{Name: "Citi Bike dock near " + b.origin.Name, Point: b.access(0.1)}
		board := Stop{
			Name:  fmt.Sprintf("%s station (bike dock)", subwayLabel(line)),
			Point: b.station(line, b.along(0.2), b.along(0.2)),
		}
		to := b.subwayStop(line, b.dest, b.egress(0.25))
		q := b.quote(pricing.ProductEBike, miles(dock, board))
		c := startAt(b.origin)
		c.walk(dock, b.walkMinutes(b.origin, dock)).
			cycle(ModeEBike, board, q.Minutes, q.Fare, "Citi Bike E-Bike").
			subwayLeg(b, line, to, pricing.ProductSubway, subwayLabel(line)).
			walk(b.dest, b.walkMinutes(to, b.dest))
		b.add(c.done(KindBikeSubway, "E-Bike + "+subwayLabel(line), ComfortLow))
		emitted = true
	}

	if emitted {
		return
	}
	route := b.originRoute()
	stop := b.busStop(route, b.origin, b.access(0.15))
	xfer := Stop{Name: route + " stop (rideshare pickup)", Point: b.along(lastMileShare)}
	q := b.quote(pricing.ProductLastMileRideshare, miles(xfer, b.dest))
	c := startAt(b.origin)
	c.walk(stop, b.walkMinutes(b.origin, stop)).
		busLeg(b, route, xfer, pricing.ProductBus, false).
		ride(ModeRideshare, b.dest, q.Minutes, q.Fare, "Uber (last mile)", false)
	b.add(c.done(KindBusLastMile, route+" Bus + Uber", ComfortMedium))
}

func (b *builder) economy() {
	route := b.originRoute()
	from := b.busStop(route, b.origin, b.access(0.25))
	to := b.busStop(route, b.dest, b.egress(0.25))
	c := startAt(b.origin)
	c.walk(from, b.walkMinutes(b.origin, from)).
		busLeg(b, route, to, pricing.ProductEconomyBus, false).
		walk(b.dest, b.walkMinutes(to, b.dest))
	b.add(c.done(KindEconomy, "Economy Bus", ComfortLow))
}

func (b *builder) premium() {
	q := b.quote(pricing.ProductPremiumCar, b.trip.Miles)
	b.add(startAt(b.origin).
		ride(ModeRideshare, b.dest, q.Minutes, q.Fare, "Uber Black", false).
		done(KindPremium, "Premium Car", ComfortHigh))
}

func (b *builder) accessible() {
	pick := b.pickup(3)
	q := b.quote(pricing.ProductAccessibleRideshare, miles(pick, b.dest))
	b.add(startAt(b.origin).
		walk(pick, minConnectorMinutes).
		ride(ModeRideshare, b.dest, q.Minutes, q.Fare, "Wheelchair-accessible rideshare", true).
		done(KindAccessible, "Accessible Ride", ComfortHigh))
}
