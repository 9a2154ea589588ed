// README: Pricing rate definition for each travel product.
package pricing

import "routebee/internal/types"

// Product is a priced travel product; several products can share a mode.
type Product string

const (
	ProductWalk                Product = "walk"
	ProductSubway              Product = "subway"
	ProductSubwayTransferLeg   Product = "subway_transfer_leg"
	ProductSubwayFreeTransfer  Product = "subway_free_transfer"
	ProductBus                 Product = "bus"
	ProductExpressBus          Product = "express_bus"
	ProductFerry               Product = "ferry"
	ProductEBike               Product = "ebike"
	ProductBike                Product = "bike"
	ProductRideshare           Product = "rideshare"
	ProductTaxi                Product = "taxi"
	ProductShared              Product = "shared"
	ProductLastMileRideshare   Product = "last_mile_rideshare"
	ProductAccessibleRideshare Product = "accessible_rideshare"
	ProductEconomyBus          Product = "economy_bus"
	ProductPremiumCar          Product = "premium_car"
)

// Rate turns a distance into minutes and a fare. Every term is
// non-negative, so both outputs are non-decreasing in distance.
type Rate struct {
	Product        Product
	MinutesPerMile float64
	FixedMinutes   float64
	BaseFare       types.Money
	PerMile        types.Money
	PerMinute      types.Money
}

type Quote struct {
	Minutes float64
	Fare    types.Money
}

type CostBreakdown struct {
	Fare           types.Money
	AdditionalFees types.Money
	Total          types.Money
}
