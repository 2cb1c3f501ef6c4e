package pricing

import "math"

// Offer is the outcome of the commercial formulas for one market price.
// Success is false when no sensible offer can be computed; the zero amounts
// then carry no meaning and Reason explains the failure.
type Offer struct {
	Success          bool   `json:"success"`
	MarketPrice      int    `json:"market_price"`
	ImmediateOffer   int    `json:"immediate_offer"`
	ConsignmentValue int    `json:"consignment_value"`
	Tier             string `json:"tier,omitempty"` // "percentage" | "fixed_fee"
	Reason           string `json:"reason,omitempty"`
}

// Formula computes purchase offers from a market price.  The zero value is
// unusable; build one with NewFormula.
type Formula struct {
	purchaseMultiplier   float64
	roundingStep         int
	consignmentThreshold int
	commissionRate       float64
	taxRate              float64
	fixedFee             int
}

// NewFormula builds a Formula from the pricing knobs.  Callers normally pass
// the values straight from config.PricingConfig.
func NewFormula(purchaseMultiplier float64, roundingStep, consignmentThreshold int,
	commissionRate, taxRate float64, fixedFee int) *Formula {
	return &Formula{
		purchaseMultiplier:   purchaseMultiplier,
		roundingStep:         roundingStep,
		consignmentThreshold: consignmentThreshold,
		commissionRate:       commissionRate,
		taxRate:              taxRate,
		fixedFee:             fixedFee,
	}
}

// Compute derives the immediate purchase offer and consignment payout for
// the given market price.  A non-positive price yields a failed Offer, not
// an error: upstream resolution can legitimately produce no price.
func (f *Formula) Compute(marketPrice int) Offer {
	if marketPrice <= 0 {
		return Offer{
			Success: false,
			Reason:  "market price unavailable",
		}
	}

	return Offer{
		Success:          true,
		MarketPrice:      marketPrice,
		ImmediateOffer:   f.immediateOffer(marketPrice),
		ConsignmentValue: f.consignmentValue(marketPrice),
		Tier:             f.tier(marketPrice),
	}
}

// immediateOffer applies the purchase multiplier and rounds to the nearest
// rounding step, half away from zero.
func (f *Formula) immediateOffer(marketPrice int) int {
	step := float64(f.roundingStep)
	raw := float64(marketPrice) * f.purchaseMultiplier / step
	return int(math.Round(raw)) * f.roundingStep
}

// consignmentValue is what the seller receives after commission.  Above the
// threshold a percentage commission plus VAT on the commission applies;
// at or below it a flat fee is deducted instead.
func (f *Formula) consignmentValue(marketPrice int) int {
	if marketPrice > f.consignmentThreshold {
		effectiveRate := f.commissionRate * (1 + f.taxRate)
		return int(math.Floor(float64(marketPrice) * (1 - effectiveRate)))
	}
	v := marketPrice - f.fixedFee
	if v < 0 {
		return 0
	}
	return v
}

func (f *Formula) tier(marketPrice int) string {
	if marketPrice > f.consignmentThreshold {
		return "percentage"
	}
	return "fixed_fee"
}
