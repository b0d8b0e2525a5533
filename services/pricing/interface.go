package pricing

import (
	"labprobe/models"
)

// Member price policies. When an item carries both a discount_rate and a
// membershipPrice the backend is not consistent about which one it applies,
// so the choice is configurable.
const (
	PolicyLowestWins          = "lowest-wins"
	PolicyDiscountRateWins    = "discount-rate-wins"
	PolicyMembershipPriceWins = "membership-price-wins"
)

// Delivery fee ladder. Members and orders at or above the waiver threshold
// ride free, as do online and prepaid payments.
const (
	feeWaiverSubtotal = 999
	standardFee       = 250
)

// Member fallback discount when an item carries no member price fields at all.
const fallbackMemberRate = 0.90

// PricingService recomputes what a cart should cost and reconciles the result
// against the total the backend reported.
type PricingService interface {
	// Reconcile prices every cart line under the given order context and
	// compares the computed total with the cart's reported total. The catalog
	// map, keyed by product id, supplies location eligibility for lines whose
	// cart entry cannot be verified alone; missing entries are tolerated.
	// A report is always returned. When the reconciliation finds fatal
	// defects the error is a *DefectError wrapping that same report.
	Reconcile(cart models.Cart, pctx models.PricingContext, catalog map[string]models.CatalogItem) (*Report, error)
}

// DefaultPricingService is the production implementation.
type DefaultPricingService struct {
	// Policy selects the member price source, one of the Policy* constants.
	Policy string

	// KnownBadProducts lists product names whose price defects are demoted
	// to warnings. These are seeded test fixtures with deliberately broken
	// pricing.
	KnownBadProducts []string
}
