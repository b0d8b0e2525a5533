package pricing

import (
	"fmt"
	"math"
	"strings"

	"go.uber.org/zap"

	"labprobe/models"
	"labprobe/utils"
)

func (s *DefaultPricingService) Reconcile(cart models.Cart, pctx models.PricingContext, catalog map[string]models.CatalogItem) (*Report, error) {
	logger := utils.GetLogger()
	report := &Report{RemoteTotal: cart.TotalPrice.Int()}

	unavailable := make(map[string]bool, len(cart.UnavailableTests))
	for _, u := range cart.UnavailableTests {
		unavailable[u.ProductID] = true
	}

	for _, line := range cart.Items {
		verdict := ItemVerdict{
			ProductID: line.ProductID,
			Name:      line.Name(),
			Quantity:  line.Quantity.Int(),
		}

		if skip, reason := s.shouldSkip(line, pctx, unavailable); skip {
			verdict.Class = ClassSkipped
			verdict.SkipReason = reason
			report.Items = append(report.Items, verdict)
			logger.Debug("cart line skipped",
				zap.String("product", verdict.Name),
				zap.String("reason", reason))
			continue
		}

		s.checkLineDefects(line, pctx, catalog, report)

		unit := s.unitPrice(line, pctx)
		verdict.Class = ClassIncluded
		verdict.UnitPrice = unit
		verdict.LineTotal = unit * verdict.Quantity
		report.Items = append(report.Items, verdict)

		report.Subtotal += verdict.LineTotal
		if unit > 0 {
			report.ItemsWithPrice++
		}
	}

	report.DeliveryFee = deliveryFee(report.Subtotal, pctx)
	switch pctx.OrderType {
	case models.OrderLab:
		report.ExpectedTotal = report.DeliveryFee
	default:
		report.ExpectedTotal = report.Subtotal + report.DeliveryFee
	}

	// Non-fatal consistency checks between the cart document and the order
	// context. These catch backend drift that the total comparison can mask.
	if cart.DeliveryFee != nil || cart.ActualDeliveryFee != nil {
		if got := cart.DeliveryCharge(); got != report.DeliveryFee {
			report.addDefect(Defect{
				Code:     CodeFeeMismatch,
				Severity: SeverityWarning,
				Message:  fmt.Sprintf("expected delivery fee %d, cart reports %d", report.DeliveryFee, got),
			})
		}
	}
	if cart.HasMembership() != pctx.IsMember {
		report.addDefect(Defect{
			Code:     CodeMembershipFlag,
			Severity: SeverityWarning,
			Message:  fmt.Sprintf("cart membership flag %t disagrees with user membership %t", cart.HasMembership(), pctx.IsMember),
		})
	}

	s.checkTotals(report)

	logger.Info("cart reconciled",
		zap.Int("included", report.Included()),
		zap.Int("skipped", report.Skipped()),
		zap.Int("subtotal", report.Subtotal),
		zap.Int("delivery_fee", report.DeliveryFee),
		zap.Int("expected_total", report.ExpectedTotal),
		zap.Int("remote_total", report.RemoteTotal),
		zap.Int("defects", len(report.Defects)),
		zap.Int("warnings", len(report.Warnings)))

	if report.Fatal() {
		return report, &DefectError{Report: report}
	}
	return report, nil
}

// shouldSkip applies the exclusion rules: zero quantity, backend-declared
// unavailability, and non-home-collectable items on a home order.
func (s *DefaultPricingService) shouldSkip(line models.CartItem, pctx models.PricingContext, unavailable map[string]bool) (bool, string) {
	if line.Quantity.Int() == 0 {
		return true, "zero quantity"
	}
	if unavailable[line.ProductID] {
		return true, "listed unavailable"
	}
	if pctx.OrderType == models.OrderHome && !line.HomeCollection.Bool() {
		return true, "no home collection on a home order"
	}
	return false, ""
}

// checkLineDefects records data-quality findings for one included line.
func (s *DefaultPricingService) checkLineDefects(line models.CartItem, pctx models.PricingContext, catalog map[string]models.CatalogItem, report *Report) {
	name := line.Name()
	severity := SeverityFatal
	if s.knownBad(name) {
		severity = SeverityWarning
	}

	price := line.Price.Int()
	originalPrice := line.OriginalPrice.Int()
	hasPrice := price > 0 || originalPrice > 0

	if item, ok := catalog[line.ProductID]; ok {
		eligible := item.EligibleForLocation(pctx.LocationID)
		if eligible && !hasPrice {
			report.addDefect(Defect{
				Code:     CodeZeroPricedEligible,
				Severity: severity,
				Product:  name,
				Message:  fmt.Sprintf("%s is sold at location %s but carries no price", name, pctx.LocationID),
			})
		}
		if !eligible && hasPrice {
			report.addDefect(Defect{
				Code:     CodePricedIneligible,
				Severity: severity,
				Product:  name,
				Message:  fmt.Sprintf("%s is not sold at location %s but carries a price", name, pctx.LocationID),
			})
		}
	}

	// Each base price field is validated on its own; one being populated does
	// not excuse the other being null or zero.
	if price <= 0 {
		report.addDefect(Defect{
			Code:     CodeMissingBasePrice,
			Severity: severity,
			Product:  name,
			Message:  fmt.Sprintf("%s has a null or zero price", name),
		})
	}
	if originalPrice <= 0 {
		report.addDefect(Defect{
			Code:     CodeMissingBasePrice,
			Severity: severity,
			Product:  name,
			Message:  fmt.Sprintf("%s has a null or zero original_price", name),
		})
	}

	if pctx.IsMember {
		member := line.MembershipPrice.Int()
		rate := line.DiscountRate.Int()
		if member <= 0 && rate <= 0 {
			report.addDefect(Defect{
				Code:     CodeMissingMemberPrice,
				Severity: severity,
				Product:  name,
				Message:  fmt.Sprintf("%s has no member price for a member cart", name),
			})
		}
		if member > 0 && rate > 0 && member != rate {
			// The two member price fields disagree often enough that this
			// stays a warning regardless of the product.
			report.addDefect(Defect{
				Code:     CodeMemberPriceMismatch,
				Severity: SeverityWarning,
				Product:  name,
				Message:  fmt.Sprintf("%s membershipPrice %d != discount_rate %d", name, member, rate),
			})
		}
	}
}

// unitPrice computes the expected charge for one unit of the line.
func (s *DefaultPricingService) unitPrice(line models.CartItem, pctx models.PricingContext) int {
	base := line.Price.Int()
	if base <= 0 {
		base = line.OriginalPrice.Int()
	}
	if !pctx.IsMember {
		return base
	}

	rate := line.DiscountRate.Int()
	member := line.MembershipPrice.Int()
	switch {
	case rate > 0 && member > 0:
		return s.pickMemberPrice(rate, member)
	case rate > 0:
		return rate
	case member > 0:
		return member
	default:
		return int(math.Floor(float64(base) * fallbackMemberRate))
	}
}

func (s *DefaultPricingService) pickMemberPrice(rate, member int) int {
	switch s.Policy {
	case PolicyDiscountRateWins:
		return rate
	case PolicyMembershipPriceWins:
		return member
	default:
		if member < rate {
			return member
		}
		return rate
	}
}

// deliveryFee applies the fee ladder.
func deliveryFee(subtotal int, pctx models.PricingContext) int {
	if pctx.IsMember {
		return 0
	}
	if subtotal >= feeWaiverSubtotal {
		return 0
	}
	if pctx.PaymentMode == models.PayOnline || pctx.PaymentMode == models.PayPrepaid {
		return 0
	}
	return standardFee
}

// checkTotals compares the computed total with the backend's. The comparison
// is exact; even a one-rupee gap is a defect. A remote total of zero while
// priced items exist means the backend lost the cart pricing entirely and is
// always fatal. When nothing in the cart carried a price there is nothing to
// verify against, so the remote total is accepted as is.
func (s *DefaultPricingService) checkTotals(report *Report) {
	if report.ItemsWithPrice == 0 {
		report.ExpectedTotal = report.RemoteTotal
		return
	}
	if report.RemoteTotal == 0 {
		report.Defects = append(report.Defects, Defect{
			Code:     CodeRemoteTotalZero,
			Severity: SeverityFatal,
			Message:  fmt.Sprintf("backend total is 0 with %d priced item(s)", report.ItemsWithPrice),
		})
		return
	}
	if report.RemoteTotal != report.ExpectedTotal {
		report.Defects = append(report.Defects, Defect{
			Code:     CodeTotalMismatch,
			Severity: SeverityFatal,
			Message:  fmt.Sprintf("expected total %d, backend reports %d", report.ExpectedTotal, report.RemoteTotal),
		})
	}
}

func (s *DefaultPricingService) knownBad(name string) bool {
	for _, bad := range s.KnownBadProducts {
		if strings.EqualFold(strings.TrimSpace(bad), strings.TrimSpace(name)) {
			return true
		}
	}
	return false
}
