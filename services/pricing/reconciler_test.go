package pricing

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"labprobe/models"
)

func newService() *DefaultPricingService {
	return &DefaultPricingService{
		Policy:           PolicyLowestWins,
		KnownBadProducts: []string{"TESTING15"},
	}
}

func line(id, name string, price, member, rate, qty int, home bool) models.CartItem {
	item := models.CartItem{
		ProductID:      id,
		TestName:       name,
		Quantity:       models.NewFlexInt(qty),
		HomeCollection: models.FlexBool(home),
	}
	if price > 0 {
		item.Price = models.NewFlexInt(price)
		item.OriginalPrice = models.NewFlexInt(price)
	}
	if member > 0 {
		item.MembershipPrice = models.NewFlexInt(member)
	}
	if rate > 0 {
		item.DiscountRate = models.NewFlexInt(rate)
	}
	return item
}

func memberCart(cart models.Cart) models.Cart {
	id := "mem-1"
	cart.MembershipID = &id
	return cart
}

func homeCtx(member bool, mode models.PaymentMode) models.PricingContext {
	return models.PricingContext{
		IsMember:    member,
		PaymentMode: mode,
		OrderType:   models.OrderHome,
		LocationID:  "loc-1",
	}
}

func TestReconcile_NonMemberCashOrder(t *testing.T) {
	cart := models.Cart{
		TotalPrice: models.NewFlexInt(1050),
		Items: []models.CartItem{
			line("p1", "CBC", 800, 720, 720, 1, true),
		},
	}

	report, err := newService().Reconcile(cart, homeCtx(false, models.PayCash), nil)
	require.NoError(t, err)

	assert.Equal(t, 800, report.Subtotal)
	assert.Equal(t, 250, report.DeliveryFee)
	assert.Equal(t, 1050, report.ExpectedTotal)
	assert.False(t, report.Fatal())
}

func TestReconcile_MemberUsesLowestMemberPrice(t *testing.T) {
	cart := memberCart(models.Cart{
		TotalPrice: models.NewFlexInt(270),
		Items: []models.CartItem{
			line("p1", "Vitamin D", 300, 280, 270, 1, true),
		},
	})

	report, err := newService().Reconcile(cart, homeCtx(true, models.PayCash), nil)
	require.NoError(t, err)

	require.Len(t, report.Items, 1)
	assert.Equal(t, 270, report.Items[0].UnitPrice)
	// Members never pay the home collection fee.
	assert.Equal(t, 0, report.DeliveryFee)
	assert.Equal(t, 270, report.ExpectedTotal)
}

func TestReconcile_MemberPricePolicies(t *testing.T) {
	cases := []struct {
		policy string
		want   int
	}{
		{PolicyLowestWins, 270},
		{PolicyDiscountRateWins, 280},
		{PolicyMembershipPriceWins, 270},
	}
	for _, tc := range cases {
		t.Run(tc.policy, func(t *testing.T) {
			svc := newService()
			svc.Policy = tc.policy
			item := line("p1", "Lipid Profile", 400, 270, 280, 1, true)
			got := svc.unitPrice(item, homeCtx(true, models.PayCash))
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestReconcile_PartialBasePriceIsDefect(t *testing.T) {
	// original_price alone still prices the line, but the null price field is
	// flagged on its own.
	item := line("p1", "CBC", 0, 0, 0, 1, true)
	item.OriginalPrice = models.NewFlexInt(300)
	cart := models.Cart{
		TotalPrice: models.NewFlexInt(550),
		Items:      []models.CartItem{item},
	}

	report, err := newService().Reconcile(cart, homeCtx(false, models.PayCash), nil)
	require.Error(t, err)

	require.Len(t, report.Defects, 1)
	assert.Equal(t, CodeMissingBasePrice, report.Defects[0].Code)
	assert.Contains(t, report.Defects[0].Message, "price")
	// The line itself still prices off original_price.
	require.Len(t, report.Items, 1)
	assert.Equal(t, 300, report.Items[0].UnitPrice)
}

func TestReconcile_MemberDiscountRateOnly(t *testing.T) {
	// Only discount_rate is populated: it wins outright for a member.
	item := line("p1", "Thyroid Profile", 300, 0, 270, 1, true)
	got := newService().unitPrice(item, homeCtx(true, models.PayCash))
	assert.Equal(t, 270, got)
}

func TestReconcile_MemberFallbackRate(t *testing.T) {
	// No member price fields at all: members get 90% of base, floored.
	item := line("p1", "HbA1c", 555, 0, 0, 1, true)
	got := newService().unitPrice(item, homeCtx(true, models.PayCash))
	assert.Equal(t, 499, got)
}

func TestDeliveryFee_Ladder(t *testing.T) {
	cases := []struct {
		name     string
		subtotal int
		pctx     models.PricingContext
		want     int
	}{
		{"member waived", 400, homeCtx(true, models.PayCash), 0},
		{"threshold waived", 999, homeCtx(false, models.PayCash), 0},
		{"above threshold waived", 1500, homeCtx(false, models.PayCash), 0},
		{"online waived", 400, homeCtx(false, models.PayOnline), 0},
		{"prepaid waived", 400, homeCtx(false, models.PayPrepaid), 0},
		{"cash below threshold charged", 998, homeCtx(false, models.PayCash), 250},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, deliveryFee(tc.subtotal, tc.pctx))
		})
	}
}

func TestReconcile_LabOrderChargesFeeOnly(t *testing.T) {
	cart := models.Cart{
		TotalPrice: models.NewFlexInt(250),
		Items: []models.CartItem{
			line("p1", "CBC", 400, 0, 0, 1, true),
		},
	}
	pctx := homeCtx(false, models.PayCash)
	pctx.OrderType = models.OrderLab

	report, err := newService().Reconcile(cart, pctx, nil)
	require.NoError(t, err)
	assert.Equal(t, 250, report.ExpectedTotal)
}

func TestReconcile_SkipRules(t *testing.T) {
	cart := models.Cart{
		TotalPrice: models.NewFlexInt(1050),
		Items: []models.CartItem{
			line("p1", "CBC", 800, 0, 0, 1, true),
			line("p2", "Zero Qty", 500, 0, 0, 0, true),
			line("p3", "Unavailable", 500, 0, 0, 1, true),
			line("p4", "Lab Only", 500, 0, 0, 1, false),
		},
		UnavailableTests: []models.UnavailableTest{{ProductID: "p3"}},
	}

	report, err := newService().Reconcile(cart, homeCtx(false, models.PayCash), nil)
	require.NoError(t, err)

	assert.Equal(t, 1, report.Included())
	assert.Equal(t, 3, report.Skipped())
	assert.Equal(t, 800, report.Subtotal)

	reasons := map[string]string{}
	for _, v := range report.Items {
		reasons[v.ProductID] = v.SkipReason
	}
	assert.Equal(t, "zero quantity", reasons["p2"])
	assert.Equal(t, "listed unavailable", reasons["p3"])
	assert.Equal(t, "no home collection on a home order", reasons["p4"])
}

func TestReconcile_TotalMismatchIsFatal(t *testing.T) {
	cart := models.Cart{
		TotalPrice: models.NewFlexInt(1049),
		Items: []models.CartItem{
			line("p1", "CBC", 800, 0, 0, 1, true),
		},
	}

	report, err := newService().Reconcile(cart, homeCtx(false, models.PayCash), nil)
	require.Error(t, err)

	var defErr *DefectError
	require.True(t, errors.As(err, &defErr))
	assert.True(t, report.Fatal())
	assert.Equal(t, CodeTotalMismatch, report.Defects[0].Code)
}

func TestReconcile_RemoteZeroWithPricedItemsIsFatal(t *testing.T) {
	cart := models.Cart{
		TotalPrice: models.NewFlexInt(0),
		Items: []models.CartItem{
			line("p1", "CBC", 800, 0, 0, 1, true),
		},
	}

	report, err := newService().Reconcile(cart, homeCtx(false, models.PayCash), nil)
	require.Error(t, err)
	assert.Equal(t, CodeRemoteTotalZero, report.Defects[0].Code)
}

func TestReconcile_NoPricedItemsAcceptsRemoteTotal(t *testing.T) {
	// Every line is broken, so there is nothing to recompute against. The
	// missing prices still surface as defects.
	cart := models.Cart{
		TotalPrice: models.NewFlexInt(120),
		Items: []models.CartItem{
			line("p1", "Broken", 0, 0, 0, 1, true),
		},
	}

	report, err := newService().Reconcile(cart, homeCtx(false, models.PayCash), nil)
	require.Error(t, err)
	assert.Equal(t, 120, report.ExpectedTotal)

	codes := make([]string, 0, len(report.Defects))
	for _, d := range report.Defects {
		codes = append(codes, d.Code)
	}
	assert.Contains(t, codes, CodeMissingBasePrice)
	assert.NotContains(t, codes, CodeTotalMismatch)
}

func TestReconcile_KnownBadProductDowngradesToWarning(t *testing.T) {
	cart := models.Cart{
		TotalPrice: models.NewFlexInt(1050),
		Items: []models.CartItem{
			line("p1", "CBC", 800, 0, 0, 1, true),
			line("p2", "TESTING15", 0, 0, 0, 1, true),
		},
	}

	report, err := newService().Reconcile(cart, homeCtx(false, models.PayCash), nil)
	require.NoError(t, err)

	assert.Empty(t, report.Defects)
	require.NotEmpty(t, report.Warnings)
	assert.Equal(t, CodeMissingBasePrice, report.Warnings[0].Code)
	assert.Equal(t, "TESTING15", report.Warnings[0].Product)
}

func TestReconcile_MemberDefects(t *testing.T) {
	cart := memberCart(models.Cart{
		TotalPrice: models.NewFlexInt(1000),
		Items: []models.CartItem{
			line("p1", "No Member Price", 1000, 0, 0, 1, true),
		},
	})

	report, _ := newService().Reconcile(cart, homeCtx(true, models.PayCash), nil)

	codes := make([]string, 0, len(report.Defects))
	for _, d := range report.Defects {
		codes = append(codes, d.Code)
	}
	assert.Contains(t, codes, CodeMissingMemberPrice)
}

func TestReconcile_MemberPriceMismatchIsWarningOnly(t *testing.T) {
	cart := memberCart(models.Cart{
		TotalPrice: models.NewFlexInt(270),
		Items: []models.CartItem{
			line("p1", "Vitamin D", 300, 280, 270, 1, true),
		},
	})

	report, err := newService().Reconcile(cart, homeCtx(true, models.PayCash), nil)
	require.NoError(t, err)

	require.Len(t, report.Warnings, 1)
	assert.Equal(t, CodeMemberPriceMismatch, report.Warnings[0].Code)
}

func TestReconcile_ConsistencyWarnings(t *testing.T) {
	// The cart claims a different fee than the ladder yields and carries a
	// membership id for a non-member user. Both are drift, neither is fatal.
	cart := memberCart(models.Cart{
		TotalPrice:  models.NewFlexInt(1050),
		DeliveryFee: models.NewFlexInt(100),
		Items: []models.CartItem{
			line("p1", "CBC", 800, 0, 0, 1, true),
		},
	})

	report, err := newService().Reconcile(cart, homeCtx(false, models.PayCash), nil)
	require.NoError(t, err)

	codes := make([]string, 0, len(report.Warnings))
	for _, w := range report.Warnings {
		codes = append(codes, w.Code)
	}
	assert.Contains(t, codes, CodeFeeMismatch)
	assert.Contains(t, codes, CodeMembershipFlag)
}

func TestReconcile_LocationEligibilityDefects(t *testing.T) {
	catalog := map[string]models.CatalogItem{
		"p1": {ProductID: "p1", TestName: "Sold Here", Locations: []string{"loc-1"}},
		"p2": {ProductID: "p2", TestName: "Not Sold Here", Locations: []string{"loc-2"}},
	}
	cart := models.Cart{
		TotalPrice: models.NewFlexInt(500),
		Items: []models.CartItem{
			line("p1", "Sold Here", 0, 0, 0, 1, true),
			line("p2", "Not Sold Here", 500, 0, 0, 1, true),
		},
	}

	report, _ := newService().Reconcile(cart, homeCtx(false, models.PayCash), catalog)

	codes := make([]string, 0, len(report.Defects))
	for _, d := range report.Defects {
		codes = append(codes, d.Code)
	}
	assert.Contains(t, codes, CodeZeroPricedEligible)
	assert.Contains(t, codes, CodePricedIneligible)
}
