package models

// Cart is the backend cart document returned by getCartById.
type Cart struct {
	GUID               string            `json:"guid"`
	ID                 FlexString        `json:"id"`
	UserID             string            `json:"user_id"`
	TotalPrice         *FlexInt          `json:"totalPrice"`
	OrderType          string            `json:"order_type"`
	LabLocationID      string            `json:"lab_location_id"`
	SlotGUID           string            `json:"slot_guid"`
	Status             string            `json:"status"`
	PaymentMode        string            `json:"payment_mode"`
	MembershipID       *string           `json:"membership_id"`
	MembershipDiscount *FlexInt          `json:"membershipDiscount"`
	DeliveryFee        *FlexInt          `json:"delivery_fee"`
	ActualDeliveryFee  *FlexInt          `json:"actual_delivery_fee"`
	TotalBenefit       *FlexInt          `json:"totalBenefitIncludingMembership"`
	Items              []CartItem        `json:"product_details"`
	UnavailableTests   []UnavailableTest `json:"unavailable_test"`
}

// CartItem is one line in the cart.
type CartItem struct {
	ProductID       string   `json:"product_id"`
	TestName        string   `json:"test_name"`
	AltTestName     string   `json:"testName"`
	ProductName     string   `json:"product_name"`
	Price           *FlexInt `json:"price"`
	OriginalPrice   *FlexInt `json:"original_price"`
	MembershipPrice *FlexInt `json:"membershipPrice"`
	DiscountRate    *FlexInt `json:"discount_rate"`
	Quantity        *FlexInt `json:"quantity"`
	HomeCollection  FlexBool `json:"home_collection"`
}

// Name returns the first non-empty name field for the line.
func (i CartItem) Name() string {
	for _, n := range []string{i.TestName, i.AltTestName, i.ProductName} {
		if n != "" {
			return n
		}
	}
	return i.ProductID
}

// UnavailableTest identifies a product the backend excluded from fulfilment.
type UnavailableTest struct {
	ProductID string `json:"product_id"`
	TestName  string `json:"testName"`
}

// DeliveryCharge returns the reported home-collection fee, preferring
// delivery_fee over actual_delivery_fee.
func (c Cart) DeliveryCharge() int {
	if c.DeliveryFee != nil {
		return c.DeliveryFee.Int()
	}
	return c.ActualDeliveryFee.Int()
}

// HasMembership reports whether the cart carries a membership id.
func (c Cart) HasMembership() bool {
	return c.MembershipID != nil && *c.MembershipID != "" && *c.MembershipID != "null"
}
