package models

// OrderType distinguishes home collection orders from walk-in lab orders.
type OrderType string

const (
	OrderHome OrderType = "home"
	OrderLab  OrderType = "lab"
)

// PaymentMode is how the customer intends to pay.
type PaymentMode string

const (
	PayCash    PaymentMode = "cash"
	PayOnline  PaymentMode = "online"
	PayPrepaid PaymentMode = "prepaid"
)

// PricingContext carries the order facts the reconciler needs to price a cart.
type PricingContext struct {
	IsMember    bool
	PaymentMode PaymentMode
	OrderType   OrderType
	LocationID  string
}
