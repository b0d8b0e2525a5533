package models

// Payment is the gateway's record of an order payment.
type Payment struct {
	GUID               string      `json:"guid"`
	OrderGUID          string      `json:"order_guid"`
	Amount             *FlexInt    `json:"amount"`
	NetPayable         *FlexInt    `json:"net_payable"`
	PaymentType        string      `json:"payment_type"`
	PaymentStatus      string      `json:"payment_status"`
	MembershipDiscount *FlexInt    `json:"membership_discount"`
	TotalDiscount      *FlexInt    `json:"total_discount"`
	DeliveryFee        *FlexInt    `json:"delivery_fee"`
	OrderItems         []OrderItem `json:"order_items"`
}

// OrderItem is a line on the payment record.
type OrderItem struct {
	ProductID   string   `json:"product_id"`
	ProductName string   `json:"product_name"`
	FinalPrice  *FlexInt `json:"final_price"`
	Quantity    FlexInt  `json:"quantity"`
}

// ItemNames returns the product names on the payment, in order.
func (p Payment) ItemNames() []string {
	names := make([]string, 0, len(p.OrderItems))
	for _, it := range p.OrderItems {
		names = append(names, it.ProductName)
	}
	return names
}
