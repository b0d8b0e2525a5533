package order

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"go.uber.org/zap"

	"labprobe/client"
	"labprobe/models"
	"labprobe/utils"
)

// crossValidate fetches the gateway's payment record and checks it against
// what the flow believes about the cart. Identity, amounts, payment type and
// status, and the line items all have to line up.
func (o *DefaultOrderService) crossValidate(ctx context.Context, session *models.CustomerSession) error {
	payment, err := o.fetchPayment(ctx, session)
	if err != nil {
		return err
	}

	if payment.GUID != "" && payment.GUID != session.PaymentGUID {
		return &ValidationError{Field: "payment guid", Expected: session.PaymentGUID, Actual: payment.GUID}
	}
	if got := payment.Amount.Int(); got != session.TotalAmount {
		return &ValidationError{Field: "amount", Expected: session.TotalAmount, Actual: got}
	}
	if !strings.EqualFold(payment.PaymentType, "COD") {
		return &ValidationError{Field: "payment type", Expected: "COD", Actual: payment.PaymentType}
	}
	if !strings.EqualFold(payment.PaymentStatus, "Pending") {
		return &ValidationError{Field: "payment status", Expected: "Pending", Actual: payment.PaymentStatus}
	}

	// A cash order has nothing prepaid, so net payable must match the amount.
	if payment.NetPayable != nil {
		if got := payment.NetPayable.Int(); got != payment.Amount.Int() {
			return &ValidationError{Field: "net payable", Expected: payment.Amount.Int(), Actual: got}
		}
	}

	if err := o.validateItemNames(session, payment); err != nil {
		return err
	}

	utils.GetLogger().Info("payment cross validated",
		zap.String("actor", string(session.Actor)),
		zap.String("payment_guid", session.PaymentGUID),
		zap.Int("amount", payment.Amount.Int()),
		zap.Int("items", len(payment.OrderItems)))
	return nil
}

// validateItemNames requires every payment line to correspond to a resolved
// catalog item. Matching is by normalized name against the canonical names
// the matcher stored.
func (o *DefaultOrderService) validateItemNames(session *models.CustomerSession, payment models.Payment) error {
	known := make(map[string]bool, len(session.Items))
	for name := range session.Items {
		known[normalize(name)] = true
	}
	for _, got := range payment.ItemNames() {
		if got == "" {
			continue
		}
		if !known[normalize(got)] {
			return &ValidationError{Field: "order item", Expected: "a resolved product", Actual: got}
		}
	}
	return nil
}

func normalize(name string) string {
	return strings.ToLower(strings.Join(strings.Fields(name), " "))
}

func (o *DefaultOrderService) fetchPayment(ctx context.Context, session *models.CustomerSession) (models.Payment, error) {
	query := url.Values{}
	query.Set("payment_guid", session.PaymentGUID)

	resp, err := o.Exec.Do(ctx, client.Request{
		Method: http.MethodGet,
		Path:   client.PathGetPaymentByID,
		Query:  query,
		Token:  session.AuthToken,
	})
	if err != nil {
		return models.Payment{}, fmt.Errorf("fetch payment: %w", err)
	}

	env, err := resp.Envelope()
	if err != nil {
		return models.Payment{}, err
	}
	var payment models.Payment
	if err := env.Object(&payment); err != nil {
		return models.Payment{}, fmt.Errorf("parse payment: %w", err)
	}
	return payment, nil
}
