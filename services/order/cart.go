package order

import (
	"context"
	"fmt"
	"net/http"

	"go.uber.org/zap"

	"labprobe/client"
	"labprobe/config"
	"labprobe/models"
	"labprobe/utils"
)

// cartLine is the addCart request line format.
type cartLine struct {
	ProductID string `json:"product_id"`
	Quantity  int    `json:"quantity"`
}

// clearCart empties any cart left over from a previous run by posting an
// empty product list.
func (o *DefaultOrderService) clearCart(ctx context.Context, session *models.CustomerSession) error {
	_, err := o.Exec.Do(ctx, client.Request{
		Method: http.MethodPost,
		Path:   client.PathAddCart,
		Token:  session.AuthToken,
		Body: map[string]interface{}{
			"user_id":         session.UserID,
			"product_details": []cartLine{},
		},
	})
	if err != nil {
		return fmt.Errorf("clear cart: %w", err)
	}
	return nil
}

// buildCart fills the cart with the resolved products and records the cart
// identity and total from the backend's view of it.
func (o *DefaultOrderService) buildCart(ctx context.Context, session *models.CustomerSession) error {
	lines := make([]cartLine, 0, len(session.Items))
	for _, item := range session.Items {
		lines = append(lines, cartLine{ProductID: item.ProductID, Quantity: 1})
	}

	_, err := o.Exec.Do(ctx, client.Request{
		Method: http.MethodPost,
		Path:   client.PathAddCart,
		Token:  session.AuthToken,
		Body: map[string]interface{}{
			"user_id":         session.UserID,
			"order_type":      string(models.OrderHome),
			"payment_mode":    string(models.PayCash),
			"lab_location_id": session.LabLocationID,
			"product_details": lines,
		},
	})
	if err != nil {
		return fmt.Errorf("build cart: %w", err)
	}

	cart, err := o.fetchCart(ctx, session)
	if err != nil {
		return err
	}

	session.CartGUID = cart.GUID
	session.CartNumericID = cart.ID.String()
	session.TotalAmount = cart.TotalPrice.Int()
	session.OrderType = cart.OrderType
	if session.OrderType == "" {
		session.OrderType = string(models.OrderHome)
	}

	utils.GetLogger().Info("cart built",
		zap.String("actor", string(session.Actor)),
		zap.String("cart_guid", session.CartGUID),
		zap.Int("lines", len(lines)),
		zap.Int("total", session.TotalAmount))
	return nil
}

// reconcileCart gates the cash-on-delivery limit and then reprices the cart
// locally, failing the flow on any fatal pricing defect. The report lands on
// the result even when reconciliation fails.
func (o *DefaultOrderService) reconcileCart(result *Result) func(ctx context.Context, session *models.CustomerSession) error {
	return func(ctx context.Context, session *models.CustomerSession) error {
		if limit := config.AppConfig.CODLimit; limit > 0 && session.TotalAmount >= limit {
			return errCODLimit
		}

		cart, err := o.fetchCart(ctx, session)
		if err != nil {
			return err
		}

		catalogByID := make(map[string]models.CatalogItem, len(session.Items))
		for _, item := range session.Items {
			catalogByID[item.ProductID] = item
		}

		pctx := models.PricingContext{
			IsMember:    session.IsMember,
			PaymentMode: models.PayCash,
			OrderType:   models.OrderType(session.OrderType),
			LocationID:  session.LabLocationID,
		}

		report, err := o.Pricing.Reconcile(cart, pctx, catalogByID)
		result.Reconcile = report
		return err
	}
}

// attachSlot writes the chosen slot and address back onto the cart.
func (o *DefaultOrderService) attachSlot(ctx context.Context, session *models.CustomerSession) error {
	_, err := o.Exec.Do(ctx, client.Request{
		Method: http.MethodPost,
		Path:   client.PathAddCart,
		Token:  session.AuthToken,
		Body: map[string]interface{}{
			"user_id":    session.UserID,
			"slot_guid":  session.SlotGUID,
			"slot_date":  session.SlotDate,
			"slot_time":  session.SlotTime,
			"address_id": session.AddressID,
		},
	})
	if err != nil {
		return fmt.Errorf("attach slot to cart: %w", err)
	}
	return nil
}

func (o *DefaultOrderService) fetchCart(ctx context.Context, session *models.CustomerSession) (models.Cart, error) {
	resp, err := o.Exec.Do(ctx, client.Request{
		Method: http.MethodGet,
		Path:   client.PathGetCartByID + session.UserID,
		Token:  session.AuthToken,
	})
	if err != nil {
		return models.Cart{}, fmt.Errorf("fetch cart: %w", err)
	}

	env, err := resp.Envelope()
	if err != nil {
		return models.Cart{}, err
	}
	var cart models.Cart
	if err := env.Object(&cart); err != nil {
		return models.Cart{}, fmt.Errorf("parse cart: %w", err)
	}
	return cart, nil
}
