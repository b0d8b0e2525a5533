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

// Default test address for home collection. Coordinates sit inside the
// default location's catchment.
const (
	defaultAddressName = "Home"
	defaultAddressLine = "Plot 12, Ayyappa Society, Madhapur"
	defaultAddressLat  = "17.4483"
	defaultAddressLng  = "78.3915"
	defaultPostalCode  = "500081"
	defaultCity        = "Hyderabad"
	defaultState       = "Telangana"
)

// addAddress saves the collection address. The backend answers 409 when the
// address already exists; in that case the first saved address is adopted.
func (o *DefaultOrderService) addAddress(ctx context.Context, session *models.CustomerSession) error {
	logger := utils.GetLogger()

	resp, err := o.Exec.Do(ctx, client.Request{
		Method: http.MethodPost,
		Path:   client.PathAddAddress,
		Token:  session.AuthToken,
		Body: map[string]string{
			"user_id":       session.UserID,
			"name":          defaultAddressName,
			"address_line1": defaultAddressLine,
			"lat":           defaultAddressLat,
			"lng":           defaultAddressLng,
			"postal_code":   defaultPostalCode,
			"city":          defaultCity,
			"state":         defaultState,
		},
	})
	if err != nil {
		if !client.IsConflict(err) {
			return fmt.Errorf("add address: %w", err)
		}
		logger.Info("address already saved, adopting existing",
			zap.String("actor", string(session.Actor)))
		return o.adoptExistingAddress(ctx, session)
	}

	env, err := resp.Envelope()
	if err != nil {
		return err
	}
	var addr models.Address
	if err := env.Object(&addr); err != nil {
		return fmt.Errorf("parse saved address: %w", err)
	}
	applyAddress(session, addr)
	return nil
}

func (o *DefaultOrderService) adoptExistingAddress(ctx context.Context, session *models.CustomerSession) error {
	resp, err := o.Exec.Do(ctx, client.Request{
		Method: http.MethodGet,
		Path:   client.PathAddressByUser + session.UserID,
		Token:  session.AuthToken,
	})
	if err != nil {
		return fmt.Errorf("fetch saved addresses: %w", err)
	}

	env, err := resp.Envelope()
	if err != nil {
		return err
	}
	var addrs []models.Address
	if err := env.List(&addrs); err != nil {
		return fmt.Errorf("parse saved addresses: %w", err)
	}
	if len(addrs) == 0 {
		return fmt.Errorf("address conflict reported but the user has no saved addresses")
	}
	applyAddress(session, addrs[0])
	return nil
}

func applyAddress(session *models.CustomerSession, addr models.Address) {
	session.AddressID = addr.Identifier()
	session.AddressGUID = addr.GUID
	session.AddressName = addr.DisplayName()
	session.AddressLat, session.AddressLng = addr.Coordinates()
	if session.AddressLat == "" {
		session.AddressLat = defaultAddressLat
		session.AddressLng = defaultAddressLng
	}
}

// findSlot locates a center for the address and books nothing yet, only
// records the first open slot.
func (o *DefaultOrderService) findSlot(ctx context.Context, session *models.CustomerSession) error {
	centers, err := o.Slots.CentersForAddress(ctx, session.AuthToken, session.AddressLat, session.AddressLng)
	if err != nil {
		return err
	}
	if len(centers) == 0 {
		return fmt.Errorf("no collection centers serve address %s", session.AddressName)
	}

	center := centers[0]
	slot, err := o.Slots.FindFirstAvailable(ctx, session.AuthToken, center.GUID)
	if err != nil {
		return err
	}

	session.SlotGUID = slot.GUID
	session.SlotDate = slot.Date
	session.SlotTime = slot.StartTime
	return nil
}

// createOrder moves the cart into the payment gateway as a cash-on-delivery
// order.
func (o *DefaultOrderService) createOrder(ctx context.Context, session *models.CustomerSession) error {
	resp, err := o.Exec.Do(ctx, client.Request{
		Method: http.MethodPost,
		Path:   client.PathCreateOrder,
		Token:  session.AuthToken,
		Body: map[string]interface{}{
			"user_id":      session.UserID,
			"cart_guid":    session.CartGUID,
			"payment_type": "COD",
			"amount":       session.TotalAmount,
		},
	})
	if err != nil {
		return fmt.Errorf("create order: %w", err)
	}

	env, err := resp.Envelope()
	if err != nil {
		return err
	}
	var reply struct {
		PaymentGUID string `json:"payment_guid"`
		OrderGUID   string `json:"order_guid"`
	}
	if env.HasData() {
		if err := env.Object(&reply); err != nil {
			return fmt.Errorf("parse create order reply: %w", err)
		}
	}
	session.PaymentGUID = reply.PaymentGUID
	session.OrderGUID = reply.OrderGUID
	return nil
}

// verifyPayment confirms the gateway accepted the order. A reply with no
// data, or with null identifiers, means the order never materialized and
// nothing downstream can run.
func (o *DefaultOrderService) verifyPayment(ctx context.Context, session *models.CustomerSession) error {
	resp, err := o.Exec.Do(ctx, client.Request{
		Method: http.MethodPost,
		Path:   client.PathVerifyPayment,
		Token:  session.AuthToken,
		Body: map[string]string{
			"user_id":      session.UserID,
			"payment_guid": session.PaymentGUID,
		},
	})
	if err != nil {
		return fmt.Errorf("verify payment: %w", err)
	}

	env, err := resp.Envelope()
	if err != nil {
		return err
	}
	if !env.HasData() {
		return &HardStopError{Step: "verify payment", Reason: "gateway returned no payment data"}
	}

	var reply struct {
		PaymentGUID string `json:"payment_guid"`
		OrderGUID   string `json:"order_guid"`
	}
	if err := env.Object(&reply); err != nil {
		return fmt.Errorf("parse verify payment reply: %w", err)
	}
	if reply.PaymentGUID == "" || reply.OrderGUID == "" {
		return &HardStopError{Step: "verify payment", Reason: "payment or order guid missing from gateway reply"}
	}

	session.PaymentGUID = reply.PaymentGUID
	session.OrderGUID = reply.OrderGUID

	utils.GetLogger().Info("payment verified",
		zap.String("actor", string(session.Actor)),
		zap.String("payment_guid", session.PaymentGUID),
		zap.String("order_guid", session.OrderGUID))
	return nil
}

func (o *DefaultOrderService) phleboLogin(ctx context.Context, session *models.CustomerSession) error {
	cfg := config.AppConfig
	token, guid, err := o.Auth.LoginPhlebotomist(ctx, cfg.PhleboMobile, cfg.PhleboPassword)
	if err != nil {
		return err
	}
	session.PhleboToken = token
	session.PhleboGUID = guid
	return nil
}
