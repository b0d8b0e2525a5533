package order

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"labprobe/config"
	"labprobe/models"
	"labprobe/services/catalog"
	"labprobe/utils"
)

// stepPolicy controls how a step failure affects the rest of the flow.
type stepPolicy int

const (
	// policyFatal ends the flow on failure.
	policyFatal stepPolicy = iota
	// policySkippable logs the failure and moves on.
	policySkippable
)

type step struct {
	name   string
	policy stepPolicy
	run    func(ctx context.Context, session *models.CustomerSession) error
}

// Run drives the actor through the whole order flow. The flow is a fixed
// sequence of steps; each step reads and extends the session. The cart
// reconciliation step may end the flow early and successfully when the cart
// total reaches the cash-on-delivery ceiling.
func (o *DefaultOrderService) Run(ctx context.Context, actor models.ActorType, products []string) *Result {
	logger := utils.GetLogger()

	ctx, cancel := context.WithTimeout(ctx, config.SagaDeadline())
	defer cancel()

	session := models.NewCustomerSession(actor)
	result := &Result{Actor: actor, Outcome: OutcomeCompleted}

	steps := []step{
		{"login", policyFatal, func(ctx context.Context, s *models.CustomerSession) error {
			return o.login(ctx, s)
		}},
		{"verify membership", policySkippable, o.Auth.VerifyMembership},
		{"resolve directory", policyFatal, o.resolveDirectory},
		{"resolve products", policyFatal, func(ctx context.Context, s *models.CustomerSession) error {
			return o.Catalog.ResolveProducts(ctx, s, products, catalog.Filter{
				LocationID: s.LabLocationID,
				BrandID:    s.BrandID,
			})
		}},
		{"clear cart", policyFatal, o.clearCart},
		{"build cart", policyFatal, o.buildCart},
		{"reconcile cart", policyFatal, o.reconcileCart(result)},
		{"add address", policyFatal, o.addAddress},
		{"find slot", policyFatal, o.findSlot},
		{"attach slot to cart", policyFatal, o.attachSlot},
		{"create order", policyFatal, o.createOrder},
		{"verify payment", policyFatal, o.verifyPayment},
		{"cross validate", policyFatal, o.crossValidate},
		{"phlebotomist login", policyFatal, o.phleboLogin},
		{"assign order", policyFatal, o.assignOrder},
		{"await assignment", policyFatal, func(ctx context.Context, s *models.CustomerSession) error {
			return o.awaitStatus(ctx, s, models.StatusPhlebotomistAssigned)
		}},
		{"start pickup", policyFatal, o.startPickup},
		{"await pickup", policyFatal, func(ctx context.Context, s *models.CustomerSession) error {
			return o.awaitStatus(ctx, s, models.StatusInProgress)
		}},
		{"verify assignment", policySkippable, o.verifyAssignment},
		{"verify collection otp", policyFatal, o.adminVerifyOTP},
		{"pick sample type", policyFatal, o.pickSampleType},
		{"collect samples", policyFatal, o.collectSamples},
		{"confirm collection", policyFatal, func(ctx context.Context, s *models.CustomerSession) error {
			return o.awaitStatus(ctx, s, models.StatusSamplesCollected)
		}},
	}

	for _, st := range steps {
		if err := ctx.Err(); err != nil {
			result.Outcome = OutcomeFailed
			result.FailedAt = st.name
			result.Err = err
			return result
		}

		logger.Info("flow step starting",
			zap.String("actor", string(actor)),
			zap.String("step", st.name))

		err := st.run(ctx, session)
		result.StepsRun = append(result.StepsRun, st.name)
		if err == nil {
			continue
		}

		if errors.Is(err, errCODLimit) {
			logger.Info("cart total at cash-on-delivery limit, flow ends here",
				zap.String("actor", string(actor)),
				zap.Int("total", session.TotalAmount))
			result.Outcome = OutcomeCODLimit
			return result
		}

		if st.policy == policySkippable {
			logger.Warn("flow step failed, continuing",
				zap.String("actor", string(actor)),
				zap.String("step", st.name),
				zap.Error(err))
			continue
		}

		logger.Error("flow step failed",
			zap.String("actor", string(actor)),
			zap.String("step", st.name),
			zap.Error(err))
		result.Outcome = OutcomeFailed
		result.FailedAt = st.name
		result.Err = err
		return result
	}

	logger.Info("order flow completed",
		zap.String("actor", string(actor)),
		zap.String("order_guid", session.OrderGUID))
	return result
}

func (o *DefaultOrderService) login(ctx context.Context, session *models.CustomerSession) error {
	cfg := config.AppConfig
	switch session.Actor {
	case models.ActorMember:
		return o.Auth.LoginWithOTP(ctx, session, cfg.MemberMobile)
	case models.ActorNewUser:
		return o.Auth.RegisterNewUser(ctx, session)
	default:
		return o.Auth.LoginWithOTP(ctx, session, cfg.NonMemberMobile)
	}
}

// resolveDirectory pins the run to a location and, when configured, a brand.
// The location is mandatory; a missing brand only narrows nothing.
func (o *DefaultOrderService) resolveDirectory(ctx context.Context, session *models.CustomerSession) error {
	loc, err := o.Directory.LocationByName(ctx, config.AppConfig.DefaultLocation)
	if err != nil {
		return err
	}
	id := loc.GUID
	if id == "" {
		id = loc.ID
	}
	session.LabLocationID = id

	if name := config.AppConfig.DefaultBrand; name != "" {
		brand, err := o.Directory.BrandByName(ctx, name)
		if err != nil {
			utils.GetLogger().Warn("brand not found, searching without one",
				zap.String("brand", name), zap.Error(err))
			return nil
		}
		session.BrandID = brand.GUID
	}
	return nil
}
