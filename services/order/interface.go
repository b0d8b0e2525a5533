package order

import (
	"context"

	"labprobe/client"
	"labprobe/models"
	"labprobe/services/auth"
	"labprobe/services/catalog"
	"labprobe/services/directory"
	"labprobe/services/pricing"
	"labprobe/services/slots"
)

// Outcome summarizes how a flow run ended.
type Outcome string

const (
	OutcomeCompleted Outcome = "completed"
	OutcomeCODLimit  Outcome = "cod_limit_exceeded"
	OutcomeFailed    Outcome = "failed"
)

// Result is the final report of one actor's order flow.
type Result struct {
	Actor     models.ActorType
	Outcome   Outcome
	StepsRun  []string
	FailedAt  string
	Err       error
	Reconcile *pricing.Report
}

// OrderService drives a customer through the full cash-on-delivery order
// flow: login, cart, address, slot, payment, phlebotomist assignment, and
// sample collection.
type OrderService interface {
	Run(ctx context.Context, actor models.ActorType, products []string) *Result
}

// DefaultOrderService is the production implementation.
type DefaultOrderService struct {
	Exec      client.Executor
	Auth      auth.AuthService
	Catalog   catalog.CatalogService
	Directory directory.DirectoryService
	Slots     slots.SlotService
	Pricing   pricing.PricingService
}
