package pricing

import "fmt"

// Severity grades a pricing finding.
type Severity string

const (
	SeverityWarning Severity = "warning"
	SeverityFatal   Severity = "fatal"
)

// Defect codes.
const (
	CodeZeroPricedEligible  = "zero_priced_eligible"
	CodePricedIneligible    = "priced_ineligible"
	CodeMissingBasePrice    = "missing_base_price"
	CodeMissingMemberPrice  = "missing_member_price"
	CodeMemberPriceMismatch = "member_price_mismatch"
	CodeTotalMismatch       = "total_mismatch"
	CodeRemoteTotalZero     = "remote_total_zero"
	CodeFeeMismatch         = "delivery_fee_mismatch"
	CodeMembershipFlag      = "membership_flag_mismatch"
)

// Defect is one pricing finding on a cart.
type Defect struct {
	Code     string
	Severity Severity
	Product  string
	Message  string
}

func (d Defect) String() string {
	return fmt.Sprintf("[%s] %s: %s", d.Severity, d.Code, d.Message)
}

// ItemClass says what the reconciler did with a cart line.
type ItemClass string

const (
	ClassIncluded ItemClass = "included"
	ClassSkipped  ItemClass = "skipped"
)

// ItemVerdict is the per-line outcome.
type ItemVerdict struct {
	ProductID  string
	Name       string
	Class      ItemClass
	SkipReason string
	UnitPrice  int
	Quantity   int
	LineTotal  int
}

// Report is the full reconciliation outcome for one cart.
type Report struct {
	Items []ItemVerdict

	Subtotal       int
	DeliveryFee    int
	ExpectedTotal  int
	RemoteTotal    int
	ItemsWithPrice int

	Defects  []Defect
	Warnings []Defect
}

// Fatal reports whether the reconciliation found at least one fatal defect.
func (r *Report) Fatal() bool {
	return len(r.Defects) > 0
}

// Included counts the lines that contributed to the subtotal.
func (r *Report) Included() int {
	n := 0
	for _, it := range r.Items {
		if it.Class == ClassIncluded {
			n++
		}
	}
	return n
}

// Skipped counts the lines excluded from pricing.
func (r *Report) Skipped() int {
	return len(r.Items) - r.Included()
}

func (r *Report) addDefect(d Defect) {
	if d.Severity == SeverityFatal {
		r.Defects = append(r.Defects, d)
		return
	}
	r.Warnings = append(r.Warnings, d)
}

// DefectError wraps a report whose reconciliation failed.
type DefectError struct {
	Report *Report
}

func (e *DefectError) Error() string {
	return fmt.Sprintf("cart reconciliation failed with %d defect(s), first: %s",
		len(e.Report.Defects), e.Report.Defects[0])
}
