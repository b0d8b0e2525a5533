package models

// ActorType identifies one of the customer personas driven through the order flow.
type ActorType string

const (
	ActorMember    ActorType = "MEMBER"
	ActorNonMember ActorType = "NON_MEMBER"
	ActorNewUser   ActorType = "NEW_USER"
)

// CustomerSession carries all per-actor mutable state for one order flow run.
// It is constructed at login and threaded explicitly through every saga step;
// there is no global registry.
type CustomerSession struct {
	Actor ActorType

	AuthToken string
	UserID    string
	FirstName string
	LastName  string
	Mobile    string

	IsMember bool

	CartGUID      string
	CartNumericID string
	TotalAmount   int
	OrderType     string
	LabLocationID string
	BrandID       string

	AddressID   string
	AddressGUID string
	AddressName string
	AddressLat  string
	AddressLng  string

	SlotGUID string
	SlotDate string
	SlotTime string

	PaymentGUID string
	OrderGUID   string

	PhleboGUID  string
	PhleboToken string
	TrackingID  string
	SampleType  string

	// Catalog items keyed by the canonical (matched) backend name.
	Items map[string]CatalogItem
}

// NewCustomerSession returns an empty session for the given actor.
func NewCustomerSession(actor ActorType) *CustomerSession {
	return &CustomerSession{
		Actor: actor,
		Items: make(map[string]CatalogItem),
	}
}

// StoreItem records a matched catalog item under its canonical name. Storing
// under the matched name rather than the query avoids duplicate cart entries
// when the two differ.
func (s *CustomerSession) StoreItem(canonicalName string, item CatalogItem) {
	s.Items[canonicalName] = item
}
