package models

import "strings"

// TrackingStatus is a normalized order tracking state. The backend reports
// these with inconsistent casing, spacing, and stray brackets, so all
// comparisons go through NormalizeStatus.
type TrackingStatus string

const (
	StatusCreated              TrackingStatus = "created"
	StatusPhlebotomistAssigned TrackingStatus = "phlebotomist_assigned"
	StatusInProgress           TrackingStatus = "inprogress"
	StatusOtpVerified          TrackingStatus = "otp_verified"
	StatusSamplesCollected     TrackingStatus = "samples_collected"
)

// statusOrder defines the forward progression of an order.
var statusOrder = map[TrackingStatus]int{
	StatusCreated:              0,
	StatusPhlebotomistAssigned: 1,
	StatusInProgress:           2,
	StatusOtpVerified:          3,
	StatusSamplesCollected:     4,
}

// statusAliases folds spelling variants the backend emits into their
// canonical lifecycle state.
var statusAliases = map[TrackingStatus]TrackingStatus{
	"sample_collected": StatusSamplesCollected,
}

// NormalizeStatus lowercases a raw status, converts spaces to underscores,
// strips bracket characters, and folds known spelling variants.
func NormalizeStatus(raw string) TrackingStatus {
	s := strings.ToLower(strings.TrimSpace(raw))
	s = strings.NewReplacer("[", "", "]", "", "(", "", ")", "").Replace(s)
	s = strings.Join(strings.Fields(s), "_")
	status := TrackingStatus(s)
	if canonical, ok := statusAliases[status]; ok {
		return canonical
	}
	return status
}

// Known reports whether the status is one of the recognized lifecycle states.
func (t TrackingStatus) Known() bool {
	_, ok := statusOrder[t]
	return ok
}

// AtLeast reports whether the status has reached want in the order lifecycle.
// Unknown statuses never satisfy a known target.
func (t TrackingStatus) AtLeast(want TrackingStatus) bool {
	got, ok := statusOrder[t]
	if !ok {
		return false
	}
	return got >= statusOrder[want]
}

// OrderTrackingRecord is one row from the order tracking feed.
type OrderTrackingRecord struct {
	GUID       string     `json:"guid"`
	OrderGUID  string     `json:"order_guid"`
	Status     string     `json:"status"`
	PhleboGUID string     `json:"phlebo_guid"`
	PickupLat  FlexString `json:"pickup_lat"`
	PickupLng  FlexString `json:"pickup_lng"`
	CurrentLat FlexString `json:"current_lat"`
	CurrentLng FlexString `json:"current_lng"`
	SampleType string     `json:"sample_type"`
	UpdatedAt  string     `json:"updated_at"`
}

// NormalizedStatus returns the record's status in canonical form.
func (r OrderTrackingRecord) NormalizedStatus() TrackingStatus {
	return NormalizeStatus(r.Status)
}
