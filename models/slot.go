package models

// Slot is one bookable collection window at a center.
type Slot struct {
	GUID      string  `json:"guid"`
	Date      string  `json:"date"`
	StartTime string  `json:"starttime"`
	EndTime   string  `json:"endtime"`
	Count     FlexInt `json:"count"`
}

// Available reports whether the slot still has capacity.
func (s Slot) Available() bool { return s.Count.Int() > 0 }

// Center is a collection center serving an address.
type Center struct {
	GUID string     `json:"guid"`
	ID   FlexString `json:"id"`
	Name string     `json:"name"`
}
