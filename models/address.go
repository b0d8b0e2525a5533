package models

// Address is a saved customer address.
type Address struct {
	ID           FlexString `json:"id"`
	GUID         string     `json:"guid"`
	MongoID      string     `json:"_id"`
	Name         string     `json:"name"`
	AddressLine1 string     `json:"address_line1"`
	AddressText  string     `json:"address"`
	Lat          FlexString `json:"lat"`
	Lng          FlexString `json:"lng"`
	Latitude     FlexString `json:"latitude"`
	Longitude    FlexString `json:"longitude"`
	PostalCode   FlexString `json:"postal_code"`
	City         string     `json:"city"`
	State        string     `json:"state"`
}

// Identifier returns the numeric id when present, falling back to the guid
// and then the raw document id.
func (a Address) Identifier() string {
	if a.ID != "" {
		return a.ID.String()
	}
	if a.GUID != "" {
		return a.GUID
	}
	return a.MongoID
}

// DisplayName picks the first usable label for the address.
func (a Address) DisplayName() string {
	for _, n := range []string{a.Name, a.AddressLine1, a.AddressText} {
		if n != "" {
			return n
		}
	}
	return ""
}

// Coordinates returns lat/lng, tolerating the backend's alternate field names.
func (a Address) Coordinates() (string, string) {
	lat := a.Lat.String()
	if lat == "" {
		lat = a.Latitude.String()
	}
	lng := a.Lng.String()
	if lng == "" {
		lng = a.Longitude.String()
	}
	return lat, lng
}
