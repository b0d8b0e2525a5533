package models

import "strings"

// CatalogItem is one searchable, priced product from the global test catalog.
type CatalogItem struct {
	ProductID       string   `json:"_id"`
	TestID          string   `json:"test_id"`
	TestName        string   `json:"test_name"`
	ProductName     string   `json:"product_name"`
	Name            string   `json:"name"`
	Title           string   `json:"title"`
	Slug            string   `json:"slug"`
	Type            string   `json:"Type"`
	Status          string   `json:"status"`
	Price           *FlexInt `json:"price"`
	OriginalPrice   *FlexInt `json:"original_price"`
	MembershipPrice *FlexInt `json:"membershipPrice"`
	DiscountRate    *FlexInt `json:"discount_rate"`
	HomeCollection  FlexBool `json:"home_collection"`
	Locations       []string `json:"locations"`
	Genders         []string `json:"genders"`
	SearchKeywords  []string `json:"search_keywords"`
	OtherNames      []string `json:"other_names"`
}

// DisplayName returns the best available human name for the item. The backend
// sometimes leaves test_name null and fills one of the alternates, or only the
// slug.
func (c CatalogItem) DisplayName() string {
	for _, n := range []string{c.TestName, c.ProductName, c.Name, c.Title} {
		if n != "" {
			return n
		}
	}
	if c.Slug != "" {
		return titleFromSlug(c.Slug)
	}
	return ""
}

// EligibleForLocation reports whether the item is sold at the given location.
// An empty location list cannot be verified and is treated as eligible.
func (c CatalogItem) EligibleForLocation(locationID string) bool {
	if len(c.Locations) == 0 {
		return true
	}
	for _, id := range c.Locations {
		if id == locationID {
			return true
		}
	}
	return false
}

func titleFromSlug(slug string) string {
	s := strings.NewReplacer("-", " ", "_", " ").Replace(slug)
	words := strings.Fields(s)
	for i, w := range words {
		words[i] = strings.ToUpper(w[:1]) + strings.ToLower(w[1:])
	}
	return strings.Join(words, " ")
}
