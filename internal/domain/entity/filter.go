package entity

import "strings"

type SortKey string

const (
	SortNewest    SortKey = "newest"
	SortPriceLow  SortKey = "price-low"
	SortPriceHigh SortKey = "price-high"
	SortFeatured  SortKey = "featured"
)

// ParseSortKey maps a user supplied value onto a known sort key. Anything
// unrecognised sorts by newest.
func ParseSortKey(s string) SortKey {
	switch SortKey(strings.ToLower(strings.TrimSpace(s))) {
	case SortPriceLow:
		return SortPriceLow
	case SortPriceHigh:
		return SortPriceHigh
	case SortFeatured:
		return SortFeatured
	default:
		return SortNewest
	}
}

// FilterState is the set of parameters the product listing is derived from.
type FilterState struct {
	Query    string  `json:"query"`
	Category string  `json:"category"`
	Sort     SortKey `json:"sort"`
}
