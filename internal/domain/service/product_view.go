package service

import (
	"sort"

	"marketcore/internal/domain/entity"
	"marketcore/pkg/locale"
)

// ComputeView derives the ordered product listing for the given filter
// parameters. The input slice is never modified; the result holds the same
// pointers in a new slice and is empty, not nil, when nothing matches.
// Only an empty query or category disables that filter; whitespace is
// matched literally.
func ComputeView(products []*entity.Product, query, category string, sortKey entity.SortKey) []*entity.Product {
	view := make([]*entity.Product, 0, len(products))
	for _, p := range products {
		if p == nil {
			continue
		}
		if !MatchesQuery(p, query) || !MatchesCategory(p, category) {
			continue
		}
		view = append(view, p)
	}

	sort.SliceStable(view, comparator(view, sortKey))
	return view
}

// ComputeViewState is ComputeView driven by a FilterState.
func ComputeViewState(products []*entity.Product, state entity.FilterState) []*entity.Product {
	return ComputeView(products, state.Query, state.Category, state.Sort)
}

// MatchesQuery is a caseless substring match against title or description.
func MatchesQuery(p *entity.Product, query string) bool {
	if query == "" {
		return true
	}
	return locale.ContainsFold(p.Title, query) || locale.ContainsFold(p.Description, query)
}

// MatchesCategory is a caseless exact match on the category.
func MatchesCategory(p *entity.Product, category string) bool {
	if category == "" {
		return true
	}
	return locale.EqualFold(p.Category, category)
}

func comparator(view []*entity.Product, key entity.SortKey) func(i, j int) bool {
	switch key {
	case entity.SortPriceLow:
		return func(i, j int) bool { return view[i].Price < view[j].Price }
	case entity.SortPriceHigh:
		return func(i, j int) bool { return view[i].Price > view[j].Price }
	case entity.SortFeatured:
		// Featured first; within a group newest first, then catalog order.
		return func(i, j int) bool {
			if view[i].Featured != view[j].Featured {
				return view[i].Featured
			}
			return view[i].CreatedAt.After(view[j].CreatedAt)
		}
	default:
		return func(i, j int) bool { return view[i].CreatedAt.After(view[j].CreatedAt) }
	}
}
