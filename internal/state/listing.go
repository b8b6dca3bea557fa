package state

import (
	"context"
	"fmt"
	"strings"

	"github.com/five82/pocketspice/internal/spice"
)

// Mode selects which endpoint backs a listing.
type Mode int

const (
	ModeAll Mode = iota
	ModeSearch
	ModeCategory
)

func (m Mode) String() string {
	switch m {
	case ModeSearch:
		return "search"
	case ModeCategory:
		return "category"
	default:
		return "all"
	}
}

// Listing describes one page of recipes. Zero Page and PageSize leave the
// choice to the server.
type Listing struct {
	Mode     Mode
	Query    string
	Category string
	Page     int
	PageSize int
}

// Title is a short label for headers.
func (l Listing) Title() string {
	switch l.Mode {
	case ModeSearch:
		return fmt.Sprintf("Search: %q", l.Query)
	case ModeCategory:
		return "Category: " + l.Category
	default:
		return "All recipes"
	}
}

// CurrentPage returns Page, treating zero as the first page.
func (l Listing) CurrentPage() int {
	if l.Page < 1 {
		return 1
	}
	return l.Page
}

// WithPage returns a copy of l on page n.
func (l Listing) WithPage(n int) Listing {
	if n < 1 {
		n = 1
	}
	l.Page = n
	return l
}

// Fetch loads the page described by l from api.
func Fetch(ctx context.Context, api spice.API, l Listing) (spice.RecipePage, error) {
	var page, size *int
	if l.Page > 0 {
		page = spice.Int(l.Page)
	}
	if l.PageSize > 0 {
		size = spice.Int(l.PageSize)
	}

	switch l.Mode {
	case ModeSearch:
		var q *string
		if trimmed := strings.TrimSpace(l.Query); trimmed != "" {
			q = spice.String(trimmed)
		}
		return api.SearchRecipes(ctx, spice.SearchParams{Q: q, Page: page, PageSize: size})
	case ModeCategory:
		return api.RecipesByCategory(ctx, spice.CategoryParams{Category: l.Category, Page: page, PageSize: size})
	default:
		return api.Recipes(ctx, spice.ListParams{Page: page, PageSize: size})
	}
}

// Load fetches l and records the outcome in s.
func (s *Store) Load(ctx context.Context, api spice.API, l Listing) error {
	s.BeginLoad()
	page, err := Fetch(ctx, api, l)
	if err != nil {
		s.Fail(err)
		return err
	}
	s.UpdatePage(l, page)
	return nil
}

// LoadDetail fetches one recipe and records it in s.
func (s *Store) LoadDetail(ctx context.Context, api spice.API, id int64) error {
	s.BeginLoad()
	detail, err := api.Recipe(ctx, id)
	if err != nil {
		s.Fail(err)
		return err
	}
	s.UpdateDetail(detail)
	return nil
}

// LoadMatch runs the ingredient matcher and records the result in s.
func (s *Store) LoadMatch(ctx context.Context, api spice.API, ingredients string) error {
	s.BeginLoad()
	match, err := api.MatchRecipe(ctx, ingredients)
	if err != nil {
		s.Fail(err)
		return err
	}
	s.UpdateMatch(match)
	return nil
}
