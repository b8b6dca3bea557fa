package spice

import (
	"context"
	"errors"
	"fmt"
	"math"
	"testing"
	"time"

	"github.com/five82/pocketspice/internal/httpclient"
	"github.com/five82/pocketspice/internal/keystore"
)

func TestMockPaginationShapesNextAndPrevious(t *testing.T) {
	m := NewMock(nil)
	ctx := context.Background()

	tests := []struct {
		name      string
		page      *int
		size      *int
		wantIDs   []int64
		wantNext  string
		wantPrev  string
		wantCount int
	}{
		{"defaults", nil, nil, []int64{1, 2, 3}, "", "", 3},
		{"first of two", Int(1), Int(2), []int64{1, 2}, "?page=2&page_size=2", "", 3},
		{"second of two", Int(2), Int(2), []int64{3}, "", "?page=1&page_size=2", 3},
		{"past the end", Int(5), Int(2), nil, "", "?page=4&page_size=2", 3},
		{"size capped", Int(1), Int(500), []int64{1, 2, 3}, "", "", 3},
		{"huge page", Int(math.MaxInt/10 + 2), Int(10), nil, "", fmt.Sprintf("?page=%d&page_size=10", math.MaxInt/10+1), 3},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			page, err := m.Recipes(ctx, ListParams{Page: tt.page, PageSize: tt.size})
			if err != nil {
				t.Fatalf("Recipes returned error: %v", err)
			}
			if page.Count != tt.wantCount {
				t.Fatalf("Count = %d, want %d", page.Count, tt.wantCount)
			}
			var ids []int64
			for _, r := range page.Results {
				ids = append(ids, r.ID)
			}
			if len(ids) != len(tt.wantIDs) {
				t.Fatalf("ids = %v, want %v", ids, tt.wantIDs)
			}
			for i := range ids {
				if ids[i] != tt.wantIDs[i] {
					t.Fatalf("ids = %v, want %v", ids, tt.wantIDs)
				}
			}
			if got := deref(page.Next); got != tt.wantNext {
				t.Fatalf("Next = %q, want %q", got, tt.wantNext)
			}
			if got := deref(page.Previous); got != tt.wantPrev {
				t.Fatalf("Previous = %q, want %q", got, tt.wantPrev)
			}
		})
	}
}

func TestMockSearchIsCaseInsensitive(t *testing.T) {
	m := NewMock(nil)
	page, err := m.SearchRecipes(context.Background(), SearchParams{Q: String("RISOTTO")})
	if err != nil {
		t.Fatalf("SearchRecipes returned error: %v", err)
	}
	if page.Count != 1 || page.Results[0].Title != "Creamy Mushroom Risotto" {
		t.Fatalf("search results = %#v, want the risotto", page.Results)
	}

	all, err := m.SearchRecipes(context.Background(), SearchParams{Q: String("  ")})
	if err != nil {
		t.Fatalf("SearchRecipes returned error: %v", err)
	}
	if all.Count != 3 {
		t.Fatalf("blank search Count = %d, want 3", all.Count)
	}
}

func TestMockCategoryFilter(t *testing.T) {
	m := NewMock(nil)
	page, err := m.RecipesByCategory(context.Background(), CategoryParams{Category: "salad"})
	if err != nil {
		t.Fatalf("RecipesByCategory returned error: %v", err)
	}
	if page.Count != 1 || page.Results[0].ID != 3 {
		t.Fatalf("category results = %#v, want recipe 3", page.Results)
	}
}

func TestMockRecipeDetailAndNotFound(t *testing.T) {
	m := NewMock(nil)
	detail, err := m.Recipe(context.Background(), 1)
	if err != nil {
		t.Fatalf("Recipe returned error: %v", err)
	}
	if len(detail.Instructions) != 3 || len(detail.RecipeIngredients) != 2 {
		t.Fatalf("detail = %#v, want 3 steps and 2 ingredients", detail)
	}
	if detail.ParsedCreatedAt().IsZero() {
		t.Fatalf("CreatedAt %q did not parse", detail.CreatedAt)
	}

	_, err = m.Recipe(context.Background(), 99)
	if !httpclient.IsNotFound(err) {
		t.Fatalf("Recipe(99) error = %v, want 404", err)
	}
}

func TestMockAuthUsesKeystore(t *testing.T) {
	store := keystore.NewMemory(nil)
	m := NewMock(store)
	ctx := context.Background()

	if _, err := m.CurrentUser(ctx); !httpclient.IsUnauthorized(err) {
		t.Fatalf("CurrentUser without token error = %v, want 401", err)
	}

	resp, err := m.Login(ctx, LoginRequest{Username: "chef", Password: "pw"})
	if err != nil {
		t.Fatalf("Login returned error: %v", err)
	}
	if resp.Access != MockAccessToken || resp.Refresh != MockRefreshToken {
		t.Fatalf("tokens = %q/%q", resp.Access, resp.Refresh)
	}
	m.SetToken(resp.Access)
	if v, ok, _ := store.Get(keystore.AccessTokenKey); !ok || v != MockAccessToken {
		t.Fatalf("stored token = %q (ok=%v)", v, ok)
	}

	user, err := m.CurrentUser(ctx)
	if err != nil {
		t.Fatalf("CurrentUser returned error: %v", err)
	}
	if user.Username != "chef" {
		t.Fatalf("Username = %q, want chef", user.Username)
	}

	reopened := NewMock(store)
	if reopened.Token() != MockAccessToken {
		t.Fatalf("reopened token = %q, want persisted mock token", reopened.Token())
	}

	m.SetToken("")
	if _, ok, _ := store.Get(keystore.AccessTokenKey); ok {
		t.Fatalf("token still stored after clear")
	}
}

func TestMockLoginRejectsEmptyCredentials(t *testing.T) {
	m := NewMock(nil)
	_, err := m.Login(context.Background(), LoginRequest{Username: "chef"})
	if status, ok := httpclient.StatusOf(err); !ok || status != 400 {
		t.Fatalf("Login error = %v, want 400", err)
	}
}

func TestMockRegisterPasswordMismatch(t *testing.T) {
	m := NewMock(nil)
	_, err := m.Register(context.Background(), RegisterRequest{Username: "a", Password: "x", PasswordConfirm: "y"})
	if status, ok := httpclient.StatusOf(err); !ok || status != 400 {
		t.Fatalf("Register error = %v, want 400", err)
	}
}

func TestMockCreateRequiresSessionAndAppends(t *testing.T) {
	m := NewMock(nil)
	ctx := context.Background()
	recipe := RecipeCreate{
		Title:               "Pancakes",
		PreparationDuration: 20,
		Category:            "Breakfast",
		Ingredients:         []IngredientInput{{Name: "Flour", Quantity: "200g"}},
		Instructions:        []InstructionInput{{StepNumber: 1, Content: "Whisk."}},
	}

	if _, err := m.CreateRecipe(ctx, recipe); !httpclient.IsUnauthorized(err) {
		t.Fatalf("CreateRecipe without session error = %v, want 401", err)
	}

	m.SetToken(MockAccessToken)
	got, err := m.CreateRecipe(ctx, recipe)
	if err != nil {
		t.Fatalf("CreateRecipe returned error: %v", err)
	}
	if got.Title != "Pancakes" {
		t.Fatalf("CreateRecipe echoed %#v", got)
	}
	page, _ := m.RecipesByCategory(ctx, CategoryParams{Category: "breakfast"})
	if page.Count != 1 || page.Results[0].ID != 4 {
		t.Fatalf("created recipe not listed: %#v", page)
	}
}

func TestMockMatchPrefersIngredientOverlap(t *testing.T) {
	m := NewMock(nil)
	res, err := m.MatchRecipe(context.Background(), "mushrooms, PARMESAN")
	if err != nil {
		t.Fatalf("MatchRecipe returned error: %v", err)
	}
	if res.Recipe.ID != 2 || res.Count != 1 || res.Justification == "" {
		t.Fatalf("match = %#v, want risotto", res)
	}

	res, err = m.MatchRecipe(context.Background(), "chocolate")
	if err != nil {
		t.Fatalf("MatchRecipe returned error: %v", err)
	}
	if res.Recipe.ID != 1 {
		t.Fatalf("fallback match = %d, want 1", res.Recipe.ID)
	}
}

func TestMockLatencyHonoursContext(t *testing.T) {
	m := NewMock(nil, WithLatency(time.Hour))
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	if _, err := m.Recipes(ctx, ListParams{}); !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("Recipes error = %v, want deadline exceeded", err)
	}
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
