package spice

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/text/cases"

	"github.com/five82/pocketspice/internal/httpclient"
	"github.com/five82/pocketspice/internal/keystore"
)

// Mock tokens handed out by MockClient's auth calls.
const (
	MockAccessToken  = "mock_access_token"
	MockRefreshToken = "mock_refresh_token"
)

const (
	defaultPageSize = 10
	maxPageSize     = 100

	matchJustification = "With your ingredients, this recipe is a perfect match! Check you have the right amounts, and you're ready to cook."
)

// Ensure MockClient implements API at compile time.
var _ API = (*MockClient)(nil)

// MockClient serves a small fixed fixture set without touching the network.
// Tokens are still mirrored into the keystore so session handling behaves
// the same as against the real backend.
type MockClient struct {
	store   keystore.Store
	logger  zerolog.Logger
	latency time.Duration

	mu       sync.RWMutex
	token    string
	username string
	recipes  []RecipeDetail
	nextID   int64
}

// MockOption configures a MockClient.
type MockOption func(*MockClient)

// WithLatency delays every call by d, honouring context cancellation.
func WithLatency(d time.Duration) MockOption {
	return func(m *MockClient) {
		if d > 0 {
			m.latency = d
		}
	}
}

// WithMockLogger attaches a logger.
func WithMockLogger(l zerolog.Logger) MockOption {
	return func(m *MockClient) {
		m.logger = l.With().Str("component", "mock").Logger()
	}
}

// NewMock returns a MockClient seeded with the fixture recipes. Any access
// token already in store is picked up.
func NewMock(store keystore.Store, opts ...MockOption) *MockClient {
	if store == nil {
		store = keystore.NewMemory(nil)
	}
	m := &MockClient{
		store:   store,
		logger:  zerolog.Nop(),
		recipes: fixtureRecipes(),
	}
	for _, opt := range opts {
		opt(m)
	}
	m.nextID = int64(len(m.recipes)) + 1

	token, ok, err := store.Get(keystore.AccessTokenKey)
	switch {
	case err != nil:
		m.logger.Warn().Err(err).Msg("load persisted access token")
	case ok:
		m.token = strings.TrimSpace(token)
	}
	return m
}

// Token returns the current session token.
func (m *MockClient) Token() string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.token
}

// SetToken replaces the session token and mirrors it into the keystore.
func (m *MockClient) SetToken(token string) {
	token = strings.TrimSpace(token)

	m.mu.Lock()
	defer m.mu.Unlock()

	m.token = token
	var err error
	if token != "" {
		err = m.store.Set(keystore.AccessTokenKey, token)
	} else {
		err = m.store.Remove(keystore.AccessTokenKey)
	}
	if err != nil {
		m.logger.Error().Err(err).Bool("clear", token == "").Msg("persist access token")
	}
}

// Recipes pages through all fixture recipes.
func (m *MockClient) Recipes(ctx context.Context, params ListParams) (RecipePage, error) {
	if err := m.wait(ctx); err != nil {
		return RecipePage{}, err
	}
	return paginate(m.summaries(nil), params.Page, params.PageSize), nil
}

// Recipe returns one fixture recipe or a 404 error.
func (m *MockClient) Recipe(ctx context.Context, id int64) (RecipeDetail, error) {
	if err := m.wait(ctx); err != nil {
		return RecipeDetail{}, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, r := range m.recipes {
		if r.ID == id {
			return r, nil
		}
	}
	return RecipeDetail{}, mockError(http.StatusNotFound, fmt.Sprintf("/recipes/%d/", id), "Not found.")
}

// RecipesByCategory filters fixtures by category name, ignoring case.
func (m *MockClient) RecipesByCategory(ctx context.Context, params CategoryParams) (RecipePage, error) {
	if err := m.wait(ctx); err != nil {
		return RecipePage{}, err
	}
	want := fold(strings.TrimSpace(params.Category))
	if want == "" {
		return RecipePage{}, fmt.Errorf("category required")
	}
	items := m.summaries(func(r RecipeDetail) bool {
		return fold(r.Category.Name) == want
	})
	return paginate(items, params.Page, params.PageSize), nil
}

// SearchRecipes matches q as a case-insensitive substring of the title. A nil
// or blank q returns everything.
func (m *MockClient) SearchRecipes(ctx context.Context, params SearchParams) (RecipePage, error) {
	if err := m.wait(ctx); err != nil {
		return RecipePage{}, err
	}
	var match func(RecipeDetail) bool
	if params.Q != nil {
		if q := fold(strings.TrimSpace(*params.Q)); q != "" {
			match = func(r RecipeDetail) bool {
				return strings.Contains(fold(r.Title), q)
			}
		}
	}
	return paginate(m.summaries(match), params.Page, params.PageSize), nil
}

// CreateRecipe appends the recipe to the fixture set and echoes it back.
// Like the backend it requires a session.
func (m *MockClient) CreateRecipe(ctx context.Context, recipe RecipeCreate) (RecipeCreate, error) {
	if err := m.wait(ctx); err != nil {
		return RecipeCreate{}, err
	}
	if m.Token() == "" {
		return RecipeCreate{}, mockError(http.StatusUnauthorized, "/recipes/create/", "Authentication credentials were not provided.")
	}
	if strings.TrimSpace(recipe.Title) == "" {
		return RecipeCreate{}, mockError(http.StatusBadRequest, "/recipes/create/", `{"title":["This field is required."]}`)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	detail := RecipeDetail{
		ID:                  m.nextID,
		Title:               recipe.Title,
		Description:         recipe.Description,
		PreparationDuration: recipe.PreparationDuration,
		Servings:            recipe.Servings,
		Category:            Category{ID: m.nextID, Name: recipe.Category},
		CreatedAt:           time.Now().UTC().Format(time.RFC3339Nano),
	}
	for i, step := range recipe.Instructions {
		detail.Instructions = append(detail.Instructions, Instruction{
			ID:         int64(i + 1),
			StepNumber: step.StepNumber,
			Content:    step.Content,
		})
	}
	for i, ing := range recipe.Ingredients {
		detail.RecipeIngredients = append(detail.RecipeIngredients, RecipeIngredient{
			ID:         int64(i + 1),
			Ingredient: Ingredient{ID: int64(i + 1), Name: ing.Name},
			Quantity:   ing.Quantity,
		})
	}
	m.nextID++
	m.recipes = append(m.recipes, detail)
	return recipe, nil
}

// MatchRecipe picks the fixture whose ingredients overlap most with the
// comma separated list, falling back to the first recipe.
func (m *MockClient) MatchRecipe(ctx context.Context, ingredients string) (MatchResult, error) {
	if err := m.wait(ctx); err != nil {
		return MatchResult{}, err
	}
	if strings.TrimSpace(ingredients) == "" {
		return MatchResult{}, mockError(http.StatusBadRequest, "/recipes/ai-match/", "Please provide a list of ingredients.")
	}
	var wanted []string
	for _, part := range strings.Split(ingredients, ",") {
		if part = fold(strings.TrimSpace(part)); part != "" {
			wanted = append(wanted, part)
		}
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	best, bestScore := 0, -1
	for i, r := range m.recipes {
		score := 0
		for _, ri := range r.RecipeIngredients {
			name := fold(ri.Ingredient.Name)
			for _, w := range wanted {
				if strings.Contains(name, w) {
					score++
					break
				}
			}
		}
		if score > bestScore {
			best, bestScore = i, score
		}
	}
	return MatchResult{
		Count:         1,
		Recipe:        m.recipes[best].Summary(),
		Justification: matchJustification,
	}, nil
}

// Register returns mock tokens for any complete request.
func (m *MockClient) Register(ctx context.Context, req RegisterRequest) (AuthResponse, error) {
	if err := m.wait(ctx); err != nil {
		return AuthResponse{}, err
	}
	if strings.TrimSpace(req.Username) == "" || req.Password == "" {
		return AuthResponse{}, mockError(http.StatusBadRequest, "/auth/register/", "Username and password are required.")
	}
	if req.Password != req.PasswordConfirm {
		return AuthResponse{}, mockError(http.StatusBadRequest, "/auth/register/", `{"password":["Password fields didn't match."]}`)
	}
	user := User{
		ID:         1,
		Username:   req.Username,
		Email:      req.Email,
		FirstName:  req.FirstName,
		LastName:   req.LastName,
		DateJoined: time.Now().UTC().Format(time.RFC3339Nano),
	}
	m.rememberUser(req.Username)
	return AuthResponse{User: user, Access: MockAccessToken, Refresh: MockRefreshToken}, nil
}

// Login returns mock tokens for any non-empty credentials.
func (m *MockClient) Login(ctx context.Context, req LoginRequest) (AuthResponse, error) {
	if err := m.wait(ctx); err != nil {
		return AuthResponse{}, err
	}
	if strings.TrimSpace(req.Username) == "" || req.Password == "" {
		return AuthResponse{}, mockError(http.StatusBadRequest, "/auth/login/", `Must include "username" and "password".`)
	}
	user := User{
		ID:         1,
		Username:   req.Username,
		Email:      "test@example.com",
		DateJoined: time.Now().UTC().Format(time.RFC3339Nano),
	}
	m.rememberUser(req.Username)
	return AuthResponse{User: user, Access: MockAccessToken, Refresh: MockRefreshToken}, nil
}

// Logout always succeeds.
func (m *MockClient) Logout(ctx context.Context, _ LogoutRequest) (Detail, error) {
	if err := m.wait(ctx); err != nil {
		return Detail{}, err
	}
	m.rememberUser("")
	return Detail{Detail: "Successfully logged out."}, nil
}

// CurrentUser returns the last user to log in, or "testuser". Without a
// token it fails with 401.
func (m *MockClient) CurrentUser(ctx context.Context) (User, error) {
	if err := m.wait(ctx); err != nil {
		return User{}, err
	}
	if m.Token() == "" {
		return User{}, mockError(http.StatusUnauthorized, "/auth/me/", "Authentication credentials were not provided.")
	}
	m.mu.RLock()
	name := m.username
	m.mu.RUnlock()
	if name == "" {
		name = "testuser"
	}
	return User{
		ID:         1,
		Username:   name,
		Email:      "test@example.com",
		DateJoined: time.Now().UTC().Format(time.RFC3339Nano),
	}, nil
}

func (m *MockClient) rememberUser(name string) {
	m.mu.Lock()
	m.username = name
	m.mu.Unlock()
}

func (m *MockClient) wait(ctx context.Context) error {
	if m.latency <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(m.latency)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

func (m *MockClient) summaries(keep func(RecipeDetail) bool) []RecipeSummary {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]RecipeSummary, 0, len(m.recipes))
	for _, r := range m.recipes {
		if keep == nil || keep(r) {
			out = append(out, r.Summary())
		}
	}
	return out
}

// fold returns s case-folded. Casers are stateful, so each call gets its own.
func fold(s string) string {
	return cases.Fold().String(s)
}

func mockError(status int, path, detail string) *httpclient.Error {
	return httpclient.NewError(status, "mock://"+path, detail)
}

// paginate slices items the way the backend's page-number paginator does.
func paginate(items []RecipeSummary, page, pageSize *int) RecipePage {
	p := 1
	if page != nil && *page > 0 {
		p = *page
	}
	size := defaultPageSize
	if pageSize != nil && *pageSize > 0 {
		size = min(*pageSize, maxPageSize)
	}

	total := len(items)
	start := total
	if p-1 <= total/size {
		start = min((p-1)*size, total)
	}
	end := min(start+size, total)

	out := RecipePage{
		Count:   total,
		Results: append([]RecipeSummary{}, items[start:end]...),
	}
	if end < total {
		out.Next = String(fmt.Sprintf("?page=%d&page_size=%d", p+1, size))
	}
	if p > 1 {
		out.Previous = String(fmt.Sprintf("?page=%d&page_size=%d", p-1, size))
	}
	return out
}

func fixtureRecipes() []RecipeDetail {
	dinner := Category{ID: 1, Name: "Dinner"}
	return []RecipeDetail{
		{
			ID:                  1,
			Title:               "Classic Margherita Pizza",
			Category:            dinner,
			Description:         "A classic Italian pizza with fresh tomatoes, mozzarella, and basil. Simple, fresh, and delicious.",
			PreparationDuration: 30,
			Servings:            Int(4),
			SkillLevel:          SkillLevel{ID: 1, Level: "Intermediate"},
			CreatedAt:           "2025-11-13T19:56:22.363858Z",
			Instructions: []Instruction{
				{ID: 1, StepNumber: 1, Content: "Preheat oven to 425°F (220°C)."},
				{ID: 2, StepNumber: 2, Content: "Roll out pizza dough on a floured surface."},
				{ID: 3, StepNumber: 3, Content: "Add toppings and bake for 12-15 minutes until golden."},
			},
			RecipeIngredients: []RecipeIngredient{
				{ID: 1, Ingredient: Ingredient{ID: 1, Name: "Fresh basil"}, Quantity: "1 cup"},
				{ID: 2, Ingredient: Ingredient{ID: 2, Name: "Mozzarella cheese"}, Quantity: "200g"},
			},
		},
		{
			ID:                  2,
			Title:               "Creamy Mushroom Risotto",
			Category:            Category{ID: 2, Name: "Main Course"},
			Description:         "Arborio rice slowly cooked with mushrooms, stock and parmesan.",
			PreparationDuration: 45,
			Servings:            Int(3),
			SkillLevel:          SkillLevel{ID: 2, Level: "Advanced"},
			CreatedAt:           "2025-11-12T15:30:00.000000Z",
			Instructions: []Instruction{
				{ID: 4, StepNumber: 1, Content: "Sauté mushrooms and shallots in butter."},
				{ID: 5, StepNumber: 2, Content: "Toast the rice, then add stock one ladle at a time."},
				{ID: 6, StepNumber: 3, Content: "Stir in parmesan and rest for two minutes."},
			},
			RecipeIngredients: []RecipeIngredient{
				{ID: 3, Ingredient: Ingredient{ID: 3, Name: "Arborio rice"}, Quantity: "300g"},
				{ID: 4, Ingredient: Ingredient{ID: 4, Name: "Mushrooms"}, Quantity: "250g"},
				{ID: 5, Ingredient: Ingredient{ID: 5, Name: "Parmesan"}, Quantity: "50g"},
			},
		},
		{
			ID:                  3,
			Title:               "Fresh Garden Salad",
			Category:            Category{ID: 3, Name: "Salad"},
			Description:         "Crisp greens with cucumber, tomato and a lemon dressing.",
			PreparationDuration: 15,
			Servings:            Int(2),
			SkillLevel:          SkillLevel{ID: 3, Level: "Beginner"},
			CreatedAt:           "2025-11-11T10:20:00.000000Z",
			Instructions: []Instruction{
				{ID: 7, StepNumber: 1, Content: "Wash and dry the greens."},
				{ID: 8, StepNumber: 2, Content: "Slice cucumber and tomato, then toss with dressing."},
			},
			RecipeIngredients: []RecipeIngredient{
				{ID: 6, Ingredient: Ingredient{ID: 6, Name: "Lettuce"}, Quantity: "1 head"},
				{ID: 7, Ingredient: Ingredient{ID: 7, Name: "Cucumber"}, Quantity: "1"},
				{ID: 8, Ingredient: Ingredient{ID: 8, Name: "Tomato"}, Quantity: "2"},
			},
		},
	}
}
