package spice

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/five82/pocketspice/internal/httpclient"
)

// API is the recipe backend surface. *Client talks HTTP; *MockClient serves
// fixtures and is used for offline runs and tests.
type API interface {
	Recipes(ctx context.Context, params ListParams) (RecipePage, error)
	Recipe(ctx context.Context, id int64) (RecipeDetail, error)
	RecipesByCategory(ctx context.Context, params CategoryParams) (RecipePage, error)
	SearchRecipes(ctx context.Context, params SearchParams) (RecipePage, error)
	CreateRecipe(ctx context.Context, recipe RecipeCreate) (RecipeCreate, error)
	MatchRecipe(ctx context.Context, ingredients string) (MatchResult, error)

	Register(ctx context.Context, req RegisterRequest) (AuthResponse, error)
	Login(ctx context.Context, req LoginRequest) (AuthResponse, error)
	Logout(ctx context.Context, req LogoutRequest) (Detail, error)
	CurrentUser(ctx context.Context) (User, error)

	Token() string
	SetToken(token string)
}

// Ensure Client implements API at compile time.
var _ API = (*Client)(nil)

// Client calls the recipe backend through an authenticated httpclient.Client.
type Client struct {
	http *httpclient.Client
}

// NewClient wraps an httpclient.Client.
func NewClient(hc *httpclient.Client) *Client {
	return &Client{http: hc}
}

// HTTP exposes the underlying client.
func (c *Client) HTTP() *httpclient.Client {
	return c.http
}

// Token returns the current session token.
func (c *Client) Token() string {
	return c.http.Token()
}

// SetToken replaces the session token; "" clears it.
func (c *Client) SetToken(token string) {
	c.http.SetToken(token)
}

// Recipes fetches a page of the landing list.
func (c *Client) Recipes(ctx context.Context, params ListParams) (RecipePage, error) {
	if c == nil {
		return RecipePage{}, fmt.Errorf("client is nil")
	}
	q := httpclient.Query{}.Add("page", params.Page).Add("page_size", params.PageSize)
	return httpclient.GetJSON[RecipePage](ctx, c.http, "/recipes/", q)
}

// Recipe fetches full detail for one recipe.
func (c *Client) Recipe(ctx context.Context, id int64) (RecipeDetail, error) {
	if c == nil {
		return RecipeDetail{}, fmt.Errorf("client is nil")
	}
	if id <= 0 {
		return RecipeDetail{}, fmt.Errorf("recipe id required")
	}
	path := "/recipes/" + strconv.FormatInt(id, 10) + "/"
	return httpclient.GetJSON[RecipeDetail](ctx, c.http, path, nil)
}

// RecipesByCategory lists recipes in a category.
func (c *Client) RecipesByCategory(ctx context.Context, params CategoryParams) (RecipePage, error) {
	if c == nil {
		return RecipePage{}, fmt.Errorf("client is nil")
	}
	category := strings.TrimSpace(params.Category)
	if category == "" {
		return RecipePage{}, fmt.Errorf("category required")
	}
	path := "/recipes/category/" + url.PathEscape(category) + "/"
	q := httpclient.Query{}.Add("page", params.Page).Add("page_size", params.PageSize)
	return httpclient.GetJSON[RecipePage](ctx, c.http, path, q)
}

// SearchRecipes searches recipe titles.
func (c *Client) SearchRecipes(ctx context.Context, params SearchParams) (RecipePage, error) {
	if c == nil {
		return RecipePage{}, fmt.Errorf("client is nil")
	}
	q := httpclient.Query{}.
		Add("q", params.Q).
		Add("page", params.Page).
		Add("page_size", params.PageSize)
	return httpclient.GetJSON[RecipePage](ctx, c.http, "/recipes/search/", q)
}

// CreateRecipe submits a new recipe. The backend requires a session.
func (c *Client) CreateRecipe(ctx context.Context, recipe RecipeCreate) (RecipeCreate, error) {
	if c == nil {
		return RecipeCreate{}, fmt.Errorf("client is nil")
	}
	return httpclient.PostJSON[RecipeCreate](ctx, c.http, "/recipes/create/", recipe)
}

// MatchRecipe asks the backend for the best recipe for a free-form
// ingredient list.
func (c *Client) MatchRecipe(ctx context.Context, ingredients string) (MatchResult, error) {
	if c == nil {
		return MatchResult{}, fmt.Errorf("client is nil")
	}
	body := struct {
		Ingredients string `json:"ingredients"`
	}{Ingredients: ingredients}
	return httpclient.PostJSON[MatchResult](ctx, c.http, "/recipes/ai-match/", body)
}

// Register creates an account.
func (c *Client) Register(ctx context.Context, req RegisterRequest) (AuthResponse, error) {
	if c == nil {
		return AuthResponse{}, fmt.Errorf("client is nil")
	}
	return httpclient.PostJSON[AuthResponse](ctx, c.http, "/auth/register/", req)
}

// Login exchanges credentials for tokens. The caller decides whether to keep
// the returned access token.
func (c *Client) Login(ctx context.Context, req LoginRequest) (AuthResponse, error) {
	if c == nil {
		return AuthResponse{}, fmt.Errorf("client is nil")
	}
	return httpclient.PostJSON[AuthResponse](ctx, c.http, "/auth/login/", req)
}

// Logout blacklists the refresh token on the server.
func (c *Client) Logout(ctx context.Context, req LogoutRequest) (Detail, error) {
	if c == nil {
		return Detail{}, fmt.Errorf("client is nil")
	}
	return httpclient.PostJSON[Detail](ctx, c.http, "/auth/logout/", req)
}

// CurrentUser returns the account behind the current token.
func (c *Client) CurrentUser(ctx context.Context) (User, error) {
	if c == nil {
		return User{}, fmt.Errorf("client is nil")
	}
	return httpclient.GetJSON[User](ctx, c.http, "/auth/me/", nil)
}
