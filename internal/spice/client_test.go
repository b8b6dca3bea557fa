package spice

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/five82/pocketspice/internal/httpclient"
	"github.com/five82/pocketspice/internal/keystore"
)

func newTestClient(t *testing.T, handler http.Handler) (*Client, *keystore.MemoryStore) {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	store := keystore.NewMemory(nil)
	hc, err := httpclient.New(server.URL+"/api", store)
	if err != nil {
		t.Fatalf("httpclient.New returned error: %v", err)
	}
	return NewClient(hc), store
}

func testContext(t *testing.T) context.Context {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	t.Cleanup(cancel)
	return ctx
}

func TestClient_FetchesRecipeEndpointsAndEncodesQueries(t *testing.T) {
	t.Parallel()

	var (
		listQuery     url.Values
		searchQuery   url.Values
		categoryPath  string
		categoryQuery url.Values
	)
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		switch {
		case r.URL.Path == "/api/recipes/":
			listQuery = r.URL.Query()
			_ = json.NewEncoder(w).Encode(RecipePage{Count: 1, Results: []RecipeSummary{{ID: 1, Title: "Pizza"}}})
		case r.URL.Path == "/api/recipes/7/":
			_ = json.NewEncoder(w).Encode(RecipeDetail{ID: 7, Title: "Soup"})
		case r.URL.Path == "/api/recipes/search/":
			searchQuery = r.URL.Query()
			_ = json.NewEncoder(w).Encode(RecipePage{})
		case r.URL.EscapedPath() == "/api/recipes/category/Main%20Course/":
			categoryPath = r.URL.EscapedPath()
			categoryQuery = r.URL.Query()
			_ = json.NewEncoder(w).Encode(RecipePage{})
		default:
			http.NotFound(w, r)
		}
	}))
	ctx := testContext(t)

	page, err := c.Recipes(ctx, ListParams{Page: Int(2), PageSize: Int(5)})
	if err != nil {
		t.Fatalf("Recipes returned error: %v", err)
	}
	if page.Count != 1 || len(page.Results) != 1 || page.Results[0].Title != "Pizza" {
		t.Fatalf("Recipes payload = %#v", page)
	}
	if listQuery.Get("page") != "2" || listQuery.Get("page_size") != "5" {
		t.Fatalf("Recipes query = %v, want page=2 page_size=5", listQuery)
	}

	detail, err := c.Recipe(ctx, 7)
	if err != nil {
		t.Fatalf("Recipe returned error: %v", err)
	}
	if detail.ID != 7 || detail.Title != "Soup" {
		t.Fatalf("Recipe payload = %#v", detail)
	}

	if _, err := c.SearchRecipes(ctx, SearchParams{Q: String("mushroom risotto")}); err != nil {
		t.Fatalf("SearchRecipes returned error: %v", err)
	}
	if searchQuery.Get("q") != "mushroom risotto" {
		t.Fatalf("search q = %q, want %q", searchQuery.Get("q"), "mushroom risotto")
	}
	if _, ok := searchQuery["page"]; ok {
		t.Fatalf("search query = %v, want nil page omitted", searchQuery)
	}

	if _, err := c.RecipesByCategory(ctx, CategoryParams{Category: "Main Course", PageSize: Int(3)}); err != nil {
		t.Fatalf("RecipesByCategory returned error: %v", err)
	}
	if categoryPath == "" || categoryQuery.Get("page_size") != "3" {
		t.Fatalf("category request path=%q query=%v", categoryPath, categoryQuery)
	}
}

func TestClient_ValidatesArguments(t *testing.T) {
	t.Parallel()
	c, _ := newTestClient(t, http.NotFoundHandler())
	ctx := testContext(t)

	if _, err := c.Recipe(ctx, 0); err == nil {
		t.Fatalf("Recipe(0) returned nil error")
	}
	if _, err := c.RecipesByCategory(ctx, CategoryParams{Category: "  "}); err == nil {
		t.Fatalf("RecipesByCategory(blank) returned nil error")
	}

	var nilClient *Client
	if _, err := nilClient.Recipes(ctx, ListParams{}); err == nil {
		t.Fatalf("nil client Recipes returned nil error")
	}
}

func TestClient_PostsAuthBodiesAndAttachesToken(t *testing.T) {
	t.Parallel()

	var (
		loginBody  LoginRequest
		matchBody  map[string]string
		meAuth     string
		logoutBody LogoutRequest
	)
	c, store := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		switch r.URL.Path {
		case "/api/auth/login/":
			_ = json.NewDecoder(r.Body).Decode(&loginBody)
			_ = json.NewEncoder(w).Encode(AuthResponse{Access: "acc", Refresh: "ref", User: User{ID: 9, Username: loginBody.Username}})
		case "/api/auth/me/":
			meAuth = r.Header.Get("Authorization")
			_ = json.NewEncoder(w).Encode(User{ID: 9, Username: "cook"})
		case "/api/recipes/ai-match/":
			_ = json.NewDecoder(r.Body).Decode(&matchBody)
			_ = json.NewEncoder(w).Encode(MatchResult{Count: 1, Recipe: RecipeSummary{ID: 3}, Justification: "ok"})
		case "/api/auth/logout/":
			_ = json.NewDecoder(r.Body).Decode(&logoutBody)
			_ = json.NewEncoder(w).Encode(Detail{Detail: "Successfully logged out."})
		default:
			http.NotFound(w, r)
		}
	}))
	ctx := testContext(t)

	resp, err := c.Login(ctx, LoginRequest{Username: "cook", Password: "pw"})
	if err != nil {
		t.Fatalf("Login returned error: %v", err)
	}
	if loginBody.Username != "cook" || loginBody.Password != "pw" {
		t.Fatalf("login body = %#v", loginBody)
	}
	if c.Token() != "" {
		t.Fatalf("Login stored token %q, want the caller to decide", c.Token())
	}

	c.SetToken(resp.Access)
	if v, ok, _ := store.Get(keystore.AccessTokenKey); !ok || v != "acc" {
		t.Fatalf("stored token = %q (ok=%v), want acc", v, ok)
	}

	user, err := c.CurrentUser(ctx)
	if err != nil {
		t.Fatalf("CurrentUser returned error: %v", err)
	}
	if user.Username != "cook" || meAuth != "Bearer acc" {
		t.Fatalf("CurrentUser = %#v auth=%q", user, meAuth)
	}

	match, err := c.MatchRecipe(ctx, "basil, tomato")
	if err != nil {
		t.Fatalf("MatchRecipe returned error: %v", err)
	}
	if matchBody["ingredients"] != "basil, tomato" || match.Recipe.ID != 3 {
		t.Fatalf("match body=%v result=%#v", matchBody, match)
	}

	detail, err := c.Logout(ctx, LogoutRequest{Refresh: resp.Refresh})
	if err != nil {
		t.Fatalf("Logout returned error: %v", err)
	}
	if logoutBody.Refresh != "ref" || detail.Detail == "" {
		t.Fatalf("logout body=%#v detail=%#v", logoutBody, detail)
	}
}

func TestClient_UnauthorizedCreateClearsToken(t *testing.T) {
	t.Parallel()

	var gotBody []byte
	c, store := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotBody, _ = io.ReadAll(r.Body)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"detail":"Given token not valid for any token type"}`))
	}))
	c.SetToken("stale")

	_, err := c.CreateRecipe(testContext(t), RecipeCreate{Title: "Toast", PreparationDuration: 5})
	if !httpclient.IsUnauthorized(err) {
		t.Fatalf("CreateRecipe error = %v, want 401", err)
	}
	if err.Error() != "HTTP error 401: Given token not valid for any token type" {
		t.Fatalf("error message = %q", err.Error())
	}
	if c.Token() != "" {
		t.Fatalf("token = %q after 401, want cleared", c.Token())
	}
	if _, ok, _ := store.Get(keystore.AccessTokenKey); ok {
		t.Fatalf("stored token still present after 401")
	}

	var body map[string]any
	if err := json.Unmarshal(gotBody, &body); err != nil {
		t.Fatalf("create body not JSON: %v", err)
	}
	if _, ok := body["servings"]; ok {
		t.Fatalf("create body = %s, want nil servings omitted", gotBody)
	}
}
