// Package spice is the typed endpoint layer for the My Pocket Spice recipe
// backend.
//
// # Overview
//
// API lists every backend operation. Two implementations exist:
//
//   - Client: calls the backend through an authenticated httpclient.Client
//   - MockClient: serves a fixed set of three recipes without the network
//
// New picks one based on config.Config.UseMock. Both keep the access token in
// the same keystore, so a session survives switching modes.
//
// # Endpoints
//
//	GET  /recipes/                     Recipes
//	GET  /recipes/{id}/                Recipe
//	GET  /recipes/category/{category}/ RecipesByCategory
//	GET  /recipes/search/?q=           SearchRecipes
//	POST /recipes/create/              CreateRecipe (session required)
//	POST /recipes/ai-match/            MatchRecipe
//	POST /auth/register/               Register
//	POST /auth/login/                  Login
//	POST /auth/logout/                 Logout
//	GET  /auth/me/                     CurrentUser
//
// Paginated endpoints accept optional page and page_size. Nil parameters are
// left off the query string and the server applies its defaults (page 1,
// page_size 10, max 100).
//
// # Errors
//
// Non-2xx responses surface as *httpclient.Error from both implementations.
// Use httpclient.StatusOf to branch on the status code.
package spice
