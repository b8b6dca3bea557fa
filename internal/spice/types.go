package spice

import (
	"strings"
	"time"
)

// Category groups recipes (e.g. "Dinner").
type Category struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// Ingredient is a named ingredient.
type Ingredient struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// SkillLevel describes how hard a recipe is.
type SkillLevel struct {
	ID    int64  `json:"id"`
	Level string `json:"level"`
}

// Instruction is one numbered preparation step.
type Instruction struct {
	ID         int64  `json:"id"`
	StepNumber int    `json:"step_number"`
	Content    string `json:"content"`
}

// RecipeIngredient pairs an ingredient with a free-form quantity ("200g").
type RecipeIngredient struct {
	ID         int64      `json:"id"`
	Ingredient Ingredient `json:"ingredient"`
	Quantity   string     `json:"quantity"`
}

// RecipeSummary is the list representation returned by paginated endpoints.
type RecipeSummary struct {
	ID                  int64      `json:"id"`
	Title               string     `json:"title"`
	PreparationDuration int        `json:"preparation_duration"`
	Servings            *int       `json:"servings"`
	Category            Category   `json:"category"`
	SkillLevel          SkillLevel `json:"skill_level"`
	CreatedAt           string     `json:"created_at"`
}

// ParsedCreatedAt returns CreatedAt as a time, or the zero time.
func (r RecipeSummary) ParsedCreatedAt() time.Time {
	return parseTimestamp(r.CreatedAt)
}

// RecipeDetail mirrors /recipes/{id}/.
type RecipeDetail struct {
	ID                  int64              `json:"id"`
	Title               string             `json:"title"`
	Category            Category           `json:"category"`
	Description         string             `json:"description"`
	PreparationDuration int                `json:"preparation_duration"`
	Servings            *int               `json:"servings"`
	SkillLevel          SkillLevel         `json:"skill_level"`
	CreatedAt           string             `json:"created_at"`
	Instructions        []Instruction      `json:"instructions"`
	RecipeIngredients   []RecipeIngredient `json:"recipe_ingredients"`
}

// ParsedCreatedAt returns CreatedAt as a time, or the zero time.
func (r RecipeDetail) ParsedCreatedAt() time.Time {
	return parseTimestamp(r.CreatedAt)
}

// Summary returns the list representation of the recipe.
func (r RecipeDetail) Summary() RecipeSummary {
	return RecipeSummary{
		ID:                  r.ID,
		Title:               r.Title,
		PreparationDuration: r.PreparationDuration,
		Servings:            r.Servings,
		Category:            r.Category,
		SkillLevel:          r.SkillLevel,
		CreatedAt:           r.CreatedAt,
	}
}

// RecipePage is a page of recipes. Next and Previous are nil at the ends.
type RecipePage struct {
	Count    int             `json:"count"`
	Next     *string         `json:"next"`
	Previous *string         `json:"previous"`
	Results  []RecipeSummary `json:"results"`
}

// HasNext reports whether another page follows.
func (p RecipePage) HasNext() bool {
	return p.Next != nil && *p.Next != ""
}

// HasPrevious reports whether a page precedes this one.
func (p RecipePage) HasPrevious() bool {
	return p.Previous != nil && *p.Previous != ""
}

// IngredientInput is one ingredient line of a new recipe.
type IngredientInput struct {
	Name     string `json:"name"`
	Quantity string `json:"quantity"`
}

// InstructionInput is one step of a new recipe.
type InstructionInput struct {
	StepNumber int    `json:"step_number"`
	Content    string `json:"content"`
}

// RecipeCreate is the body of POST /recipes/create/.
type RecipeCreate struct {
	Title               string             `json:"title"`
	Description         string             `json:"description"`
	PreparationDuration int                `json:"preparation_duration"`
	Servings            *int               `json:"servings,omitempty"`
	SkillLevelID        *int64             `json:"skill_level_id,omitempty"`
	Category            string             `json:"category,omitempty"`
	Ingredients         []IngredientInput  `json:"ingredients,omitempty"`
	Instructions        []InstructionInput `json:"instructions,omitempty"`
}

// ListParams pages through /recipes/. Nil fields are left to the server.
type ListParams struct {
	Page     *int
	PageSize *int
}

// CategoryParams filters by category name (case-insensitive on the server).
type CategoryParams struct {
	Category string
	Page     *int
	PageSize *int
}

// SearchParams searches recipe titles.
type SearchParams struct {
	Q        *string
	Page     *int
	PageSize *int
}

// MatchResult is the response of the ingredient matcher.
type MatchResult struct {
	Count         int           `json:"count"`
	Recipe        RecipeSummary `json:"recipe"`
	Justification string        `json:"justification"`
}

// User is the authenticated account.
type User struct {
	ID         int64  `json:"id"`
	Username   string `json:"username"`
	Email      string `json:"email"`
	FirstName  string `json:"first_name"`
	LastName   string `json:"last_name"`
	DateJoined string `json:"date_joined"`
}

// DisplayName prefers the full name over the username.
func (u User) DisplayName() string {
	full := strings.TrimSpace(u.FirstName + " " + u.LastName)
	if full != "" {
		return full
	}
	return u.Username
}

// LoginRequest is the body of POST /auth/login/.
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// RegisterRequest is the body of POST /auth/register/.
type RegisterRequest struct {
	Username        string `json:"username"`
	Password        string `json:"password"`
	PasswordConfirm string `json:"password_confirm"`
	Email           string `json:"email,omitempty"`
	FirstName       string `json:"first_name,omitempty"`
	LastName        string `json:"last_name,omitempty"`
}

// LogoutRequest is the body of POST /auth/logout/.
type LogoutRequest struct {
	Refresh string `json:"refresh"`
}

// AuthResponse is returned by login and register.
type AuthResponse struct {
	User    User   `json:"user"`
	Access  string `json:"access"`
	Refresh string `json:"refresh"`
}

// Detail is the generic {"detail": "..."} response.
type Detail struct {
	Detail string `json:"detail"`
}

// Int returns a pointer to v, for optional parameters.
func Int(v int) *int {
	return &v
}

// String returns a pointer to v, for optional parameters.
func String(v string) *string {
	return &v
}

func parseTimestamp(value string) time.Time {
	value = strings.TrimSpace(value)
	if value == "" {
		return time.Time{}
	}
	layouts := []string{time.RFC3339Nano, time.RFC3339}
	for _, layout := range layouts {
		if ts, err := time.Parse(layout, value); err == nil {
			return ts
		}
	}
	return time.Time{}
}
