package state

import (
	"fmt"
	"sync"
	"time"

	"github.com/five82/pocketspice/internal/spice"
)

// Snapshot represents the latest data available to the UI.
type Snapshot struct {
	Listing             Listing
	Page                spice.RecipePage
	HasPage             bool
	Detail              *spice.RecipeDetail
	Match               *spice.MatchResult
	Loading             bool
	LastUpdated         time.Time
	LastError           error
	ConsecutiveFailures int // Number of consecutive failed loads
}

// IsOffline returns true when the backend has failed several loads in a row.
func (s Snapshot) IsOffline() bool {
	return s.ConsecutiveFailures >= 2
}

// Store coordinates concurrent updates to the snapshot.
type Store struct {
	mu       sync.RWMutex
	snapshot Snapshot
}

// BeginLoad marks a request in flight and clears the previous error.
func (s *Store) BeginLoad() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.snapshot.Loading = true
	s.snapshot.LastError = nil
}

// UpdatePage replaces the current listing and its page.
func (s *Store) UpdatePage(listing Listing, page spice.RecipePage) {
	s.mu.Lock()
	defer s.mu.Unlock()

	page.Results = cloneResults(page.Results)
	s.snapshot.Listing = listing
	s.snapshot.Page = page
	s.snapshot.HasPage = true
	s.succeeded()
}

// UpdateDetail records the recipe being viewed.
func (s *Store) UpdateDetail(detail spice.RecipeDetail) {
	s.mu.Lock()
	defer s.mu.Unlock()

	d := cloneDetail(detail)
	s.snapshot.Detail = &d
	s.succeeded()
}

// UpdateMatch records the latest ingredient match.
func (s *Store) UpdateMatch(match spice.MatchResult) {
	s.mu.Lock()
	defer s.mu.Unlock()

	m := match
	s.snapshot.Match = &m
	s.succeeded()
}

// ClearDetail drops the recipe being viewed.
func (s *Store) ClearDetail() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.snapshot.Detail = nil
}

// Fail records err. Previously loaded data is kept for display.
func (s *Store) Fail(err error) {
	if err == nil {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	s.snapshot.Loading = false
	s.snapshot.LastError = err
	s.snapshot.LastUpdated = time.Now()
	s.snapshot.ConsecutiveFailures++
}

// Snapshot returns a copy of the current snapshot.
func (s *Store) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()

	snap := s.snapshot
	snap.Page.Results = cloneResults(s.snapshot.Page.Results)
	if s.snapshot.Detail != nil {
		d := cloneDetail(*s.snapshot.Detail)
		snap.Detail = &d
	}
	if s.snapshot.Match != nil {
		m := *s.snapshot.Match
		snap.Match = &m
	}
	if s.snapshot.LastError != nil {
		snap.LastError = fmt.Errorf("%w", s.snapshot.LastError)
	}
	return snap
}

func (s *Store) succeeded() {
	s.snapshot.Loading = false
	s.snapshot.LastError = nil
	s.snapshot.LastUpdated = time.Now()
	s.snapshot.ConsecutiveFailures = 0
}

func cloneResults(items []spice.RecipeSummary) []spice.RecipeSummary {
	if len(items) == 0 {
		return nil
	}
	dup := make([]spice.RecipeSummary, len(items))
	copy(dup, items)
	return dup
}

func cloneDetail(d spice.RecipeDetail) spice.RecipeDetail {
	if d.Instructions != nil {
		d.Instructions = append([]spice.Instruction(nil), d.Instructions...)
	}
	if d.RecipeIngredients != nil {
		d.RecipeIngredients = append([]spice.RecipeIngredient(nil), d.RecipeIngredients...)
	}
	return d
}
