package session

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"citysafe/internal/models"
	"citysafe/pkg/logger"
)

// ReportLister is the slice of the API client the session store needs.
type ReportLister interface {
	GetReports(ctx context.Context, skip, limit int, userID string) ([]models.Report, error)
}

const fetchPageSize = 100

// Store holds the current user and their reports for the lifetime of the
// app. It is an explicit, test-constructible object; the UI layer gets a
// handle and mutates only through the named actions below. Nothing here is
// persisted across restarts. Only the auth token survives, and the profile
// is re-derived from it.
type Store struct {
	mu      sync.RWMutex
	user    *models.User
	reports []models.Report
	loading bool

	api ReportLister
}

func NewStore(api ReportLister) *Store {
	return &Store{api: api}
}

// SetUser replaces the current user wholesale.
func (s *Store) SetUser(u models.User) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.user = &u
}

// UpdateUser merges non-empty fields into the current user; no-op in guest
// mode.
func (s *Store) UpdateUser(partial models.User) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.user == nil {
		return
	}
	if partial.ID != "" {
		s.user.ID = partial.ID
	}
	if partial.FullName != "" {
		s.user.FullName = partial.FullName
	}
	if partial.Email != "" {
		s.user.Email = partial.Email
	}
	if partial.Phone != "" {
		s.user.Phone = partial.Phone
	}
}

// ClearUser resets the whole store to its initial empty state.
func (s *Store) ClearUser() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.user = nil
	s.reports = nil
	s.loading = false
}

// User returns a copy of the current user, or false in guest mode.
func (s *Store) User() (models.User, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.user == nil {
		return models.User{}, false
	}
	return *s.user, true
}

// AddReport appends to the report list; insertion order is submission order.
func (s *Store) AddReport(r models.Report) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.reports = append(s.reports, r)
}

// SetReports replaces the whole list, as after a fetch-all.
func (s *Store) SetReports(list []models.Report) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.reports = list
}

// UpdateReport replaces the matching entry by id; no-op without a match.
func (s *Store) UpdateReport(r models.Report) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.reports {
		if s.reports[i].ID == r.ID {
			s.reports[i] = r
			return
		}
	}
}

// Reports returns a copy of the current report list.
func (s *Store) Reports() []models.Report {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.Report, len(s.reports))
	copy(out, s.reports)
	return out
}

// Loading reports whether a FetchMyReports call is in flight.
func (s *Store) Loading() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loading
}

// FetchMyReports refreshes the list from the backend. Failures leave the
// list untouched and are logged, not surfaced. Concurrent calls are not
// deduplicated; the later-resolving call wins.
func (s *Store) FetchMyReports(ctx context.Context, userID string) {
	s.setLoading(true)
	defer s.setLoading(false)

	reports, err := s.api.GetReports(ctx, 0, fetchPageSize, userID)
	if err != nil {
		logger.Error("fetch reports failed", zap.Error(err))
		return
	}
	s.SetReports(reports)
}

func (s *Store) setLoading(v bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.loading = v
}
