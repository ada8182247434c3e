package store

import (
	"strings"
	"sync"
	"time"

	"github.com/AngelCh415/leadpulse/internal/models"
)

// MemoryStore holds the current lead snapshot. Replace swaps it wholesale;
// readers always get their own copy.
type MemoryStore struct {
	mu      sync.RWMutex
	leads   []models.Lead
	updated time.Time
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

// Replace installs a new snapshot. Leads sharing an id keep the first
// occurrence. It returns the number of leads stored.
func (s *MemoryStore) Replace(leads []models.Lead) int {
	seen := make(map[string]struct{}, len(leads))
	out := make([]models.Lead, 0, len(leads))
	for _, l := range leads {
		if l.ID != "" {
			if _, ok := seen[l.ID]; ok {
				continue
			}
			seen[l.ID] = struct{}{}
		}
		out = append(out, l)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.leads = out
	s.updated = time.Now()
	return len(out)
}

func (s *MemoryStore) All() []models.Lead {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.Lead, len(s.leads))
	copy(out, s.leads)
	return out
}

func (s *MemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.leads)
}

func (s *MemoryStore) UpdatedAt() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.updated
}

// Query returns the leads matching f, in snapshot order.
func (s *MemoryStore) Query(f models.Filter) []models.Lead {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []models.Lead
	for _, l := range s.leads {
		if Match(f, l) {
			out = append(out, l)
		}
	}
	return out
}

// Match applies the upstream filter to one lead. Attribute sets compare
// case-insensitively. A date range excludes undated leads.
func Match(f models.Filter, l models.Lead) bool {
	if !f.From.IsZero() || !f.To.IsZero() {
		if !l.HasDate() {
			return false
		}
		d := day(l.CreateDate)
		if !f.From.IsZero() && d.Before(day(f.From)) {
			return false
		}
		if !f.To.IsZero() && d.After(day(f.To)) {
			return false
		}
	}
	return in(f.Treatments, l.Treatment) &&
		in(f.Countries, l.CountryKey()) &&
		in(f.Reps, l.RepName) &&
		in(f.Sources, l.Source) &&
		in(f.Languages, l.Language)
}

func in(set map[string]struct{}, v string) bool {
	if len(set) == 0 {
		return true
	}
	_, ok := set[strings.ToLower(strings.TrimSpace(v))]
	return ok
}

// day keeps t's calendar date, as seen in t's location, at UTC midnight so
// dates from different zones compare by their wall-clock day.
func day(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
