package models

import (
	"strings"
	"time"
)

// Lead is one CRM record as exported upstream. It is never mutated by the
// analytics code. Its JSON keys match the CRM export, so drill-down output can
// be loaded back through PUT /leads.
type Lead struct {
	ID             string    `json:"id"`
	OriginalStatus string    `json:"originalStatus"`
	NRCount        *int      `json:"nrCount,omitempty"`
	Country        string    `json:"country"`
	Language       string    `json:"language"`
	Source         string    `json:"source"`
	Treatment      string    `json:"treatment"`
	RepName        string    `json:"repName"`
	CreateDate     time.Time `json:"createDate"`
	LeadScore      *float64  `json:"leadScore,omitempty"`
}

const UnknownCountry = "Unknown"

// CountryKey is the country used for grouping; missing countries collapse
// into UnknownCountry.
func (l Lead) CountryKey() string {
	c := strings.TrimSpace(l.Country)
	if c == "" {
		return UnknownCountry
	}
	return c
}

func (l Lead) HasDate() bool  { return !l.CreateDate.IsZero() }
func (l Lead) HasScore() bool { return l.LeadScore != nil }

// Filter is the upstream filter applied before any aggregation. Empty sets
// mean "no restriction"; From/To are inclusive calendar days.
type Filter struct {
	From       time.Time
	To         time.Time
	Treatments map[string]struct{}
	Countries  map[string]struct{}
	Reps       map[string]struct{}
	Sources    map[string]struct{}
	Languages  map[string]struct{}
}
