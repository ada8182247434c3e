package ingest

import (
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/AngelCh415/leadpulse/internal/models"
)

// leadRecord is a lead as exported by the CRM. Every field may arrive as a
// JSON string or number; anything unparsable becomes a missing value.
type leadRecord struct {
	ID         any `json:"id"`
	Status     any `json:"originalStatus"`
	NRCount    any `json:"nrCount"`
	Country    any `json:"country"`
	Language   any `json:"language"`
	Source     any `json:"source"`
	Treatment  any `json:"treatment"`
	RepName    any `json:"repName"`
	CreateDate any `json:"createDate"`
	LeadScore  any `json:"leadScore"`
}

var dateLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"2006-01-02",
	"1/2/2006 15:04:05",
	"1/2/2006 15:04",
	"1/2/2006",
	"01-02-06 15:04",
}

func toLeads(recs []leadRecord, loc *time.Location) []models.Lead {
	out := make([]models.Lead, 0, len(recs))
	for _, r := range recs {
		out = append(out, r.toLead(loc))
	}
	return out
}

func (r leadRecord) toLead(loc *time.Location) models.Lead {
	id := strings.TrimSpace(toString(r.ID))
	if id == "" {
		id = uuid.NewString()
	}
	return models.Lead{
		ID:             id,
		OriginalStatus: toString(r.Status),
		NRCount:        parseCount(r.NRCount),
		Country:        strings.TrimSpace(toString(r.Country)),
		Language:       strings.TrimSpace(toString(r.Language)),
		Source:         strings.TrimSpace(toString(r.Source)),
		Treatment:      strings.TrimSpace(toString(r.Treatment)),
		RepName:        strings.TrimSpace(toString(r.RepName)),
		CreateDate:     parseDate(r.CreateDate, loc),
		LeadScore:      parseScore(r.LeadScore),
	}
}

// parseDate reads a timestamp string in loc, or a JSON number as Unix epoch
// milliseconds. Zoned timestamps are converted to loc. It returns the zero
// time when nothing matches.
func parseDate(v any, loc *time.Location) time.Time {
	var s string
	switch x := v.(type) {
	case string:
		s = strings.TrimSpace(x)
	case float64:
		if math.IsNaN(x) || math.IsInf(x, 0) || x <= 0 {
			return time.Time{}
		}
		return time.UnixMilli(int64(x)).In(loc)
	default:
		return time.Time{}
	}
	if s == "" {
		return time.Time{}
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		if t.IsZero() {
			return time.Time{}
		}
		return t.In(loc)
	}
	for _, layout := range dateLayouts[1:] {
		if t, err := time.ParseInLocation(layout, s, loc); err == nil {
			return t
		}
	}
	return time.Time{}
}

func parseScore(v any) *float64 {
	var f float64
	switch x := v.(type) {
	case float64:
		f = x
	case string:
		p, err := strconv.ParseFloat(strings.TrimSpace(x), 64)
		if err != nil {
			return nil
		}
		f = p
	default:
		return nil
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return nil
	}
	return &f
}

func parseCount(v any) *int {
	f := parseScore(v)
	if f == nil || *f < 0 || *f != math.Trunc(*f) {
		return nil
	}
	n := int(*f)
	return &n
}

func toString(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	default:
		return ""
	}
}
