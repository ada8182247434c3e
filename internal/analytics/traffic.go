package analytics

import "github.com/AngelCh415/leadpulse/internal/models"

type TrafficRow struct {
	Country string  `json:"country"`
	Hours   [24]int `json:"hours"`
}

// TrafficMatrix is a country by hour-of-day lead histogram. Max is the
// largest cell of the whole matrix; intensities are relative to it.
type TrafficMatrix struct {
	Countries []string     `json:"countries"`
	Rows      []TrafficRow `json:"rows"`
	Max       int          `json:"max"`
	Undated   int          `json:"undated"`
}

// Intensity is cell/Max in [0,1], 0 for an empty matrix.
func (m TrafficMatrix) Intensity(row, hour int) float64 {
	if m.Max == 0 || row < 0 || row >= len(m.Rows) || hour < 0 || hour > 23 {
		return 0
	}
	return float64(m.Rows[row].Hours[hour]) / float64(m.Max)
}

// Traffic builds the hour histogram for the given countries. A nil country
// list selects the DefaultTopCountries busiest countries of leads. Leads from
// other countries are ignored and undated leads are only counted in Undated.
func Traffic(leads []models.Lead, countries []string) TrafficMatrix {
	if countries == nil {
		countries = TopCountries(leads, DefaultTopCountries)
	}
	idx := countrySet(countries)
	m := TrafficMatrix{Countries: countries, Rows: make([]TrafficRow, len(countries))}
	for i, c := range countries {
		m.Rows[i].Country = c
	}
	for _, l := range leads {
		row, ok := idx[l.CountryKey()]
		if !ok {
			continue
		}
		if !l.HasDate() {
			m.Undated++
			continue
		}
		h := l.CreateDate.Hour()
		m.Rows[row].Hours[h]++
		if v := m.Rows[row].Hours[h]; v > m.Max {
			m.Max = v
		}
	}
	return m
}
