package analytics

import (
	"sort"

	"github.com/AngelCh415/leadpulse/internal/models"
)

const DefaultTopCountries = 5

// TopCountries returns the n countries with most leads. Ties keep the order
// in which the countries were first seen.
func TopCountries(leads []models.Lead, n int) []string {
	counts := map[string]int{}
	order := []string{}
	for _, l := range leads {
		c := l.CountryKey()
		if _, ok := counts[c]; !ok {
			order = append(order, c)
		}
		counts[c]++
	}
	sort.SliceStable(order, func(i, j int) bool { return counts[order[i]] > counts[order[j]] })
	if n >= 0 && len(order) > n {
		order = order[:n]
	}
	return order
}

func countrySet(countries []string) map[string]int {
	idx := make(map[string]int, len(countries))
	for i, c := range countries {
		if _, ok := idx[c]; !ok {
			idx[c] = i
		}
	}
	return idx
}
