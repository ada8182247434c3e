package status

import (
	"strconv"
	"strings"
)

// DisplayLabel is the status shown in bucket breakdowns. Original casing is
// kept; a plain "NR" that carries an attempt counter becomes "NR<n>".
func DisplayLabel(raw string, nrCount *int) string {
	if nrCount != nil && Normalize(raw) == "nr" {
		return "NR" + strconv.Itoa(*nrCount)
	}
	return raw
}

// OpenPriority orders labels inside the Open bucket: new leads first, then
// NR tiers by attempt count, then everything else.
func OpenPriority(label string) int {
	s := Normalize(label)
	switch s {
	case "new lead":
		return 0
	case "nr":
		return 1
	}
	if rest, ok := strings.CutPrefix(s, "nr"); ok && isDigits(rest) {
		if n, err := strconv.Atoi(rest); err == nil {
			if n <= 5 && rest == strconv.Itoa(n) {
				return 2 + n
			}
			return 10 + n
		}
	}
	return 100
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
