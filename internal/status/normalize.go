// Package status turns free-text CRM statuses into funnel stages and
// pipeline buckets.
package status

import "strings"

// Normalize lower-cases and trims a raw status. Nothing else is folded, so
// variant spellings must be listed explicitly in the membership sets.
func Normalize(s string) string { return strings.ToLower(strings.TrimSpace(s)) }
