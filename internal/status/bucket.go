package status

import (
	"errors"
	"fmt"
	"strings"
)

// Bucket is the coarse pipeline state. Every status maps to exactly one.
type Bucket string

const (
	BucketOpen          Bucket = "open"
	BucketActive        Bucket = "active"
	BucketClosedSuccess Bucket = "closed_success"
	BucketNegativeLost  Bucket = "negative_lost"
)

// Buckets lists the pipeline buckets in display order.
var Buckets = []Bucket{BucketOpen, BucketActive, BucketClosedSuccess, BucketNegativeLost}

var ErrUnknownBucket = errors.New("unknown pipeline bucket")

func ParseBucket(s string) (Bucket, error) {
	n := Bucket(Normalize(s))
	for _, b := range Buckets {
		if b == n {
			return b, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownBucket, s)
}

var closedSuccess = []string{
	"operation done",
	"ticket received",
	"pre-payment received",
	"pre/payment received",
}

var negativeLost = []string{
	"not interest / junk",
	"high price",
	"wrong number",
	"block",
	"other languages",
	"night shift",
	"rejected by doctor",
	"interested can't travel",
}

var (
	closedSuccessSet = toSet(closedSuccess)
	negativeLostSet  = toSet(negativeLost)
)

// BucketOf classifies a raw status. Rules are checked in order and the
// first match wins; anything unmatched, including an empty status, is Active.
func BucketOf(raw string) Bucket {
	s := Normalize(raw)
	if s == "new lead" || strings.HasPrefix(s, "nr") {
		return BucketOpen
	}
	if _, ok := closedSuccessSet[s]; ok {
		return BucketClosedSuccess
	}
	if _, ok := negativeLostSet[s]; ok {
		return BucketNegativeLost
	}
	return BucketActive
}
