package ingest

import (
	"context"
	"errors"
	"time"

	"github.com/AngelCh415/leadpulse/internal/utils"
)

// GetJSONWithRetry fetches url into dst with three attempts and exponential
// backoff. An empty URL fails at once.
func GetJSONWithRetry(ctx context.Context, c HTTPClient, url string, dst any) error {
	var permanent error
	err := utils.NewBackoff(100*time.Millisecond, 2).Do(ctx, func(int) error {
		err := getJSON(ctx, c, url, dst)
		if errors.Is(err, errEmptyURL) {
			permanent = err
			return nil
		}
		return err
	})
	if permanent != nil {
		return permanent
	}
	return err
}
