package fetcher

import (
	"context"
	"fmt"

	"github.com/amosWeiskopf/scrapekit/pkg/errkind"
)

// FetchJSONWithRetry re-attempts a single FetchJSON up to retries times
// and reports the last error when all attempts fail. Values below 1 mean
// a single attempt. There is no backoff between attempts.
func (f *Fetcher) FetchJSONWithRetry(ctx context.Context, endpoint string, opts RequestOptions, out interface{}, retries int) error {
	if retries < 1 {
		retries = 1
	}

	var lastErr error
	for attempt := 1; attempt <= retries; attempt++ {
		if err := ctx.Err(); err != nil {
			return err
		}
		err := f.FetchJSON(ctx, endpoint, opts, out)
		if err == nil {
			if attempt > 1 {
				f.logger.Info().
					Str("endpoint", endpoint).
					Int("attempt", attempt).
					Msg("request succeeded after retry")
			}
			return nil
		}
		lastErr = err
		f.logger.Warn().
			Str("endpoint", endpoint).
			Int("attempt", attempt).
			Err(err).
			Msg("attempt failed")
	}

	return errkind.Wrap(lastErr, errkind.ErrRetryExhausted, fmt.Sprintf("after %d attempts", retries))
}
