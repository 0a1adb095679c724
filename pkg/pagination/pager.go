// Package pagination implements the repeated-fetch loop used by the
// fetcher: a Pager decides how to ask for the next page, Collect
// accumulates extracted items across pages until the pager runs out.
package pagination

import (
	"fmt"
	"net/http"

	"github.com/amosWeiskopf/scrapekit/pkg/errkind"
)

// HTTPDoer can perform HTTP requests.
type HTTPDoer interface {
	Do(req *http.Request) (*http.Response, error)
}

// Pager drives one pagination strategy.
type Pager interface {
	// NextRequest returns the next request, or nil when there are no
	// more pages.
	NextRequest() (*http.Request, error)

	// UpdateState inspects a response and records the continuation
	// signal for the next call to NextRequest.
	UpdateState(resp *http.Response) error
}

// Collect runs pager against doer, applies extract to every page and
// concatenates the results in page-then-item order. Fetches are strictly
// sequential. Any fetch failure or non-2xx status aborts the whole
// collection; nothing accumulated so far is returned.
func Collect[T any](doer HTTPDoer, pager Pager, extract func(*http.Response) ([]T, error)) ([]T, error) {
	var items []T
	for {
		req, err := pager.NextRequest()
		if err != nil {
			return nil, err
		}
		if req == nil {
			return items, nil
		}

		resp, err := doer.Do(req)
		if err != nil {
			return nil, errkind.Wrap(err, errkind.ErrTransport, "fetch page")
		}
		if resp.StatusCode < 200 || resp.StatusCode >= 300 {
			resp.Body.Close()
			return nil, errkind.Wrap(
				fmt.Errorf("unexpected status %d", resp.StatusCode),
				errkind.ErrTransport, "fetch page")
		}

		pageItems, err := extract(resp)
		if err != nil {
			resp.Body.Close()
			return nil, err
		}
		items = append(items, pageItems...)

		err = pager.UpdateState(resp)
		resp.Body.Close()
		if err != nil {
			return nil, err
		}
	}
}
