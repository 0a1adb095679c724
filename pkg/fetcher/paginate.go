package fetcher

import (
	"context"
	"encoding/json"
	"io"
	"net/http"

	"github.com/amosWeiskopf/scrapekit/pkg/errkind"
	"github.com/amosWeiskopf/scrapekit/pkg/pagination"
)

// PaginateOptions configures a paginated fetch.
type PaginateOptions struct {
	// Params are fixed query parameters sent with every page.
	Params map[string]string

	// PageParam is the query parameter carrying the page number.
	// Defaults to "page".
	PageParam string

	// StartPage is the first page number. Values below 1 default to 1.
	StartPage int

	// MaxPages caps the number of pages fetched. Zero means unbounded.
	MaxPages int
}

// Paginate fetches endpoint page by page, advancing a numeric page
// parameter and stopping when a response carries no rel="next" Link
// relation. Each page body must be a JSON array of T; elements are
// accumulated in page-then-item order.
func Paginate[T any](ctx context.Context, f *Fetcher, endpoint string, opts PaginateOptions) ([]T, error) {
	req, err := f.pageRequest(ctx, endpoint, opts.Params)
	if err != nil {
		return nil, err
	}
	pager := pagination.NewPagePager(req, opts.PageParam, opts.StartPage)
	pager.MaxPages = opts.MaxPages
	return pagination.Collect(f.client.GetClient(), pager, decodePage[T])
}

// PaginateByLink fetches endpoint and follows the Link header's next
// relation until absent, accumulating JSON array elements across pages.
func PaginateByLink[T any](ctx context.Context, f *Fetcher, endpoint string, params map[string]string, maxPages int) ([]T, error) {
	req, err := f.pageRequest(ctx, endpoint, params)
	if err != nil {
		return nil, err
	}
	pager := pagination.NewLinkPager(req)
	pager.MaxPages = maxPages
	return pagination.Collect(f.client.GetClient(), pager, decodePage[T])
}

// pageRequest builds the base request the pagers clone: configured
// headers plus fixed query parameters.
func (f *Fetcher) pageRequest(ctx context.Context, endpoint string, params map[string]string) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, f.url(endpoint), nil)
	if err != nil {
		return nil, errkind.Wrap(err, errkind.ErrTransport, "build request")
	}
	for k, v := range f.cfg.Headers {
		req.Header.Set(k, v)
	}
	if len(params) > 0 {
		q := req.URL.Query()
		for k, v := range params {
			q.Set(k, v)
		}
		req.URL.RawQuery = q.Encode()
	}
	return req, nil
}

func decodePage[T any](resp *http.Response) ([]T, error) {
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, errkind.Wrap(err, errkind.ErrTransport, "read page body")
	}
	var items []T
	if err := json.Unmarshal(body, &items); err != nil {
		return nil, errkind.Wrap(err, errkind.ErrFormat, "decode page")
	}
	return items, nil
}
