package pagination

import (
	"net/http"
	"strconv"
)

// PagePager paginates with a numeric page parameter. The parameter
// advances by one after each fetch, but the stop condition is still the
// absence of a rel="next" Link relation in the response. This hybrid
// matches APIs that page by number while advertising continuation
// through Link headers (GitHub-style); an empty page does not by itself
// stop the loop.
type PagePager struct {
	// MaxPages caps the number of pages fetched. Zero means unbounded.
	MaxPages int

	baseReq   *http.Request
	pageParam string
	page      int
	first     bool
	hasNext   bool
	fetched   int
}

// NewPagePager builds a PagePager. pageParam defaults to "page" and
// startPage values below 1 default to 1.
func NewPagePager(req *http.Request, pageParam string, startPage int) *PagePager {
	if pageParam == "" {
		pageParam = "page"
	}
	if startPage < 1 {
		startPage = 1
	}
	return &PagePager{
		baseReq:   req,
		pageParam: pageParam,
		page:      startPage,
		first:     true,
	}
}

// NextRequest returns the next request with the page parameter set, or
// nil when the previous response carried no next relation.
func (p *PagePager) NextRequest() (*http.Request, error) {
	if !p.first && !p.hasNext {
		return nil, nil
	}
	if p.MaxPages > 0 && p.fetched >= p.MaxPages {
		return nil, nil
	}
	if !p.first {
		p.page++
	}

	req := p.baseReq.Clone(p.baseReq.Context())
	q := req.URL.Query()
	q.Set(p.pageParam, strconv.Itoa(p.page))
	req.URL.RawQuery = q.Encode()

	p.first = false
	p.fetched++
	return req, nil
}

// UpdateState records whether the response advertised a next relation.
func (p *PagePager) UpdateState(resp *http.Response) error {
	p.hasNext = parseLinkHeader(resp.Header.Get("Link"))["next"] != ""
	return nil
}
