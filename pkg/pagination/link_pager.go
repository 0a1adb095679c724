package pagination

import (
	"net/http"
	"strings"
)

// LinkPager follows the rel="next" relation of the HTTP Link header.
// Relative next references are resolved against the base request URL.
type LinkPager struct {
	// MaxPages caps the number of pages fetched. Zero means unbounded,
	// which is the default: termination then depends entirely on the
	// server eventually omitting the next relation.
	MaxPages int

	baseReq *http.Request
	nextURL string
	fetched int
}

// NewLinkPager builds a LinkPager starting at req.
func NewLinkPager(req *http.Request) *LinkPager {
	return &LinkPager{baseReq: req, nextURL: req.URL.String()}
}

// NextRequest returns the next request or nil when done.
func (p *LinkPager) NextRequest() (*http.Request, error) {
	if p.nextURL == "" {
		return nil, nil
	}
	if p.MaxPages > 0 && p.fetched >= p.MaxPages {
		return nil, nil
	}

	u, err := p.baseReq.URL.Parse(p.nextURL)
	if err != nil {
		return nil, err
	}
	req := p.baseReq.Clone(p.baseReq.Context())
	req.URL = u
	p.fetched++
	return req, nil
}

// UpdateState records the next relation of the Link header, if any.
func (p *LinkPager) UpdateState(resp *http.Response) error {
	p.nextURL = parseLinkHeader(resp.Header.Get("Link"))["next"]
	return nil
}

// parseLinkHeader splits an RFC 8288 Link header into a rel -> URL map.
func parseLinkHeader(header string) map[string]string {
	parts := strings.Split(header, ",")
	links := make(map[string]string, len(parts))
	for _, part := range parts {
		seg := strings.Split(strings.TrimSpace(part), ";")
		if len(seg) < 2 {
			continue
		}
		urlPart := strings.Trim(seg[0], "<> ")
		var rel string
		for _, param := range seg[1:] {
			kv := strings.SplitN(strings.TrimSpace(param), "=", 2)
			if len(kv) != 2 {
				continue
			}
			if kv[0] == "rel" {
				rel = strings.Trim(kv[1], `"`)
			}
		}
		if rel != "" {
			links[rel] = urlPart
		}
	}
	return links
}
