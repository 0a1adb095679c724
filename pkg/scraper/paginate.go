package scraper

import (
	"context"

	"github.com/PuerkitoBio/goquery"
)

// PaginateOptions configures a selector-driven pagination loop.
type PaginateOptions struct {
	// Params are sent with every page request.
	Params map[string]string

	// Method applies to every page request. Defaults to GET.
	Method Method

	// NextSelector matches the anchor pointing at the next page.
	// Defaults to "a.next".
	NextSelector string

	// MaxPages caps the number of pages fetched. Zero means unbounded:
	// the loop runs until a page has no matching next anchor.
	MaxPages int
}

// Paginate fetches ref and keeps following the next-page anchor until a
// page has none, applying extract to every page and concatenating the
// results in page-then-item order. The policy gate applies to every
// page. A fetch failure aborts the whole collection.
func Paginate[T any](ctx context.Context, s *Scraper, ref string, extract func(*goquery.Document) ([]T, error), opts PaginateOptions) ([]T, error) {
	selector := opts.NextSelector
	if selector == "" {
		selector = "a.next"
	}

	var items []T
	next := ref
	pages := 0
	for {
		if opts.MaxPages > 0 && pages >= opts.MaxPages {
			return items, nil
		}

		html, err := s.Fetch(ctx, next, opts.Params, opts.Method)
		if err != nil {
			return nil, err
		}
		doc, err := s.Parse(html)
		if err != nil {
			return nil, err
		}

		pageItems, err := extract(doc)
		if err != nil {
			return nil, err
		}
		items = append(items, pageItems...)
		pages++

		href, ok := doc.Find(selector).First().Attr("href")
		if !ok || href == "" {
			return items, nil
		}
		// Resolved against the base URL by the next Fetch.
		next = href
	}
}
