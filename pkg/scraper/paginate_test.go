package scraper

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/amosWeiskopf/scrapekit/pkg/errkind"
)

func extractItems(doc *goquery.Document) ([]string, error) {
	return Texts(doc, "li.item"), nil
}

func pagedSite(t *testing.T) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/robots.txt":
			http.NotFound(w, r)
		case "/p1":
			fmt.Fprint(w, `<html><body>
				<ul><li class="item">a</li><li class="item">b</li></ul>
				<a class="next" href="/p2">next</a>
			</body></html>`)
		case "/p2":
			fmt.Fprint(w, `<html><body>
				<ul><li class="item">c</li></ul>
			</body></html>`)
		default:
			http.NotFound(w, r)
		}
	}))
}

func TestPaginateFollowsNextAnchor(t *testing.T) {
	server := pagedSite(t)
	defer server.Close()

	s, err := New(Config{BaseURL: server.URL})
	require.NoError(t, err)

	items, err := Paginate(context.Background(), s, "/p1", extractItems, PaginateOptions{})
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b", "c"}, items)
}

func TestPaginateSinglePage(t *testing.T) {
	server := pagedSite(t)
	defer server.Close()

	s, err := New(Config{BaseURL: server.URL})
	require.NoError(t, err)

	items, err := Paginate(context.Background(), s, "/p2", extractItems, PaginateOptions{})
	require.NoError(t, err)
	assert.Equal(t, []string{"c"}, items)
}

func TestPaginateCustomSelector(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/robots.txt":
			http.NotFound(w, r)
		case "/start":
			fmt.Fprint(w, `<html><body>
				<li class="item">x</li>
				<a rel="older" href="/more">older</a>
			</body></html>`)
		case "/more":
			fmt.Fprint(w, `<html><body><li class="item">y</li></body></html>`)
		default:
			http.NotFound(w, r)
		}
	}))
	defer server.Close()

	s, err := New(Config{BaseURL: server.URL})
	require.NoError(t, err)

	items, err := Paginate(context.Background(), s, "/start", extractItems, PaginateOptions{
		NextSelector: `a[rel="older"]`,
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"x", "y"}, items)
}

func TestPaginateMaxPages(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/robots.txt" {
			http.NotFound(w, r)
			return
		}
		// Every page links to itself, an unbounded loop without the cap.
		fmt.Fprint(w, `<html><body>
			<li class="item">z</li>
			<a class="next" href="/loop">next</a>
		</body></html>`)
	}))
	defer server.Close()

	s, err := New(Config{BaseURL: server.URL})
	require.NoError(t, err)

	items, err := Paginate(context.Background(), s, "/loop", extractItems, PaginateOptions{MaxPages: 3})
	require.NoError(t, err)
	assert.Equal(t, []string{"z", "z", "z"}, items)
}

func TestPaginatePolicyAppliesToEveryPage(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/robots.txt":
			fmt.Fprint(w, "User-agent: *\nDisallow: /blocked\n")
		case "/p1":
			fmt.Fprint(w, `<html><body>
				<li class="item">a</li>
				<a class="next" href="/blocked">next</a>
			</body></html>`)
		default:
			http.NotFound(w, r)
		}
	}))
	defer server.Close()

	s, err := New(Config{BaseURL: server.URL})
	require.NoError(t, err)

	items, err := Paginate(context.Background(), s, "/p1", extractItems, PaginateOptions{})
	assert.ErrorIs(t, err, errkind.ErrPolicy)
	assert.Nil(t, items)
}

func TestPaginateFetchFailureLosesPartialResults(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/robots.txt":
			http.NotFound(w, r)
		case "/p1":
			fmt.Fprint(w, `<html><body>
				<li class="item">a</li>
				<a class="next" href="/p2">next</a>
			</body></html>`)
		default:
			http.Error(w, "boom", http.StatusInternalServerError)
		}
	}))
	defer server.Close()

	s, err := New(Config{BaseURL: server.URL})
	require.NoError(t, err)

	items, err := Paginate(context.Background(), s, "/p1", extractItems, PaginateOptions{})
	assert.ErrorIs(t, err, errkind.ErrTransport)
	assert.Nil(t, items)
}
