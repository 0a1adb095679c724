package scraper

import (
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleHTML = `<!DOCTYPE html>
<html>
<head>
	<title>Sample</title>
	<meta name="description" content="A sample page">
	<meta property="og:title" content="Sample OG">
	<meta charset="utf-8">
	<script type="application/ld+json">{"@type": "Article", "headline": "Sample"}</script>
	<script type="application/ld+json">{broken</script>
</head>
<body>
	<h1>Main Heading</h1>
	<h2>Sub One</h2>
	<h2>Sub Two</h2>
	<p>First paragraph.</p>
	<p>Second paragraph.</p>
	<a href="/about">About</a>
	<a href="https://example.org">External</a>
	<a>No href</a>
	<img src="/logo.png" alt="logo">
	<img alt="no src">
	<ul>
		<li>one</li>
		<li>two</li>
	</ul>
	<ol>
		<li>first</li>
	</ol>
	<table id="prices">
		<tr><th>Name</th><th>Price</th></tr>
		<tr><td>Tea</td><td>3</td></tr>
		<tr><td>Coffee</td><td>4</td></tr>
		<tr><td>Broken row</td></tr>
	</table>
	<form action="/login" method="POST">
		<input name="user" value="guest">
		<input name="pass">
		<input value="nameless">
	</form>
</body>
</html>`

func sampleDoc(t *testing.T) *goquery.Document {
	t.Helper()
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(sampleHTML))
	require.NoError(t, err)
	return doc
}

func TestLinks(t *testing.T) {
	doc := sampleDoc(t)
	assert.Equal(t, []string{"/about", "https://example.org"}, Links(doc, ""))
	assert.Equal(t, []string{"/about"}, Links(doc, `a[href="/about"]`))
}

func TestTexts(t *testing.T) {
	doc := sampleDoc(t)
	assert.Equal(t, []string{"Sub One", "Sub Two"}, Texts(doc, "h2"))
	assert.Empty(t, Texts(doc, "article"))
}

func TestMetadata(t *testing.T) {
	meta := Metadata(sampleDoc(t))
	assert.Equal(t, "A sample page", meta["description"])
	assert.Equal(t, "Sample OG", meta["og:title"])
	assert.NotContains(t, meta, "charset")
}

func TestTable(t *testing.T) {
	rows := Table(sampleDoc(t), "#prices")
	require.Len(t, rows, 2)
	assert.Equal(t, map[string]string{"Name": "Tea", "Price": "3"}, rows[0])
	assert.Equal(t, map[string]string{"Name": "Coffee", "Price": "4"}, rows[1])
}

func TestTableMissing(t *testing.T) {
	assert.Nil(t, Table(sampleDoc(t), "#nope"))
}

func TestHeadings(t *testing.T) {
	headings := Headings(sampleDoc(t))
	assert.Equal(t, []string{"Main Heading"}, headings["h1"])
	assert.Equal(t, []string{"Sub One", "Sub Two"}, headings["h2"])
	assert.Empty(t, headings["h3"])
}

func TestParagraphs(t *testing.T) {
	assert.Equal(t, []string{"First paragraph.", "Second paragraph."}, Paragraphs(sampleDoc(t)))
}

func TestLists(t *testing.T) {
	lists := Lists(sampleDoc(t), "")
	require.Len(t, lists, 2)
	assert.Equal(t, []string{"one", "two"}, lists[0])
	assert.Equal(t, []string{"first"}, lists[1])
}

func TestImages(t *testing.T) {
	assert.Equal(t, []string{"/logo.png"}, Images(sampleDoc(t), ""))
}

func TestJSONLDSkipsMalformedBlocks(t *testing.T) {
	blocks := JSONLD(sampleDoc(t))
	require.Len(t, blocks, 1)
	assert.Equal(t, "Article", blocks[0]["@type"])
}

func TestForms(t *testing.T) {
	forms := Forms(sampleDoc(t), "")
	require.Len(t, forms, 1)
	assert.Equal(t, "/login", forms[0].Action)
	assert.Equal(t, "post", forms[0].Method)
	assert.Equal(t, map[string]string{"user": "guest", "pass": ""}, forms[0].Fields)
}

func TestMainContent(t *testing.T) {
	page := `<!DOCTYPE html><html><head><title>Story</title></head><body>
		<nav><a href="/">Home</a><a href="/news">News</a></nav>
		<article>
			<h1>The quiet harbor</h1>
			<p>The harbor town woke slowly under a grey morning sky, its fishing
			boats rocking gently against the worn wooden piers that had served
			three generations of the same families.</p>
			<p>By midday the market square filled with traders selling the early
			catch, and the smell of salt and tar drifted up the narrow streets
			toward the old lighthouse on the hill.</p>
			<p>Nobody could remember a season when the boats had come back this
			full, and the harbormaster spent the afternoon recording weights in
			a ledger that had not seen numbers like these in twenty years.</p>
		</article>
		<footer>Copyright notice and unrelated boilerplate text here.</footer>
	</body></html>`

	text, err := MainContent(page)
	require.NoError(t, err)
	assert.Contains(t, text, "harbor town woke slowly")
}
