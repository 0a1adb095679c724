package scraper

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/markusmobius/go-trafilatura"

	"github.com/amosWeiskopf/scrapekit/pkg/errkind"
)

// Links returns the href of every element matched by selector ("a" when
// empty), in document order, skipping elements without one.
func Links(doc *goquery.Document, selector string) []string {
	if selector == "" {
		selector = "a"
	}
	var links []string
	doc.Find(selector).Each(func(_ int, sel *goquery.Selection) {
		if href, ok := sel.Attr("href"); ok && href != "" {
			links = append(links, href)
		}
	})
	return links
}

// Texts returns the trimmed text of every element matched by selector.
func Texts(doc *goquery.Document, selector string) []string {
	var texts []string
	doc.Find(selector).Each(func(_ int, sel *goquery.Selection) {
		texts = append(texts, strings.TrimSpace(sel.Text()))
	})
	return texts
}

// Metadata collects meta tags keyed by their name or property attribute.
func Metadata(doc *goquery.Document) map[string]string {
	meta := make(map[string]string)
	doc.Find("meta").Each(func(_ int, sel *goquery.Selection) {
		content := sel.AttrOr("content", "")
		if name, ok := sel.Attr("name"); ok && name != "" {
			meta[name] = content
		} else if prop, ok := sel.Attr("property"); ok && prop != "" {
			meta[prop] = content
		}
	})
	return meta
}

// Table reads the first table matched by selector ("table" when empty)
// into rows keyed by the header cells. Rows whose cell count does not
// match the header are skipped.
func Table(doc *goquery.Document, selector string) []map[string]string {
	if selector == "" {
		selector = "table"
	}
	table := doc.Find(selector).First()
	if table.Length() == 0 {
		return nil
	}

	var headers []string
	table.Find("th").Each(func(_ int, sel *goquery.Selection) {
		headers = append(headers, strings.TrimSpace(sel.Text()))
	})
	if len(headers) == 0 {
		return nil
	}

	var rows []map[string]string
	table.Find("tr").Each(func(_ int, tr *goquery.Selection) {
		var cells []string
		tr.Find("td").Each(func(_ int, td *goquery.Selection) {
			cells = append(cells, strings.TrimSpace(td.Text()))
		})
		if len(cells) != len(headers) {
			return
		}
		row := make(map[string]string, len(headers))
		for i, h := range headers {
			row[h] = cells[i]
		}
		rows = append(rows, row)
	})
	return rows
}

// Headings groups heading texts by level, "h1" through "h6".
func Headings(doc *goquery.Document) map[string][]string {
	headings := make(map[string][]string, 6)
	for level := 1; level <= 6; level++ {
		tag := fmt.Sprintf("h%d", level)
		headings[tag] = Texts(doc, tag)
	}
	return headings
}

// Paragraphs returns the trimmed text of every paragraph element.
func Paragraphs(doc *goquery.Document) []string {
	return Texts(doc, "p")
}

// Lists returns the item texts of every list matched by selector
// ("ul, ol" when empty), one slice per list.
func Lists(doc *goquery.Document, selector string) [][]string {
	if selector == "" {
		selector = "ul, ol"
	}
	var lists [][]string
	doc.Find(selector).Each(func(_ int, list *goquery.Selection) {
		var items []string
		list.Find("li").Each(func(_ int, li *goquery.Selection) {
			items = append(items, strings.TrimSpace(li.Text()))
		})
		lists = append(lists, items)
	})
	return lists
}

// Images returns the src of every element matched by selector ("img"
// when empty), skipping elements without one.
func Images(doc *goquery.Document, selector string) []string {
	if selector == "" {
		selector = "img"
	}
	var srcs []string
	doc.Find(selector).Each(func(_ int, sel *goquery.Selection) {
		if src, ok := sel.Attr("src"); ok && src != "" {
			srcs = append(srcs, src)
		}
	})
	return srcs
}

// JSONLD decodes every application/ld+json script block. Malformed
// blocks are skipped.
func JSONLD(doc *goquery.Document) []map[string]interface{} {
	var blocks []map[string]interface{}
	doc.Find(`script[type="application/ld+json"]`).Each(func(_ int, sel *goquery.Selection) {
		var data map[string]interface{}
		if err := json.Unmarshal([]byte(sel.Text()), &data); err != nil {
			return
		}
		blocks = append(blocks, data)
	})
	return blocks
}

// Form describes one HTML form and its named fields.
type Form struct {
	Action string
	Method string
	Fields map[string]string
}

// Forms collects every form matched by selector ("form" when empty)
// with the default values of its named inputs.
func Forms(doc *goquery.Document, selector string) []Form {
	if selector == "" {
		selector = "form"
	}
	var forms []Form
	doc.Find(selector).Each(func(_ int, sel *goquery.Selection) {
		form := Form{
			Action: sel.AttrOr("action", ""),
			Method: strings.ToLower(sel.AttrOr("method", "get")),
			Fields: make(map[string]string),
		}
		sel.Find("input, textarea, select").Each(func(_ int, field *goquery.Selection) {
			name, ok := field.Attr("name")
			if !ok || name == "" {
				return
			}
			form.Fields[name] = field.AttrOr("value", "")
		})
		forms = append(forms, form)
	})
	return forms
}

// MainContent extracts the main readable text of a page, dropping
// boilerplate like navigation and footers.
func MainContent(html string) (string, error) {
	result, err := trafilatura.Extract(strings.NewReader(html), trafilatura.Options{})
	if err != nil {
		return "", errkind.Wrap(err, errkind.ErrFormat, "extract main content")
	}
	if result == nil {
		return "", nil
	}
	return result.ContentText, nil
}
