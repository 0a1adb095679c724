// Package cleaner provides text normalization and small tabular
// cleaning helpers for scraped data.
package cleaner

import (
	"regexp"
	"strings"

	"github.com/aaaton/golem/v4"
	"github.com/aaaton/golem/v4/dicts/en"
	"github.com/kljensen/snowball"
	"golang.org/x/net/html"

	"github.com/amosWeiskopf/scrapekit/pkg/errkind"
)

// Common English stop words.
var stopWords = map[string]bool{
	"a": true, "an": true, "and": true, "are": true, "as": true, "at": true,
	"be": true, "by": true, "for": true, "from": true, "has": true, "he": true,
	"in": true, "is": true, "it": true, "its": true, "of": true, "on": true,
	"that": true, "the": true, "to": true, "was": true, "will": true, "with": true,
	"this": true, "but": true, "they": true, "have": true, "had": true,
	"were": true, "been": true, "their": true, "she": true, "which": true, "do": true,
	"or": true, "if": true, "not": true, "what": true, "there": true, "can": true,
	"out": true, "up": true, "one": true, "about": true, "more": true, "so": true,
	"said": true, "when": true, "some": true, "into": true, "them": true, "then": true,
	"two": true, "how": true, "her": true, "than": true, "first": true, "way": true,
	"even": true, "back": true, "any": true, "over": true, "where": true, "just": true,
}

var (
	nonAlpha        = regexp.MustCompile(`[^a-zA-Z\s]`)
	nonAlphaNumeric = regexp.MustCompile(`[^a-zA-Z\s\d]`)
)

// StripTags removes markup and returns the concatenated text content.
func StripTags(text string) string {
	tok := html.NewTokenizer(strings.NewReader(text))
	var b strings.Builder
	for {
		switch tok.Next() {
		case html.ErrorToken:
			return b.String()
		case html.TextToken:
			b.Write(tok.Text())
		}
	}
}

// StripNonAlpha removes everything that is not a letter or whitespace.
// With keepDigits, digits survive too.
func StripNonAlpha(text string, keepDigits bool) string {
	if keepDigits {
		return nonAlphaNumeric.ReplaceAllString(text, "")
	}
	return nonAlpha.ReplaceAllString(text, "")
}

// RemoveStopWords drops common stop words, keeping the remaining tokens
// in order separated by single spaces.
func RemoveStopWords(text string) string {
	words := strings.Fields(text)
	filtered := make([]string, 0, len(words))
	for _, word := range words {
		if !stopWords[strings.ToLower(word)] {
			filtered = append(filtered, word)
		}
	}
	return strings.Join(filtered, " ")
}

// Options toggles the normalization steps. Steps always apply in the
// order the fields are declared; the pipeline is order-sensitive.
type Options struct {
	StripTags       bool
	StripNonAlpha   bool
	KeepDigits      bool
	Lowercase       bool
	RemoveStopWords bool
	Stem            bool
	Lemmatize       bool

	// Language selects the stemmer dictionary. Defaults to "english".
	Language string
}

// Normalizer applies a configurable text normalization pipeline.
type Normalizer struct {
	opts       Options
	lemmatizer *golem.Lemmatizer
}

// NewNormalizer builds a Normalizer. The lemmatizer dictionary is only
// loaded when the lemmatize step is enabled.
func NewNormalizer(opts Options) (*Normalizer, error) {
	if opts.Language == "" {
		opts.Language = "english"
	}
	n := &Normalizer{opts: opts}
	if opts.Lemmatize {
		lem, err := golem.New(en.New())
		if err != nil {
			return nil, errkind.Wrap(err, errkind.ErrFormat, "load lemmatizer dictionary")
		}
		n.lemmatizer = lem
	}
	return n, nil
}

// Normalize runs the enabled steps over text in fixed order: strip
// tags, strip non-alphabetic, lowercase, stop words, stem, lemmatize.
func (n *Normalizer) Normalize(text string) (string, error) {
	if n.opts.StripTags {
		text = StripTags(text)
	}
	if n.opts.StripNonAlpha {
		text = StripNonAlpha(text, n.opts.KeepDigits)
	}
	if n.opts.Lowercase {
		text = strings.ToLower(text)
	}
	if n.opts.RemoveStopWords {
		text = RemoveStopWords(text)
	}
	if n.opts.Stem {
		stemmed, err := n.StemText(text)
		if err != nil {
			return "", err
		}
		text = stemmed
	}
	if n.opts.Lemmatize {
		text = n.LemmatizeText(text)
	}
	return text, nil
}

// StemText stems every token with the configured snowball language.
func (n *Normalizer) StemText(text string) (string, error) {
	words := strings.Fields(text)
	stemmed := make([]string, 0, len(words))
	for _, word := range words {
		stem, err := snowball.Stem(word, n.opts.Language, false)
		if err != nil {
			return "", errkind.Wrap(err, errkind.ErrFormat, "stem token")
		}
		stemmed = append(stemmed, stem)
	}
	return strings.Join(stemmed, " "), nil
}

// LemmatizeText maps every token to its dictionary lemma. Tokens
// outside the dictionary pass through unchanged.
func (n *Normalizer) LemmatizeText(text string) string {
	if n.lemmatizer == nil {
		return text
	}
	words := strings.Fields(text)
	lemmas := make([]string, 0, len(words))
	for _, word := range words {
		lemmas = append(lemmas, n.lemmatizer.Lemma(word))
	}
	return strings.Join(lemmas, " ")
}
