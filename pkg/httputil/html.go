package httputil

import (
	"io"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// ParseDocument parses HTML with the single parser used across all
// scrapers (golang.org/x/net/html through goquery). A body that cannot be
// parsed is reported as an unavailable source.
func ParseDocument(r io.Reader, pageURL string) (*goquery.Document, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, &SourceUnavailableError{URL: pageURL, Hint: "unparsable html", Err: err}
	}
	return doc, nil
}

// SelectAttr returns the attribute of the first element matching selector.
// A missing element or an empty attribute is ErrElementNotFound.
func SelectAttr(doc *goquery.Document, selector, attr, pageURL string) (string, error) {
	sel := doc.Find(selector).First()
	if sel.Length() == 0 {
		return "", ElementNotFound(selector, pageURL)
	}
	value, ok := sel.Attr(attr)
	value = strings.TrimSpace(value)
	if !ok || value == "" {
		return "", ElementNotFound(selector+"["+attr+"]", pageURL)
	}
	return value, nil
}
