package uptodown

import (
	"sort"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/hashicorp/go-version"

	"github.com/revanced-tools/apk-resolver/pkg/httputil"
)

const (
	versionsSection = "section#versions"
	versionItem     = "div[data-url]"
	versionText     = "span.version"
	downloadButton  = "#detail-download-button"
)

// VersionEntry is one row of a versions listing.
type VersionEntry struct {
	Version     string `json:"version"`
	DownloadURL string `json:"downloadUrl"`
}

// ParseVersions reads the entries of the versions section in page order.
func ParseVersions(doc *goquery.Document, pageURL string) ([]VersionEntry, error) {
	section := doc.Find(versionsSection).First()
	if section.Length() == 0 {
		return nil, httputil.ElementNotFound(versionsSection, pageURL)
	}

	var entries []VersionEntry
	section.Find(versionItem).Each(func(_ int, item *goquery.Selection) {
		dataURL, _ := item.Attr("data-url")
		entries = append(entries, VersionEntry{
			Version:     strings.TrimSpace(item.Find(versionText).First().Text()),
			DownloadURL: dataURL,
		})
	})
	return entries, nil
}

// FindVersion returns the first entry whose version equals want exactly.
func FindVersion(entries []VersionEntry, want string) (VersionEntry, bool) {
	for _, e := range entries {
		if e.Version == want {
			return e, true
		}
	}
	return VersionEntry{}, false
}

// SortEntries orders entries newest first. Entries whose version does not
// parse keep their listing order after the parsable ones.
func SortEntries(entries []VersionEntry) {
	parsed := make(map[int]*version.Version, len(entries))
	for i, e := range entries {
		if v, err := version.NewVersion(e.Version); err == nil {
			parsed[i] = v
		}
	}

	idx := make([]int, len(entries))
	for i := range idx {
		idx[i] = i
	}
	sort.SliceStable(idx, func(a, b int) bool {
		va, okA := parsed[idx[a]]
		vb, okB := parsed[idx[b]]
		switch {
		case okA && okB:
			return va.GreaterThan(vb)
		case okA:
			return true
		default:
			return false
		}
	})

	sorted := make([]VersionEntry, len(entries))
	for i, j := range idx {
		sorted[i] = entries[j]
	}
	copy(entries, sorted)
}
