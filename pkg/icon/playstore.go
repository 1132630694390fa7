package icon

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/revanced-tools/apk-resolver/pkg/httputil"
)

const defaultPlayStoreTemplate = "https://play.google.com/store/apps/details?id=%s&hl=en"

// PlayStore looks up package metadata. A JSON answer is read for its icon
// field, an HTML details page for its og:image.
type PlayStore struct {
	session  *httputil.Session
	template string
}

type PlayStoreOption func(*PlayStore)

// WithMetadataTemplate points the lookup at another endpoint. The template
// takes the package name as its only verb.
func WithMetadataTemplate(template string) PlayStoreOption {
	return func(p *PlayStore) {
		p.template = template
	}
}

func NewPlayStore(session *httputil.Session, opts ...PlayStoreOption) *PlayStore {
	p := &PlayStore{session: session, template: defaultPlayStoreTemplate}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

func (p *PlayStore) Name() string { return "playstore" }

type appMetadata struct {
	Icon string `json:"icon"`
}

func (p *PlayStore) Resolve(ctx context.Context, packageName string) (string, error) {
	pageURL := fmt.Sprintf(p.template, packageName)
	resp, err := p.session.Get(ctx, pageURL, nil)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if isJSON(resp) {
		var meta appMetadata
		if err := json.NewDecoder(resp.Body).Decode(&meta); err != nil {
			return "", &httputil.SourceUnavailableError{URL: pageURL, StatusCode: resp.StatusCode, Hint: "malformed metadata", Err: err}
		}
		if meta.Icon == "" {
			return "", httputil.NotFound("no icon in metadata of %s", packageName)
		}
		return meta.Icon, nil
	}

	doc, err := httputil.ParseDocument(resp.Body, pageURL)
	if err != nil {
		return "", err
	}
	return httputil.SelectAttr(doc, `meta[property="og:image"]`, "content", pageURL)
}

func isJSON(resp *http.Response) bool {
	return strings.Contains(resp.Header.Get("Content-Type"), "json")
}
