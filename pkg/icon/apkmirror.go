package icon

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"regexp"
	"strings"

	"github.com/revanced-tools/apk-resolver/pkg/httputil"
)

const APKMirrorBaseURL = "https://www.apkmirror.com"

// ErrNotListed is returned when APKMirror reports it does not carry a package.
var ErrNotListed = fmt.Errorf("package not listed on apkmirror: %w", httputil.ErrAssetNotFound)

var iconSizePattern = regexp.MustCompile(`w=\d+&h=\d+&q=\d+`)

const iconSize = "w=500&h=500&q=100"

// NormalizeIconSize rewrites the size and quality parameters of an
// APKMirror image url to 500x500 at full quality.
func NormalizeIconSize(iconURL string) string {
	return iconSizePattern.ReplaceAllString(iconURL, iconSize)
}

// APKMirror checks that the mirror carries a package before scraping its
// search results for the app avatar.
type APKMirror struct {
	session       *httputil.Session
	baseURL       string
	authorization string
}

type APKMirrorOption func(*APKMirror)

// WithAuthorization sets the Authorization header sent to the status
// endpoint.
func WithAuthorization(value string) APKMirrorOption {
	return func(m *APKMirror) {
		m.authorization = value
	}
}

func WithAPKMirrorBaseURL(baseURL string) APKMirrorOption {
	return func(m *APKMirror) {
		m.baseURL = strings.TrimRight(baseURL, "/")
	}
}

func NewAPKMirror(session *httputil.Session, opts ...APKMirrorOption) *APKMirror {
	m := &APKMirror{session: session, baseURL: APKMirrorBaseURL}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

func (m *APKMirror) Name() string { return "apkmirror" }

type statusRequest struct {
	PNames []string `json:"pnames"`
}

type statusResponse struct {
	Data []struct {
		Exists bool `json:"exists"`
	} `json:"data"`
}

// Exists asks the mirror's status endpoint whether it lists packageName.
func (m *APKMirror) Exists(ctx context.Context, packageName string) (bool, error) {
	headers := http.Header{}
	if m.authorization != "" {
		headers.Set("Authorization", m.authorization)
	}

	var status statusResponse
	err := m.session.PostJSON(ctx, m.baseURL+"/wp-json/apkm/v1/app_exists/", headers,
		statusRequest{PNames: []string{packageName}}, &status)
	if err != nil {
		return false, err
	}
	return len(status.Data) > 0 && status.Data[0].Exists, nil
}

func (m *APKMirror) Resolve(ctx context.Context, packageName string) (string, error) {
	exists, err := m.Exists(ctx, packageName)
	if err != nil {
		return "", err
	}
	if !exists {
		return "", ErrNotListed
	}

	searchURL := m.baseURL + "/?s=" + url.QueryEscape(packageName)
	doc, err := m.session.GetDocument(ctx, searchURL)
	if err != nil {
		return "", err
	}
	src, err := httputil.SelectAttr(doc, "div.bubble-wrap > img", "src", searchURL)
	if err != nil {
		return "", err
	}

	src = NormalizeIconSize(src)
	if strings.HasPrefix(src, "http://") || strings.HasPrefix(src, "https://") {
		return src, nil
	}
	return m.baseURL + src, nil
}

// IsNotListed reports whether err means the mirror does not carry the package.
func IsNotListed(err error) bool {
	return errors.Is(err, ErrNotListed)
}
