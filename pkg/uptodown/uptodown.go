package uptodown

import (
	"context"
	"fmt"

	"github.com/revanced-tools/apk-resolver/pkg/httputil"
	"github.com/revanced-tools/apk-resolver/pkg/logme"
)

// DefaultPageTemplate expands a per-app slug into the app's site root.
const DefaultPageTemplate = "https://%s.en.uptodown.com/android"

// Client resolves download links from Uptodown listing pages.
type Client struct {
	session      *httputil.Session
	slugs        map[string]string
	pageTemplate string
}

type Option func(*Client)

// WithPageTemplate overrides DefaultPageTemplate. The template takes the
// app slug as its only verb.
func WithPageTemplate(template string) Option {
	return func(c *Client) {
		c.pageTemplate = template
	}
}

// NewClient creates a client. slugs maps app names to Uptodown subdomains.
func NewClient(session *httputil.Session, slugs map[string]string, opts ...Option) *Client {
	c := &Client{
		session:      session,
		slugs:        slugs,
		pageTemplate: DefaultPageTemplate,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Client) appRoot(app string) (string, error) {
	slug, ok := c.slugs[app]
	if !ok || slug == "" {
		return "", &httputil.ConfigurationError{Reason: fmt.Sprintf("no uptodown slug configured for %s", app)}
	}
	return fmt.Sprintf(c.pageTemplate, slug), nil
}

// VersionsURL returns the versions listing page of app.
func (c *Client) VersionsURL(app string) (string, error) {
	root, err := c.appRoot(app)
	if err != nil {
		return "", err
	}
	return root + "/versions", nil
}

// DownloadPageURL returns the latest download page of app.
func (c *Client) DownloadPageURL(app string) (string, error) {
	root, err := c.appRoot(app)
	if err != nil {
		return "", err
	}
	return root + "/download", nil
}

// ListVersions returns the entries of the versions page in page order.
func (c *Client) ListVersions(ctx context.Context, app string) ([]VersionEntry, error) {
	pageURL, err := c.VersionsURL(app)
	if err != nil {
		return nil, err
	}
	doc, err := c.session.GetDocument(ctx, pageURL)
	if err != nil {
		return nil, err
	}
	return ParseVersions(doc, pageURL)
}

// ResolveVersion returns the download page of the listed version that
// equals version exactly.
func (c *Client) ResolveVersion(ctx context.Context, app, version string) (string, error) {
	logme.DebugFln("Looking up %s %s on uptodown", app, version)
	entries, err := c.ListVersions(ctx, app)
	if err != nil {
		return "", err
	}

	entry, ok := FindVersion(entries, version)
	if !ok || entry.DownloadURL == "" {
		return "", httputil.NotFound("unable to get download url for %s %s", app, version)
	}
	return entry.DownloadURL, nil
}

// ResolveLatest returns the download link advertised on the download page.
func (c *Client) ResolveLatest(ctx context.Context, app string) (string, error) {
	pageURL, err := c.DownloadPageURL(app)
	if err != nil {
		return "", err
	}
	return c.ResolveDownloadLink(ctx, pageURL)
}

// ResolveDownloadLink follows an interim page and extracts the final link
// from its download button.
func (c *Client) ResolveDownloadLink(ctx context.Context, pageURL string) (string, error) {
	doc, err := c.session.GetDocument(ctx, pageURL)
	if err != nil {
		return "", err
	}
	link, err := httputil.SelectAttr(doc, downloadButton, "data-url", pageURL)
	if err != nil {
		return "", fmt.Errorf("unable to download from uptodown: %w", err)
	}
	return link, nil
}
