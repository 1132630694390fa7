package githubapi

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/revanced-tools/apk-resolver/pkg/httputil"
	"github.com/revanced-tools/apk-resolver/pkg/logme"
)

const DefaultBaseURL = "https://api.github.com"

// Client resolves release assets through the GitHub releases API.
type Client struct {
	baseURL   string
	session   *httputil.Session
	changelog ChangelogRecorder
}

type Option func(*Client)

func WithBaseURL(baseURL string) Option {
	return func(c *Client) {
		c.baseURL = strings.TrimRight(baseURL, "/")
	}
}

// WithChangelog records the notes of every release resolved on the
// latest-release path.
func WithChangelog(recorder ChangelogRecorder) Option {
	return func(c *Client) {
		c.changelog = recorder
	}
}

func NewClient(session *httputil.Session, opts ...Option) *Client {
	c := &Client{
		baseURL: DefaultBaseURL,
		session: session,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// FetchRelease fetches one release. Tag defaults to "latest".
func (c *Client) FetchRelease(ctx context.Context, ref RepoRef) (Release, error) {
	tag := ref.Tag
	if tag == "" {
		tag = LatestTag
	}
	apiURL := fmt.Sprintf("%s/repos/%s/%s/releases/%s", c.baseURL, ref.Owner, ref.Repo, tag)

	headers := http.Header{}
	headers.Set("Content-Type", "application/vnd.github.v3+json")
	headers.Set("Accept", "application/vnd.github.v3+json")
	if c.session.Token != "" {
		logme.Debugln("Using personal access token")
		headers.Set("Authorization", "token "+c.session.Token)
	}

	var release Release
	if err := c.session.GetJSON(ctx, apiURL, headers, &release); err != nil {
		return Release{}, err
	}

	if release.Assets == nil {
		return Release{}, &httputil.SourceUnavailableError{
			URL:        apiURL,
			StatusCode: http.StatusOK,
			Hint:       "release payload has no assets field",
		}
	}
	return release, nil
}

// LatestAsset resolves the download of the latest release of owner/repo.
func (c *Client) LatestAsset(ctx context.Context, owner, repo string) (ResolvedAsset, error) {
	return c.AssetForTag(ctx, owner, repo, LatestTag)
}

// AssetForTag resolves the download of a given release, picking the asset
// index from LatestAssetIndex. On success the release notes are recorded.
func (c *Client) AssetForTag(ctx context.Context, owner, repo, tag string) (ResolvedAsset, error) {
	ref := RepoRef{Owner: owner, Repo: repo, Tag: tag}
	logme.DebugFln("Resolving %s asset of %s", tag, ref)

	release, err := c.FetchRelease(ctx, ref)
	if err != nil {
		return ResolvedAsset{}, err
	}

	idx := LatestAssetIndex(repo)
	if idx >= len(release.Assets) {
		return ResolvedAsset{}, httputil.NotFound(
			"release %s of %s has %d assets, expected index %d",
			release.TagName, ref, len(release.Assets), idx,
		)
	}
	asset := release.Assets[idx]

	if c.changelog != nil {
		c.changelog.Record(ref.String(), release)
	}

	return ResolvedAsset{DownloadURL: asset.BrowserDownloadURL, Name: asset.Name}, nil
}

// AssetByFilter resolves the release referenced by repoURL and returns the
// part of the first asset url matching pattern. An empty result means the
// release does not provide such an asset. The pattern is validated before
// any request is sent.
func (c *Client) AssetByFilter(ctx context.Context, repoURL, pattern string) (string, error) {
	re, err := CompileFilter(pattern)
	if err != nil {
		return "", err
	}

	ref, err := ParseRepoURL(repoURL)
	if err != nil {
		return "", err
	}

	release, err := c.FetchRelease(ctx, ref)
	if err != nil {
		return "", err
	}

	match := MatchAsset(release.Assets, re)
	if match != "" {
		logme.DebugFln("Found asset %s in %s (%s)", match, ref, ref.Tag)
	} else {
		logme.DebugFln("No asset of %s (%s) matches %q", ref, ref.Tag, pattern)
	}
	return match, nil
}
