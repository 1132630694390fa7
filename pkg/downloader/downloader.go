package downloader

import (
	"context"
	"fmt"
	"strings"

	"github.com/danwakefield/fnmatch"

	"github.com/revanced-tools/apk-resolver/pkg/githubapi"
	"github.com/revanced-tools/apk-resolver/pkg/httputil"
	"github.com/revanced-tools/apk-resolver/pkg/logme"
	"github.com/revanced-tools/apk-resolver/pkg/uptodown"
)

const (
	SourceGitHub   = "github"
	SourceUpToDown = "uptodown"
)

// Request names what to download. An empty Version or "latest" asks for
// the newest release. Owner and Repo are only read by the GitHub source.
type Request struct {
	App     string
	Version string
	Owner   string
	Repo    string
}

func (r Request) Latest() bool {
	return r.Version == "" || r.Version == githubapi.LatestTag
}

// Artifact is a persisted download.
type Artifact struct {
	App     string `json:"app"`
	Path    string `json:"path,omitempty"`
	URL     string `json:"url,omitempty"`
	Size    int64  `json:"size,omitempty"`
	Skipped bool   `json:"skipped,omitempty"`
}

// Downloader resolves a request against one source and saves the result.
type Downloader interface {
	LatestVersion(ctx context.Context, req Request) (Artifact, error)
	SpecificVersion(ctx context.Context, req Request) (Artifact, error)
}

// Fetch dispatches to LatestVersion or SpecificVersion. Errors are not retried.
func Fetch(ctx context.Context, d Downloader, req Request) (Artifact, error) {
	if req.Latest() {
		return d.LatestVersion(ctx, req)
	}
	return d.SpecificVersion(ctx, req)
}

// SkipPolicy short-circuits downloads on dry runs and for apps matching
// one of the fnmatch patterns.
type SkipPolicy struct {
	DryRun   bool
	Patterns []string
}

func (p SkipPolicy) Skip(app string) bool {
	if p.DryRun {
		return true
	}
	for _, pattern := range p.Patterns {
		if fnmatch.Match(pattern, app, fnmatch.FNM_CASEFOLD) {
			return true
		}
	}
	return false
}

// Deps carries what the sources share.
type Deps struct {
	GitHub   *githubapi.Client
	UpToDown *uptodown.Client
	Fetcher  *Fetcher
	Skip     SkipPolicy
}

// New returns the downloader for a source name.
func New(source string, deps Deps) (Downloader, error) {
	switch strings.ToLower(source) {
	case SourceGitHub:
		return &GitHub{client: deps.GitHub, fetcher: deps.Fetcher, skip: deps.Skip}, nil
	case SourceUpToDown:
		return &UpToDown{client: deps.UpToDown, fetcher: deps.Fetcher, skip: deps.Skip}, nil
	default:
		return nil, &httputil.ConfigurationError{Reason: fmt.Sprintf("unknown source %q", source)}
	}
}

func skipped(app string) Artifact {
	logme.DebugFln("Skipping download of %s, dry run or skip pattern matched", app)
	return Artifact{App: app, Skipped: true}
}
