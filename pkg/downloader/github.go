package downloader

import (
	"context"

	"github.com/revanced-tools/apk-resolver/pkg/githubapi"
	"github.com/revanced-tools/apk-resolver/pkg/httputil"
	"github.com/revanced-tools/apk-resolver/pkg/logme"
)

// GitHub downloads release assets. Files are saved under the app name.
type GitHub struct {
	client  *githubapi.Client
	fetcher *Fetcher
	skip    SkipPolicy
}

func (g *GitHub) LatestVersion(ctx context.Context, req Request) (Artifact, error) {
	return g.download(ctx, req, githubapi.LatestTag)
}

// SpecificVersion downloads the release tagged req.Version.
func (g *GitHub) SpecificVersion(ctx context.Context, req Request) (Artifact, error) {
	return g.download(ctx, req, "tags/"+req.Version)
}

func (g *GitHub) download(ctx context.Context, req Request, tag string) (Artifact, error) {
	logme.DebugFln("Trying to download %s from github", req.App)
	if g.skip.Skip(req.App) {
		return skipped(req.App), nil
	}
	if req.Owner == "" || req.Repo == "" {
		return Artifact{}, &httputil.ConfigurationError{Reason: "github source of " + req.App + " needs owner and repo"}
	}

	asset, err := g.client.AssetForTag(ctx, req.Owner, req.Repo, tag)
	if err != nil {
		return Artifact{}, err
	}

	artifact, err := g.fetcher.Download(ctx, asset.DownloadURL, req.App)
	if err != nil {
		return Artifact{}, err
	}
	artifact.App = req.App
	return artifact, nil
}
