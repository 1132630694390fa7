package downloader

import (
	"context"

	"github.com/revanced-tools/apk-resolver/pkg/logme"
	"github.com/revanced-tools/apk-resolver/pkg/uptodown"
)

// UpToDown downloads APKs scraped from Uptodown as <app>.apk.
type UpToDown struct {
	client  *uptodown.Client
	fetcher *Fetcher
	skip    SkipPolicy
}

func (u *UpToDown) LatestVersion(ctx context.Context, req Request) (Artifact, error) {
	if u.skip.Skip(req.App) {
		return skipped(req.App), nil
	}
	link, err := u.client.ResolveLatest(ctx, req.App)
	if err != nil {
		return Artifact{}, err
	}
	return u.save(ctx, req.App, link)
}

func (u *UpToDown) SpecificVersion(ctx context.Context, req Request) (Artifact, error) {
	logme.Debugln("downloading specified version of app from uptodown.")
	if u.skip.Skip(req.App) {
		return skipped(req.App), nil
	}
	page, err := u.client.ResolveVersion(ctx, req.App, req.Version)
	if err != nil {
		return Artifact{}, err
	}
	link, err := u.client.ResolveDownloadLink(ctx, page)
	if err != nil {
		return Artifact{}, err
	}
	return u.save(ctx, req.App, link)
}

func (u *UpToDown) save(ctx context.Context, app, link string) (Artifact, error) {
	artifact, err := u.fetcher.Download(ctx, link, app+".apk")
	if err != nil {
		return Artifact{}, err
	}
	artifact.App = app
	logme.DebugFln("Downloaded %s apk from uptodown", app)
	return artifact, nil
}
