package uptodown

import (
	"context"
	"net/http"
	"testing"

	"github.com/jarcoal/httpmock"
	"github.com/stretchr/testify/require"

	"github.com/revanced-tools/apk-resolver/pkg/httputil"
)

const (
	versionsPage = "https://youtube-music.en.uptodown.com/android/versions"
	downloadPage = "https://youtube-music.en.uptodown.com/android/download"
)

func newTestClient() *Client {
	return NewClient(httputil.NewSession(), map[string]string{"youtube_music": "youtube-music"})
}

func TestResolveVersion(t *testing.T) {
	httpmock.Activate()
	defer httpmock.DeactivateAndReset()

	httpmock.RegisterResponder("GET", versionsPage, httpmock.NewStringResponder(http.StatusOK, `
		<section id="versions">
			<div data-url="http://x/f1"><span class="version">1.0</span></div>
		</section>`))

	client := newTestClient()
	ctx := context.Background()

	link, err := client.ResolveVersion(ctx, "youtube_music", "1.0")
	require.NoError(t, err)
	require.Equal(t, "http://x/f1", link)

	_, err = client.ResolveVersion(ctx, "youtube_music", "2.0")
	require.ErrorIs(t, err, httputil.ErrAssetNotFound)
	require.False(t, httputil.IsSourceUnavailable(err))
}

func TestResolveVersionUnknownApp(t *testing.T) {
	httpmock.Activate()
	defer httpmock.DeactivateAndReset()

	_, err := newTestClient().ResolveVersion(context.Background(), "twitter", "9.0")
	require.True(t, httputil.IsConfiguration(err))
	require.Equal(t, 0, httpmock.GetTotalCallCount())
}

func TestResolveVersionListingUnavailable(t *testing.T) {
	httpmock.Activate()
	defer httpmock.DeactivateAndReset()

	httpmock.RegisterResponder("GET", versionsPage, httpmock.NewStringResponder(http.StatusServiceUnavailable, ""))

	_, err := newTestClient().ResolveVersion(context.Background(), "youtube_music", "1.0")
	require.True(t, httputil.IsSourceUnavailable(err))
	require.NotErrorIs(t, err, httputil.ErrAssetNotFound)
}

func TestResolveLatest(t *testing.T) {
	httpmock.Activate()
	defer httpmock.DeactivateAndReset()

	httpmock.RegisterResponder("GET", downloadPage, httpmock.NewStringResponder(http.StatusOK, `
		<button id="detail-download-button" data-url="https://dw.uptodown.com/dwn/abc">Download</button>`))

	link, err := newTestClient().ResolveLatest(context.Background(), "youtube_music")
	require.NoError(t, err)
	require.Equal(t, "https://dw.uptodown.com/dwn/abc", link)
}

func TestResolveDownloadLinkMissingButton(t *testing.T) {
	httpmock.Activate()
	defer httpmock.DeactivateAndReset()

	httpmock.RegisterResponder("GET", "http://x/f1", httpmock.NewStringResponder(http.StatusOK, `
		<button id="detail-download-button">Download</button>`))

	_, err := newTestClient().ResolveDownloadLink(context.Background(), "http://x/f1")
	require.ErrorIs(t, err, httputil.ErrAssetNotFound)
	require.ErrorIs(t, err, httputil.ErrElementNotFound)
}

func TestPageURLs(t *testing.T) {
	client := NewClient(httputil.NewSession(), map[string]string{"app": "slug"},
		WithPageTemplate("http://mirror.local/%s"))

	versions, err := client.VersionsURL("app")
	require.NoError(t, err)
	require.Equal(t, "http://mirror.local/slug/versions", versions)

	download, err := client.DownloadPageURL("app")
	require.NoError(t, err)
	require.Equal(t, "http://mirror.local/slug/download", download)
}
