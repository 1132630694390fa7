package icon

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"testing"

	"github.com/jarcoal/httpmock"
	"github.com/stretchr/testify/require"

	"github.com/revanced-tools/apk-resolver/pkg/httputil"
)

const (
	testPackage    = "com.example.app"
	playStoreURL   = "https://play.google.com/store/apps/details?id=com.example.app&hl=en"
	mirrorStatus   = "https://www.apkmirror.com/wp-json/apkm/v1/app_exists/"
	mirrorSearch   = "https://www.apkmirror.com/?s=com.example.app"
	apkComboPage   = "https://apkcombo.com/genericApp/com.example.app"
	apkComboAvatar = "https://image.winudf.com/v2/image1/icon.png"
)

func jsonResponder(status int, body string) httpmock.Responder {
	return func(req *http.Request) (*http.Response, error) {
		resp := httpmock.NewStringResponse(status, body)
		resp.Header.Set("Content-Type", "application/json; charset=utf-8")
		return resp, nil
	}
}

func mockMirrorStatus(exists bool) {
	body, _ := json.Marshal(map[string]interface{}{
		"data": []map[string]interface{}{{"pname": testPackage, "exists": exists}},
	})
	httpmock.RegisterResponder("POST", mirrorStatus, jsonResponder(http.StatusOK, string(body)))
}

func mockAPKCombo() {
	httpmock.RegisterResponder("GET", apkComboPage, httpmock.NewStringResponder(http.StatusOK, `
		<div class="avatar"><img data-src="`+apkComboAvatar+`=rw-w144"></div>`))
}

func TestNormalizeIconSize(t *testing.T) {
	in := "/wp-content/uploads/2023/01/icon.png?w=100&h=100&q=50&fmt=png"
	require.Equal(t, "/wp-content/uploads/2023/01/icon.png?w=500&h=500&q=100&fmt=png", NormalizeIconSize(in))
	require.Equal(t, "/icon.png", NormalizeIconSize("/icon.png"))
}

func TestPlayStoreShortCircuits(t *testing.T) {
	httpmock.Activate()
	defer httpmock.DeactivateAndReset()

	httpmock.RegisterResponder("GET", playStoreURL,
		jsonResponder(http.StatusOK, `{"title": "Example", "icon": "https://play-lh.googleusercontent.com/icon"}`))
	mockMirrorStatus(true)
	mockAPKCombo()

	got := NewDefaultResolver(httputil.NewSession(), "").Resolve(context.Background(), testPackage)
	require.Equal(t, "https://play-lh.googleusercontent.com/icon", got)
	require.Equal(t, 1, httpmock.GetTotalCallCount())
}

func TestPlayStoreDetailsPage(t *testing.T) {
	httpmock.Activate()
	defer httpmock.DeactivateAndReset()

	httpmock.RegisterResponder("GET", playStoreURL, httpmock.NewStringResponder(http.StatusOK, `
		<html><head><meta property="og:image" content="https://play-lh.googleusercontent.com/og"></head></html>`))

	got, err := NewPlayStore(httputil.NewSession()).Resolve(context.Background(), testPackage)
	require.NoError(t, err)
	require.Equal(t, "https://play-lh.googleusercontent.com/og", got)
}

func TestFallsThroughToAPKComboWhenMirrorDoesNotListPackage(t *testing.T) {
	httpmock.Activate()
	defer httpmock.DeactivateAndReset()

	httpmock.RegisterResponder("GET", playStoreURL,
		httpmock.NewStringResponder(http.StatusNotFound, "not found"))
	mockMirrorStatus(false)
	mockAPKCombo()

	got, attempts := NewDefaultResolver(httputil.NewSession(), "").Trace(context.Background(), testPackage)
	require.Equal(t, apkComboAvatar, got)
	require.NotEqual(t, PlaceholderURL, got)

	require.Len(t, attempts, 3)
	require.True(t, httputil.IsSourceUnavailable(attempts[0].Err))
	require.True(t, IsNotListed(attempts[1].Err))
	require.NoError(t, attempts[2].Err)

	info := httpmock.GetCallCountInfo()
	require.Equal(t, 0, info["GET "+mirrorSearch])
}

func TestEmptyMetadataIconFallsThrough(t *testing.T) {
	httpmock.Activate()
	defer httpmock.DeactivateAndReset()

	httpmock.RegisterResponder("GET", playStoreURL, jsonResponder(http.StatusOK, `{"icon": ""}`))
	mockMirrorStatus(true)
	httpmock.RegisterResponder("GET", mirrorSearch, httpmock.NewStringResponder(http.StatusOK, `
		<div class="bubble-wrap"><img src="/wp-content/uploads/icon.png?w=32&h=32&q=50"></div>`))

	got := NewDefaultResolver(httputil.NewSession(), "").Resolve(context.Background(), testPackage)
	require.Equal(t, "https://www.apkmirror.com/wp-content/uploads/icon.png?w=500&h=500&q=100", got)
}

func TestAPKMirrorSendsAuthorization(t *testing.T) {
	httpmock.Activate()
	defer httpmock.DeactivateAndReset()

	var auth string
	var body statusRequest
	httpmock.RegisterResponder("POST", mirrorStatus, func(req *http.Request) (*http.Response, error) {
		auth = req.Header.Get("Authorization")
		if err := json.NewDecoder(req.Body).Decode(&body); err != nil {
			return nil, err
		}
		return jsonResponder(http.StatusOK, `{"data": [{"exists": false}]}`)(req)
	})

	mirror := NewAPKMirror(httputil.NewSession(), WithAuthorization("Basic abc"))
	exists, err := mirror.Exists(context.Background(), testPackage)
	require.NoError(t, err)
	require.False(t, exists)
	require.Equal(t, "Basic abc", auth)
	require.Equal(t, []string{testPackage}, body.PNames)
}

func TestPlaceholderWhenEverythingFails(t *testing.T) {
	httpmock.Activate()
	defer httpmock.DeactivateAndReset()

	httpmock.RegisterResponder("GET", playStoreURL, httpmock.NewErrorResponder(errors.New("dial tcp: timeout")))
	httpmock.RegisterResponder("POST", mirrorStatus, jsonResponder(http.StatusOK, `{"data": []}`))
	httpmock.RegisterResponder("GET", apkComboPage, httpmock.NewStringResponder(http.StatusOK, `<div class="avatar"></div>`))

	got, attempts := NewDefaultResolver(httputil.NewSession(), "").Trace(context.Background(), testPackage)
	require.Equal(t, PlaceholderURL, got)
	require.Len(t, attempts, 3)
	require.ErrorIs(t, attempts[2].Err, httputil.ErrElementNotFound)
}

type staticStrategy struct {
	name string
	url  string
	err  error
}

func (s staticStrategy) Name() string { return s.name }

func (s staticStrategy) Resolve(context.Context, string) (string, error) { return s.url, s.err }

func TestResolverOrder(t *testing.T) {
	resolver := NewResolver(
		staticStrategy{name: "first", err: errors.New("boom")},
		staticStrategy{name: "second", url: ""},
		staticStrategy{name: "third", url: "https://icon/third"},
		staticStrategy{name: "fourth", url: "https://icon/fourth"},
	)
	got, attempts := resolver.Trace(context.Background(), testPackage)
	require.Equal(t, "https://icon/third", got)
	require.Len(t, attempts, 3)
	require.ErrorIs(t, attempts[1].Err, httputil.ErrAssetNotFound)

	require.Equal(t, PlaceholderURL, NewResolver().Resolve(context.Background(), testPackage))
}
