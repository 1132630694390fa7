package githubapi

import (
	"fmt"
	"net/url"
	"regexp"
	"strings"

	"github.com/revanced-tools/apk-resolver/pkg/httputil"
)

const LatestTag = "latest"

// PatchesBundleRepo publishes its bundle as the second asset of each
// release; every other repository is read from the first one.
const PatchesBundleRepo = "revanced-patches"

var latestAssetIndex = map[string]int{
	PatchesBundleRepo: 1,
}

// LatestAssetIndex returns which asset of a release holds the download
// for repo. It reflects the current asset ordering of the provider.
func LatestAssetIndex(repo string) int {
	if idx, ok := latestAssetIndex[repo]; ok {
		return idx
	}
	return 0
}

// ParseRepoURL extracts owner, repository and release tag from a GitHub
// URL such as https://github.com/owner/repo/releases/tag/v1.2.3.
func ParseRepoURL(repoURL string) (RepoRef, error) {
	parsed, err := url.Parse(repoURL)
	if err != nil {
		return RepoRef{}, &httputil.ConfigurationError{Reason: "invalid repository url " + repoURL, Err: err}
	}

	segments := strings.Split(strings.Trim(parsed.Path, "/"), "/")
	if len(segments) < 2 || segments[0] == "" || segments[1] == "" {
		return RepoRef{}, &httputil.ConfigurationError{Reason: "repository url needs owner and name: " + repoURL}
	}

	ref := RepoRef{Owner: segments[0], Repo: segments[1], Tag: LatestTag}
	for i, segment := range segments {
		if segment == "tag" && i+1 < len(segments) {
			ref.Tag = "tags/" + segments[i+1]
			break
		}
	}
	return ref, nil
}

// CompileFilter compiles an asset filter pattern.
func CompileFilter(pattern string) (*regexp.Regexp, error) {
	re, err := regexp.Compile(pattern)
	if err != nil {
		return nil, &httputil.ConfigurationError{
			Reason: fmt.Sprintf("invalid asset filter %q", pattern),
			Err:    err,
		}
	}
	return re, nil
}

// MatchAsset tests every asset download url against re in listing order
// and returns the matched part of the first hit, or "" when none match.
func MatchAsset(assets []Asset, re *regexp.Regexp) string {
	for _, asset := range assets {
		if match := re.FindString(asset.BrowserDownloadURL); match != "" {
			return match
		}
	}
	return ""
}
