package githubapi

// Release is the subset of the GitHub release payload the resolvers use.
type Release struct {
	TagName     string  `json:"tag_name"`
	Name        string  `json:"name"`
	Body        string  `json:"body"`
	HTMLURL     string  `json:"html_url"`
	PublishedAt string  `json:"published_at"`
	Assets      []Asset `json:"assets"`
}

type Asset struct {
	Name               string `json:"name"`
	BrowserDownloadURL string `json:"browser_download_url"`
}

// RepoRef points at one release of a repository. Tag is "latest" or
// "tags/<name>".
type RepoRef struct {
	Owner string
	Repo  string
	Tag   string
}

func (r RepoRef) String() string {
	return r.Owner + "/" + r.Repo
}

// ResolvedAsset is an asset ready to be downloaded.
type ResolvedAsset struct {
	DownloadURL string
	Name        string
}

// ChangelogRecorder receives release notes of resolved releases, keyed by
// "owner/repo".
type ChangelogRecorder interface {
	Record(key string, release Release)
}
