package changelog

import (
	"sort"

	"github.com/revanced-tools/apk-resolver/pkg/githubapi"
)

// Entry holds the release notes of one resolved source.
type Entry struct {
	Source      string `json:"source"`
	Tag         string `json:"tag"`
	Name        string `json:"name,omitempty"`
	Body        string `json:"body,omitempty"`
	URL         string `json:"url,omitempty"`
	PublishedAt string `json:"publishedAt,omitempty"`
}

// Store keeps the latest release notes per source in memory. Persisting
// them is left to the caller.
type Store struct {
	entries map[string]Entry
}

func NewStore() *Store {
	return &Store{entries: make(map[string]Entry)}
}

// Record implements githubapi.ChangelogRecorder. A later release of the
// same source replaces the earlier one.
func (s *Store) Record(key string, release githubapi.Release) {
	s.entries[key] = Entry{
		Source:      key,
		Tag:         release.TagName,
		Name:        release.Name,
		Body:        release.Body,
		URL:         release.HTMLURL,
		PublishedAt: release.PublishedAt,
	}
}

func (s *Store) Get(key string) (Entry, bool) {
	e, ok := s.entries[key]
	return e, ok
}

// Entries returns all recorded entries ordered by source.
func (s *Store) Entries() []Entry {
	out := make([]Entry, 0, len(s.entries))
	for _, e := range s.entries {
		out = append(out, e)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].Source < out[j].Source
	})
	return out
}
