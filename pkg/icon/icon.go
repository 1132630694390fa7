package icon

import (
	"context"

	"github.com/revanced-tools/apk-resolver/pkg/httputil"
	"github.com/revanced-tools/apk-resolver/pkg/logme"
)

// PlaceholderURL stands in for an icon no source could provide.
const PlaceholderURL = "https://img.icons8.com/bubbles/500/android-os.png"

// Strategy is one icon source.
type Strategy interface {
	Name() string
	Resolve(ctx context.Context, packageName string) (string, error)
}

// Attempt records the outcome of one strategy.
type Attempt struct {
	Strategy string
	URL      string
	Err      error
}

// Resolver tries its strategies in order and returns the first icon found.
type Resolver struct {
	strategies  []Strategy
	placeholder string
}

func NewResolver(strategies ...Strategy) *Resolver {
	return &Resolver{
		strategies:  strategies,
		placeholder: PlaceholderURL,
	}
}

// NewDefaultResolver chains Play Store, APKMirror and APKCombo, ordered by
// reliability.
func NewDefaultResolver(session *httputil.Session, apkMirrorAuth string) *Resolver {
	return NewResolver(
		NewPlayStore(session),
		NewAPKMirror(session, WithAuthorization(apkMirrorAuth)),
		NewAPKCombo(session),
	)
}

// Resolve never fails: when every strategy fails it returns the placeholder.
func (r *Resolver) Resolve(ctx context.Context, packageName string) string {
	url, _ := r.Trace(ctx, packageName)
	return url
}

// Trace resolves like Resolve and also returns every attempt made.
func (r *Resolver) Trace(ctx context.Context, packageName string) (string, []Attempt) {
	var attempts []Attempt
	for _, s := range r.strategies {
		url, err := s.Resolve(ctx, packageName)
		if err == nil && url == "" {
			err = httputil.NotFound("%s returned an empty icon", s.Name())
		}
		attempts = append(attempts, Attempt{Strategy: s.Name(), URL: url, Err: err})
		if err != nil {
			logme.DebugFln("icon for %s not found on %s: %v", packageName, s.Name(), err)
			continue
		}
		return url, attempts
	}

	logme.DebugFln("no icon source knows %s, using placeholder", packageName)
	return r.placeholder, attempts
}
