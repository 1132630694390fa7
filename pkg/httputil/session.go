package httputil

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"time"

	"github.com/PuerkitoBio/goquery"

	"github.com/revanced-tools/apk-resolver/pkg/logme"
)

// BrowserUserAgent identifies requests as a desktop browser so scraped
// sites do not reject them.
const BrowserUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) " +
	"AppleWebKit/537.36 (HTML, like Gecko) " +
	"Chrome/96.0.4664.93 Safari/537.36"

const defaultTimeout = 2 * time.Minute

// DefaultHeaders returns the header set sent with every request.
func DefaultHeaders() http.Header {
	h := make(http.Header)
	h.Set("User-Agent", BrowserUserAgent)
	return h
}

// Session is the shared, read-only HTTP configuration handed to every
// resolver. Redirects are followed by the underlying client.
type Session struct {
	Client  *http.Client
	Headers http.Header
	Token   string
}

type Option func(*Session)

// WithToken sets the personal access token used for GitHub requests.
func WithToken(token string) Option {
	return func(s *Session) {
		s.Token = token
	}
}

func WithTimeout(timeout time.Duration) Option {
	return func(s *Session) {
		if timeout > 0 {
			s.Client.Timeout = timeout
		}
	}
}

// WithClient replaces the HTTP client, e.g. to share a transport.
func WithClient(client *http.Client) Option {
	return func(s *Session) {
		if client != nil {
			s.Client = client
		}
	}
}

func WithHeader(key, value string) Option {
	return func(s *Session) {
		s.Headers.Set(key, value)
	}
}

func NewSession(opts ...Option) *Session {
	s := &Session{
		Client:  &http.Client{Timeout: defaultTimeout},
		Headers: DefaultHeaders(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// NewRequest builds a request carrying the session headers followed by
// the extra headers, which take precedence.
func (s *Session) NewRequest(
	ctx context.Context,
	method, url string,
	body io.Reader,
	extra http.Header,
) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, method, url, body)
	if err != nil {
		return nil, &ConfigurationError{Reason: "invalid request url " + url, Err: err}
	}
	for key, values := range s.Headers {
		for _, v := range values {
			req.Header.Add(key, v)
		}
	}
	for key, values := range extra {
		req.Header.Del(key)
		for _, v := range values {
			req.Header.Add(key, v)
		}
	}
	return req, nil
}

// Do sends the request and classifies the outcome. On success the caller
// owns the response body.
func (s *Session) Do(req *http.Request) (*http.Response, error) {
	logme.DebugFln("%s %s", req.Method, req.URL)
	resp, err := s.Client.Do(req)
	if err != nil {
		return nil, &SourceUnavailableError{URL: req.URL.String(), Hint: "transport error", Err: err}
	}
	if err := CheckResponse(resp); err != nil {
		resp.Body.Close()
		return nil, err
	}
	return resp, nil
}

func (s *Session) Get(ctx context.Context, url string, extra http.Header) (*http.Response, error) {
	req, err := s.NewRequest(ctx, http.MethodGet, url, nil, extra)
	if err != nil {
		return nil, err
	}
	return s.Do(req)
}

// GetJSON decodes a JSON response into v. A body that does not decode is
// reported as an unavailable source.
func (s *Session) GetJSON(ctx context.Context, url string, extra http.Header, v interface{}) error {
	resp, err := s.Get(ctx, url, extra)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	return decodeJSON(resp, url, v)
}

// PostJSON sends body encoded as JSON and decodes the answer into v.
func (s *Session) PostJSON(
	ctx context.Context,
	url string,
	extra http.Header,
	body interface{},
	v interface{},
) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return err
	}
	req, err := s.NewRequest(ctx, http.MethodPost, url, bytes.NewReader(payload), extra)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	resp, err := s.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	return decodeJSON(resp, url, v)
}

// GetDocument fetches an HTML page and parses it.
func (s *Session) GetDocument(ctx context.Context, url string) (*goquery.Document, error) {
	resp, err := s.Get(ctx, url, nil)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	return ParseDocument(resp.Body, url)
}

func decodeJSON(resp *http.Response, url string, v interface{}) error {
	if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
		return &SourceUnavailableError{
			URL:        url,
			StatusCode: resp.StatusCode,
			Hint:       "unexpected response body",
			Err:        err,
		}
	}
	return nil
}
