package httputil

import (
	"fmt"
	"net/http"
	"strconv"
	"time"
)

// CheckResponse classifies a response. Anything outside 2xx becomes a
// *SourceUnavailableError carrying the status code and a hint.
func CheckResponse(resp *http.Response) error {
	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return nil
	}
	url := ""
	if resp.Request != nil && resp.Request.URL != nil {
		url = resp.Request.URL.String()
	}
	return &SourceUnavailableError{
		URL:        url,
		StatusCode: resp.StatusCode,
		Hint:       hintFor(resp),
	}
}

func hintFor(resp *http.Response) string {
	if remaining := resp.Header.Get("X-RateLimit-Remaining"); remaining == "0" {
		hint := "API rate limit exhausted"
		if reset, err := strconv.ParseInt(resp.Header.Get("X-RateLimit-Reset"), 10, 64); err == nil {
			hint += fmt.Sprintf(", resets at %s", time.Unix(reset, 0).UTC().Format(time.RFC3339))
		}
		return hint + "; configure a personal access token"
	}

	switch {
	case resp.StatusCode == http.StatusForbidden:
		return "access forbidden, probably rate limited"
	case resp.StatusCode == http.StatusTooManyRequests:
		return "too many requests, rate limited"
	case resp.StatusCode == http.StatusUnauthorized:
		return "credentials rejected, check the personal access token"
	case resp.StatusCode == http.StatusNotFound:
		return "resource not found upstream"
	case resp.StatusCode >= 500:
		return "upstream server error"
	default:
		return "unexpected status " + resp.Status
	}
}
