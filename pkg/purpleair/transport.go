package purpleair

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/Adda-Baaj/purpleair-go/pkg/httpclient"
)

const (
	// DefaultTimeout bounds every request issued by the client.
	DefaultTimeout = 30 * time.Second

	headerAPIKey      = "X-API-Key"
	headerContentType = "Content-Type"
	contentTypeJSON   = "application/json"
)

var secretParams = []string{"read_key=", "read_keys="}

// Transport issues single-attempt requests and classifies their status codes.
type Transport struct {
	client httpclient.Client
	log    Logger
	debug  bool
}

// NewTransport wraps client. A nil client gets a resty client with DefaultTimeout.
// Request URLs and POST bodies are logged at debug level only when debug is set.
func NewTransport(client httpclient.Client, log Logger, debug bool) *Transport {
	if client == nil {
		client = httpclient.NewRestyClient(DefaultTimeout)
	}
	return &Transport{
		client: client,
		log:    ensureLogger(log),
		debug:  debug,
	}
}

// Get sends a GET to rawURL with params appended after separator.
func (t *Transport) Get(ctx context.Context, rawURL, apiKey, separator string, params map[string]string) (string, error) {
	fullURL := appendQuery(rawURL, separator, params)
	t.debugRequest(http.MethodGet, fullURL, "")

	resp, err := t.client.Get(ctx, fullURL, authHeaders(apiKey))
	return t.finish(http.MethodGet, fullURL, resp, err)
}

// Post sends jsonBody verbatim with a JSON content type.
func (t *Transport) Post(ctx context.Context, rawURL, apiKey, jsonBody string) (string, error) {
	t.debugRequest(http.MethodPost, rawURL, jsonBody)

	headers := authHeaders(apiKey)
	if headers == nil {
		headers = make(map[string]string, 1)
	}
	headers[headerContentType] = contentTypeJSON

	resp, err := t.client.Post(ctx, rawURL, headers, jsonBody)
	return t.finish(http.MethodPost, rawURL, resp, err)
}

// Delete sends a DELETE to rawURL.
func (t *Transport) Delete(ctx context.Context, rawURL, apiKey string) (string, error) {
	t.debugRequest(http.MethodDelete, rawURL, "")

	resp, err := t.client.Delete(ctx, rawURL, authHeaders(apiKey))
	return t.finish(http.MethodDelete, rawURL, resp, err)
}

func (t *Transport) finish(method, rawURL string, resp httpclient.Response, err error) (string, error) {
	rawURL = redactURL(rawURL)
	if err != nil {
		var uErr *url.Error
		if errors.As(err, &uErr) {
			uErr.URL = redactURL(uErr.URL)
		}
		return "", &TransportError{Method: method, URL: rawURL, Err: err}
	}

	body, err := checkStatus(resp.StatusCode(), string(resp.Body()))
	if err != nil {
		t.log.WarnObj("purpleair request failed", "purpleair_response", map[string]any{
			"method":      method,
			"url":         rawURL,
			"status_code": resp.StatusCode(),
			"body":        bodySnippet(resp.Body()),
		})
		return "", err
	}
	return body, nil
}

func (t *Transport) debugRequest(method, rawURL, body string) {
	if !t.debug {
		return
	}
	fields := map[string]any{
		"method": method,
		"url":    redactURL(rawURL),
	}
	if body != "" {
		fields["body"] = body
	}
	t.log.DebugObj("purpleair request", "purpleair_request", fields)
}

// redactURL masks the values of query parameters that carry sensor read keys.
func redactURL(rawURL string) string {
	q := strings.IndexByte(rawURL, '?')
	if q < 0 || q == len(rawURL)-1 {
		return rawURL
	}
	pairs := strings.Split(rawURL[q+1:], "&")
	for i, p := range pairs {
		for _, prefix := range secretParams {
			if strings.HasPrefix(p, prefix) && len(p) > len(prefix) {
				pairs[i] = prefix + "****"
			}
		}
	}
	return rawURL[:q+1] + strings.Join(pairs, "&")
}

func authHeaders(apiKey string) map[string]string {
	if apiKey == "" {
		return nil
	}
	return map[string]string{headerAPIKey: apiKey}
}

func bodySnippet(body []byte) string {
	const maxLen = 512
	s := strings.TrimSpace(string(body))
	if len(s) > maxLen {
		return s[:maxLen] + "..."
	}
	if s == "" {
		return "<empty>"
	}
	return s
}
