package purpleair

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/Adda-Baaj/purpleair-go/pkg/httpclient"
)

// fakeResponse is a canned httpclient.Response.
type fakeResponse struct {
	status int
	body   string
}

func (f fakeResponse) Body() []byte    { return []byte(f.body) }
func (f fakeResponse) StatusCode() int { return f.status }

// recordedCall captures one request made through fakeClient.
type recordedCall struct {
	method  string
	url     string
	headers map[string]string
	body    string
}

// fakeClient records calls and answers each with resp or err.
type fakeClient struct {
	mu    sync.Mutex
	calls []recordedCall
	resp  fakeResponse
	err   error
}

func (f *fakeClient) record(method, url string, headers map[string]string, body string) (httpclient.Response, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, recordedCall{method: method, url: url, headers: headers, body: body})
	if f.err != nil {
		return nil, f.err
	}
	return f.resp, nil
}

func (f *fakeClient) Get(_ context.Context, url string, headers map[string]string) (httpclient.Response, error) {
	return f.record(http.MethodGet, url, headers, "")
}

func (f *fakeClient) Post(_ context.Context, url string, headers map[string]string, body string) (httpclient.Response, error) {
	return f.record(http.MethodPost, url, headers, body)
}

func (f *fakeClient) Delete(_ context.Context, url string, headers map[string]string) (httpclient.Response, error) {
	return f.record(http.MethodDelete, url, headers, "")
}

func (f *fakeClient) last(t *testing.T) recordedCall {
	t.Helper()
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.calls) == 0 {
		t.Fatalf("expected a request, got none")
	}
	return f.calls[len(f.calls)-1]
}

// newKeysServer serves /v1/keys with keysBody and delegates every other path to next.
func newKeysServer(t *testing.T, keysBody string, next http.HandlerFunc) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/v1/keys" {
			w.WriteHeader(http.StatusOK)
			_, _ = w.Write([]byte(keysBody))
			return
		}
		if next == nil {
			http.NotFound(w, r)
			return
		}
		next(w, r)
	}))
	t.Cleanup(srv.Close)
	return srv
}
