package main

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/Adda-Baaj/purpleair-go/internal/config"
)

type request struct {
	method string
	uri    string
	key    string
}

func newAPI(t *testing.T, keyType string) (*httptest.Server, *[]request) {
	t.Helper()
	var seen []request
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = append(seen, request{method: r.Method, uri: r.URL.RequestURI(), key: r.Header.Get("X-API-Key")})
		if r.URL.Path == "/v1/keys" {
			_, _ = w.Write([]byte(`{"api_version":"V1.0.11","time_stamp":1700000000,"api_key_type":"` + keyType + `"}`))
			return
		}
		_, _ = w.Write([]byte(`{"ok":true}`))
	}))
	t.Cleanup(srv.Close)
	return srv, &seen
}

func execute(t *testing.T, baseURL string, args ...string) (string, error) {
	t.Helper()
	out, _, err := executeWithLogs(t, baseURL, args...)
	return out, err
}

func executeWithLogs(t *testing.T, baseURL string, args ...string) (string, string, error) {
	t.Helper()
	var out, logs bytes.Buffer
	e := &env{
		out:    &out,
		logOut: &logs,
		config: func() (*config.Config, error) {
			return &config.Config{AppName: "purpleair-relay", LogLevel: "info", BaseURL: baseURL}, nil
		},
	}
	cmd := newRootCommand(e)
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.Background())
	return out.String(), logs.String(), err
}

func TestSensorCommandPrintsBody(t *testing.T) {
	srv, seen := newAPI(t, "READ")

	out, err := execute(t, srv.URL+"/v1/", "--read-key", "abcd1234", "sensor", "12345", "--fields", "pm2.5")
	if err != nil {
		t.Fatalf("execute: %v", err)
	}
	if strings.TrimSpace(out) != `{"ok":true}` {
		t.Fatalf("unexpected output %q", out)
	}
	last := (*seen)[len(*seen)-1]
	if last.uri != "/v1/sensors/12345?fields=pm2.5" || last.key != "abcd1234" {
		t.Fatalf("unexpected request %+v", last)
	}
}

func TestHistoryCommandCSV(t *testing.T) {
	srv, seen := newAPI(t, "READ")

	if _, err := execute(t, srv.URL+"/v1/", "--read-key", "k", "history", "7", "--csv", "--start", "10", "--end", "20", "--fields", "pm2.5"); err != nil {
		t.Fatalf("execute: %v", err)
	}
	last := (*seen)[len(*seen)-1]
	if last.uri != "/v1/sensors/7/history/csv?end_timestamp=20&fields=pm2.5&start_timestamp=10" {
		t.Fatalf("unexpected uri %s", last.uri)
	}
}

func TestRegisterCommandUsesWriteKey(t *testing.T) {
	srv, seen := newAPI(t, "WRITE")

	if _, err := execute(t, srv.URL+"/v1/", "--write-key", "wk", "register", "42"); err != nil {
		t.Fatalf("execute: %v", err)
	}
	last := (*seen)[len(*seen)-1]
	if last.method != http.MethodPost || last.uri != "/v1/members" || last.key != "wk" {
		t.Fatalf("unexpected request %+v", last)
	}
}

func TestKeysCommandRedactsKeys(t *testing.T) {
	srv, _ := newAPI(t, "READ")

	out, err := execute(t, srv.URL+"/v1/", "--read-key", "secret-key-9876", "keys")
	if err != nil {
		t.Fatalf("execute: %v", err)
	}
	if strings.Contains(out, "secret-key") {
		t.Fatalf("key leaked in output %s", out)
	}
	if !strings.Contains(out, `"****9876": "READ"`) {
		t.Fatalf("missing key type in output %s", out)
	}
}

func TestCommandsRejectBadInput(t *testing.T) {
	srv, _ := newAPI(t, "READ")

	if _, err := execute(t, srv.URL+"/v1/", "--read-key", "k", "sensor", "abc"); err == nil {
		t.Fatalf("expected error for non-numeric index")
	}
	if _, err := execute(t, srv.URL+"/v1/", "sensor", "1"); err == nil {
		t.Fatalf("expected config error without any key")
	}
	if _, err := execute(t, srv.URL+"/v1/", "--read-key", "k", "sensors"); err == nil {
		t.Fatalf("expected error for missing fields")
	}
}

func TestDebugFlagLogsRequests(t *testing.T) {
	srv, _ := newAPI(t, "READ")

	_, logs, err := executeWithLogs(t, srv.URL+"/v1/", "--debug", "--read-key", "k", "sensor", "12345", "--fields", "pm2.5", "--sensor-read-key", "private-1")
	if err != nil {
		t.Fatalf("execute: %v", err)
	}
	if !strings.Contains(logs, `"msg":"purpleair request"`) || !strings.Contains(logs, "/v1/sensors/12345?fields=pm2.5") {
		t.Fatalf("--debug set but no request URL was logged: %s", logs)
	}
	if strings.Contains(logs, "private-1") {
		t.Fatalf("sensor read key leaked into logs: %s", logs)
	}
	if !strings.Contains(logs, `"app":"purpleair-cli"`) {
		t.Fatalf("CLI log lines should carry the CLI app name: %s", logs)
	}

	_, quiet, err := executeWithLogs(t, srv.URL+"/v1/", "--read-key", "k", "sensor", "12345")
	if err != nil {
		t.Fatalf("execute: %v", err)
	}
	if strings.Contains(quiet, "purpleair request") {
		t.Fatalf("request logged without --debug: %s", quiet)
	}
}
