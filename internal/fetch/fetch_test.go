package fetch

import (
	"bytes"
	"compress/flate"
	"compress/gzip"
	"compress/zlib"
	"context"
	"errors"
	"net"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/andybalholm/brotli"
	"github.com/bcoles/jira-scan/internal/core"
	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
)

const page = `<meta name="ajs-version-number" content="9.4.14"><meta name="ajs-build-number" content="940014">`

func compress(t *testing.T, encoding string, data string) []byte {
	t.Helper()
	var buf bytes.Buffer
	var w interface {
		Write([]byte) (int, error)
		Close() error
	}
	switch encoding {
	case "gzip":
		w = gzip.NewWriter(&buf)
	case "zlib":
		w = zlib.NewWriter(&buf)
	case "flate":
		fw, err := flate.NewWriter(&buf, flate.DefaultCompression)
		if err != nil {
			t.Fatalf("flate writer: %v", err)
		}
		w = fw
	case "br":
		w = brotli.NewWriter(&buf)
	default:
		t.Fatalf("unknown encoding %s", encoding)
	}
	if _, err := w.Write([]byte(data)); err != nil {
		t.Fatalf("compress: %v", err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("compress close: %v", err)
	}
	return buf.Bytes()
}

func newClient(t *testing.T, cfg Config) *Client {
	t.Helper()
	c, err := New(cfg)
	if err != nil {
		t.Fatalf("New returned an error: %v", err)
	}
	return c
}

func TestFetch_RequestHeaders(t *testing.T) {
	var gotUA, gotAE, gotMethod string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUA = r.Header.Get("User-Agent")
		gotAE = r.Header.Get("Accept-Encoding")
		gotMethod = r.Method
		w.Header().Set("X-Test", "yes")
		w.WriteHeader(http.StatusTeapot)
		w.Write([]byte("short and stout"))
	}))
	defer srv.Close()

	res, err := newClient(t, Config{}).Fetch(context.Background(), srv.URL+"/login.jsp")
	if err != nil {
		t.Fatalf("Fetch returned an error: %v", err)
	}
	if gotMethod != http.MethodGet {
		t.Errorf("method = %s", gotMethod)
	}
	if gotUA != core.UserAgent() || !strings.HasPrefix(gotUA, "JiraScan/") {
		t.Errorf("User-Agent = %q", gotUA)
	}
	if gotAE != "gzip,deflate" {
		t.Errorf("Accept-Encoding = %q", gotAE)
	}
	if res.StatusCode != http.StatusTeapot || res.Body != "short and stout" {
		t.Errorf("unexpected response %d %q", res.StatusCode, res.Body)
	}
	if res.Header.Get("x-test") != "yes" {
		t.Error("headers should be readable case-insensitively")
	}
}

func TestFetch_Decompression(t *testing.T) {
	tests := []struct {
		header string
		codec  string
	}{
		{"gzip", "gzip"},
		{"deflate", "zlib"},
		{"deflate", "flate"},
		{"br", "br"},
	}
	for _, tt := range tests {
		t.Run(tt.header+"/"+tt.codec, func(t *testing.T) {
			body := compress(t, tt.codec, page)
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.Header().Set("Content-Encoding", tt.header)
				w.Write(body)
			}))
			defer srv.Close()

			res, err := newClient(t, Config{}).Fetch(context.Background(), srv.URL)
			if err != nil {
				t.Fatalf("Fetch returned an error: %v", err)
			}
			if res.Body != page {
				t.Errorf("body not decompressed: %q", res.Body)
			}
		})
	}
}

func TestFetch_CorruptGzipIsFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Encoding", "gzip")
		w.Write([]byte("definitely not gzip"))
	}))
	defer srv.Close()

	_, err := newClient(t, Config{}).Fetch(context.Background(), srv.URL)
	if !errors.Is(err, core.ErrDecode) {
		t.Fatalf("expected ErrDecode, got %v", err)
	}
	var fe *Error
	if !errors.As(err, &fe) || fe.URL != srv.URL {
		t.Errorf("error does not carry the URL: %v", err)
	}
}

func TestFetch_ReadTimeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(300 * time.Millisecond)
	}))
	defer srv.Close()

	c := newClient(t, Config{ReadTimeout: 50 * time.Millisecond})
	_, err := c.Fetch(context.Background(), srv.URL)
	if !errors.Is(err, core.ErrNetworkTimeout) {
		t.Fatalf("expected ErrNetworkTimeout, got %v", err)
	}
}

func TestFetch_StalledBodyTimesOut(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("<html>"))
		w.(http.Flusher).Flush()
		time.Sleep(300 * time.Millisecond)
		w.Write([]byte("</html>"))
	}))
	defer srv.Close()

	c := newClient(t, Config{ReadTimeout: 50 * time.Millisecond})
	_, err := c.Fetch(context.Background(), srv.URL)
	if !errors.Is(err, core.ErrNetworkTimeout) {
		t.Fatalf("expected ErrNetworkTimeout, got %v", err)
	}
}

func TestFetch_ConnectionRefused(t *testing.T) {
	l, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	addr := l.Addr().String()
	l.Close()

	logger, hook := test.NewNullLogger()
	_, err = newClient(t, Config{Logger: logger}).Fetch(context.Background(), "http://"+addr+"/")
	if !errors.Is(err, core.ErrNetworkError) {
		t.Fatalf("expected ErrNetworkError, got %v", err)
	}
	last := hook.LastEntry()
	if last == nil || last.Level != logrus.ErrorLevel || !strings.Contains(last.Message, "Could not retrieve URL") {
		t.Errorf("expected an error log line, got %+v", last)
	}
}

func TestFetch_TLSVerification(t *testing.T) {
	srv := httptest.NewTLSServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("secure"))
	}))
	defer srv.Close()

	if _, err := newClient(t, Config{}).Fetch(context.Background(), srv.URL); err == nil {
		t.Error("expected certificate verification to fail")
	}
	res, err := newClient(t, Config{Insecure: true}).Fetch(context.Background(), srv.URL)
	if err != nil {
		t.Fatalf("insecure Fetch returned an error: %v", err)
	}
	if res.Body != "secure" {
		t.Errorf("body = %q", res.Body)
	}
}

func TestFetch_DoesNotFollowRedirects(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/secure/Dashboard.jspa" {
			http.Redirect(w, r, "/login.jsp", http.StatusFound)
			return
		}
		w.Write([]byte("JIRA"))
	}))
	defer srv.Close()

	res, err := newClient(t, Config{}).Fetch(context.Background(), srv.URL+"/secure/Dashboard.jspa")
	if err != nil {
		t.Fatalf("Fetch returned an error: %v", err)
	}
	if res.StatusCode != http.StatusFound {
		t.Errorf("status = %d, want 302", res.StatusCode)
	}
}

func TestFetch_LogsBeforeAndAfter(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("12345"))
	}))
	defer srv.Close()

	logger, hook := test.NewNullLogger()
	logger.SetLevel(logrus.DebugLevel)
	if _, err := newClient(t, Config{Logger: logger}).Fetch(context.Background(), srv.URL); err != nil {
		t.Fatalf("Fetch returned an error: %v", err)
	}
	entries := hook.AllEntries()
	if len(entries) != 2 {
		t.Fatalf("expected 2 log lines, got %d", len(entries))
	}
	if !strings.HasPrefix(entries[0].Message, "Fetching ") {
		t.Errorf("first line = %q", entries[0].Message)
	}
	if entries[1].Message != "Received reply (5 bytes)" {
		t.Errorf("second line = %q", entries[1].Message)
	}
}

func TestNew_BadProxy(t *testing.T) {
	if _, err := New(Config{Proxy: "::not a url"}); !errors.Is(err, core.ErrInvalidConfig) {
		t.Errorf("expected ErrInvalidConfig, got %v", err)
	}
}

func TestFetch_RateLimitHonoursContext(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	defer srv.Close()

	c := newClient(t, Config{RateLimit: 0.001})
	if _, err := c.Fetch(context.Background(), srv.URL); err != nil {
		t.Fatalf("first Fetch returned an error: %v", err)
	}
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	if _, err := c.Fetch(ctx, srv.URL); err == nil {
		t.Error("expected the limiter to give up when the context ends")
	}
}
