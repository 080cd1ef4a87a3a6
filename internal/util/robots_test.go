package util

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"
)

func robotsServer(t *testing.T, body string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/robots.txt" {
			http.NotFound(w, r)
			return
		}
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestRobotsChecker_Disallow(t *testing.T) {
	srv := robotsServer(t, "User-agent: *\nDisallow: /search\n")
	rc := NewRobotsChecker("tgscout-test", 5*time.Second)

	if rc.Allowed(context.Background(), srv.URL+"/search") {
		t.Error("disallowed path reported allowed")
	}
	if !rc.Allowed(context.Background(), srv.URL+"/about") {
		t.Error("allowed path reported disallowed")
	}
}

func TestRobotsChecker_UnreachableDefaultsToAllowed(t *testing.T) {
	rc := NewRobotsChecker("tgscout-test", 100*time.Millisecond)
	if !rc.Allowed(context.Background(), "http://127.0.0.1:1/search") {
		t.Error("unreachable robots.txt should default to allowed")
	}
}

func TestRobotsChecker_CachesPerHost(t *testing.T) {
	fetches := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fetches++
		_, _ = w.Write([]byte("User-agent: *\nDisallow:\n"))
	}))
	defer srv.Close()

	rc := NewRobotsChecker("tgscout-test", 5*time.Second)
	for i := 0; i < 3; i++ {
		rc.Allowed(context.Background(), srv.URL+"/page")
	}
	if fetches != 1 {
		t.Errorf("robots.txt fetched %d times, want 1", fetches)
	}
}

func TestNewProxyFunc_ExplicitProxies(t *testing.T) {
	fn := NewProxyFunc("http://proxy-a:8080", "http://proxy-b:8443", "")

	httpsReq, _ := http.NewRequest(http.MethodGet, "https://example.com/", nil)
	got, err := fn(httpsReq)
	if err != nil {
		t.Fatalf("proxy func: %v", err)
	}
	if got == nil || got.Host != "proxy-b:8443" {
		t.Errorf("https proxy = %v, want proxy-b:8443", got)
	}

	httpReq, _ := http.NewRequest(http.MethodGet, "http://example.com/", nil)
	got, err = fn(httpReq)
	if err != nil {
		t.Fatalf("proxy func: %v", err)
	}
	if got == nil || got.Host != "proxy-a:8080" {
		t.Errorf("http proxy = %v, want proxy-a:8080", got)
	}
}

func TestNewProxyFunc_NoProxyBypass(t *testing.T) {
	fn := NewProxyFunc("http://proxy-a:8080", "", "internal.example.com, localhost")

	for _, target := range []string{
		"http://internal.example.com/api",
		"http://svc.internal.example.com/api",
		"http://localhost:9000/",
	} {
		req, _ := http.NewRequest(http.MethodGet, target, nil)
		got, err := fn(req)
		if err != nil {
			t.Fatalf("proxy func: %v", err)
		}
		if got != nil {
			t.Errorf("%s should bypass the proxy, got %v", target, got)
		}
	}

	req, _ := http.NewRequest(http.MethodGet, "http://example.com/", nil)
	if got, _ := fn(req); got == nil || got.Host != "proxy-a:8080" {
		t.Errorf("non-bypassed host proxy = %v", got)
	}
}

func TestNewProxyFunc_Unset(t *testing.T) {
	fn := NewProxyFunc("", "", "")
	req, _ := http.NewRequest(http.MethodGet, "http://example.invalid/", nil)
	// Falls back to the environment; with no proxy vars set this is nil.
	if got, err := fn(req); err == nil && got != nil {
		if _, perr := url.Parse(got.String()); perr != nil {
			t.Errorf("environment proxy unparseable: %v", got)
		}
	}
}
