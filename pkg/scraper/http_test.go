package scraper

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
)

func TestHTTPScraperPost(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("unexpected method %q", r.Method)
		}

		if ct := r.Header.Get("Content-Type"); ct != "application/x-www-form-urlencoded" {
			t.Errorf("unexpected content type %q", ct)
		}

		if ua := r.Header.Get("User-Agent"); ua != "test-agent" {
			t.Errorf("unexpected user agent %q", ua)
		}

		if err := r.ParseForm(); err != nil {
			t.Fatalf("%+v", err)
		}

		if q := r.PostForm.Get("q"); q != "golang" {
			t.Errorf("unexpected form value %q", q)
		}

		w.Write([]byte("ok"))
	}))
	defer server.Close()

	scraper := NewHTTPScraper(server.Client())

	headers := http.Header{}
	headers.Set("User-Agent", "test-agent")

	body, err := scraper.Post(context.Background(), server.URL, url.Values{"q": {"golang"}}, headers)
	if err != nil {
		t.Fatalf("%+v", err)
	}

	defer body.Close()

	data, err := io.ReadAll(body)
	if err != nil {
		t.Fatalf("%+v", err)
	}

	if string(data) != "ok" {
		t.Errorf("unexpected body %q", data)
	}
}

func TestHTTPScraperGetErrorStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "denied", http.StatusForbidden)
	}))
	defer server.Close()

	scraper := NewHTTPScraper(server.Client())

	if _, err := scraper.Get(context.Background(), server.URL); err == nil {
		t.Error("expected an error for a 403 response")
	} else if !strings.Contains(err.Error(), "403") {
		t.Errorf("expected the status in the error, got %q", err)
	}
}

func TestHTTPScraperCheck(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/missing" {
			http.NotFound(w, r)
			return
		}

		w.Write([]byte("ok"))
	}))
	defer server.Close()

	scraper := NewHTTPScraper(server.Client())

	ok, err := scraper.Check(context.Background(), server.URL)
	if err != nil {
		t.Fatalf("%+v", err)
	}

	if !ok {
		t.Error("expected check to succeed")
	}

	ok, err = scraper.Check(context.Background(), server.URL+"/missing")
	if err != nil {
		t.Fatalf("%+v", err)
	}

	if ok {
		t.Error("expected check to fail for a 404")
	}
}
