package newsapi

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestTopHeadlines(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/top-headlines" {
			t.Fatalf("неожиданный путь: %s", r.URL.Path)
		}
		if r.URL.Query().Get("country") != "us" {
			t.Fatalf("ожидали country=us, получили %q", r.URL.Query().Get("country"))
		}
		if r.URL.Query().Get("apiKey") != "secret" {
			t.Fatal("ожидали передачу ключа API")
		}
		w.Write([]byte(`{"status":"ok","articles":[
			{"source":{"name":"BBC"},"title":"Заголовок","description":"Описание","url":"https://bbc.com/1","urlToImage":"https://bbc.com/1.jpg","publishedAt":"2025-06-01T10:00:00Z"}
		]}`))
	}))
	defer srv.Close()

	c := NewClient("secret", srv.URL, time.Second)
	got, err := c.TopHeadlines(context.Background(), "us")
	if err != nil {
		t.Fatalf("не ожидали ошибку: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("ожидали 1 статью, получили %d", len(got))
	}
	if got[0].SourceName != "BBC" || got[0].URL != "https://bbc.com/1" {
		t.Fatalf("неверный маппинг полей: %+v", got[0])
	}
}

func TestFetchStatusError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"status":"error","message":"apiKeyInvalid"}`))
	}))
	defer srv.Close()

	c := NewClient("bad", srv.URL, time.Second)
	if _, err := c.Trending(context.Background()); err == nil {
		t.Fatal("ожидали ошибку при status != ok")
	}
}

func TestByQuerySortsByRelevancy(t *testing.T) {
	var sortBy string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sortBy = r.URL.Query().Get("sortBy")
		w.Write([]byte(`{"status":"ok","articles":[]}`))
	}))
	defer srv.Close()

	c := NewClient("secret", srv.URL, time.Second)
	if _, err := c.ByQuery(context.Background(), "go"); err != nil {
		t.Fatalf("не ожидали ошибку: %v", err)
	}
	if sortBy != "relevancy" {
		t.Fatalf("ожидали sortBy=relevancy, получили %q", sortBy)
	}
}
