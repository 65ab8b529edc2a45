package services

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/desertthunder/roster/internal/models"
	"github.com/desertthunder/roster/internal/shared"
	tu "github.com/desertthunder/roster/internal/testing"
	"github.com/google/uuid"
	"golang.org/x/time/rate"
)

const (
	uuid1 = "3f1c1e9a-6a2b-4c55-9a7e-0d7c2f1b8a01"
	uuid2 = "b6f0d6a2-1e4f-4b8c-a3d2-7e9c5b1f2a02"
)

func mockUser(id, first, last, email string) map[string]any {
	return map[string]any{
		"name":    map[string]string{"title": "Ms", "first": first, "last": last},
		"email":   email,
		"picture": map[string]string{"thumbnail": "https://example.com/" + first + ".jpg"},
		"login":   map[string]string{"uuid": id, "username": strings.ToLower(first)},
	}
}

func TestRandomUserService(t *testing.T) {
	t.Run("NewRandomUserService", func(t *testing.T) {
		t.Run("applies defaults", func(t *testing.T) {
			svc := NewRandomUserService(RandomUserOpts{})
			if svc.baseURL != defaultRandomUserBaseURL {
				t.Errorf("expected baseURL %s, got %s", defaultRandomUserBaseURL, svc.baseURL)
			}
			if svc.results != defaultRandomUserResults {
				t.Errorf("expected %d results, got %d", defaultRandomUserResults, svc.results)
			}
			if svc.httpClient != http.DefaultClient {
				t.Error("expected http.DefaultClient to be used")
			}
			if svc.limiter.Limit() != rate.Inf {
				t.Errorf("expected unlimited rate, got %v", svc.limiter.Limit())
			}
		})

		t.Run("uses provided options", func(t *testing.T) {
			client := &http.Client{}
			svc := NewRandomUserService(RandomUserOpts{
				BaseURL:    "http://localhost:9000/",
				Results:    5,
				RateLimit:  2,
				HTTPClient: client,
			})
			if svc.baseURL != "http://localhost:9000" {
				t.Errorf("expected trailing slash trimmed, got %s", svc.baseURL)
			}
			if svc.results != 5 {
				t.Errorf("expected 5 results, got %d", svc.results)
			}
			if svc.httpClient != client {
				t.Error("expected custom client to be used")
			}
			if svc.limiter.Limit() != rate.Limit(2) {
				t.Errorf("expected limit 2, got %v", svc.limiter.Limit())
			}
		})
	})

	t.Run("Name", func(t *testing.T) {
		if svc := NewRandomUserService(RandomUserOpts{}); svc.Name() != "randomuser.me" {
			t.Errorf("expected name 'randomuser.me', got %s", svc.Name())
		}
	})

	t.Run("endpoint", func(t *testing.T) {
		svc := NewRandomUserService(RandomUserOpts{Results: 3, Seed: "abc", Nationalities: []string{"us", "gb"}})
		got := svc.endpoint()
		for _, want := range []string{"results=3", "seed=abc", "nat=us%2Cgb"} {
			if !strings.Contains(got, want) {
				t.Errorf("expected endpoint %s to contain %s", got, want)
			}
		}
		if !strings.HasPrefix(got, "/api/?") {
			t.Errorf("expected endpoint to start with /api/?, got %s", got)
		}
	})

	t.Run("Fetch", func(t *testing.T) {
		t.Run("maps results in order", func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				if r.URL.Path != "/api/" {
					t.Errorf("expected path /api/, got %s", r.URL.Path)
				}
				if r.URL.Query().Get("results") != "2" {
					t.Errorf("expected results=2, got %s", r.URL.RawQuery)
				}
				w.Header().Set("Content-Type", "application/json")
				json.NewEncoder(w).Encode(map[string]any{
					"results": []any{
						mockUser(uuid1, "Ann", "Lee", "a@x.com"),
						mockUser(uuid2, "Bob", "Kim", "b@x.com"),
					},
					"info": map[string]any{"seed": "s", "results": 2, "page": 1, "version": "1.4"},
				})
			}))
			defer server.Close()

			svc := NewRandomUserService(RandomUserOpts{BaseURL: server.URL, Results: 2})
			records, err := svc.Fetch(context.Background())
			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}

			want := []models.Record{
				{ID: uuid1, FirstName: "Ann", LastName: "Lee", Email: "a@x.com", ThumbnailURL: "https://example.com/Ann.jpg"},
				{ID: uuid2, FirstName: "Bob", LastName: "Kim", Email: "b@x.com", ThumbnailURL: "https://example.com/Bob.jpg"},
			}
			if len(records) != len(want) {
				t.Fatalf("expected %d records, got %d", len(want), len(records))
			}
			for i := range want {
				if records[i] != want[i] {
					t.Errorf("record %d = %+v, want %+v", i, records[i], want[i])
				}
			}
		})

		t.Run("generates IDs for missing and repeated UUIDs", func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				json.NewEncoder(w).Encode(map[string]any{
					"results": []any{
						mockUser("", "Ann", "Lee", "a@x.com"),
						mockUser(uuid1, "Bob", "Kim", "b@x.com"),
						mockUser(uuid1, "Cat", "Ng", "c@x.com"),
					},
				})
			}))
			defer server.Close()

			svc := NewRandomUserService(RandomUserOpts{BaseURL: server.URL})
			records, err := svc.Fetch(context.Background())
			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}

			seen := map[string]bool{}
			for _, r := range records {
				if r.ID == "" {
					t.Errorf("expected generated ID for %s", r.FirstName)
				}
				if seen[r.ID] {
					t.Errorf("duplicate ID %s", r.ID)
				}
				seen[r.ID] = true
			}
			if records[1].ID != uuid1 {
				t.Errorf("expected first occurrence to keep its UUID, got %s", records[1].ID)
			}
		})

		t.Run("replaces IDs that are not UUIDs", func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				json.NewEncoder(w).Encode(map[string]any{
					"results": []any{
						mockUser("../../escaped", "Ann", "Lee", "a@x.com"),
						mockUser("u-2", "Bob", "Kim", "b@x.com"),
						mockUser(strings.ToUpper(uuid2), "Cat", "Ng", "c@x.com"),
					},
				})
			}))
			defer server.Close()

			svc := NewRandomUserService(RandomUserOpts{BaseURL: server.URL})
			records, err := svc.Fetch(context.Background())
			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}

			for _, r := range records[:2] {
				if _, err := uuid.Parse(r.ID); err != nil || strings.ContainsAny(r.ID, "./") {
					t.Errorf("expected generated UUID for %s, got %q", r.FirstName, r.ID)
				}
			}
			if records[2].ID != uuid2 {
				t.Errorf("expected canonical UUID %s, got %s", uuid2, records[2].ID)
			}
		})

		t.Run("empty results", func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.Write([]byte(`{"results": []}`))
			}))
			defer server.Close()

			svc := NewRandomUserService(RandomUserOpts{BaseURL: server.URL})
			records, err := svc.Fetch(context.Background())
			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			if len(records) != 0 {
				t.Errorf("expected no records, got %d", len(records))
			}
		})

		t.Run("errors", func(t *testing.T) {
			tt := []struct {
				name    string
				status  int
				body    string
				wantMsg string
			}{
				{name: "API error body", status: http.StatusOK, body: `{"error": "Uh oh, something has gone wrong."}`, wantMsg: "something has gone wrong"},
				{name: "missing results", status: http.StatusOK, body: `{}`, wantMsg: "no results"},
				{name: "malformed JSON", status: http.StatusOK, body: `{"results": [`, wantMsg: "failed to decode"},
				{name: "status with error detail", status: http.StatusServiceUnavailable, body: `{"error": "down"}`, wantMsg: "status 503): down"},
				{name: "status without detail", status: http.StatusInternalServerError, body: `oops`, wantMsg: "status 500"},
			}

			for _, tc := range tt {
				t.Run(tc.name, func(t *testing.T) {
					server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
						w.WriteHeader(tc.status)
						w.Write([]byte(tc.body))
					}))
					defer server.Close()

					svc := NewRandomUserService(RandomUserOpts{BaseURL: server.URL})
					_, err := svc.Fetch(context.Background())
					if !errors.Is(err, shared.ErrAPIRequest) {
						t.Fatalf("expected ErrAPIRequest, got %v", err)
					}
					if !strings.Contains(err.Error(), tc.wantMsg) {
						t.Errorf("expected error to contain %q, got %v", tc.wantMsg, err)
					}
				})
			}
		})

		t.Run("transport failure", func(t *testing.T) {
			client := &http.Client{Transport: tu.NewMockRoundTripper(nil, errors.New("connection refused"))}
			svc := NewRandomUserService(RandomUserOpts{BaseURL: "http://example.com", HTTPClient: client})

			_, err := svc.Fetch(context.Background())
			if !errors.Is(err, shared.ErrAPIRequest) {
				t.Fatalf("expected ErrAPIRequest, got %v", err)
			}
			if !strings.Contains(err.Error(), "request failed") {
				t.Errorf("expected 'request failed' in error, got %v", err)
			}
		})

		t.Run("canceled context stops at the limiter", func(t *testing.T) {
			svc := NewRandomUserService(RandomUserOpts{BaseURL: "http://example.com", RateLimit: 0.001})
			svc.limiter.Allow()

			ctx, cancel := context.WithCancel(context.Background())
			cancel()

			if _, err := svc.Fetch(ctx); !errors.Is(err, shared.ErrAPIRequest) {
				t.Errorf("expected ErrAPIRequest, got %v", err)
			}
		})
	})

	t.Run("satisfies Source", func(t *testing.T) {
		var _ Source = NewRandomUserService(RandomUserOpts{})
		var _ Source = SourceFunc(nil)
	})
}

func TestSourceFunc(t *testing.T) {
	want := []models.Record{{ID: "1"}}
	src := SourceFunc(func(ctx context.Context) ([]models.Record, error) {
		return want, nil
	})

	got, err := src.Fetch(context.Background())
	if err != nil || len(got) != 1 || got[0].ID != "1" {
		t.Errorf("Fetch() = %v, %v", got, err)
	}
	if src.Name() != "func" {
		t.Errorf("expected name 'func', got %s", src.Name())
	}
}
