package store_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/fitcoach-app/fitcoach/internal/domain"
	"github.com/fitcoach-app/fitcoach/internal/infra/store"
)

// fakeBackend emulates just enough of a PostgREST row store.
type fakeBackend struct {
	mu       sync.Mutex
	profiles map[string]map[string]any
	badges   []map[string]any
	catalog  []domain.BadgeDefinition
}

func newFakeBackend() *fakeBackend {
	return &fakeBackend{profiles: make(map[string]map[string]any)}
}

func (f *fakeBackend) handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/rest/v1/profiles", func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		defer f.mu.Unlock()
		// PostgREST always responds with a JSON content type; resty only
		// unmarshals SetResult targets when the response declares JSON.
		w.Header().Set("Content-Type", "application/json")
		id := idFromQuery(r.URL.Query().Get("id"))

		switch r.Method {
		case http.MethodGet:
			rows := []map[string]any{}
			if row, ok := f.profiles[id]; ok {
				rows = append(rows, row)
			}
			json.NewEncoder(w).Encode(rows)
		case http.MethodPost:
			var row map[string]any
			json.NewDecoder(r.Body).Decode(&row)
			f.profiles[row["id"].(string)] = row
			json.NewEncoder(w).Encode([]map[string]any{row})
		case http.MethodPatch:
			row, ok := f.profiles[id]
			if !ok {
				w.WriteHeader(http.StatusNotFound)
				return
			}
			var patch map[string]any
			json.NewDecoder(r.Body).Decode(&patch)
			for k, v := range patch {
				row[k] = v
			}
			w.WriteHeader(http.StatusNoContent)
		}
	})
	mux.HandleFunc("/rest/v1/earned_badges", func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		defer f.mu.Unlock()
		w.Header().Set("Content-Type", "application/json")

		switch r.Method {
		case http.MethodGet:
			user := idFromQuery(r.URL.Query().Get("user_id"))
			rows := []map[string]any{}
			for _, b := range f.badges {
				if b["user_id"] == user {
					rows = append(rows, b)
				}
			}
			json.NewEncoder(w).Encode(rows)
		case http.MethodPost:
			var row map[string]any
			json.NewDecoder(r.Body).Decode(&row)
			for _, b := range f.badges {
				if b["user_id"] == row["user_id"] && b["badge_id"] == row["badge_id"] {
					w.WriteHeader(http.StatusCreated) // merge-duplicates
					return
				}
			}
			f.badges = append(f.badges, row)
			w.WriteHeader(http.StatusCreated)
		}
	})
	mux.HandleFunc("/rest/v1/badges", func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		defer f.mu.Unlock()
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(f.catalog)
	})
	return mux
}

func idFromQuery(v string) string {
	if len(v) > 3 && v[:3] == "eq." {
		return v[3:]
	}
	return v
}

func newRESTFixture(t *testing.T) (*store.REST, *fakeBackend) {
	t.Helper()
	backend := newFakeBackend()
	srv := httptest.NewServer(backend.handler())
	t.Cleanup(srv.Close)
	return store.NewREST(srv.URL, "test-key", zerolog.Nop()), backend
}

func TestREST_FirstAccessCreatesProfile(t *testing.T) {
	s, backend := newRESTFixture(t)

	p, err := s.LoadProfile(context.Background(), "user-1")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if p.ID != "user-1" || p.CurrentLevel != 1 || p.LevelName != "Beginner" {
		t.Errorf("expected fresh Beginner profile, got %+v", p)
	}
	if _, ok := backend.profiles["user-1"]; !ok {
		t.Error("expected the row inserted on first access")
	}
}

func TestREST_SaveAndReload(t *testing.T) {
	s, _ := newRESTFixture(t)
	ctx := context.Background()

	p, _ := s.LoadProfile(ctx, "user-1")
	p.MessageCount = 9
	p.CurrentLevel = 2
	p.LevelName = "Rookie"
	p.CurrentStreak = 4
	p.LastActiveDate = time.Date(2025, 7, 4, 0, 0, 0, 0, time.UTC)
	p.UpdatedAt = time.Now().UTC()

	if err := s.SaveProfile(ctx, p); err != nil {
		t.Fatalf("save: %v", err)
	}

	got, err := s.LoadProfile(ctx, "user-1")
	if err != nil {
		t.Fatalf("reload: %v", err)
	}
	if got.MessageCount != 9 || got.CurrentStreak != 4 {
		t.Errorf("expected saved counters back, got %+v", got)
	}
	if !got.LastActiveDate.Equal(p.LastActiveDate) {
		t.Errorf("expected date round trip, got %v", got.LastActiveDate)
	}
}

func TestREST_BadgeUpsertAndList(t *testing.T) {
	s, _ := newRESTFixture(t)
	ctx := context.Background()
	at := time.Date(2025, 7, 1, 12, 0, 0, 0, time.UTC)

	if err := s.UpsertEarnedBadge(ctx, "user-1", "first_message", at); err != nil {
		t.Fatalf("upsert: %v", err)
	}
	// Duplicate merges into a no-op.
	if err := s.UpsertEarnedBadge(ctx, "user-1", "first_message", at.Add(time.Hour)); err != nil {
		t.Fatalf("duplicate upsert: %v", err)
	}

	badges, err := s.ListEarnedBadges(ctx, "user-1")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(badges) != 1 || badges[0].BadgeID != "first_message" {
		t.Errorf("unexpected badges: %+v", badges)
	}
	if !badges[0].EarnedAt.Equal(at) {
		t.Errorf("expected original timestamp, got %v", badges[0].EarnedAt)
	}
}

func TestREST_EmptyCatalogIsSentinel(t *testing.T) {
	s, backend := newRESTFixture(t)

	if _, err := s.BadgeCatalog(context.Background()); !errors.Is(err, domain.ErrNoCatalog) {
		t.Errorf("expected ErrNoCatalog for empty table, got %v", err)
	}

	backend.mu.Lock()
	backend.catalog = []domain.BadgeDefinition{{ID: "first_message", Name: "First Steps"}}
	backend.mu.Unlock()

	defs, err := s.BadgeCatalog(context.Background())
	if err != nil {
		t.Fatalf("catalog: %v", err)
	}
	if len(defs) != 1 || defs[0].ID != "first_message" {
		t.Errorf("unexpected catalog: %+v", defs)
	}
}
