package history

import (
	"context"
	"errors"
	"reflect"
	"testing"

	"go.uber.org/zap"

	"github.com/ketjandr/nasa-spaceapps-project/internal/domain"
)

type stubStore struct {
	entries  []domain.HistoryEntry
	trending []domain.TrendingQuery
	err      error
	gotLimit int
	gotDays  int
}

func (s *stubStore) Recent(_ context.Context, _ string, limit int) ([]domain.HistoryEntry, error) {
	s.gotLimit = limit
	return s.entries, s.err
}

func (s *stubStore) Trending(_ context.Context, days, limit int) ([]domain.TrendingQuery, error) {
	s.gotDays = days
	s.gotLimit = limit
	return s.trending, s.err
}

func newService(store *stubStore) *Service {
	return New(store, zap.NewNop())
}

func TestEnsureSession(t *testing.T) {
	if got := EnsureSession("sess-1"); got != "sess-1" {
		t.Errorf("EnsureSession(sess-1) = %q", got)
	}

	minted := EnsureSession("")
	if minted == "" {
		t.Fatal("expected a minted session id")
	}
	if again := EnsureSession(""); again == minted {
		t.Error("minted ids must be unique")
	}
}

func TestRecent_ClampsLimit(t *testing.T) {
	store := &stubStore{}
	svc := newService(store)
	ctx := context.Background()

	if _, err := svc.Recent(ctx, "s", 0); err != nil {
		t.Fatalf("Recent() error = %v", err)
	}
	if store.gotLimit != DefaultLimit {
		t.Errorf("limit = %d, want %d", store.gotLimit, DefaultLimit)
	}

	if _, err := svc.Recent(ctx, "s", 500); err != nil {
		t.Fatalf("Recent() error = %v", err)
	}
	if store.gotLimit != MaxLimit {
		t.Errorf("limit = %d, want %d", store.gotLimit, MaxLimit)
	}
}

func TestTrending_ClampsWindow(t *testing.T) {
	store := &stubStore{}
	svc := newService(store)

	if _, err := svc.Trending(context.Background(), 0, 0); err != nil {
		t.Fatalf("Trending() error = %v", err)
	}
	if store.gotDays != DefaultTrendingDays || store.gotLimit != DefaultTrendingLimit {
		t.Errorf("got days=%d limit=%d", store.gotDays, store.gotLimit)
	}

	if _, err := svc.Trending(context.Background(), 400, 400); err != nil {
		t.Fatalf("Trending() error = %v", err)
	}
	if store.gotDays != MaxTrendingDays || store.gotLimit != MaxLimit {
		t.Errorf("got days=%d limit=%d", store.gotDays, store.gotLimit)
	}
}

func TestSuggestions_DefaultsForNewSession(t *testing.T) {
	svc := newService(&stubStore{})

	got := svc.Suggestions(context.Background(), "fresh")
	if !reflect.DeepEqual(got, defaultSuggestions) {
		t.Errorf("Suggestions() = %v", got)
	}
}

func TestSuggestions_DefaultsOnStoreError(t *testing.T) {
	svc := newService(&stubStore{err: errors.New("db down")})

	got := svc.Suggestions(context.Background(), "s")
	if !reflect.DeepEqual(got, defaultSuggestions) {
		t.Errorf("Suggestions() = %v", got)
	}
}

func TestSuggestions_BuiltFromActivity(t *testing.T) {
	store := &stubStore{entries: []domain.HistoryEntry{
		{Query: "craters on mars", TargetBody: "Mars", Category: "Crater"},
		{Query: "more craters", TargetBody: "Mars", Category: "Crater"},
		{Query: "lunar maria", TargetBody: "Moon", Category: "Mare"},
	}}
	svc := newService(store)

	got := svc.Suggestions(context.Background(), "s")
	want := []string{
		"Explore Mars",
		"Recent discoveries on Mars",
		"Craters on Mars",
		"Show me craters on Mars",
		"Show me mares on Mars",
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Suggestions() = %v, want %v", got, want)
	}
}

func TestSuggestions_CappedAtFive(t *testing.T) {
	store := &stubStore{entries: []domain.HistoryEntry{
		{TargetBody: "Mars", Category: "Crater"},
		{TargetBody: "Moon", Category: "Mons"},
		{TargetBody: "Venus", Category: "Vallis"},
	}}
	svc := newService(store)

	got := svc.Suggestions(context.Background(), "s")
	if len(got) != maxSuggestions {
		t.Errorf("got %d suggestions, want %d: %v", len(got), maxSuggestions, got)
	}
}
