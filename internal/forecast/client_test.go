package forecast

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/coe-acad/p2p-solar-trade/internal/storage"
	"github.com/coe-acad/p2p-solar-trade/pkg/cache"
	"github.com/coe-acad/p2p-solar-trade/pkg/types"
	"go.uber.org/zap"
)

func TestFetchSlots_MapsWindows(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("expected POST, got %s", r.Method)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"forecast_windows": [
				{"start_time": "10:00", "price": 6.25, "quantity_kwh": 4},
				{"start_time": "17:00", "price": 6.50, "quantity_kwh": 3, "battery_sourced": true},
				{"start_time": "bogus", "price": 1.0, "quantity_kwh": 1}
			]
		}`))
	}))
	defer server.Close()

	client := NewClient(server.URL, 5*time.Second, zap.NewNop())

	slots, err := client.FetchSlots(context.Background(), "2026-01-28")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	// Malformed window is skipped, not fatal.
	if len(slots) != 2 {
		t.Fatalf("expected 2 slots, got %d", len(slots))
	}

	if slots[0].ID != "slot-10" {
		t.Errorf("expected slot-10, got %s", slots[0].ID)
	}
	if slots[0].TimeRange != "10:00 AM – 11:00 AM" {
		t.Errorf("unexpected display range %q", slots[0].TimeRange)
	}
	if slots[1].ID != "slot-17" || !slots[1].Battery {
		t.Errorf("expected battery-sourced slot-17, got %+v", slots[1])
	}
}

func TestFetchSlots_Non200(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "upstream broken", http.StatusBadGateway)
	}))
	defer server.Close()

	client := NewClient(server.URL, 5*time.Second, zap.NewNop())

	_, err := client.FetchSlots(context.Background(), "2026-01-28")
	if err == nil {
		t.Fatal("expected error on non-200 response")
	}
}

type stubSource struct {
	slots []types.BaseSlot
	err   error
	calls int
}

func (s *stubSource) Slots(ctx context.Context, date string) ([]types.BaseSlot, error) {
	s.calls++
	return s.slots, s.err
}

func newMemCache(t *testing.T) cache.Cache {
	t.Helper()

	c, err := cache.NewRistrettoCache(&cache.RistrettoConfig{
		NumCounters: 1000,
		MaxCost:     100,
		BufferItems: 64,
		Logger:      zap.NewNop(),
	})
	if err != nil {
		t.Fatalf("create cache: %v", err)
	}
	t.Cleanup(c.Close)

	return c
}

func TestCachedSource_ServesFromCache(t *testing.T) {
	src := &stubSource{slots: types.DefaultBaseSlots()}
	memCache := newMemCache(t)

	cached := NewCachedSource(&CachedConfig{
		Source: src,
		Cache:  memCache,
		Repo:   storage.NewMemoryRepository(),
		TTL:    time.Minute,
		Logger: zap.NewNop(),
	})

	first, err := cached.Slots(context.Background(), "2026-01-28")
	if err != nil {
		t.Fatalf("first fetch: %v", err)
	}
	if len(first) != 6 {
		t.Fatalf("expected 6 slots, got %d", len(first))
	}

	// Let the ristretto write buffer drain before the second read.
	if rc, ok := memCache.(*cache.RistrettoCache); ok {
		rc.Wait()
	}

	_, err = cached.Slots(context.Background(), "2026-01-28")
	if err != nil {
		t.Fatalf("second fetch: %v", err)
	}

	if src.calls != 1 {
		t.Errorf("expected 1 upstream call, got %d", src.calls)
	}
}

func TestCachedSource_FallsBackToPersisted(t *testing.T) {
	repo := storage.NewMemoryRepository()
	if err := storage.WriteCache(repo, storage.KeyForecastCache, types.DefaultBaseSlots()); err != nil {
		t.Fatalf("seed cache: %v", err)
	}

	src := &stubSource{err: errors.New("connection refused")}

	cached := NewCachedSource(&CachedConfig{
		Source: src,
		Cache:  newMemCache(t),
		Repo:   repo,
		TTL:    time.Minute,
		Logger: zap.NewNop(),
	})

	slots, err := cached.Slots(context.Background(), "2026-01-28")
	if err != nil {
		t.Fatalf("expected fallback to persisted copy, got %v", err)
	}
	if len(slots) != 6 {
		t.Errorf("expected 6 persisted slots, got %d", len(slots))
	}
}

func TestCachedSource_ErrorWhenNoFallback(t *testing.T) {
	src := &stubSource{err: errors.New("connection refused")}

	cached := NewCachedSource(&CachedConfig{
		Source: src,
		Cache:  newMemCache(t),
		Repo:   storage.NewMemoryRepository(),
		TTL:    time.Minute,
		Logger: zap.NewNop(),
	})

	_, err := cached.Slots(context.Background(), "2026-01-28")
	if err == nil {
		t.Fatal("expected error when upstream is down and no persisted copy exists")
	}
}
