package service

import (
	"context"
	"reflect"
	"testing"
	"time"

	"studio-booking/internal/domain/availability"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

func newTestRedis(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	return mr, client
}

func TestAvailabilityCacheVersioning(t *testing.T) {
	ctx := context.Background()
	_, client := newTestRedis(t)
	cache := NewAvailabilityCacheService(client, quietLogger(), time.Minute)

	v0, err := cache.Version(ctx)
	if err != nil || v0 != 0 {
		t.Fatalf("initial version = %d, %v", v0, err)
	}

	if _, hit := cache.GetSlots(ctx, v0, "2030-01-01"); hit {
		t.Fatal("unexpected hit on empty cache")
	}

	cache.SetSlots(ctx, v0, "2030-01-01", []string{"09:00", "11:00"})
	slots, hit := cache.GetSlots(ctx, v0, "2030-01-01")
	if !hit || !reflect.DeepEqual(slots, []string{"09:00", "11:00"}) {
		t.Fatalf("GetSlots = %v, %v", slots, hit)
	}

	cache.Invalidate(ctx)
	v1, _ := cache.Version(ctx)
	if v1 != v0+1 {
		t.Fatalf("version after invalidate = %d", v1)
	}
	if _, hit := cache.GetSlots(ctx, v1, "2030-01-01"); hit {
		t.Fatal("entry from old version must not be visible")
	}
}

func TestAvailabilityCacheWindowAndTTL(t *testing.T) {
	ctx := context.Background()
	mr, client := newTestRedis(t)
	cache := NewAvailabilityCacheService(client, quietLogger(), time.Minute)

	days := []availability.DayAvailability{{Date: "2030-01-01", AvailableSlots: []string{"09:00"}, AllSlots: []string{"09:00"}, BlockedSlots: []availability.Block{}}}
	cache.SetWindow(ctx, 0, "2030-01-01", days)

	got, hit := cache.GetWindow(ctx, 0, "2030-01-01")
	if !hit || !reflect.DeepEqual(got, days) {
		t.Fatalf("GetWindow = %+v, %v", got, hit)
	}

	mr.FastForward(2 * time.Minute)
	if _, hit := cache.GetWindow(ctx, 0, "2030-01-01"); hit {
		t.Fatal("entry should have expired")
	}
}

func TestAvailabilityCacheDisabled(t *testing.T) {
	ctx := context.Background()
	cache := NewAvailabilityCacheService(nil, quietLogger(), time.Minute)

	cache.SetSlots(ctx, 0, "2030-01-01", []string{"09:00"})
	if _, hit := cache.GetSlots(ctx, 0, "2030-01-01"); hit {
		t.Fatal("disabled cache must never hit")
	}
	cache.Invalidate(ctx)
}

func TestSessionServiceLifecycle(t *testing.T) {
	ctx := context.Background()
	_, client := newTestRedis(t)
	sessions := NewSessionService(client, quietLogger())

	if active, _ := sessions.IsActive(ctx, "abc"); active {
		t.Fatal("unknown session reported active")
	}
	if err := sessions.Register(ctx, "abc", time.Hour); err != nil {
		t.Fatalf("register: %v", err)
	}
	if active, _ := sessions.IsActive(ctx, "abc"); !active {
		t.Fatal("registered session not active")
	}
	if err := sessions.Revoke(ctx, "abc"); err != nil {
		t.Fatalf("revoke: %v", err)
	}
	if active, _ := sessions.IsActive(ctx, "abc"); active {
		t.Fatal("revoked session still active")
	}
}

func TestSessionServiceWithoutRedis(t *testing.T) {
	sessions := NewSessionService(nil, quietLogger())
	active, err := sessions.IsActive(context.Background(), "anything")
	if err != nil || !active {
		t.Fatalf("IsActive = %v, %v", active, err)
	}
}
