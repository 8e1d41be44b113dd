package redis

import (
	"context"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

func TestTokenStoreRoundTrip(t *testing.T) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("run miniredis: %v", err)
	}
	defer mr.Close()

	store := NewTokenStore(redis.NewClient(&redis.Options{Addr: mr.Addr()}))
	ctx := context.Background()

	if err := store.SaveRefreshToken(ctx, "u1", "tok", time.Minute); err != nil {
		t.Fatalf("save: %v", err)
	}
	if ok, err := store.HasRefreshToken(ctx, "u1", "tok"); err != nil || !ok {
		t.Fatalf("expected token present, ok=%v err=%v", ok, err)
	}
	if ok, _ := store.HasRefreshToken(ctx, "u2", "tok"); ok {
		t.Fatal("token must be scoped to its user")
	}

	if err := store.DeleteRefreshToken(ctx, "u1", "tok"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if ok, _ := store.HasRefreshToken(ctx, "u1", "tok"); ok {
		t.Fatal("expected token revoked")
	}
}

func TestTokenStoreExpires(t *testing.T) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("run miniredis: %v", err)
	}
	defer mr.Close()

	store := NewTokenStore(redis.NewClient(&redis.Options{Addr: mr.Addr()}))
	ctx := context.Background()

	if err := store.SaveRefreshToken(ctx, "u1", "tok", time.Minute); err != nil {
		t.Fatalf("save: %v", err)
	}
	mr.FastForward(2 * time.Minute)
	if ok, _ := store.HasRefreshToken(ctx, "u1", "tok"); ok {
		t.Fatal("expected token expired")
	}
}
