package cache

import (
	"context"
	"testing"
	"time"
)

func TestMemoryGetSet(t *testing.T) {
	c := NewMemory()
	ctx := context.Background()

	if _, ok := c.Get(ctx, "missing"); ok {
		t.Error("Get on empty cache returned ok")
	}

	c.Set(ctx, "k", []byte("v"), time.Minute)

	got, ok := c.Get(ctx, "k")

	if !ok {
		t.Fatal("Get after Set returned !ok")
	}

	if string(got) != "v" {
		t.Errorf("Get = %q, want %q", got, "v")
	}
}

func TestMemoryExpiry(t *testing.T) {
	c := NewMemory()
	ctx := context.Background()

	c.Set(ctx, "k", []byte("v"), time.Nanosecond)
	time.Sleep(5 * time.Millisecond)

	if _, ok := c.Get(ctx, "k"); ok {
		t.Error("Get returned ok after expiry")
	}
}

func TestMemoryDeleteAndClear(t *testing.T) {
	c := NewMemory()
	ctx := context.Background()

	c.Set(ctx, "a", []byte("1"), time.Minute)
	c.Set(ctx, "b", []byte("2"), time.Minute)

	c.Delete("a")

	if _, ok := c.Get(ctx, "a"); ok {
		t.Error("Get returned ok after Delete")
	}

	c.Clear()

	if _, ok := c.Get(ctx, "b"); ok {
		t.Error("Get returned ok after Clear")
	}
}
