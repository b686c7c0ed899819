package cache

import (
	"context"
	"strings"
	"testing"
	"time"
)

func TestKeysScopedPerCaller(t *testing.T) {
	a := TicketListKey(1, "analyst=true;")
	b := TicketListKey(2, "analyst=true;")
	if a == b {
		t.Errorf("list keys for different callers collide: %s", a)
	}
	if !strings.HasPrefix(a, TicketListPrefix(1)) {
		t.Errorf("key %s not under its caller prefix %s", a, TicketListPrefix(1))
	}

	sameShape := TicketListKey(1, "analyst=true;")
	if a != sameShape {
		t.Errorf("identical query shapes produced different keys")
	}
	otherShape := TicketListKey(1, "analyst=true;s=NEW;")
	if a == otherShape {
		t.Errorf("different query shapes share a key")
	}
}

func TestThreadKeyPerTicket(t *testing.T) {
	if ThreadKey(1) == ThreadKey(2) {
		t.Errorf("thread keys collide across tickets")
	}
}

func TestNilStoreDegrades(t *testing.T) {
	var store *Store
	ctx := context.Background()

	var dest []string
	if store.Get(ctx, "k", &dest) {
		t.Errorf("nil store reported a cache hit")
	}
	// Must not panic.
	store.Set(ctx, "k", []string{"v"}, time.Minute)
	store.Invalidate(ctx, "k")
	store.InvalidatePrefix(ctx, "k:")

	empty := NewStore(nil, nil)
	if empty.Get(ctx, "k", &dest) {
		t.Errorf("store without client reported a cache hit")
	}
	empty.Set(ctx, "k", []string{"v"}, time.Minute)
}
