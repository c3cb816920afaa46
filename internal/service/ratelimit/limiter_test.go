package ratelimit

import (
	"testing"
	"time"
)

func TestAllowConsumesBurst(t *testing.T) {
	l := New()
	for i := 0; i < 3; i++ {
		if !l.Allow("u1", 3, 0.001) {
			t.Fatalf("request %d should be within the burst", i)
		}
	}
	if l.Allow("u1", 3, 0.001) {
		t.Fatalf("burst exhausted, request should be denied")
	}
	// Other keys have independent buckets.
	if !l.Allow("u2", 3, 0.001) {
		t.Fatalf("separate key should have its own budget")
	}
}

func TestAllowRefills(t *testing.T) {
	l := New()
	if !l.Allow("k", 1, 100) {
		t.Fatalf("first request should pass")
	}
	if l.Allow("k", 1, 100) {
		t.Fatalf("bucket should be empty immediately after")
	}
	time.Sleep(25 * time.Millisecond)
	if !l.Allow("k", 1, 100) {
		t.Fatalf("bucket should have refilled")
	}
}

func TestRetryAfter(t *testing.T) {
	l := New()
	if d := l.RetryAfter("k", 2, 1); d != 0 {
		t.Fatalf("fresh bucket should allow immediately, got %v", d)
	}
	l.Allow("k", 2, 1)
	l.Allow("k", 2, 1)
	d := l.RetryAfter("k", 2, 1)
	if d <= 0 || d > time.Second {
		t.Fatalf("expected wait within one second, got %v", d)
	}
}
