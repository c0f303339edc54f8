package middleware

import (
	"testing"
	"time"
)

func TestRateLimiterCapsPerKey(t *testing.T) {
	rl := NewRateLimiter(3, time.Minute)
	for i := 0; i < 3; i++ {
		if !rl.Allow("10.0.0.1") {
			t.Fatalf("request %d denied under the limit", i+1)
		}
	}
	if rl.Allow("10.0.0.1") {
		t.Error("request over the limit allowed")
	}
	// Other keys are unaffected.
	if !rl.Allow("10.0.0.2") {
		t.Error("separate key denied")
	}
}

func TestRateLimiterWindowRollover(t *testing.T) {
	rl := NewRateLimiter(1, 10*time.Millisecond)
	if !rl.Allow("k") {
		t.Fatal("first request denied")
	}
	if rl.Allow("k") {
		t.Fatal("second request in window allowed")
	}
	time.Sleep(15 * time.Millisecond)
	if !rl.Allow("k") {
		t.Error("request denied after window rolled over")
	}
}
