package middleware

import (
	"testing"
	"time"
)

func TestCheckUserLimit(t *testing.T) {
	rl := NewRateLimiter(3, 100, time.Minute)

	for i := 0; i < 3; i++ {
		if !rl.CheckUserLimit("user-1") {
			t.Fatalf("request %d blocked, want allowed", i+1)
		}
	}
	if rl.CheckUserLimit("user-1") {
		t.Error("request over the budget allowed, want blocked")
	}

	// Other accounts are unaffected
	if !rl.CheckUserLimit("user-2") {
		t.Error("different account blocked, want allowed")
	}
}

func TestCheckIPLimitWindowReset(t *testing.T) {
	rl := NewRateLimiter(100, 2, 10*time.Millisecond)

	if !rl.CheckIPLimit("10.0.0.1") || !rl.CheckIPLimit("10.0.0.1") {
		t.Fatal("requests within the budget blocked")
	}
	if rl.CheckIPLimit("10.0.0.1") {
		t.Error("request over the budget allowed, want blocked")
	}

	time.Sleep(15 * time.Millisecond)

	if !rl.CheckIPLimit("10.0.0.1") {
		t.Error("request after window reset blocked, want allowed")
	}
}

func TestReset(t *testing.T) {
	rl := NewRateLimiter(1, 1, time.Minute)

	rl.CheckUserLimit("user-1")
	if rl.CheckUserLimit("user-1") {
		t.Fatal("second request allowed before reset")
	}

	rl.Reset()

	if !rl.CheckUserLimit("user-1") {
		t.Error("request after Reset() blocked, want allowed")
	}
}
