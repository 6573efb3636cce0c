package symbols

import (
	"testing"
	"time"
)

func TestPolicyBarrierIsBuyOnly(t *testing.T) {
	now := time.Date(2025, 6, 4, 0, 0, 0, 0, time.UTC)

	for _, code := range []string{"BOOM_300", "BOOM_500", "CRASH_300", "CRASH_500"} {
		policy := PolicyFor(Normalize(code, now))

		if !policy.Allows(DirectionCall) {
			t.Fatalf("%s must allow CALL", code)
		}
		if policy.Allows(DirectionPut) {
			t.Fatalf("%s must reject PUT", code)
		}
		if len(policy.AllowedDirections) != 1 {
			t.Fatalf("%s must allow exactly one direction, got %v", code, policy.AllowedDirections)
		}
	}
}

func TestPolicyVolatilityIndexBounds(t *testing.T) {
	now := time.Date(2025, 6, 4, 0, 0, 0, 0, time.UTC)
	policy := PolicyFor(Normalize("VOLATILITY_10", now))

	if !policy.Allows(DirectionCall) || !policy.Allows(DirectionPut) {
		t.Fatalf("volatility indices allow both directions, got %v", policy.AllowedDirections)
	}
	if policy.ExpirationUnit != ExpirationUnitTicks {
		t.Fatalf("volatility indices expire in ticks, got %s", policy.ExpirationUnit)
	}
	if policy.ExpirationValid(0) {
		t.Fatalf("expiration 0 must be rejected")
	}
	if policy.ExpirationValid(11) {
		t.Fatalf("expiration 11 exceeds the 10-tick bound")
	}
	if !policy.ExpirationValid(5) {
		t.Fatalf("expiration 5 must pass the tick bound")
	}
}

func TestPolicyForexBounds(t *testing.T) {
	now := time.Date(2025, 6, 4, 0, 0, 0, 0, time.UTC)
	policy := PolicyFor(Normalize("EURUSD", now))

	if policy.ExpirationUnit != ExpirationUnitMinutes {
		t.Fatalf("forex expires in minutes, got %s", policy.ExpirationUnit)
	}
	if policy.MinExpiration != 1 || policy.MaxExpiration != 60 {
		t.Fatalf("expected 1-60 minute bounds, got %d-%d", policy.MinExpiration, policy.MaxExpiration)
	}
	if !policy.Allows(DirectionPut) {
		t.Fatalf("forex must allow PUT")
	}
}
