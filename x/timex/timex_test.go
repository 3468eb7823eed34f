package timex

import (
	"testing"
	"time"
)

func TestMs(t *testing.T) {
	if got := Ms(3500 * time.Millisecond); got != 3500 {
		t.Fatalf("Ms(3.5s) = %d", got)
	}
	if got := Ms(-time.Second); got != 0 {
		t.Fatalf("Ms(negative) = %d", got)
	}
	if got := Ms(100 * 24 * time.Hour); got != ^uint32(0) {
		t.Fatalf("Ms should saturate, got %d", got)
	}
}

func TestResetTimerAfterFire(t *testing.T) {
	tm := time.NewTimer(time.Millisecond)
	time.Sleep(5 * time.Millisecond)
	ResetTimer(tm, 20*time.Millisecond)
	select {
	case <-tm.C:
		t.Fatal("stale expiry was not drained")
	case <-time.After(5 * time.Millisecond):
	}
	select {
	case <-tm.C:
	case <-time.After(time.Second):
		t.Fatal("timer did not fire after reset")
	}
}
