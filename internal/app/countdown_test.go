package app

import "testing"

func TestCountdown_FiresExactlyOnceAtZero(t *testing.T) {
	c := NewCountdown(3)

	fired := 0
	for i := 0; i < 10; i++ {
		if c.Tick() {
			fired++
		}
	}
	if fired != 1 {
		t.Fatalf("expiry fired %d times, want exactly once", fired)
	}
	if c.Remaining() != 0 {
		t.Fatalf("remaining = %d, want clamped at 0", c.Remaining())
	}
	if !c.Expired() {
		t.Fatal("countdown should report expired")
	}
}

func TestCountdown_ZeroDuration(t *testing.T) {
	c := NewCountdown(0)
	if !c.Tick() {
		t.Fatal("a zero countdown expires on the first tick")
	}
	if c.Tick() {
		t.Fatal("expiry must not fire again")
	}
}

func TestCountdown_NegativeDurationClamps(t *testing.T) {
	c := NewCountdown(-5)
	if c.Remaining() != 0 {
		t.Fatalf("remaining = %d, want 0", c.Remaining())
	}
}

func TestCountdown_Thresholds(t *testing.T) {
	tests := []struct {
		name     string
		seconds  int
		warning  bool
		critical bool
	}{
		{name: "plenty of time", seconds: 1800, warning: false, critical: false},
		{name: "ten minutes", seconds: 600, warning: true, critical: false},
		{name: "five minutes", seconds: 300, warning: true, critical: true},
		{name: "one minute", seconds: 60, warning: true, critical: true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			c := NewCountdown(tc.seconds)
			if c.Warning() != tc.warning {
				t.Fatalf("Warning() = %v, want %v", c.Warning(), tc.warning)
			}
			if c.Critical() != tc.critical {
				t.Fatalf("Critical() = %v, want %v", c.Critical(), tc.critical)
			}
		})
	}
}
