package anim

import (
	"math"
	"testing"
	"time"
)

func TestTimeSensorFraction(t *testing.T) {
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name    string
		sensor  TimeSensor
		elapsed time.Duration
		want    float64
	}{
		{"at start", TimeSensor{CycleInterval: 4 * time.Second, Loop: true}, 0, 0},
		{"before start", TimeSensor{CycleInterval: 4 * time.Second, Loop: true}, -time.Second, 0},
		{"quarter", TimeSensor{CycleInterval: 4 * time.Second, Loop: true}, time.Second, 0.25},
		{"wraps", TimeSensor{CycleInterval: 4 * time.Second, Loop: true}, 9 * time.Second, 0.25},
		{"single cycle running", TimeSensor{CycleInterval: 4 * time.Second}, 3 * time.Second, 0.75},
		{"single cycle done", TimeSensor{CycleInterval: 4 * time.Second}, 9 * time.Second, 1},
		{"zero interval", TimeSensor{Loop: true}, time.Second, 0},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := tc.sensor.Fraction(start, start.Add(tc.elapsed))
			if math.Abs(got-tc.want) > 1e-12 {
				t.Errorf("Fraction = %v, want %v", got, tc.want)
			}
		})
	}
}

func TestTimeSensorWallFraction(t *testing.T) {
	s := TimeSensor{CycleInterval: 10 * time.Second, Loop: true}

	got := s.WallFraction(time.Unix(1_000_003, 0))
	if math.Abs(got-0.3) > 1e-6 {
		t.Errorf("WallFraction = %v, want 0.3", got)
	}

	for i := range 50 {
		f := s.WallFraction(time.Unix(int64(i*7), int64(i)*1e7))
		if f < 0 || f >= 1 {
			t.Fatalf("WallFraction out of range: %v", f)
		}
	}
}
