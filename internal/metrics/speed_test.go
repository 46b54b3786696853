package metrics

import (
	"errors"
	"testing"
)

func TestNewSpeed(t *testing.T) {
	simprints := []Simprint{
		{Size: 1000, TimeMS: 10}, // 100 bytes/ms
		{Size: 4000, TimeMS: 20}, // 200 bytes/ms
		{Size: 500, TimeMS: 0},   // skipped, rounded-to-zero timing
	}

	speed, err := NewSpeed(simprints)
	if err != nil {
		t.Fatalf("NewSpeed failed: %v", err)
	}
	if speed.Min != 100 || speed.Max != 200 || speed.Mean != 150 {
		t.Errorf("unexpected distribution: %+v", speed.Distribution)
	}
	// 150 bytes/ms = 0.15 MB/s
	if speed.MeanHuman != "0.15 MB/s" {
		t.Errorf("unexpected human mean %q", speed.MeanHuman)
	}
}

func TestNewSpeedNoTimings(t *testing.T) {
	simprints := []Simprint{{Size: 100, TimeMS: 0}}
	if _, err := NewSpeed(simprints); !errors.Is(err, ErrNoTimings) {
		t.Errorf("expected ErrNoTimings, got %v", err)
	}
}
