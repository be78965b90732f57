package main

import (
	"errors"
	"testing"
	"time"
)

func TestGateCheck_DeniesInsideCooldown(t *testing.T) {
	gate := GatePolicy{Cooldown: time.Hour}
	last := &MetricRecord{CapturedAt: time.Date(2026, 8, 27, 8, 10, 0, 0, time.Local)}
	now := time.Date(2026, 8, 27, 8, 40, 0, 0, time.Local)

	err := gate.Check(last, now)
	var cd *CooldownError
	if !errors.As(err, &cd) {
		t.Fatalf("err = %v, want *CooldownError", err)
	}
	if cd.Remaining != 30*time.Minute {
		t.Fatalf("remaining = %s, want 30m", cd.Remaining)
	}
}

func TestGateCheck_AllowsAtCooldownBoundary(t *testing.T) {
	gate := GatePolicy{Cooldown: time.Hour}
	last := &MetricRecord{CapturedAt: time.Date(2026, 8, 27, 8, 10, 0, 0, time.Local)}

	if err := gate.Check(last, last.CapturedAt.Add(time.Hour)); err != nil {
		t.Fatalf("exactly one cooldown elapsed should allow, got %v", err)
	}
	if err := gate.Check(last, last.CapturedAt.Add(2*time.Hour)); err != nil {
		t.Fatalf("past cooldown should allow, got %v", err)
	}
}

func TestGateCheck_EmptySeriesAllows(t *testing.T) {
	gate := GatePolicy{Cooldown: time.Hour}
	if err := gate.Check(nil, time.Now()); err != nil {
		t.Fatalf("empty series should always allow, got %v", err)
	}
}

func TestClockRangeContains(t *testing.T) {
	morning := ClockRange{StartHour: 7, EndHour: 9}

	tests := []struct {
		clock string
		want  bool
	}{
		{"06:59", false},
		{"07:00", true},
		{"08:10", true},
		{"09:00", true},
		{"09:01", false},
		{"16:00", false},
	}
	for _, tt := range tests {
		at, err := time.ParseInLocation("15:04", tt.clock, time.Local)
		if err != nil {
			t.Fatalf("parse %s: %v", tt.clock, err)
		}
		if got := morning.Contains(at); got != tt.want {
			t.Errorf("Contains(%s) = %v, want %v", tt.clock, got, tt.want)
		}
	}
}

func TestReportWindowsInAny(t *testing.T) {
	w := ReportWindows{
		Morning:   ClockRange{StartHour: 7, EndHour: 9},
		Afternoon: ClockRange{StartHour: 16, EndHour: 18},
	}

	day := time.Date(2026, 8, 27, 0, 0, 0, 0, time.Local)
	if !w.InAny(day.Add(8 * time.Hour)) {
		t.Error("08:00 should be inside the morning band")
	}
	if !w.InAny(day.Add(17 * time.Hour)) {
		t.Error("17:00 should be inside the afternoon band")
	}
	if w.InAny(day.Add(12 * time.Hour)) {
		t.Error("12:00 should be outside both bands")
	}
}
