package main

import "time"

// GatePolicy decides whether a new capture may be recorded. The check is a
// pure time window: two different screenshots inside the cooldown are still
// denied, which favors a simple duplicate-upload guard over data fidelity.
type GatePolicy struct {
	Cooldown time.Duration
}

// Check returns nil to allow the capture, or *CooldownError to deny it.
// An empty series (last == nil) always allows.
func (g GatePolicy) Check(last *MetricRecord, now time.Time) error {
	if last == nil {
		return nil
	}
	elapsed := now.Sub(last.CapturedAt)
	if elapsed >= g.Cooldown {
		return nil
	}
	return &CooldownError{Remaining: g.Cooldown - elapsed}
}

// ClockRange is an inclusive time-of-day band, e.g. 07:00-09:00.
type ClockRange struct {
	StartHour, StartMin int
	EndHour, EndMin     int
}

// Contains reports whether t's time of day falls inside the band.
func (r ClockRange) Contains(t time.Time) bool {
	m := t.Hour()*60 + t.Minute()
	return m >= r.StartHour*60+r.StartMin && m <= r.EndHour*60+r.EndMin
}

// ReportWindows holds the two daily bands in which reports are generated.
// Captures outside the bands are still accepted; only report scheduling and
// the morning comparison rule consult them.
type ReportWindows struct {
	Morning   ClockRange
	Afternoon ClockRange
}

// InAny reports whether t falls inside either band.
func (w ReportWindows) InAny(t time.Time) bool {
	return w.Morning.Contains(t) || w.Afternoon.Contains(t)
}
