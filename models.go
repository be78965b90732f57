package main

import "time"

// MetricRecord is one timestamped snapshot of every counter for a variant.
// Records are immutable once appended to a series.
type MetricRecord struct {
	CapturedAt time.Time
	Counts     map[string]int
}

// Get returns the count for key, treating a missing metric as 0.
func (r MetricRecord) Get(key string) int {
	return r.Counts[key]
}

// CategoryTotal sums the record's counts over the category's member keys.
func (r MetricRecord) CategoryTotal(c Category) int {
	total := 0
	for _, key := range c.Keys {
		total += r.Get(key)
	}
	return total
}

// CaptureAttempt is the transient result of one capture invocation: the raw
// OCR text, the classified tokens, and the outcome. Rejected attempts carry
// a reason and no record.
type CaptureAttempt struct {
	ID       string
	Variant  string
	RawText  string
	Numbers  []int
	Labels   []string
	Record   *MetricRecord // nil when rejected
	Rejected string        // human-readable reason, empty when accepted
}

// Accepted reports whether the attempt produced a record.
func (a CaptureAttempt) Accepted() bool { return a.Record != nil }

// CategoryDelta carries the current total, previous total, and signed change
// for one category.
type CategoryDelta struct {
	Name     string
	Current  int
	Previous int
	Delta    int
}

// DeltaResult compares a current record against an optional previous one.
// HasPrevious distinguishes "no prior record" from "prior record with
// all-zero counts"; PerMetric is all-zero in the former case.
type DeltaResult struct {
	HasPrevious bool
	PerMetric   map[string]int
	Categories  []CategoryDelta
}

// MetricDelta returns the signed change for key (0 when no previous record).
func (d DeltaResult) MetricDelta(key string) int {
	return d.PerMetric[key]
}
