package main

import "testing"

func TestMetricLabel(t *testing.T) {
	tests := []struct {
		key  string
		want string
	}{
		{MetricInProgress, "In Progress"},
		{MetricAwaitingVerification, "Awaiting Verification"},
		{MetricApproved, "Approved"},
	}
	for _, tt := range tests {
		if got := MetricLabel(tt.key); got != tt.want {
			t.Errorf("MetricLabel(%q) = %q, want %q", tt.key, got, tt.want)
		}
	}
}

func TestVariantByName(t *testing.T) {
	v, ok := VariantByName("renewals")
	if !ok || v.Name != "renewals" {
		t.Fatalf("lookup renewals = (%v, %v)", v, ok)
	}
	if _, ok := VariantByName("unknown"); ok {
		t.Fatal("unknown variant should not resolve")
	}
}

func TestCategoriesCoverEveryMetricOnce(t *testing.T) {
	seen := make(map[string]int)
	for _, c := range Categories {
		for _, key := range c.Keys {
			seen[key]++
		}
	}
	for _, key := range MetricKeys {
		if seen[key] != 1 {
			t.Errorf("metric %s appears %d times across categories, want exactly once", key, seen[key])
		}
	}
	if len(seen) != len(MetricKeys) {
		t.Errorf("categories reference %d keys, metric set has %d", len(seen), len(MetricKeys))
	}
}
