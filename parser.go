package main

import (
	"strconv"
	"strings"
	"time"
	"unicode"

	"github.com/google/uuid"
)

// positionalKeys is the order counters appear on both dashboard layouts.
// The mapping from number tokens to metrics relies entirely on this order:
// the dashboards render their counters in a fixed visual sequence, and
// sparse-text OCR preserves left-to-right, top-to-bottom token order even
// though it discards layout. A geometric nearest-label matcher could replace
// this without touching the rest of the pipeline.
var positionalKeys = []string{
	MetricInProgress,
	MetricAwaitingVerification,
	MetricIncomplete,
	MetricComplete,
	MetricAwaitingRecommendation,
	MetricRecommended,
	MetricAwaitingApproval,
	MetricApproved,
}

// ParseStatistics turns raw OCR text into a capture attempt. The returned
// error is nil exactly when the attempt is accepted; rejections are typed
// (*WrongVariantError, *InsufficientTokensError) and also mirrored in the
// attempt's Rejected field for the audit trail.
func ParseStatistics(v Variant, text string, now time.Time) (CaptureAttempt, error) {
	attempt := CaptureAttempt{
		ID:      uuid.NewString(),
		Variant: v.Name,
		RawText: text,
	}

	if v.MarkerWord != "" && !strings.Contains(text, v.MarkerWord) {
		err := &WrongVariantError{
			Variant: v.Name,
			Hint:    "this looks like a different dashboard's screenshot; upload it to the matching pipeline",
		}
		attempt.Rejected = err.Error()
		return attempt, err
	}

	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		switch {
		case isNumberToken(line):
			n, _ := strconv.Atoi(strings.ReplaceAll(line, ",", ""))
			attempt.Numbers = append(attempt.Numbers, n)
		case isLabelToken(line, v.NoiseTokens):
			attempt.Labels = append(attempt.Labels, line)
		}
	}

	if len(attempt.Numbers) < v.MinNumbers {
		err := &InsufficientTokensError{Found: len(attempt.Numbers), Want: v.MinNumbers}
		attempt.Rejected = err.Error()
		return attempt, err
	}

	counts := make(map[string]int, len(MetricKeys))
	for i, key := range positionalKeys {
		counts[key] = attempt.Numbers[i]
	}
	if v.FixedDeclinedAt1 {
		// The declined counter is not visible on this dashboard's layout, so
		// it is held at the documented sentinel value rather than OCR-derived.
		counts[MetricDeclined] = 1
		counts[MetricReserved] = attempt.Numbers[8]
	} else {
		counts[MetricDeclined] = attempt.Numbers[8]
		counts[MetricReserved] = attempt.Numbers[9]
	}

	attempt.Record = &MetricRecord{CapturedAt: now, Counts: counts}
	return attempt, nil
}

// isNumberToken reports whether a trimmed line is entirely digits once
// thousands separators are stripped.
func isNumberToken(line string) bool {
	stripped := strings.ReplaceAll(line, ",", "")
	if stripped == "" {
		return false
	}
	for _, r := range stripped {
		if !unicode.IsDigit(r) {
			return false
		}
	}
	return true
}

// isLabelToken reports whether a trimmed line is a counter label: no digits
// anywhere and not one of the variant's known noise tokens.
func isLabelToken(line string, noise []string) bool {
	for _, r := range line {
		if unicode.IsDigit(r) {
			return false
		}
	}
	for _, n := range noise {
		if line == n {
			return false
		}
	}
	return true
}
