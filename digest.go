package main

import (
	"fmt"
	"strings"
)

// RenderDigest builds the short chat-style summary for a record and its
// delta. Every number comes from the record and the DeltaResult, so the
// digest cannot disagree with the PDF or the chart.
func RenderDigest(v Variant, rec MetricRecord, delta DeltaResult) string {
	var b strings.Builder

	reportTag := "Afternoon"
	if rec.CapturedAt.Hour() <= 11 {
		reportTag = "Morning"
	}

	fmt.Fprintf(&b, "📊 *%s*\n", v.Title)
	fmt.Fprintf(&b, "%s Report\n", reportTag)
	fmt.Fprintf(&b, "📅 %s\n", rec.CapturedAt.Format("2006-01-02 15:04"))

	for i, c := range Categories {
		fmt.Fprintf(&b, "\n%s *%s*\n", c.Emoji, c.Name)
		for _, key := range c.Keys {
			fmt.Fprintf(&b, "• %s: *%d*%s\n", MetricLabel(key), rec.Get(key),
				changeIndicator(delta.HasPrevious, delta.MetricDelta(key)))
		}
		cd := delta.Categories[i]
		fmt.Fprintf(&b, "*%s: %d*%s\n", c.TotalLabel, cd.Current,
			changeIndicator(delta.HasPrevious, cd.Delta))
	}

	return b.String()
}

// changeIndicator renders the directional glyph and magnitude appended to a
// metric line, or nothing when there is no previous record or no change.
func changeIndicator(hasPrevious bool, change int) string {
	if !hasPrevious || change == 0 {
		return ""
	}
	if change > 0 {
		return fmt.Sprintf(" ▲ (+%d)", change)
	}
	return fmt.Sprintf(" ▼ (%d)", change)
}
