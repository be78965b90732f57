package main

// ComputeDelta compares current against previous per metric and per
// category. A nil previous produces all-zero deltas with HasPrevious false,
// which callers must treat differently from a real all-zero previous record.
// Pure and deterministic; a metric missing on either side counts as 0.
func ComputeDelta(current MetricRecord, previous *MetricRecord) DeltaResult {
	result := DeltaResult{
		HasPrevious: previous != nil,
		PerMetric:   make(map[string]int, len(MetricKeys)),
	}

	for _, key := range MetricKeys {
		if previous == nil {
			result.PerMetric[key] = 0
			continue
		}
		result.PerMetric[key] = current.Get(key) - previous.Get(key)
	}

	for _, c := range Categories {
		cd := CategoryDelta{Name: c.Name, Current: current.CategoryTotal(c)}
		if previous != nil {
			cd.Previous = previous.CategoryTotal(c)
			cd.Delta = cd.Current - cd.Previous
		}
		result.Categories = append(result.Categories, cd)
	}
	return result
}
