package main

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"sync"
	"time"
)

const seriesTimeLayout = "2006-01-02 15:04:05"

// SeriesStore persists one variant's records as a flat CSV table: header
// row `date,<metric keys...>`, one row per record, strictly appended and
// never rewritten. Append holds a mutex so overlapping invocations cannot
// interleave writes to the same file; the two variants each own their own
// store instance and file, so there is no cross-variant contention.
type SeriesStore struct {
	path string
	keys []string

	mu sync.Mutex
}

func NewSeriesStore(path string) *SeriesStore {
	return &SeriesStore{path: path, keys: MetricKeys}
}

// Path returns the underlying series file path.
func (s *SeriesStore) Path() string { return s.path }

// Append adds one record to the end of the series, creating the file (and
// its header row) on first use. The row is flushed and synced before Append
// returns.
func (s *SeriesStore) Append(rec MetricRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.MkdirAll(filepath.Dir(s.path), 0755); err != nil {
		return fmt.Errorf("create series dir: %w", err)
	}

	f, err := os.OpenFile(s.path, os.O_WRONLY|os.O_CREATE|os.O_APPEND, 0644)
	if err != nil {
		return fmt.Errorf("%w: open %s: %v", ErrStoreUnavailable, s.path, err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return fmt.Errorf("%w: stat %s: %v", ErrStoreUnavailable, s.path, err)
	}

	w := csv.NewWriter(f)
	if info.Size() == 0 {
		if err := w.Write(append([]string{"date"}, s.keys...)); err != nil {
			return fmt.Errorf("write header: %w", err)
		}
	}

	row := make([]string, 0, len(s.keys)+1)
	row = append(row, rec.CapturedAt.Format(seriesTimeLayout))
	for _, key := range s.keys {
		row = append(row, strconv.Itoa(rec.Get(key)))
	}
	if err := w.Write(row); err != nil {
		return fmt.Errorf("write row: %w", err)
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("flush row: %w", err)
	}
	return f.Sync()
}

// All returns the full ordered history. A missing file is an empty series,
// not an error; an unreadable or malformed file is ErrStoreUnavailable.
func (s *SeriesStore) All() ([]MetricRecord, error) {
	f, err := os.Open(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("%w: open %s: %v", ErrStoreUnavailable, s.path, err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	rows, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("%w: parse %s: %v", ErrStoreUnavailable, s.path, err)
	}
	if len(rows) == 0 {
		return nil, nil
	}

	header := rows[0]
	if len(header) == 0 || header[0] != "date" {
		return nil, fmt.Errorf("%w: %s: first column must be 'date'", ErrStoreUnavailable, s.path)
	}

	records := make([]MetricRecord, 0, len(rows)-1)
	for _, row := range rows[1:] {
		rec, err := s.parseRow(header, row)
		if err != nil {
			return nil, fmt.Errorf("%w: %s: %v", ErrStoreUnavailable, s.path, err)
		}
		records = append(records, rec)
	}
	return records, nil
}

// Last returns the most recent record, or nil for an empty series.
func (s *SeriesStore) Last() (*MetricRecord, error) {
	records, err := s.All()
	if err != nil || len(records) == 0 {
		return nil, err
	}
	return &records[len(records)-1], nil
}

// LastTwo returns the two most recent records as (current, previous).
// Previous is nil when the series has fewer than two records; both are nil
// for an empty series.
func (s *SeriesStore) LastTwo() (*MetricRecord, *MetricRecord, error) {
	records, err := s.All()
	if err != nil || len(records) == 0 {
		return nil, nil, err
	}
	current := &records[len(records)-1]
	if len(records) < 2 {
		return current, nil, nil
	}
	return current, &records[len(records)-2], nil
}

// ComparisonPair picks the (current, previous) records for a report at now.
// Inside the morning band, when the series holds at least one record from
// today and one from a prior day, current is today's last record and
// previous is the prior day's last record, bridging the overnight gap.
// In every other case the pair is simply the two chronologically-last rows.
func (s *SeriesStore) ComparisonPair(now time.Time, morning ClockRange) (*MetricRecord, *MetricRecord, error) {
	records, err := s.All()
	if err != nil || len(records) == 0 {
		return nil, nil, err
	}

	if morning.Contains(now) {
		var today, prior *MetricRecord
		for i := range records {
			rec := &records[i]
			y1, m1, d1 := rec.CapturedAt.Date()
			y2, m2, d2 := now.Date()
			if y1 == y2 && m1 == m2 && d1 == d2 {
				today = rec
			} else if rec.CapturedAt.Before(now) {
				prior = rec
			}
		}
		if today != nil && prior != nil {
			return today, prior, nil
		}
	}

	current := &records[len(records)-1]
	if len(records) < 2 {
		return current, nil, nil
	}
	return current, &records[len(records)-2], nil
}

func (s *SeriesStore) parseRow(header, row []string) (MetricRecord, error) {
	if len(row) != len(header) {
		return MetricRecord{}, fmt.Errorf("row has %d fields, header has %d", len(row), len(header))
	}

	at, err := parseSeriesTime(row[0])
	if err != nil {
		return MetricRecord{}, err
	}

	rec := MetricRecord{CapturedAt: at, Counts: make(map[string]int, len(header)-1)}
	for i, col := range header[1:] {
		val := row[i+1]
		if val == "" {
			continue
		}
		n, err := strconv.Atoi(val)
		if err != nil {
			// Tolerate float-formatted counts written by earlier tooling.
			fval, ferr := strconv.ParseFloat(val, 64)
			if ferr != nil {
				return MetricRecord{}, fmt.Errorf("column %s: bad count %q", col, val)
			}
			n = int(fval)
		}
		rec.Counts[col] = n
	}
	return rec, nil
}

func parseSeriesTime(s string) (time.Time, error) {
	for _, layout := range []string{seriesTimeLayout, "2006-01-02"} {
		if t, err := time.ParseInLocation(layout, s, time.Local); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("bad date %q", s)
}
