package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/go-pdf/fpdf"
)

// RenderPDF writes the multi-section tabular report and returns the path of
// the freshly created file. Filenames carry the render timestamp so no
// artifact is ever overwritten; the document's own dates are pinned to the
// record's capture time so rendering the same inputs twice yields identical
// bytes under different names.
func RenderPDF(v Variant, rec MetricRecord, delta DeltaResult, history []MetricRecord, cfg RenderConfig, now time.Time) (string, error) {
	filename := fmt.Sprintf("%s_report_%s.pdf", v.FilePrefix, now.Format("20060102_150405"))
	path := filepath.Join(cfg.OutputDir, filename)

	pdf := fpdf.New("P", "mm", "Letter", "")
	pdf.SetCatalogSort(true)
	pdf.SetTitle(v.Title, true)
	pdf.SetCreationDate(rec.CapturedAt)
	pdf.SetModificationDate(rec.CapturedAt)
	pdf.SetMargins(15, 15, 15)
	pdf.AddPage()

	// Title block.
	pdf.SetFont("Helvetica", "B", 22)
	pdf.SetTextColor(0, 75, 152)
	pdf.CellFormat(0, 12, v.Title, "", 1, "C", false, 0, "")
	pdf.SetFont("Helvetica", "", 12)
	pdf.SetTextColor(102, 102, 102)
	pdf.CellFormat(0, 8, "Data captured "+rec.CapturedAt.Format("2 January 2006, 15:04"), "", 1, "C", false, 0, "")
	pdf.Ln(6)

	for i, c := range Categories {
		writeCategoryTable(pdf, c, rec, delta, delta.Categories[i])
		writeTrendSentences(pdf, c, delta)
	}

	writeHistoryTable(pdf, v, history, cfg)

	if err := os.MkdirAll(cfg.OutputDir, 0755); err != nil {
		return "", fmt.Errorf("create reports dir: %w", err)
	}
	if err := pdf.OutputFileAndClose(path); err != nil {
		return "", fmt.Errorf("write pdf: %w", err)
	}
	return path, nil
}

var pdfTableWidths = [4]float64{63, 30, 30, 46}

func writeCategoryTable(pdf *fpdf.Fpdf, c Category, rec MetricRecord, delta DeltaResult, cd CategoryDelta) {
	pdf.SetFont("Helvetica", "B", 14)
	pdf.SetTextColor(0, 75, 152)
	pdf.CellFormat(0, 10, c.Name, "", 1, "L", false, 0, "")

	// Header row.
	pdf.SetFont("Helvetica", "B", 10)
	pdf.SetFillColor(0, 75, 152)
	pdf.SetTextColor(255, 255, 255)
	for i, h := range []string{"Metric", "Current Value", "Previous Value", "Change"} {
		pdf.CellFormat(pdfTableWidths[i], 8, h, "1", 0, "C", true, 0, "")
	}
	pdf.Ln(-1)

	// Metric rows.
	pdf.SetFont("Helvetica", "", 10)
	pdf.SetFillColor(248, 249, 250)
	pdf.SetTextColor(0, 0, 0)
	for _, key := range c.Keys {
		current := rec.Get(key)
		previous := previousValue(current, delta, key)
		cells := []string{
			MetricLabel(key),
			strconv.Itoa(current),
			strconv.Itoa(previous),
			pdfChangeString(current, previous),
		}
		for i, cell := range cells {
			align := "C"
			if i == 0 {
				align = "L"
			}
			pdf.CellFormat(pdfTableWidths[i], 7, cell, "1", 0, align, true, 0, "")
		}
		pdf.Ln(-1)
	}

	// Total row.
	pdf.SetFont("Helvetica", "B", 10)
	pdf.SetFillColor(232, 244, 248)
	totalChange := strconv.Itoa(cd.Delta)
	if cd.Delta > 0 {
		totalChange = "+" + totalChange
	}
	totals := []string{"Total", strconv.Itoa(cd.Current), strconv.Itoa(cd.Previous), totalChange}
	for i, cell := range totals {
		align := "C"
		if i == 0 {
			align = "L"
		}
		pdf.CellFormat(pdfTableWidths[i], 7, cell, "1", 0, align, true, 0, "")
	}
	pdf.Ln(-1)
	pdf.Ln(3)
}

func writeTrendSentences(pdf *fpdf.Fpdf, c Category, delta DeltaResult) {
	var sentences []string
	for _, key := range c.Keys {
		change := delta.MetricDelta(key)
		if change == 0 {
			continue
		}
		direction := "increased"
		if change < 0 {
			direction = "decreased"
		}
		sentences = append(sentences, fmt.Sprintf("%s has %s by %d", MetricLabel(key), direction, abs(change)))
	}
	if len(sentences) == 0 {
		pdf.Ln(3)
		return
	}

	pdf.SetFont("Helvetica", "B", 11)
	pdf.SetTextColor(0, 75, 152)
	pdf.CellFormat(0, 7, "Trend Analysis", "", 1, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 9)
	pdf.SetTextColor(0, 0, 0)
	for _, s := range sentences {
		pdf.CellFormat(0, 5, "- "+s, "", 1, "L", false, 0, "")
	}
	pdf.Ln(4)
}

// writeHistoryTable adds a landscape page with the last N records
// transposed: one row per non-excluded metric, one column per record.
func writeHistoryTable(pdf *fpdf.Fpdf, v Variant, history []MetricRecord, cfg RenderConfig) {
	if len(history) == 0 {
		return
	}
	if cfg.HistoryWindow > 0 && len(history) > cfg.HistoryWindow {
		history = history[len(history)-cfg.HistoryWindow:]
	}

	excluded := make(map[string]bool, len(cfg.ExcludedMetrics))
	for _, key := range cfg.ExcludedMetrics {
		excluded[key] = true
	}
	var keys []string
	for _, key := range MetricKeys {
		if !excluded[key] {
			keys = append(keys, key)
		}
	}
	if len(keys) == 0 {
		return
	}

	pdf.AddPageFormat("L", fpdf.SizeType{Wd: 215.9, Ht: 279.4})
	pdf.SetFont("Helvetica", "B", 14)
	pdf.SetTextColor(0, 75, 152)
	pdf.CellFormat(0, 10, "Historical Data Analysis", "", 1, "L", false, 0, "")
	pdf.Ln(2)

	metricCol := 55.0
	dataCol := (279.4 - 30 - metricCol) / float64(len(history))

	// Header row: capture timestamps.
	pdf.SetFont("Helvetica", "B", 8)
	pdf.SetFillColor(0, 75, 152)
	pdf.SetTextColor(255, 255, 255)
	pdf.CellFormat(metricCol, 8, "Metric", "1", 0, "L", true, 0, "")
	for _, h := range history {
		pdf.CellFormat(dataCol, 8, h.CapturedAt.Format("2006-01-02 15:04"), "1", 0, "C", true, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetTextColor(0, 0, 0)
	for i, key := range keys {
		pdf.SetFont("Helvetica", "B", 8)
		pdf.SetFillColor(232, 244, 248)
		pdf.CellFormat(metricCol, 7, MetricLabel(key), "1", 0, "L", true, 0, "")

		pdf.SetFont("Helvetica", "", 8)
		if i%2 == 0 {
			pdf.SetFillColor(255, 255, 255)
		} else {
			pdf.SetFillColor(248, 249, 250)
		}
		for _, h := range history {
			pdf.CellFormat(dataCol, 7, strconv.Itoa(h.Get(key)), "1", 0, "C", true, 0, "")
		}
		pdf.Ln(-1)
	}
}

// previousValue reconstructs the previous record's count from the delta; a
// missing previous record reads as 0, matching the table semantics.
func previousValue(current int, delta DeltaResult, key string) int {
	if !delta.HasPrevious {
		return 0
	}
	return current - delta.MetricDelta(key)
}

// pdfChangeString renders the change column: signed difference with a
// percentage, or a NEW marker when the metric appears from a zero previous.
func pdfChangeString(current, previous int) string {
	change := current - previous
	if previous > 0 {
		pct := float64(change) / float64(previous) * 100
		switch {
		case change > 0:
			return fmt.Sprintf("+%d (+%.1f%%)", change, pct)
		case change < 0:
			return fmt.Sprintf("%d (%.1f%%)", change, pct)
		default:
			return "0 (0%)"
		}
	}
	if current > 0 {
		return fmt.Sprintf("+%d (NEW)", change)
	}
	return "0 (0%)"
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
