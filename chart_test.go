package main

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestRenderChart_WritesHTML(t *testing.T) {
	cfg := RenderConfig{OutputDir: t.TempDir(), HistoryWindow: 10}
	history := pdfHistory()

	now := time.Date(2026, 8, 27, 8, 5, 30, 0, time.Local)
	path, err := RenderChart(VariantNewApplications, history, cfg, now)
	if err != nil {
		t.Fatalf("RenderChart failed: %v", err)
	}

	if filepath.Base(path) != "applications_trend_20260827_080530.html" {
		t.Errorf("unexpected filename: %s", filepath.Base(path))
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read output: %v", err)
	}
	html := string(data)

	for _, want := range []string{
		"<html>",
		"New Applications Dashboard",
		MetricLabel(MetricApproved),
		MetricLabel(MetricInProgress),
		"2026-08-26 09:00", // a point from the series axis
	} {
		if !strings.Contains(html, want) {
			t.Errorf("chart HTML missing %q", want)
		}
	}
}

func TestRenderChart_DeterministicContent(t *testing.T) {
	cfg := RenderConfig{OutputDir: t.TempDir(), HistoryWindow: 10}
	history := pdfHistory()

	first, err := RenderChart(VariantRenewals, history, cfg,
		time.Date(2026, 8, 27, 8, 0, 0, 0, time.Local))
	if err != nil {
		t.Fatalf("first render failed: %v", err)
	}
	second, err := RenderChart(VariantRenewals, history, cfg,
		time.Date(2026, 8, 27, 16, 0, 0, 0, time.Local))
	if err != nil {
		t.Fatalf("second render failed: %v", err)
	}

	a, err := os.ReadFile(first)
	if err != nil {
		t.Fatalf("read first: %v", err)
	}
	b, err := os.ReadFile(second)
	if err != nil {
		t.Fatalf("read second: %v", err)
	}
	if string(a) != string(b) {
		t.Fatal("same history must render identical chart HTML")
	}
}

func TestRenderChart_EmptyHistory(t *testing.T) {
	cfg := RenderConfig{OutputDir: t.TempDir(), HistoryWindow: 10}

	path, err := RenderChart(VariantNewApplications, nil, cfg, time.Now())
	if err != nil {
		t.Fatalf("empty history should still render an empty chart, got %v", err)
	}
	if _, statErr := os.Stat(path); statErr != nil {
		t.Fatalf("stat output: %v", statErr)
	}
}
