package main

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadConfigDefaults(t *testing.T) {
	t.Setenv("CONFIG_PATH", filepath.Join(t.TempDir(), "missing-config.yaml"))
	t.Setenv("TIMEZONE", "UTC")

	cfg := LoadConfig()

	if cfg.DataDir != "./data" {
		t.Fatalf("unexpected data dir default: %q", cfg.DataDir)
	}
	if cfg.ReportOutputDir != "./reports" {
		t.Fatalf("unexpected report output dir default: %q", cfg.ReportOutputDir)
	}
	if cfg.DBPath != "./dashreport.db" {
		t.Fatalf("unexpected db path default: %q", cfg.DBPath)
	}
	if cfg.Cooldown() != time.Hour {
		t.Fatalf("unexpected cooldown default: %s", cfg.Cooldown())
	}
	if cfg.MorningWindow != "07:00-09:00" || cfg.AfternoonWindow != "16:00-18:00" {
		t.Fatalf("unexpected window defaults: %q / %q", cfg.MorningWindow, cfg.AfternoonWindow)
	}
	if cfg.HistoryWindow != 10 {
		t.Fatalf("unexpected history window default: %d", cfg.HistoryWindow)
	}
	if len(cfg.ExcludedMetrics) != 1 || cfg.ExcludedMetrics[0] != MetricDeclined {
		t.Fatalf("unexpected excluded metrics default: %v", cfg.ExcludedMetrics)
	}
	if len(cfg.OCRLanguages) != 1 || cfg.OCRLanguages[0] != "eng" {
		t.Fatalf("unexpected OCR languages default: %v", cfg.OCRLanguages)
	}
	if cfg.ReportSchedule != "0 7,16 * * *" {
		t.Fatalf("unexpected schedule default: %q", cfg.ReportSchedule)
	}
	if cfg.Location == nil || cfg.Location.String() != "UTC" {
		t.Fatalf("unexpected location: %v", cfg.Location)
	}
}

func TestLoadConfigYAMLAndEnvOverride(t *testing.T) {
	cfgPath := filepath.Join(t.TempDir(), "config.yaml")
	content := `
data_dir: "/tmp/yaml-data"
report_output_dir: "/tmp/yaml-reports"
cooldown_minutes: 30
morning_window: "06:00-08:00"
history_window: 5
excluded_metrics: ["reserved"]
ocr_languages: ["eng", "afr"]
timezone: "UTC"
`
	if err := os.WriteFile(cfgPath, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	t.Setenv("CONFIG_PATH", cfgPath)
	t.Setenv("COOLDOWN_MINUTES", "45")
	t.Setenv("DATA_DIR", "/tmp/env-data")

	cfg := LoadConfig()

	if cfg.DataDir != "/tmp/env-data" {
		t.Fatalf("expected data dir from env override, got %q", cfg.DataDir)
	}
	if cfg.Cooldown() != 45*time.Minute {
		t.Fatalf("expected cooldown from env override, got %s", cfg.Cooldown())
	}
	if cfg.ReportOutputDir != "/tmp/yaml-reports" {
		t.Fatalf("expected report output dir from yaml, got %q", cfg.ReportOutputDir)
	}
	if cfg.MorningWindow != "06:00-08:00" {
		t.Fatalf("expected morning window from yaml, got %q", cfg.MorningWindow)
	}
	if cfg.HistoryWindow != 5 {
		t.Fatalf("expected history window from yaml, got %d", cfg.HistoryWindow)
	}
	if len(cfg.ExcludedMetrics) != 1 || cfg.ExcludedMetrics[0] != MetricReserved {
		t.Fatalf("expected excluded metrics from yaml, got %v", cfg.ExcludedMetrics)
	}
	if len(cfg.OCRLanguages) != 2 {
		t.Fatalf("expected 2 OCR languages from yaml, got %v", cfg.OCRLanguages)
	}

	windows := cfg.ReportWindows()
	if windows.Morning.StartHour != 6 || windows.Morning.EndHour != 8 {
		t.Fatalf("unexpected parsed morning band: %+v", windows.Morning)
	}
}

func TestParseClockRange(t *testing.T) {
	tests := []struct {
		in      string
		want    ClockRange
		wantErr bool
	}{
		{"07:00-09:00", ClockRange{7, 0, 9, 0}, false},
		{"16:30-18:45", ClockRange{16, 30, 18, 45}, false},
		{"07:00 - 09:00", ClockRange{7, 0, 9, 0}, false},
		{"09:00-07:00", ClockRange{}, true},
		{"25:00-26:00", ClockRange{}, true},
		{"morning", ClockRange{}, true},
		{"", ClockRange{}, true},
	}
	for _, tt := range tests {
		got, err := parseClockRange(tt.in)
		if tt.wantErr {
			if err == nil {
				t.Errorf("parseClockRange(%q) should fail", tt.in)
			}
			continue
		}
		if err != nil {
			t.Errorf("parseClockRange(%q) failed: %v", tt.in, err)
			continue
		}
		if got != tt.want {
			t.Errorf("parseClockRange(%q) = %+v, want %+v", tt.in, got, tt.want)
		}
	}
}
