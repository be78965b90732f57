package main

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	DataDir         string `yaml:"data_dir"`
	ReportOutputDir string `yaml:"report_output_dir"`
	DBPath          string `yaml:"db_path"`

	CooldownMinutes int    `yaml:"cooldown_minutes"`
	MorningWindow   string `yaml:"morning_window"`
	AfternoonWindow string `yaml:"afternoon_window"`

	HistoryWindow   int      `yaml:"history_window"`
	ExcludedMetrics []string `yaml:"excluded_metrics"`

	OCRLanguages   []string `yaml:"ocr_languages"`
	ReportSchedule string   `yaml:"report_schedule"`

	SlackBotToken   string `yaml:"slack_bot_token"`
	ReportChannelID string `yaml:"report_channel_id"`

	Timezone string         `yaml:"timezone"`
	Location *time.Location `yaml:"-"`
}

func LoadConfig() Config {
	var cfg Config

	// Load from config.yaml if it exists
	configPath := "config.yaml"
	if envPath := os.Getenv("CONFIG_PATH"); envPath != "" {
		configPath = envPath
	}
	if data, err := os.ReadFile(configPath); err == nil {
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			log.Fatalf("Error parsing %s: %v", configPath, err)
		}
		log.Printf("Loaded config from %s", configPath)
	}

	// Env vars override YAML values
	envOverride(&cfg.DataDir, "DATA_DIR")
	envOverride(&cfg.ReportOutputDir, "REPORT_OUTPUT_DIR")
	envOverride(&cfg.DBPath, "DB_PATH")
	envOverrideInt(&cfg.CooldownMinutes, "COOLDOWN_MINUTES")
	envOverride(&cfg.MorningWindow, "MORNING_WINDOW")
	envOverride(&cfg.AfternoonWindow, "AFTERNOON_WINDOW")
	envOverrideInt(&cfg.HistoryWindow, "HISTORY_WINDOW")
	envOverride(&cfg.ReportSchedule, "REPORT_SCHEDULE")
	envOverride(&cfg.SlackBotToken, "SLACK_BOT_TOKEN")
	envOverride(&cfg.ReportChannelID, "REPORT_CHANNEL_ID")
	envOverride(&cfg.Timezone, "TIMEZONE")

	if langs := os.Getenv("OCR_LANGUAGES"); langs != "" {
		cfg.OCRLanguages = splitCommaList(langs)
	}
	if excluded := os.Getenv("EXCLUDED_METRICS"); excluded != "" {
		cfg.ExcludedMetrics = splitCommaList(excluded)
	}

	// Defaults
	if cfg.DataDir == "" {
		cfg.DataDir = "./data"
	}
	if cfg.ReportOutputDir == "" {
		cfg.ReportOutputDir = "./reports"
	}
	if cfg.DBPath == "" {
		cfg.DBPath = "./dashreport.db"
	}
	if cfg.CooldownMinutes == 0 {
		cfg.CooldownMinutes = 60
	}
	if cfg.MorningWindow == "" {
		cfg.MorningWindow = "07:00-09:00"
	}
	if cfg.AfternoonWindow == "" {
		cfg.AfternoonWindow = "16:00-18:00"
	}
	if cfg.HistoryWindow == 0 {
		cfg.HistoryWindow = 10
	}
	if cfg.ExcludedMetrics == nil {
		cfg.ExcludedMetrics = []string{MetricDeclined}
	}
	if len(cfg.OCRLanguages) == 0 {
		cfg.OCRLanguages = []string{"eng"}
	}
	if cfg.ReportSchedule == "" {
		cfg.ReportSchedule = "0 7,16 * * *"
	}
	if cfg.Timezone == "" {
		cfg.Timezone = "Local"
	}

	// Validate
	if cfg.CooldownMinutes < 1 {
		log.Fatalf("invalid cooldown_minutes '%d': must be >= 1", cfg.CooldownMinutes)
	}
	if cfg.HistoryWindow < 1 {
		log.Fatalf("invalid history_window '%d': must be >= 1", cfg.HistoryWindow)
	}
	if _, err := parseClockRange(cfg.MorningWindow); err != nil {
		log.Fatalf("invalid morning_window '%s': %v", cfg.MorningWindow, err)
	}
	if _, err := parseClockRange(cfg.AfternoonWindow); err != nil {
		log.Fatalf("invalid afternoon_window '%s': %v", cfg.AfternoonWindow, err)
	}
	if cfg.SlackBotToken != "" && cfg.ReportChannelID == "" {
		log.Fatalf("report_channel_id is required when slack_bot_token is set")
	}

	if strings.EqualFold(cfg.Timezone, "Local") {
		cfg.Location = time.Local
	} else {
		loc, err := time.LoadLocation(cfg.Timezone)
		if err != nil {
			log.Fatalf("invalid timezone '%s': %v", cfg.Timezone, err)
		}
		cfg.Location = loc
	}

	return cfg
}

// Cooldown returns the capture gate's minimum spacing.
func (c Config) Cooldown() time.Duration {
	return time.Duration(c.CooldownMinutes) * time.Minute
}

// Windows parses the configured report-time bands. Validation at load time
// guarantees this cannot fail afterwards.
func (c Config) ReportWindows() ReportWindows {
	morning, _ := parseClockRange(c.MorningWindow)
	afternoon, _ := parseClockRange(c.AfternoonWindow)
	return ReportWindows{Morning: morning, Afternoon: afternoon}
}

func envOverride(field *string, envKey string) {
	if val := os.Getenv(envKey); val != "" {
		*field = val
	}
}

func envOverrideInt(field *int, envKey string) {
	if val := os.Getenv(envKey); val != "" {
		parsed, err := strconv.Atoi(val)
		if err != nil {
			log.Fatalf("invalid %s '%s': %v", envKey, val, err)
		}
		*field = parsed
	}
}

func splitCommaList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part != "" {
			out = append(out, part)
		}
	}
	return out
}

func parseClock(s string) (int, int, error) {
	var hour, min int
	_, err := fmt.Sscanf(s, "%d:%d", &hour, &min)
	if err != nil {
		return 0, 0, err
	}
	if hour < 0 || hour > 23 || min < 0 || min > 59 {
		return 0, 0, fmt.Errorf("time out of range: %02d:%02d", hour, min)
	}
	return hour, min, nil
}

// parseClockRange parses a "HH:MM-HH:MM" band.
func parseClockRange(s string) (ClockRange, error) {
	parts := strings.SplitN(s, "-", 2)
	if len(parts) != 2 {
		return ClockRange{}, fmt.Errorf("expected 'HH:MM-HH:MM', got %q", s)
	}
	var r ClockRange
	var err error
	if r.StartHour, r.StartMin, err = parseClock(strings.TrimSpace(parts[0])); err != nil {
		return ClockRange{}, err
	}
	if r.EndHour, r.EndMin, err = parseClock(strings.TrimSpace(parts[1])); err != nil {
		return ClockRange{}, err
	}
	if r.EndHour*60+r.EndMin < r.StartHour*60+r.StartMin {
		return ClockRange{}, fmt.Errorf("band end before start: %q", s)
	}
	return r, nil
}
