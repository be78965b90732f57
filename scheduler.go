package main

import (
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/slack-go/slack"
)

// StartReportScheduler starts a cron-based scheduler that regenerates the
// report bundle for every pipeline and posts the digests to the report
// channel. The schedule is a standard 5-field cron expression
// (minute hour day-of-month month day-of-week).
// Examples: "0 7,16 * * *" (7am and 4pm daily), "0 7 * * 1-5" (weekdays 7am).
func StartReportScheduler(cfg Config, pipelines []*Pipeline, api *slack.Client) {
	schedule := strings.TrimSpace(cfg.ReportSchedule)
	if schedule == "" {
		log.Println("Scheduled reports disabled (report_schedule not set)")
		return
	}

	parser := cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow)
	sched, err := parser.Parse(schedule)
	if err != nil {
		log.Printf("Invalid report_schedule '%s': %v — scheduled reports disabled", schedule, err)
		return
	}

	var names []string
	for _, p := range pipelines {
		names = append(names, p.Variant.Name)
	}
	log.Printf("Reports scheduled (cron: %s) for %s", schedule, strings.Join(names, " + "))

	go func() {
		for {
			now := time.Now().In(cfg.Location)
			next := sched.Next(now)
			wait := next.Sub(now)
			log.Printf("Next scheduled report at %s (in %s)", next.Format("Mon Jan 2 15:04"), wait.Round(time.Minute))

			time.Sleep(wait)

			RunScheduledReports(cfg, pipelines, api, time.Now().In(cfg.Location))
		}
	}()
}

// RunScheduledReports generates one report bundle per pipeline and delivers
// the digests. A tick that lands outside both report-time bands is skipped so
// a mid-day cron edit cannot produce an off-schedule digest.
func RunScheduledReports(cfg Config, pipelines []*Pipeline, api *slack.Client, now time.Time) {
	windows := cfg.ReportWindows()
	if !windows.InAny(now) {
		log.Printf("Scheduled report tick at %s is outside report bands, skipping", now.Format("15:04"))
		return
	}

	for _, p := range pipelines {
		arts, err := p.GenerateReports(now)
		if err != nil {
			log.Printf("Scheduled report for %s failed: %v", p.Variant.Name, err)
			continue
		}
		for _, renderErr := range arts.Errs {
			log.Printf("Scheduled report for %s: %v", p.Variant.Name, renderErr)
		}
		log.Printf("Scheduled report for %s generated (pdf=%s chart=%s)",
			p.Variant.Name, arts.PDFPath, arts.ChartPath)

		if api != nil && cfg.ReportChannelID != "" {
			if postErr := PostDigest(api, cfg.ReportChannelID, arts.Digest); postErr != nil {
				log.Printf("Digest post error for %s: %v", p.Variant.Name, postErr)
			}
		}
	}
}

// FormatScheduleSummary describes the active schedule for the startup log.
func FormatScheduleSummary(cfg Config) string {
	if strings.TrimSpace(cfg.ReportSchedule) == "" {
		return "scheduled reports disabled"
	}
	return fmt.Sprintf("reports on cron '%s' within %s and %s",
		cfg.ReportSchedule, cfg.MorningWindow, cfg.AfternoonWindow)
}
