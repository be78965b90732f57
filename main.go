package main

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/slack-go/slack"
)

func main() {
	cfg := LoadConfig()

	db, err := InitDB(cfg.DBPath)
	if err != nil {
		log.Fatalf("Failed to init database: %v", err)
	}
	defer db.Close()

	os.MkdirAll(cfg.DataDir, 0755)
	os.MkdirAll(cfg.ReportOutputDir, 0755)

	if len(os.Args) < 2 {
		usage()
		os.Exit(1)
	}

	switch os.Args[1] {
	case "capture":
		if len(os.Args) != 4 {
			log.Fatalf("usage: %s capture <variant> <image-file>", os.Args[0])
		}
		runCapture(cfg, db, os.Args[2], os.Args[3])

	case "report":
		if len(os.Args) != 3 {
			log.Fatalf("usage: %s report <variant>", os.Args[0])
		}
		runReport(cfg, db, os.Args[2])

	case "serve":
		runServe(cfg, db)

	default:
		usage()
		os.Exit(1)
	}
}

func usage() {
	fmt.Fprintf(os.Stderr, `usage: %s <command>

Commands:
  capture <variant> <image-file>   decode a dashboard screenshot and record it
  report <variant>                 regenerate the report bundle from stored data
  serve                            run the report scheduler in the foreground

Variants: %s
`, os.Args[0], variantNames())
}

func variantNames() string {
	var names []string
	for _, v := range Variants {
		names = append(names, v.Name)
	}
	return strings.Join(names, ", ")
}

func runCapture(cfg Config, db *sql.DB, variantName, imagePath string) {
	p := newPipeline(cfg, db, mustVariant(variantName))

	data, err := os.ReadFile(imagePath)
	if err != nil {
		log.Fatalf("Failed to read %s: %v", imagePath, err)
	}
	payload := ImagePayload{Data: data, ContentType: contentTypeForPath(imagePath)}

	now := time.Now().In(cfg.Location)
	outcome, err := p.ProcessCapture(context.Background(), payload, now)
	if err != nil {
		if IsRejection(err) {
			log.Fatalf("Capture rejected: %v", err)
		}
		log.Fatalf("Capture failed: %v", err)
	}
	log.Printf("Capture %s accepted for %s", outcome.Attempt.ID, p.Variant.Name)

	arts, err := p.GenerateReports(now)
	if err != nil {
		log.Fatalf("Report generation failed: %v", err)
	}
	for _, renderErr := range arts.Errs {
		log.Printf("Report warning: %v", renderErr)
	}

	fmt.Println(arts.Digest)
	if arts.PDFPath != "" {
		log.Printf("PDF written to %s", arts.PDFPath)
	}
	if arts.ChartPath != "" {
		log.Printf("Trend chart written to %s", arts.ChartPath)
	}
}

func runReport(cfg Config, db *sql.DB, variantName string) {
	p := newPipeline(cfg, db, mustVariant(variantName))

	arts, err := p.GenerateReports(time.Now().In(cfg.Location))
	if err != nil {
		log.Fatalf("Report generation failed: %v", err)
	}
	for _, renderErr := range arts.Errs {
		log.Printf("Report warning: %v", renderErr)
	}

	fmt.Println(arts.Digest)
	if arts.PDFPath != "" {
		log.Printf("PDF written to %s", arts.PDFPath)
	}
	if arts.ChartPath != "" {
		log.Printf("Trend chart written to %s", arts.ChartPath)
	}
}

func runServe(cfg Config, db *sql.DB) {
	var pipelines []*Pipeline
	for _, v := range Variants {
		pipelines = append(pipelines, newPipeline(cfg, db, v))
	}

	var api *slack.Client
	if cfg.SlackBotToken != "" {
		api = slack.New(cfg.SlackBotToken)
	}

	log.Printf("Starting dashboard report service (%s)...", FormatScheduleSummary(cfg))
	StartReportScheduler(cfg, pipelines, api)
	select {}
}

func newPipeline(cfg Config, db *sql.DB, v Variant) *Pipeline {
	return &Pipeline{
		Variant: v,
		Decoder: NewTesseractDecoder(cfg.OCRLanguages...),
		Store:   NewSeriesStore(filepath.Join(cfg.DataDir, v.FilePrefix+"_stats.csv")),
		Gate:    GatePolicy{Cooldown: cfg.Cooldown()},
		Windows: cfg.ReportWindows(),
		Render: RenderConfig{
			OutputDir:       cfg.ReportOutputDir,
			HistoryWindow:   cfg.HistoryWindow,
			ExcludedMetrics: cfg.ExcludedMetrics,
		},
		Audit: db,
	}
}

func mustVariant(name string) Variant {
	v, ok := VariantByName(name)
	if !ok {
		log.Fatalf("Unknown variant '%s' (want one of: %s)", name, variantNames())
	}
	return v
}

func contentTypeForPath(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".png":
		return "image/png"
	case ".jpg", ".jpeg":
		return "image/jpeg"
	case ".gif":
		return "image/gif"
	default:
		return "application/octet-stream"
	}
}
