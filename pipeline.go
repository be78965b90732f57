package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"
	"path/filepath"
	"time"
)

// RenderConfig carries the renderer knobs shared by the PDF and chart
// writers.
type RenderConfig struct {
	OutputDir       string
	HistoryWindow   int
	ExcludedMetrics []string
}

// Pipeline wires one variant's capture path: decode, parse, gate, append,
// delta. The two variants run as two independent Pipeline values over
// separate series files, so their writes can never interleave.
type Pipeline struct {
	Variant Variant
	Decoder Decoder
	Store   *SeriesStore
	Gate    GatePolicy
	Windows ReportWindows
	Render  RenderConfig
	Audit   *sql.DB // optional; nil disables the audit trail
}

// CaptureOutcome is the result of one accepted capture.
type CaptureOutcome struct {
	Attempt CaptureAttempt
	Record  MetricRecord
	Delta   DeltaResult
}

// ProcessCapture runs one capture end to end. Validation failures abort
// before the store is touched, so a rejection can never leave a partial
// write. A store read failure is escalated rather than treated as an empty
// series.
func (p *Pipeline) ProcessCapture(ctx context.Context, payload ImagePayload, now time.Time) (*CaptureOutcome, error) {
	text, err := p.Decoder.Decode(ctx, payload)
	if err != nil {
		return nil, err
	}

	attempt, err := ParseStatistics(p.Variant, text, now)
	if err != nil {
		p.recordAttempt(attempt, now)
		return nil, err
	}

	last, err := p.Store.Last()
	if err != nil {
		// Unreadable is not empty: appending over a store we cannot read
		// could silently fork the series.
		return nil, err
	}
	if err := p.Gate.Check(last, now); err != nil {
		attempt.Rejected = err.Error()
		attempt.Record = nil
		p.recordAttempt(attempt, now)
		return nil, err
	}

	record := *attempt.Record
	if err := p.Store.Append(record); err != nil {
		return nil, err
	}
	p.recordAttempt(attempt, now)

	return &CaptureOutcome{
		Attempt: attempt,
		Record:  record,
		Delta:   ComputeDelta(record, last),
	}, nil
}

// Artifacts bundles the three render outputs of one invocation. Each
// artifact succeeds or fails on its own; Errs lists the failures without
// voiding the others.
type Artifacts struct {
	Digest    string
	PDFPath   string
	ChartPath string
	Errs      []error
}

// GenerateReports renders the digest, the PDF, and the trend chart from the
// store's comparison pair at now. The digest is built first and is returned
// even when a file artifact fails to write.
func (p *Pipeline) GenerateReports(now time.Time) (*Artifacts, error) {
	current, previous, err := p.Store.ComparisonPair(now, p.Windows.Morning)
	if err != nil {
		return nil, err
	}
	if current == nil {
		return nil, fmt.Errorf("%s: no captures recorded yet", p.Variant.Name)
	}

	delta := ComputeDelta(*current, previous)
	out := &Artifacts{Digest: RenderDigest(p.Variant, *current, delta)}

	history, err := p.Store.All()
	if err != nil {
		// History is presentation-only here; the digest already stands.
		out.Errs = append(out.Errs, err)
		history = nil
	}

	if path, err := RenderPDF(p.Variant, *current, delta, history, p.Render, now); err != nil {
		out.Errs = append(out.Errs, fmt.Errorf("pdf: %w", err))
	} else {
		out.PDFPath = path
		p.recordArtifact("pdf", path, now)
	}

	if path, err := RenderChart(p.Variant, history, p.Render, now); err != nil {
		out.Errs = append(out.Errs, fmt.Errorf("chart: %w", err))
	} else {
		out.ChartPath = path
		p.recordArtifact("chart", path, now)
	}

	return out, nil
}

func (p *Pipeline) recordAttempt(attempt CaptureAttempt, at time.Time) {
	if p.Audit == nil {
		return
	}
	if err := InsertCaptureAttempt(p.Audit, attempt, at); err != nil {
		log.Printf("audit: record attempt %s: %v", attempt.ID, err)
	}
}

func (p *Pipeline) recordArtifact(kind, path string, at time.Time) {
	if p.Audit == nil {
		return
	}
	if err := InsertReportArtifact(p.Audit, p.Variant.Name, kind, filepath.Base(path), at); err != nil {
		log.Printf("audit: record %s artifact %s: %v", kind, filepath.Base(path), err)
	}
}

// IsRejection reports whether err is a per-invocation rejection (bad image,
// wrong dashboard, under-recognized OCR, cooldown) as opposed to a fault
// like an unavailable store.
func IsRejection(err error) bool {
	var de *DecodeError
	var wv *WrongVariantError
	var it *InsufficientTokensError
	var cd *CooldownError
	return errors.As(err, &de) || errors.As(err, &wv) || errors.As(err, &it) || errors.As(err, &cd)
}
