// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

// Package pipeline wires recognition, layout reconstruction, extraction,
// statistical correction, confidence validation and record linkage into one
// sequential invocation.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gradescan/internal/confidence"
	"gradescan/internal/config"
	"gradescan/internal/docinput"
	"gradescan/internal/extraction"
	"gradescan/internal/layout"
	"gradescan/internal/linker"
	"gradescan/internal/observability"
	"gradescan/internal/paths"
	"gradescan/internal/quality"
	"gradescan/internal/recognition"
	"gradescan/internal/sheet"
	"gradescan/internal/statistics"
)

// Options configures one pipeline instance. Recognizer is required;
// everything else falls back to defaults. Dependencies are passed
// explicitly so tests can substitute fakes.
type Options struct {
	Config           *config.Config
	Observer         *observability.StandardObserver
	Recognizer       recognition.Client
	DocumentType     string
	ExpectedCount    int
	CriticalAccuracy bool
	LanguageHints    []string
}

// Report is the invocation's complete outcome. Confidence failures are
// carried here as data, never thrown.
type Report struct {
	Records        []*sheet.PersonRecord `json:"records"`
	DetectedKinds  []sheet.ScoreKind     `json:"detected_kinds"`
	Confidence     float64               `json:"confidence"`
	Strategy       string                `json:"strategy"`
	Warnings       []string              `json:"warnings,omitempty"`
	Valid          bool                  `json:"valid"`
	Issues         []string              `json:"issues,omitempty"`
	RowAssignments map[string]int        `json:"row_assignments,omitempty"`
	NotLinked      []string              `json:"not_linked,omitempty"`
}

// Pipeline executes the full extraction flow for one submitted document.
// Each invocation operates on its own state; a Pipeline is safe to reuse
// sequentially but holds no locks.
type Pipeline struct {
	cfg          *config.Config
	opts         Options
	observer     *observability.StandardObserver
	recognizer   recognition.Client
	engine       *confidence.Engine
	orchestrator *extraction.Orchestrator
	validator    *statistics.Validator
	linker       *linker.Linker
}

// New builds a pipeline from options.
func New(opts Options) (*Pipeline, error) {
	if opts.Recognizer == nil {
		return nil, errors.New("pipeline requires a recognition client")
	}
	cfg := opts.Config
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	observer := opts.Observer
	if observer == nil {
		observer = observability.NewStandardObserver(observability.ObservabilityOff, nil)
	}

	engine := confidence.NewEngine()

	fl := linker.NewLinker()
	fl.Similarity = cfg.Linker.Similarity
	fl.RelaxedSimilarity = cfg.Linker.RelaxedSimilarity
	fl.ShortNameSimilarity = cfg.Linker.ShortNameSimilarity
	fl.ShortNameLength = cfg.Linker.ShortNameLength

	validator := statistics.NewValidator()
	validator.ZScoreThreshold = cfg.Statistics.ZScoreThreshold
	validator.MinSamples = cfg.Statistics.MinSamples

	return &Pipeline{
		cfg:          cfg,
		opts:         opts,
		observer:     observer,
		recognizer:   opts.Recognizer,
		engine:       engine,
		orchestrator: extraction.NewOrchestrator(engine, observer),
		validator:    validator,
		linker:       fl,
	}, nil
}

// Run processes one document and, when snapshotPath is non-empty, links the
// extracted records against the destination-table snapshot. Errors carrying
// ErrServiceUnavailable or ErrUnusableInput are fatal; ErrNoRecords is
// recoverable.
func (p *Pipeline) Run(ctx context.Context, inputPath, snapshotPath string) (*Report, error) {
	finish := p.observer.StartTiming("pipeline", "run", inputPath)

	report, err := p.run(ctx, inputPath, snapshotPath)
	finish(err == nil, map[string]interface{}{})
	return report, err
}

func (p *Pipeline) run(ctx context.Context, inputPath, snapshotPath string) (*Report, error) {
	doc, err := docinput.Resolve(inputPath)
	if err != nil {
		return nil, err
	}

	result, metrics, err := p.recognize(ctx, doc)
	if err != nil {
		return nil, err
	}

	actx := confidence.Context{
		DocumentType:     p.documentType(),
		Quality:          metrics,
		CriticalAccuracy: p.opts.CriticalAccuracy,
		ExpectedCount:    p.opts.ExpectedCount,
	}

	src := &extraction.Source{
		Fragments: result.Fragments,
		FullText:  result.FullText,
	}

	// Geometric reconstruction failure is recoverable: the geometry-free
	// strategies still run against the full text.
	rc := layout.NewReconstructor()
	rc.RowTolerance = p.cfg.Layout.RowTolerance
	rc.HeaderScanRows = p.cfg.Layout.HeaderScanRows
	table, layoutErr := rc.Reconstruct(result.Fragments)
	if layoutErr == nil {
		src.Layout = table
	}

	extracted, validation, err := p.orchestrator.Run(ctx, src, actx)
	if err != nil {
		return nil, err
	}

	extracted.Records = p.validator.Validate(extracted.Records)
	validation = p.engine.Validate(extracted, actx)

	report := &Report{
		Records:       extracted.Records,
		DetectedKinds: extracted.KindsInOrder(),
		Confidence:    extracted.Confidence,
		Strategy:      extracted.Strategy,
		Warnings:      extracted.Warnings,
		Valid:         validation.IsValid,
		Issues:        validation.Issues,
	}
	if layoutErr != nil {
		report.Warnings = append(report.Warnings, fmt.Sprintf("layout: %v", layoutErr))
	}

	if snapshotPath != "" {
		snap, err := linker.LoadSnapshot(snapshotPath)
		if err != nil {
			return nil, fmt.Errorf("%w: destination snapshot: %v", ErrUnusableInput, err)
		}
		report.RowAssignments, report.NotLinked = p.linker.LinkAll(
			extracted.Records, snap, p.cfg.Linker.NameColumn)
	}

	return report, nil
}

// recognize obtains text fragments for the document. Born-digital PDFs with
// a text layer bypass the remote service; everything else goes through the
// recognition client.
func (p *Pipeline) recognize(ctx context.Context, doc *docinput.Document) (*recognition.Result, confidence.QualityMetrics, error) {
	metrics := confidence.DefaultQuality()

	imagePath := doc.Path
	if doc.Kind == docinput.KindPDF {
		if result, err := recognition.FragmentsFromPDF(doc.Path); err == nil && len(result.Fragments) > 0 {
			// Text layer present: exact content, pristine quality signals.
			return result, pristineQuality(), nil
		}

		tmpDir, err := os.MkdirTemp(paths.GetTempDir(), "gradescan-pages-")
		if err != nil {
			return nil, metrics, fmt.Errorf("creating temp dir: %w", err)
		}
		defer os.RemoveAll(tmpDir)

		pages, err := docinput.ExtractPageImages(doc.Path, tmpDir)
		if err != nil || len(pages) == 0 {
			return nil, metrics, fmt.Errorf("PDF carries neither a text layer nor page images: %w", err)
		}
		imagePath = pages[0]
	}

	if m, err := quality.Probe(imagePath); err == nil {
		metrics = m
	}

	imageBytes, err := os.ReadFile(filepath.Clean(imagePath))
	if err != nil {
		return nil, metrics, fmt.Errorf("reading input image: %w", err)
	}

	result, err := p.recognizer.Recognize(ctx, imageBytes, p.languageHints())
	if err != nil {
		return nil, metrics, err
	}
	if result.FullText == "" {
		result.FullText = result.BuildFullText(p.cfg.Layout.RowTolerance)
	}
	return result, metrics, nil
}

func (p *Pipeline) documentType() string {
	if p.opts.DocumentType != "" {
		return p.opts.DocumentType
	}
	return p.cfg.Defaults.DocumentType
}

func (p *Pipeline) languageHints() []string {
	if len(p.opts.LanguageHints) > 0 {
		return p.opts.LanguageHints
	}
	if p.cfg.Defaults.LanguageHints == "" {
		return nil
	}
	return strings.Split(p.cfg.Defaults.LanguageHints, ",")
}

func pristineQuality() confidence.QualityMetrics {
	return confidence.QualityMetrics{
		Brightness: 0.9,
		Contrast:   0.9,
		Sharpness:  0.95,
		Noise:      0.02,
		Skew:       0.0,
		Resolution: 1.0,
	}
}
