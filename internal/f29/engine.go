package f29

import (
	"context"
	"fmt"
	"log"
	"os"
	"runtime/debug"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

// Report is the outcome of one extraction run
type Report struct {
	RunID           string         `json:"run_id"`
	Fields          ResultMap      `json:"fields"`
	Warnings        []Warning      `json:"warnings,omitempty"`
	CandidateCounts map[string]int `json:"candidate_counts"`
	Elapsed         time.Duration  `json:"elapsed_ns"`
}

// Engine runs every strategy over a document and reconciles the results.
// An Engine is immutable after construction and safe for concurrent use.
type Engine struct {
	catalog    *Catalog
	strategies []Strategy
	validator  *Validator
	logger     *log.Logger
	known      KnownValues
	tolerance  int64
	concurrent bool
}

// Option configures an Engine
type Option func(*Engine)

// WithLogger sets the engine logger
func WithLogger(logger *log.Logger) Option {
	return func(e *Engine) {
		if logger != nil {
			e.logger = logger
		}
	}
}

// WithKnownValues sets the table consulted by the binary strategy
func WithKnownValues(known KnownValues) Option {
	return func(e *Engine) {
		e.known = known
	}
}

// WithConcurrency toggles running strategies in parallel
func WithConcurrency(enabled bool) Option {
	return func(e *Engine) {
		e.concurrent = enabled
	}
}

// WithTolerance sets the absolute tolerance of consistency rules
func WithTolerance(tolerance int64) Option {
	return func(e *Engine) {
		e.tolerance = tolerance
	}
}

// WithCatalog replaces the default F29 catalog
func WithCatalog(cat *Catalog) Option {
	return func(e *Engine) {
		if cat != nil {
			e.catalog = cat
		}
	}
}

// NewEngine creates an engine with the default catalog and every strategy
func NewEngine(opts ...Option) *Engine {
	e := &Engine{
		catalog:    DefaultCatalog(),
		logger:     log.New(os.Stderr, "[F29Engine] ", log.LstdFlags),
		tolerance:  DefaultTolerance,
		concurrent: true,
	}
	for _, opt := range opts {
		opt(e)
	}

	e.validator = NewValidator(e.tolerance)
	e.strategies = []Strategy{
		NewBasicInfoExtractor(),
		NewLabelPatternStrategy(e.catalog),
		NewTableRowStrategy(e.catalog),
		NewVisualTableStrategy(e.catalog),
		NewBinaryStrategy(e.catalog, e.known),
	}
	return e
}

// Catalog returns the catalog the engine extracts
func (e *Engine) Catalog() *Catalog {
	return e.catalog
}

// Extract recovers every field it can from doc. Missing fields are not an
// error; ErrNoExtraction is returned only when nothing at all was found.
func (e *Engine) Extract(ctx context.Context, doc Document) (*Report, error) {
	runID := uuid.New().String()
	if err := ctx.Err(); err != nil {
		extractErr := NewExtractionError(ErrorTypeCanceled, "extraction canceled").WithRun(runID)
		extractErr.Err = err
		return nil, extractErr
	}

	start := time.Now()
	results := make([][]Candidate, len(e.strategies))
	if e.concurrent {
		var g errgroup.Group
		for i, s := range e.strategies {
			g.Go(func() error {
				results[i] = e.runStrategy(runID, s, doc)
				return nil
			})
		}
		_ = g.Wait()
	} else {
		for i, s := range e.strategies {
			results[i] = e.runStrategy(runID, s, doc)
		}
	}

	counts := make(map[string]int, len(e.strategies))
	var candidates []Candidate
	for i, s := range e.strategies {
		counts[s.Name()] = len(results[i])
		for _, c := range results[i] {
			c.Rank = s.Rank()
			c.Order = i
			candidates = append(candidates, c)
		}
	}

	fields, warnings := e.validator.Validate(Reconcile(candidates))
	if len(fields) == 0 {
		e.logger.Printf("run %s: no fields recovered (text=%d bytes, raw=%d bytes)", runID, len(doc.Text), len(doc.Raw))
		return nil, NewExtractionError(ErrorTypeNoExtraction, "no extraction possible").
			WithRun(runID).
			WithContext(fmt.Sprintf("text=%d bytes, raw=%d bytes", len(doc.Text), len(doc.Raw)))
	}

	report := &Report{
		RunID:           runID,
		Fields:          fields,
		Warnings:        warnings,
		CandidateCounts: counts,
		Elapsed:         time.Since(start),
	}
	e.logger.Printf("run %s: %d fields, %d warnings in %v", runID, len(fields), len(warnings), report.Elapsed)
	return report, nil
}

// runStrategy isolates a strategy so that a panic costs only its candidates
func (e *Engine) runStrategy(runID string, s Strategy, doc Document) (out []Candidate) {
	defer func() {
		if r := recover(); r != nil {
			e.logger.Printf("run %s: strategy %s panicked: %v\n%s", runID, s.Name(), r, debug.Stack())
			out = nil
		}
	}()
	return s.Extract(doc)
}
