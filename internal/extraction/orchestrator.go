// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package extraction

import (
	"context"
	"errors"

	"gradescan/internal/confidence"
	"gradescan/internal/observability"
	"gradescan/internal/sheet"
)

// ErrNoRecords signals that every applicable strategy returned zero usable
// records. It is fatal for the invocation.
var ErrNoRecords = errors.New("no records extracted by any strategy")

// Orchestrator runs the applicable strategies in priority order, arbitrates
// their results by confidence, and applies the engine's single-retry rule.
type Orchestrator struct {
	engine     *confidence.Engine
	strategies []Strategy
	observer   *observability.StandardObserver
}

// NewOrchestrator wires the three standard strategies in declared priority
// order: table-structure, line-by-line, aggressive fallback.
func NewOrchestrator(engine *confidence.Engine, observer *observability.StandardObserver) *Orchestrator {
	if engine == nil {
		engine = confidence.NewEngine()
	}
	if observer == nil {
		observer = observability.NewStandardObserver(observability.ObservabilityOff, nil)
	}
	return &Orchestrator{
		engine:     engine,
		strategies: []Strategy{TableStrategy{}, LineStrategy{}, AggressiveStrategy{}},
		observer:   observer,
	}
}

// Run extracts records from the source, consulting the confidence engine for
// the strategy class and validating the selected result. One additional full
// multi-pass attempt is made when validation asks for a retry; no further
// automatic retries occur.
func (o *Orchestrator) Run(ctx context.Context, src *Source, actx confidence.Context) (*sheet.ExtractionResult, confidence.Validation, error) {
	_, class := o.engine.Assess(actx)

	result, err := o.attempt(ctx, src, class)
	if err != nil {
		return nil, confidence.Validation{}, err
	}

	validation := o.engine.Validate(result, actx)
	if !validation.IsValid && validation.RequiresRetry && ctx.Err() == nil {
		retried, retryErr := o.attempt(ctx, src, confidence.ClassMultiPass)
		if retryErr == nil && retried.Confidence > result.Confidence {
			result = retried
		}
		validation = o.engine.Validate(result, actx)
		// Surfaced as data from here on: the caller decides whether to
		// request a manual re-run.
	}

	if len(result.Records) == 0 {
		return nil, validation, ErrNoRecords
	}
	return result, validation, nil
}

// attempt runs one pass over the strategies appropriate for the class and
// returns the best result. Cancellation is cooperative: the flag is checked
// between strategy attempts, never mid-strategy.
func (o *Orchestrator) attempt(ctx context.Context, src *Source, class confidence.StrategyClass) (*sheet.ExtractionResult, error) {
	var best *sheet.ExtractionResult
	var warnings []string

	for _, strategy := range o.strategies {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if !o.applicable(strategy, class, best) {
			continue
		}

		finish := o.observer.StartTiming("orchestrator", "strategy_"+strategy.Name(), "")
		result, err := strategy.Extract(src)
		if err != nil {
			finish(false, map[string]interface{}{"error": err.Error()})
			warnings = append(warnings, strategy.Name()+": "+err.Error())
			continue
		}
		finish(true, map[string]interface{}{
			"records":    len(result.Records),
			"confidence": result.Confidence,
		})

		if betterThan(result, best) {
			best = result
		}
		if o.stopEarly(class, best) {
			break
		}
	}

	if best == nil {
		best = sheet.NewExtractionResult("none")
	}
	best.Warnings = append(best.Warnings, warnings...)
	best.Normalize()
	return best, nil
}

// applicable decides whether a strategy runs under the given class. The
// aggressive fallback only runs when everything before it produced nothing.
func (o *Orchestrator) applicable(s Strategy, class confidence.StrategyClass, best *sheet.ExtractionResult) bool {
	if s.Name() == "aggressive" {
		return best == nil || len(best.Records) == 0
	}
	if class == confidence.ClassConservative && s.Name() != "table" {
		// Conservative runs fall through to line extraction only when the
		// table strategy produced nothing at all.
		return best == nil || len(best.Records) == 0
	}
	return true
}

// stopEarly reports whether the class allows settling on the current best
// without trying further strategies.
func (o *Orchestrator) stopEarly(class confidence.StrategyClass, best *sheet.ExtractionResult) bool {
	if best == nil || len(best.Records) == 0 {
		return false
	}
	switch class {
	case confidence.ClassMultiPass:
		// Multi-pass keeps the first usable result but opportunistically
		// tries the remaining strategies for a better one.
		return false
	case confidence.ClassAggressive:
		return true
	default:
		return best.Strategy == "table"
	}
}

// betterThan ranks results by confidence, breaking ties by the declared
// priority order table > line > aggressive.
func betterThan(candidate, incumbent *sheet.ExtractionResult) bool {
	if candidate == nil || len(candidate.Records) == 0 {
		return false
	}
	if incumbent == nil || len(incumbent.Records) == 0 {
		return true
	}
	if candidate.Confidence != incumbent.Confidence {
		return candidate.Confidence > incumbent.Confidence
	}
	return strategyPriority(candidate.Strategy) > strategyPriority(incumbent.Strategy)
}

func strategyPriority(name string) int {
	switch name {
	case "table":
		return 3
	case "line":
		return 2
	case "aggressive":
		return 1
	default:
		return 0
	}
}
