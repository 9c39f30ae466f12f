// Package scan provides the detection engine that runs the probe catalog
// and aggregates per-probe outcomes into a single verdict.
package scan

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/cheng-ren/SecuScope/internal/detector"
	"github.com/cheng-ren/SecuScope/internal/logger"
	"github.com/cheng-ren/SecuScope/internal/probe"
	"github.com/cheng-ren/SecuScope/pkg/types"
)

// ErrScanActive is returned when a detection run is requested while another
// run on the same engine is still in flight.
var ErrScanActive = errors.New("detection run already in progress")

// DomainName is the analyzer domain this engine reports as.
const DomainName = "device-integrity"

// Engine runs the probe catalog and aggregates results. Engines are
// caller-constructed values with an injected catalog; there is no shared
// process-global instance. The only mutable state an engine holds is the
// run-in-progress guard.
type Engine struct {
	config     Config
	catalog    []probe.Probe
	policy     detector.ScoringPolicy
	progressCh chan Progress
	running    atomic.Bool
}

// Progress is a per-probe progress update sent to the TUI via channel.
type Progress struct {
	Step     int    `json:"step"`
	Total    int    `json:"total"`
	StepName string `json:"stepName"`
	Percent  int    `json:"percent"`
	Detail   string `json:"detail"`
	Detected bool   `json:"detected"`
	Done     bool   `json:"done"`
}

// New creates an engine over the given catalog (no progress channel).
func New(cfg Config, catalog []probe.Probe) *Engine {
	return &Engine{
		config:  cfg.normalized(),
		catalog: catalog,
		policy:  detector.DefaultScoringPolicy(),
	}
}

// NewWithChannel creates an engine that reports per-probe progress to ch.
func NewWithChannel(cfg Config, catalog []probe.Probe, ch chan Progress) *Engine {
	e := New(cfg, catalog)
	e.progressCh = ch
	return e
}

// CatalogSize returns the number of probes in the engine's catalog.
func (e *Engine) CatalogSize() int {
	return len(e.catalog)
}

// emitProgress sends a progress update via channel (if set).
func (e *Engine) emitProgress(step int, name, detail string, detected, done bool) {
	if e.progressCh == nil {
		return
	}
	total := len(e.catalog)
	percent := 100
	if !done && total > 0 {
		percent = step * 100 / total
	}
	e.progressCh <- Progress{
		Step:     step,
		Total:    total,
		StepName: name,
		Percent:  percent,
		Detail:   detail,
		Detected: detected,
		Done:     done,
	}
}

// RunFullDetection executes every catalog probe exactly once and returns a
// complete result with outcomes in catalog order; partial results are never
// returned. A second call while a run is in flight fails with ErrScanActive.
// Cancelling ctx aborts the run with ctx's error; probes already running
// finish their scoped cleanup.
func (e *Engine) RunFullDetection(ctx context.Context) (*types.DetectionResult, error) {
	if !e.running.CompareAndSwap(false, true) {
		return nil, ErrScanActive
	}
	defer e.running.Store(false)

	start := time.Now()
	logger.Section("Detection Run")
	logger.Info("Running %d probes (workers=%d, timeout=%v)", len(e.catalog), e.config.Workers, e.config.ProbeTimeout)

	outcomes := make([]types.ProbeOutcome, len(e.catalog))
	var completed atomic.Int32

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(e.config.Workers)
	for i, p := range e.catalog {
		i, p := i, p
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			outcomes[i] = e.evaluate(gctx, p)
			done := int(completed.Add(1))
			e.emitProgress(done, fmt.Sprintf("Probe %s", p.ID()), outcomes[i].Detail, outcomes[i].Detected, false)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	compromised := false
	for i := range outcomes {
		logger.ProbeResult(outcomes[i].ProbeID, string(outcomes[i].Category), outcomes[i].Detected, outcomes[i].Detail)
		if outcomes[i].Detected {
			compromised = true
		}
	}

	result := &types.DetectionResult{
		RunID:       uuid.New().String(),
		StartedAt:   start,
		DurationMs:  time.Since(start).Milliseconds(),
		Host:        GetHostInfo(),
		Compromised: compromised,
		Outcomes:    outcomes,
	}

	logger.Timing("Engine.RunFullDetection", start)
	e.emitProgress(len(e.catalog), "Detection complete",
		fmt.Sprintf("compromised=%v, %.1fs elapsed", compromised, time.Since(start).Seconds()), compromised, true)

	return result, nil
}

// evaluate runs one probe under the configured timeout with panic recovery.
// Any failure mode (error, panic, timeout) degrades to a Detected:false
// outcome carrying an explanation; a probe can never abort the run.
func (e *Engine) evaluate(ctx context.Context, p probe.Probe) types.ProbeOutcome {
	pctx, cancel := context.WithTimeout(ctx, e.config.ProbeTimeout)
	defer cancel()

	type result struct {
		out types.ProbeOutcome
		err error
	}
	ch := make(chan result, 1)
	go func() {
		defer func() {
			if r := recover(); r != nil {
				ch <- result{err: fmt.Errorf("probe panicked: %v", r)}
			}
		}()
		out, err := p.Evaluate(pctx)
		ch <- result{out: out, err: err}
	}()

	select {
	case r := <-ch:
		if r.err != nil {
			logger.ProbeError(p.ID(), r.err)
			return degraded(p, fmt.Sprintf("inconclusive: %v", r.err))
		}
		return r.out
	case <-pctx.Done():
		logger.ProbeError(p.ID(), pctx.Err())
		return degraded(p, fmt.Sprintf("inconclusive: timed out after %v", e.config.ProbeTimeout))
	}
}

// degraded builds the Detected:false outcome an internally failing probe
// still contributes to the run.
func degraded(p probe.Probe, detail string) types.ProbeOutcome {
	return types.ProbeOutcome{
		ProbeID:  p.ID(),
		Category: p.Category(),
		Detected: false,
		Detail:   detail,
	}
}

// QuickIsCompromised runs the catalog and returns only the verdict.
func (e *Engine) QuickIsCompromised(ctx context.Context) (bool, error) {
	result, err := e.RunFullDetection(ctx)
	if err != nil {
		return false, err
	}
	return result.Compromised, nil
}

// Name implements types.Auditor.
func (e *Engine) Name() string { return DomainName }

// Audit implements types.Auditor: it runs full detection and converts the
// result into the report shape shared by all analyzer domains.
func (e *Engine) Audit(ctx context.Context) (types.AuditReport, error) {
	result, err := e.RunFullDetection(ctx)
	if err != nil {
		return types.AuditReport{}, err
	}
	threats := detector.Classify(result.Outcomes, result.StartedAt)

	findings := make([]types.Finding, 0, len(threats))
	for _, t := range threats {
		findings = append(findings, types.Finding{Description: t.Description, Severity: t.Severity})
	}
	return types.AuditReport{
		Domain:          DomainName,
		Findings:        findings,
		Score:           e.policy.Score(threats),
		Recommendations: detector.Recommendations(threats),
		GeneratedAt:     result.StartedAt,
	}, nil
}
