// Package analysis wires the binder, collector and unifier into the
// single entry point the driver calls per program (spec §6): one
// Pipeline, one counter, one scope graph, one substitution store.
//
// Grounded on the teacher's internal/analyzer.Analyzer — the same
// "one struct owns the shared mutable state for one compilation" shape
// — generalised to fyg's three-phase split instead of the teacher's
// single combined analyzer pass.
package analysis

import (
	"context"
	"io"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/cobbweb/fyg-lang/internal/ast"
	"github.com/cobbweb/fyg-lang/internal/binder"
	"github.com/cobbweb/fyg-lang/internal/collector"
	"github.com/cobbweb/fyg-lang/internal/config"
	"github.com/cobbweb/fyg-lang/internal/diagnostics"
	"github.com/cobbweb/fyg-lang/internal/scope"
	"github.com/cobbweb/fyg-lang/internal/types"
	"github.com/cobbweb/fyg-lang/internal/unifier"
)

// Pipeline runs one program through bind, collect, unify. Each
// Pipeline owns its own types.Counter (spec §9): never share one
// across concurrent compilations.
type Pipeline struct {
	// Trace receives structured progress events for this pipeline run.
	// Defaults to a no-op logger — set it to observe which phase is
	// running and the first diagnostic of a failed phase without
	// changing control flow.
	Trace zerolog.Logger

	// Limits bounds the unifier's constraint-solving passes. Defaults
	// to config.Default().Limits.
	Limits config.Limits

	counter *types.Counter
}

// New returns a Pipeline with a fresh counter, a silent tracer and the
// built-in defaults (internal/config.Default).
func New() *Pipeline {
	return &Pipeline{Trace: zerolog.Nop(), Limits: config.Default().Limits, counter: types.NewCounter()}
}

// NewWithConfig returns a Pipeline whose tracer writes to w at level
// (via config.NewTraceLogger) and whose limits come from cfg, letting
// an embedder load fyg-analyzer.yaml once (config.Load) and reuse it
// across runs instead of tracing silently with the built-in defaults.
func NewWithConfig(cfg *config.Config, w io.Writer, level zerolog.Level) *Pipeline {
	return &Pipeline{
		Trace:   config.NewTraceLogger(w, level),
		Limits:  cfg.Limits,
		counter: types.NewCounter(),
	}
}

// Result is everything downstream consumers (spec §6 "AST back to
// back-ends") need: the scope graph and a function to look up any
// node's resolved type.
type Result struct {
	Root    *scope.Scope
	Program *scope.Scope
	bound   *binder.Result
	collect *collector.Result
	subst   types.Subst
}

// TypeOf returns the canonical (post-unification) type of n, if the
// collector recorded one for it.
func (r *Result) TypeOf(n ast.Node) (types.Type, bool) {
	t, ok := r.collect.TypeFor(n)
	if !ok {
		return nil, false
	}
	return t.Apply(r.subst), true
}

// ScopeOf returns the scope a scope-owning node introduced.
func (r *Result) ScopeOf(n ast.Node) (*scope.Scope, bool) {
	return r.bound.ScopeFor(n)
}

// Analyze runs one program through the full pipeline, stopping at the
// first phase that reports a diagnostic (spec §7 "errors are fatal to
// the current phase; no recovery continues the pipeline").
func (p *Pipeline) Analyze(ctx context.Context, program *ast.Program) (*Result, *diagnostics.Error) {
	runID := uuid.New()
	log := p.Trace.With().Str("run_id", runID.String()).Logger()

	log.Debug().Msg("binding")
	bound := binder.Bind(program, p.counter)
	if err := bound.Diagnostics.First(); err != nil {
		log.Debug().Str("phase", "bind").Err(err).Msg("failed")
		return nil, err
	}

	log.Debug().Msg("collecting")
	collected := collector.Collect(program, bound, p.counter)
	if err := collected.Diagnostics.First(); err != nil {
		log.Debug().Str("phase", "collect").Err(err).Msg("failed")
		return nil, err
	}

	log.Debug().Msg("unifying")
	solved := unifier.Solve(bound.Root, p.Limits.MaxConstraintPasses)
	if err := solved.Diagnostics.First(); err != nil {
		log.Debug().Str("phase", "unify").Err(err).Msg("failed")
		return nil, err
	}

	log.Debug().Msg("done")
	return &Result{Root: bound.Root, Program: bound.Program, bound: bound, collect: collected, subst: solved.Subst}, nil
}

// AnalyzeAll runs independent programs concurrently, one Pipeline per
// program so their type-variable counters never collide (spec §5 "the
// overall driver may compile multiple programs in parallel, but each
// program's binder/collector/unifier pipeline is sequential and
// isolated"). It returns the first error once every pipeline has
// finished. The group context is cancelled on that error, but Analyze
// does not consult its context, so pipelines already running are not
// stopped.
func AnalyzeAll(ctx context.Context, programs []*ast.Program, trace zerolog.Logger) ([]*Result, error) {
	results := make([]*Result, len(programs))
	g, gctx := errgroup.WithContext(ctx)
	for i, program := range programs {
		i, program := i, program
		g.Go(func() error {
			pipeline := New()
			pipeline.Trace = trace
			result, err := pipeline.Analyze(gctx, program)
			if err != nil {
				return err
			}
			results[i] = result
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}
