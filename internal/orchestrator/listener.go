package orchestrator

import "github.com/rbscholtus/glsstrip/internal/problem"

// SolutionListener receives progress reports from Optimize (spec.md §6's
// external SolutionListener collaborator), letting the caller persist
// intermediate solutions, render SVGs, or stream structured logs without
// coupling the optimizer to any particular output format.
type SolutionListener interface {
	// Init is called once, before the first strike, with the starting problem.
	Init(prob *problem.Problem)
	// Feasible is called whenever a new best (narrower) feasible width is found.
	Feasible(sol problem.Solution, width float64)
	// Intermediate is called after a strike that failed to fully separate
	// the layout, reporting the best overlap reached and the current width.
	Intermediate(event string, overlap float64, width float64)
	// Final is called once, after the run ends, with the best solution found.
	Final(sol problem.Solution, width float64)
}

// NoopListener implements SolutionListener with no side effects, for tests
// and callers that don't need progress reporting.
type NoopListener struct{}

func (NoopListener) Init(*problem.Problem)                {}
func (NoopListener) Feasible(problem.Solution, float64)   {}
func (NoopListener) Intermediate(string, float64, float64) {}
func (NoopListener) Final(problem.Solution, float64)      {}
