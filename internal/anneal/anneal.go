// Package anneal implements the simulated-annealing outer/inner loop:
// starting from a greedily-repaired Solution, it repeatedly applies a
// randomly-chosen move, evaluates the result, and accepts or rejects it
// under the cooling schedule's acceptance rule. The returned global_best is
// the most recently accepted solution; because a worsening move can be
// accepted at high temperature, it is not always the lowest-cost solution
// seen during the run.
package anneal

import (
	"context"
	"log"
	"math"

	"golang.org/x/exp/rand"

	"github.com/dries007/ProjectAI-CarSharing/internal/costeval"
	"github.com/dries007/ProjectAI-CarSharing/internal/model"
	"github.com/dries007/ProjectAI-CarSharing/internal/moves"
	"github.com/dries007/ProjectAI-CarSharing/internal/repair"
)

// Config holds the simulated-annealing cooling schedule parameters.
// Defaults match spec.md §4.6 and the original reference implementation.
type Config struct {
	TMax       float64
	TMin       float64
	Iterations int
	Alpha      float64
}

// DefaultConfig returns the reference implementation's defaults.
func DefaultConfig() Config {
	return Config{TMax: 1000, TMin: 10, Iterations: 5000, Alpha: 0.65}
}

// move is one entry of the annealer's move bag. name is used only for
// diagnostic logging.
type move struct {
	name string
	fn   func(rng *rand.Rand, p *model.Problem, s *model.Solution) bool
}

// bag is the 7-slot weighted move bag from spec.md §4.6: M1/M2/M3 at
// weight 1, M4/M5 at weight 2, giving probabilities 1/7 and 2/7
// respectively when selected uniformly from this slice.
func bag() []move {
	return []move{
		{"move_to_neighbour", func(rng *rand.Rand, p *model.Problem, s *model.Solution) bool {
			return moves.MoveToNeighbour(rng, p, s, nil)
		}},
		{"neighbour_to_self", func(rng *rand.Rand, p *model.Problem, s *model.Solution) bool {
			return moves.NeighbourToSelf(rng, p, s, nil)
		}},
		{"change_car_in_zone", func(rng *rand.Rand, p *model.Problem, s *model.Solution) bool {
			return moves.ChangeCarInZone(rng, p, s, nil)
		}},
		{"unassign_request", func(rng *rand.Rand, p *model.Problem, s *model.Solution) bool {
			return moves.UnassignRequest(rng, p, s, nil)
		}},
		{"unassign_request", func(rng *rand.Rand, p *model.Problem, s *model.Solution) bool {
			return moves.UnassignRequest(rng, p, s, nil)
		}},
		{"unassign_car", func(rng *rand.Rand, p *model.Problem, s *model.Solution) bool {
			return moves.UnassignCar(rng, p, s, "")
		}},
		{"unassign_car", func(rng *rand.Rand, p *model.Problem, s *model.Solution) bool {
			return moves.UnassignCar(rng, p, s, "")
		}},
	}
}

// StatsSink, if non-nil, is called once per inner-loop iteration with the
// working solution's cost after that iteration resolves. It exists for
// debug/test tooling (see original_source's Problem.run(debug) cost
// trajectory) and costs nothing when left nil.
type StatsSink func(iteration int, temperature float64, cost int)

// Annealer owns one independent run of the cooling schedule against a
// shared, read-only Problem.
type Annealer struct {
	Problem *model.Problem
	Config  Config
	Rng     *rand.Rand
	Stats   StatsSink

	moveBag []move
}

// New builds an Annealer for p. The greedy-repaired initial solution is
// built by Run, not here.
func New(p *model.Problem, cfg Config, rng *rand.Rand) *Annealer {
	return &Annealer{Problem: p, Config: cfg, Rng: rng, moveBag: bag()}
}

// Result is what Run hands back once the cooling schedule finishes or the
// context is cancelled.
type Result struct {
	Iterations int
	Best       *model.Solution
	Aborted    bool
}

// Run executes the full outer/inner loop (spec.md §4.6) until temperature
// is no longer above Config.TMin or ctx is cancelled. Cancellation is checked
// once per inner-loop iteration, after any accept/reject bookkeeping has
// completed, so a cancellation observed mid-iteration can never leave
// global_best in an inconsistent state.
func (a *Annealer) Run(ctx context.Context) Result {
	incumbent := model.NewSolution()
	repair.Run(a.Rng, a.Problem, incumbent, nil)
	if _, cost := costeval.Evaluate(a.Problem, incumbent); cost == costeval.Infeasible {
		log.Printf("anneal: initial greedy solution is infeasible (unexpected)")
	}

	globalBest := incumbent
	working := incumbent.Clone()

	temperature := a.Config.TMax
	iterations := 0
	aborted := false

outer:
	for temperature > a.Config.TMin {
		for i := 0; i < a.Config.Iterations; i++ {
			m := a.moveBag[a.Rng.Intn(len(a.moveBag))]

			if m.fn(a.Rng, a.Problem, working) {
				feasible, cost := costeval.Evaluate(a.Problem, working)
				if !feasible {
					log.Printf("anneal: move %s produced an infeasible solution, discarding", m.name)
				} else {
					deltaE := cost - globalBest.Cost
					if deltaE <= 0 || math.Exp(-float64(deltaE)/temperature) > a.Rng.Float64() {
						globalBest = working
						incumbent = working
					}
				}
			}

			working = incumbent.Clone()

			iterations++
			if a.Stats != nil {
				a.Stats(iterations, temperature, working.Cost)
			}

			if ctx.Err() != nil {
				aborted = true
				break outer
			}
		}

		temperature *= a.Config.Alpha
	}

	return Result{Iterations: iterations, Best: globalBest, Aborted: aborted}
}
