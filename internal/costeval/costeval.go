// Package costeval computes feasibility and total penalty cost for a
// candidate Solution, following the rules a greedy-constructed or
// move-mutated Solution must always satisfy.
package costeval

import (
	"fmt"
	"math"

	"github.com/dries007/ProjectAI-CarSharing/internal/model"
)

// ErrInvariantViolation signals that a Solution referenced a vehicle with
// no zone assignment. Every move in internal/moves is designed so this
// never happens; if it does, it is a bug in the caller, not a property of
// the input.
type ErrInvariantViolation struct {
	Request *model.Request
	Vehicle string
}

func (e *ErrInvariantViolation) Error() string {
	return fmt.Sprintf("request %s assigned to vehicle %s which is not in any zone", e.Request.ID, e.Vehicle)
}

// Infeasible is the cost value reported alongside feasible == false.
const Infeasible = math.MaxInt64

// Evaluate computes (feasible, cost) for s against p, exactly as the
// reference evaluator does: a zone mismatch or an overlapping pair sharing
// a vehicle makes the whole solution infeasible; otherwise the cost is the
// sum of neighbour-zone penalties for assigned requests plus
// unassigned-penalties for everything else. The result is also cached on
// s.Cost / s.Feasible.
//
// Evaluate panics with ErrInvariantViolation if a request is assigned to a
// vehicle absent from CarZone — that is a programming bug, not ordinary
// infeasibility, and spec.md §4.3 calls for a hard error in that case.
func Evaluate(p *model.Problem, s *model.Solution) (feasible bool, cost int) {
	total := 0

	infeasible := false
	s.ReqCar.Each(func(req *model.Request, car string) {
		if infeasible {
			return
		}

		zone, ok := s.CarZone.Get(car)
		if !ok {
			panic(&ErrInvariantViolation{Request: req, Vehicle: car})
		}

		switch {
		case zone == req.Zone:
			// no penalty
		case req.Zone.IsNeighbour(zone.ID):
			total += req.Penalty2
		default:
			infeasible = true
			return
		}

		for _, j := range p.Overlap.Row(req.Index) {
			other := p.Requests[j]
			if otherCar, ok := s.ReqCar.Get(other); ok && otherCar == car {
				infeasible = true
				return
			}
		}
	})

	if infeasible {
		s.Cost = Infeasible
		s.Feasible = false
		return false, Infeasible
	}

	for _, r := range model.Unassigned(p.Requests, s) {
		total += r.Penalty1
	}

	s.Cost = total
	s.Feasible = true
	return true, total
}
