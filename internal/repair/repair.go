// Package repair implements the greedy re-fill invoked after every
// state-changing move to restore a Solution's fullness.
package repair

import (
	"golang.org/x/exp/rand"

	"github.com/dries007/ProjectAI-CarSharing/internal/model"
)

// Run fills in every request in toAssign that is not currently a key of
// s.ReqCar. A nil toAssign means "every unassigned request in p", visited
// in an order shuffled by rng — the repair step is deliberately
// randomised so ties between equally-good candidates don't always resolve
// the same way.
//
// For each request it scans the request's candidate vehicles: a vehicle
// already deployed to the request's own zone with no overlap is taken
// immediately; vehicles deployed to a neighbour zone with no overlap are
// collected as a fallback; vehicles not yet deployed anywhere are
// collected as a last resort, deploying one to the request's own zone if
// nothing better is found. A request with no usable candidate is left
// unassigned, incurring its Penalty1 in CostEvaluator.
func Run(rng *rand.Rand, p *model.Problem, s *model.Solution, toAssign []*model.Request) {
	if toAssign == nil {
		toAssign = model.Unassigned(p.Requests, s)
		rng.Shuffle(len(toAssign), func(i, j int) {
			toAssign[i], toAssign[j] = toAssign[j], toAssign[i]
		})
	}

	for _, req := range toAssign {
		if s.ReqCar.Has(req) {
			continue
		}
		assign(rng, p, s, req)
	}
}

func assign(rng *rand.Rand, p *model.Problem, s *model.Solution, req *model.Request) {
	var selected string
	found := false

	var freeCars []string
	var neighbourCars []string

	for _, car := range req.Vehicles {
		zone, deployed := s.CarZone.Get(car)
		if !deployed {
			freeCars = append(freeCars, car)
			continue
		}

		switch {
		case zone == req.Zone:
			if !OverlapsAssigned(p, s, car, req) {
				selected = car
				found = true
			}
		case req.Zone.IsNeighbour(zone.ID):
			if !OverlapsAssigned(p, s, car, req) {
				neighbourCars = append(neighbourCars, car)
			}
		}

		if found {
			break
		}
	}

	if !found {
		switch {
		case len(neighbourCars) > 0:
			selected = neighbourCars[rng.Intn(len(neighbourCars))]
			found = true
		case len(freeCars) > 0:
			selected = freeCars[rng.Intn(len(freeCars))]
			s.CarZone.Set(selected, req.Zone)
			found = true
		}
	}

	if !found {
		return
	}

	s.ReqCar.Set(req, selected)
}

// OverlapsAssigned reports whether any request currently assigned to car
// conflicts with req's time interval, per the Problem's precomputed
// OverlapIndex. Exported because internal/moves performs the exact same
// check when validating a candidate car for a move.
func OverlapsAssigned(p *model.Problem, s *model.Solution, car string, req *model.Request) bool {
	for _, j := range p.Overlap.Row(req.Index) {
		other := p.Requests[j]
		if otherCar, ok := s.ReqCar.Get(other); ok && otherCar == car {
			return true
		}
	}
	return false
}
