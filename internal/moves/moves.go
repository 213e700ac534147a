// Package moves implements the four-and-a-half (per spec.md naming, five
// functions covering four move families) local mutation operators the
// annealer applies to a Solution. Every move either changes req_car/
// car_zone and returns true, or leaves both maps bit-identical and returns
// false — never a partial mutation.
package moves

import (
	"golang.org/x/exp/rand"

	"github.com/dries007/ProjectAI-CarSharing/internal/model"
	"github.com/dries007/ProjectAI-CarSharing/internal/repair"
)

// MoveToNeighbour (M1) relocates req from its current vehicle to a vehicle
// whose zone is a neighbour of req's home zone, different from req's
// current zone. req == nil picks a uniformly random assigned request.
func MoveToNeighbour(rng *rand.Rand, p *model.Problem, s *model.Solution, req *model.Request) bool {
	req, ok := pickRequest(rng, s, req)
	if !ok {
		return false
	}

	currentCar, _ := s.ReqCar.Get(req)
	currentZone := s.CarZone.MustGet(currentCar)

	var candidates []string
	for _, car := range req.Vehicles {
		if car == currentCar {
			continue
		}
		zone, deployed := s.CarZone.Get(car)
		if !deployed {
			continue
		}
		if zone == currentZone || zone == req.Zone || !req.Zone.IsNeighbour(zone.ID) {
			continue
		}
		if repair.OverlapsAssigned(p, s, car, req) {
			continue
		}
		candidates = append(candidates, car)
	}

	if len(candidates) == 0 {
		return false
	}

	picked := candidates[rng.Intn(len(candidates))]
	s.ReqCar.Set(req, picked)
	repair.Run(rng, p, s, nil)
	return true
}

// NeighbourToSelf (M2) moves req from a neighbour-zone vehicle back to a
// vehicle in req's own zone, on a different car than it currently uses.
func NeighbourToSelf(rng *rand.Rand, p *model.Problem, s *model.Solution, req *model.Request) bool {
	req, ok := pickRequest(rng, s, req)
	if !ok {
		return false
	}

	currentCar, _ := s.ReqCar.Get(req)
	currentZone := s.CarZone.MustGet(currentCar)
	if currentZone == req.Zone {
		return false
	}

	for _, car := range req.Vehicles {
		if car == currentCar {
			continue
		}
		zone, deployed := s.CarZone.Get(car)
		if !deployed || zone != req.Zone {
			continue
		}
		if repair.OverlapsAssigned(p, s, car, req) {
			continue
		}
		s.ReqCar.Set(req, car)
		repair.Run(rng, p, s, nil)
		return true
	}

	return false
}

// ChangeCarInZone (M3) swaps req to a different vehicle within its current
// zone.
func ChangeCarInZone(rng *rand.Rand, p *model.Problem, s *model.Solution, req *model.Request) bool {
	req, ok := pickRequest(rng, s, req)
	if !ok {
		return false
	}

	currentCar, _ := s.ReqCar.Get(req)
	currentZone := s.CarZone.MustGet(currentCar)

	for _, car := range req.Vehicles {
		if car == currentCar {
			continue
		}
		zone, deployed := s.CarZone.Get(car)
		if !deployed || zone != currentZone {
			continue
		}
		if repair.OverlapsAssigned(p, s, car, req) {
			continue
		}
		s.ReqCar.Set(req, car)
		repair.Run(rng, p, s, nil)
		return true
	}

	return false
}

// UnassignRequest (M4) deletes req from ReqCar, then repairs.
func UnassignRequest(rng *rand.Rand, p *model.Problem, s *model.Solution, req *model.Request) bool {
	req, ok := pickRequest(rng, s, req)
	if !ok {
		return false
	}

	s.ReqCar.Delete(req)
	repair.Run(rng, p, s, nil)
	return true
}

// UnassignCar (M5) removes a vehicle from CarZone entirely and unassigns
// every request currently served by it, then repairs. This is the most
// disruptive move: a single car can be serving many requests.
func UnassignCar(rng *rand.Rand, p *model.Problem, s *model.Solution, car string) bool {
	if car == "" {
		if s.CarZone.Len() == 0 {
			return false
		}
		car = s.CarZone.RandomKey(rng)
	} else if !s.CarZone.Has(car) {
		return false
	}

	s.CarZone.Delete(car)
	for _, req := range s.RequestsByVehicle(car) {
		s.ReqCar.Delete(req)
	}

	repair.Run(rng, p, s, nil)
	return true
}

// pickRequest resolves the "target or random assigned request" parameter
// shared by M1-M4. The bool is false when req was given but not assigned,
// or when req is nil and no request is currently assigned at all.
func pickRequest(rng *rand.Rand, s *model.Solution, req *model.Request) (*model.Request, bool) {
	if req == nil {
		if s.ReqCar.Len() == 0 {
			return nil, false
		}
		return s.ReqCar.RandomKey(rng), true
	}
	if !s.ReqCar.Has(req) {
		return nil, false
	}
	return req, true
}
