package model

import "github.com/dries007/ProjectAI-CarSharing/internal/randmap"

// Solution is the mutable working state of the optimiser: which zone each
// vehicle is deployed to, and which vehicle (if any) serves each request.
// A vehicle absent from CarZone is "free" — not yet deployed anywhere.
type Solution struct {
	CarZone *randmap.Map[string, *Zone]
	ReqCar  *randmap.Map[*Request, string]

	// Cost and Feasible cache the result of the last Evaluate call. They
	// are advisory only — nothing in this package recomputes them
	// automatically, so callers must treat a Solution as "dirty" after
	// any mutation until they call Evaluate again.
	Cost     int
	Feasible bool
}

// NewSolution returns an empty Solution: no vehicles deployed, no requests
// assigned.
func NewSolution() *Solution {
	return &Solution{
		CarZone: randmap.New[string, *Zone](),
		ReqCar:  randmap.New[*Request, string](),
	}
}

// Clone returns a Solution with independently-owned CarZone/ReqCar maps.
// Request and Zone values are shared by reference since both are
// immutable after load; only the two map spines need duplicating.
func (s *Solution) Clone() *Solution {
	return &Solution{
		CarZone:  s.CarZone.Copy(),
		ReqCar:   s.ReqCar.Copy(),
		Cost:     s.Cost,
		Feasible: s.Feasible,
	}
}

// RequestsByVehicle returns the requests currently assigned to vehicle,
// without any particular order.
func (s *Solution) RequestsByVehicle(vehicle string) []*Request {
	var out []*Request
	s.ReqCar.Each(func(req *Request, car string) {
		if car == vehicle {
			out = append(out, req)
		}
	})
	return out
}

// Unassigned returns the requests from all that are not currently a key of
// ReqCar.
func Unassigned(all []*Request, s *Solution) []*Request {
	out := make([]*Request, 0, len(all))
	for _, r := range all {
		if !s.ReqCar.Has(r) {
			out = append(out, r)
		}
	}
	return out
}
