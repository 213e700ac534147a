// Package ioformat reads and writes the line-oriented, semicolon-separated
// problem and solution files described by the external interface: header
// lines detected by substring match, sections in any order, values
// trimmed of surrounding whitespace.
package ioformat

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/dries007/ProjectAI-CarSharing/internal/model"
	"github.com/dries007/ProjectAI-CarSharing/internal/overlap"
)

// ErrMalformedInput wraps a parse failure with the 1-based line number it
// occurred on, so a startup failure points straight at the offending line.
// Line is 0 for a failure found after parsing that is not tied to one line
// (a request referencing an unknown zone).
type ErrMalformedInput struct {
	Line int
	Err  error
}

func (e *ErrMalformedInput) Error() string {
	return fmt.Sprintf("ioformat: line %d: %v", e.Line, e.Err)
}

func (e *ErrMalformedInput) Unwrap() error { return e.Err }

const (
	headerRequests = "+Requests:"
	headerZones    = "+Zones:"
	headerVehicles = "+Vehicles:"
	headerDays     = "+Days"
)

type pendingRequest struct {
	id       string
	zoneID   string
	day      int
	start    int
	duration int
	vehicles []string
	penalty1 int
	penalty2 int
}

// Load parses the problem file at path. Sections may appear in any order,
// but a record line must follow its own section's header.
func Load(path string) (*model.Problem, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("ioformat: opening %s: %w", path, err)
	}
	defer f.Close()

	var (
		pending      []pendingRequest
		zoneOrder    []string
		zoneNeigh    = map[string][]string{}
		vehicleOrder []string
		days         int

		section  string // "", "requests", "zones", "vehicles"
		remaining int
		lineNo   int
	)

	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)

	for scanner.Scan() {
		lineNo++
		raw := scanner.Text()
		line := strings.TrimSpace(raw)
		if line == "" {
			continue
		}

		switch {
		case strings.Contains(line, headerRequests):
			n, err := parseHeaderCount(line, headerRequests)
			if err != nil {
				return nil, &ErrMalformedInput{Line: lineNo, Err: err}
			}
			section, remaining = "requests", n
			continue
		case strings.Contains(line, headerZones):
			n, err := parseHeaderCount(line, headerZones)
			if err != nil {
				return nil, &ErrMalformedInput{Line: lineNo, Err: err}
			}
			section, remaining = "zones", n
			continue
		case strings.Contains(line, headerVehicles):
			n, err := parseHeaderCount(line, headerVehicles)
			if err != nil {
				return nil, &ErrMalformedInput{Line: lineNo, Err: err}
			}
			section, remaining = "vehicles", n
			continue
		case strings.Contains(line, headerDays):
			d, err := parseHeaderCount(line, headerDays)
			if err != nil {
				return nil, &ErrMalformedInput{Line: lineNo, Err: err}
			}
			days = d
			section, remaining = "", 0
			continue
		}

		if section == "" || remaining == 0 {
			return nil, &ErrMalformedInput{Line: lineNo, Err: fmt.Errorf("record line outside any section: %q", raw)}
		}

		switch section {
		case "requests":
			req, err := parseRequestLine(line)
			if err != nil {
				return nil, &ErrMalformedInput{Line: lineNo, Err: err}
			}
			pending = append(pending, req)
		case "zones":
			id, neighbours, err := parseZoneLine(line)
			if err != nil {
				return nil, &ErrMalformedInput{Line: lineNo, Err: err}
			}
			zoneOrder = append(zoneOrder, id)
			zoneNeigh[id] = neighbours
		case "vehicles":
			vehicleOrder = append(vehicleOrder, line)
		}
		remaining--
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("ioformat: reading %s: %w", path, err)
	}

	zoneByID := make(map[string]*model.Zone, len(zoneOrder))
	zones := make([]*model.Zone, 0, len(zoneOrder))
	for _, id := range zoneOrder {
		z := model.NewZone(id, zoneNeigh[id])
		zoneByID[id] = z
		zones = append(zones, z)
	}

	requests := make([]*model.Request, 0, len(pending))
	requestByID := make(map[string]*model.Request, len(pending))
	for i, pr := range pending {
		zone, ok := zoneByID[pr.zoneID]
		if !ok {
			return nil, &ErrMalformedInput{Line: 0, Err: fmt.Errorf("request %s references unknown zone %s", pr.id, pr.zoneID)}
		}
		req := &model.Request{
			ID:       pr.id,
			Zone:     zone,
			Day:      pr.day,
			Start:    pr.start,
			Duration: pr.duration,
			Vehicles: pr.vehicles,
			Penalty1: pr.penalty1,
			Penalty2: pr.penalty2,
			Index:    i,
		}
		requests = append(requests, req)
		requestByID[req.ID] = req
	}

	return &model.Problem{
		Requests:    requests,
		RequestByID: requestByID,
		Zones:       zones,
		ZoneByID:    zoneByID,
		Vehicles:    vehicleOrder,
		Days:        days,
		Overlap:     overlap.Build(requests),
	}, nil
}

func parseHeaderCount(line, prefix string) (int, error) {
	idx := strings.Index(line, prefix)
	rest := strings.TrimSpace(line[idx+len(prefix):])
	rest = strings.TrimPrefix(rest, ":")
	rest = strings.TrimSpace(rest)
	if rest == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(rest)
	if err != nil {
		return 0, fmt.Errorf("malformed count in header %q: %w", line, err)
	}
	return n, nil
}

func parseRequestLine(line string) (pendingRequest, error) {
	fields := strings.Split(line, ";")
	if len(fields) != 8 {
		return pendingRequest{}, fmt.Errorf("expected 8 semicolon-separated fields, got %d: %q", len(fields), line)
	}
	for i := range fields {
		fields[i] = strings.TrimSpace(fields[i])
	}

	day, err := strconv.Atoi(fields[2])
	if err != nil {
		return pendingRequest{}, fmt.Errorf("day: %w", err)
	}
	start, err := strconv.Atoi(fields[3])
	if err != nil {
		return pendingRequest{}, fmt.Errorf("start: %w", err)
	}
	duration, err := strconv.Atoi(fields[4])
	if err != nil {
		return pendingRequest{}, fmt.Errorf("duration: %w", err)
	}
	penalty1, err := strconv.Atoi(fields[6])
	if err != nil {
		return pendingRequest{}, fmt.Errorf("penalty1: %w", err)
	}
	penalty2, err := strconv.Atoi(fields[7])
	if err != nil {
		return pendingRequest{}, fmt.Errorf("penalty2: %w", err)
	}

	vehicles := splitTrim(fields[5])
	if len(vehicles) == 0 {
		return pendingRequest{}, fmt.Errorf("request %s has no candidate vehicles", fields[0])
	}

	return pendingRequest{
		id:       fields[0],
		zoneID:   fields[1],
		day:      day,
		start:    start,
		duration: duration,
		vehicles: vehicles,
		penalty1: penalty1,
		penalty2: penalty2,
	}, nil
}

func parseZoneLine(line string) (id string, neighbours []string, err error) {
	fields := strings.SplitN(line, ";", 2)
	id = strings.TrimSpace(fields[0])
	if id == "" {
		return "", nil, fmt.Errorf("zone line has empty id: %q", line)
	}
	if len(fields) == 2 {
		neighbours = splitTrim(fields[1])
	}
	return id, neighbours, nil
}

func splitTrim(s string) []string {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}

// Save writes the winning solution in the fixed output format: total cost,
// then vehicle assignments (every input vehicle must appear; one never
// deployed by the optimiser is padded to the first zone in input order),
// then assigned requests, then unassigned requests.
func Save(path string, p *model.Problem, s *model.Solution) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("ioformat: creating %s: %w", path, err)
	}
	defer f.Close()

	w := bufio.NewWriter(f)

	fmt.Fprintln(w, s.Cost)

	fmt.Fprintln(w, "+Vehicle assignments")
	var firstZone string
	if len(p.Zones) > 0 {
		firstZone = p.Zones[0].ID
	}
	for _, v := range p.Vehicles {
		zone, deployed := s.CarZone.Get(v)
		zoneID := firstZone
		if deployed {
			zoneID = zone.ID
		}
		fmt.Fprintf(w, "%s;%s\n", v, zoneID)
	}

	fmt.Fprintln(w, "+Assigned requests")
	for _, req := range p.Requests {
		if car, ok := s.ReqCar.Get(req); ok {
			fmt.Fprintf(w, "%s;%s\n", req.ID, car)
		}
	}

	fmt.Fprintln(w, "+Unassigned requests")
	for _, req := range model.Unassigned(p.Requests, s) {
		fmt.Fprintln(w, req.ID)
	}

	if err := w.Flush(); err != nil {
		return fmt.Errorf("ioformat: writing %s: %w", path, err)
	}
	return nil
}
