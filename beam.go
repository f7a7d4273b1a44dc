// Package beamscene computes the placement of cone primitives that draw a
// focused laser path, and carries the geometry types the scene builder and
// its hosts share.
//
// A beam path is a set of start points that all converge on one focus. Each
// start produces a BeamSegment: a cone centred on the midpoint of start and
// focus, stretched to span the full distance, and oriented so its apex
// points at the focus.
package beamscene

import (
	"fmt"
	"math"
	"strings"
)

// ShapeCone is the primitive shape tag carried by every beam segment.
const ShapeCone = "cone"

// Side selects which appearance variant of the beam applies: before the
// sample (incoming) or after it (outgoing).
type Side int

const (
	SideIncoming Side = iota
	SideOutgoing
)

func (s Side) String() string {
	switch s {
	case SideIncoming:
		return "incoming"
	case SideOutgoing:
		return "outgoing"
	}
	return fmt.Sprintf("Side(%d)", int(s))
}

func ParseSide(s string) (Side, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "incoming", "in":
		return SideIncoming, nil
	case "outgoing", "out":
		return SideOutgoing, nil
	}
	return 0, fmt.Errorf("unknown beam side %q", s)
}

func (s Side) MarshalText() ([]byte, error) {
	if s != SideIncoming && s != SideOutgoing {
		return nil, fmt.Errorf("invalid beam side %d", int(s))
	}
	return []byte(s.String()), nil
}

func (s *Side) UnmarshalText(text []byte) error {
	v, err := ParseSide(string(text))
	if err != nil {
		return err
	}
	*s = v
	return nil
}

// BeamEndpoint is a named start point of a beam.
type BeamEndpoint struct {
	ID   string `json:"id" yaml:"id" toml:"id"`
	Loc  Point3 `json:"loc" yaml:"loc" toml:"loc"`
	Side Side   `json:"side" yaml:"side" toml:"side"`
}

// BeamSegment is the placement of one cone primitive.
type BeamSegment struct {
	ID    string `json:"id" yaml:"id"`
	Shape string `json:"shape" yaml:"shape"`
	Side  Side   `json:"side" yaml:"side"`
	Loc   Point3 `json:"loc" yaml:"loc"`

	// Arc is the shortest rotation taking CanonicalAxis onto the beam
	// direction, before the apex correction.
	Arc Orientation `json:"-" yaml:"-"`

	// Orientation is Arc followed by ApexCorrection in the cone's own
	// frame. It maps CanonicalAxis onto the unit beam direction.
	Orientation Orientation `json:"-" yaml:"-"`

	// Euler is Orientation in the host's XYZ Euler form.
	Euler EulerXYZ `json:"rot" yaml:"rot"`

	// Scale is (radial, radial, axial) where axial is half the length,
	// the host cone being two units from base to apex.
	Scale [3]float64 `json:"scale" yaml:"scale"`

	Length float64 `json:"length" yaml:"length"`
}

func (s BeamSegment) RadialScale() float64 {
	return s.Scale[0]
}

func (s BeamSegment) AxialScale() float64 {
	return s.Scale[2]
}

func validScale(s float64) bool {
	return s > 0 && !math.IsInf(s, 0) && !math.IsNaN(s)
}

// ComputeBeamSegment places a cone running from start to focus. inScale
// and outScale are the radial thickness of the two visual variants; side
// selects which one applies.
//
// It returns a *DegenerateInputError when start and focus coincide, and
// ErrNonFinite when the segment is too long to represent.
func ComputeBeamSegment(start, focus Point3, inScale, outScale float64, side Side) (BeamSegment, error) {
	if !start.IsFinite() || !focus.IsFinite() {
		return BeamSegment{}, fmt.Errorf("start %v, focus %v: %w", start, focus, ErrNonFinite)
	}

	radial := outScale
	if side == SideIncoming {
		radial = inScale
	}
	if !validScale(radial) {
		return BeamSegment{}, fmt.Errorf("%s scale %v: %w", side, radial, ErrInvalidScale)
	}

	v := focus.Sub(start)
	if v.IsZero() {
		return BeamSegment{}, &DegenerateInputError{Start: start, Focus: focus}
	}

	length := start.DistanceTo(focus)
	loc := start.Midpoint(focus)
	if math.IsInf(length, 0) || !loc.IsFinite() {
		return BeamSegment{}, fmt.Errorf("start %v, focus %v: segment too long: %w", start, focus, ErrNonFinite)
	}

	arc := ShortestArc(CanonicalAxis, v.Vec())
	orient := arc.Local(ApexCorrection)
	if !orient.IsFinite() {
		return BeamSegment{}, fmt.Errorf("start %v, focus %v: orientation: %w", start, focus, ErrNonFinite)
	}

	return BeamSegment{
		Shape:       ShapeCone,
		Side:        side,
		Loc:         loc,
		Arc:         arc,
		Orientation: orient,
		Euler:       orient.Euler(),
		Scale:       [3]float64{radial, radial, length / 2},
		Length:      length,
	}, nil
}

// ComputeSegment is ComputeBeamSegment for a named endpoint.
func ComputeSegment(ep BeamEndpoint, focus Point3, inScale, outScale float64) (BeamSegment, error) {
	seg, err := ComputeBeamSegment(ep.Loc, focus, inScale, outScale, ep.Side)
	if err != nil {
		if de, ok := err.(*DegenerateInputError); ok {
			de.ID = ep.ID
		}
		return BeamSegment{}, err
	}
	seg.ID = ep.ID
	return seg, nil
}

// ComputeBeamPath places one segment per start, all converging on focus.
// The output has the same length and order as starts. The first failing
// element stops the computation and is reported as a *PathError.
func ComputeBeamPath(starts []BeamEndpoint, focus Point3, inScale, outScale float64) ([]BeamSegment, error) {
	segs := make([]BeamSegment, len(starts))
	for i, ep := range starts {
		seg, err := ComputeSegment(ep, focus, inScale, outScale)
		if err != nil {
			return nil, &PathError{Index: i, ID: ep.ID, Err: err}
		}
		segs[i] = seg
	}
	return segs, nil
}
