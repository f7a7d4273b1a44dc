package beamscene

import (
	"context"
	"errors"
	"math"
	"math/rand"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/spatial/r3"
)

const tol = 1e-9

func angleClose(a, b float64) bool {
	return math.Abs(math.Remainder(a-b, 2*math.Pi)) <= 1e-9
}

func assertVecClose(t *testing.T, want, got mgl64.Vec3) {
	t.Helper()
	assert.InDeltaSlice(t, want[:], got[:], 1e-9, "want %v, got %v", want, got)
}

func toR3(p Point3) r3.Vec {
	return r3.Vec{X: p.X, Y: p.Y, Z: p.Z}
}

func randomPoint(rng *rand.Rand) Point3 {
	return P3(rng.Float64()*200-100, rng.Float64()*200-100, rng.Float64()*200-100)
}

func TestComputeBeamSegmentConcreteScenario(t *testing.T) {
	seg, err := ComputeBeamSegment(P3(0, 0, 0), P3(10, 0, 0), 2, 9, SideIncoming)
	require.NoError(t, err)

	assert.Equal(t, ShapeCone, seg.Shape)
	assert.True(t, seg.Loc.ApproxEqual(P3(5, 0, 0), tol), "loc %v", seg.Loc)
	assert.InDelta(t, 5.0, seg.AxialScale(), tol)
	assert.InDelta(t, 2.0, seg.RadialScale(), tol)
	assert.Equal(t, seg.Scale[0], seg.Scale[1])
	assert.InDelta(t, 10.0, seg.Length, tol)

	// quarter turn about +Y takes +Z onto +X
	assert.True(t, seg.Arc.ApproxEqual(AxisAngle(math.Pi/2, mgl64.Vec3{0, 1, 0}), tol))
	assertVecClose(t, mgl64.Vec3{1, 0, 0}, seg.Orientation.Rotate(CanonicalAxis))

	// host Euler form: (0, -90°, 180°)
	assert.InDelta(t, 0, seg.Euler.X, tol)
	assert.InDelta(t, -math.Pi/2, seg.Euler.Y, tol)
	assert.True(t, angleClose(math.Pi, seg.Euler.Z), "euler z %v", seg.Euler.Z)
}

func TestComputeBeamSegmentMidpointAndLength(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	for i := 0; i < 200; i++ {
		start, focus := randomPoint(rng), randomPoint(rng)
		seg, err := ComputeBeamSegment(start, focus, 1, 1, SideOutgoing)
		require.NoError(t, err)

		assert.InDelta(t, (start.X+focus.X)/2, seg.Loc.X, tol)
		assert.InDelta(t, (start.Y+focus.Y)/2, seg.Loc.Y, tol)
		assert.InDelta(t, (start.Z+focus.Z)/2, seg.Loc.Z, tol)

		dist := r3.Norm(r3.Sub(toR3(focus), toR3(start)))
		assert.InDelta(t, dist/2, seg.AxialScale(), 1e-9)
	}
}

func TestComputeBeamSegmentOrientation(t *testing.T) {
	rng := rand.New(rand.NewSource(11))
	z := r3.Vec{Z: 1}
	for i := 0; i < 200; i++ {
		start, focus := randomPoint(rng), randomPoint(rng)
		seg, err := ComputeBeamSegment(start, focus, 2, 9, SideIncoming)
		require.NoError(t, err)

		dir := focus.Sub(start).Vec().Normalize()
		assertVecClose(t, dir, seg.Orientation.Rotate(CanonicalAxis))
		assertVecClose(t, dir, seg.Arc.Rotate(CanonicalAxis))

		// independent arc built with gonum
		v := r3.Unit(toR3(focus.Sub(start)))
		axis := r3.Cross(z, v)
		oracle := r3.NewRotation(math.Acos(r3.Dot(z, v)), axis)
		for _, probe := range []r3.Vec{{X: 1}, {Y: 1}, {Z: 1}} {
			want := oracle.Rotate(probe)
			got := seg.Arc.Rotate(mgl64.Vec3{probe.X, probe.Y, probe.Z})
			assertVecClose(t, mgl64.Vec3{want.X, want.Y, want.Z}, got)
		}

		// the apex correction is a half turn about the cone's own axis
		x := mgl64.Vec3{1, 0, 0}
		assertVecClose(t, seg.Arc.Rotate(x.Mul(-1)), seg.Orientation.Rotate(x))

		// the Euler form round-trips to the same rotation
		assert.True(t, FromEuler(seg.Euler).ApproxEqual(seg.Orientation, 1e-9))
	}
}

// The host-side recipe: take the arc from the beam onto +Z, convert to XYZ
// Euler, add π to the Z angle. The result must be the same rotation.
func TestComputeBeamSegmentMatchesEulerRecipe(t *testing.T) {
	rng := rand.New(rand.NewSource(3))
	for i := 0; i < 200; i++ {
		start, focus := randomPoint(rng), randomPoint(rng)
		seg, err := ComputeBeamSegment(start, focus, 2, 9, SideIncoming)
		require.NoError(t, err)

		e := ShortestArc(focus.Sub(start).Vec(), CanonicalAxis).Euler()
		e.Z += math.Pi
		assert.True(t, FromEuler(e).ApproxEqual(seg.Orientation, 1e-9), "start %v focus %v", start, focus)
	}
}

func TestComputeBeamSegmentParallelToAxis(t *testing.T) {
	seg, err := ComputeBeamSegment(P3(0, 0, 0), P3(0, 0, 5), 2, 9, SideIncoming)
	require.NoError(t, err)

	assert.True(t, seg.Arc.IsFinite())
	assert.True(t, seg.Arc.IsIdentity(tol))
	assert.InDelta(t, 2.5, seg.AxialScale(), tol)
	assertVecClose(t, CanonicalAxis, seg.Orientation.Rotate(CanonicalAxis))

	assert.InDelta(t, 0, seg.Euler.X, tol)
	assert.InDelta(t, 0, seg.Euler.Y, tol)
	assert.True(t, angleClose(math.Pi, seg.Euler.Z))
}

func TestComputeBeamSegmentAntiParallelToAxis(t *testing.T) {
	seg, err := ComputeBeamSegment(P3(1, 2, 5), P3(1, 2, -3), 2, 9, SideOutgoing)
	require.NoError(t, err)

	assert.True(t, seg.Orientation.IsFinite())
	assert.InDelta(t, math.Pi, seg.Arc.Angle(), tol)
	assertVecClose(t, mgl64.Vec3{0, 0, -1}, seg.Arc.Rotate(CanonicalAxis))
	assertVecClose(t, mgl64.Vec3{0, 0, -1}, seg.Orientation.Rotate(CanonicalAxis))
	assert.InDelta(t, 4.0, seg.AxialScale(), tol)
	assert.InDelta(t, 9.0, seg.RadialScale(), tol)
	assert.True(t, seg.Loc.ApproxEqual(P3(1, 2, 1), tol))
}

func TestComputeBeamSegmentSide(t *testing.T) {
	in, err := ComputeBeamSegment(P3(0, 0, 0), P3(1, 1, 1), 2, 9, SideIncoming)
	require.NoError(t, err)
	out, err := ComputeBeamSegment(P3(0, 0, 0), P3(1, 1, 1), 2, 9, SideOutgoing)
	require.NoError(t, err)

	assert.Equal(t, [3]float64{2, 2, in.AxialScale()}, in.Scale)
	assert.Equal(t, [3]float64{9, 9, out.AxialScale()}, out.Scale)
	assert.Equal(t, in.Loc, out.Loc)
	assert.True(t, in.Orientation.ApproxEqual(out.Orientation, tol))
}

func TestComputeBeamSegmentErrors(t *testing.T) {
	_, err := ComputeBeamSegment(P3(3, 4, 5), P3(3, 4, 5), 2, 9, SideIncoming)
	require.Error(t, err)
	var de *DegenerateInputError
	require.True(t, errors.As(err, &de))
	assert.Equal(t, P3(3, 4, 5), de.Start)
	assert.ErrorIs(t, err, ErrDegenerate)

	_, err = ComputeBeamSegment(P3(math.NaN(), 0, 0), P3(1, 0, 0), 2, 9, SideIncoming)
	assert.ErrorIs(t, err, ErrNonFinite)

	_, err = ComputeBeamSegment(P3(0, 0, 0), P3(math.Inf(1), 0, 0), 2, 9, SideIncoming)
	assert.ErrorIs(t, err, ErrNonFinite)

	_, err = ComputeBeamSegment(P3(0, 0, 0), P3(1, 0, 0), 0, 9, SideIncoming)
	assert.ErrorIs(t, err, ErrInvalidScale)

	// only the scale that applies is checked
	_, err = ComputeBeamSegment(P3(0, 0, 0), P3(1, 0, 0), 0, 9, SideOutgoing)
	assert.NoError(t, err)

	_, err = ComputeBeamSegment(P3(0, 0, 0), P3(1, 0, 0), 2, -1, SideOutgoing)
	assert.ErrorIs(t, err, ErrInvalidScale)
}

func TestComputeBeamSegmentTinySeparation(t *testing.T) {
	for _, dx := range []float64{1e-170, 5e-324} {
		seg, err := ComputeBeamSegment(P3(0, 0, 0), P3(dx, 0, 0), 1, 1, SideIncoming)
		require.NoError(t, err, "dx %v", dx)

		assert.True(t, seg.Orientation.IsFinite(), "dx %v", dx)
		assert.False(t, math.IsNaN(seg.Euler.X) || math.IsNaN(seg.Euler.Y) || math.IsNaN(seg.Euler.Z))
		assertVecClose(t, mgl64.Vec3{1, 0, 0}, seg.Orientation.Rotate(CanonicalAxis))
		assert.Equal(t, dx, seg.Length)
		assert.Equal(t, dx/2, seg.AxialScale())
	}
}

func TestComputeBeamSegmentHugeSeparation(t *testing.T) {
	seg, err := ComputeBeamSegment(P3(0, 0, 0), P3(1e200, 1e200, 0), 1, 1, SideOutgoing)
	require.NoError(t, err)

	assert.False(t, math.IsInf(seg.AxialScale(), 0))
	assert.InEpsilon(t, math.Sqrt2*1e200/2, seg.AxialScale(), 1e-12)
	assertVecClose(t, mgl64.Vec3{math.Sqrt2 / 2, math.Sqrt2 / 2, 0}, seg.Orientation.Rotate(CanonicalAxis))

	// the difference itself is out of range
	_, err = ComputeBeamSegment(P3(-1e308, 0, 0), P3(1e308, 0, 0), 1, 1, SideOutgoing)
	assert.ErrorIs(t, err, ErrNonFinite)

	// the midpoint is out of range
	_, err = ComputeBeamSegment(P3(1.7e308, 0, 0), P3(1.6e308, 0, 1), 1, 1, SideOutgoing)
	assert.ErrorIs(t, err, ErrNonFinite)
}

func testPath() []BeamEndpoint {
	return []BeamEndpoint{
		{ID: "pulse1in", Loc: P3(-17, -82, -52), Side: SideIncoming},
		{ID: "pulse2in", Loc: P3(-17, -82, -12), Side: SideIncoming},
		{ID: "pulse2out", Loc: P3(33.4, 44, -6.9), Side: SideOutgoing},
		{ID: "up", Loc: P3(15, -2, -10), Side: SideIncoming},
	}
}

func TestComputeBeamPath(t *testing.T) {
	focus := P3(15, -2, 0)
	starts := testPath()

	segs, err := ComputeBeamPath(starts, focus, 2, 9)
	require.NoError(t, err)
	require.Len(t, segs, len(starts))

	for i, seg := range segs {
		assert.Equal(t, starts[i].ID, seg.ID)
		assert.Equal(t, starts[i].Side, seg.Side)
		single, err := ComputeBeamSegment(starts[i].Loc, focus, 2, 9, starts[i].Side)
		require.NoError(t, err)
		assert.Equal(t, single.Loc, seg.Loc)
		assert.Equal(t, single.Scale, seg.Scale)
	}

	segs, err = ComputeBeamPath(nil, focus, 2, 9)
	require.NoError(t, err)
	assert.Empty(t, segs)
}

func TestComputeBeamPathReportsFailingElement(t *testing.T) {
	focus := P3(15, -2, 0)
	starts := append(testPath(), BeamEndpoint{ID: "stuck", Loc: focus})

	_, err := ComputeBeamPath(starts, focus, 2, 9)
	require.Error(t, err)

	var pe *PathError
	require.True(t, errors.As(err, &pe))
	assert.Equal(t, 4, pe.Index)
	assert.Equal(t, "stuck", pe.ID)

	var de *DegenerateInputError
	require.True(t, errors.As(err, &de))
	assert.Equal(t, "stuck", de.ID)
}

func TestComputeBeamPathConcurrent(t *testing.T) {
	rng := rand.New(rand.NewSource(5))
	focus := P3(15, -2, 0)
	starts := make([]BeamEndpoint, 64)
	for i := range starts {
		starts[i] = BeamEndpoint{ID: string(rune('a' + i%26)), Loc: randomPoint(rng), Side: Side(i % 2)}
	}

	want, err := ComputeBeamPath(starts, focus, 2, 9)
	require.NoError(t, err)

	for _, workers := range []int{0, 1, 3, 100} {
		got, err := ComputeBeamPathConcurrent(context.Background(), starts, focus, 2, 9, workers)
		require.NoError(t, err)
		require.Len(t, got, len(want))
		for i := range want {
			assert.Equal(t, want[i].ID, got[i].ID)
			assert.Equal(t, want[i].Loc, got[i].Loc)
			assert.Equal(t, want[i].Scale, got[i].Scale)
			assert.Equal(t, want[i].Euler, got[i].Euler)
		}
	}

	starts[10].Loc = focus
	_, err = ComputeBeamPathConcurrent(context.Background(), starts, focus, 2, 9, 4)
	assert.ErrorIs(t, err, ErrDegenerate)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = ComputeBeamPathConcurrent(ctx, testPath(), focus, 2, 9, 2)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestSideText(t *testing.T) {
	for _, tc := range []struct {
		in   string
		want Side
	}{
		{"incoming", SideIncoming},
		{"in", SideIncoming},
		{"OUT", SideOutgoing},
		{" outgoing ", SideOutgoing},
	} {
		got, err := ParseSide(tc.in)
		require.NoError(t, err, tc.in)
		assert.Equal(t, tc.want, got)
	}

	_, err := ParseSide("sideways")
	assert.Error(t, err)

	b, err := SideOutgoing.MarshalText()
	require.NoError(t, err)
	assert.Equal(t, "outgoing", string(b))

	var s Side
	require.NoError(t, s.UnmarshalText([]byte("in")))
	assert.Equal(t, SideIncoming, s)

	_, err = Side(5).MarshalText()
	assert.Error(t, err)
}
