package bake

import (
	"context"
	"errors"
	gomath "math"
	"testing"

	"github.com/Ni-zav/rigacar/internal/config"
	"github.com/Ni-zav/rigacar/internal/ground"
	"github.com/Ni-zav/rigacar/internal/rig"
	"github.com/Ni-zav/rigacar/pkg/math"
)

func testWheels(radius float64) []rig.WheelBounds {
	return []rig.WheelBounds{
		{Center: math.Vec3{X: 0.8, Y: -1.3, Z: radius}, Radius: radius},
		{Center: math.Vec3{X: -0.8, Y: -1.3, Z: radius}, Radius: radius},
		{Center: math.Vec3{X: 0.8, Y: 1.3, Z: radius}, Radius: radius},
		{Center: math.Vec3{X: -0.8, Y: 1.3, Z: radius}, Radius: radius},
	}
}

func testSkeleton(t *testing.T, radius float64) *rig.Skeleton {
	t.Helper()
	cfg := config.Default()
	schema, err := rig.NewSchema(cfg.Rig)
	if err != nil {
		t.Fatal(err)
	}
	sk, err := rig.Build(schema, testWheels(radius), rig.BuildOptions{
		MaxSteeringAngle: cfg.Bake.MaxSteeringAngle,
		SuspensionTravel: cfg.Bake.SuspensionTravel,
	})
	if err != nil {
		t.Fatal(err)
	}
	return sk
}

// straightMotion moves the root 1 unit per frame toward -Y.
func straightMotion(frames int) Motion {
	m := make(Motion, 0, frames+1)
	for f := 0; f <= frames; f++ {
		m = append(m, Sample{
			Frame:    f,
			Position: math.Vec3{Y: -float64(f)},
			Rotation: math.QuatIdentity(),
		})
	}
	return m
}

func testDriver(t *testing.T, env ground.Caster) *Driver {
	t.Helper()
	return NewDriver(testSkeleton(t, 0.5), env, config.Default().Bake, nil)
}

func TestBakeStraightLine(t *testing.T) {
	d := testDriver(t, ground.Plane{Height: 0})
	out := NewChannelSet()
	report, err := d.BakeRange(context.Background(), straightMotion(10), 0, 10, StrategyGroundProjected, out)
	if err != nil {
		t.Fatalf("BakeRange() error = %v", err)
	}
	if report.Frames != 11 {
		t.Errorf("frames = %d, want 11", report.Frames)
	}
	if report.GroundMisses != 0 {
		t.Errorf("ground misses = %d, want 0", report.GroundMisses)
	}

	// 10 units at radius 0.5 accumulate 20 radians of spin.
	spin := out.Channel("MCH_WheelRotation_FL_0", PathRotX)
	if got := spin.Evaluate(10); gomath.Abs(got-20) > 1e-9 {
		t.Errorf("spin at frame 10 = %v, want 20", got)
	}

	for _, k := range out.Channel("MCH_Steering", PathRotZ).Keys {
		if k.Value != 0 {
			t.Errorf("steering at frame %d = %v, want 0", k.Frame, k.Value)
		}
	}
	for _, axle := range []rig.Axle{rig.AxleFront, rig.AxleBack} {
		for _, k := range out.Channel(rig.SuspensionName(axle), PathLocZ).Keys {
			if gomath.Abs(k.Value) > 1e-9 {
				t.Errorf("compression %c at frame %d = %v, want 0", axle, k.Frame, k.Value)
			}
		}
	}
}

func TestBakeIdempotent(t *testing.T) {
	d := testDriver(t, ground.Plane{Height: 0})
	motion := straightMotion(10)

	a := NewChannelSet()
	b := NewChannelSet()
	if _, err := d.BakeRange(context.Background(), motion, 0, 10, StrategyGroundProjected, a); err != nil {
		t.Fatal(err)
	}
	if _, err := d.BakeRange(context.Background(), motion, 0, 10, StrategyGroundProjected, b); err != nil {
		t.Fatal(err)
	}

	ca, cb := a.All(), b.All()
	if len(ca) != len(cb) {
		t.Fatalf("channel counts differ: %d vs %d", len(ca), len(cb))
	}
	for i := range ca {
		if ca[i].Bone != cb[i].Bone || ca[i].Path != cb[i].Path {
			t.Fatalf("channel order differs at %d", i)
		}
		if len(ca[i].Keys) != len(cb[i].Keys) {
			t.Fatalf("%s/%s key counts differ", ca[i].Bone, ca[i].Path)
		}
		for j := range ca[i].Keys {
			if ca[i].Keys[j] != cb[i].Keys[j] {
				t.Errorf("%s/%s key %d differs: %v vs %v",
					ca[i].Bone, ca[i].Path, j, ca[i].Keys[j], cb[i].Keys[j])
			}
		}
	}
}

func TestBakeRangeIsolation(t *testing.T) {
	d := testDriver(t, ground.Plane{Height: 0})
	motion := straightMotion(20)
	out := NewChannelSet()

	if _, err := d.BakeRange(context.Background(), motion, 0, 20, StrategyGroundProjected, out); err != nil {
		t.Fatal(err)
	}

	outside := make(map[string][]Key)
	for _, c := range out.All() {
		for _, k := range c.Keys {
			if k.Frame < 10 || k.Frame > 15 {
				outside[c.Bone+"/"+c.Path] = append(outside[c.Bone+"/"+c.Path], k)
			}
		}
	}

	if _, err := d.BakeRange(context.Background(), motion, 10, 15, StrategyGroundProjected, out); err != nil {
		t.Fatal(err)
	}

	for _, c := range out.All() {
		var got []Key
		for _, k := range c.Keys {
			if k.Frame < 10 || k.Frame > 15 {
				got = append(got, k)
			}
		}
		want := outside[c.Bone+"/"+c.Path]
		if len(got) != len(want) {
			t.Errorf("%s/%s outside keys changed: %d vs %d", c.Bone, c.Path, len(got), len(want))
			continue
		}
		for i := range got {
			if got[i] != want[i] {
				t.Errorf("%s/%s outside key %d changed: %v vs %v", c.Bone, c.Path, i, got[i], want[i])
			}
		}
	}
}

// holePlane misses probes whose origin Y lies inside the hole span.
type holePlane struct {
	from, to float64
}

func (h holePlane) CastRay(origin, dir math.Vec3, maxDist float64) ground.Hit {
	if origin.Y >= h.from && origin.Y <= h.to {
		return ground.Hit{}
	}
	return ground.Plane{Height: 0}.CastRay(origin, dir, maxDist)
}

func TestBakeGroundFallback(t *testing.T) {
	d := testDriver(t, holePlane{from: -7, to: -5})
	out := NewChannelSet()
	report, err := d.BakeRange(context.Background(), straightMotion(10), 0, 10, StrategyGroundProjected, out)
	if err != nil {
		t.Fatal(err)
	}

	if report.GroundMisses == 0 {
		t.Fatal("expected ground misses over the hole")
	}
	// Each of the 6 sensors crosses the hole exactly once.
	if report.MissRuns != 6 {
		t.Errorf("miss runs = %d, want 6", report.MissRuns)
	}
	if report.LongMissRuns != 0 {
		t.Errorf("long miss runs = %d, want 0 under the default limit", report.LongMissRuns)
	}

	// A limit of one frame escalates every two-frame run.
	cfg := config.Default().Bake
	cfg.MissWarnLimit = 1
	strict := NewDriver(testSkeleton(t, 0.5), holePlane{from: -7, to: -5}, cfg, nil)
	report, err = strict.BakeRange(context.Background(), straightMotion(10), 0, 10, StrategyGroundProjected, NewChannelSet())
	if err != nil {
		t.Fatal(err)
	}
	if report.LongMissRuns != 6 {
		t.Errorf("long miss runs = %d, want 6", report.LongMissRuns)
	}

	// Fallback keeps the last good height, so compression never jumps.
	for _, axle := range []rig.Axle{rig.AxleFront, rig.AxleBack} {
		for _, k := range out.Channel(rig.SuspensionName(axle), PathLocZ).Keys {
			if gomath.Abs(k.Value) > 1e-9 {
				t.Errorf("compression %c at frame %d = %v, want 0", axle, k.Frame, k.Value)
			}
		}
	}
}

func TestBakeCancellation(t *testing.T) {
	d := testDriver(t, ground.Plane{Height: 0})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	out := NewChannelSet()
	report, err := d.BakeRange(ctx, straightMotion(10), 0, 10, StrategyGroundProjected, out)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("BakeRange() error = %v, want context.Canceled", err)
	}
	if report.Frames != 0 {
		t.Errorf("frames = %d, want 0", report.Frames)
	}
}

func TestBakeInvalidRadius(t *testing.T) {
	d := NewDriver(testSkeleton(t, 0), ground.Plane{Height: 0}, config.Default().Bake, nil)
	out := NewChannelSet()
	_, err := d.BakeRange(context.Background(), straightMotion(5), 0, 5, StrategySimple, out)
	var gerr *rig.InvalidWheelGeometryError
	if !errors.As(err, &gerr) {
		t.Fatalf("BakeRange() error = %v, want InvalidWheelGeometryError", err)
	}
	if len(out.All()) != 0 {
		t.Error("failed bake should not create channels")
	}
}

func TestBakeDriftCounter(t *testing.T) {
	cfg := config.Default().Bake
	d := NewDriver(testSkeleton(t, 0.5), ground.Plane{Height: 0}, cfg, nil)

	// Slide diagonally while facing -Y: slip angle 45 degrees.
	m := make(Motion, 0, 11)
	for f := 0; f <= 10; f++ {
		m = append(m, Sample{
			Frame:    f,
			Position: math.Vec3{X: float64(f), Y: -float64(f)},
			Rotation: math.QuatIdentity(),
		})
	}

	out := NewChannelSet()
	report, err := d.BakeRange(context.Background(), m, 0, 10, StrategyDrift, out)
	if err != nil {
		t.Fatal(err)
	}
	if report.SkidFrames == 0 {
		t.Error("diagonal slide should produce skid frames")
	}

	drift := out.Channel("Drift", PathRotZ)
	steer := out.Channel("MCH_Steering", PathRotZ)
	if got := drift.Evaluate(10); got == 0 {
		t.Fatal("drift counter should be nonzero while skidding")
	}
	if got, want := drift.Evaluate(10), -steer.Evaluate(10); gomath.Abs(got-want) > 1e-9 {
		t.Errorf("drift counter = %v, want %v", got, want)
	}
}

func TestBakeSimpleSkipsGround(t *testing.T) {
	d := testDriver(t, ground.Plane{Height: 0})
	out := NewChannelSet()
	if _, err := d.BakeRange(context.Background(), straightMotion(5), 0, 5, StrategySimple, out); err != nil {
		t.Fatal(err)
	}
	for _, c := range out.All() {
		if c.Path == PathLocZ {
			t.Errorf("simple strategy wrote ground channel %s/%s", c.Bone, c.Path)
		}
	}
}

func TestClearBakedData(t *testing.T) {
	d := testDriver(t, ground.Plane{Height: 0})
	out := NewChannelSet()
	if _, err := d.BakeRange(context.Background(), straightMotion(5), 0, 5, StrategyGroundProjected, out); err != nil {
		t.Fatal(err)
	}

	ClearBakedData(out, []string{"MCH_Steering"})
	if len(out.Channel("MCH_Steering", PathRotZ).Keys) != 0 {
		t.Error("cleared bone still has keys")
	}
	if len(out.Channel("MCH_WheelRotation_FL_0", PathRotX).Keys) == 0 {
		t.Error("unrelated bone lost keys")
	}
}

func TestBakeKeyframeTolerance(t *testing.T) {
	cfg := config.Default().Bake
	cfg.KeyframeTolerance = 1e-6
	d := NewDriver(testSkeleton(t, 0.5), ground.Plane{Height: 0}, cfg, nil)

	out := NewChannelSet()
	if _, err := d.BakeRange(context.Background(), straightMotion(10), 0, 10, StrategyGroundProjected, out); err != nil {
		t.Fatal(err)
	}

	// Constant-speed straight motion makes every channel linear, so
	// thinning reduces each to its endpoints.
	spin := out.Channel("MCH_WheelRotation_FL_0", PathRotX)
	if len(spin.Keys) != 2 {
		t.Errorf("thinned spin keys = %d, want 2", len(spin.Keys))
	}
	if spin.Keys[0].Frame != 0 || spin.Keys[len(spin.Keys)-1].Frame != 10 {
		t.Errorf("thinned endpoints = %v", spin.Keys)
	}
	// Interpolated evaluation still matches the dense bake.
	if got := spin.Evaluate(5); gomath.Abs(got-10) > 1e-9 {
		t.Errorf("spin at frame 5 = %v, want 10", got)
	}
}

func TestParseStrategy(t *testing.T) {
	for name, want := range map[string]Strategy{
		"simple": StrategySimple,
		"ground": StrategyGroundProjected,
		"drift":  StrategyDrift,
	} {
		got, err := ParseStrategy(name)
		if err != nil || got != want {
			t.Errorf("ParseStrategy(%q) = %v, %v", name, got, err)
		}
	}
	if _, err := ParseStrategy("bogus"); err == nil {
		t.Error("unknown strategy should fail")
	}
}
