package rig

import (
	"fmt"
	"sort"

	"github.com/Ni-zav/rigacar/pkg/math"
)

// WheelBounds is the bounding sphere of one detected wheel mesh,
// supplied by the host scene at rig-build time.
type WheelBounds struct {
	Center math.Vec3
	Radius float64
}

// WheelAssembly is a positioned left/right wheel pair. Immutable once
// the skeleton is built.
type WheelAssembly struct {
	Axle  Axle
	Index int

	LeftCenter  math.Vec3
	RightCenter math.Vec3
	LeftRadius  float64
	RightRadius float64

	TrackWidth    float64
	RestClearance float64
	HasBrake      bool
}

// Midpoint returns the axle pair midpoint.
func (a WheelAssembly) Midpoint() math.Vec3 {
	return a.LeftCenter.Add(a.RightCenter).Scale(0.5)
}

// BuildOptions carries the numeric limits resolved into constraints at
// build time.
type BuildOptions struct {
	MaxSteeringAngle float64
	SuspensionTravel float64
	MaxAxleRoll      float64
}

// Skeleton is a fully positioned rig with resolved constraints and a
// precomputed constraint evaluation order.
type Skeleton struct {
	Bones      []*Bone
	Assemblies []WheelAssembly
	EvalOrder  []string
	Wheelbase  float64

	byName map[string]*Bone
}

// Bone returns the named bone, or nil.
func (s *Skeleton) Bone(name string) *Bone {
	return s.byName[name]
}

// FrontAssemblies returns the front axle wheel pairs.
func (s *Skeleton) FrontAssemblies() []WheelAssembly {
	return s.axleAssemblies(AxleFront)
}

// BackAssemblies returns the back axle wheel pairs.
func (s *Skeleton) BackAssemblies() []WheelAssembly {
	return s.axleAssemblies(AxleBack)
}

func (s *Skeleton) axleAssemblies(axle Axle) []WheelAssembly {
	var out []WheelAssembly
	for _, a := range s.Assemblies {
		if a.Axle == axle {
			out = append(out, a)
		}
	}
	return out
}

// Build positions the schema's bones from detected wheel geometry and
// resolves every constraint. On any error no skeleton is returned; a
// build either fully succeeds or leaves nothing behind.
func Build(schema *Schema, wheels []WheelBounds, opts BuildOptions) (*Skeleton, error) {
	if len(wheels) < 2 {
		return nil, &WheelDetectionError{Found: len(wheels)}
	}

	var left, right []WheelBounds
	for _, w := range wheels {
		if w.Center.X > 0 {
			left = append(left, w)
		} else {
			right = append(right, w)
		}
	}
	if len(left) != len(right) {
		return nil, &AmbiguousAxleError{Left: len(left), Right: len(right)}
	}

	// Front of the vehicle points toward -Y.
	byFront := func(ws []WheelBounds) {
		sort.Slice(ws, func(i, j int) bool { return ws[i].Center.Y < ws[j].Center.Y })
	}
	byFront(left)
	byFront(right)

	pairs := len(left)
	if pairs != schema.FrontPairs+schema.BackPairs {
		return nil, &ConfigurationError{
			Field:  "wheel_pairs",
			Reason: fmt.Sprintf("configuration expects %d pairs, detected %d", schema.FrontPairs+schema.BackPairs, pairs),
		}
	}

	assemblies := make([]WheelAssembly, 0, pairs)
	for p := 0; p < pairs; p++ {
		l, r := left[p], right[p]

		// Paired wheels must sit at the same position along the
		// vehicle length, within one wheel radius.
		tol := l.Radius
		if r.Radius > tol {
			tol = r.Radius
		}
		if tol <= 0 {
			tol = 1e-6
		}
		dy := l.Center.Y - r.Center.Y
		if dy < 0 {
			dy = -dy
		}
		if dy > tol {
			return nil, &AmbiguousAxleError{
				Left:   len(left),
				Right:  len(right),
				Reason: fmt.Sprintf("left wheel at Y=%g has no right wheel at the same axle position (nearest Y=%g)", l.Center.Y, r.Center.Y),
			}
		}

		track := l.Center.X - r.Center.X
		if track <= 0 {
			return nil, &AmbiguousAxleError{
				Left:   len(left),
				Right:  len(right),
				Reason: "paired wheels are not on opposite sides",
			}
		}
		a := WheelAssembly{
			Axle:          AxleFront,
			Index:         p,
			LeftCenter:    l.Center,
			RightCenter:   r.Center,
			LeftRadius:    l.Radius,
			RightRadius:   r.Radius,
			TrackWidth:    track,
			RestClearance: (l.Center.Z + r.Center.Z) / 2,
		}
		if p >= schema.FrontPairs {
			a.Axle = AxleBack
			a.Index = p - schema.FrontPairs
		}
		assemblies = append(assemblies, a)
	}

	sk := &Skeleton{
		Assemblies: assemblies,
		byName:     make(map[string]*Bone, len(schema.Bones)),
	}
	for i := range schema.Bones {
		b := schema.Bones[i] // copy
		b.Constraints = append([]Constraint(nil), schema.Bones[i].Constraints...)
		sk.Bones = append(sk.Bones, &b)
		sk.byName[b.Name] = &b
	}

	// Mark brake pairs present in the schema.
	for i, a := range sk.Assemblies {
		if sk.byName[BrakeName(a.Axle, SideLeft, a.Index)] != nil {
			sk.Assemblies[i].HasBrake = true
		}
	}

	if err := sk.place(); err != nil {
		return nil, err
	}
	if err := sk.resolveLimits(opts); err != nil {
		return nil, err
	}

	for _, b := range sk.Bones {
		if b.Parent != "" && sk.byName[b.Parent] == nil {
			return nil, &ConfigurationError{Field: "parent", Reason: "unknown bone " + b.Parent}
		}
		for _, c := range b.Constraints {
			if c.Target != "" && sk.byName[c.Target] == nil {
				return nil, &ConfigurationError{Field: "constraint", Reason: "unknown target " + c.Target}
			}
		}
	}

	order, err := evalOrder(sk.Bones)
	if err != nil {
		return nil, err
	}
	sk.EvalOrder = order

	return sk, nil
}

// place assigns head/tail positions from the wheel assemblies.
func (s *Skeleton) place() error {
	mids := map[Axle]math.Vec3{}
	counts := map[Axle]int{}
	for _, a := range s.Assemblies {
		mids[a.Axle] = mids[a.Axle].Add(a.Midpoint())
		counts[a.Axle]++
	}
	for axle, n := range counts {
		mids[axle] = mids[axle].Scale(1 / float64(n))
	}

	frontMid, hasFront := mids[AxleFront]
	backMid, hasBack := mids[AxleBack]
	switch {
	case hasFront && hasBack:
		s.Wheelbase = backMid.Y - frontMid.Y
	case hasFront:
		backMid = frontMid
	default:
		frontMid = backMid
	}
	center := frontMid.Add(backMid).Scale(0.5)

	rootLen := s.Wheelbase * 0.5
	if rootLen < 1 {
		rootLen = 1
	}
	fwd := math.Vec3{Y: -1}

	setBone := func(name string, head math.Vec3, tail math.Vec3) {
		if b := s.byName[name]; b != nil {
			b.Head = head
			b.Tail = tail
		}
	}

	setBone("Root", math.Vec3{}, fwd.Scale(rootLen))
	setBone("Drift", math.Vec3{}, fwd.Scale(rootLen*0.75))

	for axle, mid := range mids {
		ground := math.Vec3{X: 0, Y: mid.Y, Z: 0}
		ride := math.Vec3{X: 0, Y: mid.Y, Z: mid.Z}
		setBone(AxleSensorName(axle), ground, ground.Add(fwd.Scale(0.25)))
		setBone(AxisName(axle), ride, ride.Add(fwd.Scale(0.25)))
		setBone(SuspensionName(axle), ride, ride.Add(fwd.Scale(0.25)))
		setBone(DamperName(axle), ride, ride.Add(math.Vec3{Z: 0.3}))
	}

	for _, a := range s.Assemblies {
		for _, side := range []Side{SideLeft, SideRight} {
			c, r := a.LeftCenter, a.LeftRadius
			if side == SideRight {
				c, r = a.RightCenter, a.RightRadius
			}
			ground := math.Vec3{X: c.X, Y: c.Y, Z: 0}
			setBone(SensorName(a.Axle, side, a.Index), ground, ground.Add(fwd.Scale(0.25)))
			setBone(WheelRotationName(a.Axle, side, a.Index), c, c.Add(fwd.Scale(r)))
			setBone(WheelName(a.Axle, side, a.Index), c, c.Add(fwd.Scale(r)))
			if a.HasBrake {
				setBone(BrakeName(a.Axle, side, a.Index), c, c.Add(fwd.Scale(r*0.5)))
			}
		}
	}

	bodyHead := math.Vec3{X: 0, Y: center.Y, Z: center.Z}
	setBone("MCH_Body", bodyHead, bodyHead.Add(fwd.Scale(rootLen)))
	setBone("Suspension", bodyHead, bodyHead.Add(fwd.Scale(rootLen*0.4)))

	if hasFront {
		steerHead := math.Vec3{X: 0, Y: frontMid.Y - 1, Z: frontMid.Z}
		setBone("Steering", steerHead, steerHead.Add(fwd.Scale(0.3)))
		axleHead := math.Vec3{X: 0, Y: frontMid.Y, Z: frontMid.Z}
		setBone("MCH_Steering", axleHead, axleHead.Add(fwd.Scale(0.3)))
		setBone("MCH_SteeringRotation", axleHead, axleHead.Add(fwd.Scale(0.25)))
	}

	for _, b := range s.Bones {
		switch {
		case len(b.Name) >= 4 && b.Name[:4] == "Door":
			half := 0.0
			if len(s.Assemblies) > 0 {
				half = s.Assemblies[0].TrackWidth / 2
			}
			head := math.Vec3{X: half, Y: center.Y, Z: center.Z}
			if b.Name[6] == byte(SideRight) {
				head.X = -half
			}
			b.Head = head
			b.Tail = head.Add(fwd.Scale(0.5))
		case len(b.Name) >= 5 && b.Name[:5] == "Trunk":
			head := math.Vec3{X: 0, Y: backMid.Y + 0.5, Z: center.Z + 0.3}
			b.Head = head
			b.Tail = head.Add(math.Vec3{Y: 0.4})
		}
	}

	return nil
}

// resolveLimits fills limit constraint ranges from the build options.
func (s *Skeleton) resolveLimits(opts BuildOptions) error {
	maxRoll := opts.MaxAxleRoll
	if maxRoll == 0 {
		maxRoll = 0.35
	}

	for _, b := range s.Bones {
		for i := range b.Constraints {
			c := &b.Constraints[i]
			if c.Kind != ConstraintLimitRotation && c.Kind != ConstraintLimitLocation {
				continue
			}
			switch {
			case b.Name == "MCH_Steering" && c.Kind == ConstraintLimitRotation:
				c.Min = math.Vec3{Z: -opts.MaxSteeringAngle}
				c.Max = math.Vec3{Z: opts.MaxSteeringAngle}
			case c.Kind == ConstraintLimitRotation && c.Axes.Y && c.Name == "Roll Limit":
				c.Min = math.Vec3{Y: -maxRoll}
				c.Max = math.Vec3{Y: maxRoll}
			case c.Kind == ConstraintLimitLocation && c.Name == "Travel Limit":
				c.Min = math.Vec3{Z: b.Head.Z - opts.SuspensionTravel}
				c.Max = math.Vec3{Z: b.Head.Z + opts.SuspensionTravel}
			}
		}
	}
	return nil
}
