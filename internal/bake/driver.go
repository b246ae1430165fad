package bake

import (
	"context"
	"fmt"
	gomath "math"

	"go.uber.org/zap"

	"github.com/Ni-zav/rigacar/internal/config"
	"github.com/Ni-zav/rigacar/internal/ground"
	"github.com/Ni-zav/rigacar/internal/kinematics"
	"github.com/Ni-zav/rigacar/internal/rig"
	"github.com/Ni-zav/rigacar/pkg/math"
)

// Animated property paths.
const (
	PathRotX = "rotation_euler.x"
	PathRotY = "rotation_euler.y"
	PathRotZ = "rotation_euler.z"
	PathLocZ = "location.z"
)

// Strategy selects how much of the rig a bake run animates.
type Strategy int

const (
	// StrategySimple bakes wheel spin and steering only.
	StrategySimple Strategy = iota
	// StrategyGroundProjected adds ground sensors, suspension and
	// body roll/pitch.
	StrategyGroundProjected
	// StrategyDrift adds the drift counter rotation on top of
	// ground projection.
	StrategyDrift
)

// ParseStrategy maps a strategy name to its value.
func ParseStrategy(name string) (Strategy, error) {
	switch name {
	case "simple":
		return StrategySimple, nil
	case "ground":
		return StrategyGroundProjected, nil
	case "drift":
		return StrategyDrift, nil
	}
	return 0, fmt.Errorf("unknown bake strategy %q", name)
}

func (s Strategy) String() string {
	switch s {
	case StrategySimple:
		return "simple"
	case StrategyGroundProjected:
		return "ground"
	case StrategyDrift:
		return "drift"
	}
	return "unknown"
}

// Driver runs bake passes over a skeleton. One driver may run several
// passes, but never concurrently; carried state lives per pass.
type Driver struct {
	skel *rig.Skeleton
	env  ground.Caster
	cfg  config.BakeConfig
	log  *zap.Logger

	// BrakeInput samples the animator's brake control scale for a
	// braked wheel, in [0.5, 1] where 1 means released. Nil means no
	// braking.
	BrakeInput func(frame int, bone string) float64
}

// NewDriver creates a driver for the given skeleton and environment.
func NewDriver(skel *rig.Skeleton, env ground.Caster, cfg config.BakeConfig, log *zap.Logger) *Driver {
	if log == nil {
		log = zap.NewNop()
	}
	return &Driver{skel: skel, env: env, cfg: cfg, log: log}
}

// ClearBakedData removes baked keys for the given bones from the
// channel set without touching other bones.
func ClearBakedData(out *ChannelSet, bones []string) {
	out.ClearBones(bones)
}

// BakeRange bakes frames [start, end] inclusive into out. Frames are
// processed strictly in order; the pass can be aborted between frames
// through ctx, leaving frames up to the abort point written.
func (d *Driver) BakeRange(ctx context.Context, motion Motion, start, end int, strategy Strategy, out *ChannelSet) (Report, error) {
	var report Report
	if end < start {
		return report, fmt.Errorf("invalid frame range [%d, %d]", start, end)
	}
	if err := d.validateWheels(); err != nil {
		return report, err
	}

	d.log.Info("baking",
		zap.Int("start", start),
		zap.Int("end", end),
		zap.Stringer("strategy", strategy))

	groundOn := strategy != StrategySimple
	driftOn := strategy == StrategyDrift && d.skel.Bone("Drift") != nil
	steerOn := d.skel.Bone("MCH_Steering") != nil

	// Overwrite semantics: the touched range is cleared up front so
	// stale keys from earlier runs cannot survive inside it.
	for _, c := range d.channels(out, groundOn, driftOn, steerOn) {
		c.ClearRange(start, end)
	}

	sensors := d.makeSensors(groundOn)
	st := newState()
	steerParams := kinematics.SteeringParams{
		MaxAngle: d.cfg.MaxSteeringAngle,
		Blend:    d.cfg.SteeringBlend,
	}

	var sample Sample
	haveSample := false
	for frame := start; frame <= end; frame++ {
		if err := ctx.Err(); err != nil {
			d.log.Warn("bake aborted", zap.Int("frame", frame))
			return report, err
		}

		if s, ok := motion.At(frame); ok {
			sample = s
			haveSample = true
		} else if !haveSample {
			return report, fmt.Errorf("no root motion sample at frame %d", frame)
		}

		d.bakeFrame(frame, sample, st, sensors, steerParams, out, groundOn, driftOn, steerOn, &report)
		report.Frames++
	}

	if d.cfg.KeyframeTolerance > 0 {
		for _, c := range d.channels(out, groundOn, driftOn, steerOn) {
			c.ThinRange(start, end, d.cfg.KeyframeTolerance)
		}
	}

	for _, s := range sensors {
		report.GroundMisses += s.Misses
		report.MissRuns += s.MissRuns
		report.LongMissRuns += s.LongRuns
	}

	if report.HasWarnings() {
		d.log.Warn("bake finished with warnings", zap.String("report", report.String()))
	} else {
		d.log.Info("bake finished", zap.String("report", report.String()))
	}
	return report, nil
}

// validateWheels rejects degenerate radii before any frame is baked.
func (d *Driver) validateWheels() error {
	const minRadius = 1e-6
	for _, a := range d.skel.Assemblies {
		if a.LeftRadius < minRadius {
			return &rig.InvalidWheelGeometryError{
				Wheel:  rig.WheelName(a.Axle, rig.SideLeft, a.Index),
				Radius: a.LeftRadius,
			}
		}
		if a.RightRadius < minRadius {
			return &rig.InvalidWheelGeometryError{
				Wheel:  rig.WheelName(a.Axle, rig.SideRight, a.Index),
				Radius: a.RightRadius,
			}
		}
	}
	return nil
}

// channels lists every channel a pass with the given features writes.
func (d *Driver) channels(out *ChannelSet, groundOn, driftOn, steerOn bool) []*Channel {
	var cs []*Channel
	for _, a := range d.skel.Assemblies {
		cs = append(cs,
			out.Channel(rig.WheelRotationName(a.Axle, rig.SideLeft, a.Index), PathRotX),
			out.Channel(rig.WheelRotationName(a.Axle, rig.SideRight, a.Index), PathRotX))
	}
	if steerOn {
		cs = append(cs, out.Channel("MCH_Steering", PathRotZ))
	}
	if driftOn {
		cs = append(cs, out.Channel("Drift", PathRotZ))
	}
	if groundOn {
		for _, axle := range d.axles() {
			cs = append(cs,
				out.Channel(rig.AxisName(axle), PathRotY),
				out.Channel(rig.AxleSensorName(axle), PathLocZ),
				out.Channel(rig.SuspensionName(axle), PathLocZ))
		}
		for _, a := range d.skel.Assemblies {
			cs = append(cs,
				out.Channel(rig.SensorName(a.Axle, rig.SideLeft, a.Index), PathLocZ),
				out.Channel(rig.SensorName(a.Axle, rig.SideRight, a.Index), PathLocZ))
		}
		cs = append(cs,
			out.Channel("MCH_Body", PathRotX),
			out.Channel("MCH_Body", PathLocZ))
	}
	return cs
}

func (d *Driver) axles() []rig.Axle {
	var axles []rig.Axle
	if len(d.skel.FrontAssemblies()) > 0 {
		axles = append(axles, rig.AxleFront)
	}
	if len(d.skel.BackAssemblies()) > 0 {
		axles = append(axles, rig.AxleBack)
	}
	return axles
}

// makeSensors builds one sensor per axle midpoint and per wheel. Rest
// heights come from the rest-pose sensor bones.
func (d *Driver) makeSensors(groundOn bool) map[string]*ground.Sensor {
	sensors := make(map[string]*ground.Sensor)
	if !groundOn {
		return sensors
	}
	add := func(name string) {
		rest := 0.0
		if b := d.skel.Bone(name); b != nil {
			rest = b.Head.Z
		}
		s := ground.NewSensor(name, rest, d.log)
		s.MissRunLimit = d.cfg.MissWarnLimit
		sensors[name] = s
	}
	for _, axle := range d.axles() {
		add(rig.AxleSensorName(axle))
	}
	for _, a := range d.skel.Assemblies {
		add(rig.SensorName(a.Axle, rig.SideLeft, a.Index))
		add(rig.SensorName(a.Axle, rig.SideRight, a.Index))
	}
	return sensors
}

// bakeFrame computes and writes every channel value for one frame.
// Order matters: sensors feed suspension, suspension and displacement
// feed steering, steering feeds wheel forward axes.
func (d *Driver) bakeFrame(frame int, sample Sample, st *state, sensors map[string]*ground.Sensor,
	steerParams kinematics.SteeringParams, out *ChannelSet,
	groundOn, driftOn, steerOn bool, report *Report) {

	pos := sample.Position
	forward := sample.Forward()
	disp := st.displacement(pos)

	// Ground sensors and suspension.
	axleCorr := map[rig.Axle]float64{}
	if groundOn {
		for _, axle := range d.axles() {
			name := rig.AxleSensorName(axle)
			restLocal := d.skel.Bone(name).Head
			rideLocal := restLocal
			if b := d.skel.Bone(rig.AxisName(axle)); b != nil {
				rideLocal = b.Head
			}
			origin := pos.Add(sample.Rotation.Rotate(rideLocal))
			hit := sensors[name].Probe(d.env, origin, d.cfg.ProbeDistance)
			corr := hit.Point.Z - (pos.Z + restLocal.Z)
			axleCorr[axle] = corr
			out.Channel(name, PathLocZ).Set(frame, corr)

			clearance := origin.Z - hit.Point.Z
			comp, outOfRange := kinematics.Compression(rideLocal.Z, clearance, d.cfg.SuspensionTravel)
			if outOfRange {
				report.CompressionClamps++
			}
			out.Channel(rig.SuspensionName(axle), PathLocZ).Set(frame, comp)
		}

		for _, a := range d.skel.Assemblies {
			heights := map[rig.Side]float64{}
			for _, side := range []rig.Side{rig.SideLeft, rig.SideRight} {
				center := a.LeftCenter
				if side == rig.SideRight {
					center = a.RightCenter
				}
				name := rig.SensorName(a.Axle, side, a.Index)
				origin := pos.Add(sample.Rotation.Rotate(center))
				hit := sensors[name].Probe(d.env, origin, d.cfg.ProbeDistance)
				heights[side] = hit.Point.Z - pos.Z
				out.Channel(name, PathLocZ).Set(frame, hit.Point.Z-pos.Z)
			}
			if a.Index == 0 {
				roll := kinematics.AxleRoll(heights[rig.SideLeft], heights[rig.SideRight], a.TrackWidth)
				out.Channel(rig.AxisName(a.Axle), PathRotY).Set(frame, roll)
			}
		}

		pitch := kinematics.BodyPitch(axleCorr[rig.AxleFront], axleCorr[rig.AxleBack], d.skel.Wheelbase)
		lift := kinematics.BodyLift(axleCorr[rig.AxleFront], axleCorr[rig.AxleBack],
			d.cfg.PitchFactor, d.cfg.RollFactor)
		out.Channel("MCH_Body", PathRotX).Set(frame, pitch)
		out.Channel("MCH_Body", PathLocZ).Set(frame, lift)
	}

	// Steering and drift.
	var steerAngle float64
	if steerOn {
		target := kinematics.SteeringTarget(disp, forward)
		clamped := math.Clamp(target, -steerParams.MaxAngle, steerParams.MaxAngle)
		steerAngle = st.steering.Update(target, steerParams)
		out.Channel("MCH_Steering", PathRotZ).Set(frame, steerAngle)

		if driftOn {
			slip := kinematics.SlipAngle(disp, forward)
			st.bodySkid = kinematics.NextSkid(st.bodySkid, slip, d.cfg.SkidAngle, d.cfg.SkidHysteresis)
			counterSource := steerAngle
			if !d.cfg.DriftAfterSmoothing {
				counterSource = clamped
			}
			counter := kinematics.DriftCounter(counterSource, st.bodySkid)
			out.Channel("Drift", PathRotZ).Set(frame, counter)
		}
	}

	// Wheel spin.
	wheelParams := kinematics.WheelParams{
		SkidAngle:      d.cfg.SkidAngle,
		SkidHysteresis: d.cfg.SkidHysteresis,
		SkidSlip:       d.cfg.SkidSlip,
	}
	skidding := false
	for _, a := range d.skel.Assemblies {
		wheelForward := forward
		if a.Axle == rig.AxleFront && steerOn {
			wheelForward = rotate2(forward, steerAngle)
		}
		for _, side := range []rig.Side{rig.SideLeft, rig.SideRight} {
			radius := a.LeftRadius
			if side == rig.SideRight {
				radius = a.RightRadius
			}
			name := rig.WheelRotationName(a.Axle, side, a.Index)
			brake := 1.0
			if a.HasBrake && d.BrakeInput != nil {
				brake = d.BrakeInput(frame, rig.BrakeName(a.Axle, side, a.Index))
			}
			params := wheelParams
			params.Radius = radius
			w := st.wheel(name)
			w.Advance(disp, wheelForward, brake, params)
			if w.Skidding {
				skidding = true
			}
			out.Channel(name, PathRotX).Set(frame, w.Spin)
		}
	}
	if skidding {
		report.SkidFrames++
	}
}

// rotate2 rotates a ground-plane vector counterclockwise by angle.
func rotate2(v math.Vec2, angle float64) math.Vec2 {
	sin, cos := gomath.Sincos(angle)
	return math.Vec2{
		X: v.X*cos - v.Y*sin,
		Y: v.X*sin + v.Y*cos,
	}
}
