package ground

import (
	"go.uber.org/zap"

	"github.com/Ni-zav/rigacar/pkg/math"
)

var down = math.Vec3{Z: -1}

// Sensor casts rays below one sensor bone and carries the last known
// good contact across frames. A miss never fails; the sensor falls
// back to the previous hit height, or the rest height when no frame
// has hit yet.
type Sensor struct {
	Name       string
	RestHeight float64

	// MissRunLimit escalates a contiguous miss run once it exceeds
	// this many frames, meaning the fallback height is likely stale.
	// Zero disables escalation.
	MissRunLimit int

	// Miss bookkeeping, summarized into the bake report.
	Misses   int
	MissRuns int
	LongRuns int

	lastGood Hit
	hasGood  bool
	missRun  int

	log *zap.Logger
}

// NewSensor creates a sensor with the given rest-pose contact height.
func NewSensor(name string, restHeight float64, log *zap.Logger) *Sensor {
	if log == nil {
		log = zap.NewNop()
	}
	return &Sensor{Name: name, RestHeight: restHeight, log: log}
}

// Probe casts straight down from origin and returns the contact to
// use this frame. The returned hit is always usable; Valid reports
// whether it came from a real surface intersection.
func (s *Sensor) Probe(c Caster, origin math.Vec3, maxDist float64) Hit {
	hit := c.CastRay(origin, down, maxDist)
	if hit.Valid {
		s.lastGood = hit
		s.hasGood = true
		s.missRun = 0
		return hit
	}

	s.Misses++
	if s.missRun == 0 {
		s.MissRuns++
		s.log.Warn("ground probe missed, using fallback height",
			zap.String("sensor", s.Name))
	}
	s.missRun++
	if s.MissRunLimit > 0 && s.missRun == s.MissRunLimit+1 {
		s.LongRuns++
		s.log.Warn("ground data missing for too many consecutive frames",
			zap.String("sensor", s.Name),
			zap.Int("frames", s.missRun))
	}

	height := s.RestHeight
	normal := math.Vec3{Z: 1}
	if s.hasGood {
		height = s.lastGood.Point.Z
		normal = s.lastGood.Normal
	}
	return Hit{
		Point:  math.Vec3{X: origin.X, Y: origin.Y, Z: height},
		Normal: normal,
		Valid:  false,
	}
}
