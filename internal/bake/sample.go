// Package bake runs the frame loop that converts root motion into
// keyframe channels for the rig's mechanism bones.
package bake

import (
	"sort"

	"github.com/Ni-zav/rigacar/pkg/math"
)

// Sample is the root bone's world transform at one frame. Samples are
// read-only input owned by the host animation layer.
type Sample struct {
	Frame    int       `yaml:"frame"`
	Position math.Vec3 `yaml:"position"`
	Rotation math.Quat `yaml:"rotation"`
}

// Motion is a frame-ordered root motion sequence.
type Motion []Sample

// Sort orders the samples by frame. Lookup assumes sorted input.
func (m Motion) Sort() {
	sort.Slice(m, func(i, j int) bool { return m[i].Frame < m[j].Frame })
}

// At returns the sample for an exact frame.
func (m Motion) At(frame int) (Sample, bool) {
	i := sort.Search(len(m), func(i int) bool { return m[i].Frame >= frame })
	if i < len(m) && m[i].Frame == frame {
		return m[i], true
	}
	return Sample{}, false
}

// Forward returns the sample's chassis forward axis projected onto
// the ground plane.
func (s Sample) Forward() math.Vec2 {
	return s.Rotation.Rotate(math.Vec3{Y: -1}).XY().Normalize()
}
