package bake

import "fmt"

// Report summarizes one bake run. Per-frame anomalies are counted
// here instead of logged individually.
type Report struct {
	Frames            int
	GroundMisses      int
	MissRuns          int
	LongMissRuns      int
	CompressionClamps int
	SkidFrames        int
}

// HasWarnings reports whether any non-fatal anomaly occurred.
func (r Report) HasWarnings() bool {
	return r.GroundMisses > 0 || r.CompressionClamps > 0
}

func (r Report) String() string {
	return fmt.Sprintf("baked %d frames (%d ground misses in %d runs, %d over the miss limit, %d compression clamps, %d skid frames)",
		r.Frames, r.GroundMisses, r.MissRuns, r.LongMissRuns, r.CompressionClamps, r.SkidFrames)
}
