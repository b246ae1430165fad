// Package ground probes the environment below the vehicle and tracks
// per-sensor contact state across frames.
package ground

import (
	"github.com/Ni-zav/rigacar/pkg/math"
)

// Hit is the result of one ground probe. Valid is false when nothing
// was hit within the probe distance.
type Hit struct {
	Point  math.Vec3
	Normal math.Vec3
	Valid  bool
}

// Caster answers ray queries against the environment's collision
// geometry. Implementations are read-only and safe to share between
// sensors.
type Caster interface {
	// CastRay traces from origin along dir (unit length) up to
	// maxDist and returns the nearest hit.
	CastRay(origin, dir math.Vec3, maxDist float64) Hit
}

// Plane is a flat horizontal ground at a fixed height.
type Plane struct {
	Height float64
}

func (p Plane) CastRay(origin, dir math.Vec3, maxDist float64) Hit {
	if dir.Z >= 0 {
		return Hit{}
	}
	t := (p.Height - origin.Z) / dir.Z
	if t < 0 || t > maxDist {
		return Hit{}
	}
	return Hit{
		Point:  origin.Add(dir.Scale(t)),
		Normal: math.Vec3{Z: 1},
		Valid:  true,
	}
}

// Heightfield is a regular grid of terrain heights sampled bilinearly.
// Cells outside the grid are holes: rays over them miss.
type Heightfield struct {
	Heights  []float64
	Width    int
	Depth    int
	CellSize float64
	Origin   math.Vec2
}

// HeightAt samples the terrain height at a world XY position using
// bilinear interpolation of the four surrounding grid points.
func (h *Heightfield) HeightAt(x, y float64) (float64, bool) {
	gx := (x - h.Origin.X) / h.CellSize
	gy := (y - h.Origin.Y) / h.CellSize
	if gx < 0 || gy < 0 || gx > float64(h.Width-1) || gy > float64(h.Depth-1) {
		return 0, false
	}

	x0, y0 := int(gx), int(gy)
	x1, y1 := x0+1, y0+1
	if x1 > h.Width-1 {
		x1 = h.Width - 1
	}
	if y1 > h.Depth-1 {
		y1 = h.Depth - 1
	}
	fx := gx - float64(x0)
	fy := gy - float64(y0)

	h00 := h.Heights[y0*h.Width+x0]
	h10 := h.Heights[y0*h.Width+x1]
	h01 := h.Heights[y1*h.Width+x0]
	h11 := h.Heights[y1*h.Width+x1]

	top := math.Lerp(h00, h10, fx)
	bottom := math.Lerp(h01, h11, fx)
	return math.Lerp(top, bottom, fy), true
}

// normalAt estimates the surface normal from central height
// differences.
func (h *Heightfield) normalAt(x, y float64) math.Vec3 {
	const eps = 0.01
	hl, okL := h.HeightAt(x-eps, y)
	hr, okR := h.HeightAt(x+eps, y)
	hd, okD := h.HeightAt(x, y-eps)
	hu, okU := h.HeightAt(x, y+eps)
	if !okL || !okR || !okD || !okU {
		return math.Vec3{Z: 1}
	}
	return math.Vec3{
		X: (hl - hr) / (2 * eps),
		Y: (hd - hu) / (2 * eps),
		Z: 1,
	}.Normalize()
}

func (h *Heightfield) CastRay(origin, dir math.Vec3, maxDist float64) Hit {
	// Vertical probes dominate here; solve directly instead of
	// marching when the ray points straight down.
	if dir.Z >= 0 {
		return Hit{}
	}
	if dir.X == 0 && dir.Y == 0 {
		height, ok := h.HeightAt(origin.X, origin.Y)
		if !ok {
			return Hit{}
		}
		t := (height - origin.Z) / dir.Z
		if t < 0 || t > maxDist {
			return Hit{}
		}
		return Hit{
			Point:  math.Vec3{X: origin.X, Y: origin.Y, Z: height},
			Normal: h.normalAt(origin.X, origin.Y),
			Valid:  true,
		}
	}

	// Slanted ray: march in small steps until the ray dips below the
	// surface, then refine by bisection.
	const steps = 64
	step := maxDist / steps
	prev := origin
	for i := 1; i <= steps; i++ {
		p := origin.Add(dir.Scale(float64(i) * step))
		height, ok := h.HeightAt(p.X, p.Y)
		if ok && p.Z <= height {
			lo, hi := prev, p
			for j := 0; j < 16; j++ {
				mid := lo.Add(hi).Scale(0.5)
				mh, mok := h.HeightAt(mid.X, mid.Y)
				if mok && mid.Z <= mh {
					hi = mid
				} else {
					lo = mid
				}
			}
			return Hit{Point: hi, Normal: h.normalAt(hi.X, hi.Y), Valid: true}
		}
		prev = p
	}
	return Hit{}
}
