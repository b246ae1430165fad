package bake

import (
	gomath "math"
	"sort"

	"github.com/Ni-zav/rigacar/pkg/math"
)

// Key is one baked keyframe.
type Key struct {
	Frame int     `yaml:"frame"`
	Value float64 `yaml:"value"`
}

// Channel holds the baked keys for one bone property, ordered by
// frame. Path names the animated property, e.g. rotation_euler.x.
type Channel struct {
	Bone string `yaml:"bone"`
	Path string `yaml:"path"`
	Keys []Key  `yaml:"keys"`
}

// Set inserts or replaces the key at the given frame, keeping frame
// order.
func (c *Channel) Set(frame int, value float64) {
	i := sort.Search(len(c.Keys), func(i int) bool { return c.Keys[i].Frame >= frame })
	if i < len(c.Keys) && c.Keys[i].Frame == frame {
		c.Keys[i].Value = value
		return
	}
	c.Keys = append(c.Keys, Key{})
	copy(c.Keys[i+1:], c.Keys[i:])
	c.Keys[i] = Key{Frame: frame, Value: value}
}

// ClearRange removes keys with start <= frame <= end. Keys outside
// the range are untouched.
func (c *Channel) ClearRange(start, end int) {
	kept := c.Keys[:0]
	for _, k := range c.Keys {
		if k.Frame < start || k.Frame > end {
			kept = append(kept, k)
		}
	}
	c.Keys = kept
}

// Evaluate returns the channel value at a frame, interpolating
// linearly between keys and holding the end values outside the keyed
// range. A channel with no keys evaluates to zero.
func (c *Channel) Evaluate(frame float64) float64 {
	if len(c.Keys) == 0 {
		return 0
	}
	if frame <= float64(c.Keys[0].Frame) {
		return c.Keys[0].Value
	}
	last := c.Keys[len(c.Keys)-1]
	if frame >= float64(last.Frame) {
		return last.Value
	}
	i := sort.Search(len(c.Keys), func(i int) bool { return float64(c.Keys[i].Frame) >= frame })
	a, b := c.Keys[i-1], c.Keys[i]
	t := (frame - float64(a.Frame)) / float64(b.Frame-a.Frame)
	return math.Lerp(a.Value, b.Value, t)
}

// Thin drops keys whose value is reproduced by linear interpolation
// of their neighbors within tolerance. The first and last key are
// always kept.
func (c *Channel) Thin(tolerance float64) {
	if len(c.Keys) == 0 {
		return
	}
	c.ThinRange(c.Keys[0].Frame, c.Keys[len(c.Keys)-1].Frame, tolerance)
}

// ThinRange thins only keys with start <= frame <= end, keeping the
// first and last key of that span. Keys outside the span are never
// touched.
func (c *Channel) ThinRange(start, end int, tolerance float64) {
	if tolerance <= 0 {
		return
	}
	lo := sort.Search(len(c.Keys), func(i int) bool { return c.Keys[i].Frame >= start })
	hi := sort.Search(len(c.Keys), func(i int) bool { return c.Keys[i].Frame > end })
	if hi-lo <= 2 {
		return
	}
	span := c.Keys[lo:hi]
	kept := []Key{span[0]}
	for i := 1; i < len(span)-1; i++ {
		prev := kept[len(kept)-1]
		next := span[i+1]
		cur := span[i]
		t := float64(cur.Frame-prev.Frame) / float64(next.Frame-prev.Frame)
		interp := math.Lerp(prev.Value, next.Value, t)
		if gomath.Abs(interp-cur.Value) > tolerance {
			kept = append(kept, cur)
		}
	}
	kept = append(kept, span[len(span)-1])

	out := make([]Key, 0, lo+len(kept)+len(c.Keys)-hi)
	out = append(out, c.Keys[:lo]...)
	out = append(out, kept...)
	out = append(out, c.Keys[hi:]...)
	c.Keys = out
}

// ChannelSet owns the baked channels for one rig, keyed by
// bone+property.
type ChannelSet struct {
	channels map[string]*Channel
	order    []string
}

// NewChannelSet returns an empty channel set.
func NewChannelSet() *ChannelSet {
	return &ChannelSet{channels: make(map[string]*Channel)}
}

func channelKey(bone, path string) string {
	return bone + "/" + path
}

// Channel returns the channel for a bone property, creating it on
// first use.
func (s *ChannelSet) Channel(bone, path string) *Channel {
	key := channelKey(bone, path)
	if c, ok := s.channels[key]; ok {
		return c
	}
	c := &Channel{Bone: bone, Path: path}
	s.channels[key] = c
	s.order = append(s.order, key)
	return c
}

// All returns every channel in creation order.
func (s *ChannelSet) All() []*Channel {
	out := make([]*Channel, 0, len(s.order))
	for _, key := range s.order {
		out = append(out, s.channels[key])
	}
	return out
}

// ClearBones removes all baked keys for the given bones, leaving
// other bones' channels untouched.
func (s *ChannelSet) ClearBones(bones []string) {
	names := make(map[string]bool, len(bones))
	for _, b := range bones {
		names[b] = true
	}
	for _, c := range s.channels {
		if names[c.Bone] {
			c.Keys = nil
		}
	}
}
