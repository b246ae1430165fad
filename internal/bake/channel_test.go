package bake

import (
	gomath "math"
	"testing"
)

func TestChannelSetKeepsFrameOrder(t *testing.T) {
	var c Channel
	c.Set(5, 1)
	c.Set(1, 2)
	c.Set(3, 4)
	want := []Key{{1, 2}, {3, 4}, {5, 1}}
	if len(c.Keys) != len(want) {
		t.Fatalf("keys = %v", c.Keys)
	}
	for i, k := range want {
		if c.Keys[i] != k {
			t.Errorf("key %d = %v, want %v", i, c.Keys[i], k)
		}
	}
}

func TestChannelSetReplaces(t *testing.T) {
	var c Channel
	c.Set(3, 1)
	c.Set(3, 9)
	if len(c.Keys) != 1 || c.Keys[0].Value != 9 {
		t.Errorf("keys = %v, want single key with value 9", c.Keys)
	}
}

func TestChannelClearRange(t *testing.T) {
	var c Channel
	for f := 0; f <= 10; f++ {
		c.Set(f, float64(f))
	}
	c.ClearRange(3, 7)
	for _, k := range c.Keys {
		if k.Frame >= 3 && k.Frame <= 7 {
			t.Errorf("frame %d survived ClearRange", k.Frame)
		}
	}
	if len(c.Keys) != 6 {
		t.Errorf("keys = %d, want 6", len(c.Keys))
	}
}

func TestChannelEvaluate(t *testing.T) {
	var c Channel
	c.Set(0, 0)
	c.Set(10, 5)
	if got := c.Evaluate(5); gomath.Abs(got-2.5) > 1e-12 {
		t.Errorf("Evaluate(5) = %v, want 2.5", got)
	}
	if got := c.Evaluate(-3); got != 0 {
		t.Errorf("Evaluate before first key = %v, want 0", got)
	}
	if got := c.Evaluate(20); got != 5 {
		t.Errorf("Evaluate after last key = %v, want 5", got)
	}
}

func TestChannelThinLinearRun(t *testing.T) {
	var c Channel
	for f := 0; f <= 10; f++ {
		c.Set(f, float64(f)*2)
	}
	c.Thin(1e-9)
	if len(c.Keys) != 2 {
		t.Fatalf("thinned keys = %v, want endpoints only", c.Keys)
	}
	if c.Keys[0].Frame != 0 || c.Keys[1].Frame != 10 {
		t.Errorf("endpoints = %v", c.Keys)
	}
}

func TestChannelThinKeepsCorners(t *testing.T) {
	var c Channel
	c.Set(0, 0)
	c.Set(5, 0)
	c.Set(6, 3)
	c.Set(10, 3)
	c.Thin(1e-9)
	if len(c.Keys) != 4 {
		t.Errorf("corner keys should survive thinning: %v", c.Keys)
	}
}

func TestChannelThinRangeIsolation(t *testing.T) {
	var c Channel
	for f := 0; f <= 20; f++ {
		c.Set(f, float64(f))
	}
	c.ThinRange(5, 15, 1e-9)
	for _, f := range []int{0, 1, 2, 3, 4, 16, 17, 18, 19, 20} {
		found := false
		for _, k := range c.Keys {
			if k.Frame == f {
				found = true
			}
		}
		if !found {
			t.Errorf("frame %d outside range was removed", f)
		}
	}
}

func TestChannelSetClearBones(t *testing.T) {
	s := NewChannelSet()
	s.Channel("MCH_Steering", PathRotZ).Set(0, 1)
	s.Channel("MCH_Body", PathLocZ).Set(0, 2)
	s.ClearBones([]string{"MCH_Steering"})
	if len(s.Channel("MCH_Steering", PathRotZ).Keys) != 0 {
		t.Error("cleared bone still has keys")
	}
	if len(s.Channel("MCH_Body", PathLocZ).Keys) != 1 {
		t.Error("unrelated bone lost keys")
	}
}
