package variants

import (
	"testing"

	"github.com/unipad/unipad-agent/hidapi"
	"github.com/unipad/unipad-agent/pad"
)

func TestGenericMapping(t *testing.T) {
	p := New(Generic)
	var s pad.State
	p.InitReport(&s)
	if !s.Idle() {
		t.Fatalf("state not idle after init: %s", s)
	}
	ctx := hidapi.ScalingContext{LogicalMin: 0, LogicalMax: 255}
	p.ParseUsage(&s, ctx, hidapi.PageGenericDesktop, hidapi.UsageX, 255)
	if s.AxisLX != pad.AxisMax {
		t.Errorf("lx: %d != %d", s.AxisLX, pad.AxisMax)
	}
	p.ParseUsage(&s, ctx, hidapi.PageButton, 0x01, 1)
	if !s.Pressed(pad.ButtonA) {
		t.Error("button 1 should map to a")
	}
	hat := hidapi.ScalingContext{LogicalMin: 0, LogicalMax: 7}
	p.ParseUsage(&s, hat, hidapi.PageGenericDesktop, hidapi.UsageHatSwitch, 4)
	if s.DPad != pad.DPadSouth {
		t.Errorf("dpad: %s != s", s.DPad)
	}
}

func TestGenericIgnoresAndroidOnlyUsages(t *testing.T) {
	p := New(Generic)
	var s pad.State
	p.InitReport(&s)
	before := s
	ctx := hidapi.ScalingContext{LogicalMin: 0, LogicalMax: 255}
	p.ParseUsage(&s, ctx, hidapi.PageSimulation, hidapi.UsageAccelerator, 200)
	p.ParseUsage(&s, ctx, hidapi.PageConsumer, hidapi.UsageACHome, 1)
	if s != before {
		t.Errorf("state changed by unmapped usages: %s", s)
	}
}

func TestGenericPlayerLEDsNoOp(t *testing.T) {
	p := New(Generic)
	w := &recordingWriter{}
	if err := p.SetPlayerLEDs(w, 0b0001); err != nil {
		t.Fatal(err)
	}
	if err := p.SetPlayerLEDs(w, 0b0010); err != nil {
		t.Fatal(err)
	}
	if len(w.reports) != 0 {
		t.Errorf("no-LED variant wrote %d reports", len(w.reports))
	}
}
