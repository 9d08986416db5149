package variants

import (
	"bytes"
	"testing"

	"github.com/unipad/unipad-agent/hidapi"
	"github.com/unipad/unipad-agent/pad"
)

func ctx8bit() hidapi.ScalingContext {
	return hidapi.ScalingContext{LogicalMin: 0, LogicalMax: 255}
}

func TestAndroidInitReportIdle(t *testing.T) {
	p := New(Android)
	var s pad.State
	s.Buttons = pad.ButtonA
	s.AxisLX = 100
	s.Battery = 50
	p.InitReport(&s)
	if !s.Idle() {
		t.Errorf("state not idle after init: %s", s)
	}
}

func TestAndroidSticks(t *testing.T) {
	p := New(Android)
	var s pad.State
	p.InitReport(&s)
	ctx := ctx8bit()
	p.ParseUsage(&s, ctx, hidapi.PageGenericDesktop, hidapi.UsageX, 0)
	p.ParseUsage(&s, ctx, hidapi.PageGenericDesktop, hidapi.UsageY, 255)
	p.ParseUsage(&s, ctx, hidapi.PageGenericDesktop, hidapi.UsageZ, 128)
	p.ParseUsage(&s, ctx, hidapi.PageGenericDesktop, hidapi.UsageRz, 64)
	if s.AxisLX != pad.AxisMin {
		t.Errorf("lx: %d != %d", s.AxisLX, pad.AxisMin)
	}
	if s.AxisLY != pad.AxisMax {
		t.Errorf("ly: %d != %d", s.AxisLY, pad.AxisMax)
	}
	if s.AxisRX <= pad.AxisCenter-5 || s.AxisRX >= pad.AxisCenter+5 {
		t.Errorf("rx not near center: %d", s.AxisRX)
	}
	if s.AxisRY >= pad.AxisCenter {
		t.Errorf("ry should be in the lower half: %d", s.AxisRY)
	}
}

func TestAndroidTriggers(t *testing.T) {
	p := New(Android)
	var s pad.State
	p.InitReport(&s)
	ctx := ctx8bit()
	p.ParseUsage(&s, ctx, hidapi.PageSimulation, hidapi.UsageBrake, 255)
	p.ParseUsage(&s, ctx, hidapi.PageSimulation, hidapi.UsageAccelerator, 0)
	if s.Brake != pad.TriggerMax {
		t.Errorf("brake: %d != %d", s.Brake, pad.TriggerMax)
	}
	if s.Throttle != pad.TriggerMin {
		t.Errorf("throttle: %d != %d", s.Throttle, pad.TriggerMin)
	}

	// Rx/Ry alias used by older firmwares.
	p.ParseUsage(&s, ctx, hidapi.PageGenericDesktop, hidapi.UsageRx, 128)
	if s.Brake == pad.TriggerMax {
		t.Errorf("brake not updated from Rx: %d", s.Brake)
	}
}

func TestAndroidButtons(t *testing.T) {
	p := New(Android)
	var s pad.State
	p.InitReport(&s)
	ctx := hidapi.ScalingContext{LogicalMin: 0, LogicalMax: 1}
	buttons := []struct {
		usage  uint16
		button pad.Buttons
	}{
		{0x01, pad.ButtonA},
		{0x02, pad.ButtonB},
		{0x04, pad.ButtonX},
		{0x05, pad.ButtonY},
		{0x07, pad.ButtonShoulderL},
		{0x08, pad.ButtonShoulderR},
		{0x09, pad.ButtonTriggerL},
		{0x0a, pad.ButtonTriggerR},
		{0x0e, pad.ButtonThumbL},
		{0x0f, pad.ButtonThumbR},
	}
	for _, b := range buttons {
		p.ParseUsage(&s, ctx, hidapi.PageButton, b.usage, 1)
		if !s.Pressed(b.button) {
			t.Errorf("usage 0x%02x: button %s not pressed", b.usage, b.button)
		}
		p.ParseUsage(&s, ctx, hidapi.PageButton, b.usage, 0)
		if s.Pressed(b.button) {
			t.Errorf("usage 0x%02x: button %s not released", b.usage, b.button)
		}
	}
}

func TestAndroidMiscButtons(t *testing.T) {
	p := New(Android)
	var s pad.State
	p.InitReport(&s)
	ctx := hidapi.ScalingContext{LogicalMin: 0, LogicalMax: 1}
	p.ParseUsage(&s, ctx, hidapi.PageConsumer, hidapi.UsageACHome, 1)
	if s.Misc&pad.MiscHome == 0 {
		t.Error("home not set from consumer page")
	}
	p.ParseUsage(&s, ctx, hidapi.PageConsumer, hidapi.UsageACBack, 1)
	if s.Misc&pad.MiscBack == 0 {
		t.Error("back not set from consumer page")
	}
	p.ParseUsage(&s, ctx, hidapi.PageGenericDesktop, hidapi.UsageSystemMainMenu, 1)
	if s.Misc&pad.MiscSystem == 0 {
		t.Error("system not set")
	}
}

func TestAndroidHat(t *testing.T) {
	p := New(Android)
	var s pad.State
	p.InitReport(&s)
	ctx := hidapi.ScalingContext{LogicalMin: 0, LogicalMax: 7}
	dirs := []pad.DPad{
		pad.DPadNorth, pad.DPadNorthEast, pad.DPadEast, pad.DPadSouthEast,
		pad.DPadSouth, pad.DPadSouthWest, pad.DPadWest, pad.DPadNorthWest,
	}
	for v, want := range dirs {
		p.ParseUsage(&s, ctx, hidapi.PageGenericDesktop, hidapi.UsageHatSwitch, int32(v))
		if s.DPad != want {
			t.Errorf("hat %d: %s != %s", v, s.DPad, want)
		}
	}
	p.ParseUsage(&s, ctx, hidapi.PageGenericDesktop, hidapi.UsageHatSwitch, 15)
	if s.DPad != pad.DPadCentered {
		t.Errorf("null state: %s != centered", s.DPad)
	}
}

func TestAndroidDiscreteDPad(t *testing.T) {
	p := New(Android)
	var s pad.State
	p.InitReport(&s)
	ctx := hidapi.ScalingContext{LogicalMin: 0, LogicalMax: 1}
	p.ParseUsage(&s, ctx, hidapi.PageGenericDesktop, hidapi.UsageDPadUp, 1)
	if s.DPad != pad.DPadNorth {
		t.Errorf("up: %s != n", s.DPad)
	}
	p.ParseUsage(&s, ctx, hidapi.PageGenericDesktop, hidapi.UsageDPadRight, 1)
	if s.DPad != pad.DPadNorthEast {
		t.Errorf("up+right: %s != ne", s.DPad)
	}
	p.ParseUsage(&s, ctx, hidapi.PageGenericDesktop, hidapi.UsageDPadUp, 0)
	if s.DPad != pad.DPadEast {
		t.Errorf("right: %s != e", s.DPad)
	}
	// Opposite directions cancel.
	p.ParseUsage(&s, ctx, hidapi.PageGenericDesktop, hidapi.UsageDPadLeft, 1)
	if s.DPad != pad.DPadCentered {
		t.Errorf("left+right: %s != centered", s.DPad)
	}
}

func TestAndroidBattery(t *testing.T) {
	p := New(Android)
	var s pad.State
	p.InitReport(&s)
	if s.Battery != pad.BatteryUnknown {
		t.Fatalf("battery: %d != unknown", s.Battery)
	}
	ctx := hidapi.ScalingContext{LogicalMin: 0, LogicalMax: 100}
	p.ParseUsage(&s, ctx, hidapi.PageGenericDevice, hidapi.UsageBatteryStrength, 100)
	if s.Battery != pad.BatteryMax {
		t.Errorf("battery: %d != %d", s.Battery, pad.BatteryMax)
	}
	// Degenerate scaling context falls back to unknown.
	p.ParseUsage(&s, hidapi.ScalingContext{}, hidapi.PageGenericDevice, hidapi.UsageBatteryStrength, 100)
	if s.Battery != pad.BatteryUnknown {
		t.Errorf("battery after degenerate context: %d != unknown", s.Battery)
	}
}

func TestAndroidIgnoresUnknownUsages(t *testing.T) {
	p := New(Android)
	var s pad.State
	p.InitReport(&s)
	before := s
	ctx := ctx8bit()
	unknown := []struct{ page, id uint16 }{
		{0xff00, 0x01},                    // vendor page
		{hidapi.PageGenericDesktop, 0x36}, // slider
		{hidapi.PageButton, 0x13},
		{hidapi.PageConsumer, 0x00e9}, // volume up
		{hidapi.PageKeyboard, 0x04},
	}
	for _, u := range unknown {
		p.ParseUsage(&s, ctx, u.page, u.id, 200)
	}
	if s != before {
		t.Errorf("state changed by unrecognized usages:\n  before %s\n  after  %s", before, s)
	}
}

type recordingWriter struct {
	reports [][]byte
}

func (w *recordingWriter) WriteOutputReport(data []byte) error {
	buf := make([]byte, len(data))
	copy(buf, data)
	w.reports = append(w.reports, buf)
	return nil
}

func TestAndroidPlayerLEDs(t *testing.T) {
	p := New(Android)
	w := &recordingWriter{}
	if err := p.SetPlayerLEDs(w, 0b0001); err != nil {
		t.Fatal(err)
	}
	if err := p.SetPlayerLEDs(w, 0b0010); err != nil {
		t.Fatal(err)
	}
	if len(w.reports) != 2 {
		t.Fatalf("reports: %d != 2", len(w.reports))
	}
	if !bytes.Equal(w.reports[0], []byte{androidLEDReportID, 0x01}) {
		t.Errorf("report 0: % x", w.reports[0])
	}
	if !bytes.Equal(w.reports[1], []byte{androidLEDReportID, 0x02}) {
		t.Errorf("report 1: % x", w.reports[1])
	}
	if bytes.Equal(w.reports[0], w.reports[1]) {
		t.Error("distinct masks must produce distinct reports")
	}
	// High bits beyond the player indicators are masked off.
	if err := p.SetPlayerLEDs(w, 0xf1); err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(w.reports[2], []byte{androidLEDReportID, 0x01}) {
		t.Errorf("report 2: % x", w.reports[2])
	}
}
