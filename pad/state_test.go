package pad

import (
	"testing"
)

func TestResetIdle(t *testing.T) {
	s := State{
		Buttons:  ButtonA | ButtonThumbR,
		Misc:     MiscHome,
		DPad:     DPadSouthWest,
		AxisLX:   -512,
		AxisRY:   300,
		Throttle: 1023,
		Battery:  128,
	}
	s.Reset()
	if !s.Idle() {
		t.Errorf("state not idle after reset: %s", s)
	}
	if s.Battery != BatteryUnknown {
		t.Errorf("battery: %d != unknown", s.Battery)
	}
	if s.DPad != DPadCentered {
		t.Errorf("dpad: %s != centered", s.DPad)
	}
}

func TestSetButton(t *testing.T) {
	var s State
	s.Reset()
	s.SetButton(ButtonA, true)
	s.SetButton(ButtonShoulderL, true)
	if !s.Pressed(ButtonA) || !s.Pressed(ButtonShoulderL) {
		t.Errorf("buttons not pressed: %s", s.Buttons)
	}
	s.SetButton(ButtonA, false)
	if s.Pressed(ButtonA) {
		t.Errorf("button a still pressed: %s", s.Buttons)
	}
	if !s.Pressed(ButtonShoulderL) {
		t.Errorf("button l1 released unexpectedly: %s", s.Buttons)
	}
}

func TestDPadFromHat(t *testing.T) {
	tests := []struct {
		sector int
		dpad   DPad
	}{
		{-1, DPadCentered},
		{0, DPadNorth},
		{1, DPadNorthEast},
		{2, DPadEast},
		{3, DPadSouthEast},
		{4, DPadSouth},
		{5, DPadSouthWest},
		{6, DPadWest},
		{7, DPadNorthWest},
		{8, DPadCentered},
	}
	for _, test := range tests {
		if got := DPadFromHat(test.sector); got != test.dpad {
			t.Errorf("sector %d: %s != %s", test.sector, got, test.dpad)
		}
	}
}

func TestButtonsString(t *testing.T) {
	if got := (ButtonA | ButtonB).String(); got != "a+b" {
		t.Errorf("string: %q != %q", got, "a+b")
	}
	if got := Buttons(0).String(); got != "none" {
		t.Errorf("string: %q != %q", got, "none")
	}
}
