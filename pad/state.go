// Package pad defines the canonical, variant-agnostic gamepad state.
// Every supported controller family is normalized into this one
// representation: digital buttons as a bitmask, stick axes in
// [AxisMin, AxisMax], analog triggers in [TriggerMin, TriggerMax], a
// 9-way dpad and a battery level with an explicit unknown sentinel.
package pad

import (
	"fmt"
	"strings"
)

// Canonical axis and trigger ranges.
const (
	AxisMin    int32 = -512
	AxisMax    int32 = 511
	AxisCenter int32 = 0

	TriggerMin  int32 = 0
	TriggerMax  int32 = 1023
	TriggerRest int32 = 0
)

// Battery level range. BatteryUnknown is the reset value; a parser only
// overwrites it when the device reports a battery-strength usage.
const (
	BatteryMin     int16 = 0
	BatteryMax     int16 = 255
	BatteryUnknown int16 = -1
)

type Buttons uint16

const (
	ButtonA Buttons = 1 << iota
	ButtonB
	ButtonX
	ButtonY
	ButtonShoulderL
	ButtonShoulderR
	ButtonTriggerL
	ButtonTriggerR
	ButtonThumbL
	ButtonThumbR
)

var buttonNames = map[Buttons]string{
	ButtonA:         "a",
	ButtonB:         "b",
	ButtonX:         "x",
	ButtonY:         "y",
	ButtonShoulderL: "l1",
	ButtonShoulderR: "r1",
	ButtonTriggerL:  "l2",
	ButtonTriggerR:  "r2",
	ButtonThumbL:    "tl",
	ButtonThumbR:    "tr",
}

func (b Buttons) String() string {
	if b == 0 {
		return "none"
	}
	var parts []string
	for bit := ButtonA; bit <= ButtonThumbR; bit <<= 1 {
		if b&bit != 0 {
			parts = append(parts, buttonNames[bit])
		}
	}
	return strings.Join(parts, "+")
}

// MiscButtons are the out-of-band system buttons present on most
// controllers but not part of the main button cluster.
type MiscButtons uint8

const (
	MiscSystem MiscButtons = 1 << iota
	MiscHome
	MiscBack
)

// DPad is a 9-way discrete direction, DPadCentered plus the 8
// cardinal/diagonal directions clockwise from north.
type DPad uint8

const (
	DPadCentered DPad = iota
	DPadNorth
	DPadNorthEast
	DPadEast
	DPadSouthEast
	DPadSouth
	DPadSouthWest
	DPadWest
	DPadNorthWest
)

var dpadNames = [...]string{"centered", "n", "ne", "e", "se", "s", "sw", "w", "nw"}

func (d DPad) String() string {
	if int(d) >= len(dpadNames) {
		return fmt.Sprintf("dpad(%d)", uint8(d))
	}
	return dpadNames[d]
}

// DPadFromHat converts a hat-switch sector (0..7 clockwise from north,
// anything else meaning the null state) into the dpad value.
func DPadFromHat(sector int) DPad {
	if sector < 0 || sector > 7 {
		return DPadCentered
	}
	return DPad(sector) + DPadNorth
}

// State is one controller's normalized input state. It is owned by a
// connection slot and mutated by exactly one variant parser at a time.
type State struct {
	Buttons Buttons
	Misc    MiscButtons
	DPad    DPad

	AxisLX int32
	AxisLY int32
	AxisRX int32
	AxisRY int32

	Brake    int32
	Throttle int32

	Battery int16
}

// Reset overwrites the state with its idle values: buttons released,
// sticks centered, triggers at rest, dpad centered, battery unknown.
func (s *State) Reset() {
	*s = State{Battery: BatteryUnknown}
}

func (s *State) SetButton(b Buttons, pressed bool) {
	if pressed {
		s.Buttons |= b
	} else {
		s.Buttons &^= b
	}
}

func (s *State) SetMisc(b MiscButtons, pressed bool) {
	if pressed {
		s.Misc |= b
	} else {
		s.Misc &^= b
	}
}

func (s State) Pressed(b Buttons) bool {
	return s.Buttons&b == b
}

func (s State) String() string {
	return fmt.Sprintf("buttons=%s dpad=%s l=(%d,%d) r=(%d,%d) brake=%d throttle=%d battery=%d",
		s.Buttons, s.DPad, s.AxisLX, s.AxisLY, s.AxisRX, s.AxisRY, s.Brake, s.Throttle, s.Battery)
}

// Idle reports whether the state equals the post-Reset idle state.
func (s State) Idle() bool {
	return s == State{Battery: BatteryUnknown}
}
