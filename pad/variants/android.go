package variants

import (
	"github.com/unipad/unipad-agent/hidapi"
	"github.com/unipad/unipad-agent/pad"
)

// androidParser handles Android-style gamepads: the button and axis
// layout mandated by the Android gamepad HID profile, as emitted by
// most generic Bluetooth controllers.
//
// Axis layout: X/Y is the left stick, Z/Rz the right stick. Triggers
// arrive either on the simulation page (Accelerator/Brake) or, on some
// firmwares, as generic desktop Rx/Ry. The dpad arrives either as a hat
// switch or as the four discrete DPad usages.
type androidParser struct {
	// dpadBits tracks the discrete DPad usages (up/down/right/left)
	// between calls so the four booleans can be folded into the 9-way
	// dpad value.
	dpadBits uint8
}

const (
	dpadBitUp = 1 << iota
	dpadBitDown
	dpadBitRight
	dpadBitLeft
)

func (p *androidParser) InitReport(state *pad.State) {
	p.dpadBits = 0
	state.Reset()
}

func (p *androidParser) ParseUsage(state *pad.State, ctx hidapi.ScalingContext, usagePage, usageID uint16, value int32) {
	switch usagePage {
	case hidapi.PageGenericDesktop:
		p.parseGenericDesktop(state, ctx, usageID, value)
	case hidapi.PageSimulation:
		switch usageID {
		case hidapi.UsageAccelerator:
			state.Throttle = ctx.Scale(value, pad.TriggerMin, pad.TriggerMax, pad.TriggerRest)
		case hidapi.UsageBrake:
			state.Brake = ctx.Scale(value, pad.TriggerMin, pad.TriggerMax, pad.TriggerRest)
		}
	case hidapi.PageButton:
		p.parseButton(state, usageID, value)
	case hidapi.PageConsumer:
		switch usageID {
		case hidapi.UsageACHome:
			state.SetMisc(pad.MiscHome, value != 0)
		case hidapi.UsageACBack:
			state.SetMisc(pad.MiscBack, value != 0)
		}
	case hidapi.PageGenericDevice:
		if usageID == hidapi.UsageBatteryStrength {
			state.Battery = int16(ctx.Scale(value, int32(pad.BatteryMin), int32(pad.BatteryMax), int32(pad.BatteryUnknown)))
		}
	}
}

func (p *androidParser) parseGenericDesktop(state *pad.State, ctx hidapi.ScalingContext, usageID uint16, value int32) {
	switch usageID {
	case hidapi.UsageX:
		state.AxisLX = ctx.Scale(value, pad.AxisMin, pad.AxisMax, pad.AxisCenter)
	case hidapi.UsageY:
		state.AxisLY = ctx.Scale(value, pad.AxisMin, pad.AxisMax, pad.AxisCenter)
	case hidapi.UsageZ:
		state.AxisRX = ctx.Scale(value, pad.AxisMin, pad.AxisMax, pad.AxisCenter)
	case hidapi.UsageRz:
		state.AxisRY = ctx.Scale(value, pad.AxisMin, pad.AxisMax, pad.AxisCenter)
	case hidapi.UsageRx:
		// Pre-Android-4.3 firmwares report the left trigger here.
		state.Brake = ctx.Scale(value, pad.TriggerMin, pad.TriggerMax, pad.TriggerRest)
	case hidapi.UsageRy:
		state.Throttle = ctx.Scale(value, pad.TriggerMin, pad.TriggerMax, pad.TriggerRest)
	case hidapi.UsageHatSwitch:
		state.DPad = pad.DPadFromHat(ctx.Hat(value))
	case hidapi.UsageSystemMainMenu:
		state.SetMisc(pad.MiscSystem, value != 0)
	case hidapi.UsageDPadUp:
		p.setDPadBit(state, dpadBitUp, value != 0)
	case hidapi.UsageDPadDown:
		p.setDPadBit(state, dpadBitDown, value != 0)
	case hidapi.UsageDPadRight:
		p.setDPadBit(state, dpadBitRight, value != 0)
	case hidapi.UsageDPadLeft:
		p.setDPadBit(state, dpadBitLeft, value != 0)
	}
}

func (p *androidParser) parseButton(state *pad.State, usageID uint16, value int32) {
	pressed := value != 0
	switch usageID {
	case 0x01:
		state.SetButton(pad.ButtonA, pressed)
	case 0x02:
		state.SetButton(pad.ButtonB, pressed)
	case 0x04:
		state.SetButton(pad.ButtonX, pressed)
	case 0x05:
		state.SetButton(pad.ButtonY, pressed)
	case 0x07:
		state.SetButton(pad.ButtonShoulderL, pressed)
	case 0x08:
		state.SetButton(pad.ButtonShoulderR, pressed)
	case 0x09:
		state.SetButton(pad.ButtonTriggerL, pressed)
	case 0x0a:
		state.SetButton(pad.ButtonTriggerR, pressed)
	case 0x0b:
		state.SetMisc(pad.MiscBack, pressed)
	case 0x0c:
		state.SetMisc(pad.MiscHome, pressed)
	case 0x0d:
		state.SetMisc(pad.MiscSystem, pressed)
	case 0x0e:
		state.SetButton(pad.ButtonThumbL, pressed)
	case 0x0f:
		state.SetButton(pad.ButtonThumbR, pressed)
	}
}

func (p *androidParser) setDPadBit(state *pad.State, bit uint8, pressed bool) {
	if pressed {
		p.dpadBits |= bit
	} else {
		p.dpadBits &^= bit
	}
	state.DPad = dpadFromBits(p.dpadBits)
}

func dpadFromBits(b uint8) pad.DPad {
	// Opposite directions cancel out.
	if b&(dpadBitUp|dpadBitDown) == dpadBitUp|dpadBitDown {
		b &^= dpadBitUp | dpadBitDown
	}
	if b&(dpadBitLeft|dpadBitRight) == dpadBitLeft|dpadBitRight {
		b &^= dpadBitLeft | dpadBitRight
	}
	switch b {
	case dpadBitUp:
		return pad.DPadNorth
	case dpadBitUp | dpadBitRight:
		return pad.DPadNorthEast
	case dpadBitRight:
		return pad.DPadEast
	case dpadBitDown | dpadBitRight:
		return pad.DPadSouthEast
	case dpadBitDown:
		return pad.DPadSouth
	case dpadBitDown | dpadBitLeft:
		return pad.DPadSouthWest
	case dpadBitLeft:
		return pad.DPadWest
	case dpadBitUp | dpadBitLeft:
		return pad.DPadNorthWest
	default:
		return pad.DPadCentered
	}
}

// Player LED output report: report ID followed by the low four LED
// bits. Android controllers with player indicators latch the mask until
// the next report.
const androidLEDReportID = 0x02

func (p *androidParser) SetPlayerLEDs(w ReportWriter, leds uint8) error {
	report := [2]byte{androidLEDReportID, leds & 0x0f}
	return w.WriteOutputReport(report[:])
}
