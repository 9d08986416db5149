package variants

import (
	"github.com/unipad/unipad-agent/hidapi"
	"github.com/unipad/unipad-agent/pad"
)

// genericParser is the conservative fallback for controllers that were
// not identified as any specific family. It maps only the usages whose
// meaning is unambiguous across vendors and has no output features.
type genericParser struct{}

func (p *genericParser) InitReport(state *pad.State) {
	state.Reset()
}

func (p *genericParser) ParseUsage(state *pad.State, ctx hidapi.ScalingContext, usagePage, usageID uint16, value int32) {
	switch usagePage {
	case hidapi.PageGenericDesktop:
		switch usageID {
		case hidapi.UsageX:
			state.AxisLX = ctx.Scale(value, pad.AxisMin, pad.AxisMax, pad.AxisCenter)
		case hidapi.UsageY:
			state.AxisLY = ctx.Scale(value, pad.AxisMin, pad.AxisMax, pad.AxisCenter)
		case hidapi.UsageZ:
			state.AxisRX = ctx.Scale(value, pad.AxisMin, pad.AxisMax, pad.AxisCenter)
		case hidapi.UsageRz:
			state.AxisRY = ctx.Scale(value, pad.AxisMin, pad.AxisMax, pad.AxisCenter)
		case hidapi.UsageHatSwitch:
			state.DPad = pad.DPadFromHat(ctx.Hat(value))
		}
	case hidapi.PageButton:
		pressed := value != 0
		switch usageID {
		case 0x01:
			state.SetButton(pad.ButtonA, pressed)
		case 0x02:
			state.SetButton(pad.ButtonB, pressed)
		case 0x03:
			state.SetButton(pad.ButtonX, pressed)
		case 0x04:
			state.SetButton(pad.ButtonY, pressed)
		case 0x05:
			state.SetButton(pad.ButtonShoulderL, pressed)
		case 0x06:
			state.SetButton(pad.ButtonShoulderR, pressed)
		}
	case hidapi.PageGenericDevice:
		if usageID == hidapi.UsageBatteryStrength {
			state.Battery = int16(ctx.Scale(value, int32(pad.BatteryMin), int32(pad.BatteryMax), int32(pad.BatteryUnknown)))
		}
	}
}

// SetPlayerLEDs is a no-op: the generic family has no known LED
// hardware.
func (p *genericParser) SetPlayerLEDs(w ReportWriter, leds uint8) error {
	return nil
}
