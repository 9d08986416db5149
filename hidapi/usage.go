// Package hidapi models decoded HID usage entries the way the transport
// layer delivers them: a (usage page, usage ID, value) triple plus the
// report-scoped scaling metadata needed to interpret the value.
package hidapi

import "fmt"

type Usage uint32

func (u Usage) Page() uint16 {
	return uint16(u >> 16)
}

func (u Usage) ID() uint16 {
	return uint16(u)
}

func (u Usage) String() string {
	return fmt.Sprintf("0x%02x/0x%02x", u.Page(), u.ID())
}

func NewUsage(page, id uint16) Usage {
	return Usage(uint32(page)<<16 | uint32(id))
}

// Usage pages emitted by game controllers.
const (
	PageGenericDesktop uint16 = 0x01
	PageSimulation     uint16 = 0x02
	PageGenericDevice  uint16 = 0x06
	PageKeyboard       uint16 = 0x07
	PageButton         uint16 = 0x09
	PageConsumer       uint16 = 0x0c
)

// Generic desktop usages.
const (
	UsageX              uint16 = 0x30
	UsageY              uint16 = 0x31
	UsageZ              uint16 = 0x32
	UsageRx             uint16 = 0x33
	UsageRy             uint16 = 0x34
	UsageRz             uint16 = 0x35
	UsageHatSwitch      uint16 = 0x39
	UsageSystemMainMenu uint16 = 0x85
	UsageDPadUp         uint16 = 0x90
	UsageDPadDown       uint16 = 0x91
	UsageDPadRight      uint16 = 0x92
	UsageDPadLeft       uint16 = 0x93
)

// Simulation controls usages.
const (
	UsageAccelerator uint16 = 0xc4
	UsageBrake       uint16 = 0xc5
)

// Generic device controls usages.
const (
	UsageBatteryStrength uint16 = 0x20
)

// Consumer page usages.
const (
	UsageACHome uint16 = 0x0223
	UsageACBack uint16 = 0x0224
)
