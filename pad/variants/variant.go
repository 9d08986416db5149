// Package variants implements the per-controller-family parsers that
// turn decoded HID usage entries into canonical gamepad state, and the
// reverse path that turns player-LED requests into device-specific
// output reports.
//
// The family set is closed: adding support for a new controller family
// means adding a Variant tag and a Parser implementation here.
package variants

import (
	"encoding/json"
	"fmt"

	"github.com/unipad/unipad-agent/hidapi"
	"github.com/unipad/unipad-agent/pad"
)

// ReportWriter delivers a device-specific output report to the
// transport layer.
type ReportWriter interface {
	WriteOutputReport(data []byte) error
}

// Parser interprets one controller family's usage layout.
//
// ParseUsage is total over the (usagePage, usageID) space: entries the
// family does not recognize are silently ignored. It never blocks,
// never allocates and confines all side effects to the passed-in state.
// A Parser instance is bound to a single device and may keep small
// per-device adaptation state.
type Parser interface {
	// InitReport fully overwrites state with the family's idle values.
	InitReport(state *pad.State)
	// ParseUsage normalizes value using ctx and updates the
	// corresponding state field(s).
	ParseUsage(state *pad.State, ctx hidapi.ScalingContext, usagePage, usageID uint16, value int32)
	// SetPlayerLEDs writes the output report encoding the LED bitmask
	// (bit i = LED i illuminated). Families without LED hardware accept
	// the call and write nothing.
	SetPlayerLEDs(w ReportWriter, leds uint8) error
}

type Variant uint8

const (
	Generic Variant = iota
	Android
)

var variantNames = [...]string{"generic", "android"}

func (v Variant) String() string {
	if int(v) >= len(variantNames) {
		return fmt.Sprintf("variant(%d)", uint8(v))
	}
	return variantNames[v]
}

func ParseVariant(s string) (Variant, error) {
	for i, name := range variantNames {
		if name == s {
			return Variant(i), nil
		}
	}
	return Generic, fmt.Errorf("unknown variant: %s", s)
}

func (v Variant) MarshalJSON() ([]byte, error) {
	return json.Marshal(v.String())
}

func (v *Variant) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	parsed, err := ParseVariant(s)
	if err != nil {
		return err
	}
	*v = parsed
	return nil
}

// New returns a fresh parser instance for one device of the given
// family. Unknown tags fall back to the generic family.
func New(v Variant) Parser {
	switch v {
	case Android:
		return &androidParser{}
	default:
		return &genericParser{}
	}
}
