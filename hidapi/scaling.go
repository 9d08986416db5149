package hidapi

// ScalingContext is the declarative scaling metadata of the HID report
// the current usage entry came from. It is supplied by the transport
// layer per call and never retained.
type ScalingContext struct {
	LogicalMin   int32
	LogicalMax   int32
	PhysicalMin  int32
	PhysicalMax  int32
	UnitExponent int8
}

// Scale maps value from the logical range onto [outMin, outMax]. The
// logical endpoints map to the output endpoints exactly, intermediate
// values are rounded toward zero, and out-of-range input is clamped to
// the nearest endpoint. A degenerate logical range yields neutral.
func (c ScalingContext) Scale(value, outMin, outMax, neutral int32) int32 {
	if c.LogicalMin >= c.LogicalMax {
		return neutral
	}
	if value < c.LogicalMin {
		value = c.LogicalMin
	}
	if value > c.LogicalMax {
		value = c.LogicalMax
	}
	// All arithmetic in int64: the logical range may span the full
	// int32 space, so subtracting in int32 would wrap.
	lrange := int64(c.LogicalMax) - int64(c.LogicalMin)
	orange := int64(outMax) - int64(outMin)
	offset := int64(value) - int64(c.LogicalMin)
	// Dividing the full numerator truncates the final value toward
	// zero; scaling the offset alone would floor negative outputs.
	return int32((int64(outMin)*lrange + offset*orange) / lrange)
}

// HatCentered is returned by Hat for the null state: a value outside the
// declared logical range, or a degenerate range.
const HatCentered = -1

// Hat decodes a hat-switch value into one of 8 directional sectors,
// 0 = north, increasing clockwise. The logical range is divided into 8
// equal angular sectors with boundaries at the midpoints between
// adjacent directions, so a range of size 8 maps one-to-one.
func (c ScalingContext) Hat(value int32) int {
	if c.LogicalMin >= c.LogicalMax {
		return HatCentered
	}
	if value < c.LogicalMin || value > c.LogicalMax {
		return HatCentered
	}
	steps := int64(c.LogicalMax) - int64(c.LogicalMin) + 1
	offset := int64(value) - int64(c.LogicalMin)
	return int((offset*8 + steps/2) / steps % 8)
}
