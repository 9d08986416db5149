// Package slotmask implements fixed-width bitmasks indexed by connection
// slot. A set bit means the slot currently holds a device.
package slotmask

import (
	"fmt"
	"math/bits"
)

// MaxSlots is the widest slot table a Mask can represent.
const MaxSlots = 32

type Mask uint32

func (m Mask) Has(slot int) bool {
	if slot < 0 || slot >= MaxSlots {
		return false
	}
	return m&(1<<uint(slot)) != 0
}

func (m Mask) Set(slot int) Mask {
	if slot < 0 || slot >= MaxSlots {
		return m
	}
	return m | 1<<uint(slot)
}

func (m Mask) Clear(slot int) Mask {
	if slot < 0 || slot >= MaxSlots {
		return m
	}
	return m &^ (1 << uint(slot))
}

func (m Mask) Count() int {
	return bits.OnesCount32(uint32(m))
}

func (m Mask) String() string {
	return fmt.Sprintf("%032b", uint32(m))
}

// Diff calls fn once for every bit that differs between prev and next, in
// ascending slot order. present reports the bit's value in next. A slot
// that toggled and toggled back between the two snapshots produces no
// call: the diff is edge-triggered on the net difference, not
// event-counted.
func Diff(prev, next Mask, slots int, fn func(slot int, present bool)) {
	if prev == next {
		return
	}
	if slots > MaxSlots {
		slots = MaxSlots
	}
	for i := 0; i < slots; i++ {
		bit := Mask(1) << uint(i)
		if prev&bit == next&bit {
			continue
		}
		fn(i, next&bit != 0)
	}
}
