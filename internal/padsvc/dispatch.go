package padsvc

import (
	"errors"
	"fmt"

	"github.com/unipad/unipad-agent/hidapi"
	"github.com/unipad/unipad-agent/pad/variants"
)

// Dispatch misuse is a lifecycle bug in the caller, not a data-quality
// issue, so it surfaces as distinct error kinds instead of being
// dropped.
var (
	ErrUnboundHandle = errors.New("handle not bound to a parser")
	ErrAlreadyBound  = errors.New("handle already bound")
	ErrNoFreeSlot    = errors.New("no free connection slot")
	ErrSlotEmpty     = errors.New("slot empty")
)

// Bind associates a device handle with a variant parser and reserves
// the lowest free connection slot for it. The binding is immutable for
// the life of the connection. The slot becomes visible to the
// application on the next Update pass; a slot freed by Unbind is not
// reused until its disconnect notification has been delivered.
func (s *Service) Bind(addr Address, v variants.Variant, w variants.ReportWriter) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.bindings.Load(addr); ok {
		return 0, fmt.Errorf("%w: %s", ErrAlreadyBound, addr)
	}
	slot := -1
	for i := range s.slots {
		if !s.slots[i].bound && !s.slots[i].connected {
			slot = i
			break
		}
	}
	if slot < 0 {
		return 0, fmt.Errorf("%w: %s", ErrNoFreeSlot, addr)
	}
	parser := variants.New(v)
	s.slots[slot].addr = addr
	s.slots[slot].parser = parser
	s.slots[slot].writer = w
	s.slots[slot].bound = true
	s.bindings.Store(addr, &binding{slot: slot, parser: parser, writer: w})
	return slot, nil
}

// Unbind releases a handle. The slot's state stays readable until the
// disconnect notification fires on the next Update pass.
func (s *Service) Unbind(addr Address) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	b, ok := s.bindings.LoadAndDelete(addr)
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnboundHandle, addr)
	}
	s.slots[b.slot].bound = false
	return nil
}

// RouteUsage forwards one decoded usage entry to the parser bound to
// the handle. It is invoked from the latency-sensitive transport path:
// no locks, no allocation, no blocking.
func (s *Service) RouteUsage(addr Address, ctx hidapi.ScalingContext, usagePage, usageID uint16, value int32) error {
	b, ok := s.bindings.Load(addr)
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnboundHandle, addr)
	}
	b.parser.ParseUsage(&s.slots[b.slot].state, ctx, usagePage, usageID, value)
	return nil
}

// RouteLEDs forwards an abstract player-LED request to the parser bound
// to the handle.
func (s *Service) RouteLEDs(addr Address, leds uint8) error {
	b, ok := s.bindings.Load(addr)
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnboundHandle, addr)
	}
	w := b.writer
	if w == nil {
		w = nopWriter{}
	}
	return b.parser.SetPlayerLEDs(w, leds)
}

// SetPlayerLEDs is the application-facing LED entry point, addressed by
// slot index.
func (s *Service) SetPlayerLEDs(slot int, leds uint8) error {
	if slot < 0 || slot >= len(s.slots) {
		return fmt.Errorf("%w: %d", ErrSlotEmpty, slot)
	}
	sl := &s.slots[slot]
	if !sl.bound || sl.parser == nil {
		return fmt.Errorf("%w: %d", ErrSlotEmpty, slot)
	}
	w := sl.writer
	if w == nil {
		w = nopWriter{}
	}
	return sl.parser.SetPlayerLEDs(w, leds)
}

type nopWriter struct{}

func (nopWriter) WriteOutputReport(data []byte) error {
	return nil
}
