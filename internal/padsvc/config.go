package padsvc

import (
	"go.uber.org/zap"

	"github.com/unipad/unipad-agent/pad/variants"
)

// PadConfig is the watched identification config: which parser family
// handles which vendor/product pair. Devices without a matching rule
// fall back to the generic family.
type PadConfig struct {
	Devices []DeviceRule `json:"devices"`
}

type DeviceRule struct {
	Vendor  uint16           `json:"vendor"`
	Product uint16           `json:"product"`
	Variant variants.Variant `json:"variant"`
}

func ruleKey(vendor, product uint16) uint32 {
	return uint32(vendor)<<16 | uint32(product)
}

func (s *Service) onConfigChange(cfg PadConfig, err error) {
	if err != nil {
		s.log.Error("failed to parse pad config", zap.Error(err))
		return
	}
	s.applyRules(cfg)
	s.log.Info("identification rules reloaded", zap.Int("rules", len(cfg.Devices)))
}

func (s *Service) applyRules(cfg PadConfig) {
	s.rules.Clear()
	for _, rule := range cfg.Devices {
		s.rules.Store(ruleKey(rule.Vendor, rule.Product), rule.Variant)
	}
}

// Identify selects the variant parser family for a backend device.
// Rule changes only affect devices identified afterwards; existing
// bindings are immutable.
func (s *Service) Identify(bdev BackendDevice) variants.Variant {
	if v, ok := s.rules.Load(ruleKey(bdev.VendorID, bdev.ProductID)); ok {
		return v
	}
	return variants.Generic
}
