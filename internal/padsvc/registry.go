package padsvc

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/dgraph-io/badger"

	"github.com/unipad/unipad-agent/pad/variants"
)

// PadDevice is the persisted record of a controller the agent has seen.
type PadDevice struct {
	Address     Address          `json:"address"`
	Name        string           `json:"name"`
	VendorID    uint16           `json:"vendorId"`
	ProductID   uint16           `json:"productId"`
	Variant     variants.Variant `json:"variant"`
	FirstSeenAt time.Time        `json:"firstSeenAt"`
	LastSeenAt  time.Time        `json:"lastSeenAt"`
}

func deviceKey(addr Address) []byte {
	return []byte(fmt.Sprintf("pad/devices/%s", addr))
}

func (s *Service) persistDevice(addr Address, bdev BackendDevice, variant variants.Variant) error {
	if s.db == nil {
		return nil
	}
	now := s.now()
	err := s.db.Update(func(txn *badger.Txn) error {
		var dev PadDevice
		key := deviceKey(addr)
		item, err := txn.Get(key)
		switch {
		case errors.Is(err, badger.ErrKeyNotFound):
			dev = PadDevice{FirstSeenAt: now}
		case err != nil:
			return err
		default:
			err = item.Value(func(val []byte) error {
				return json.Unmarshal(val, &dev)
			})
			if err != nil {
				return fmt.Errorf("failed to unmarshal device: %w", err)
			}
		}
		dev.Address = addr
		dev.Name = bdev.Name
		dev.VendorID = bdev.VendorID
		dev.ProductID = bdev.ProductID
		dev.Variant = variant
		if dev.FirstSeenAt.IsZero() {
			dev.FirstSeenAt = now
		}
		dev.LastSeenAt = now
		b, err := json.Marshal(dev)
		if err != nil {
			return fmt.Errorf("failed to marshal device: %w", err)
		}
		return txn.Set(key, b)
	})
	if err != nil {
		return fmt.Errorf("failed to store device: %w", err)
	}
	return nil
}

// ListDevices returns every controller the agent has ever identified.
func (s *Service) ListDevices() ([]PadDevice, error) {
	if s.db == nil {
		return nil, nil
	}
	var devices []PadDevice
	err := s.db.View(func(txn *badger.Txn) error {
		iter := txn.NewIterator(badger.DefaultIteratorOptions)
		defer iter.Close()
		prefix := []byte("pad/devices/")
		for iter.Seek(prefix); iter.ValidForPrefix(prefix); iter.Next() {
			var dev PadDevice
			err := iter.Item().Value(func(val []byte) error {
				return json.Unmarshal(val, &dev)
			})
			if err != nil {
				return err
			}
			devices = append(devices, dev)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list devices: %w", err)
	}
	return devices, nil
}
