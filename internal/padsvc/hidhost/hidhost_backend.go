// Package hidhost implements the padsvc.Backend interface on top of
// hidapi device enumeration. It reports gamepad presence and opens
// per-device output channels; it does not interpret input reports.
package hidhost

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/puzpuzpuz/xsync/v3"
	"github.com/sstallion/go-hid"
	"go.uber.org/zap"

	"github.com/unipad/unipad-agent/internal/padsvc"
)

// Generic desktop usages a controller enumerates as.
const (
	usagePageGenericDesktop = 0x01
	usageJoystick           = 0x04
	usageGamepad            = 0x05
)

var defaultBackendOptions = backendOptions{
	pollInterval: 1 * time.Second,
}

type backendOptions struct {
	pollInterval time.Duration
}

type Option func(*backendOptions)

func WithPollInterval(d time.Duration) Option {
	return func(o *backendOptions) {
		o.pollInterval = d
	}
}

// Backend polls hidapi enumeration for gamepad-class devices and
// publishes presence changes to the pad service.
type Backend struct {
	log     *zap.Logger
	options backendOptions

	devices *xsync.MapOf[string, hid.DeviceInfo]
	ready   chan struct{}

	publisher padsvc.BackendPublisher
}

func New(log *zap.Logger, opts ...Option) *Backend {
	options := defaultBackendOptions
	for _, opt := range opts {
		opt(&options)
	}
	return &Backend{
		log:     log,
		options: options,
		devices: xsync.NewMapOf[string, hid.DeviceInfo](),
		ready:   make(chan struct{}),
	}
}

func (b *Backend) Ready() <-chan struct{} {
	return b.ready
}

func (b *Backend) Start(ctx context.Context, publisher padsvc.BackendPublisher) error {
	if err := hid.Init(); err != nil {
		return fmt.Errorf("failed to initialize hidapi: %w", err)
	}
	defer hid.Exit()
	b.publisher = publisher

	b.log.Info("Starting HID host backend")
	if err := b.refreshDevices(ctx); err != nil {
		return fmt.Errorf("failed to enumerate HID devices: %w", err)
	}
	close(b.ready)

	pollTicker := time.NewTicker(b.options.pollInterval)
	defer pollTicker.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-pollTicker.C:
			if err := b.refreshDevices(ctx); err != nil {
				b.log.Error("failed to refresh HID devices", zap.Error(err))
			}
		}
	}
}

func (b *Backend) refreshDevices(ctx context.Context) error {
	newDevices, err := enumerateGamepads()
	if err != nil {
		return err
	}
	var disconnected []string
	var connected []padsvc.BackendDevice
	b.devices.Range(func(id string, info hid.DeviceInfo) bool {
		if _, ok := newDevices[id]; !ok {
			disconnected = append(disconnected, id)
			b.devices.Delete(id)
			return true
		}
		delete(newDevices, id)
		return true
	})
	for id, info := range newDevices {
		b.devices.Store(id, info)
		connected = append(connected, padsvc.BackendDevice{
			ID:        id,
			Name:      deviceName(info),
			VendorID:  info.VendorID,
			ProductID: info.ProductID,
		})
	}
	if len(connected) > 0 || len(disconnected) > 0 {
		b.publisher(ctx, padsvc.BackendEvent{
			DevicesChanged: &padsvc.BackendEventDevicesChanged{
				Connected:    connected,
				Disconnected: disconnected,
			},
		})
	}
	return nil
}

func enumerateGamepads() (map[string]hid.DeviceInfo, error) {
	devices := make(map[string]hid.DeviceInfo)
	err := hid.Enumerate(hid.VendorIDAny, hid.ProductIDAny, func(info *hid.DeviceInfo) error {
		if info.UsagePage != usagePageGenericDesktop {
			return nil
		}
		if info.Usage != usageJoystick && info.Usage != usageGamepad {
			return nil
		}
		devices[info.Path] = *info
		return nil
	})
	if err != nil {
		return nil, err
	}
	return devices, nil
}

func deviceName(info hid.DeviceInfo) string {
	var parts []string
	if info.MfrStr != "" {
		parts = append(parts, info.MfrStr)
	}
	if info.ProductStr != "" {
		parts = append(parts, info.ProductStr)
	}
	if len(parts) == 0 {
		return fmt.Sprintf("%04x:%04x", info.VendorID, info.ProductID)
	}
	return strings.Join(parts, " ")
}

func (b *Backend) OpenDevice(id string) (padsvc.Device, error) {
	info, ok := b.devices.Load(id)
	if !ok {
		return nil, fmt.Errorf("device not found: %s", id)
	}
	dev, err := hid.OpenPath(info.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", id, err)
	}
	return &hidDevice{dev: dev}, nil
}

type hidDevice struct {
	dev *hid.Device
}

func (h *hidDevice) WriteOutputReport(data []byte) error {
	_, err := h.dev.Write(data)
	return err
}

func (h *hidDevice) Close() error {
	return h.dev.Close()
}
