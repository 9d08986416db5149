// Package padsvc routes decoded HID usage entries from transport
// backends to per-device variant parsers and maintains the fixed table
// of connection slots exposed to the application layer.
package padsvc

import (
	"fmt"
	"sync"
	"time"

	"github.com/dgraph-io/badger"
	"github.com/puzpuzpuz/xsync/v3"
	"go.uber.org/atomic"
	"go.uber.org/zap"
	"golang.org/x/net/context"

	"github.com/unipad/unipad-agent/internal/configsvc"
	"github.com/unipad/unipad-agent/pad"
	"github.com/unipad/unipad-agent/pad/variants"
	"github.com/unipad/unipad-agent/pkg/bus"
	"github.com/unipad/unipad-agent/pkg/slotmask"
)

type (
	BackendBus       = bus.Bus[string, BackendEvent]
	BackendPublisher = bus.Publisher[BackendEvent]
)

// BackendEvent is published by a transport backend when its set of
// connected controllers changes.
type BackendEvent struct {
	DevicesChanged *BackendEventDevicesChanged
}

type BackendEventDevicesChanged struct {
	Connected    []BackendDevice
	Disconnected []string
}

type BackendDevice struct {
	ID        string
	Name      string
	VendorID  uint16
	ProductID uint16
}

// Backend is a transport collaborator: it reports device presence and
// opens per-device output channels. Decoding raw input reports into
// usage entries stays on the transport side; the transport feeds them
// back through Service.RouteUsage.
type Backend interface {
	Start(ctx context.Context, pub BackendPublisher) error
	Ready() <-chan struct{}
	OpenDevice(id string) (Device, error)
}

// Device is an open output channel to one controller.
type Device interface {
	variants.ReportWriter
	Close() error
}

// ConnectionCallback observes one slot transition. For connects the
// state has already been reset to idle; for disconnects the state is
// still readable and torn down only after the callback returns.
type ConnectionCallback func(slot int, state *pad.State)

var defaultOptions = serviceOptions{
	slots:          4,
	backends:       make(map[string]Backend),
	backoffTimeout: 5 * time.Second,
}

type serviceOptions struct {
	slots          int
	backends       map[string]Backend
	backoffTimeout time.Duration
	configSvc      *configsvc.Service
	configPath     string
}

type Option func(*serviceOptions)

func WithBackend(name string, backend Backend) Option {
	return func(o *serviceOptions) {
		o.backends[name] = backend
	}
}

func WithSlots(n int) Option {
	return func(o *serviceOptions) {
		if n > 0 && n <= slotmask.MaxSlots {
			o.slots = n
		}
	}
}

func WithBackoffTimeout(d time.Duration) Option {
	return func(o *serviceOptions) {
		o.backoffTimeout = d
	}
}

// WithConfig enables the watched identification-rule config file.
func WithConfig(svc *configsvc.Service, path string) Option {
	return func(o *serviceOptions) {
		o.configSvc = svc
		o.configPath = path
	}
}

type connSlot struct {
	addr      Address
	parser    variants.Parser
	writer    variants.ReportWriter
	state     pad.State
	bound     bool
	connected bool
}

type binding struct {
	slot   int
	parser variants.Parser
	writer variants.ReportWriter
}

// Service owns the connection slot table and the handle-to-parser
// dispatch. The usage-routing path and the LED path are lock-free; the
// caller must not invoke them concurrently with Update for the same
// handle (single-mutator contract).
type Service struct {
	log     *zap.Logger
	db      *badger.DB
	options serviceOptions
	now     func() time.Time
	ready   chan struct{}

	backendBus *BackendBus

	mu       sync.Mutex
	slots    []connSlot
	bindings *xsync.MapOf[Address, *binding]
	prevMask *atomic.Uint32

	rules *xsync.MapOf[uint32, variants.Variant]

	cbMu         sync.Mutex
	onConnect    ConnectionCallback
	onDisconnect ConnectionCallback
}

func New(db *badger.DB, log *zap.Logger, now func() time.Time, opts ...Option) *Service {
	options := defaultOptions
	for _, opt := range opts {
		opt(&options)
	}
	return &Service{
		db:         db,
		log:        log,
		options:    options,
		now:        now,
		ready:      make(chan struct{}),
		backendBus: bus.NewBus[string, BackendEvent](log),
		slots:      make([]connSlot, options.slots),
		bindings:   xsync.NewMapOf[Address, *binding](),
		prevMask:   atomic.NewUint32(0),
		rules:      xsync.NewMapOf[uint32, variants.Variant](),
	}
}

func (s *Service) Start(ctx context.Context) error {
	err := s.backendBus.Start(ctx)
	if err != nil {
		return fmt.Errorf("failed to start backend bus: %w", err)
	}
	select {
	case <-ctx.Done():
		return nil
	case <-s.backendBus.Ready():
	}

	if s.options.configSvc != nil {
		select {
		case <-ctx.Done():
			return nil
		case <-s.options.configSvc.Ready():
		}
		cfg, err := configsvc.Register(s.options.configSvc, s.options.configPath, PadConfig{}, func(cfg PadConfig, err error) {
			s.onConfigChange(cfg, err)
		})
		if err != nil {
			s.log.Warn("identification config unavailable, all devices fall back to generic", zap.Error(err))
		} else {
			s.applyRules(cfg)
		}
	}

	s.consumeEvents(ctx)

	for backendID := range s.options.backends {
		go s.runBackend(ctx, backendID)
	}
	for _, backend := range s.options.backends {
		select {
		case <-ctx.Done():
			return nil
		case <-backend.Ready():
		}
	}
	close(s.ready)
	s.log.Info("Pad service started")
	<-ctx.Done()
	return nil
}

func (s *Service) Ready() <-chan struct{} {
	return s.ready
}

func (s *Service) consumeEvents(ctx context.Context) {
	go func() {
		ctx, cancel := context.WithCancel(ctx)
		defer cancel()
		ch := s.backendBus.Subscribe(ctx)
		for {
			select {
			case <-ctx.Done():
				return
			case msg := <-ch:
				s.handleBackendEvent(msg.Key, msg.Message)
			}
		}
	}()
}

func (s *Service) runBackend(ctx context.Context, backendID string) {
	backend := s.options.backends[backendID]
	for {
		err := backend.Start(ctx, s.backendBus.CreatePublisher(backendID))
		if err != nil {
			s.log.Error("failed to start the backend", zap.String("backend", backendID), zap.Error(err))
		}
		t := time.NewTimer(s.options.backoffTimeout)
		// retry after backoff
		select {
		case <-ctx.Done():
			if !t.Stop() {
				<-t.C
			}
			return
		case <-t.C:
		}
	}
}

func (s *Service) handleBackendEvent(backendID string, event BackendEvent) {
	if event.DevicesChanged == nil {
		return
	}
	for _, id := range event.DevicesChanged.Disconnected {
		s.onDeviceDisconnected(backendID, id)
	}
	for _, bdev := range event.DevicesChanged.Connected {
		s.onDeviceConnected(backendID, bdev)
	}
	s.Update()
}

func (s *Service) onDeviceDisconnected(backendID, id string) {
	addr := Address{Backend: backendID, ID: id}
	dev := s.boundDevice(addr)
	if err := s.Unbind(addr); err != nil {
		s.log.Warn("disconnect for unbound device", zap.String("addr", addr.String()), zap.Error(err))
		return
	}
	if dev != nil {
		dev.Close()
	}
	s.log.Debug("device disconnected", zap.String("addr", addr.String()))
}

func (s *Service) onDeviceConnected(backendID string, bdev BackendDevice) {
	addr := Address{Backend: backendID, ID: bdev.ID}
	variant := s.Identify(bdev)
	if err := s.persistDevice(addr, bdev, variant); err != nil {
		s.log.Error("failed to persist device", zap.Error(err))
	}
	dev, err := s.options.backends[backendID].OpenDevice(bdev.ID)
	if err != nil {
		s.log.Error("failed to open device", zap.String("addr", addr.String()), zap.Error(err))
		return
	}
	slot, err := s.Bind(addr, variant, dev)
	if err != nil {
		s.log.Error("failed to bind device", zap.String("addr", addr.String()), zap.Error(err))
		dev.Close()
		return
	}
	s.log.Debug("device identified",
		zap.String("addr", addr.String()),
		zap.String("name", bdev.Name),
		zap.Stringer("variant", variant),
		zap.Int("slot", slot),
	)
}

func (s *Service) boundDevice(addr Address) Device {
	b, ok := s.bindings.Load(addr)
	if !ok {
		return nil
	}
	dev, ok := b.writer.(Device)
	if !ok {
		return nil
	}
	return dev
}

// OnConnect registers the connect callback. A subsequent registration
// replaces the previous one.
func (s *Service) OnConnect(fn ConnectionCallback) {
	s.cbMu.Lock()
	s.onConnect = fn
	s.cbMu.Unlock()
}

// OnDisconnect registers the disconnect callback, replacing any
// previous one.
func (s *Service) OnDisconnect(fn ConnectionCallback) {
	s.cbMu.Lock()
	s.onDisconnect = fn
	s.cbMu.Unlock()
}

func (s *Service) callbacks() (connect, disconnect ConnectionCallback) {
	s.cbMu.Lock()
	connect, disconnect = s.onConnect, s.onDisconnect
	s.cbMu.Unlock()
	return connect, disconnect
}

// Update runs one lifecycle polling pass: it snapshots per-slot
// presence into a bitmask, diffs it against the previous pass and fires
// connect/disconnect notifications for every changed slot in ascending
// slot order. A slot that disconnected and reconnected between two
// passes produces no notification; the diff is edge-triggered on the
// net bitmask difference. Connect notifications fire after the slot
// state has been reset to idle; disconnect notifications fire while the
// state is still readable.
func (s *Service) Update() {
	s.mu.Lock()
	defer s.mu.Unlock()

	var mask slotmask.Mask
	for i := range s.slots {
		if s.slots[i].bound {
			mask = mask.Set(i)
		}
	}
	prev := slotmask.Mask(s.prevMask.Load())
	if mask == prev {
		return
	}
	onConnect, onDisconnect := s.callbacks()
	slotmask.Diff(prev, mask, len(s.slots), func(i int, present bool) {
		sl := &s.slots[i]
		if present {
			sl.parser.InitReport(&sl.state)
			sl.connected = true
			s.log.Info("gamepad connected", zap.Int("slot", i), zap.String("addr", sl.addr.String()))
			if onConnect != nil {
				onConnect(i, &sl.state)
			}
		} else {
			if onDisconnect != nil {
				onDisconnect(i, &sl.state)
			}
			addr := sl.addr
			sl.connected = false
			sl.state.Reset()
			sl.parser = nil
			sl.writer = nil
			sl.addr = Address{}
			s.log.Info("gamepad disconnected", zap.Int("slot", i), zap.String("addr", addr.String()))
		}
	})
	s.prevMask.Store(uint32(mask))
}

// State returns read access to a slot's canonical gamepad state.
func (s *Service) State(slot int) (*pad.State, bool) {
	if slot < 0 || slot >= len(s.slots) {
		return nil, false
	}
	if !s.slots[slot].connected {
		return nil, false
	}
	return &s.slots[slot].state, true
}

// Slots returns the size of the connection slot table.
func (s *Service) Slots() int {
	return len(s.slots)
}
