package agent

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/dgraph-io/badger"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"golang.org/x/sync/errgroup"

	"github.com/unipad/unipad-agent/internal/configsvc"
	"github.com/unipad/unipad-agent/internal/padsvc"
	"github.com/unipad/unipad-agent/internal/padsvc/hidhost"
)

type Agent struct {
	config Config

	db        *badger.DB
	configSvc *configsvc.Service
	padSvc    *padsvc.Service
}

func NewAgent(config Config) (*Agent, error) {
	loggerConfig := zap.NewDevelopmentConfig()
	loggerConfig.EncoderConfig.EncodeTime = zapcore.TimeEncoderOfLayout("15:04:05.000000000")
	loggerConfig.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	logger, err := loggerConfig.Build()
	if err != nil {
		return nil, fmt.Errorf("failed to create logger: %w", err)
	}

	dbOptions := badger.DefaultOptions(filepath.Join(config.DataDir, "db"))
	dbOptions.Logger = &badgerLogger{l: logger.Named("badger")}
	db, err := badger.Open(dbOptions)
	if err != nil {
		return nil, fmt.Errorf("failed to open badger db: %w", err)
	}

	configSvc := configsvc.New(logger.Named("config"))
	backend := hidhost.New(logger.Named("pad.hidhost"))
	padSvc := padsvc.New(db, logger.Named("pad"), time.Now,
		padsvc.WithBackend("hidhost", backend),
		padsvc.WithSlots(config.Slots),
		padsvc.WithConfig(configSvc, config.PadConfig),
	)

	return &Agent{
		config:    config,
		db:        db,
		configSvc: configSvc,
		padSvc:    padSvc,
	}, nil
}

func (a *Agent) Close() error {
	return a.db.Close()
}

type badgerLogger struct {
	l *zap.Logger
}

func (l badgerLogger) Errorf(msg string, args ...any) {
	l.l.Error(fmt.Sprintf(msg, args...))
}

func (l badgerLogger) Warningf(msg string, args ...any) {
	l.l.Warn(fmt.Sprintf(msg, args...))
}

func (l badgerLogger) Infof(msg string, args ...any) {
	l.l.Info(fmt.Sprintf(msg, args...))
}

func (l badgerLogger) Debugf(msg string, args ...any) {
	l.l.Debug(fmt.Sprintf(msg, args...))
}

// Run starts the agent and blocks until the context is cancelled.
func (a *Agent) Run(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	group, groupCtx := errgroup.WithContext(ctx)
	group.Go(func() error {
		return a.configSvc.Start(groupCtx)
	})
	group.Go(func() error {
		return a.padSvc.Start(groupCtx)
	})

	err := group.Wait()
	if err != nil {
		return fmt.Errorf("agent failed: %w", err)
	}
	return nil
}

func (a *Agent) Pad() *padsvc.Service {
	return a.padSvc
}
