package app

import (
	"context"
	"fmt"
	"time"

	"github.com/Adda-Baaj/purpleair-go/internal/config"
	"github.com/Adda-Baaj/purpleair-go/internal/logger"
	"github.com/Adda-Baaj/purpleair-go/internal/relay"
	"github.com/Adda-Baaj/purpleair-go/internal/sensors"
	"github.com/Adda-Baaj/purpleair-go/internal/storage"
	"github.com/Adda-Baaj/purpleair-go/pkg/purpleair"
	"github.com/Adda-Baaj/purpleair-go/pkg/publishers"
)

// Relay polls the configured sensors on an interval and fans every new
// reading out to the enabled publishers.
type Relay struct {
	cfg          *config.Config
	sensors      []sensors.Sensor
	fanout       *publishers.Fanout
	service      *relay.Service
	pollInterval time.Duration
	log          logger.Logger
	store        storage.Store
}

// NewRelay builds the relay runtime from config files. Cloud keys are
// validated here, so a bad key fails startup.
func NewRelay(ctx context.Context, cfg *config.Config, log logger.Logger) (*Relay, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config must not be nil")
	}
	if log == nil {
		log = logger.NopLogger{}
	}
	if ctx == nil {
		ctx = context.Background()
	}

	sensorReg, err := sensors.LoadRegistry(cfg.SensorsFile)
	if err != nil {
		return nil, fmt.Errorf("load sensors registry: %w", err)
	}
	enabledSensors := sensorReg.Enabled()
	sensorIDs := make([]string, 0, len(enabledSensors))
	for _, s := range enabledSensors {
		sensorIDs = append(sensorIDs, s.ID)
	}
	log.InfoObj("sensors registry loaded", "sensors_meta", map[string]any{
		"count": len(sensorIDs),
		"ids":   sensorIDs,
	})

	reader, err := newReader(ctx, cfg, log, enabledSensors)
	if err != nil {
		return nil, err
	}

	publisherReg, err := publishers.LoadRegistry(cfg.PublishersFile)
	if err != nil {
		return nil, fmt.Errorf("load publishers registry: %w", err)
	}
	enabledPublishers := publisherReg.Enabled()
	if len(enabledPublishers) == 0 {
		return nil, fmt.Errorf("no publishers configured")
	}

	pubClients, err := publishers.BuildAll(ctx, publishers.DefaultRegistry(), enabledPublishers, log)
	if err != nil {
		return nil, fmt.Errorf("build publishers: %w", err)
	}
	fanout := publishers.NewFanout(pubClients)
	publisherSummaries := make([]map[string]string, 0, len(enabledPublishers))
	for _, pubCfg := range enabledPublishers {
		publisherSummaries = append(publisherSummaries, map[string]string{
			"id":   pubCfg.ID,
			"type": pubCfg.Type,
		})
	}
	log.InfoObj("publishers registry loaded", "publishers_meta", map[string]any{
		"count":      len(publisherSummaries),
		"publishers": publisherSummaries,
	})

	store, err := storage.NewStore(cfg.StorageType, cfg.BBoltPath, storage.Options{
		ReadingTTL:      cfg.StorageTTL,
		CleanupInterval: cfg.StorageCleanupInterval,
	})
	if err != nil {
		return nil, fmt.Errorf("init storage: %w", err)
	}
	log.InfoObj("storage initialized", "storage_config", map[string]any{
		"type":                     cfg.StorageType,
		"path":                     cfg.BBoltPath,
		"reading_ttl_seconds":      int(cfg.StorageTTL.Seconds()),
		"cleanup_interval_seconds": int(cfg.StorageCleanupInterval.Seconds()),
	})

	return &Relay{
		cfg:          cfg,
		sensors:      enabledSensors,
		fanout:       fanout,
		service:      relay.NewService(reader, fanout, log, store),
		pollInterval: cfg.PollInterval,
		log:          log,
		store:        store,
	}, nil
}

// newReader only builds a cloud client when some sensor needs one, since a
// client without keys is rejected.
func newReader(ctx context.Context, cfg *config.Config, log logger.Logger, list []sensors.Sensor) (*relay.ClientReader, error) {
	transport := purpleair.NewTransport(nil, log, cfg.Debug)
	if !sensors.NeedsCloud(list) {
		return relay.NewClientReader(nil, transport), nil
	}

	client, err := purpleair.New(ctx, purpleair.Options{
		ReadKey: cfg.ReadKey,
		Logger:  log,
		Debug:   cfg.Debug,
		BaseURL: cfg.BaseURL,
	})
	if err != nil {
		return nil, fmt.Errorf("init purpleair client: %w", err)
	}
	log.InfoObj("purpleair client ready", "purpleair_meta", map[string]any{
		"api_versions": client.APIVersions(),
		"base_url":     cfg.BaseURL,
	})
	return relay.NewClientReader(client, transport), nil
}

// Run starts the poll loop until the context is cancelled.
func (r *Relay) Run(ctx context.Context) error {
	if r == nil || r.service == nil {
		return fmt.Errorf("relay is not initialized")
	}
	defer r.closeStore()

	if len(r.sensors) == 0 {
		r.log.WarnObj("no enabled sensors; relay idle", "sensors_file", r.cfg.SensorsFile)
		<-ctx.Done()
		return nil
	}

	r.log.InfoObj("relay loop starting", "relay_state", map[string]any{
		"sensors_count":    len(r.sensors),
		"publishers_count": r.fanout.Size(),
		"poll_interval":    r.pollInterval.String(),
	})

	if err := r.runOnce(ctx); err != nil {
		r.log.ErrorObj("initial poll failed", "error", err.Error())
	}

	ticker := time.NewTicker(r.pollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			r.log.InfoObj("relay loop exiting", "reason", ctx.Err().Error())
			return nil
		case <-ticker.C:
			if err := r.runOnce(ctx); err != nil {
				r.log.ErrorObj("scheduled poll failed", "error", err.Error())
			}
		}
	}
}

func (r *Relay) runOnce(ctx context.Context) error {
	start := time.Now()
	if err := r.service.Run(ctx, r.sensors); err != nil {
		return err
	}
	r.log.InfoObj("poll completed", "poll_meta", map[string]any{
		"sensors_count": len(r.sensors),
		"elapsed_ms":    time.Since(start).Milliseconds(),
	})
	return nil
}

func (r *Relay) closeStore() {
	if r == nil || r.store == nil {
		return
	}
	if err := r.store.Close(); err != nil {
		r.log.ErrorObj("storage close failed", "error", err.Error())
	}
}
