package relay

import (
	"context"
	"errors"
	"fmt"

	"github.com/Adda-Baaj/purpleair-go/internal/logger"
	"github.com/Adda-Baaj/purpleair-go/internal/sensors"
	"github.com/Adda-Baaj/purpleair-go/internal/storage"
	"github.com/Adda-Baaj/purpleair-go/pkg/publishers"
)

// Service runs one polling pass over the configured sensors.
type Service struct {
	reader    Reader
	publisher EventPublisher
	log       logger.Logger
	store     ReadingDeduper
}

// NewService wires a relay pass. A nil store publishes every reading.
func NewService(reader Reader, pub EventPublisher, log logger.Logger, store ReadingDeduper) *Service {
	if log == nil {
		log = logger.NopLogger{}
	}
	return &Service{
		reader:    reader,
		publisher: pub,
		log:       log,
		store:     store,
	}
}

// Run polls every sensor once. Failures of individual sensors are joined.
func (s *Service) Run(ctx context.Context, list []sensors.Sensor) error {
	if s == nil || s.reader == nil {
		return fmt.Errorf("relay service is not initialized")
	}
	if len(list) == 0 {
		return fmt.Errorf("no sensors configured for polling")
	}

	if errs := s.runAll(ctx, list); len(errs) > 0 {
		return errors.Join(errs...)
	}
	return nil
}

func (s *Service) runAll(ctx context.Context, list []sensors.Sensor) []error {
	var errs []error
	for _, sensor := range list {
		if ctx.Err() != nil {
			break
		}
		if err := s.runSensor(ctx, sensor); err != nil {
			errs = append(errs, err)
			s.log.ErrorObj("sensor poll failed", "sensor_error", map[string]any{
				"sensor_id": sensor.ID,
				"error":     err.Error(),
			})
		}
	}
	return errs
}

func (s *Service) runSensor(ctx context.Context, sensor sensors.Sensor) error {
	body, err := s.reader.Read(ctx, sensor)
	if err != nil {
		return fmt.Errorf("read sensor %s: %w", sensor.ID, err)
	}

	id := storage.ReadingID(sensor.ID, body)
	if s.store != nil {
		seen, err := s.store.SeenReading(id)
		if err != nil {
			s.log.WarnObj("reading lookup failed; publishing anyway", "storage_error", map[string]any{
				"sensor_id": sensor.ID,
				"error":     err.Error(),
			})
		} else if seen {
			s.log.DebugObj("reading unchanged", "sensor_id", sensor.ID)
			return nil
		}
	}

	if s.publisher == nil {
		return nil
	}
	evt := publishers.NewEvent(sensor.ID, sensor.Name, sensor.Source, id, body)
	delivered, err := s.publisher.Publish(ctx, evt)
	if err != nil {
		return fmt.Errorf("publish sensor %s: %w", sensor.ID, err)
	}

	if s.store != nil {
		if err := s.store.MarkReading(id); err != nil {
			s.log.WarnObj("mark reading failed", "storage_error", map[string]any{
				"sensor_id": sensor.ID,
				"error":     err.Error(),
			})
		}
	}

	s.log.InfoObj("sensor reading relayed", "sensor_result", map[string]any{
		"sensor_id":  sensor.ID,
		"reading_id": id,
		"delivered":  delivered,
	})
	return nil
}
