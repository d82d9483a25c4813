package relay

import (
	"context"

	"github.com/Adda-Baaj/purpleair-go/internal/sensors"
	"github.com/Adda-Baaj/purpleair-go/pkg/publishers"
)

// Reader fetches the current raw reading of a sensor.
type Reader interface {
	Read(ctx context.Context, s sensors.Sensor) (string, error)
}

// EventPublisher delivers an event to downstream sinks.
type EventPublisher interface {
	Publish(ctx context.Context, evt publishers.Event) (int, error)
}

// ReadingDeduper tracks readings that were already published.
type ReadingDeduper interface {
	SeenReading(id string) (bool, error)
	MarkReading(id string) error
}
