package relay

import (
	"context"
	"fmt"

	"github.com/Adda-Baaj/purpleair-go/internal/sensors"
	"github.com/Adda-Baaj/purpleair-go/pkg/purpleair"
)

// ClientReader reads cloud sensors through a validated client and local
// sensors straight from their network endpoint.
type ClientReader struct {
	cloud     *purpleair.Client
	transport *purpleair.Transport
}

// NewClientReader builds a reader. cloud may be nil when no cloud sensors are configured.
func NewClientReader(cloud *purpleair.Client, transport *purpleair.Transport) *ClientReader {
	return &ClientReader{cloud: cloud, transport: transport}
}

func (r *ClientReader) Read(ctx context.Context, s sensors.Sensor) (string, error) {
	switch s.Source {
	case sensors.SourceLocal:
		if r.transport == nil {
			return "", fmt.Errorf("no transport configured for local sensor %q", s.ID)
		}
		return purpleair.NewLocalAPI(r.transport, []string{s.LocalAddress}).SensorData(ctx)
	default:
		if r.cloud == nil {
			return "", fmt.Errorf("no cloud client configured for sensor %q", s.ID)
		}
		return r.cloud.SensorData(ctx, s.SensorIndex, purpleair.SensorDataOptions{
			ReadKey: s.ReadKey,
			Fields:  s.Fields,
		})
	}
}
