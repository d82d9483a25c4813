package sensors

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"
)

// Package sensors loads the relay's sensor list from YAML/JSON files.

const (
	// SourceCloud reads a sensor through the cloud read API.
	SourceCloud = "cloud"
	// SourceLocal reads a sensor from its local network JSON endpoint.
	SourceLocal = "local"
)

// Sensor is a single sensor entry declared in the sensors file.
type Sensor struct {
	ID           string `json:"id" yaml:"id"`
	Name         string `json:"name" yaml:"name"`
	Source       string `json:"source" yaml:"source"`
	SensorIndex  int    `json:"sensor_index" yaml:"sensor_index"`
	ReadKey      string `json:"read_key" yaml:"read_key"`
	Fields       string `json:"fields" yaml:"fields"`
	LocalAddress string `json:"local_address" yaml:"local_address"`
	Enabled      *bool  `json:"enabled" yaml:"enabled"`
}

type configFile struct {
	Sensors []Sensor `json:"sensors" yaml:"sensors"`
}

// Registry materializes sensor definitions loaded from a config file.
type Registry struct {
	mu      sync.RWMutex
	sensors []Sensor
	idx     map[string]Sensor
}

// LoadRegistry loads the sensor registry from a YAML/JSON file.
func LoadRegistry(path string) (*Registry, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return nil, errors.New("sensors file path is empty")
	}

	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open sensors file: %w", err)
	}
	defer file.Close()

	raw, err := io.ReadAll(file)
	if err != nil {
		return nil, fmt.Errorf("read sensors file: %w", err)
	}

	parsed, err := parseFile(raw, filepath.Ext(path))
	if err != nil {
		return nil, err
	}
	if len(parsed.Sensors) == 0 {
		return nil, errors.New("sensors file contains no sensors entries")
	}

	reg := &Registry{
		sensors: make([]Sensor, len(parsed.Sensors)),
		idx:     make(map[string]Sensor, len(parsed.Sensors)),
	}
	for i := range parsed.Sensors {
		s := sanitizeSensor(parsed.Sensors[i])
		if err := validateSensor(s); err != nil {
			return nil, fmt.Errorf("sensors[%d]: %w", i, err)
		}
		if _, exists := reg.idx[s.ID]; exists {
			return nil, fmt.Errorf("duplicate sensor id %q", s.ID)
		}
		reg.sensors[i] = s
		reg.idx[s.ID] = s
	}
	return reg, nil
}

func parseFile(data []byte, ext string) (configFile, error) {
	ext = strings.ToLower(strings.TrimSpace(ext))
	decoders := []struct {
		name string
		ext  string
		fn   func([]byte, any) error
	}{
		{name: "yaml", ext: ".yaml", fn: yaml.Unmarshal},
		{name: "yaml", ext: ".yml", fn: yaml.Unmarshal},
		{name: "json", ext: ".json", fn: json.Unmarshal},
	}

	for _, d := range decoders {
		if ext != "" && ext != d.ext {
			continue
		}
		var f configFile
		if err := d.fn(data, &f); err == nil {
			return f, nil
		}
	}
	return configFile{}, errors.New("sensors file format not recognized (expected YAML or JSON)")
}

func sanitizeSensor(s Sensor) Sensor {
	s.ID = strings.TrimSpace(s.ID)
	s.Name = strings.TrimSpace(s.Name)
	s.Source = strings.ToLower(strings.TrimSpace(s.Source))
	s.ReadKey = strings.TrimSpace(s.ReadKey)
	s.Fields = strings.TrimSpace(s.Fields)
	s.LocalAddress = strings.TrimSpace(s.LocalAddress)

	if s.Source == "" {
		s.Source = SourceCloud
	}
	if s.Name == "" {
		s.Name = s.ID
	}
	if s.Enabled == nil {
		def := true
		s.Enabled = &def
	}
	return s
}

func validateSensor(s Sensor) error {
	if s.ID == "" {
		return errors.New("id is required")
	}
	switch s.Source {
	case SourceCloud:
		if s.SensorIndex <= 0 {
			return fmt.Errorf("sensor_index must be positive for cloud sensor %q", s.ID)
		}
	case SourceLocal:
		if s.LocalAddress == "" {
			return fmt.Errorf("local_address is required for local sensor %q", s.ID)
		}
	default:
		return fmt.Errorf("unsupported source %q for sensor %q", s.Source, s.ID)
	}
	return nil
}

// ByID returns the sensor config by id.
func (r *Registry) ByID(id string) (Sensor, bool) {
	if r == nil {
		return Sensor{}, false
	}
	id = strings.TrimSpace(id)
	if id == "" {
		return Sensor{}, false
	}

	r.mu.RLock()
	defer r.mu.RUnlock()
	s, ok := r.idx[id]
	return s, ok
}

// All returns all configured sensors.
func (r *Registry) All() []Sensor {
	if r == nil {
		return nil
	}

	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]Sensor, len(r.sensors))
	copy(out, r.sensors)
	return out
}

// Enabled returns sensors that are enabled.
func (r *Registry) Enabled() []Sensor {
	all := r.All()
	out := make([]Sensor, 0, len(all))
	for _, s := range all {
		if s.EnabledValue() {
			out = append(out, s)
		}
	}
	return out
}

// EnabledValue returns enabled flag defaulting to true.
func (s Sensor) EnabledValue() bool {
	if s.Enabled == nil {
		return true
	}
	return *s.Enabled
}

// NeedsCloud reports whether any sensor is read through the cloud API.
func NeedsCloud(list []Sensor) bool {
	for _, s := range list {
		if s.Source == SourceCloud {
			return true
		}
	}
	return false
}
