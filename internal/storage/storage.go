package storage

import (
	"crypto/sha1" //nolint:gosec // non-cryptographic fingerprint
	"encoding/hex"
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// Package storage remembers which sensor readings the relay already published.

// Store tracks published reading fingerprints.
type Store interface {
	Close() error
	SeenReading(id string) (bool, error)
	MarkReading(id string) error
}

// Options controls retention characteristics for concrete store implementations.
type Options struct {
	ReadingTTL      time.Duration
	CleanupInterval time.Duration
}

const (
	defaultReadingTTL      = 24 * time.Hour
	defaultCleanupInterval = time.Hour
)

// NewStore creates the configured storage backend.
func NewStore(typ, path string, opts Options) (Store, error) {
	typ = strings.TrimSpace(strings.ToLower(typ))
	opts = normalizeOptions(opts)

	switch typ {
	case "", "none", "disabled":
		return noopStore{}, nil
	case "bbolt":
		if strings.TrimSpace(path) == "" {
			return nil, fmt.Errorf("bbolt storage requires a path")
		}
		return openBolt(path, opts)
	default:
		return nil, fmt.Errorf("unsupported storage type %q", typ)
	}
}

func normalizeOptions(opts Options) Options {
	if opts.ReadingTTL <= 0 {
		opts.ReadingTTL = defaultReadingTTL
	}
	if opts.CleanupInterval <= 0 {
		opts.CleanupInterval = defaultCleanupInterval
	}
	return opts
}

type noopStore struct{}

func (noopStore) Close() error                     { return nil }
func (noopStore) SeenReading(string) (bool, error) { return false, nil }
func (noopStore) MarkReading(string) error         { return nil }

// responseFields change on every cloud API response even when the sensor has
// not reported anything new.
var responseFields = []string{"time_stamp"}

// ReadingID fingerprints a raw reading body for a sensor. Top-level response
// timestamps are ignored so a repeated cloud reading maps to the same id.
func ReadingID(sensorID, body string) string {
	sum := sha1.Sum([]byte(sensorID + "\x00" + stableBody(body)))
	return hex.EncodeToString(sum[:])
}

func stableBody(body string) string {
	var doc map[string]json.RawMessage
	if err := json.Unmarshal([]byte(body), &doc); err != nil {
		return body
	}

	changed := false
	for _, f := range responseFields {
		if _, ok := doc[f]; ok {
			delete(doc, f)
			changed = true
		}
	}
	if !changed {
		return body
	}

	out, err := json.Marshal(doc)
	if err != nil {
		return body
	}
	return string(out)
}
