package publishers

import (
	"encoding/json"
	"time"
)

// Event represents one sensor reading published downstream. Payload is the
// response body exactly as the PurpleAir API or the sensor returned it.
type Event struct {
	SensorID    string          `json:"sensor_id"`
	SensorName  string          `json:"sensor_name"`
	Source      string          `json:"source"`
	ReadingID   string          `json:"reading_id"`
	Payload     json.RawMessage `json:"payload"`
	CollectedAt time.Time       `json:"collected_at"`
}

// NewEvent constructs an Event for the given sensor reading.
// A body that is not valid JSON is carried as a JSON string.
func NewEvent(sensorID, sensorName, source, readingID, body string) Event {
	payload := json.RawMessage(body)
	if !json.Valid(payload) {
		quoted, _ := json.Marshal(body)
		payload = quoted
	}
	return Event{
		SensorID:    sensorID,
		SensorName:  sensorName,
		Source:      source,
		ReadingID:   readingID,
		Payload:     payload,
		CollectedAt: time.Now().UTC(),
	}
}
