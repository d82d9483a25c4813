package purpleair

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
)

// MemberSpec selects how a sensor is added to a group. Valid combinations:
//   - SensorID only
//   - SensorIndex only
//   - SensorID with OwnerEmail, and optionally LocationType (private sensors)
type MemberSpec struct {
	SensorIndex  int
	SensorID     string
	OwnerEmail   string
	LocationType *int
}

// WriteAPI sends requests authorized by a write key. Bodies are returned verbatim.
type WriteAPI struct {
	transport *Transport
	baseURL   string
	apiKey    string
}

// NewWriteAPI builds a WriteAPI rooted at baseURL, which must end in '/'.
func NewWriteAPI(t *Transport, baseURL, writeKey string) *WriteAPI {
	return &WriteAPI{transport: t, baseURL: baseURL, apiKey: writeKey}
}

// RegisterSensor registers the sensor with the key's account.
func (w *WriteAPI) RegisterSensor(ctx context.Context, sensorIndex int) (string, error) {
	body, err := encodeBody(map[string]any{"sensor_index": sensorIndex})
	if err != nil {
		return "", err
	}
	return w.transport.Post(ctx, w.baseURL+"members", w.apiKey, body)
}

// UnregisterSensor removes a member registration.
func (w *WriteAPI) UnregisterSensor(ctx context.Context, memberID int) (string, error) {
	return w.transport.Delete(ctx, w.baseURL+"members/"+strconv.Itoa(memberID), w.apiKey)
}

// CreateGroup creates a named sensor group.
func (w *WriteAPI) CreateGroup(ctx context.Context, name string) (string, error) {
	if name == "" {
		return "", configErrorf("group name is required")
	}
	body, err := encodeBody(map[string]any{"name": name})
	if err != nil {
		return "", err
	}
	return w.transport.Post(ctx, w.baseURL+"groups", w.apiKey, body)
}

// DeleteGroup deletes a sensor group.
func (w *WriteAPI) DeleteGroup(ctx context.Context, groupID int) (string, error) {
	return w.transport.Delete(ctx, w.baseURL+groupPath(groupID), w.apiKey)
}

// CreateMember adds a sensor to a group.
func (w *WriteAPI) CreateMember(ctx context.Context, groupID int, spec MemberSpec) (string, error) {
	payload, err := memberPayload(spec)
	if err != nil {
		return "", err
	}
	body, err := encodeBody(payload)
	if err != nil {
		return "", err
	}
	return w.transport.Post(ctx, w.baseURL+groupPath(groupID)+"/members", w.apiKey, body)
}

// DeleteMember removes a member from a group.
func (w *WriteAPI) DeleteMember(ctx context.Context, groupID, memberID int) (string, error) {
	return w.transport.Delete(ctx, w.baseURL+memberPath(groupID, memberID), w.apiKey)
}

func memberPayload(spec MemberSpec) (map[string]any, error) {
	hasIndex := spec.SensorIndex > 0
	hasID := spec.SensorID != ""
	hasEmail := spec.OwnerEmail != ""

	switch {
	case hasID && !hasIndex && !hasEmail && spec.LocationType == nil:
		return map[string]any{"sensor_id": spec.SensorID}, nil
	case hasIndex && !hasID && !hasEmail && spec.LocationType == nil:
		return map[string]any{"sensor_index": spec.SensorIndex}, nil
	case hasID && hasEmail && !hasIndex:
		payload := map[string]any{
			"sensor_id":   spec.SensorID,
			"owner_email": spec.OwnerEmail,
		}
		if spec.LocationType != nil {
			payload["location_type"] = *spec.LocationType
		}
		return payload, nil
	default:
		return nil, configErrorf("invalid member: use sensor_id, sensor_index, or sensor_id with owner_email")
	}
}

func encodeBody(v any) (string, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return "", fmt.Errorf("encode request body: %w", err)
	}
	return string(raw), nil
}
