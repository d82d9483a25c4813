package purpleair

import (
	"context"
	"strconv"
)

// SensorDataOptions are the optional parameters of a single-sensor request.
type SensorDataOptions struct {
	ReadKey string
	Fields  string
}

// SensorsDataOptions are the parameters of a sensor list request. Fields is required.
type SensorsDataOptions struct {
	Fields        string
	LocationType  string
	ReadKeys      string
	ShowOnly      string
	ModifiedSince string
	MaxAge        int
	NWLng         string
	NWLat         string
	SELng         string
	SELat         string
}

// SensorHistoryOptions are the parameters of a sensor history request.
type SensorHistoryOptions struct {
	ReadKey        string
	StartTimestamp int64
	EndTimestamp   int64
	Average        int
	Fields         string
	Privacy        string
	CSV            bool
}

// MemberHistoryOptions are the parameters of a group member history request.
type MemberHistoryOptions struct {
	Fields         string
	StartTimestamp int64
	EndTimestamp   int64
	Average        int
}

// ReadAPI sends requests authorized by a read key. Bodies are returned verbatim.
type ReadAPI struct {
	transport *Transport
	baseURL   string
	apiKey    string
}

// NewReadAPI builds a ReadAPI rooted at baseURL, which must end in '/'.
func NewReadAPI(t *Transport, baseURL, readKey string) *ReadAPI {
	return &ReadAPI{transport: t, baseURL: baseURL, apiKey: readKey}
}

// SensorData fetches the latest data of one sensor.
func (r *ReadAPI) SensorData(ctx context.Context, sensorIndex int, opts SensorDataOptions) (string, error) {
	params := map[string]string{
		"read_key": opts.ReadKey,
		"fields":   opts.Fields,
	}
	return r.transport.Get(ctx, r.baseURL+"sensors/"+strconv.Itoa(sensorIndex), r.apiKey, "?", params)
}

// SensorsData fetches data for many sensors, optionally filtered.
func (r *ReadAPI) SensorsData(ctx context.Context, opts SensorsDataOptions) (string, error) {
	if opts.Fields == "" {
		return "", configErrorf("fields is required for a sensor list request")
	}
	return r.transport.Get(ctx, r.baseURL+"sensors", r.apiKey, "?", listParams(opts))
}

// SensorHistory fetches historic data of one sensor, as JSON or CSV.
func (r *ReadAPI) SensorHistory(ctx context.Context, sensorIndex int, opts SensorHistoryOptions) (string, error) {
	path := "sensors/" + strconv.Itoa(sensorIndex) + "/history"
	if opts.CSV {
		path += "/csv"
	}

	params := map[string]string{
		"start_timestamp": strconv.FormatInt(opts.StartTimestamp, 10),
		"end_timestamp":   strconv.FormatInt(opts.EndTimestamp, 10),
		"read_key":        opts.ReadKey,
		"fields":          opts.Fields,
		"privacy":         opts.Privacy,
		"average":         positive(opts.Average),
	}
	return r.transport.Get(ctx, r.baseURL+path, r.apiKey, "?", params)
}

// GroupList lists the groups owned by the key.
func (r *ReadAPI) GroupList(ctx context.Context) (string, error) {
	return r.transport.Get(ctx, r.baseURL+"groups", r.apiKey, "", nil)
}

// GroupDetail lists the members of one group.
func (r *ReadAPI) GroupDetail(ctx context.Context, groupID int) (string, error) {
	return r.transport.Get(ctx, r.baseURL+groupPath(groupID), r.apiKey, "", nil)
}

// MemberData fetches the latest data of one group member.
func (r *ReadAPI) MemberData(ctx context.Context, groupID, memberID int, fields string) (string, error) {
	params := map[string]string{"fields": fields}
	return r.transport.Get(ctx, r.baseURL+memberPath(groupID, memberID), r.apiKey, "?", params)
}

// MemberHistory fetches historic data of one group member.
func (r *ReadAPI) MemberHistory(ctx context.Context, groupID, memberID int, opts MemberHistoryOptions) (string, error) {
	params := map[string]string{
		"fields":          opts.Fields,
		"start_timestamp": nonZero(opts.StartTimestamp),
		"end_timestamp":   nonZero(opts.EndTimestamp),
		"average":         positive(opts.Average),
	}
	return r.transport.Get(ctx, r.baseURL+memberPath(groupID, memberID)+"/history", r.apiKey, "?", params)
}

// MembersData fetches data for the members of a group, filtered like SensorsData.
func (r *ReadAPI) MembersData(ctx context.Context, groupID int, opts SensorsDataOptions) (string, error) {
	if opts.Fields == "" {
		return "", configErrorf("fields is required for a group members request")
	}
	return r.transport.Get(ctx, r.baseURL+groupPath(groupID)+"/members", r.apiKey, "?", listParams(opts))
}

func listParams(opts SensorsDataOptions) map[string]string {
	return map[string]string{
		"fields":         opts.Fields,
		"location_type":  opts.LocationType,
		"read_keys":      opts.ReadKeys,
		"show_only":      opts.ShowOnly,
		"modified_since": opts.ModifiedSince,
		"max_age":        positive(opts.MaxAge),
		"nwlng":          opts.NWLng,
		"nwlat":          opts.NWLat,
		"selng":          opts.SELng,
		"selat":          opts.SELat,
	}
}

// positive formats n, or returns "" so the parameter is omitted.
func positive(n int) string {
	if n <= 0 {
		return ""
	}
	return strconv.Itoa(n)
}

func nonZero(n int64) string {
	if n == 0 {
		return ""
	}
	return strconv.FormatInt(n, 10)
}

func groupPath(groupID int) string {
	return "groups/" + strconv.Itoa(groupID)
}

func memberPath(groupID, memberID int) string {
	return groupPath(groupID) + "/members/" + strconv.Itoa(memberID)
}
