package purpleair

import (
	"context"
	"errors"
	"net/http"
	"testing"
)

func newFacadeClient() (*fakeClient, *Transport) {
	client := &fakeClient{resp: fakeResponse{status: http.StatusOK, body: "{}"}}
	return client, NewTransport(client, nil, false)
}

func TestReadSensorDataOmitsEmptyOptions(t *testing.T) {
	client, tr := newFacadeClient()
	r := NewReadAPI(tr, DefaultBaseURL, "rk")

	if _, err := r.SensorData(context.Background(), 5, SensorDataOptions{}); err != nil {
		t.Fatalf("SensorData: %v", err)
	}
	if got := client.last(t).url; got != "https://api.purpleair.com/v1/sensors/5?" {
		t.Fatalf("url = %q", got)
	}

	if _, err := r.SensorData(context.Background(), 5, SensorDataOptions{ReadKey: "private", Fields: "name"}); err != nil {
		t.Fatalf("SensorData: %v", err)
	}
	if got := client.last(t).url; got != "https://api.purpleair.com/v1/sensors/5?fields=name&read_key=private" {
		t.Fatalf("url = %q", got)
	}
}

func TestReadSensorsDataParams(t *testing.T) {
	client, tr := newFacadeClient()
	r := NewReadAPI(tr, DefaultBaseURL, "rk")

	_, err := r.SensorsData(context.Background(), SensorsDataOptions{
		Fields:       "name,pm2.5",
		LocationType: "0",
		MaxAge:       0,
		NWLng:        "-122.5",
		NWLat:        "37.8",
		SELng:        "-122.3",
		SELat:        "37.7",
	})
	if err != nil {
		t.Fatalf("SensorsData: %v", err)
	}
	want := "https://api.purpleair.com/v1/sensors?fields=name%2Cpm2.5&location_type=0&nwlat=37.8&nwlng=-122.5&selat=37.7&selng=-122.3"
	if got := client.last(t).url; got != want {
		t.Fatalf("url = %q\nwant  %q", got, want)
	}

	if _, err := r.SensorsData(context.Background(), SensorsDataOptions{Fields: "name", MaxAge: 3600}); err != nil {
		t.Fatalf("SensorsData: %v", err)
	}
	if got := client.last(t).url; got != "https://api.purpleair.com/v1/sensors?fields=name&max_age=3600" {
		t.Fatalf("url = %q", got)
	}
}

func TestReadSensorsDataRequiresFields(t *testing.T) {
	client, tr := newFacadeClient()
	_, err := NewReadAPI(tr, DefaultBaseURL, "rk").SensorsData(context.Background(), SensorsDataOptions{})
	if !errors.Is(err, ErrConfig) {
		t.Fatalf("expected configuration error, got %v", err)
	}
	if len(client.calls) != 0 {
		t.Fatalf("no request expected")
	}
}

func TestReadSensorHistory(t *testing.T) {
	client, tr := newFacadeClient()
	r := NewReadAPI(tr, DefaultBaseURL, "rk")

	_, err := r.SensorHistory(context.Background(), 9, SensorHistoryOptions{
		StartTimestamp: 1690000000,
		EndTimestamp:   1690086400,
		Average:        60,
		Fields:         "pm2.5_atm",
	})
	if err != nil {
		t.Fatalf("SensorHistory: %v", err)
	}
	want := "https://api.purpleair.com/v1/sensors/9/history?average=60&end_timestamp=1690086400&fields=pm2.5_atm&start_timestamp=1690000000"
	if got := client.last(t).url; got != want {
		t.Fatalf("url = %q", got)
	}

	if _, err := r.SensorHistory(context.Background(), 9, SensorHistoryOptions{StartTimestamp: 1, EndTimestamp: 2, CSV: true}); err != nil {
		t.Fatalf("SensorHistory csv: %v", err)
	}
	if got := client.last(t).url; got != "https://api.purpleair.com/v1/sensors/9/history/csv?end_timestamp=2&start_timestamp=1" {
		t.Fatalf("url = %q", got)
	}
}

func TestReadGroupEndpoints(t *testing.T) {
	client, tr := newFacadeClient()
	r := NewReadAPI(tr, DefaultBaseURL, "rk")
	ctx := context.Background()

	checks := []struct {
		name string
		call func() error
		want string
	}{
		{"list", func() error { _, err := r.GroupList(ctx); return err }, "https://api.purpleair.com/v1/groups"},
		{"detail", func() error { _, err := r.GroupDetail(ctx, 3); return err }, "https://api.purpleair.com/v1/groups/3"},
		{"member", func() error { _, err := r.MemberData(ctx, 3, 4, "name"); return err }, "https://api.purpleair.com/v1/groups/3/members/4?fields=name"},
		{"member history", func() error {
			_, err := r.MemberHistory(ctx, 3, 4, MemberHistoryOptions{Fields: "humidity", StartTimestamp: 10})
			return err
		}, "https://api.purpleair.com/v1/groups/3/members/4/history?fields=humidity&start_timestamp=10"},
		{"members", func() error {
			_, err := r.MembersData(ctx, 3, SensorsDataOptions{Fields: "name", ShowOnly: "1,2"})
			return err
		}, "https://api.purpleair.com/v1/groups/3/members?fields=name&show_only=1%2C2"},
	}
	for _, c := range checks {
		if err := c.call(); err != nil {
			t.Fatalf("%s: %v", c.name, err)
		}
		call := client.last(t)
		if call.url != c.want {
			t.Fatalf("%s url = %q, want %q", c.name, call.url, c.want)
		}
		if call.headers["X-API-Key"] != "rk" {
			t.Fatalf("%s missing key header", c.name)
		}
	}
}

func TestWriteGroupEndpoints(t *testing.T) {
	client, tr := newFacadeClient()
	w := NewWriteAPI(tr, DefaultBaseURL, "wk")
	ctx := context.Background()

	if _, err := w.CreateGroup(ctx, "backyard"); err != nil {
		t.Fatalf("CreateGroup: %v", err)
	}
	if call := client.last(t); call.url != DefaultBaseURL+"groups" || call.body != `{"name":"backyard"}` {
		t.Fatalf("create group request = %+v", call)
	}

	if _, err := w.DeleteGroup(ctx, 3); err != nil {
		t.Fatalf("DeleteGroup: %v", err)
	}
	if call := client.last(t); call.method != http.MethodDelete || call.url != DefaultBaseURL+"groups/3" {
		t.Fatalf("delete group request = %+v", call)
	}

	if _, err := w.DeleteMember(ctx, 3, 8); err != nil {
		t.Fatalf("DeleteMember: %v", err)
	}
	if call := client.last(t); call.url != DefaultBaseURL+"groups/3/members/8" {
		t.Fatalf("delete member request = %+v", call)
	}
}

func TestWriteCreateMemberOptions(t *testing.T) {
	client, tr := newFacadeClient()
	w := NewWriteAPI(tr, DefaultBaseURL, "wk")
	ctx := context.Background()
	inside := 1

	cases := []struct {
		spec MemberSpec
		want string
	}{
		{MemberSpec{SensorID: "AB:CD"}, `{"sensor_id":"AB:CD"}`},
		{MemberSpec{SensorIndex: 12}, `{"sensor_index":12}`},
		{MemberSpec{SensorID: "AB:CD", OwnerEmail: "me@example.com", LocationType: &inside}, `{"location_type":1,"owner_email":"me@example.com","sensor_id":"AB:CD"}`},
	}
	for _, c := range cases {
		if _, err := w.CreateMember(ctx, 3, c.spec); err != nil {
			t.Fatalf("CreateMember(%+v): %v", c.spec, err)
		}
		call := client.last(t)
		if call.url != DefaultBaseURL+"groups/3/members" || call.body != c.want {
			t.Fatalf("CreateMember(%+v) sent %s %s", c.spec, call.url, call.body)
		}
		if call.headers["Content-Type"] != "application/json" {
			t.Fatalf("missing content type")
		}
	}

	_, err := w.CreateMember(ctx, 3, MemberSpec{SensorIndex: 1, SensorID: "x"})
	if !errors.Is(err, ErrConfig) {
		t.Fatalf("expected configuration error, got %v", err)
	}
}

func TestLocalSensorDataUsesFirstAddress(t *testing.T) {
	client, tr := newFacadeClient()
	l := NewLocalAPI(tr, []string{"10.0.0.5", "10.0.0.6"})

	if _, err := l.SensorData(context.Background()); err != nil {
		t.Fatalf("SensorData: %v", err)
	}
	call := client.last(t)
	if call.url != "http://10.0.0.5/json" {
		t.Fatalf("url = %q", call.url)
	}
	if len(call.headers) != 0 {
		t.Fatalf("local requests carry no headers, got %#v", call.headers)
	}
	if len(client.calls) != 1 {
		t.Fatalf("expected a single request, got %d", len(client.calls))
	}
}

func TestLocalSensorDataWithoutAddresses(t *testing.T) {
	client, tr := newFacadeClient()
	_, err := NewLocalAPI(tr, nil).SensorData(context.Background())
	var cfgErr *ConfigError
	if !errors.As(err, &cfgErr) {
		t.Fatalf("expected *ConfigError, got %v", err)
	}
	if len(client.calls) != 0 {
		t.Fatalf("no request expected")
	}
}
