package purpleair

import (
	"context"
	"strings"

	"github.com/Adda-Baaj/purpleair-go/pkg/httpclient"
)

// DefaultBaseURL is the root of the cloud v1 API.
const DefaultBaseURL = "https://api.purpleair.com/v1/"

// Options configures New. At least one of ReadKey, WriteKey and LocalAddresses must be set.
type Options struct {
	ReadKey        string
	WriteKey       string
	LocalAddresses []string

	// Logger receives request failures, and request URLs when Debug is set.
	Logger Logger
	Debug  bool

	// HTTPClient and BaseURL override the network defaults, mainly for tests and proxies.
	HTTPClient httpclient.Client
	BaseURL    string
}

// Client aggregates the read, write and local APIs. The key metadata maps are
// populated once by New and only read afterwards.
type Client struct {
	Read  *ReadAPI
	Write *WriteAPI
	Local *LocalAPI

	log            Logger
	apiVersions    map[string]string
	keyLastChecked map[string]string
	keyTypes       map[string]string
}

// New validates every supplied key against the keys endpoint and returns a ready client.
// A key reported under the wrong role is a *ConfigError; no partial client is returned.
func New(ctx context.Context, opts Options) (*Client, error) {
	addresses := sanitizeAddresses(opts.LocalAddresses)
	if opts.ReadKey == "" && opts.WriteKey == "" && len(addresses) == 0 {
		return nil, configErrorf("provide a read key or write key for cloud requests, or an IPv4 address for local requests")
	}

	baseURL := opts.BaseURL
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if !strings.HasSuffix(baseURL, "/") {
		baseURL += "/"
	}

	log := ensureLogger(opts.Logger)
	transport := NewTransport(opts.HTTPClient, log, opts.Debug)

	c := &Client{
		Read:           NewReadAPI(transport, baseURL, opts.ReadKey),
		Write:          NewWriteAPI(transport, baseURL, opts.WriteKey),
		Local:          NewLocalAPI(transport, addresses),
		log:            log,
		apiVersions:    make(map[string]string),
		keyLastChecked: make(map[string]string),
		keyTypes:       make(map[string]string),
	}

	keysURL := baseURL + "keys"
	if opts.ReadKey != "" {
		if err := c.checkKey(ctx, transport, keysURL, opts.ReadKey, KeyTypeRead); err != nil {
			return nil, err
		}
	}
	if opts.WriteKey != "" {
		if err := c.checkKey(ctx, transport, keysURL, opts.WriteKey, KeyTypeWrite); err != nil {
			return nil, err
		}
	}

	log.DebugObj("purpleair client ready", "purpleair_client", map[string]any{
		"validated_keys":  len(c.keyTypes),
		"local_addresses": len(addresses),
	})
	return c, nil
}

func (c *Client) checkKey(ctx context.Context, t *Transport, keysURL, key string, want KeyType) error {
	meta, err := ValidateKey(ctx, t, keysURL, key)
	if err != nil {
		return err
	}

	if meta.HasAPIVersion {
		c.apiVersions[key] = meta.APIVersion
	}
	if meta.HasLastChecked {
		c.keyLastChecked[key] = meta.LastChecked
	}
	if meta.HasKeyType {
		c.keyTypes[key] = meta.KeyType
	}

	if meta.Type() != want {
		return configErrorf("%s key reported as %q, expected %s", strings.ToLower(string(want)), meta.KeyType, want)
	}
	c.log.InfoObj("purpleair key authenticated", "key_type", string(want))
	return nil
}

// APIVersions returns the API version reported for each validated key.
func (c *Client) APIVersions() map[string]string { return copyMap(c.apiVersions) }

// KeyLastChecked returns the time stamp reported for each validated key.
func (c *Client) KeyLastChecked() map[string]string { return copyMap(c.keyLastChecked) }

// KeyTypes returns the key type reported for each validated key.
func (c *Client) KeyTypes() map[string]string { return copyMap(c.keyTypes) }

// SensorData forwards to Read.SensorData.
func (c *Client) SensorData(ctx context.Context, sensorIndex int, opts SensorDataOptions) (string, error) {
	return c.Read.SensorData(ctx, sensorIndex, opts)
}

// SensorsData forwards to Read.SensorsData.
func (c *Client) SensorsData(ctx context.Context, opts SensorsDataOptions) (string, error) {
	return c.Read.SensorsData(ctx, opts)
}

// SensorHistory forwards to Read.SensorHistory.
func (c *Client) SensorHistory(ctx context.Context, sensorIndex int, opts SensorHistoryOptions) (string, error) {
	return c.Read.SensorHistory(ctx, sensorIndex, opts)
}

// RegisterSensor forwards to Write.RegisterSensor.
func (c *Client) RegisterSensor(ctx context.Context, sensorIndex int) (string, error) {
	return c.Write.RegisterSensor(ctx, sensorIndex)
}

// UnregisterSensor forwards to Write.UnregisterSensor.
func (c *Client) UnregisterSensor(ctx context.Context, memberID int) (string, error) {
	return c.Write.UnregisterSensor(ctx, memberID)
}

// LocalSensorData forwards to Local.SensorData.
func (c *Client) LocalSensorData(ctx context.Context) (string, error) {
	return c.Local.SensorData(ctx)
}

func sanitizeAddresses(in []string) []string {
	out := make([]string, 0, len(in))
	for _, a := range in {
		if a = strings.TrimSpace(a); a != "" {
			out = append(out, a)
		}
	}
	return out
}

func copyMap(in map[string]string) map[string]string {
	out := make(map[string]string, len(in))
	for k, v := range in {
		out[k] = v
	}
	return out
}
