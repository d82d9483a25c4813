package purpleair

import "context"

// LocalAPI polls a sensor's JSON endpoint on the local network. Only the first
// configured address is queried.
type LocalAPI struct {
	transport *Transport
	addresses []string
}

// NewLocalAPI builds a LocalAPI for addresses. The list may be empty, in which
// case SensorData reports a configuration error.
func NewLocalAPI(t *Transport, addresses []string) *LocalAPI {
	cp := make([]string, len(addresses))
	copy(cp, addresses)
	return &LocalAPI{transport: t, addresses: cp}
}

// Addresses returns a copy of the configured addresses.
func (l *LocalAPI) Addresses() []string {
	out := make([]string, len(l.addresses))
	copy(out, l.addresses)
	return out
}

// SensorData fetches http://<first address>/json without an API key.
func (l *LocalAPI) SensorData(ctx context.Context) (string, error) {
	if len(l.addresses) == 0 {
		return "", configErrorf("no IPv4 addresses provided for local API")
	}
	return l.transport.Get(ctx, "http://"+l.addresses[0]+"/json", "", "", nil)
}
