package purpleair

import (
	"context"
	"strings"
)

// KeyType is the role the keys endpoint reports for a credential.
type KeyType string

const (
	KeyTypeRead    KeyType = "READ"
	KeyTypeWrite   KeyType = "WRITE"
	KeyTypeUnknown KeyType = "UNKNOWN"
)

// KeyMetadata is what the keys endpoint reports about a credential.
// A Has* flag is false when its marker was absent from the response.
type KeyMetadata struct {
	APIVersion     string
	LastChecked    string
	KeyType        string
	HasAPIVersion  bool
	HasLastChecked bool
	HasKeyType     bool
}

// Type returns the reported role, or KeyTypeUnknown for anything else.
func (m KeyMetadata) Type() KeyType {
	switch KeyType(m.KeyType) {
	case KeyTypeRead:
		return KeyTypeRead
	case KeyTypeWrite:
		return KeyTypeWrite
	default:
		return KeyTypeUnknown
	}
}

const (
	markerAPIVersion = `"api_version"`
	markerTimeStamp  = `"time_stamp"`
	markerKeyType    = `"api_key_type"`
)

// ValidateKey introspects key against keysURL. Only request failures are returned as errors;
// a response missing some fields still yields metadata.
func ValidateKey(ctx context.Context, t *Transport, keysURL, key string) (KeyMetadata, error) {
	body, err := t.Get(ctx, keysURL, key, "", nil)
	if err != nil {
		return KeyMetadata{}, err
	}
	return ParseKeyMetadata(body), nil
}

// ParseKeyMetadata scans body for the three key fields without decoding it as JSON.
// Values containing commas, escaped quotes or nested objects are not handled.
func ParseKeyMetadata(body string) KeyMetadata {
	var m KeyMetadata
	m.APIVersion, m.HasAPIVersion = scanField(body, markerAPIVersion)
	m.LastChecked, m.HasLastChecked = scanField(body, markerTimeStamp)
	m.KeyType, m.HasKeyType = scanField(body, markerKeyType)
	return m
}

// scanField returns the text between the ':' after marker and the next ',' (or '}'),
// with every '"' and ' ' removed.
func scanField(body, marker string) (string, bool) {
	pos := strings.Index(body, marker)
	if pos < 0 {
		return "", false
	}

	rest := body[pos+len(marker):]
	colon := strings.IndexByte(rest, ':')
	if colon < 0 {
		return "", true
	}
	rest = rest[colon+1:]

	end := strings.IndexByte(rest, ',')
	if end < 0 {
		end = strings.IndexByte(rest, '}')
	}
	if end >= 0 {
		rest = rest[:end]
	}

	value := strings.ReplaceAll(rest, `"`, "")
	value = strings.ReplaceAll(value, " ", "")
	return value, true
}
