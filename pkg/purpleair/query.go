package purpleair

import (
	"net/url"
	"sort"
	"strings"
)

// BuildQuery encodes params as key=value pairs joined by '&'.
// Empty values are skipped, so a caller cannot send "key=". Keys are emitted in sorted order.
func BuildQuery(params map[string]string) string {
	if len(params) == 0 {
		return ""
	}

	keys := make([]string, 0, len(params))
	for k, v := range params {
		if v == "" {
			continue
		}
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var b strings.Builder
	for i, k := range keys {
		if i > 0 {
			b.WriteByte('&')
		}
		b.WriteString(k)
		b.WriteByte('=')
		b.WriteString(escapeValue(params[k]))
	}
	return b.String()
}

// escapeValue percent-encodes a query value with spaces as %20 rather than '+'.
// QueryEscape already encodes a literal '+' as %2B, so every remaining '+' is a space.
func escapeValue(v string) string {
	return strings.ReplaceAll(url.QueryEscape(v), "+", "%20")
}

// appendQuery attaches the encoded params to rawURL after separator.
// Nothing is appended when separator or params is empty.
func appendQuery(rawURL, separator string, params map[string]string) string {
	if separator == "" || len(params) == 0 {
		return rawURL
	}
	return rawURL + separator + BuildQuery(params)
}
