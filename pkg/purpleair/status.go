package purpleair

// StatusClass groups response codes the way the PurpleAir API documents them.
type StatusClass int

const (
	StatusUnknown StatusClass = iota
	StatusSuccess
	StatusKnownError
)

func (c StatusClass) String() string {
	switch c {
	case StatusSuccess:
		return "success"
	case StatusKnownError:
		return "known_error"
	default:
		return "unknown"
	}
}

var (
	successCodes = map[int]struct{}{200: {}, 201: {}}
	errorCodes   = map[int]struct{}{
		400: {}, 403: {}, 404: {}, 429: {},
		500: {}, 502: {}, 503: {}, 504: {},
	}
)

// Classify maps an HTTP status code to its StatusClass.
func Classify(code int) StatusClass {
	if _, ok := successCodes[code]; ok {
		return StatusSuccess
	}
	if _, ok := errorCodes[code]; ok {
		return StatusKnownError
	}
	return StatusUnknown
}

// checkStatus returns body unchanged on success, or the matching typed error.
func checkStatus(code int, body string) (string, error) {
	switch Classify(code) {
	case StatusSuccess:
		return body, nil
	case StatusKnownError:
		return "", &HTTPError{StatusCode: code, Body: body}
	default:
		return "", &UnknownStatusError{StatusCode: code, Body: body}
	}
}
