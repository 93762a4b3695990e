package protocol

import "errors"

var (
	ErrNoMethod      = errors.New("protocol: missing method")
	ErrUnknownMethod = errors.New("protocol: unrecognised method")
	ErrBadPayload    = errors.New("protocol: bad request payload")
)

// ClientMessage maps a request error to the fixed text sent to the extension.
// Errors outside the request taxonomy map to "".
func ClientMessage(err error) string {
	switch {
	case errors.Is(err, ErrNoMethod):
		return "Missing method type."
	case errors.Is(err, ErrUnknownMethod):
		return "Unrecognised method type."
	case errors.Is(err, ErrBadPayload):
		return "Bad request payload."
	default:
		return ""
	}
}
