package protocol

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
)

var errNotObject = errors.New("not an object")

// object is one level of a JSON object. Keys are matched exactly; struct
// decoding in encoding/json would also accept "Method" or "DATA".
type object map[string]json.RawMessage

func asObject(raw json.RawMessage) (object, error) {
	if isNull(raw) {
		return nil, errNotObject
	}
	var obj object
	if err := json.Unmarshal(raw, &obj); err != nil {
		return nil, errNotObject
	}
	return obj, nil
}

// field decodes o[key] into dst, which must not be a struct. A missing key
// or a JSON null reports false.
func (o object) field(key string, dst any) (bool, error) {
	raw, ok := o[key]
	if !ok || isNull(raw) {
		return false, nil
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		return true, fmt.Errorf("%s: %v", key, err)
	}
	return true, nil
}

func isNull(raw json.RawMessage) bool {
	return bytes.Equal(bytes.TrimSpace(raw), []byte("null"))
}

// ClassifyMethod reads the method field of a request. Messages that are not
// objects, or whose method is absent or not a string, classify as
// MethodNone. Method names and the "method" key are case-sensitive.
func ClassifyMethod(msg json.RawMessage) Method {
	obj, err := asObject(msg)
	if err != nil {
		return MethodNone
	}
	var method string
	if ok, err := obj.field("method", &method); err != nil || !ok {
		return MethodNone
	}
	switch method {
	case "GET":
		return MethodGet
	case "OPTIONS":
		return MethodOptions
	case "POST":
		return MethodPost
	case "PUT":
		return MethodPut
	case "DELETE":
		return MethodDelete
	default:
		return MethodUnknown
	}
}

// MethodError returns the request error for methods that never reach
// storage, or nil for routable methods.
func MethodError(m Method) error {
	switch m {
	case MethodNone:
		return ErrNoMethod
	case MethodUnknown:
		return ErrUnknownMethod
	default:
		return nil
	}
}
