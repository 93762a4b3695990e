package frame

import (
	"encoding/binary"
	"encoding/json"
	"errors"
	"fmt"
	"io"
)

const (
	// LengthPrefixLen is the size of the native-order u32 length header.
	LengthPrefixLen = 4
	// MaxMessageBytes is the browser-imposed ceiling on one outgoing message body.
	MaxMessageBytes = 1_048_576
)

var (
	ErrEndOfStream     = errors.New("frame: end of stream")
	ErrTransport       = errors.New("frame: transport failure")
	ErrMalformed       = errors.New("frame: malformed json body")
	ErrMessageTooLarge = errors.New("frame: message too large")
	ErrEncode          = errors.New("frame: encode failed")
)

// MessageTooLargeError reports the serialized size of a rejected message.
type MessageTooLargeError struct {
	Size  int
	Limit int
}

func (e *MessageTooLargeError) Error() string {
	return fmt.Sprintf("frame: message too large: %d bytes (limit %d)", e.Size, e.Limit)
}

func (e *MessageTooLargeError) Is(target error) bool {
	return target == ErrMessageTooLarge
}

// Limits constrains frame encode size.
type Limits struct {
	MaxMessageBytes int
}

func DefaultLimits() Limits {
	return Limits{MaxMessageBytes: MaxMessageBytes}
}

// Flusher is implemented by buffered writers such as *bufio.Writer.
type Flusher interface {
	Flush() error
}

// ReadMessage reads one length-prefixed JSON message from r.
//
// A stream that ends before any byte of the length prefix is read yields
// ErrEndOfStream. Short reads anywhere else yield ErrTransport.
func ReadMessage(r io.Reader) (json.RawMessage, error) {
	var prefix [LengthPrefixLen]byte
	if _, err := io.ReadFull(r, prefix[:]); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, ErrEndOfStream
		}
		return nil, fmt.Errorf("%w: read length: %v", ErrTransport, err)
	}

	n := binary.NativeEndian.Uint32(prefix[:])
	body := make([]byte, n)
	if _, err := io.ReadFull(r, body); err != nil {
		return nil, fmt.Errorf("%w: read body (%d bytes): %v", ErrTransport, n, err)
	}

	if !json.Valid(body) {
		return nil, ErrMalformed
	}
	return json.RawMessage(body), nil
}

// WriteMessage serializes v and writes it to w as one frame, then flushes w
// when it buffers. Nothing is written when v exceeds limits.
func WriteMessage(w io.Writer, v any, limits Limits) error {
	body, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrEncode, err)
	}
	return WriteRaw(w, body, limits)
}

// WriteRaw frames an already-serialized JSON body.
func WriteRaw(w io.Writer, body []byte, limits Limits) error {
	if limits.MaxMessageBytes > 0 && len(body) > limits.MaxMessageBytes {
		return &MessageTooLargeError{Size: len(body), Limit: limits.MaxMessageBytes}
	}

	buf := make([]byte, LengthPrefixLen+len(body))
	binary.NativeEndian.PutUint32(buf[:LengthPrefixLen], uint32(len(body)))
	copy(buf[LengthPrefixLen:], body)

	if _, err := w.Write(buf); err != nil {
		return fmt.Errorf("%w: write: %v", ErrTransport, err)
	}
	if f, ok := w.(Flusher); ok {
		if err := f.Flush(); err != nil {
			return fmt.Errorf("%w: flush: %v", ErrTransport, err)
		}
	}
	return nil
}
