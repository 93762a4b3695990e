// Package paging splits ordered result sets into pages whose serialized
// response stays under a byte ceiling.
package paging

import (
	"encoding/json"
	"errors"
	"fmt"
)

var ErrItemExceedsCapacity = errors.New("paging: item exceeds capacity")

// Envelope wraps a page in the response that will carry it.
type Envelope[T any] func(items []T, more bool) any

// Page is a contiguous slice of the input starting at the requested offset.
type Page[T any] struct {
	Items         []T
	MoreAvailable bool
}

// Plan returns the longest run of items from offset whose enveloped size
// stays strictly below ceiling. Each item after the first is charged one
// extra byte for its separator.
//
// Plan is pure: callers fetch the next page by calling again with offset
// advanced by len(page.Items).
func Plan[T any](items []T, offset, ceiling int, envelope Envelope[T]) (Page[T], error) {
	if len(items) == 0 {
		return Page[T]{Items: []T{}}, nil
	}

	overhead, err := encodedSize(envelope([]T{}, false))
	if err != nil {
		return Page[T]{}, fmt.Errorf("paging: size envelope: %w", err)
	}

	offset = max(0, min(offset, len(items)))
	suffix := items[offset:]

	running := overhead
	for i, item := range suffix {
		size, err := encodedSize(item)
		if err != nil {
			return Page[T]{}, fmt.Errorf("paging: size item %d: %w", offset+i, err)
		}
		running += size
		if i > 0 {
			running++
		}
		if running >= ceiling {
			if i == 0 {
				return Page[T]{}, fmt.Errorf("%w: item %d needs %d bytes, ceiling %d",
					ErrItemExceedsCapacity, offset, running, ceiling)
			}
			return Page[T]{Items: suffix[:i:i], MoreAvailable: true}, nil
		}
	}
	return Page[T]{Items: suffix[:len(suffix):len(suffix)]}, nil
}

func encodedSize(v any) (int, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return 0, err
	}
	return len(b), nil
}
