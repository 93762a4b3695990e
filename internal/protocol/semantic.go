package protocol

import (
	"encoding/json"
	"fmt"
	"math"

	"github.com/danmuck/bukubrow/internal/buku"
)

// bookmarkWire keeps field presence so missing fields can be rejected.
type bookmarkWire struct {
	ID       *buku.ID
	URL      *string
	Metadata *string
	Tags     *string
	Desc     *string
	Flags    *int32
}

func badPayload(format string, args ...any) error {
	return fmt.Errorf("%w: "+format, append([]any{ErrBadPayload}, args...)...)
}

// requestData returns the data object of msg, or nil when it is absent and
// not required.
func requestData(msg json.RawMessage, required bool) (object, error) {
	obj, err := asObject(msg)
	if err != nil {
		return nil, badPayload("request: %v", err)
	}
	raw, ok := obj["data"]
	if !ok || isNull(raw) {
		if required {
			return nil, badPayload("missing data")
		}
		return nil, nil
	}
	data, err := asObject(raw)
	if err != nil {
		return nil, badPayload("data: %v", err)
	}
	return data, nil
}

// DecodeGet validates the optional data.offset of a GET request.
func DecodeGet(msg json.RawMessage) (GetParams, error) {
	data, err := requestData(msg, false)
	if err != nil {
		return GetParams{}, err
	}
	var offset uint
	ok, err := data.field("offset", &offset)
	if err != nil {
		return GetParams{}, badPayload("%v", err)
	}
	if !ok {
		return GetParams{}, nil
	}
	if offset > math.MaxInt {
		offset = math.MaxInt
	}
	return GetParams{Offset: int(offset)}, nil
}

// DecodePost validates data.bookmarks as unsaved records. Ids, if sent, are
// ignored. An empty list is accepted.
func DecodePost(msg json.RawMessage) ([]buku.Bookmark, error) {
	wires, err := decodeBookmarks(msg)
	if err != nil {
		return nil, err
	}
	out := make([]buku.Bookmark, 0, len(wires))
	for i, w := range wires {
		bm, err := w.unsaved()
		if err != nil {
			return nil, badPayload("bookmarks[%d]: %v", i, err)
		}
		out = append(out, bm)
	}
	return out, nil
}

// DecodePut validates data.bookmarks as saved records; every record needs an id.
func DecodePut(msg json.RawMessage) ([]buku.SavedBookmark, error) {
	wires, err := decodeBookmarks(msg)
	if err != nil {
		return nil, err
	}
	out := make([]buku.SavedBookmark, 0, len(wires))
	for i, w := range wires {
		if w.ID == nil {
			return nil, badPayload("bookmarks[%d]: missing id", i)
		}
		bm, err := w.unsaved()
		if err != nil {
			return nil, badPayload("bookmarks[%d]: %v", i, err)
		}
		out = append(out, buku.SavedBookmark{ID: *w.ID, Bookmark: bm})
	}
	return out, nil
}

// DecodeDelete validates data.bookmark_ids.
func DecodeDelete(msg json.RawMessage) ([]buku.ID, error) {
	data, err := requestData(msg, true)
	if err != nil {
		return nil, err
	}
	var ids []buku.ID
	ok, err := data.field("bookmark_ids", &ids)
	if err != nil {
		return nil, badPayload("%v", err)
	}
	if !ok {
		return nil, badPayload("missing bookmark_ids")
	}
	return append([]buku.ID{}, ids...), nil
}

func decodeBookmarks(msg json.RawMessage) ([]bookmarkWire, error) {
	data, err := requestData(msg, true)
	if err != nil {
		return nil, err
	}
	var items []json.RawMessage
	ok, err := data.field("bookmarks", &items)
	if err != nil {
		return nil, badPayload("%v", err)
	}
	if !ok {
		return nil, badPayload("missing bookmarks")
	}
	out := make([]bookmarkWire, 0, len(items))
	for i, raw := range items {
		w, err := decodeBookmark(raw)
		if err != nil {
			return nil, badPayload("bookmarks[%d]: %v", i, err)
		}
		out = append(out, w)
	}
	return out, nil
}

func decodeBookmark(raw json.RawMessage) (bookmarkWire, error) {
	obj, err := asObject(raw)
	if err != nil {
		return bookmarkWire{}, err
	}
	var (
		w    bookmarkWire
		id   buku.ID
		url  string
		meta string
		tags string
		desc string
		flag int32
	)
	for _, f := range []struct {
		key string
		dst any
		set func()
	}{
		{"id", &id, func() { w.ID = &id }},
		{"url", &url, func() { w.URL = &url }},
		{"metadata", &meta, func() { w.Metadata = &meta }},
		{"tags", &tags, func() { w.Tags = &tags }},
		{"desc", &desc, func() { w.Desc = &desc }},
		{"flags", &flag, func() { w.Flags = &flag }},
	} {
		ok, err := obj.field(f.key, f.dst)
		if err != nil {
			return bookmarkWire{}, err
		}
		if ok {
			f.set()
		}
	}
	return w, nil
}

func (w bookmarkWire) unsaved() (buku.Bookmark, error) {
	switch {
	case w.URL == nil:
		return buku.Bookmark{}, fmt.Errorf("missing url")
	case w.Metadata == nil:
		return buku.Bookmark{}, fmt.Errorf("missing metadata")
	case w.Tags == nil:
		return buku.Bookmark{}, fmt.Errorf("missing tags")
	case w.Desc == nil:
		return buku.Bookmark{}, fmt.Errorf("missing desc")
	case w.Flags == nil:
		return buku.Bookmark{}, fmt.Errorf("missing flags")
	}
	return buku.Bookmark{
		URL:      *w.URL,
		Metadata: *w.Metadata,
		Tags:     *w.Tags,
		Desc:     *w.Desc,
		Flags:    *w.Flags,
	}, nil
}
