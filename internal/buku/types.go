package buku

// ID is the storage-assigned bookmark identifier.
type ID = uint32

// Bookmark is an unsaved record. Tags are comma-joined.
type Bookmark struct {
	URL      string `json:"url"`
	Metadata string `json:"metadata"`
	Tags     string `json:"tags"`
	Desc     string `json:"desc"`
	Flags    int32  `json:"flags"`
}

// SavedBookmark is a persisted record carrying its immutable id.
type SavedBookmark struct {
	ID ID `json:"id"`
	Bookmark
}
