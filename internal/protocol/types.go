package protocol

import "github.com/danmuck/bukubrow/internal/buku"

// Method is the classified request operation.
type Method int

const (
	MethodNone Method = iota
	MethodUnknown
	MethodGet
	MethodOptions
	MethodPost
	MethodPut
	MethodDelete
)

func (m Method) String() string {
	switch m {
	case MethodGet:
		return "GET"
	case MethodOptions:
		return "OPTIONS"
	case MethodPost:
		return "POST"
	case MethodPut:
		return "PUT"
	case MethodDelete:
		return "DELETE"
	case MethodUnknown:
		return "unknown"
	default:
		return "none"
	}
}

// GetParams are the validated arguments of a GET request.
type GetParams struct {
	Offset int
}

// Response is the common envelope. Message is only set on failures that
// carry a fixed explanation.
type Response struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
}

type GetResponse struct {
	Success       bool                 `json:"success"`
	Bookmarks     []buku.SavedBookmark `json:"bookmarks"`
	MoreAvailable bool                 `json:"moreAvailable"`
}

type OptionsResponse struct {
	Success       bool   `json:"success"`
	BinaryVersion string `json:"binaryVersion"`
}

type PostResponse struct {
	Success bool      `json:"success"`
	IDs     []buku.ID `json:"ids"`
}

// Failure builds the response for a request-level error.
func Failure(err error) Response {
	return Response{Success: false, Message: ClientMessage(err)}
}

// Outcome builds a bare success/failure response.
func Outcome(ok bool) Response {
	return Response{Success: ok}
}

// NewGetResponse is the envelope used both for replies and for page sizing.
func NewGetResponse(page []buku.SavedBookmark, more bool) any {
	if page == nil {
		page = []buku.SavedBookmark{}
	}
	return GetResponse{Success: true, Bookmarks: page, MoreAvailable: more}
}
