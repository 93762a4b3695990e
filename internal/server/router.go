package server

import (
	"context"
	"encoding/json"

	"github.com/danmuck/bukubrow/internal/buku"
	"github.com/danmuck/bukubrow/internal/logging"
	"github.com/danmuck/bukubrow/internal/paging"
	"github.com/danmuck/bukubrow/internal/protocol"
	"github.com/danmuck/bukubrow/internal/protocol/frame"
	"github.com/rs/zerolog"
)

// Request outcomes, used as metric labels.
const (
	OutcomeSuccess       = "success"
	OutcomeFailure       = "failure"
	OutcomeBadPayload    = "bad_payload"
	OutcomeNoMethod      = "no_method"
	OutcomeUnknownMethod = "unknown_method"
	OutcomeUnavailable   = "unavailable"
)

// Router turns one decoded request into one response. Storage errors never
// reach the client beyond success=false.
type Router struct {
	backend Backend
	version string
	ceiling int
	log     zerolog.Logger
}

func NewRouter(backend Backend, version string) *Router {
	return &Router{
		backend: backend,
		version: version,
		ceiling: frame.MaxMessageBytes,
		log:     logging.For("router"),
	}
}

// Route answers msg. The returned value is ready for frame.WriteMessage.
func (r *Router) Route(ctx context.Context, msg json.RawMessage) any {
	resp, _, _ := r.route(ctx, msg)
	return resp
}

func (r *Router) route(ctx context.Context, msg json.RawMessage) (any, protocol.Method, string) {
	// Classified first so unavailable requests keep their method label.
	method := protocol.ClassifyMethod(msg)

	db, err := r.backend.Database()
	if err != nil {
		return protocol.Response{Success: false, Message: buku.FriendlyMessage(err)}, method, OutcomeUnavailable
	}

	if err := protocol.MethodError(method); err != nil {
		outcome := OutcomeNoMethod
		if method == protocol.MethodUnknown {
			outcome = OutcomeUnknownMethod
		}
		return protocol.Failure(err), method, outcome
	}

	var (
		resp    any
		outcome string
	)
	switch method {
	case protocol.MethodGet:
		resp, outcome = r.get(ctx, db, msg)
	case protocol.MethodOptions:
		resp, outcome = protocol.OptionsResponse{Success: true, BinaryVersion: r.version}, OutcomeSuccess
	case protocol.MethodPost:
		resp, outcome = r.post(ctx, db, msg)
	case protocol.MethodPut:
		resp, outcome = r.put(ctx, db, msg)
	case protocol.MethodDelete:
		resp, outcome = r.delete(ctx, db, msg)
	}
	return resp, method, outcome
}

func (r *Router) get(ctx context.Context, db buku.Database, msg json.RawMessage) (any, string) {
	params, err := protocol.DecodeGet(msg)
	if err != nil {
		return badPayload(err)
	}
	all, err := db.GetAll(ctx)
	if err != nil {
		r.log.Warn().Err(err).Msg("get all bookmarks")
		return failure()
	}
	page, err := paging.Plan(all, params.Offset, r.ceiling, protocol.NewGetResponse)
	if err != nil {
		r.log.Warn().Err(err).Int("offset", params.Offset).Msg("paginate bookmarks")
		return failure()
	}
	return protocol.NewGetResponse(page.Items, page.MoreAvailable), OutcomeSuccess
}

func (r *Router) post(ctx context.Context, db buku.Database, msg json.RawMessage) (any, string) {
	records, err := protocol.DecodePost(msg)
	if err != nil {
		return badPayload(err)
	}
	ids, err := db.AddMany(ctx, records)
	if err != nil {
		r.log.Warn().Err(err).Int("records", len(records)).Msg("add bookmarks")
		return failure()
	}
	if ids == nil {
		ids = []buku.ID{}
	}
	return protocol.PostResponse{Success: true, IDs: ids}, OutcomeSuccess
}

func (r *Router) put(ctx context.Context, db buku.Database, msg json.RawMessage) (any, string) {
	records, err := protocol.DecodePut(msg)
	if err != nil {
		return badPayload(err)
	}
	if err := db.UpdateMany(ctx, records); err != nil {
		r.log.Warn().Err(err).Int("records", len(records)).Msg("update bookmarks")
		return failure()
	}
	return protocol.Outcome(true), OutcomeSuccess
}

func (r *Router) delete(ctx context.Context, db buku.Database, msg json.RawMessage) (any, string) {
	ids, err := protocol.DecodeDelete(msg)
	if err != nil {
		return badPayload(err)
	}
	if err := db.DeleteMany(ctx, ids); err != nil {
		r.log.Warn().Err(err).Int("ids", len(ids)).Msg("delete bookmarks")
		return failure()
	}
	return protocol.Outcome(true), OutcomeSuccess
}

func badPayload(err error) (any, string) {
	return protocol.Failure(err), OutcomeBadPayload
}

func failure() (any, string) {
	return protocol.Outcome(false), OutcomeFailure
}
