package server

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/danmuck/bukubrow/internal/logging"
	"github.com/danmuck/bukubrow/internal/observability"
	"github.com/danmuck/bukubrow/internal/protocol/frame"
	"github.com/rs/zerolog"
)

// Server runs the request loop over one duplex pipe: read a frame, route
// it, write the reply, repeat. Requests are handled strictly in order.
type Server struct {
	router *Router
	limits frame.Limits
	log    zerolog.Logger
}

func New(router *Router) *Server {
	return &Server{
		router: router,
		limits: frame.DefaultLimits(),
		log:    logging.For("server"),
	}
}

type inbound struct {
	msg json.RawMessage
	err error
}

// Serve blocks until the peer closes r, a frame-level fault occurs or ctx is
// cancelled. A clean end of stream returns nil; transport, decode and
// oversized-encode faults are returned and end the loop, as is ctx.Err().
func (s *Server) Serve(ctx context.Context, r io.Reader, w io.Writer) error {
	out := bufio.NewWriter(w)
	readCtx, stopReading := context.WithCancel(ctx)
	defer stopReading()
	frames := s.readFrames(readCtx, r)

	for {
		var next inbound
		select {
		case <-ctx.Done():
			s.log.Info().Err(ctx.Err()).Msg("serve cancelled")
			return ctx.Err()
		case next = <-frames:
		}
		if errors.Is(next.err, frame.ErrEndOfStream) {
			s.log.Info().Msg("peer closed input")
			return nil
		}
		if next.err != nil {
			return next.err
		}
		msg := next.msg
		observability.RecordFrame(observability.DirectionIn, frame.LengthPrefixLen+len(msg))

		start := time.Now()
		resp, method, outcome := s.router.route(ctx, msg)
		elapsed := time.Since(start)
		observability.RecordRequest(method.String(), outcome, elapsed)
		s.log.Debug().
			Str("method", method.String()).
			Str("outcome", outcome).
			Dur("duration", elapsed).
			Msg("request")

		body, err := json.Marshal(resp)
		if err != nil {
			return fmt.Errorf("%w: %v", frame.ErrEncode, err)
		}
		if err := frame.WriteRaw(out, body, s.limits); err != nil {
			return err
		}
		observability.RecordFrame(observability.DirectionOut, frame.LengthPrefixLen+len(body))
	}
}

// readFrames reads r on its own goroutine so a blocked read cannot hold off
// cancellation. The goroutine stops after the first error or once ctx is
// done. A read that never returns is left behind until the process exits.
func (s *Server) readFrames(ctx context.Context, r io.Reader) <-chan inbound {
	frames := make(chan inbound)
	go func() {
		in := bufio.NewReader(r)
		for {
			msg, err := frame.ReadMessage(in)
			select {
			case frames <- inbound{msg: msg, err: err}:
			case <-ctx.Done():
				return
			}
			if err != nil {
				return
			}
		}
	}()
	return frames
}
