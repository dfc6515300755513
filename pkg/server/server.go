package server

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/bastiangx/wordchain/internal/logger"
	"github.com/bastiangx/wordchain/pkg/session"
	"github.com/charmbracelet/log"
)

// ErrUnknownCommand is reported for requests naming no known command.
var ErrUnknownCommand = errors.New("unknown command")

// Server answers IPC requests against one session.
type Server struct {
	sess     *session.Session
	codec    codec
	handlers map[string]handler
	log      *log.Logger

	mu       sync.Mutex
	requests int
}

// NewServer reads requests from r and writes responses to w using the
// named codec ("json" or "msgpack").
func NewServer(sess *session.Session, r io.Reader, w io.Writer, codecName string) (*Server, error) {
	c, err := newCodec(codecName, r, w)
	if err != nil {
		return nil, err
	}
	s := &Server{
		sess:  sess,
		codec: c,
		log:   logger.New("server"),
	}
	s.handlers = s.routes()
	return s, nil
}

// Start signals readiness and serves requests until the input ends or ctx
// is done. A request already being read is finished first.
func (s *Server) Start(ctx context.Context) error {
	s.log.Debug("Starting server")
	if err := s.codec.write(map[string]string{"status": StatusReady}); err != nil {
		return err
	}

	for {
		if err := ctx.Err(); err != nil {
			return nil
		}
		req, err := s.codec.read()
		if err != nil {
			if errors.Is(err, io.EOF) {
				s.log.Debug("Input closed, stopping server")
				return nil
			}
			var bad *badRequestError
			if errors.As(err, &bad) {
				s.log.Errorf("Unmarshaling request: %v", err)
				if werr := s.codec.write(Response{Status: StatusError, Error: err.Error()}); werr != nil {
					return werr
				}
				continue
			}
			s.log.Errorf("Reading request: %v", err)
			return err
		}
		if err := s.codec.write(s.Handle(ctx, req)); err != nil {
			s.log.Errorf("Writing response: %v", err)
			return err
		}
	}
}

// Handle runs one request under the server lock.
func (s *Server) Handle(ctx context.Context, req Request) Response {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.requests++

	start := time.Now()
	resp := Response{ID: req.ID, Status: StatusOK}
	h, ok := s.handlers[req.Command]
	if !ok {
		h = func(context.Context, Request) (any, error) {
			return nil, fmt.Errorf("%w: %q", ErrUnknownCommand, req.Command)
		}
	}
	result, err := h(ctx, req)
	if err != nil {
		s.log.Debugf("Request %s (%s) failed: %v", req.ID, req.Command, err)
		resp.Status = StatusError
		resp.Error = err.Error()
	} else {
		resp.Result = result
	}
	resp.TimeTaken = time.Since(start).Microseconds()
	return resp
}

// Reload applies user word changes written by another process. It is the
// watcher callback and shares the request lock.
func (s *Server) Reload(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.sess.Reload(ctx); err != nil {
		s.log.Errorf("Failed to reload user words: %v", err)
	}
}
