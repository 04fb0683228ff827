// Package server accepts connections and runs the request pipeline for each.
package server

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"net"
	"sync"

	"github.com/gammazero/workerpool"

	"github.com/f4ah6o/dirserve/internal/config"
	"github.com/f4ah6o/dirserve/internal/request"
	"github.com/f4ah6o/dirserve/internal/resolver"
	"github.com/f4ah6o/dirserve/internal/response"
)

// Server serves one root directory over HTTP.
type Server struct {
	addr     string
	bufSize  int
	workers  int
	resolver *resolver.Resolver
	builder  *response.Builder
	logger   *log.Logger
}

// New returns a Server for cfg. cfg must already be validated.
// A nil logger uses log.Default().
func New(cfg *config.Config, logger *log.Logger) (*Server, error) {
	r, err := resolver.New(cfg.Root)
	if err != nil {
		return nil, err
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Server{
		addr:     cfg.Addr(),
		bufSize:  cfg.ReadBufferSize,
		workers:  cfg.Workers,
		resolver: r,
		builder:  response.NewBuilder(r),
		logger:   logger,
	}, nil
}

// Root returns the directory being served.
func (s *Server) Root() string {
	return s.resolver.Root()
}

// ListenAndServe listens on the configured loopback address and serves
// until ctx is cancelled or accepting fails.
func (s *Server) ListenAndServe(ctx context.Context) error {
	var lc net.ListenConfig
	ln, err := lc.Listen(ctx, "tcp", s.addr)
	if err != nil {
		return fmt.Errorf("listen on %s: %w", s.addr, err)
	}
	return s.Serve(ctx, ln)
}

// Serve accepts connections from ln until ctx is cancelled, in which case it
// returns nil, or until Accept fails, in which case it returns that error.
// ln is closed on return.
//
// With one worker each connection is handled completely before the next is
// accepted. With more, up to Workers connections are handled at once.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	var once sync.Once
	closeListener := func() { once.Do(func() { ln.Close() }) }
	defer closeListener()

	stop := context.AfterFunc(ctx, closeListener)
	defer stop()

	var pool *workerpool.WorkerPool
	if s.workers > 1 {
		pool = workerpool.New(s.workers)
		defer pool.StopWait()
	}

	for {
		conn, err := ln.Accept()
		if err != nil {
			if ctx.Err() != nil {
				s.logger.Printf("server stopped: %v", ctx.Err())
				return nil
			}
			return fmt.Errorf("accept: %w", err)
		}

		if pool == nil {
			s.Handle(conn)
			continue
		}
		pool.Submit(func() {
			s.Handle(conn)
		})
	}
}

// Handle reads one request from conn, writes the response and closes conn.
// No error or panic escapes it; failures are logged.
func (s *Server) Handle(conn net.Conn) {
	defer conn.Close()
	defer func() {
		if p := recover(); p != nil {
			s.logger.Printf("panic handling %s: %v", remote(conn), p)
			response.InternalError().WriteTo(conn)
		}
	}()

	res := s.respond(conn)
	if _, err := res.WriteTo(conn); err != nil {
		s.logger.Printf("write to %s failed: %v", remote(conn), err)
	}
}

// respond runs the pipeline and never returns nil.
func (s *Server) respond(conn net.Conn) *response.Response {
	buf := make([]byte, s.bufSize)
	n, err := conn.Read(buf)
	if err != nil && !(errors.Is(err, io.EOF) && n > 0) {
		s.logger.Printf("read from %s failed: %v", remote(conn), err)
		return response.BadRequest()
	}

	req, err := request.Parse(buf[:n])
	if err != nil {
		s.logger.Printf("%s: %v", remote(conn), err)
		return response.BadRequest()
	}

	resolved := s.resolve(req)
	res, err := s.builder.Build(resolved)
	if err != nil {
		s.logger.Printf("%s %s /%s: %v", remote(conn), req.Method, req.Target, err)
		return response.InternalError()
	}
	s.logger.Printf("%s %s /%s -> %d (%s)", remote(conn), req.Method, req.Target, res.Status, resolved.Kind)
	return res
}

// resolve looks up the target exactly as sent and falls back to its decoded
// form, so both "/100%.txt" and "/my%20notes.txt" reach existing files.
func (s *Server) resolve(req *request.Request) resolver.Resolved {
	resolved := s.resolver.Resolve(req.Target)
	if resolved.Kind == resolver.NotFound && req.Decoded != req.Target {
		resolved = s.resolver.Resolve(req.Decoded)
	}
	return resolved
}

func remote(conn net.Conn) string {
	if addr := conn.RemoteAddr(); addr != nil {
		return addr.String()
	}
	return "(unknown)"
}
