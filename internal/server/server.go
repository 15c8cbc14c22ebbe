// Package server accepts terminal connections and hands each one to the
// protocol handler.
package server

import (
	"errors"
	"fmt"
	"log/slog"
	"net"
	"sync"
	"time"

	"github.com/tathienbao/trading-server/internal/wire"
)

// ConnHandler serves one client connection from handshake to teardown.
type ConnHandler interface {
	Handle(conn wire.Conn)
}

// Server listens for trading terminals and serves each connection on its own
// goroutine.
type Server struct {
	address string
	handler ConnHandler
	logger  *slog.Logger

	// maxConns limits concurrent sessions; 0 means unlimited.
	maxConns int

	mu       sync.Mutex
	listener net.Listener
	closed   bool
	wg       sync.WaitGroup
}

// New creates a server handing connections on address to the handler.
func New(address string, handler ConnHandler, maxConns int, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	return &Server{
		address:  address,
		handler:  handler,
		maxConns: maxConns,
		logger:   logger,
	}
}

// ListenAndServe accepts connections until Shutdown is called. It returns
// nil after a clean shutdown.
func (s *Server) ListenAndServe() error {
	listener, err := net.Listen("tcp", s.address)
	if err != nil {
		return fmt.Errorf("listen on %s: %w", s.address, err)
	}

	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		listener.Close()
		return nil
	}
	s.listener = listener
	s.mu.Unlock()

	s.logger.Info("listening for trading terminals", "address", listener.Addr().String())

	var limiter chan struct{}
	if s.maxConns > 0 {
		limiter = make(chan struct{}, s.maxConns)
	}

	for {
		conn, err := listener.Accept()
		if err != nil {
			if errors.Is(err, net.ErrClosed) {
				return nil
			}
			return fmt.Errorf("accept: %w", err)
		}

		if limiter != nil {
			select {
			case limiter <- struct{}{}:
			default:
				s.logger.Warn("rejecting connection, the session limit is reached",
					"remote", conn.RemoteAddr().String())
				conn.Close()
				continue
			}
		}

		s.wg.Add(1)
		go func() {
			defer s.wg.Done()
			if limiter != nil {
				defer func() { <-limiter }()
			}
			s.serve(conn)
		}()
	}
}

func (s *Server) serve(conn net.Conn) {
	remote := conn.RemoteAddr().String()
	s.logger.Info("terminal connected", "remote", remote)
	start := time.Now()

	s.handler.Handle(wire.NewTCPConn(conn))

	s.logger.Info("terminal session ended", "remote", remote, "duration", time.Since(start))
}

// Shutdown stops accepting connections and waits up to timeout for running
// sessions to end.
func (s *Server) Shutdown(timeout time.Duration) {
	s.mu.Lock()
	s.closed = true
	if s.listener != nil {
		s.listener.Close()
	}
	s.mu.Unlock()

	done := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(timeout):
		s.logger.Warn("shutdown timeout reached, abandoning running sessions")
	}
}

// Addr returns the address the server listens on, or empty before
// ListenAndServe bound it.
func (s *Server) Addr() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.listener == nil {
		return ""
	}
	return s.listener.Addr().String()
}
