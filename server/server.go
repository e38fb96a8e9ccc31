// Package server relays raw ESC/POS jobs received over TCP (port 9100
// style) to the kiosk printer, so other machines can print slips through
// the kiosk.
package server

import (
	"errors"
	"fmt"
	"io"
	"log"
	"net"
	"os"
	"sync"
	"time"

	"github.com/nixxel-company-limited/kiosk-printer/escpos"
)

// MaxJobSize caps the bytes accepted on one connection.
const MaxJobSize = 1 << 20

// IdleTimeout is how long a client may go without sending anything
// before its connection is dropped.
const IdleTimeout = 30 * time.Second

// ErrRunning is returned when the relay is started twice.
var ErrRunning = errors.New("relay already running")

// Printer accepts complete jobs.
type Printer interface {
	SendIfConnected(job escpos.Job) error
}

// Server accepts one job per connection: everything the client sends
// until it closes its side is printed as a single job.
type Server struct {
	printer Printer
	address string
	logger  *log.Logger
	idle    time.Duration

	mu      sync.Mutex
	ln      net.Listener
	running bool
	conns   map[net.Conn]struct{}
	jobs    sync.WaitGroup
}

// New returns a relay that logs to stdout.
func New(printer Printer, address string) *Server {
	return NewWithLogger(printer, address, log.New(os.Stdout, "[RELAY] ", log.LstdFlags|log.Lmsgprefix))
}

// NewWithLogger returns a relay that logs to logger.
func NewWithLogger(printer Printer, address string, logger *log.Logger) *Server {
	return &Server{
		printer: printer,
		address: address,
		logger:  logger,
		idle:    IdleTimeout,
		conns:   map[net.Conn]struct{}{},
	}
}

// bind opens the listener and registers the accept loop with the
// WaitGroup before anything can call Stop.
func (s *Server) bind() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.running {
		return ErrRunning
	}
	ln, err := net.Listen("tcp", s.address)
	if err != nil {
		s.logger.Printf("Relay cannot listen on %s: %v", s.address, err)
		return fmt.Errorf("listen on %s: %w", s.address, err)
	}

	s.ln = ln
	s.running = true
	s.jobs.Add(1)
	s.logger.Printf("Relay listening on %s", ln.Addr())
	return nil
}

// Start listens and serves until Stop is called.
func (s *Server) Start() error {
	if err := s.bind(); err != nil {
		return err
	}
	s.serve()
	return nil
}

// StartAsync listens and serves in the background.
func (s *Server) StartAsync() error {
	if err := s.bind(); err != nil {
		return err
	}
	go s.serve()
	return nil
}

func (s *Server) serve() {
	defer s.jobs.Done()
	for {
		conn, err := s.ln.Accept()
		if err != nil {
			if !s.IsRunning() {
				return
			}
			s.logger.Printf("Accept failed: %v", err)
			continue
		}

		if !s.track(conn) {
			conn.Close()
			return
		}
		go s.relay(conn)
	}
}

// track registers conn so Stop can close it. It reports false once the
// relay is stopping.
func (s *Server) track(conn net.Conn) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.running {
		return false
	}
	s.conns[conn] = struct{}{}
	s.jobs.Add(1)
	return true
}

func (s *Server) untrack(conn net.Conn) {
	s.mu.Lock()
	delete(s.conns, conn)
	s.mu.Unlock()
	conn.Close()
}

// relay reads one job from conn and prints it.
func (s *Server) relay(conn net.Conn) {
	defer s.jobs.Done()
	defer s.untrack(conn)

	from := conn.RemoteAddr().String()
	data, err := io.ReadAll(io.LimitReader(idleReader{conn, s.idle}, MaxJobSize+1))
	switch {
	case err != nil:
		s.logger.Printf("Reading job from %s failed: %v", from, err)
		return
	case len(data) > MaxJobSize:
		s.logger.Printf("Dropping job from %s: larger than %d bytes", from, MaxJobSize)
		return
	case len(data) == 0:
		s.logger.Printf("Client %s sent nothing", from)
		return
	}

	if err := s.printer.SendIfConnected(escpos.Raw(data)); err != nil {
		s.logger.Printf("Job from %s (%d bytes) not printed: %v", from, len(data), err)
		return
	}
	s.logger.Printf("Printed %d bytes from %s", len(data), from)
}

// Stop closes the listener and every client connection, then waits for
// the handlers to return. A job still being received is dropped; one
// already handed to the printer runs to completion. Stopping a relay that
// is not running is a no-op.
func (s *Server) Stop() error {
	s.mu.Lock()
	if !s.running {
		s.mu.Unlock()
		return nil
	}
	s.running = false
	ln := s.ln
	for conn := range s.conns {
		conn.Close()
	}
	s.mu.Unlock()

	var err error
	if cerr := ln.Close(); cerr != nil && !errors.Is(cerr, net.ErrClosed) {
		err = cerr
	}
	s.jobs.Wait()
	s.logger.Println("Relay stopped")
	return err
}

// IsRunning reports whether the relay is accepting jobs.
func (s *Server) IsRunning() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.running
}

// Address returns the configured listen address.
func (s *Server) Address() string {
	return s.address
}

// Addr returns the bound address while running, or nil.
func (s *Server) Addr() net.Addr {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.running {
		return nil
	}
	return s.ln.Addr()
}

// idleReader pushes the read deadline forward before every read.
type idleReader struct {
	conn    net.Conn
	timeout time.Duration
}

func (r idleReader) Read(p []byte) (int, error) {
	if err := r.conn.SetReadDeadline(time.Now().Add(r.timeout)); err != nil {
		return 0, err
	}
	return r.conn.Read(p)
}
