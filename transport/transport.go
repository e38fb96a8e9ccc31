// Package transport decides whether the printer is attached and hands
// command streams to the privileged writer process.
package transport

import (
	"encoding/base64"
	"errors"
	"fmt"
	"log/slog"
	"os/exec"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/nixxel-company-limited/kiosk-printer/adapter"
	"github.com/nixxel-company-limited/kiosk-printer/escpos"
	"github.com/nixxel-company-limited/kiosk-printer/writer"
)

// ErrDeviceNotFound is returned when nothing exists at the device path.
// No bytes were sent.
var ErrDeviceNotFound = errors.New("printer not found")

// FailureClass identifies why the writer failed.
type FailureClass int

const (
	FailureUnknown FailureClass = iota
	FailureDeviceMissing
	FailureMalformed
	FailureWrite
)

func (c FailureClass) String() string {
	switch c {
	case FailureDeviceMissing:
		return "device missing"
	case FailureMalformed:
		return "malformed payload"
	case FailureWrite:
		return "write failed"
	default:
		return "unknown"
	}
}

func classify(code int) FailureClass {
	switch code {
	case writer.ExitDeviceMissing:
		return FailureDeviceMissing
	case writer.ExitMalformed:
		return FailureMalformed
	case writer.ExitWriteFailed:
		return FailureWrite
	default:
		return FailureUnknown
	}
}

// TransportError reports a failed writer invocation. Some bytes may have
// reached the printer; treat the outcome as unknown.
type TransportError struct {
	// ExitCode is the writer's exit status, or -1 if it did not exit normally.
	ExitCode int
	Class    FailureClass
	// Output is whatever the writer printed.
	Output string
	Err    error
}

func (e *TransportError) Error() string {
	msg := fmt.Sprintf("printer writer failed (exit %d, %s)", e.ExitCode, e.Class)
	if e.Output != "" {
		msg += ": " + e.Output
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// Runner starts a process and waits for it.
type Runner interface {
	Run(name string, args ...string) (output []byte, err error)
}

// ExecRunner runs processes with os/exec.
type ExecRunner struct{}

// Run runs name and returns its combined output.
func (ExecRunner) Run(name string, args ...string) ([]byte, error) {
	return exec.Command(name, args...).CombinedOutput()
}

// Sender delivers jobs to the printer through the writer process.
type Sender struct {
	devicePath string
	writerPath string
	runner     Runner
	logger     *slog.Logger
	mu         *sync.Mutex
}

// Option configures a Sender.
type Option func(*Sender)

// WithRunner replaces the process runner.
func WithRunner(r Runner) Option {
	return func(s *Sender) { s.runner = r }
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(s *Sender) { s.logger = l }
}

// WithSerializedDispatch makes concurrent Dispatch calls run one at a time.
// Without it two jobs sent at once may interleave on the device.
func WithSerializedDispatch() Option {
	return func(s *Sender) { s.mu = &sync.Mutex{} }
}

// New creates a sender for the printer at devicePath, writing through the
// executable at writerPath.
func New(devicePath, writerPath string, opts ...Option) *Sender {
	s := &Sender{
		devicePath: devicePath,
		writerPath: writerPath,
		runner:     ExecRunner{},
		logger:     slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// DevicePath returns the device path checked by Connected.
func (s *Sender) DevicePath() string {
	return s.devicePath
}

// Connected reports whether the device path exists. This is advisory: it
// does not prove the device is writable or that a printer answers.
func (s *Sender) Connected() bool {
	return adapter.Present(s.devicePath)
}

// SendIfConnected dispatches job if the printer is attached, and returns
// ErrDeviceNotFound otherwise.
func (s *Sender) SendIfConnected(job escpos.Job) error {
	if !s.Connected() {
		s.logger.Warn("printer not found", "device", s.devicePath)
		return ErrDeviceNotFound
	}
	return s.Dispatch(job)
}

// Dispatch runs the writer with the base64 encoded job and waits for it.
// It does not check the device first.
func (s *Sender) Dispatch(job escpos.Job) error {
	if s.mu != nil {
		s.mu.Lock()
		defer s.mu.Unlock()
	}

	id := uuid.NewString()
	payload := base64.StdEncoding.EncodeToString(job.Bytes())
	s.logger.Debug("dispatching job", "id", id, "bytes", job.Len(), "writer", s.writerPath)

	out, err := s.runner.Run(s.writerPath, payload)
	if err == nil {
		s.logger.Info("job printed", "id", id, "bytes", job.Len())
		return nil
	}

	terr := &TransportError{
		ExitCode: -1,
		Output:   strings.TrimSpace(string(out)),
		Err:      err,
	}
	var coded interface{ ExitCode() int }
	if errors.As(err, &coded) {
		terr.ExitCode = coded.ExitCode()
		terr.Class = classify(terr.ExitCode)
	}

	s.logger.Error("printer writer failed",
		"id", id, "exit", terr.ExitCode, "class", terr.Class.String(), "output", terr.Output)
	return terr
}
