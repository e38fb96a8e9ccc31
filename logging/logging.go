// Package logging owns the kiosk's slog configuration.
package logging

import (
	"fmt"
	"io"
	"log"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

// Manager owns the root logger and the optional log file.
type Manager struct {
	mu     sync.RWMutex
	out    io.Writer
	logger *slog.Logger
	file   *os.File
}

// NewManager logs at info level to out (stderr if nil) until Configure is called.
func NewManager(out io.Writer) *Manager {
	if out == nil {
		out = os.Stderr
	}
	return &Manager{
		out:    out,
		logger: slog.New(slog.NewTextHandler(out, &slog.HandlerOptions{Level: slog.LevelInfo})),
	}
}

// Configure sets the level and, if filePath is not empty, also appends
// every record to that file.
func (m *Manager) Configure(level, filePath string) error {
	lvl, err := ParseLevel(level)
	if err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if m.file != nil {
		_ = m.file.Close()
		m.file = nil
	}

	w := m.out
	if filePath != "" {
		f, err := os.OpenFile(filepath.Clean(filePath), os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o600)
		if err != nil {
			return fmt.Errorf("open log file: %w", err)
		}
		m.file = f
		w = io.MultiWriter(m.out, f)
	}

	m.logger = slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: lvl}))
	slog.SetDefault(m.logger)
	return nil
}

// Logger returns a logger tagged with component.
func (m *Manager) Logger(component string) *slog.Logger {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.logger.With("component", component)
}

// StdLogger adapts a component logger for code that takes a *log.Logger.
func (m *Manager) StdLogger(component string, level slog.Level) *log.Logger {
	return slog.NewLogLogger(m.Logger(component).Handler(), level)
}

// Close closes the log file, if any.
func (m *Manager) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.file == nil {
		return nil
	}
	err := m.file.Close()
	m.file = nil
	return err
}

// ParseLevel maps a level name to a slog level.
func ParseLevel(raw string) (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "debug":
		return slog.LevelDebug, nil
	case "info", "":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return 0, fmt.Errorf("unsupported log level: %q", raw)
	}
}
