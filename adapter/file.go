package adapter

import (
	"errors"
	"fmt"
	"os"
	"sync"
)

// FileAdapter writes to a printer exposed as a device file such as /dev/usb/lp0.
type FileAdapter struct {
	path string
	file *os.File
	mu   sync.Mutex
}

// NewFileAdapter creates an adapter for the device file at path.
func NewFileAdapter(path string) *FileAdapter {
	return &FileAdapter{path: path}
}

// Path returns the device path.
func (a *FileAdapter) Path() string {
	return a.path
}

// Open opens the device file for writing.
func (a *FileAdapter) Open() error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.file != nil {
		return errors.New("device already open")
	}

	// O_CREATE and O_TRUNC are meaningless for a character device, and
	// creating a regular file where the printer should be would hide its absence.
	f, err := os.OpenFile(a.path, os.O_WRONLY, 0)
	if err != nil {
		return fmt.Errorf("failed to open %s: %w", a.path, err)
	}
	a.file = f
	return nil
}

// Write sends all of data to the device.
func (a *FileAdapter) Write(data []byte) (int, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.file == nil {
		return 0, ErrNotOpen
	}

	n, err := a.file.Write(data)
	if err != nil {
		return n, fmt.Errorf("write failed: %w", err)
	}
	return n, nil
}

// Read is not supported; line printer devices are opened write-only.
func (a *FileAdapter) Read(buf []byte) (int, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.file == nil {
		return 0, ErrNotOpen
	}
	return 0, errors.New("read not supported on device file")
}

// Close closes the device file.
func (a *FileAdapter) Close() error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.file == nil {
		return nil
	}
	err := a.file.Close()
	a.file = nil
	return err
}

// IsOpen returns whether the device is open
func (a *FileAdapter) IsOpen() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.file != nil
}
