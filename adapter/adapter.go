// Package adapter holds the low-level device backends the privileged
// writer uses to reach a printer.
package adapter

import (
	"errors"
	"os"
)

// ErrNotOpen is returned by Write and Read before Open succeeds.
var ErrNotOpen = errors.New("device not open")

// Adapter defines the interface for printer communication adapters
type Adapter interface {
	// Open opens the connection to the printer
	Open() error

	// Write sends data to the printer
	Write(data []byte) (int, error)

	// Read reads data from the printer
	Read(buf []byte) (int, error)

	// Close closes the connection to the printer
	Close() error

	// IsOpen returns whether the connection is open
	IsOpen() bool
}

// Present reports whether something exists at path. It does not check the
// file type or permissions.
func Present(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
