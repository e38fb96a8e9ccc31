// Package writer is the privileged half of the print path. It is run as a
// separate process with access to the printer device, receives one base64
// encoded command stream as its only argument and reports the outcome
// through its exit status.
package writer

import (
	"encoding/base64"
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/nixxel-company-limited/kiosk-printer/adapter"
)

// Exit statuses. The transport maps these back to failure classes.
const (
	ExitOK            = 0
	ExitDeviceMissing = 1
	ExitMalformed     = 2
	ExitWriteFailed   = 3
)

// ErrDeviceMissing is returned by a DeviceFunc when no printer is attached.
var ErrDeviceMissing = errors.New("printer device missing")

// DeviceFunc returns an unopened adapter for the printer, or ErrDeviceMissing.
type DeviceFunc func() (adapter.Adapter, error)

// FileDevice opens the device file at path.
func FileDevice(path string) DeviceFunc {
	return func() (adapter.Adapter, error) {
		if !adapter.Present(path) {
			return nil, ErrDeviceMissing
		}
		return adapter.NewFileAdapter(path), nil
	}
}

// USBDevice talks to the first printer-class USB device through libusb.
func USBDevice() DeviceFunc {
	return func() (adapter.Adapter, error) {
		a, err := adapter.NewUSBAdapterAuto()
		if errors.Is(err, adapter.ErrNoPrinter) {
			return nil, ErrDeviceMissing
		}
		if err != nil {
			return nil, err
		}
		return a, nil
	}
}

// Writer delivers one decoded payload to the device.
type Writer struct {
	device DeviceFunc
	logger *slog.Logger
}

// New creates a writer. A nil logger discards output.
func New(device DeviceFunc, logger *slog.Logger) *Writer {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Writer{device: device, logger: logger}
}

// Run executes one invocation and returns the process exit status.
// args excludes the program name.
func (w *Writer) Run(args []string) int {
	if len(args) != 1 {
		w.logger.Error("expected exactly one base64 argument", "got", len(args))
		return ExitMalformed
	}

	data, err := base64.StdEncoding.DecodeString(args[0])
	if err != nil {
		w.logger.Error("malformed payload", "error", err)
		return ExitMalformed
	}

	// The caller already checked, but the device may have gone away since.
	dev, err := w.device()
	if errors.Is(err, ErrDeviceMissing) {
		w.logger.Warn("printer not found")
		return ExitDeviceMissing
	}
	if err != nil {
		w.logger.Error("printer unavailable", "error", err)
		return ExitWriteFailed
	}

	if err := write(dev, data); err != nil {
		if errors.Is(err, ErrDeviceMissing) {
			w.logger.Warn("printer disappeared before write", "error", err)
			return ExitDeviceMissing
		}
		w.logger.Error("write to printer failed", "error", err)
		return ExitWriteFailed
	}

	w.logger.Debug("payload written", "bytes", len(data))
	return ExitOK
}

func write(dev adapter.Adapter, data []byte) (err error) {
	if err := dev.Open(); err != nil {
		// The adapter may hold resources from before Open, such as a
		// libusb context.
		_ = dev.Close()
		if errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("%w: %w", ErrDeviceMissing, err)
		}
		return err
	}
	defer func() {
		if cerr := dev.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}()

	for len(data) > 0 {
		n, err := dev.Write(data)
		if err != nil {
			return err
		}
		if n == 0 {
			return fmt.Errorf("short write: %d bytes left", len(data))
		}
		data = data[n:]
	}
	return nil
}
