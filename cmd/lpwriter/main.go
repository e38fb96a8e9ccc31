// Command lpwriter writes one base64 encoded ESC/POS payload to the
// printer. It is the only part of the kiosk that needs access to the
// device, and is installed with that access (group lp, or a file
// capability) while the kiosk itself runs unprivileged.
//
// Usage:
//
//	lpwriter <base64 payload>
//
// Exit status: 0 written, 1 printer not attached, 2 malformed payload,
// 3 open or write failed.
package main

import (
	"log/slog"
	"os"

	"github.com/nixxel-company-limited/kiosk-printer/writer"
)

// Set at build time, e.g.
//
//	go build -ldflags "-X main.devicePath=/dev/usb/lp1 -X main.backend=usb"
//
// The device is never taken from the caller.
var (
	devicePath = "/dev/usb/lp0"
	backend    = "file"
)

func main() {
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn}))

	device := writer.FileDevice(devicePath)
	if backend == "usb" {
		device = writer.USBDevice()
	}

	os.Exit(writer.New(device, logger).Run(os.Args[1:]))
}
