package kiosk

import (
	"errors"
	"time"

	"github.com/nixxel-company-limited/kiosk-printer/escpos"
	"github.com/nixxel-company-limited/kiosk-printer/transport"
)

// SelfTestPause is how long the printer gets to finish its test page
// before it is set up again.
const SelfTestPause = 10 * time.Second

// PrintLateSlip prints a late slip for name.
func (a *App) PrintLateSlip(name string) error {
	a.logger.Info("printing late slip", "name", name)
	job, err := a.builder.LateSlip(name)
	if err != nil {
		return err
	}
	return a.send("late slip", job)
}

// PrintVisitorSlip prints a visitor pass for name.
func (a *App) PrintVisitorSlip(name string) error {
	a.logger.Info("printing visitor slip", "name", name)
	job, err := a.builder.VisitorSlip(name)
	if err != nil {
		return err
	}
	return a.send("visitor slip", job)
}

// CustomPrint prints admin-supplied text. A literal `\n` starts a new line.
func (a *App) CustomPrint(text string) error {
	job, err := escpos.TextJob(escpos.UnescapeNewlines(text))
	if err != nil {
		return err
	}
	return a.send("custom print", job)
}

// Prep puts the printer in the kiosk's text mode. In debug mode a missing
// printer is tolerated.
func (a *App) Prep() error {
	err := a.send("printer setup", escpos.Prep())
	if errors.Is(err, transport.ErrDeviceNotFound) && a.debug {
		a.logger.Warn("printer not found for setup, continuing in debug mode")
		return nil
	}
	return err
}

// SelfTest makes the printer print its test page, waits for it and then
// sets the printer up again. Only a missing printer skips the wait; after
// a writer failure part of the page may have printed, so the printer is
// still set up again and the writer failure is returned.
func (a *App) SelfTest() error {
	err := a.send("self test", escpos.SelfTest())
	if errors.Is(err, transport.ErrDeviceNotFound) {
		return err
	}
	a.sleep(SelfTestPause)
	if perr := a.Prep(); perr != nil {
		return errors.Join(err, perr)
	}
	return err
}

func (a *App) send(what string, job escpos.Job) error {
	err := a.printer.SendIfConnected(job)

	var terr *transport.TransportError
	switch {
	case err == nil:
	case errors.Is(err, transport.ErrDeviceNotFound):
		a.logger.Error("printer not found", "job", what)
	case errors.As(err, &terr):
		a.logger.Error("printer failed, slip may be partly printed", "job", what, "exit", terr.ExitCode, "error", err)
	default:
		a.logger.Error("print failed", "job", what, "error", err)
	}
	return err
}
