// Package kiosk is the sign-in kiosk's application layer. It turns
// sign-in events into stored records and printed slips.
package kiosk

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/nixxel-company-limited/kiosk-printer/escpos"
	"github.com/nixxel-company-limited/kiosk-printer/store"
)

// Printer sends jobs to the slip printer.
type Printer interface {
	Connected() bool
	SendIfConnected(job escpos.Job) error
}

// Store persists visitors and admins.
type Store interface {
	AddVisitor(ctx context.Context, first, last string, at time.Time) (int64, error)
	SignOutVisitor(ctx context.Context, first, last string, at time.Time) (store.PastVisitor, error)
	CurrentVisitors(ctx context.Context) ([]store.Visitor, error)
	PastVisitors(ctx context.Context) ([]store.PastVisitor, error)
	ClearPast(ctx context.Context) (int64, error)
	SignOutAll(ctx context.Context) (int64, error)
	AddAdmin(ctx context.Context, a store.Admin) error
	Admins(ctx context.Context) ([]store.Admin, error)
}

// Options configures an App.
type Options struct {
	Store   Store
	Printer Printer
	Logger  *slog.Logger
	// Now defaults to time.Now.
	Now func() time.Time
	// Sleep defaults to time.Sleep. It paces the printer self test.
	Sleep func(time.Duration)
	// Debug lifts the time-of-day rules and tolerates a missing printer
	// during setup.
	Debug bool
}

// App is built once at startup and shared by every front end.
type App struct {
	store   Store
	printer Printer
	builder *escpos.Builder
	logger  *slog.Logger
	now     func() time.Time
	sleep   func(time.Duration)
	debug   bool

	mu     sync.RWMutex
	admins map[string]store.Admin
}

// New builds the application context and loads the admin cache. A failure
// to load admins is logged and leaves the admin console locked.
func New(ctx context.Context, opts Options) *App {
	a := &App{
		store:   opts.Store,
		printer: opts.Printer,
		logger:  opts.Logger,
		now:     opts.Now,
		sleep:   opts.Sleep,
		debug:   opts.Debug,
		admins:  map[string]store.Admin{},
	}
	if a.logger == nil {
		a.logger = slog.New(slog.DiscardHandler)
	}
	if a.now == nil {
		a.now = time.Now
	}
	if a.sleep == nil {
		a.sleep = time.Sleep
	}
	a.builder = escpos.NewBuilder(a.now)

	if err := a.RefreshAdmins(ctx); err != nil {
		a.logger.Error("admin data not found, admin console disabled", "error", err)
	}
	return a
}

// Debug reports whether debug mode is on.
func (a *App) Debug() bool {
	return a.debug
}

// PrinterConnected reports whether the printer device is present.
func (a *App) PrinterConnected() bool {
	return a.printer.Connected()
}
