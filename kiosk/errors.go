package kiosk

import (
	"errors"
	"fmt"

	"github.com/nixxel-company-limited/kiosk-printer/escpos"
	"github.com/nixxel-company-limited/kiosk-printer/store"
	"github.com/nixxel-company-limited/kiosk-printer/transport"
)

var (
	ErrClosed          = errors.New("kiosk is closed at this time")
	ErrTooEarly        = errors.New("too early")
	ErrTooLate         = errors.New("too late")
	ErrVisitorNotFound = errors.New("visitor not signed in")
	ErrUnknownAdmin    = errors.New("unknown admin")
	ErrWrongPassword   = errors.New("incorrect password")
	ErrAdminExists     = errors.New("username is taken")
)

// ValidationError reports bad user input.
type ValidationError struct {
	Field string
	Msg   string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Msg)
}

// WindowError reports an action attempted outside its time window.
type WindowError struct {
	Err error
	Msg string
}

func (e *WindowError) Error() string {
	return fmt.Sprintf("%v: %s", e.Err, e.Msg)
}

func (e *WindowError) Unwrap() error {
	return e.Err
}

// HelpContact is who users are sent to when the kiosk cannot help them.
const HelpContact = "the front office"

// UserMessage turns an error from the kiosk into text for the person at
// the screen.
func UserMessage(err error) string {
	var (
		verr *ValidationError
		werr *WindowError
		terr *transport.TransportError
		eerr *escpos.EncodingError
	)
	switch {
	case err == nil:
		return ""
	case errors.As(err, &verr):
		return verr.Msg
	case errors.As(err, &werr):
		return werr.Msg
	case errors.Is(err, transport.ErrDeviceNotFound):
		return "Printer error, please talk to " + HelpContact + " for a slip."
	case errors.As(err, &terr):
		return "There was an error with the printer. Please talk to " + HelpContact + "."
	case errors.As(err, &eerr):
		return "Please use only plain English characters."
	case errors.Is(err, ErrClosed):
		return "What are you doing at this time?"
	case errors.Is(err, ErrVisitorNotFound), errors.Is(err, store.ErrNotFound):
		return "Visitor not found, please check your spelling."
	case errors.Is(err, ErrUnknownAdmin):
		return "User Not Found"
	case errors.Is(err, ErrWrongPassword):
		return "Incorrect Password"
	case errors.Is(err, ErrAdminExists):
		return "That username is taken. Please try another."
	default:
		return "There was an internal error. Please check the logs for more info."
	}
}
