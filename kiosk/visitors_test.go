package kiosk

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nixxel-company-limited/kiosk-printer/transport"
)

func TestVisitorSignInAndOut(t *testing.T) {
	ctx := context.Background()
	printer := &MockPrinter{connected: true}
	app := newApp(t, printer, at(10, 20), false)

	require.NoError(t, app.VisitorSignIn(ctx, " john ", "smith"))

	jobs := printer.Jobs()
	require.Len(t, jobs, 1)
	assert.Equal(t,
		slipBytes(t, "VISITOR:\nName: John Smith\nTime: 10:20 AM\nDate: 01/15/2024"),
		jobs[0].Bytes())

	current, err := app.CurrentVisitors(ctx)
	require.NoError(t, err)
	require.Len(t, current, 1)
	assert.Equal(t, "John", current[0].FirstName)
	assert.Equal(t, "Smith", current[0].LastName)

	past, err := app.VisitorSignOut(ctx, "JOHN", "SMITH")
	require.NoError(t, err)
	assert.Equal(t, "John", past.FirstName)

	current, err = app.CurrentVisitors(ctx)
	require.NoError(t, err)
	assert.Empty(t, current)

	history, err := app.PastVisitors(ctx)
	require.NoError(t, err)
	assert.Len(t, history, 1)

	n, err := app.ClearPast(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
}

func TestVisitorSignOutUnknown(t *testing.T) {
	app := newApp(t, &MockPrinter{connected: true}, at(10, 0), false)

	_, err := app.VisitorSignOut(context.Background(), "No", "Body")
	assert.ErrorIs(t, err, ErrVisitorNotFound)
	assert.Contains(t, UserMessage(err), "spelling")
}

func TestVisitorSignInPrinterMissingStillRecords(t *testing.T) {
	ctx := context.Background()
	app := newApp(t, &MockPrinter{}, at(10, 0), false)

	err := app.VisitorSignIn(ctx, "Ann", "Lee")
	assert.ErrorIs(t, err, transport.ErrDeviceNotFound)

	current, err := app.CurrentVisitors(ctx)
	require.NoError(t, err)
	assert.Len(t, current, 1)
}

func TestVisitorSignInStoreFailureStillPrints(t *testing.T) {
	printer := &MockPrinter{connected: true}
	app := New(context.Background(), Options{
		Store:   failingStore{},
		Printer: printer,
		Now:     at(10, 0),
	})

	require.NoError(t, app.VisitorSignIn(context.Background(), "Ann", "Lee"))
	assert.Len(t, printer.Jobs(), 1)
}

func TestVisitorSignInValidation(t *testing.T) {
	printer := &MockPrinter{connected: true}
	app := newApp(t, printer, at(10, 0), false)

	err := app.VisitorSignIn(context.Background(), "Ann", "")
	var verr *ValidationError
	assert.ErrorAs(t, err, &verr)
	assert.Equal(t, "You must enter both firstname and lastname", UserMessage(err))
	assert.Empty(t, printer.Jobs())
}

func TestVisitorNameCharacters(t *testing.T) {
	printer := &MockPrinter{connected: true}
	app := newApp(t, printer, at(10, 0), false)

	err := app.VisitorSignIn(context.Background(), "Zoë", "Smith")
	assert.Equal(t, "Please use only plain English characters.", UserMessage(err))
	assert.Empty(t, printer.Jobs())

	// Digits and punctuation are printable ASCII and allowed.
	require.NoError(t, app.VisitorSignIn(context.Background(), "O'Brien-2", "Smith"))
	assert.Len(t, printer.Jobs(), 1)
}

func TestSignOutAll(t *testing.T) {
	ctx := context.Background()
	app := newApp(t, &MockPrinter{connected: true}, at(10, 0), false)

	require.NoError(t, app.VisitorSignIn(ctx, "Ann", "Lee"))
	require.NoError(t, app.VisitorSignIn(ctx, "Bo", "Chen"))

	n, err := app.SignOutAll(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)
}

func TestCapitalize(t *testing.T) {
	assert.Equal(t, "Mcdonald", capitalize("mcDonald"))
	assert.Equal(t, "", capitalize("   "))
	assert.Equal(t, "A", capitalize("a"))
}
