package kiosk

import (
	"context"
	"errors"

	"github.com/nixxel-company-limited/kiosk-printer/store"
)

// VisitorSignIn records a visitor and prints their pass. If the record
// cannot be saved the pass is still printed.
func (a *App) VisitorSignIn(ctx context.Context, first, last string) error {
	first, last, err := normalizeName(first, last)
	if err != nil {
		a.logger.Info("visitor name failed validation", "error", err)
		return err
	}

	if _, err := a.store.AddVisitor(ctx, first, last, a.now()); err != nil {
		a.logger.Error("failed to add visitor", "first", first, "last", last, "error", err)
	} else {
		a.logger.Debug("visitor added", "first", first, "last", last)
	}

	return a.PrintVisitorSlip(first + " " + last)
}

// VisitorSignOut moves a visitor to the sign-out history.
func (a *App) VisitorSignOut(ctx context.Context, first, last string) (store.PastVisitor, error) {
	first, last, err := normalizeName(first, last)
	if err != nil {
		return store.PastVisitor{}, err
	}

	past, err := a.store.SignOutVisitor(ctx, first, last, a.now())
	if errors.Is(err, store.ErrNotFound) {
		a.logger.Info("visitor was never signed in", "first", first, "last", last)
		return store.PastVisitor{}, ErrVisitorNotFound
	}
	if err != nil {
		a.logger.Error("signing visitor out failed", "first", first, "last", last, "error", err)
		return store.PastVisitor{}, err
	}

	a.logger.Debug("visitor signed out", "first", first, "last", last)
	return past, nil
}

// CurrentVisitors lists signed-in visitors.
func (a *App) CurrentVisitors(ctx context.Context) ([]store.Visitor, error) {
	v, err := a.store.CurrentVisitors(ctx)
	if err != nil {
		a.logger.Error("error retrieving current visitors", "error", err)
	}
	return v, err
}

// PastVisitors lists the sign-out history.
func (a *App) PastVisitors(ctx context.Context) ([]store.PastVisitor, error) {
	v, err := a.store.PastVisitors(ctx)
	if err != nil {
		a.logger.Error("error retrieving past visitors", "error", err)
	}
	return v, err
}

// ClearPast deletes the sign-out history.
func (a *App) ClearPast(ctx context.Context) (int64, error) {
	a.logger.Warn("past visitors cleared")
	return a.store.ClearPast(ctx)
}

// SignOutAll drops every signed-in visitor.
func (a *App) SignOutAll(ctx context.Context) (int64, error) {
	a.logger.Warn("all visitors signed out")
	return a.store.SignOutAll(ctx)
}
