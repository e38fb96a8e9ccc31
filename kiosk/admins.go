package kiosk

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"github.com/nixxel-company-limited/kiosk-printer/store"
)

// MinPasswordLength is the length below which a password is weak. Weak
// passwords are allowed once the admin confirms.
const MinPasswordLength = 4

// WeakPassword reports whether password is shorter than MinPasswordLength.
func WeakPassword(password string) bool {
	return len(password) < MinPasswordLength
}

// RefreshAdmins reloads the admin cache from the store.
func (a *App) RefreshAdmins(ctx context.Context) error {
	admins, err := a.store.Admins(ctx)
	if err != nil {
		return fmt.Errorf("load admins: %w", err)
	}

	cache := make(map[string]store.Admin, len(admins))
	for _, adm := range admins {
		cache[adm.Username] = adm
	}

	a.mu.Lock()
	a.admins = cache
	a.mu.Unlock()
	return nil
}

// HasAdmin reports whether username is in the admin cache.
func (a *App) HasAdmin(username string) bool {
	a.mu.RLock()
	defer a.mu.RUnlock()
	_, ok := a.admins[strings.ToLower(strings.TrimSpace(username))]
	return ok
}

// HasAdmins reports whether any admin is configured.
func (a *App) HasAdmins() bool {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return len(a.admins) > 0
}

// AddAdmin hashes password and stores a new admin, then refreshes the cache.
func (a *App) AddAdmin(ctx context.Context, username, password, name string) error {
	username = strings.ToLower(strings.TrimSpace(username))
	name = strings.TrimSpace(name)
	switch {
	case name == "":
		return &ValidationError{Field: "name", Msg: "Invalid name"}
	case username == "":
		return &ValidationError{Field: "username", Msg: "Invalid username"}
	case password == "":
		return &ValidationError{Field: "password", Msg: "Password cannot be blank"}
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}

	a.logger.Warn("adding new admin", "name", name, "username", username)
	err = a.store.AddAdmin(ctx, store.Admin{Username: username, Name: name, PasswordHash: hash})
	if errors.Is(err, store.ErrDuplicate) {
		return ErrAdminExists
	}
	if err != nil {
		return err
	}
	return a.RefreshAdmins(ctx)
}

// Authenticate checks an admin's password against the cache.
func (a *App) Authenticate(username, password string) error {
	username = strings.ToLower(strings.TrimSpace(username))

	a.mu.RLock()
	adm, ok := a.admins[username]
	a.mu.RUnlock()
	if !ok {
		return ErrUnknownAdmin
	}

	if err := bcrypt.CompareHashAndPassword(adm.PasswordHash, []byte(password)); err != nil {
		a.logger.Warn("admin login failed", "username", username)
		return ErrWrongPassword
	}
	a.logger.Info("admin logged in", "username", username)
	return nil
}
