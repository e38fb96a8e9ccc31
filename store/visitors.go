package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// AddVisitor records a sign-in and returns the new row id.
func (s *Store) AddVisitor(ctx context.Context, first, last string, at time.Time) (int64, error) {
	res, err := s.db.ExecContext(ctx,
		"INSERT INTO visitors (first_name, last_name, signed_in_at) VALUES (?, ?, ?)",
		first, last, toMillis(at))
	if err != nil {
		return 0, fmt.Errorf("add visitor: %w", err)
	}
	return res.LastInsertId()
}

// FindVisitor returns the earliest signed-in visitor with this name.
func (s *Store) FindVisitor(ctx context.Context, first, last string) (Visitor, error) {
	return findVisitor(ctx, s.db, first, last)
}

type queryer interface {
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

func findVisitor(ctx context.Context, q queryer, first, last string) (Visitor, error) {
	var (
		v  Visitor
		ms int64
	)
	err := q.QueryRowContext(ctx, `
		SELECT id, first_name, last_name, signed_in_at
		FROM visitors
		WHERE first_name = ? AND last_name = ?
		ORDER BY id
		LIMIT 1
	`, first, last).Scan(&v.ID, &v.FirstName, &v.LastName, &ms)
	if errors.Is(err, sql.ErrNoRows) {
		return Visitor{}, ErrNotFound
	}
	if err != nil {
		return Visitor{}, fmt.Errorf("find visitor: %w", err)
	}
	v.SignedIn = fromMillis(ms)
	return v, nil
}

// SignOutVisitor moves the earliest visitor with this name to past visitors.
func (s *Store) SignOutVisitor(ctx context.Context, first, last string, at time.Time) (PastVisitor, error) {
	var past PastVisitor
	err := s.tx(ctx, func(tx *sql.Tx) error {
		v, err := findVisitor(ctx, tx, first, last)
		if err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx, "DELETE FROM visitors WHERE id = ?", v.ID); err != nil {
			return fmt.Errorf("delete visitor: %w", err)
		}
		res, err := tx.ExecContext(ctx, `
			INSERT INTO past_visitors (first_name, last_name, signed_in_at, signed_out_at)
			VALUES (?, ?, ?, ?)
		`, v.FirstName, v.LastName, toMillis(v.SignedIn), toMillis(at))
		if err != nil {
			return fmt.Errorf("archive visitor: %w", err)
		}
		past = PastVisitor{Visitor: v, SignedOut: fromMillis(toMillis(at))}
		past.ID, err = res.LastInsertId()
		return err
	})
	if err != nil {
		return PastVisitor{}, err
	}
	return past, nil
}

// CurrentVisitors lists everyone signed in, oldest first.
func (s *Store) CurrentVisitors(ctx context.Context) ([]Visitor, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, first_name, last_name, signed_in_at
		FROM visitors
		ORDER BY id
	`)
	if err != nil {
		return nil, fmt.Errorf("list visitors: %w", err)
	}
	defer rows.Close()

	out := make([]Visitor, 0)
	for rows.Next() {
		var (
			v  Visitor
			ms int64
		)
		if err := rows.Scan(&v.ID, &v.FirstName, &v.LastName, &ms); err != nil {
			return nil, fmt.Errorf("scan visitor: %w", err)
		}
		v.SignedIn = fromMillis(ms)
		out = append(out, v)
	}
	return out, rows.Err()
}

// PastVisitors lists everyone who signed out, oldest first.
func (s *Store) PastVisitors(ctx context.Context) ([]PastVisitor, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, first_name, last_name, signed_in_at, signed_out_at
		FROM past_visitors
		ORDER BY id
	`)
	if err != nil {
		return nil, fmt.Errorf("list past visitors: %w", err)
	}
	defer rows.Close()

	out := make([]PastVisitor, 0)
	for rows.Next() {
		var (
			v           PastVisitor
			inMs, outMs int64
		)
		if err := rows.Scan(&v.ID, &v.FirstName, &v.LastName, &inMs, &outMs); err != nil {
			return nil, fmt.Errorf("scan past visitor: %w", err)
		}
		v.SignedIn = fromMillis(inMs)
		v.SignedOut = fromMillis(outMs)
		out = append(out, v)
	}
	return out, rows.Err()
}

// ClearPast deletes the sign-out history and returns how many rows went.
func (s *Store) ClearPast(ctx context.Context) (int64, error) {
	res, err := s.db.ExecContext(ctx, "DELETE FROM past_visitors")
	if err != nil {
		return 0, fmt.Errorf("clear past visitors: %w", err)
	}
	return res.RowsAffected()
}

// SignOutAll drops every current visitor without archiving them.
func (s *Store) SignOutAll(ctx context.Context) (int64, error) {
	res, err := s.db.ExecContext(ctx, "DELETE FROM visitors")
	if err != nil {
		return 0, fmt.Errorf("sign out all: %w", err)
	}
	return res.RowsAffected()
}
