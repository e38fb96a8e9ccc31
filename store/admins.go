package store

import (
	"context"
	"fmt"
)

// AddAdmin inserts an admin. It returns ErrDuplicate if the username is taken.
func (s *Store) AddAdmin(ctx context.Context, a Admin) error {
	res, err := s.db.ExecContext(ctx, `
		INSERT INTO admins (username, name, password_hash) VALUES (?, ?, ?)
		ON CONFLICT(username) DO NOTHING
	`, a.Username, a.Name, a.PasswordHash)
	if err != nil {
		return fmt.Errorf("add admin: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("add admin: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("admin %q: %w", a.Username, ErrDuplicate)
	}
	return nil
}

// Admins lists all admins.
func (s *Store) Admins(ctx context.Context) ([]Admin, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT username, name, password_hash FROM admins ORDER BY username")
	if err != nil {
		return nil, fmt.Errorf("list admins: %w", err)
	}
	defer rows.Close()

	out := make([]Admin, 0)
	for rows.Next() {
		var a Admin
		if err := rows.Scan(&a.Username, &a.Name, &a.PasswordHash); err != nil {
			return nil, fmt.Errorf("scan admin: %w", err)
		}
		out = append(out, a)
	}
	return out, rows.Err()
}
