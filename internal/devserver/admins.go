package devserver

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/mesh-intelligence/tracker/pkg/types"
)

// SeedAdmin creates an administrator, or resets the name and password of an
// existing one with the same email.
func (b *Backend) SeedAdmin(ctx context.Context, email, name, password string) (types.Admin, error) {
	if email == "" || password == "" {
		return types.Admin{}, fmt.Errorf("seed admin: %w", types.ErrValidation)
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return types.Admin{}, fmt.Errorf("hash password: %w", err)
	}

	var a types.Admin
	err = b.tx(ctx, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, `INSERT INTO admins (email, name, password_hash) VALUES (?, ?, ?)
ON CONFLICT(email) DO UPDATE SET name = excluded.name, password_hash = excluded.password_hash`,
			email, name, hash); err != nil {
			return fmt.Errorf("upsert admin: %w", err)
		}
		return tx.QueryRowContext(ctx,
			"SELECT admin_id, email, name FROM admins WHERE email = ?", email,
		).Scan(&a.ID, &a.Email, &a.Name)
	})
	if err != nil {
		return types.Admin{}, err
	}
	b.logger.Info("admin seeded", zap.Int("id", a.ID), zap.String("email", a.Email))
	return a, nil
}

// Authenticate checks credentials and returns the admin record. Unknown
// emails and wrong passwords both return ErrBadCredentials.
func (b *Backend) Authenticate(ctx context.Context, email, password string) (types.Admin, error) {
	var (
		a    types.Admin
		hash []byte
	)
	err := b.tx(ctx, func(tx *sql.Tx) error {
		return tx.QueryRowContext(ctx,
			"SELECT admin_id, email, name, password_hash FROM admins WHERE email = ?", email,
		).Scan(&a.ID, &a.Email, &a.Name, &hash)
	})
	if errors.Is(err, sql.ErrNoRows) {
		return types.Admin{}, ErrBadCredentials
	}
	if err != nil {
		return types.Admin{}, fmt.Errorf("look up admin: %w", err)
	}
	if err := bcrypt.CompareHashAndPassword(hash, []byte(password)); err != nil {
		return types.Admin{}, ErrBadCredentials
	}
	return a, nil
}
