// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package services

import (
	"context"
	"errors"
	"log/slog"
	"net/mail"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/shopspring/decimal"
	"golang.org/x/text/unicode/norm"

	"github.com/danielhkuo/valconnect/auth"
	"github.com/danielhkuo/valconnect/db"
	"github.com/danielhkuo/valconnect/models"
)

// MaxDisplayNameLength is counted in runes after normalization.
const MaxDisplayNameLength = 50

type IdentityStore interface {
	CreateUser(ctx context.Context, u *models.User) error
	GetUser(ctx context.Context, id string) (*models.User, error)
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
}

// Resolution is the result of looking up an email.
type Resolution struct {
	Exists bool
	User   *models.User
}

// IdentityService maps externally verified emails to users.
type IdentityService struct {
	store IdentityStore
	now   func() time.Time
}

func NewIdentityService(store IdentityStore) *IdentityService {
	return &IdentityService{store: store, now: time.Now}
}

// Resolve looks up a user by email. It has no side effects. An email that
// cannot be registered cannot exist, so malformed input resolves to
// Exists false rather than an error.
func (s *IdentityService) Resolve(ctx context.Context, email string) (*Resolution, error) {
	email, err := NormalizeEmail(email)
	if err != nil {
		return &Resolution{Exists: false}, nil
	}

	u, err := s.store.GetUserByEmail(ctx, email)
	if errors.Is(err, db.ErrNotFound) {
		return &Resolution{Exists: false}, nil
	}
	if err != nil {
		return nil, err
	}
	return &Resolution{Exists: true, User: u}, nil
}

// Register creates a user with zero counters. Fails with Conflict if the
// email is already registered.
func (s *IdentityService) Register(ctx context.Context, email, displayName string) (*models.User, error) {
	email, err := NormalizeEmail(email)
	if err != nil {
		return nil, err
	}
	displayName, err = NormalizeDisplayName(displayName)
	if err != nil {
		return nil, err
	}

	id, err := auth.GenerateID(16)
	if err != nil {
		return nil, err
	}

	u := &models.User{
		ID:          id,
		Email:       email,
		DisplayName: displayName,
		MoneyEarned: decimal.Zero,
		CreatedAt:   s.now().UTC(),
	}
	if err := s.store.CreateUser(ctx, u); err != nil {
		if errors.Is(err, db.ErrDuplicate) {
			return nil, NewConflictError("a user with this email already exists")
		}
		return nil, err
	}

	slog.Info("user registered", "user_id", u.ID)
	return u, nil
}

// GetUser returns a user by ID.
func (s *IdentityService) GetUser(ctx context.Context, id string) (*models.User, error) {
	u, err := s.store.GetUser(ctx, id)
	if errors.Is(err, db.ErrNotFound) {
		return nil, NewNotFoundError("user not found")
	}
	return u, err
}

// NormalizeEmail trims and lowercases an email and rejects anything that is
// not a bare address.
func NormalizeEmail(email string) (string, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" {
		return "", NewInvalidError("email is required")
	}
	addr, err := mail.ParseAddress(email)
	if err != nil || addr.Address != email {
		return "", NewInvalidError("email is not a valid address")
	}
	return email, nil
}

// NormalizeDisplayName trims and NFC-normalizes a display name so visually
// identical names compare equal.
func NormalizeDisplayName(name string) (string, error) {
	name = norm.NFC.String(strings.TrimSpace(name))
	if name == "" {
		return "", NewInvalidError("display_name is required")
	}
	if utf8.RuneCountInString(name) > MaxDisplayNameLength {
		return "", NewInvalidError("display_name is too long")
	}
	return name, nil
}
