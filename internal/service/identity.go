package service

import (
	"context"
	"errors"
	"regexp"

	"github.com/google/uuid"

	"appointease-api/internal/apperr"
	"appointease-api/internal/auth"
	"appointease-api/internal/model"
)

var usernameShape = regexp.MustCompile(`^[a-zA-Z0-9_-]+$`)

// Register creates a user and returns an access token. Username uniqueness
// is detected from the insert itself, not a prior read, so two racing
// registrations cannot both win.
func (s *Service) Register(ctx context.Context, name, username, password string) (string, error) {
	if name == "" || username == "" || password == "" {
		return "", apperr.BadRequest("All fields are required")
	}
	if len(username) < 3 {
		return "", apperr.BadRequest("Username must be at least 3 characters")
	}
	if !usernameShape.MatchString(username) {
		return "", apperr.BadRequest("Username must be alphanumeric and can include only - and _")
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		return "", err
	}

	u := &model.User{
		ID:           uuid.New().String(),
		Name:         name,
		Username:     username,
		PasswordHash: hash,
	}
	if err := s.users.CreateUser(ctx, u); err != nil {
		if errors.Is(err, model.ErrUsernameTaken) {
			return "", apperr.Conflict("username already in use")
		}
		return "", err
	}

	return auth.MakeToken(u.ID, s.secret, s.tokenTTL)
}

func (s *Service) Login(ctx context.Context, username, password string) (string, error) {
	if username == "" || password == "" {
		return "", apperr.BadRequest("All fields are required")
	}

	u, err := s.users.UserByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			return "", apperr.NotFound("No user found with this username")
		}
		return "", err
	}
	if !auth.CheckPassword(u.PasswordHash, password) {
		return "", apperr.Unauthorized("Incorrect username or password")
	}

	return auth.MakeToken(u.ID, s.secret, s.tokenTTL)
}

func (s *Service) Me(ctx context.Context, caller *model.User) (*model.User, error) {
	u, err := s.users.UserByID(ctx, caller.ID)
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			return nil, apperr.NotFound("User not found")
		}
		return nil, err
	}
	return u, nil
}

// SearchUsers matches name substrings or exact usernames, excluding the
// caller, each hit enriched with a pending appointment id when one exists.
func (s *Service) SearchUsers(ctx context.Context, caller *model.User, search string) ([]model.UserMatch, error) {
	return s.users.SearchUsers(ctx, caller.ID, search)
}
