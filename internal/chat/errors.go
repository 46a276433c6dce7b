package chat

import (
	"errors"
	"fmt"

	"github.com/arya/nyaya/internal/store"
)

var (
	// ErrUsernameTaken indicates a signup with an existing username. It
	// wraps the store sentinel so callers can match on either.
	ErrUsernameTaken = fmt.Errorf("username already exists: %w", store.ErrAlreadyExists)

	// ErrInvalidCredentials indicates a login with no exact
	// username/password match.
	ErrInvalidCredentials = errors.New("invalid username or password")
)
