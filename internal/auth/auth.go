package auth

import (
	"context"
	"errors"

	"github.com/nao1215/realreach/internal/model"
)

// ErrNotLoggedIn is returned when an operation needs a user and none is logged in.
var ErrNotLoggedIn = errors.New("not logged in")

// Provider logs users in and out of a platform.
type Provider interface {
	// Login authenticates against platform and stores the resulting user.
	Login(ctx context.Context, platform model.Platform) (*model.User, error)

	// Logout forgets the stored user. Logging out twice is not an error.
	Logout(ctx context.Context) error

	// Current returns the logged in user or ErrNotLoggedIn.
	Current(ctx context.Context) (*model.User, error)
}
