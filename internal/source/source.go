package source

import (
	"context"
	"errors"

	"github.com/nao1215/realreach/internal/model"
)

// ErrUnsupportedFormat is returned when a follower file has an unknown extension.
var ErrUnsupportedFormat = errors.New("unsupported follower file format")

// Source fetches the followers of a user.
type Source interface {
	// Followers returns the followers of user. Implementations must honor
	// ctx cancellation.
	Followers(ctx context.Context, user *model.User) ([]model.Follower, error)

	// Name identifies the source in logs and session metadata.
	Name() string
}
