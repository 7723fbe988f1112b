package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/nao1215/realreach/internal/database"
	"github.com/nao1215/realreach/internal/model"
)

// DefaultLoginDelay is how long MockProvider pretends the OAuth round trip takes.
const DefaultLoginDelay = 1500 * time.Millisecond

// MockProvider simulates an OAuth login and always returns the same demo
// account on the requested platform.
type MockProvider struct {
	users  database.UserStore
	delay  time.Duration
	logger *slog.Logger
}

// Option configures a MockProvider.
type Option func(*MockProvider)

// WithDelay sets the simulated login latency. Zero disables it.
func WithDelay(d time.Duration) Option {
	return func(p *MockProvider) {
		if d >= 0 {
			p.delay = d
		}
	}
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(p *MockProvider) {
		p.logger = logger
	}
}

// NewMockProvider creates a MockProvider storing the user in users.
func NewMockProvider(users database.UserStore, opts ...Option) *MockProvider {
	p := &MockProvider{
		users: users,
		delay: DefaultLoginDelay,
	}
	for _, opt := range opts {
		opt(p)
	}
	if p.logger == nil {
		p.logger = slog.Default()
	}
	return p
}

// DemoUser returns the account every mock login resolves to.
func DemoUser(platform model.Platform) *model.User {
	return &model.User{
		ID:             "user123",
		Username:       "techuser",
		Name:           "Tech User",
		AvatarURL:      "https://images.pexels.com/photos/220453/pexels-photo-220453.jpeg?auto=compress&cs=tinysrgb&w=300",
		Platform:       platform,
		FollowerCount:  1243,
		FollowingCount: 587,
	}
}

// Login waits for the simulated delay, then stores and returns the demo user.
func (p *MockProvider) Login(ctx context.Context, platform model.Platform) (*model.User, error) {
	if !platform.IsValid() {
		return nil, fmt.Errorf("%w: %q", model.ErrUnsupportedPlatform, platform)
	}

	if p.delay > 0 {
		timer := time.NewTimer(p.delay)
		defer timer.Stop()
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-timer.C:
		}
	}

	user := DemoUser(platform)
	user.Token = "mock_" + uuid.NewString()

	if err := p.users.SaveUser(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to store user: %w", err)
	}

	p.logger.Info("logged in",
		"platform", platform,
		"username", user.Username,
		"token", user.Token,
	)
	return user, nil
}

// Logout removes the stored user.
func (p *MockProvider) Logout(ctx context.Context) error {
	if err := p.users.DeleteUser(ctx); err != nil {
		return fmt.Errorf("failed to remove user: %w", err)
	}
	p.logger.Info("logged out")
	return nil
}

// Current returns the stored user.
func (p *MockProvider) Current(ctx context.Context) (*model.User, error) {
	user, err := p.users.LoadUser(ctx)
	if errors.Is(err, database.ErrUserNotFound) {
		return nil, ErrNotLoggedIn
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load user: %w", err)
	}
	return user, nil
}
