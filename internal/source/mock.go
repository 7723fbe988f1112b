package source

import (
	"context"
	"fmt"
	"math/rand/v2"
	"time"

	"github.com/nao1215/realreach/internal/model"
)

// DefaultMockCount is the number of followers MockSource generates by default.
const DefaultMockCount = 30

// mockBios is the pool of bios assigned to generated followers.
// nil and "" are both present so the empty-bio rule sees both shapes.
var mockBios = []*string{
	model.StringPtr("Digital enthusiast | Tech lover | Coffee addict"),
	model.StringPtr("Professional procrastinator | Avid reader"),
	model.StringPtr("Marketing specialist | Travel buff | Food lover"),
	nil,
	model.StringPtr("Crypto investor 💰 DM for opportunities! #NFT #Bitcoin"),
	model.StringPtr("Follow for follow! Check out my latest giveaway!"),
	model.StringPtr("Just here to observe"),
	model.StringPtr("Living life one day at a time ✨"),
	model.StringPtr("Click the link in bio for free cashapp money! 💸"),
	model.StringPtr(""),
}

// MockSource generates synthetic followers.
//
// Roughly 30% of generated followers lack an avatar, 30% are inactive,
// 20% carry spam-looking names and 10% each are verified or protected.
type MockSource struct {
	count  int
	seed   uint64
	seeded bool
	now    func() time.Time
}

// MockOption configures a MockSource.
type MockOption func(*MockSource)

// WithCount sets the number of followers to generate. Non-positive values
// are ignored.
func WithCount(n int) MockOption {
	return func(m *MockSource) {
		if n > 0 {
			m.count = n
		}
	}
}

// WithSeed makes generation deterministic: two calls with the same seed
// and clock return identical followers.
func WithSeed(seed uint64) MockOption {
	return func(m *MockSource) {
		m.seed = seed
		m.seeded = true
	}
}

// WithClock sets the time source used for activity and join dates.
func WithClock(now func() time.Time) MockOption {
	return func(m *MockSource) {
		if now != nil {
			m.now = now
		}
	}
}

// NewMockSource creates a MockSource.
func NewMockSource(opts ...MockOption) *MockSource {
	m := &MockSource{
		count: DefaultMockCount,
		now:   time.Now,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Name returns "mock".
func (m *MockSource) Name() string {
	return "mock"
}

// Count returns the number of followers generated per call.
func (m *MockSource) Count() int {
	return m.count
}

// Followers generates the configured number of followers. The user is not
// consulted; every user gets the same synthetic population.
func (m *MockSource) Followers(ctx context.Context, _ *model.User) ([]model.Follower, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	seed := m.seed
	if !m.seeded {
		seed = rand.Uint64()
	}
	rng := rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
	now := m.now()

	followers := make([]model.Follower, m.count)
	for i := range followers {
		followers[i] = mockFollower(rng, i, now)
	}
	return followers, nil
}

func mockFollower(rng *rand.Rand, i int, now time.Time) model.Follower {
	hasAvatar := rng.Float64() > 0.3
	followerCount := rng.IntN(2000)
	followingCount := rng.IntN(2000)
	inactive := rng.Float64() > 0.7
	spammy := rng.Float64() > 0.8

	f := model.Follower{
		ID:             fmt.Sprintf("follower%d", i),
		Username:       fmt.Sprintf("user_%d", i),
		Name:           fmt.Sprintf("User %d", i),
		FollowerCount:  followerCount,
		FollowingCount: followingCount,
	}
	if spammy {
		f.Username = fmt.Sprintf("crypto_fan_%d_giveway", i)
		f.Name = fmt.Sprintf("Crypto Fan %d | Giveaway", i)
	}
	if hasAvatar {
		photo := 5000 + i
		f.AvatarURL = model.StringPtr(fmt.Sprintf(
			"https://images.pexels.com/photos/%d/pexels-photo-%d.jpeg?auto=compress&cs=tinysrgb&w=300", photo, photo))
	}
	if bio := mockBios[rng.IntN(len(mockBios))]; bio != nil {
		f.Bio = model.StringPtr(*bio)
	}

	if inactive {
		f.PostCount = rng.IntN(5)
		f.LastActivityDate = monthsAgo(rng, now, 24)
	} else {
		f.PostCount = rng.IntN(2000)
		f.LastActivityDate = monthsAgo(rng, now, 3)
	}
	f.JoinDate = monthsAgo(rng, now, 36)
	f.IsVerified = rng.Float64() > 0.9
	f.IsProtected = rng.Float64() > 0.9

	return f
}

// monthsAgo returns now shifted back by a whole number of months in [0, limit).
func monthsAgo(rng *rand.Rand, now time.Time, limit int) time.Time {
	return now.AddDate(0, -rng.IntN(limit), 0)
}
