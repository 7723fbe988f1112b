package model

import "time"

// Follower is a single account that follows the analyzed user.
//
// AvatarURL and Bio are pointers because "not set" and "set but empty" are
// both observed in platform data and the scoring rules treat them alike.
type Follower struct {
	// ID is the platform identifier of the account.
	ID string `json:"id" yaml:"id"`

	// Username is the account handle.
	Username string `json:"username" yaml:"username"`

	// Name is the display name.
	Name string `json:"name" yaml:"name"`

	// AvatarURL references the profile picture, nil when none is set.
	AvatarURL *string `json:"avatarUrl" yaml:"avatarUrl"`

	// Bio is the profile biography, nil when none is set.
	Bio *string `json:"bio" yaml:"bio"`

	// FollowerCount is the number of accounts following this follower.
	FollowerCount int `json:"followerCount" yaml:"followerCount"`

	// FollowingCount is the number of accounts this follower follows.
	FollowingCount int `json:"followingCount" yaml:"followingCount"`

	// PostCount is the number of posts (tweets, photos, ...) published.
	PostCount int `json:"tweetCount" yaml:"tweetCount"`

	// LastActivityDate is the time of the most recent activity.
	LastActivityDate time.Time `json:"lastActivityDate" yaml:"lastActivityDate"`

	// JoinDate is when the account was created.
	JoinDate time.Time `json:"joinDate" yaml:"joinDate"`

	// IsVerified reports whether the platform verified the account.
	IsVerified bool `json:"isVerified" yaml:"isVerified"`

	// IsProtected reports whether the account's posts are private.
	IsProtected bool `json:"isProtected" yaml:"isProtected"`
}

// HasAvatar reports whether a non-empty avatar reference is set.
func (f *Follower) HasAvatar() bool {
	return f.AvatarURL != nil && *f.AvatarURL != ""
}

// BioText returns the bio, or an empty string when none is set.
func (f *Follower) BioText() string {
	if f.Bio == nil {
		return ""
	}
	return *f.Bio
}

// StringPtr returns a pointer to s. It is a convenience for building
// followers with optional fields.
func StringPtr(s string) *string {
	return &s
}
