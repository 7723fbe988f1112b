package model

import "log/slog"

// User is the logged in account whose followers are analyzed.
type User struct {
	ID             string   `json:"id"`
	Username       string   `json:"username"`
	Name           string   `json:"name"`
	AvatarURL      string   `json:"avatarUrl"`
	Platform       Platform `json:"platform"`
	FollowerCount  int      `json:"followerCount"`
	FollowingCount int      `json:"followingCount"`

	// Token is the OAuth token handed out at login. It is never rendered
	// in reports and is masked in logs.
	Token string `json:"token,omitempty"`
}

// LogValue implements slog.LogValuer. The token is left out.
func (u User) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("id", u.ID),
		slog.String("username", u.Username),
		slog.String("platform", string(u.Platform)),
	)
}
