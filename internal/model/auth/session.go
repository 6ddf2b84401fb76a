package auth

import "time"

// DefaultDisplayName is shown when a user has neither a name nor an e-mail.
const DefaultDisplayName = "Utilisateur"

// User is the subset of the provider's user record the app consumes.
type User struct {
	ID       string `json:"id"`
	Email    string `json:"email,omitempty"`
	FullName string `json:"fullName,omitempty"`
}

// DisplayName resolves the label shown in the navigation widget.
func (u User) DisplayName() string {
	if u.FullName != "" {
		return u.FullName
	}
	if u.Email != "" {
		return u.Email
	}
	return DefaultDisplayName
}

// Session is the provider-owned token pair carried in browser cookies.
type Session struct {
	AccessToken  string
	RefreshToken string
	ExpiresAt    time.Time
	User         User
}

// ExpiresWithin reports whether the access token expires before now+margin.
// A session without a known expiry never expires locally.
func (s Session) ExpiresWithin(now time.Time, margin time.Duration) bool {
	if s.ExpiresAt.IsZero() {
		return false
	}
	return !s.ExpiresAt.After(now.Add(margin))
}
