package session

import "github.com/wiblue/wiblue/internal/models"

// Theme is the UI theme preference carried in the session.
type Theme string

const (
	ThemeLight Theme = "light"
	ThemeDark  Theme = "dark"
)

// Session holds the authenticated identity and its derived selections.
// The zero value is the unauthenticated session.
type Session struct {
	Username     string
	UserID       string
	Email        string
	Token        string
	Interface    string
	Theme        Theme
	StatsNetwork string
	SeenNetworks []models.SeenNetwork
}

// Authenticated reports whether the session carries a complete identity.
// Token presence alone is not enough; username, id and email must all be set.
func (s Session) Authenticated() bool {
	return s.Username != "" && s.UserID != "" && s.Email != ""
}

// HasIdentity reports whether any identity field is set. The validator
// only runs while this holds.
func (s Session) HasIdentity() bool {
	return s.Username != "" || s.UserID != "" || s.Email != ""
}
