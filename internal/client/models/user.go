// Package models contains the data types shared by the client layers:
// the user profile, social providers, and the payloads exchanged with
// the authentication backend.
package models

import "strings"

// User is the cached profile of the signed-in account.
//
// Name and Avatar are optional; the backend may omit them. The profile is
// persisted locally in an encrypted store together with the session token.
type User struct {
	ID     string `json:"id"`
	Email  string `json:"email"`
	Name   string `json:"name,omitempty"`
	Avatar string `json:"avatar,omitempty"`
}

// Provider identifies a social sign-in provider.
type Provider string

const (
	ProviderApple    Provider = "apple"
	ProviderGoogle   Provider = "google"
	ProviderFacebook Provider = "facebook"
)

// Valid reports whether p is one of the known providers.
func (p Provider) Valid() bool {
	switch p {
	case ProviderApple, ProviderGoogle, ProviderFacebook:
		return true
	}
	return false
}

// ParseProvider maps a user-entered provider name to a Provider.
// The match is case-insensitive. ok is false for unknown names.
func ParseProvider(s string) (Provider, bool) {
	p := Provider(strings.ToLower(strings.TrimSpace(s)))
	return p, p.Valid()
}

// RegisterData is the input for account registration.
type RegisterData struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// AuthResult is what the backend returns for every session-establishing
// call: the authenticated profile and an opaque bearer token.
type AuthResult struct {
	User  User   `json:"user"`
	Token string `json:"token"`
}
