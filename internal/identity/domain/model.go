// Package domain contains core types for the session layer.
package domain

import (
	"fmt"
	"strings"
	"time"
)

// UsersCollection is the document-store collection keyed by identity id,
// written by sign-in/sign-up upserts and by profile edits.
const UsersCollection = "users"

// Identity represents the signed-in principal. The identifier is unique
// and stable for the lifetime of the account; email is set by the backend
// and never mutated locally.
type Identity struct {
	ID          string    `json:"id"`
	Email       string    `json:"email"`
	DisplayName string    `json:"displayName,omitempty"`
	PhotoURL    string    `json:"photoURL,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// Provider is a federated sign-in provider.
type Provider string

const (
	ProviderGoogle Provider = "google"
	ProviderGithub Provider = "github"
)

func ParseProvider(raw string) (Provider, error) {
	switch Provider(strings.ToLower(strings.TrimSpace(raw))) {
	case ProviderGoogle:
		return ProviderGoogle, nil
	case ProviderGithub:
		return ProviderGithub, nil
	default:
		return "", fmt.Errorf("unknown sign-in provider %q", raw)
	}
}

// DisplayNameFromEmail derives a fallback display name from the local
// part of an email address.
func DisplayNameFromEmail(email string) string {
	local, _, found := strings.Cut(email, "@")
	if found && strings.TrimSpace(local) != "" {
		return strings.TrimSpace(local)
	}
	return email
}
