package medibot

import "context"

// Identity is the signed-in user as reported by the authentication provider.
type Identity struct {
	ID    string
	Email string
}

// IdentityProvider supplies the current user identity. Implementations wrap
// whatever auth backend the app uses; the session never reads ambient global
// auth state. A provider that is still resolving the session must return an
// error wrapping ErrAuthenticationRequired so no sends happen while loading.
type IdentityProvider interface {
	CurrentIdentity(ctx context.Context) (Identity, error)
}

// StaticIdentity is an IdentityProvider with a fixed identity, used by the
// CLI and tests.
type StaticIdentity Identity

func (s StaticIdentity) CurrentIdentity(ctx context.Context) (Identity, error) {
	if s.ID == "" {
		return Identity{}, ErrAuthenticationRequired
	}
	return Identity(s), nil
}
