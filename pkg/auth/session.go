package auth

import "context"

// SessionProvider is implemented by the host shell's account
// integration. It may open an interactive sign-in flow.
type SessionProvider interface {
	AccessToken(ctx context.Context, scopes []string) (string, error)
}

// SessionSource resolves a token from a host-integrated interactive
// session.
type SessionSource struct {
	Provider SessionProvider
	Scopes   []string
}

// Name implements Source.
func (*SessionSource) Name() string { return "session" }

// Token implements Source.
func (s *SessionSource) Token(ctx context.Context) (string, error) {
	return s.Provider.AccessToken(ctx, s.Scopes)
}
