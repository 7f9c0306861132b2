package drive

import (
	"context"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
)

// Gate answers the single question the backup orchestrator asks before any
// cloud transfer: is there a usable authenticated session right now? Token
// acquisition and storage belong to the collaborator that owns the token
// source, not to this package.
type Gate interface {
	Authenticated(ctx context.Context) bool
}

type tokenGate struct {
	ts oauth2.TokenSource
}

func NewTokenGate(ts oauth2.TokenSource) Gate {
	return &tokenGate{ts: ts}
}

func (g *tokenGate) Authenticated(_ context.Context) bool {

	if g.ts == nil {
		return false
	}

	token, err := g.ts.Token()

	return err == nil && token.Valid()
}

// TokenSourceFromRefreshToken builds a self-refreshing source from long-lived
// OAuth credentials. Returns nil when the credentials are not configured, so
// the gate reports unauthenticated instead of failing at startup.
func TokenSourceFromRefreshToken(ctx context.Context, clientID, clientSecret, refreshToken string) oauth2.TokenSource {

	if clientID == "" || clientSecret == "" || refreshToken == "" {
		return nil
	}

	cfg := &oauth2.Config{
		ClientID:     clientID,
		ClientSecret: clientSecret,
		Endpoint:     google.Endpoint,
		Scopes:       []string{driveFileScope},
	}

	return cfg.TokenSource(ctx, &oauth2.Token{RefreshToken: refreshToken})
}

// drive.file: access only to objects this app created.
const driveFileScope = "https://www.googleapis.com/auth/drive.file"
