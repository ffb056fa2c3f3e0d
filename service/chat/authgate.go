package chat

import (
	"context"
	"errors"

	"SProject/tools/errs"
	"SProject/tools/security"

	jwtlib "github.com/golang-jwt/jwt/v5"
)

// AuthGate verifies the session token presented at the connection handshake
// and resolves it to a user id before the connection is admitted. It never
// issues tokens; that belongs to the login subsystem.
type AuthGate struct {
	opts  security.Options
	users UserStore
}

func NewAuthGate(opts security.Options, users UserStore) *AuthGate {
	return &AuthGate{opts: opts, users: users}
}

// Authenticate resolves a bearer token to a user id. Failures map onto the
// four connection-refusal kinds; no side effects occur on failure.
func (g *AuthGate) Authenticate(ctx context.Context, token string) (string, *errs.CodeError) {
	if token == "" {
		return "", &errs.ErrNoToken
	}

	sub, err := security.Verify(g.opts, token)
	if err != nil {
		if errors.Is(err, jwtlib.ErrTokenExpired) {
			return "", &errs.ErrTokenExpired
		}
		return "", &errs.ErrInvalidToken
	}

	ok, err := g.users.Exists(ctx, sub)
	if err != nil {
		// User store unreachable: the subject cannot be confirmed, so the
		// handshake is refused the same way as a vanished user.
		cerr := errs.ErrUserNotFound.WithDetail(err.Error())
		return "", &cerr
	}
	if !ok {
		return "", &errs.ErrUserNotFound
	}
	return sub, nil
}
