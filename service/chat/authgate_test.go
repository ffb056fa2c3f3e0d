package chat

import (
	"context"
	"testing"
	"time"

	"SProject/tools/errs"
	"SProject/tools/security"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeUserStore struct {
	users map[string]bool
	err   error
}

func (f *fakeUserStore) Exists(_ context.Context, userID string) (bool, error) {
	if f.err != nil {
		return false, f.err
	}
	return f.users[userID], nil
}

var testSecret = []byte("unit-test-secret")

func newTestGate(users *fakeUserStore) *AuthGate {
	return NewAuthGate(security.DefaultOptions(testSecret), users)
}

func TestAuthGateMissingToken(t *testing.T) {
	gate := newTestGate(&fakeUserStore{users: map[string]bool{}})

	_, aerr := gate.Authenticate(context.Background(), "")
	require.NotNil(t, aerr)
	assert.Equal(t, errs.CodeNoToken, aerr.Code)
	assert.Equal(t, "NO_TOKEN", aerr.Msg)
}

func TestAuthGateTamperedToken(t *testing.T) {
	gate := newTestGate(&fakeUserStore{users: map[string]bool{"alice": true}})

	token, _, err := security.Generate(security.DefaultOptions(testSecret), "alice")
	require.NoError(t, err)

	_, aerr := gate.Authenticate(context.Background(), token+"x")
	require.NotNil(t, aerr)
	assert.Equal(t, errs.CodeInvalidToken, aerr.Code)
}

func TestAuthGateWrongKeyToken(t *testing.T) {
	gate := newTestGate(&fakeUserStore{users: map[string]bool{"alice": true}})

	token, _, err := security.Generate(security.DefaultOptions([]byte("other-secret")), "alice")
	require.NoError(t, err)

	_, aerr := gate.Authenticate(context.Background(), token)
	require.NotNil(t, aerr)
	assert.Equal(t, errs.CodeInvalidToken, aerr.Code)
}

func TestAuthGateExpiredToken(t *testing.T) {
	gate := newTestGate(&fakeUserStore{users: map[string]bool{"alice": true}})

	opts := security.DefaultOptions(testSecret)
	opts.TTL = -time.Minute
	token, _, err := security.Generate(opts, "alice")
	require.NoError(t, err)

	_, aerr := gate.Authenticate(context.Background(), token)
	require.NotNil(t, aerr)
	assert.Equal(t, errs.CodeTokenExpired, aerr.Code)
}

func TestAuthGateVanishedUser(t *testing.T) {
	gate := newTestGate(&fakeUserStore{users: map[string]bool{}})

	token, _, err := security.Generate(security.DefaultOptions(testSecret), "ghost")
	require.NoError(t, err)

	_, aerr := gate.Authenticate(context.Background(), token)
	require.NotNil(t, aerr)
	assert.Equal(t, errs.CodeUserNotFound, aerr.Code)
}

func TestAuthGateUserStoreFailureRefusesHandshake(t *testing.T) {
	gate := newTestGate(&fakeUserStore{err: errors.New("mongo down")})

	token, _, err := security.Generate(security.DefaultOptions(testSecret), "alice")
	require.NoError(t, err)

	_, aerr := gate.Authenticate(context.Background(), token)
	require.NotNil(t, aerr)
	assert.Equal(t, errs.CodeUserNotFound, aerr.Code)
}

func TestAuthGateSuccess(t *testing.T) {
	gate := newTestGate(&fakeUserStore{users: map[string]bool{"alice": true}})

	token, _, err := security.Generate(security.DefaultOptions(testSecret), "alice")
	require.NoError(t, err)

	userID, aerr := gate.Authenticate(context.Background(), token)
	require.Nil(t, aerr)
	assert.Equal(t, "alice", userID)
}

func TestAuthGateFailureKindsDistinguishable(t *testing.T) {
	gate := newTestGate(&fakeUserStore{users: map[string]bool{}})

	opts := security.DefaultOptions(testSecret)
	opts.TTL = -time.Minute
	expired, _, err := security.Generate(opts, "alice")
	require.NoError(t, err)
	ghost, _, err := security.Generate(security.DefaultOptions(testSecret), "ghost")
	require.NoError(t, err)

	codes := map[int]bool{}
	for _, token := range []string{"", "not-a-jwt", expired, ghost} {
		_, aerr := gate.Authenticate(context.Background(), token)
		require.NotNil(t, aerr)
		codes[aerr.Code] = true
	}
	assert.Len(t, codes, 4)
}
