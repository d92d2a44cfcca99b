package auth

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeAuthorizer records requests and returns canned results.
type fakeAuthorizer struct {
	requests []Request
	creds    *Credentials
	err      error
}

func (f *fakeAuthorizer) Authorize(ctx context.Context, req Request) (*Credentials, error) {
	f.requests = append(f.requests, req)
	if f.err != nil {
		return nil, f.err
	}
	return f.creds, nil
}

func TestLoadAuthInvokesOperationOnSuccess(t *testing.T) {
	gate := &fakeAuthorizer{creds: &Credentials{AccessToken: "at"}}

	var gotCreds Credentials
	var gotArg string
	calls := 0
	op := LoadAuth(gate, "user@example.com", func(ctx context.Context, creds Credentials, arg string) error {
		calls++
		gotCreds = creds
		gotArg = arg
		return nil
	})

	require.NoError(t, op(context.Background(), "file123"))
	assert.Equal(t, 1, calls)
	assert.Equal(t, "at", gotCreds.AccessToken)
	assert.Equal(t, "file123", gotArg)

	// Every invocation re-derives authorization.
	require.NoError(t, op(context.Background(), "file456"))
	require.Len(t, gate.requests, 2)
	for _, req := range gate.requests {
		assert.Equal(t, PromptNone, req.Prompt)
		assert.Equal(t, "user@example.com", req.LoginHint)
	}
}

func TestLoadAuthSkipsOperationOnFailure(t *testing.T) {
	gate := &fakeAuthorizer{err: ErrReauthRequired}

	calls := 0
	op := LoadAuth(gate, "user@example.com", func(ctx context.Context, creds Credentials, arg int) error {
		calls++
		return nil
	})

	err := op(context.Background(), 42)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrReauthRequired)
	assert.Zero(t, calls, "operation must not run when authorization fails")
}

func TestOAuthGateInteractivePromptReturnsConsentURL(t *testing.T) {
	gate := NewOAuthGate("client-id", "client-secret", nil)

	_, err := gate.Authorize(context.Background(), Request{
		Scopes: DriveScopes,
		Prompt: PromptSelectAccount,
	})
	require.Error(t, err)

	var consent *ConsentRequiredError
	require.True(t, errors.As(err, &consent))
	assert.Contains(t, consent.URL, "client-id")
}

func TestOAuthGateSilentWithoutGrant(t *testing.T) {
	gate := NewOAuthGate("client-id", "client-secret", nil)

	_, err := gate.Authorize(context.Background(), Request{
		Prompt:    PromptNone,
		LoginHint: "nobody@example.com",
	})
	assert.ErrorIs(t, err, ErrReauthRequired)

	// A silent request without a login hint cannot succeed either.
	_, err = gate.Authorize(context.Background(), Request{Prompt: PromptNone})
	assert.ErrorIs(t, err, ErrReauthRequired)
}
