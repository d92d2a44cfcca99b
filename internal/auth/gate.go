package auth

import (
	"context"
	"errors"
	"fmt"
)

// PromptMode selects how the authorization boundary may interact with
// the user.
type PromptMode string

const (
	// PromptSelectAccount is the interactive mode used for initial
	// sign-in; it may present account-selection UI.
	PromptSelectAccount PromptMode = "select_account"

	// PromptNone is the silent mode used for every subsequent operation
	// on an already-linked account. It requires a login hint and fails
	// with ErrReauthRequired when the session has expired.
	PromptNone PromptMode = "none"
)

var (
	// ErrReauthRequired is returned by a silent authorization when the
	// session has expired. It must reach the caller: user interaction
	// is required, so retrying silently cannot succeed.
	ErrReauthRequired = errors.New("reauthorization required")

	// ErrDenied is returned when the user or the provider refused the
	// authorization request.
	ErrDenied = errors.New("authorization denied")
)

// Credentials is the short-lived authorization capability produced by a
// successful authorize call.
type Credentials struct {
	AccessToken string
	IDToken     string
	Code        string
}

// Request describes one authorization attempt.
type Request struct {
	Scopes []string
	Prompt PromptMode

	// LoginHint is the account email; required when Prompt is PromptNone.
	LoginHint string
}

// Authorizer produces short-lived credentials for an account identity.
// Implementations never cache a grant across invocations: every call
// re-derives authorization.
type Authorizer interface {
	Authorize(ctx context.Context, req Request) (*Credentials, error)
}

// Operation is a unit of work that runs against the Drive API once a
// silent authorization for its account has succeeded.
type Operation[T any] func(ctx context.Context, creds Credentials, arg T) error

// LoadAuth wraps op so that every invocation first performs a silent
// authorization for the hinted account and only on success invokes op,
// forwarding the argument unchanged. On authorization failure op is not
// invoked and the error is returned to the caller.
func LoadAuth[T any](a Authorizer, loginHint string, op Operation[T]) func(ctx context.Context, arg T) error {
	return func(ctx context.Context, arg T) error {
		creds, err := a.Authorize(ctx, Request{
			Scopes:    DriveScopes,
			Prompt:    PromptNone,
			LoginHint: loginHint,
		})
		if err != nil {
			return fmt.Errorf("silent authorization for %s failed: %w", loginHint, err)
		}
		return op(ctx, *creds, arg)
	}
}
