// Package auth gates every remote operation behind a fresh
// authorization.
//
// The engine distinguishes two prompt modes: PromptSelectAccount for
// the initial interactive sign-in of a new account, and PromptNone for
// every later operation on a linked account. Silent authorization is
// re-derived per invocation and never cached across navigation actions;
// an expired session surfaces as ErrReauthRequired so the caller can
// involve the user instead of retrying.
//
// LoadAuth is the decorator used for user-triggered file operations: it
// returns a callable that authorizes silently first and only then runs
// the wrapped operation with its arguments forwarded unchanged.
package auth
