// Package identity decodes opaque ID tokens into the profile record
// (name, email, picture) the UI and the silent-auth login hint need.
//
// Decoding is pure parsing: no network calls, no signature checks. It
// fails closed; a malformed token yields ErrDecode and the caller is
// expected to suppress that account's display instead of crashing.
package identity
