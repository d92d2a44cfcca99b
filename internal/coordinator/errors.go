package coordinator

import (
	"errors"
	"fmt"
)

// ErrCreateCancelled is returned by CreateFile when the caller
// cancelled name entry; no remote call was made.
var ErrCreateCancelled = errors.New("file creation cancelled")

// ErrAccountBusy is returned by SignOut while a refresh is in flight
// for the account.
var ErrAccountBusy = errors.New("account is loading")

// RefreshError reports a failed refresh of one account. The account's
// files are left untouched and the account stays linked; only its
// status flips to error.
type RefreshError struct {
	AccountID int64
	Err       error
}

func (e *RefreshError) Error() string {
	return fmt.Sprintf("refresh of account %d failed: %v", e.AccountID, e.Err)
}

func (e *RefreshError) Unwrap() error {
	return e.Err
}

// OperationError reports a remote mutation the Drive service rejected.
// Local state is never mutated before the remote result is known, so a
// rejected operation leaves the engine unchanged.
type OperationError struct {
	Op        string
	AccountID int64
	Err       error
}

func (e *OperationError) Error() string {
	return fmt.Sprintf("%s on account %d failed: %v", e.Op, e.AccountID, e.Err)
}

func (e *OperationError) Unwrap() error {
	return e.Err
}

// OwnershipError reports the inconsistency left behind when an external
// move granted writer access (phase one) but the ownership transfer
// (phase two) failed: the file keeps its owner and the grantee keeps an
// extra writer permission. The engine reports it rather than retrying
// or rolling back.
type OwnershipError struct {
	FileID       string
	PermissionID string
	Err          error
}

func (e *OwnershipError) Error() string {
	return fmt.Sprintf("ownership transfer of file %s failed after permission %s was granted: %v",
		e.FileID, e.PermissionID, e.Err)
}

func (e *OwnershipError) Unwrap() error {
	return e.Err
}
