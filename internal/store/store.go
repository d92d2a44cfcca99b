package store

import (
	"errors"
	"log/slog"
	"sync"

	"github.com/Hjmep/UniDrive/internal/drive"
	"github.com/Hjmep/UniDrive/internal/logging"
)

// ErrAccountNotFound is returned when an operation references an
// account id that is not (or no longer) linked. Callers must re-resolve
// their reference instead of assuming it survived a concurrent removal.
var ErrAccountNotFound = errors.New("account not found")

// Status describes an account's lifecycle state. It replaces the hidden
// readiness side-channel the UI used to consult: readiness is part of
// the account's state and can be queried and tested.
type Status int

const (
	StatusIdle Status = iota
	StatusLoading
	StatusReady
	StatusError
)

func (s Status) String() string {
	switch s {
	case StatusIdle:
		return "idle"
	case StatusLoading:
		return "loading"
	case StatusReady:
		return "ready"
	case StatusError:
		return "error"
	default:
		return "unknown"
	}
}

// Account is one linked Google account with its authorization material
// and the raw file listing from the last successful refresh.
type Account struct {
	// ID is minted by the store, stable for the account's lifetime and
	// never reused within a session. It is the only key callbacks use;
	// never an index into the ordered sequence.
	ID int64

	AccessToken string
	IDToken     string
	AuthCode    string

	// Files is the flat listing snapshot, replaced wholesale on refresh.
	Files []drive.FileMetadata

	Status Status
}

// ChangeFunc is notified after a mutation so derived per-account state
// (the folder navigator) can be invalidated. When removed is true the
// account is gone and files is nil; otherwise files is the account's
// current listing.
type ChangeFunc func(accountID int64, files []drive.FileMetadata, removed bool)

// Store holds the ordered set of linked accounts. It is owned by the
// top-level coordinator; all other components read or derive from it.
type Store struct {
	mu       sync.RWMutex
	nextID   int64
	order    []int64
	accounts map[int64]*Account
	onChange ChangeFunc
	logger   *slog.Logger
}

// New creates an empty account store. The id counter is scoped to the
// store instance, so separate stores (and tests) never contaminate each
// other.
func New(logger *slog.Logger) *Store {
	if logger == nil {
		logger = slog.Default()
	}
	return &Store{
		nextID:   1,
		accounts: make(map[int64]*Account),
		logger:   logger,
	}
}

// OnChange registers the invalidation hook. Must be called before the
// store is shared; the hook runs outside the store's lock.
func (s *Store) OnChange(fn ChangeFunc) {
	s.onChange = fn
}

// AddAccount appends a new account with a freshly minted id and an
// empty file listing. It always succeeds.
func (s *Store) AddAccount(accessToken, idToken, authCode string) int64 {
	s.mu.Lock()
	id := s.nextID
	s.nextID++
	s.accounts[id] = &Account{
		ID:          id,
		AccessToken: accessToken,
		IDToken:     idToken,
		AuthCode:    authCode,
		Status:      StatusIdle,
	}
	s.order = append(s.order, id)
	s.mu.Unlock()

	s.logger.Info("account linked", logging.AccountID(id))
	return id
}

// RemoveAccount removes an account and notifies the invalidation hook
// so its navigation state is discarded. Removing an unknown id is a
// no-op.
func (s *Store) RemoveAccount(id int64) {
	s.mu.Lock()
	_, ok := s.accounts[id]
	if ok {
		delete(s.accounts, id)
		for i, v := range s.order {
			if v == id {
				s.order = append(s.order[:i], s.order[i+1:]...)
				break
			}
		}
	}
	s.mu.Unlock()

	if !ok {
		return
	}

	s.logger.Info("account removed", logging.AccountID(id))
	if s.onChange != nil {
		s.onChange(id, nil, true)
	}
}

// ReplaceFiles atomically swaps the account's file listing, marks the
// account ready and fires the invalidation hook.
func (s *Store) ReplaceFiles(id int64, files []drive.FileMetadata) error {
	s.mu.Lock()
	acct, ok := s.accounts[id]
	if ok {
		acct.Files = files
		acct.Status = StatusReady
	}
	s.mu.Unlock()

	if !ok {
		return ErrAccountNotFound
	}

	if s.onChange != nil {
		s.onChange(id, files, false)
	}
	return nil
}

// SetStatus updates the account's lifecycle status.
func (s *Store) SetStatus(id int64, status Status) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	acct, ok := s.accounts[id]
	if !ok {
		return ErrAccountNotFound
	}
	acct.Status = status
	return nil
}

// Account returns a snapshot of the account with the given id.
func (s *Store) Account(id int64) (Account, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	acct, ok := s.accounts[id]
	if !ok {
		return Account{}, ErrAccountNotFound
	}
	return *acct, nil
}

// Accounts returns snapshots of all linked accounts in link order.
func (s *Store) Accounts() []Account {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]Account, 0, len(s.order))
	for _, id := range s.order {
		if acct, ok := s.accounts[id]; ok {
			out = append(out, *acct)
		}
	}
	return out
}

// Len returns the number of linked accounts.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.accounts)
}
