package nav

import (
	"log/slog"
	"sync"

	"github.com/Hjmep/UniDrive/internal/drive"
	"github.com/Hjmep/UniDrive/internal/logging"
)

// Registry keeps one Navigator per linked account, keyed by account id.
// Navigation state is scoped to the account: removing the account
// discards it.
type Registry struct {
	mu     sync.Mutex
	navs   map[int64]*Navigator
	logger *slog.Logger
}

// NewRegistry creates an empty navigator registry.
func NewRegistry(logger *slog.Logger) *Registry {
	if logger == nil {
		logger = slog.Default()
	}
	return &Registry{
		navs:   make(map[int64]*Navigator),
		logger: logger,
	}
}

// ForAccount returns the account's navigator, creating one over the
// given listing if none exists yet.
func (r *Registry) ForAccount(accountID int64, files []drive.FileMetadata) *Navigator {
	r.mu.Lock()
	defer r.mu.Unlock()

	n, ok := r.navs[accountID]
	if !ok {
		n = New(files)
		r.navs[accountID] = n
	}
	return n
}

// Lookup returns the account's navigator if one exists.
func (r *Registry) Lookup(accountID int64) (*Navigator, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	n, ok := r.navs[accountID]
	return n, ok
}

// Drop discards the account's navigation state.
func (r *Registry) Drop(accountID int64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.navs, accountID)
}

// HandleChange is the store invalidation hook: removals drop the
// account's navigator, listing changes rebuild it over the new files.
func (r *Registry) HandleChange(accountID int64, files []drive.FileMetadata, removed bool) {
	if removed {
		r.Drop(accountID)
		r.logger.Debug("navigation state discarded", logging.AccountID(accountID))
		return
	}

	r.ForAccount(accountID, files).Rebuild(files)
}
