package coordinator

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/Hjmep/UniDrive/internal/auth"
	"github.com/Hjmep/UniDrive/internal/drive"
	"github.com/Hjmep/UniDrive/internal/identity"
	"github.com/Hjmep/UniDrive/internal/instrumentation"
	"github.com/Hjmep/UniDrive/internal/logging"
	"github.com/Hjmep/UniDrive/internal/nav"
	"github.com/Hjmep/UniDrive/internal/store"
)

// DriveService is the remote surface the coordinator drives. The real
// implementation is drive.Client; tests substitute fakes.
type DriveService interface {
	ListFiles(ctx context.Context) ([]drive.FileMetadata, error)
	CopyFile(ctx context.Context, fileID string) (string, error)
	CreatePermission(ctx context.Context, fileID, email, role string, notify bool) (string, error)
	TransferOwnership(ctx context.Context, fileID, permissionID string) error
	CreateFile(ctx context.Context, mimeType, name string) (string, error)
}

// ServiceFactory builds a DriveService from freshly derived credentials
// for the given account email.
type ServiceFactory func(ctx context.Context, email string, creds auth.Credentials) (DriveService, error)

// NameRequest models the outcome of asking the user for a new file's
// name. Cancellation is distinct from an empty name: a cancelled
// request makes no remote call at all, an empty name defers naming to
// the remote service.
type NameRequest struct {
	name      string
	cancelled bool
}

// Name requests creation with the given name; empty means remote
// default naming.
func Name(s string) NameRequest {
	return NameRequest{name: s}
}

// CancelledName marks name entry as aborted by the user.
func CancelledName() NameRequest {
	return NameRequest{cancelled: true}
}

// RefreshReport aggregates the independent outcomes of RefreshAll.
type RefreshReport struct {
	Succeeded []int64
	Failed    []*RefreshError
}

// Coordinator orchestrates the cross-cutting operations that touch
// authorization, the account store and the derived navigation state
// together. Authorization is re-resolved before every remote call.
type Coordinator struct {
	store      *store.Store
	navs       *nav.Registry
	gate       auth.Authorizer
	newService ServiceFactory
	logger     *slog.Logger
	metrics    *instrumentation.Metrics
}

// New wires a coordinator over its collaborators and registers the
// store invalidation hook with the navigator registry.
func New(s *store.Store, navs *nav.Registry, gate auth.Authorizer, factory ServiceFactory, logger *slog.Logger, metrics *instrumentation.Metrics) *Coordinator {
	if logger == nil {
		logger = slog.Default()
	}
	s.OnChange(navs.HandleChange)
	return &Coordinator{
		store:      s,
		navs:       navs,
		gate:       gate,
		newService: factory,
		logger:     logger,
		metrics:    metrics,
	}
}

// Store exposes the account store for read access by the outer surface.
func (c *Coordinator) Store() *store.Store {
	return c.store
}

// Navigator returns the navigation state for an account, creating it
// over the account's current listing when absent.
func (c *Coordinator) Navigator(accountID int64) (*nav.Navigator, error) {
	acct, err := c.store.Account(accountID)
	if err != nil {
		return nil, err
	}
	return c.navs.ForAccount(acct.ID, acct.Files), nil
}

// Identity decodes the account's stored ID token. A malformed token
// degrades to an error the caller uses to suppress display.
func (c *Coordinator) Identity(accountID int64) (identity.Identity, error) {
	acct, err := c.store.Account(accountID)
	if err != nil {
		return identity.Identity{}, err
	}
	return identity.Decode(acct.IDToken)
}

// SignIn links a new account through an interactive authorization and
// performs its initial refresh. The interactive flow may require user
// consent; that error passes through unchanged.
func (c *Coordinator) SignIn(ctx context.Context) (int64, error) {
	creds, err := c.gate.Authorize(ctx, auth.Request{
		Scopes: auth.DriveScopes,
		Prompt: auth.PromptSelectAccount,
	})
	c.metrics.RecordAuthAttempt(ctx, string(auth.PromptSelectAccount), instrumentation.Result(err))
	if err != nil {
		return 0, err
	}

	id := c.store.AddAccount(creds.AccessToken, creds.IDToken, creds.Code)
	c.metrics.AddLinkedAccounts(ctx, 1)

	if err := c.RefreshAccount(ctx, id); err != nil {
		// The account stays linked; the caller sees why the first
		// listing is missing.
		return id, err
	}
	return id, nil
}

// Link registers an already-authorized account (credentials obtained
// out of band) and performs its initial refresh.
func (c *Coordinator) Link(ctx context.Context, creds auth.Credentials) (int64, error) {
	id := c.store.AddAccount(creds.AccessToken, creds.IDToken, creds.Code)
	c.metrics.AddLinkedAccounts(ctx, 1)

	if err := c.RefreshAccount(ctx, id); err != nil {
		return id, err
	}
	return id, nil
}

// SignOut unlinks an account and discards its navigation state. The
// confirmation dialog is the caller's concern. Signing out an unknown
// account is a no-op; signing out mid-refresh is refused.
func (c *Coordinator) SignOut(ctx context.Context, accountID int64) error {
	acct, err := c.store.Account(accountID)
	if err != nil {
		return nil // already gone, idempotent
	}
	if acct.Status == store.StatusLoading {
		return ErrAccountBusy
	}

	c.store.RemoveAccount(accountID)
	c.metrics.AddLinkedAccounts(ctx, -1)
	return nil
}

// silentService re-derives silent authorization for the account and
// builds a Drive service from the fresh credentials.
func (c *Coordinator) silentService(ctx context.Context, acct store.Account) (DriveService, string, error) {
	id, err := identity.Decode(acct.IDToken)
	if err != nil {
		return nil, "", fmt.Errorf("cannot derive login hint: %w", err)
	}

	creds, err := c.gate.Authorize(ctx, auth.Request{
		Scopes:    auth.DriveScopes,
		Prompt:    auth.PromptNone,
		LoginHint: id.Email,
	})
	c.metrics.RecordAuthAttempt(ctx, string(auth.PromptNone), instrumentation.Result(err))
	if err != nil {
		return nil, "", err
	}

	svc, err := c.newService(ctx, id.Email, *creds)
	if err != nil {
		return nil, "", err
	}
	return svc, id.Email, nil
}

// RefreshAccount re-fetches an account's complete file listing and
// swaps it into the store, which re-classifies the folder tree. On any
// failure the previous files are left untouched, the account stays
// linked and its status flips to error.
func (c *Coordinator) RefreshAccount(ctx context.Context, accountID int64) error {
	logger := logging.WithOperation(c.logger, "refresh")

	acct, err := c.store.Account(accountID)
	if err != nil {
		return err
	}

	if err := c.store.SetStatus(accountID, store.StatusLoading); err != nil {
		return err
	}

	started := time.Now()
	files, err := c.fetchListing(ctx, acct)
	c.metrics.RecordDriveOperation(ctx, "list", instrumentation.Result(err), time.Since(started))
	if err != nil {
		// Leave the stale listing in place rather than degrade to an
		// empty account.
		_ = c.store.SetStatus(accountID, store.StatusError)
		logger.Error("account refresh failed", logging.AccountID(accountID), logging.Err(err))
		return &RefreshError{AccountID: accountID, Err: err}
	}

	if err := c.store.ReplaceFiles(accountID, files); err != nil {
		// The account was removed while the fetch was in flight.
		logger.Warn("account vanished during refresh", logging.AccountID(accountID))
		return &RefreshError{AccountID: accountID, Err: err}
	}

	logger.Info("account refreshed",
		logging.AccountID(accountID),
		slog.Int("files", len(files)),
		logging.Status(logging.StatusSuccess))
	return nil
}

func (c *Coordinator) fetchListing(ctx context.Context, acct store.Account) ([]drive.FileMetadata, error) {
	svc, _, err := c.silentService(ctx, acct)
	if err != nil {
		return nil, err
	}
	return svc.ListFiles(ctx)
}

// RefreshAll refreshes every linked account. Each account's outcome is
// independent: one failure never aborts the others. All outcomes are
// collected and reported together.
func (c *Coordinator) RefreshAll(ctx context.Context) RefreshReport {
	accounts := c.store.Accounts()

	var (
		mu     sync.Mutex
		report RefreshReport
		wg     sync.WaitGroup
	)

	for _, acct := range accounts {
		wg.Add(1)
		go func(id int64) {
			defer wg.Done()
			err := c.RefreshAccount(ctx, id)

			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				if re, ok := err.(*RefreshError); ok {
					report.Failed = append(report.Failed, re)
				} else {
					report.Failed = append(report.Failed, &RefreshError{AccountID: id, Err: err})
				}
				return
			}
			report.Succeeded = append(report.Succeeded, id)
		}(acct.ID)
	}
	wg.Wait()

	sort.Slice(report.Succeeded, func(i, j int) bool { return report.Succeeded[i] < report.Succeeded[j] })
	sort.Slice(report.Failed, func(i, j int) bool { return report.Failed[i].AccountID < report.Failed[j].AccountID })

	c.logger.Info("refreshed all accounts",
		slog.Int("succeeded", len(report.Succeeded)),
		slog.Int("failed", len(report.Failed)))
	return report
}

// CopyFile issues a server-side copy of a file in the account's Drive
// and refreshes the account so the new file shows up. Nothing is
// mutated locally before the remote copy succeeded.
func (c *Coordinator) CopyFile(ctx context.Context, accountID int64, fileID string) error {
	acct, err := c.store.Account(accountID)
	if err != nil {
		return err
	}

	svc, email, err := c.silentService(ctx, acct)
	if err != nil {
		return &OperationError{Op: "copy", AccountID: accountID, Err: err}
	}

	started := time.Now()
	newID, err := svc.CopyFile(ctx, fileID)
	c.metrics.RecordDriveOperation(ctx, "copy", instrumentation.Result(err), time.Since(started))
	if err != nil {
		return &OperationError{Op: "copy", AccountID: accountID, Err: err}
	}

	c.logger.Info("file copied",
		logging.AccountID(accountID),
		logging.File(fileID),
		slog.String("new_file_id", newID),
		logging.UserHash(email))

	return c.RefreshAccount(ctx, accountID)
}

// ShareFile grants writer access on a file to the given email and sends
// a notification. Repeated shares are not deduplicated here; that is
// the remote layer's discretion.
func (c *Coordinator) ShareFile(ctx context.Context, accountID int64, fileID, granteeEmail string) error {
	acct, err := c.store.Account(accountID)
	if err != nil {
		return err
	}
	id, err := identity.Decode(acct.IDToken)
	if err != nil {
		return &OperationError{Op: "share", AccountID: accountID, Err: err}
	}

	share := auth.LoadAuth(c.gate, id.Email, func(ctx context.Context, creds auth.Credentials, fileID string) error {
		svc, err := c.newService(ctx, id.Email, creds)
		if err != nil {
			return err
		}

		started := time.Now()
		_, err = svc.CreatePermission(ctx, fileID, granteeEmail, drive.RoleWriter, true)
		c.metrics.RecordDriveOperation(ctx, "share", instrumentation.Result(err), time.Since(started))
		return err
	})

	if err := share(ctx, fileID); err != nil {
		return &OperationError{Op: "share", AccountID: accountID, Err: err}
	}

	c.logger.Info("file shared",
		logging.AccountID(accountID),
		logging.File(fileID),
		logging.UserHash(granteeEmail))
	return nil
}

// MoveFileExternal transfers a file to another identity in two phases:
// first a writer permission for the grantee, then an ownership transfer
// using the permission id from phase one. When phase one fails, phase
// two never runs. When phase two fails, the grantee keeps an extra
// writer permission while ownership is unchanged; that inconsistency is
// reported as an OwnershipError, never silently retried.
func (c *Coordinator) MoveFileExternal(ctx context.Context, accountID int64, fileID, granteeEmail string) error {
	acct, err := c.store.Account(accountID)
	if err != nil {
		return err
	}
	id, err := identity.Decode(acct.IDToken)
	if err != nil {
		return &OperationError{Op: "move", AccountID: accountID, Err: err}
	}

	move := auth.LoadAuth(c.gate, id.Email, func(ctx context.Context, creds auth.Credentials, fileID string) error {
		svc, err := c.newService(ctx, id.Email, creds)
		if err != nil {
			return err
		}

		started := time.Now()
		permID, err := svc.CreatePermission(ctx, fileID, granteeEmail, drive.RoleWriter, false)
		c.metrics.RecordDriveOperation(ctx, "move_grant", instrumentation.Result(err), time.Since(started))
		if err != nil {
			return &OperationError{Op: "move", AccountID: accountID, Err: err}
		}

		started = time.Now()
		err = svc.TransferOwnership(ctx, fileID, permID)
		c.metrics.RecordDriveOperation(ctx, "move_transfer", instrumentation.Result(err), time.Since(started))
		if err != nil {
			ownErr := &OwnershipError{FileID: fileID, PermissionID: permID, Err: err}
			c.logger.Error("external move left extra writer permission",
				logging.AccountID(accountID),
				logging.File(fileID),
				slog.String("permission_id", permID),
				logging.Err(err))
			return ownErr
		}
		return nil
	})

	if err := move(ctx, fileID); err != nil {
		return err
	}

	c.logger.Info("file moved externally",
		logging.AccountID(accountID),
		logging.File(fileID),
		logging.UserHash(granteeEmail))
	return nil
}

// CreateFile creates a new file of the given MIME type in the account's
// Drive. A cancelled name request aborts before any remote call; an
// empty name defers naming to the remote service.
func (c *Coordinator) CreateFile(ctx context.Context, accountID int64, mimeType string, name NameRequest) (string, error) {
	if name.cancelled {
		return "", ErrCreateCancelled
	}

	acct, err := c.store.Account(accountID)
	if err != nil {
		return "", err
	}
	id, err := identity.Decode(acct.IDToken)
	if err != nil {
		return "", &OperationError{Op: "create", AccountID: accountID, Err: err}
	}

	var fileID string
	create := auth.LoadAuth(c.gate, id.Email, func(ctx context.Context, creds auth.Credentials, mimeType string) error {
		svc, err := c.newService(ctx, id.Email, creds)
		if err != nil {
			return err
		}

		started := time.Now()
		fileID, err = svc.CreateFile(ctx, mimeType, name.name)
		c.metrics.RecordDriveOperation(ctx, "create", instrumentation.Result(err), time.Since(started))
		return err
	})

	if err := create(ctx, mimeType); err != nil {
		return "", &OperationError{Op: "create", AccountID: accountID, Err: err}
	}

	c.logger.Info("file created",
		logging.AccountID(accountID),
		logging.File(fileID),
		slog.String("mime_type", mimeType))
	return fileID, nil
}
