package drive

import (
	"context"
	"fmt"

	"golang.org/x/oauth2"
	drive "google.golang.org/api/drive/v3"
	"google.golang.org/api/option"
)

const (
	// FolderMimeType is the MIME type for Google Drive folders
	FolderMimeType = "application/vnd.google-apps.folder"

	// RoleWriter grants edit access when creating a permission
	RoleWriter = "writer"

	// RoleOwner is the role used when transferring ownership
	RoleOwner = "owner"
)

// listFields is the exact field mask requested from files.list. The
// aggregation engine classifies files purely from these fields.
const listFields = "nextPageToken, files(id, name, mimeType, starred, iconLink, shared, webViewLink, parents)"

// Client wraps the Google Drive API service for a single account.
type Client struct {
	service *drive.Service
	account string // email of the account this client is bound to
}

// Account returns the account email this client is associated with.
func (c *Client) Account() string {
	return c.account
}

// NewClient creates a Drive client authenticated by the given token
// source for the named account.
func NewClient(ctx context.Context, account string, ts oauth2.TokenSource) (*Client, error) {
	service, err := drive.NewService(ctx, option.WithTokenSource(ts))
	if err != nil {
		return nil, fmt.Errorf("failed to create Drive service: %w", err)
	}

	return &Client{
		service: service,
		account: account,
	}, nil
}

// ListFiles fetches the account's complete non-trashed file listing,
// following nextPageToken until exhausted. Ordering within a page is
// preserved as returned by the API.
func (c *Client) ListFiles(ctx context.Context) ([]FileMetadata, error) {
	var files []FileMetadata
	pageToken := ""

	for {
		call := c.service.Files.List().
			Context(ctx).
			Q("trashed=false").
			Fields(listFields)

		if pageToken != "" {
			call = call.PageToken(pageToken)
		}

		fileList, err := call.Do()
		if err != nil {
			return nil, fmt.Errorf("failed to list files: %w", err)
		}

		for _, f := range fileList.Files {
			files = append(files, convertToFileMetadata(f))
		}

		pageToken = fileList.NextPageToken
		if pageToken == "" {
			return files, nil
		}
	}
}

// CopyFile creates a server-side copy of a file and returns the new
// file's id.
func (c *Client) CopyFile(ctx context.Context, fileID string) (string, error) {
	if fileID == "" {
		return "", fmt.Errorf("fileID is required")
	}

	copied, err := c.service.Files.Copy(fileID, &drive.File{}).
		Context(ctx).
		Fields("id").
		Do()
	if err != nil {
		return "", fmt.Errorf("failed to copy file %s: %w", fileID, err)
	}

	return copied.Id, nil
}

// CreatePermission grants role to the given email address on a file and
// returns the created permission's id. When notify is true the grantee
// receives a notification email.
func (c *Client) CreatePermission(ctx context.Context, fileID, email, role string, notify bool) (string, error) {
	if fileID == "" {
		return "", fmt.Errorf("fileID is required")
	}
	if email == "" {
		return "", fmt.Errorf("email is required")
	}

	permission := &drive.Permission{
		Type:         "user",
		Role:         role,
		EmailAddress: email,
	}

	call := c.service.Permissions.Create(fileID, permission).
		Context(ctx).
		Fields("id")

	call = call.SendNotificationEmail(notify)
	if notify {
		call = call.EmailMessage("Share Success!")
	}

	created, err := call.Do()
	if err != nil {
		return "", fmt.Errorf("failed to create permission on file %s: %w", fileID, err)
	}

	return created.Id, nil
}

// TransferOwnership updates an existing permission to the owner role,
// transferring ownership of the file to that grantee.
func (c *Client) TransferOwnership(ctx context.Context, fileID, permissionID string) error {
	if fileID == "" {
		return fmt.Errorf("fileID is required")
	}
	if permissionID == "" {
		return fmt.Errorf("permissionID is required")
	}

	_, err := c.service.Permissions.Update(fileID, permissionID, &drive.Permission{Role: RoleOwner}).
		Context(ctx).
		TransferOwnership(true).
		Do()
	if err != nil {
		return fmt.Errorf("failed to transfer ownership of file %s: %w", fileID, err)
	}

	return nil
}

// CreateFile creates a new empty file of the given MIME type. An empty
// name lets Drive apply its default naming.
func (c *Client) CreateFile(ctx context.Context, mimeType, name string) (string, error) {
	if mimeType == "" {
		return "", fmt.Errorf("mimeType is required")
	}

	file := &drive.File{
		MimeType: mimeType,
		Name:     name,
	}

	created, err := c.service.Files.Create(file).
		Context(ctx).
		Fields("id").
		Do()
	if err != nil {
		return "", fmt.Errorf("failed to create file: %w", err)
	}

	return created.Id, nil
}

// convertToFileMetadata converts a Drive API File to our FileMetadata type
func convertToFileMetadata(f *drive.File) FileMetadata {
	return FileMetadata{
		ID:          f.Id,
		Name:        f.Name,
		MimeType:    f.MimeType,
		Starred:     f.Starred,
		IconLink:    f.IconLink,
		Shared:      f.Shared,
		WebViewLink: f.WebViewLink,
		Parents:     f.Parents,
	}
}
