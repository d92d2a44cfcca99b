package drive

// FileMetadata is an immutable snapshot of one file or folder as returned
// by the Drive files.list endpoint. The whole set for an account is
// replaced wholesale on every refresh; nothing is patched incrementally.
type FileMetadata struct {
	// ID is the Drive-assigned identifier, unique within an account
	ID string `json:"id"`

	// Name is the display name of the file
	Name string `json:"name"`

	// MimeType is the MIME type of the file; folders use FolderMimeType
	MimeType string `json:"mimeType"`

	// Starred indicates whether the user starred the file
	Starred bool `json:"starred"`

	// IconLink is a link to a static icon for the file's type
	IconLink string `json:"iconLink,omitempty"`

	// Shared indicates whether the file is shared
	Shared bool `json:"shared"`

	// WebViewLink opens the file in the relevant Google editor or viewer
	WebViewLink string `json:"webViewLink,omitempty"`

	// Parents are the IDs of the parent folders; absent means root
	Parents []string `json:"parents,omitempty"`
}

// IsFolder reports whether the entry is a Drive folder.
func (f FileMetadata) IsFolder() bool {
	return f.MimeType == FolderMimeType
}
