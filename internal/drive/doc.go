// Package drive provides a thin client for the subset of the Google
// Drive API that the aggregation engine uses.
//
// Each Client instance is bound to one linked account. The operations
// mirror the engine's remote surface:
//   - Listing the complete non-trashed file metadata set
//   - Server-side file copy
//   - Creating permissions (sharing)
//   - Transferring ownership via a permission update
//   - Creating new empty files
//
// The listing requests exactly the fields the classification engine
// consumes (id, name, mimeType, starred, iconLink, shared, webViewLink,
// parents); everything else is left to the remote service.
package drive
