package drive

import (
	"testing"

	drive "google.golang.org/api/drive/v3"
)

func TestConvertToFileMetadata(t *testing.T) {
	driveFile := &drive.File{
		Id:          "file123",
		Name:        "report.pdf",
		MimeType:    "application/pdf",
		Starred:     true,
		IconLink:    "https://drive-thirdparty.googleusercontent.com/16/type/application/pdf",
		Shared:      true,
		WebViewLink: "https://drive.google.com/file/d/file123/view",
		Parents:     []string{"parent1", "parent2"},
	}

	meta := convertToFileMetadata(driveFile)

	if meta.ID != "file123" {
		t.Errorf("Expected ID file123, got %s", meta.ID)
	}
	if meta.Name != "report.pdf" {
		t.Errorf("Expected Name report.pdf, got %s", meta.Name)
	}
	if meta.MimeType != "application/pdf" {
		t.Errorf("Expected MimeType application/pdf, got %s", meta.MimeType)
	}
	if !meta.Starred {
		t.Error("Expected Starred to be true")
	}
	if meta.IconLink == "" {
		t.Error("Expected IconLink to be set")
	}
	if !meta.Shared {
		t.Error("Expected Shared to be true")
	}
	if meta.WebViewLink != "https://drive.google.com/file/d/file123/view" {
		t.Errorf("Expected WebViewLink, got %s", meta.WebViewLink)
	}
	if len(meta.Parents) != 2 || meta.Parents[0] != "parent1" || meta.Parents[1] != "parent2" {
		t.Errorf("Expected parents [parent1, parent2], got %v", meta.Parents)
	}
}

func TestConvertToFileMetadataMinimal(t *testing.T) {
	meta := convertToFileMetadata(&drive.File{
		Id:       "folder1",
		Name:     "Documents",
		MimeType: FolderMimeType,
	})

	if meta.ID != "folder1" {
		t.Errorf("Expected ID folder1, got %s", meta.ID)
	}
	if len(meta.Parents) != 0 {
		t.Errorf("Expected no parents, got %v", meta.Parents)
	}
	if !meta.IsFolder() {
		t.Error("Expected IsFolder to be true for folder MIME type")
	}
}

func TestIsFolder(t *testing.T) {
	file := FileMetadata{ID: "f1", MimeType: "image/png"}
	if file.IsFolder() {
		t.Error("Expected IsFolder to be false for image/png")
	}

	folder := FileMetadata{ID: "f2", MimeType: FolderMimeType}
	if !folder.IsFolder() {
		t.Error("Expected IsFolder to be true for folder MIME type")
	}
}
