package filestorage

import (
	"mime/multipart"
)

// FileStorage defines the interface for storing course material blobs. The
// registry core never sees file bytes; it only keeps the reference returned
// by SaveFile.
type FileStorage interface {
	// SaveFile saves an uploaded file and returns its reference URL
	SaveFile(fileHeader *multipart.FileHeader) (string, error)

	// SaveFileWithPath saves an uploaded file under a subdirectory
	SaveFileWithPath(fileHeader *multipart.FileHeader, path string) (string, error)

	// DeleteFile removes a file from storage by its reference
	DeleteFile(fileRef string) error
}
