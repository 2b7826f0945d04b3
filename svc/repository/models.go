package repository

import "time"

// FileType is the kind of a file record.
type FileType string

const (
	FileTypeFolder FileType = "folder"
	FileTypeFile   FileType = "file"
	FileTypeImage  FileType = "image"
)

// Valid reports whether t is a known file type.
func (t FileType) Valid() bool {
	switch t {
	case FileTypeFolder, FileTypeFile, FileTypeImage:
		return true
	}
	return false
}

// RootParentID is the parent id of top-level files.
const RootParentID = "0"

// PageSize is the number of files returned per ListFiles page.
const PageSize = 20

// User is a registered account.
type User struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"-"`
}

// File is the metadata of an uploaded file or folder.
// StoragePath is the blob key of the content; folders have none.
type File struct {
	ID          string    `json:"id"`
	UserID      string    `json:"userId"`
	Name        string    `json:"name"`
	Type        FileType  `json:"type"`
	IsPublic    bool      `json:"isPublic"`
	ParentID    string    `json:"parentId"`
	StoragePath string    `json:"-"`
	CreatedAt   time.Time `json:"-"`
}

// IsFolder reports whether f is a folder.
func (f File) IsFolder() bool {
	return f.Type == FileTypeFolder
}
