package repository

import "context"

// Repository is the persistence contract used by the API and job handlers.
type Repository interface {
	CreateUser(ctx context.Context, email, passwordHash string) (*User, error)
	FindUserByEmail(ctx context.Context, email string) (*User, bool, error)
	FindUserByID(ctx context.Context, id string) (*User, bool, error)

	// CreateFile assigns f.ID and f.CreatedAt and stores the record.
	CreateFile(ctx context.Context, f *File) error
	// FindFileByID returns the file only when it belongs to ownerID.
	FindFileByID(ctx context.Context, id, ownerID string) (*File, bool, error)
	// FindFile returns the file regardless of owner.
	FindFile(ctx context.Context, id string) (*File, bool, error)
	// ListFiles returns page (0-based) of the owner's files under parentID.
	ListFiles(ctx context.Context, ownerID, parentID string, page int) ([]File, error)
	// SetFilePublic updates the visibility of an owned file.
	SetFilePublic(ctx context.Context, id, ownerID string, public bool) (*File, bool, error)

	CountUsers(ctx context.Context) (int64, error)
	CountFiles(ctx context.Context) (int64, error)
	Ping(ctx context.Context) error
}

func validateFile(f *File) error {
	if f == nil || f.UserID == "" || f.Name == "" || !f.Type.Valid() {
		return ErrInvalidFile
	}
	if f.ParentID == "" {
		f.ParentID = RootParentID
	}
	return nil
}
