package jobs

import (
	"context"
	"errors"

	"github.com/dmitrymomot/filesmanager/pkg/queue"
	"github.com/dmitrymomot/filesmanager/svc/repository"
)

const (
	TypeThumbnail queue.JobType = "thumbnail"
	TypeWelcome   queue.JobType = "welcome"
)

// Payload field names.
const (
	FieldFileID = "fileId"
	FieldUserID = "userId"
)

var (
	// ErrNotFound is returned when the referenced user or file does not exist
	// or is not owned by the user named in the payload.
	ErrNotFound = errors.New("not found")
	// ErrThumbnailFailed is returned when at least one width could not be written.
	ErrThumbnailFailed = errors.New("thumbnail generation failed")
)

// Schema lists the required payload fields of every job type.
func Schema() queue.Schema {
	return queue.Schema{
		TypeThumbnail: {FieldFileID, FieldUserID},
		TypeWelcome:   {FieldUserID},
	}
}

// ThumbnailPayload builds the payload of a thumbnail job.
func ThumbnailPayload(fileID, userID string) queue.Payload {
	return queue.Payload{FieldFileID: fileID, FieldUserID: userID}
}

// WelcomePayload builds the payload of a welcome job.
func WelcomePayload(userID string) queue.Payload {
	return queue.Payload{FieldUserID: userID}
}

// FileFinder resolves a file scoped to its owner.
type FileFinder interface {
	FindFileByID(ctx context.Context, id, ownerID string) (*repository.File, bool, error)
}

// UserFinder resolves a user by id.
type UserFinder interface {
	FindUserByID(ctx context.Context, id string) (*repository.User, bool, error)
}
