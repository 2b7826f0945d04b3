package api

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"github.com/dmitrymomot/filesmanager/handler"
	"github.com/dmitrymomot/filesmanager/pkg/file"
	"github.com/dmitrymomot/filesmanager/pkg/logger"
	"github.com/dmitrymomot/filesmanager/pkg/session"
	"github.com/dmitrymomot/filesmanager/pkg/thumbnail"
	"github.com/dmitrymomot/filesmanager/svc/jobs"
	"github.com/dmitrymomot/filesmanager/svc/repository"
)

// parentRef accepts a parent id sent either as a string or as the number 0.
type parentRef string

func (p *parentRef) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*p = ""
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*p = parentRef(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return err
	}
	*p = parentRef(n.String())
	return nil
}

type createFileRequest struct {
	Name     string    `json:"name"`
	Type     string    `json:"type"`
	ParentID parentRef `json:"parentId"`
	IsPublic bool      `json:"isPublic"`
	Data     string    `json:"data"`
}

type listFilesRequest struct {
	ParentID string `query:"parentId"`
	Page     int    `query:"page"`
}

type fileIDRequest struct {
	ID string `path:"id"`
}

type fileDataRequest struct {
	ID   string `path:"id"`
	Size string `query:"size"`
}

func currentUser(ctx handler.Context) string {
	id, _ := session.UserIDFromContext(ctx)
	return id
}

func (a *api) postFile(ctx handler.Context, req createFileRequest) handler.Response {
	userID := currentUser(ctx)

	name := strings.TrimSpace(req.Name)
	if name == "" {
		return handler.JSONError(ErrMissingName)
	}
	fileType := repository.FileType(req.Type)
	if !fileType.Valid() {
		return handler.JSONError(ErrMissingType)
	}
	if req.Data == "" && fileType != repository.FileTypeFolder {
		return handler.JSONError(ErrMissingData)
	}

	parentID := string(req.ParentID)
	if parentID == "" {
		parentID = repository.RootParentID
	}
	if parentID != repository.RootParentID {
		parent, found, err := a.repo.FindFileByID(ctx, parentID, userID)
		if err != nil {
			return a.failure(ctx, "find parent", err)
		}
		if !found {
			return handler.JSONError(ErrParentNotFound)
		}
		if !parent.IsFolder() {
			return handler.JSONError(ErrParentNotFolder)
		}
	}

	f := &repository.File{
		UserID:   userID,
		Name:     name,
		Type:     fileType,
		IsPublic: req.IsPublic,
		ParentID: parentID,
	}

	if fileType != repository.FileTypeFolder {
		content, err := base64.StdEncoding.DecodeString(req.Data)
		if err != nil {
			return handler.JSONError(ErrInvalidData)
		}
		f.StoragePath = uuid.NewString()
		if err := a.blobs.Write(ctx, f.StoragePath, content); err != nil {
			return a.failure(ctx, "write file content", err)
		}
	}

	if err := a.repo.CreateFile(ctx, f); err != nil {
		if f.StoragePath != "" {
			if derr := a.blobs.Delete(ctx, f.StoragePath); derr != nil {
				a.logger.ErrorContext(ctx, "failed to remove orphaned file content",
					logger.Component("api"),
					slog.String("storage_path", f.StoragePath),
					logger.Error(derr),
				)
			}
		}
		return a.failure(ctx, "create file", err)
	}

	if fileType == repository.FileTypeImage {
		if _, err := a.jobs.Enqueue(ctx, jobs.TypeThumbnail, jobs.ThumbnailPayload(f.ID, userID)); err != nil {
			a.logger.ErrorContext(ctx, "failed to enqueue thumbnail job",
				logger.Component("api"),
				logger.FileID(f.ID),
				logger.Error(err),
			)
		}
	}

	return handler.JSON(f, handler.WithJSONStatus(http.StatusCreated))
}

func (a *api) getFile(ctx handler.Context, req fileIDRequest) handler.Response {
	f, found, err := a.repo.FindFileByID(ctx, req.ID, currentUser(ctx))
	if err != nil {
		return a.failure(ctx, "find file", err)
	}
	if !found {
		return handler.JSONError(handler.ErrNotFound)
	}
	return handler.JSON(f)
}

func (a *api) listFiles(ctx handler.Context, req listFilesRequest) handler.Response {
	parentID := req.ParentID
	if parentID == "" {
		parentID = repository.RootParentID
	}
	page := max(req.Page, 0)

	files, err := a.repo.ListFiles(ctx, currentUser(ctx), parentID, page)
	if err != nil {
		return a.failure(ctx, "list files", err)
	}
	if files == nil {
		files = []repository.File{}
	}
	return handler.JSON(files)
}

func (a *api) publish(ctx handler.Context, req fileIDRequest) handler.Response {
	return a.setPublic(ctx, req.ID, true)
}

func (a *api) unpublish(ctx handler.Context, req fileIDRequest) handler.Response {
	return a.setPublic(ctx, req.ID, false)
}

func (a *api) setPublic(ctx handler.Context, id string, public bool) handler.Response {
	f, found, err := a.repo.SetFilePublic(ctx, id, currentUser(ctx), public)
	if err != nil {
		return a.failure(ctx, "set file visibility", err)
	}
	if !found {
		return handler.JSONError(handler.ErrNotFound)
	}
	return handler.JSON(f)
}

// getFileData serves the content of a public file to anyone and of a private
// file to its owner only; everyone else gets the same 404.
func (a *api) getFileData(ctx handler.Context, req fileDataRequest) handler.Response {
	f, found, err := a.repo.FindFile(ctx, req.ID)
	if err != nil {
		return a.failure(ctx, "find file", err)
	}
	if !found || (!f.IsPublic && f.UserID != currentUser(ctx)) {
		return handler.JSONError(handler.ErrNotFound)
	}
	if f.IsFolder() {
		return handler.JSONError(ErrFolderHasNoData)
	}

	path := f.StoragePath
	if req.Size != "" {
		width, err := strconv.Atoi(req.Size)
		if err != nil || !thumbnail.IsValidWidth(width) {
			return handler.JSONError(ErrInvalidSize)
		}
		path = thumbnail.Path(f.StoragePath, width)
	}

	content, err := a.blobs.Read(ctx, path)
	if errors.Is(err, file.ErrFileNotFound) {
		return handler.JSONError(handler.ErrNotFound)
	}
	if err != nil {
		return a.failure(ctx, "read file content", err)
	}

	contentType := file.MIMETypeByName(f.Name, content)
	if req.Size != "" {
		contentType = file.DetectMIMEType(content)
	}
	return handler.Blob(content, contentType)
}
