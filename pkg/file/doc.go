// Package file stores file contents behind a small path-addressed interface.
//
// Storage has two implementations. LocalStorage keeps files under a root
// directory and rejects any path that would resolve outside it. S3Storage keeps
// objects in a bucket through the AWS SDK v2 and classifies SDK errors into the
// sentinel errors of this package.
//
// Writes replace existing content at the same path. Callers that derive paths
// deterministically (thumbnails are stored at "<original>_<width>") get
// idempotent re-runs for free.
//
// Usage:
//
//	storage, err := file.New(ctx, cfg)
//	if err != nil {
//	    return err
//	}
//
//	if err := storage.Write(ctx, "ab/cd/1234", data); err != nil {
//	    return err
//	}
//
//	data, err := storage.Read(ctx, "ab/cd/1234")
//	if errors.Is(err, file.ErrFileNotFound) {
//	    // 404
//	}
//
// DetectMIMEType and IsImageMIMEType help decide whether an upload should
// get thumbnails.
package file
