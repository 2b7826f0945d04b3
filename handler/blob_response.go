package handler

import (
	"net/http"
	"strconv"
)

type blobResponse struct {
	data        []byte
	contentType string
}

func (b blobResponse) Render(w http.ResponseWriter, r *http.Request) error {
	w.Header().Set("Content-Type", b.contentType)
	w.Header().Set("Content-Length", strconv.Itoa(len(b.data)))
	w.WriteHeader(http.StatusOK)
	_, err := w.Write(b.data)
	return err
}

// Blob writes raw bytes with the given content type.
// An empty content type falls back to application/octet-stream.
func Blob(data []byte, contentType string) Response {
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	return blobResponse{data: data, contentType: contentType}
}
