package handlers

import (
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"

	"github.com/agentstation/factmerge"
	"github.com/agentstation/factmerge/internal/server/cache"
	"github.com/agentstation/factmerge/internal/server/response"
	"github.com/agentstation/factmerge/pkg/logging"
)

const (
	// FilesField is the multipart form key holding the uploads.
	FilesField = "files"

	// maxMemory is how much of a multipart form is held in memory before
	// parts spill to temporary files.
	maxMemory = 32 << 20
)

// HandleMerge handles POST {prefix}/merge.
// The request is a multipart form with one or more files under "files".
// Identical uploads within the cache TTL are answered from the cache.
func (h *Handlers) HandleMerge(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		response.MethodNotAllowed(w, r.Method)
		return
	}
	logger := logging.FromContext(r.Context())

	r.Body = http.MaxBytesReader(w, r.Body, h.limits.MaxRequestSize)
	if err := r.ParseMultipartForm(maxMemory); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			response.PayloadTooLarge(w, "Upload too large", err.Error())
			return
		}
		response.BadRequest(w, "Invalid multipart form", err.Error())
		return
	}
	defer func() {
		if err := r.MultipartForm.RemoveAll(); err != nil {
			logger.Warn().Err(err).Msg("Failed to remove temporary upload files")
		}
	}()

	uploads := r.MultipartForm.File[FilesField]
	if len(uploads) == 0 {
		response.BadRequest(w, "No files uploaded", "")
		return
	}
	if len(uploads) > h.limits.MaxFiles {
		response.BadRequest(w, "Too many files",
			fmt.Sprintf("%d files uploaded, at most %d allowed", len(uploads), h.limits.MaxFiles))
		return
	}
	for _, u := range uploads {
		if u.Size > h.limits.MaxFileSize {
			response.PayloadTooLarge(w, "File too large",
				fmt.Sprintf("%s is %d bytes, at most %d allowed", u.Filename, u.Size, h.limits.MaxFileSize))
			return
		}
	}

	key, err := uploadKey(uploads)
	if err != nil {
		logger.Error().Err(err).Msg("Failed to read uploads")
		response.InternalError(w, err)
		return
	}
	if cached, ok := h.cache.Get(key); ok {
		logger.Debug().Str("key", key).Msg("Serving merge result from cache")
		response.OK(w, cached)
		return
	}

	merger, err := h.app.Merger()
	if err != nil {
		logger.Error().Err(err).Msg("Failed to create merger")
		response.InternalError(w, err)
		return
	}

	ctx := logging.WithField(r.Context(), "uploads", len(uploads))
	result, err := merger.Merge(ctx, uploadFiles(uploads))
	if err != nil {
		logger.Error().Err(err).Int("files", len(uploads)).Msg("Merge failed")
		response.ErrorFromType(w, err)
		return
	}

	h.cache.Set(key, result)
	logger.Info().
		Int("files", result.TotalFilesProcessed).
		Int("facts", result.TotalFactsExtracted).
		Int("merged", result.TotalFactsMerged).
		Int("conflicts", len(result.Conflicts)).
		Msg("Merged uploads")

	response.OK(w, result)
}

// uploadFiles adapts multipart uploads to merge inputs, keeping their order.
func uploadFiles(uploads []*multipart.FileHeader) []factmerge.File {
	files := make([]factmerge.File, len(uploads))
	for i, u := range uploads {
		files[i] = factmerge.File{
			Name: u.Filename,
			Open: func() (io.ReadCloser, error) { return u.Open() },
		}
	}
	return files
}

// uploadKey digests the names and contents of the uploads in order.
func uploadKey(uploads []*multipart.FileHeader) (string, error) {
	key := cache.NewKey()
	for _, u := range uploads {
		f, err := u.Open()
		if err != nil {
			return "", err
		}
		err = key.Add(u.Filename, f)
		_ = f.Close()
		if err != nil {
			return "", err
		}
	}
	return key.String(), nil
}
