package handlers

import (
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"shiptech/internal/middleware"
	"shiptech/internal/models"
)

// maxImageSize is the maximum allowed technology image size (5 MB).
const maxImageSize = 5 << 20

// ImageUpload handles a multipart technology image upload. The file is
// sniffed for an image MIME type, stored under
// technologies/{id}/{unix_ts}.{ext} with public-read ACL, and the public
// URL is written to the row. A previously stored image is deleted
// best-effort.
func (a *Admin) ImageUpload(w http.ResponseWriter, r *http.Request) {
	if a.storageClient == nil {
		writeError(w, http.StatusServiceUnavailable, "object storage is not configured")
		return
	}

	admin := middleware.AdminFromCtx(r.Context())

	id, err := idParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid id")
		return
	}
	tech, err := a.technologies.FindByID(id)
	if err != nil {
		slog.Error("technology lookup failed", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to load technology")
		return
	}
	if tech == nil {
		writeError(w, http.StatusNotFound, "technology not found")
		return
	}

	// Limit request body to maxImageSize + some overhead for form fields.
	r.Body = http.MaxBytesReader(w, r.Body, maxImageSize+1024)
	if err := r.ParseMultipartForm(maxImageSize); err != nil {
		writeError(w, http.StatusRequestEntityTooLarge, "file too large, maximum size is 5 MB")
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		writeError(w, http.StatusBadRequest, "no file provided")
		return
	}
	defer file.Close()

	if header.Size > maxImageSize {
		writeError(w, http.StatusRequestEntityTooLarge, "file too large, maximum size is 5 MB")
		return
	}

	// Detect content type by sniffing the first 512 bytes.
	sniffBuf := make([]byte, 512)
	n, err := file.Read(sniffBuf)
	if err != nil && err != io.EOF {
		writeError(w, http.StatusInternalServerError, "failed to read file")
		return
	}
	contentType := http.DetectContentType(sniffBuf[:n])
	if !strings.HasPrefix(contentType, "image/") {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("file type %q is not allowed", contentType))
		return
	}

	if _, err := file.Seek(0, io.SeekStart); err != nil {
		writeError(w, http.StatusInternalServerError, "failed to process file")
		return
	}

	ext := filepath.Ext(header.Filename)
	if ext == "" {
		ext = extensionFromType(contentType)
	}
	key := fmt.Sprintf("technologies/%s/%d%s", tech.ID, time.Now().Unix(), ext)

	ctx := r.Context()
	if err := a.storageClient.Upload(ctx, key, contentType, file, header.Size); err != nil {
		slog.Error("s3 upload failed", "error", err, "key", key)
		writeError(w, http.StatusInternalServerError, "failed to upload image")
		return
	}

	// Clean up the previous image (best-effort, don't fail the request).
	if tech.ImageURL != nil {
		if oldKey, ok := a.storageClient.ExtractKey(*tech.ImageURL); ok {
			if err := a.storageClient.Delete(ctx, oldKey); err != nil {
				slog.Warn("s3 old image delete failed", "error", err, "key", oldKey)
			}
		}
	}

	url := a.storageClient.FileURL(key)
	if err := a.technologies.SetImageURL(tech.ID, &url, admin.ID); err != nil {
		slog.Error("set image url failed", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to save image url")
		return
	}

	a.logChange("technologies", tech.ID, models.OpUpdate, admin, fmt.Sprintf("technology %q image updated", tech.Title))
	a.invalidateComparison(ctx)
	writeJSON(w, http.StatusOK, map[string]string{"image_url": url})
}

// ImageDelete removes a technology's image: the stored object best-effort,
// the image_url column always.
func (a *Admin) ImageDelete(w http.ResponseWriter, r *http.Request) {
	admin := middleware.AdminFromCtx(r.Context())

	id, err := idParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid id")
		return
	}
	tech, err := a.technologies.FindByID(id)
	if err != nil {
		slog.Error("technology lookup failed", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to load technology")
		return
	}
	if tech == nil {
		writeError(w, http.StatusNotFound, "technology not found")
		return
	}
	if tech.ImageURL == nil {
		writeError(w, http.StatusNotFound, "technology has no image")
		return
	}

	ctx := r.Context()
	a.deleteStoredImage(r, tech)

	if err := a.technologies.SetImageURL(tech.ID, nil, admin.ID); err != nil {
		slog.Error("clear image url failed", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to clear image url")
		return
	}

	a.logChange("technologies", tech.ID, models.OpUpdate, admin, fmt.Sprintf("technology %q image removed", tech.Title))
	a.invalidateComparison(ctx)
	writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
}

// deleteStoredImage removes the technology's stored object, if any.
// Best-effort: failures are logged and never fail the calling request.
func (a *Admin) deleteStoredImage(r *http.Request, tech *models.Technology) {
	if tech.ImageURL == nil || a.storageClient == nil {
		return
	}
	key, ok := a.storageClient.ExtractKey(*tech.ImageURL)
	if !ok {
		return
	}
	if err := a.storageClient.Delete(r.Context(), key); err != nil {
		slog.Warn("s3 image delete failed", "error", err, "key", key)
	}
}

// extensionFromType returns a file extension for common image MIME types.
func extensionFromType(contentType string) string {
	switch contentType {
	case "image/jpeg":
		return ".jpg"
	case "image/png":
		return ".png"
	case "image/gif":
		return ".gif"
	case "image/webp":
		return ".webp"
	default:
		return ""
	}
}
