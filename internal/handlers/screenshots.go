// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"bytes"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"scaffolder/internal/imaging"
	"scaffolder/internal/middleware"
	"scaffolder/internal/models"
	"scaffolder/internal/storage"
	"scaffolder/internal/store"
)

// maxScreenshotSize is the maximum allowed screenshot upload size (20 MB).
const maxScreenshotSize = 20 << 20

// allowedScreenshotTypes defines MIME types accepted for screenshot upload.
// Everything is re-encoded to WebP, so only raster formats libvips decodes
// are accepted.
var allowedScreenshotTypes = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
	"image/webp": true,
}

// Screenshots groups the marketplace screenshot handlers. Uploads are
// re-encoded into thumb and full WebP renditions and stored in the public
// bucket; metadata rows live in PostgreSQL.
type Screenshots struct {
	screenshots *store.ScreenshotStore
	templates   *store.TemplateStore
	storage     *storage.Client // nil when object storage is not configured
}

// NewScreenshots creates a new Screenshots handler group.
func NewScreenshots(screenshots *store.ScreenshotStore, templates *store.TemplateStore, storage *storage.Client) *Screenshots {
	return &Screenshots{screenshots: screenshots, templates: templates, storage: storage}
}

// Upload handles a multipart screenshot upload for a saved draft. The full
// rendition's public URL is what authors paste into publish metadata.
func (h *Screenshots) Upload(w http.ResponseWriter, r *http.Request) {
	if h.storage == nil {
		respondError(w, http.StatusServiceUnavailable, "object storage is not configured")
		return
	}

	sess := middleware.SessionFromCtx(r.Context())
	tmpl := h.ownedTemplate(w, r)
	if tmpl == nil {
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxScreenshotSize+1024)
	if err := r.ParseMultipartForm(maxScreenshotSize); err != nil {
		respondError(w, http.StatusRequestEntityTooLarge, "file too large, maximum size is 20 MB")
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		respondError(w, http.StatusBadRequest, "no file provided")
		return
	}
	defer file.Close()

	if header.Size > maxScreenshotSize {
		respondError(w, http.StatusRequestEntityTooLarge, "file too large, maximum size is 20 MB")
		return
	}

	// Sniff the content type instead of trusting the client header.
	sniffBuf := make([]byte, 512)
	n, err := file.Read(sniffBuf)
	if err != nil && err != io.EOF {
		respondError(w, http.StatusInternalServerError, "failed to read file")
		return
	}
	contentType := http.DetectContentType(sniffBuf[:n])
	if !allowedScreenshotTypes[contentType] {
		respondError(w, http.StatusBadRequest, fmt.Sprintf("file type %q is not allowed", contentType))
		return
	}

	if _, err := file.Seek(0, io.SeekStart); err != nil {
		respondError(w, http.StatusInternalServerError, "failed to process file")
		return
	}
	original, err := io.ReadAll(file)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "failed to read file")
		return
	}

	variants, err := imaging.GenerateVariants(original, imaging.ScreenshotVariants)
	if err != nil {
		slog.Warn("screenshot processing failed", "error", err, "template", tmpl.ID)
		respondError(w, http.StatusBadRequest, "file could not be decoded as an image")
		return
	}

	ctx := r.Context()
	bucket := h.storage.PublicBucket()
	fileID := uuid.New().String()

	var fullKey, thumbKey string
	var fullSize int64
	for _, v := range variants {
		key := fmt.Sprintf("screenshots/%s/%s-%s.webp", tmpl.ID, fileID, v.Name)
		err := h.storage.Upload(ctx, bucket, key, v.ContentType, bytes.NewReader(v.Data), int64(len(v.Data)))
		if err != nil {
			slog.Error("screenshot upload failed", "error", err, "key", key)
			respondError(w, http.StatusInternalServerError, "failed to upload screenshot")
			return
		}
		switch v.Name {
		case "thumb":
			thumbKey = key
		default:
			fullKey = key
			fullSize = int64(len(v.Data))
		}
	}
	if fullKey == "" {
		// Tiny originals may produce the thumb rendition only.
		fullKey, thumbKey = thumbKey, ""
	}

	screenshot := &models.Screenshot{
		TemplateID:  *tmpl.ID,
		Filename:    header.Filename,
		ContentType: "image/webp",
		SizeBytes:   fullSize,
		S3Key:       fullKey,
		URL:         h.storage.FileURL(fullKey),
		UploaderID:  sess.UserID,
	}
	if thumbKey != "" {
		screenshot.ThumbS3Key = &thumbKey
	}

	created, err := h.screenshots.Create(ctx, screenshot)
	if err != nil {
		slog.Error("screenshot db insert failed", "error", err, "key", fullKey)
		respondError(w, http.StatusInternalServerError, "failed to save screenshot metadata")
		return
	}

	respondJSON(w, http.StatusCreated, screenshotView(h.storage, created))
}

// List returns the screenshots of a draft in upload order.
func (h *Screenshots) List(w http.ResponseWriter, r *http.Request) {
	tmpl := h.ownedTemplate(w, r)
	if tmpl == nil {
		return
	}

	items, err := h.screenshots.ListByTemplate(r.Context(), *tmpl.ID)
	if err != nil {
		slog.Error("list screenshots failed", "error", err)
		respondError(w, http.StatusInternalServerError, "internal error")
		return
	}

	views := make([]map[string]any, 0, len(items))
	for i := range items {
		views = append(views, screenshotView(h.storage, &items[i]))
	}
	respondJSON(w, http.StatusOK, map[string]any{"screenshots": views})
}

// Delete removes a screenshot row and its stored objects. Object deletion
// failures are logged and tolerated; the row is already gone.
func (h *Screenshots) Delete(w http.ResponseWriter, r *http.Request) {
	tmpl := h.ownedTemplate(w, r)
	if tmpl == nil {
		return
	}

	id, err := uuid.Parse(chi.URLParam(r, "screenshotID"))
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid screenshot id")
		return
	}

	screenshot, err := h.screenshots.FindByID(r.Context(), id)
	if err != nil {
		slog.Error("find screenshot failed", "error", err)
		respondError(w, http.StatusInternalServerError, "internal error")
		return
	}
	if screenshot == nil || screenshot.TemplateID != *tmpl.ID {
		respondError(w, http.StatusNotFound, "screenshot not found")
		return
	}

	if err := h.screenshots.Delete(r.Context(), id); err != nil {
		slog.Error("delete screenshot failed", "error", err)
		respondError(w, http.StatusInternalServerError, "internal error")
		return
	}

	if h.storage != nil {
		bucket := h.storage.PublicBucket()
		if err := h.storage.Delete(r.Context(), bucket, screenshot.S3Key); err != nil {
			slog.Warn("s3 delete failed", "error", err, "key", screenshot.S3Key)
		}
		if screenshot.ThumbS3Key != nil {
			if err := h.storage.Delete(r.Context(), bucket, *screenshot.ThumbS3Key); err != nil {
				slog.Warn("s3 delete failed", "error", err, "key", *screenshot.ThumbS3Key)
			}
		}
	}

	respondJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

// screenshotView shapes a screenshot row for API responses, adding public
// URLs for the stored renditions.
func screenshotView(sc *storage.Client, s *models.Screenshot) map[string]any {
	view := map[string]any{
		"id":          s.ID,
		"template_id": s.TemplateID,
		"filename":    s.Filename,
		"size":        s.HumanSize(),
		"url":         s.URL,
		"created_at":  s.CreatedAt,
	}
	if sc != nil && s.ThumbS3Key != nil {
		view["thumb_url"] = sc.FileURL(*s.ThumbS3Key)
	}
	return view
}

// ownedTemplate resolves the {id} URL parameter to a saved draft owned by
// the caller's organization.
func (h *Screenshots) ownedTemplate(w http.ResponseWriter, r *http.Request) *models.CustomTemplate {
	sess := middleware.SessionFromCtx(r.Context())

	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid template id")
		return nil
	}

	tmpl, err := h.templates.FindByID(r.Context(), id)
	if err != nil {
		slog.Error("find draft failed", "error", err)
		respondError(w, http.StatusInternalServerError, "internal error")
		return nil
	}
	if tmpl == nil || tmpl.OrganizationID != sess.OrganizationID {
		respondError(w, http.StatusNotFound, "template not found")
		return nil
	}
	return tmpl
}
