// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"bytes"
	"io"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"blogapi/internal/storage"
)

// maxUploadSize is the maximum allowed media upload size (10 MB).
const maxUploadSize = 10 << 20

// allowedMediaTypes defines MIME types accepted for upload. Featured
// images and avatars only, no documents.
var allowedMediaTypes = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/gif":  ".gif",
	"image/webp": ".webp",
}

// Media handles uploads of featured images and avatars to S3.
type Media struct {
	storage *storage.Client
}

// NewMedia creates a new Media handler group. storage may be nil when
// object storage is not configured.
func NewMedia(storageClient *storage.Client) *Media {
	return &Media{storage: storageClient}
}

// Upload accepts a multipart image, stores it under a random key, and
// returns the public URL for use as featuredImage or avatar.
func (h *Media) Upload(w http.ResponseWriter, r *http.Request) {
	if h.storage == nil {
		respondError(w, http.StatusServiceUnavailable, "Object storage is not configured")
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxUploadSize+1024)
	if err := r.ParseMultipartForm(maxUploadSize); err != nil {
		respondError(w, http.StatusRequestEntityTooLarge, "File too large. Maximum size is 10 MB")
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		respondError(w, http.StatusBadRequest, "No file provided")
		return
	}
	defer file.Close()

	if header.Size > maxUploadSize {
		respondError(w, http.StatusRequestEntityTooLarge, "File too large. Maximum size is 10 MB")
		return
	}

	// Detect content type by sniffing the first 512 bytes.
	sniffBuf := make([]byte, 512)
	n, err := file.Read(sniffBuf)
	if err != nil && err != io.EOF {
		respondInternal(w, "read upload failed", err)
		return
	}
	contentType := http.DetectContentType(sniffBuf[:n])
	contentType = strings.Split(contentType, ";")[0]

	ext, allowed := allowedMediaTypes[contentType]
	if !allowed {
		respondError(w, http.StatusBadRequest, "Unsupported file type. Allowed: JPEG, PNG, GIF, WebP")
		return
	}

	// Keep the original extension when it matches the detected type.
	if orig := strings.ToLower(filepath.Ext(header.Filename)); orig == ".jpeg" && ext == ".jpg" {
		ext = ".jpeg"
	}

	key := "uploads/" + uuid.NewString() + ext
	body := io.MultiReader(bytes.NewReader(sniffBuf[:n]), file)

	if err := h.storage.Upload(r.Context(), key, contentType, body, header.Size); err != nil {
		respondInternal(w, "media upload failed", err)
		return
	}

	respondData(w, http.StatusCreated, map[string]any{
		"key": key,
		"url": h.storage.FileURL(key),
	})
}
