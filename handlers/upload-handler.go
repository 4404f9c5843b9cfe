package handlers

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"github.com/Yousuf-177/TaskFlow/apperrors"
	"github.com/Yousuf-177/TaskFlow/logging"
	"github.com/Yousuf-177/TaskFlow/utils"
)

const maxImageSize = 5 << 20

// ImageStore persists an uploaded file and returns its stored name.
type ImageStore interface {
	Save(originalName string, r io.Reader) (string, error)
}

type UploadHandler struct {
	store ImageStore
}

func NewUploadHandler(store ImageStore) *UploadHandler {
	return &UploadHandler{store: store}
}

func (h *UploadHandler) UploadImage(w http.ResponseWriter, r *http.Request) {
	// Room for the multipart envelope on top of the file itself.
	r.Body = http.MaxBytesReader(w, r.Body, maxImageSize+1<<20)
	if err := r.ParseMultipartForm(maxImageSize); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			utils.WriteError(w, apperrors.Invalid("File too large, maximum is 5MB"))
			return
		}
		if !errors.Is(err, http.ErrNotMultipart) {
			utils.WriteError(w, apperrors.Wrap(apperrors.InvalidInput, "Invalid upload", err))
			return
		}
	}

	file, header, err := r.FormFile("image")
	if err != nil {
		utils.WriteError(w, apperrors.Invalid("File not uploaded"))
		return
	}
	defer file.Close()

	if header.Size > maxImageSize {
		utils.WriteError(w, apperrors.Invalid("File too large, maximum is 5MB"))
		return
	}
	if !utils.AllowedImageTypes[header.Header.Get("Content-Type")] {
		utils.WriteError(w, apperrors.Invalid("Only .jpeg .jpg .png formats are allowed"))
		return
	}

	name, err := h.store.Save(header.Filename, file)
	if err != nil {
		utils.WriteError(w, apperrors.Internalf(err, "Failed to store image"))
		return
	}
	logging.Logger.Infof("Event ID: IMAGE_UPLOADED, Description: Stored upload %s (%d bytes)", name, header.Size)

	utils.WriteMessage(w, http.StatusOK, "Image uploaded successfully", map[string]any{
		"imageUrl": fmt.Sprintf("%s://%s/uploads/%s", requestScheme(r), r.Host, url.PathEscape(name)),
	})
}

func requestScheme(r *http.Request) string {
	if proto := r.Header.Get("X-Forwarded-Proto"); proto != "" {
		return proto
	}
	if r.TLS != nil {
		return "https"
	}
	return "http"
}
