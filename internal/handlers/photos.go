package handlers

import (
	"encoding/json"
	"io"
	"log"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/Rafajb7/NutricionistWebPage/internal/middleware"
	"github.com/Rafajb7/NutricionistWebPage/internal/models"
	"github.com/Rafajb7/NutricionistWebPage/pkg/utils"
)

var allowedPhotoMimeTypes = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
	"image/webp": true,
}

const (
	maxPhotoFiles  = 10
	maxPhotoLabels = 10
)

// UploadPhotos receives progress photos as multipart form data, stores
// each in the user's drive folder and records them as revision rows so
// they show up next to the written answers of the same day.
func UploadPhotos(w http.ResponseWriter, r *http.Request) {
	session := middleware.SessionUser(r)

	maxBytes := int64(cfg.MaxUploadMB) * 1024 * 1024
	r.Body = http.MaxBytesReader(w, r.Body, maxBytes*maxPhotoFiles+1024*1024)
	if err := r.ParseMultipartForm(maxBytes); err != nil {
		errorJSON(w, http.StatusBadRequest, "Invalid payload.")
		return
	}

	files := r.MultipartForm.File["photos"]
	if len(files) == 0 {
		errorJSON(w, http.StatusBadRequest, "No files uploaded.")
		return
	}
	if len(files) > maxPhotoFiles {
		errorJSON(w, http.StatusBadRequest, "Invalid payload.")
		return
	}

	var labels []string
	if raw := r.FormValue("labels"); raw != "" {
		if err := json.Unmarshal([]byte(raw), &labels); err != nil || len(labels) > maxPhotoLabels {
			labels = nil
		}
		for _, label := range labels {
			if label == "" || len(label) > 80 {
				labels = nil
				break
			}
		}
	}

	fecha := time.Now().UTC().Format("2006-01-02")
	rows := make([]models.RevisionRow, 0, len(files))

	for i, header := range files {
		mimeType := header.Header.Get("Content-Type")
		if !allowedPhotoMimeTypes[mimeType] {
			errorJSON(w, http.StatusBadRequest, "Tipo no permitido: "+header.Filename)
			return
		}
		if header.Size > maxBytes {
			errorJSON(w, http.StatusBadRequest, "Archivo demasiado grande: "+header.Filename)
			return
		}

		file, err := header.Open()
		if err != nil {
			errorJSON(w, http.StatusBadRequest, "Invalid payload.")
			return
		}
		publicURL, err := driveFiles.UploadPhoto(r.Context(), session.Name, header.Filename, mimeType, file)
		file.Close()
		if err != nil {
			log.Printf("photo upload failed for %s: %v", session.Username, err)
			errorJSON(w, http.StatusInternalServerError, "Could not upload photos.")
			return
		}

		label := "Imagen adjunta"
		if i < len(labels) {
			label = labels[i]
		}
		rows = append(rows, models.RevisionRow{
			Nombre:    session.Name,
			Fecha:     fecha,
			Usuario:   utils.NormalizeUsername(session.Username),
			Pregunta:  label,
			Respuesta: publicURL,
		})
	}

	if err := revisions.Submit(r.Context(), rows); err != nil {
		log.Printf("photo revision rows append failed for %s: %v", session.Username, err)
		errorJSON(w, http.StatusInternalServerError, "Could not upload photos.")
		return
	}

	store.Delete(r.Context(), revisionsCacheKey(session.Username))
	log.Printf("photos uploaded: %s (%d files)", session.Username, len(rows))

	uploaded := make([]map[string]string, 0, len(rows))
	for _, row := range rows {
		uploaded = append(uploaded, map[string]string{"label": row.Pregunta, "url": row.Respuesta})
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"ok": true, "uploaded": uploaded})
}

// ViewPhoto streams a stored photo by drive file id. Revision entries
// reference photos through /api/photos/view/<id>, so the browser never
// needs drive credentials.
func ViewPhoto(w http.ResponseWriter, r *http.Request) {
	fileID := chi.URLParam(r, "id")
	if fileID == "" {
		errorJSON(w, http.StatusBadRequest, "Invalid payload.")
		return
	}

	file, err := driveFiles.Download(r.Context(), fileID)
	if err != nil {
		log.Printf("photo view failed for %s: %v", fileID, err)
		errorJSON(w, http.StatusNotFound, "No se encontró la imagen.")
		return
	}
	defer file.Content.Close()

	w.Header().Set("Content-Type", file.MimeType)
	w.Header().Set("Cache-Control", "private, max-age=300")
	io.Copy(w, file.Content)
}
