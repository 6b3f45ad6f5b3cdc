package handlers

import (
	"io"
	"log"
	"mime"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/Rafajb7/NutricionistWebPage/internal/cache"
	"github.com/Rafajb7/NutricionistWebPage/internal/middleware"
	"github.com/Rafajb7/NutricionistWebPage/internal/models"
	"github.com/Rafajb7/NutricionistWebPage/pkg/utils"
)

const nutritionPlansCacheTTL = 60 * time.Second

func nutritionPlansCacheKey(username string) string {
	return "nutrition-plans:" + utils.NormalizeUsername(username)
}

// ListNutritionPlans returns the plan PDFs the coach left in the user's
// drive folder.
func ListNutritionPlans(w http.ResponseWriter, r *http.Request) {
	session := middleware.SessionUser(r)

	plans, err := cache.GetOrSet(r.Context(), store, nutritionPlansCacheKey(session.Username), nutritionPlansCacheTTL,
		func() ([]models.NutritionPlanFile, error) {
			return driveFiles.ListNutritionPlans(r.Context(), session.Username)
		})
	if err != nil {
		log.Printf("list nutrition plans failed for %s: %v", session.Username, err)
		errorJSON(w, http.StatusInternalServerError, "No se pudieron cargar los planes.")
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"plans": plans})
}

// DownloadNutritionPlan streams a plan file. ?download=1 switches the
// disposition from inline preview to attachment.
func DownloadNutritionPlan(w http.ResponseWriter, r *http.Request) {
	session := middleware.SessionUser(r)

	fileID := chi.URLParam(r, "id")
	if fileID == "" {
		errorJSON(w, http.StatusBadRequest, "Invalid payload.")
		return
	}

	file, err := driveFiles.Download(r.Context(), fileID)
	if err != nil {
		log.Printf("plan download failed for %s (%s): %v", session.Username, fileID, err)
		errorJSON(w, http.StatusNotFound, "No se encontró el plan.")
		return
	}
	defer file.Content.Close()

	disposition := "inline"
	if r.URL.Query().Get("download") == "1" {
		disposition = "attachment"
	}
	w.Header().Set("Content-Type", file.MimeType)
	w.Header().Set("Content-Disposition", mime.FormatMediaType(disposition, map[string]string{"filename": file.Name}))
	w.Header().Set("Cache-Control", "private, max-age=300")
	io.Copy(w, file.Content)
}

// NutritionPlanThumbnail streams the drive-generated preview image for
// a plan, or 404 when drive has not rendered one.
func NutritionPlanThumbnail(w http.ResponseWriter, r *http.Request) {
	session := middleware.SessionUser(r)

	fileID := chi.URLParam(r, "id")
	if fileID == "" {
		errorJSON(w, http.StatusBadRequest, "Invalid payload.")
		return
	}

	thumb, err := driveFiles.Thumbnail(r.Context(), fileID)
	if err != nil {
		log.Printf("plan thumbnail failed for %s (%s): %v", session.Username, fileID, err)
		errorJSON(w, http.StatusInternalServerError, "No se pudo cargar la vista previa.")
		return
	}
	if thumb == nil {
		errorJSON(w, http.StatusNotFound, "No hay vista previa.")
		return
	}
	defer thumb.Content.Close()

	w.Header().Set("Content-Type", thumb.MimeType)
	w.Header().Set("Cache-Control", "private, max-age=300")
	io.Copy(w, thumb.Content)
}
