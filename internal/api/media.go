package api

import (
	"net/http"
	"os"
	"path/filepath"
)

func (s *server) handleListMedia(w http.ResponseWriter, r *http.Request) {
	media, err := s.store.ListMedia(r.Context())
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, MediaListResponse{Media: FromMediaList(media)})
}

func (s *server) handleMediaFile(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	media, err := s.store.GetMedia(r.Context(), id)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	if media == nil {
		s.writeError(w, http.StatusNotFound, "media not found")
		return
	}
	info, err := os.Stat(media.FilePath)
	if err != nil || !info.Mode().IsRegular() {
		s.writeError(w, http.StatusNotFound, "media file missing on disk")
		return
	}
	w.Header().Set("Content-Disposition", `inline; filename="`+filepath.Base(media.FilePath)+`"`)
	http.ServeFile(w, r, media.FilePath)
}
