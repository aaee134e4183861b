package api

import (
	"net/http"
	"strconv"
	"strings"

	"kinetic/internal/services"
	"kinetic/internal/store"
)

func (s *server) handleListJobs(w http.ResponseWriter, r *http.Request) {
	limit := store.DefaultJobListLimit
	if raw := strings.TrimSpace(r.URL.Query().Get("limit")); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 {
			s.writeServiceError(w, r, services.Wrap(services.ErrValidation, "", "list jobs", "limit must be a positive integer", nil))
			return
		}
		limit = parsed
	}
	jobs, err := s.store.ListJobs(r.Context(), limit)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, JobListResponse{Jobs: FromJobs(jobs)})
}

func (s *server) handleCreateJob(w http.ResponseWriter, r *http.Request) {
	var req CreateJobRequest
	if err := decodeJSON(r, &req); err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	if req.ProjectID <= 0 {
		s.writeServiceError(w, r, services.Wrap(services.ErrValidation, "", "create job", "project_id required", nil))
		return
	}
	job, err := s.workflow.CreateJob(r.Context(), req.ProjectID, req.AudioPath, req.VideoPath)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusCreated, FromJob(job))
}

func (s *server) handleGetJob(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	job, err := s.workflow.GetJob(r.Context(), id)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	if job == nil {
		s.writeError(w, http.StatusNotFound, "job not found")
		return
	}
	s.writeJSON(w, http.StatusOK, FromJob(job))
}
