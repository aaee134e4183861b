package api

import "net/http"

func (s *server) handleListProjects(w http.ResponseWriter, r *http.Request) {
	projects, err := s.store.ListProjects(r.Context())
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	out := make([]Project, 0, len(projects))
	for _, p := range projects {
		out = append(out, FromProject(p))
	}
	s.writeJSON(w, http.StatusOK, ProjectListResponse{Projects: out})
}

func (s *server) handleCreateProject(w http.ResponseWriter, r *http.Request) {
	var req CreateProjectRequest
	if err := decodeJSON(r, &req); err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	project, job, err := s.workflow.CreateProject(r.Context(), req.Name, req.AudioPath, req.VideoPath)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusCreated, ProjectCreated{Project: FromProject(project), Job: FromJob(job)})
}

func (s *server) handleGetProject(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	project, err := s.store.GetProject(r.Context(), id)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	if project == nil {
		s.writeError(w, http.StatusNotFound, "project not found")
		return
	}
	jobs, err := s.store.JobsForProject(r.Context(), id)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	media, err := s.store.MediaForProject(r.Context(), id)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, ProjectDetail{
		Project: FromProject(project),
		Jobs:    FromJobs(jobs),
		Media:   FromMediaList(media),
	})
}

func (s *server) handleDeleteProject(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	deleted, err := s.store.DeleteProject(r.Context(), id)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	if !deleted {
		s.writeError(w, http.StatusNotFound, "project not found")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *server) handleCreateProjectJob(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	job, err := s.workflow.CreateJobForProject(r.Context(), id)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusCreated, FromJob(job))
}

