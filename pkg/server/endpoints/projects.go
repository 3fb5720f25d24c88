package endpoints

import (
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/vrulab/vru-validation/pkg/audit"
	"github.com/vrulab/vru-validation/pkg/config"
	"github.com/vrulab/vru-validation/pkg/model"
	"github.com/vrulab/vru-validation/pkg/server"
	"github.com/vrulab/vru-validation/pkg/server/store"
)

// projectRequest is the body of project create and update requests. Nil
// fields are left unchanged on update.
type projectRequest struct {
	Name        *string              `json:"name"`
	Description *string              `json:"description"`
	CameraModel *string              `json:"cameraModel"`
	CameraView  *model.CameraView    `json:"cameraView"`
	SignalType  *model.SignalType    `json:"signalType"`
	Status      *model.ProjectStatus `json:"status"`
}

func (req projectRequest) applyTo(p *model.Project) {
	if req.Name != nil {
		p.Name = *req.Name
	}
	if req.Description != nil {
		p.Description = *req.Description
	}
	if req.CameraModel != nil {
		p.CameraModel = *req.CameraModel
	}
	if req.CameraView != nil {
		p.CameraView = *req.CameraView
	}
	if req.SignalType != nil {
		p.SignalType = *req.SignalType
	}
	if req.Status != nil {
		p.Status = *req.Status
	}
}

// RegisterProjectsEndpoints registers the project CRUD endpoints
func RegisterProjectsEndpoints(s *server.Server) {
	projectsStore := s.ProjectsStore

	// POST /api/projects - Create project
	s.API.HandleFunc("/projects", handleCreateProject(projectsStore, s.InvalidateStats)).Methods("POST")

	// GET /api/projects - List projects
	s.API.HandleFunc("/projects", handleListProjects(projectsStore, s.Config)).Methods("GET")

	// GET /api/projects/{id} - Get project
	s.API.HandleFunc("/projects/{id}", handleGetProject(projectsStore)).Methods("GET")

	// PUT /api/projects/{id} - Update project
	s.API.HandleFunc("/projects/{id}", handleUpdateProject(projectsStore)).Methods("PUT")

	// DELETE /api/projects/{id} - Delete project and everything in it
	s.API.HandleFunc("/projects/{id}", handleDeleteProject(projectsStore, s.InvalidateStats)).Methods("DELETE")
}

func handleCreateProject(projectsStore store.ProjectsStore, invalidate func()) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req projectRequest
		if err := decodeJSON(r, &req); err != nil {
			respondWithStoreError(w, err, "project")
			return
		}
		if req.CameraView == nil || req.SignalType == nil {
			field := "cameraView"
			if req.CameraView != nil {
				field = "signalType"
			}
			respondWithStoreError(w, &model.ValidationError{Field: field, Message: "is required"}, "project")
			return
		}

		project := &model.Project{Status: model.ProjectStatusActive}
		req.applyTo(project)
		if err := project.Validate(); err != nil {
			respondWithStoreError(w, err, "project")
			return
		}

		err := projectsStore.CreateProject(project)
		auditResource(r, "project", project.ID, audit.OperationCreate, err)
		if err != nil {
			respondWithStoreError(w, err, "project")
			return
		}
		invalidate()

		respondWithJSON(w, http.StatusCreated, project)
	}
}

func handleListProjects(projectsStore store.ProjectsStore, cfg *config.VRUConfig) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		opts, err := listOptions(r, cfg)
		if err != nil {
			respondWithStoreError(w, err, "project")
			return
		}

		projects, total, err := projectsStore.ListProjects(opts)
		if err != nil {
			respondWithStoreError(w, err, "project")
			return
		}
		if projects == nil {
			projects = []model.Project{}
		}

		w.Header().Set("X-Total-Count", strconv.FormatInt(total, 10))
		respondWithJSON(w, http.StatusOK, projects)
	}
}

func handleGetProject(projectsStore store.ProjectsStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		project, err := projectsStore.FetchProject(mux.Vars(r)["id"])
		if err != nil {
			respondWithStoreError(w, err, "project")
			return
		}
		respondWithJSON(w, http.StatusOK, project)
	}
}

func handleUpdateProject(projectsStore store.ProjectsStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := mux.Vars(r)["id"]

		project, err := projectsStore.FetchProject(id)
		if err != nil {
			respondWithStoreError(w, err, "project")
			return
		}

		var req projectRequest
		if err := decodeJSON(r, &req); err != nil {
			respondWithStoreError(w, err, "project")
			return
		}
		req.applyTo(project)
		if err := project.Validate(); err != nil {
			respondWithStoreError(w, err, "project")
			return
		}

		err = projectsStore.UpdateProject(project)
		auditResource(r, "project", id, audit.OperationUpdate, err)
		if err != nil {
			respondWithStoreError(w, err, "project")
			return
		}

		respondWithJSON(w, http.StatusOK, project)
	}
}

func handleDeleteProject(projectsStore store.ProjectsStore, invalidate func()) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := mux.Vars(r)["id"]

		err := projectsStore.DeleteProject(id)
		auditResource(r, "project", id, audit.OperationDelete, err)
		if err != nil {
			respondWithStoreError(w, err, "project")
			return
		}
		invalidate()

		w.WriteHeader(http.StatusNoContent)
	}
}
