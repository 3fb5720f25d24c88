package store

import "github.com/vrulab/vru-validation/pkg/model"

// ProjectsStore abstracts project storage operations
type ProjectsStore interface {
	// CreateProject inserts a project, assigning its ID
	CreateProject(p *model.Project) error

	// ListProjects returns a page of projects, newest first, and the total count
	ListProjects(opts ListOptions) ([]model.Project, int64, error)

	// FetchProject returns ErrNotFound if the project doesn't exist
	FetchProject(id string) (*model.Project, error)

	// UpdateProject saves every field of an existing project
	UpdateProject(p *model.Project) error

	// DeleteProject removes a project and, through the foreign keys, its videos and sessions
	DeleteProject(id string) error
}
