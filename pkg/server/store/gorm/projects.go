package gorm

import (
	"gorm.io/gorm"

	"github.com/vrulab/vru-validation/pkg/model"
	"github.com/vrulab/vru-validation/pkg/server/store"
)

// Ensure ProjectsStore implements store.ProjectsStore
var _ store.ProjectsStore = (*ProjectsStore)(nil)

// ProjectsStore implements store.ProjectsStore using GORM
type ProjectsStore struct {
	db *gorm.DB
}

// NewProjectsStore creates a new ProjectsStore
func NewProjectsStore(db *gorm.DB) *ProjectsStore {
	return &ProjectsStore{db: db}
}

func (s *ProjectsStore) CreateProject(p *model.Project) error {
	return translate(s.db.Create(p).Error)
}

func (s *ProjectsStore) ListProjects(opts store.ListOptions) ([]model.Project, int64, error) {
	var total int64
	if err := s.db.Model(&model.Project{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	projects := []model.Project{}
	if err := paginate(s.db.Order("created_at desc"), opts).Find(&projects).Error; err != nil {
		return nil, 0, err
	}
	return projects, total, nil
}

func (s *ProjectsStore) FetchProject(id string) (*model.Project, error) {
	var project model.Project
	if err := s.db.Where("id = ?", id).First(&project).Error; err != nil {
		return nil, translate(err)
	}
	return &project, nil
}

func (s *ProjectsStore) UpdateProject(p *model.Project) error {
	return affected(s.db.Model(p).
		Select("name", "description", "camera_model", "camera_view", "signal_type", "status").
		Updates(p))
}

func (s *ProjectsStore) DeleteProject(id string) error {
	return affected(s.db.Where("id = ?", id).Delete(&model.Project{}))
}
