package repository

import (
	"gorm.io/gorm"

	"github.com/qs3c/alloc_server/internal/model"
)

type ProjectRepository struct {
	db *gorm.DB
}

func NewProjectRepository(db *gorm.DB) *ProjectRepository {
	return &ProjectRepository{db: db}
}

func (r *ProjectRepository) Create(project *model.Project) error {
	return r.db.Create(project).Error
}

// GetByID 获取项目及 PI
func (r *ProjectRepository) GetByID(id int64) (*model.Project, error) {
	var project model.Project
	err := r.db.Preload("PI").Where("id = ?", id).First(&project).Error
	if err != nil {
		return nil, err
	}
	return &project, nil
}
