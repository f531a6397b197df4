package repository

import (
	"context"

	"Nexus/internal/model"

	"gorm.io/gorm"
)

type ProjectMemberRepo interface {
	IsMember(ctx context.Context, projectID uint64, userID uint64) (bool, error)
	GetMemberIds(ctx context.Context, projectID uint64) ([]uint64, error)
}

type ProjectMemberRepoImpl struct {
	db *gorm.DB
}

func NewProjectMemberRepo(db *gorm.DB) ProjectMemberRepo {
	return &ProjectMemberRepoImpl{db: db}
}

func (s *ProjectMemberRepoImpl) IsMember(ctx context.Context, projectID uint64, userID uint64) (bool, error) {
	var count int64
	result := s.db.WithContext(ctx).
		Model(&model.ProjectMember{}).
		Where("project_id = ? AND user_id = ?", projectID, userID).
		Count(&count)

	if result.Error != nil {
		return false, result.Error
	}

	return count > 0, nil
}

func (s *ProjectMemberRepoImpl) GetMemberIds(ctx context.Context, projectID uint64) ([]uint64, error) {
	ids := make([]uint64, 0)
	result := s.db.WithContext(ctx).
		Model(&model.ProjectMember{}).
		Where("project_id = ?", projectID).
		Pluck("user_id", &ids)

	if result.Error != nil {
		return nil, result.Error
	}

	return ids, nil
}
