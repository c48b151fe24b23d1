package repository

import (
	"context"

	"gorm.io/gorm"

	"uni-scheduler/backend/internal/model"
)

// CourseRepository 课程数据访问接口（排课核心只读）
type CourseRepository interface {
	GetByID(ctx context.Context, id string) (*model.Course, error)
	ListByIDs(ctx context.Context, ids []string) ([]model.Course, error)
}

type courseRepo struct {
	db *gorm.DB
}

// NewCourseRepo 创建 CourseRepository 实例
func NewCourseRepo(db *gorm.DB) CourseRepository {
	return &courseRepo{db: db}
}

func (r *courseRepo) GetByID(ctx context.Context, id string) (*model.Course, error) {
	var course model.Course
	err := r.db.WithContext(ctx).
		Where("course_id = ?", id).
		First(&course).Error
	if err != nil {
		return nil, err
	}
	return &course, nil
}

// ListByIDs 批量查询，返回顺序不保证与入参一致
func (r *courseRepo) ListByIDs(ctx context.Context, ids []string) ([]model.Course, error) {
	var courses []model.Course
	if len(ids) == 0 {
		return courses, nil
	}
	err := r.db.WithContext(ctx).
		Where("course_id IN ?", ids).
		Find(&courses).Error
	return courses, err
}
