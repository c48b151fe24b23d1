package repository

import (
	"context"

	"gorm.io/gorm"

	"uni-scheduler/backend/internal/model"
)

// ProfessorRepository 教师数据访问接口（排课核心只读）
type ProfessorRepository interface {
	GetByID(ctx context.Context, id string) (*model.Professor, error)
	List(ctx context.Context) ([]model.Professor, error)
}

type professorRepo struct {
	db *gorm.DB
}

// NewProfessorRepo 创建 ProfessorRepository 实例
func NewProfessorRepo(db *gorm.DB) ProfessorRepository {
	return &professorRepo{db: db}
}

func (r *professorRepo) GetByID(ctx context.Context, id string) (*model.Professor, error) {
	var professor model.Professor
	err := r.db.WithContext(ctx).
		Where("professor_id = ?", id).
		First(&professor).Error
	if err != nil {
		return nil, err
	}
	return &professor, nil
}

// List 按创建顺序返回全部教师，自动排课依赖该顺序做先到先得
func (r *professorRepo) List(ctx context.Context) ([]model.Professor, error) {
	var professors []model.Professor
	err := r.db.WithContext(ctx).
		Order("created_at ASC, professor_id ASC").
		Find(&professors).Error
	return professors, err
}
