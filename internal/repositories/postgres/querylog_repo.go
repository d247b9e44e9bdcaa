package postgres

import (
	"context"

	"github.com/ibercasa/ibercasa/internal/models"
	"gorm.io/gorm"
)

type QueryLogRepository interface {
	Insert(ctx context.Context, row *models.QueryLog) error
	List(ctx context.Context, limit, offset int, queryType string) ([]models.QueryLog, int64, error)
	CountAll(ctx context.Context) (int64, error)
}

type queryLogRepo struct {
	db *gorm.DB
}

func NewQueryLogRepo(db *gorm.DB) QueryLogRepository {
	return &queryLogRepo{db: db}
}

func (r *queryLogRepo) Insert(ctx context.Context, row *models.QueryLog) error {
	return r.db.WithContext(ctx).Create(row).Error
}

func (r *queryLogRepo) List(ctx context.Context, limit, offset int, queryType string) ([]models.QueryLog, int64, error) {
	if limit <= 0 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}

	q := r.db.WithContext(ctx).Model(&models.QueryLog{})
	if queryType != "" {
		q = q.Where("query_type = ?", queryType)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var rows []models.QueryLog
	err := q.Order("created_at DESC").Limit(limit).Offset(offset).Find(&rows).Error
	return rows, total, err
}

func (r *queryLogRepo) CountAll(ctx context.Context) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&models.QueryLog{}).Count(&n).Error
	return n, err
}
