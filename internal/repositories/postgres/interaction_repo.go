package postgres

import (
	"context"
	"time"

	"github.com/ibercasa/ibercasa/internal/models"
	"gorm.io/gorm"
)

// InteractionFinal holds the terminal values applied to a provisional
// form_submission row. Applied exactly once per row.
type InteractionFinal struct {
	AdviceGenerated bool
	ResponseTimeMs  int
	Success         bool
	ErrorMessage    *string
}

type InteractionRepository interface {
	Insert(ctx context.Context, row *models.UserInteraction) error
	Finalize(ctx context.Context, id string, fin InteractionFinal) (int64, error)
	List(ctx context.Context, limit, offset int, interactionType string) ([]models.UserInteraction, int64, error)
	CountAll(ctx context.Context) (int64, error)
	CountSince(ctx context.Context, since time.Time) (int64, error)
	CountByType(ctx context.Context) ([]models.TypeCount, error)
	CountByPropertyType(ctx context.Context, limit int) ([]models.TypeCount, error)
	AvgResponseTime(ctx context.Context) (float64, error)
}

type interactionRepo struct {
	db *gorm.DB
}

func NewInteractionRepo(db *gorm.DB) InteractionRepository {
	return &interactionRepo{db: db}
}

func (r *interactionRepo) Insert(ctx context.Context, row *models.UserInteraction) error {
	return r.db.WithContext(ctx).Create(row).Error
}

// Finalize updates the row by its primary key and reports how many rows
// matched, so the caller can detect a vanished provisional row.
func (r *interactionRepo) Finalize(ctx context.Context, id string, fin InteractionFinal) (int64, error) {
	res := r.db.WithContext(ctx).
		Model(&models.UserInteraction{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"advice_generated": fin.AdviceGenerated,
			"response_time":    fin.ResponseTimeMs,
			"success":          fin.Success,
			"error_message":    fin.ErrorMessage,
		})
	return res.RowsAffected, res.Error
}

func (r *interactionRepo) List(ctx context.Context, limit, offset int, interactionType string) ([]models.UserInteraction, int64, error) {
	if limit <= 0 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}

	q := r.db.WithContext(ctx).Model(&models.UserInteraction{})
	if interactionType != "" {
		q = q.Where("interaction_type = ?", interactionType)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var rows []models.UserInteraction
	err := q.Order("created_at DESC").Limit(limit).Offset(offset).Find(&rows).Error
	return rows, total, err
}

func (r *interactionRepo) CountAll(ctx context.Context) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&models.UserInteraction{}).Count(&n).Error
	return n, err
}

func (r *interactionRepo) CountSince(ctx context.Context, since time.Time) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).
		Model(&models.UserInteraction{}).
		Where("created_at >= ?", since).
		Count(&n).Error
	return n, err
}

func (r *interactionRepo) CountByType(ctx context.Context) ([]models.TypeCount, error) {
	var rows []models.TypeCount
	err := r.db.WithContext(ctx).
		Model(&models.UserInteraction{}).
		Select("interaction_type AS type, COUNT(*) AS count").
		Group("interaction_type").
		Order("count DESC").
		Scan(&rows).Error
	return rows, err
}

func (r *interactionRepo) CountByPropertyType(ctx context.Context, limit int) ([]models.TypeCount, error) {
	if limit <= 0 {
		limit = 10
	}
	var rows []models.TypeCount
	err := r.db.WithContext(ctx).
		Model(&models.UserInteraction{}).
		Select("property_type AS type, COUNT(*) AS count").
		Where("property_type IS NOT NULL").
		Group("property_type").
		Order("count DESC").
		Limit(limit).
		Scan(&rows).Error
	return rows, err
}

// AvgResponseTime averages over rows that recorded a response time.
// Zero rows average to 0.
func (r *interactionRepo) AvgResponseTime(ctx context.Context) (float64, error) {
	var avg float64
	err := r.db.WithContext(ctx).
		Model(&models.UserInteraction{}).
		Select("COALESCE(AVG(response_time), 0)").
		Where("response_time IS NOT NULL").
		Scan(&avg).Error
	return avg, err
}
