package postgres

import (
	"context"
	"errors"

	"github.com/ibercasa/ibercasa/internal/models"
	"github.com/ibercasa/ibercasa/internal/utils"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type PreferenceRepository interface {
	Upsert(ctx context.Context, p *models.UserPreference) error
	List(ctx context.Context, limit, offset int) ([]models.UserPreference, int64, error)
	GetBySessionID(ctx context.Context, sessionID string) (*models.UserPreference, error)
	CountAll(ctx context.Context) (int64, error)
}

type preferenceRepo struct {
	db *gorm.DB
}

func NewPreferenceRepo(db *gorm.DB) PreferenceRepository {
	return &preferenceRepo{db: db}
}

// Upsert inserts the row with visit_count = 1, or on conflict refreshes
// the preference summary and increments visit_count in SQL. The
// increment happens storage-side so concurrent submissions from the
// same session never lose an update.
func (r *preferenceRepo) Upsert(ctx context.Context, p *models.UserPreference) error {
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "session_id"}},
			DoUpdates: clause.Assignments(map[string]any{
				"property_type":      p.PropertyType,
				"budget":             p.Budget,
				"locations":          p.Locations,
				"preferred_features": p.PreferredFeatures,
				"advice_style":       p.AdviceStyle,
				"last_visit":         p.LastVisit,
				"visit_count":        gorm.Expr("visit_count + 1"),
			}),
		}).
		Create(p).Error
}

func (r *preferenceRepo) List(ctx context.Context, limit, offset int) ([]models.UserPreference, int64, error) {
	if limit <= 0 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}

	var total int64
	if err := r.db.WithContext(ctx).Model(&models.UserPreference{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var rows []models.UserPreference
	err := r.db.WithContext(ctx).
		Order("last_visit DESC").
		Limit(limit).
		Offset(offset).
		Find(&rows).Error
	return rows, total, err
}

func (r *preferenceRepo) GetBySessionID(ctx context.Context, sessionID string) (*models.UserPreference, error) {
	var p models.UserPreference
	err := r.db.WithContext(ctx).Where("session_id = ?", sessionID).Take(&p).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, utils.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *preferenceRepo) CountAll(ctx context.Context) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&models.UserPreference{}).Count(&n).Error
	return n, err
}
