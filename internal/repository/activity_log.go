package repository

import (
	"context"
	"somthing-shop/internal/model"
	"time"

	"gorm.io/gorm"
)

type ActivityLogRepository interface {
	Create(ctx context.Context, tx *gorm.DB, entry *model.ActivityLog) error
	List(ctx context.Context, limit int) ([]*model.ActivityLog, error)
	ListUnpublished(ctx context.Context, limit int) ([]*model.ActivityLog, error)
	MarkPublished(ctx context.Context, ids []string, at time.Time) error
}

type activityLogRepoImpl struct {
	db *gorm.DB
}

func NewActivityLogRepository(db *gorm.DB) ActivityLogRepository {
	return &activityLogRepoImpl{
		db: db,
	}
}

func (r *activityLogRepoImpl) Create(ctx context.Context, tx *gorm.DB, entry *model.ActivityLog) error {
	return tx.WithContext(ctx).Omit("Admin").Create(entry).Error
}

func (r *activityLogRepoImpl) List(ctx context.Context, limit int) ([]*model.ActivityLog, error) {
	var entries []*model.ActivityLog
	err := r.db.WithContext(ctx).
		Preload("Admin", func(db *gorm.DB) *gorm.DB {
			return db.Select("id", "full_name", "email")
		}).
		Order("created_at DESC").
		Limit(limit).
		Find(&entries).
		Error

	if err != nil {
		return nil, err
	}

	return entries, nil
}

func (r *activityLogRepoImpl) ListUnpublished(ctx context.Context, limit int) ([]*model.ActivityLog, error) {
	var entries []*model.ActivityLog
	err := r.db.WithContext(ctx).
		Where("published_at IS NULL").
		Order("created_at ASC").
		Limit(limit).
		Find(&entries).
		Error

	if err != nil {
		return nil, err
	}

	return entries, nil
}

// MarkPublished only touches published_at; entries are otherwise immutable.
func (r *activityLogRepoImpl) MarkPublished(ctx context.Context, ids []string, at time.Time) error {
	if len(ids) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).
		Model(&model.ActivityLog{}).
		Where("id IN ?", ids).
		Where("published_at IS NULL").
		Update("published_at", at).
		Error
}
