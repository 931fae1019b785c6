package service

import (
	"context"
	"fmt"
	"somthing-shop/internal/cache"
	"somthing-shop/internal/model"
	"somthing-shop/internal/notify"
	"somthing-shop/internal/repository"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// MutationObserver is told the outcome of every admin mutation, e.g. ("products.created", true).
type MutationObserver func(operation string, success bool)

type ActivityDeliverer interface {
	Deliver(ctx context.Context, entry *model.ActivityLog)
}

type mutation struct {
	table   string
	action  model.Action
	keys    []string
	success string
	// apply performs the primary write inside tx and returns the target row id
	// and the details recorded in the activity log.
	apply func(tx *gorm.DB) (string, map[string]any, error)
}

// Mutator runs admin writes: the primary write and its activity log entry
// commit together or not at all; cache invalidation, notification and
// delivery to the outbox happen only after commit.
type Mutator struct {
	db           *gorm.DB
	activityRepo repository.ActivityLogRepository
	cache        *cache.Cache
	notifier     notify.Notifier
	deliverer    ActivityDeliverer
	observe      MutationObserver
}

func NewMutator(
	db *gorm.DB,
	activityRepo repository.ActivityLogRepository,
	queryCache *cache.Cache,
	notifier notify.Notifier,
	deliverer ActivityDeliverer,
	observe MutationObserver,
) *Mutator {
	if observe == nil {
		observe = func(string, bool) {}
	}
	return &Mutator{
		db:           db,
		activityRepo: activityRepo,
		cache:        queryCache,
		notifier:     notifier,
		deliverer:    deliverer,
		observe:      observe,
	}
}

func (m *Mutator) run(ctx context.Context, adminID string, mu mutation) error {
	var entry *model.ActivityLog

	err := m.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		targetID, details, err := mu.apply(tx)
		if err != nil {
			return err
		}

		entry = &model.ActivityLog{
			AdminID:     adminID,
			Action:      mu.action,
			TargetTable: mu.table,
			TargetID:    targetID,
			Details:     datatypes.JSONMap(details),
		}
		if err := m.activityRepo.Create(ctx, tx, entry); err != nil {
			return fmt.Errorf("write activity log: %w", err)
		}
		return nil
	})

	if err != nil {
		return m.reject(ctx, mu.table, mu.action, err)
	}

	keys := make([]string, 0, len(mu.keys)+2)
	keys = append(keys, mu.keys...)
	keys = append(keys, cache.KeyActivity, cache.KeyStats)
	m.cache.Invalidate(keys...)

	m.observe(mu.table+"."+string(mu.action), true)
	m.notifier.Notify(ctx, notify.Notification{Title: mu.success})
	if m.deliverer != nil {
		m.deliverer.Deliver(ctx, entry)
	}

	return nil
}

// reject reports a failed mutation, including input refused before any write,
// and returns the translated error.
func (m *Mutator) reject(ctx context.Context, table string, action model.Action, err error) error {
	err = translate(err)
	m.observe(table+"."+string(action), false)
	m.notifier.Notify(ctx, notify.Notification{
		Title:       "Error",
		Description: err.Error(),
		Variant:     notify.VariantDestructive,
	})
	return err
}
