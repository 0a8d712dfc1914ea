package db

import (
	"context"
	"errors"
	"time"

	"accessd/internal/domain"

	"gorm.io/gorm"
)

type AccessLogRepository struct {
	db *gorm.DB
}

func NewAccessLogRepository(db *gorm.DB) *AccessLogRepository {
	return &AccessLogRepository{db: db}
}

func (r *AccessLogRepository) LatestByToken(ctx context.Context, qrid string) (*domain.AccessLogEntry, error) {
	if r.db == nil {
		return nil, errDBUnavailable
	}
	var model AccessLogModel
	err := r.db.WithContext(ctx).
		Where("qrid = ?", qrid).
		Order("timestamp DESC").
		First(&model).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	entry := accessLogFromModel(model)
	return &entry, nil
}

// Append inserts the entry only if the token's latest event type still
// matches what the caller observed. The application row is locked for the
// duration of the transaction so two guard stations scanning the same
// token serialize instead of double-toggling.
func (r *AccessLogRepository) Append(ctx context.Context, entry domain.AccessLogEntry, expectPrev domain.AccessEventType) (domain.AccessLogEntry, error) {
	if r.db == nil {
		return domain.AccessLogEntry{}, errDBUnavailable
	}
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var appID string
		err := tx.Raw("SELECT id FROM applications WHERE qrid = ? FOR UPDATE", entry.QRID).Scan(&appID).Error
		if err != nil {
			return err
		}
		if appID == "" {
			return domain.ErrNotFound
		}

		var current string
		err = tx.Raw(
			"SELECT event_type FROM access_logs WHERE qrid = ? ORDER BY timestamp DESC LIMIT 1",
			entry.QRID,
		).Scan(&current).Error
		if err != nil {
			return err
		}
		if current != string(expectPrev) {
			return domain.ErrConflict
		}

		model := AccessLogModel{
			ID:        entry.ID,
			QRID:      entry.QRID,
			EventType: string(entry.EventType),
			Timestamp: entry.Timestamp.UTC(),
		}
		return tx.Create(&model).Error
	})
	if err != nil {
		return domain.AccessLogEntry{}, err
	}
	return entry, nil
}

func (r *AccessLogRepository) ListBetween(ctx context.Context, from, to time.Time) ([]domain.AccessLogEntry, error) {
	if r.db == nil {
		return nil, errDBUnavailable
	}
	var models []AccessLogModel
	err := r.db.WithContext(ctx).
		Where("timestamp >= ? AND timestamp < ?", from.UTC(), to.UTC()).
		Order("timestamp ASC").
		Find(&models).Error
	if err != nil {
		return nil, err
	}
	out := make([]domain.AccessLogEntry, 0, len(models))
	for _, model := range models {
		out = append(out, accessLogFromModel(model))
	}
	return out, nil
}

func (r *AccessLogRepository) LatestPerToken(ctx context.Context) ([]domain.AccessLogEntry, error) {
	if r.db == nil {
		return nil, errDBUnavailable
	}
	var models []AccessLogModel
	err := r.db.WithContext(ctx).
		Raw("SELECT DISTINCT ON (qrid) id, qrid, event_type, timestamp FROM access_logs ORDER BY qrid, timestamp DESC").
		Scan(&models).Error
	if err != nil {
		return nil, err
	}
	out := make([]domain.AccessLogEntry, 0, len(models))
	for _, model := range models {
		out = append(out, accessLogFromModel(model))
	}
	return out, nil
}

func accessLogFromModel(model AccessLogModel) domain.AccessLogEntry {
	return domain.AccessLogEntry{
		ID:        model.ID,
		QRID:      model.QRID,
		EventType: domain.AccessEventType(model.EventType),
		Timestamp: model.Timestamp,
	}
}
