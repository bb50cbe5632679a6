package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/ferrypratamaa-00/monii-sub001/internal/domain"
)

// PreferenceRepo stores explicit preference rows keyed by (user, type).
type PreferenceRepo struct {
	db *sql.DB
}

func NewPreferenceRepo(db *sql.DB) *PreferenceRepo {
	return &PreferenceRepo{db: db}
}

func (r *PreferenceRepo) ListByUser(ctx context.Context, userID int64) ([]domain.NotificationPreference, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT notification_type, email_enabled, sound_enabled, push_enabled, updated_at
		 FROM notification_preferences WHERE user_id = ? ORDER BY notification_type`, userID)
	if err != nil {
		return nil, fmt.Errorf("query preferences: %w", err)
	}
	defer rows.Close()

	var out []domain.NotificationPreference
	for rows.Next() {
		var (
			typ                string
			email, sound, push int
			updatedAt          int64
		)
		if err := rows.Scan(&typ, &email, &sound, &push, &updatedAt); err != nil {
			return nil, fmt.Errorf("scan preference: %w", err)
		}
		out = append(out, domain.NotificationPreference{
			UserID:           userID,
			NotificationType: domain.NotificationType(typ),
			EmailEnabled:     email != 0,
			SoundEnabled:     sound != 0,
			PushEnabled:      push != 0,
			UpdatedAt:        time.Unix(0, updatedAt).UTC(),
		})
	}
	return out, rows.Err()
}

// PutAll upserts every row inside one transaction.
func (r *PreferenceRepo) PutAll(ctx context.Context, userID int64, prefs []domain.NotificationPreference) (err error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin preferences tx: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO notification_preferences
		    (user_id, notification_type, email_enabled, sound_enabled, push_enabled, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT (user_id, notification_type) DO UPDATE SET
		    email_enabled = excluded.email_enabled,
		    sound_enabled = excluded.sound_enabled,
		    push_enabled = excluded.push_enabled,
		    updated_at = excluded.updated_at`)
	if err != nil {
		return fmt.Errorf("prepare preference upsert: %w", err)
	}
	defer stmt.Close()

	for _, p := range prefs {
		if _, err = stmt.ExecContext(ctx, userID, string(p.NotificationType),
			boolToInt(p.EmailEnabled), boolToInt(p.SoundEnabled), boolToInt(p.PushEnabled),
			p.UpdatedAt.UnixNano()); err != nil {
			return fmt.Errorf("upsert preference %s: %w", p.NotificationType, err)
		}
	}
	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit preferences: %w", err)
	}
	return nil
}
