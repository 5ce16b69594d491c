package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"studyzen-backend/internal/models"
)

var (
	// ErrDuplicateUser is returned by Create when the uid already has a
	// record. Callers are expected to Load first; there is no upsert.
	ErrDuplicateUser = errors.New("a profile for this uid already exists")

	// ErrProfileNotFound is returned by UpdateStats when no record
	// exists for the uid. A record is always created at login, so this
	// is a precondition violation for callers to log, not retry.
	ErrProfileNotFound = errors.New("profile does not exist")
)

// historyPersistLimit caps how much history a single write mirrors to
// the store. In-memory history is unbounded for the lifetime of a
// login; the store keeps the newest records only.
const historyPersistLimit = 1000

type ProfileRepo struct {
	pool *pgxpool.Pool
}

func NewProfileRepo(pool *pgxpool.Pool) *ProfileRepo {
	return &ProfileRepo{pool: pool}
}

// Load fetches a stored profile with its history, most recent first.
// A missing uid yields (nil, nil, nil), not an error.
func (r *ProfileRepo) Load(ctx context.Context, uid string) (*models.UserProfile, []models.SessionRecord, error) {
	profile := &models.UserProfile{}
	var theme string
	err := r.pool.QueryRow(ctx, `
		SELECT uid, display_name, email, theme, total_focus_minutes, total_sessions_completed, created_at, last_login_at
		FROM profiles WHERE uid = $1
	`, uid).Scan(
		&profile.UID, &profile.DisplayName, &profile.Email, &theme,
		&profile.TotalFocusMinutes, &profile.TotalSessionsCompleted,
		&profile.CreatedAt, &profile.LastLoginAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil, nil
	}
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load profile %s: %w", uid, err)
	}

	profile.Theme = models.ThemePink
	if t, parseErr := models.ParseTheme(theme); parseErr == nil {
		profile.Theme = t
	}

	rows, err := r.pool.Query(ctx, `
		SELECT id, subject, duration_minutes, completed_at, color_tag, icon, category_tag
		FROM session_records
		WHERE uid = $1
		ORDER BY completed_at DESC
	`, uid)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load history for %s: %w", uid, err)
	}
	defer rows.Close()

	history := make([]models.SessionRecord, 0)
	for rows.Next() {
		var rec models.SessionRecord
		if scanErr := rows.Scan(
			&rec.ID, &rec.SubjectLabel, &rec.DurationMinutes,
			&rec.CompletedAt, &rec.ColorTag, &rec.Icon, &rec.CategoryTag,
		); scanErr != nil {
			return nil, nil, scanErr
		}
		history = append(history, rec)
	}
	if rows.Err() != nil {
		return nil, nil, rows.Err()
	}

	return profile, history, nil
}

// Create inserts a new profile record with its (usually empty)
// starting history.
func (r *ProfileRepo) Create(ctx context.Context, profile *models.UserProfile, history []models.SessionRecord) error {
	err := r.pool.QueryRow(ctx, `
		INSERT INTO profiles (uid, display_name, email, theme)
		VALUES ($1, $2, $3, $4)
		RETURNING created_at
	`, profile.UID, profile.DisplayName, profile.Email, string(profile.Theme)).Scan(&profile.CreatedAt)

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		return ErrDuplicateUser
	}
	if err != nil {
		return fmt.Errorf("failed to create profile %s: %w", profile.UID, err)
	}

	return r.insertRecords(ctx, profile.UID, history)
}

// UpdateStats writes the lifetime totals and mirrors the newest
// history records. The profile record must already exist.
func (r *ProfileRepo) UpdateStats(ctx context.Context, uid string, totalMinutes, sessionsCount int, history []models.SessionRecord) error {
	tag, err := r.pool.Exec(ctx, `
		UPDATE profiles
		SET total_focus_minutes = $2,
			total_sessions_completed = $3
		WHERE uid = $1
	`, uid, totalMinutes, sessionsCount)
	if err != nil {
		return fmt.Errorf("failed to update stats for %s: %w", uid, err)
	}
	if tag.RowsAffected() == 0 {
		return ErrProfileNotFound
	}

	if len(history) > historyPersistLimit {
		history = history[:historyPersistLimit]
	}
	return r.insertRecords(ctx, uid, history)
}

func (r *ProfileRepo) UpdateLastLogin(ctx context.Context, uid string) error {
	_, err := r.pool.Exec(ctx, "UPDATE profiles SET last_login_at = NOW() WHERE uid = $1", uid)
	return err
}

func (r *ProfileRepo) UpdateDisplayName(ctx context.Context, uid, displayName string) error {
	tag, err := r.pool.Exec(ctx, "UPDATE profiles SET display_name = $2 WHERE uid = $1", uid, displayName)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrProfileNotFound
	}
	return nil
}

func (r *ProfileRepo) UpdateTheme(ctx context.Context, uid string, theme models.Theme) error {
	tag, err := r.pool.Exec(ctx, "UPDATE profiles SET theme = $2 WHERE uid = $1", uid, string(theme))
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrProfileNotFound
	}
	return nil
}

// insertRecords mirrors history records, skipping ones already stored.
// Records are immutable, so conflict-skip is safe.
func (r *ProfileRepo) insertRecords(ctx context.Context, uid string, history []models.SessionRecord) error {
	if len(history) == 0 {
		return nil
	}

	batch := &pgx.Batch{}
	for _, rec := range history {
		batch.Queue(`
			INSERT INTO session_records (id, uid, subject, duration_minutes, completed_at, color_tag, icon, category_tag)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
			ON CONFLICT (id) DO NOTHING
		`, rec.ID, uid, rec.SubjectLabel, rec.DurationMinutes, rec.CompletedAt, rec.ColorTag, rec.Icon, rec.CategoryTag)
	}

	results := r.pool.SendBatch(ctx, batch)
	defer results.Close()
	for range history {
		if _, err := results.Exec(); err != nil {
			return fmt.Errorf("failed to mirror history for %s: %w", uid, err)
		}
	}
	return nil
}
