package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"controlling_motor/internal/models"
)

// SessionSQLite is the append-only session log.
type SessionSQLite struct {
	db *sql.DB
}

func NewSessionSQLite(db *sql.DB) *SessionSQLite { return &SessionSQLite{db: db} }

var _ SessionRepo = (*SessionSQLite)(nil)

const (
	insertSessionSQL = `
		INSERT INTO sessions (id, recorded_at, start_epoch, end_epoch, duration_s, energy_wh, peak_power_w, peak_current_a, success)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	selectRecentSessionsSQL = `
		SELECT id, start_epoch, end_epoch, duration_s, energy_wh, peak_power_w, peak_current_a, success
		FROM sessions ORDER BY rowid DESC LIMIT ?
	`
)

// Append stores s and returns it with its assigned ID.
func (r *SessionSQLite) Append(ctx context.Context, s models.Session) (models.Session, error) {
	if s.ID == "" {
		s.ID = uuid.NewString()
	}
	_, err := r.db.ExecContext(ctx, insertSessionSQL,
		s.ID,
		time.Now().UTC().Format("2006-01-02 15:04:05"),
		s.StartEpoch,
		s.EndEpoch,
		s.DurationS,
		s.EnergyWh,
		s.PeakPowerW,
		s.PeakCurrentA,
		s.Success,
	)
	if err != nil {
		return s, fmt.Errorf("insert session %s: %w", s.ID, err)
	}
	return s, nil
}

// Recent returns up to limit newest sessions, oldest first.
func (r *SessionSQLite) Recent(ctx context.Context, limit int) ([]models.Session, error) {
	if limit <= 0 {
		return []models.Session{}, nil
	}
	rows, err := r.db.QueryContext(ctx, selectRecentSessionsSQL, limit)
	if err != nil {
		return nil, fmt.Errorf("select sessions: %w", err)
	}
	defer rows.Close()

	out := make([]models.Session, 0, limit)
	for rows.Next() {
		var s models.Session
		if err := rows.Scan(&s.ID, &s.StartEpoch, &s.EndEpoch, &s.DurationS,
			&s.EnergyWh, &s.PeakPowerW, &s.PeakCurrentA, &s.Success); err != nil {
			return nil, fmt.Errorf("scan session: %w", err)
		}
		out = append(out, s)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	for i, j := 0, len(out)-1; i < j; i, j = i+1, j-1 {
		out[i], out[j] = out[j], out[i]
	}
	return out, nil
}
