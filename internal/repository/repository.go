package repository

import (
	"context"
	"database/sql"

	"controlling_motor/internal/models"
)

// Authorization stores operator accounts.
type Authorization interface {
	Create(ctx context.Context, username, hash string) (int, error)
	GetByUsername(ctx context.Context, username string) (*models.User, error)
}

// ConfigRepo persists configuration as a flat key-value map.
type ConfigRepo interface {
	Load(ctx context.Context) (map[string]string, error)
	Save(ctx context.Context, kv map[string]string) error
}

// SessionRepo is the append-only log of finalized sessions.
type SessionRepo interface {
	Append(ctx context.Context, s models.Session) (models.Session, error)
	Recent(ctx context.Context, limit int) ([]models.Session, error)
}

type Repository struct {
	Config   ConfigRepo
	Sessions SessionRepo
	Auth     Authorization
}

func NewRepository(db *sql.DB) *Repository {
	return &Repository{
		Config:   NewConfigSQLite(db),
		Sessions: NewSessionSQLite(db),
		Auth:     NewUserRepository(db),
	}
}
