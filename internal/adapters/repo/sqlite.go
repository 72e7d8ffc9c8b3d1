package repo

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"question-notifier/internal/domain"
	"question-notifier/internal/infra/metrics"
)

// SQLite хранит документы пользователей в локальном файле, данные: JSON-текст.
type SQLite struct {
	db *sql.DB
}

var _ domain.UserStore = (*SQLite)(nil)

// NewSQLite создаёт адаптер поверх открытой базы.
func NewSQLite(db *sql.DB) *SQLite {
	return &SQLite{db: db}
}

// EnsureSchema создаёт таблицу документов, если её нет.
func (s *SQLite) EnsureSchema(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, `
CREATE TABLE IF NOT EXISTS documents (
	collection TEXT NOT NULL,
	id         TEXT NOT NULL,
	data       TEXT NOT NULL DEFAULT '{}',
	updated_at INTEGER NOT NULL,
	PRIMARY KEY (collection, id)
)`)
	return err
}

// ListAll реализует domain.UserStore.
func (s *SQLite) ListAll(ctx context.Context, collection string) ([]domain.User, error) {
	start := time.Now()
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, data FROM documents
		WHERE collection = ?
		ORDER BY id`,
		collection,
	)
	metrics.ObserveNetworkRequest("sqlite", "documents_list", collection, start, err)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var users []domain.User
	for rows.Next() {
		var id, raw string
		if err := rows.Scan(&id, &raw); err != nil {
			return nil, err
		}
		users = append(users, decodeJSONUser(id, []byte(raw)))
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return users, nil
}

// UpdateFields применяет патч через json_patch; остальные ключи не меняются.
func (s *SQLite) UpdateFields(ctx context.Context, collection, id string, patch domain.UserPatch) error {
	if patch.Empty() {
		return nil
	}
	payload, err := patchJSON(patch)
	if err != nil {
		return fmt.Errorf("marshal patch: %w", err)
	}

	start := time.Now()
	res, err := s.db.ExecContext(ctx, `
		UPDATE documents
		SET data = json_patch(data, ?), updated_at = ?
		WHERE collection = ? AND id = ?`,
		string(payload), time.Now().UTC().Unix(), collection, id,
	)
	metrics.ObserveNetworkRequest("sqlite", "documents_update", collection, start, err)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return fmt.Errorf("%w: %s/%s", domain.ErrUserNotFound, collection, id)
	}
	return nil
}
