package repo

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"question-notifier/internal/domain"
	"question-notifier/internal/infra/metrics"
)

// Postgres хранит документы пользователей в JSONB-таблице documents.
type Postgres struct {
	pool *pgxpool.Pool
}

var _ domain.UserStore = (*Postgres)(nil)

// NewPostgres создаёт адаптер БД.
func NewPostgres(pool *pgxpool.Pool) *Postgres {
	return &Postgres{pool: pool}
}

func (p *Postgres) connCtx(ctx context.Context) (context.Context, context.CancelFunc) {
	if _, ok := ctx.Deadline(); ok {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, 5*time.Second)
}

// EnsureSchema создаёт таблицу документов, если её нет.
func (p *Postgres) EnsureSchema(ctx context.Context) error {
	ctx, cancel := p.connCtx(ctx)
	defer cancel()

	start := time.Now()
	_, err := p.pool.Exec(ctx, `
CREATE TABLE IF NOT EXISTS documents (
	collection TEXT NOT NULL,
	id TEXT NOT NULL,
	data JSONB NOT NULL DEFAULT '{}'::jsonb,
	updated_at TIMESTAMPTZ NOT NULL DEFAULT now(),
	PRIMARY KEY (collection, id)
)`)
	metrics.ObserveNetworkRequest("postgres", "ensure_schema", "documents", start, err)
	return err
}

// ListAll реализует domain.UserStore.
func (p *Postgres) ListAll(ctx context.Context, collection string) ([]domain.User, error) {
	ctx, cancel := p.connCtx(ctx)
	defer cancel()

	start := time.Now()
	rows, err := p.pool.Query(ctx, `
SELECT id, data FROM documents WHERE collection = $1 ORDER BY id
`, collection)
	metrics.ObserveNetworkRequest("postgres", "documents_list", collection, start, err)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var users []domain.User
	for rows.Next() {
		var (
			id  string
			raw []byte
		)
		if err := rows.Scan(&id, &raw); err != nil {
			return nil, err
		}
		users = append(users, decodeJSONUser(id, raw))
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return users, nil
}

// UpdateFields сливает патч с документом; остальные ключи не меняются.
func (p *Postgres) UpdateFields(ctx context.Context, collection, id string, patch domain.UserPatch) error {
	if patch.Empty() {
		return nil
	}
	payload, err := patchJSON(patch)
	if err != nil {
		return fmt.Errorf("marshal patch: %w", err)
	}

	ctx, cancel := p.connCtx(ctx)
	defer cancel()

	start := time.Now()
	tag, err := p.pool.Exec(ctx, `
UPDATE documents SET data = data || $3::jsonb, updated_at = now()
WHERE collection = $1 AND id = $2
`, collection, id, payload)
	metrics.ObserveNetworkRequest("postgres", "documents_update", collection, start, err)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: %s/%s", domain.ErrUserNotFound, collection, id)
	}
	return nil
}
