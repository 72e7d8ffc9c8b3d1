package app

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"question-notifier/internal/adapters/repo"
	"question-notifier/internal/domain"
	"question-notifier/internal/infra/config"
	"question-notifier/internal/infra/db"
	"question-notifier/internal/usecase/notify"
)

// Closer освобождает ресурсы хранилища.
type Closer func()

// OpenStore подключает хранилище документов пользователей по STORE_DRIVER.
func OpenStore(ctx context.Context, cfg config.AppConfig, logger zerolog.Logger) (domain.UserStore, Closer, error) {
	switch cfg.Store.Driver {
	case "firestore":
		if cfg.Firebase.CredentialsFile == "" {
			logger.Info().Msg("store: GOOGLE_APPLICATION_CREDENTIALS не задан, используются Application Default Credentials")
		}
		if cfg.Firebase.APIKey != "" {
			logger.Warn().Msg("store: FIREBASE_API_KEY не даёт доступа серверному клиенту Firestore и игнорируется")
		}
		client, err := db.ConnectFirestore(ctx, db.FirestoreConfig{
			ProjectID:       cfg.Firebase.ProjectID,
			CredentialsFile: cfg.Firebase.CredentialsFile,
		})
		if err != nil {
			return nil, nil, fmt.Errorf("firestore: %w", err)
		}
		logger.Info().Str("project", cfg.Firebase.ProjectID).Msg("store: firestore подключён")
		return repo.NewFirestore(client), func() { _ = client.Close() }, nil
	case "postgres":
		pool, err := db.Connect(ctx, cfg.PGDSN)
		if err != nil {
			return nil, nil, fmt.Errorf("postgres: %w", err)
		}
		store := repo.NewPostgres(pool)
		if err := store.EnsureSchema(ctx); err != nil {
			pool.Close()
			return nil, nil, fmt.Errorf("postgres schema: %w", err)
		}
		logger.Info().Msg("store: postgres подключён")
		return store, pool.Close, nil
	case "sqlite":
		conn, err := db.OpenSQLite(ctx, cfg.Store.SQLitePath)
		if err != nil {
			return nil, nil, fmt.Errorf("sqlite: %w", err)
		}
		store := repo.NewSQLite(conn)
		if err := store.EnsureSchema(ctx); err != nil {
			_ = conn.Close()
			return nil, nil, fmt.Errorf("sqlite schema: %w", err)
		}
		logger.Info().Str("path", cfg.Store.SQLitePath).Msg("store: sqlite открыт")
		return store, func() { _ = conn.Close() }, nil
	default:
		return nil, nil, fmt.Errorf("unknown store driver %q", cfg.Store.Driver)
	}
}

// ServiceOptions переводит конфиг в настройки планировщика.
func ServiceOptions(cfg config.AppConfig) (notify.Options, error) {
	policy, err := domain.ParseRerollPolicy(cfg.Scheduler.RerollPolicy)
	if err != nil {
		return notify.Options{}, err
	}
	loc, err := cfg.Location()
	if err != nil {
		return notify.Options{}, fmt.Errorf("location: %w", err)
	}
	lockTTL := cfg.Scheduler.LockTTL
	if lockTTL <= 0 {
		lockTTL = 9 * time.Minute
	}
	return notify.Options{
		Collection:       cfg.Store.Collection,
		Policy:           policy,
		HourMin:          cfg.Scheduler.HourMin,
		HourMax:          cfg.Scheduler.HourMax,
		Window:           cfg.Window(),
		EnforceWindow:    cfg.Scheduler.EnforceWindow,
		WriteConcurrency: cfg.Scheduler.WriteConcurrency,
		Location:         loc,
		LockTTL:          lockTTL,
	}, nil
}
