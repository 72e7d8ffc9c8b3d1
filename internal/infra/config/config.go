package config

import (
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"

	"question-notifier/internal/domain"
)

// AppConfig описывает конфигурацию сервисов.
type AppConfig struct {
	AppEnv      string `envconfig:"APP_ENV" default:"dev"`
	LogLevel    string `envconfig:"LOG_LEVEL"`
	TZ          string `envconfig:"TZ"`
	HTTPAddr    string `envconfig:"HTTP_ADDR" default:":8080"`
	AdminToken  string `envconfig:"ADMIN_TOKEN"`

	Firebase struct {
		APIKey            string `envconfig:"FIREBASE_API_KEY"`
		AuthDomain        string `envconfig:"FIREBASE_AUTH_DOMAIN"`
		ProjectID         string `envconfig:"FIREBASE_PROJECT_ID"`
		StorageBucket     string `envconfig:"FIREBASE_STORAGE_BUCKET"`
		MessagingSenderID string `envconfig:"FIREBASE_MESSAGING_SENDER_ID"`
		AppID             string `envconfig:"FIREBASE_APP_ID"`
		MeasurementID     string `envconfig:"FIREBASE_MEASUREMENT_ID"`
		CredentialsFile   string `envconfig:"GOOGLE_APPLICATION_CREDENTIALS"`
	} `envconfig:""`

	Store struct {
		Driver     string `envconfig:"STORE_DRIVER" default:"firestore"`
		Collection string `envconfig:"USERS_COLLECTION" default:"users"`
		SQLitePath string `envconfig:"SQLITE_PATH" default:"./data/users.db"`
	} `envconfig:""`

	PGDSN string `envconfig:"PG_DSN"`

	RedisAddr   string `envconfig:"REDIS_ADDR"`
	RedisPrefix string `envconfig:"REDIS_PREFIX" default:"question-notifier"`

	RabbitURL string `envconfig:"RABBITMQ_URL"`

	Queues struct {
		Driver string `envconfig:"NOTIFY_QUEUE_DRIVER" default:"rabbitmq"`
		Due    string `envconfig:"NOTIFY_QUEUE" default:"notifications_due"`
	} `envconfig:""`

	Scheduler struct {
		Schedule         string        `envconfig:"TICK_SCHEDULE" default:"@every 10m"`
		RunOnStart       bool          `envconfig:"TICK_RUN_ON_START" default:"false"`
		LockTTL          time.Duration `envconfig:"TICK_LOCK_TTL" default:"9m"`
		RerollPolicy     string        `envconfig:"QUESTION_REROLL_POLICY" default:"every_tick"`
		QuestionsFile    string        `envconfig:"QUESTIONS_FILE"`
		HourMin          int           `envconfig:"NOTIFY_HOUR_MIN" default:"10"`
		HourMax          int           `envconfig:"NOTIFY_HOUR_MAX" default:"16"`
		WindowStart      int           `envconfig:"NOTIFY_WINDOW_START" default:"9"`
		WindowEnd        int           `envconfig:"NOTIFY_WINDOW_END" default:"18"`
		EnforceWindow    bool          `envconfig:"NOTIFY_ENFORCE_WINDOW" default:"false"`
		WriteConcurrency int           `envconfig:"WRITE_CONCURRENCY" default:"1"`
	} `envconfig:""`
}

// Load загружает конфиг из окружения.
func Load() AppConfig {
	cfg, err := Parse()
	if err != nil {
		log.Fatalf("не удалось загрузить конфиг: %v", err)
	}
	return cfg
}

// Parse читает и проверяет конфиг, не завершая процесс.
func Parse() (AppConfig, error) {
	var cfg AppConfig
	if err := envconfig.Process("", &cfg); err != nil {
		return cfg, err
	}
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// Validate проверяет диапазоны и перечисления.
func (c AppConfig) Validate() error {
	s := c.Scheduler
	if s.HourMin < 0 || s.HourMax > 23 || s.HourMin > s.HourMax {
		return fmt.Errorf("invalid notification hours [%d, %d]", s.HourMin, s.HourMax)
	}
	if s.WindowStart < 0 || s.WindowEnd > 23 || s.WindowStart > s.WindowEnd {
		return fmt.Errorf("invalid notification window [%d, %d]", s.WindowStart, s.WindowEnd)
	}
	if s.WriteConcurrency < 1 {
		return fmt.Errorf("WRITE_CONCURRENCY must be positive, got %d", s.WriteConcurrency)
	}
	if _, err := domain.ParseRerollPolicy(s.RerollPolicy); err != nil {
		return err
	}
	switch c.Store.Driver {
	case "firestore":
		if c.Firebase.ProjectID == "" {
			return fmt.Errorf("FIREBASE_PROJECT_ID is required for firestore store")
		}
	case "postgres":
		if c.PGDSN == "" {
			return fmt.Errorf("PG_DSN is required for postgres store")
		}
	case "sqlite":
	default:
		return fmt.Errorf("unknown STORE_DRIVER %q", c.Store.Driver)
	}
	switch c.Queues.Driver {
	case "rabbitmq", "redis":
	default:
		return fmt.Errorf("unknown NOTIFY_QUEUE_DRIVER %q", c.Queues.Driver)
	}
	if strings.TrimSpace(c.TZ) != "" {
		if _, err := NormalizeTimezone(c.TZ); err != nil {
			return fmt.Errorf("TZ %q: %w", c.TZ, err)
		}
	}
	return nil
}

// Location возвращает пояс для расчёта часа уведомления. Без TZ берутся часы сервера.
func (c AppConfig) Location() (*time.Location, error) {
	if strings.TrimSpace(c.TZ) == "" {
		return time.Local, nil
	}
	name, err := NormalizeTimezone(c.TZ)
	if err != nil {
		return nil, err
	}
	return time.LoadLocation(name)
}

// Window возвращает окно уведомлений.
func (c AppConfig) Window() domain.NotificationWindow {
	return domain.NotificationWindow{Start: c.Scheduler.WindowStart, End: c.Scheduler.WindowEnd}
}
