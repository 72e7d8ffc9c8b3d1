package repo

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"question-notifier/internal/domain"
	"question-notifier/internal/infra/db"
	"question-notifier/internal/questions"
	"question-notifier/internal/usecase/notify"
)

func newTestSQLite(t *testing.T) *SQLite {
	t.Helper()
	ctx := context.Background()
	conn, err := db.OpenSQLite(ctx, filepath.Join(t.TempDir(), "users.db"))
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	t.Cleanup(func() { _ = conn.Close() })

	store := NewSQLite(conn)
	if err := store.EnsureSchema(ctx); err != nil {
		t.Fatalf("schema: %v", err)
	}
	return store
}

func seedDocument(t *testing.T, s *SQLite, collection, id, data string) {
	t.Helper()
	_, err := s.db.Exec(`INSERT INTO documents (collection, id, data, updated_at) VALUES (?, ?, ?, 0)`, collection, id, data)
	if err != nil {
		t.Fatalf("seed: %v", err)
	}
}

func TestSQLiteListAll(t *testing.T) {
	s := newTestSQLite(t)
	seedDocument(t, s, "users", "a", `{"isSubmited": true}`)
	seedDocument(t, s, "users", "b", `{"randomNotificationHour": 12, "name": "Bob"}`)
	seedDocument(t, s, "admins", "x", `{}`)

	users, err := s.ListAll(context.Background(), "users")
	if err != nil {
		t.Fatalf("не ожидали ошибку: %v", err)
	}
	if len(users) != 2 {
		t.Fatalf("ожидали 2 пользователей, получили %d", len(users))
	}
	if users[0].ID != "a" || !users[0].IsSubmitted {
		t.Fatalf("неожиданный первый пользователь: %+v", users[0])
	}
	if users[1].RandomNotificationHour == nil || *users[1].RandomNotificationHour != 12 {
		t.Fatalf("ожидали час 12: %+v", users[1])
	}
}

func TestSQLiteUpdateFieldsIsPartial(t *testing.T) {
	s := newTestSQLite(t)
	ctx := context.Background()
	seedDocument(t, s, "users", "a", `{"isSubmited": true, "randomNotificationHour": 15, "name": "Alice"}`)

	question := "What kept you motivated today?"
	if err := s.UpdateFields(ctx, "users", "a", domain.UserPatch{RandomQuestion: &question}); err != nil {
		t.Fatalf("не ожидали ошибку: %v", err)
	}

	var raw string
	if err := s.db.QueryRow(`SELECT data FROM documents WHERE id = 'a'`).Scan(&raw); err != nil {
		t.Fatalf("select: %v", err)
	}
	u := decodeJSONUser("a", []byte(raw))
	if !u.IsSubmitted || *u.RandomNotificationHour != 15 || u.RandomQuestion != question {
		t.Fatalf("патч изменил лишние поля: %+v", u)
	}

	var name string
	if err := s.db.QueryRow(`SELECT json_extract(data, '$.name') FROM documents WHERE id = 'a'`).Scan(&name); err != nil {
		t.Fatalf("select name: %v", err)
	}
	if name != "Alice" {
		t.Fatalf("посторонний ключ потерян: %q", name)
	}
}

func TestSQLiteUpdateFieldsFullPatch(t *testing.T) {
	s := newTestSQLite(t)
	ctx := context.Background()
	seedDocument(t, s, "users", "b", `{}`)

	hour := 14
	due := true
	question := "What was the most challenging task today, and how did you approach it?"
	at := time.Date(2026, time.October, 15, 14, 5, 0, 0, time.UTC)
	patch := domain.UserPatch{RandomNotificationHour: &hour, LastNotificationDate: &at, IsNotificationTime: &due, RandomQuestion: &question}
	if err := s.UpdateFields(ctx, "users", "b", patch); err != nil {
		t.Fatalf("не ожидали ошибку: %v", err)
	}

	users, err := s.ListAll(ctx, "users")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	got := users[0]
	if *got.RandomNotificationHour != 14 || !got.IsNotificationTime || !got.LastNotificationDate.Equal(at) || got.RandomQuestion != question {
		t.Fatalf("документ записан неверно: %+v", got)
	}
}

func TestSQLiteUpdateMissingDocument(t *testing.T) {
	s := newTestSQLite(t)
	question := "q"
	err := s.UpdateFields(context.Background(), "users", "ghost", domain.UserPatch{RandomQuestion: &question})
	if !errors.Is(err, domain.ErrUserNotFound) {
		t.Fatalf("ожидали ErrUserNotFound, получили %v", err)
	}
}

func TestSQLiteTickSurvivesMalformedDocuments(t *testing.T) {
	s := newTestSQLite(t)
	ctx := context.Background()
	seedDocument(t, s, "users", "a_healthy", `{"randomNotificationHour": 12}`)
	seedDocument(t, s, "users", "b_bad", `{"lastNotificationDate": "2024-01-01 10:00:00", "isNotificationTime": "false", "randomNotificationHour": "12"}`)
	seedDocument(t, s, "users", "c_healthy", `{}`)
	seedDocument(t, s, "users", "d_broken", `{"randomNotificationHour": 12`)

	now := time.Date(2026, time.October, 15, 12, 5, 0, 0, time.UTC)
	opts := notify.DefaultOptions()
	opts.Location = time.UTC
	svc := notify.NewService(s, questions.Default(), zerolog.Nop(), opts,
		notify.WithClock(func() time.Time { return now }))

	res, err := svc.Tick(ctx)
	if err != nil {
		t.Fatalf("тик не должен падать из-за одного документа: %v", err)
	}
	if res.Updated != 3 || res.Unreadable != 1 {
		t.Fatalf("ожидали 3 записи и 1 нечитаемый документ: %+v", res)
	}

	var broken string
	if err := s.db.QueryRow(`SELECT data FROM documents WHERE id = 'd_broken'`).Scan(&broken); err != nil {
		t.Fatalf("select: %v", err)
	}
	if broken != `{"randomNotificationHour": 12` {
		t.Fatalf("нечитаемый документ не должен меняться: %s", broken)
	}

	users, err := s.ListAll(ctx, "users")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	byID := map[string]domain.User{}
	for _, u := range users {
		byID[u.ID] = u
	}
	for _, id := range []string{"a_healthy", "b_bad", "c_healthy"} {
		u := byID[id]
		if u.RandomQuestion != res.Question || u.LastNotificationDate == nil || !u.LastNotificationDate.Equal(now) {
			t.Fatalf("%s: документ не записан: %+v", id, u)
		}
		if u.RandomNotificationHour == nil || len(u.DecodeIssues) != 0 {
			t.Fatalf("%s: после записи документ должен быть корректным: %+v", id, u)
		}
	}
	if *byID["a_healthy"].RandomNotificationHour != 12 || !byID["a_healthy"].IsNotificationTime {
		t.Fatalf("час a_healthy должен сохраниться и совпасть с текущим: %+v", byID["a_healthy"])
	}
	if h := *byID["b_bad"].RandomNotificationHour; h < 10 || h > 16 {
		t.Fatalf("некорректный час b_bad должен быть сгенерирован заново, получили %d", h)
	}
}
