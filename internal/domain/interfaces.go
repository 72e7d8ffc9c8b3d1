package domain

import (
	"context"
	"errors"
	"time"
)

var (
	// ErrFetchUsers возвращается, если не удалось прочитать пользователей.
	ErrFetchUsers = errors.New("fetch users failed")
	// ErrUpdateUser возвращается, если не удалось записать документ пользователя.
	ErrUpdateUser = errors.New("update user failed")
	// ErrUserNotFound возвращается хранилищем при обновлении несуществующего документа.
	ErrUserNotFound = errors.New("user not found")
)

// UserStore читает и частично обновляет документы пользователей.
type UserStore interface {
	// ListAll читает всю коллекцию без фильтрации и пагинации.
	ListAll(ctx context.Context, collection string) ([]User, error)
	// UpdateFields меняет только перечисленные в патче поля документа.
	UpdateFields(ctx context.Context, collection, id string, patch UserPatch) error
}

// NotificationPublisher публикует события о наступившем часе уведомления.
type NotificationPublisher interface {
	PublishDue(ctx context.Context, event NotificationDue) error
}

// TickLock не даёт нескольким репликам выполнять один и тот же тик.
type TickLock interface {
	// TryLock возвращает false без ошибки, если блокировку уже держит кто-то другой.
	TryLock(ctx context.Context, key string, ttl time.Duration) (bool, error)
	Unlock(ctx context.Context, key string) error
}

// QuestionStateStore хранит выбранный на день индекс вопроса между перезапусками.
type QuestionStateStore interface {
	// LoadDayIndex возвращает индекс за день и false, если его ещё нет.
	LoadDayIndex(ctx context.Context, day string) (int, bool, error)
	SaveDayIndex(ctx context.Context, day string, index int) error
}
