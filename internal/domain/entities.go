package domain

import "time"

// Ключи полей документа пользователя. isSubmited записан с опечаткой в
// существующих данных, поэтому читаем оба варианта, а пишем только остальные поля.
const (
	FieldIsSubmitted            = "isSubmited"
	FieldIsSubmittedAlt         = "isSubmitted"
	FieldRandomNotificationHour = "randomNotificationHour"
	FieldLastNotificationDate   = "lastNotificationDate"
	FieldIsNotificationTime     = "isNotificationTime"
	FieldRandomQuestion         = "randomQuestion"
)

// DefaultUsersCollection хранит документы пользователей.
const DefaultUsersCollection = "users"

// User описывает документ пользователя во внешнем хранилище.
type User struct {
	ID                     string
	IsSubmitted            bool
	RandomNotificationHour *int
	LastNotificationDate   *time.Time
	IsNotificationTime     bool
	RandomQuestion         string

	// DecodeIssues перечисляет поля документа, которые не удалось разобрать и которые были обнулены.
	DecodeIssues []string
	// Unreadable: документ целиком не разбирается, записывать в него нельзя.
	Unreadable bool
}

// UserPatch описывает частичное обновление документа. Записываются только заданные поля.
type UserPatch struct {
	RandomNotificationHour *int
	LastNotificationDate   *time.Time
	IsNotificationTime     *bool
	RandomQuestion         *string
}

// Empty сообщает, что в патче нет ни одного поля.
func (p UserPatch) Empty() bool {
	return p.RandomNotificationHour == nil &&
		p.LastNotificationDate == nil &&
		p.IsNotificationTime == nil &&
		p.RandomQuestion == nil
}

// Fields возвращает патч в виде набора ключей документа.
func (p UserPatch) Fields() map[string]any {
	fields := make(map[string]any, 4)
	if p.RandomNotificationHour != nil {
		fields[FieldRandomNotificationHour] = *p.RandomNotificationHour
	}
	if p.LastNotificationDate != nil {
		fields[FieldLastNotificationDate] = p.LastNotificationDate.UTC()
	}
	if p.IsNotificationTime != nil {
		fields[FieldIsNotificationTime] = *p.IsNotificationTime
	}
	if p.RandomQuestion != nil {
		fields[FieldRandomQuestion] = *p.RandomQuestion
	}
	return fields
}

// Apply возвращает копию пользователя с применённым патчем.
func (p UserPatch) Apply(u User) User {
	if p.RandomNotificationHour != nil {
		hour := *p.RandomNotificationHour
		u.RandomNotificationHour = &hour
	}
	if p.LastNotificationDate != nil {
		ts := *p.LastNotificationDate
		u.LastNotificationDate = &ts
	}
	if p.IsNotificationTime != nil {
		u.IsNotificationTime = *p.IsNotificationTime
	}
	if p.RandomQuestion != nil {
		u.RandomQuestion = *p.RandomQuestion
	}
	return u
}

// NotificationDue публикуется, когда у пользователя наступил час уведомления.
type NotificationDue struct {
	ID       string    `json:"event_id"`
	TickID   string    `json:"tick_id"`
	UserID   string    `json:"user_id"`
	Hour     int       `json:"hour"`
	Question string    `json:"question"`
	DueAt    time.Time `json:"due_at"`
}
