package domain

import "time"

// NotificationWindow задаёт часы сервера, в которые допустимы уведомления, включительно.
type NotificationWindow struct {
	Start int
	End   int
}

// DefaultNotificationWindow охватывает часы с 9 до 18.
var DefaultNotificationWindow = NotificationWindow{Start: 9, End: 18}

// Contains сообщает, попадает ли час в окно.
func (w NotificationWindow) Contains(hour int) bool {
	return hour >= w.Start && hour <= w.End
}

// IsNotificationTime сообщает, совпадает ли текущий час с часом пользователя.
func IsNotificationTime(currentHour, userHour int) bool {
	return currentHour == userHour
}

// InNotificationWindow дополнительно требует, чтобы текущий час был внутри окна.
func InNotificationWindow(currentHour, userHour int, window NotificationWindow) bool {
	return window.Contains(currentHour) && IsNotificationTime(currentHour, userHour)
}

// IsWorkingDay возвращает true с понедельника по пятницу в локации t.
func IsWorkingDay(t time.Time) bool {
	switch t.Weekday() {
	case time.Saturday, time.Sunday:
		return false
	default:
		return true
	}
}

// DayKey возвращает календарный день t в виде YYYY-MM-DD.
func DayKey(t time.Time) string {
	return t.Format(time.DateOnly)
}
