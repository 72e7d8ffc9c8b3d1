package domain

import (
	"fmt"
	"strings"
)

// RerollPolicy определяет, когда выбирается новый общий вопрос.
type RerollPolicy string

const (
	// RerollEveryTick выбирает новый вопрос на каждом тике рабочего дня.
	RerollEveryTick RerollPolicy = "every_tick"
	// RerollDaily оставляет один вопрос на рабочий календарный день.
	RerollDaily RerollPolicy = "daily"
)

var policies = map[RerollPolicy]struct{}{
	RerollEveryTick: {},
	RerollDaily:     {},
}

// ParseRerollPolicy разбирает политику из конфигурации. Пустое значение: every_tick.
func ParseRerollPolicy(raw string) (RerollPolicy, error) {
	candidate := RerollPolicy(strings.ToLower(strings.TrimSpace(raw)))
	if candidate == "" {
		return RerollEveryTick, nil
	}
	if _, ok := policies[candidate]; ok {
		return candidate, nil
	}
	return "", fmt.Errorf("unknown reroll policy %q", raw)
}

// ShouldReroll решает, нужен ли новый индекс вопроса.
// currentIndex < 0 означает, что вопрос ещё не выбран; rolledDay: день предыдущего выбора.
func (p RerollPolicy) ShouldReroll(currentIndex int, rolledDay, today string, workingDay bool) bool {
	if currentIndex < 0 {
		return true
	}
	if !workingDay {
		return false
	}
	if p == RerollDaily {
		return rolledDay != today
	}
	return true
}
