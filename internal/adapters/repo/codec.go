package repo

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"time"

	"question-notifier/internal/domain"
)

// decodeUser собирает domain.User из полей документа. Числа приходят как int64
// из Firestore и как float64/json.Number из JSON-хранилищ. Поле неожиданного
// типа обнуляется и попадает в DecodeIssues, остальные поля разбираются дальше.
func decodeUser(id string, data map[string]any) domain.User {
	u := domain.User{ID: id}
	note := func(err error) {
		u.DecodeIssues = append(u.DecodeIssues, err.Error())
	}

	u.IsSubmitted = truthy(data[domain.FieldIsSubmitted]) || truthy(data[domain.FieldIsSubmittedAlt])

	hour, err := hourField(data, domain.FieldRandomNotificationHour)
	if err != nil {
		note(err)
	}
	u.RandomNotificationHour = hour

	last, err := timeField(data, domain.FieldLastNotificationDate)
	if err != nil {
		note(err)
	}
	u.LastNotificationDate = last

	due, err := boolField(data, domain.FieldIsNotificationTime)
	if err != nil {
		note(err)
	}
	u.IsNotificationTime = due

	switch q := data[domain.FieldRandomQuestion].(type) {
	case nil:
	case string:
		u.RandomQuestion = q
	default:
		note(fmt.Errorf("field %s: unexpected type %T", domain.FieldRandomQuestion, q))
	}
	return u
}

// truthy повторяет правила истинности документов, которые пишет веб-клиент:
// ложны только отсутствующее значение, false, 0, NaN и пустая строка.
func truthy(v any) bool {
	switch x := v.(type) {
	case nil:
		return false
	case bool:
		return x
	case int:
		return x != 0
	case int64:
		return x != 0
	case float64:
		return x != 0 && !math.IsNaN(x)
	case json.Number:
		f, err := x.Float64()
		return err != nil || (f != 0 && !math.IsNaN(f))
	case string:
		return x != ""
	default:
		return true
	}
}

func boolField(data map[string]any, key string) (bool, error) {
	switch v := data[key].(type) {
	case nil:
		return false, nil
	case bool:
		return v, nil
	default:
		return false, fmt.Errorf("field %s: unexpected type %T", key, v)
	}
}

func hourField(data map[string]any, key string) (*int, error) {
	var n float64
	switch v := data[key].(type) {
	case nil:
		return nil, nil
	case int:
		n = float64(v)
	case int64:
		n = float64(v)
	case float64:
		n = v
	case json.Number:
		f, err := v.Float64()
		if err != nil {
			return nil, fmt.Errorf("field %s: %w", key, err)
		}
		n = f
	default:
		return nil, fmt.Errorf("field %s: unexpected type %T", key, v)
	}
	if n != math.Trunc(n) || n < 0 || n > 23 {
		return nil, fmt.Errorf("field %s: invalid hour %v", key, n)
	}
	hour := int(n)
	return &hour, nil
}

func timeField(data map[string]any, key string) (*time.Time, error) {
	switch v := data[key].(type) {
	case nil:
		return nil, nil
	case time.Time:
		ts := v.UTC()
		return &ts, nil
	case string:
		ts, err := time.Parse(time.RFC3339Nano, v)
		if err != nil {
			return nil, fmt.Errorf("field %s: %w", key, err)
		}
		ts = ts.UTC()
		return &ts, nil
	default:
		return nil, fmt.Errorf("field %s: unexpected type %T", key, v)
	}
}

// patchJSON кодирует патч для хранилищ, где документ лежит в JSON.
func patchJSON(patch domain.UserPatch) ([]byte, error) {
	fields := patch.Fields()
	if ts, ok := fields[domain.FieldLastNotificationDate].(time.Time); ok {
		fields[domain.FieldLastNotificationDate] = ts.Format(time.RFC3339Nano)
	}
	return json.Marshal(fields)
}

// decodeJSONUser разбирает документ из JSON, сохраняя числа как json.Number.
// Документ, который не является JSON-объектом, помечается как Unreadable.
func decodeJSONUser(id string, raw []byte) domain.User {
	var data map[string]any
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	if err := dec.Decode(&data); err != nil {
		return domain.User{
			ID:           id,
			Unreadable:   true,
			DecodeIssues: []string{fmt.Sprintf("document: %v", err)},
		}
	}
	return decodeUser(id, data)
}
