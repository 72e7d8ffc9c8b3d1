package log

import (
	"bytes"
	"testing"

	"github.com/rs/zerolog"
)

func TestNewLoggerLevel(t *testing.T) {
	cases := []struct {
		env, level string
		want       zerolog.Level
	}{
		{"dev", "", zerolog.DebugLevel},
		{"prod", "", zerolog.InfoLevel},
		{"prod", "WARN", zerolog.WarnLevel},
		{"dev", "error", zerolog.ErrorLevel},
		{"prod", "chatty", zerolog.InfoLevel},
	}
	for _, tc := range cases {
		logger := newLogger(&bytes.Buffer{}, tc.env, tc.level)
		if got := logger.GetLevel(); got != tc.want {
			t.Fatalf("%s/%s: ожидали %s, получили %s", tc.env, tc.level, tc.want, got)
		}
	}
}

func TestNewLoggerWritesJSON(t *testing.T) {
	var buf bytes.Buffer
	logger := newLogger(&buf, "prod", "")
	logger.Debug().Msg("скрыто")
	logger.Info().Str("component", "scheduler").Msg("тик")
	out := buf.String()
	if bytes.Contains(buf.Bytes(), []byte("скрыто")) {
		t.Fatalf("debug не должен выводиться на уровне info: %s", out)
	}
	if !bytes.Contains(buf.Bytes(), []byte(`"component":"scheduler"`)) {
		t.Fatalf("ожидали поле component: %s", out)
	}
}
