package questions

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultBank(t *testing.T) {
	bank := Default()
	if bank.Len() != 51 {
		t.Fatalf("ожидали 51 вопрос, получили %d", bank.Len())
	}
	if _, err := New(defaultQuestions); err != nil {
		t.Fatalf("встроенный банк должен быть без дубликатов: %v", err)
	}
	first, err := bank.At(0)
	if err != nil {
		t.Fatalf("не ожидали ошибку: %v", err)
	}
	if first != "What aspect of today's workflow do you think went really well?" {
		t.Fatalf("неожиданный первый вопрос: %q", first)
	}
	if _, err := bank.At(bank.Len()); !errors.Is(err, ErrIndexOutOfRange) {
		t.Fatalf("ожидали ErrIndexOutOfRange, получили %v", err)
	}
	if _, err := bank.At(-1); !errors.Is(err, ErrIndexOutOfRange) {
		t.Fatalf("ожидали ErrIndexOutOfRange, получили %v", err)
	}
}

func TestNewRejectsInvalid(t *testing.T) {
	if _, err := New(nil); !errors.Is(err, ErrEmptyBank) {
		t.Fatalf("ожидали ErrEmptyBank, получили %v", err)
	}
	if _, err := New([]string{"a", " "}); err == nil {
		t.Fatalf("ожидали ошибку для пустого вопроса")
	}
	if _, err := New([]string{"a", "b", "a"}); err == nil {
		t.Fatalf("ожидали ошибку для дубликата")
	}
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "questions.yaml")
	content := "questions:\n  - How was your day?\n  - What did you learn?\n"
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}
	bank, err := Load(path)
	if err != nil {
		t.Fatalf("не ожидали ошибку: %v", err)
	}
	if bank.Len() != 2 {
		t.Fatalf("ожидали 2 вопроса, получили %d", bank.Len())
	}
	second, _ := bank.At(1)
	if second != "What did you learn?" {
		t.Fatalf("неожиданный вопрос: %q", second)
	}

	fallback, err := Load("")
	if err != nil || fallback.Len() != 51 {
		t.Fatalf("ожидали встроенный банк, получили %v, %v", fallback, err)
	}
}
