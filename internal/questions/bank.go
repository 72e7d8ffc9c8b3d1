package questions

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

var (
	// ErrIndexOutOfRange возвращается при обращении к несуществующему вопросу.
	ErrIndexOutOfRange = errors.New("question index out of range")
	// ErrEmptyBank возвращается, если в файле нет ни одного вопроса.
	ErrEmptyBank = errors.New("question bank is empty")
)

// Bank хранит неизменяемый упорядоченный список вопросов.
type Bank struct {
	items []string
}

// Default возвращает встроенный банк вопросов.
func Default() *Bank {
	return &Bank{items: append([]string(nil), defaultQuestions...)}
}

// New создаёт банк из списка вопросов, проверяя пустые строки и дубликаты.
func New(items []string) (*Bank, error) {
	if len(items) == 0 {
		return nil, ErrEmptyBank
	}
	seen := make(map[string]int, len(items))
	out := make([]string, 0, len(items))
	for i, raw := range items {
		q := strings.TrimSpace(raw)
		if q == "" {
			return nil, fmt.Errorf("question %d is blank", i)
		}
		if prev, ok := seen[q]; ok {
			return nil, fmt.Errorf("question %d duplicates question %d", i, prev)
		}
		seen[q] = i
		out = append(out, q)
	}
	return &Bank{items: out}, nil
}

type bankFile struct {
	Questions []string `yaml:"questions"`
}

// LoadFile читает банк из YAML-файла вида `questions: [...]`.
func LoadFile(path string) (*Bank, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open questions file: %w", err)
	}
	defer f.Close()

	var file bankFile
	if err := yaml.NewDecoder(f).Decode(&file); err != nil {
		return nil, fmt.Errorf("decode questions file: %w", err)
	}
	return New(file.Questions)
}

// Load возвращает банк из файла или встроенный, если путь пустой.
func Load(path string) (*Bank, error) {
	if strings.TrimSpace(path) == "" {
		return Default(), nil
	}
	return LoadFile(path)
}

// Len возвращает количество вопросов.
func (b *Bank) Len() int {
	return len(b.items)
}

// At возвращает вопрос по индексу.
func (b *Bank) At(index int) (string, error) {
	if index < 0 || index >= len(b.items) {
		return "", fmt.Errorf("%w: %d of %d", ErrIndexOutOfRange, index, len(b.items))
	}
	return b.items[index], nil
}
