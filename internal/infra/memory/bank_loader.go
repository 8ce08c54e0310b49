package memory

import (
	"context"
	_ "embed"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"iot-practice-service/internal/domain"
)

//go:embed default_bank.json
var defaultBankJSON []byte

// StaticBankLoader is a loader backed by an in-memory map (useful for tests/demos).
type StaticBankLoader struct {
	banks map[string][]domain.Assignment
}

func NewStaticBankLoader(banks map[string][]domain.Assignment) *StaticBankLoader {
	return &StaticBankLoader{banks: banks}
}

func (l *StaticBankLoader) LoadBank(_ context.Context, bankID string) ([]domain.Assignment, error) {
	if bank, ok := l.banks[bankID]; ok {
		return bank, nil
	}
	return nil, domain.ErrBankNotFound
}

// ParseBank decodes and validates a JSON bank: a list of
// {assignmentNumber, topic, questions: [{question, options, answer}]}.
func ParseBank(r io.Reader) ([]domain.Assignment, error) {
	var bank []domain.Assignment
	if err := json.NewDecoder(r).Decode(&bank); err != nil {
		return nil, fmt.Errorf("decode bank: %w", err)
	}
	if err := domain.ValidateBank(bank); err != nil {
		return nil, err
	}
	return bank, nil
}

// LoadBankFile reads a JSON bank from path.
func LoadBankFile(path string) ([]domain.Assignment, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	bank, err := ParseBank(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return bank, nil
}

// DefaultBank is the embedded Internet of Things sample bank.
func DefaultBank() []domain.Assignment {
	var bank []domain.Assignment
	if err := json.Unmarshal(defaultBankJSON, &bank); err != nil {
		panic(fmt.Sprintf("embedded bank: %v", err))
	}
	return bank
}
