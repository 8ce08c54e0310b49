package domain

import (
	"errors"
	"fmt"
)

// ValidateBank checks assignment numbers are unique and every question has
// distinct options with exactly one of them matching the answer.
// All problems are reported together.
func ValidateBank(bank []Assignment) error {
	var problems []error
	seen := make(map[int]struct{}, len(bank))
	for _, a := range bank {
		if _, dup := seen[a.Number]; dup {
			problems = append(problems, fmt.Errorf("assignment %d: duplicate number", a.Number))
		}
		seen[a.Number] = struct{}{}

		for i, q := range a.Questions {
			if err := validateQuestion(q); err != nil {
				problems = append(problems, fmt.Errorf("assignment %d question %d: %w", a.Number, i+1, err))
			}
		}
	}
	if len(problems) == 0 {
		return nil
	}
	return fmt.Errorf("%w: %w", ErrInvalidBank, errors.Join(problems...))
}

func validateQuestion(q Question) error {
	if q.Prompt == "" {
		return errors.New("empty prompt")
	}
	if len(q.Options) < 2 {
		return errors.New("needs at least two options")
	}
	matches := 0
	distinct := make(map[string]struct{}, len(q.Options))
	for _, opt := range q.Options {
		if _, dup := distinct[opt]; dup {
			return fmt.Errorf("duplicate option %q", opt)
		}
		distinct[opt] = struct{}{}
		if opt == q.Answer {
			matches++
		}
	}
	if matches != 1 {
		return fmt.Errorf("answer %q is not one of the options", q.Answer)
	}
	return nil
}
