package practice

import "iot-practice-service/internal/domain"

// SelectAll picks every assignment in the bank.
const SelectAll = "all"

// SelectQuestions returns the candidate list for a selection: every question
// in bank order for SelectAll, otherwise the questions of the assignment whose
// ID matches. An unknown selection yields an empty list. The result never
// aliases the bank.
func SelectQuestions(bank []domain.Assignment, selection string) []domain.Question {
	if selection == SelectAll {
		out := make([]domain.Question, 0, domain.QuestionCount(bank))
		for _, a := range bank {
			out = append(out, a.Questions...)
		}
		return out
	}
	for _, a := range bank {
		if a.ID() == selection {
			return append(make([]domain.Question, 0, len(a.Questions)), a.Questions...)
		}
	}
	return []domain.Question{}
}

// DefaultSelection is the first assignment's ID, or "" for an empty bank.
func DefaultSelection(bank []domain.Assignment) string {
	if len(bank) == 0 {
		return ""
	}
	return bank[0].ID()
}
