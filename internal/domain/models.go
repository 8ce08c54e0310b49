package domain

import "strconv"

// Question is a multiple-choice question with exactly one correct option.
type Question struct {
	Prompt  string   `json:"question"`
	Options []string `json:"options"`
	Answer  string   `json:"answer"` // one of Options
}

// Assignment is a numbered group of questions on a single topic.
type Assignment struct {
	Number    int        `json:"assignmentNumber"`
	Topic     string     `json:"topic"`
	Questions []Question `json:"questions"`
}

// ID is the identifier clients use to select the assignment.
func (a Assignment) ID() string {
	return strconv.Itoa(a.Number)
}

// QuestionCount sums the questions across a bank.
func QuestionCount(bank []Assignment) int {
	n := 0
	for _, a := range bank {
		n += len(a.Questions)
	}
	return n
}
