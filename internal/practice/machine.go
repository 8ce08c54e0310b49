package practice

import (
	"iot-practice-service/internal/domain"
)

// Wire names of the events.
const (
	EventChooseAssignment = "chooseAssignment"
	EventChooseMode       = "chooseMode"
	EventStart            = "start"
	EventSelectOption     = "selectOption"
	EventSubmit           = "submit"
	EventNext             = "next"
	EventReset            = "reset"
)

// Event is a user action fed to Step.
type Event interface {
	Name() string
}

type (
	ChooseAssignment struct{ Selection string }
	ChooseMode       struct{ Mode Mode }
	Start            struct{}
	SelectOption     struct{ Option string }
	Submit           struct{}
	Next             struct{}
	Reset            struct{}
)

func (ChooseAssignment) Name() string { return EventChooseAssignment }
func (ChooseMode) Name() string       { return EventChooseMode }
func (Start) Name() string            { return EventStart }
func (SelectOption) Name() string     { return EventSelectOption }
func (Submit) Name() string           { return EventSubmit }
func (Next) Name() string             { return EventNext }
func (Reset) Name() string            { return EventReset }

// Rules is everything Step needs besides the state and the event.
type Rules struct {
	Bank []domain.Assignment
	Rand Rand
	// AllowSequentialForAll keeps Sequential selectable when every
	// assignment is picked.
	AllowSequentialForAll bool
}

// Initial is the Setup screen with defaults: first assignment, Sequential.
func (r Rules) Initial() Setup {
	return Setup{Assignment: DefaultSelection(r.Bank), Mode: ModeSequential}
}

func (r Rules) sequentialAllowed(selection string) bool {
	return selection != SelectAll || r.AllowSequentialForAll
}

// Step applies ev to st. Events that do not apply to the current screen, or
// whose preconditions fail, return st unchanged.
func Step(st State, ev Event, rules Rules) State {
	switch s := st.(type) {
	case Setup:
		return stepSetup(s, ev, rules)
	case Active:
		return stepActive(s, ev)
	case Finished:
		if _, ok := ev.(Reset); ok {
			return rules.Initial()
		}
	}
	return st
}

func stepSetup(s Setup, ev Event, rules Rules) State {
	switch e := ev.(type) {
	case ChooseAssignment:
		s.Assignment = e.Selection
		if !rules.sequentialAllowed(s.Assignment) {
			s.Mode = ModeShuffled
		}
		return s
	case ChooseMode:
		if e.Mode != ModeSequential && e.Mode != ModeShuffled {
			return s
		}
		if e.Mode == ModeSequential && !rules.sequentialAllowed(s.Assignment) {
			return s
		}
		s.Mode = e.Mode
		return s
	case Start:
		candidates := SelectQuestions(rules.Bank, s.Assignment)
		if len(candidates) == 0 {
			return s
		}
		if s.Mode == ModeShuffled {
			candidates = Shuffle(candidates, rules.Rand)
		}
		return Active{Questions: candidates}
	}
	return s
}

func stepActive(a Active, ev Event) State {
	switch e := ev.(type) {
	case SelectOption:
		if a.Revealed || !hasOption(a.Current(), e.Option) {
			return a
		}
		a.Selected = e.Option
		a.HasSelection = true
		return a
	case Submit:
		if !a.HasSelection || a.Revealed {
			return a
		}
		if a.Selected == a.Current().Answer {
			a.Score++
		}
		a.Revealed = true
		return a
	case Next:
		if !a.Revealed {
			return a
		}
		if a.IsLast() {
			return Finished{Total: len(a.Questions), Score: a.Score}
		}
		return Active{Questions: a.Questions, Index: a.Index + 1, Score: a.Score}
	}
	return a
}

func hasOption(q domain.Question, option string) bool {
	for _, o := range q.Options {
		if o == option {
			return true
		}
	}
	return false
}
