package practice

import "fmt"

// OptionStatus drives the feedback coloring of an answer option.
type OptionStatus string

const (
	OptionIdle      OptionStatus = "idle"
	OptionSelected  OptionStatus = "selected"
	OptionCorrect   OptionStatus = "correct"
	OptionIncorrect OptionStatus = "incorrect"
	OptionMuted     OptionStatus = "muted"
)

// View is the presentation model of a state. Exactly one of Setup, Active,
// Finished is set, matching Screen.
type View struct {
	Screen   Screen        `json:"screen"`
	Setup    *SetupView    `json:"setup,omitempty"`
	Active   *ActiveView   `json:"active,omitempty"`
	Finished *FinishedView `json:"finished,omitempty"`
}

type SetupView struct {
	Assignment        string             `json:"assignment"`
	Mode              Mode               `json:"mode"`
	Assignments       []AssignmentOption `json:"assignments"`
	SequentialEnabled bool               `json:"sequentialEnabled"`
	CandidateCount    int                `json:"candidateCount"`
	CanStart          bool               `json:"canStart"`
}

type AssignmentOption struct {
	Value string `json:"value"`
	Label string `json:"label"`
}

type ActiveView struct {
	Number    int          `json:"number"` // 1-based
	Total     int          `json:"total"`
	Score     int          `json:"score"`
	Progress  float64      `json:"progress"`
	Prompt    string       `json:"prompt"`
	Options   []OptionView `json:"options"`
	Selected  string       `json:"selected,omitempty"`
	Revealed  bool         `json:"revealed"`
	CanSubmit bool         `json:"canSubmit"`
	IsLast    bool         `json:"isLast"`
}

type OptionView struct {
	Text   string       `json:"text"`
	Status OptionStatus `json:"status"`
}

type FinishedView struct {
	Score      int `json:"score"`
	Total      int `json:"total"`
	Percentage int `json:"percentage"`
}

// Render builds the view of st.
func Render(st State, rules Rules) View {
	switch s := st.(type) {
	case Setup:
		return View{Screen: ScreenSetup, Setup: renderSetup(s, rules)}
	case Active:
		return View{Screen: ScreenActive, Active: renderActive(s)}
	case Finished:
		return View{Screen: ScreenFinished, Finished: &FinishedView{
			Score:      s.Score,
			Total:      s.Total,
			Percentage: s.Percentage(),
		}}
	}
	return View{}
}

func renderSetup(s Setup, rules Rules) *SetupView {
	options := make([]AssignmentOption, 0, len(rules.Bank)+1)
	for _, a := range rules.Bank {
		options = append(options, AssignmentOption{
			Value: a.ID(),
			Label: fmt.Sprintf("Assignment %d: %s", a.Number, a.Topic),
		})
	}
	options = append(options, AssignmentOption{Value: SelectAll, Label: "All Assignments"})

	count := len(SelectQuestions(rules.Bank, s.Assignment))
	return &SetupView{
		Assignment:        s.Assignment,
		Mode:              s.Mode,
		Assignments:       options,
		SequentialEnabled: rules.sequentialAllowed(s.Assignment),
		CandidateCount:    count,
		CanStart:          count > 0,
	}
}

func renderActive(a Active) *ActiveView {
	q := a.Current()
	options := make([]OptionView, len(q.Options))
	for i, opt := range q.Options {
		options[i] = OptionView{Text: opt, Status: optionStatus(a, opt)}
	}
	view := &ActiveView{
		Number:    a.Index + 1,
		Total:     len(a.Questions),
		Score:     a.Score,
		Progress:  float64(a.Index+1) / float64(len(a.Questions)) * 100,
		Prompt:    q.Prompt,
		Options:   options,
		Revealed:  a.Revealed,
		CanSubmit: a.HasSelection && !a.Revealed,
		IsLast:    a.IsLast(),
	}
	if a.HasSelection {
		view.Selected = a.Selected
	}
	return view
}

func optionStatus(a Active, opt string) OptionStatus {
	selected := a.HasSelection && a.Selected == opt
	if !a.Revealed {
		if selected {
			return OptionSelected
		}
		return OptionIdle
	}
	switch {
	case opt == a.Current().Answer:
		return OptionCorrect
	case selected:
		return OptionIncorrect
	default:
		return OptionMuted
	}
}
