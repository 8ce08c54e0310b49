package practice

import (
	"math"

	"iot-practice-service/internal/domain"
)

// Screen names the three screens of a practice run.
type Screen string

const (
	ScreenSetup    Screen = "setup"
	ScreenActive   Screen = "active"
	ScreenFinished Screen = "finished"
)

// Mode is the order questions are presented in.
type Mode string

const (
	ModeSequential Mode = "one_by_one"
	ModeShuffled   Mode = "shuffle_assignment"
)

// ParseMode accepts the wire names plus the short forms "seq" and "shuffle".
func ParseMode(raw string) (Mode, bool) {
	switch raw {
	case string(ModeSequential), "seq", "sequential":
		return ModeSequential, true
	case string(ModeShuffled), "shuffle", "shuffled":
		return ModeShuffled, true
	}
	return "", false
}

// State is one of Setup, Active or Finished.
type State interface {
	Screen() Screen
	state()
}

// Setup holds the pending selection before a run starts.
type Setup struct {
	Assignment string
	Mode       Mode
}

// Active is a run in progress. Questions is never empty.
type Active struct {
	Questions    []domain.Question
	Index        int
	Selected     string
	HasSelection bool
	Revealed     bool
	Score        int
}

// Finished is a completed run.
type Finished struct {
	Total int
	Score int
}

func (Setup) Screen() Screen    { return ScreenSetup }
func (Active) Screen() Screen   { return ScreenActive }
func (Finished) Screen() Screen { return ScreenFinished }

func (Setup) state()    {}
func (Active) state()   {}
func (Finished) state() {}

// Current is the question being answered.
func (a Active) Current() domain.Question {
	return a.Questions[a.Index]
}

// IsLast reports whether the current question is the final one.
func (a Active) IsLast() bool {
	return a.Index == len(a.Questions)-1
}

// Percentage is the score as a whole percent, rounded half up from the
// floating-point ratio, so 29/200 gives 14 (14.499999999999998).
func (f Finished) Percentage() int {
	if f.Total == 0 {
		return 0
	}
	ratio := float64(float64(f.Score) / float64(f.Total) * 100)
	return int(math.Round(ratio))
}
