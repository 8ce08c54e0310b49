package practice

import (
	"testing"
)

func rulesFor(t *testing.T) Rules {
	t.Helper()
	return Rules{Bank: sampleBank(), Rand: identityRand{}}
}

func run(st State, rules Rules, events ...Event) State {
	for _, ev := range events {
		st = Step(st, ev, rules)
	}
	return st
}

func TestInitialDefaults(t *testing.T) {
	setup := rulesFor(t).Initial()
	if setup.Assignment != "1" || setup.Mode != ModeSequential {
		t.Fatalf("unexpected defaults: %+v", setup)
	}
}

func TestStartResetsRunState(t *testing.T) {
	rules := rulesFor(t)
	st := Step(rules.Initial(), Start{}, rules)
	active, ok := st.(Active)
	if !ok {
		t.Fatalf("expected active, got %T", st)
	}
	if active.Index != 0 || active.Score != 0 || active.HasSelection || active.Revealed {
		t.Fatalf("start must reset run state, got %+v", active)
	}
	if len(active.Questions) != 2 || active.Current().Prompt != sampleBank()[0].Questions[0].Prompt {
		t.Fatalf("sequential start must keep original order, got %+v", active.Questions)
	}
}

func TestStartWithEmptyCandidatesStaysInSetup(t *testing.T) {
	rules := rulesFor(t)
	st := run(rules.Initial(), rules, ChooseAssignment{Selection: "42"}, Start{})
	if st.Screen() != ScreenSetup {
		t.Fatalf("expected setup, got %s", st.Screen())
	}
	empty := Rules{}
	if got := Step(empty.Initial(), Start{}, empty); got.Screen() != ScreenSetup {
		t.Fatalf("empty bank must not start, got %s", got.Screen())
	}
}

func TestShuffledStartUsesRand(t *testing.T) {
	rules := Rules{Bank: sampleBank(), Rand: zeroRand{}}
	st := run(rules.Initial(), rules, ChooseAssignment{Selection: "2"}, ChooseMode{Mode: ModeShuffled}, Start{})
	active := st.(Active)
	// zeroRand rotates left by one.
	if active.Questions[0].Prompt != "CoAP default port?" || active.Questions[2].Prompt != "MQTT runs over?" {
		t.Fatalf("unexpected shuffled order: %+v", active.Questions)
	}
}

func TestAllForcesShuffled(t *testing.T) {
	rules := rulesFor(t)
	st := Step(rules.Initial(), ChooseAssignment{Selection: SelectAll}, rules).(Setup)
	if st.Mode != ModeShuffled {
		t.Fatalf("expected shuffled mode for all, got %s", st.Mode)
	}
	st = Step(st, ChooseMode{Mode: ModeSequential}, rules).(Setup)
	if st.Mode != ModeShuffled {
		t.Fatalf("sequential must stay disabled for all, got %s", st.Mode)
	}

	rules.AllowSequentialForAll = true
	st = run(rules.Initial(), rules, ChooseAssignment{Selection: SelectAll}, ChooseMode{Mode: ModeSequential}).(Setup)
	if st.Mode != ModeSequential {
		t.Fatalf("expected sequential when allowed, got %s", st.Mode)
	}
}

func TestAllCandidateLengthRegardlessOfMode(t *testing.T) {
	for _, allow := range []bool{false, true} {
		rules := Rules{Bank: sampleBank(), Rand: zeroRand{}, AllowSequentialForAll: allow}
		st := run(rules.Initial(), rules, ChooseAssignment{Selection: SelectAll}, Start{})
		if got := len(st.(Active).Questions); got != 5 {
			t.Fatalf("allow=%v: expected 5 questions, got %d", allow, got)
		}
	}
}

func TestSelectOptionRules(t *testing.T) {
	rules := rulesFor(t)
	st := run(rules.Initial(), rules, Start{}, SelectOption{Option: "LED"}, SelectOption{Option: "LED"})
	active := st.(Active)
	if !active.HasSelection || active.Selected != "LED" {
		t.Fatalf("reselect must be idempotent, got %+v", active)
	}

	active = Step(active, SelectOption{Option: "not an option"}, rules).(Active)
	if active.Selected != "LED" {
		t.Fatalf("foreign option must be ignored, got %q", active.Selected)
	}

	active = run(active, rules, Submit{}, SelectOption{Option: "LDR"}).(Active)
	if active.Selected != "LED" {
		t.Fatalf("selection must be frozen after reveal, got %q", active.Selected)
	}
}

func TestSubmitScoring(t *testing.T) {
	rules := rulesFor(t)
	start := Step(rules.Initial(), Start{}, rules)

	noop := Step(start, Submit{}, rules).(Active)
	if noop.Revealed || noop.Score != 0 {
		t.Fatalf("submit without selection must be a no-op, got %+v", noop)
	}

	wrong := run(start, rules, SelectOption{Option: "Relay"}, Submit{}).(Active)
	if !wrong.Revealed || wrong.Score != 0 {
		t.Fatalf("wrong answer must reveal without scoring, got %+v", wrong)
	}

	right := run(start, rules, SelectOption{Option: "LDR"}, Submit{}, Submit{}).(Active)
	if right.Score != 1 {
		t.Fatalf("correct answer must score exactly once, got %d", right.Score)
	}
}

func TestNextRequiresReveal(t *testing.T) {
	rules := rulesFor(t)
	st := run(rules.Initial(), rules, Start{}, SelectOption{Option: "LDR"}, Next{})
	if active := st.(Active); active.Index != 0 {
		t.Fatalf("next before reveal must be ignored, got index %d", active.Index)
	}

	st = run(st, rules, Submit{}, Next{})
	active := st.(Active)
	if active.Index != 1 || active.HasSelection || active.Revealed || active.Score != 1 {
		t.Fatalf("unexpected state after next: %+v", active)
	}
}

func TestSequentialPerfectRun(t *testing.T) {
	rules := rulesFor(t)
	st := run(rules.Initial(), rules,
		Start{},
		SelectOption{Option: "LDR"}, Submit{}, Next{},
		SelectOption{Option: "Humidity"}, Submit{}, Next{},
	)
	finished, ok := st.(Finished)
	if !ok {
		t.Fatalf("expected finished, got %T", st)
	}
	if finished.Score != 2 || finished.Total != 2 || finished.Percentage() != 100 {
		t.Fatalf("expected 2/2 100%%, got %+v (%d%%)", finished, finished.Percentage())
	}
}

func TestResetReturnsToDefaults(t *testing.T) {
	rules := rulesFor(t)
	st := run(rules.Initial(), rules,
		ChooseAssignment{Selection: "2"}, ChooseMode{Mode: ModeShuffled}, Start{},
	)
	for i := 0; i < 3; i++ {
		st = run(st, rules, SelectOption{Option: st.(Active).Current().Options[1]}, Submit{}, Next{})
	}
	if st.Screen() != ScreenFinished {
		t.Fatalf("expected finished, got %s", st.Screen())
	}
	if f := st.(Finished); f.Score < 0 || f.Score > f.Total {
		t.Fatalf("score out of range: %+v", f)
	}

	setup, ok := Step(st, Reset{}, rules).(Setup)
	if !ok || setup.Assignment != "1" || setup.Mode != ModeSequential {
		t.Fatalf("reset must restore defaults, got %+v", setup)
	}

	restarted := Step(setup, Start{}, rules).(Active)
	if restarted.Score != 0 || restarted.Index != 0 {
		t.Fatalf("new run must start clean, got %+v", restarted)
	}
}

func TestEventsIgnoredOnWrongScreen(t *testing.T) {
	rules := rulesFor(t)
	setup := rules.Initial()
	for _, ev := range []Event{SelectOption{Option: "LDR"}, Submit{}, Next{}, Reset{}} {
		if got := Step(setup, ev, rules); got != State(setup) {
			t.Fatalf("%s must be ignored in setup, got %+v", ev.Name(), got)
		}
	}
	finished := Finished{Total: 2, Score: 1}
	if got := Step(finished, Start{}, rules); got != State(finished) {
		t.Fatalf("start must be ignored when finished, got %+v", got)
	}
}

func TestParseMode(t *testing.T) {
	cases := map[string]Mode{"one_by_one": ModeSequential, "seq": ModeSequential, "shuffle": ModeShuffled}
	for raw, want := range cases {
		if got, ok := ParseMode(raw); !ok || got != want {
			t.Fatalf("%s: expected %s, got %s", raw, want, got)
		}
	}
	if _, ok := ParseMode("random"); ok {
		t.Fatalf("expected unknown mode to fail")
	}
}

func TestFinishedPercentageRounds(t *testing.T) {
	if got := (Finished{Score: 2, Total: 3}).Percentage(); got != 67 {
		t.Fatalf("expected 67, got %d", got)
	}
	if got := (Finished{Score: 1, Total: 8}).Percentage(); got != 13 {
		t.Fatalf("expected 13 (12.5 rounds up), got %d", got)
	}
	if got := (Finished{Score: 29, Total: 200}).Percentage(); got != 14 {
		t.Fatalf("expected 14 from the float ratio, got %d", got)
	}
	if got := (Finished{}).Percentage(); got != 0 {
		t.Fatalf("expected 0 for an empty run, got %d", got)
	}
}
