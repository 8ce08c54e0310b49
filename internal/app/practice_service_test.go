package app_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"iot-practice-service/internal/app"
	"iot-practice-service/internal/domain"
	"iot-practice-service/internal/infra/memory"
	"iot-practice-service/internal/practice"
	"iot-practice-service/internal/telemetry"
)

func TestPerfectSequentialRun(t *testing.T) {
	ctx := context.Background()
	service, _ := newTestService(app.Options{})

	view, err := service.Open(ctx, "s1")
	if err != nil {
		t.Fatalf("open failed: %v", err)
	}
	if view.Screen != practice.ScreenSetup || view.Setup.Assignment != "1" || view.Setup.Mode != practice.ModeSequential {
		t.Fatalf("unexpected initial view: %+v", view.Setup)
	}

	events := []practice.Event{
		practice.Start{},
		practice.SelectOption{Option: "Right"}, practice.Submit{}, practice.Next{},
		practice.SelectOption{Option: "Also right"}, practice.Submit{}, practice.Next{},
	}
	for _, ev := range events {
		if view, err = service.Apply(ctx, "s1", ev); err != nil {
			t.Fatalf("%s failed: %v", ev.Name(), err)
		}
	}
	if view.Screen != practice.ScreenFinished {
		t.Fatalf("expected finished, got %s", view.Screen)
	}
	if view.Finished.Score != 2 || view.Finished.Total != 2 || view.Finished.Percentage != 100 {
		t.Fatalf("expected 2/2 100%%, got %+v", view.Finished)
	}
}

func TestApplyRequiresOpenSession(t *testing.T) {
	service, _ := newTestService(app.Options{})
	if _, err := service.Apply(context.Background(), "unknown", practice.Start{}); !errors.Is(err, domain.ErrSessionNotFound) {
		t.Fatalf("expected session error, got %v", err)
	}
	if _, err := service.View(context.Background(), "unknown"); !errors.Is(err, domain.ErrSessionNotFound) {
		t.Fatalf("expected session error, got %v", err)
	}
}

func TestOpenUnknownBank(t *testing.T) {
	service, _ := newTestService(app.Options{BankID: "missing"})
	if _, err := service.Open(context.Background(), "s1"); !errors.Is(err, domain.ErrBankNotFound) {
		t.Fatalf("expected bank error, got %v", err)
	}
}

func TestOpenIsIdempotent(t *testing.T) {
	ctx := context.Background()
	service, _ := newTestService(app.Options{})
	_, _ = service.Open(ctx, "s1")
	_, _ = service.Apply(ctx, "s1", practice.Start{})

	view, err := service.Open(ctx, "s1")
	if err != nil {
		t.Fatalf("reopen failed: %v", err)
	}
	if view.Screen != practice.ScreenActive {
		t.Fatalf("reopen must not reset the run, got %s", view.Screen)
	}
}

func TestAllSelectionCoversEveryAssignment(t *testing.T) {
	ctx := context.Background()
	service, _ := newTestService(app.Options{})
	_, _ = service.Open(ctx, "s1")

	view, _ := service.Apply(ctx, "s1", practice.ChooseAssignment{Selection: practice.SelectAll})
	if view.Setup.Mode != practice.ModeShuffled || view.Setup.SequentialEnabled {
		t.Fatalf("expected all to force shuffled, got %+v", view.Setup)
	}
	view, _ = service.Apply(ctx, "s1", practice.Start{})
	if view.Active.Total != 5 {
		t.Fatalf("expected 5 questions, got %d", view.Active.Total)
	}
}

func TestAllowSequentialForAll(t *testing.T) {
	ctx := context.Background()
	service, _ := newTestService(app.Options{AllowSequentialForAll: true})
	_, _ = service.Open(ctx, "s1")

	view, _ := service.Apply(ctx, "s1", practice.ChooseAssignment{Selection: practice.SelectAll})
	if view.Setup.Mode != practice.ModeSequential || !view.Setup.SequentialEnabled {
		t.Fatalf("expected sequential to remain available, got %+v", view.Setup)
	}
}

func TestTelemetryEvents(t *testing.T) {
	ctx := context.Background()
	rec := &captureRecorder{}
	service, store := newTestService(app.Options{Recorder: rec})
	// zeroRand swaps the two questions of assignment 1.
	store.Put(app.NewSessionWithRand("s1", zeroRand{}))
	_, _ = service.Open(ctx, "s1")

	events := []practice.Event{
		practice.ChooseMode{Mode: practice.ModeShuffled},
		practice.Start{},
		practice.Submit{}, // no selection, no event
		practice.SelectOption{Option: "Nope"},
		practice.SelectOption{Option: "Also right"},
		practice.Submit{},
	}
	for _, ev := range events {
		_, _ = service.Apply(ctx, "s1", ev)
	}
	if len(rec.events) != 2 {
		t.Fatalf("expected started and submitted events, got %+v", rec.events)
	}
	if rec.events[0].Name != telemetry.PracticeStarted || rec.events[0].Mode != string(practice.ModeShuffled) || rec.events[0].Total != 2 {
		t.Fatalf("unexpected start event: %+v", rec.events[0])
	}
	if rec.events[1].Name != telemetry.AnswerSubmitted || rec.events[1].Correct == nil || !*rec.events[1].Correct || rec.events[1].Score != 1 {
		t.Fatalf("unexpected submit event: %+v", rec.events[1])
	}
}

func TestTelemetryFinishAndReset(t *testing.T) {
	ctx := context.Background()
	rec := &captureRecorder{}
	service, _ := newTestService(app.Options{Recorder: rec})
	_, _ = service.Open(ctx, "s1")

	events := []practice.Event{
		practice.Start{},
		practice.SelectOption{Option: "Right"}, practice.Submit{}, practice.Next{},
		practice.SelectOption{Option: "Nope"}, practice.Submit{}, practice.Next{},
		practice.Reset{},
	}
	for _, ev := range events {
		_, _ = service.Apply(ctx, "s1", ev)
	}
	names := make([]string, len(rec.events))
	for i, ev := range rec.events {
		names[i] = ev.Name
	}
	want := []string{
		telemetry.PracticeStarted,
		telemetry.AnswerSubmitted, telemetry.AnswerSubmitted,
		telemetry.PracticeFinished, telemetry.PracticeReset,
	}
	if len(names) != len(want) {
		t.Fatalf("expected %v, got %v", want, names)
	}
	for i := range want {
		if names[i] != want[i] {
			t.Fatalf("expected %v, got %v", want, names)
		}
	}
	if finished := rec.events[3]; finished.Score != 1 || finished.Total != 2 {
		t.Fatalf("unexpected finish event: %+v", finished)
	}
	if second := rec.events[2]; *second.Correct {
		t.Fatalf("expected second answer recorded as incorrect")
	}
}

func TestCloseAndSweep(t *testing.T) {
	ctx := context.Background()
	service, store := newTestService(app.Options{})
	_, _ = service.Open(ctx, "s1")
	service.Close(ctx, "s1")
	if _, ok := store.Get("s1"); ok {
		t.Fatalf("expected session destroyed on close")
	}

	old := time.Now().Add(-time.Hour)
	store.Put(app.NewSessionWithClock("stale", func() time.Time { return old }))
	_, _ = service.Open(ctx, "fresh")
	if removed := service.Sweep(30 * time.Minute); removed != 1 {
		t.Fatalf("expected 1 session swept, got %d", removed)
	}
	if _, ok := store.Get("fresh"); !ok {
		t.Fatalf("expected fresh session kept")
	}
}

func TestSessionWithFixedRand(t *testing.T) {
	ctx := context.Background()
	service, store := newTestService(app.Options{})
	store.Put(app.NewSessionWithRand("s1", zeroRand{}))

	_, _ = service.Open(ctx, "s1")
	_, _ = service.Apply(ctx, "s1", practice.ChooseAssignment{Selection: "2"})
	_, _ = service.Apply(ctx, "s1", practice.ChooseMode{Mode: practice.ModeShuffled})
	view, _ := service.Apply(ctx, "s1", practice.Start{})
	if view.Active.Prompt != "Second protocol question" {
		t.Fatalf("unexpected first shuffled question: %q", view.Active.Prompt)
	}
}

type zeroRand struct{}

func (zeroRand) Intn(int) int { return 0 }

type captureRecorder struct {
	events []telemetry.Event
}

func (c *captureRecorder) Record(_ context.Context, ev telemetry.Event) {
	c.events = append(c.events, ev)
}

func newTestService(opts app.Options) (*app.PracticeService, *memory.SessionStore) {
	sessionStore := memory.NewSessionStore()
	bankRepo := memory.NewBankRepository(memory.NewStaticBankLoader(map[string][]domain.Assignment{
		app.DefaultBankID: {
			{
				Number: 1,
				Topic:  "Basics",
				Questions: []domain.Question{
					{Prompt: "Select the right option", Options: []string{"Wrong", "Right"}, Answer: "Right"},
					{Prompt: "Select the right option again", Options: []string{"Nope", "Also right"}, Answer: "Also right"},
				},
			},
			{
				Number: 2,
				Topic:  "Protocols",
				Questions: []domain.Question{
					{Prompt: "First protocol question", Options: []string{"a", "b"}, Answer: "a"},
					{Prompt: "Second protocol question", Options: []string{"a", "b"}, Answer: "b"},
					{Prompt: "Third protocol question", Options: []string{"a", "b"}, Answer: "a"},
				},
			},
		},
	}), 5*time.Minute)
	return app.NewPracticeService(sessionStore, bankRepo, opts), sessionStore
}
