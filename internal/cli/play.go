package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"math/rand"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"iot-practice-service/internal/app"
	"iot-practice-service/internal/domain"
	"iot-practice-service/internal/infra/memory"
	"iot-practice-service/internal/practice"
	"iot-practice-service/internal/telemetry"
)

const terminalSession = "terminal"

// NewPlayCmd runs a practice session in the terminal.
func NewPlayCmd() *cobra.Command {
	var (
		file     string
		allowAll bool
		seed     int64
		verbose  bool
	)
	cmd := &cobra.Command{
		Use:   "play",
		Short: "Practice in the terminal",
		RunE: func(cmd *cobra.Command, args []string) error {
			bank, err := loadBank(file)
			if err != nil {
				return err
			}
			var recorder telemetry.Recorder = telemetry.Nop{}
			if verbose {
				recorder = telemetry.LogRecorder{}
			}
			if seed == 0 {
				seed = time.Now().UnixNano()
			}
			service := newTerminalService(bank, rand.New(rand.NewSource(seed)), app.Options{
				AllowSequentialForAll: allowAll,
				Recorder:              recorder,
			})
			return play(cmd.Context(), cmd.InOrStdin(), cmd.OutOrStdout(), service)
		},
	}
	cmd.Flags().StringVar(&file, "file", "", "JSON bank to practise (defaults to the embedded sample bank)")
	cmd.Flags().BoolVar(&allowAll, "allow-sequential-all", false, "keep sequential mode available for all assignments")
	cmd.Flags().Int64Var(&seed, "seed", 0, "shuffle seed (0 picks one from the clock)")
	cmd.Flags().BoolVar(&verbose, "verbose", false, "log usage events")
	return cmd
}

func newTerminalService(bank []domain.Assignment, rnd practice.Rand, opts app.Options) *app.PracticeService {
	store := memory.NewSessionStore()
	store.Put(app.NewSessionWithRand(terminalSession, rnd))
	opts.BankID = app.DefaultBankID
	loader := memory.NewStaticBankLoader(map[string][]domain.Assignment{app.DefaultBankID: bank})
	return app.NewPracticeService(store, memory.NewBankRepository(loader, 0), opts)
}

func play(ctx context.Context, in io.Reader, out io.Writer, service *app.PracticeService) error {
	view, err := service.Open(ctx, terminalSession)
	if err != nil {
		return err
	}
	defer service.Close(ctx, terminalSession)

	scanner := bufio.NewScanner(in)
	for {
		renderView(out, view)
		fmt.Fprint(out, "> ")
		if !scanner.Scan() {
			fmt.Fprintln(out)
			return scanner.Err()
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "quit" || line == "q" {
			return nil
		}

		events := terminalEvents(view, line)
		if events == nil {
			fmt.Fprintf(out, "unrecognised input %q\n", line)
			continue
		}
		for _, ev := range events {
			if view, err = service.Apply(ctx, terminalSession, ev); err != nil {
				return err
			}
		}
	}
}

// terminalEvents translates one line of input on the current screen.
func terminalEvents(view practice.View, line string) []practice.Event {
	switch view.Screen {
	case practice.ScreenSetup:
		if line == "" || line == "start" {
			return []practice.Event{practice.Start{}}
		}
		if mode, ok := practice.ParseMode(line); ok {
			return []practice.Event{practice.ChooseMode{Mode: mode}}
		}
		for _, opt := range view.Setup.Assignments {
			if opt.Value == line {
				return []practice.Event{practice.ChooseAssignment{Selection: line}}
			}
		}
	case practice.ScreenActive:
		if view.Active.Revealed {
			if line == "" || line == "next" {
				return []practice.Event{practice.Next{}}
			}
			return nil
		}
		if len(line) == 1 {
			i := int(strings.ToLower(line)[0] - 'a')
			if i >= 0 && i < len(view.Active.Options) {
				return []practice.Event{practice.SelectOption{Option: view.Active.Options[i].Text}, practice.Submit{}}
			}
		}
	case practice.ScreenFinished:
		if line == "" || line == "again" {
			return []practice.Event{practice.Reset{}}
		}
	}
	return nil
}

func renderView(out io.Writer, view practice.View) {
	switch view.Screen {
	case practice.ScreenSetup:
		s := view.Setup
		fmt.Fprintln(out, "\n== Practice setup ==")
		for _, opt := range s.Assignments {
			marker := " "
			if opt.Value == s.Assignment {
				marker = "*"
			}
			fmt.Fprintf(out, " %s [%s] %s\n", marker, opt.Value, opt.Label)
		}
		mode := "one at a time"
		if s.Mode == practice.ModeShuffled {
			mode = "random shuffle"
		}
		fmt.Fprintf(out, "Mode: %s", mode)
		if !s.SequentialEnabled {
			fmt.Fprint(out, " (one at a time unavailable for all assignments)")
		}
		fmt.Fprintf(out, "\n%d questions selected.\n", s.CandidateCount)
		if s.CanStart {
			fmt.Fprintln(out, `Type an assignment, "seq" or "shuffle"; Enter starts, "quit" leaves.`)
		} else {
			fmt.Fprintln(out, `Nothing to practise here; pick another assignment or "quit".`)
		}
	case practice.ScreenActive:
		a := view.Active
		fmt.Fprintf(out, "\nQuestion %d/%d   Score: %d\n%s\n", a.Number, a.Total, a.Score, a.Prompt)
		for i, opt := range a.Options {
			fmt.Fprintf(out, "  %c) %s%s\n", 'a'+i, opt.Text, statusSuffix(opt.Status))
		}
		switch {
		case !a.Revealed:
			fmt.Fprintln(out, "Pick an option letter.")
		case a.IsLast:
			fmt.Fprintln(out, "Enter to finish the quiz.")
		default:
			fmt.Fprintln(out, "Enter for the next question.")
		}
	case practice.ScreenFinished:
		f := view.Finished
		fmt.Fprintf(out, "\nQuiz complete! Score: %d / %d (%d%%)\n", f.Score, f.Total, f.Percentage)
		fmt.Fprintln(out, `Enter to practise again, "quit" to leave.`)
	}
}

func statusSuffix(status practice.OptionStatus) string {
	switch status {
	case practice.OptionCorrect:
		return "   [correct]"
	case practice.OptionIncorrect:
		return "   [your answer]"
	case practice.OptionSelected:
		return "   <"
	}
	return ""
}
