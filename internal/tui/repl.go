// Package tui is nyota's terminal front end: the splash, the mode menu, the
// chat REPL and single-shot task mode.
package tui

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/term"

	"github.com/KagemniKarimu/nyota/internal/chat"
	"github.com/KagemniKarimu/nyota/internal/domain"
	"github.com/KagemniKarimu/nyota/internal/provider"
	"github.com/KagemniKarimu/nyota/internal/sentiment"
)

// ChatService is the chat session the REPL drives.
type ChatService interface {
	Send(ctx context.Context, text string) (chat.Turn, error)
	Mood() domain.Mood
	Report() sentiment.Report
	Forget(ctx context.Context) error
	History(ctx context.Context) ([]domain.Message, error)
	SetModel(model string) error
	Model() string
}

type Options struct {
	// Dev prints the raw feelings and scoring factors after every reply.
	Dev bool
	// Interactive shows a prompt before each line.
	Interactive bool
}

type REPL struct {
	svc  ChatService
	opts Options
}

func NewREPL(svc ChatService, opts Options) *REPL {
	return &REPL{svc: svc, opts: opts}
}

// IsInteractive reports whether r is a terminal.
func IsInteractive(r io.Reader) bool {
	f, ok := r.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

type replCommand struct {
	name  string
	usage string
	run   func(r *REPL, ctx context.Context, s styles, out io.Writer, arg string) error
}

var errQuit = errors.New("quit")

var replCommands []replCommand

func init() {
	replCommands = []replCommand{
		{"/mood", "show the current mood", (*REPL).cmdMood},
		{"/feelings", "show the running sentiment and how the mood was scored", (*REPL).cmdFeelings},
		{"/forget", "reset the mood and the conversation", (*REPL).cmdForget},
		{"/history", "show the conversation so far", (*REPL).cmdHistory},
		{"/model", "show or switch the model: /model [name]", (*REPL).cmdModel},
		{"/help", "show this help", (*REPL).cmdHelp},
		{"/quit", "leave nyota", func(*REPL, context.Context, styles, io.Writer, string) error { return errQuit }},
	}
}

// Run reads lines from in until /quit, end of input or ctx is done. Plain
// lines are sent to the model; lines starting with / are commands.
func (r *REPL) Run(ctx context.Context, in io.Reader, out io.Writer) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	s := newStyles(out)
	lines, readErr := readLines(ctx, in)

	if r.opts.Interactive {
		fmt.Fprintln(out, s.muted.Render("Chatting with "+r.svc.Model()+". Type /help for commands."))
	}
	for {
		if r.opts.Interactive {
			fmt.Fprint(out, s.prompt.Render("you> "))
		}

		var line string
		select {
		case <-ctx.Done():
			fmt.Fprintln(out)
			return nil
		case l, ok := <-lines:
			if !ok {
				return <-readErr
			}
			line = strings.TrimSpace(l)
		}
		if line == "" {
			continue
		}

		err := r.handle(ctx, s, out, line)
		switch {
		case errors.Is(err, errQuit):
			return nil
		case err != nil && ctx.Err() != nil:
			return nil
		case err != nil:
			fmt.Fprintln(out, s.errorText.Render("error: "+err.Error()))
		}
	}
}

func (r *REPL) handle(ctx context.Context, s styles, out io.Writer, line string) error {
	if !strings.HasPrefix(line, "/") {
		return r.send(ctx, s, out, line)
	}

	name, arg, _ := strings.Cut(line, " ")
	if name == "/exit" {
		return errQuit
	}
	for _, c := range replCommands {
		if c.name == name {
			return c.run(r, ctx, s, out, strings.TrimSpace(arg))
		}
	}
	return fmt.Errorf("unknown command %s, try /help", name)
}

func (r *REPL) send(ctx context.Context, s styles, out io.Writer, text string) error {
	turn, err := r.svc.Send(ctx, text)
	if err != nil {
		fmt.Fprintln(out, s.statusLine(turn.Mood, r.svc.Model()))
		return err
	}

	fmt.Fprintln(out, s.assistant.Render(turn.Reply))
	fmt.Fprintln(out, s.statusLine(turn.Mood, r.svc.Model()))
	if r.opts.Dev {
		printReport(out, s, r.svc.Report())
	}
	return nil
}

func (r *REPL) cmdMood(_ context.Context, s styles, out io.Writer, _ string) error {
	fmt.Fprintln(out, s.statusLine(r.svc.Mood(), r.svc.Model()))
	return nil
}

func (r *REPL) cmdFeelings(_ context.Context, s styles, out io.Writer, _ string) error {
	printReport(out, s, r.svc.Report())
	return nil
}

func (r *REPL) cmdForget(ctx context.Context, s styles, out io.Writer, _ string) error {
	if err := r.svc.Forget(ctx); err != nil {
		return err
	}
	fmt.Fprintln(out, s.muted.Render("Feelings and conversation forgotten."))
	return nil
}

func (r *REPL) cmdHistory(ctx context.Context, s styles, out io.Writer, _ string) error {
	history, err := r.svc.History(ctx)
	if err != nil {
		return err
	}
	if len(history) == 0 {
		fmt.Fprintln(out, s.muted.Render("No messages yet."))
		return nil
	}
	for _, m := range history {
		speaker := "you"
		if m.Role == domain.RoleAssistant {
			speaker = "nyota"
			if m.Model != "" {
				speaker += " (" + m.Model + ")"
			}
		}
		fmt.Fprintf(out, "%s %s\n", s.prompt.Render(speaker+":"), m.Content)
	}
	return nil
}

func (r *REPL) cmdModel(_ context.Context, s styles, out io.Writer, arg string) error {
	if arg == "" {
		fmt.Fprintln(out, "Current model: "+s.prompt.Render(r.svc.Model()))
		fmt.Fprintln(out, s.muted.Render("Known models: "+strings.Join(provider.SupportedModels(), ", ")))
		fmt.Fprintln(out, s.muted.Render("Any openrouter/<model> or ollama/<model> works too."))
		return nil
	}
	if err := r.svc.SetModel(arg); err != nil {
		return err
	}
	fmt.Fprintln(out, "Switched to "+s.prompt.Render(arg))
	return nil
}

func (r *REPL) cmdHelp(_ context.Context, s styles, out io.Writer, _ string) error {
	printCommands(out, s)
	return nil
}

// Help prints the REPL commands.
func Help(out io.Writer) {
	printCommands(out, newStyles(out))
}

func printCommands(out io.Writer, s styles) {
	for _, c := range replCommands {
		fmt.Fprintf(out, "  %-10s %s\n", c.name, s.muted.Render(c.usage))
	}
}

func printReport(out io.Writer, s styles, rep sentiment.Report) {
	f := rep.Feelings
	fmt.Fprintf(out, "%s\n", s.title.Render("Feelings"))
	fmt.Fprintf(out, "  compound      %+.3f  (seen %+.3f .. %+.3f)\n", f.CompoundAffect, f.LowestCompoundSeen, f.HighestCompoundSeen)
	fmt.Fprintf(out, "  positive      %.3f\n", f.PositiveAffect)
	fmt.Fprintf(out, "  negative      %.3f\n", f.NegativeAffect)
	fmt.Fprintf(out, "  neutral       %.3f\n", f.NeutralAffect)
	fmt.Fprintf(out, "  interactions  %d\n", f.InteractionCount)
	fmt.Fprintf(out, "  factors       range %.3f  purity %.3f  familiarity %.3f\n", rep.Factors.Range, rep.Factors.Purity, rep.Factors.Familiarity)
	fmt.Fprintf(out, "  score         %.3f -> %s\n", rep.Score, s.mood(rep.Mood).Render(rep.Mood.String()))
}

// RunTask sends a single prompt and prints the reply and the resulting mood.
func RunTask(ctx context.Context, svc ChatService, prompt string, out io.Writer) error {
	s := newStyles(out)
	turn, err := svc.Send(ctx, prompt)
	if err != nil {
		return err
	}
	fmt.Fprintln(out, s.assistant.Render(turn.Reply))
	fmt.Fprintln(out, s.statusLine(turn.Mood, svc.Model()))
	return nil
}

// readLines feeds in line by line until end of input or ctx is done. A read
// error other than EOF is delivered on the error channel after lines closes.
func readLines(ctx context.Context, in io.Reader) (<-chan string, <-chan error) {
	br, ok := in.(*bufio.Reader)
	if !ok {
		br = bufio.NewReader(in)
	}
	lines := make(chan string)
	errc := make(chan error, 1)

	go func() {
		defer close(errc)
		defer close(lines)
		for {
			line, err := br.ReadString('\n')
			if line != "" {
				select {
				case lines <- line:
				case <-ctx.Done():
					return
				}
			}
			if err != nil {
				if !errors.Is(err, io.EOF) {
					errc <- fmt.Errorf("failed to read input: %w", err)
				}
				return
			}
		}
	}()
	return lines, errc
}
