package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/KagemniKarimu/nyota/internal/platform/version"
	"github.com/KagemniKarimu/nyota/internal/provider"
	"github.com/KagemniKarimu/nyota/internal/tui"
)

type flags struct {
	interactive bool
	dev         bool
	task        bool
	model       string
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := newRootCmd().ExecuteContext(ctx)
	stop()
	if err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var f flags
	root := &cobra.Command{
		Use:   "nyota [prompt]",
		Short: "A terminal AI chat client that keeps track of the conversation's mood",
		Long: "nyota chats with OpenAI, Anthropic, OpenRouter and Ollama models and scores every\n" +
			"message you send for sentiment, folding it into a running mood.\n\n" +
			"Without a mode flag nyota opens a menu.",
		Args:          cobra.ArbitraryArgs,
		SilenceUsage:  true,
		SilenceErrors: false,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd.Context(), f, args, cmd.InOrStdin(), cmd.OutOrStdout())
		},
	}
	root.Flags().BoolVarP(&f.interactive, "interactive", "i", false, "start in interactive REPL mode")
	root.Flags().BoolVarP(&f.dev, "dev", "d", false, "start in development mode with raw mood outputs")
	root.Flags().BoolVarP(&f.task, "task", "t", false, "execute a single task from the arguments or stdin")
	root.Flags().StringVarP(&f.model, "model", "m", "", "model to chat with (overrides NYOTA_MODEL)")
	root.MarkFlagsMutuallyExclusive("interactive", "dev", "task")

	root.AddCommand(newVersionCmd(), newModelsCmd())
	return root
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print build information",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintln(cmd.OutOrStdout(), version.Get().String())
		},
	}
}

func newModelsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "models",
		Short: "List the known models",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			for _, m := range provider.SupportedModels() {
				fmt.Fprintln(cmd.OutOrStdout(), m)
			}
			fmt.Fprintln(cmd.OutOrStdout(), "openrouter/<model>")
			fmt.Fprintln(cmd.OutOrStdout(), "ollama/<model>")
		},
	}
}

func run(ctx context.Context, f flags, args []string, stdin io.Reader, out io.Writer) error {
	app, err := setup(ctx, f.model)
	if err != nil {
		return err
	}
	defer app.Close()

	in := bufio.NewReader(stdin)
	interactive := tui.IsInteractive(stdin)

	switch {
	case f.task:
		return runTask(ctx, app, args, in, out)
	case f.interactive:
		return tui.NewREPL(app.chat, tui.Options{Interactive: interactive}).Run(ctx, in, out)
	case f.dev:
		return tui.NewREPL(app.chat, tui.Options{Interactive: interactive, Dev: true}).Run(ctx, in, out)
	case len(args) > 0:
		return runTask(ctx, app, args, in, out)
	}

	tui.Splash(out, version.Get())
	for {
		switch tui.Menu(in, out) {
		case tui.ModeInteractive:
			return tui.NewREPL(app.chat, tui.Options{Interactive: interactive}).Run(ctx, in, out)
		case tui.ModeDevelopment:
			return tui.NewREPL(app.chat, tui.Options{Interactive: interactive, Dev: true}).Run(ctx, in, out)
		case tui.ModeTask:
			fmt.Fprint(out, "task> ")
			line, err := in.ReadString('\n')
			if err != nil && !errors.Is(err, io.EOF) {
				return fmt.Errorf("failed to read task: %w", err)
			}
			return runTask(ctx, app, []string{line}, in, out)
		case tui.ModeHelp:
			tui.Help(out)
		case tui.ModeAbout:
			tui.About(out, version.Get())
		case tui.ModeExit:
			return nil
		}
	}
}

// runTask takes the prompt from args, or from the rest of stdin when there
// are none.
func runTask(ctx context.Context, app *application, args []string, in io.Reader, out io.Writer) error {
	prompt := strings.TrimSpace(strings.Join(args, " "))
	if prompt == "" {
		b, err := io.ReadAll(in)
		if err != nil {
			return fmt.Errorf("failed to read task from stdin: %w", err)
		}
		prompt = strings.TrimSpace(string(b))
	}
	if prompt == "" {
		return errors.New("task mode needs a prompt, pass it as arguments or on stdin")
	}
	return tui.RunTask(ctx, app.chat, prompt, out)
}
