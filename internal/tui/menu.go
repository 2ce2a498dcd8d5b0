package tui

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/KagemniKarimu/nyota/internal/platform/version"
)

// Mode is what the user picked to do.
type Mode int

const (
	ModeInteractive Mode = iota
	ModeTask
	ModeDevelopment
	ModeHelp
	ModeAbout
	ModeExit
)

type menuItem struct {
	mode        Mode
	title       string
	description string
}

var menuItems = []menuItem{
	{ModeInteractive, "Interactive Mode", "Start an interactive REPL session (multi-turn conversation)"},
	{ModeTask, "Task Mode", "Execute an isolated task (single-turn conversation)"},
	{ModeDevelopment, "Development Mode", "Start an interactive REPL session with raw mood outputs"},
	{ModeHelp, "Help", "Show the REPL commands"},
	{ModeAbout, "About", "Learn about nyota"},
	{ModeExit, "Exit", "Quit the application"},
}

func (m Mode) String() string {
	for _, item := range menuItems {
		if item.mode == m {
			return item.title
		}
	}
	return fmt.Sprintf("Mode(%d)", int(m))
}

// Menu shows the mode list and reads a choice, by number or by the start of
// a title. End of input chooses ModeExit.
func Menu(in *bufio.Reader, out io.Writer) Mode {
	s := newStyles(out)

	fmt.Fprintln(out, s.title.Render("Nyota"))
	for i, item := range menuItems {
		fmt.Fprintf(out, "  %d. %s  %s\n", i+1, s.prompt.Render(item.title), s.muted.Render(item.description))
	}

	for {
		fmt.Fprint(out, s.prompt.Render("select> "))
		line, err := in.ReadString('\n')
		if mode, ok := parseChoice(line); ok {
			return mode
		}
		if err != nil {
			return ModeExit
		}
		if strings.TrimSpace(line) != "" {
			fmt.Fprintln(out, s.errorText.Render("Unknown choice "+strconv.Quote(strings.TrimSpace(line))))
		}
	}
}

func parseChoice(line string) (Mode, bool) {
	choice := strings.ToLower(strings.TrimSpace(line))
	if choice == "" {
		return 0, false
	}
	if n, err := strconv.Atoi(choice); err == nil {
		if n >= 1 && n <= len(menuItems) {
			return menuItems[n-1].mode, true
		}
		return 0, false
	}
	for _, item := range menuItems {
		if strings.HasPrefix(strings.ToLower(item.title), choice) {
			return item.mode, true
		}
	}
	return 0, false
}

const aboutText = `nyota is a terminal chat client that keeps track of how the conversation
feels. Every message you send is scored for sentiment and folded into a
running mood, shown after each reply.`

// Splash prints the banner and the version plaque.
func Splash(out io.Writer, info version.Info) {
	s := newStyles(out)
	fmt.Fprintln(out, s.banner())
	fmt.Fprintln(out, s.versionPlaque(info))
}

// About prints the splash and a short description.
func About(out io.Writer, info version.Info) {
	Splash(out, info)
	fmt.Fprintln(out, aboutText)
	fmt.Fprintln(out, newStyles(out).muted.Render(info.String()))
}
