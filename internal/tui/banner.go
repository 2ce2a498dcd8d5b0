package tui

import (
	"fmt"
	"strings"

	"github.com/KagemniKarimu/nyota/internal/platform/version"
)

const bannerArt = `
                                 █████
                                ░░███
 ████████   █████ ████  ██████  ███████    ██████
░░███░░███ ░░███ ░███  ███░░███░░░███░    ░░░░░███
 ░███ ░███  ░███ ░███ ░███ ░███  ░███      ███████
 ░███ ░███  ░███ ░███ ░███ ░███  ░███ ███ ███░░███
 ████ █████ ░░███████ ░░██████   ░░█████ ░░████████
░░░░ ░░░░░   ░░░░░███  ░░░░░░     ░░░░░   ░░░░░░░░
             ███ ░███
            ░░██████
             ░░░░░░`

const plaqueWidth = 33

// banner renders the logo with one rainbow colour per line.
func (s styles) banner() string {
	lines := strings.Split(strings.TrimPrefix(bannerArt, "\n"), "\n")
	for i, line := range lines {
		lines[i] = s.r.NewStyle().Foreground(rainbow[i%len(rainbow)]).Render(line)
	}
	return strings.Join(lines, "\n")
}

// versionPlaque renders the version box shown under the banner.
func (s styles) versionPlaque(info version.Info) string {
	row := func(text string) string {
		return fmt.Sprintf("    ╎%-*s╎", plaqueWidth, text)
	}
	edge := strings.Repeat("╶", plaqueWidth)
	bar := strings.Repeat("▀", plaqueWidth+8)

	lines := []string{
		bar,
		"    ┌" + edge + "┐",
		row(""),
		row("    version:  " + info.Version),
		row("    commit:   " + info.ShortCommit()),
		row(""),
		row("    authors: DariaAG"),
		row("             KagemniKarimu"),
		row(""),
		"    └" + edge + "┘",
		bar,
	}
	for i, line := range lines {
		lines[i] = s.plaque.Render(line)
	}
	return strings.Join(lines, "\n")
}
