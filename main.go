package main

import (
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// resolveTheme picks the help rendering theme: an explicit -theme flag wins,
// otherwise a theme from config.yaml, otherwise the flag's default.
func resolveTheme(flagValue string, flagSet bool, cfg *appConfig) markdownTheme {
	if !flagSet && strings.TrimSpace(cfg.Theme) != "" {
		return markdownThemeFromString(cfg.Theme)
	}
	return markdownThemeFromString(flagValue)
}

func main() {
	theme := flag.String("theme", "auto", "Help rendering theme: auto, light, or dark")
	command := flag.String("command", "", "Run a command and filter its output as the chat stream")
	file := flag.String("file", "", "Replay a chat log file as the stream")
	pace := flag.Duration("pace", 100*time.Millisecond, "Delay between replayed file lines")
	flag.Parse()

	cfg, cfgPath := loadConfig()

	themeSet := false
	flag.Visit(func(f *flag.Flag) {
		if f.Name == "theme" {
			themeSet = true
		}
	})
	setMarkdownTheme(resolveTheme(*theme, themeSet, cfg))

	var stream <-chan streamMsg
	switch {
	case *command != "":
		fields := strings.Fields(*command)
		ch, err := startCommandStream(fields[0], fields[1:])
		if err != nil {
			fmt.Fprintln(os.Stderr, "error:", err)
			os.Exit(1)
		}
		stream = ch
	case *file != "":
		ch, err := startFileStream(*file, *pace)
		if err != nil {
			fmt.Fprintln(os.Stderr, "error:", err)
			os.Exit(1)
		}
		stream = ch
	}

	if _, err := tea.NewProgram(
		initialModel(cfg, cfgPath, stream),
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
	).Run(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}
