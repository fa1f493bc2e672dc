// Command memoryrush-tui plays Memory Rush in the terminal.
//
// It reads the same environment as the server (palette, presets, delays);
// server-only settings are ignored. Logs go to TUI_LOG_FILE when set,
// since the board owns the terminal.
package main

import (
	"io"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/yagogamebrasil01-cpu/memory-rush/internal/config"
	"github.com/yagogamebrasil01-cpu/memory-rush/internal/sched"
	"github.com/yagogamebrasil01-cpu/memory-rush/internal/tui"
)

func main() {
	var out io.Writer = io.Discard
	if path := os.Getenv("TUI_LOG_FILE"); path != "" {
		f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			log.Fatal().Err(err).Msg("open log file")
		}
		defer f.Close()
		out = f
	}
	log.Logger = zerolog.New(out).With().Timestamp().Logger()

	cfg, err := config.Load()
	if err != nil {
		log.Logger = log.Output(os.Stderr)
		log.Fatal().Err(err).Msg("invalid configuration")
	}
	if lvl, err := zerolog.ParseLevel(cfg.LogLevel); err == nil {
		zerolog.SetGlobalLevel(lvl)
	}

	// timers fire only after the first keypress, by which time p is set
	var p *tea.Program
	s := sched.NewRealtime(tui.Dispatcher(func(msg tea.Msg) { p.Send(msg) }))
	p = tea.NewProgram(tui.New(s, cfg.Difficulties, cfg.Game), tea.WithAltScreen())

	log.Info().Strs("difficulties", cfg.Difficulties.Keys()).Msg("starting terminal client")
	if _, err := p.Run(); err != nil {
		log.Logger = log.Output(os.Stderr)
		log.Fatal().Err(err).Msg("terminal client exited")
	}
}
