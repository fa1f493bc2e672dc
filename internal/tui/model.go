// Package tui is the terminal front end: a Bubble Tea model that owns a
// round controller and draws the board, counters and clock as text.
//
// Timer callbacks reach the model as messages (see Dispatcher), so the
// controller is only ever touched from the Bubble Tea event loop.
package tui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/yagogamebrasil01-cpu/memory-rush/internal/game"
	"github.com/yagogamebrasil01-cpu/memory-rush/internal/sched"
)

// runMsg carries a fired timer callback into Update.
type runMsg func()

// Dispatcher adapts a program's Send into a sched.Dispatch.
func Dispatcher(send func(tea.Msg)) sched.Dispatch {
	return func(f func()) { send(runMsg(f)) }
}

type screen int

const (
	menuScreen screen = iota
	playScreen
)

// Model is the Bubble Tea model for one player.
type Model struct {
	ctrl   *game.Controller
	diffs  game.Difficulties
	keys   []string
	screen screen

	choice int // highlighted difficulty on the menu
	cursor int // highlighted tile on the board
	status string
}

// New builds a model whose controller schedules on s.
func New(s sched.Scheduler, diffs game.Difficulties, opts game.Options) *Model {
	m := &Model{diffs: diffs, keys: diffs.Keys()}
	m.ctrl = game.NewController(s, &renderer{m: m}, opts)
	return m
}

func (m *Model) Init() tea.Cmd { return nil }

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case runMsg:
		msg()
	case tea.KeyMsg:
		if k := msg.String(); k == "ctrl+c" || k == "q" {
			m.ctrl.Abandon()
			return m, tea.Quit
		}
		if m.screen == menuScreen {
			m.updateMenu(msg.String())
		} else {
			m.updatePlay(msg.String())
		}
	}
	return m, nil
}

func (m *Model) updateMenu(key string) {
	switch key {
	case "up", "k":
		if m.choice > 0 {
			m.choice--
		}
	case "down", "j":
		if m.choice < len(m.keys)-1 {
			m.choice++
		}
	case "enter", " ":
		if m.choice < len(m.keys) {
			m.start(m.keys[m.choice])
		}
	case "1", "2", "3", "4", "5", "6", "7", "8", "9":
		if i := int(key[0] - '1'); i < len(m.keys) {
			m.choice = i
			m.start(m.keys[i])
		}
	case "e":
		m.start("easy")
	case "m":
		m.start("medium")
	case "h":
		m.start("hard")
	}
}

func (m *Model) start(key string) {
	d, err := m.diffs.Lookup(key)
	if err == nil {
		err = m.ctrl.Start(d)
	}
	if err != nil {
		m.status = err.Error()
		return
	}
	m.screen = playScreen
	m.cursor = 0
	m.status = ""
}

func (m *Model) updatePlay(key string) {
	r := m.ctrl.Round()
	cols := r.Difficulty.Cols
	n := len(r.Tiles)

	switch key {
	case "esc":
		m.ctrl.Abandon()
		m.screen = menuScreen
		m.status = ""
	case "r":
		if err := m.ctrl.Restart(); err != nil {
			m.status = err.Error()
			return
		}
		m.cursor = 0
		m.status = ""
	case "left", "h":
		if m.cursor%cols > 0 {
			m.cursor--
		}
	case "right", "l":
		if m.cursor%cols < cols-1 && m.cursor+1 < n {
			m.cursor++
		}
	case "up", "k":
		if m.cursor-cols >= 0 {
			m.cursor -= cols
		}
	case "down", "j":
		if m.cursor+cols < n {
			m.cursor += cols
		}
	case "enter", " ":
		if ok, err := m.ctrl.Select(m.cursor); err != nil {
			m.status = err.Error()
		} else if ok {
			m.status = ""
		}
	}
}

func (m *Model) View() string {
	var b strings.Builder
	b.WriteString("MEMORY RUSH\n\n")
	if m.screen == menuScreen {
		m.viewMenu(&b)
	} else {
		m.viewPlay(&b)
	}
	if m.status != "" {
		fmt.Fprintf(&b, "\n%s\n", m.status)
	}
	return b.String()
}

func (m *Model) viewMenu(b *strings.Builder) {
	b.WriteString("Choose a difficulty:\n\n")
	for i, k := range m.keys {
		d, _ := m.diffs.Lookup(k)
		mark := "  "
		if i == m.choice {
			mark = "> "
		}
		fmt.Fprintf(b, "%s%d. %-8s %dx%d, %d pairs\n", mark, i+1, k, d.Rows, d.Cols, d.Pairs)
	}
	b.WriteString("\n↑/↓ enter: play   q: quit\n")
}

func (m *Model) viewPlay(b *strings.Builder) {
	r := m.ctrl.Round()
	fmt.Fprintf(b, "Moves: %d   Pairs: %d/%d   Time: %s\n\n",
		r.Moves, r.MatchedPairs, r.TotalPairs, game.FormatElapsed(r.ElapsedSeconds))

	for i, t := range r.Tiles {
		face := "▒▒"
		if t.State != game.Hidden {
			face = t.Symbol
		}
		switch {
		case i == m.cursor:
			fmt.Fprintf(b, "[%s]", face)
		case t.State == game.Matched:
			fmt.Fprintf(b, " %s·", face)
		default:
			fmt.Fprintf(b, " %s ", face)
		}
		if (i+1)%r.Difficulty.Cols == 0 {
			b.WriteString("\n")
		}
	}

	if r.Phase == game.Complete {
		fmt.Fprintf(b, "\n*** All pairs found! ***\nTime %s in %d moves\n",
			game.FormatElapsed(r.ElapsedSeconds), r.Moves)
		b.WriteString("\nr: play again   esc: menu   q: quit\n")
		return
	}
	b.WriteString("\narrows/hjkl: move   enter: flip   r: restart   esc: menu   q: quit\n")
}
