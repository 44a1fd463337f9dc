// Package monitor is the terminal progress view for batch simulation.
package monitor

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync/atomic"
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// GameUpdate is sent once per finished game.
type GameUpdate struct {
	GameID string
	Result string
	Ticks  int
	Length int
}

type tickMsg time.Time

type doneMsg struct{}

const recentGames = 10

// Model counts finished games and ticks. Ticks are read from a shared
// counter the workers bump; games arrive on a channel.
type Model struct {
	total   int
	updates <-chan GameUpdate
	ticks   *atomic.Int64
	cancel  context.CancelFunc

	start    time.Time
	games    int
	moves    int64
	lengths  int
	best     int
	results  map[string]int
	recent   []string
	finished bool
}

// New builds a model for a batch of total games. cancel is invoked when the
// user quits early. When updates is closed the program exits.
func New(total int, updates <-chan GameUpdate, ticks *atomic.Int64, cancel context.CancelFunc) Model {
	return Model{
		total:   total,
		updates: updates,
		ticks:   ticks,
		cancel:  cancel,
		start:   time.Now(),
		results: make(map[string]int),
	}
}

func tickCmd() tea.Cmd {
	return tea.Tick(200*time.Millisecond, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func waitForUpdate(updates <-chan GameUpdate) tea.Cmd {
	return func() tea.Msg {
		u, ok := <-updates
		if !ok {
			return doneMsg{}
		}
		return u
	}
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(waitForUpdate(m.updates), tickCmd())
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.String() == "q" || msg.String() == "ctrl+c" {
			if m.cancel != nil {
				m.cancel()
			}
			return m, tea.Quit
		}
	case tickMsg:
		if m.ticks != nil {
			m.moves = m.ticks.Load()
		}
		return m, tickCmd()
	case GameUpdate:
		m.games++
		m.lengths += msg.Length
		if msg.Length > m.best {
			m.best = msg.Length
		}
		m.results[msg.Result]++
		line := fmt.Sprintf("%s  %-9s ticks %5d  length %4d", shortID(msg.GameID), msg.Result, msg.Ticks, msg.Length)
		m.recent = append([]string{line}, m.recent...)
		if len(m.recent) > recentGames {
			m.recent = m.recent[:recentGames]
		}
		return m, waitForUpdate(m.updates)
	case doneMsg:
		m.finished = true
		if m.ticks != nil {
			m.moves = m.ticks.Load()
		}
		return m, tea.Quit
	}
	return m, nil
}

func (m Model) View() string {
	elapsed := time.Since(m.start)
	var gamesPerSec, ticksPerSec float64
	if elapsed >= time.Second {
		gamesPerSec = float64(m.games) / elapsed.Seconds()
		ticksPerSec = float64(m.moves) / elapsed.Seconds()
	}
	mean := 0.0
	if m.games > 0 {
		mean = float64(m.lengths) / float64(m.games)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Games:        %d / %d\n", m.games, m.total)
	fmt.Fprintf(&b, "Ticks:        %d\n", m.moves)
	fmt.Fprintf(&b, "Elapsed:      %s\n", elapsed.Round(time.Second))
	fmt.Fprintf(&b, "Games/Sec:    %.2f\n", gamesPerSec)
	fmt.Fprintf(&b, "Ticks/Sec:    %.0f\n", ticksPerSec)
	fmt.Fprintf(&b, "Mean length:  %.1f (best %d)\n\n", mean, m.best)

	keys := make([]string, 0, len(m.results))
	for k := range m.results {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	b.WriteString("Results:")
	for _, k := range keys {
		fmt.Fprintf(&b, " %s=%d", k, m.results[k])
	}
	b.WriteString("\n\nRecent games:\n")
	for _, line := range m.recent {
		b.WriteString(line)
		b.WriteByte('\n')
	}
	if m.finished {
		b.WriteString("\nDone.\n")
	} else {
		b.WriteString("\nPress q to quit.\n")
	}
	return b.String()
}

// Games is the number of finished games seen so far.
func (m Model) Games() int { return m.games }

// Run drives the model until updates is closed, the user quits or ctx ends.
func Run(ctx context.Context, m Model) error {
	_, err := tea.NewProgram(m, tea.WithContext(ctx)).Run()
	if err != nil && ctx.Err() != nil {
		return nil
	}
	return err
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
