package main

import (
	"flag"
	"fmt"
	"log"
	"math"
	"os"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"gridbattle/internal/battle"
	"gridbattle/internal/config"
	"gridbattle/internal/match"
)

var glyphs = map[string]string{
	"circle":   "o",
	"triangle": "^",
	"square":   "#",
	"hexagon":  "*",
}

var (
	teamStyles = [2]lipgloss.Style{
		lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Bold(true),
		lipgloss.NewStyle().Foreground(lipgloss.Color("12")).Bold(true),
	}
	woundedStyles = [2]lipgloss.Style{
		lipgloss.NewStyle().Foreground(lipgloss.Color("1")),
		lipgloss.NewStyle().Foreground(lipgloss.Color("4")),
	}
	emptyStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("238"))
	titleStyle  = lipgloss.NewStyle().Bold(true).Underline(true)
	promptStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("11"))
	boardStyle  = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
)

type frameMsg time.Time

type model struct {
	match *match.Match
	frame time.Duration
	view  match.View
}

func newModel(m *match.Match, fps int) model {
	if fps <= 0 {
		fps = 60
	}
	return model{match: m, frame: time.Second / time.Duration(fps), view: m.Snapshot()}
}

func (m model) tick() tea.Cmd {
	return tea.Tick(m.frame, func(t time.Time) tea.Msg {
		return frameMsg(t)
	})
}

func (m model) Init() tea.Cmd {
	return m.tick()
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case "s":
			m.match.Start(time.Now())
		case "r":
			if m.match.Phase() == match.PhaseOver {
				m.match.Restart()
			}
		}
		m.view = m.match.Snapshot()
	case frameMsg:
		if m.match.Advance(time.Time(msg)) {
			m.view = m.match.Snapshot()
		}
		return m, m.tick()
	}
	return m, nil
}

// cell maps a continuous position to the grid square it is drawn in.
func cell(v float64) int {
	c := int(math.Round(v))
	return min(max(c, 0), battle.FieldSize-1)
}

func renderGrid(units []battle.UnitView) string {
	var grid [battle.FieldSize][battle.FieldSize]string
	for _, u := range units {
		style := teamStyles[u.Team]
		if u.HealthRatio < 0.5 {
			style = woundedStyles[u.Team]
		}
		grid[cell(u.Y)][cell(u.X)] = style.Render(glyphs[u.Shape])
	}

	var sb strings.Builder
	for y := range grid {
		for x := range grid[y] {
			if grid[y][x] == "" {
				sb.WriteString(emptyStyle.Render("."))
			} else {
				sb.WriteString(grid[y][x])
			}
			if x < battle.FieldSize-1 {
				sb.WriteByte(' ')
			}
		}
		if y < battle.FieldSize-1 {
			sb.WriteByte('\n')
		}
	}
	return sb.String()
}

func legend() string {
	parts := make([]string, 0, len(battle.Classes))
	for _, c := range battle.Classes {
		s := c.Stats()
		parts = append(parts, fmt.Sprintf("%s %s (hp %d, dmg %d, rng %g)", glyphs[s.Shape], s.Name, s.Health, s.Damage, s.Range))
	}
	return strings.Join(parts, "   ")
}

func (m model) View() string {
	v := m.view
	var sb strings.Builder
	sb.WriteString(titleStyle.Render("Grid Battle"))
	sb.WriteString(fmt.Sprintf("  round %d  tick %d  (%s)\n", v.Round+1, v.Ticks, v.Elapsed.Round(100*time.Millisecond)))
	sb.WriteString(boardStyle.Render(renderGrid(v.Units)))
	sb.WriteByte('\n')
	sb.WriteString(fmt.Sprintf("%s: %d   %s: %d\n",
		teamStyles[battle.Team0].Render(battle.Team0.String()), v.Counts[battle.Team0],
		teamStyles[battle.Team1].Render(battle.Team1.String()), v.Counts[battle.Team1]))

	switch v.Phase {
	case match.PhasePending:
		sb.WriteString(promptStyle.Render("press s to start"))
	case match.PhaseOver:
		sb.WriteString(teamStyles[v.Outcome.Winner].Render(fmt.Sprintf("Game Over! %s wins!", v.Outcome.Winner)))
		sb.WriteString("  " + promptStyle.Render("press r to restart"))
	default:
		sb.WriteString("fighting...")
	}
	sb.WriteString("\n\n" + legend() + "\n")
	sb.WriteString("q to quit\n")
	return sb.String()
}

func main() {
	cfgPath := flag.String("config", "gridbattle.yaml", "config file")
	seed := flag.Int64("seed", 0, "override the configured seed")
	flag.Parse()

	cfg, err := config.Load(*cfgPath)
	if err != nil {
		log.Fatalf("load config: %v", err)
	}
	if *seed != 0 {
		cfg.Simulation.Seed = *seed
	}

	// keep log lines from tearing the alt screen
	f, err := tea.LogToFile("gridbattle-tui.log", "tui")
	if err != nil {
		log.Fatalf("open log file: %v", err)
	}
	defer f.Close()

	m := match.New(match.Options{
		Seed:     cfg.Simulation.Seed,
		MinUnits: cfg.Simulation.MinUnits,
		MaxUnits: cfg.Simulation.MaxUnits,
	})
	p := tea.NewProgram(newModel(m, cfg.Simulation.FPS), tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
