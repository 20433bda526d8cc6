package main

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4")).
			Padding(0, 1)

	labelStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#87CEEB")).
			Width(10)

	valueStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#98FB98"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF6B6B"))

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#666666"))
)

const refreshInterval = 100 * time.Millisecond

type benchModel struct {
	start     time.Time
	err       error
	ctx       context.Context
	b         *bench
	cancel    context.CancelFunc
	bar       progress.Model
	sum       summary
	duration  time.Duration
	delivered int32
	dropped   int32
	done      bool
	quitting  bool
}

type tickMsg time.Time

type benchDoneMsg struct {
	err error
}

func newBenchModel(ctx context.Context, b *bench, d time.Duration) *benchModel {
	ctx, cancel := context.WithCancel(ctx)
	return &benchModel{
		ctx:      ctx,
		cancel:   cancel,
		b:        b,
		duration: d,
		bar:      progress.New(progress.WithDefaultGradient(), progress.WithWidth(40)),
	}
}

func tick() tea.Cmd {
	return tea.Tick(refreshInterval, func(t time.Time) tea.Msg { return tickMsg(t) })
}

func (m *benchModel) Init() tea.Cmd {
	m.start = time.Now()
	return tea.Batch(m.runBench, tick())
}

func (m *benchModel) runBench() tea.Msg {
	return benchDoneMsg{err: m.b.run(m.ctx, m.duration)}
}

func (m *benchModel) refresh() {
	m.sum = m.b.stats.summary()
	m.delivered, m.dropped = m.b.counts()
}

func (m *benchModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q", "esc":
			if m.done {
				return m, tea.Quit
			}
			// Quit once the timer is stopped.
			m.quitting = true
			m.cancel()
		}

	case tickMsg:
		m.refresh()
		if !m.done {
			return m, tick()
		}

	case benchDoneMsg:
		m.done = true
		m.err = msg.err
		m.refresh()
		if m.quitting {
			return m, tea.Quit
		}
	}

	return m, nil
}

func (m *benchModel) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("palmon bench"))
	fmt.Fprintf(&b, " %s %s via %s\n\n", m.b.kind, m.b.interval, m.b.strategy())

	elapsed := time.Since(m.start)
	if m.done || elapsed > m.duration {
		elapsed = m.duration
	}
	b.WriteString(m.bar.ViewAs(float64(elapsed) / float64(m.duration)))
	b.WriteString("\n\n")

	row := func(label, value string) {
		b.WriteString(labelStyle.Render(label))
		b.WriteString(valueStyle.Render(value))
		b.WriteString("\n")
	}
	row("fires", fmt.Sprintf("%d (delivered %d, dropped %d)", m.sum.Fires, m.delivered, m.dropped))
	if m.sum.Fires >= 2 {
		row("mean", m.sum.Mean.String())
		row("jitter", m.sum.Jitter.String())
		row("range", fmt.Sprintf("%s .. %s", m.sum.Min, m.sum.Max))
		row("drift", m.sum.Drift.String())
	}

	if m.err != nil {
		b.WriteString("\n")
		b.WriteString(errorStyle.Render(fmt.Sprintf("Error: %v", m.err)))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	if m.done {
		b.WriteString(helpStyle.Render("finished • q quit"))
	} else {
		b.WriteString(helpStyle.Render("q stop"))
	}
	return b.String()
}

func runInteractive(ctx context.Context, b *bench, d time.Duration) error {
	m := newBenchModel(ctx, b, d)
	defer m.cancel()

	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx))
	if _, err := p.Run(); err != nil && ctx.Err() == nil {
		return err
	}
	return m.err
}
