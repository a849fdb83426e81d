package formatter

import (
	"context"
	"errors"
	"fmt"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
)

// ErrInterrupted is returned when the user aborts a running task with ctrl+c.
var ErrInterrupted = errors.New("interrupted")

type finishedMsg struct{}

type spinnerModel struct {
	spinner     spinner.Model
	message     string
	finished    bool
	interrupted bool
}

func newSpinnerModel(message string) spinnerModel {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = StylePurple
	return spinnerModel{spinner: s, message: message}
}

func (m spinnerModel) Init() tea.Cmd {
	return m.spinner.Tick
}

func (m spinnerModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case finishedMsg:
		m.finished = true
		return m, tea.Quit
	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC {
			m.interrupted = true
			return m, tea.Quit
		}
	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m spinnerModel) View() string {
	if m.finished || m.interrupted {
		return ""
	}
	return fmt.Sprintf("  %s %s\n", m.spinner.View(), Dim(m.message))
}

// RunWithSpinner runs fn while a spinner animates. ctrl+c cancels the context
// passed to fn and yields ErrInterrupted. Otherwise fn's error is returned.
func RunWithSpinner(ctx context.Context, message string, fn func(ctx context.Context) error, opts ...tea.ProgramOption) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	p := tea.NewProgram(newSpinnerModel(message), opts...)
	done := make(chan error, 1)
	go func() {
		done <- fn(ctx)
		p.Send(finishedMsg{})
	}()

	final, _ := p.Run()
	if m, ok := final.(spinnerModel); ok && m.interrupted {
		cancel()
		<-done
		return ErrInterrupted
	}
	return <-done
}
