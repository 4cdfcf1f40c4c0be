package main

import (
	"context"
	"os"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
)

type spinnerDoneMsg struct{}

type spinnerModel struct {
	spinner spinner.Model
	label   string
}

func newSpinnerModel(label string) spinnerModel {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = spinnerStyle

	return spinnerModel{spinner: s, label: label}
}

func (m spinnerModel) Init() tea.Cmd {
	return m.spinner.Tick
}

func (m spinnerModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case spinnerDoneMsg:
		return m, tea.Quit
	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
		return m, nil
	default:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}
}

func (m spinnerModel) View() string {
	return m.spinner.View() + " " + statusStyle.Render(truncate(m.label, 70))
}

// withSpinner runs fn while animating a spinner on stderr. When show is
// false, or the spinner cannot start, fn simply runs in the foreground.
// While the spinner owns the terminal, ctrl+c arrives as a key message
// rather than a signal; quitting the program cancels fn's context so the
// in-flight request aborts instead of running to completion.
func withSpinner(ctx context.Context, show bool, label string, fn func(context.Context) error) error {
	if !show {
		return fn(ctx)
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	p := tea.NewProgram(newSpinnerModel(label), tea.WithOutput(os.Stderr))

	errCh := make(chan error, 1)
	go func() {
		errCh <- fn(ctx)
		p.Send(spinnerDoneMsg{})
	}()

	if _, err := p.Run(); err != nil {
		// Animation failure must not kill the request.
		return <-errCh
	}

	cancel()

	return <-errCh
}
