package main

import (
	"context"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSpinnerModel_CtrlCQuits(t *testing.T) {
	m := newSpinnerModel("working")

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyCtrlC})
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())
}

func TestSpinnerModel_DoneQuits(t *testing.T) {
	m := newSpinnerModel("working")

	_, cmd := m.Update(spinnerDoneMsg{})
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())
}

func TestWithSpinner_Hidden_PassesContext(t *testing.T) {
	type ctxKey struct{}
	ctx := context.WithValue(context.Background(), ctxKey{}, "v")

	var seen any
	err := withSpinner(ctx, false, "working", func(ctx context.Context) error {
		seen = ctx.Value(ctxKey{})
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, "v", seen)
}
