package tui

import (
	"fmt"

	tea "charm.land/bubbletea/v2"
	"github.com/framemark/framemark/internal/pairing"
	"github.com/framemark/framemark/internal/session"
)

// Run opens the annotation screen on the given episode and blocks until
// the labeller quits.
func Run(ctrl *session.Controller, table pairing.Table, repoID string, episode int) error {
	model := New(ctrl, table, repoID, episode)
	p := tea.NewProgram(model)

	finalModel, err := p.Run()
	if err != nil {
		return fmt.Errorf("annotation UI error: %w", err)
	}

	if m, ok := finalModel.(Model); ok && m.err != nil {
		return m.err
	}
	return nil
}
