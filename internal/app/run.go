package app

import (
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/scoreleaf/scoreleaf/internal/config"
	"github.com/scoreleaf/scoreleaf/internal/store"
)

// Run opens a score file in the viewer and blocks until the reader quits.
func Run(cfg config.Config, scorePath string) error {
	markup, err := os.ReadFile(scorePath)
	if err != nil {
		return fmt.Errorf("read score: %w", err)
	}

	var positions *store.Store
	if base, err := store.DefaultBasePath(); err == nil {
		positions = store.Open(base)
	} else {
		appLog.Warn("position store unavailable", "error", err)
	}

	// Reopening a score starts at the zoom it was read at last time.
	if positions != nil {
		if pos, err := positions.Lookup(scorePath); err == nil && pos.Zoom > 0 {
			cfg.Zoom = pos.Zoom
		}
	}

	m := New(cfg, scorePath, string(markup), positions)
	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithMouseCellMotion())
	_, err = p.Run()
	return err
}
