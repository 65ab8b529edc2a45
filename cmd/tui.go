package main

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/desertthunder/roster/internal/shared"
	"github.com/desertthunder/roster/internal/store"
	"github.com/desertthunder/roster/internal/ui"
	"github.com/urfave/cli/v3"
)

const defaultTUILogFile = "./tmp/roster-tui.log"

// TUI launches the interactive terminal UI for browsing users.
func (r *Runner) TUI(ctx context.Context, cmd *cli.Command) error {
	if r.source == nil {
		return fmt.Errorf("%w: user source not initialized", shared.ErrServiceUnavailable)
	}

	logFile := r.config.Log.File
	if logFile == "" {
		logFile = defaultTUILogFile
	}

	// Redirect logs to file to avoid interfering with TUI rendering
	fileLogger, err := shared.NewFileLogger(logFile)
	if err != nil {
		return fmt.Errorf("failed to create file logger: %w", err)
	}
	fileLogger.SetLevel(r.logger.GetLevel())
	r.SetLogger(fileLogger)

	model := ui.NewModel(ctx, r.source, store.New(), ui.Options{
		Title:   r.config.UI.Title,
		Theme:   r.config.UI.Theme,
		Logger:  fileLogger,
		Timeout: r.config.Source.Timeout(),
	})
	p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx))

	if _, err := p.Run(); err != nil {
		return fmt.Errorf("error running TUI: %w", err)
	}

	return nil
}
