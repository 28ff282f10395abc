package tui

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/JeanZorzetti/orion-analytics/internal/model"
)

// Run starts the interactive dashboard and blocks until the user quits.
func Run(ctx context.Context, cfg Config) error {
	if cfg.Storage == nil {
		return fmt.Errorf("storage is required")
	}
	if cfg.ReferenceDate.IsZero() {
		cfg.ReferenceDate = time.Now()
	}
	if cfg.Side == "" {
		cfg.Side = model.SidePayable
	}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigChan)

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	cleanupTerminal := func() {
		// Best-effort restore if bubbletea exits abnormally.
		_, _ = os.Stdout.Write([]byte("\033[?1049l")) // Exit alternate screen
		_, _ = os.Stdout.Write([]byte("\033[?25h"))   // Show cursor
		_, _ = os.Stdout.Write([]byte("\033[m"))      // Reset colors
	}
	defer cleanupTerminal()

	program := tea.NewProgram(newModel(ctx, cfg), tea.WithAltScreen())

	go func() {
		select {
		case <-sigChan:
			program.Quit()
			cancel()
		case <-ctx.Done():
			program.Quit()
		}
	}()

	if _, err := program.Run(); err != nil {
		return fmt.Errorf("dashboard failed: %w", err)
	}
	return nil
}
