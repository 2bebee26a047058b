// Package main is the entry point for the DeepRow TUI application.
// It initializes configuration, services, and runs the Bubble Tea program.
package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/deeprow/deeprow-tui/internal/app"
	"github.com/deeprow/deeprow-tui/internal/config"
	"github.com/deeprow/deeprow-tui/internal/logger"
	"github.com/deeprow/deeprow-tui/internal/services"
	"github.com/deeprow/deeprow-tui/internal/ui/tabs/analytics"
	"github.com/deeprow/deeprow-tui/internal/ui/tabs/login"
	"github.com/deeprow/deeprow-tui/internal/ui/tabs/upload"
	"github.com/deeprow/deeprow-tui/internal/version"
)

func main() {
	// Handle version flag
	if len(os.Args) > 1 && (os.Args[1] == "-v" || os.Args[1] == "--version") {
		fmt.Println(version.Info())
		os.Exit(0)
	}

	// Handle help flag
	if len(os.Args) > 1 && (os.Args[1] == "-h" || os.Args[1] == "--help") {
		printUsage()
		os.Exit(0)
	}

	// Run the application
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// run contains the main application logic, separated for cleaner error handling.
func run() error {
	logger.Init()

	// 1. Load configuration from .env files and environment variables
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	// 2. Initialize the service manager
	// This opens the local database, starts the data directory watcher and
	// the engine health monitor.
	svcManager, err := services.NewManager(cfg)
	if err != nil {
		return fmt.Errorf("failed to initialize services: %w", err)
	}

	// Ensure cleanup on exit
	defer func() {
		if closeErr := svcManager.Close(); closeErr != nil {
			fmt.Fprintf(os.Stderr, "Warning: error closing services: %v\n", closeErr)
		}
	}()

	// 3. Create the root Bubble Tea model
	model := app.NewModel(svcManager)

	// 4. Initialize tabs with shared state and commands
	state := model.GetState()
	commands := model.GetCommands()
	tabs := []app.Tab{
		login.New(state, commands),     // Tab 0: Login - authentication
		upload.New(state, commands),    // Tab 1: Upload - file picker and history
		analytics.New(state, commands), // Tab 2: Analytics - charts and KPIs
	}
	model.SetTabs(tabs)

	// 5. Set up signal handling for graceful shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	// 6. Create and configure the Bubble Tea program
	p := tea.NewProgram(
		model,
		tea.WithAltScreen(),       // Use alternate screen buffer (full terminal)
		tea.WithMouseCellMotion(), // Enable mouse support for selection
	)

	// 7. Handle signals in a separate goroutine
	go func() {
		<-sigChan
		// Send quit message to the program
		p.Send(tea.Quit())
	}()

	// 8. Run the TUI program
	// This blocks until the user quits or an error occurs
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("error running TUI: %w", err)
	}

	return nil
}

// printUsage prints the command-line usage information.
func printUsage() {
	fmt.Println(`DeepRow TUI - Terminal client for the DeepRow Analytics Engine

Usage:
  drt [flags]

Flags:
  -h, --help      Show this help message
  -v, --version   Show version information

Keyboard Shortcuts:
  1-3             Switch between tabs (Login, Upload, Analytics)
  Tab/Shift+Tab   Navigate between tabs
  j/k, Up/Down    Navigate lists
  Enter           Select/confirm
  s               Load the sample dataset (Upload tab)
  r               Refresh/reload
  !               Check engine health
  ?               Toggle help
  q, Ctrl+C       Quit

Environment Variables:
  DEEPROW_API_URL          Analytics engine base URL (default: http://localhost:8000)
  DEEPROW_DB_PATH          SQLite database path
  DEEPROW_DATA_DIR         Watched directory for data files (default: current directory)
  DEEPROW_HEALTH_INTERVAL  Engine health probe interval (default: 30s)
  DEEPROW_LOG_FILE         Write logs to this file instead of stderr
  DEEPROW_LOG_LEVEL        debug, info, warn or error (default: info)

Configuration:
  The application looks for .env files in the following locations:
  - Current directory
  - ~/.config/deeprow/tui/.env
  - ~/.config/deeprow/.env`)
}
