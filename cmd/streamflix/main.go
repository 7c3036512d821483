package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"golang.org/x/term"

	"github.com/streamflix/streamflix/internal/adapter"
	"github.com/streamflix/streamflix/internal/adapter/api"
	"github.com/streamflix/streamflix/internal/adapter/mpv"
	"github.com/streamflix/streamflix/internal/service"
	"github.com/streamflix/streamflix/internal/store"
	"github.com/streamflix/streamflix/internal/tui"
)

// Version is set at build time via -ldflags
var Version = "dev"

const usage = `Usage: streamflix [flags] [command]

Commands:
  (none)                  browse the catalog
  login                   sign in and store the session
  logout                  forget the stored session
  reset-password <token>  set a new password with a reset token

Flags:
`

func main() {
	var showVersion bool
	var configPath string
	flag.BoolVar(&showVersion, "v", false, "print version")
	flag.BoolVar(&showVersion, "version", false, "print version")
	flag.StringVar(&configPath, "config", "", "path to config file")
	flag.Usage = func() {
		fmt.Fprint(flag.CommandLine.Output(), usage)
		flag.PrintDefaults()
	}
	flag.Parse()

	if showVersion {
		fmt.Printf("streamflix %s\n", Version)
		return
	}

	if err := run(configPath, flag.Args()); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// app holds the wired dependencies shared by every command
type app struct {
	cfg    *adapter.Config
	logger *slog.Logger
	store  *store.SessionStore
	client *api.Client
}

func run(configPath string, args []string) error {
	cfg, err := adapter.LoadConfig(configPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	logger, logFile, err := adapter.SetupLogger(&cfg.Logging)
	if err != nil {
		// Fall back to null logger if file logging fails
		logger = adapter.NullLogger()
	} else {
		defer logFile.Close()
	}
	slog.SetDefault(logger)

	logger.Info("starting streamflix", "version", Version, "api", cfg.API.BaseURL)

	a := &app{cfg: cfg, logger: logger}

	if len(args) == 0 {
		// Browsing still works signed out, so a broken store is not fatal
		if err := a.connect(); err != nil {
			a.logger.Warn("session store unavailable, using memory", "error", err, "path", a.cfg.Store.Path)
			a.connectMemory()
		}
		return a.browse()
	}

	if err := a.connect(); err != nil {
		return fmt.Errorf("failed to open session store: %w", err)
	}

	switch args[0] {
	case "login":
		return a.login()
	case "logout":
		return a.logout()
	case "reset-password":
		if len(args) < 2 {
			return errors.New("usage: streamflix reset-password <token>")
		}
		return a.resetPassword(args[1])
	default:
		flag.Usage()
		return fmt.Errorf("unknown command %q", args[0])
	}
}

// connect opens the session store for the configured server and builds the
// API client on top of it
func (a *app) connect() error {
	sessions, err := store.NewSessionStore(a.cfg.Store.Path, a.cfg.API.BaseURL, a.logger)
	if err != nil {
		return err
	}
	a.use(sessions)
	return nil
}

// connectMemory keeps the session for this process only
func (a *app) connectMemory() {
	sessions, _ := store.NewSessionStore("", a.cfg.API.BaseURL, a.logger)
	a.use(sessions)
}

func (a *app) use(sessions *store.SessionStore) {
	a.store = sessions
	a.client = api.NewClient(a.cfg.API.BaseURL, sessions, a.cfg.API.Timeout, a.logger)
}

// browse runs the TUI until the user quits
func (a *app) browse() error {
	if !term.IsTerminal(int(os.Stdin.Fd())) {
		return errors.New("streamflix needs an interactive terminal")
	}

	launcher := adapter.NewLauncher(a.cfg.Player.Command, a.cfg.Player.Args, a.cfg.Player.IPCFlag, a.logger)
	player := mpv.NewPlayer(launcher, a.logger)
	reporter := api.NewPlaybackReporter(a.client, a.logger)

	catalogSvc := service.NewCatalogService(a.client, a.client, a.logger)
	detailSvc := service.NewDetailService(a.client, a.client, a.client, a.logger)
	playbackSvc := service.NewPlaybackService(player, reporter, a.logger)

	model := tui.NewModel(catalogSvc, detailSvc, playbackSvc, tui.Options{
		Username:       a.store.Username(),
		PosterFallback: a.cfg.UI.PosterFallback,
		GridColumns:    a.cfg.UI.GridColumns,
	})

	p := tea.NewProgram(
		model,
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
	)

	a.logger.Info("starting TUI")

	_, runErr := p.Run()
	if runErr != nil {
		a.logger.Error("TUI error", "error", runErr)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := playbackSvc.Shutdown(ctx); err != nil {
		a.logger.Warn("player shutdown incomplete", "error", err)
	}

	a.logger.Info("shutting down")
	if runErr != nil {
		return fmt.Errorf("TUI error: %w", runErr)
	}
	return nil
}

// login prompts for credentials and stores the session token
func (a *app) login() error {
	if !term.IsTerminal(int(os.Stdin.Fd())) {
		return errors.New("login needs an interactive terminal")
	}

	server := a.cfg.API.BaseURL
	var email, password string
	form := huh.NewForm(
		huh.NewGroup(
			huh.NewNote().
				Title("StreamFlix sign in"),
			huh.NewInput().
				Title("Server URL").
				Validate(func(s string) error {
					if !strings.HasPrefix(s, "http://") && !strings.HasPrefix(s, "https://") {
						return errors.New("must start with http:// or https://")
					}
					return nil
				}).
				Value(&server),
			huh.NewInput().
				Title("Email").
				Value(&email),
			huh.NewInput().
				Title("Password").
				EchoMode(huh.EchoModePassword).
				Value(&password),
		),
	)
	if err := form.Run(); err != nil {
		return fmt.Errorf("failed to read credentials: %w", err)
	}

	// Switching servers switches the stored session with it
	server = strings.TrimRight(strings.TrimSpace(server), "/")
	serverChanged := server != a.cfg.API.BaseURL
	if serverChanged {
		a.cfg.API.BaseURL = server
		if err := a.connect(); err != nil {
			return fmt.Errorf("failed to open session store: %w", err)
		}
	}

	svc := service.NewSessionService(a.client, a.store, a.logger)

	ctx, cancel := context.WithTimeout(context.Background(), a.cfg.API.Timeout)
	defer cancel()

	result, err := svc.Login(ctx, email, password)
	if err != nil {
		return err
	}

	if serverChanged {
		if err := adapter.SaveConfig(a.cfg); err != nil {
			return fmt.Errorf("signed in, but failed to save config: %w", err)
		}
	}

	fmt.Printf("✓ Signed in as %s\n", result.Username)
	return nil
}

// logout clears the stored session
func (a *app) logout() error {
	svc := service.NewSessionService(a.client, a.store, a.logger)
	if err := svc.Logout(); err != nil {
		return err
	}
	fmt.Println("✓ Signed out")
	return nil
}

// resetPassword prompts for a new password and submits it with token
func (a *app) resetPassword(token string) error {
	if !term.IsTerminal(int(os.Stdin.Fd())) {
		return errors.New("reset-password needs an interactive terminal")
	}

	var password, confirm string
	form := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("New password").
				EchoMode(huh.EchoModePassword).
				Validate(func(s string) error {
					if len(s) < service.MinPasswordLength {
						return fmt.Errorf("at least %d characters", service.MinPasswordLength)
					}
					return nil
				}).
				Value(&password),
			huh.NewInput().
				Title("Confirm password").
				EchoMode(huh.EchoModePassword).
				Value(&confirm),
		),
	)
	if err := form.Run(); err != nil {
		return fmt.Errorf("failed to read password: %w", err)
	}

	svc := service.NewSessionService(a.client, a.store, a.logger)

	ctx, cancel := context.WithTimeout(context.Background(), a.cfg.API.Timeout)
	defer cancel()

	if err := svc.ResetPassword(ctx, token, password, confirm); err != nil {
		return err
	}

	fmt.Println("✓ Password updated. Sign in with `streamflix login`.")
	return nil
}
