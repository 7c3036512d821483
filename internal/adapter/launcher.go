package adapter

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"net"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"
	"sync"
	"time"
)

const (
	socketWaitAttempts = 30
	socketWaitInterval = 100 * time.Millisecond
)

// Launcher starts an mpv-compatible player in idle mode and connects to
// its JSON IPC socket. It satisfies mpv.Connector.
type Launcher struct {
	command string   // configured player command, empty for auto-detect
	args    []string // additional arguments for the player
	ipcFlag string   // IPC server flag prefix, e.g., "--input-ipc-server="
	logger  *slog.Logger

	mu         sync.Mutex
	proc       *process
	socketPath string
}

// process is a started player and a channel closed when it exits
type process struct {
	cmd    *exec.Cmd
	exited chan struct{}
}

func (p *process) running() bool {
	select {
	case <-p.exited:
		return false
	default:
		return true
	}
}

// launchPath defines a single way to launch a player
type launchPath struct {
	path         string // Command path: "/usr/bin/mpv", "iina-cli"
	argSeparator string // Separator before player args (e.g., "--" for iina-cli)
}

// playerConfig defines how a player exposes the mpv IPC server
type playerConfig struct {
	ipcFlag     string                  // IPC server flag prefix
	optionStyle string                  // Prefix for mpv options, e.g. "--mpv-" for wrappers
	platforms   map[string][]launchPath // Platform -> launch paths to try in order
}

// players registry - every entry speaks the mpv IPC protocol
var players = map[string]playerConfig{
	"mpv": {
		ipcFlag:     "--input-ipc-server=",
		optionStyle: "--",
		platforms: map[string][]launchPath{
			"darwin":  {{path: "mpv"}},
			"linux":   {{path: "mpv"}},
			"windows": {{path: "mpv"}, {path: "mpv.exe"}},
		},
	},
	"iina": {
		ipcFlag:     "--mpv-input-ipc-server=",
		optionStyle: "--mpv-",
		platforms: map[string][]launchPath{
			"darwin": {
				{path: "iina-cli", argSeparator: "--"},
				{path: "/Applications/IINA.app/Contents/MacOS/iina-cli", argSeparator: "--"},
			},
		},
	},
}

// candidatePlayers defines the preferred player order for each platform
var candidatePlayers = map[string][]string{
	"darwin":  {"mpv", "iina"},
	"linux":   {"mpv"},
	"windows": {"mpv"},
}

// idleOptions keep the player window alive between sources and start paused
var idleOptions = []string{"idle=yes", "force-window=yes", "keep-open=yes", "pause"}

// NewLauncher creates a Launcher, auto-detecting the IPC flag for known players
func NewLauncher(command string, args []string, ipcFlag string, logger *slog.Logger) *Launcher {
	if logger == nil {
		logger = slog.Default()
	}

	resolvedFlag := ipcFlag
	if resolvedFlag == "" && command != "" {
		if cfg, ok := players[playerName(command)]; ok {
			resolvedFlag = cfg.ipcFlag
			logger.Debug("auto-detected player ipc flag", "player", playerName(command), "flag", resolvedFlag)
		}
	}

	return &Launcher{
		command: command,
		args:    args,
		ipcFlag: resolvedFlag,
		logger:  logger,
	}
}

// playerName strips directory, extension and case from a command
func playerName(command string) string {
	base := filepath.Base(command)
	base = strings.TrimSuffix(base, filepath.Ext(base))
	return strings.ToLower(base)
}

// Connect starts the player if it is not running and dials its IPC socket
func (l *Launcher) Connect(ctx context.Context) (net.Conn, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.proc != nil && l.proc.running() {
		return dialSocket(l.socketPath)
	}
	l.proc = nil

	socketPath := newSocketPath()
	proc, err := l.start(socketPath)
	if err != nil {
		return nil, err
	}

	if err := waitForSocket(ctx, proc, socketPath); err != nil {
		_ = proc.cmd.Process.Kill()
		return nil, err
	}

	conn, err := dialSocket(socketPath)
	if err != nil {
		_ = proc.cmd.Process.Kill()
		return nil, fmt.Errorf("failed to connect to player socket: %w", err)
	}

	l.proc = proc
	l.socketPath = socketPath
	return conn, nil
}

// Close stops a player this launcher started
func (l *Launcher) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.proc == nil {
		return nil
	}
	proc := l.proc
	l.proc = nil

	if proc.running() {
		_ = proc.cmd.Process.Kill()
	}
	if runtime.GOOS != "windows" {
		os.Remove(l.socketPath)
	}
	return nil
}

// start launches the configured player, or the first candidate found
func (l *Launcher) start(socketPath string) (*process, error) {
	if l.command != "" {
		if l.ipcFlag == "" {
			return nil, fmt.Errorf("unknown player %q, configure player.ipc_flag", l.command)
		}
		cfg, ok := players[playerName(l.command)]
		if !ok {
			cfg = playerConfig{ipcFlag: l.ipcFlag, optionStyle: "--"}
		}
		cfg.ipcFlag = l.ipcFlag
		l.logger.Info("using configured player", "command", l.command)
		return l.launch(launchPath{path: l.command}, cfg, socketPath)
	}

	candidates, ok := candidatePlayers[runtime.GOOS]
	if !ok {
		candidates = candidatePlayers["linux"] // default
	}

	for _, name := range candidates {
		cfg, exists := players[name]
		if !exists {
			continue
		}
		paths, ok := cfg.platforms[runtime.GOOS]
		if !ok {
			l.logger.Debug("player not available on this platform", "player", name, "platform", runtime.GOOS)
			continue
		}
		for _, lp := range paths {
			if _, err := exec.LookPath(lp.path); err != nil {
				l.logger.Debug("launch path not available", "player", name, "path", lp.path, "error", err)
				continue
			}
			proc, err := l.launch(lp, cfg, socketPath)
			if err == nil {
				l.logger.Info("launched with detected player", "player", name, "path", lp.path)
				return proc, nil
			}
			l.logger.Debug("launch failed", "player", name, "path", lp.path, "error", err)
		}
	}

	return nil, fmt.Errorf("no mpv-compatible player found; install mpv or set player.command")
}

func (l *Launcher) launch(lp launchPath, cfg playerConfig, socketPath string) (*process, error) {
	args := []string{}
	if lp.argSeparator != "" {
		args = append(args, lp.argSeparator)
	}
	for _, opt := range idleOptions {
		args = append(args, cfg.optionStyle+opt)
	}
	args = append(args, cfg.ipcFlag+socketPath)
	args = append(args, l.args...)

	l.logger.Info("launching player", "command", lp.path, "args", args)

	cmd := exec.Command(lp.path, args...)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("failed to start %s: %w", lp.path, err)
	}

	proc := &process{cmd: cmd, exited: make(chan struct{})}
	go func() {
		defer close(proc.exited)
		if err := cmd.Wait(); err != nil {
			l.logger.Debug("player exited", "error", err, "stderr", stderr.String())
		} else {
			l.logger.Debug("player exited")
		}
	}()

	return proc, nil
}

// waitForSocket polls until the player has created its IPC endpoint
func waitForSocket(ctx context.Context, proc *process, socketPath string) error {
	for i := 0; i < socketWaitAttempts; i++ {
		if _, err := os.Stat(socketPath); err == nil {
			return nil
		}

		select {
		case <-proc.exited:
			return fmt.Errorf("player exited before opening its socket")
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(socketWaitInterval):
		}
	}
	return fmt.Errorf("timeout waiting for player socket %s", socketPath)
}
