//go:build windows

package adapter

import (
	"fmt"
	"net"
	"path/filepath"
	"strings"
	"time"

	"github.com/Microsoft/go-winio"
)

// newSocketPath returns a fresh named pipe path
func newSocketPath() string {
	return fmt.Sprintf(`\\.\pipe\streamflix-mpv-%x`, time.Now().UnixNano())
}

// dialSocket connects to mpv's named pipe
func dialSocket(socketPath string) (net.Conn, error) {
	if !strings.HasPrefix(socketPath, `\\.\pipe\`) {
		socketPath = `\\.\pipe\` + filepath.Base(socketPath)
	}

	timeout := 5 * time.Second
	return winio.DialPipe(socketPath, &timeout)
}
