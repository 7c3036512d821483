//go:build !windows

package adapter

import (
	"fmt"
	"net"
	"os"
	"path/filepath"
	"time"
)

// newSocketPath returns a fresh Unix socket path in the temp directory
func newSocketPath() string {
	return filepath.Join(os.TempDir(), fmt.Sprintf("streamflix-mpv-%x", time.Now().UnixNano()))
}

func dialSocket(socketPath string) (net.Conn, error) {
	return net.DialTimeout("unix", socketPath, 5*time.Second)
}
