//go:build linux || darwin

package udp

import (
	"fmt"
	"net"

	"golang.org/x/sys/unix"
)

// tuneSocketBuffers raises SO_SNDBUF/SO_RCVBUF on the preview socket
// where the platform supports it (spec §5 resource ceilings: "UDP
// outbound buffers limited by kernel send buffer... raise SO_SNDBUF/
// SO_RCVBUF where supported").
func tuneSocketBuffers(conn *net.UDPConn, size int) error {
	rawConn, err := conn.SyscallConn()
	if err != nil {
		return fmt.Errorf("udp: syscall conn: %w", err)
	}

	var sockErr error

	err = rawConn.Control(func(fd uintptr) {
		if e := unix.SetsockoptInt(int(fd), unix.SOL_SOCKET, unix.SO_SNDBUF, size); e != nil {
			sockErr = e

			return
		}

		sockErr = unix.SetsockoptInt(int(fd), unix.SOL_SOCKET, unix.SO_RCVBUF, size)
	})
	if err != nil {
		return fmt.Errorf("udp: control fd: %w", err)
	}

	if sockErr != nil {
		return fmt.Errorf("udp: set socket buffers: %w", sockErr)
	}

	return nil
}
