//go:build !linux && !darwin

package udp

import "net"

// tuneSocketBuffers is a no-op on platforms without SO_SNDBUF/SO_RCVBUF
// tuning support wired in.
func tuneSocketBuffers(conn *net.UDPConn, size int) error {
	return nil
}
