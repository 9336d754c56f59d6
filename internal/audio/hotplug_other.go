//go:build !linux

package audio

import "errors"

// WatchHotplug is unavailable outside Linux (go-udev is netlink-based);
// it returns immediately with an error so callers can log and continue
// without hotplug support.
func WatchHotplug(stop <-chan struct{}, onChange func()) error {
	return errors.New("audio: hotplug watching requires linux")
}
