//go:build linux

package audio

import (
	"github.com/jochenvg/go-udev"
)

// WatchHotplug watches the Linux "sound" subsystem for add/remove
// events and invokes onChange whenever a device is attached or
// detached, so the control surface can reopen the capture stream on
// the newly preferred device (spec §4.1: "periodic reopen attempts are
// permitted"). It runs until stop is closed.
func WatchHotplug(stop <-chan struct{}, onChange func()) error {
	u := udev.Udev{}

	monitor := u.NewMonitorFromNetlink("udev")
	if err := monitor.FilterAddMatchSubsystem("sound"); err != nil {
		return err
	}

	deviceChan, err := monitor.DeviceChan(stop)
	if err != nil {
		return err
	}

	go func() {
		for {
			select {
			case <-stop:
				return
			case dev, ok := <-deviceChan:
				if !ok {
					return
				}

				if dev == nil {
					continue
				}

				log.Info("sound subsystem event", "action", dev.Action(), "device", dev.Sysname())
				onChange()
			}
		}
	}()

	return nil
}
