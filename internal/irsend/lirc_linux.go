//go:build linux

package irsend

import (
	"fmt"
	"os"

	"golang.org/x/sys/unix"
)

// LIRC_SET_SEND_CARRIER from linux/lirc.h
const lircSetSendCarrier = 0x40046913

// OpenLIRC opens a LIRC device such as /dev/lirc0 and sets the Samsung carrier
func OpenLIRC(device string) (*LIRCTransmitter, error) {
	f, err := os.OpenFile(device, os.O_WRONLY, 0)
	if err != nil {
		return nil, fmt.Errorf("failed to open lirc device: %w", err)
	}

	if err := unix.IoctlSetPointerInt(int(f.Fd()), lircSetSendCarrier, int(SamsungCarrier)); err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to set carrier on %s: %w", device, err)
	}

	return NewLIRCTransmitter(device, f), nil
}
