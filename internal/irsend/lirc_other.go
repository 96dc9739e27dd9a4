//go:build !linux

package irsend

import (
	"fmt"
	"runtime"
)

func OpenLIRC(device string) (*LIRCTransmitter, error) {
	return nil, fmt.Errorf("lirc device %s: not supported on %s", device, runtime.GOOS)
}
