package tracker

import (
	"fmt"
	"log"

	"github.com/relabs-tech/fbt_bridge/internal/vr"
)

// ResolvedDevice pairs a configured serial with the runtime slot it
// occupied at startup. Slot indices are not stable across sessions or
// reconnects; they are resolved once here and never refreshed (see the
// known-limitation note in DESIGN.md).
type ResolvedDevice struct {
	Serial string
	Index  int
}

// resolveIndex walks runtime slots from 0 until the serial matches or the
// empty-string enumeration sentinel is hit.
func resolveIndex(rt vr.Runtime, serial string) (int, bool, error) {
	for i := 0; ; i++ {
		s, err := rt.DeviceSerial(i)
		if err != nil {
			return 0, false, fmt.Errorf("enumerate device slot %d: %w", i, err)
		}
		if s == serial {
			return i, true, nil
		}
		if s == "" {
			return 0, false, nil
		}
	}
}

// ResolveReference resolves the optional calibration reference device. The
// ignore-missing flag never applies here: a configured reference that the
// runtime does not expose is ErrDeviceNotFound.
func ResolveReference(rt vr.Runtime, serial string) (int, error) {
	index, found, err := resolveIndex(rt, serial)
	if err != nil {
		return 0, err
	}
	if !found {
		return 0, fmt.Errorf("%w: reference device %q", ErrDeviceNotFound, serial)
	}
	return index, nil
}

// ResolveDevices maps every configured serial to its runtime slot,
// preserving configuration order (that order determines the output channel
// numbers). Missing devices are dropped when ignoreMissing is set,
// otherwise ErrDeviceNotFound. The resolved list must hold 1 to 8 devices;
// anything else is ErrInvalidDeviceCount.
func ResolveDevices(rt vr.Runtime, serials []string, ignoreMissing bool) ([]ResolvedDevice, error) {
	var devices []ResolvedDevice
	for _, serial := range serials {
		index, found, err := resolveIndex(rt, serial)
		if err != nil {
			return nil, err
		}
		if !found {
			if ignoreMissing {
				log.Printf("device %q not found, skipping", serial)
				continue
			}
			return nil, fmt.Errorf("%w: %q", ErrDeviceNotFound, serial)
		}
		devices = append(devices, ResolvedDevice{Serial: serial, Index: index})
	}

	if len(devices) < 1 || len(devices) > 8 {
		return nil, fmt.Errorf("%w: resolved %d devices, want 1 to 8", ErrInvalidDeviceCount, len(devices))
	}
	return devices, nil
}
