// Package device derives a stable per-machine identifier used to bind
// entitlement and license checks to one installation.
package device

import (
	"errors"
	"fmt"
	"net"

	"github.com/sirupsen/logrus"
)

// ErrNoIdentity is returned when no hardware interface address is readable.
// Callers must fail closed and treat this as an authentication failure.
var ErrNoIdentity = errors.New("no usable network interface for device identity")

// ID returns the machine identifier as lowercase hex. It is deterministic
// across restarts on the same machine regardless of interface enumeration
// order.
func ID() (string, error) {
	interfaces, err := net.Interfaces()
	if err != nil {
		return "", fmt.Errorf("reading interfaces: %w", err)
	}

	return pick(interfaces)
}

// pick selects the lexicographically smallest hardware address among
// non-loopback interfaces, preferring interfaces that are up. Ordering by
// address rather than enumeration position keeps the identity stable when a
// VPN tunnel or USB adapter shifts the interface list around.
func pick(interfaces []net.Interface) (string, error) {
	var best, bestDown string

	for _, iface := range interfaces {
		if iface.Flags&net.FlagLoopback != 0 {
			continue
		}
		if len(iface.HardwareAddr) == 0 {
			continue
		}

		id := fmt.Sprintf("%x", []byte(iface.HardwareAddr))

		if iface.Flags&net.FlagUp == 0 {
			if bestDown == "" || id < bestDown {
				bestDown = id
			}
			continue
		}

		if best == "" || id < best {
			best = id
		}
	}

	if best == "" {
		best = bestDown
	}
	if best == "" {
		return "", ErrNoIdentity
	}

	logrus.Tracef("device identity: %s", best)
	return best, nil
}
