package device

import (
	"net"
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIDStable(t *testing.T) {
	first, err := ID()
	if err != nil {
		// machines without a hardware interface must fail closed, not
		// hand back a bogus identifier
		assert.Empty(t, first)
		return
	}

	assert.Regexp(t, regexp.MustCompile(`^[0-9a-f]{12,}$`), first)

	second, err := ID()
	assert.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestPickOrderIndependent(t *testing.T) {
	eth := net.Interface{
		Name:         "eth0",
		HardwareAddr: net.HardwareAddr{0x00, 0x1a, 0x2b, 0x3c, 0x4d, 0x5e},
		Flags:        net.FlagUp,
	}
	usb := net.Interface{
		Name:         "usb0",
		HardwareAddr: net.HardwareAddr{0xaa, 0xbb, 0xcc, 0xdd, 0xee, 0xff},
		Flags:        net.FlagUp,
	}
	lo := net.Interface{
		Name:         "lo",
		HardwareAddr: nil,
		Flags:        net.FlagUp | net.FlagLoopback,
	}

	forward, err := pick([]net.Interface{lo, eth, usb})
	assert.NoError(t, err)

	reversed, err := pick([]net.Interface{usb, lo, eth})
	assert.NoError(t, err)

	assert.Equal(t, forward, reversed)
	assert.Equal(t, "001a2b3c4d5e", forward)
}

func TestPickPrefersUpInterfaces(t *testing.T) {
	down := net.Interface{
		Name:         "eth0",
		HardwareAddr: net.HardwareAddr{0x00, 0x00, 0x00, 0x00, 0x00, 0x01},
	}
	up := net.Interface{
		Name:         "wlan0",
		HardwareAddr: net.HardwareAddr{0xff, 0xee, 0xdd, 0xcc, 0xbb, 0xaa},
		Flags:        net.FlagUp,
	}

	id, err := pick([]net.Interface{down, up})
	assert.NoError(t, err)
	assert.Equal(t, "ffeeddccbbaa", id)
}

func TestPickFallsBackToDownInterface(t *testing.T) {
	down := net.Interface{
		Name:         "eth0",
		HardwareAddr: net.HardwareAddr{0x00, 0x00, 0x00, 0x00, 0x00, 0x01},
	}

	id, err := pick([]net.Interface{down})
	assert.NoError(t, err)
	assert.Equal(t, "000000000001", id)
}

func TestPickNoCandidates(t *testing.T) {
	lo := net.Interface{
		Name:  "lo",
		Flags: net.FlagUp | net.FlagLoopback,
	}

	_, err := pick([]net.Interface{lo})
	assert.ErrorIs(t, err, ErrNoIdentity)
}
