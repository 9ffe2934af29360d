package provision

import (
	"net"

	"github.com/pkg/errors"
)

// DeriveVFMACs derives one MAC address per VF from the PF's MAC prefix.
// The last octet of the prefix is the counter for VF 0; VF i gets
// last octet + i. The derivation fails with *MACRangeError when the
// counter would run past 0xff for the given count.
func DeriveVFMACs(device, macPrefix string, count int) ([]net.HardwareAddr, error) {
	prefix, err := net.ParseMAC(macPrefix)
	if err != nil {
		return nil, errors.Wrapf(err, "parsing mac prefix for %s", device)
	}
	if len(prefix) != 6 {
		return nil, errors.Errorf("mac prefix for %s must have 6 octets, got %d", device, len(prefix))
	}

	start := int(prefix[5])
	if excess := start + count - 1 - 0xff; excess > 0 {
		return nil, &MACRangeError{Device: device, Excess: excess}
	}

	macs := make([]net.HardwareAddr, count)
	for i := 0; i < count; i++ {
		mac := make(net.HardwareAddr, len(prefix))
		copy(mac, prefix)
		mac[5] = byte(start + i)
		macs[i] = mac
	}
	return macs, nil
}
