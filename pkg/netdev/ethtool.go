package netdev

import (
	"github.com/pkg/errors"
	"github.com/safchain/ethtool"
)

// DriverInfo is the live driver state of a network interface, as
// reported by the ethtool netlink interface.
type DriverInfo struct {
	Driver   string
	Version  string
	BusInfo  string
	PermAddr string
}

// QueryDriverInfo returns the driver info of a network interface.
// Callers treat failures as advisory; a PF that is configured but not
// yet present on the host is not an error for reporting purposes.
func QueryDriverInfo(device string) (*DriverInfo, error) {
	e, err := ethtool.NewEthtool()
	if err != nil {
		return nil, errors.Wrap(err, "opening ethtool socket")
	}
	defer e.Close()

	drv, err := e.DriverInfo(device)
	if err != nil {
		return nil, errors.Wrapf(err, "querying driver info for %s", device)
	}

	info := &DriverInfo{
		Driver:  drv.Driver,
		Version: drv.Version,
		BusInfo: drv.BusInfo,
	}
	if addr, err := e.PermAddr(device); err == nil {
		info.PermAddr = addr
	}
	return info, nil
}
