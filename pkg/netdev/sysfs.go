// Package netdev implements the host-level device control surface used
// by the provisioners: sysfs control file writes under /sys/class/net
// and /sys/bus/pci, plus ip(8) for VF link attributes and renames.
package netdev

import (
	"context"
	"fmt"
	"net"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"time"

	"github.com/pkg/errors"
)

const (
	defaultNetPath        = "/sys/class/net"
	defaultPCIDevicesPath = "/sys/bus/pci/devices"
	defaultPCIDriversPath = "/sys/bus/pci/drivers"

	autoprobeFile = "sriov_drivers_autoprobe"
	numVFsFile    = "sriov_numvfs"

	defaultPollInterval = time.Second
)

// Sysfs talks to the live system. It satisfies provision.ControlSurface.
type Sysfs struct {
	netPath        string
	pciDevicesPath string
	pciDriversPath string
	pollInterval   time.Duration

	// runIP executes an ip(8) subcommand; replaceable in tests.
	runIP func(args ...string) error
}

// NewSysfs returns a Sysfs rooted at the standard sysfs locations.
func NewSysfs() *Sysfs {
	return &Sysfs{
		netPath:        defaultNetPath,
		pciDevicesPath: defaultPCIDevicesPath,
		pciDriversPath: defaultPCIDriversPath,
		pollInterval:   defaultPollInterval,
		runIP:          runIPCommand,
	}
}

func runIPCommand(args ...string) error {
	output, err := exec.Command("ip", args...).CombinedOutput()
	if err != nil {
		return errors.Wrapf(err, "ip %v: %s", args, output)
	}
	return nil
}

// devicePath returns the sysfs PCI device directory behind a network
// interface, e.g. /sys/class/net/enlan3/device.
func (s *Sysfs) devicePath(device string) string {
	return filepath.Join(s.netPath, device, "device")
}

func writeControl(path, value string) error {
	if err := os.WriteFile(path, []byte(value), 0); err != nil {
		return errors.Wrapf(err, "writing %q to %s", value, path)
	}
	return nil
}

// SetAutoprobe enables or disables VF driver autoprobing on the device.
func (s *Sysfs) SetAutoprobe(device string, enable bool) error {
	value := "0"
	if enable {
		value = "1"
	}
	return writeControl(filepath.Join(s.devicePath(device), autoprobeFile), value)
}

// SetVFCount writes the requested VF count. Zero deletes existing VFs.
func (s *Sysfs) SetVFCount(device string, count int) error {
	return writeControl(filepath.Join(s.devicePath(device), numVFsFile), strconv.Itoa(count))
}

// AssignVFMAC sets the administrative MAC address of a VF.
func (s *Sysfs) AssignVFMAC(device string, vfIndex int, mac net.HardwareAddr) error {
	return s.runIP("link", "set", "dev", device, "vf", strconv.Itoa(vfIndex), "mac", mac.String())
}

// SetVFVlan sets the VLAN of a VF.
func (s *Sysfs) SetVFVlan(device string, vfIndex, vlan int) error {
	return s.runIP("link", "set", "dev", device, "vf", strconv.Itoa(vfIndex), "vlan", strconv.Itoa(vlan))
}

// PCIIdentity resolves the PCI slot behind a VF by following the virtfn
// symlink; a vfIndex of -1 resolves the device itself.
func (s *Sysfs) PCIIdentity(device string, vfIndex int) (string, error) {
	target := s.devicePath(device)
	if vfIndex >= 0 {
		target = filepath.Join(target, fmt.Sprintf("virtfn%d", vfIndex))
	}

	resolved, err := filepath.EvalSymlinks(target)
	if err != nil {
		return "", errors.Wrapf(err, "resolving pci identity of %s vf %d", device, vfIndex)
	}
	return filepath.Base(resolved), nil
}

// BoundDriver returns the driver currently bound to the PCI slot, or ""
// when none is bound.
func (s *Sysfs) BoundDriver(slot string) (string, error) {
	link := filepath.Join(s.pciDevicesPath, slot, "driver")
	if _, err := os.Lstat(link); err != nil {
		if os.IsNotExist(err) {
			return "", nil
		}
		return "", errors.Wrapf(err, "checking driver link for %s", slot)
	}

	resolved, err := filepath.EvalSymlinks(link)
	if err != nil {
		return "", errors.Wrapf(err, "resolving driver link for %s", slot)
	}
	return filepath.Base(resolved), nil
}

// Unbind detaches the driver from the PCI slot.
func (s *Sysfs) Unbind(driver, slot string) error {
	return writeControl(filepath.Join(s.pciDriversPath, driver, "unbind"), slot)
}

// Bind attaches the driver to the PCI slot.
func (s *Sysfs) Bind(driver, slot string) error {
	return writeControl(filepath.Join(s.pciDriversPath, driver, "bind"), slot)
}

// RenameDevice renames a network interface.
func (s *Sysfs) RenameDevice(oldName, newName string) error {
	return s.runIP("link", "set", "dev", oldName, "name", newName)
}

// WaitForNetDevice polls the VF's net enumeration directory until
// exactly one interface appears, and returns its name. The directory
// only gets populated once a driver is bound to the VF.
func (s *Sysfs) WaitForNetDevice(ctx context.Context, device string, vfIndex int, timeout time.Duration) (string, error) {
	netDir := filepath.Join(s.devicePath(device), fmt.Sprintf("virtfn%d", vfIndex), "net")
	deadline := time.Now().Add(timeout)

	for {
		entries, err := os.ReadDir(netDir)
		if err == nil && len(entries) == 1 {
			return entries[0].Name(), nil
		}

		if time.Now().After(deadline) {
			return "", errors.Errorf("no interface enumerated for %s vf %d within %v", device, vfIndex, timeout)
		}

		select {
		case <-ctx.Done():
			return "", ctx.Err()
		case <-time.After(s.pollInterval):
		}
	}
}
