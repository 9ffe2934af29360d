// Package provision applies a resolved sriovconf configuration to the
// host's SR-IOV devices: VF creation on physical functions, MAC address
// derivation, and per-VF VLAN, driver binding and rename handling.
package provision

import (
	"context"
	"net"
	"time"
)

// ControlSurface abstracts the host-level operations the provisioners
// need: sysfs control file writes, PCI identity resolution and ip-level
// link manipulation. Implementations are synchronous; nothing here
// retries on its own.
type ControlSurface interface {
	// SetAutoprobe enables or disables driver autoprobing for newly
	// created VFs of the device.
	SetAutoprobe(device string, enable bool) error

	// SetVFCount sets the number of VFs on the device. Zero deletes
	// all existing VFs.
	SetVFCount(device string, count int) error

	// AssignVFMAC sets the administrative MAC address of a VF.
	AssignVFMAC(device string, vfIndex int, mac net.HardwareAddr) error

	// SetVFVlan sets the VLAN of a VF.
	SetVFVlan(device string, vfIndex, vlan int) error

	// PCIIdentity resolves the PCI slot of a VF of the device.
	// A vfIndex of -1 resolves the device itself.
	PCIIdentity(device string, vfIndex int) (string, error)

	// BoundDriver returns the name of the driver currently bound to
	// the PCI slot, or "" when none is bound.
	BoundDriver(slot string) (string, error)

	// Unbind detaches the driver from the PCI slot.
	Unbind(driver, slot string) error

	// Bind attaches the driver to the PCI slot.
	Bind(driver, slot string) error

	// RenameDevice renames a network interface.
	RenameDevice(oldName, newName string) error

	// WaitForNetDevice waits until exactly one network interface is
	// enumerated for the VF and returns its name. It returns an error
	// when no interface appears within the timeout or ctx is done.
	WaitForNetDevice(ctx context.Context, device string, vfIndex int, timeout time.Duration) (string, error)
}
