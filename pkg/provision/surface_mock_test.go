package provision

import (
	"context"
	"fmt"
	"net"
	"time"

	"github.com/pkg/errors"
)

// fakeSurface is an in-memory ControlSurface that records every call in
// order and keeps enough state to observe the final device outcome.
type fakeSurface struct {
	ops []string

	// slots maps "device/vfIndex" to a PCI slot; missing entries make
	// PCIIdentity fail.
	slots map[string]string
	// boundDrivers maps a PCI slot to its currently bound driver.
	boundDrivers map[string]string
	// netNames maps "device/vfIndex" to the enumerated interface name;
	// missing entries make WaitForNetDevice time out.
	netNames map[string]string

	// final device state, for convergence checks
	vfCount map[string]int
	macs    map[string]string

	boundDriverErr error
}

func newFakeSurface() *fakeSurface {
	return &fakeSurface{
		slots:        make(map[string]string),
		boundDrivers: make(map[string]string),
		netNames:     make(map[string]string),
		vfCount:      make(map[string]int),
		macs:         make(map[string]string),
	}
}

func (f *fakeSurface) record(format string, args ...interface{}) {
	f.ops = append(f.ops, fmt.Sprintf(format, args...))
}

func vfKey(device string, vfIndex int) string {
	return fmt.Sprintf("%s/%d", device, vfIndex)
}

func (f *fakeSurface) SetAutoprobe(device string, enable bool) error {
	f.record("autoprobe %s %v", device, enable)
	return nil
}

func (f *fakeSurface) SetVFCount(device string, count int) error {
	f.record("numvfs %s %d", device, count)
	f.vfCount[device] = count
	// VF teardown also drops previously assigned MACs.
	if count == 0 {
		for key := range f.macs {
			delete(f.macs, key)
		}
	}
	return nil
}

func (f *fakeSurface) AssignVFMAC(device string, vfIndex int, mac net.HardwareAddr) error {
	f.record("mac %s %d %s", device, vfIndex, mac)
	f.macs[vfKey(device, vfIndex)] = mac.String()
	return nil
}

func (f *fakeSurface) SetVFVlan(device string, vfIndex, vlan int) error {
	f.record("vlan %s %d %d", device, vfIndex, vlan)
	return nil
}

func (f *fakeSurface) PCIIdentity(device string, vfIndex int) (string, error) {
	f.record("identity %s %d", device, vfIndex)
	slot, ok := f.slots[vfKey(device, vfIndex)]
	if !ok {
		return "", errors.Errorf("no virtfn link for %s vf %d", device, vfIndex)
	}
	return slot, nil
}

func (f *fakeSurface) BoundDriver(slot string) (string, error) {
	f.record("bound-driver %s", slot)
	if f.boundDriverErr != nil {
		return "", f.boundDriverErr
	}
	return f.boundDrivers[slot], nil
}

func (f *fakeSurface) Unbind(driver, slot string) error {
	f.record("unbind %s %s", driver, slot)
	delete(f.boundDrivers, slot)
	return nil
}

func (f *fakeSurface) Bind(driver, slot string) error {
	f.record("bind %s %s", driver, slot)
	f.boundDrivers[slot] = driver
	return nil
}

func (f *fakeSurface) RenameDevice(oldName, newName string) error {
	f.record("rename %s %s", oldName, newName)
	return nil
}

func (f *fakeSurface) WaitForNetDevice(ctx context.Context, device string, vfIndex int, timeout time.Duration) (string, error) {
	f.record("wait %s %d", device, vfIndex)
	if err := ctx.Err(); err != nil {
		return "", err
	}
	name, ok := f.netNames[vfKey(device, vfIndex)]
	if !ok {
		return "", errors.Errorf("no interface appeared for %s vf %d within %v", device, vfIndex, timeout)
	}
	return name, nil
}
