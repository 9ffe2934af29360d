package provision

import (
	"fmt"

	"github.com/pkg/errors"
)

var (
	// ErrNoPFEntries is returned when PF provisioning is requested with
	// an empty PF configuration.
	ErrNoPFEntries = errors.New("no pf entries in resolved configuration")

	// ErrNoVFEntries is returned when bulk VF provisioning is requested
	// with an empty VF configuration.
	ErrNoVFEntries = errors.New("no vf entries in resolved configuration")

	// ErrPCISlotNotFound is returned when a VF's PCI identity cannot be
	// resolved.
	ErrPCISlotNotFound = errors.New("pci slot not found")

	// ErrRenameTimeout is returned when no network interface appears for
	// a VF within the rename wait window.
	ErrRenameTimeout = errors.New("timed out waiting for vf network interface")

	// ErrUnknownVF is returned by the single-VF path when the requested
	// label is absent from the resolved VF configuration.
	ErrUnknownVF = errors.New("vf not present in resolved configuration")
)

// MACRangeError reports a PF whose MAC prefix cannot cover the configured
// VF count: incrementing the last octet would overflow past 0xff.
type MACRangeError struct {
	Device string
	Excess int
}

func (e *MACRangeError) Error() string {
	return fmt.Sprintf("mac range overflow on %s: vf count exceeds the prefix last octet range by %d",
		e.Device, e.Excess)
}
