package provision

import (
	"context"
	"fmt"
	"time"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"

	"example.com/sriovconf/internal/config"
	"example.com/sriovconf/pkg/logger"
)

// renameWaitTimeout bounds how long a rename waits for the VF's network
// interface to be enumerated after driver binding.
const renameWaitTimeout = 10 * time.Second

// ProvisionVFs applies every configured VF spec in turn. An empty
// configuration is a misconfiguration, not a no-op.
func (p *Provisioner) ProvisionVFs(ctx context.Context, vfConfig map[string]config.VFSpec) error {
	if len(vfConfig) == 0 {
		return ErrNoVFEntries
	}

	for _, spec := range vfConfig {
		if err := p.ProvisionVF(ctx, spec); err != nil {
			return err
		}
	}
	return nil
}

// ProvisionVFByLabel provisions the single VF identified by (device,
// vfIndex), as requested on the command line. The VF must be present in
// the resolved configuration.
func (p *Provisioner) ProvisionVFByLabel(ctx context.Context, vfConfig map[string]config.VFSpec, device string, vfIndex int) error {
	label := fmt.Sprintf("%svf%d", device, vfIndex)
	spec, ok := vfConfig[label]
	if !ok {
		return errors.Wrapf(ErrUnknownVF, "%s", label)
	}
	return p.ProvisionVF(ctx, spec)
}

// ProvisionVF applies a single VF spec: VLAN first, then driver
// rebinding when activation is requested, then the rename. Renaming has
// to come after activation because the interface to rename only exists
// once a driver is bound.
func (p *Provisioner) ProvisionVF(ctx context.Context, spec config.VFSpec) error {
	label := spec.Label()
	entry := logger.WithFields(log.Fields{
		"label":   label,
		"dry_run": p.dryRun,
	})
	entry.Info("provisioning vf")

	entry.WithField("vlan", spec.VLAN).Debug("setting vlan")
	if !p.dryRun {
		if err := p.surface.SetVFVlan(spec.Device, spec.VFIndex, spec.VLAN); err != nil {
			return err
		}
	}

	if spec.Activate {
		if err := p.activate(spec, entry); err != nil {
			return err
		}
	}

	if spec.Rename {
		if err := p.rename(ctx, spec, label, entry); err != nil {
			return err
		}
	}

	return nil
}

// activate rebinds the VF to the configured driver. The PCI identity is
// resolved even under dry-run so that a dry run surfaces the same
// resolution failures a live run would.
func (p *Provisioner) activate(spec config.VFSpec, entry *log.Entry) error {
	slot, err := p.surface.PCIIdentity(spec.Device, spec.VFIndex)
	if err != nil {
		return errors.Wrapf(ErrPCISlotNotFound, "%s vf %d: %v", spec.Device, spec.VFIndex, err)
	}
	entry = entry.WithField("slot", slot)

	bound, err := p.surface.BoundDriver(slot)
	if err != nil {
		return err
	}

	if bound != "" {
		entry.WithField("driver", bound).Debug("unbinding current driver")
		if !p.dryRun {
			if err := p.surface.Unbind(bound, slot); err != nil {
				return err
			}
		}
	}

	entry.WithField("driver", spec.Driver).Info("binding driver")
	if !p.dryRun {
		if err := p.surface.Bind(spec.Driver, slot); err != nil {
			return err
		}
	}

	return nil
}

// rename waits for the VF's interface to be enumerated and renames it to
// the label. Under dry-run no interface will ever appear, so the wait is
// skipped entirely.
func (p *Provisioner) rename(ctx context.Context, spec config.VFSpec, label string, entry *log.Entry) error {
	if p.dryRun {
		entry.Info("would rename vf interface")
		return nil
	}

	name, err := p.surface.WaitForNetDevice(ctx, spec.Device, spec.VFIndex, renameWaitTimeout)
	if err != nil {
		// An interrupted wait is not a timeout; let cancellation through.
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return err
		}
		return errors.Wrapf(ErrRenameTimeout, "%s: %v", label, err)
	}

	entry.WithFields(log.Fields{"from": name, "to": label}).Info("renaming vf interface")
	return p.surface.RenameDevice(name, label)
}
