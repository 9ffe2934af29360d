package provision

import (
	log "github.com/sirupsen/logrus"

	"example.com/sriovconf/internal/config"
	"example.com/sriovconf/pkg/logger"
)

// Provisioner applies PF and VF specs against a control surface. With
// dryRun set it walks the exact same validation and control flow but
// stops short of every mutating call.
type Provisioner struct {
	surface ControlSurface
	dryRun  bool
}

// New returns a Provisioner backed by the given control surface.
func New(surface ControlSurface, dryRun bool) *Provisioner {
	return &Provisioner{surface: surface, dryRun: dryRun}
}

// ProvisionPFs resets and recreates the VFs of every configured PF and
// assigns the derived per-VF MAC addresses. Devices are independent, so
// iteration order across them is unspecified. An empty configuration is
// a misconfiguration, not a no-op.
func (p *Provisioner) ProvisionPFs(pfConfig map[string]config.PFSpec) error {
	if len(pfConfig) == 0 {
		return ErrNoPFEntries
	}

	for _, spec := range pfConfig {
		if err := p.provisionPF(spec); err != nil {
			return err
		}
	}
	return nil
}

// provisionPF handles a single PF. The step order is fixed: autoprobe
// off, VF count to zero, VF count to the configured value, autoprobe on,
// then MACs in increasing VF index order. Setting the count to zero
// tears down existing VFs and releases their drivers, which is what
// makes re-runs converge instead of accumulate.
func (p *Provisioner) provisionPF(spec config.PFSpec) error {
	entry := logger.WithFields(log.Fields{
		"device":   spec.Device,
		"vf_count": spec.VFCount,
		"dry_run":  p.dryRun,
	})

	// The MAC range must be derivable before the device is touched.
	macs, err := DeriveVFMACs(spec.Device, spec.MACPrefix, spec.VFCount)
	if err != nil {
		return err
	}

	entry.Info("provisioning pf")

	entry.Debug("disabling vf driver autoprobe")
	if !p.dryRun {
		if err := p.surface.SetAutoprobe(spec.Device, false); err != nil {
			return err
		}
	}

	entry.Debug("deleting existing vfs")
	if !p.dryRun {
		if err := p.surface.SetVFCount(spec.Device, 0); err != nil {
			return err
		}
	}

	entry.Debug("creating vfs")
	if !p.dryRun {
		if err := p.surface.SetVFCount(spec.Device, spec.VFCount); err != nil {
			return err
		}
	}

	entry.Debug("re-enabling vf driver autoprobe")
	if !p.dryRun {
		if err := p.surface.SetAutoprobe(spec.Device, true); err != nil {
			return err
		}
	}

	for i, mac := range macs {
		entry.WithFields(log.Fields{"vf": i, "mac": mac.String()}).Info("assigning vf mac")
		if p.dryRun {
			continue
		}
		if err := p.surface.AssignVFMAC(spec.Device, i, mac); err != nil {
			return err
		}
	}

	return nil
}
