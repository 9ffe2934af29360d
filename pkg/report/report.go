// Package report renders the resolved sriovconf configuration for
// operators. Building a report reads configuration only; the optional
// enrichment queries live driver state but never mutates anything.
package report

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"example.com/sriovconf/internal/config"
	"example.com/sriovconf/pkg/logger"
	"example.com/sriovconf/pkg/netdev"
)

// PF is one physical function row of the report.
type PF struct {
	Device    string `json:"device" yaml:"device"`
	VFCount   int    `json:"vf_count" yaml:"vf_count"`
	MACPrefix string `json:"mac_prefix" yaml:"mac_prefix"`
	Comment   string `json:"comment,omitempty" yaml:"comment,omitempty"`

	// Live state, filled in by Enrich.
	Driver   string `json:"driver,omitempty" yaml:"driver,omitempty"`
	BusInfo  string `json:"bus_info,omitempty" yaml:"bus_info,omitempty"`
	PermAddr string `json:"perm_addr,omitempty" yaml:"perm_addr,omitempty"`
}

// VF is one virtual function row of the report.
type VF struct {
	Label    string `json:"label" yaml:"label"`
	Device   string `json:"device" yaml:"device"`
	VFIndex  int    `json:"vf_index" yaml:"vf_index"`
	VLAN     int    `json:"vlan" yaml:"vlan"`
	Activate bool   `json:"activate" yaml:"activate"`
	Rename   bool   `json:"rename" yaml:"rename"`
	Driver   string `json:"driver" yaml:"driver"`
	Comment  string `json:"comment,omitempty" yaml:"comment,omitempty"`
}

// Report is the full resolved configuration view for one host.
type Report struct {
	Host string `json:"host" yaml:"host"`
	PFs  []PF   `json:"pfs" yaml:"pfs"`
	VFs  []VF   `json:"vfs" yaml:"vfs"`
}

// Build assembles a deterministic report from the resolved maps: PFs
// sorted by device, VFs sorted by label.
func Build(host string, pfConfig map[string]config.PFSpec, vfConfig map[string]config.VFSpec) *Report {
	r := &Report{Host: host}

	for _, spec := range pfConfig {
		r.PFs = append(r.PFs, PF{
			Device:    spec.Device,
			VFCount:   spec.VFCount,
			MACPrefix: spec.MACPrefix,
			Comment:   spec.Comment,
		})
	}
	sort.Slice(r.PFs, func(i, j int) bool { return r.PFs[i].Device < r.PFs[j].Device })

	for _, spec := range vfConfig {
		r.VFs = append(r.VFs, VF{
			Label:    spec.Label(),
			Device:   spec.Device,
			VFIndex:  spec.VFIndex,
			VLAN:     spec.VLAN,
			Activate: spec.Activate,
			Rename:   spec.Rename,
			Driver:   spec.Driver,
			Comment:  spec.Comment,
		})
	}
	sort.Slice(r.VFs, func(i, j int) bool { return r.VFs[i].Label < r.VFs[j].Label })

	return r
}

// DriverInfoFunc looks up live driver state for an interface.
type DriverInfoFunc func(device string) (*netdev.DriverInfo, error)

// Enrich fills PF rows with live driver state. Lookup failures are
// logged and left blank; a configured PF that is absent from the host
// is still worth reporting.
func (r *Report) Enrich(query DriverInfoFunc) {
	for i := range r.PFs {
		info, err := query(r.PFs[i].Device)
		if err != nil {
			logger.WithError(err).WithField("device", r.PFs[i].Device).Warn("driver info unavailable")
			continue
		}
		r.PFs[i].Driver = info.Driver
		r.PFs[i].BusInfo = info.BusInfo
		r.PFs[i].PermAddr = info.PermAddr
	}
}

// JSON renders the report as indented JSON.
func (r *Report) JSON() (string, error) {
	data, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return "", errors.Wrap(err, "marshaling report")
	}
	return string(data), nil
}

// YAML renders the report as YAML.
func (r *Report) YAML() (string, error) {
	data, err := yaml.Marshal(r)
	if err != nil {
		return "", errors.Wrap(err, "marshaling report")
	}
	return string(data), nil
}

// Table renders the report as two fixed-width tables.
func (r *Report) Table() string {
	var builder strings.Builder

	builder.WriteString(fmt.Sprintf("Host: %s\n\n", r.Host))

	builder.WriteString("┌─────────────────────┬──────────┬─────────────────────┬─────────────────────┬─────────────────────┐\n")
	builder.WriteString("│ PF DEVICE           │ VF COUNT │ MAC PREFIX          │ DRIVER              │ BUS INFO            │\n")
	builder.WriteString("├─────────────────────┼──────────┼─────────────────────┼─────────────────────┼─────────────────────┤\n")
	for _, pf := range r.PFs {
		builder.WriteString(fmt.Sprintf("│ %-19s │ %8d │ %-19s │ %-19s │ %-19s │\n",
			truncateString(pf.Device, 19), pf.VFCount, pf.MACPrefix,
			truncateString(pf.Driver, 19), truncateString(pf.BusInfo, 19)))
	}
	builder.WriteString("└─────────────────────┴──────────┴─────────────────────┴─────────────────────┴─────────────────────┘\n\n")

	builder.WriteString("┌─────────────────────┬──────┬──────────┬──────────┬─────────────────────┐\n")
	builder.WriteString("│ VF LABEL            │ VLAN │ ACTIVATE │ RENAME   │ DRIVER              │\n")
	builder.WriteString("├─────────────────────┼──────┼──────────┼──────────┼─────────────────────┤\n")
	for _, vf := range r.VFs {
		builder.WriteString(fmt.Sprintf("│ %-19s │ %4d │ %-8s │ %-8s │ %-19s │\n",
			truncateString(vf.Label, 19), vf.VLAN, yesNo(vf.Activate), yesNo(vf.Rename),
			truncateString(vf.Driver, 19)))
	}
	builder.WriteString("└─────────────────────┴──────┴──────────┴──────────┴─────────────────────┘\n")

	return builder.String()
}

func yesNo(v bool) string {
	if v {
		return "Yes"
	}
	return "No"
}

// truncateString truncates a string to the specified length, adding "..." if needed.
func truncateString(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen-3] + "..."
}
