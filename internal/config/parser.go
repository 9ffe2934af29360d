package config

import (
	"fmt"
	"strconv"
	"strings"

	"example.com/sriovconf/pkg/validate"
)

// PFSpec is the provisioning intent for one physical adapter.
type PFSpec struct {
	Device    string
	VFCount   int
	MACPrefix string
	Comment   string
}

// VFSpec is the provisioning intent for one virtual function.
type VFSpec struct {
	Device   string
	VFIndex  int
	VLAN     int
	Activate bool
	Rename   bool
	Driver   string
	Comment  string
}

// Label returns the composite identity of the VF, which is also the
// interface name the VF is renamed to when renaming is requested.
func (s VFSpec) Label() string {
	return fmt.Sprintf("%svf%d", s.Device, s.VFIndex)
}

// InvalidLineError reports a configuration line that failed validation,
// naming the offending field.
type InvalidLineError struct {
	Line   string
	Number int
	Field  string
	Reason string
}

func (e *InvalidLineError) Error() string {
	return fmt.Sprintf("invalid configuration line %d %q: %s: %s", e.Number, e.Line, e.Field, e.Reason)
}

// Parse turns the resolved line sets into the PF and VF configuration maps.
// Global lines are parsed first, then host lines; each accepted line
// overwrites any earlier entry with the same key, so a host entry fully
// replaces a global one and, within a tier, the last line wins. The first
// malformed line aborts parsing.
func Parse(global, host []Line) (map[string]PFSpec, map[string]VFSpec, error) {
	pfConfig := make(map[string]PFSpec)
	vfConfig := make(map[string]VFSpec)

	for _, tier := range [][]Line{global, host} {
		for _, line := range tier {
			if err := parseLine(line, pfConfig, vfConfig); err != nil {
				return nil, nil, err
			}
		}
	}

	return pfConfig, vfConfig, nil
}

func parseLine(line Line, pfConfig map[string]PFSpec, vfConfig map[string]VFSpec) error {
	tokens := strings.Fields(line.Text)

	switch tokens[0] {
	case "pf":
		spec, err := parsePFLine(line, tokens)
		if err != nil {
			return err
		}
		pfConfig[spec.Device] = spec
	case "vf":
		spec, err := parseVFLine(line, tokens)
		if err != nil {
			return err
		}
		vfConfig[spec.Label()] = spec
	default:
		return invalid(line, "type", "expected pf or vf, got %q", tokens[0])
	}

	return nil
}

// parsePFLine parses "pf <device> <vf_count> <mac_prefix> [comment...]".
func parsePFLine(line Line, tokens []string) (PFSpec, error) {
	if len(tokens) < 4 {
		return PFSpec{}, invalid(line, "tokens", "pf lines need at least 4 fields, got %d", len(tokens))
	}
	if !validate.IsDeviceName(tokens[1]) {
		return PFSpec{}, invalid(line, "device", "%q is not a device name", tokens[1])
	}
	if !validate.IsCount(tokens[2]) {
		return PFSpec{}, invalid(line, "vf_count", "%q is not a non-negative integer", tokens[2])
	}
	if !validate.IsMACPrefix(tokens[3]) {
		return PFSpec{}, invalid(line, "mac_prefix", "%q is not a 6-octet MAC address", tokens[3])
	}

	count, err := strconv.Atoi(tokens[2])
	if err != nil {
		return PFSpec{}, invalid(line, "vf_count", "%q is out of range", tokens[2])
	}
	return PFSpec{
		Device:    tokens[1],
		VFCount:   count,
		MACPrefix: tokens[3],
		Comment:   strings.Join(tokens[4:], " "),
	}, nil
}

// parseVFLine parses
// "vf <device> <vf_index> <vlan> <activate> <rename> <driver> [comment...]".
func parseVFLine(line Line, tokens []string) (VFSpec, error) {
	if len(tokens) < 7 {
		return VFSpec{}, invalid(line, "tokens", "vf lines need at least 7 fields, got %d", len(tokens))
	}
	if !validate.IsDeviceName(tokens[1]) {
		return VFSpec{}, invalid(line, "device", "%q is not a device name", tokens[1])
	}
	if !validate.IsCount(tokens[2]) {
		return VFSpec{}, invalid(line, "vf_index", "%q is not a non-negative integer", tokens[2])
	}
	if !validate.IsCount(tokens[3]) {
		return VFSpec{}, invalid(line, "vlan", "%q is not a non-negative integer", tokens[3])
	}
	if !validate.IsBoolToken(tokens[4]) {
		return VFSpec{}, invalid(line, "activate", "%q is not true or false", tokens[4])
	}
	if !validate.IsBoolToken(tokens[5]) {
		return VFSpec{}, invalid(line, "rename", "%q is not true or false", tokens[5])
	}
	if !validate.IsDriverName(tokens[6]) {
		return VFSpec{}, invalid(line, "driver", "%q is not a driver name", tokens[6])
	}

	index, err := strconv.Atoi(tokens[2])
	if err != nil {
		return VFSpec{}, invalid(line, "vf_index", "%q is out of range", tokens[2])
	}
	vlan, err := strconv.Atoi(tokens[3])
	if err != nil {
		return VFSpec{}, invalid(line, "vlan", "%q is out of range", tokens[3])
	}
	return VFSpec{
		Device:   tokens[1],
		VFIndex:  index,
		VLAN:     vlan,
		Activate: tokens[4] == "true",
		Rename:   tokens[5] == "true",
		Driver:   tokens[6],
		Comment:  strings.Join(tokens[7:], " "),
	}, nil
}

func invalid(line Line, field, format string, args ...interface{}) *InvalidLineError {
	return &InvalidLineError{
		Line:   line.Text,
		Number: line.Number,
		Field:  field,
		Reason: fmt.Sprintf(format, args...),
	}
}
