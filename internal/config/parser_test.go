package config

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func lines(texts ...string) []Line {
	out := make([]Line, len(texts))
	for i, text := range texts {
		out[i] = Line{Section: GlobalSection, Number: i + 1, Text: text}
	}
	return out
}

func TestParsePFLine(t *testing.T) {
	pfs, vfs, err := Parse(lines("pf enlan3 16 aa:bb:cc:dd:ee:00 # uplink adapter"), nil)
	require.NoError(t, err)
	require.Empty(t, vfs)

	require.Len(t, pfs, 1)
	require.Equal(t, PFSpec{
		Device:    "enlan3",
		VFCount:   16,
		MACPrefix: "aa:bb:cc:dd:ee:00",
		Comment:   "# uplink adapter",
	}, pfs["enlan3"])
}

func TestParseVFLine(t *testing.T) {
	pfs, vfs, err := Parse(lines("vf enlan3 2 100 true false vfio-pci guest nic"), nil)
	require.NoError(t, err)
	require.Empty(t, pfs)

	require.Len(t, vfs, 1)
	spec := vfs["enlan3vf2"]
	require.Equal(t, VFSpec{
		Device:   "enlan3",
		VFIndex:  2,
		VLAN:     100,
		Activate: true,
		Rename:   false,
		Driver:   "vfio-pci",
		Comment:  "guest nic",
	}, spec)
	require.Equal(t, "enlan3vf2", spec.Label())
}

func TestParseHostOverridesGlobal(t *testing.T) {
	global := lines(
		"pf enlan3 16 aa:bb:cc:dd:ee:00 fleet default",
		"vf enlan3 0 100 true true vfio-pci fleet default",
	)
	host := []Line{
		{Section: "hyp01", Number: 10, Text: "pf enlan3 8 aa:bb:cc:dd:ee:80"},
		{Section: "hyp01", Number: 11, Text: "vf enlan3 0 200 false false mlx5_core"},
	}

	pfs, vfs, err := Parse(global, host)
	require.NoError(t, err)

	// The host entry replaces the global one entirely, comment included.
	require.Equal(t, PFSpec{
		Device:    "enlan3",
		VFCount:   8,
		MACPrefix: "aa:bb:cc:dd:ee:80",
	}, pfs["enlan3"])

	require.Equal(t, VFSpec{
		Device:  "enlan3",
		VFIndex: 0,
		VLAN:    200,
		Driver:  "mlx5_core",
	}, vfs["enlan3vf0"])
}

func TestParseLastDuplicateWinsWithinTier(t *testing.T) {
	pfs, _, err := Parse(lines(
		"pf enlan3 16 aa:bb:cc:dd:ee:00",
		"pf enlan3 4 aa:bb:cc:dd:ee:40",
	), nil)
	require.NoError(t, err)
	require.Equal(t, 4, pfs["enlan3"].VFCount)
	require.Equal(t, "aa:bb:cc:dd:ee:40", pfs["enlan3"].MACPrefix)
}

func TestParseDistinctKeysCoexist(t *testing.T) {
	pfs, vfs, err := Parse(lines(
		"pf enlan3 4 aa:bb:cc:dd:ee:00",
		"pf enlan4 2 aa:bb:cc:dd:ef:00",
		"vf enlan3 0 100 true true vfio-pci",
		"vf enlan3 1 100 true true vfio-pci",
		"vf enlan4 0 200 false false mlx5_core",
	), nil)
	require.NoError(t, err)
	require.Len(t, pfs, 2)
	require.Len(t, vfs, 3)
}

func TestParseRejectsMalformedLines(t *testing.T) {
	tests := []struct {
		name  string
		line  string
		field string
	}{
		{"unknown verb", "bridge enlan3 16 aa:bb:cc:dd:ee:00", "type"},
		{"pf too few tokens", "pf enlan3 16", "tokens"},
		{"vf missing driver", "vf enlan3 1 0 true true", "tokens"},
		{"pf bad device", "pf en.lan3 16 aa:bb:cc:dd:ee:00", "device"},
		{"pf bad count", "pf enlan3 -1 aa:bb:cc:dd:ee:00", "vf_count"},
		{"pf count out of range", "pf enlan3 99999999999999999999 aa:bb:cc:dd:ee:00", "vf_count"},
		{"pf bad mac", "pf enlan3 16 aa:bb:cc:dd:ee", "mac_prefix"},
		{"vf bad index", "vf enlan3 x 0 true true vfio-pci", "vf_index"},
		{"vf bad vlan", "vf enlan3 1 4k true true vfio-pci", "vlan"},
		{"vf vlan out of range", "vf enlan3 1 99999999999999999999 true true vfio-pci", "vlan"},
		{"vf bad activate", "vf enlan3 1 0 yes true vfio-pci", "activate"},
		{"vf bad rename", "vf enlan3 1 0 true 1 vfio-pci", "rename"},
		{"vf bad driver", "vf enlan3 1 0 true true vfio/pci", "driver"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pfs, vfs, err := Parse(lines(tt.line), nil)
			require.Error(t, err)

			var lineErr *InvalidLineError
			require.ErrorAs(t, err, &lineErr)
			require.Equal(t, tt.line, lineErr.Line)
			require.Equal(t, tt.field, lineErr.Field)

			// Fail-fast: nothing is partially accepted.
			require.Nil(t, pfs)
			require.Nil(t, vfs)
		})
	}
}

func TestParseFailFastStopsAtFirstBadLine(t *testing.T) {
	pfs, vfs, err := Parse(lines(
		"pf enlan3 16 aa:bb:cc:dd:ee:00",
		"vf enlan3 1 0 true true",
		"pf enlan4 8 aa:bb:cc:dd:ef:00",
	), nil)
	require.Error(t, err)
	require.Nil(t, pfs)
	require.Nil(t, vfs)

	var lineErr *InvalidLineError
	require.ErrorAs(t, err, &lineErr)
	require.Equal(t, 2, lineErr.Number)
}
