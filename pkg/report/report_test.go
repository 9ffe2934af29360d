package report

import (
	"encoding/json"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"example.com/sriovconf/internal/config"
	"example.com/sriovconf/pkg/netdev"
)

func sampleConfig() (map[string]config.PFSpec, map[string]config.VFSpec) {
	pfs := map[string]config.PFSpec{
		"enlan4": {Device: "enlan4", VFCount: 8, MACPrefix: "aa:bb:cc:dd:ef:00"},
		"enlan3": {Device: "enlan3", VFCount: 16, MACPrefix: "aa:bb:cc:dd:ee:00", Comment: "uplink"},
	}
	vfs := map[string]config.VFSpec{
		"enlan3vf1": {Device: "enlan3", VFIndex: 1, VLAN: 200, Driver: "mlx5_core"},
		"enlan3vf0": {Device: "enlan3", VFIndex: 0, VLAN: 100, Activate: true, Rename: true, Driver: "vfio-pci"},
	}
	return pfs, vfs
}

func TestBuildSorted(t *testing.T) {
	pfs, vfs := sampleConfig()
	r := Build("hyp01", pfs, vfs)

	require.Equal(t, "hyp01", r.Host)

	require.Len(t, r.PFs, 2)
	require.Equal(t, "enlan3", r.PFs[0].Device)
	require.Equal(t, "enlan4", r.PFs[1].Device)
	require.Equal(t, "uplink", r.PFs[0].Comment)

	require.Len(t, r.VFs, 2)
	require.Equal(t, "enlan3vf0", r.VFs[0].Label)
	require.Equal(t, "enlan3vf1", r.VFs[1].Label)
	require.True(t, r.VFs[0].Activate)
}

func TestEnrich(t *testing.T) {
	pfs, vfs := sampleConfig()
	r := Build("hyp01", pfs, vfs)

	r.Enrich(func(device string) (*netdev.DriverInfo, error) {
		if device != "enlan3" {
			return nil, errors.New("no such device")
		}
		return &netdev.DriverInfo{
			Driver:   "mlx5_core",
			BusInfo:  "0000:01:00.0",
			PermAddr: "aa:bb:cc:dd:ee:00",
		}, nil
	})

	require.Equal(t, "mlx5_core", r.PFs[0].Driver)
	require.Equal(t, "0000:01:00.0", r.PFs[0].BusInfo)

	// Enrichment failures leave the row blank instead of failing.
	require.Equal(t, "", r.PFs[1].Driver)
}

func TestJSONRoundTrip(t *testing.T) {
	pfs, vfs := sampleConfig()
	out, err := Build("hyp01", pfs, vfs).JSON()
	require.NoError(t, err)

	var decoded Report
	require.NoError(t, json.Unmarshal([]byte(out), &decoded))
	require.Equal(t, "hyp01", decoded.Host)
	require.Len(t, decoded.PFs, 2)
	require.Equal(t, 16, decoded.PFs[0].VFCount)
}

func TestYAMLRoundTrip(t *testing.T) {
	pfs, vfs := sampleConfig()
	out, err := Build("hyp01", pfs, vfs).YAML()
	require.NoError(t, err)

	var decoded Report
	require.NoError(t, yaml.Unmarshal([]byte(out), &decoded))
	require.Equal(t, "hyp01", decoded.Host)
	require.Len(t, decoded.VFs, 2)
	require.Equal(t, "vfio-pci", decoded.VFs[0].Driver)
}

func TestTable(t *testing.T) {
	pfs, vfs := sampleConfig()
	out := Build("hyp01", pfs, vfs).Table()

	require.Contains(t, out, "Host: hyp01")
	require.Contains(t, out, "enlan3")
	require.Contains(t, out, "enlan3vf0")
	require.Contains(t, out, "aa:bb:cc:dd:ee:00")
	require.Contains(t, out, "vfio-pci")
}
