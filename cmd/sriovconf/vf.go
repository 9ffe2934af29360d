package main

import (
	"context"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"example.com/sriovconf/pkg/netdev"
	"example.com/sriovconf/pkg/provision"
	"example.com/sriovconf/pkg/validate"
)

var vfDryRun bool

var vfCmd = &cobra.Command{
	Use:   "vf <device> <index>",
	Short: "Provision a single VF",
	Long: `Provision one VF identified by its PF device and VF index. The VF
must be present in the resolved configuration.

Examples:
  sriovconf vf enlan3 0
  sriovconf vf enlan3 0 --dry-run`,
	Args: cobra.ExactArgs(2),
	RunE: runVF,
}

func init() {
	rootCmd.AddCommand(vfCmd)
	vfCmd.Flags().BoolVar(&vfDryRun, "dry-run", false, "Log intended actions without changing device state")
}

func runVF(cmd *cobra.Command, args []string) error {
	device := args[0]
	if !validate.IsDeviceName(device) {
		return errors.Errorf("invalid device name: %q", device)
	}
	if !validate.IsCount(args[1]) {
		return errors.Errorf("invalid vf index: %q", args[1])
	}
	vfIndex, _ := strconv.Atoi(args[1])

	_, _, vfConfig, err := loadResolvedConfig()
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	p := provision.New(netdev.NewSysfs(), vfDryRun)
	return p.ProvisionVFByLabel(ctx, vfConfig, device, vfIndex)
}
