package main

import (
	"context"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"example.com/sriovconf/pkg/logger"
	"example.com/sriovconf/pkg/netdev"
	"example.com/sriovconf/pkg/provision"
)

var applyDryRun bool

var applyCmd = &cobra.Command{
	Use:   "apply",
	Short: "Provision all configured PFs and VFs",
	Long: `Provision every PF and VF in the resolved configuration.

PFs are provisioned first: existing VFs are torn down, the configured
number is recreated and per-VF MAC addresses are assigned. VFs are then
configured one by one: VLAN, driver binding and interface rename.

Any failure aborts the run immediately; already-applied changes are left
in place and a re-run after fixing the cause converges to the same
final state.`,
	RunE: runApply,
}

func init() {
	rootCmd.AddCommand(applyCmd)
	applyCmd.Flags().BoolVar(&applyDryRun, "dry-run", false, "Log intended actions without changing device state")
}

func runApply(cmd *cobra.Command, args []string) error {
	host, pfConfig, vfConfig, err := loadResolvedConfig()
	if err != nil {
		return err
	}
	logger.WithField("host", host).Info("applying configuration")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	p := provision.New(netdev.NewSysfs(), applyDryRun)

	if err := p.ProvisionPFs(pfConfig); err != nil {
		return err
	}
	return p.ProvisionVFs(ctx, vfConfig)
}
