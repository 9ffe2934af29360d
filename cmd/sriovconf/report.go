package main

import (
	"fmt"
	"strings"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"example.com/sriovconf/pkg/netdev"
	"example.com/sriovconf/pkg/report"
)

var reportFormat string

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Show the resolved configuration",
	Long: `Show the PF and VF configuration resolved for this host, after
global/host override merging. PF rows are enriched with the live driver
name, PCI bus info and permanent MAC where the interface exists.

This is a pure read: nothing is provisioned.

Examples:
  sriovconf report                  # Table output
  sriovconf report --format json
  sriovconf report --format yaml`,
	RunE: runReport,
}

func init() {
	rootCmd.AddCommand(reportCmd)
	reportCmd.Flags().StringVar(&reportFormat, "format", "table", "Output format: table, json, yaml")
}

func runReport(cmd *cobra.Command, args []string) error {
	host, pfConfig, vfConfig, err := loadResolvedConfig()
	if err != nil {
		return err
	}

	r := report.Build(host, pfConfig, vfConfig)
	r.Enrich(netdev.QueryDriverInfo)

	var out string
	switch strings.ToLower(reportFormat) {
	case "table":
		out = r.Table()
	case "json":
		out, err = r.JSON()
	case "yaml":
		out, err = r.YAML()
	default:
		return errors.Errorf("invalid format: %s. Use: table, json, or yaml", reportFormat)
	}
	if err != nil {
		return err
	}

	fmt.Println(out)
	return nil
}
