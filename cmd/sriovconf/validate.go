package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate the configuration file",
	Long: `Resolve and parse the configuration for this host without touching
any device. Exits non-zero on the first malformed line.`,
	RunE: runValidate,
}

func init() {
	rootCmd.AddCommand(validateCmd)
}

func runValidate(cmd *cobra.Command, args []string) error {
	host, pfConfig, vfConfig, err := loadResolvedConfig()
	if err != nil {
		return err
	}

	fmt.Printf("Configuration OK for host %s: %d pf entries, %d vf entries\n",
		host, len(pfConfig), len(vfConfig))
	return nil
}
