// Command sriovconf provisions SR-IOV virtual functions from a
// declarative, host-aware configuration file.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"example.com/sriovconf/internal/config"
	"example.com/sriovconf/pkg/logger"
)

var (
	// Persistent flags
	configPath string
	hostName   string
	logLevel   string
)

var rootCmd = &cobra.Command{
	Use:   "sriovconf",
	Short: "Declarative SR-IOV VF provisioning",
	Long: `sriovconf creates and configures SR-IOV virtual functions from a
declarative configuration file with global defaults and per-host overrides.

The configuration file is made of sections. Lines under "all:" apply to
every host; lines under a section named after a host apply to that host
only and override the global entries with the same key.

  all:
    pf enlan3 16 aa:bb:cc:dd:ee:00
    vf enlan3 0 100 true true vfio-pci
  hyp01:
    pf enlan3 8 aa:bb:cc:dd:ee:80

Examples:
  sriovconf apply                   # Provision all configured PFs and VFs
  sriovconf apply --dry-run         # Log intended actions without touching devices
  sriovconf vf enlan3 0             # Provision a single VF
  sriovconf report --format yaml    # Show the resolved configuration
  sriovconf validate                # Check the configuration file only`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return logger.SetLevelFromString(logLevel)
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "/etc/sriovconf/sriovconf.conf", "Path to the configuration file")
	rootCmd.PersistentFlags().StringVar(&hostName, "host", "", "Host identity for section matching (default: system hostname)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "Log level: debug, info, warn, error")
}

// hostIdentity returns the host name used for section matching.
func hostIdentity() (string, error) {
	if hostName != "" {
		return hostName, nil
	}
	return os.Hostname()
}

// loadResolvedConfig resolves and parses the configuration for the
// current host identity.
func loadResolvedConfig() (host string, pfConfig map[string]config.PFSpec, vfConfig map[string]config.VFSpec, err error) {
	host, err = hostIdentity()
	if err != nil {
		return "", nil, nil, err
	}

	global, hostLines, err := config.Resolve(configPath, host)
	if err != nil {
		return "", nil, nil, err
	}

	pfConfig, vfConfig, err = config.Parse(global, hostLines)
	if err != nil {
		return "", nil, nil, err
	}
	return host, pfConfig, vfConfig, nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
