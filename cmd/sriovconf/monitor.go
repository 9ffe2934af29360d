package main

import (
	"context"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"

	"example.com/sriovconf/pkg/logger"
)

const sysClassNet = "/sys/class/net"

var monitorCmd = &cobra.Command{
	Use:   "monitor",
	Short: "Watch configured PF devices for SR-IOV changes",
	Long: `Watch the sysfs subtrees of the configured PF devices and log VF
count and virtfn changes as they happen. Runs in the foreground until
interrupted; nothing is provisioned.

Examples:
  sriovconf monitor
  sriovconf monitor --log-level debug`,
	RunE: runMonitor,
}

func init() {
	rootCmd.AddCommand(monitorCmd)
}

func runMonitor(cmd *cobra.Command, args []string) error {
	_, pfConfig, _, err := loadResolvedConfig()
	if err != nil {
		return err
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer watcher.Close()

	watched := 0
	for device := range pfConfig {
		path := filepath.Join(sysClassNet, device, "device")
		if err := watcher.Add(path); err != nil {
			logger.WithError(err).WithField("device", device).Warn("failed to watch device")
			continue
		}
		logger.WithField("device", device).Debug("watching device")
		watched++
	}
	if watched == 0 {
		logger.Warn("no configured pf device could be watched")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	logger.Info("monitoring %d pf devices", watched)
	for {
		select {
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			handleMonitorEvent(event)
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logger.WithError(err).Error("watcher error")
		case <-ctx.Done():
			logger.Info("stopping monitor")
			return nil
		}
	}
}

// handleMonitorEvent logs SR-IOV relevant sysfs changes and ignores the
// rest of the device directory noise.
func handleMonitorEvent(event fsnotify.Event) {
	name := filepath.Base(event.Name)
	switch {
	case name == "sriov_numvfs":
		logger.WithField("path", event.Name).Info("vf count changed")
	case strings.HasPrefix(name, "virtfn"):
		logger.WithFields(map[string]interface{}{
			"path": event.Name,
			"op":   event.Op.String(),
		}).Info("virtfn changed")
	default:
		logger.WithField("path", event.Name).Debug("ignoring event")
	}
}
