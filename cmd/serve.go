package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"golang-w5500d/internal/adapter/dhcp"
	infraDhcp "golang-w5500d/internal/adapter/infrastructure/dhcp"
	"golang-w5500d/internal/adapter/infrastructure/file"
	"golang-w5500d/internal/adapter/infrastructure/network"
	"golang-w5500d/internal/adapter/manual"
	"golang-w5500d/internal/pkg/config"
	"golang-w5500d/internal/pkg/logging"
	"golang-w5500d/internal/port"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var (
	configFlag string
)

// createChipConfigurationManager creates the addressing manager for one chip on its bus
func createChipConfigurationManager(chipName string, chipConfig config.ChipConfig, cb *chipBus) (port.ChipConfigurationManager, error) {
	logger := logging.WithComponentAndChip("serve", chipName)

	if chipConfig.DHCP != nil {
		manager, err := dhcp.NewManager(chipName, chipConfig,
			infraDhcp.NewClientAdapter(),
			network.NewManagerAdapter(),
			file.NewManagerAdapter(),
			cb.bus, cb.locker)
		if err != nil {
			return nil, err
		}
		logger.WithField("interface", chipConfig.DHCP.Interface).Info("Created DHCP chip configuration adapter")
		return manager, nil
	} else if chipConfig.Static != nil {
		manager, err := manual.NewManager(chipName, chipConfig, cb.bus, cb.locker)
		if err != nil {
			return nil, err
		}
		logger.WithFields(logrus.Fields{
			"ip":      chipConfig.Static.IP,
			"netmask": chipConfig.Static.Netmask,
			"gateway": chipConfig.Static.Gateway,
		}).Info("Created manual chip configuration adapter")
		return manager, nil
	}

	return nil, fmt.Errorf("invalid chip configuration: must specify either dhcp or static")
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Apply DHCP or static host configuration to every configured chip",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(configFlag)
		if err != nil {
			return err
		}

		logging.InitLogger(cfg.Logging)

		logger := logging.WithComponent("serve")
		logger.WithField("config_file", configFlag).Info("Starting daemon")

		// Create context for graceful shutdown
		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		// Handle shutdown signals
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		go func() {
			sig := <-sigChan
			logger.WithField("signal", sig.String()).Info("Received shutdown signal")
			cancel()
		}()

		var managers []port.ChipConfigurationManager
		var buses []*chipBus
		defer func() {
			for _, cb := range buses {
				if err := cb.close(); err != nil {
					logger.WithError(err).Warn("Failed to close bus")
				}
			}
		}()

		for chipName, chipConfig := range cfg.Chips {
			chipLogger := logger.WithField("chip", chipName)

			cb, err := openChipBus(chipConfig.Bus)
			if err != nil {
				chipLogger.WithError(err).Error("Failed to open chip bus")
				continue
			}
			buses = append(buses, cb)

			if err := cb.probe(ctx); err != nil {
				chipLogger.WithError(err).Error("Chip did not answer probe")
				continue
			}

			manager, err := createChipConfigurationManager(chipName, chipConfig, cb)
			if err != nil {
				chipLogger.WithError(err).Error("Failed to create chip configuration adapter")
				continue
			}
			managers = append(managers, manager)
		}

		if len(managers) == 0 {
			logger.Warn("No chip configuration adapters created")
			return nil
		}

		logger.WithField("adapter_count", len(managers)).Info("Starting chip configuration adapters")

		// Start all chip configuration adapters concurrently
		var wg sync.WaitGroup
		for _, manager := range managers {
			wg.Add(1)
			go func(mgr port.ChipConfigurationManager) {
				defer wg.Done()

				if err := mgr.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
					logger.WithField("chip", mgr.GetChipName()).WithError(err).Error("Chip configuration adapter failed")
				}
			}(manager)
		}

		wg.Wait()
		logger.Info("All chip configuration adapters stopped")
		return nil
	},
}

func init() {
	serveCmd.Flags().StringVarP(&configFlag, "config", "f", "", "Path to config file (YAML)")
	if err := serveCmd.MarkFlagRequired("config"); err != nil {
		panic(err) // This should never happen during initialization
	}
	rootCmd.AddCommand(serveCmd)
}
