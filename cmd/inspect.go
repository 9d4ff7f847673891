package cmd

import (
	"context"
	"fmt"
	"io"
	"sort"
	"time"

	"golang-w5500d/internal/chip"
	"golang-w5500d/internal/pkg/config"
	"golang-w5500d/internal/pkg/logging"

	"github.com/spf13/cobra"
)

const inspectLockTimeout = 5 * time.Second

var inspectConfigFlag string

var inspectCmd = &cobra.Command{
	Use:   "inspect [chip]",
	Short: "Probe configured chips and print the host configuration they hold",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(inspectConfigFlag)
		if err != nil {
			return err
		}
		logging.InitLogger(cfg.Logging)

		names := make([]string, 0, len(cfg.Chips))
		if len(args) == 1 {
			if _, ok := cfg.GetChipConfig(args[0]); !ok {
				return fmt.Errorf("chip %s is not configured", args[0])
			}
			names = append(names, args[0])
		} else {
			for name := range cfg.Chips {
				names = append(names, name)
			}
			sort.Strings(names)
		}

		for _, name := range names {
			chipConfig, _ := cfg.GetChipConfig(name)
			if err := inspectChip(cmd.Context(), cmd.OutOrStdout(), name, chipConfig); err != nil {
				fmt.Fprintf(cmd.OutOrStdout(), "%s: %v\n", name, err)
			}
		}
		return nil
	},
}

// inspectChip probes one chip and writes its link state and host configuration to w.
func inspectChip(ctx context.Context, w io.Writer, name string, chipConfig config.ChipConfig) error {
	cb, err := openChipBus(chipConfig.Bus)
	if err != nil {
		return err
	}
	defer cb.close()

	logger := logging.WithComponentAndChip("inspect", name)

	ctx, cancel := context.WithTimeout(ctx, inspectLockTimeout)
	defer cancel()

	if err := cb.locker.Lock(ctx); err != nil {
		return fmt.Errorf("failed to acquire bus: %w", err)
	}
	defer cb.unlock(logger)

	if err := chip.Probe(cb.bus); err != nil {
		return err
	}
	up, err := chip.LinkUp(cb.bus)
	if err != nil {
		return err
	}
	hostConfig, err := chip.ReadHostConfig(cb.bus)
	if err != nil {
		return err
	}

	link := "down"
	if up {
		link = "up"
	}
	fmt.Fprintf(w, "%s:\n  link:    %s\n  mac:     %s\n  ip:      %s\n  subnet:  %s\n  gateway: %s\n",
		name, link, hostConfig.MAC, hostConfig.IP, hostConfig.Subnet, hostConfig.Gateway)
	return nil
}

func init() {
	inspectCmd.Flags().StringVarP(&inspectConfigFlag, "config", "f", "", "Path to config file (YAML)")
	if err := inspectCmd.MarkFlagRequired("config"); err != nil {
		panic(err) // This should never happen during initialization
	}
	rootCmd.AddCommand(inspectCmd)
}
