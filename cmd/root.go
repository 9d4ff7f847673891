package cmd

import (
	"fmt"

	"golang-w5500d/internal/pkg/config"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var rootCmd = func() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "golang-w5500d",
		Short: "golang-w5500d keeps the host configuration of W5500 Ethernet controllers in place",
	}

	cmd.PersistentFlags().String("log-level", "", "override logging.level from the config file")
	cmd.PersistentFlags().String("log-format", "", "override logging.format from the config file")

	_ = viper.BindPFlag("log_level", cmd.PersistentFlags().Lookup("log-level"))
	_ = viper.BindPFlag("log_format", cmd.PersistentFlags().Lookup("log-format"))

	viper.SetEnvPrefix("W5500D")
	viper.AutomaticEnv()

	return cmd
}()

// loadConfig reads and validates the config file, then applies flag and environment overrides.
func loadConfig(path string) (*config.Config, error) {
	cfg, err := config.Load(path)
	if err != nil {
		return nil, fmt.Errorf("config error: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation error: %w", err)
	}

	if level := viper.GetString("log_level"); level != "" {
		cfg.Logging.Level = level
	}
	if format := viper.GetString("log_format"); format != "" {
		cfg.Logging.Format = format
	}

	return cfg, nil
}

func Execute() {
	cobra.CheckErr(rootCmd.Execute())
}
