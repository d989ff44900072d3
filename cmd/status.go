package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/vendabot/vendabot/internal/config"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show configuration status",
	RunE:  runStatus,
}

func runStatus(_ *cobra.Command, _ []string) error {
	cfgPath := config.ConfigPath()
	fmt.Printf("%s vendabot %s\n\n", logo, version)

	if _, err := os.Stat(cfgPath); err != nil {
		fmt.Printf("Config:    missing (run 'vendabot onboard')\n")
		return nil
	}
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	fmt.Printf("Config:    %s\n", cfgPath)
	fmt.Printf("Data:      %s\n", config.DataDir())
	fmt.Printf("Workspace: %s\n", cfg.Workspace)
	fmt.Printf("Model:     %s\n", cfg.Agent.Model)
	if cfg.Provider.APIKey == "" {
		fmt.Println("API key:   not set")
	} else {
		fmt.Println("API key:   set")
	}

	fmt.Printf("Leads:     %s\n", cfg.Leads.Backend)
	fmt.Printf("Channels:  whatsapp=%v telegram=%v\n",
		cfg.Channels.WhatsApp.Enabled, cfg.Channels.Telegram.Enabled)
	fmt.Printf("Slack:     %v\n", cfg.Slack.Enabled)
	fmt.Printf("Metrics:   %v (%s)\n", cfg.Metrics.Enabled, cfg.Metrics.Addr)
	return nil
}
