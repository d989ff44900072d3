package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vendabot/vendabot/internal/config"
	"github.com/vendabot/vendabot/internal/dependency"
)

var skillsCmd = &cobra.Command{
	Use:   "skills",
	Short: "List the skills available to the agent",
	RunE:  runSkills,
}

func runSkills(_ *cobra.Command, _ []string) error {
	cfg, err := config.Load(config.ConfigPath())
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	container, err := dependency.New(cfg)
	if err != nil {
		return err
	}
	defer container.Close()

	descriptors := container.Engine().AvailableSkills()
	fmt.Printf("%d skills available:\n\n", len(descriptors))
	for _, d := range descriptors {
		fmt.Printf("  %-24s %s\n", d.Name, d.Description)
	}
	return nil
}
