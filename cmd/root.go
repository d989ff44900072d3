// Package cmd implements the vendabot CLI using cobra.
package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

const version = "0.1.0"
const logo = "🤝"

// rootCmd is the base command.
var rootCmd = &cobra.Command{
	Use:   "vendabot",
	Short: logo + " vendabot: autonomous sales agent",
	Long:  logo + " vendabot: a conversational sales agent that looks up products, creates payment links and nurtures leads while it talks",
}

// Execute runs the root command and exits on error.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.Version = version

	rootCmd.AddCommand(onboardCmd)
	rootCmd.AddCommand(chatCmd)
	rootCmd.AddCommand(gatewayCmd)
	rootCmd.AddCommand(skillsCmd)
	rootCmd.AddCommand(ingestCmd)
	rootCmd.AddCommand(statusCmd)
}
