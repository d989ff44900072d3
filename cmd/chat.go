package cmd

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/vendabot/vendabot/internal/config"
	"github.com/vendabot/vendabot/internal/dependency"
)

var (
	chatMessage string
	chatPhone   string
)

var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Talk to the sales agent from the terminal",
	RunE:  runChat,
}

func init() {
	chatCmd.Flags().StringVarP(&chatMessage, "message", "m", "", "Send a single message and exit")
	chatCmd.Flags().StringVarP(&chatPhone, "phone", "p", "cli", "Customer phone to impersonate")
}

var exitCommands = map[string]bool{
	"exit":  true,
	"quit":  true,
	"/exit": true,
	"/quit": true,
	":q":    true,
}

func runChat(_ *cobra.Command, _ []string) error {
	cfg, err := config.Load(config.ConfigPath())
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	container, err := dependency.New(cfg)
	if err != nil {
		return err
	}
	defer container.Close()

	if chatMessage != "" {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
		defer cancel()
		fmt.Println(container.Agent().ProcessDirect(ctx, chatPhone, chatMessage))
		return nil
	}

	fmt.Printf("%s Interactive mode (type 'exit' or Ctrl+C to quit)\n\n", logo)
	scanner := bufio.NewScanner(os.Stdin)
	for {
		fmt.Print("Cliente: ")
		if !scanner.Scan() {
			return nil
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		if exitCommands[strings.ToLower(line)] {
			return nil
		}

		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
		reply := container.Agent().ProcessDirect(ctx, chatPhone, line)
		cancel()
		fmt.Printf("\nVendabot: %s\n\n", reply)
	}
}
