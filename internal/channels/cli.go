package channels

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/vendabot/vendabot/internal/bus"
)

var cliExitCommands = map[string]bool{
	"exit":  true,
	"quit":  true,
	"/exit": true,
	"/quit": true,
	":q":    true,
}

// cliCustomerPhone is the synthetic lead key for the local operator.
const cliCustomerPhone = "cli"

// CLIChannel wires the terminal into the agent for local testing: each line
// typed becomes an inbound message and the agent's reply is printed.
type CLIChannel struct {
	Base
	replies chan bus.OutboundMessage
}

func NewCLIChannel(b bus.Bus) *CLIChannel {
	return &CLIChannel{
		Base:    NewBase(bus.ChannelCLI, b, nil),
		replies: make(chan bus.OutboundMessage, 8),
	}
}

func (c *CLIChannel) Name() string { return bus.ChannelCLI }

// Start runs the stdin REPL until ctx is cancelled or stdin closes.
func (c *CLIChannel) Start(ctx context.Context) error {
	fmt.Printf("Canal CLI pronto. Digite 'exit' ou Ctrl+C para sair.\n\n")

	scanner := bufio.NewScanner(os.Stdin)
	for {
		fmt.Print("Cliente: ")

		scanDone := make(chan bool, 1)
		go func() { scanDone <- scanner.Scan() }()

		select {
		case ok := <-scanDone:
			if !ok {
				return nil
			}
		case <-ctx.Done():
			return ctx.Err()
		}

		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		if cliExitCommands[strings.ToLower(line)] {
			return nil
		}

		c.HandleMessage(cliCustomerPhone, "", line, nil)
		c.waitForReply(ctx)
	}
}

func (c *CLIChannel) waitForReply(ctx context.Context) {
	select {
	case msg := <-c.replies:
		fmt.Printf("\nVendabot: %s\n\n", msg.Content)
	case <-ctx.Done():
	}
}

// Send hands the agent's reply to the REPL loop for printing.
func (c *CLIChannel) Send(_ context.Context, msg bus.OutboundMessage) error {
	c.replies <- msg
	return nil
}
