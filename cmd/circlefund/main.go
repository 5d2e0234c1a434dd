// Command circlefund is the operator CLI for a circlefund server.
package main

import (
	"context"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"github.com/mmynk/circlefund/pkg/logging"
)

func main() {
	logging.Setup()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := rootCommand().ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}

func rootCommand() *cobra.Command {
	c := &cobra.Command{
		Use:          "circlefund",
		Short:        "Operate a circlefund ledger server",
		SilenceUsage: true,
	}
	c.AddCommand(
		tokenCommand(),
		circlesCommand(),
		positionsCommand(),
		treasuryCommand(),
		reportCommand(),
	)
	return c
}
