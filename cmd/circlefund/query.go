package main

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"connectrpc.com/connect"
	"github.com/spf13/cobra"

	"github.com/mmynk/circlefund/pkg/api"
)

const defaultServer = "http://localhost:8080"

func serverFlag(c *cobra.Command, server *string) {
	c.Flags().StringVar(server, "server", defaultServer, "server base URL")
}

func printJSON(c *cobra.Command, v any) error {
	enc := json.NewEncoder(c.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func circlesCommand() *cobra.Command {
	var server string
	c := &cobra.Command{
		Use:   "circles",
		Short: "List every circle",
		Args:  cobra.NoArgs,
		RunE: func(c *cobra.Command, args []string) error {
			client := api.NewCircleServiceClient(http.DefaultClient, server)
			resp, err := client.ListCircles(c.Context(), connect.NewRequest(&api.ListCirclesRequest{}))
			if err != nil {
				return err
			}
			return printJSON(c, resp.Msg.Circles)
		},
	}
	serverFlag(c, &server)
	return c
}

func positionsCommand() *cobra.Command {
	var server string
	c := &cobra.Command{
		Use:   "positions <circle-id>",
		Short: "Show each member's money position in a circle",
		Args:  cobra.ExactArgs(1),
		RunE: func(c *cobra.Command, args []string) error {
			client := api.NewCircleServiceClient(http.DefaultClient, server)
			resp, err := client.GetPositions(c.Context(), connect.NewRequest(&api.GetPositionsRequest{CircleID: args[0]}))
			if err != nil {
				return err
			}
			return printJSON(c, resp.Msg)
		},
	}
	serverFlag(c, &server)
	return c
}

func treasuryCommand() *cobra.Command {
	var server string
	c := &cobra.Command{
		Use:   "treasury",
		Short: "Show treasury balances and fee rates",
		Args:  cobra.NoArgs,
		RunE: func(c *cobra.Command, args []string) error {
			client := api.NewTreasuryServiceClient(http.DefaultClient, server)
			treasury, err := client.GetTreasury(c.Context(), connect.NewRequest(&api.GetTreasuryRequest{}))
			if err != nil {
				return err
			}
			params, err := client.GetRevenueParams(c.Context(), connect.NewRequest(&api.GetRevenueParamsRequest{}))
			if err != nil {
				return err
			}
			return printJSON(c, map[string]any{
				"treasury": treasury.Msg.Treasury,
				"params":   params.Msg.Params,
			})
		},
	}
	serverFlag(c, &server)
	return c
}

func reportCommand() *cobra.Command {
	var server string
	c := &cobra.Command{
		Use:   "report <start-date> <end-date>",
		Short: "Show the revenue report for a period",
		Long:  "Show the stored revenue report covering [start-date, end-date), with dates as YYYY-MM-DD in UTC.",
		Args:  cobra.ExactArgs(2),
		RunE: func(c *cobra.Command, args []string) error {
			start, err := time.Parse(time.DateOnly, args[0])
			if err != nil {
				return fmt.Errorf("invalid start date: %w", err)
			}
			end, err := time.Parse(time.DateOnly, args[1])
			if err != nil {
				return fmt.Errorf("invalid end date: %w", err)
			}
			client := api.NewTreasuryServiceClient(http.DefaultClient, server)
			resp, err := client.GetRevenueReport(c.Context(), connect.NewRequest(&api.GetRevenueReportRequest{
				PeriodStart: start.Unix(),
				PeriodEnd:   end.Unix(),
			}))
			if err != nil {
				return err
			}
			return printJSON(c, resp.Msg.Report)
		},
	}
	serverFlag(c, &server)
	return c
}
